package game

import "math"

type Point struct {
	X, Y float64
}

func (p Point) Add(v Point) Point     { return Point{p.X + v.X, p.Y + v.Y} }
func (p Point) Sub(v Point) Point     { return Point{p.X - v.X, p.Y - v.Y} }
func (p Point) Scale(f float64) Point { return Point{p.X * f, p.Y * f} }
func (p Point) Dot(v Point) float64   { return p.X*v.X + p.Y*v.Y }
func (p Point) Len() float64          { return math.Hypot(p.X, p.Y) }
func (p Point) Dist(v Point) float64  { return p.Sub(v).Len() }
func (p Point) Lerp(to Point, t float64) Point {
	return Point{p.X + (to.X-p.X)*t, p.Y + (to.Y-p.Y)*t}
}

// Unit returns the direction of p, or the zero vector.
func (p Point) Unit() Point {
	l := p.Len()
	if l == 0 {
		return Point{}
	}
	return p.Scale(1 / l)
}

// RodAxis is the unit vector along a rod at angle degrees.
func RodAxis(angle float64) Point {
	r := angle * math.Pi / 180
	return Point{math.Cos(r), math.Sin(r)}
}

// RodNormal is the outward normal of a rod at angle degrees.
func RodNormal(angle float64) Point {
	r := angle * math.Pi / 180
	return Point{-math.Sin(r), math.Cos(r)}
}

func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
