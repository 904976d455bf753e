package input

import (
	"log"
	"sync"
	"time"

	"git.lost.host/meutraa/flick/internal/clock"
	"git.lost.host/meutraa/flick/internal/game"
	"github.com/eiannone/keyboard"
)

// Keys laid out as a 3x3 grid over the screen, row by row.
const gridKeys = "qweasdzxc"

const flickTime = 40 * time.Millisecond

// KeyPoint returns the screen point a grid key presses, and whether r is a
// grid key at all. Upper case keys map to the same point.
func KeyPoint(r rune, p game.Params) (game.Point, bool) {
	if r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}
	for i, k := range gridKeys {
		if k != r {
			continue
		}
		col, row := i%3, i/3
		return game.Point{
			X: p.ScreenWidth * float64(col+1) / 4,
			Y: p.ScreenHeight * float64(row+1) / 4,
		}, true
	}
	return game.Point{}, false
}

// flickVector throws outward from the middle of the screen, or up from the
// middle itself.
func flickVector(pt game.Point, p game.Params) game.Point {
	centre := game.Point{X: p.ScreenWidth / 2, Y: p.ScreenHeight / 2}
	dir := pt.Sub(centre).Unit()
	if dir == (game.Point{}) {
		dir = game.Point{Y: -1}
	}
	return dir.Scale(p.HitRadius * 2)
}

// Keyboard turns terminal key presses into input events. A terminal never
// reports key releases, so each press is released after a fixed hold time.
// Space latches every press until it is pressed again, for hold notes.
type Keyboard struct {
	clock  clock.Clock
	params game.Params
	hold   time.Duration

	events   chan<- Event
	controls chan<- Control

	mu      sync.Mutex
	latched bool
	held    map[int]game.Point
}

func NewKeyboard(c clock.Clock, p game.Params, hold time.Duration, events chan<- Event, controls chan<- Control) *Keyboard {
	return &Keyboard{
		clock:    c,
		params:   p,
		hold:     hold,
		events:   events,
		controls: controls,
		held:     map[int]game.Point{},
	}
}

// Read opens the keyboard and feeds events until Esc or Close.
func (k *Keyboard) Read() error {
	keys, err := keyboard.GetKeys(128)
	if nil != err {
		return err
	}
	go func() {
		for key := range keys {
			if nil != key.Err {
				log.Println("unable to read keyboard", key.Err)
				return
			}
			if !k.handle(key.Rune, key.Key) {
				return
			}
		}
	}()
	return nil
}

func (k *Keyboard) Close() {
	if err := keyboard.Close(); nil != err {
		log.Println("unable to close keyboard", err)
	}
}

func (k *Keyboard) handle(r rune, key keyboard.Key) bool {
	switch {
	case key == keyboard.KeyEsc || key == keyboard.KeyCtrlC:
		k.controls <- Stop
		return false
	case key == keyboard.KeySpace:
		k.toggleLatch()
		return true
	case r == 'p':
		k.controls <- TogglePause
		return true
	}

	pt, ok := KeyPoint(r, k.params)
	if !ok {
		return true
	}
	contact := int(r)
	if r >= 'A' && r <= 'Z' {
		k.flick(contact, pt)
		return true
	}
	k.press(contact, pt)
	return true
}

func (k *Keyboard) send(kind Kind, contact int, pt game.Point) {
	k.events <- Event{Kind: kind, Contact: contact, Point: pt, Time: k.clock.Now()}
}

func (k *Keyboard) press(contact int, pt game.Point) {
	k.mu.Lock()
	if _, down := k.held[contact]; down {
		k.mu.Unlock()
		return
	}
	k.held[contact] = pt
	latched := k.latched
	k.mu.Unlock()

	k.send(Press, contact, pt)
	if latched {
		return
	}
	time.AfterFunc(k.hold, func() {
		k.mu.Lock()
		latched := k.latched
		_, down := k.held[contact]
		if !latched {
			delete(k.held, contact)
		}
		k.mu.Unlock()
		if down && !latched {
			k.send(Release, contact, pt)
		}
	})
}

func (k *Keyboard) flick(contact int, pt game.Point) {
	to := pt.Add(flickVector(pt, k.params))
	k.events <- Event{Kind: Press, Contact: contact, Point: pt, Time: k.clock.Now(), Throw: true}
	time.AfterFunc(flickTime, func() {
		k.send(Move, contact, to)
		k.send(Release, contact, to)
	})
}

func (k *Keyboard) toggleLatch() {
	k.mu.Lock()
	k.latched = !k.latched
	var release map[int]game.Point
	if !k.latched {
		release = k.held
		k.held = map[int]game.Point{}
	}
	k.mu.Unlock()
	for contact, pt := range release {
		k.send(Release, contact, pt)
	}
}
