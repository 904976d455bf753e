package engine

import (
	"math"
	"strings"
	"testing"
	"time"

	"git.lost.host/meutraa/flick/internal/clock"
	"git.lost.host/meutraa/flick/internal/game"
	"git.lost.host/meutraa/flick/internal/input"
	"git.lost.host/meutraa/flick/internal/sched"
)

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}

func wall(d time.Duration) clock.Time {
	return clock.Time{Domain: clock.Wall, At: d}
}

type recorder struct {
	events []Event
}

func (r *recorder) observe(e Event) {
	r.events = append(r.events, e)
}

func (r *recorder) judged() []Judged {
	var out []Judged
	for _, e := range r.events {
		if j, ok := e.(Judged); ok {
			out = append(out, j)
		}
	}
	return out
}

func (r *recorder) removed() []Removed {
	var out []Removed
	for _, e := range r.events {
		if rm, ok := e.(Removed); ok {
			out = append(out, rm)
		}
	}
	return out
}

func (r *recorder) finished() bool {
	for _, e := range r.events {
		if _, ok := e.(Finished); ok {
			return true
		}
	}
	return false
}

func (r *recorder) spawned() []Spawned {
	var out []Spawned
	for _, e := range r.events {
		if sp, ok := e.(Spawned); ok {
			out = append(out, sp)
		}
	}
	return out
}

type fixture struct {
	s   *Session
	c   *clock.ManualClock
	rec *recorder
}

func newFixture(p game.Params, notes ...game.SheetNote) *fixture {
	c := clock.NewManualClock(clock.Wall)
	rec := &recorder{}
	sheet := &game.Sheet{Title: "test", Notes: notes}
	s := New(sheet, p, c, WithObserver(rec.observe))
	s.Start()
	return &fixture{s: s, c: c, rec: rec}
}

// at moves the clock and fires whatever became due.
func (f *fixture) at(d time.Duration) {
	f.c.Set(d)
	f.s.Advance()
}

func (f *fixture) holdTick(d time.Duration) {
	f.c.Set(d)
	f.s.HoldTick()
}

func (f *fixture) press(contact int, pt game.Point, d time.Duration) {
	f.c.Set(d)
	f.s.Handle(input.Event{Kind: input.Press, Contact: contact, Point: pt, Time: wall(d)})
}

func (f *fixture) release(contact int, pt game.Point, d time.Duration) {
	f.c.Set(d)
	f.s.Handle(input.Event{Kind: input.Release, Contact: contact, Point: pt, Time: wall(d)})
}

var centre = game.Point{X: 500, Y: 400}

func TestTapEndToEnd(t *testing.T) {
	p := game.DefaultParams()
	p.ScreenWidth, p.ScreenHeight = 800, 600
	p.ApproachSpeed = 800
	p.ApproachDistanceFraction = 0.25
	f := newFixture(p, game.SheetNote{ID: 10, Time: 2 * time.Second, X: 0.5, Y: 0.5, Type: game.Tap})

	f.at(1812 * time.Millisecond)
	if len(f.rec.spawned()) != 0 {
		t.Fatal("spawned early")
	}
	f.at(1812500 * time.Microsecond)
	spawned := f.rec.spawned()
	if len(spawned) != 1 {
		t.Fatal("not spawned at 1.8125s")
	}
	note := spawned[0].Note
	if note.SheetID != 10 || note.ID == 0 {
		t.Errorf("ids = %v %v", note.ID, note.SheetID)
	}
	if _, ok := f.s.registry.Pending(note.ID, sched.Expire); !ok {
		t.Fatal("no expiry scheduled")
	}

	f.press(1, game.Point{X: 400, Y: 300}, 2050*time.Millisecond)
	judged := f.rec.judged()
	if len(judged) != 1 || judged[0].Tier != game.Perfect || judged[0].Points != 3 {
		t.Fatalf("judged = %+v", judged)
	}
	stats := f.s.Stats()
	if stats.Score != 3 || stats.Combo != 1 || stats.MaxCombo != 1 || stats.Perfect != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if _, ok := f.s.Note(note.ID); ok {
		t.Error("note not removed")
	}
	if _, ok := f.s.registry.Pending(note.ID, sched.Expire); ok {
		t.Error("expiry not cancelled")
	}

	f.at(10 * time.Second)
	if len(f.rec.judged()) != 1 {
		t.Error("note judged twice")
	}
	if !f.rec.finished() || f.s.State() != StateDone {
		t.Error("session did not finish")
	}
	if f.s.Retired() != 1 || f.s.Total() != 1 {
		t.Errorf("retired %v of %v", f.s.Retired(), f.s.Total())
	}
}

func TestExpiryIsAMiss(t *testing.T) {
	f := newFixture(game.DefaultParams(),
		game.SheetNote{ID: 1, Time: time.Second, X: 0.2, Y: 0.2, Type: game.Tap},
		game.SheetNote{ID: 2, Time: 1500 * time.Millisecond, X: 0.5, Y: 0.5, Type: game.Tap},
	)
	f.at(1500 * time.Millisecond)
	f.press(1, game.Point{X: 200, Y: 160}, 1500*time.Millisecond)
	if f.s.Stats().Combo != 1 {
		t.Fatalf("stats = %+v", f.s.Stats())
	}

	f.at(3750 * time.Millisecond)
	stats := f.s.Stats()
	if stats.Miss != 0 {
		t.Fatalf("expired early: %+v", stats)
	}
	// spawn at 1.25s plus the 3s lifetime
	f.at(4250 * time.Millisecond)
	stats = f.s.Stats()
	if stats.Miss != 1 || stats.Combo != 0 || stats.MaxCombo != 1 {
		t.Errorf("stats = %+v", stats)
	}
	removed := f.rec.removed()
	if len(removed) != 2 || removed[1].Reason != Expired {
		t.Errorf("removed = %+v", removed)
	}

	// a press after the expiry finds nothing
	f.press(2, centre, 4300*time.Millisecond)
	if f.s.Stats().Judged() != 2 {
		t.Errorf("stats = %+v", f.s.Stats())
	}
}

func TestTapPicksClosestInTime(t *testing.T) {
	f := newFixture(game.DefaultParams(),
		game.SheetNote{ID: 1, Time: time.Second, X: 0.5, Y: 0.5, Type: game.Tap},
		game.SheetNote{ID: 2, Time: 1300 * time.Millisecond, X: 0.5, Y: 0.5, Type: game.Tap},
	)
	f.at(1050 * time.Millisecond)
	f.press(1, centre, 1200*time.Millisecond)
	judged := f.rec.judged()
	if len(judged) != 1 || judged[0].ID != 2 {
		t.Errorf("judged = %+v", judged)
	}
}

func TestTapEarliestAcceptGate(t *testing.T) {
	p := game.DefaultParams()
	p.EarliestAccept = 100 * time.Millisecond
	f := newFixture(p, game.SheetNote{ID: 1, Time: 3 * time.Second, X: 0.5, Y: 0.5, Type: game.Tap})
	f.at(2800 * time.Millisecond)
	f.press(1, centre, 2800*time.Millisecond)
	if len(f.rec.judged()) != 0 {
		t.Fatal("accepted before the gate")
	}
	f.press(2, centre, 2950*time.Millisecond)
	if judged := f.rec.judged(); len(judged) != 1 || judged[0].Tier != game.Perfect {
		t.Errorf("judged = %+v", judged)
	}
}

func TestTapOutsideWindowsIsOK(t *testing.T) {
	p := game.DefaultParams()
	p.LifeDuration = 10 * time.Second
	f := newFixture(p, game.SheetNote{ID: 1, Time: time.Second, X: 0.5, Y: 0.5, Type: game.Tap})
	f.at(time.Second)
	f.press(1, centre, 2300*time.Millisecond)
	if judged := f.rec.judged(); len(judged) != 1 || judged[0].Tier != game.OK {
		t.Errorf("judged = %+v", judged)
	}
}

func TestFlick(t *testing.T) {
	p := game.DefaultParams()
	f := newFixture(p, game.SheetNote{ID: 1, Time: time.Second, X: 0.5, Y: 0.5})
	f.at(time.Second)
	f.s.Tick()

	n, ok := f.s.Note(1)
	if !ok || n.Position != centre {
		t.Fatalf("note = %+v", n)
	}
	if !n.Cleared {
		t.Error("not cleared at hit time")
	}

	flick := input.Flick{From: centre, To: game.Point{X: 500, Y: 300}, Vector: game.Point{Y: -100}, At: wall(time.Second)}
	if !f.s.Flick(1, flick) {
		t.Fatal("flick refused")
	}
	if f.s.Flick(1, flick) {
		t.Error("flicked twice")
	}
	if judged := f.rec.judged(); len(judged) != 1 || judged[0].Tier != game.Perfect {
		t.Fatalf("judged = %+v", judged)
	}
	if n.FlyDir.Y != -1 {
		t.Errorf("fly direction = %v, want up", n.FlyDir)
	}

	f.c.Set(1100 * time.Millisecond)
	f.s.Tick()
	if math.Abs(n.Position.Y-(400-p.FlyOutSpeed*0.1)) > 1e-6 {
		t.Errorf("fly position = %v", n.Position)
	}

	f.at(time.Second + p.FlyOutDuration)
	removed := f.rec.removed()
	if len(removed) != 1 || removed[0].Reason != FlownOut {
		t.Errorf("removed = %+v", removed)
	}
	f.at(10 * time.Second)
	if f.s.Stats().Miss != 0 {
		t.Error("flicked note expired")
	}
}

func TestFlickDirectionPicksBetterNormal(t *testing.T) {
	f := newFixture(game.DefaultParams(), game.SheetNote{ID: 1, Time: time.Second, X: 0.5, Y: 0.5, Angle: 90})
	f.at(time.Second)
	f.s.Flick(1, input.Flick{Vector: game.Point{X: 80, Y: 10}, At: wall(time.Second)})
	n, _ := f.s.Note(1)
	// the rod is vertical, its normals point left and right
	if n.FlyDir.X < 0.99 {
		t.Errorf("fly direction = %v, want right", n.FlyDir)
	}
}

func TestFlickNearestFromRelease(t *testing.T) {
	f := newFixture(game.DefaultParams(),
		game.SheetNote{ID: 1, Time: time.Second, X: 0.5, Y: 0.5},
		game.SheetNote{ID: 2, Time: time.Second, X: 0.1, Y: 0.1},
	)
	f.at(time.Second)
	f.s.Tick()
	f.press(9, game.Point{X: 500, Y: 410}, time.Second)
	if len(f.rec.judged()) != 0 {
		t.Fatal("a press judged a rod")
	}
	f.release(9, game.Point{X: 500, Y: 340}, 1020*time.Millisecond)
	judged := f.rec.judged()
	if len(judged) != 1 || judged[0].ID != 1 {
		t.Fatalf("judged = %+v", judged)
	}

	// a slow drag is not a flick
	f.press(10, game.Point{X: 100, Y: 80}, 1100*time.Millisecond)
	f.release(10, game.Point{X: 100, Y: 70}, 1600*time.Millisecond)
	if len(f.rec.judged()) != 1 {
		t.Error("slow drag flicked")
	}
}

func hold(id int, start, end time.Duration) game.SheetNote {
	return game.SheetNote{ID: id, Time: start, HoldEnd: end, X: 0.5, Y: 0.5, Type: game.Hold}
}

func TestHoldCompletesWithoutRelease(t *testing.T) {
	f := newFixture(game.DefaultParams(), hold(1, time.Second, 2*time.Second))
	f.at(750 * time.Millisecond)
	if len(f.s.HoldTimers()) != 1 {
		t.Fatal("no hold timer")
	}
	f.press(1, centre, 900*time.Millisecond)
	f.holdTick(900 * time.Millisecond)
	n, _ := f.s.Note(1)
	if n.Hold.Started || math.Abs(n.Hold.Fill-0.6) > 1e-9 {
		t.Fatalf("hold = %+v", n.Hold)
	}
	if len(f.rec.judged()) != 0 {
		t.Fatal("judged before the hold started")
	}

	f.holdTick(time.Second)
	if !n.Hold.Started || !n.Hold.Pressed || n.Hold.Fill != 1 {
		t.Fatalf("hold = %+v", n.Hold)
	}
	f.holdTick(1500 * time.Millisecond)
	if n.Hold.Remaining != 500*time.Millisecond || math.Abs(n.Hold.Trim-0.5) > 1e-9 {
		t.Fatalf("hold = %+v", n.Hold)
	}

	f.holdTick(2 * time.Second)
	judged := f.rec.judged()
	if len(judged) != 1 || judged[0].Tier != game.Perfect {
		t.Fatalf("judged = %+v", judged)
	}
	if _, ok := f.s.Note(1); ok {
		t.Error("hold not removed")
	}
	if removed := f.rec.removed(); len(removed) != 1 || removed[0].Reason != Completed {
		t.Errorf("removed = %+v", removed)
	}
	if !f.rec.finished() {
		t.Error("session did not finish")
	}
}

func TestHoldReleaseIsIdempotent(t *testing.T) {
	f := newFixture(game.DefaultParams(), hold(1, time.Second, 2*time.Second))
	f.at(750 * time.Millisecond)
	f.holdTick(time.Second)
	f.press(1, centre, 1100*time.Millisecond)
	if len(f.rec.judged()) != 0 {
		t.Fatal("press judged")
	}
	f.release(1, centre, 1500*time.Millisecond)
	judged := f.rec.judged()
	if len(judged) != 1 || judged[0].Tier != game.Good {
		t.Fatalf("judged = %+v", judged)
	}
	before := f.s.Stats()
	f.release(1, centre, 1510*time.Millisecond)
	if f.s.Stats() != before || len(f.rec.judged()) != 1 {
		t.Errorf("second release changed stats: %+v", f.s.Stats())
	}
}

func TestHoldReleaseTooEarlyIsAMiss(t *testing.T) {
	f := newFixture(game.DefaultParams(), hold(1, time.Second, 3*time.Second))
	f.at(750 * time.Millisecond)
	f.holdTick(time.Second)
	f.press(1, centre, time.Second)
	f.release(1, centre, 1500*time.Millisecond)
	judged := f.rec.judged()
	if len(judged) != 1 || judged[0].Tier != game.Miss || f.s.Stats().Combo != 0 {
		t.Errorf("judged = %+v", judged)
	}
}

func TestHoldNeverPressed(t *testing.T) {
	f := newFixture(game.DefaultParams(), hold(1, time.Second, 2*time.Second))
	f.at(750 * time.Millisecond)
	f.holdTick(time.Second)
	f.holdTick(2400 * time.Millisecond)
	if len(f.rec.judged()) != 0 {
		t.Fatal("dropped inside the grace period")
	}
	// the generic lifetime does not apply to holds
	f.at(3750 * time.Millisecond)
	if len(f.rec.judged()) != 0 {
		t.Fatal("hold expired by lifetime")
	}
	f.holdTick(3800 * time.Millisecond)
	judged := f.rec.judged()
	if len(judged) != 1 || judged[0].Tier != game.Miss {
		t.Fatalf("judged = %+v", judged)
	}
	if removed := f.rec.removed(); len(removed) != 1 || removed[0].Reason != Dropped {
		t.Errorf("removed = %+v", removed)
	}
}

func TestHoldLatePressIsAMiss(t *testing.T) {
	f := newFixture(game.DefaultParams(), hold(1, time.Second, 4*time.Second))
	f.at(750 * time.Millisecond)
	f.holdTick(time.Second)
	f.press(1, centre, 2200*time.Millisecond)
	judged := f.rec.judged()
	if len(judged) != 1 || judged[0].Tier != game.Miss {
		t.Fatalf("judged = %+v", judged)
	}
	if _, ok := f.s.Note(1); ok {
		t.Error("missed hold still active")
	}
}

func TestHoldRetroactivePress(t *testing.T) {
	f := newFixture(game.DefaultParams(), hold(1, time.Second, 2*time.Second))
	f.press(3, centre, 700*time.Millisecond)
	f.at(750 * time.Millisecond)
	n, _ := f.s.Note(1)
	if n.Hold.Pressed {
		t.Fatal("pressed before it existed")
	}
	f.holdTick(time.Second)
	if !n.Hold.Pressed || n.Hold.Contact != 3 {
		t.Fatalf("hold = %+v", n.Hold)
	}
	f.holdTick(2 * time.Second)
	if judged := f.rec.judged(); len(judged) != 1 || judged[0].Tier != game.Perfect {
		t.Errorf("judged = %+v", judged)
	}
}

func TestPauseResumeTiming(t *testing.T) {
	f := newFixture(game.DefaultParams(), game.SheetNote{ID: 1, Time: 3250 * time.Millisecond, X: 0.5, Y: 0.5})
	f.at(2 * time.Second)
	f.s.Pause()

	delays := f.s.PausedDelays()
	if len(delays) != 2 || delays[0].Kind != sched.Spawn || delays[0].Remaining != time.Second {
		t.Fatalf("delays = %+v", delays)
	}
	if delays[1].Kind != sched.Clear || delays[1].Remaining != 1250*time.Millisecond {
		t.Fatalf("delays = %+v", delays)
	}

	f.at(3 * time.Second)
	if len(f.rec.spawned()) != 0 {
		t.Fatal("spawned while paused")
	}

	f.c.Set(10 * time.Second)
	f.s.Resume()
	f.at(10999 * time.Millisecond)
	if len(f.rec.spawned()) != 0 {
		t.Fatal("spawned early after resume")
	}
	f.at(11 * time.Second)
	spawned := f.rec.spawned()
	if len(spawned) != 1 || spawned[0].Note.ApproachStart.At != 11*time.Second {
		t.Fatalf("spawned = %+v", spawned)
	}
	if e := f.s.Elapsed(wall(11 * time.Second)); e != 3*time.Second {
		t.Errorf("song time = %v, want 3s", e)
	}
	f.at(11250 * time.Millisecond)
	n, _ := f.s.Note(1)
	if !n.Cleared {
		t.Error("clear not rescheduled")
	}
}

func TestPauseFreezesMotion(t *testing.T) {
	f := newFixture(game.DefaultParams(), game.SheetNote{ID: 1, Time: time.Second, X: 0.5, Y: 0.5})
	f.at(875 * time.Millisecond)
	f.s.Tick()
	n, _ := f.s.Note(1)
	if math.Abs(n.Position.Y-500) > 1e-9 {
		t.Fatalf("position = %v", n.Position)
	}
	f.s.Pause()
	f.c.Set(5 * time.Second)
	f.s.Tick()
	f.s.Resume()
	f.s.Tick()
	if math.Abs(n.Position.Y-500) > 1e-9 {
		t.Errorf("position after resume = %v", n.Position)
	}
	f.c.Set(5125 * time.Millisecond)
	f.s.Tick()
	if n.Position != centre {
		t.Errorf("position = %v, want target", n.Position)
	}
	// the expiry moved along with everything else: spawn 0.75 + 3s + 4.125 pause
	f.at(7874 * time.Millisecond)
	if f.s.Stats().Miss != 0 {
		t.Fatal("expired early")
	}
	f.at(7875 * time.Millisecond)
	if f.s.Stats().Miss != 1 {
		t.Error("expiry lost over the pause")
	}
}

func TestHoldCompletedWhilePaused(t *testing.T) {
	f := newFixture(game.DefaultParams(), hold(1, time.Second, 2*time.Second))
	f.at(750 * time.Millisecond)
	f.press(1, centre, 900*time.Millisecond)
	f.holdTick(time.Second)

	f.c.Set(2 * time.Second)
	f.s.Pause()
	n, _ := f.s.Note(1)
	if !n.Hold.CompletedWhileStopped || len(f.rec.judged()) != 0 {
		t.Fatalf("hold = %+v", n.Hold)
	}
	if len(f.s.HoldTimers()) != 0 {
		t.Error("hold timer survived the pause")
	}

	f.c.Set(3 * time.Second)
	f.s.Resume()
	if judged := f.rec.judged(); len(judged) != 1 || judged[0].Tier != game.Perfect {
		t.Errorf("judged = %+v", judged)
	}
	if _, ok := f.s.Note(1); ok {
		t.Error("hold not removed")
	}
}

func TestHoldTimerRecreatedOnResume(t *testing.T) {
	f := newFixture(game.DefaultParams(), hold(1, time.Second, 2*time.Second))
	f.at(750 * time.Millisecond)
	f.press(1, centre, 900*time.Millisecond)
	f.holdTick(time.Second)
	f.holdTick(1400 * time.Millisecond)

	f.s.Pause()
	f.c.Set(10 * time.Second)
	f.s.Resume()
	f.s.Resume()
	if timers := f.s.HoldTimers(); len(timers) != 1 {
		t.Fatalf("timers = %v", timers)
	}
	n, _ := f.s.Note(1)
	if n.Hold.Remaining != 600*time.Millisecond {
		t.Fatalf("remaining = %v", n.Hold.Remaining)
	}
	f.holdTick(10580 * time.Millisecond)
	if len(f.rec.judged()) != 0 {
		t.Fatal("completed early")
	}
	f.holdTick(10600 * time.Millisecond)
	if len(f.rec.judged()) != 1 {
		t.Error("hold did not complete after resume")
	}
}

func TestResumeKeepsStats(t *testing.T) {
	f := newFixture(game.DefaultParams(),
		game.SheetNote{ID: 1, Time: time.Second, X: 0.5, Y: 0.5, Type: game.Tap},
		game.SheetNote{ID: 2, Time: 5 * time.Second, X: 0.5, Y: 0.5, Type: game.Tap},
	)
	f.at(time.Second)
	f.press(1, centre, time.Second)
	before := f.s.Stats()
	f.s.Pause()
	f.c.Set(20 * time.Second)
	f.s.Resume()
	if f.s.Stats() != before {
		t.Errorf("stats changed: %+v", f.s.Stats())
	}
}

func TestResumeSkipsUnknownNotes(t *testing.T) {
	f := newFixture(game.DefaultParams(), game.SheetNote{ID: 1, Time: 3 * time.Second, X: 0.5, Y: 0.5})
	f.at(time.Second)
	f.s.Pause()
	f.s.paused = append(f.s.paused, sched.PausedDelay{ID: 99, Kind: sched.Spawn, Remaining: time.Second})
	f.s.Resume()
	if _, ok := f.s.registry.Pending(99, sched.Spawn); ok {
		t.Error("unknown note rescheduled")
	}
	if len(f.s.Diagnostics()) != 1 {
		t.Errorf("diagnostics = %v", f.s.Diagnostics())
	}
}

func TestMalformedNotesAreDropped(t *testing.T) {
	f := newFixture(game.DefaultParams(),
		game.SheetNote{ID: 1, Time: time.Second, X: math.NaN(), Y: 0.5},
		game.SheetNote{ID: 2, Time: time.Second, X: 0.5, Y: 0.5, Type: game.Tap},
	)
	if len(f.s.Diagnostics()) != 1 {
		t.Fatalf("diagnostics = %v", f.s.Diagnostics())
	}
	started, ok := f.rec.events[0].(Started)
	if !ok || started.Notes != 1 {
		t.Fatalf("first event = %+v", f.rec.events[0])
	}
	f.at(time.Second)
	f.press(1, centre, time.Second)
	if f.s.Stats().Perfect != 1 {
		t.Errorf("stats = %+v", f.s.Stats())
	}
}

func TestSpawnBeforeClear(t *testing.T) {
	f := newFixture(game.DefaultParams(), game.SheetNote{ID: 1, Time: 0, X: 0.5, Y: 0.5})
	f.at(0)
	if len(f.rec.events) != 3 {
		t.Fatalf("events = %+v", f.rec.events)
	}
	if _, ok := f.rec.events[1].(Spawned); !ok {
		t.Errorf("second event = %T", f.rec.events[1])
	}
	if _, ok := f.rec.events[2].(Cleared); !ok {
		t.Errorf("third event = %T", f.rec.events[2])
	}
}

func TestStop(t *testing.T) {
	f := newFixture(game.DefaultParams(), game.SheetNote{ID: 1, Time: time.Second, X: 0.5, Y: 0.5})
	f.at(time.Second)
	f.s.Stop()
	if f.s.State() != StateDone || len(f.s.Snapshot()) != 0 || !f.rec.finished() {
		t.Error("stop did not reset")
	}
	f.at(10 * time.Second)
	if f.s.Stats().Miss != 0 {
		t.Error("transition fired after stop")
	}
}

func TestShortLifeStillClears(t *testing.T) {
	p := game.DefaultParams()
	p.LifeDuration = 100 * time.Millisecond
	f := newFixture(p, game.SheetNote{ID: 1, Time: time.Second, X: 0.5, Y: 0.5})
	f.at(time.Second)
	n, ok := f.s.Note(1)
	if !ok || !n.Cleared || f.s.Stats().Miss != 0 {
		t.Fatal("expired before the hit time")
	}
	f.at(1999 * time.Millisecond)
	if f.s.Stats().Miss != 0 {
		t.Fatal("expired inside the late window")
	}
	f.at(2 * time.Second)
	if f.s.Stats().Miss != 1 {
		t.Error("not expired after the late window")
	}
	var order []string
	for _, e := range f.rec.events {
		switch e.(type) {
		case Spawned:
			order = append(order, "spawned")
		case Cleared:
			order = append(order, "cleared")
		case Removed:
			order = append(order, "removed")
		}
	}
	if strings.Join(order, " ") != "spawned cleared removed" {
		t.Errorf("events = %v", order)
	}
}

func TestHoldReleasedWhilePaused(t *testing.T) {
	f := newFixture(game.DefaultParams(), hold(1, time.Second, 4*time.Second))
	f.at(750 * time.Millisecond)
	f.press(1, centre, time.Second)
	f.holdTick(1200 * time.Millisecond)

	f.c.Set(1300 * time.Millisecond)
	f.s.Pause()
	f.release(1, centre, 1400*time.Millisecond)
	if len(f.rec.judged()) != 0 {
		t.Fatal("judged while paused")
	}

	f.c.Set(5 * time.Second)
	f.s.Resume()
	judged := f.rec.judged()
	if len(judged) != 1 || judged[0].Tier != game.Miss {
		t.Fatalf("judged = %+v", judged)
	}
	if removed := f.rec.removed(); len(removed) != 1 || removed[0].Reason != Released {
		t.Errorf("removed = %+v", removed)
	}
	f.holdTick(7 * time.Second)
	if len(f.rec.judged()) != 1 {
		t.Error("released hold judged again")
	}
}

func TestHoldRepressedWhilePaused(t *testing.T) {
	f := newFixture(game.DefaultParams(), hold(1, time.Second, 2*time.Second))
	f.at(750 * time.Millisecond)
	f.press(1, centre, time.Second)
	f.holdTick(1200 * time.Millisecond)

	f.c.Set(1300 * time.Millisecond)
	f.s.Pause()
	f.release(1, centre, 1400*time.Millisecond)
	f.press(1, centre, 1500*time.Millisecond)

	f.c.Set(5 * time.Second)
	f.s.Resume()
	n, ok := f.s.Note(1)
	if !ok || !n.Hold.Pressed || len(f.rec.judged()) != 0 {
		t.Fatalf("hold = %+v", n)
	}
	// 700ms were left at the pause
	f.holdTick(5700 * time.Millisecond)
	if judged := f.rec.judged(); len(judged) != 1 || judged[0].Tier != game.Perfect {
		t.Errorf("judged = %+v", judged)
	}
}

func TestThrowSkipsHolds(t *testing.T) {
	f := newFixture(game.DefaultParams(),
		hold(1, time.Second, 2*time.Second),
		game.SheetNote{ID: 2, Time: time.Second, X: 0.5, Y: 0.5},
	)
	f.at(time.Second)
	f.holdTick(time.Second)
	f.s.Tick()

	f.s.Handle(input.Event{Kind: input.Press, Contact: 'W', Point: centre, Time: wall(time.Second), Throw: true})
	n, _ := f.s.Note(1)
	if n.Hold.Pressed || len(f.rec.judged()) != 0 {
		t.Fatalf("throw grabbed the hold: %+v", n.Hold)
	}
	f.holdTick(1020 * time.Millisecond)
	if n.Hold.Pressed {
		t.Fatal("hold picked up a thrown contact")
	}

	f.release('W', game.Point{X: 500, Y: 300}, 1040*time.Millisecond)
	judged := f.rec.judged()
	if len(judged) != 1 || judged[0].ID != 2 || judged[0].Tier != game.Perfect {
		t.Fatalf("judged = %+v", judged)
	}
	if _, ok := f.s.Note(1); !ok {
		t.Error("hold judged by the throw")
	}
}
