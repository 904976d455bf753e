package audio

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"git.lost.host/meutraa/flick/internal/clock"
	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
)

var ErrUnsupported = errors.New("unsupported audio format")

// Track is a decoded song routed through the speaker. Its position is the
// device clock of a session.
type Track struct {
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	played   *counter
}

// counter counts the samples taken from a streamer.
type counter struct {
	s beep.Streamer
	n int
}

func (c *counter) Stream(samples [][2]float64) (int, bool) {
	n, ok := c.s.Stream(samples)
	c.n += n
	return n, ok
}

func (c *counter) Err() error {
	return c.s.Err()
}

func (c *counter) Position() int {
	return c.n
}

func decode(file string, f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(path.Ext(file)) {
	case ".mp3":
		return mp3.Decode(f)
	case ".ogg":
		return vorbis.Decode(f)
	case ".wav":
		return wav.Decode(f)
	}
	return nil, beep.Format{}, fmt.Errorf("%w: %v", ErrUnsupported, path.Ext(file))
}

// Open decodes file and initialises the speaker for its sample rate. The
// track starts paused.
func Open(file string) (*Track, error) {
	f, err := os.Open(file)
	if nil != err {
		return nil, err
	}
	streamer, format, err := decode(file, f)
	if nil != err {
		f.Close()
		return nil, fmt.Errorf("unable to decode %v: %w", file, err)
	}
	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/60)); nil != err {
		streamer.Close()
		return nil, fmt.Errorf("unable to open speaker: %w", err)
	}
	// silence after the song keeps the clock running for late notes
	played := &counter{s: beep.Seq(streamer, beep.Silence(-1))}
	t := &Track{
		streamer: streamer,
		format:   format,
		ctrl:     &beep.Ctrl{Streamer: played, Paused: true},
		played:   played,
	}
	speaker.Play(t.ctrl)
	return t, nil
}

func (t *Track) Play() {
	speaker.Lock()
	t.ctrl.Paused = false
	speaker.Unlock()
}

func (t *Track) Pause() {
	speaker.Lock()
	t.ctrl.Paused = true
	speaker.Unlock()
}

func (t *Track) Length() time.Duration {
	return t.format.SampleRate.D(t.streamer.Len())
}

func (t *Track) Close() error {
	speaker.Clear()
	return t.streamer.Close()
}

// Clock returns the device clock driven by this track. It counts every
// sample handed to the speaker, so it keeps going after the song ends.
func (t *Track) Clock() *DeviceClock {
	return &DeviceClock{streamer: t.played, rate: t.format.SampleRate, lock: speaker.Lock, unlock: speaker.Unlock}
}

type positioner interface {
	Position() int
}

// DeviceClock reads the playback position of a stream. It stands still
// while the stream is paused.
type DeviceClock struct {
	streamer     positioner
	rate         beep.SampleRate
	lock, unlock func()
}

// NewDeviceClock wraps any stream that knows its position. The speaker
// lock is only needed for streams the speaker is consuming.
func NewDeviceClock(streamer positioner, rate beep.SampleRate) *DeviceClock {
	return &DeviceClock{streamer: streamer, rate: rate, lock: func() {}, unlock: func() {}}
}

func (c *DeviceClock) Now() clock.Time {
	c.lock()
	pos := c.streamer.Position()
	c.unlock()
	return clock.Time{Domain: clock.Device, At: c.rate.D(pos)}
}

func (c *DeviceClock) Domain() clock.Domain {
	return clock.Device
}
