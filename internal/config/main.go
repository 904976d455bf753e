package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"git.lost.host/meutraa/flick/internal/game"
	"gopkg.in/alecthomas/kingpin.v2"
	"gopkg.in/yaml.v3"
)

const Version = "0.3.0"

// Config is everything the command line decided.
type Config struct {
	Sheet         string // empty plays the built in sheet
	Difficulty    string
	Audio         string
	Tunables      string
	Delay         time.Duration
	Database      string
	History       int
	KeyHold       time.Duration
	PrintTunables bool
	Params        game.Params
}

// App is the command line. Flags left unset keep the tunables file's value,
// which keeps the default's.
type App struct {
	app *kingpin.Application

	sheet         *string
	difficulty    *string
	audio         *string
	tunables      *string
	delay         *time.Duration
	database      *string
	history       *int
	keyHold       *time.Duration
	printTunables *bool

	width         *float64
	height        *float64
	approachSpeed *float64
	life          *time.Duration
}

func New() *App {
	app := kingpin.New("flick", "Flick, tap and hold notes to the music.")
	app.Version(Version)
	return &App{
		app:           app,
		sheet:         app.Arg("sheet", "Sheet to play (.json or .sm)").ExistingFile(),
		difficulty:    app.Flag("difficulty", "Chart to pick from a .sm file").Short('D').String(),
		audio:         app.Flag("audio", "Audio file, overrides the sheet's").Short('a').String(),
		tunables:      app.Flag("tunables", "YAML file of game tunables").Short('t').ExistingFile(),
		delay:         app.Flag("delay", "Start delay").Default("1.5s").Short('d').Duration(),
		database:      app.Flag("db", "Play history database").Default(defaultDatabase()).String(),
		history:       app.Flag("history", "Recent plays to keep in memory").Default("20").Int(),
		keyHold:       app.Flag("key-hold", "How long a key press stays down").Default("150ms").Duration(),
		printTunables: app.Flag("print-tunables", "Print the effective tunables as YAML and exit").Bool(),
		width:         app.Flag("width", "Virtual screen width").Short('W').Float64(),
		height:        app.Flag("height", "Virtual screen height").Short('H').Float64(),
		approachSpeed: app.Flag("approach-speed", "Approach speed in pixels per second").Short('s').Float64(),
		life:          app.Flag("life", "How long an unjudged note stays").Duration(),
	}
}

// Parse reads args, without the program name.
func (a *App) Parse(args []string) (*Config, error) {
	if _, err := a.app.Parse(args); nil != err {
		return nil, err
	}

	params := game.DefaultParams()
	if *a.tunables != "" {
		if err := LoadTunables(*a.tunables, &params); nil != err {
			return nil, err
		}
	}
	if *a.width > 0 {
		params.ScreenWidth = *a.width
	}
	if *a.height > 0 {
		params.ScreenHeight = *a.height
	}
	if *a.approachSpeed > 0 {
		params.ApproachSpeed = *a.approachSpeed
	}
	if *a.life > 0 {
		params.LifeDuration = *a.life
	}

	if params.LifeDuration <= params.ApproachDuration() {
		return nil, fmt.Errorf("life duration %v must be longer than the approach %v", params.LifeDuration, params.ApproachDuration())
	}
	if *a.delay < 0 {
		return nil, fmt.Errorf("negative delay %v", *a.delay)
	}
	if *a.history < 1 {
		return nil, fmt.Errorf("history must keep at least one play, got %v", *a.history)
	}

	return &Config{
		Sheet:         *a.sheet,
		Difficulty:    *a.difficulty,
		Audio:         *a.audio,
		Tunables:      *a.tunables,
		Delay:         *a.delay,
		Database:      *a.database,
		History:       *a.history,
		KeyHold:       *a.keyHold,
		PrintTunables: *a.printTunables,
		Params:        params,
	}, nil
}

// LoadTunables overlays the YAML file on p. Keys that are not tunables are
// an error.
func LoadTunables(file string, p *game.Params) error {
	f, err := os.Open(file)
	if nil != err {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(p); nil != err && !errors.Is(err, io.EOF) {
		return fmt.Errorf("tunables %v: %w", file, err)
	}
	return nil
}

func MarshalTunables(p game.Params) ([]byte, error) {
	return yaml.Marshal(p)
}

func defaultDatabase() string {
	dir, err := os.UserConfigDir()
	if nil != err {
		return "flick.db"
	}
	return filepath.Join(dir, "flick", "history.db")
}
