package main

import (
	"context"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/the-lightning-land/triviad/api"
	"github.com/the-lightning-land/triviad/generator"
	"github.com/the-lightning-land/triviad/machine"
	"github.com/the-lightning-land/triviad/render"
	"github.com/the-lightning-land/triviad/speaker"
	"github.com/the-lightning-land/triviad/statedb"
	"github.com/the-lightning-land/triviad/trivia"
	"net"
	"net/http"
	// Blank import to set up profiling HTTP handlers.
	_ "net/http/pprof"
	"os"
	"os/signal"
	"time"
)

var (
	// commit stores the current commit hash of this build. This should be set using -ldflags during compilation.
	Commit string
	// version stores the version string of this build. This should be set using -ldflags during compilation.
	Version string
	// date stores the date of this build. This should be set using -ldflags during compilation.
	Date string
)

// subsystem returns a logger tagged with the subsystem name.
func subsystem(name string) *log.Entry {
	return log.StandardLogger().WithField("system", name)
}

// triviadMain is the true entry point for triviad. This is required since defers
// created in the top-level scope of a main method aren't executed if os.Exit() is called.
func triviadMain() error {
	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel)

	// Load CLI configuration and defaults
	cfg, command, err := loadConfig()
	if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
		return nil
	} else if err != nil {
		return errors.Errorf("Failed parsing arguments: %v", err)
	}

	// Set logger into debug mode if called with --debug
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
		log.Info("Setting debug mode.")
	}

	log.Debug("Loaded config.")

	// Print version of the daemon
	log.Infof("Version %s (commit %s)", Version, Commit)
	log.Infof("Built on %s", Date)

	// Stop here if only version was requested
	if cfg.ShowVersion {
		return nil
	}

	if cfg.Profiling.Listen != "" {
		go func() {
			log.Infof("Starting profiling server on %v", cfg.Profiling.Listen)
			// Redirect the root path
			http.Handle("/", http.RedirectHandler("/debug/pprof", http.StatusSeeOther))
			// All other handlers are registered on DefaultServeMux through the import of pprof
			err := http.ListenAndServe(cfg.Profiling.Listen, nil)
			if err != nil {
				log.Errorf("Could not run profiler: %v", err)
			}
		}()
	}

	// the shared round record is the only link between the game and its displays
	store, err := statedb.Open(statedb.Backend(cfg.State.Backend), cfg.State.Path)
	if err != nil {
		return errors.Errorf("Could not open state store: %v", err)
	}

	log.Infof("Using %v state store at %v", cfg.State.Backend, cfg.State.Path)

	defer func() {
		err := store.Close()
		if err != nil {
			log.Errorf("Could not close state store: %v", err)
		}
	}()

	if command == "watch" {
		return runWatch(cfg, store)
	}

	// The hardware controller
	var m machine.Machine

	switch cfg.Machine {
	case "serial":
		m = machine.NewSerial(&machine.SerialConfig{
			Port:     cfg.Serial.Port,
			BaudRate: cfg.Serial.BaudRate,
			Logger:   subsystem("machine"),
		})

		log.Infof("Created serial machine on %v at %v baud.", cfg.Serial.Port, cfg.Serial.BaudRate)
	case "raspberry":
		m = machine.NewRaspberry(&machine.RaspberryConfig{
			ButtonAPin: cfg.Raspberry.ButtonAPin,
			ButtonBPin: cfg.Raspberry.ButtonBPin,
			ButtonCPin: cfg.Raspberry.ButtonCPin,
			MotorPin:   cfg.Raspberry.MotorPin,
			SpeakPin:   cfg.Raspberry.SpeakPin,
			LightPin:   cfg.Raspberry.LightPin,
			Logger:     subsystem("machine"),
		})

		log.Infof("Created Raspberry Pi machine with buttons on %v, %v and %v.",
			cfg.Raspberry.ButtonAPin, cfg.Raspberry.ButtonBPin, cfg.Raspberry.ButtonCPin)
	default:
		return errors.Errorf("Unknown machine type %v", cfg.Machine)
	}

	if err := m.Start(); err != nil {
		return errors.Errorf("Could not start machine: %v", err)
	}

	defer func() {
		err := m.Stop()
		if err != nil {
			log.Errorf("Could not properly stop machine: %v", err)
		} else {
			log.Infof("Stopped machine.")
		}
	}()

	// The content source
	var g generator.Generator

	switch cfg.Generator {
	case "openai":
		g, err = generator.NewOpenAI(&generator.OpenAIConfig{
			BaseURL: cfg.OpenAI.BaseURL,
			APIKey:  cfg.OpenAI.APIKey,
			Model:   cfg.OpenAI.Model,
			Logger:  subsystem("generator"),
		})
		if err != nil {
			return errors.Errorf("Could not create generator: %v", err)
		}

		log.Infof("Created generator for model %v at %v.", cfg.OpenAI.Model, cfg.OpenAI.BaseURL)
	case "offline":
		g = generator.NewOffline(uint64(time.Now().UnixNano()))

		log.Info("Created offline generator.")
	default:
		return errors.Errorf("Unknown generator type %v", cfg.Generator)
	}

	// The voice
	var s speaker.Speaker

	switch cfg.Speaker {
	case "command":
		s, err = speaker.NewCommand(&speaker.CommandConfig{
			Command: cfg.SpeakerOpts.Command,
			Logger:  subsystem("speaker"),
		})
		if err != nil {
			return errors.Errorf("Could not create speaker: %v", err)
		}

		log.Infof("Speaking through %v.", cfg.SpeakerOpts.Command)
	case "silent":
		s = speaker.NewSilent(&speaker.SilentConfig{
			PerWord: cfg.SpeakerOpts.WordDelay,
			Max:     10 * time.Second,
			Logger:  subsystem("speaker"),
		})

		log.Info("Created silent speaker.")
	default:
		return errors.Errorf("Unknown speaker type %v", cfg.Speaker)
	}

	// central controller for the rounds
	game := trivia.NewGame(&trivia.Config{
		Machine:       m,
		Store:         store,
		Generator:     g,
		Speaker:       s,
		Logger:        subsystem("trivia"),
		HistorySize:   cfg.History,
		AnswerTimeout: cfg.AnswerTimeout,
	})

	log.Infof("Created game.")

	if cfg.Api.Listen != "" {
		a := api.New(&api.Config{
			Machine: m,
			Store:   store,
			Log:     subsystem("api"),
		})

		lis, err := net.Listen("tcp", cfg.Api.Listen)
		if err != nil {
			return errors.Errorf("API server unable to listen on %v: %v", cfg.Api.Listen, err)
		}

		defer func() {
			err := lis.Close()
			if err != nil {
				log.Errorf("Could not close listener: %v", err)
			}
		}()

		go func() {
			err := a.Serve(lis)
			if err != nil {
				log.Debugf("Stopped serving api: %v", err)
			}
		}()

		log.Infof("Serving simulation API on %v", cfg.Api.Listen)
	}

	// Handle interrupt signals correctly
	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, os.Interrupt)
		sig := <-signals
		log.Info(sig)
		log.Info("Received an interrupt, stopping game...")
		game.Shutdown()
	}()

	// blocks until the game is shut down
	err = game.Run()
	if err != nil {
		return errors.Errorf("Failed running game: %v", err)
	}

	// finish with no error
	return nil
}

func runWatch(cfg *config, store statedb.Store) error {
	// stdout belongs to the display
	log.SetOutput(os.Stderr)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	poller := render.NewPoller(&render.PollerConfig{
		Store:    store,
		View:     render.NewTerminal(os.Stdout, !cfg.Watch.NoClear),
		Interval: cfg.Watch.Interval,
		Logger:   subsystem("render"),
	})

	return poller.Run(ctx)
}

func main() {
	// Call the "real" main in a nested manner so the defers will properly
	// be executed in the case of a graceful shutdown.
	if err := triviadMain(); err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
		} else {
			log.WithError(err).Println("Failed running triviad.")
		}
		os.Exit(1)
	}
}
