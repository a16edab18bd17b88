package main

import (
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/periph/conn/physic"

	"github.com/cgxeiji/max32664"
	"github.com/cgxeiji/max32664/hub"
	"github.com/cgxeiji/max32664/internal/config"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if len(os.Args) < 2 {
		log.Fatal().Msg("usage: max32664 <config.yaml>")
	}

	cfg, err := config.Load(os.Args[1])
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatal().Err(err).Msg("config validation failed")
	}
	config.Normalize(cfg)

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Fatal().Err(err).Msg("bad log level")
	}
	zerolog.SetGlobalLevel(level)

	opts := []max32664.Option{
		max32664.OnBus(cfg.Device.Bus),
		max32664.OnAddr(cfg.Device.Address),
		max32664.OnPins(cfg.Device.ResetPin, cfg.Device.MFIOPin),
		max32664.WithMaxBusyRetries(*cfg.Device.MaxBusyRetries),
		max32664.WithLogger(log.Logger),
	}
	if cfg.Device.SpeedKHz > 0 {
		opts = append(opts, max32664.WithSpeed(physic.Frequency(cfg.Device.SpeedKHz)*physic.KiloHertz))
	}

	sensor, err := max32664.New(opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("could not bring up sensor hub")
	}
	defer sensor.Close()

	if err := arm(sensor, cfg); err != nil {
		var step *hub.StepError
		if errors.As(err, &step) {
			log.Error().
				Str("profile", step.Profile).
				Int("step", step.Step).
				Str("name", step.Name).
				Stringer("status", hub.StatusOf(step.Err)).
				Msg("configuration failed")
		}
		sensor.Close()
		log.Fatal().Err(err).Msg("could not configure sensor hub")
	}
	log.Info().Str("profile", cfg.Profile).Msg("sensor hub armed")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	t := time.NewTicker(time.Duration(cfg.Poll.IntervalMs) * time.Millisecond)
	defer t.Stop()

	for {
		select {
		case <-stop:
			log.Info().Msg("shutting down")
			return
		case <-t.C:
		}

		if err := poll(sensor, cfg.Profile); err != nil {
			log.Warn().Err(err).Msg("poll failed")
		}
	}
}

func arm(sensor *max32664.Device, cfg *config.Config) error {
	switch cfg.Profile {
	case config.ProfileHRSpO2:
		return sensor.ConfigureHRSpO2()
	case config.ProfileBPTRaw:
		return sensor.ConfigureBPTRaw()
	default:
		bpt, err := cfg.BPT.HubConfig(time.Now())
		if err != nil {
			return err
		}
		return sensor.ConfigureBPT(bpt)
	}
}

func poll(sensor *max32664.Device, profile string) error {
	switch profile {
	case config.ProfileHRSpO2:
		hr, spo2, err := sensor.Vitals()
		if errors.Is(err, max32664.ErrNotDetected) {
			log.Info().Msg("no finger detected")
			return nil
		}
		if err != nil {
			return err
		}
		log.Info().Float64("bpm", hr).Float64("spo2", spo2).Msg("vitals")

	case config.ProfileBPT:
		samples, err := sensor.BPTSamples()
		for _, s := range samples {
			log.Info().
				Uint8("progress", s.Progress).
				Uint16("bpm", s.HeartRate).
				Uint8("sys", s.Systolic).
				Uint8("dia", s.Diastolic).
				Uint16("spo2", s.SpO2).
				Msg("blood pressure")
		}
		return err

	case config.ProfileBPTRaw:
		samples, err := sensor.RawSamples()
		for _, s := range samples {
			log.Debug().Uint32("ir", s.IR).Uint32("red", s.Red).Msg("raw")
		}
		return err
	}

	return nil
}
