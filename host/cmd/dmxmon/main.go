// dmxmon follows the diagnostic console of a dmxservo node and logs the
// decoded frame dumps and receiver statistics.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"dmxservo/host/monitor"
	"dmxservo/host/serial"
)

type fileConfig struct {
	Device string `toml:"device"`
	Baud   int    `toml:"baud"`
}

func loadConfig(path string) (*serial.Config, error) {
	var raw fileConfig
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if raw.Device == "" {
		return nil, fmt.Errorf("config %s: device is required", path)
	}

	cfg := serial.DefaultConfig(raw.Device)
	if raw.Baud != 0 {
		cfg.Baud = raw.Baud
	}
	return cfg, nil
}

// logHandler routes parsed console events into the structured log.
type logHandler struct {
	log        zerolog.Logger
	showFrames bool
	lastStats  *monitor.Stats
}

func (h *logHandler) HandleFrame(d *monitor.FrameDump) {
	if !h.showFrames {
		return
	}
	levels := make([]int, len(d.Levels))
	for i, v := range d.Levels {
		levels[i] = int(v)
	}
	h.log.Info().
		Uint32("frame", d.Frame).
		Ints("levels", levels).
		Msg("frame dump")
}

func (h *logHandler) HandleStats(s *monitor.Stats) {
	evt := h.log.Info().
		Uint32("breaks", s.Breaks).
		Uint32("frames", s.Frames).
		Uint32("consumed", s.Consumed)

	// Error counters only clutter the log while they are moving.
	if prev := h.lastStats; prev == nil ||
		s.BadStartCodes != prev.BadStartCodes ||
		s.FramingResets != prev.FramingResets ||
		s.DriveErrors != prev.DriveErrors {
		evt = evt.
			Uint32("badstart", s.BadStartCodes).
			Uint32("resets", s.FramingResets).
			Uint32("driveerrs", s.DriveErrors)
	}
	evt.Msg("receiver stats")
	h.lastStats = s
}

func (h *logHandler) HandleLine(line string) {
	h.log.Debug().Str("line", line).Msg("console")
}

func main() {
	var (
		configPath = flag.String("config", "", "TOML config file")
		device     = flag.String("device", "", "serial device of the node console")
		showFrames = flag.Bool("frames", false, "log every frame dump")
		verbose    = flag.Bool("v", false, "log unparsed console lines")
	)
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()
	if !*verbose {
		log = log.Level(zerolog.InfoLevel)
	}

	cfg := serial.DefaultConfig(*device)
	if *configPath != "" {
		loaded, err := loadConfig(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("bad config")
		}
		cfg = loaded
	}
	if *device != "" {
		cfg.Device = *device
	}
	if cfg.Device == "" {
		log.Fatal().Msg("no device: pass -device or a config file")
	}

	// Block on reads; the console is quiet between reports.
	cfg.ReadTimeout = 0

	port, err := serial.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open serial port")
	}
	defer port.Close()

	log.Info().Str("device", cfg.Device).Msg("following node console")

	h := &logHandler{log: log, showFrames: *showFrames}
	if err := monitor.Follow(port, h); err != nil {
		log.Fatal().Err(err).Msg("console stream failed")
	}
	log.Info().Msg("console closed")
}
