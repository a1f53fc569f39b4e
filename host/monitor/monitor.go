// Package monitor parses the diagnostic console stream a dmxservo node emits
// over its USB serial port. The node prints one line per event; the monitor
// turns those lines back into structured data.
package monitor

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	framePrefix = "[DMX] "
	statsPrefix = "[STAT] "
)

// FrameDump is one channel-buffer dump emitted by the node's update loop.
type FrameDump struct {
	Frame  uint32 // consumed-frame counter at the time of the dump
	Levels []uint8
}

// Stats mirrors the node's periodic receiver statistics line.
type Stats struct {
	Breaks        uint32
	Frames        uint32
	BadStartCodes uint32
	FramingResets uint32
	Consumed      uint32
	DriveErrors   uint32
}

// ParseFrameLine parses a "[DMX] frame=N levels=xx,yy,..." line.
func ParseFrameLine(line string) (*FrameDump, error) {
	body, ok := strings.CutPrefix(line, framePrefix)
	if !ok {
		return nil, fmt.Errorf("not a frame line: %q", line)
	}

	dump := &FrameDump{}
	for _, field := range strings.Fields(body) {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			return nil, fmt.Errorf("malformed field %q in %q", field, line)
		}
		switch key {
		case "frame":
			n, err := strconv.ParseUint(value, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("parse frame counter: %w", err)
			}
			dump.Frame = uint32(n)
		case "levels":
			for _, h := range strings.Split(value, ",") {
				level, err := strconv.ParseUint(h, 16, 8)
				if err != nil {
					return nil, fmt.Errorf("parse level %q: %w", h, err)
				}
				dump.Levels = append(dump.Levels, uint8(level))
			}
		}
	}

	if len(dump.Levels) == 0 {
		return nil, fmt.Errorf("frame line without levels: %q", line)
	}
	return dump, nil
}

// ParseStatsLine parses a "[STAT] breaks=N frames=N ..." line. Unknown keys
// are ignored so older monitors keep working against newer firmware.
func ParseStatsLine(line string) (*Stats, error) {
	body, ok := strings.CutPrefix(line, statsPrefix)
	if !ok {
		return nil, fmt.Errorf("not a stats line: %q", line)
	}

	stats := &Stats{}
	for _, field := range strings.Fields(body) {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			return nil, fmt.Errorf("malformed field %q in %q", field, line)
		}
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", key, err)
		}
		switch key {
		case "breaks":
			stats.Breaks = uint32(n)
		case "frames":
			stats.Frames = uint32(n)
		case "badstart":
			stats.BadStartCodes = uint32(n)
		case "resets":
			stats.FramingResets = uint32(n)
		case "consumed":
			stats.Consumed = uint32(n)
		case "driveerrs":
			stats.DriveErrors = uint32(n)
		}
	}
	return stats, nil
}

// Handler receives parsed console events. Lines that are neither frame dumps
// nor statistics arrive through Line verbatim.
type Handler interface {
	HandleFrame(*FrameDump)
	HandleStats(*Stats)
	HandleLine(string)
}

// Follow reads console lines until the reader ends, dispatching each to the
// handler. Malformed frame or stats lines are passed through as plain lines
// rather than aborting the stream.
func Follow(r io.Reader, h Handler) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, framePrefix):
			if dump, err := ParseFrameLine(line); err == nil {
				h.HandleFrame(dump)
				continue
			}
		case strings.HasPrefix(line, statsPrefix):
			if stats, err := ParseStatsLine(line); err == nil {
				h.HandleStats(stats)
				continue
			}
		}
		h.HandleLine(line)
	}
	return scanner.Err()
}
