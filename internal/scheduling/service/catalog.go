package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/r1cko23/Novo-pets-website-sub001/pkg/config"
)

// Interval is a closed-open window of minutes from midnight, [Start, End).
type Interval struct {
	Start int
	End   int
}

// Catalog is the day's bookable slot grid, derived once at startup from
// business-hours configuration. It is immutable after construction; every
// availability and booking check consults the same grid.
type Catalog struct {
	slots []string
	index map[string]struct{}
}

// NewCatalog derives the slot grid. A slot starting at t is included when the
// whole window [t, t+duration) fits inside opening hours and overlaps no
// break. Errors here are configuration faults and should abort startup.
func NewCatalog(cfg *config.Config) (*Catalog, error) {
	if cfg.OpenHour < 0 || cfg.CloseHour > 24 || cfg.OpenHour >= cfg.CloseHour {
		return nil, fmt.Errorf("invalid business hours: open=%d close=%d", cfg.OpenHour, cfg.CloseHour)
	}
	if cfg.SlotDurationMin <= 0 {
		return nil, fmt.Errorf("slot duration must be positive, got %d", cfg.SlotDurationMin)
	}

	breaks, err := parseBreaks(cfg.BreakIntervals)
	if err != nil {
		return nil, err
	}

	open := cfg.OpenHour * 60
	close := cfg.CloseHour * 60
	dur := cfg.SlotDurationMin

	var slots []string
	index := make(map[string]struct{})

	for t := open; t+dur <= close; t += dur {
		if overlapsAnyBreak(t, t+dur, breaks) {
			continue
		}
		label := fmt.Sprintf("%02d:%02d", t/60, t%60)
		slots = append(slots, label)
		index[label] = struct{}{}
	}

	return &Catalog{slots: slots, index: index}, nil
}

// Slots returns the grid in chronological order. Callers must not mutate the
// returned slice.
func (c *Catalog) Slots() []string {
	return c.slots
}

// Contains reports whether label is a bookable slot start time.
func (c *Catalog) Contains(label string) bool {
	_, ok := c.index[label]
	return ok
}

func parseBreaks(intervals []string) ([]Interval, error) {
	breaks := make([]Interval, 0, len(intervals))
	for _, raw := range intervals {
		parts := strings.Split(raw, "-")
		if len(parts) != 2 {
			return nil, fmt.Errorf("break interval must be HH:MM-HH:MM, got %q", raw)
		}

		start, err := parseMinutes(parts[0])
		if err != nil {
			return nil, fmt.Errorf("break interval %q: %w", raw, err)
		}
		end, err := parseMinutes(parts[1])
		if err != nil {
			return nil, fmt.Errorf("break interval %q: %w", raw, err)
		}
		if start >= end {
			return nil, fmt.Errorf("break interval %q: start must be before end", raw)
		}

		breaks = append(breaks, Interval{Start: start, End: end})
	}
	return breaks, nil
}

func parseMinutes(hhmm string) (int, error) {
	parsed, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", hhmm)
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

func overlapsAnyBreak(start, end int, breaks []Interval) bool {
	for _, b := range breaks {
		if start < b.End && end > b.Start {
			return true
		}
	}
	return false
}
