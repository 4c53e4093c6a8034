package service

import (
	"reflect"
	"testing"

	"github.com/r1cko23/Novo-pets-website-sub001/pkg/config"
)

func catalogConfig() *config.Config {
	return &config.Config{
		OpenHour:        9,
		CloseHour:       17,
		SlotDurationMin: 60,
		BreakIntervals:  []string{"12:00-13:00"},
	}
}

func TestCatalogStandardDay(t *testing.T) {
	catalog, err := NewCatalog(catalogConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"09:00", "10:00", "11:00", "13:00", "14:00", "15:00", "16:00"}
	if got := catalog.Slots(); !reflect.DeepEqual(got, want) {
		t.Errorf("slots mismatch:\n got:  %v\n want: %v", got, want)
	}

	if catalog.Contains("12:00") {
		t.Error("12:00 falls inside the lunch break and must not be bookable")
	}
	if !catalog.Contains("16:00") {
		t.Error("16:00 is the last full slot and must be bookable")
	}
	if catalog.Contains("17:00") {
		t.Error("17:00 would extend past closing and must not be bookable")
	}
}

func TestCatalogIsDeterministic(t *testing.T) {
	first, err := NewCatalog(catalogConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := NewCatalog(catalogConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first.Slots(), second.Slots()) {
		t.Error("same configuration must always produce the same grid")
	}
}

func TestCatalogDropsTrailingPartialSlot(t *testing.T) {
	cfg := catalogConfig()
	cfg.CloseHour = 17
	cfg.SlotDurationMin = 90

	catalog, err := NewCatalog(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, slot := range catalog.Slots() {
		if slot > "15:30" {
			t.Errorf("slot %s would not finish by closing time", slot)
		}
	}
}

func TestCatalogDropsSlotOverlappingBreakPartially(t *testing.T) {
	cfg := catalogConfig()
	cfg.BreakIntervals = []string{"12:30-13:30"}

	catalog, err := NewCatalog(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Both the 12:00 and 13:00 slots clip the break window.
	if catalog.Contains("12:00") {
		t.Error("12:00 overlaps the break and must not be bookable")
	}
	if catalog.Contains("13:00") {
		t.Error("13:00 overlaps the break and must not be bookable")
	}
	if !catalog.Contains("14:00") {
		t.Error("14:00 is clear of the break and must be bookable")
	}
}

func TestCatalogNoBreaks(t *testing.T) {
	cfg := catalogConfig()
	cfg.BreakIntervals = nil

	catalog, err := NewCatalog(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(catalog.Slots()) != 8 {
		t.Errorf("expected 8 hourly slots between 9 and 17, got %d", len(catalog.Slots()))
	}
}

func TestCatalogRejectsBadConfiguration(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"open after close", func(c *config.Config) { c.OpenHour = 18 }},
		{"open equals close", func(c *config.Config) { c.OpenHour = 17 }},
		{"zero duration", func(c *config.Config) { c.SlotDurationMin = 0 }},
		{"negative duration", func(c *config.Config) { c.SlotDurationMin = -30 }},
		{"malformed break", func(c *config.Config) { c.BreakIntervals = []string{"noon-ish"} }},
		{"inverted break", func(c *config.Config) { c.BreakIntervals = []string{"13:00-12:00"} }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := catalogConfig()
			tc.mutate(cfg)

			if _, err := NewCatalog(cfg); err == nil {
				t.Error("expected configuration error, got nil")
			}
		})
	}
}
