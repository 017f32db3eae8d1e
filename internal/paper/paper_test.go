package paper

import (
	"math/rand"
	"testing"
	"time"
)

func TestBuildMeta(t *testing.T) {
	now := time.Date(2025, 6, 1, 23, 30, 0, 0, time.UTC)
	meta := BuildMeta(now)

	if meta.Edition != "第20250601期" {
		t.Errorf("edition = %q, want 第20250601期", meta.Edition)
	}
	if meta.Title == "" || meta.Subtitle == "" {
		t.Error("masthead titles must be set")
	}
	if !meta.UpdatedAt.Equal(now) {
		t.Errorf("updated_at = %v, want %v", meta.UpdatedAt, now)
	}
}

func TestAlmanac(t *testing.T) {
	now := time.Now()
	w := Almanac(now, rand.New(rand.NewSource(1)))

	if len(w.Forecasts) != len(locations) {
		t.Fatalf("expected %d forecasts, got %d", len(locations), len(w.Forecasts))
	}
	for _, f := range w.Forecasts {
		if f.Temperature < -5 || f.Temperature > 35 {
			t.Errorf("%s: temperature %d out of range", f.Location, f.Temperature)
		}
		if f.Condition == "" || f.Icon == "" {
			t.Errorf("%s: empty condition", f.Location)
		}
	}
}

func TestAlmanacReproducible(t *testing.T) {
	now := time.Now()
	a := Almanac(now, rand.New(rand.NewSource(42)))
	b := Almanac(now, rand.New(rand.NewSource(42)))
	for i := range a.Forecasts {
		if a.Forecasts[i] != b.Forecasts[i] {
			t.Fatal("same seed should produce the same almanac")
		}
	}
}

func TestClassifieds(t *testing.T) {
	ads := Classifieds()
	if len(ads) != 4 {
		t.Fatalf("expected 4 classifieds, got %d", len(ads))
	}
	seen := map[string]bool{}
	for _, ad := range ads {
		if ad.ID == "" || ad.Title == "" {
			t.Errorf("incomplete ad: %+v", ad)
		}
		if seen[ad.ID] {
			t.Errorf("duplicate ad id %s", ad.ID)
		}
		seen[ad.ID] = true
	}
}
