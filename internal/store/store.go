// Package store finalizes each run's per-category collections: dedup,
// priority ranking, the incremental merge against the previous snapshot,
// and the atomic write of the new one.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/WuDuHuange/Gensokyo-Daily/internal/news"
)

// Reduce deduplicates a batch of freshly fetched items by id (first
// occurrence wins, so adapter fetch order breaks ties), ranks them by
// priority then recency, and caps the result.
func Reduce(label string, items []news.Item, maxItems int) news.Category {
	seen := make(map[string]bool, len(items))
	unique := make([]news.Item, 0, len(items))
	for _, item := range items {
		if seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		unique = append(unique, item)
	}

	// Priority ascending, recency descending within equal priority. A zero
	// Published time (the source's date was missing or unparseable) ranks
	// as the earliest possible instant rather than breaking the run.
	sort.SliceStable(unique, func(i, j int) bool {
		if unique[i].Priority != unique[j].Priority {
			return unique[i].Priority < unique[j].Priority
		}
		return unique[i].Published.After(unique[j].Published)
	})

	if len(unique) > maxItems {
		unique = unique[:maxItems]
	}

	return news.Category{Label: label, Items: unique, Count: len(unique)}
}

// Merge combines a freshly reduced category with its previously persisted
// counterpart. Fresh items always win on id collision. Old items survive
// only while strictly younger than the retention window: an item exactly at
// now-maxAge is dropped, as is anything without a usable publish time —
// retention is conservative where ranking is lenient.
//
// The merged view is ordered by recency alone. Fresh ranking already
// applied priority once; the persisted rolling view deliberately keeps the
// looser ordering.
func Merge(fresh news.Category, prev news.Category, now time.Time, maxAge time.Duration, maxItems int) news.Category {
	byID := make(map[string]news.Item, len(fresh.Items))
	order := make([]string, 0, len(fresh.Items))
	for _, item := range fresh.Items {
		byID[item.ID] = item
		order = append(order, item.ID)
	}

	cutoff := now.Add(-maxAge)
	for _, old := range prev.Items {
		if _, ok := byID[old.ID]; ok {
			continue
		}
		if old.Published.IsZero() || !old.Published.After(cutoff) {
			continue
		}
		byID[old.ID] = old
		order = append(order, old.ID)
	}

	merged := make([]news.Item, 0, len(order))
	for _, id := range order {
		merged = append(merged, byID[id])
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Published.After(merged[j].Published)
	})

	if len(merged) > maxItems {
		merged = merged[:maxItems]
	}

	return news.Category{Label: fresh.Label, Items: merged, Count: len(merged)}
}

// Load reads the previous snapshot. A missing, unreadable, or corrupt file
// returns nil with no error: the merge degrades to fresh-only and the run
// continues.
func Load(path string) *news.Snapshot {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var snap news.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil
	}
	return &snap
}

// PrevCategory returns the named category from a possibly nil snapshot.
func PrevCategory(snap *news.Snapshot, key string) news.Category {
	if snap == nil {
		return news.Category{}
	}
	return snap.Categories[key]
}

// Save writes the snapshot via a temp file and rename, so a crash mid-write
// leaves the previous edition untouched. This is the run's only fatal
// failure mode.
func Save(path string, snap *news.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".news_data-*.json")
	if err != nil {
		return fmt.Errorf("creating temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}
