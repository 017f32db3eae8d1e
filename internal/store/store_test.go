package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/WuDuHuange/Gensokyo-Daily/internal/news"
)

var base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func item(id string, priority int, published time.Time) news.Item {
	return news.Item{
		ID:        id,
		Title:     "item " + id,
		Link:      "https://example.com/" + id,
		Priority:  priority,
		Published: published,
		FetchedAt: base,
	}
}

func TestReduceDedupFirstWins(t *testing.T) {
	a := item("dup", 1, base)
	a.Source = "first"
	b := item("dup", 1, base)
	b.Source = "second"

	cat := Reduce("test", []news.Item{a, b, item("other", 1, base)}, 50)
	if cat.Count != 2 {
		t.Fatalf("expected 2 items after dedup, got %d", cat.Count)
	}
	if cat.Items[0].Source != "first" {
		t.Errorf("first occurrence should win, got source %q", cat.Items[0].Source)
	}
}

func TestReduceIdempotent(t *testing.T) {
	in := []news.Item{
		item("a", 2, base.Add(-time.Hour)),
		item("b", 1, base),
		item("a", 2, base.Add(-time.Hour)),
	}
	once := Reduce("test", in, 50)
	twice := Reduce("test", once.Items, 50)

	if len(once.Items) != len(twice.Items) {
		t.Fatalf("reduce not idempotent: %d vs %d items", len(once.Items), len(twice.Items))
	}
	for i := range once.Items {
		if once.Items[i].ID != twice.Items[i].ID {
			t.Errorf("item %d differs: %s vs %s", i, once.Items[i].ID, twice.Items[i].ID)
		}
	}
}

func TestReduceSortPriorityThenRecency(t *testing.T) {
	cat := Reduce("test", []news.Item{
		item("old-p1", 1, base.Add(-2*time.Hour)),
		item("new-p2", 2, base),
		item("new-p1", 1, base.Add(-time.Hour)),
	}, 50)

	want := []string{"new-p1", "old-p1", "new-p2"}
	for i, id := range want {
		if cat.Items[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, cat.Items[i].ID, id)
		}
	}
}

func TestReduceUnparseableDateSortsLast(t *testing.T) {
	cat := Reduce("test", []news.Item{
		item("undated", 1, time.Time{}),
		item("dated", 1, base.Add(-100*24*time.Hour)),
	}, 50)

	if cat.Items[0].ID != "dated" {
		t.Error("an undated item must never outrank a dated one at equal priority")
	}
}

func TestReduceCap(t *testing.T) {
	var in []news.Item
	for i := 0; i < 80; i++ {
		in = append(in, item(string(rune('a'+i%26))+string(rune('0'+i/26)), 1, base))
	}
	cat := Reduce("test", in, 50)
	if cat.Count > 50 {
		t.Errorf("cap exceeded: %d items", cat.Count)
	}
}

func TestMergeFreshWinsOnCollision(t *testing.T) {
	freshItem := item("x", 1, base)
	freshItem.Title = "fresh title"
	oldItem := item("x", 1, base.Add(-time.Hour))
	oldItem.Title = "old title"

	fresh := news.Category{Label: "test", Items: []news.Item{freshItem}, Count: 1}
	prev := news.Category{Label: "test", Items: []news.Item{oldItem}, Count: 1}

	merged := Merge(fresh, prev, base, 30*24*time.Hour, 50)
	if merged.Count != 1 {
		t.Fatalf("expected 1 item, got %d", merged.Count)
	}
	if merged.Items[0].Title != "fresh title" {
		t.Errorf("fresh item should win on id collision, got %q", merged.Items[0].Title)
	}
}

func TestMergeRetentionBoundary(t *testing.T) {
	maxAge := 30 * 24 * time.Hour
	atBoundary := item("boundary", 1, base.Add(-maxAge))
	justInside := item("inside", 1, base.Add(-maxAge).Add(time.Second))

	prev := news.Category{Label: "test", Items: []news.Item{atBoundary, justInside}, Count: 2}
	merged := Merge(news.Category{Label: "test"}, prev, base, maxAge, 50)

	if merged.Count != 1 {
		t.Fatalf("expected 1 retained item, got %d", merged.Count)
	}
	if merged.Items[0].ID != "inside" {
		t.Error("item exactly at now-maxAge must be dropped; one second younger retained")
	}
}

func TestMergeDropsUndatedOldItems(t *testing.T) {
	prev := news.Category{Label: "test", Items: []news.Item{item("undated", 1, time.Time{})}, Count: 1}
	merged := Merge(news.Category{Label: "test"}, prev, base, 30*24*time.Hour, 50)
	if merged.Count != 0 {
		t.Error("old items without a usable publish time must be dropped, not kept")
	}
}

func TestMergeSortsByRecencyOnly(t *testing.T) {
	// The merged view ignores priority on purpose: fresh ranking already
	// applied it, the rolling view orders purely by publish time.
	fresh := news.Category{Label: "test", Items: []news.Item{
		item("low-prio-new", 9, base),
	}, Count: 1}
	prev := news.Category{Label: "test", Items: []news.Item{
		item("high-prio-old", 1, base.Add(-time.Hour)),
	}, Count: 1}

	merged := Merge(fresh, prev, base, 30*24*time.Hour, 50)
	if merged.Items[0].ID != "low-prio-new" {
		t.Error("merge must order by recency, not priority")
	}
}

func TestMergeCap(t *testing.T) {
	var freshItems, oldItems []news.Item
	for i := 0; i < 40; i++ {
		freshItems = append(freshItems, item(time.Duration(i).String()+"f", 1, base.Add(-time.Duration(i)*time.Minute)))
		oldItems = append(oldItems, item(time.Duration(i).String()+"o", 1, base.Add(-time.Duration(i+100)*time.Minute)))
	}
	fresh := news.Category{Label: "test", Items: freshItems, Count: len(freshItems)}
	prev := news.Category{Label: "test", Items: oldItems, Count: len(oldItems)}

	merged := Merge(fresh, prev, base, 30*24*time.Hour, 50)
	if merged.Count > 50 {
		t.Errorf("cap exceeded after merge: %d items", merged.Count)
	}
}

func TestMergeEndToEndScenario(t *testing.T) {
	// Persisted community category holds a 40-day-old and a 5-day-old item;
	// a fresh run returns nothing. Only the 5-day-old item survives.
	prev := news.Category{Label: "社会·民生", Items: []news.Item{
		item("stale", 1, base.Add(-40*24*time.Hour)),
		item("recent", 1, base.Add(-5*24*time.Hour)),
	}, Count: 2}

	merged := Merge(news.Category{Label: "社会·民生"}, prev, base, 30*24*time.Hour, 50)
	if merged.Count != 1 || merged.Items[0].ID != "recent" {
		t.Fatalf("expected only the 5-day-old item, got %+v", merged.Items)
	}
}

func TestLoadMissingSnapshot(t *testing.T) {
	if snap := Load(filepath.Join(t.TempDir(), "absent.json")); snap != nil {
		t.Error("missing snapshot should load as nil")
	}
}

func TestLoadCorruptSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if snap := Load(path); snap != nil {
		t.Error("corrupt snapshot should load as nil")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "news_data.json")
	snap := &news.Snapshot{
		Meta: news.Meta{Title: "幻想乡日报", Edition: "第20250601期", UpdatedAt: base},
		Categories: map[string]news.Category{
			news.CategoryOfficial: {Label: "头版头条", Items: []news.Item{item("a", 1, base)}, Count: 1},
		},
	}

	if err := Save(path, snap); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got := Load(path)
	if got == nil {
		t.Fatal("Load returned nil for freshly saved snapshot")
	}
	if got.Meta.Edition != "第20250601期" {
		t.Errorf("edition = %q", got.Meta.Edition)
	}
	if got.Categories[news.CategoryOfficial].Count != 1 {
		t.Errorf("unexpected categories: %+v", got.Categories)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "news_data.json")
	if err := Save(path, &news.Snapshot{}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "news_data.json" {
		t.Errorf("unexpected directory contents: %v", entries)
	}
}
