// Package news holds the canonical data model shared by every stage of the
// pipeline: the normalized Item, per-category collections, and the persisted
// snapshot that each run reads, merges against, and overwrites.
package news

import (
	"crypto/md5"
	"encoding/hex"
	"time"
)

// Category keys used across config, snapshot, and the browser.
const (
	CategoryOfficial  = "official"
	CategoryCommunity = "community"
	CategoryArt       = "art"
)

// Item is one normalized unit of aggregated content.
type Item struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Link       string    `json:"link"`
	Summary    string    `json:"summary"`
	Image      string    `json:"image,omitempty"`
	Source     string    `json:"source"`
	SourceIcon string    `json:"source_icon"`
	Priority   int       `json:"priority"`
	Published  time.Time `json:"published"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// Category is a named bucket of items with its own cap and retention.
type Category struct {
	Label string `json:"label"`
	Items []Item `json:"items"`
	Count int    `json:"count"`
}

// Meta describes one edition of the paper.
type Meta struct {
	Title       string    `json:"title"`
	TitleJP     string    `json:"title_jp"`
	Subtitle    string    `json:"subtitle"`
	Edition     string    `json:"edition"`
	UpdatedAt   time.Time `json:"updated_at"`
	GeneratedBy string    `json:"generated_by"`
	Version     string    `json:"version"`
}

// Forecast is one location's fictional weather entry.
type Forecast struct {
	Location    string `json:"location"`
	LocationJP  string `json:"location_jp"`
	Condition   string `json:"condition"`
	Icon        string `json:"icon"`
	Temperature int    `json:"temperature"`
}

// Weather is the almanac block attached to each edition.
type Weather struct {
	Updated   time.Time  `json:"updated"`
	Forecasts []Forecast `json:"forecasts"`
}

// Ad is a fictional classified printed in the paper's margin.
type Ad struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
	Contact     string `json:"contact"`
	Icon        string `json:"icon"`
}

// Snapshot is the durable representation of one edition. It is read at the
// start of a run as the merge baseline and atomically overwritten at the end.
type Snapshot struct {
	Meta       Meta                `json:"meta"`
	Categories map[string]Category `json:"categories"`
	Weather    *Weather            `json:"weather,omitempty"`
	Ads        []Ad                `json:"ads,omitempty"`
}

// ItemID derives a stable fingerprint from an item's title and link.
// Sources without a native identifier get the same id for the same content
// across runs, which is what dedup and merge key on.
func ItemID(title, link string) string {
	sum := md5.Sum([]byte(title + "|" + link))
	return hex.EncodeToString(sum[:])[:12]
}
