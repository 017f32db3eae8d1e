package tui

import (
	"strings"

	"github.com/WuDuHuange/Gensokyo-Daily/internal/news"
)

// categoryOrder is the fixed page order of the paper.
var categoryOrder = []string{
	news.CategoryOfficial,
	news.CategoryCommunity,
	news.CategoryArt,
}

type tabBar struct {
	keys   []string
	labels map[string]string
	active int
}

func newTabBar(snap *news.Snapshot) tabBar {
	tb := tabBar{labels: map[string]string{}}
	for _, key := range categoryOrder {
		cat, ok := snap.Categories[key]
		if !ok {
			continue
		}
		tb.keys = append(tb.keys, key)
		tb.labels[key] = cat.Label
	}
	// Keep any extra categories the snapshot carries beyond the fixed pages.
	for key, cat := range snap.Categories {
		if _, seen := tb.labels[key]; !seen {
			tb.keys = append(tb.keys, key)
			tb.labels[key] = cat.Label
		}
	}
	return tb
}

func (tb *tabBar) activeKey() string {
	if len(tb.keys) == 0 {
		return ""
	}
	return tb.keys[tb.active]
}

func (tb *tabBar) next() {
	if len(tb.keys) > 0 {
		tb.active = (tb.active + 1) % len(tb.keys)
	}
}

func (tb *tabBar) prev() {
	if len(tb.keys) > 0 {
		tb.active = (tb.active + len(tb.keys) - 1) % len(tb.keys)
	}
}

func (tb *tabBar) render(width int) string {
	var parts []string
	for i, key := range tb.keys {
		label := tb.labels[key]
		if i == tb.active {
			parts = append(parts, tabActiveStyle.Render(label))
		} else {
			parts = append(parts, tabInactiveStyle.Render(label))
		}
	}
	bar := strings.Join(parts, " ")
	if len(bar) > width && width > 0 {
		return bar[:width]
	}
	return bar
}
