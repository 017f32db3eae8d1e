package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/WuDuHuange/Gensokyo-Daily/internal/news"
)

func renderPreview(item *news.Item, width, height, scroll int) string {
	if item == nil {
		return lipglossCenter("选择一条新闻", width, height)
	}

	contentWidth := width - 2
	if contentWidth < 10 {
		contentWidth = 10
	}

	title := previewTitleStyle.Width(contentWidth).Render(item.Title)

	when := "undated"
	if !item.Published.IsZero() {
		when = item.Published.Format("Jan 2, 2006")
	}
	source := previewSourceStyle.Render(
		fmt.Sprintf("%s %s · %s", item.SourceIcon, item.Source, when),
	)

	body := item.Summary
	if body == "" {
		body = "（无摘要）"
	}
	bodyView := previewBodyStyle.Width(contentWidth).Render(wrapText(body, contentWidth))

	parts := []string{title, source, "", bodyView}
	if item.Image != "" {
		parts = append(parts, "", previewLinkStyle.Width(contentWidth).Render("🖼 "+item.Image))
	}
	parts = append(parts, "", previewLinkStyle.Width(contentWidth).Render("阅读原文: "+item.Link))

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	// Apply scroll offset
	lines := strings.Split(content, "\n")
	if scroll > 0 && scroll < len(lines) {
		lines = lines[scroll:]
	}

	// Pad to fill height
	if len(lines) < height {
		lines = append(lines, make([]string, height-len(lines))...)
	} else if len(lines) > height {
		lines = lines[:height]
	}

	return strings.Join(lines, "\n")
}

func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
