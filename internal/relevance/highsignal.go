package relevance

import "strings"

// announcementVocabulary marks posts from the trusted author feed worth
// printing: release/development/event language in the scripts the author
// actually posts in. Pure OR test, no veto stage — the feed itself is
// always trusted, this only drops low-signal chatter.
var announcementVocabulary = []string{
	"新作", "体験版", "体験", "完成", "入稿", "發售", "公開", "发布", "発売",
	"発表", "告知", "リリース",
	"例大祭", "コミケ", "夏コミ", "冬コミ", "reitaisai",
	"release", "steam", "配信", "interview", "インタビュー",
	"トウホウ", "とうほう", "touhou", "東方", "touhou project", "東方project",
}

// HighSignal reports whether a trusted-author post looks like an
// announcement rather than idle chatter. Text is expected to still carry
// raw HTML: an embedded image is itself a signal.
func HighSignal(text string) bool {
	if text == "" {
		return false
	}
	lowered := strings.ToLower(text)

	for _, kw := range announcementVocabulary {
		if strings.Contains(lowered, strings.ToLower(kw)) {
			return true
		}
	}

	return strings.Contains(lowered, "<img")
}
