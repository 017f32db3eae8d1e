package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/WuDuHuange/Gensokyo-Daily/internal/config"
	"github.com/WuDuHuange/Gensokyo-Daily/internal/news"
	"github.com/WuDuHuange/Gensokyo-Daily/internal/sanitize"
	"github.com/WuDuHuange/Gensokyo-Daily/internal/wbi"
)

type rankingResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		List []rankingEntry `json:"list"`
	} `json:"data"`
}

type rankingEntry struct {
	Bvid    string `json:"bvid"`
	Title   string `json:"title"`
	Desc    string `json:"desc"`
	Pic     string `json:"pic"`
	Pubdate int64  `json:"pubdate"`
	Owner   struct {
		Name string `json:"name"`
	} `json:"owner"`
}

// fetchRanking calls the bilibili partition ranking API with a WBI-signed
// query. Key material is fetched fresh each call; if that fails the whole
// source is skipped — a partially signed request is never sent. Ranking
// entries always pass the relevance classifier: the partitions are general
// and would otherwise drown the paper in unrelated videos.
func (f *Fetcher) fetchRanking(ctx context.Context, src config.Source) ([]news.Item, error) {
	imgKey, subKey, err := wbi.FetchKeys(ctx, f.client, f.apiBase)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSigningUnavailable, err)
	}

	params := url.Values{}
	params.Set("rid", strconv.Itoa(src.RID))
	params.Set("type", "all")
	signed := wbi.Sign(params, wbi.MixinKey(imgKey, subKey), f.now())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		f.apiBase+"/x/web-interface/ranking/v2?"+signed.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", "https://www.bilibili.com/")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, src.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: HTTP %d", ErrSourceUnavailable, src.Name, resp.StatusCode)
	}

	var ranking rankingResponse
	if err := json.NewDecoder(resp.Body).Decode(&ranking); err != nil {
		return nil, fmt.Errorf("%w: %s: decoding body: %v", ErrSourceUnavailable, src.Name, err)
	}
	if ranking.Code != 0 {
		return nil, fmt.Errorf("%w: %s: API code %d (%s)", ErrSourceUnavailable, src.Name, ranking.Code, ranking.Message)
	}

	now := f.now()
	items := make([]news.Item, 0, len(ranking.Data.List))
	for _, entry := range ranking.Data.List {
		if entry.Bvid == "" || entry.Title == "" {
			continue
		}
		if f.classifier != nil && !f.classifier.Match(entry.Title+" "+entry.Desc) {
			continue
		}

		summary := entry.Desc
		if entry.Owner.Name != "" {
			summary = "UP主: " + entry.Owner.Name + " · " + summary
		}

		items = append(items, news.Item{
			// The bvid is the platform's stable identifier; title edits
			// must not produce a new item.
			ID:         entry.Bvid,
			Title:      entry.Title,
			Link:       "https://www.bilibili.com/video/" + entry.Bvid,
			Summary:    sanitize.Excerpt(summary, summaryLimit),
			Image:      entry.Pic,
			Source:     src.Name,
			SourceIcon: src.Icon,
			Priority:   src.Priority,
			Published:  pubTime(entry.Pubdate, now),
			FetchedAt:  now,
		})
	}
	return items, nil
}

// pubTime converts a unix timestamp, treating missing or nonsense values
// as the fetch time.
func pubTime(unix int64, fallback time.Time) time.Time {
	if unix <= 0 {
		return fallback
	}
	return time.Unix(unix, 0).UTC()
}
