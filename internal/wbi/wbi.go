// Package wbi implements the bilibili WBI request signature: a mixin key
// derived from two server-issued fragments, and an md5-signed canonical
// query string. The scheme is an externally mandated API contract, not a
// security boundary — the permutation table is a public constant and must
// match the service byte-for-byte.
package wbi

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"
)

// mixinKeyEncTab is the published permutation applied to imgKey+subKey.
var mixinKeyEncTab = [64]int{
	46, 47, 18, 2, 53, 8, 23, 32, 15, 50, 10, 31, 58, 3, 45, 35,
	27, 43, 5, 49, 33, 9, 42, 19, 29, 28, 14, 39, 12, 38, 41, 13,
	37, 48, 7, 16, 24, 55, 40, 61, 26, 17, 0, 1, 60, 51, 30, 4,
	22, 25, 54, 21, 56, 59, 6, 63, 57, 62, 11, 36, 20, 34, 44, 52,
}

// MixinKey permutes the 64-character concatenation of the two key fragments
// and truncates to the first 32 characters.
func MixinKey(imgKey, subKey string) string {
	raw := imgKey + subKey
	var b strings.Builder
	b.Grow(32)
	for _, idx := range mixinKeyEncTab {
		if idx < len(raw) {
			b.WriteByte(raw[idx])
		}
		if b.Len() >= 32 {
			break
		}
	}
	return b.String()
}

// Sign returns a copy of params augmented with the wts timestamp and the
// w_rid digest. The signature embeds wall-clock time, so callers must sign
// immediately before sending rather than caching the result.
func Sign(params url.Values, mixinKey string, now time.Time) url.Values {
	signed := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			signed.Add(k, v)
		}
	}
	signed.Set("wts", strconv.FormatInt(now.Unix(), 10))

	keys := make([]string, 0, len(signed))
	for k := range signed {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var query strings.Builder
	for i, k := range keys {
		if i > 0 {
			query.WriteByte('&')
		}
		query.WriteString(url.QueryEscape(k))
		query.WriteByte('=')
		query.WriteString(url.QueryEscape(signed.Get(k)))
	}

	sum := md5.Sum([]byte(query.String() + mixinKey))
	signed.Set("w_rid", hex.EncodeToString(sum[:]))
	return signed
}

// navResponse is the subset of the nav endpoint body carrying the WBI image
// URLs whose basenames are the key fragments.
type navResponse struct {
	Data struct {
		WbiImg struct {
			ImgURL string `json:"img_url"`
			SubURL string `json:"sub_url"`
		} `json:"wbi_img"`
	} `json:"data"`
}

// FetchKeys retrieves the current key fragments from the unauthenticated
// nav endpoint. Key material is short-lived: fetch once per run, never
// cache across runs.
func FetchKeys(ctx context.Context, client *http.Client, base string) (imgKey, subKey string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/x/web-interface/nav", nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("fetching wbi keys: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("fetching wbi keys: HTTP %d", resp.StatusCode)
	}

	var nav navResponse
	if err := json.NewDecoder(resp.Body).Decode(&nav); err != nil {
		return "", "", fmt.Errorf("decoding nav response: %w", err)
	}

	imgKey = keyFromURL(nav.Data.WbiImg.ImgURL)
	subKey = keyFromURL(nav.Data.WbiImg.SubURL)
	if imgKey == "" || subKey == "" {
		return "", "", fmt.Errorf("nav response missing wbi image urls")
	}
	return imgKey, subKey, nil
}

// keyFromURL extracts the key fragment: the basename minus its extension.
func keyFromURL(raw string) string {
	if raw == "" {
		return ""
	}
	base := path.Base(raw)
	return strings.TrimSuffix(base, path.Ext(base))
}

const userAgent = "Gensokyo-Daily/1.0 (RSS Reader; +https://github.com/WuDuHuange/Gensokyo-Daily)"
