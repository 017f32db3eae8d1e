package wbi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestMixinKeyPermutation(t *testing.T) {
	// 64 distinct characters make the permutation visible: output position i
	// must hold input character mixinKeyEncTab[i].
	alphabet := "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"
	imgKey, subKey := alphabet[:32], alphabet[32:]

	got := MixinKey(imgKey, subKey)
	want := "uvSC1IXgPyKf6DtjbrFxhJqTdcOnMmpN"
	if got != want {
		t.Errorf("MixinKey = %q, want %q", got, want)
	}
	if len(got) != 32 {
		t.Errorf("mixin key length = %d, want 32", len(got))
	}
}

func TestSignDeterministic(t *testing.T) {
	params := url.Values{}
	params.Set("rid", "25")
	params.Set("type", "all")
	mixin := "abcdefghijklmnopqrstuvwxyz012345"
	now := time.Unix(1700000000, 0)

	first := Sign(params, mixin, now)
	second := Sign(params, mixin, now)

	if first.Get("w_rid") != second.Get("w_rid") {
		t.Errorf("signing is not deterministic: %q vs %q", first.Get("w_rid"), second.Get("w_rid"))
	}
	if got := first.Get("wts"); got != "1700000000" {
		t.Errorf("wts = %q, want 1700000000", got)
	}
	if len(first.Get("w_rid")) != 32 {
		t.Errorf("w_rid length = %d, want 32 hex chars", len(first.Get("w_rid")))
	}
}

func TestSignVariesWithTime(t *testing.T) {
	params := url.Values{"rid": {"25"}}
	mixin := "abcdefghijklmnopqrstuvwxyz012345"

	a := Sign(params, mixin, time.Unix(1700000000, 0))
	b := Sign(params, mixin, time.Unix(1700000001, 0))
	if a.Get("w_rid") == b.Get("w_rid") {
		t.Error("signatures at different timestamps should differ")
	}
}

func TestSignDoesNotMutateInput(t *testing.T) {
	params := url.Values{"rid": {"25"}}
	Sign(params, "abcdefghijklmnopqrstuvwxyz012345", time.Unix(1700000000, 0))
	if params.Has("wts") || params.Has("w_rid") {
		t.Error("Sign must not mutate the caller's params")
	}
}

func TestFetchKeys(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/x/web-interface/nav" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"data":{"wbi_img":{
			"img_url":"https://i0.hdslb.com/bfs/wbi/7cd084941338484aae1ad9425b84077c.png",
			"sub_url":"https://i0.hdslb.com/bfs/wbi/4932caff0ff746eab6f01bf08b70ac45.png"}}}`))
	}))
	defer srv.Close()

	imgKey, subKey, err := FetchKeys(context.Background(), srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("FetchKeys: %v", err)
	}
	if imgKey != "7cd084941338484aae1ad9425b84077c" {
		t.Errorf("imgKey = %q", imgKey)
	}
	if subKey != "4932caff0ff746eab6f01bf08b70ac45" {
		t.Errorf("subKey = %q", subKey)
	}
}

func TestFetchKeysUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, _, err := FetchKeys(context.Background(), srv.Client(), srv.URL); err == nil {
		t.Fatal("expected error on non-2xx nav response")
	}
}

func TestFetchKeysMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	if _, _, err := FetchKeys(context.Background(), srv.Client(), srv.URL); err == nil {
		t.Fatal("expected error when wbi image urls are missing")
	}
}
