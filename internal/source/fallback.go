package source

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cenkalti/backoff/v5"

	"github.com/WuDuHuange/Gensokyo-Daily/internal/config"
)

// fetchBody retrieves a source's raw body. Sources behind flaky mirrors
// opt into a direct-then-proxy progression: one direct attempt, then the
// proxy-relayed URL with a bounded constant-interval retry, then give up.
// An empty direct body counts as a failure — some mirrors return 200 with
// nothing in it.
func (f *Fetcher) fetchBody(ctx context.Context, src config.Source) (string, error) {
	body, err := f.get(ctx, src.URL)
	if err == nil && strings.TrimSpace(body) != "" {
		return body, nil
	}
	if err == nil {
		err = errors.New("empty response body")
	}

	if !src.ProxyFallback || f.proxyBase == "" {
		return "", fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, src.Name, err)
	}

	f.log.Warn("direct fetch failed, trying proxy", "source", src.Name, "err", err)
	proxied := proxyURL(f.proxyBase, src.URL)

	body, err = backoff.Retry(ctx,
		func() (string, error) { return f.get(ctx, proxied) },
		backoff.WithBackOff(backoff.NewConstantBackOff(f.proxyDelay)),
		backoff.WithMaxTries(uint(f.proxyTries)),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %s via proxy: %v", ErrSourceUnavailable, src.Name, err)
	}
	return body, nil
}

// proxyURL relays a request through the configured proxy base, which
// expects the full target URL appended to its path.
func proxyURL(base, target string) string {
	return strings.TrimSuffix(base, "/") + "/" + target
}
