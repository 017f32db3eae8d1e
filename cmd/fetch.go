package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/WuDuHuange/Gensokyo-Daily/internal/archive"
	"github.com/WuDuHuange/Gensokyo-Daily/internal/config"
	"github.com/WuDuHuange/Gensokyo-Daily/internal/news"
	"github.com/WuDuHuange/Gensokyo-Daily/internal/paper"
	"github.com/WuDuHuange/Gensokyo-Daily/internal/relevance"
	"github.com/WuDuHuange/Gensokyo-Daily/internal/source"
	"github.com/WuDuHuange/Gensokyo-Daily/internal/store"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch all sources and publish today's edition",
	Long: `Fetch every enabled source, classify and aggregate the results, merge them
with the previous edition, and atomically overwrite the snapshot file.

Source failures are logged and skipped; the run only fails if the new
snapshot cannot be written.`,
	RunE: runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	log := newLogger()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	rules, err := relevance.DefaultRuleSet()
	if err != nil {
		return fmt.Errorf("loading relevance rules: %w", err)
	}

	fetcher := source.NewFetcher(source.Options{
		Timeout:    cfg.Timeout(),
		APIBase:    cfg.BilibiliAPIBase,
		ProxyBase:  cfg.ProxyBase,
		Classifier: relevance.NewClassifier(rules),
		Logger:     log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	dataPath := flagData
	if dataPath == "" {
		dataPath = cfg.SnapshotPath()
	}
	prev := store.Load(dataPath)
	if prev == nil {
		log.Info("no previous snapshot, starting fresh", "path", dataPath)
	}

	db, err := archive.Open(config.ArchivePath())
	if err != nil {
		// The archive is history, not the edition; keep going without it.
		log.Warn("archive unavailable", "err", err)
		db = nil
	} else {
		defer db.Close()
	}

	now := time.Now().UTC()
	rsshub := cfg.ResolvedRSSHubBase()

	snap := &news.Snapshot{
		Meta:       paper.BuildMeta(now),
		Categories: make(map[string]news.Category, len(cfg.Categories)),
		Weather:    paper.Almanac(now, rand.New(rand.NewSource(now.UnixNano()))),
		Ads:        paper.Classifieds(),
	}

	for _, cat := range cfg.Categories {
		result := fetcher.FetchCategory(ctx, cat.EnabledSources(rsshub))

		fresh := store.Reduce(cat.Label, result.Items, cfg.MaxItems())
		merged := store.Merge(fresh, store.PrevCategory(prev, cat.Key), now, cfg.MaxAge(), cfg.MaxItems())
		snap.Categories[cat.Key] = merged

		log.Info("category assembled",
			"category", cat.Key,
			"fetched", len(result.Items),
			"kept", merged.Count,
			"failed_sources", len(result.Errors))

		if db != nil {
			if err := db.Record(cat.Key, merged.Items); err != nil {
				log.Warn("archiving category failed", "category", cat.Key, "err", err)
			}
		}
	}

	if err := store.Save(dataPath, snap); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	log.Info("edition published", "edition", snap.Meta.Edition, "path", dataPath)

	if db != nil {
		if deleted, err := db.Prune(cfg.RetentionDuration()); err == nil && deleted > 0 {
			log.Info("archive pruned", "deleted", deleted)
		}
	}

	return nil
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
