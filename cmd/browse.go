package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/WuDuHuange/Gensokyo-Daily/internal/config"
	"github.com/WuDuHuange/Gensokyo-Daily/internal/store"
	"github.com/WuDuHuange/Gensokyo-Daily/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Read the latest edition in the terminal",
	RunE:  runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	dataPath := flagData
	if dataPath == "" {
		dataPath = cfg.SnapshotPath()
	}

	snap := store.Load(dataPath)
	if snap == nil {
		return fmt.Errorf("no edition at %s; run `gensokyo-daily fetch` first", dataPath)
	}

	return tui.Run(snap)
}
