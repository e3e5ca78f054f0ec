package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agis/defectview/internal/cache"
	"github.com/agis/defectview/internal/config"
	"github.com/agis/defectview/internal/output"
)

// cacheCmd groups the extraction cache commands
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the extraction cache",
	Long: `The extraction cache lives in .defectview/cache.db and holds the issues,
headings and problems of every report extracted so far, keyed by path and
content hash. A changed report is re-extracted automatically.`,
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show extraction cache statistics",
	Args:  cobra.NoArgs,
	RunE:  runCacheInfo,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached extraction",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func openCacheDir() (*cache.Cache, *config.Config, error) {
	cfg, dir, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if dir == "" {
		return nil, nil, fmt.Errorf("no %s directory found (run 'defectview init')", config.ConfigDirName)
	}
	c, err := cache.Open(dir)
	if err != nil {
		return nil, nil, err
	}
	return c, cfg, nil
}

func runCacheInfo(cmd *cobra.Command, args []string) error {
	c, cfg, err := openCacheDir()
	if err != nil {
		return err
	}
	defer c.Close()

	stats, err := c.GetStats()
	if err != nil {
		return err
	}

	return writeOutput(cmd, cfg, &output.CacheOutput{
		Path:      c.Path(),
		Enabled:   cfg.Cache.IsEnabled(),
		Documents: stats.DocumentCount,
		Issues:    stats.IssueCount,
		Problems:  stats.ProblemCount,
	})
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	c, _, err := openCacheDir()
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.Clear(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", c.Path())
	return nil
}
