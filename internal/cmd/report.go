package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agis/defectview/internal/cache"
	"github.com/agis/defectview/internal/config"
	"github.com/agis/defectview/internal/issue"
	"github.com/agis/defectview/internal/markup"
	"github.com/agis/defectview/internal/output"
	"github.com/agis/defectview/internal/session"
)

// report is a loaded report page and its extraction.
type report struct {
	Path   string
	Doc    *markup.Document
	Ex     issue.Extraction
	Cached bool
}

// loadConfig reads --config when given, else searches upward from the working
// directory. It also returns the directory holding the config, or "" when
// there is none.
func loadConfig() (*config.Config, string, error) {
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, "", fmt.Errorf("config file: %w", err)
		}
		cfg, err := config.LoadFromPath(configPath)
		if err != nil {
			return nil, "", err
		}
		return cfg, filepath.Dir(configPath), nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("get working directory: %w", err)
	}
	dir, err := config.FindConfigDir(cwd)
	if errors.Is(err, config.ErrConfigNotFound) {
		return config.DefaultConfig(), "", nil
	}
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.LoadFromPath(filepath.Join(dir, config.ConfigFileName))
	if err != nil {
		return nil, "", err
	}
	return cfg, dir, nil
}

// openCache opens the extraction cache next to the config. It returns nil
// when caching is off or there is no config directory to hold it.
func openCache(cfg *config.Config, dir string, noCache bool) *cache.Cache {
	if noCache || !cfg.Cache.IsEnabled() {
		return nil
	}
	if dir == "" {
		logger.Debug("no config directory; extraction cache disabled")
		return nil
	}
	c, err := cache.Open(dir)
	if err != nil {
		logger.Warn("extraction cache unavailable", zap.String("dir", dir), zap.Error(err))
		return nil
	}
	return c
}

// loadReport parses the page at path and extracts its issues, reusing a
// cached extraction when neither the content nor the severity table changed.
func loadReport(path string, cfg *config.Config, c *cache.Cache) (*report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}

	doc, err := markup.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	rep := &report{Path: path, Doc: doc}
	hash := cache.HashReport(data, cfg.Severities)

	if c != nil {
		ex, ok, err := c.LookupDocument(abs, hash)
		if err != nil {
			logger.Warn("cache lookup failed", zap.String("path", abs), zap.Error(err))
		} else if ok {
			logger.Debug("cache hit", zap.String("path", abs))
			rep.Ex, rep.Cached = ex, true
		} else {
			logger.Debug("cache miss", zap.String("path", abs))
		}
	}

	if !rep.Cached {
		rep.Ex = doc.Extract(cfg.Severities)
		if c != nil {
			if err := c.SaveDocument(abs, hash, rep.Ex); err != nil {
				logger.Warn("cache save failed", zap.String("path", abs), zap.Error(err))
			}
		}
	}

	for _, p := range rep.Ex.Problems {
		logger.Warn("extraction problem",
			zap.String("kind", string(p.Kind)),
			zap.Int("section", p.Section),
			zap.String("issue", p.IssueID),
			zap.String("detail", p.Detail))
	}

	return rep, nil
}

// productsFor returns the configured products, or the products named by the
// issues in first-seen order.
func productsFor(cfg *config.Config, issues []issue.Issue) []string {
	if len(cfg.Products) > 0 {
		return cfg.Products
	}
	seen := make(map[string]bool)
	var products []string
	for _, is := range issues {
		for _, p := range is.Products {
			if !seen[p] {
				seen[p] = true
				products = append(products, p)
			}
		}
	}
	return products
}

func newSession(rep *report, cfg *config.Config) *session.Session {
	return session.New(rep.Ex, session.Options{
		Table:         cfg.Severities,
		Products:      productsFor(cfg, rep.Ex.Issues),
		InlineListing: rep.Doc.HasInlineListing(),
	})
}

// openReport runs the shared command prologue: config, cache, report.
func openReport(path string, noCache bool) (*report, *config.Config, error) {
	cfg, dir, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	c := openCache(cfg, dir, noCache)
	if c != nil {
		defer c.Close()
	}
	rep, err := loadReport(path, cfg, c)
	if err != nil {
		return nil, nil, err
	}
	return rep, cfg, nil
}

// writeOutput renders v in the --format or configured format.
func writeOutput(cmd *cobra.Command, cfg *config.Config, v interface{}) error {
	name := cfg.Output.Format
	if outputFormat != "" {
		name = outputFormat
	}
	format, err := output.ParseFormat(name)
	if err != nil {
		return err
	}
	formatter, err := output.GetFormatter(format)
	if err != nil {
		return err
	}
	if tf, ok := formatter.(*output.TextFormatter); ok {
		tf.TitleWidth = cfg.Output.MaxTitleWidth
	}
	return formatter.FormatToWriter(cmd.OutOrStdout(), v)
}
