package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agis/defectview/internal/cache"
	"github.com/agis/defectview/internal/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the .defectview directory",
	Long: `Initialize the .defectview directory in the current directory with a default
config.yaml and an empty extraction cache.

The config lists the product names offered by the product selector and the
severity levels with their descriptions, allowed weights and display
defaults. Edit it to match your report template.

Examples:
  defectview init          # Initialize in current directory
  defectview init --force  # Rewrite config.yaml with defaults`,
	RunE: runInit,
}

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config.yaml")
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	configFile := filepath.Join(cwd, config.ConfigDirName, config.ConfigFileName)
	_, err = os.Stat(configFile)
	if err == nil {
		if !initForce {
			relPath, _ := filepath.Rel(cwd, configFile)
			fmt.Fprintf(cmd.OutOrStdout(), "Already initialized at %s\n", relPath)
			return nil
		}
		if err := os.Remove(configFile); err != nil {
			return fmt.Errorf("removing existing config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("checking config path: %w", err)
	}

	path, err := config.SaveDefault(cwd)
	if err != nil {
		return err
	}

	c, err := cache.Open(filepath.Dir(path))
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer c.Close()

	relPath, _ := filepath.Rel(cwd, path)
	fmt.Fprintf(cmd.OutOrStdout(), "Initialized defectview config at %s\n", relPath)
	return nil
}
