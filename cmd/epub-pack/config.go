package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bookbind/epub"
)

// config carries the resolved CLI configuration. Precedence is
// flag > environment (EPUB_PACK_*) > config file > defaults.
type config struct {
	SourceDir       string `mapstructure:"source_dir"`
	OutputDir       string `mapstructure:"output_dir"`
	MaxExportFiles  int    `mapstructure:"max_export_files"`
	DryRun          bool   `mapstructure:"dry_run"`
	Shuffle         bool   `mapstructure:"shuffle"`
	CompressWorkers int    `mapstructure:"compress_workers"`
	WriteWorkers    int    `mapstructure:"write_workers"`
	Verbose         bool   `mapstructure:"verbose"`
}

// loadConfig resolves configuration from defaults, an optional config
// file, the environment and the command's flags.
func loadConfig(cmd *cobra.Command, cfgFile string) (*config, error) {
	v := viper.New()

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	v.SetDefault("source_dir", defaultSourceDir(home))
	v.SetDefault("output_dir", filepath.Join(home, "Books"))
	v.SetDefault("max_export_files", epub.DefaultMaxExports)
	v.SetDefault("dry_run", false)
	v.SetDefault("shuffle", true)
	v.SetDefault("compress_workers", 0)
	v.SetDefault("write_workers", 0)
	v.SetDefault("verbose", false)

	v.SetEnvPrefix("EPUB_PACK")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		cfgDir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(cfgDir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	bind := map[string]string{
		"max_export_files": "max-export-files",
		"output_dir":       "output-dir",
		"source_dir":       "source-dir",
		"dry_run":          "dry-run",
		"shuffle":          "shuffle",
		"compress_workers": "compress-workers",
		"write_workers":    "write-workers",
		"verbose":          "verbose",
	}
	for key, flag := range bind {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// defaultSourceDir is the iBooks iCloud documents folder, where macOS
// keeps the .epub package directories this tool converts.
func defaultSourceDir(home string) string {
	return filepath.Join(home, "Library", "Mobile Documents", "iCloud~com~apple~iBooks", "Documents")
}

// configDir returns the directory searched for the optional config file,
// $XDG_CONFIG_HOME/epub-pack with the usual ~/.config fallback.
func configDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "epub-pack"), nil
}

// ensureDirectories verifies the source directory exists and creates the
// output directory when missing. Dry-run performs the checks without
// creating anything.
func ensureDirectories(cfg *config) error {
	info, err := os.Stat(cfg.SourceDir)
	if err != nil {
		return fmt.Errorf("source directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source directory %s is not a directory", cfg.SourceDir)
	}

	if cfg.DryRun {
		return nil
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return nil
}
