package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/bookbind/epub"
)

// Version is the semantic version (set via -ldflags).
var Version = "dev"

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "epub-pack",
	Short: "Convert iBooks epub package directories into epub containers",
	Long: `epub-pack scans a source directory for iBooks .epub package folders
and converts each into a spec-compliant .epub zip container: the mimetype
entry first and stored uncompressed, everything else deflate-compressed.

Packages are converted concurrently; vendor metadata (.plist files,
bookmarks) is left out of the containers.`,
	SilenceUsage: true,
	RunE:         runRoot,
}

func init() {
	flags := rootCmd.Flags()
	flags.IntP("max-export-files", "m", epub.DefaultMaxExports, "maximum number of containers to export, 0 for unlimited")
	flags.StringP("output-dir", "o", "", "output directory for the containers")
	flags.StringP("source-dir", "s", "", "directory scanned for .epub packages")
	flags.BoolP("dry-run", "d", false, "validate and serialize without persisting anything")
	flags.Bool("shuffle", true, "randomize which packages a capped run picks")
	flags.Int("compress-workers", 0, "compression pool size, 0 for one per CPU")
	flags.Int("write-workers", 0, "write pool size, 0 for default")
	flags.BoolP("verbose", "v", false, "enable debug logging")
	flags.StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/epub-pack/config.yaml)")
}

// Execute runs the root command. Called by main.main().
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

func runRoot(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, cfgFile)
	if err != nil {
		return err
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "epub-pack",
	})
	if cfg.Verbose {
		logger.SetLevel(log.DebugLevel)
	}
	slogger := slog.New(logger)

	if cfg.DryRun {
		logger.Info("dry-run mode: no filesystem modifications will be performed")
	}
	logger.Info("examining source directory", "dir", cfg.SourceDir)

	if err := ensureDirectories(cfg); err != nil {
		return err
	}

	dirs, err := collectPackageDirs(cfg.SourceDir)
	if err != nil {
		return fmt.Errorf("enumerate packages: %w", err)
	}
	if len(dirs) == 0 {
		logger.Warn("no .epub packages found", "dir", cfg.SourceDir)
		fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Exported 0 epub files to %s", cfg.OutputDir)))
		return nil
	}
	logger.Debug("found packages", "count", len(dirs))

	pools := epub.NewPools(cfg.CompressWorkers, cfg.WriteWorkers)
	runner := epub.NewRunner(pools,
		epub.RunWithMaxExports(cfg.MaxExportFiles),
		epub.RunWithShuffle(cfg.Shuffle),
		epub.RunWithLogger(slogger),
		epub.RunWithPackOptions(
			epub.PackWithDryRun(cfg.DryRun),
			epub.PackWithExclude(excludeVendorFiles),
		),
	)

	results := runner.Run(cmd.Context(), dirs, cfg.OutputDir)

	exported := 0
	failed := 0
	for _, res := range results {
		switch res.Status {
		case epub.StatusSuccess:
			exported++
			logger.Info("exported", "out", res.OutputPath, "entries", res.Entries)
		case epub.StatusSkipped:
			logger.Debug("skipped", "dir", res.SourceDir)
		case epub.StatusFailed:
			failed++
			logger.Error("failed", "dir", res.SourceDir, "stage", res.Stage.String(), "err", res.Err)
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("Exported %d epub files to %s", exported, cfg.OutputDir)))
	if failed > 0 {
		fmt.Fprintln(out, failureStyle.Render(fmt.Sprintf("%d packages failed", failed)))
		return fmt.Errorf("%d of %d packages failed", failed, len(results))
	}
	return nil
}
