package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cfgpkg "github.com/KaramelBytes/segmap-cli/internal/config"
	"github.com/KaramelBytes/segmap-cli/internal/logging"
)

var (
	cfgFile string
	debug   bool
	// Lookup file flags (override config if set)
	flagCodes    string
	flagLabels   string
	flagTaxonomy string
	flagSheet    string

	// Loaded configuration
	cfg *cfgpkg.Global
	log = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "segmap",
	Short: "segmap: segmentation scatter points, trend fits and perception maps",
	Long: `segmap turns survey segmentation fixtures into the numbers a segmentation dashboard plots:
group percent points, least-squares trend lines, the best cross-family axis pair,
correspondence-analysis perception maps and profile summaries.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	defer func() { _ = log.Sync() }()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.segmap/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&flagCodes, "codes", "", "code map JSON ([{NAME,START,LABEL}], overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLabels, "labels", "", "variable labels JSON (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagTaxonomy, "taxonomy", "", "taxonomy YAML replacing the built-in catalog (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagSheet, "sheet", "", "XLSX: sheet name to read (default first sheet)")
}

func loadConfig() {
	if l, err := logging.New(debug); err == nil {
		log = l
	} else {
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to build logger: %v\n", err)
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		log.Warn("config fallback", zap.Error(err))
		c = &cfgpkg.Global{}
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("codes") {
		cfg.CodesFile = flagCodes
	}
	if f.Changed("labels") {
		cfg.LabelsFile = flagLabels
	}
	if f.Changed("taxonomy") {
		cfg.TaxonomyFile = flagTaxonomy
	}
	log.Debug("config loaded",
		zap.String("config", cfgFile),
		zap.String("codes", cfg.CodesFile),
		zap.String("taxonomy", cfg.TaxonomyFile),
		zap.String("sessions_dir", cfg.SessionsDir))
}
