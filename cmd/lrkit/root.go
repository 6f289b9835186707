package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var rootFlags = struct {
	config   *string
	logLevel *string
	class    *string
	noColor  *bool
}{}

var (
	cfg    = defaultConfig()
	logger = zap.NewNop()

	errorColor   = color.New(color.FgHiRed)
	warningColor = color.New(color.FgYellow)
	headingColor = color.New(color.Bold)
)

var rootCmd = &cobra.Command{
	Use:   "lrkit",
	Short: "Generate LR parsing tables from a grammar",
	Long: `lrkit builds LR(0), SLR(1), canonical LR(1), and LALR(1) parsing tables.
- Compiles a grammar into a portable parsing table.
- Parses a token sequence or a text stream with the table.
- Prints the tables, the item sets, and the FIRST/FOLLOW sets.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setUp,
}

func init() {
	rootFlags.config = rootCmd.PersistentFlags().String("config", "", "configuration file path (default ./lrkit.toml when it exists)")
	rootFlags.logLevel = rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, or error (default warn)")
	rootFlags.class = rootCmd.PersistentFlags().StringP("class", "c", "", "table class: lr0, slr1, clr1, or lalr1 (default lalr1)")
	rootFlags.noColor = rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
}

func Execute() error {
	err := rootCmd.Execute()
	// Syncing stderr fails on some platforms, and nothing is buffered there anyway.
	_ = logger.Sync()
	return err
}

func setUp(cmd *cobra.Command, args []string) error {
	c, err := loadConfig(*rootFlags.config)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		c.LogLevel = *rootFlags.logLevel
	}
	if flags.Changed("class") {
		c.Class = *rootFlags.class
	}
	if flags.Changed("no-color") {
		c.Color = !*rootFlags.noColor
	}
	err = c.validate()
	if err != nil {
		return err
	}
	cfg = c

	if !cfg.Color {
		color.NoColor = true
	}

	l, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger = l
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	lv, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(lv)
	zc.DisableStacktrace = true
	if !cfg.Color {
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	} else {
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return zc.Build()
}
