// Package cmd contains all CLI commands for the hoverword tool.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/f3rmion/hoverword/internal/config"
	"github.com/f3rmion/hoverword/internal/settings"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	cfgFile string
	logger  *zap.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hoverword",
	Short: "Look up the word under your pointer",
	Long: `hoverword watches a document for the word under the pointer or the
current text selection and sends it to a local lookup service, which shows
the definition or translation.

The lookup service is expected at http://127.0.0.1:8116 unless configured
otherwise (see 'hoverword options'). It must answer GET /ack with "␆" and
accepts GET /word/<word>.

Documents:
  - browse <url>   a live browser page, driven over the DevTools protocol
  - read <file>    a plain-text file shown in the terminal`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = newLogger(cmd)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config directory (default is $HOME/.config/hoverword)")
	rootCmd.PersistentFlags().Bool("verbose", false, "verbose output")
	rootCmd.PersistentFlags().String("log-file", "", "write logs to this file instead of stderr")
	rootCmd.PersistentFlags().String("endpoint", "", "lookup service URL for this run (overrides the stored option)")
	rootCmd.PersistentFlags().String("variant", "", "word extraction: phrase or single")
	rootCmd.PersistentFlags().String("retry-policy", "", "handshake retry: interval or interaction")
	rootCmd.PersistentFlags().String("empty-selection", "", "cleared selection: clear or suppress")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("log_file", rootCmd.PersistentFlags().Lookup("log-file"))
	viper.BindPFlag("endpoint", rootCmd.PersistentFlags().Lookup("endpoint"))
	viper.BindPFlag("variant", rootCmd.PersistentFlags().Lookup("variant"))
	viper.BindPFlag("retry_policy", rootCmd.PersistentFlags().Lookup("retry-policy"))
	viper.BindPFlag("empty_selection", rootCmd.PersistentFlags().Lookup("empty-selection"))
}

// initConfig reads in ENV variables and resolves the config directory.
func initConfig() {
	if cfgFile != "" {
		viper.Set("config_dir", cfgFile)
	} else {
		dir, err := config.GetConfigDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}
		viper.Set("config_dir", dir)
	}

	viper.SetEnvPrefix("HOVERWORD")
	viper.AutomaticEnv()
}

// getConfigDir returns the configuration directory path.
func getConfigDir() string {
	return viper.GetString("config_dir")
}

// newLogger builds the zap logger. The terminal reader owns the screen, so it
// only logs when a log file is given.
func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	logFile := viper.GetString("log_file")
	if logFile == "" && cmd.Name() == "read" {
		return zap.NewNop(), nil
	}

	cfg := zap.NewProductionConfig()
	if viper.GetBool("verbose") {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if logFile != "" {
		cfg.OutputPaths = []string{logFile}
		cfg.ErrorOutputPaths = []string{logFile}
	}
	return cfg.Build()
}

// loadUserConfig loads config.yaml from the config directory and applies
// flag and environment overrides.
func loadUserConfig() (*config.Config, error) {
	cfg, err := config.Load(filepath.Join(getConfigDir(), config.FileName))
	if err != nil {
		return nil, err
	}

	if viper.IsSet("variant") && viper.GetString("variant") != "" {
		cfg.Variant = viper.GetString("variant")
	}
	if viper.IsSet("retry_policy") && viper.GetString("retry_policy") != "" {
		cfg.RetryPolicy = viper.GetString("retry_policy")
	}
	if viper.IsSet("empty_selection") && viper.GetString("empty_selection") != "" {
		cfg.EmptySelection = viper.GetString("empty_selection")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openSettings opens the settings store in the config directory.
func openSettings() (*settings.Store, error) {
	return settings.Open(filepath.Join(getConfigDir(), config.SettingsFileName))
}

// resolveEndPoint returns the lookup service URL: the --endpoint flag or
// HOVERWORD_ENDPOINT first, then the stored option, then the default.
func resolveEndPoint(ctx context.Context) (string, error) {
	if ep := viper.GetString("endpoint"); ep != "" {
		return settings.NormalizeEndPoint(ep)
	}

	store, err := openSettings()
	if err != nil {
		return "", err
	}
	defer store.Close()

	return store.EndPoint(ctx)
}
