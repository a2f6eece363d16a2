package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/imishinist/mlflow-track/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "mlflow-track",
	Short: "MLflow tracking REST client",
	Long: `A small client for the MLflow tracking REST API.
Creates or reuses an experiment, starts a run and logs parameters, metrics,
tags and model metadata to it.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default is ./mlflow-track.yaml, then $HOME/mlflow-track.yaml)")
	rootCmd.PersistentFlags().String("hostname", "", "Tracking server hostname (overrides MLFLOW_HOSTNAME)")
	rootCmd.PersistentFlags().Int("port", 0, "Tracking server port (overrides MLFLOW_PORT)")
	rootCmd.PersistentFlags().String("experiment-name", "", "Experiment name (overrides MLFLOW_EXPERIMENT_NAME)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides MLFLOW_LOG_LEVEL)")
}

func initConfig() {
	config.SetDefaults()
	checkError(config.BindEnv())

	flags := map[string]string{
		config.KeyHostname:       "hostname",
		config.KeyPort:           "port",
		config.KeyExperimentName: "experiment-name",
		config.KeyLogLevel:       "log-level",
	}
	for key, name := range flags {
		checkError(viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(name)))
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName("mlflow-track")
	}

	if err := viper.ReadInConfig(); err != nil {
		// Without --config a missing file just means flags and env only.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			checkError(fmt.Errorf("failed to read config: %w", err))
		}
	}
}

// newLogger builds the client logger at the configured level.
func newLogger(cfg *config.Config) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "mlflow-track"})
	if level, err := log.ParseLevel(strings.ToLower(cfg.LogLevel)); err == nil {
		logger.SetLevel(level)
	}
	return logger
}

func checkError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
