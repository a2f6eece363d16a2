package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Viper keys. The main.* keys mirror the [main] section of the classic
// tracking config file.
const (
	KeyHostname       = "main.hostname"
	KeyPort           = "main.port"
	KeyExperimentName = "main.experiment-name"
	KeyLogLevel       = "log-level"
)

// APIPath is the REST prefix every tracking endpoint lives under.
const APIPath = "/api/2.0/mlflow"

// Defaults used when neither file, environment nor flags set a value.
const (
	DefaultHostname = "127.0.0.1"
	DefaultPort     = 5000
	DefaultLogLevel = "info"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

type Config struct {
	Hostname       string
	Port           int
	ExperimentName string
	LogLevel       string
}

func New() *Config {
	return &Config{
		Hostname:       viper.GetString(KeyHostname),
		Port:           viper.GetInt(KeyPort),
		ExperimentName: viper.GetString(KeyExperimentName),
		LogLevel:       viper.GetString(KeyLogLevel),
	}
}

// SetDefaults registers the default values with viper.
func SetDefaults() {
	viper.SetDefault(KeyHostname, DefaultHostname)
	viper.SetDefault(KeyPort, DefaultPort)
	viper.SetDefault(KeyLogLevel, DefaultLogLevel)
}

// BindEnv maps the short MLFLOW_* variables onto the sectioned keys.
func BindEnv() error {
	bindings := map[string]string{
		KeyHostname:       "MLFLOW_HOSTNAME",
		KeyPort:           "MLFLOW_PORT",
		KeyExperimentName: "MLFLOW_EXPERIMENT_NAME",
		KeyLogLevel:       "MLFLOW_LOG_LEVEL",
	}
	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			return fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}
	return nil
}

// Validate checks the connection settings. The experiment name is checked
// separately by RequireExperiment because read-only commands do not need it.
func (c *Config) Validate() error {
	if c.Hostname == "" {
		return fmt.Errorf("hostname is required")
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d (valid: 1-65535)", c.Port)
	}

	if c.LogLevel != "" && !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// RequireExperiment validates the config for commands that bind a run.
func (c *Config) RequireExperiment() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.ExperimentName == "" {
		return fmt.Errorf("experiment name must be specified via --experiment-name, MLFLOW_EXPERIMENT_NAME or the config file")
	}
	return nil
}

// BaseURL returns http://{host}:{port}/api/2.0/mlflow.
func (c *Config) BaseURL() string {
	return "http://" + net.JoinHostPort(c.Hostname, strconv.Itoa(c.Port)) + APIPath
}
