package cmd

import (
	"errors"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "lead-scorer"
)

type Config struct {
	Server  *ServerConfig  `mapstructure:"server"`
	Scoring *ScoringConfig `mapstructure:"scoring"`
	Notify  *NotifyConfig  `mapstructure:"notify"`
	AI      *AIConfig      `mapstructure:"ai"`
}

type ServerConfig struct {
	Port       int    `mapstructure:"port"`
	StorageDir string `mapstructure:"storage-dir"`
}

type ScoringConfig struct {
	Workers int `mapstructure:"workers"`
}

type NotifyConfig struct {
	Slack *SlackConfig `mapstructure:"slack"`
}

type SlackConfig struct {
	// WebhookURL is a secret and is never printed.
	WebhookURL     string        `mapstructure:"webhook-url" json:"-"`
	WebhookURLFile string        `mapstructure:"webhook-url-file"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile        string  `mapstructure:"api-key-file"`
	Model             string  `mapstructure:"model"`
	MaxAttempts       int     `mapstructure:"max-attempts"`
	MaxLogLength      int     `mapstructure:"max-log-length"`
	RequestsPerSecond float64 `mapstructure:"requests-per-second"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "lead-scorer scores sales leads against a product offer and reports the best ones",
	}

	envBindings = map[string]string{
		"server.port":                   "PORT",
		"notify.slack.webhook-url":      "SLACK_WEBHOOK_URL",
		"notify.slack.webhook-url-file": "SLACK_WEBHOOK_URL_FILE",
		"ai.gemini.api-key-file":        "GEMINI_API_KEY_FILE",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	setDefaults(viper.GetViper())

	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is lead-scorer.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.storage-dir", "storage")
	v.SetDefault("scoring.workers", 4)
	v.SetDefault("notify.slack.timeout", 10*time.Second)
	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	v.SetDefault("ai.gemini.max-attempts", 3)
	v.SetDefault("ai.gemini.max-log-length", 200)
	v.SetDefault("ai.gemini.requests-per-second", 1)
}

func initConfig() {
	if versionCmd.CalledAs() != "" {
		return
	}

	if err := readConfig(viper.GetViper(), cfgFile); err != nil {
		log.Fatal(err)
	}
}

// readConfig loads the config file. Without an explicit path a missing
// lead-scorer.yaml is fine and env plus defaults apply.
func readConfig(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		return v.ReadInConfig()
	}

	v.AddConfigPath(".")
	v.SetConfigName(app)
	v.SetConfigType("yaml")

	err := v.ReadInConfig()

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}
	return err
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Server == nil {
		config.Server = &ServerConfig{}
	}
	if config.Scoring == nil {
		config.Scoring = &ScoringConfig{}
	}
	if config.Notify == nil {
		config.Notify = &NotifyConfig{}
	}
	if config.Notify.Slack == nil {
		config.Notify.Slack = &SlackConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}

	return config, nil
}
