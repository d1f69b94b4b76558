package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	AppName          string          `mapstructure:"app_name"`
	Env              string          `mapstructure:"env"`
	Mode             string          `mapstructure:"mode"`
	Port             int             `mapstructure:"port"`
	DataDir          string          `mapstructure:"data_dir"`
	PersonaPath      string          `mapstructure:"persona_path"`
	RealtimeURL      string          `mapstructure:"realtime_url"`
	ReconnectBackoff []time.Duration `mapstructure:"reconnect_backoff"`

	// Credentials come from the environment, never from the config file,
	// and are never logged.
	OpenAIAPIKey      string `mapstructure:"openai_api_key"`
	TwilioAccountSID  string `mapstructure:"twilio_account_sid"`
	TwilioAuthToken   string `mapstructure:"twilio_auth_token"`
	ChronicleEndpoint string `mapstructure:"chronicle_endpoint"`
	AdminToken        string `mapstructure:"admin_token"`
}

// RequiredKeys are the environment variables a production deployment must
// provide. Missing reports which are absent by name only.
var RequiredKeys = []string{
	"OPENAI_API_KEY",
	"TWILIO_ACCOUNT_SID",
	"TWILIO_AUTH_TOKEN",
	"ADMIN_TOKEN",
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)
	v.SetConfigFile(fileName)

	v.SetDefault("app_name", "nyra-realtime")
	v.SetDefault("env", "development")
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("data_dir", "./data")
	v.SetDefault("persona_path", "")
	v.SetDefault("realtime_url", "wss://api.openai.com/v1/realtime")
	v.SetDefault("reconnect_backoff", []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		500 * time.Millisecond,
		time.Second,
	})

	v.AutomaticEnv()
	for _, key := range []string{
		"OPENAI_API_KEY", "TWILIO_ACCOUNT_SID", "TWILIO_AUTH_TOKEN",
		"CHRONICLE_ENDPOINT", "ADMIN_TOKEN",
	} {
		_ = v.BindEnv(strings.ToLower(key), key)
	}

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Missing returns the names of required environment variables that are not
// set. Values are never inspected beyond emptiness and never printed.
func Missing(lookup func(string) (string, bool)) []string {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	var missing []string
	for _, key := range RequiredKeys {
		if val, ok := lookup(key); !ok || val == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

// Validate checks that every required credential is present in the
// environment and reports missing names in the error.
func Validate() error {
	if missing := Missing(nil); len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}
