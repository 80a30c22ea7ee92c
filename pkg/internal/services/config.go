package services

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// RequireComplete rejects responses that leave a required question blank.
	RequireComplete bool
	// DefaultDuration is applied as expiry when a poll without one starts.
	DefaultDuration time.Duration
	CodeLength      int
	CodeAttempts    int
	ResultsTTL      time.Duration
	DetectLanguage  bool
}

func DefaultConfig() Config {
	return Config{
		RequireComplete: true,
		DefaultDuration: 24 * time.Hour,
		CodeLength:      6,
		CodeAttempts:    10,
		ResultsTTL:      5 * time.Minute,
		DetectLanguage:  true,
	}
}

// ReadConfig loads the polls section of the settings, falling back to
// DefaultConfig for anything unset or out of range.
func ReadConfig() Config {
	cfg := DefaultConfig()
	if viper.IsSet("polls.require_complete") {
		cfg.RequireComplete = viper.GetBool("polls.require_complete")
	}
	if viper.IsSet("polls.default_duration") {
		cfg.DefaultDuration = viper.GetDuration("polls.default_duration")
	}
	if n := viper.GetInt("polls.code_length"); n >= 4 {
		cfg.CodeLength = n
	}
	if n := viper.GetInt("polls.code_attempts"); n > 0 {
		cfg.CodeAttempts = n
	}
	if viper.IsSet("cache.results_ttl") {
		cfg.ResultsTTL = viper.GetDuration("cache.results_ttl")
	}
	if viper.IsSet("polls.detect_language") {
		cfg.DetectLanguage = viper.GetBool("polls.detect_language")
	}
	return cfg
}
