package config

import (
	"github.com/spf13/viper"
)

// Global configuration variables
var (
	// BaseURL is the OpenLibrary API endpoint
	BaseURL string
	// RatePerSecond is the request budget towards OpenLibrary
	RatePerSecond int
	// RetryAttempts is the request attempt budget before giving up
	RetryAttempts int
)

// InitConfig initializes the global configuration
func InitConfig() {
	viper.SetDefault("openlibrary.baseurl", "https://openlibrary.org")
	viper.SetDefault("openlibrary.ratelimit", 1)
	viper.SetDefault("openlibrary.retries", 3)

	BaseURL = viper.GetString("openlibrary.baseurl")
	RatePerSecond = viper.GetInt("openlibrary.ratelimit")
	RetryAttempts = viper.GetInt("openlibrary.retries")
}
