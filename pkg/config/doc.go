// Package config loads configuration structs from environment variables.
//
// It wraps github.com/joho/godotenv for optional .env files and
// github.com/caarlos0/env/v11 for tag-driven parsing:
//
//	type Config struct {
//		Env         string `env:"APP_ENV" envDefault:"development"`
//		FeedBuffer  int    `env:"ALERTS_FEED_BUFFER" envDefault:"16"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
//
// Failures wrap ErrParsingConfig or ErrLoadingEnvFile, so callers can use
// errors.Is to tell them apart.
package config
