// Package config loads server configuration with viper.
//
// Every setting has a sane default, can be overridden by environment
// variable (PORT, DB_PATH, ...) and, optionally, by a config.yaml in the
// working directory or ./config. Env vars win over the file.
package config

import (
	"github.com/spf13/viper"
)

// Config holds everything the server needs at startup. One struct rather
// than loose parameters, so adding a setting never changes a signature.
type Config struct {
	Port int

	DBPath      string
	TemplateDir string
	StaticDir   string
	MediaDir    string

	// SessionSecret signs session tokens and must be at least 16
	// characters; the server refuses to start without it.
	SessionSecret string

	// RedisAddr enables the feed response cache when non-empty
	// (host:port). Empty runs without caching.
	RedisAddr string
}

// Load reads configuration from env vars and the optional config file.
func Load() *Config {
	viper.SetDefault("PORT", 8080)
	viper.SetDefault("DB_PATH", "data/microblog.db")
	viper.SetDefault("TEMPLATE_DIR", "web/templates")
	viper.SetDefault("STATIC_DIR", "web/static")
	viper.SetDefault("MEDIA_DIR", "data/media")
	viper.SetDefault("SESSION_SECRET", "")
	viper.SetDefault("REDIS_ADDR", "")

	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	_ = viper.ReadInConfig() // the file is optional

	return &Config{
		Port:          viper.GetInt("PORT"),
		DBPath:        viper.GetString("DB_PATH"),
		TemplateDir:   viper.GetString("TEMPLATE_DIR"),
		StaticDir:     viper.GetString("STATIC_DIR"),
		MediaDir:      viper.GetString("MEDIA_DIR"),
		SessionSecret: viper.GetString("SESSION_SECRET"),
		RedisAddr:     viper.GetString("REDIS_ADDR"),
	}
}
