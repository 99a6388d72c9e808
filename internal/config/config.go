package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func LoadConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("/etc/kansa/")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Warn().Msg("Config file not found")
		} else {
			log.Panic().Err(err).Msg("Fatal error reading config file")
		}
	}
	SetDefaultConfig()
}

func SetDefaultConfig() {
	// Scan pipeline
	viper.SetDefault("scan.concurrency.max_total", 4)
	viper.SetDefault("scan.concurrency.per_scanner.wave", 1)
	viper.SetDefault("scan.concurrency.per_scanner.pa11y", 2)
	viper.SetDefault("scan.concurrency.per_scanner.axe", 2)
	viper.SetDefault("scan.concurrency.per_scanner.lighthouse", 2)
	viper.SetDefault("scan.selection.cap", 15)
	viper.SetDefault("scan.scanner_timeout", 60)
	viper.SetDefault("scan.session_timeout", 1800)
	viper.SetDefault("scan.kill_grace", 2)

	// Scanner tools
	viper.SetDefault("scanners.pa11y.binary", "pa11y")
	viper.SetDefault("scanners.axe.binary", "axe")
	viper.SetDefault("scanners.lighthouse.binary", "lighthouse")
	viper.SetDefault("wave.api_url", "https://wave.webaim.org/api/request")
	viper.SetDefault("wave.api_key", "")

	// Crawl
	viper.SetDefault("crawl.max_pages", 20)
	viper.SetDefault("crawl.max_depth", 2)
	viper.SetDefault("crawl.fetch_timeout", 3)
	viper.SetDefault("crawl.concurrency", 4)
	viper.SetDefault("crawl.user_agent", "")

	// Session retention, all in seconds
	viper.SetDefault("sessions.terminal_ttl", 86400)
	viper.SetDefault("sessions.active_ttl", 21600)
	viper.SetDefault("sessions.sweep_interval", 300)

	// Storage
	viper.SetDefault("storage.enabled", false)
	viper.SetDefault("storage.directory", "scans")

	// API
	viper.SetDefault("api.listen.host", "")
	viper.SetDefault("api.listen.port", 8013)
	viper.SetDefault("api.cors.origins", []string{"*"})
	viper.SetDefault("api.docs.enabled", true)
	viper.SetDefault("api.docs.path", "/docs")
	viper.SetDefault("api.metrics.enabled", true)
	viper.SetDefault("api.metrics.path", "/metrics")
	viper.SetDefault("api.metrics.title", "Kansa Metrics")
}
