package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Library
		Sync
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Library struct {
		// Dir is the content root containing all book files.
		Dir            string
		PageSize       int
		MaxPage        int
		RecentLimit    int
		RecentCacheTTL time.Duration
		RescanEnabled  bool
		RescanSchedule string // Cron format: "0 * * * *" = hourly
	}
	Sync struct {
		DatabasePath string
		BcryptCost   int
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8080)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("library_dir", DefaultLibraryDir)
	v.SetDefault("page_size", 25)
	v.SetDefault("max_page", 10000)
	v.SetDefault("recent_limit", 25)
	v.SetDefault("recent_cache_ttl", "5m")
	v.SetDefault("library_rescan_enabled", false)
	v.SetDefault("library_rescan_schedule", "0 * * * *") // Hourly at :00
	v.SetDefault("sync_db_path", DefaultSyncDatabasePath)
	v.SetDefault("sync_bcrypt_cost", 10)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Library: Library{
			Dir:            v.GetString("LIBRARY_DIR"),
			PageSize:       v.GetInt("PAGE_SIZE"),
			MaxPage:        v.GetInt("MAX_PAGE"),
			RecentLimit:    v.GetInt("RECENT_LIMIT"),
			RecentCacheTTL: v.GetDuration("RECENT_CACHE_TTL"),
			RescanEnabled:  v.GetBool("LIBRARY_RESCAN_ENABLED"),
			RescanSchedule: v.GetString("LIBRARY_RESCAN_SCHEDULE"),
		},
		Sync: Sync{
			DatabasePath: v.GetString("SYNC_DB_PATH"),
			BcryptCost:   v.GetInt("SYNC_BCRYPT_COST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
