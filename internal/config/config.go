package config

import "os"

type Config struct {
	Port      string
	RedisAddr string // Empty disables Redis (sale numbers fall back to random suffixes)
	AppName   string
}

func Load() Config {
	return Config{
		Port:      getenv("PORT", "3000"),
		RedisAddr: os.Getenv("REDIS_ADDR"),
		AppName:   getenv("APP_NAME", "POS API v1.0"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
