package config

import (
	"log"
	"os"
	"time"
)

type Config struct {
	Port         string
	DBDSN        string
	LogFile      string
	LogLevel     string
	RedisAddr    string
	ItemCacheTTL time.Duration
	SeedFile     string
	AdminKeyHash string
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "discountd.db"
	} // sqlite file in working directory
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./discountd.log"
	}
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "info"
	}
	ttl := time.Minute
	if v := os.Getenv("ITEM_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			ttl = d
		} else {
			log.Printf("[config] ignoring ITEM_CACHE_TTL=%q", v)
		}
	}

	cfg := Config{
		Port:         port,
		DBDSN:        dsn,
		LogFile:      logFile,
		LogLevel:     level,
		RedisAddr:    os.Getenv("REDIS_ADDR"), // empty disables the item cache
		ItemCacheTTL: ttl,
		SeedFile:     os.Getenv("SEED_FILE"),
		AdminKeyHash: os.Getenv("ADMIN_KEY_HASH"),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s LOG_LEVEL=%s REDIS_ADDR=%s SEED_FILE=%s admin_key=%t",
		cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.LogLevel, cfg.RedisAddr, cfg.SeedFile, cfg.AdminKeyHash != "")
	return cfg
}
