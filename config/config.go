package config

import (
	"flag"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultServerAddr       = ":8080"
	defaultDatabaseDSN      = ""
	defaultLogLevel         = "debug"
	defaultBusinessTimezone = "Asia/Kolkata"
	defaultDigestInterval   = 24 * time.Hour
)

type Config struct {
	ServerAddr       string
	DatabaseDSN      string
	LogLevel         string
	BusinessTimezone string
	TokenKey         string
	TelegramBotToken string
	TelegramChatID   string
	DigestInterval   time.Duration
}

var (
	once      sync.Once
	singleton *Config
)

// New returns new Config. It parses command line and environment variables only once.
// A .env file in the working directory is loaded first if present.
func New() (*Config, error) {
	once.Do(func() {
		// ignore missing .env, real environment wins anyway
		_ = godotenv.Load()

		cfg := Config{}

		// initialize flags
		flag.StringVar(&cfg.ServerAddr, "a", defaultServerAddr, "server address")
		flag.StringVar(&cfg.DatabaseDSN, "d", defaultDatabaseDSN, "database DSN")
		flag.StringVar(&cfg.LogLevel, "l", defaultLogLevel, "log level")
		flag.StringVar(&cfg.BusinessTimezone, "z", defaultBusinessTimezone, "IANA timezone the business operates in")
		flag.DurationVar(&cfg.DigestInterval, "i", defaultDigestInterval, "interval between profit digest notifications")

		flag.Parse()

		// if environment variable is set, then using it
		if runAddrEnv := os.Getenv("RUN_ADDRESS"); runAddrEnv != "" {
			cfg.ServerAddr = runAddrEnv
		}
		if databaseDSNEnv := os.Getenv("DATABASE_URI"); databaseDSNEnv != "" {
			cfg.DatabaseDSN = databaseDSNEnv
		}
		if logLevelEnv := os.Getenv("LOG_LEVEL"); logLevelEnv != "" {
			cfg.LogLevel = logLevelEnv
		}
		if tzEnv := os.Getenv("BUSINESS_TIMEZONE"); tzEnv != "" {
			cfg.BusinessTimezone = tzEnv
		}
		if intervalEnv := os.Getenv("DIGEST_INTERVAL"); intervalEnv != "" {
			if d, err := time.ParseDuration(intervalEnv); err == nil {
				cfg.DigestInterval = d
			}
		}

		// secrets come from the environment only
		cfg.TokenKey = os.Getenv("TOKEN_KEY")
		cfg.TelegramBotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
		cfg.TelegramChatID = os.Getenv("TELEGRAM_CHAT_ID")

		singleton = &cfg
	})

	return singleton, nil
}
