package config

import (
	"flag"
	"os"
	"sync"
	"time"
)

const (
	defaultServerAddress   = ":8080"
	defaultDatabaseDSN     = ""
	defaultRedisAddress    = "localhost:6379"
	defaultIdentityAddress = "http://localhost:8181"
	defaultLedgerAddress   = "http://localhost:8282"
	defaultNotifyAddress   = "http://localhost:8383"
	defaultGeocodeAddress  = "http://localhost:8484"
	defaultLogLevel        = "debug"
	defaultCancelWindow    = 25 * time.Second
)

type Config struct {
	ServerAddr   string
	DatabaseDSN  string
	RedisAddr    string
	IdentityAddr string
	LedgerAddr   string
	NotifyAddr   string
	GeocodeAddr  string
	LogLevel     string
	CancelWindow time.Duration
}

var (
	once      sync.Once
	singleton *Config
)

// New returns new Config. It parses command line and environment variables only once.
func New() (*Config, error) {
	once.Do(func() {
		cfg := Config{}

		// initialize flags
		flag.StringVar(&cfg.ServerAddr, "a", defaultServerAddress, "order core server address")
		flag.StringVar(&cfg.DatabaseDSN, "d", defaultDatabaseDSN, "order store database DSN")
		flag.StringVar(&cfg.RedisAddr, "c", defaultRedisAddress, "change feed redis address")
		flag.StringVar(&cfg.IdentityAddr, "i", defaultIdentityAddress, "identity provider address")
		flag.StringVar(&cfg.LedgerAddr, "w", defaultLedgerAddress, "wallet ledger service address")
		flag.StringVar(&cfg.NotifyAddr, "n", defaultNotifyAddress, "notification dispatcher address")
		flag.StringVar(&cfg.GeocodeAddr, "g", defaultGeocodeAddress, "geocoder service address")
		flag.StringVar(&cfg.LogLevel, "l", defaultLogLevel, "log level")
		flag.DurationVar(&cfg.CancelWindow, "t", defaultCancelWindow, "consumer cancellation window")

		flag.Parse()

		// if environment variable is set, then using it
		if runAddrEnv := os.Getenv("RUN_ADDRESS"); runAddrEnv != "" {
			cfg.ServerAddr = runAddrEnv
		}
		if databaseURIEnv := os.Getenv("DATABASE_URI"); databaseURIEnv != "" {
			cfg.DatabaseDSN = databaseURIEnv
		}
		if redisAddrEnv := os.Getenv("REDIS_ADDRESS"); redisAddrEnv != "" {
			cfg.RedisAddr = redisAddrEnv
		}
		if identityAddrEnv := os.Getenv("IDENTITY_ADDRESS"); identityAddrEnv != "" {
			cfg.IdentityAddr = identityAddrEnv
		}
		if ledgerAddrEnv := os.Getenv("LEDGER_ADDRESS"); ledgerAddrEnv != "" {
			cfg.LedgerAddr = ledgerAddrEnv
		}
		if notifyAddrEnv := os.Getenv("NOTIFY_ADDRESS"); notifyAddrEnv != "" {
			cfg.NotifyAddr = notifyAddrEnv
		}
		if geocodeAddrEnv := os.Getenv("GEOCODE_ADDRESS"); geocodeAddrEnv != "" {
			cfg.GeocodeAddr = geocodeAddrEnv
		}
		if logLevelEnv := os.Getenv("LOG_LEVEL"); logLevelEnv != "" {
			cfg.LogLevel = logLevelEnv
		}
		if cancelWindowEnv := os.Getenv("CANCEL_WINDOW"); cancelWindowEnv != "" {
			if d, err := time.ParseDuration(cancelWindowEnv); err == nil {
				cfg.CancelWindow = d
			}
		}

		singleton = &cfg
	})

	return singleton, nil
}
