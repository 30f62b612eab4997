package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything main needs to wire the gateway. Values come from
// the environment so deployment stays twelve-factor; development defaults are
// filled in where safe.
type Config struct {
	Server   Server
	Postgres Postgres
	Redis    Redis
	Kafka    Kafka
	Oracle   Oracle
	Drop     Drop
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	AdminJWTKey   string
	ShutdownGrace time.Duration
}

// Postgres holds the SQL connection settings. Empty DSN means the in-memory
// stores are used instead.
type Postgres struct {
	DSN string
}

// Redis holds the redis connection settings. Empty URL means redis is not
// configured.
type Redis struct {
	URL          string
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Kafka holds the settlement channel settings. Empty brokers means the
// in-process channel is used instead.
type Kafka struct {
	Brokers []string
	Topic   string
	Group   string
}

// Oracle holds the eligibility gateway settings.
type Oracle struct {
	GatewayURL string
	Timeout    time.Duration
}

// Drop holds the per-deployment payout parameters. These are immutable for
// the lifetime of a deployment.
type Drop struct {
	ApplicationID  string // deployment identity bound into every claim signature
	TokenSymbol    string
	PayoutAmount   string // fixed-point decimal, e.g. "1"
	SnapshotBlock  uint64
	MinimumBalance string // fixed-point decimal threshold used in the oracle query
	ShardID        string // shard this instance submits claims on
	TreasuryShard  string // shard holding the payable balance
	TreasuryOwner  string // account on the treasury shard holding the drop pool
	TreasuryFund   string // pool funding applied to an empty in-memory treasury
	ChannelSecret  string // HMAC key authenticating settlement messages
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:          envOr("ZKDROP_ADDR", ":8080"),
			AdminJWTKey:   envOr("ZKDROP_ADMIN_JWT_KEY", "dev-secret-key-change-in-production"),
			ShutdownGrace: envDurationOr("ZKDROP_SHUTDOWN_GRACE", 10*time.Second),
		},
		Postgres: Postgres{
			DSN: os.Getenv("ZKDROP_POSTGRES_DSN"),
		},
		Redis: Redis{
			URL:          os.Getenv("ZKDROP_REDIS_URL"),
			PoolSize:     envIntOr("ZKDROP_REDIS_POOL_SIZE", 10),
			DialTimeout:  envDurationOr("ZKDROP_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDurationOr("ZKDROP_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDurationOr("ZKDROP_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: Kafka{
			Brokers: splitNonEmpty(os.Getenv("ZKDROP_KAFKA_BROKERS")),
			Topic:   envOr("ZKDROP_KAFKA_TOPIC", "zkdrop.settlements"),
			Group:   envOr("ZKDROP_KAFKA_GROUP", "zkdrop-treasury"),
		},
		Oracle: Oracle{
			GatewayURL: envOr("ZKDROP_ORACLE_URL", "https://proxy.api.spaceandtime.dev/v1/sql"),
			Timeout:    envDurationOr("ZKDROP_ORACLE_TIMEOUT", 10*time.Second),
		},
		Drop: Drop{
			ApplicationID:  envOr("ZKDROP_APPLICATION_ID", "zkdrop-dev"),
			TokenSymbol:    envOr("ZKDROP_TOKEN_SYMBOL", "TOK"),
			PayoutAmount:   envOr("ZKDROP_PAYOUT_AMOUNT", "1"),
			SnapshotBlock:  uint64(envIntOr("ZKDROP_SNAPSHOT_BLOCK", 0)),
			MinimumBalance: envOr("ZKDROP_MINIMUM_BALANCE", "0"),
			ShardID:        envOr("ZKDROP_SHARD_ID", "submission-0"),
			TreasuryShard:  envOr("ZKDROP_TREASURY_SHARD", "treasury-0"),
			TreasuryOwner:  envOr("ZKDROP_TREASURY_OWNER", "drop-pool"),
			TreasuryFund:   envOr("ZKDROP_TREASURY_FUND", "1000000"),
			ChannelSecret:  envOr("ZKDROP_CHANNEL_SECRET", "dev-channel-secret"),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
