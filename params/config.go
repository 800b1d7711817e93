package params

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Server struct {
	ListenAddr  string
	CORSOrigins []string
}

type Storage struct {
	// DataDir holds the balance database, the event journal and log files.
	DataDir string
}

type Kafka struct {
	// Brokers empty means Kafka publishing is disabled.
	Brokers []string
	Topic   string
}

// Bootstrap describes the market created at startup when the registry is
// empty, so a fresh node is immediately tradable.
type Bootstrap struct {
	Base       string
	Quote      string
	LotSize    int64
	TickSize   int64
	MinSize    int64
	FeeRateBps int64
}

type Config struct {
	Server    Server
	Storage   Storage
	Kafka     Kafka
	Bootstrap Bootstrap
	LogFile   string
}

func Default() Config {
	return Config{
		Server: Server{
			ListenAddr:  ":8080",
			CORSOrigins: []string{"http://localhost:3000"},
		},
		Storage: Storage{DataDir: "data"},
		Kafka: Kafka{
			Brokers: nil,
			Topic:   "helix.events",
		},
		Bootstrap: Bootstrap{
			Base:       "WETH",
			Quote:      "USDC",
			LotSize:    100, // 0.01 WETH per lot
			TickSize:   10,  // $0.01 per tick
			MinSize:    100, // one lot minimum
			FeeRateBps: 25,  // 0.25%
		},
		LogFile: "data/node.log",
	}
}

// LoadFromEnv loads configuration from a .env file (if present) and the
// environment. Priority: ENV > .env > defaults.
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	cfg.Server.ListenAddr = envStr("LISTEN_ADDR", cfg.Server.ListenAddr)
	cfg.Server.CORSOrigins = envList("CORS_ORIGINS", cfg.Server.CORSOrigins)
	cfg.Storage.DataDir = envStr("DATA_DIR", cfg.Storage.DataDir)
	cfg.Kafka.Brokers = envList("KAFKA_BROKERS", cfg.Kafka.Brokers)
	cfg.Kafka.Topic = envStr("KAFKA_TOPIC", cfg.Kafka.Topic)
	cfg.LogFile = envStr("LOG_FILE", cfg.LogFile)

	cfg.Bootstrap.Base = envStr("MARKET_BASE", cfg.Bootstrap.Base)
	cfg.Bootstrap.Quote = envStr("MARKET_QUOTE", cfg.Bootstrap.Quote)
	cfg.Bootstrap.LotSize = envInt64("MARKET_LOT_SIZE", cfg.Bootstrap.LotSize)
	cfg.Bootstrap.TickSize = envInt64("MARKET_TICK_SIZE", cfg.Bootstrap.TickSize)
	cfg.Bootstrap.MinSize = envInt64("MARKET_MIN_SIZE", cfg.Bootstrap.MinSize)
	cfg.Bootstrap.FeeRateBps = envInt64("MARKET_FEE_BPS", cfg.Bootstrap.FeeRateBps)

	return cfg
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
