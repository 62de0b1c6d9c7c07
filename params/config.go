package params

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the host harness configuration. The core engines take no
// configuration at all; these knobs only shape the process around them.
type Config struct {
	// Markets to register at startup, as "SYMBOL:BASE:QUOTE" triples.
	Markets []string

	// FundingInterval is how often the harness ticks the funding engine.
	FundingInterval time.Duration

	// LogFile receives a copy of the structured log when non-empty.
	LogFile string
}

func Default() Config {
	return Config{
		Markets:         []string{"BTC-USDC:BTC:USDC"},
		FundingInterval: 8 * time.Hour,
		LogFile:         "",
	}
}

// LoadFromEnv loads configuration from a .env file (if present) and
// environment variables. Priority: ENV > .env file > defaults.
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load() // .env in current directory, optional
	}

	if markets := os.Getenv("MARKETS"); markets != "" {
		cfg.Markets = strings.Split(markets, ",")
	}
	if mins := os.Getenv("FUNDING_INTERVAL_MIN"); mins != "" {
		if m, err := strconv.Atoi(mins); err == nil && m > 0 {
			cfg.FundingInterval = time.Duration(m) * time.Minute
		}
	}
	if lf := os.Getenv("LOG_FILE"); lf != "" {
		cfg.LogFile = lf
	}

	return cfg
}
