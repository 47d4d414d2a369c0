package params

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Book struct {
	// Capacity is the fixed number of orders one (symbol, side) book can
	// hold. Storage for it is allocated when the book is first referenced,
	// so large values multiply by the number of distinct keys in the input.
	Capacity int
}

type Input struct {
	Delimiter string
}

// Query holds the report parameters the CLI prints after a replay.
type Query struct {
	Symbol string
	Time   string
	TopK   int
}

type Log struct {
	File  string // empty: stdout only
	Level string
}

type Config struct {
	Book  Book
	Input Input
	Query Query
	Log   Log
}

func Default() Config {
	return Config{
		Book:  Book{Capacity: 102400},
		Input: Input{Delimiter: ";"},
		Query: Query{
			Symbol: "DVAM1",
			Time:   "15:30:00",
			TopK:   3,
		},
		Log: Log{Level: "info"},
	}
}

// LoadFromEnv loads configuration from .env file (if exists) and environment variables
// Priority: ENV > .env file > defaults
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	if capacity := getEnvInt("BOOK_CAPACITY"); capacity > 0 {
		cfg.Book.Capacity = capacity
	}
	if k := getEnvInt("QUERY_TOP_K"); k > 0 {
		cfg.Query.TopK = k
	}
	cfg.Query.Symbol = getEnv("QUERY_SYMBOL", cfg.Query.Symbol)
	cfg.Query.Time = getEnv("QUERY_TIME", cfg.Query.Time)
	cfg.Input.Delimiter = getEnv("RECORD_DELIMITER", cfg.Input.Delimiter)
	cfg.Log.File = getEnv("LOG_FILE", cfg.Log.File)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)

	return cfg
}

// getEnv returns environment variable value or default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns 0 when key is unset or not an integer.
func getEnvInt(key string) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return 0
	}
	return v
}
