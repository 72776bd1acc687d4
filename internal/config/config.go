package config

import (
	"fmt"
	"os"
	"path"
	"strconv"

	"github.com/joho/godotenv"
)

var (
	DefaultPort             = 3333
	DefaultConfigDirectory  = path.Join(os.Getenv("HOME"), ".quicknote")
	DefaultDatabaseName     = "quicknote.sqlite"
	DefaultLLMEndpoint      = "https://models.github.ai/inference"
	DefaultLLMModel         = "openai/gpt-4.1-mini"
	DefaultChatModel        = "gpt-4.1"
	DefaultTargetLanguage   = "Chinese"
	DefaultGenerateLanguage = "English"
)

// Config is the resolved startup configuration. Everything comes from the
// environment, with a best-effort .env load first.
type Config struct {
	Port int

	DBDriver string
	DBDSN    string

	LLMEndpoint string
	LLMToken    string
	LLMModel    string
	ChatModel   string
	AllowNoLLM  bool

	TargetLanguage   string
	GenerateLanguage string

	AllowOrigins string
}

func Load() (*Config, error) {
	// Ignore a missing .env; explicit env vars still apply.
	godotenv.Load()

	cfg := &Config{
		Port:             DefaultPort,
		LLMEndpoint:      getenvDefault("QUICKNOTE_LLM_ENDPOINT", DefaultLLMEndpoint),
		LLMModel:         getenvDefault("QUICKNOTE_LLM_MODEL", DefaultLLMModel),
		ChatModel:        getenvDefault("QUICKNOTE_CHAT_MODEL", DefaultChatModel),
		AllowNoLLM:       os.Getenv("QUICKNOTE_ALLOW_NO_LLM") != "",
		TargetLanguage:   DefaultTargetLanguage,
		GenerateLanguage: DefaultGenerateLanguage,
		AllowOrigins:     getenvDefault("QUICKNOTE_ALLOW_ORIGINS", "*"),
	}

	if portStr := os.Getenv("QUICKNOTE_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid QUICKNOTE_PORT %q: %w", portStr, err)
		}
		cfg.Port = port
	}

	// GITHUB_TOKEN is the primary credential name for the default provider;
	// OPENAI_API_KEY is accepted as a fallback.
	cfg.LLMToken = os.Getenv("GITHUB_TOKEN")
	if cfg.LLMToken == "" {
		cfg.LLMToken = os.Getenv("OPENAI_API_KEY")
	}

	driver, dsn, err := resolveStore()
	if err != nil {
		return nil, err
	}
	cfg.DBDriver = driver
	cfg.DBDSN = dsn

	return cfg, nil
}

// resolveStore prefers MySQL when its variables are fully configured and
// falls back to a local sqlite file otherwise.
func resolveStore() (string, string, error) {
	user := os.Getenv("MYSQL_USER")
	password := os.Getenv("MYSQL_PASSWORD")
	dbName := os.Getenv("MYSQL_DB")
	if user != "" && password != "" && dbName != "" {
		host := getenvDefault("MYSQL_HOST", "localhost")
		port := getenvDefault("MYSQL_PORT", "3306")
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4", user, password, host, port, dbName)
		return "mysql", dsn, nil
	}

	dir := getenvDefault("QUICKNOTE_DB_DIR", DefaultConfigDirectory)
	if err := os.MkdirAll(dir, 0777); err != nil {
		return "", "", fmt.Errorf("failed to create DB directory %q: %w", dir, err)
	}
	return "sqlite3", path.Join(dir, DefaultDatabaseName), nil
}

func getenvDefault(name string, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
