package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"QUICKNOTE_PORT", "QUICKNOTE_DB_DIR", "QUICKNOTE_LLM_ENDPOINT",
		"QUICKNOTE_LLM_MODEL", "QUICKNOTE_CHAT_MODEL", "QUICKNOTE_ALLOW_ORIGINS",
		"QUICKNOTE_ALLOW_NO_LLM", "GITHUB_TOKEN", "OPENAI_API_KEY",
		"MYSQL_USER", "MYSQL_PASSWORD", "MYSQL_HOST", "MYSQL_PORT", "MYSQL_DB",
	} {
		t.Setenv(name, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("QUICKNOTE_DB_DIR", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, "sqlite3", cfg.DBDriver)
	assert.Contains(t, cfg.DBDSN, DefaultDatabaseName)
	assert.Equal(t, DefaultLLMEndpoint, cfg.LLMEndpoint)
	assert.Equal(t, DefaultLLMModel, cfg.LLMModel)
	assert.Equal(t, DefaultChatModel, cfg.ChatModel)
	assert.Equal(t, DefaultTargetLanguage, cfg.TargetLanguage)
	assert.Equal(t, DefaultGenerateLanguage, cfg.GenerateLanguage)
	assert.Empty(t, cfg.LLMToken)
	assert.False(t, cfg.AllowNoLLM)
}

func TestLoadTokenPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("QUICKNOTE_DB_DIR", t.TempDir())
	t.Setenv("OPENAI_API_KEY", "openai-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "openai-key", cfg.LLMToken)

	t.Setenv("GITHUB_TOKEN", "github-token")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "github-token", cfg.LLMToken)
}

func TestLoadMySQLPreferred(t *testing.T) {
	clearEnv(t)
	t.Setenv("MYSQL_USER", "quicknote")
	t.Setenv("MYSQL_PASSWORD", "secret")
	t.Setenv("MYSQL_DB", "quicknote")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, "quicknote:secret@tcp(localhost:3306)/quicknote?charset=utf8mb4", cfg.DBDSN)
}

func TestLoadMySQLPartialFallsBackToSqlite(t *testing.T) {
	clearEnv(t)
	t.Setenv("QUICKNOTE_DB_DIR", t.TempDir())
	t.Setenv("MYSQL_USER", "quicknote")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite3", cfg.DBDriver)
}

func TestLoadInvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("QUICKNOTE_DB_DIR", t.TempDir())
	t.Setenv("QUICKNOTE_PORT", "not-a-port")

	_, err := Load()
	assert.Error(t, err)
}
