package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "bot-gpt-backend", cfg.App.Name)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "https://api.groq.com/openai/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "llama-3.1-8b-instant", cfg.LLM.Model)
	assert.InDelta(t, 0.7, cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, 2000, cfg.LLM.MaxTokens)
	assert.Equal(t, 500, cfg.RAG.ChunkSizeTokens)
	assert.Equal(t, 50, cfg.RAG.ChunkOverlapTokens)
	assert.Equal(t, "chat.message.persist", cfg.RabbitMQ.MessagePersistQueue)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[app]
port = 9090

[llm]
model = "file-model"

[rag]
chunk_size_tokens = 200
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, "file-model", cfg.LLM.Model)
	assert.Equal(t, 200, cfg.RAG.ChunkSizeTokens)
	// Untouched sections keep defaults.
	assert.Equal(t, 50, cfg.RAG.ChunkOverlapTokens)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[llm]\nmodel = \"file-model\"\n"), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("LLM_MODEL", "env-model")
	t.Setenv("GROQ_API_KEY", "sekrit")
	t.Setenv("RAG_CHUNK_OVERLAP_TOKENS", "25")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "env-model", cfg.LLM.Model)
	assert.Equal(t, "sekrit", cfg.LLM.APIKey)
	assert.Equal(t, 25, cfg.RAG.ChunkOverlapTokens)
}

func TestLoadBadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	_, err := Load()
	require.Error(t, err)
}

func TestMySQLDSN(t *testing.T) {
	cfg := defaultConfig()
	cfg.MySQL.User = "bot"
	cfg.MySQL.Password = "pw"
	cfg.MySQL.Host = "db"
	cfg.MySQL.Port = 3307
	cfg.MySQL.DB = "botgpt"
	cfg.MySQL.Params = "parseTime=true"

	assert.Equal(t, "bot:pw@tcp(db:3307)/botgpt?parseTime=true", cfg.MySQLDSN())
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr())
}
