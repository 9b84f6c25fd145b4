package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/accredit/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "accredit.db"), cfg.DBPath)
	assert.Equal(t, 50, cfg.Snapshots.Keep)
	assert.False(t, cfg.LLM.Enabled)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	yaml := `
addr: ":9090"
snapshots:
  keep: 5
logging:
  use_cases: true
  format: json
llm:
  enabled: true
  model: mistral
  tasks:
    suggest:
      temperature: 0.7
      timeout_ms: 2000
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 5, cfg.Snapshots.Keep)
	assert.True(t, cfg.Logging.UseCases)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.LLM.Enabled)
	assert.Equal(t, "mistral", cfg.LLM.Model)
	assert.Equal(t, 2000, cfg.LLM.TaskTimeout(llm.TaskSuggest))
	assert.Equal(t, 30000, cfg.LLM.TaskTimeout(llm.TaskSummarize), "unlisted tasks keep defaults")
	assert.Equal(t, "http://localhost:11434", cfg.LLM.Endpoint)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("addr: \":9090\"\n"), 0644))
	t.Setenv("ACCREDIT_ADDR", ":7070")
	t.Setenv("ACCREDIT_DB", "/tmp/other.db")
	t.Setenv("ACCREDIT_LOG_USE_CASES", "true")
	t.Setenv("ACCREDIT_LLM_ENABLED", "true")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Addr)
	assert.Equal(t, "/tmp/other.db", cfg.DBPath)
	assert.True(t, cfg.Logging.UseCases)
	assert.True(t, cfg.LLM.Enabled)
}

func TestLoad_UnparseableEnvKeepsFileValue(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("logging:\n  use_cases: true\n"), 0644))
	t.Setenv("ACCREDIT_LOG_USE_CASES", "sometimes")
	t.Setenv("ACCREDIT_SNAPSHOT_KEEP", "many")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.True(t, cfg.Logging.UseCases)
	assert.Equal(t, 50, cfg.Snapshots.Keep)

	t.Setenv("ACCREDIT_LOG_USE_CASES", "0")
	cfg, err = Load(dir)
	require.NoError(t, err)
	assert.False(t, cfg.Logging.UseCases)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"malformed", "addr: [", "parse config"},
		{"bad keep", "snapshots:\n  keep: 0\n", "snapshots.keep"},
		{"bad format", "logging:\n  format: xml\n", "logging.format"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(tc.yaml), 0644))
			_, err := Load(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	cfg := Default(dir)
	cfg.Addr = ":6060"

	require.NoError(t, Save(dir, cfg))
	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, ":6060", loaded.Addr)
	assert.Equal(t, cfg.LLM.Tasks, loaded.LLM.Tasks)
}

func TestDir_HonorsEnv(t *testing.T) {
	t.Setenv("ACCREDIT_HOME", "/srv/accredit")
	dir, err := Dir()
	require.NoError(t, err)
	assert.Equal(t, "/srv/accredit", dir)
}
