package yaml_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/helpdex"
	"github.com/fwojciec/helpdex/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "helpdex.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("missing file yields defaults", func(t *testing.T) {
		t.Parallel()

		config, err := yaml.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)

		assert.Equal(t, helpdex.DefaultOllamaBaseURL, config.Ollama.BaseURL)
		assert.Equal(t, helpdex.DefaultOllamaModel, config.Ollama.Model)
		assert.Equal(t, helpdex.DefaultChunkSize, config.Sync.ChunkSize)
		assert.Equal(t, helpdex.DefaultChunkOverlap, config.Sync.ChunkOverlap)
		assert.Empty(t, config.Sources)
	})

	t.Run("parses full configuration", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `
ollama:
  baseUrl: http://embed.internal:11434
  model: mxbai-embed-large
sync:
  chunkSize: 400
  chunkOverlap: 40
sources:
  - id: acme
    name: Acme Support
    baseUrl: https://support.acme.test
    locale: en-us
  - id: globex
    name: Globex Help
    baseUrl: https://help.globex.test
    locale: de
    enabled: false
`)
		config, err := yaml.LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, "http://embed.internal:11434", config.Ollama.BaseURL)
		assert.Equal(t, "mxbai-embed-large", config.Ollama.Model)
		assert.Equal(t, 400, config.Sync.ChunkSize)
		assert.Equal(t, 40, config.Sync.ChunkOverlap)

		require.Len(t, config.Sources, 2)
		assert.True(t, config.Sources[0].Source().Enabled, "enabled defaults to true")
		assert.False(t, config.Sources[1].Source().Enabled)
	})

	t.Run("partial configuration keeps defaults elsewhere", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "sync:\n  chunkSize: 300\n")
		config, err := yaml.LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, 300, config.Sync.ChunkSize)
		assert.Equal(t, helpdex.DefaultChunkOverlap, config.Sync.ChunkOverlap)
		assert.Equal(t, helpdex.DefaultOllamaBaseURL, config.Ollama.BaseURL)
	})

	t.Run("malformed YAML is invalid", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "sources: [\n")
		_, err := yaml.LoadConfig(path)
		require.Error(t, err)
		assert.Equal(t, helpdex.EINVALID, helpdex.ErrorCode(err))
	})

	t.Run("invalid source fails validation", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `
sources:
  - id: "has space"
    name: Broken
    baseUrl: https://x.test
    locale: en-us
`)
		_, err := yaml.LoadConfig(path)
		require.Error(t, err)
		assert.Equal(t, helpdex.EINVALID, helpdex.ErrorCode(err))
	})

	t.Run("duplicate source IDs fail validation", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `
sources:
  - {id: acme, name: One, baseUrl: "https://a.test", locale: en-us}
  - {id: acme, name: Two, baseUrl: "https://b.test", locale: en-us}
`)
		_, err := yaml.LoadConfig(path)
		require.Error(t, err)
		assert.Equal(t, helpdex.EINVALID, helpdex.ErrorCode(err))
	})
}
