package helpdex

// Default embedding service settings.
const (
	DefaultOllamaBaseURL = "http://localhost:11434"
	DefaultOllamaModel   = "nomic-embed-text"
)

// Config is the validated configuration structure consumed by the CLI.
type Config struct {
	Ollama  OllamaConfig   `yaml:"ollama"`
	Sync    SyncConfig     `yaml:"sync"`
	Sources []SourceConfig `yaml:"sources"`
}

// OllamaConfig configures the embedding service.
type OllamaConfig struct {
	BaseURL string `yaml:"baseUrl"`
	Model   string `yaml:"model"`
}

// SyncConfig configures the chunking parameters used during sync.
type SyncConfig struct {
	ChunkSize    int `yaml:"chunkSize"`
	ChunkOverlap int `yaml:"chunkOverlap"`
}

// SourceConfig is one configured source collection.
type SourceConfig struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	BaseURL string `yaml:"baseUrl"`
	Locale  string `yaml:"locale"`
	Enabled *bool  `yaml:"enabled"` // nil means enabled
}

// ApplyDefaults fills in zero-valued fields with defaults.
func (c *Config) ApplyDefaults() {
	if c.Ollama.BaseURL == "" {
		c.Ollama.BaseURL = DefaultOllamaBaseURL
	}
	if c.Ollama.Model == "" {
		c.Ollama.Model = DefaultOllamaModel
	}
	if c.Sync.ChunkSize <= 0 {
		c.Sync.ChunkSize = DefaultChunkSize
	}
	if c.Sync.ChunkOverlap <= 0 {
		c.Sync.ChunkOverlap = DefaultChunkOverlap
	}
}

// Validate returns an error if the configuration contains invalid fields.
func (c *Config) Validate() error {
	if c.Sync.ChunkOverlap >= c.Sync.ChunkSize {
		return Errorf(EINVALID, "chunk overlap %d must be smaller than chunk size %d",
			c.Sync.ChunkOverlap, c.Sync.ChunkSize)
	}
	seen := make(map[string]struct{}, len(c.Sources))
	for i := range c.Sources {
		src := c.Sources[i].Source()
		if err := src.Validate(); err != nil {
			return err
		}
		if _, ok := seen[src.ID]; ok {
			return Errorf(EINVALID, "duplicate source ID %q", src.ID)
		}
		seen[src.ID] = struct{}{}
	}
	return nil
}

// Source converts the config entry to a domain Source.
func (sc *SourceConfig) Source() *Source {
	enabled := true
	if sc.Enabled != nil {
		enabled = *sc.Enabled
	}
	return &Source{
		ID:      sc.ID,
		Name:    sc.Name,
		BaseURL: sc.BaseURL,
		Locale:  sc.Locale,
		Enabled: enabled,
	}
}
