package model

import "time"

// Config is the full runtime configuration, assembled from defaults, the
// config file, CLAIMFORGE_* environment variables and CLI flags.
type Config struct {
	Data      DataConfig      `yaml:"data"`
	Index     IndexConfig     `yaml:"index"`
	Cache     CacheConfig     `yaml:"cache"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	Form      FormConfig      `yaml:"form"`
	Output    OutputConfig    `yaml:"output"`
}

// DataConfig locates the tabular record store.
type DataConfig struct {
	CSVPath string `yaml:"csv_path"`
}

// IndexConfig locates the persistent vector index.
type IndexConfig struct {
	Dir string `yaml:"dir"`
}

// CacheConfig controls the embedding cache layers.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// EmbeddingConfig configures the embedding capability. APIKey is injected
// from the environment at startup; an empty key is a fatal startup error.
type EmbeddingConfig struct {
	Model   string        `yaml:"model"`
	APIKey  string        `yaml:"-"`
	BaseURL string        `yaml:"base_url,omitempty"`
	Timeout time.Duration `yaml:"timeout"`
	RPM     int           `yaml:"rpm"`
}

// LLMConfig configures the claim normalization model.
type LLMConfig struct {
	Model     string        `yaml:"model"`
	APIKey    string        `yaml:"-"`
	BaseURL   string        `yaml:"base_url,omitempty"`
	Timeout   time.Duration `yaml:"timeout"`
	MaxTokens int           `yaml:"max_tokens"`
	RPM       int           `yaml:"rpm"`
}

// FormConfig locates the PDF template and output artifacts.
type FormConfig struct {
	TemplatePath string `yaml:"template_path"`
	OutputPath   string `yaml:"output_path"`
	OutputDir    string `yaml:"output_dir"`
}

// OutputConfig controls CLI output behavior.
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			CSVPath: "knowledge/ub04_claims.csv",
		},
		Index: IndexConfig{
			Dir: "db/chromem",
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".claimforge-cache",
			MemoryTTL: 1 * time.Hour,
			DiskTTL:   24 * time.Hour,
		},
		Embedding: EmbeddingConfig{
			Model:   "text-embedding-3-large",
			Timeout: 30 * time.Second,
			RPM:     30,
		},
		LLM: LLMConfig{
			Model:     "gpt-4.1-2025-04-14",
			Timeout:   60 * time.Second,
			MaxTokens: 10000,
			RPM:       40,
		},
		Form: FormConfig{
			TemplatePath: "template/ub04.pdf",
			OutputPath:   "output/ub04_claim_filled.pdf",
			OutputDir:    "output",
		},
		Output: OutputConfig{
			Verbose: false,
		},
	}
}
