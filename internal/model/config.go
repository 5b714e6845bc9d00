package model

import "time"

// Config holds all runtime configuration
type Config struct {
	Analysis    AnalysisConfig    `yaml:"analysis" mapstructure:"analysis"`
	Precedent   PrecedentConfig   `yaml:"precedent" mapstructure:"precedent"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
	Metrics     MetricsConfig     `yaml:"metrics" mapstructure:"metrics"`
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
}

// AnalysisConfig tunes the deterministic engines
type AnalysisConfig struct {
	MaxGroupSize        int    `yaml:"max_group_size" mapstructure:"max_group_size"`   // Bounds the pairwise contradiction search
	NegationWindow      int    `yaml:"negation_window" mapstructure:"negation_window"` // Words before a match inspected for negation cues
	DefaultDocType      string `yaml:"default_doc_type" mapstructure:"default_doc_type"`
	DefaultJurisdiction string `yaml:"default_jurisdiction" mapstructure:"default_jurisdiction"`
}

// PrecedentConfig configures the precedent alignment service
type PrecedentConfig struct {
	Enabled       bool          `yaml:"enabled" mapstructure:"enabled"`
	Embedder      string        `yaml:"embedder" mapstructure:"embedder"` // hash, openai
	Index         string        `yaml:"index" mapstructure:"index"`       // memory, milvus
	CorpusPath    string        `yaml:"corpus_path" mapstructure:"corpus_path"`
	TopK          int           `yaml:"top_k" mapstructure:"top_k"`
	MinScore      float64       `yaml:"min_score" mapstructure:"min_score"`
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Dimensions    int           `yaml:"dimensions" mapstructure:"dimensions"` // Hash embedder only
	RatePerSecond float64       `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	Burst         int           `yaml:"burst" mapstructure:"burst"`
	OpenAI        OpenAIConfig  `yaml:"openai" mapstructure:"openai"`
	Milvus        MilvusConfig  `yaml:"milvus" mapstructure:"milvus"`
}

// OpenAIConfig configures the embeddings client
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// MilvusConfig configures the vector index connection
type MilvusConfig struct {
	Address           string   `yaml:"address" mapstructure:"address"`
	Username          string   `yaml:"username,omitempty" mapstructure:"username"`
	Password          string   `yaml:"password,omitempty" mapstructure:"password"`
	DBName            string   `yaml:"db_name,omitempty" mapstructure:"db_name"`
	Collection        string   `yaml:"collection" mapstructure:"collection"`
	VectorField       string   `yaml:"vector_field" mapstructure:"vector_field"`
	IDField           string   `yaml:"id_field" mapstructure:"id_field"`
	MetadataFields    []string `yaml:"metadata_fields" mapstructure:"metadata_fields"`
	UserField         string   `yaml:"user_field" mapstructure:"user_field"`
	JurisdictionField string   `yaml:"jurisdiction_field" mapstructure:"jurisdiction_field"`
}

// CacheConfig configures the embedding cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
	Redis     RedisConfig   `yaml:"redis" mapstructure:"redis"`
}

// RedisConfig enables a shared cache layer when Addr is set
type RedisConfig struct {
	Addr     string `yaml:"addr,omitempty" mapstructure:"addr"`
	Password string `yaml:"password,omitempty" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
	Prefix   string `yaml:"prefix" mapstructure:"prefix"`
}

// ConcurrencyConfig holds concurrency settings
type ConcurrencyConfig struct {
	BatchWorkers int `yaml:"batch_workers" mapstructure:"batch_workers"`
}

// OutputConfig holds output settings
type OutputConfig struct {
	Format        string `yaml:"format" mapstructure:"format"` // json, yaml, markdown
	IncludeFooter bool   `yaml:"include_footer" mapstructure:"include_footer"`
	Verbose       bool   `yaml:"verbose" mapstructure:"verbose"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json, console
}

// MetricsConfig holds metrics settings
type MetricsConfig struct {
	Enabled      bool   `yaml:"enabled" mapstructure:"enabled"`
	TextfilePath string `yaml:"textfile_path,omitempty" mapstructure:"textfile_path"`
}

// HTTPConfig holds outbound HTTP settings for submission fetches and the
// embeddings client
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			MaxGroupSize:   64,
			NegationWindow: 4,
		},
		Precedent: PrecedentConfig{
			Enabled:       false,
			Embedder:      "hash",
			Index:         "memory",
			TopK:          5,
			MinScore:      0.5,
			Timeout:       5 * time.Second,
			Dimensions:    256,
			RatePerSecond: 5,
			Burst:         5,
			OpenAI: OpenAIConfig{
				Model: "text-embedding-3-small",
			},
			Milvus: MilvusConfig{
				Address:           "localhost:19530",
				Collection:        "precedents",
				VectorField:       "embedding",
				IDField:           "case_id",
				MetadataFields:    []string{"court", "year", "summary"},
				UserField:         "user_id",
				JurisdictionField: "jurisdiction",
			},
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".alegato-cache",
			MemoryTTL: 1 * time.Hour,
			DiskTTL:   7 * 24 * time.Hour,
			Redis: RedisConfig{
				Prefix: "alegato:",
			},
		},
		Concurrency: ConcurrencyConfig{
			BatchWorkers: 4,
		},
		Output: OutputConfig{
			Format:        "json",
			IncludeFooter: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Metrics: MetricsConfig{
			Enabled: false,
		},
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Alegato/0.1 (+https://github.com/ppiankov/alegato)",
			MaxBodyBytes: 10_000_000,
		},
	}
}
