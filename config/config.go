package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	Document struct {
		Path string `yaml:"path"`
	} `yaml:"document"`
	Embedder struct {
		Type      string `yaml:"type"`
		BaseURL   string `yaml:"base_url"`
		APIKeyEnv string `yaml:"api_key_env"`
		Model     string `yaml:"model"`
		Normalize bool   `yaml:"normalize"`
	} `yaml:"embedder"`
	Generator struct {
		Type        string `yaml:"type"`
		BaseURL     string `yaml:"base_url"`
		APIKeyEnv   string `yaml:"api_key_env"`
		Model       string `yaml:"model"`
		TimeoutSecs int    `yaml:"timeout_secs"`
	} `yaml:"generator"`
	Index struct {
		Type             string `yaml:"type"`
		ConnectionString string `yaml:"connection_string"`
	} `yaml:"index"`
	Processing struct {
		ChunkSize    int `yaml:"chunk_size"`
		ChunkOverlap int `yaml:"chunk_overlap"`
		TopK         int `yaml:"top_k"`
	} `yaml:"processing"`
}

// Load loads configuration from a file or returns defaults when it does not exist
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	applyDefaults(cfg)

	return cfg, nil
}

// Save saves configuration to file
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultPath returns the default config file location
func DefaultPath() string {
	return filepath.Join(os.Getenv("HOME"), ".docchat", "config.yaml")
}

// Default returns default configuration
func Default() *Config {
	cfg := &Config{}

	cfg.Document.Path = filepath.Join("data", "document.pdf")
	cfg.Embedder.Type = "openai"
	cfg.Embedder.BaseURL = "http://localhost:1234/v1"
	cfg.Embedder.APIKeyEnv = "OPENAI_API_KEY"
	cfg.Embedder.Model = "text-embedding-bge-base"
	cfg.Embedder.Normalize = true
	cfg.Generator.Type = "openai"
	cfg.Generator.BaseURL = "http://localhost:1234/v1"
	cfg.Generator.APIKeyEnv = "OPENAI_API_KEY"
	cfg.Generator.Model = "qwen/qwen3-4b"
	cfg.Generator.TimeoutSecs = 120
	cfg.Index.Type = "memory"
	cfg.Index.ConnectionString = "postgres://postgres@localhost/postgres?sslmode=disable"
	cfg.Processing.ChunkSize = 512
	cfg.Processing.ChunkOverlap = 10
	cfg.Processing.TopK = 3

	return cfg
}

// applyDefaults fills fields left empty in a config file
func applyDefaults(cfg *Config) {
	def := Default()

	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = def.Embedder.Type
	}
	if cfg.Embedder.APIKeyEnv == "" {
		cfg.Embedder.APIKeyEnv = def.Embedder.APIKeyEnv
	}
	if cfg.Generator.Type == "" {
		cfg.Generator.Type = def.Generator.Type
	}
	if cfg.Generator.APIKeyEnv == "" {
		cfg.Generator.APIKeyEnv = def.Generator.APIKeyEnv
	}
	if cfg.Generator.TimeoutSecs == 0 {
		cfg.Generator.TimeoutSecs = def.Generator.TimeoutSecs
	}
	if cfg.Index.Type == "" {
		cfg.Index.Type = def.Index.Type
	}
	if cfg.Processing.ChunkSize == 0 {
		cfg.Processing.ChunkSize = def.Processing.ChunkSize
	}
	if cfg.Processing.TopK == 0 {
		cfg.Processing.TopK = def.Processing.TopK
	}
}
