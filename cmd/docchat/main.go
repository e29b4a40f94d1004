package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/docchat/cli/config"
	"github.com/docchat/cli/internal/documents"
	"github.com/docchat/cli/internal/embeddings"
	"github.com/docchat/cli/internal/index"
	"github.com/docchat/cli/internal/llm"
	"github.com/docchat/cli/internal/rag"
	"github.com/docchat/cli/internal/session"
	"github.com/docchat/cli/internal/tui"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to config file (default ~/.docchat/config.yaml)")
		docPath    = flag.String("doc", "", "Path to the source document (overrides config)")
	)
	flag.Parse()

	// Load .env file if it exists (for API keys)
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *docPath != "" {
		cfg.Document.Path = *docPath
	}

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	generator, err := buildGenerator(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Index build is fatal: without it no query can be served.
	ctx := context.Background()
	var loader documents.Loader = documents.NewFitzLoader(cfg.Processing.ChunkSize, cfg.Processing.ChunkOverlap)
	segments, err := loader.Load(cfg.Document.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading document: %v\n", err)
		os.Exit(1)
	}

	idx, err := buildIndex(ctx, cfg, segments, embedder)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building index: %v\n", err)
		os.Exit(1)
	}

	pipeline := rag.New(
		idx,
		embedder,
		generator,
		cfg.Processing.TopK,
		time.Duration(cfg.Generator.TimeoutSecs)*time.Second,
	)
	log := session.NewLog()

	m := tui.New(pipeline, log, cfg.Document.Path)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		os.Exit(1)
	}
}

// buildEmbedder assembles the configured embedder implementation
func buildEmbedder(cfg *config.Config) (embeddings.Embedder, error) {
	switch cfg.Embedder.Type {
	case "openai", "":
		return embeddings.NewOpenAIEmbedder(
			cfg.Embedder.BaseURL,
			apiKey(cfg.Embedder.APIKeyEnv),
			cfg.Embedder.Model,
			cfg.Embedder.Normalize,
		), nil
	case "ollama":
		return embeddings.NewOllamaEmbedder(cfg.Embedder.BaseURL, cfg.Embedder.Model, cfg.Embedder.Normalize), nil
	default:
		return nil, fmt.Errorf("unknown embedder type: %s", cfg.Embedder.Type)
	}
}

// buildGenerator assembles the configured generator implementation
func buildGenerator(cfg *config.Config) (llm.Generator, error) {
	switch cfg.Generator.Type {
	case "openai", "":
		return llm.NewOpenAIGenerator(
			cfg.Generator.BaseURL,
			apiKey(cfg.Generator.APIKeyEnv),
			cfg.Generator.Model,
		), nil
	case "ollama":
		return llm.NewOllamaGenerator(cfg.Generator.BaseURL, cfg.Generator.Model), nil
	default:
		return nil, fmt.Errorf("unknown generator type: %s", cfg.Generator.Type)
	}
}

// buildIndex embeds all segments into the configured backend
func buildIndex(ctx context.Context, cfg *config.Config, segments []documents.Segment, embedder embeddings.Embedder) (index.Index, error) {
	switch cfg.Index.Type {
	case "memory", "":
		m := index.NewMemory()
		if err := index.Build(ctx, segments, embedder, m); err != nil {
			return nil, err
		}
		return m, nil
	case "pgvector":
		p, err := index.NewPGVector(ctx, cfg.Index.ConnectionString)
		if err != nil {
			return nil, err
		}
		if err := index.Build(ctx, segments, embedder, p); err != nil {
			p.Close()
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown index type: %s", cfg.Index.Type)
	}
}

// apiKey resolves the credential from the environment. Local servers such as
// LM Studio accept any token.
func apiKey(envVar string) string {
	if key := os.Getenv(envVar); key != "" {
		return key
	}
	return "lm-studio"
}
