// Package main is the Oshiete CLI entry point.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hyperjump/oshiete/internal/cli"
	"github.com/hyperjump/oshiete/internal/config"
	"github.com/hyperjump/oshiete/internal/content"
	"github.com/hyperjump/oshiete/internal/embedding"
	"github.com/hyperjump/oshiete/internal/indexer"
	"github.com/hyperjump/oshiete/internal/keyword"
	"github.com/hyperjump/oshiete/internal/models"
	"github.com/hyperjump/oshiete/internal/ranking"
	"github.com/hyperjump/oshiete/internal/search"
	"github.com/hyperjump/oshiete/internal/store"
	"github.com/hyperjump/oshiete/internal/vector"
	"github.com/hyperjump/oshiete/internal/watcher"
	"github.com/hyperjump/oshiete/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/oshiete/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used,
// so that "oshiete shell" from the project dir uses the project's config (including debug).
// Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "search":
		runSearch()
	case "shell":
		runShell()
	case "stats":
		runStats()
	case "version", "--version", "-v":
		fmt.Printf("oshiete version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// printSearchUsage prints search subcommand usage and query hints.
func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: oshiete search [flags] <query>\n\n")
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces. Multi-word queries work with or without quotes.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
The semantic and keyword legs are fused by weight; with keyword-weight 0 the
pipeline is purely semantic.
  • Use --fuzzy to enable typo tolerance (finds results despite spelling mistakes).
  • --category and --tags restrict results; --min-score filters low-relevance hits.
  • When an exact search finds nothing, fuzzy matching is retried automatically.

Examples:
  oshiete search reset password
  oshiete search "reset password"                    # same as above
  oshiete search --keyword-weight 0.5 invoice        # hybrid search
  oshiete search --fuzzy pasword                     # typo-tolerant search
  oshiete search --category billing --limit 10 refunds
`)
}

// buildSearchQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting (e.g. "reset password" vs reset password).
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// searchConfigPathFromArgs returns the value of -config/--config from args if present, else defaultPath.
func searchConfigPathFromArgs(args []string, defaultPath string) string {
	for i, a := range args {
		if (a == "-config" || a == "--config") && i+1 < len(args) {
			return args[i+1]
		}
	}
	return defaultPath
}

// searchDefaultsFromConfig loads config at path and returns the default limit,
// minimum score, and fusion weights, so flag defaults match the config file.
// On load failure, returns the built-in defaults (pure semantic pipeline).
func searchDefaultsFromConfig(path string) (limit int, minScore, semanticWeight, keywordWeight float64) {
	limit, minScore, semanticWeight, keywordWeight = 5, 0, 1.0, 0
	cfg, _, err := loadConfig(path)
	if err != nil || cfg == nil {
		return limit, minScore, semanticWeight, keywordWeight
	}
	// Zero min-score and keyword-weight are valid values (no filtering, no fusion).
	return cfg.Search.DefaultLimit, cfg.Search.MinScore, cfg.Search.SemanticWeight, cfg.Search.KeywordWeight
}

// searchArgsReorder moves any flags (and their values) that appear after the query
// to the front of the slice so that flag.Parse() sees them. Go's flag package
// stops at the first non-flag argument, so "oshiete search \"query\" -limit 10"
// would otherwise leave -limit unparsed.
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

// parseTags splits a comma-separated tag list, trimming whitespace and
// dropping empty entries.
func parseTags(s string) []string {
	if s == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func runSearch() {
	searchArgs := searchArgsReorder(os.Args[2:])
	configPath := searchConfigPathFromArgs(searchArgs, defaultConfigPath)
	defaultLimit, defaultMinScore, defaultSemW, defaultKwW := searchDefaultsFromConfig(configPath)

	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPathFlag := fs.String("config", defaultConfigPath, "config file path")
	limit := fs.Int("limit", defaultLimit, "number of results")
	offset := fs.Int("offset", 0, "skip the first N results")
	category := fs.String("category", "", "only return articles in this category")
	tags := fs.String("tags", "", "comma-separated tags; articles must carry all of them")
	minScore := fs.Float64("min-score", defaultMinScore, "drop results scoring below this")
	semanticWeight := fs.Float64("semantic-weight", defaultSemW, "weight of the semantic leg")
	keywordWeight := fs.Float64("keyword-weight", defaultKwW, "weight of the keyword leg (0 disables keyword fusion)")
	fuzzyEnabled := fs.Bool("fuzzy", false, "enable fuzzy matching for typo tolerance")
	outputFormat := fs.String("output", "text", "output format: text (human-readable) or json (parseable)")
	fs.Usage = func() { printSearchUsage(fs) }
	_ = fs.Parse(searchArgs)

	if fs.NArg() < 1 {
		printSearchUsage(fs)
		os.Exit(1)
	}
	queryStr := buildSearchQuery(fs.Args())
	if queryStr == "" {
		printSearchUsage(fs)
		os.Exit(1)
	}

	format := cli.OutputText
	switch *outputFormat {
	case "json":
		format = cli.OutputJSON
	case "text":
		format = cli.OutputText
	default:
		fmt.Printf("Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}

	searchQuery := &models.SearchQuery{
		Query:          queryStr,
		Limit:          *limit,
		Offset:         *offset,
		Category:       *category,
		Tags:           parseTags(*tags),
		MinScore:       *minScore,
		SemanticWeight: *semanticWeight,
		KeywordWeight:  *keywordWeight,
		FuzzyEnabled:   *fuzzyEnabled,
	}

	cfg, _, err := loadConfig(*configPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, debugMode)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	ctx := context.Background()
	if len(cfg.Content.Directories) == 0 {
		fmt.Fprintln(os.Stderr, "Warning: no content directories configured; results will be empty")
	}
	indexContent(ctx, components.Indexer, cfg, logger)

	response, err := searchWithAutoFuzzy(ctx, components.Engine, searchQuery)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runShell() {
	fs := flag.NewFlagSet("shell", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (file events, reindexing, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger, debugMode)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	idx := components.Indexer
	watchOpts := []watcher.WatcherOption{}
	if debugMode {
		watchOpts = append(watchOpts, watcher.WithLogger(logger))
	}
	watchSvc := watcher.NewWatcher(
		cfg.Content.Directories,
		cfg.Content.Extensions,
		cfg.Content.RecursiveOrDefault(),
		func(path string) {
			if _, err := idx.IndexFile(context.Background(), path); err != nil {
				logger.Warn("watch index file failed", zap.String("path", path), zap.Error(err))
			}
		},
		func(path string) {
			if _, err := idx.RemoveSource(context.Background(), path); err != nil {
				logger.Warn("watch remove by path failed", zap.String("path", path), zap.Error(err))
			}
		},
		watchOpts...,
	)
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if err := watchSvc.Start(watchCtx); err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}
	defer watchSvc.Stop()
	watchSvc.SyncExistingFiles()

	fmt.Printf("Indexed %d articles. Edits to content files reindex automatically.\n", components.Store.Count())
	fmt.Println("Type a question and press Enter; \"quit\" exits.")

	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("oshiete> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "quit" || line == "exit" {
			break
		}
		if line != "" {
			searchQuery := &models.SearchQuery{
				Query:          line,
				Limit:          cfg.Search.DefaultLimit,
				MinScore:       cfg.Search.MinScore,
				SemanticWeight: cfg.Search.SemanticWeight,
				KeywordWeight:  cfg.Search.KeywordWeight,
			}
			response, err := searchWithAutoFuzzy(ctx, components.Engine, searchQuery)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			} else {
				cli.PrintSearchResults(response)
			}
		}
		fmt.Print("oshiete> ")
	}
	fmt.Println()
}

func runStats() {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	top := fs.Int("top", 5, "number of top-viewed articles to show")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format := cli.OutputText
	switch *outputFormat {
	case "json":
		format = cli.OutputJSON
	case "text":
		format = cli.OutputText
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, debugMode)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	indexContent(context.Background(), components.Indexer, cfg, logger)

	stats := components.Engine.Stats(*top)
	if err := cli.WriteStats(os.Stdout, stats, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// indexContent loads every configured content directory into the in-memory
// index. The index lives only as long as the process, so each command indexes
// on startup.
func indexContent(ctx context.Context, idx *indexer.Indexer, cfg *config.Config, logger *zap.Logger) int {
	total := 0
	for _, dir := range cfg.Content.Directories {
		n, err := idx.IndexDirectory(ctx, dir, cfg.Content.RecursiveOrDefault())
		if err != nil {
			logger.Warn("indexing content directory failed", zap.String("dir", dir), zap.Error(err))
			continue
		}
		total += n
	}
	return total
}

// searchWithAutoFuzzy runs the query, and when an exact search comes back
// empty, retries once with fuzzy matching enabled so typos still find help.
func searchWithAutoFuzzy(ctx context.Context, engine *search.Engine, query *models.SearchQuery) (*models.SearchResponse, error) {
	response, err := engine.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if !query.FuzzyEnabled && response.Total == 0 {
		query.FuzzyEnabled = true
		fuzzyResponse, fuzzyErr := engine.Search(ctx, query)
		if fuzzyErr == nil && fuzzyResponse.Total > 0 {
			response = fuzzyResponse
			response.AutoFuzzy = true
		}
	}
	return response, nil
}

// Components holds initialized services.
type Components struct {
	Store        *store.Store
	Embedder     embedding.Embedder
	VectorIndex  vector.Index
	KeywordIndex keyword.KeywordIndex
	Engine       *search.Engine
	Indexer      *indexer.Indexer
}

func (c *Components) Close() {
	if c.Store != nil {
		_ = c.Store.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
	if c.VectorIndex != nil {
		_ = c.VectorIndex.Close()
	}
	if c.KeywordIndex != nil {
		_ = c.KeywordIndex.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger, debug bool) (*Components, error) {
	st := store.New()

	var provider embedding.Embedder
	switch cfg.Embedding.Provider {
	case "openai":
		apiKey := cfg.Embedding.APIKey()
		if apiKey == "" {
			if logger != nil {
				logger.Warn("no API key configured, falling back to mock embedder",
					zap.String("api_key_env", cfg.Embedding.APIKeyEnv))
			}
			provider = embedding.NewMockEmbedder(cfg.Embedding.Dimensions)
		} else {
			remoteOpts := []embedding.RemoteOption{}
			if debug && logger != nil {
				remoteOpts = append(remoteOpts, embedding.WithRemoteLogger(logger))
			}
			provider = embedding.NewRemoteEmbedder(
				cfg.Embedding.Endpoint,
				cfg.Embedding.Model,
				apiKey,
				cfg.Embedding.Dimensions,
				time.Duration(cfg.Embedding.TimeoutSeconds)*time.Second,
				remoteOpts...,
			)
		}
	case "mock", "":
		provider = embedding.NewMockEmbedder(cfg.Embedding.Dimensions)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (supported: mock, openai)", cfg.Embedding.Provider)
	}
	cache := embedding.NewEmbeddingCache(cfg.Embedding.CacheSize, time.Duration(cfg.Embedding.CacheTTLMinutes)*time.Minute)
	embedder := embedding.NewCachedEmbedder(provider, cache)

	vectorIndex, err := vector.NewIndex(cfg.Vector.IndexType, cfg.Embedding.Dimensions)
	if err != nil {
		// Fall back to memory index if configured type fails
		if cfg.Vector.IndexType != "memory" && cfg.Vector.IndexType != "" {
			if logger != nil {
				logger.Warn("failed to create vector index, falling back to memory",
					zap.String("requested_type", cfg.Vector.IndexType),
					zap.Error(err))
			}
			vectorIndex, err = vector.NewIndex("memory", cfg.Embedding.Dimensions)
			if err != nil {
				return nil, fmt.Errorf("failed to initialize vector index: %w", err)
			}
		} else {
			return nil, fmt.Errorf("failed to initialize vector index: %w", err)
		}
	}

	keywordIndex, err := keyword.NewBleveIndex()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize keyword index: %w", err)
	}

	scorer := ranking.NewScorer(&cfg.Ranking)
	engine := search.NewEngine(st, embedder, vectorIndex, keywordIndex, scorer, &cfg.Search)
	// Initialize spell checker for typo tolerance
	engine.WithSpellChecker()

	loader := content.NewLoader(cfg.Content.Extensions, content.WithLogger(logger))
	idxOpts := []indexer.IndexerOption{}
	if debug && logger != nil {
		idxOpts = append(idxOpts, indexer.WithLogger(logger))
	}
	idx := indexer.NewIndexer(st, embedder, vectorIndex, keywordIndex, loader, idxOpts...)

	return &Components{
		Store:        st,
		Embedder:     embedder,
		VectorIndex:  vectorIndex,
		KeywordIndex: keywordIndex,
		Engine:       engine,
		Indexer:      idx,
	}, nil
}

func printUsage() {
	fmt.Println(`oshiete - semantic help-center search

Usage:
  oshiete search [flags] <query>   Search help articles
  oshiete shell [flags]            Interactive search with live reindexing
  oshiete stats [flags]            Show corpus and index statistics
  oshiete version                  Show version
  oshiete help                     Show this help

Search Flags:
  --config string           Config file path (default: /usr/local/etc/oshiete/config.yaml, or ./config.yaml if present)
  --limit int               Number of results (default from config)
  --offset int              Skip the first N results
  --category string         Only return articles in this category
  --tags string             Comma-separated tags; articles must carry all of them
  --min-score float         Drop results scoring below this (default from config)
  --semantic-weight float   Weight of the semantic leg (default from config)
  --keyword-weight float    Weight of the keyword leg; 0 disables keyword fusion (default from config)
  --fuzzy                   Enable fuzzy matching for typo tolerance (default: false)
  --output string           Output format: text or json (default: text)

Shell Flags:
  --config string    Config file path
  --debug            Enable debug logging (file events, reindexing, etc.)

Stats Flags:
  --config string    Config file path
  --top int          Number of top-viewed articles to show (default: 5)
  --output string    Output format: text or json (default: text)

Examples:
  oshiete search how do I reset my password
  oshiete search --category billing "refund policy"
  oshiete search --fuzzy pasword
  oshiete search --output json "invite a teammate"
  oshiete shell
  oshiete stats --top 10`)
}
