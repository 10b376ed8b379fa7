package cli

import (
	"context"
	"os"

	"github.com/m-hamwi/yalla/pkg/adapter"
	"github.com/m-hamwi/yalla/pkg/catalog"
	"github.com/m-hamwi/yalla/pkg/interfaces"
	"github.com/m-hamwi/yalla/pkg/repository"
	"github.com/m-hamwi/yalla/pkg/usecase/rag"
	"github.com/m-hamwi/yalla/pkg/utils/logging"
	"github.com/m-hamwi/yalla/pkg/vectorstore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// config holds configuration values shared across commands
type config struct {
	logLevel string

	// Repository; empty project means memory-only mode
	project  string
	database string

	// Raw batch archive bucket; empty disables archiving
	bucket string

	// Provider
	geminiProject  string
	geminiLocation string
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("YALLA_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
		&cli.StringFlag{
			Name:        "project",
			Aliases:     []string{"p"},
			Usage:       "Google Cloud project ID for Firestore (empty = memory-only)",
			Sources:     cli.EnvVars("GOOGLE_CLOUD_PROJECT"),
			Destination: &cfg.project,
		},
		&cli.StringFlag{
			Name:        "database",
			Aliases:     []string{"d"},
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Sources:     cli.EnvVars("FIRESTORE_DATABASE_ID"),
			Destination: &cfg.database,
		},
		&cli.StringFlag{
			Name:        "bucket",
			Usage:       "Cloud Storage bucket for raw batch archives",
			Sources:     cli.EnvVars("YALLA_ARCHIVE_BUCKET"),
			Destination: &cfg.bucket,
		},
	}
}

// llmFlags returns flags for provider configuration with destination config
func llmFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini",
			Sources:     cli.EnvVars("GEMINI_PROJECT_ID"),
			Destination: &cfg.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini",
			Value:       "us-central1",
			Sources:     cli.EnvVars("GEMINI_LOCATION"),
			Destination: &cfg.geminiLocation,
		},
	}
}

// setupLogger installs the configured logger and attaches it to the context
func (cfg *config) setupLogger(ctx context.Context) context.Context {
	logger := logging.New(cfg.logLevel, os.Stderr)
	logging.SetDefault(logger)
	return logging.With(ctx, logger)
}

// newRepository creates the persistence delegate, or nil in memory-only mode
func (cfg *config) newRepository(ctx context.Context) (interfaces.Repository, error) {
	if cfg.project == "" {
		return nil, nil
	}
	repo, err := repository.New(ctx, cfg.project, cfg.database)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create repository")
	}
	return repo, nil
}

// newGemini creates the provider adapter; unconfigured credentials yield a
// stub whose calls fail, which the pipeline degrades from gracefully
func (cfg *config) newGemini(ctx context.Context) (adapter.Gemini, error) {
	if cfg.geminiProject == "" {
		return adapter.NewUnconfigured(), nil
	}
	return adapter.NewGemini(ctx, cfg.geminiProject, cfg.geminiLocation)
}

// newArchive creates the raw batch archive, or nil when no bucket is set
func (cfg *config) newArchive(ctx context.Context) (adapter.Archive, error) {
	if cfg.bucket == "" {
		return nil, nil
	}
	archive, err := adapter.NewArchive(ctx, cfg.bucket)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create archive")
	}
	return archive, nil
}

// newCore wires the catalog, vector store, and retrieval pipeline with the
// configured backends and hydrates them from persistence when present
func (cfg *config) newCore(ctx context.Context) (*catalog.Catalog, *vectorstore.Store, *rag.Pipeline, error) {
	repo, err := cfg.newRepository(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	gemini, err := cfg.newGemini(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	var catOpts []catalog.Option
	var storeOpts []vectorstore.Option
	if repo != nil {
		catOpts = append(catOpts, catalog.WithRepository(repo))
		storeOpts = append(storeOpts, vectorstore.WithRepository(repo))
	}
	storeOpts = append(storeOpts, vectorstore.WithModelTag(gemini.EmbeddingModel()))

	cat := catalog.New(catOpts...)
	if err := cat.Load(ctx); err != nil {
		return nil, nil, nil, goerr.Wrap(err, "failed to load catalog")
	}

	store := vectorstore.New(storeOpts...)
	if err := store.Refresh(ctx); err != nil {
		return nil, nil, nil, goerr.Wrap(err, "failed to refresh vector store")
	}

	return cat, store, rag.New(store, gemini), nil
}
