package main

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/freightlink/match-cli/internal/catalog"
	"github.com/freightlink/match-cli/internal/extract"
	"github.com/freightlink/match-cli/internal/knowledge"
	"github.com/freightlink/match-cli/internal/match"
	"github.com/freightlink/match-cli/internal/model"
	"github.com/freightlink/match-cli/internal/pipeline"
	"github.com/freightlink/match-cli/internal/store"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "match.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func initKnowledge() (*knowledge.Base, error) {
	if cfg.Knowledge.VocabPath != "" {
		return knowledge.Load(cfg.Knowledge.VocabPath)
	}
	return knowledge.NewDefault(), nil
}

func initRunner(kb *knowledge.Base, st store.Store) (*pipeline.Runner, error) {
	extractor := extract.New(kb, cfg.Extractor)
	matcher, err := match.New(kb, cfg.Matcher)
	if err != nil {
		return nil, err
	}
	return pipeline.New(extractor, matcher, kb, st), nil
}

// readLoadsFile picks the catalogue parser from the file extension.
func readLoadsFile(path string) ([]*model.Load, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return catalog.ImportXLSX(path, catalog.XLSXOptions{})
	case ".json":
		return catalog.ImportJSON(path)
	default:
		return nil, eris.Errorf("unsupported catalogue format: %s", path)
	}
}
