package dataset

import (
	"context"
	"errors"
	"fmt"

	"campaign-insights-go/internal/config"
	"campaign-insights-go/internal/logger"
	"campaign-insights-go/internal/types"
)

// Store holds both tables for the life of the process. It is built once at
// startup and only read afterwards, so it is safe for concurrent use.
type Store struct {
	tables map[types.Source]*Table
	err    error
}

// NewStore wraps already-loaded tables.
func NewStore(keyword, domain *Table) *Store {
	s := &Store{tables: map[types.Source]*Table{}}
	if keyword != nil {
		s.tables[types.SourceKeyword] = keyword
	}
	if domain != nil {
		s.tables[types.SourceDomain] = domain
	}
	return s
}

// FailedStore is a store in the load-error state.
func FailedStore(err error) *Store {
	return &Store{tables: map[types.Source]*Table{}, err: err}
}

// Open loads both tables. It never fails outright: a load problem is kept
// on the store so the caller can still serve an error page.
func Open(ctx context.Context, cfg config.Config) *Store {
	log := logger.New().Component("dataset.store")
	opts := Options{RowLimit: cfg.RowLimit, FetchTimeout: cfg.FetchTimeout}

	kw, kwErr := Load(ctx, types.SourceKeyword, cfg.KeywordPath, opts)
	dm, dmErr := Load(ctx, types.SourceDomain, cfg.DomainPath, opts)
	if err := errors.Join(kwErr, dmErr); err != nil {
		log.WithField("error", err.Error()).Error("data load failed; serving error page")
		return FailedStore(err)
	}
	log.WithFields(map[string]interface{}{
		"keyword_rows": len(kw.Records),
		"domain_rows":  len(dm.Records),
		"row_limit":    cfg.RowLimit,
	}).Info("data store ready")
	return NewStore(kw, dm)
}

// Err is the load error, if any.
func (s *Store) Err() error {
	return s.err
}

// Table returns the records for src.
func (s *Store) Table(src types.Source) (*Table, error) {
	if s.err != nil {
		return nil, s.err
	}
	t, ok := s.tables[src]
	if !ok {
		return nil, &types.DataLoadError{Source: src, Reason: "table not loaded"}
	}
	return t, nil
}

// Records is a shortcut for Table(src).Records.
func (s *Store) Records(src types.Source) ([]types.Record, error) {
	t, err := s.Table(src)
	if err != nil {
		return nil, fmt.Errorf("records: %w", err)
	}
	return t.Records, nil
}
