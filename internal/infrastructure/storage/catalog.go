package storage

import (
	"context"

	"github.com/pkg/errors"
	"github.com/vitos/crypto_trader_ai/internal/domain"
)

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"

	DefaultSQLiteDSN = "file:catalog?mode=memory&cache=shared"
)

// OpenCatalog builds the configured catalog and seeds it with the demo
// analyses. The returned close func is never nil.
func OpenCatalog(ctx context.Context, driver, dsn string) (domain.AnalysisCatalog, func() error, error) {
	noop := func() error { return nil }

	switch driver {
	case "", DriverMemory:
		c, err := NewMemoryCatalog(DemoAnalyses()...)
		if err != nil {
			return nil, noop, err
		}
		return c, noop, nil
	case DriverSQLite:
		if dsn == "" {
			dsn = DefaultSQLiteDSN
		}
		c, err := NewSQLiteCatalog(dsn)
		if err != nil {
			return nil, noop, err
		}
		if err := Seed(ctx, c, DemoAnalyses()); err != nil {
			c.Close()
			return nil, noop, err
		}
		return c, c.Close, nil
	default:
		return nil, noop, errors.Errorf("unknown catalog driver %q", driver)
	}
}
