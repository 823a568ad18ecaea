// Package storage is the adapter to the tabular store holding the raw
// factory test results. It is strictly read-only: the service interprets
// pre-existing records and never writes.
package storage

import (
	"database/sql"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/dummy"
	"github.com/hashicorp/go-multierror"
	"github.com/jmoiron/sqlx"

	"github.com/sensorfab/testreport-sdk/pkg/rows"
)

// Storage executes the per-table queries the fan-out issues. Table layout
// is described by the injected descriptor registry; there is no caching and
// no cross-request state.
type Storage struct {
	DB     *sqlx.DB
	Tables []rows.TableDescriptor
	Logger logger.Logger
}

// New returns an instance of Storage.
func New(
	rdbmsDriver string,
	rdbmsDSN string,
	tables []rows.TableDescriptor,
	log logger.Logger,
) (*Storage, error) {
	if log == nil {
		log = dummy.New()
	}

	db, err := sql.Open(rdbmsDriver, rdbmsDSN)
	if err != nil {
		return nil, ErrInitMySQL{Err: err, DSN: rdbmsDSN}
	}

	err = db.Ping()
	if err != nil {
		return nil, ErrMySQLPing{Err: err}
	}

	return &Storage{
		DB:     sqlx.NewDb(db, rdbmsDriver),
		Tables: tables,
		Logger: log,
	}, nil
}

// Close stops the instance of the Storage.
func (stor *Storage) Close() error {
	return multierror.Append((error)(nil),
		stor.DB.Close(),
	).ErrorOrNil()
}
