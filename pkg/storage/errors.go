package storage

import (
	"fmt"
)

// ErrInitMySQL implements "error", for the description see Error.
type ErrInitMySQL struct {
	Err error
	DSN string
}

func (err ErrInitMySQL) Error() string {
	return fmt.Sprintf("unable to initialize a MySQL client (DSN: '%s'): %v", err.DSN, err.Err)
}

func (err ErrInitMySQL) Unwrap() error {
	return err.Err
}

// ErrMySQLPing implements "error", for the description see Error.
type ErrMySQLPing struct {
	Err error
}

func (err ErrMySQLPing) Error() string {
	return fmt.Sprintf("unable to ping the MySQL server: %v", err.Err)
}

func (err ErrMySQLPing) Unwrap() error {
	return err.Err
}

// ErrSelect implements "error", for the description see Error.
type ErrSelect struct {
	Table string
	Err   error
}

func (err ErrSelect) Error() string {
	return fmt.Sprintf("unable to select from table '%s': %v", err.Table, err.Err)
}

func (err ErrSelect) Unwrap() error {
	return err.Err
}

// ErrScan implements "error", for the description see Error.
type ErrScan struct {
	Table string
	Err   error
}

func (err ErrScan) Error() string {
	return fmt.Sprintf("unable to scan a row fetched from table '%s': %v", err.Table, err.Err)
}

func (err ErrScan) Unwrap() error {
	return err.Err
}
