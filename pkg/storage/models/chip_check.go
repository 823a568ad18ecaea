package models

import (
	"database/sql"
)

// ChipCheck is one row of the carrier-activation table, keyed by device id.
// It is the only source table with a fixed, known schema, so it is scanned
// directly into a struct instead of going through the map-based fan-out.
type ChipCheck struct {
	ID         string         `db:"id"`
	ChipConfig sql.NullString `db:"chip_config"`
	Operadora1 sql.NullString `db:"operadora1"`
	Operadora2 sql.NullString `db:"operadora2"`
	SimCcid1   sql.NullString `db:"sim_ccid1"`
	SimCcid2   sql.NullString `db:"sim_ccid2"`
}
