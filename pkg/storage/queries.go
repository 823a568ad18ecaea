package storage

import (
	"context"
	"fmt"

	"github.com/sensorfab/testreport-sdk/pkg/rows"
)

// The descriptor registry is static and hardcoded, which is what makes
// splicing its column names into query text safe; user-supplied values only
// ever travel as bind parameters.

// LatestByDeviceID returns the most recent record for the device in one
// table, or nil when the table holds none.
func (stor *Storage) LatestByDeviceID(ctx context.Context, desc rows.TableDescriptor, deviceID string) (map[string]any, error) {
	query := fmt.Sprintf(
		"SELECT * FROM `%s` WHERE `%s` = ? ORDER BY `%s` DESC LIMIT 1",
		desc.Table, desc.IDColumn, desc.DateColumn,
	)

	records, err := stor.selectMaps(ctx, desc.Table, query, deviceID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

// ByBatchPrefix returns the records whose batch column matches the prefix,
// de-duplicated to the most recent record per device. The de-duplication is
// a partition-and-rank operation: a loose batch match may return many
// historical rows per device at once, so a LIMIT would not do.
func (stor *Storage) ByBatchPrefix(ctx context.Context, desc rows.TableDescriptor, batchPrefix string) ([]map[string]any, error) {
	query := fmt.Sprintf(
		"SELECT * FROM ("+
			" SELECT t.*, ROW_NUMBER() OVER (PARTITION BY `%s` ORDER BY `%s` DESC) AS row_num"+
			" FROM `%s` t WHERE `%s` LIKE ?"+
			") ranked WHERE row_num = 1",
		desc.IDColumn, desc.DateColumn, desc.Table, desc.BatchColumn,
	)

	return stor.selectMaps(ctx, desc.Table, query, "%"+batchPrefix+"%")
}

// ByWorkorder returns the records matching the workorder number exactly,
// with the same most-recent-per-device de-duplication as ByBatchPrefix.
func (stor *Storage) ByWorkorder(ctx context.Context, desc rows.TableDescriptor, workorder int64) ([]map[string]any, error) {
	if !desc.HasWorkorder() {
		return nil, nil
	}
	query := fmt.Sprintf(
		"SELECT * FROM ("+
			" SELECT t.*, ROW_NUMBER() OVER (PARTITION BY `%s` ORDER BY `%s` DESC) AS row_num"+
			" FROM `%s` t WHERE `%s` = ?"+
			") ranked WHERE row_num = 1",
		desc.IDColumn, desc.DateColumn, desc.Table, desc.WorkorderColumn,
	)

	return stor.selectMaps(ctx, desc.Table, query, workorder)
}

func (stor *Storage) selectMaps(ctx context.Context, table, query string, args ...any) ([]map[string]any, error) {
	sqlRows, err := stor.DB.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, ErrSelect{Table: table, Err: err}
	}
	defer sqlRows.Close()

	var result []map[string]any
	for sqlRows.Next() {
		record := map[string]any{}
		if err := sqlRows.MapScan(record); err != nil {
			return nil, ErrScan{Table: table, Err: err}
		}
		delete(record, "row_num")
		result = append(result, record)
	}
	if err := sqlRows.Err(); err != nil {
		return nil, ErrSelect{Table: table, Err: err}
	}
	stor.Logger.Debugf("query '%s' with args %v returned %d record(s)", query, args, len(result))
	return result, nil
}
