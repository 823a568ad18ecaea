package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/sensorfab/testreport-sdk/pkg/storage/helpers"
	"github.com/sensorfab/testreport-sdk/pkg/storage/models"
)

const chipCheckTable = "int_devices_chip_check"

// ChipCheckByID returns the carrier-activation record for one device, or
// nil when the device has none.
func (stor *Storage) ChipCheckByID(ctx context.Context, deviceID string) (*models.ChipCheck, error) {
	columns, err := helpers.GetColumns(&models.ChipCheck{})
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		"SELECT %s FROM `%s` WHERE `id` = ? LIMIT 1",
		strings.Join(columns, ","), chipCheckTable,
	)

	var result []models.ChipCheck
	if err := sqlx.SelectContext(ctx, stor.DB, &result, query, deviceID); err != nil {
		return nil, ErrSelect{Table: chipCheckTable, Err: err}
	}
	if len(result) == 0 {
		return nil, nil
	}
	return &result[0], nil
}

// ChipCheckByIDs returns the carrier-activation records for the whole id
// set in one query; the aggregator batches all devices needing chip info
// instead of doing per-device round-trips.
func (stor *Storage) ChipCheckByIDs(ctx context.Context, deviceIDs []string) ([]models.ChipCheck, error) {
	if len(deviceIDs) == 0 {
		return nil, nil
	}

	columns, err := helpers.GetColumns(&models.ChipCheck{})
	if err != nil {
		return nil, err
	}

	query, args, err := sqlx.In(
		fmt.Sprintf("SELECT %s FROM `%s` WHERE `id` IN (?)", strings.Join(columns, ","), chipCheckTable),
		deviceIDs,
	)
	if err != nil {
		return nil, ErrSelect{Table: chipCheckTable, Err: err}
	}

	var result []models.ChipCheck
	if err := sqlx.SelectContext(ctx, stor.DB, &result, stor.DB.Rebind(query), args...); err != nil {
		return nil, ErrSelect{Table: chipCheckTable, Err: err}
	}
	return result, nil
}
