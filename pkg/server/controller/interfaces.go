package controller

import (
	"context"

	"github.com/sensorfab/testreport-sdk/pkg/rows"
	"github.com/sensorfab/testreport-sdk/pkg/storage/models"
)

// TabularStore is the read-only access the controller needs to the raw
// test-result tables (and the chip-check table). Implemented by
// storage.Storage; a separate interface to enable mock-ing.
type TabularStore interface {
	LatestByDeviceID(ctx context.Context, desc rows.TableDescriptor, deviceID string) (map[string]any, error)
	ByBatchPrefix(ctx context.Context, desc rows.TableDescriptor, batchPrefix string) ([]map[string]any, error)
	ByWorkorder(ctx context.Context, desc rows.TableDescriptor, workorder int64) ([]map[string]any, error)
	ChipCheckByID(ctx context.Context, deviceID string) (*models.ChipCheck, error)
	ChipCheckByIDs(ctx context.Context, deviceIDs []string) ([]models.ChipCheck, error)
}
