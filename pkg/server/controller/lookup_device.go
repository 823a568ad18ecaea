package controller

import (
	"context"
	"strings"
	"sync"

	"github.com/facebookincubator/go-belt/tool/logger"
	"golang.org/x/sync/errgroup"

	"github.com/sensorfab/testreport-sdk/pkg/rows"
	"github.com/sensorfab/testreport-sdk/pkg/storage/models"
	"github.com/sensorfab/testreport-sdk/pkg/testreport"
)

// bulkLookupConcurrencyLimit bounds how many single-device lookups a bulk
// request runs at once; each lookup already fans out over every table, so
// this is a multiplier on concurrent queries.
const bulkLookupConcurrencyLimit = 25

// DeviceReport assembles the report for one device, looked up by its exact
// id across every table.
//
// Unlike the multi-device lookups, a device found but of an uninferrable or
// unregistered type is an error here: the caller asked about this specific
// device and deserves better than an empty answer.
func (ctrl *Controller) DeviceReport(ctx context.Context, deviceID string) (*testreport.Device, error) {
	log := logger.FromCtx(ctx)

	fetched := ctrl.fanOut(ctx, func(ctx context.Context, desc rows.TableDescriptor) ([]map[string]any, error) {
		record, err := ctrl.Storage.LatestByDeviceID(ctx, desc, deviceID)
		if err != nil {
			return nil, err
		}
		if record == nil {
			return nil, nil
		}
		return []map[string]any{record}, nil
	})

	groups := groupByDevice(fetched)
	if len(groups) == 0 {
		return nil, ErrNotFound{Query: deviceID}
	}
	group := groups[0]

	typ, ok := inferType(group)
	if !ok {
		return nil, ErrTypeInference{DeviceID: group.id}
	}
	if !ctrl.Registry.Known(typ) {
		return nil, ErrUnknownDeviceType{DeviceID: group.id, DeviceType: string(typ)}
	}

	var chip *models.ChipCheck
	if ctrl.Registry[typ].HasChipInfo {
		var err error
		chip, err = ctrl.Storage.ChipCheckByID(ctx, group.id)
		if err != nil {
			log.Errorf("unable to fetch the chip-check record of '%s': %v", group.id, err)
		}
	}

	device := ctrl.assembleDevice(group, typ, chip)
	return &device, nil
}

// DeviceReports assembles the reports for an explicit id list (the
// comma-separated bulk lookup). Per-id failures are logged and skipped;
// the result preserves the order of the ids that resolved.
func (ctrl *Controller) DeviceReports(ctx context.Context, deviceIDs []string) ([]testreport.Device, error) {
	log := logger.FromCtx(ctx)

	results := make([]*testreport.Device, len(deviceIDs))
	var resultMutex sync.Mutex

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(bulkLookupConcurrencyLimit)
	for idx, deviceID := range deviceIDs {
		idx, deviceID := idx, deviceID
		group.Go(func() error {
			device, err := ctrl.DeviceReport(ctx, deviceID)
			if err != nil {
				log.Warnf("skipping device '%s' in a bulk lookup: %v", deviceID, err)
				return nil
			}
			resultMutex.Lock()
			results[idx] = device
			resultMutex.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	devices := make([]testreport.Device, 0, len(deviceIDs))
	for _, device := range results {
		if device != nil {
			devices = append(devices, *device)
		}
	}
	if len(devices) == 0 {
		return nil, ErrNotFound{Query: strings.Join(deviceIDs, ",")}
	}
	return devices, nil
}
