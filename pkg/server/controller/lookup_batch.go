package controller

import (
	"context"
	"sort"

	"github.com/sensorfab/testreport-sdk/pkg/rows"
	"github.com/sensorfab/testreport-sdk/pkg/testreport"
)

// BatchResult is the outcome of a batch lookup: either the assembled
// device reports, or a disambiguation prompt when the batch prefix spans
// more than one production workorder.
type BatchResult struct {
	Devices        []testreport.Device
	Disambiguation *testreport.Disambiguation
}

// BatchReport looks a batch token up as a loose match over every table's
// batch column, de-duplicated to the latest record per device.
//
// When the matched rows belong to more than one workorder the lookup does
// not guess: it returns the workorder candidates (ascending, with their
// device counts) and lets the caller re-query by the chosen workorder.
func (ctrl *Controller) BatchReport(ctx context.Context, batch string) (*BatchResult, error) {
	fetched := ctrl.fanOut(ctx, func(ctx context.Context, desc rows.TableDescriptor) ([]map[string]any, error) {
		return ctrl.Storage.ByBatchPrefix(ctx, desc, batch)
	})
	if len(fetched) == 0 {
		return nil, ErrNotFound{Query: batch}
	}

	if disambiguation := disambiguate(batch, fetched); disambiguation != nil {
		return &BatchResult{Disambiguation: disambiguation}, nil
	}

	// Rows matched, so the batch exists; if every device was skipped as
	// uninferrable the answer is an empty list, not a not-found.
	return &BatchResult{Devices: ctrl.buildDevices(ctx, fetched)}, nil
}

// disambiguate inspects the fetched rows' workorder numbers and returns a
// prompt when they span more than one workorder. Rows without a workorder
// number never trigger disambiguation on their own.
func disambiguate(batch string, fetched []rows.Normalized) *testreport.Disambiguation {
	type workorderInfo struct {
		title   string
		devices map[string]struct{}
	}
	byNumber := map[int64]*workorderInfo{}
	for _, n := range fetched {
		if n.Workorder == nil {
			continue
		}
		info := byNumber[*n.Workorder]
		if info == nil {
			info = &workorderInfo{devices: map[string]struct{}{}}
			byNumber[*n.Workorder] = info
		}
		info.devices[n.DeviceID] = struct{}{}
		if info.title == "" {
			info.title = n.WorkorderTitle
		}
	}
	if len(byNumber) <= 1 {
		return nil
	}

	workorders := make([]testreport.Workorder, 0, len(byNumber))
	for number, info := range byNumber {
		workorders = append(workorders, testreport.Workorder{
			Number: number,
			Title:  info.title,
			Count:  len(info.devices),
		})
	}
	sort.Slice(workorders, func(i, j int) bool {
		return workorders[i].Number < workorders[j].Number
	})

	return &testreport.Disambiguation{
		NeedsDisambiguation: true,
		Batch:               batch,
		Workorders:          workorders,
	}
}
