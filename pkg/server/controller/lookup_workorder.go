package controller

import (
	"context"
	"strconv"

	"github.com/sensorfab/testreport-sdk/pkg/rows"
	"github.com/sensorfab/testreport-sdk/pkg/testreport"
)

// WorkorderReport assembles the reports for every device of one production
// workorder, matched exactly against each table's workorder column. Tables
// without a workorder column simply contribute nothing.
func (ctrl *Controller) WorkorderReport(ctx context.Context, workorder int64) ([]testreport.Device, error) {
	fetched := ctrl.fanOut(ctx, func(ctx context.Context, desc rows.TableDescriptor) ([]map[string]any, error) {
		return ctrl.Storage.ByWorkorder(ctx, desc, workorder)
	})
	if len(fetched) == 0 {
		return nil, ErrNotFound{Query: "#" + strconv.FormatInt(workorder, 10)}
	}

	// Same policy as BatchReport: matched rows whose devices were all
	// skipped yield an empty list, not a not-found.
	return ctrl.buildDevices(ctx, fetched), nil
}
