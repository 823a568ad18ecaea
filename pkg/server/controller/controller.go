// Package controller implements the high-level logic of the test-report
// service: fanning a lookup out over the test-result tables, inferring each
// device's type and assembling the per-device reports.
package controller

import (
	"github.com/sensorfab/testreport-sdk/pkg/devicetype"
	"github.com/sensorfab/testreport-sdk/pkg/rows"
	"github.com/sensorfab/testreport-sdk/pkg/transform"
)

// Controller implements the high-level logic of the test-report service.
//
// It is stateless across requests: no cache, no retries. Every lookup hits
// the tabular store, and a per-table failure degrades that table's results
// to "nothing found there" instead of failing the whole request.
type Controller struct {
	Storage   TabularStore
	Tables    []rows.TableDescriptor
	Registry  devicetype.Registry
	ATPFields transform.ATPFieldTable
}

// New returns an instance of Controller.
func New(
	stor TabularStore,
	tables []rows.TableDescriptor,
	registry devicetype.Registry,
	atpFields transform.ATPFieldTable,
) *Controller {
	return &Controller{
		Storage:   stor,
		Tables:    tables,
		Registry:  registry,
		ATPFields: atpFields,
	}
}

// Close stops the instance of the Controller.
func (ctrl *Controller) Close() error {
	return nil
}
