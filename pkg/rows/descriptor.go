// Package rows normalizes the loosely-shaped records fetched from the
// heterogeneous test-result tables into typed, per-test-kind row values.
// Everything downstream of the fan-out works on these types; `any`-typed
// maps never cross the package boundary outward.
package rows

import (
	"github.com/sensorfab/testreport-sdk/pkg/testreport"
)

// TableDescriptor is the static metadata for one physical test-result
// table. The device-identifying column varies per table, which is why the
// fan-out cannot share a single SQL template's column references.
type TableDescriptor struct {
	Table           string
	IDColumn        string
	Kind            testreport.TestKind
	DateColumn      string
	BatchColumn     string
	WorkorderColumn string
}

// HasWorkorder reports whether the table participates in workorder lookups.
func (d TableDescriptor) HasWorkorder() bool {
	return d.WorkorderColumn != ""
}

// The ATP Gen 2 table appends a long run suffix to the batch column; its
// rows need batch cleaning, see Normalize.
const TableATPGen2 = "fct_all_results_atp_smarttrac_ultra_gen2"

// DefaultTables returns the registry of all queried tables. Adding a new
// measurable table is purely additive here; only the type-specific
// transformers and inference rules grow explicit new cases.
func DefaultTables() []TableDescriptor {
	return []TableDescriptor{
		// ATP
		{Table: "fct_all_results_atp_energytrac", IDColumn: "sensor_id", Kind: testreport.KindATP, DateColumn: "test_date", BatchColumn: "batch", WorkorderColumn: "workorder_number"},
		{Table: "fct_all_results_atp_omni_receiver", IDColumn: "omni_receiver_id", Kind: testreport.KindATP, DateColumn: "test_date", BatchColumn: "batch", WorkorderColumn: "workorder_number"},
		{Table: "fct_all_results_atp_omnitrac", IDColumn: "omnitrac_id", Kind: testreport.KindATP, DateColumn: "test_date", BatchColumn: "batch", WorkorderColumn: "workorder_number"},
		{Table: "fct_all_results_atp_receiver", IDColumn: "receiver_id", Kind: testreport.KindATP, DateColumn: "test_date", BatchColumn: "batch", WorkorderColumn: "workorder_number"},
		{Table: "fct_all_results_atp_smarttrac", IDColumn: "sensor_id", Kind: testreport.KindATP, DateColumn: "test_date", BatchColumn: "batch", WorkorderColumn: "workorder_number"},
		{Table: "fct_all_results_atp_unitrac", IDColumn: "unitrac_id", Kind: testreport.KindATP, DateColumn: "test_date", BatchColumn: "batch", WorkorderColumn: "workorder_number"},
		{Table: TableATPGen2, IDColumn: "sensor_id", Kind: testreport.KindATP, DateColumn: "ingestion_ts", BatchColumn: "batch", WorkorderColumn: "workorder_number"},

		// ITP (the OmniTrac ITP table uses different column names)
		{Table: "fct_all_results_itp_omnitrac", IDColumn: "device_id", Kind: testreport.KindITP, DateColumn: "ingestion_ts", BatchColumn: "batch_number", WorkorderColumn: "workorder_number"},
		{Table: "fct_all_results_itp_smarttrac_ultra_gen2", IDColumn: "sensor_id", Kind: testreport.KindITP, DateColumn: "test_completed_at", BatchColumn: "workorder_title", WorkorderColumn: "workorder_number"},

		// Leak
		{Table: "fct_all_results_leak_test", IDColumn: "device_id", Kind: testreport.KindLeak, DateColumn: "test_date", BatchColumn: "workorder_title", WorkorderColumn: "workorder_number"},
	}
}
