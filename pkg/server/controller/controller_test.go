package controller

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
	xlogrus "github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensorfab/testreport-sdk/pkg/devicetype"
	"github.com/sensorfab/testreport-sdk/pkg/rows"
	"github.com/sensorfab/testreport-sdk/pkg/storage/models"
	"github.com/sensorfab/testreport-sdk/pkg/testreport"
	"github.com/sensorfab/testreport-sdk/pkg/transform"
)

func testCtx() context.Context {
	return logger.CtxWithLogger(context.Background(), xlogrus.Default().WithLevel(logger.LevelDebug))
}

// mockStore serves canned records keyed by table; tables listed in
// failTables error out to exercise the degradation paths.
type mockStore struct {
	records    map[string][]map[string]any
	failTables map[string]bool
	chips      map[string]*models.ChipCheck
	chipErr    error
}

func (m *mockStore) LatestByDeviceID(_ context.Context, desc rows.TableDescriptor, deviceID string) (map[string]any, error) {
	if m.failTables[desc.Table] {
		return nil, errors.New("mock table failure")
	}
	for _, record := range m.records[desc.Table] {
		if record[desc.IDColumn] == deviceID {
			return record, nil
		}
	}
	return nil, nil
}

func (m *mockStore) ByBatchPrefix(_ context.Context, desc rows.TableDescriptor, _ string) ([]map[string]any, error) {
	if m.failTables[desc.Table] {
		return nil, errors.New("mock table failure")
	}
	return m.records[desc.Table], nil
}

func (m *mockStore) ByWorkorder(_ context.Context, desc rows.TableDescriptor, workorder int64) ([]map[string]any, error) {
	if m.failTables[desc.Table] {
		return nil, errors.New("mock table failure")
	}
	if !desc.HasWorkorder() {
		return nil, nil
	}
	var result []map[string]any
	for _, record := range m.records[desc.Table] {
		if record[desc.WorkorderColumn] == workorder {
			result = append(result, record)
		}
	}
	return result, nil
}

func (m *mockStore) ChipCheckByID(_ context.Context, deviceID string) (*models.ChipCheck, error) {
	if m.chipErr != nil {
		return nil, m.chipErr
	}
	return m.chips[deviceID], nil
}

func (m *mockStore) ChipCheckByIDs(_ context.Context, deviceIDs []string) ([]models.ChipCheck, error) {
	if m.chipErr != nil {
		return nil, m.chipErr
	}
	var result []models.ChipCheck
	for _, id := range deviceIDs {
		if chip := m.chips[id]; chip != nil {
			result = append(result, *chip)
		}
	}
	return result, nil
}

func newTestController(store *mockStore) *Controller {
	return New(store, rows.DefaultTables(), devicetype.DefaultRegistry(), transform.DefaultATPFields())
}

func leakRecord(deviceID string, workorder int64, title string) map[string]any {
	return map[string]any{
		"device_id":         deviceID,
		"test_date":         time.Date(2025, 11, 6, 10, 0, 0, 0, time.UTC),
		"workorder_title":   title,
		"workorder_number":  workorder,
		"type_ops":          "",
		"info_device":       "Jiga Smart Trac Ultra horizontal",
		"test_drop":         0.021,
		"result_drop_pass":  true,
		"test_slope":        1.1,
		"result_slope_pass": true,
		"test_r2":           0.999,
		"result_r2_pass":    true,
		"result_final_pass": true,
	}
}

func energyTracATPRecord(deviceID string, workorder int64) map[string]any {
	return map[string]any{
		"sensor_id":        deviceID,
		"test_date":        time.Date(2025, 11, 6, 9, 0, 0, 0, time.UTC),
		"batch":            "#20251106_01",
		"workorder_number": workorder,
		"type_ops":         "Energy Trac",
		"final_status":     "PASS",
		"signal_value":     -70.5,
		"signal_ref_mean":  -70.0,
		"signal_status":    "PASS",
	}
}

func TestDeviceReportLeakOnlyInference(t *testing.T) {
	store := &mockStore{
		records: map[string][]map[string]any{
			"fct_all_results_leak_test": {leakRecord("STU0001", 42, "#20251106_02 - Lote STU")},
		},
	}
	ctrl := newTestController(store)

	device, err := ctrl.DeviceReport(testCtx(), "STU0001")
	require.NoError(t, err)

	// Only the leak row exists, so the type comes from the free-text
	// device-info fallback and the ATP slot becomes a pending placeholder.
	assert.Equal(t, string(devicetype.SmartTracUltra), device.DeviceType)
	require.Len(t, device.Tests, 2)
	assert.Equal(t, "ATP", device.Tests[0].TestName)
	assert.Equal(t, testreport.StatusPending, device.Tests[0].Status)
	assert.Equal(t, "Leak Test", device.Tests[1].TestName)
	assert.Equal(t, testreport.StatusApproved, device.Tests[1].Status)
	assert.Equal(t, testreport.StatusPending, device.OverallStatus)
	assert.Equal(t, "#20251106_02", device.Batch)
}

func TestDeviceReportNotFound(t *testing.T) {
	ctrl := newTestController(&mockStore{})

	_, err := ctrl.DeviceReport(testCtx(), "NOPE123")
	require.Error(t, err)
	assert.ErrorAs(t, err, &ErrNotFound{})
}

func TestDeviceReportSurvivesTableFailure(t *testing.T) {
	store := &mockStore{
		records: map[string][]map[string]any{
			"fct_all_results_leak_test": {leakRecord("STU0002", 42, "#20251106_02")},
		},
		failTables: map[string]bool{
			"fct_all_results_atp_smarttrac": true,
		},
	}
	ctrl := newTestController(store)

	device, err := ctrl.DeviceReport(testCtx(), "STU0002")
	require.NoError(t, err)
	assert.Equal(t, string(devicetype.SmartTracUltra), device.DeviceType)
}

func TestDeviceReportChipFailureDegrades(t *testing.T) {
	store := &mockStore{
		records: map[string][]map[string]any{
			"fct_all_results_atp_energytrac": {energyTracATPRecord("ETR0001", 42)},
		},
		chipErr: errors.New("mock chip-table failure"),
	}
	ctrl := newTestController(store)

	device, err := ctrl.DeviceReport(testCtx(), "ETR0001")
	require.NoError(t, err)
	assert.Equal(t, string(devicetype.EnergyTrac), device.DeviceType)
	assert.Nil(t, device.ChipInfo)
	require.Len(t, device.Tests, 1)
	assert.Equal(t, testreport.StatusApproved, device.Tests[0].Status)
}

func TestDeviceReportWithChipInfo(t *testing.T) {
	store := &mockStore{
		records: map[string][]map[string]any{
			"fct_all_results_atp_energytrac": {energyTracATPRecord("ETR0002", 42)},
		},
		chips: map[string]*models.ChipCheck{
			"ETR0002": {
				ID:         "ETR0002",
				ChipConfig: sql.NullString{String: "Single Chip", Valid: true},
				Operadora1: sql.NullString{String: "Vivo", Valid: true},
				SimCcid1:   sql.NullString{String: "895502", Valid: true},
			},
		},
	}
	ctrl := newTestController(store)

	device, err := ctrl.DeviceReport(testCtx(), "ETR0002")
	require.NoError(t, err)
	require.NotNil(t, device.ChipInfo)
	assert.Equal(t, "Single Chip", device.ChipInfo.Type)
	assert.Equal(t, "Vivo", device.ChipInfo.Chip1.Carrier)
}

func TestBatchReportDisambiguation(t *testing.T) {
	store := &mockStore{
		records: map[string][]map[string]any{
			"fct_all_results_leak_test": {
				leakRecord("STU0010", 101, "#20251106_03 - Lote A"),
				leakRecord("STU0011", 101, "#20251106_03 - Lote A"),
				leakRecord("STU0012", 99, "#20251106_03 - Lote B"),
			},
		},
	}
	ctrl := newTestController(store)

	result, err := ctrl.BatchReport(testCtx(), "20251106_03")
	require.NoError(t, err)
	require.NotNil(t, result.Disambiguation)
	assert.Empty(t, result.Devices)

	d := result.Disambiguation
	assert.True(t, d.NeedsDisambiguation)
	assert.Equal(t, "20251106_03", d.Batch)
	require.Len(t, d.Workorders, 2)
	// ascending by number, with distinct-device counts
	assert.Equal(t, int64(99), d.Workorders[0].Number)
	assert.Equal(t, 1, d.Workorders[0].Count)
	assert.Equal(t, int64(101), d.Workorders[1].Number)
	assert.Equal(t, 2, d.Workorders[1].Count)
	assert.Equal(t, "#20251106_03 - Lote A", d.Workorders[1].Title)
}

func TestBatchReportSingleWorkorder(t *testing.T) {
	store := &mockStore{
		records: map[string][]map[string]any{
			"fct_all_results_leak_test": {
				leakRecord("STU0020", 101, "#20251106_04"),
				leakRecord("STU0021", 101, "#20251106_04"),
			},
		},
	}
	ctrl := newTestController(store)

	result, err := ctrl.BatchReport(testCtx(), "20251106_04")
	require.NoError(t, err)
	assert.Nil(t, result.Disambiguation)
	require.Len(t, result.Devices, 2)
	assert.Equal(t, "STU0020", result.Devices[0].ID)
	assert.Equal(t, "STU0021", result.Devices[1].ID)
}

func TestWorkorderReport(t *testing.T) {
	store := &mockStore{
		records: map[string][]map[string]any{
			"fct_all_results_leak_test": {
				leakRecord("STU0030", 55, "#20251106_05"),
				leakRecord("STU0031", 56, "#20251106_05"),
			},
		},
	}
	ctrl := newTestController(store)

	devices, err := ctrl.WorkorderReport(testCtx(), 55)
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "STU0030", devices[0].ID)

	_, err = ctrl.WorkorderReport(testCtx(), 1234)
	assert.ErrorAs(t, err, &ErrNotFound{})
}

func TestDeviceReportsBulk(t *testing.T) {
	store := &mockStore{
		records: map[string][]map[string]any{
			"fct_all_results_leak_test": {
				leakRecord("STU0040", 55, "#20251106_06"),
				leakRecord("STU0041", 55, "#20251106_06"),
			},
		},
	}
	ctrl := newTestController(store)

	devices, err := ctrl.DeviceReports(testCtx(), []string{"STU0040", "MISSING1", "STU0041"})
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, "STU0040", devices[0].ID)
	assert.Equal(t, "STU0041", devices[1].ID)

	_, err = ctrl.DeviceReports(testCtx(), []string{"MISSING1", "MISSING2"})
	assert.ErrorAs(t, err, &ErrNotFound{})
}

func TestBuildDevicesSkipsUninferrable(t *testing.T) {
	record := leakRecord("MYSTERY1", 55, "#20251106_07")
	record["info_device"] = "some unrecognizable jig"
	store := &mockStore{
		records: map[string][]map[string]any{
			"fct_all_results_leak_test": {
				record,
				leakRecord("STU0050", 55, "#20251106_07"),
			},
		},
	}
	ctrl := newTestController(store)

	devices, err := ctrl.WorkorderReport(testCtx(), 55)
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "STU0050", devices[0].ID)
}

func TestLookupsWithOnlyUninferrableRowsReturnEmptyList(t *testing.T) {
	record := leakRecord("MYSTERY2", 55, "#20251106_08")
	record["info_device"] = "some unrecognizable jig"
	store := &mockStore{
		records: map[string][]map[string]any{
			"fct_all_results_leak_test": {record},
		},
	}
	ctrl := newTestController(store)

	// Rows matched, so the lookup succeeded; the skipped device leaves an
	// empty (non-nil) list rather than a not-found.
	devices, err := ctrl.WorkorderReport(testCtx(), 55)
	require.NoError(t, err)
	require.NotNil(t, devices)
	assert.Empty(t, devices)

	result, err := ctrl.BatchReport(testCtx(), "20251106_08")
	require.NoError(t, err)
	assert.Nil(t, result.Disambiguation)
	require.NotNil(t, result.Devices)
	assert.Empty(t, result.Devices)
}
