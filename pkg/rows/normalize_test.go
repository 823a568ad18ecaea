package rows

import (
	"context"
	"testing"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
	xlogrus "github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCtx() context.Context {
	return logger.CtxWithLogger(context.Background(), xlogrus.Default().WithLevel(logger.LevelDebug))
}

func leakDescriptor(t *testing.T) TableDescriptor {
	t.Helper()
	for _, desc := range DefaultTables() {
		if desc.Table == "fct_all_results_leak_test" {
			return desc
		}
	}
	t.Fatal("leak table not registered")
	return TableDescriptor{}
}

func TestCleanBatch(t *testing.T) {
	assert.Equal(t, "#20251105_10", CleanBatch("#20251105_10_01_atpResults_20251218_095129"))
	assert.Equal(t, "#20251105_10", CleanBatch("#20251105_10 - Lote STU Gen 2"))
	// idempotent on an already-clean token
	assert.Equal(t, "#20251105_10", CleanBatch(CleanBatch("#20251105_10")))
	// values without the token pass through
	assert.Equal(t, "20250523_04_01_CLARO", CleanBatch("20250523_04_01_CLARO"))
	assert.Equal(t, "", CleanBatch(""))
}

func TestParseTimestamp(t *testing.T) {
	native := time.Date(2025, 11, 5, 12, 30, 0, 0, time.UTC)

	ts, ok := ParseTimestamp(native)
	require.True(t, ok)
	assert.Equal(t, native, ts)

	ts, ok = ParseTimestamp("2025-11-05 12:30:00 UTC")
	require.True(t, ok)
	assert.Equal(t, native, ts)

	ts, ok = ParseTimestamp([]byte("2025-11-05T12:30:00Z"))
	require.True(t, ok)
	assert.Equal(t, native, ts)

	// wrapped {value: ...} envelope
	ts, ok = ParseTimestamp(map[string]any{"value": "2025-11-05"})
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC), ts)

	_, ok = ParseTimestamp(nil)
	assert.False(t, ok)
	_, ok = ParseTimestamp("certainly not a date")
	assert.False(t, ok)
}

func TestNormalizeLeakRow(t *testing.T) {
	desc := leakDescriptor(t)

	raw := map[string]any{
		"device_id":         []byte("STU4821"),
		"workorder_title":   []byte("#20251105_10 - Lote STU"),
		"test_date":         "2025-11-05 12:30:00 UTC",
		"workorder_number":  int64(12345),
		"info_device":       []byte("Smart Trac Ultra horizontal"),
		"test_drop":         2.5,
		"result_drop_pass":  int64(1),
		"result_final_pass": int64(0),
		"jig_id":            []byte("JIG-07"),
		"calib_last_calib":  time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
	}

	n, err := Normalize(testCtx(), desc, raw)
	require.NoError(t, err)

	assert.Equal(t, "STU4821", n.DeviceID)
	assert.Equal(t, "#20251105_10", n.Batch)
	require.NotNil(t, n.TestDate)
	assert.Equal(t, time.Date(2025, 11, 5, 12, 30, 0, 0, time.UTC), *n.TestDate)
	require.NotNil(t, n.Workorder)
	assert.EqualValues(t, 12345, *n.Workorder)
	assert.Equal(t, "#20251105_10 - Lote STU", n.WorkorderTitle)

	require.NotNil(t, n.Leak)
	assert.Equal(t, "Smart Trac Ultra horizontal", n.Leak.InfoDevice)
	require.NotNil(t, n.Leak.TestDrop)
	assert.Equal(t, 2.5, *n.Leak.TestDrop)
	require.NotNil(t, n.Leak.ResultDropPass)
	assert.True(t, *n.Leak.ResultDropPass)
	require.NotNil(t, n.Leak.ResultFinalPass)
	assert.False(t, *n.Leak.ResultFinalPass)
	assert.Equal(t, "2025-10-01", n.Leak.CalibLastCalib)
}

func TestNormalizeUnparseableDateYieldsAbsent(t *testing.T) {
	desc := leakDescriptor(t)
	raw := map[string]any{
		"device_id": "STU0001",
		"test_date": "garbage",
	}
	n, err := Normalize(testCtx(), desc, raw)
	require.NoError(t, err)
	assert.Nil(t, n.TestDate)
}

func TestNormalizeATPGenericReadings(t *testing.T) {
	var atpDesc TableDescriptor
	for _, desc := range DefaultTables() {
		if desc.Table == "fct_all_results_atp_energytrac" {
			atpDesc = desc
		}
	}
	require.NotEmpty(t, atpDesc.Table)

	raw := map[string]any{
		"sensor_id":        []byte("TZ229AZ"),
		"batch":            []byte("#20250101_01"),
		"test_date":        "2025-01-01 08:00:00",
		"type_ops":         []byte("Energy Trac"),
		"final_status":     []byte("PASS"),
		"signal_value":     -71.0,
		"signal_ref_mean":  -70.0,
		"signal_status":    []byte("PASS"),
		"rms_ia_value":     nil,
		"low_status_value": int64(0),
	}

	n, err := Normalize(testCtx(), atpDesc, raw)
	require.NoError(t, err)
	require.NotNil(t, n.ATP)
	assert.Equal(t, "Energy Trac", n.ATP.TypeOps)
	assert.Equal(t, "PASS", n.ATP.FinalStatus)

	reading, ok := n.ATP.Readings["signal"]
	require.True(t, ok)
	assert.Equal(t, "-71", reading.Value)
	require.NotNil(t, reading.RefMean)
	assert.Equal(t, "-70", *reading.RefMean)
	assert.Equal(t, "PASS", reading.Status)

	// NULL value columns never yield a reading
	_, ok = n.ATP.Readings["rms_ia"]
	assert.False(t, ok)

	_, ok = n.ATP.Readings["low_status"]
	assert.True(t, ok)
}

func TestNormalizeITPGen2VibrationSteps(t *testing.T) {
	var desc TableDescriptor
	for _, d := range DefaultTables() {
		if d.Table == "fct_all_results_itp_smarttrac_ultra_gen2" {
			desc = d
		}
	}
	require.NotEmpty(t, desc.Table)

	raw := map[string]any{
		"sensor_id":          []byte("VUN0162"),
		"workorder_title":    []byte("#20251105_10 - Lote Gen2"),
		"test_completed_at":  "2025-11-05 09:00:00",
		"batch_device_type":  []byte("STU Gen 2"),
		"step1_status":       []byte("PASSED"),
		"step7_status":       []byte("PASSED"),
		"step7_rms_x":        0.0123,
		"step7_rms_y":        0.0456,
		"step7_rms_z":        0.0789,
		"final_result":       []byte("APPROVED"),
	}

	n, err := Normalize(testCtx(), desc, raw)
	require.NoError(t, err)
	require.NotNil(t, n.ITPGen2)
	assert.Equal(t, "STU Gen 2", n.ITPGen2.BatchDeviceType)
	assert.Equal(t, "PASSED", n.ITPGen2.Step7.Status)
	require.NotNil(t, n.ITPGen2.Step7.RmsX)
	assert.Equal(t, 0.0123, *n.ITPGen2.Step7.RmsX)
	// step 8 was never reported
	assert.Empty(t, n.ITPGen2.Step8.Status)
	assert.Nil(t, n.ITPGen2.Step8.RmsX)
}
