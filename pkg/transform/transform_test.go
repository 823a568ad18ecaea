package transform

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensorfab/testreport-sdk/pkg/devicetype"
	"github.com/sensorfab/testreport-sdk/pkg/rows"
	"github.com/sensorfab/testreport-sdk/pkg/storage/models"
	"github.com/sensorfab/testreport-sdk/pkg/testreport"
)

func ptrFloat(v float64) *float64 { return &v }
func ptrBool(v bool) *bool        { return &v }

func TestFormatMeasurement(t *testing.T) {
	assert.Equal(t, "0.5000", FormatMeasurement(0.5))
	assert.Equal(t, "-0.0300", FormatMeasurement(-0.03))
	assert.Equal(t, "1.00", FormatMeasurement(1.0))
	assert.Equal(t, "12.30", FormatMeasurement(12.3))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "±5%", formatPercent(ptrFloat(0.05)))
	assert.Equal(t, "±2.5%", formatPercent(ptrFloat(0.025)))
	assert.Equal(t, "N/A", formatPercent(nil))
}

func TestFormatCalibDate(t *testing.T) {
	assert.Equal(t, "01/10/2025", formatCalibDate("2025-10-01"))
	assert.Equal(t, "N/A", formatCalibDate(""))
	assert.Equal(t, "garbage", formatCalibDate("garbage"))
}

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, testreport.StatusApproved, NormalizeStatus("PASSED"))
	assert.Equal(t, testreport.StatusApproved, NormalizeStatus("ok"))
	assert.Equal(t, testreport.StatusApproved, NormalizeStatus("Success"))
	assert.Equal(t, testreport.StatusFailed, NormalizeStatus("FAIL"))
	assert.Equal(t, testreport.StatusPending, NormalizeStatus("RUNNING"))
	assert.Equal(t, testreport.StatusPending, NormalizeStatus(""))
}

func TestATPGeneric(t *testing.T) {
	refMean := "-70.1"
	n := rows.Normalized{
		Kind: testreport.KindATP,
		ATP: &rows.ATP{
			FinalStatus: "PASS",
			Readings: map[string]rows.ATPReading{
				"sensor_signal": {Value: "-71", RefMean: &refMean, Status: "PASS"},
				"low_status":    {Value: "0", Status: "PASS"},
			},
		},
	}

	test := ATP(n, devicetype.SmartTracUltra, DefaultATPFields())
	assert.Equal(t, testreport.StatusApproved, test.Status)
	require.Len(t, test.Parameters, 2)

	assert.Equal(t, "Sensor Signal", test.Parameters[0].Name)
	assert.Equal(t, "-71 dBm", test.Parameters[0].Measured)
	assert.Equal(t, "-70.1 dBm", test.Parameters[0].Expected)
	assert.Equal(t, testreport.StatusApproved, test.Parameters[0].Status)

	assert.Equal(t, "Low Status", test.Parameters[1].Name)
	assert.Equal(t, "0", test.Parameters[1].Measured)
}

func TestATPGenericSkipsAbsentReadings(t *testing.T) {
	n := rows.Normalized{
		Kind: testreport.KindATP,
		ATP: &rows.ATP{
			FinalStatus: "FAIL",
			Readings: map[string]rows.ATPReading{
				"sensor_signal": {Value: "-80", Status: "FAIL"},
			},
		},
	}

	test := ATP(n, devicetype.SmartReceiverUltra, DefaultATPFields())
	assert.Equal(t, testreport.StatusFailed, test.Status)
	// The receiver family declares six fields; only the one with data shows.
	require.Len(t, test.Parameters, 1)
	assert.Equal(t, testreport.StatusFailed, test.Parameters[0].Status)
}

func TestATPGen2(t *testing.T) {
	n := rows.Normalized{
		Kind:  testreport.KindATP,
		Table: rows.TableATPGen2,
		ATPGen2: &rows.ATPGen2{
			DutTemp:                ptrFloat(24.5),
			ReferenceTemp:          ptrFloat(25),
			TemperatureCheckPassed: ptrBool(true),
			ErrorCheckPassed:       ptrBool(true),
			ZeroSignalCheckPassed:  ptrBool(false),
			ReferencesList:         "REF001, REF002",
			OverallResult:          "FAIL",
		},
	}

	test := ATP(n, devicetype.SmartTracUltraGen2, DefaultATPFields())
	assert.Equal(t, testreport.StatusFailed, test.Status)
	require.Len(t, test.Parameters, 4)
	assert.Equal(t, "Temperature", test.Parameters[0].Name)
	assert.Equal(t, "24.5 °C", test.Parameters[0].Measured)
	assert.Equal(t, "25 °C", test.Parameters[0].Expected)
	assert.Equal(t, "FAIL", test.Parameters[2].Measured)
	assert.Equal(t, "References Used", test.Parameters[3].Name)
}

func TestITPOmniTrac(t *testing.T) {
	date := time.Date(2025, 7, 14, 12, 0, 0, 0, time.UTC)
	n := rows.Normalized{
		Kind:     testreport.KindITP,
		Table:    devicetype.TableITPOmniTrac,
		TestDate: &date,
		ITPOmniTrac: &rows.ITPOmniTrac{
			PowerEnablesStatus: ptrBool(true),
			SocTempValue:       ptrFloat(41.2),
			SocTempStatus:      ptrBool(true),
			Eth0MacValue:       "AA:BB:CC:DD:EE:FF",
			Eth0MacStatus:      ptrBool(true),
			IperfOtgStatus:     ptrBool(true),
		},
	}

	test := ITP(n)
	assert.Equal(t, "ITP", test.TestName)
	require.Len(t, test.Sections, 4)
	assert.Equal(t, "Power & System", test.Sections[0].Name)
	assert.Equal(t, "41.2 °C", test.Sections[0].Parameters[2].Measured)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", test.Sections[2].Parameters[1].Measured)
	// iPerf OTG with no recorded error reads OK.
	assert.Equal(t, "OK", test.Sections[2].Parameters[3].Measured)
	// Checks the jig never filled in count as failures.
	assert.Equal(t, testreport.StatusFailed, test.Status)
}

func TestITPGen2ConditionalVibration(t *testing.T) {
	n := rows.Normalized{
		Kind: testreport.KindITP,
		ITPGen2: &rows.ITPGen2{
			Step1Status:             "PASSED",
			Step2ExternalIDRead:     "EXT123",
			Step2ExternalIDExpected: "EXT123",
			Step2Valid:              ptrBool(true),
			Step3DeviceName:         "STU-G2-0042",
			Step3Status:             "PASSED",
			Step4ComponentsOk:       ptrFloat(12),
			Step4ComponentsTotal:    ptrFloat(12),
			Step4Status:             "PASSED",
			Step5HumidityValue:      ptrFloat(45.678),
			Step5HumidityExpected:   ptrFloat(45),
			Step5HumidityTolerance:  "±5%",
			Step5HumidityPassed:     ptrBool(true),
			Step5TempPassed:         ptrBool(true),
			Step5McuTempPassed:      ptrBool(true),
			Step6SasAvailable:       ptrBool(true),
			Step6Status:             "PASSED",
			Step7: rows.ITPGen2Vibration{
				Status:            "PASSED",
				ValidationOverall: "PASSED",
				RmsX:              ptrFloat(0.1234),
				RmsY:              ptrFloat(0.2),
				RmsZ:              ptrFloat(1.5),
				ValRmsXExpected:   ptrFloat(0.12),
				ValRmsYExpected:   ptrFloat(0.2),
				ValRmsZExpected:   ptrFloat(1.5),
				ValRmsTolerance:   "±10%",
			},
			FinalResult: "PASSED",
		},
	}

	test := ITP(n)
	require.Len(t, test.Sections, 3)
	assert.Equal(t, testreport.StatusApproved, test.Status)

	setup := test.Sections[0]
	assert.Equal(t, "STU-G2-0042", setup.Parameters[2].Measured)

	components := test.Sections[1]
	assert.Equal(t, "12/12", components.Parameters[0].Measured)
	assert.Equal(t, "45.68 %", components.Parameters[1].Measured)
	assert.Equal(t, "45.00 % (±5%)", components.Parameters[1].Expected)
	assert.Equal(t, "Yes", components.Parameters[4].Measured)

	vibration := test.Sections[2]
	require.Len(t, vibration.Parameters, 1)
	assert.Equal(t, "Step 7: RMS (X/Y/Z)", vibration.Parameters[0].Name)
	assert.Equal(t, "0.1234 / 0.2000 / 1.50", vibration.Parameters[0].Measured)
	// Per-axis expected values carry no tolerance suffix.
	assert.Equal(t, "0.1200 / 0.2000 / 1.50", vibration.Parameters[0].Expected)
	assert.Equal(t, "vibration", vibration.Parameters[0].ParameterType)
}

func TestITPGen2ParameterTypes(t *testing.T) {
	n := rows.Normalized{
		Kind: testreport.KindITP,
		ITPGen2: &rows.ITPGen2{
			Step1Status:         "PASSED",
			Step2Valid:          ptrBool(true),
			Step3Status:         "PASSED",
			Step4Status:         "PASSED",
			Step5HumidityPassed: ptrBool(true),
			Step5TempPassed:     ptrBool(true),
			Step5McuTempPassed:  ptrBool(true),
			Step6Status:         "PASSED",
			FinalResult:         "APPROVED",
		},
	}

	test := ITP(n)
	setup := test.Sections[0]
	assert.Equal(t, "system", setup.Parameters[0].ParameterType)
	assert.Equal(t, "system", setup.Parameters[1].ParameterType)
	assert.Equal(t, "network", setup.Parameters[2].ParameterType)

	components := test.Sections[1]
	assert.Equal(t, "system", components.Parameters[0].ParameterType)
	assert.Equal(t, "humidity", components.Parameters[1].ParameterType)
	assert.Equal(t, "temperature", components.Parameters[2].ParameterType)
	assert.Equal(t, "temperature", components.Parameters[3].ParameterType)
	assert.Equal(t, "system", components.Parameters[4].ParameterType)
}

func TestITPGen2NoVibrationSteps(t *testing.T) {
	n := rows.Normalized{
		Kind: testreport.KindITP,
		ITPGen2: &rows.ITPGen2{
			Step1Status:         "PASSED",
			Step2Valid:          ptrBool(true),
			Step3Status:         "PASSED",
			Step4Status:         "PASSED",
			Step5HumidityPassed: ptrBool(true),
			Step5TempPassed:     ptrBool(true),
			Step5McuTempPassed:  ptrBool(true),
			Step6Status:         "PASSED",
			FinalResult:         "RUNNING",
		},
	}

	test := ITP(n)
	// The vibration section is always present, empty when the profile ran
	// no vibration steps; an inconclusive final result keeps the whole
	// test pending rather than approved.
	require.Len(t, test.Sections, 3)
	assert.Equal(t, "Vibration Tests", test.Sections[2].Name)
	assert.Empty(t, test.Sections[2].Parameters)
	assert.Equal(t, testreport.StatusPending, test.Status)
}

func TestLeak(t *testing.T) {
	n := rows.Normalized{
		Kind: testreport.KindLeak,
		Leak: &rows.Leak{
			TestDrop:        ptrFloat(0.0345),
			TestSlope:       ptrFloat(1.234),
			TestR2:          ptrFloat(0.998),
			ResultDropPass:  ptrBool(true),
			ResultSlopePass: ptrBool(true),
			ResultR2Pass:    ptrBool(true),
			ResultFinalPass: ptrBool(true),
			JigID:           "JIG-07",
			CalibLastCalib:  "2025-06-30",
			CalibMeanDrop:   ptrFloat(0.031),
			CalibErrorDrop:  ptrFloat(0.05),
		},
	}

	test := Leak(n)
	assert.Equal(t, "Leak Test", test.TestName)
	assert.Equal(t, testreport.StatusApproved, test.Status)
	require.Len(t, test.Sections, 2)

	assert.Equal(t, "0.0345 Pa/min", test.Sections[0].Parameters[0].Measured)
	assert.Equal(t, "0.9980", test.Sections[0].Parameters[2].Measured)
	assert.Empty(t, test.Sections[0].Parameters[0].ParameterType)

	calib := test.Sections[1]
	assert.Equal(t, "Calibração", calib.Name)
	assert.Equal(t, "JIG-07", calib.Parameters[0].Measured)
	assert.Equal(t, "30/06/2025", calib.Parameters[1].Measured)
	assert.Equal(t, "±5%", calib.Parameters[3].Measured)
}

func TestChipInfo(t *testing.T) {
	ns := func(s string) sql.NullString { return sql.NullString{String: s, Valid: s != ""} }

	t.Run("no provisioning", func(t *testing.T) {
		assert.Nil(t, ChipInfo(nil))
		assert.Nil(t, ChipInfo(&models.ChipCheck{}))
	})

	t.Run("single chip", func(t *testing.T) {
		info := ChipInfo(&models.ChipCheck{
			ChipConfig: ns("Single Chip"),
			Operadora1: ns("Vivo"),
			SimCcid1:   ns("8955..."),
		})
		require.NotNil(t, info)
		assert.Equal(t, "Single Chip", info.Type)
		assert.Equal(t, "Vivo", info.Chip1.Carrier)
		assert.Equal(t, "8955...", info.Chip1.CCID)
		assert.Nil(t, info.Chip2)
	})

	t.Run("dual chip", func(t *testing.T) {
		info := ChipInfo(&models.ChipCheck{
			ChipConfig: ns("Dual Chip"),
			Operadora1: ns("Vivo"),
			Operadora2: ns("Claro"),
			SimCcid1:   ns("8955..."),
			SimCcid2:   ns("8956..."),
		})
		require.NotNil(t, info)
		assert.Equal(t, "Dual Chip", info.Type)
		require.NotNil(t, info.Chip2)
		assert.Equal(t, "Claro", info.Chip2.Carrier)
	})

	t.Run("dual config with dead second slot", func(t *testing.T) {
		info := ChipInfo(&models.ChipCheck{
			ChipConfig: ns("Dual Chip"),
			Operadora1: ns("Vivo"),
			Operadora2: ns("Inactive"),
			SimCcid1:   ns("8955..."),
		})
		require.NotNil(t, info)
		assert.Equal(t, "Single Chip", info.Type)
		assert.Nil(t, info.Chip2)
	})

	t.Run("inactive", func(t *testing.T) {
		info := ChipInfo(&models.ChipCheck{
			Operadora1: ns("Inactive"),
		})
		require.NotNil(t, info)
		assert.Equal(t, "Não Identificado", info.Type)
		assert.Equal(t, "Inativo", info.Chip1.Carrier)
		assert.Equal(t, "N/A", info.Chip1.CCID)
	})
}
