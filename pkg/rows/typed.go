package rows

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/sensorfab/testreport-sdk/pkg/testreport"
)

// ErrDecode implements "error", for the description see Error.
type ErrDecode struct {
	Table string
	Err   error
}

func (err ErrDecode) Error() string {
	return fmt.Sprintf("unable to decode a row fetched from table '%s': %v", err.Table, err.Err)
}

func (err ErrDecode) Unwrap() error {
	return err.Err
}

// ATPReading is one extracted (value, reference, status) triple of a
// generic ATP row; the set of triples a row carries depends on the
// device family, see the transform package's ATP field table.
type ATPReading struct {
	Value   string
	RefMean *string
	Status  string
}

// ATP is the typed payload of a generic ATP row. The measurement columns
// follow the `{prefix}_value` / `{prefix}_ref_mean` / `{prefix}_status`
// convention and are extracted into Readings keyed by prefix; a prefix with
// a NULL value column is absent from the map.
type ATP struct {
	TypeOps     string `db:"type_ops"`
	DeviceName  string `db:"device_name"`
	FinalStatus string `db:"final_status"`

	Readings map[string]ATPReading `db:"-"`
}

// ATPGen2 is the typed payload of the Smart Trac Ultra Gen 2 ATP table,
// which reads named pass-fields directly instead of the prefix convention.
type ATPGen2 struct {
	TypeOps string `db:"type_ops"`

	DutTemp                *float64 `db:"dut_temp"`
	ReferenceTemp          *float64 `db:"reference_temp"`
	TemperatureCheckPassed *bool    `db:"temperature_check_passed"`

	DutSignal         *float64 `db:"dut_signal"`
	ReferenceSignal   *float64 `db:"reference_signal"`
	SignalCheckPassed *bool    `db:"signal_check_passed"`

	DutStatusCount         *float64 `db:"dut_status_count"`
	ReferenceStatusCount   *float64 `db:"reference_status_count"`
	StatusCountCheckPassed *bool    `db:"status_count_check_passed"`

	ErrorCheckPassed      *bool  `db:"error_check_passed"`
	ZeroSignalCheckPassed *bool  `db:"zero_signal_check_passed"`
	ReferencesList        string `db:"references_list"`

	OverallResult string `db:"overall_result"`
}

// ITPOmniTrac is the typed payload of the OmniTrac ITP table: 26 checks
// across four hardware subsystems, each with a boolean status and an
// optional measured value.
type ITPOmniTrac struct {
	PowerEnablesStatus   *bool    `db:"power_enables_status"`
	PowerGoodLinesStatus *bool    `db:"power_good_lines_status"`
	SocTempValue         *float64 `db:"soc_temp_value"`
	SocTempStatus        *bool    `db:"soc_temp_status"`
	GpuTempValue         *float64 `db:"gpu_temp_value"`
	GpuTempStatus        *bool    `db:"gpu_temp_status"`
	CpuUsageValue        *float64 `db:"cpu_usage_value"`
	CpuUsageStatus       *bool    `db:"cpu_usage_status"`
	MemoryUsageValue     *float64 `db:"memory_usage_value"`
	MemoryUsageStatus    *bool    `db:"memory_usage_status"`

	FrontpanelBus24vValue  *float64 `db:"frontpanel_bus_24v_value"`
	FrontpanelBus24vStatus *bool    `db:"frontpanel_bus_24v_status"`
	FrontpanelBus5vValue   *float64 `db:"frontpanel_bus_5v_value"`
	FrontpanelBus5vStatus  *bool    `db:"frontpanel_bus_5v_status"`
	Sys24vValue            *float64 `db:"sys_24v_value"`
	Sys24vStatus           *bool    `db:"sys_24v_status"`
	Sys5vValue             *float64 `db:"sys_5v_value"`
	Sys5vStatus            *bool    `db:"sys_5v_status"`
	Fuse24vAuxImonValue    *float64 `db:"fuse24v_aux_imon_value"`
	Fuse24vAuxImonStatus   *bool    `db:"fuse24v_aux_imon_status"`
	Fuse5vAuxImonValue     *float64 `db:"fuse5v_aux_imon_value"`
	Fuse5vAuxImonStatus    *bool    `db:"fuse5v_aux_imon_status"`

	UsbCheckMatchStatus *bool    `db:"usb_check_match_status"`
	Eth0MacValue        string   `db:"eth0_mac_value"`
	Eth0MacStatus       *bool    `db:"eth0_mac_status"`
	IperfEthValue       *float64 `db:"iperf_eth_value"`
	IperfEthStatus      *bool    `db:"iperf_eth_status"`
	IperfOtgError       string   `db:"iperf_otg_error"`
	IperfOtgStatus      *bool    `db:"iperf_otg_status"`
	Rs485FdValue        string   `db:"rs485_fd_value"`
	Rs485FdStatus       *bool    `db:"rs485_fd_status"`
	Rs485HdValue        *float64 `db:"rs485_hd_value"`
	Rs485HdStatus       *bool    `db:"rs485_hd_status"`
	Rs232Value          string   `db:"rs232_value"`
	Rs232Status         *bool    `db:"rs232_status"`
	Ot485FdMasterValue  string   `db:"ot485_fd_master_value"`
	Ot485FdMasterStatus *bool    `db:"ot485_fd_master_status"`
	Ot485FdSlaveValue   string   `db:"ot485_fd_slave_value"`
	Ot485FdSlaveStatus  *bool    `db:"ot485_fd_slave_status"`

	MmcCidValue               string `db:"mmc_cid_value"`
	MmcCidStatus              *bool  `db:"mmc_cid_status"`
	EepromValue               string `db:"eeprom_value"`
	EepromStatus              *bool  `db:"eeprom_status"`
	RtcPcfValue               string `db:"rtc_pcf_value"`
	RtcPcfStatus              *bool  `db:"rtc_pcf_status"`
	ExternalIDTestValue       string `db:"external_id_test_value"`
	ExternalIDTestStatus      *bool  `db:"external_id_test_status"`
	ControllerTimestampValue  string `db:"controller_timestamp_value"`
	ControllerTimestampStatus *bool  `db:"controller_timestamp_status"`
}

// ITPGen2Vibration is one of the vibration provisioning steps (7-12) of the
// SmartTrac Gen 2 ITP. A step is included in the report only when its
// status field is present.
type ITPGen2Vibration struct {
	Status            string   `db:"status"`
	ValidationOverall string   `db:"validation_overall"`
	RmsX              *float64 `db:"rms_x"`
	RmsY              *float64 `db:"rms_y"`
	RmsZ              *float64 `db:"rms_z"`
	Rms               *float64 `db:"rms"`
	ValRmsXExpected   *float64 `db:"val_rms_x_expected"`
	ValRmsYExpected   *float64 `db:"val_rms_y_expected"`
	ValRmsZExpected   *float64 `db:"val_rms_z_expected"`
	ValRmsExpected    *float64 `db:"val_rms_expected"`
	ValRmsTolerance   string   `db:"val_rms_tolerance"`
	FrfScore          *float64 `db:"frf_score"`
	ValFrfExpected    *float64 `db:"val_frf_expected"`
	ValFrfTolerance   string   `db:"val_frf_tolerance"`
}

// ITPGen2 is the typed payload of the SmartTrac Gen 2 ITP table: 12
// provisioning steps, of which 7-12 are the conditional vibration steps.
type ITPGen2 struct {
	BatchDeviceType string `db:"batch_device_type"`

	Step1Status string `db:"step1_status"`

	Step2ExternalIDRead     string `db:"step2_external_id_read"`
	Step2ExternalIDExpected string `db:"step2_external_id_expected"`
	Step2Valid              *bool  `db:"step2_valid"`

	Step3DeviceName    string `db:"step3_device_name"`
	Step3DeviceAddress string `db:"step3_device_address"`
	Step3Status        string `db:"step3_status"`

	Step4ComponentsOk    *float64 `db:"step4_components_ok"`
	Step4ComponentsTotal *float64 `db:"step4_components_total"`
	Step4Status          string   `db:"step4_status"`

	Step5HumidityValue     *float64 `db:"step5_humidity_value"`
	Step5HumidityExpected  *float64 `db:"step5_humidity_expected"`
	Step5HumidityTolerance string   `db:"step5_humidity_tolerance"`
	Step5HumidityPassed    *bool    `db:"step5_humidity_passed"`
	Step5TempValue         *float64 `db:"step5_temp_value"`
	Step5TempExpected      *float64 `db:"step5_temp_expected"`
	Step5TempTolerance     string   `db:"step5_temp_tolerance"`
	Step5TempPassed        *bool    `db:"step5_temp_passed"`
	Step5McuTempValue      *float64 `db:"step5_mcu_temp_value"`
	Step5McuTempExpected   *float64 `db:"step5_mcu_temp_expected"`
	Step5McuTempTolerance  string   `db:"step5_mcu_temp_tolerance"`
	Step5McuTempPassed     *bool    `db:"step5_mcu_temp_passed"`

	Step6SasAvailable *bool  `db:"step6_sas_available"`
	Step6Status       string `db:"step6_status"`

	Step7  ITPGen2Vibration `db:"-"`
	Step8  ITPGen2Vibration `db:"-"`
	Step9  ITPGen2Vibration `db:"-"`
	Step10 ITPGen2Vibration `db:"-"`
	Step11 ITPGen2Vibration `db:"-"`
	Step12 ITPGen2Vibration `db:"-"`

	FinalResult string `db:"final_result"`
}

// Leak is the typed payload of the leak-test table: the measured drop,
// slope and fit quality plus the jig's calibration baseline.
type Leak struct {
	TypeOps    string `db:"type_ops"`
	InfoDevice string `db:"info_device"`

	TestDrop  *float64 `db:"test_drop"`
	TestSlope *float64 `db:"test_slope"`
	TestR2    *float64 `db:"test_r2"`

	ResultDropPass  *bool `db:"result_drop_pass"`
	ResultSlopePass *bool `db:"result_slope_pass"`
	ResultR2Pass    *bool `db:"result_r2_pass"`
	ResultFinalPass *bool `db:"result_final_pass"`

	JigID             string   `db:"jig_id"`
	CalibLastCalib    string   `db:"calib_last_calib"`
	CalibMeanDrop     *float64 `db:"calib_mean_drop"`
	CalibErrorDrop    *float64 `db:"calib_error_drop"`
	CalibMeanSlope    *float64 `db:"calib_mean_slope"`
	CalibErrorSlope   *float64 `db:"calib_error_slope"`
	CalibMeanFitQual  *float64 `db:"calib_mean_fit_qual"`
	CalibErrorFitQual *float64 `db:"calib_error_fit_qual"`
}

// decodeHook converts driver-level representations before the weak typing
// rules apply: byte slices become strings, native times become the date
// string the display layer reformats.
func decodeHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	switch v := data.(type) {
	case []byte:
		return string(v), nil
	case time.Time:
		if to.Kind() == reflect.String {
			return v.UTC().Format("2006-01-02"), nil
		}
	}
	return data, nil
}

func decodeInto(raw map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "db",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.DecodeHookFuncType(decodeHook),
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

func (n *Normalized) decodePayload(raw map[string]any) error {
	switch {
	case n.Kind == testreport.KindATP && n.Table == TableATPGen2:
		var payload ATPGen2
		if err := decodeInto(raw, &payload); err != nil {
			return err
		}
		n.ATPGen2 = &payload
	case n.Kind == testreport.KindATP:
		var payload ATP
		if err := decodeInto(raw, &payload); err != nil {
			return err
		}
		payload.Readings = extractATPReadings(raw)
		n.ATP = &payload
	case n.Kind == testreport.KindITP && n.Table == "fct_all_results_itp_omnitrac":
		var payload ITPOmniTrac
		if err := decodeInto(raw, &payload); err != nil {
			return err
		}
		n.ITPOmniTrac = &payload
	case n.Kind == testreport.KindITP:
		var payload ITPGen2
		if err := decodeInto(raw, &payload); err != nil {
			return err
		}
		for step, target := range map[int]*ITPGen2Vibration{
			7: &payload.Step7, 8: &payload.Step8, 9: &payload.Step9,
			10: &payload.Step10, 11: &payload.Step11, 12: &payload.Step12,
		} {
			if err := decodeVibrationStep(raw, step, target); err != nil {
				return err
			}
		}
		n.ITPGen2 = &payload
	case n.Kind == testreport.KindLeak:
		var payload Leak
		if err := decodeInto(raw, &payload); err != nil {
			return err
		}
		n.Leak = &payload
	default:
		return fmt.Errorf("no typed shape registered for kind '%s'", n.Kind)
	}
	return nil
}

func decodeVibrationStep(raw map[string]any, step int, out *ITPGen2Vibration) error {
	prefix := fmt.Sprintf("step%d_", step)
	sub := map[string]any{}
	for k, v := range raw {
		if strings.HasPrefix(k, prefix) {
			sub[strings.TrimPrefix(k, prefix)] = v
		}
	}
	return decodeInto(sub, out)
}

// extractATPReadings pulls the `{prefix}_value`/`_ref_mean`/`_status`
// triples out of a raw generic-ATP record. Only prefixes with a non-NULL
// value column yield a reading.
func extractATPReadings(raw map[string]any) map[string]ATPReading {
	readings := map[string]ATPReading{}
	for column, v := range raw {
		if !strings.HasSuffix(column, "_value") || v == nil {
			continue
		}
		prefix := strings.TrimSuffix(column, "_value")
		value, ok := asString(v)
		if !ok {
			continue
		}
		reading := ATPReading{Value: value}
		if ref, ok := asString(raw[prefix+"_ref_mean"]); ok {
			reading.RefMean = &ref
		}
		if status, ok := asString(raw[prefix+"_status"]); ok {
			reading.Status = status
		}
		readings[prefix] = reading
	}
	return readings
}
