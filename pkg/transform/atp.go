package transform

import (
	"github.com/sensorfab/testreport-sdk/pkg/devicetype"
	"github.com/sensorfab/testreport-sdk/pkg/rows"
	"github.com/sensorfab/testreport-sdk/pkg/testreport"
)

// ATPFieldSpec names one measurement column family of a generic ATP table:
// the `{Prefix}_value`/`_ref_mean`/`_status` triple, its display name and
// its unit.
type ATPFieldSpec struct {
	Prefix string
	Name   string
	Unit   string
}

// ATPFieldTable maps a device type to the measurement families its ATP
// records carry.
type ATPFieldTable map[devicetype.Type][]ATPFieldSpec

// DefaultATPFields returns the field table for the current portfolio.
func DefaultATPFields() ATPFieldTable {
	smartTrac := []ATPFieldSpec{
		{Prefix: "sensor_signal", Name: "Sensor Signal", Unit: "dBm"},
		{Prefix: "temperature_thermistor", Name: "Temperature Thermistor", Unit: "°C"},
		{Prefix: "low_status", Name: "Low Status"},
	}
	receiver := []ATPFieldSpec{
		{Prefix: "sensor_signal", Name: "Sensor Signal", Unit: "dBm"},
		{Prefix: "signal", Name: "Signal", Unit: "dBm"},
		{Prefix: "modem_voltage", Name: "Modem Voltage", Unit: "V"},
		{Prefix: "modem_temp", Name: "Modem Temp", Unit: "°C"},
		{Prefix: "cpu_temperature", Name: "CPU Temperature", Unit: "°C"},
		{Prefix: "low_status", Name: "Low Status"},
	}
	uniTrac := []ATPFieldSpec{
		{Prefix: "sensor_signal", Name: "Sensor Signal", Unit: "dBm"},
		{Prefix: "internal_temp_c", Name: "Internal Temp", Unit: "°C"},
		{Prefix: "powerline_voltage", Name: "Powerline Voltage", Unit: "V"},
		{Prefix: "low_status", Name: "Low Status"},
	}

	return ATPFieldTable{
		devicetype.EnergyTrac: {
			{Prefix: "signal", Name: "Signal", Unit: "dBm"},
			{Prefix: "rms_ia", Name: "RMS IA", Unit: "A"},
			{Prefix: "rms_ib", Name: "RMS IB", Unit: "A"},
			{Prefix: "rms_ic", Name: "RMS IC", Unit: "A"},
			{Prefix: "rms_va", Name: "RMS VA", Unit: "V"},
			{Prefix: "rms_vb", Name: "RMS VB", Unit: "V"},
			{Prefix: "rms_vc", Name: "RMS VC", Unit: "V"},
			{Prefix: "modem_temp", Name: "Modem Temp", Unit: "°C"},
			{Prefix: "low_status", Name: "Low Status"},
		},
		devicetype.OmniReceiver: {
			{Prefix: "signal", Name: "Signal", Unit: "dBm"},
			{Prefix: "modem_temp", Name: "Modem Temp", Unit: "°C"},
			{Prefix: "low_status", Name: "Low Status"},
		},
		devicetype.OmniTrac: {
			{Prefix: "soc_temp", Name: "SoC Temp", Unit: "°C"},
			{Prefix: "cpu_usage", Name: "CPU Usage", Unit: "%"},
			{Prefix: "memory_usage", Name: "Memory Usage", Unit: "MB"},
			{Prefix: "disk_usage", Name: "Disk Usage", Unit: "MB"},
			{Prefix: "low_status", Name: "Low Status"},
		},
		devicetype.SmartTracUltra:     smartTrac,
		devicetype.SmartTracPro:       smartTrac,
		devicetype.SmartTracUltraEx:   smartTrac,
		devicetype.SmartReceiverUltra: receiver,
		devicetype.SmartReceiverPro:   receiver,
		devicetype.UniTrac:            uniTrac,
		devicetype.OeeTrac:            uniTrac,
	}
}

// ATP converts a normalized ATP row into its Test. The Gen 2 table has its
// own fixed checks; every other ATP table goes through the per-type field
// table.
func ATP(n rows.Normalized, typ devicetype.Type, fields ATPFieldTable) testreport.Test {
	if n.ATPGen2 != nil {
		return atpGen2(n)
	}

	var params []testreport.Parameter
	if n.ATP != nil {
		for _, spec := range fields[typ] {
			reading, ok := n.ATP.Readings[spec.Prefix]
			if !ok {
				continue
			}
			measured := reading.Value
			if spec.Unit != "" {
				measured += " " + spec.Unit
			}
			p := testreport.Parameter{
				Name:     spec.Name,
				Measured: measured,
				Status:   passFailStatus(reading.Status),
			}
			if reading.RefMean != nil {
				p.Expected = *reading.RefMean
				if spec.Unit != "" {
					p.Expected += " " + spec.Unit
				}
			}
			params = append(params, p)
		}
	}

	status := testreport.StatusFailed
	if n.ATP != nil && n.ATP.FinalStatus == "PASS" {
		status = testreport.StatusApproved
	}

	return testreport.Test{
		TestName:   "ATP",
		TestType:   "electrical",
		Status:     status,
		Date:       formatDate(n.TestDate),
		Parameters: params,
	}
}
