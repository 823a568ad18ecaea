package transform

import (
	"github.com/sensorfab/testreport-sdk/pkg/rows"
	"github.com/sensorfab/testreport-sdk/pkg/testreport"
)

func okFailLabel(ok *bool) string {
	if ok != nil && *ok {
		return "OK"
	}
	return "FAIL"
}

func valueWithUnit(v *float64, unit string) string {
	if v == nil {
		return "N/A"
	}
	return formatNumber(*v) + " " + unit
}

// itpOmniTrac lays out the OmniTrac ITP's 26 checks into its four fixed
// hardware-subsystem sections. Rows here are all-or-nothing: once present,
// every check resolves to approved or failed, never pending.
func itpOmniTrac(n rows.Normalized) testreport.Test {
	data := n.ITPOmniTrac

	powerSystem := []testreport.Parameter{
		{Name: "Power Enables", Measured: okFailLabel(data.PowerEnablesStatus), Status: boolStatus(data.PowerEnablesStatus), ParameterType: "electrical"},
		{Name: "Power Good Lines", Measured: okFailLabel(data.PowerGoodLinesStatus), Status: boolStatus(data.PowerGoodLinesStatus), ParameterType: "electrical"},
		{Name: "SoC Temperature", Measured: valueWithUnit(data.SocTempValue, "°C"), Status: boolStatus(data.SocTempStatus), ParameterType: "temperature"},
		{Name: "GPU Temperature", Measured: valueWithUnit(data.GpuTempValue, "°C"), Status: boolStatus(data.GpuTempStatus), ParameterType: "temperature"},
		{Name: "CPU Usage", Measured: valueWithUnit(data.CpuUsageValue, "%"), Status: boolStatus(data.CpuUsageStatus), ParameterType: "system"},
		{Name: "Memory Usage", Measured: valueWithUnit(data.MemoryUsageValue, "MB"), Status: boolStatus(data.MemoryUsageStatus), ParameterType: "system"},
	}

	electrical := []testreport.Parameter{
		{Name: "Front Panel 24V", Measured: valueWithUnit(data.FrontpanelBus24vValue, "mV"), Status: boolStatus(data.FrontpanelBus24vStatus), ParameterType: "voltage"},
		{Name: "Front Panel 5V", Measured: valueWithUnit(data.FrontpanelBus5vValue, "mV"), Status: boolStatus(data.FrontpanelBus5vStatus), ParameterType: "voltage"},
		{Name: "System 24V", Measured: valueWithUnit(data.Sys24vValue, "mV"), Status: boolStatus(data.Sys24vStatus), ParameterType: "voltage"},
		{Name: "System 5V", Measured: valueWithUnit(data.Sys5vValue, "mV"), Status: boolStatus(data.Sys5vStatus), ParameterType: "voltage"},
		{Name: "Fuse 24V Monitor", Measured: valueWithUnit(data.Fuse24vAuxImonValue, "A"), Status: boolStatus(data.Fuse24vAuxImonStatus), ParameterType: "current"},
		{Name: "Fuse 5V Monitor", Measured: valueWithUnit(data.Fuse5vAuxImonValue, "A"), Status: boolStatus(data.Fuse5vAuxImonStatus), ParameterType: "current"},
	}

	iperfOtgMeasured := data.IperfOtgError
	if iperfOtgMeasured == "" {
		iperfOtgMeasured = "OK"
	}
	communication := []testreport.Parameter{
		{Name: "USB Check Match", Measured: okFailLabel(data.UsbCheckMatchStatus), Status: boolStatus(data.UsbCheckMatchStatus), ParameterType: "network"},
		{Name: "Ethernet MAC", Measured: stringOrNA(data.Eth0MacValue), Status: boolStatus(data.Eth0MacStatus), ParameterType: "network"},
		{Name: "iPerf Ethernet", Measured: valueWithUnit(data.IperfEthValue, "Mbps"), Status: boolStatus(data.IperfEthStatus), ParameterType: "network"},
		{Name: "iPerf OTG", Measured: iperfOtgMeasured, Status: boolStatus(data.IperfOtgStatus), ParameterType: "network"},
		{Name: "RS485 Full Duplex", Measured: stringOrNA(data.Rs485FdValue), Status: boolStatus(data.Rs485FdStatus), ParameterType: "network"},
		{Name: "RS485 Half Duplex", Measured: numberOrNA(data.Rs485HdValue), Status: boolStatus(data.Rs485HdStatus), ParameterType: "network"},
		{Name: "RS232", Measured: stringOrNA(data.Rs232Value), Status: boolStatus(data.Rs232Status), ParameterType: "network"},
		{Name: "OT485 FD Master", Measured: stringOrNA(data.Ot485FdMasterValue), Status: boolStatus(data.Ot485FdMasterStatus), ParameterType: "network"},
		{Name: "OT485 FD Slave", Measured: stringOrNA(data.Ot485FdSlaveValue), Status: boolStatus(data.Ot485FdSlaveStatus), ParameterType: "network"},
	}

	storageExternal := []testreport.Parameter{
		{Name: "MMC CID", Measured: stringOrNA(data.MmcCidValue), Status: boolStatus(data.MmcCidStatus), ParameterType: "storage"},
		{Name: "EEPROM", Measured: stringOrNA(data.EepromValue), Status: boolStatus(data.EepromStatus), ParameterType: "storage"},
		{Name: "RTC PCF", Measured: stringOrNA(data.RtcPcfValue), Status: boolStatus(data.RtcPcfStatus), ParameterType: "system"},
		{Name: "External ID Test", Measured: stringOrNA(data.ExternalIDTestValue), Status: boolStatus(data.ExternalIDTestStatus), ParameterType: "system"},
		{Name: "Controller Timestamp", Measured: stringOrNA(data.ControllerTimestampValue), Status: boolStatus(data.ControllerTimestampStatus), ParameterType: "system"},
	}

	status := testreport.StatusApproved
	for _, section := range [][]testreport.Parameter{powerSystem, electrical, communication, storageExternal} {
		if anyFailed(section) {
			status = testreport.StatusFailed
			break
		}
	}

	return testreport.Test{
		TestName: "ITP",
		TestType: "electrical",
		Status:   status,
		Date:     formatDate(n.TestDate),
		Sections: []testreport.Section{
			{Name: "Power & System", Parameters: powerSystem},
			{Name: "Electrical", Parameters: electrical},
			{Name: "Communication", Parameters: communication},
			{Name: "Storage & External", Parameters: storageExternal},
		},
	}
}

func numberOrNA(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return formatNumber(*v)
}
