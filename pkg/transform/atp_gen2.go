package transform

import (
	"github.com/sensorfab/testreport-sdk/pkg/rows"
	"github.com/sensorfab/testreport-sdk/pkg/testreport"
)

// atpGen2 handles the Smart Trac Ultra Gen 2 ATP: a fixed set of named
// checks reading pass-fields directly.
func atpGen2(n rows.Normalized) testreport.Test {
	data := n.ATPGen2
	var params []testreport.Parameter

	if data.DutTemp != nil {
		p := testreport.Parameter{
			Name:          "Temperature",
			Measured:      formatNumber(*data.DutTemp) + " °C",
			Status:        boolStatus(data.TemperatureCheckPassed),
			ParameterType: "temperature",
		}
		if data.ReferenceTemp != nil {
			p.Expected = formatNumber(*data.ReferenceTemp) + " °C"
		}
		params = append(params, p)
	}

	if data.DutSignal != nil {
		p := testreport.Parameter{
			Name:          "Signal",
			Measured:      formatNumber(*data.DutSignal) + " dB",
			Status:        boolStatus(data.SignalCheckPassed),
			ParameterType: "signal",
		}
		if data.ReferenceSignal != nil {
			p.Expected = formatNumber(*data.ReferenceSignal) + " dB"
		}
		params = append(params, p)
	}

	if data.DutStatusCount != nil {
		p := testreport.Parameter{
			Name:          "Status Count",
			Measured:      formatNumber(*data.DutStatusCount),
			Status:        boolStatus(data.StatusCountCheckPassed),
			ParameterType: "system",
		}
		if data.ReferenceStatusCount != nil {
			p.Expected = formatNumber(*data.ReferenceStatusCount)
		}
		params = append(params, p)
	}

	if data.ErrorCheckPassed != nil {
		params = append(params, testreport.Parameter{
			Name:          "Error Check",
			Measured:      passFailLabel(*data.ErrorCheckPassed),
			Status:        boolStatus(data.ErrorCheckPassed),
			ParameterType: "system",
		})
	}

	if data.ZeroSignalCheckPassed != nil {
		params = append(params, testreport.Parameter{
			Name:          "Zero Signal Check",
			Measured:      passFailLabel(*data.ZeroSignalCheckPassed),
			Status:        boolStatus(data.ZeroSignalCheckPassed),
			ParameterType: "system",
		})
	}

	if data.ReferencesList != "" {
		params = append(params, testreport.Parameter{
			Name:          "References Used",
			Measured:      data.ReferencesList,
			Status:        testreport.StatusApproved,
			ParameterType: "info",
		})
	}

	status := testreport.StatusFailed
	if data.OverallResult == "PASS" {
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

func passFailLabel(passed bool) string {
	if passed {
		return "PASS"
	}
	return "FAIL"
}
