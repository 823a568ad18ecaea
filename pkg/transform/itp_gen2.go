package transform

import (
	"fmt"

	"github.com/sensorfab/testreport-sdk/pkg/rows"
	"github.com/sensorfab/testreport-sdk/pkg/testreport"
)

// itpGen2 renders the SmartTrac Gen 2 provisioning sequence. Steps 1-6
// are always shown; the vibration steps 7-12 only appear when the jig
// actually ran them, which depends on the provisioning profile.
func itpGen2(n rows.Normalized) testreport.Test {
	data := n.ITPGen2

	setup := []testreport.Parameter{
		{
			Name:          "Step 1: Initialization",
			Measured:      approvedLabel(NormalizeStatus(data.Step1Status) == testreport.StatusApproved),
			Status:        NormalizeStatus(data.Step1Status),
			ParameterType: "system",
		},
		{
			Name:          "Step 2: External ID",
			Measured:      stringOrNA(data.Step2ExternalIDRead),
			Expected:      data.Step2ExternalIDExpected,
			Status:        boolStatus(data.Step2Valid),
			ParameterType: "system",
		},
		{
			Name:          "Step 3: BLE Discovery",
			Measured:      bleName(data),
			Status:        NormalizeStatus(data.Step3Status),
			ParameterType: "network",
		},
	}

	components := []testreport.Parameter{
		{
			Name:          "Step 4: Components Check",
			Measured:      componentsRatio(data.Step4ComponentsOk, data.Step4ComponentsTotal),
			Status:        NormalizeStatus(data.Step4Status),
			ParameterType: "system",
		},
		toleranceParam("Step 5: Humidity", data.Step5HumidityValue, data.Step5HumidityExpected, data.Step5HumidityTolerance, data.Step5HumidityPassed, "%", "humidity"),
		toleranceParam("Step 5: Temperature", data.Step5TempValue, data.Step5TempExpected, data.Step5TempTolerance, data.Step5TempPassed, "°C", "temperature"),
		toleranceParam("Step 5: MCU Temperature", data.Step5McuTempValue, data.Step5McuTempExpected, data.Step5McuTempTolerance, data.Step5McuTempPassed, "°C", "temperature"),
		{
			Name:          "Step 6: SAS Available",
			Measured:      yesNo(data.Step6SasAvailable),
			Status:        NormalizeStatus(data.Step6Status),
			ParameterType: "system",
		},
	}

	vibration := []testreport.Parameter{}
	for _, step := range []struct {
		num  int
		data rows.ITPGen2Vibration
		axes bool
	}{
		{7, data.Step7, true},
		{8, data.Step8, true},
		{9, data.Step9, false},
		{10, data.Step10, true},
		{11, data.Step11, true},
		{12, data.Step12, false},
	} {
		if step.data.Status == "" {
			continue
		}
		vibration = append(vibration, vibrationParams(step.num, step.data, step.axes)...)
	}

	// The vibration section is part of the fixed layout even when the
	// profile ran no vibration steps; it just carries no parameters then.
	sections := []testreport.Section{
		{Name: "Setup & Discovery", Parameters: setup},
		{Name: "Components & Sensors", Parameters: components},
		{Name: "Vibration Tests", Parameters: vibration},
	}

	status := testreport.StatusPending
	switch {
	case sectionsFailed(sections):
		status = testreport.StatusFailed
	case NormalizeStatus(data.FinalResult) == testreport.StatusApproved:
		status = testreport.StatusApproved
	}

	return testreport.Test{
		TestName: "ITP",
		TestType: "electrical",
		Status:   status,
		Date:     formatDate(n.TestDate),
		Sections: sections,
	}
}

func approvedLabel(ok bool) string {
	if ok {
		return "OK"
	}
	return "FAIL"
}

func bleName(data *rows.ITPGen2) string {
	if data.Step3DeviceName != "" {
		return data.Step3DeviceName
	}
	return stringOrNA(data.Step3DeviceAddress)
}

func componentsRatio(ok, total *float64) string {
	if ok == nil || total == nil {
		return "N/A"
	}
	return fmt.Sprintf("%s/%s", formatNumber(*ok), formatNumber(*total))
}

func toleranceParam(name string, value, expected *float64, tolerance string, passed *bool, unit, ptype string) testreport.Parameter {
	p := testreport.Parameter{
		Name:          name,
		Measured:      "N/A",
		Status:        boolStatus(passed),
		ParameterType: ptype,
	}
	if value != nil {
		p.Measured = FormatMeasurement(*value) + " " + unit
	}
	if expected != nil {
		p.Expected = FormatMeasurement(*expected) + " " + unit
		if tolerance != "" {
			p.Expected += fmt.Sprintf(" (%s)", tolerance)
		}
	}
	return p
}

func yesNo(v *bool) string {
	if v != nil && *v {
		return "Yes"
	}
	return "No"
}

// vibrationParams renders one vibration step: per-axis RMS for the sweep
// steps, a single RMS for the settle steps, plus the FRF score when the
// step produced one.
func vibrationParams(num int, data rows.ITPGen2Vibration, axes bool) []testreport.Parameter {
	overall := data.ValidationOverall
	if overall == "" {
		overall = data.Status
	}
	status := NormalizeStatus(overall)

	var params []testreport.Parameter
	if axes {
		p := testreport.Parameter{
			Name: fmt.Sprintf("Step %d: RMS (X/Y/Z)", num),
			Measured: fmt.Sprintf("%s / %s / %s",
				measurementOrNA(data.RmsX), measurementOrNA(data.RmsY), measurementOrNA(data.RmsZ)),
			Status:        status,
			ParameterType: "vibration",
		}
		if data.ValRmsXExpected != nil {
			p.Expected = fmt.Sprintf("%s / %s / %s",
				measurementOrNA(data.ValRmsXExpected), measurementOrNA(data.ValRmsYExpected), measurementOrNA(data.ValRmsZExpected))
		}
		params = append(params, p)
	} else {
		p := testreport.Parameter{
			Name:          fmt.Sprintf("Step %d: RMS", num),
			Measured:      measurementOrNA(data.Rms),
			Status:        status,
			ParameterType: "vibration",
		}
		if data.ValRmsExpected != nil {
			p.Expected = measurementOrNA(data.ValRmsExpected)
			if data.ValRmsTolerance != "" {
				p.Expected += fmt.Sprintf(" (%s)", data.ValRmsTolerance)
			}
		}
		params = append(params, p)
	}

	if num == 10 && data.FrfScore != nil {
		p := testreport.Parameter{
			Name:          "Step 10: FRF Score",
			Measured:      FormatMeasurement(*data.FrfScore),
			Status:        status,
			ParameterType: "vibration",
		}
		if data.ValFrfExpected != nil {
			p.Expected = FormatMeasurement(*data.ValFrfExpected)
			if data.ValFrfTolerance != "" {
				p.Expected += fmt.Sprintf(" (%s)", data.ValFrfTolerance)
			}
		}
		params = append(params, p)
	}
	return params
}

func sectionsFailed(sections []testreport.Section) bool {
	for _, s := range sections {
		if anyFailed(s.Parameters) {
			return true
		}
	}
	return false
}
