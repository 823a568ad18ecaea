package transform

import (
	"github.com/sensorfab/testreport-sdk/pkg/rows"
	"github.com/sensorfab/testreport-sdk/pkg/testreport"
)

// Leak renders a leak-test row: the three measured quantities against
// their pass flags, plus the jig calibration baseline. The calibration
// section labels stay in Portuguese, matching the factory floor's view.
func Leak(n rows.Normalized) testreport.Test {
	data := n.Leak

	measurements := []testreport.Parameter{
		{
			Name:     "Drop",
			Measured: measurementOrNA(data.TestDrop) + " Pa/min",
			Status:   boolStatus(data.ResultDropPass),
		},
		{
			Name:     "Slope",
			Measured: measurementOrNA(data.TestSlope),
			Status:   boolStatus(data.ResultSlopePass),
		},
		{
			Name:     "R² (Fit Quality)",
			Measured: measurementOrNA(data.TestR2),
			Status:   boolStatus(data.ResultR2Pass),
		},
	}

	calibration := []testreport.Parameter{
		{Name: "ID da Jiga", Measured: stringOrNA(data.JigID), Status: testreport.StatusApproved},
		{Name: "Última Calibração", Measured: formatCalibDate(data.CalibLastCalib), Status: testreport.StatusApproved},
		{Name: "Drop de Referência", Measured: measurementOrNA(data.CalibMeanDrop) + " Pa/min", Status: testreport.StatusApproved},
		{Name: "Variação Drop", Measured: formatPercent(data.CalibErrorDrop), Status: testreport.StatusApproved},
		{Name: "Slope de Referência", Measured: measurementOrNA(data.CalibMeanSlope), Status: testreport.StatusApproved},
		{Name: "Variação Slope", Measured: formatPercent(data.CalibErrorSlope), Status: testreport.StatusApproved},
		{Name: "R² de Referência", Measured: measurementOrNA(data.CalibMeanFitQual), Status: testreport.StatusApproved},
		{Name: "Variação R²", Measured: formatPercent(data.CalibErrorFitQual), Status: testreport.StatusApproved},
	}

	status := testreport.StatusFailed
	if data.ResultFinalPass != nil && *data.ResultFinalPass {
		status = testreport.StatusApproved
	}

	return testreport.Test{
		TestName: "Leak Test",
		TestType: "leak",
		Status:   status,
		Date:     formatDate(n.TestDate),
		Sections: []testreport.Section{
			{Name: "Leak Test", Parameters: measurements},
			{Name: "Calibração", Parameters: calibration},
		},
	}
}
