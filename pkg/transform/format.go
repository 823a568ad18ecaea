// Package transform converts normalized raw rows into the report model,
// one transformer per test kind. Transformers are pure; they never touch
// the store.
package transform

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatMeasurement renders a measured value with the display precision
// rule shared by the leak and Gen 2 ITP views: magnitudes below 1 keep 4
// decimal places, everything else keeps 2.
func FormatMeasurement(v float64) string {
	if math.Abs(v) < 1 {
		return strconv.FormatFloat(v, 'f', 4, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// formatNumber renders a raw numeric value without imposed precision, the
// way the generic ATP view shows it.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatPercent renders a decimal error fraction as a tolerance
// percentage: 0.05 becomes "±5%".
func formatPercent(v *float64) string {
	if v == nil {
		return "N/A"
	}
	pct := math.Round(*v*100*100) / 100
	return "±" + strconv.FormatFloat(pct, 'f', -1, 64) + "%"
}

// formatCalibDate reformats a YYYY-MM-DD calibration date to DD/MM/YYYY.
func formatCalibDate(raw string) string {
	if raw == "" {
		return "N/A"
	}
	parts := strings.Split(raw, "-")
	if len(parts) != 3 {
		return raw
	}
	return fmt.Sprintf("%s/%s/%s", parts[2], parts[1], parts[0])
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func measurementOrNA(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return FormatMeasurement(*v)
}

func stringOrNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
