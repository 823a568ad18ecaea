package transform

import (
	"strings"

	"github.com/sensorfab/testreport-sdk/pkg/testreport"
)

// NormalizeStatus maps the wide status-string vocabulary the test jigs
// emit onto the report statuses. Anything unrecognized is pending.
func NormalizeStatus(raw string) testreport.Status {
	switch strings.ToUpper(raw) {
	case "PASSED", "PASS", "OK", "SUCCESS", "APPROVED":
		return testreport.StatusApproved
	case "FAILED", "FAIL":
		return testreport.StatusFailed
	}
	return testreport.StatusPending
}

// passFailStatus maps the PASS/FAIL vocabulary of the ATP tables; an
// unknown or absent value is pending, not failed.
func passFailStatus(raw string) testreport.Status {
	switch raw {
	case "PASS":
		return testreport.StatusApproved
	case "FAIL":
		return testreport.StatusFailed
	}
	return testreport.StatusPending
}

// boolStatus treats an absent flag as failed; the boolean-status tables
// record explicit true for a pass and NULL only on aborted runs.
func boolStatus(passed *bool) testreport.Status {
	if passed != nil && *passed {
		return testreport.StatusApproved
	}
	return testreport.StatusFailed
}

func anyFailed(params []testreport.Parameter) bool {
	for _, p := range params {
		if p.Status == testreport.StatusFailed {
			return true
		}
	}
	return false
}
