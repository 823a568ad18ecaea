// Package testreport defines the normalized per-device report model. It is
// the only shape the service hands to presentation layers; raw table rows
// never leave the aggregation pipeline.
package testreport

// Status is the outcome of a test or of a single measured parameter.
type Status string

const (
	StatusApproved Status = "approved"
	StatusFailed   Status = "failed"
	StatusPending  Status = "pending"
	StatusWarning  Status = "warning"
)

// TestKind says which physical procedure produced a row. It selects the
// transformer and drives the expected-tests accounting per device type.
type TestKind string

const (
	KindATP  TestKind = "atp"
	KindITP  TestKind = "itp"
	KindLeak TestKind = "leak"
)

// Parameter is one measured value compared against its reference.
//
// A parameter whose raw value is absent is never emitted; presence of the
// measured value is the gate for inclusion.
type Parameter struct {
	Name          string `json:"name"`
	ParameterType string `json:"parameterType,omitempty"`
	Measured      string `json:"measured,omitempty"`
	Expected      string `json:"expected,omitempty"`
	Unit          string `json:"unit,omitempty"`
	Status        Status `json:"status"`
}

// Section groups parameters when a test kind has a fixed internal layout
// (the ITP subsystems, the leak test's measured-vs-calibration tabs).
type Section struct {
	Name       string      `json:"name"`
	Parameters []Parameter `json:"parameters"`
}

// Test is one executed (or expected-but-missing) test procedure.
// Exactly one of Parameters or Sections is populated.
type Test struct {
	TestName   string      `json:"testName"`
	TestType   string      `json:"testType"`
	Status     Status      `json:"status"`
	Date       string      `json:"date,omitempty"`
	Parameters []Parameter `json:"parameters"`
	Sections   []Section   `json:"sections,omitempty"`
}

// ChipCard describes one SIM slot.
type ChipCard struct {
	Carrier string `json:"carrier"`
	CCID    string `json:"ccid"`
}

// ChipInfo is the SIM/carrier-activation enrichment for cellular devices.
type ChipInfo struct {
	Type  string    `json:"type"`
	Chip1 ChipCard  `json:"chip1"`
	Chip2 *ChipCard `json:"chip2,omitempty"`
}

// Device is the assembled per-device report.
type Device struct {
	ID            string    `json:"id"`
	DeviceType    string    `json:"deviceType"`
	OverallStatus Status    `json:"overallStatus"`
	Tests         []Test    `json:"tests"`
	ChipInfo      *ChipInfo `json:"chipInfo,omitempty"`
	Batch         string    `json:"batch,omitempty"`
}

// Workorder is one production order offered during batch disambiguation.
type Workorder struct {
	Number int64  `json:"number"`
	Title  string `json:"title,omitempty"`
	Count  int    `json:"count"`
}

// Disambiguation is returned instead of devices when a batch prefix matches
// rows from more than one workorder. The caller re-issues one lookup per
// chosen workorder (token format "#%05d"); the service never does so itself.
type Disambiguation struct {
	NeedsDisambiguation bool        `json:"needsDisambiguation"`
	Batch               string      `json:"batch"`
	Workorders          []Workorder `json:"workorders"`
}

// OverallStatus derives the device-level status from its tests: failed wins
// over pending, pending wins over approved.
func OverallStatus(tests []Test) Status {
	for _, t := range tests {
		if t.Status == StatusFailed {
			return StatusFailed
		}
	}
	for _, t := range tests {
		if t.Status == StatusPending {
			return StatusPending
		}
	}
	return StatusApproved
}

// PendingPlaceholder synthesizes the entry for a test the device's type
// expects but for which no row was found.
func PendingPlaceholder(kind TestKind) Test {
	switch kind {
	case KindLeak:
		return Test{TestName: "Leak Test", TestType: "leak", Status: StatusPending, Parameters: []Parameter{}}
	case KindITP:
		return Test{TestName: "ITP", TestType: "electrical", Status: StatusPending, Parameters: []Parameter{}}
	default:
		return Test{TestName: "ATP", TestType: "electrical", Status: StatusPending, Parameters: []Parameter{}}
	}
}
