// Package devicetype enumerates the product types the factory tests and
// holds the per-type expectations used to assemble a report: which test
// kinds the device must have gone through and whether it carries a SIM.
package devicetype

import (
	"github.com/sensorfab/testreport-sdk/pkg/testreport"
)

// Type is the canonical product-type name. It is a dedicated type (not a
// bare string) so that dispatch over it is explicit; every Type used by the
// inference rules must have a Config entry, see Registry.
type Type string

const (
	EnergyTrac         Type = "Energy Trac"
	OmniTrac           Type = "Omni Trac"
	SmartTracUltra     Type = "Smart Trac Ultra"
	SmartTracPro       Type = "Smart Trac Pro"
	SmartTracUltraEx   Type = "Smart Trac Ultra Ex"
	SmartTracUltraGen2 Type = "Smart Trac Ultra Gen 2"
	OmniReceiver       Type = "Omni Receiver"
	SmartReceiverUltra Type = "Smart Receiver Ultra"
	SmartReceiverPro   Type = "Smart Receiver Pro"
	UniTrac            Type = "Uni Trac"
	OeeTrac            Type = "Oee Trac"
)

// Config describes what a complete report for the type contains.
//
// ATPSuffix/ITPSuffix name the table-family suffix that kind's results live
// in (empty means the type has no such test); HasLeak marks the pneumatic
// seal test; HasChipInfo marks cellular devices whose report is enriched
// with SIM carrier-activation data.
type Config struct {
	ATPSuffix   string
	ITPSuffix   string
	HasLeak     bool
	HasChipInfo bool
}

// ExpectedKinds lists the test kinds a device of this type must present, in
// report order. The assembled report has exactly one Test per entry.
func (c Config) ExpectedKinds() []testreport.TestKind {
	var kinds []testreport.TestKind
	if c.ATPSuffix != "" {
		kinds = append(kinds, testreport.KindATP)
	}
	if c.ITPSuffix != "" {
		kinds = append(kinds, testreport.KindITP)
	}
	if c.HasLeak {
		kinds = append(kinds, testreport.KindLeak)
	}
	return kinds
}

// Registry is the total Type → Config mapping.
type Registry map[Type]Config

// DefaultRegistry returns the registry for the current product portfolio.
// It is constructed fresh on each call so that callers can treat the value
// as their own immutable copy.
func DefaultRegistry() Registry {
	return Registry{
		EnergyTrac:         {ATPSuffix: "energytrac", HasChipInfo: true},
		OmniTrac:           {ATPSuffix: "omnitrac", ITPSuffix: "omnitrac"},
		SmartTracUltra:     {ATPSuffix: "smarttrac", HasLeak: true},
		SmartTracPro:       {ATPSuffix: "smarttrac", HasLeak: true},
		SmartTracUltraEx:   {ATPSuffix: "smarttrac", HasLeak: true},
		SmartTracUltraGen2: {ATPSuffix: "smarttrac_ultra_gen2", ITPSuffix: "smarttrac_ultra_gen2", HasLeak: true},
		OmniReceiver:       {ATPSuffix: "omni_receiver", HasChipInfo: true},
		SmartReceiverUltra: {ATPSuffix: "receiver", HasLeak: true, HasChipInfo: true},
		SmartReceiverPro:   {ATPSuffix: "receiver", HasLeak: true, HasChipInfo: true},
		UniTrac:            {ATPSuffix: "unitrac", HasLeak: true},
		OeeTrac:            {ATPSuffix: "unitrac", HasLeak: true},
	}
}

// Known reports whether t has a Config entry in r.
func (r Registry) Known(t Type) bool {
	_, ok := r[t]
	return ok
}
