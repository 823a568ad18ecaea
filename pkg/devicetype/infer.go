package devicetype

import (
	"strings"
)

// Table identities the inference rules special-case. The OmniTrac ITP table
// serves a single product, so its identity alone determines the type.
const (
	TableITPOmniTrac = "fct_all_results_itp_omnitrac"
	TableITPGen2     = "fct_all_results_itp_smarttrac_ultra_gen2"
)

// normalizeSpelling collapses legacy spelling variants of type names into
// the canonical Type. Unrecognized names pass through unchanged.
func normalizeSpelling(name string) Type {
	switch name {
	case "Smart Trac Ultra Gen2":
		return SmartTracUltraGen2
	case "STU Gen 2":
		return SmartTracUltraGen2
	}
	return Type(name)
}

// FromATP infers the type from an ATP row's explicit type fields. ATP data
// is authoritative whenever present: every ATP table carries type_ops, with
// device_name kept as the legacy fallback field.
func FromATP(typeOps, deviceName string) (Type, bool) {
	name := typeOps
	if name == "" {
		name = deviceName
	}
	if name == "" {
		return "", false
	}
	return normalizeSpelling(name), true
}

// FromITP infers the type from an ITP row. Single-purpose tables imply the
// type unconditionally; multi-product tables read the explicit type field.
func FromITP(tableName, batchDeviceType string) (Type, bool) {
	switch tableName {
	case TableITPOmniTrac:
		return OmniTrac, true
	case TableITPGen2:
		if batchDeviceType == "" {
			return "", false
		}
		return normalizeSpelling(batchDeviceType), true
	}
	return "", false
}

// leakInfoRule maps a substring of the free-text info_device field to a
// canonical type. Rules are checked in order; keep more specific product
// names ahead of generic ones sharing a substring.
type leakInfoRule struct {
	substrings []string
	typ        Type
}

var leakInfoRules = []leakInfoRule{
	{[]string{"uni trac", "unitrac"}, UniTrac},
	{[]string{"oee trac"}, OeeTrac},
	{[]string{"smart trac", "stu"}, SmartTracUltra},
	{[]string{"smart receiver"}, SmartReceiverUltra},
}

// FromLeak is the last-resort inference for devices seen only in the leak
// table. It prefers the explicit type_ops field and otherwise pattern-matches
// the free-text device-info string.
func FromLeak(typeOps, infoDevice string) (Type, bool) {
	if typeOps != "" {
		return normalizeSpelling(typeOps), true
	}
	if infoDevice == "" {
		return "", false
	}
	lower := strings.ToLower(infoDevice)
	for _, rule := range leakInfoRules {
		for _, sub := range rule.substrings {
			if strings.Contains(lower, sub) {
				return rule.typ, true
			}
		}
	}
	return "", false
}
