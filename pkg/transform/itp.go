package transform

import (
	"github.com/sensorfab/testreport-sdk/pkg/rows"
	"github.com/sensorfab/testreport-sdk/pkg/testreport"
)

// ITP converts a normalized ITP row into its Test, dispatching on which
// table's typed payload the row carries.
func ITP(n rows.Normalized) testreport.Test {
	if n.ITPOmniTrac != nil {
		return itpOmniTrac(n)
	}
	return itpGen2(n)
}
