package transform

import (
	"database/sql"

	"github.com/sensorfab/testreport-sdk/pkg/storage/models"
	"github.com/sensorfab/testreport-sdk/pkg/testreport"
)

// ChipInfo derives the SIM enrichment from a chip-check record. A record
// without a first carrier yields nil: the device never went through SIM
// provisioning, and the report omits the block entirely.
//
// Dual-chip only counts when the second slot is actually usable: both
// carriers active and the second CCID present. A "Dual Chip" config with
// a dead second slot reports as "Não Identificado".
func ChipInfo(check *models.ChipCheck) *testreport.ChipInfo {
	if check == nil || !check.Operadora1.Valid || check.Operadora1.String == "" {
		return nil
	}

	inactive := check.Operadora1.String == "Inactive"
	dual := check.ChipConfig.String == "Dual Chip" &&
		check.SimCcid2.Valid && check.SimCcid2.String != "" &&
		check.Operadora2.Valid && check.Operadora2.String != "" && check.Operadora2.String != "Inactive" &&
		!inactive

	info := &testreport.ChipInfo{
		Chip1: chipCard(check.Operadora1.String, check.SimCcid1),
	}
	switch {
	case inactive:
		info.Type = "Não Identificado"
	case dual:
		info.Type = "Dual Chip"
		chip2 := chipCard(check.Operadora2.String, check.SimCcid2)
		info.Chip2 = &chip2
	default:
		info.Type = "Single Chip"
	}
	if inactive {
		info.Chip1.Carrier = "Inativo"
	}
	return info
}

func chipCard(carrier string, ccid sql.NullString) testreport.ChipCard {
	card := testreport.ChipCard{Carrier: carrier, CCID: "N/A"}
	if ccid.Valid && ccid.String != "" {
		card.CCID = ccid.String
	}
	return card
}
