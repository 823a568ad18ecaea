package controller

import (
	"context"

	"github.com/facebookincubator/go-belt/tool/logger"

	"github.com/sensorfab/testreport-sdk/pkg/devicetype"
	"github.com/sensorfab/testreport-sdk/pkg/rows"
	"github.com/sensorfab/testreport-sdk/pkg/storage/models"
	"github.com/sensorfab/testreport-sdk/pkg/testreport"
	"github.com/sensorfab/testreport-sdk/pkg/transform"
)

// deviceGroup is the per-device view of a fan-out's output: the first row
// found per test kind, in table-registry order. Later rows of the same
// kind for the same device are ignored; the registry lists the tables in
// precedence order.
type deviceGroup struct {
	id     string
	byKind map[testreport.TestKind]rows.Normalized
}

func groupByDevice(fetched []rows.Normalized) []*deviceGroup {
	var groups []*deviceGroup
	index := map[string]*deviceGroup{}
	for _, n := range fetched {
		if n.DeviceID == "" {
			continue
		}
		group := index[n.DeviceID]
		if group == nil {
			group = &deviceGroup{id: n.DeviceID, byKind: map[testreport.TestKind]rows.Normalized{}}
			index[n.DeviceID] = group
			groups = append(groups, group)
		}
		if _, ok := group.byKind[n.Kind]; !ok {
			group.byKind[n.Kind] = n
		}
	}
	return groups
}

// inferType runs the inference cascade over the group's rows: ATP data is
// authoritative, ITP is next, and the leak row's free-text fields are the
// last resort.
func inferType(group *deviceGroup) (devicetype.Type, bool) {
	if n, ok := group.byKind[testreport.KindATP]; ok {
		switch {
		case n.ATP != nil:
			if typ, ok := devicetype.FromATP(n.ATP.TypeOps, n.ATP.DeviceName); ok {
				return typ, true
			}
		case n.ATPGen2 != nil:
			if typ, ok := devicetype.FromATP(n.ATPGen2.TypeOps, ""); ok {
				return typ, true
			}
		}
	}
	if n, ok := group.byKind[testreport.KindITP]; ok {
		var batchDeviceType string
		if n.ITPGen2 != nil {
			batchDeviceType = n.ITPGen2.BatchDeviceType
		}
		if typ, ok := devicetype.FromITP(n.Table, batchDeviceType); ok {
			return typ, true
		}
	}
	if n, ok := group.byKind[testreport.KindLeak]; ok && n.Leak != nil {
		if typ, ok := devicetype.FromLeak(n.Leak.TypeOps, n.Leak.InfoDevice); ok {
			return typ, true
		}
	}
	return "", false
}

// assembleDevice builds the report for one device of a known, registered
// type: one Test per expected kind (a pending placeholder when the kind's
// row is missing), the derived overall status and the optional SIM block.
func (ctrl *Controller) assembleDevice(
	group *deviceGroup,
	typ devicetype.Type,
	chip *models.ChipCheck,
) testreport.Device {
	config := ctrl.Registry[typ]

	var tests []testreport.Test
	var batch string
	for _, kind := range config.ExpectedKinds() {
		n, ok := group.byKind[kind]
		if !ok {
			tests = append(tests, testreport.PendingPlaceholder(kind))
			continue
		}
		if batch == "" {
			batch = n.Batch
		}
		switch kind {
		case testreport.KindATP:
			tests = append(tests, transform.ATP(n, typ, ctrl.ATPFields))
		case testreport.KindITP:
			tests = append(tests, transform.ITP(n))
		case testreport.KindLeak:
			tests = append(tests, transform.Leak(n))
		}
	}

	device := testreport.Device{
		ID:            group.id,
		DeviceType:    string(typ),
		OverallStatus: testreport.OverallStatus(tests),
		Tests:         tests,
		Batch:         batch,
	}
	if config.HasChipInfo {
		device.ChipInfo = transform.ChipInfo(chip)
	}
	return device
}

// buildDevices assembles the reports for a multi-device fan-out result.
//
// A device whose type cannot be inferred (or is not registered) is logged
// and skipped rather than failing the lookup; a stray device must not hide
// the rest of the batch. SIM data is fetched in one batched query, and its
// failure degrades to reports without the SIM block.
func (ctrl *Controller) buildDevices(ctx context.Context, fetched []rows.Normalized) []testreport.Device {
	log := logger.FromCtx(ctx)

	groups := groupByDevice(fetched)

	type typedGroup struct {
		group *deviceGroup
		typ   devicetype.Type
	}
	var typed []typedGroup
	var chipIDs []string
	for _, group := range groups {
		typ, ok := inferType(group)
		if !ok {
			log.Warnf("skipping device '%s': unable to infer its type", group.id)
			continue
		}
		if !ctrl.Registry.Known(typ) {
			log.Warnf("skipping device '%s': unregistered type '%s'", group.id, typ)
			continue
		}
		typed = append(typed, typedGroup{group: group, typ: typ})
		if ctrl.Registry[typ].HasChipInfo {
			chipIDs = append(chipIDs, group.id)
		}
	}

	chipByID := map[string]*models.ChipCheck{}
	if len(chipIDs) > 0 {
		checks, err := ctrl.Storage.ChipCheckByIDs(ctx, chipIDs)
		if err != nil {
			log.Errorf("unable to fetch the chip-check records: %v", err)
		}
		for idx := range checks {
			chipByID[checks[idx].ID] = &checks[idx]
		}
	}

	devices := make([]testreport.Device, 0, len(typed))
	for _, tg := range typed {
		devices = append(devices, ctrl.assembleDevice(tg.group, tg.typ, chipByID[tg.group.id]))
	}
	return devices
}
