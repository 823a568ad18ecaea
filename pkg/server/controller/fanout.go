package controller

import (
	"context"
	"sync"

	"github.com/facebookincubator/go-belt/tool/logger"

	"github.com/sensorfab/testreport-sdk/pkg/rows"
)

// fetchFunc issues one table's query and returns its raw records.
type fetchFunc func(ctx context.Context, desc rows.TableDescriptor) ([]map[string]any, error)

// fanOut queries every registered table concurrently and normalizes the
// results, preserving the registry order of the tables in the flattened
// output (which is what makes "first result per kind" deterministic).
//
// Failures never abort the fan-out: a table that errors out contributes
// nothing, a row that fails to normalize is dropped, and both are logged.
func (ctrl *Controller) fanOut(ctx context.Context, fetch fetchFunc) []rows.Normalized {
	log := logger.FromCtx(ctx)

	perTable := make([][]rows.Normalized, len(ctrl.Tables))
	var wg sync.WaitGroup
	for idx, desc := range ctrl.Tables {
		wg.Add(1)
		go func(idx int, desc rows.TableDescriptor) {
			defer wg.Done()

			records, err := fetch(ctx, desc)
			if err != nil {
				log.Errorf("unable to query table '%s': %v", desc.Table, err)
				return
			}

			normalized := make([]rows.Normalized, 0, len(records))
			for _, record := range records {
				n, err := rows.Normalize(ctx, desc, record)
				if err != nil {
					log.Errorf("dropping a record: %v", err)
					continue
				}
				normalized = append(normalized, n)
			}
			perTable[idx] = normalized
		}(idx, desc)
	}
	wg.Wait()

	var result []rows.Normalized
	for _, tableRows := range perTable {
		result = append(result, tableRows...)
	}
	return result
}
