package observability

import (
	"context"

	"github.com/facebookincubator/go-belt/tool/experimental/tracer"
)

// NewTracer returns the default Tracer handler for the test-report family
// of applications.
func NewTracer(ctx context.Context) tracer.Tracer {
	return tracer.Default()
}
