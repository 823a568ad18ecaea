// Package httpsrv exposes the report lookups over a single HTTP GET
// endpoint. It owns search-token classification, CORS and the mapping of
// controller errors onto HTTP status classes.
package httpsrv

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/facebookincubator/go-belt/beltctx"
	"github.com/facebookincubator/go-belt/tool/logger"

	"github.com/sensorfab/testreport-sdk/pkg/httputils/servermiddleware"
	"github.com/sensorfab/testreport-sdk/pkg/server/controller"
	"github.com/sensorfab/testreport-sdk/pkg/testreport"
)

// ReportPath is the path of the lookup endpoint; the search token travels
// in the "q" query parameter.
const ReportPath = "/api/v1/report"

// reportController is the subset of controller.Controller the server
// dispatches to; an interface to enable mock-ing.
type reportController interface {
	DeviceReport(ctx context.Context, deviceID string) (*testreport.Device, error)
	DeviceReports(ctx context.Context, deviceIDs []string) ([]testreport.Device, error)
	BatchReport(ctx context.Context, batch string) (*controller.BatchResult, error)
	WorkorderReport(ctx context.Context, workorder int64) ([]testreport.Device, error)
}

// Server is the HTTP surface of the test-report service.
type Server struct {
	Controller      reportController
	DefaultLogLevel logger.Level
}

// NewServer returns an instance of Server.
func NewServer(ctrl reportController, defaultLogLevel logger.Level) *Server {
	return &Server{
		Controller:      ctrl,
		DefaultLogLevel: defaultLogLevel,
	}
}

// Serve listens on bindAddr until the context is cancelled. The handler
// chain is the default middleware (context setup with the belt from ctx,
// panic recovery, request logging) around the lookup handler.
func (srv *Server) Serve(ctx context.Context, bindAddr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc(ReportPath, servermiddleware.AddDefaultMiddleware(
		srv.handleReport,
		beltctx.Belt(ctx),
		true,
		srv.DefaultLogLevel,
	))

	httpSrv := &http.Server{
		Addr:    bindAddr,
		Handler: mux,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		<-ctx.Done()
		_ = httpSrv.Close()
	}()

	err := httpSrv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
