package httpsrv

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/facebookincubator/go-belt/tool/logger"

	"github.com/sensorfab/testreport-sdk/pkg/server/controller"
	"github.com/sensorfab/testreport-sdk/pkg/testreport"
)

// errorResponse is the body of every non-2xx answer.
type errorResponse struct {
	Error string `json:"error"`
}

// deviceListResponse is the body of a multi-device answer (batch,
// workorder or bulk id-list lookup).
type deviceListResponse struct {
	Batch     string              `json:"batch,omitempty"`
	Workorder *int64              `json:"workorder,omitempty"`
	Count     int                 `json:"count"`
	Devices   []testreport.Device `json:"devices"`
}

func setCORSHeaders(response http.ResponseWriter) {
	header := response.Header()
	header.Set("Access-Control-Allow-Origin", "*")
	header.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	header.Set("Access-Control-Allow-Headers", "Content-Type, "+
		"X-Log-Level, X-Trace-Id, X-Log-Client-Hostname")
}

func (srv *Server) handleReport(response http.ResponseWriter, request *http.Request) {
	setCORSHeaders(response)

	switch request.Method {
	case http.MethodOptions:
		response.WriteHeader(http.StatusNoContent)
		return
	case http.MethodGet:
	default:
		writeJSON(response, http.StatusMethodNotAllowed, errorResponse{Error: "only GET is supported"})
		return
	}

	ctx := request.Context()
	token := request.URL.Query().Get("q")
	if token == "" {
		writeJSON(response, http.StatusBadRequest, errorResponse{Error: "missing the 'q' query parameter"})
		return
	}

	query, err := Classify(token)
	if err != nil {
		writeJSON(response, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	switch query.Kind {
	case QueryKindDeviceID:
		device, err := srv.Controller.DeviceReport(ctx, query.DeviceID)
		if err != nil {
			srv.writeError(response, request, err)
			return
		}
		writeJSON(response, http.StatusOK, device)
	case QueryKindDeviceIDList:
		devices, err := srv.Controller.DeviceReports(ctx, query.DeviceIDs)
		if err != nil {
			srv.writeError(response, request, err)
			return
		}
		writeJSON(response, http.StatusOK, deviceListResponse{
			Count:   len(devices),
			Devices: devices,
		})
	case QueryKindBatch:
		result, err := srv.Controller.BatchReport(ctx, query.Batch)
		if err != nil {
			srv.writeError(response, request, err)
			return
		}
		if result.Disambiguation != nil {
			writeJSON(response, http.StatusOK, result.Disambiguation)
			return
		}
		writeJSON(response, http.StatusOK, deviceListResponse{
			Batch:   query.Batch,
			Count:   len(result.Devices),
			Devices: result.Devices,
		})
	case QueryKindWorkorder:
		devices, err := srv.Controller.WorkorderReport(ctx, query.Workorder)
		if err != nil {
			srv.writeError(response, request, err)
			return
		}
		writeJSON(response, http.StatusOK, deviceListResponse{
			Workorder: &query.Workorder,
			Count:     len(devices),
			Devices:   devices,
		})
	default:
		writeJSON(response, http.StatusBadRequest, errorResponse{Error: ErrBadToken{Token: token}.Error()})
	}
}

// writeError maps controller errors onto status classes: not-found is the
// caller's problem; an inference failure or unregistered device type means
// the registry is out of sync with the data, which is ours.
func (srv *Server) writeError(response http.ResponseWriter, request *http.Request, err error) {
	logger.FromCtx(request.Context()).Debugf("request failed: %v", err)

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &controller.ErrNotFound{}):
		status = http.StatusNotFound
	case errors.As(err, &controller.ErrTypeInference{}),
		errors.As(err, &controller.ErrUnknownDeviceType{}):
		status = http.StatusInternalServerError
	}
	writeJSON(response, status, errorResponse{Error: err.Error()})
}

func writeJSON(response http.ResponseWriter, status int, payload any) {
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(status)
	_ = json.NewEncoder(response).Encode(payload)
}
