package search

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/facebookincubator/go-belt/beltctx"

	"github.com/sensorfab/testreport-sdk/pkg/commands"
	"github.com/sensorfab/testreport-sdk/pkg/httputils/clienthelpers"
	"github.com/sensorfab/testreport-sdk/pkg/server/httpsrv"
	"github.com/sensorfab/testreport-sdk/pkg/testreport"
)

// Command is the implementation of `commands.Command`.
type Command struct {
	ftrsEndpoint *string
}

// Usage prints the syntax of arguments for this command
func (cmd Command) Usage() string {
	return "<search token>"
}

// Description explains what this verb commands to do
func (cmd Command) Description() string {
	return "look a device, batch or workorder up on a running ftrsd and print the report"
}

// SetupFlagSet is called to allow the command implementation
// to setup which option flags it has.
func (cmd *Command) SetupFlagSet(flag *flag.FlagSet) {
	cmd.ftrsEndpoint = flag.String("ftrs-endpoint", "http://localhost:17745", "")
}

// listResponse is the shape of a multi-device or ambiguous-batch answer.
// A single-device answer has neither "devices" nor "needsDisambiguation"
// and is decoded as a plain Device instead.
type listResponse struct {
	Batch     string              `json:"batch"`
	Workorder *int64              `json:"workorder"`
	Count     int                 `json:"count"`
	Devices   []testreport.Device `json:"devices"`

	NeedsDisambiguation bool                   `json:"needsDisambiguation"`
	Workorders          []testreport.Workorder `json:"workorders"`
}

// Execute is the main function here. It is responsible to
// start the execution of the command.
//
// `args` are the arguments left unused by verb itself and options.
func (cmd Command) Execute(ctx context.Context, cfg commands.Config, args []string) error {
	if len(args) != 1 {
		return commands.ErrArgs{Err: fmt.Errorf("error: expected exactly one search token")}
	}
	token := args[0]

	requestURL := fmt.Sprintf("%s%s?q=%s", *cmd.ftrsEndpoint, httpsrv.ReportPath, url.QueryEscape(token))
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("unable to construct the request: %w", err)
	}
	request.Header = clienthelpers.HTTPHeaders(beltctx.Belt(ctx), cfg.RemoteLogLevel)

	httpResponse, err := http.DefaultClient.Do(request)
	if err != nil {
		return fmt.Errorf("unable to perform the request: %w", err)
	}
	defer httpResponse.Body.Close()

	body, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return fmt.Errorf("unable to read the response: %w", err)
	}

	if httpResponse.StatusCode != http.StatusOK {
		var errBody struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(body, &errBody); err == nil && errBody.Error != "" {
			return fmt.Errorf("server answered %d: %s", httpResponse.StatusCode, errBody.Error)
		}
		return fmt.Errorf("server answered %d", httpResponse.StatusCode)
	}

	if cfg.IsQuiet {
		fmt.Printf("%s\n", body)
		return nil
	}

	var parsed listResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("unable to parse the response: %w", err)
	}
	if parsed.NeedsDisambiguation {
		printDisambiguation(parsed)
		return nil
	}
	if parsed.Devices != nil {
		printDeviceList(parsed)
		return nil
	}

	var device testreport.Device
	if err := json.Unmarshal(body, &device); err != nil {
		return fmt.Errorf("unable to parse the response: %w", err)
	}
	printDevice(device)
	return nil
}
