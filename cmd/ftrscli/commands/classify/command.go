package classify

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/sensorfab/testreport-sdk/pkg/commands"
	"github.com/sensorfab/testreport-sdk/pkg/server/httpsrv"
)

// Command is the implementation of `commands.Command`.
type Command struct{}

// Usage prints the syntax of arguments for this command
func (cmd Command) Usage() string {
	return "<search token>"
}

// Description explains what this verb commands to do
func (cmd Command) Description() string {
	return "classify a search token offline, without querying a server"
}

// SetupFlagSet is called to allow the command implementation
// to setup which option flags it has.
func (cmd *Command) SetupFlagSet(flag *flag.FlagSet) {}

// Execute is the main function here. It is responsible to
// start the execution of the command.
//
// `args` are the arguments left unused by verb itself and options.
func (cmd Command) Execute(ctx context.Context, cfg commands.Config, args []string) error {
	if len(args) != 1 {
		return commands.ErrArgs{Err: fmt.Errorf("error: expected exactly one search token")}
	}

	query, err := httpsrv.Classify(args[0])
	if err != nil {
		return err
	}

	switch query.Kind {
	case httpsrv.QueryKindWorkorder:
		fmt.Printf("workorder %d\n", query.Workorder)
	case httpsrv.QueryKindBatch:
		fmt.Printf("batch %s\n", query.Batch)
	case httpsrv.QueryKindDeviceID:
		fmt.Printf("device id %s\n", query.DeviceID)
	case httpsrv.QueryKindDeviceIDList:
		fmt.Printf("device ids %s\n", strings.Join(query.DeviceIDs, ", "))
	}
	return nil
}
