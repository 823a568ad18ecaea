// Package commands defines the interface between the CLI dispatcher and
// its verbs.
package commands

import (
	"context"
	"flag"
)

// Command is the implementation of one CLI verb.
type Command interface {
	// Usage prints the syntax of arguments for this command
	Usage() string

	// Description explains what this verb commands to do
	Description() string

	// SetupFlagSet is called to allow the command implementation
	// to setup which option flags it has.
	SetupFlagSet(flag *flag.FlagSet)

	// Execute is the main function here. It is responsible to
	// start the execution of the command.
	//
	// `args` are the arguments left unused by verb itself and options.
	Execute(ctx context.Context, cfg Config, args []string) error
}
