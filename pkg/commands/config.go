package commands

import (
	"github.com/facebookincubator/go-belt/tool/logger"
)

type Config struct {
	IsQuiet        bool
	Endpoint       string
	RemoteLogLevel logger.Level
}
