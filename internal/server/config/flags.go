package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/healthsync/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string     HTTP bind address (e.g., ":8080")
//	-l string     log level (debug, info, warn, error)
//	-f string     log format (json, text)
//	-o string     log file path (rotated); stdout when empty
//	-b int        max request body bytes
//	-t duration   store connect timeout (e.g., "10s")
//	-w duration   minimum pull look-back window (e.g., "72h")
//	-s duration   graceful shutdown timeout
//
// Args are filtered down to these flags first so that the config flags
// (-c/-config) and anything else on the command line do not collide.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-l", "-f", "-o", "-b", "-t", "-w", "-s"})

	fs := flag.NewFlagSet("healthsync-server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.ListenAddr, "a", config.ListenAddr, "address and port to run server")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format")
	fs.StringVar(&config.LogFile, "o", config.LogFile, "log file")
	fs.Int64Var(&config.MaxBodyBytes, "b", config.MaxBodyBytes, "max request body bytes")
	fs.DurationVar(&config.ConnectTimeout, "t", config.ConnectTimeout, "store connect timeout")
	fs.DurationVar(&config.PullFloor, "w", config.PullFloor, "minimum pull look-back window")
	fs.DurationVar(&config.ShutdownTimeout, "s", config.ShutdownTimeout, "shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
