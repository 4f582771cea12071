package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/legionus/slogin/internal/logger"
	"github.com/legionus/slogin/internal/login"
)

const (
	name    = "slogin"
	version = "0.1.0"
)

const usage = `Usage: %s [options] [tty]

Begin a session on the system.

Options:
 -h, --help     display this help and exit
 -V, --version  output version information and exit
`

type cliArgs struct {
	tty     string
	help    bool
	version bool
}

func parseArgs(args []string) (cliArgs, error) {
	var c cliArgs
	for _, arg := range args {
		switch arg {
		case "-h", "--help":
			c.help = true
		case "-V", "--version":
			c.version = true
		default:
			if len(arg) > 0 && arg[0] == '-' {
				return c, fmt.Errorf("unknown option %q", arg)
			}
			if c.tty != "" {
				return c, errors.New("too many arguments")
			}
			c.tty = arg
		}
	}
	return c, nil
}

func main() {
	args, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\ntry '%s --help' for more information\n", name, err, name)
		os.Exit(1)
	}
	if args.help {
		fmt.Printf(usage, name)
		os.Exit(0)
	}
	if args.version {
		fmt.Printf("%s %s\n", name, version)
		os.Exit(0)
	}

	logger.Init(name)
	code := login.Run(login.Options{TtyArg: args.tty, Service: name})
	logger.Close()
	os.Exit(code)
}
