package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	exitCode := run(context.Background(), os.Args, os.Stdin, os.Stdout, os.Stderr)
	os.Exit(exitCode)
}

// app carries the I/O streams the command actions read and write.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// run is the main entry point for the CLI, separated for testing.
// args includes the program name, as in os.Args.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	root := a.command()

	err := root.Run(ctx, args)
	if err == nil {
		return ExitCodeSuccess
	}

	fmt.Fprintln(stderr, err.Error())

	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	// Anything the actions did not classify came from flag parsing.
	return ExitCodeUsageError
}

// command builds the root command tree.
func (a *app) command() *cli.Command {
	return &cli.Command{
		Name:        CLIName,
		Usage:       CLIDescription,
		HideVersion: true,
		Reader:      a.stdin,
		Writer:      a.stdout,
		ErrWriter:   a.stderr,
		// Exit codes are returned from run, never via os.Exit.
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  FlagConfig,
				Usage: FlagUsageConfig,
			},
		},
		Commands: []*cli.Command{
			a.renderCommand(),
			a.validateCommand(),
			a.placeholdersCommand(),
			a.storeCommand(),
			a.versionCommand(),
		},
	}
}

// exitError wraps err with msg and the exit code run should return.
func exitError(msg string, err error, code int) error {
	if err == nil {
		return cli.Exit(msg, code)
	}
	return cli.Exit(fmt.Sprintf(FmtErrorWithCause, msg, err), code)
}
