package main

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/urfave/cli/v3"
)

// versionOutput represents JSON output for version
type versionOutput struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
}

func (a *app) versionCommand() *cli.Command {
	return &cli.Command{
		Name:   CmdNameVersion,
		Usage:  UsageVersion,
		Action: a.version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  FlagJSON,
				Usage: FlagUsageJSON,
			},
		},
	}
}

func (a *app) version(_ context.Context, cmd *cli.Command) error {
	v := getVersionInfo()

	if cmd.Bool(FlagJSON) {
		jsonBytes, err := json.MarshalIndent(v, "", JSONIndent)
		if err != nil {
			return exitError(ErrMsgJSONMarshalFailed, err, ExitCodeError)
		}
		fmt.Fprintln(a.stdout, string(jsonBytes))
		return nil
	}

	fmt.Fprintf(a.stdout, VersionTextTemplate+FmtNewline, v.Version, v.GoVersion)
	return nil
}

// getVersionInfo reads the module version stamped by the Go toolchain.
func getVersionInfo() *versionOutput {
	v := &versionOutput{
		Version:   VersionUnknown,
		GoVersion: runtime.Version(),
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != VersionDevel {
		v.Version = info.Main.Version
	}
	return v
}
