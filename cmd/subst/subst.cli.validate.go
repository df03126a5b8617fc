package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/itsatony/go-subst"
	"github.com/urfave/cli/v3"
)

// placeholderOutput is the JSON form of one placeholder
type placeholderOutput struct {
	Name  string `json:"name"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

func templateFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     FlagTemplate,
		Aliases:  []string{FlagTemplateShort},
		Usage:    FlagUsageTemplate,
		Required: true,
	}
}

func (a *app) validateCommand() *cli.Command {
	return &cli.Command{
		Name:   CmdNameValidate,
		Usage:  UsageValidate,
		Action: a.validate,
		Flags:  []cli.Flag{templateFlag()},
	}
}

func (a *app) placeholdersCommand() *cli.Command {
	return &cli.Command{
		Name:   CmdNamePlaceholders,
		Usage:  UsagePlaceholders,
		Action: a.placeholders,
		Flags: []cli.Flag{
			templateFlag(),
			&cli.BoolFlag{
				Name:  FlagJSON,
				Usage: FlagUsageJSON,
			},
		},
	}
}

// parseTemplateFlag reads and parses the --template input.
func (a *app) parseTemplateFlag(cmd *cli.Command) (*subst.Template, error) {
	source, err := readInput(cmd.String(FlagTemplate), a.stdin)
	if err != nil {
		return nil, exitError(ErrMsgReadFileFailed, err, ExitCodeInputError)
	}

	engine, cleanup, err := newEngine(cmd, false)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	tmpl, err := engine.Parse(string(source))
	if err != nil {
		return nil, evalExitError(ErrMsgParseTemplateFailed, err)
	}
	return tmpl, nil
}

func (a *app) validate(_ context.Context, cmd *cli.Command) error {
	tmpl, err := a.parseTemplateFlag(cmd)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, ValidationTextSuccess+FmtNewline, len(tmpl.Placeholders()))
	return nil
}

func (a *app) placeholders(_ context.Context, cmd *cli.Command) error {
	tmpl, err := a.parseTemplateFlag(cmd)
	if err != nil {
		return err
	}

	if cmd.Bool(FlagJSON) {
		out := make([]placeholderOutput, 0, len(tmpl.Placeholders()))
		for _, ph := range tmpl.Placeholders() {
			out = append(out, placeholderOutput{Name: ph.Name, Start: ph.Start, End: ph.End})
		}
		jsonBytes, err := json.MarshalIndent(out, "", JSONIndent)
		if err != nil {
			return exitError(ErrMsgJSONMarshalFailed, err, ExitCodeError)
		}
		fmt.Fprintln(a.stdout, string(jsonBytes))
		return nil
	}

	for _, ph := range tmpl.Placeholders() {
		fmt.Fprintf(a.stdout, PlaceholderTextFormat+FmtNewline, ph.Name, ph.Start, ph.End)
	}
	return nil
}
