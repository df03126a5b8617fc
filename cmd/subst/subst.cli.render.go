package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

func (a *app) renderCommand() *cli.Command {
	return &cli.Command{
		Name:   CmdNameRender,
		Usage:  UsageRender,
		Action: a.render,
		Flags: append(paramFlags(),
			&cli.StringFlag{
				Name:    FlagTemplate,
				Aliases: []string{FlagTemplateShort},
				Usage:   FlagUsageTemplate,
			},
			&cli.StringFlag{
				Name:    FlagName,
				Aliases: []string{FlagNameShort},
				Usage:   FlagUsageName,
			},
			&cli.StringFlag{
				Name:  FlagCatalog,
				Usage: FlagUsageCatalog,
			},
			&cli.StringFlag{
				Name:    FlagOutput,
				Aliases: []string{FlagOutputShort},
				Value:   FlagDefaultOutput,
				Usage:   FlagUsageOutput,
			},
		),
	}
}

// paramFlags are shared by every command that evaluates a template.
func paramFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    FlagParam,
			Aliases: []string{FlagParamShort},
			Usage:   FlagUsageParam,
		},
		&cli.StringFlag{
			Name:    FlagParamsFile,
			Aliases: []string{FlagParamsFileShort},
			Usage:   FlagUsageParamsFile,
		},
	}
}

// render evaluates either an inline template (--template) or a catalog
// entry (--name).
func (a *app) render(ctx context.Context, cmd *cli.Command) error {
	templatePath := cmd.String(FlagTemplate)
	name := cmd.String(FlagName)
	switch {
	case templatePath == "" && name == "":
		return exitError(ErrMsgMissingTemplate, nil, ExitCodeUsageError)
	case templatePath != "" && name != "":
		return exitError(ErrMsgTemplateOrName, nil, ExitCodeUsageError)
	}

	params, err := loadParams(cmd.StringSlice(FlagParam), cmd.String(FlagParamsFile))
	if err != nil {
		return err
	}

	engine, cleanup, err := newEngine(cmd, false)
	if err != nil {
		return err
	}
	defer cleanup()

	var result string
	if name != "" {
		result, err = engine.ExecuteTemplate(ctx, name, params)
	} else {
		source, readErr := readInput(templatePath, a.stdin)
		if readErr != nil {
			return exitError(ErrMsgReadFileFailed, readErr, ExitCodeInputError)
		}
		result, err = engine.Execute(ctx, string(source), params)
	}
	if err != nil {
		return evalExitError(ErrMsgExecuteFailed, err)
	}

	if err := writeOutput(cmd.String(FlagOutput), []byte(result), a.stdout); err != nil {
		return exitError(ErrMsgWriteOutputFailed, err, ExitCodeError)
	}
	return nil
}
