package main

import (
	"context"
	"fmt"

	"github.com/itsatony/go-subst"
	"github.com/urfave/cli/v3"
)

func (a *app) storeCommand() *cli.Command {
	return &cli.Command{
		Name:  CmdNameStore,
		Usage: UsageStore,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  FlagDriver,
				Usage: FlagUsageDriver,
			},
			&cli.StringFlag{
				Name:  FlagDSN,
				Usage: FlagUsageDSN,
			},
		},
		Commands: []*cli.Command{
			{
				Name:   CmdNameSave,
				Usage:  UsageStoreSave,
				Action: a.storeSave,
				Flags: []cli.Flag{
					requiredNameFlag(),
					templateFlag(),
					&cli.StringFlag{
						Name:  FlagDescription,
						Usage: FlagUsageDescription,
					},
					&cli.StringFlag{
						Name:  FlagCreatedBy,
						Usage: FlagUsageCreatedBy,
					},
				},
			},
			{
				Name:   CmdNameList,
				Usage:  UsageStoreList,
				Action: a.storeList,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  FlagPrefix,
						Usage: FlagUsagePrefix,
					},
				},
			},
			{
				Name:   CmdNameRender,
				Usage:  UsageStoreRender,
				Action: a.storeRender,
				Flags:  append(paramFlags(), requiredNameFlag()),
			},
		},
	}
}

func requiredNameFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     FlagName,
		Aliases:  []string{FlagNameShort},
		Usage:    FlagUsageName,
		Required: true,
	}
}

func (a *app) storeSave(ctx context.Context, cmd *cli.Command) error {
	source, err := readInput(cmd.String(FlagTemplate), a.stdin)
	if err != nil {
		return exitError(ErrMsgReadFileFailed, err, ExitCodeInputError)
	}

	engine, cleanup, err := newEngine(cmd, true)
	if err != nil {
		return err
	}
	defer cleanup()

	stored := &subst.StoredTemplate{
		Name:        cmd.String(FlagName),
		Source:      string(source),
		Description: cmd.String(FlagDescription),
		CreatedBy:   cmd.String(FlagCreatedBy),
	}
	if err := engine.SaveTemplate(ctx, stored); err != nil {
		if subst.IsDuplicatePlaceholder(err) {
			return evalExitError(ErrMsgParseTemplateFailed, err)
		}
		return exitError(ErrMsgStorageFailed, err, ExitCodeError)
	}

	fmt.Fprintf(a.stdout, StoreSavedFormat+FmtNewline, stored.Name, stored.Version)
	return nil
}

func (a *app) storeList(ctx context.Context, cmd *cli.Command) error {
	engine, cleanup, err := newEngine(cmd, true)
	if err != nil {
		return err
	}
	defer cleanup()

	templates, err := engine.Storage().List(ctx, &subst.TemplateQuery{NamePrefix: cmd.String(FlagPrefix)})
	if err != nil {
		return exitError(ErrMsgStorageFailed, err, ExitCodeError)
	}

	for _, t := range templates {
		fmt.Fprintf(a.stdout, StoreListFormat+FmtNewline, t.Name, t.Version, t.UpdatedAt.UTC().Format(StoreTimeLayout))
	}
	return nil
}

func (a *app) storeRender(ctx context.Context, cmd *cli.Command) error {
	params, err := loadParams(cmd.StringSlice(FlagParam), cmd.String(FlagParamsFile))
	if err != nil {
		return err
	}

	engine, cleanup, err := newEngine(cmd, true)
	if err != nil {
		return err
	}
	defer cleanup()

	// The stored version wins over any catalog entry of the same name.
	name := cmd.String(FlagName)
	if _, err := engine.LoadTemplate(ctx, name); err != nil {
		return evalExitError(ErrMsgExecuteFailed, err)
	}
	result, err := engine.ExecuteTemplate(ctx, name, params)
	if err != nil {
		return evalExitError(ErrMsgExecuteFailed, err)
	}

	if _, err := fmt.Fprint(a.stdout, result); err != nil {
		return exitError(ErrMsgWriteOutputFailed, err, ExitCodeError)
	}
	return nil
}
