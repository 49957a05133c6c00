package main

import (
	"github.com/aligator/fat12"
	"github.com/aligator/fat12/internal/config"
	"github.com/aligator/fat12/internal/render"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func (a *app) lsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ls IMAGE",
		Short: "List the root directory",
		Args:  exactArgs(1),
		RunE:  a.runLs,
	}
	cmd.Flags().String(config.FlagFormat, config.FormatText, "output format (text, json, yaml)")
	return cmd
}

func (a *app) runLs(cmd *cobra.Command, args []string) error {
	volume, closeVolume, err := a.openVolume(args[0])
	if err != nil {
		return err
	}
	defer closeVolume()

	infos, err := afero.ReadDir(fat12.NewFs(volume), "/")
	if err != nil {
		return err
	}

	entries := make([]render.Entry, len(infos))
	for i, info := range infos {
		entries[i] = render.NewEntry(info)
	}
	return render.Entries(cmd.OutOrStdout(), a.config.Format, entries)
}
