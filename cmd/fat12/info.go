package main

import (
	"github.com/aligator/fat12/internal/config"
	"github.com/aligator/fat12/internal/render"
	"github.com/spf13/cobra"
)

func (a *app) infoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info IMAGE",
		Short: "Show the boot sector and layout of a volume",
		Args:  exactArgs(1),
		RunE:  a.runInfo,
	}
	cmd.Flags().String(config.FlagFormat, config.FormatText, "output format (text, json, yaml)")
	return cmd
}

func (a *app) runInfo(cmd *cobra.Command, args []string) error {
	volume, closeVolume, err := a.openVolume(args[0])
	if err != nil {
		return err
	}
	defer closeVolume()

	return render.VolumeInfo(cmd.OutOrStdout(), a.config.Format, render.NewInfo(volume))
}
