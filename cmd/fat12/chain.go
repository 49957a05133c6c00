package main

import (
	"fmt"

	"github.com/aligator/fat12"
	"github.com/aligator/fat12/internal/config"
	"github.com/aligator/fat12/internal/render"
	"github.com/spf13/cobra"
)

func (a *app) chainCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chain IMAGE NAME",
		Short: "Show the clusters a file is stored in",
		Long: `Show the cluster chain of a file as stored in the FAT.
A chain which cannot be followed to its end is printed up to the
failing cluster and the command fails.`,
		Args: exactArgs(2),
		RunE: a.runChain,
	}
	cmd.Flags().String(config.FlagFormat, config.FormatText, "output format (text, json, yaml)")
	return cmd
}

func (a *app) runChain(cmd *cobra.Command, args []string) error {
	imagePath, name := args[0], args[1]

	volume, closeVolume, err := a.openVolume(imagePath)
	if err != nil {
		return err
	}
	defer closeVolume()

	raw, err := lookupName(name)
	if err != nil {
		return err
	}

	entry, ok := volume.Find(raw)
	if !ok {
		return fmt.Errorf("%s: %w", name, fat12.ErrNotFound)
	}

	clusters, chainErr := volume.Chain(entry)
	chain := render.Chain{Name: name, Clusters: clusters}
	if chainErr != nil {
		chain.Error = chainErr.Error()
	}

	if err := render.ClusterChain(cmd.OutOrStdout(), a.config.Format, chain); err != nil {
		return err
	}
	return chainErr
}
