package main

import (
	"fmt"

	"github.com/aligator/fat12/internal/config"
	"github.com/aligator/fat12/internal/render"
	"github.com/spf13/cobra"
)

func (a *app) catCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cat IMAGE NAME",
		Short: "Print a file of the root directory",
		Long: `Print the content of a file of the root directory. Bytes which are
not printable ASCII are shown as <xx> unless --raw is given.

NAME is either a name like README.TXT or, if exactly 11 characters long,
the raw space padded name as stored on disk ("README  TXT").`,
		Args: exactArgs(2),
		RunE: a.runCat,
	}
	cmd.Flags().Bool(config.FlagRaw, false, "write the content unescaped")
	return cmd
}

func (a *app) runCat(cmd *cobra.Command, args []string) error {
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

	content, err := volume.Extract(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	a.log.Debugw("extracted file", "name", name, "bytes", len(content))

	out := cmd.OutOrStdout()
	if a.config.Raw {
		_, err = out.Write(content)
		return err
	}

	if err := render.Escape(out, content); err != nil {
		return err
	}
	_, err = fmt.Fprintln(out)
	return err
}
