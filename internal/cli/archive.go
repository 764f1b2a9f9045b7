package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/graphbridge/pkg/types"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.jsonl>",
		Short: "Write every item in the store to a JSON lines file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.archive(cmd, args[0], func(ar types.Archiver) (int, error) {
				return ar.Export(cmd.Context(), args[0])
			}, "exported")
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.jsonl>",
		Short: "Load items from a JSON lines file written by export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.archive(cmd, args[0], func(ar types.Archiver) (int, error) {
				return ar.Import(cmd.Context(), args[0])
			}, "imported")
		},
	}
}

func (a *app) archive(cmd *cobra.Command, path string, op func(types.Archiver) (int, error), verb string) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Detach()

	ar, ok := store.(types.Archiver)
	if !ok {
		return userError("backend %s cannot %s items", a.settings.Backend, verb[:len(verb)-2])
	}
	n, err := op(ar)
	if err != nil {
		return sysError("%s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d items\n", verb, n)
	return nil
}
