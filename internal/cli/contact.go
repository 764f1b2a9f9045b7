package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/graphbridge/internal/resource"
	"github.com/mesh-intelligence/graphbridge/pkg/types"
)

// contactFlags are shared by the contact subcommands.
type contactFlags struct {
	folder string
	file   string
	token  string
}

func newContactCmd(a *app) *cobra.Command {
	var f contactFlags
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Read and write contacts in the property store",
	}
	cmd.PersistentFlags().StringVar(&f.folder, "folder", "", "folder id or name (default: contacts)")

	get := &cobra.Command{
		Use:   "get <itemid>",
		Short: "Print one contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.dispatch(cmd, http.MethodGet, &resource.Request{FolderID: f.folder, ItemID: args[0]})
		},
	}

	del := &cobra.Command{
		Use:   "delete <itemid>",
		Short: "Delete one contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.dispatch(cmd, http.MethodDelete, &resource.Request{ItemID: args[0]})
		},
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a contact from a JSON document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readDocument(cmd, f.file)
			if err != nil {
				return err
			}
			return a.dispatch(cmd, http.MethodPost, &resource.Request{FolderID: f.folder, Body: body})
		},
	}

	update := &cobra.Command{
		Use:   "update <itemid>",
		Short: "Apply a JSON document to a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readDocument(cmd, f.file)
			if err != nil {
				return err
			}
			return a.dispatch(cmd, http.MethodPatch, &resource.Request{FolderID: f.folder, ItemID: args[0], Body: body})
		},
	}
	for _, c := range []*cobra.Command{create, update} {
		c.Flags().StringVarP(&f.file, "file", "f", "-", "JSON document to read, - for stdin")
	}

	delta := &cobra.Command{
		Use:   "delta",
		Short: "List contacts changed since a delta token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.dispatch(cmd, http.MethodGet, &resource.Request{
				FolderID:   f.folder,
				ItemID:     resource.DeltaItemID,
				DeltaToken: f.token,
				Path:       "contacts/delta",
			})
		},
	}
	delta.Flags().StringVar(&f.token, "token", "", "delta token from a previous run")

	cmd.AddCommand(get, del, create, update, delta)
	return cmd
}

// dispatch runs one controller request against a freshly attached store.
func (a *app) dispatch(cmd *cobra.Command, method string, req *resource.Request) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Detach()

	c, err := a.contactController(store)
	if err != nil {
		return err
	}
	sink := &cliSink{out: cmd.OutOrStdout(), jsonMode: a.flags.jsonMode}
	if err := c.Handle(cmd.Context(), method, req, sink); err != nil {
		return sysError("write output: %w", err)
	}
	return sink.err
}

// readDocument decodes a JSON object from path, or stdin for "-".
func readDocument(cmd *cobra.Command, path string) (types.Document, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" && path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, userError("open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	var doc types.Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, userError("decode document: %w", err)
	}
	if doc == nil {
		doc = types.Document{}
	}
	return doc, nil
}
