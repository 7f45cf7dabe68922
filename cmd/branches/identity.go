package main

import (
	"encoding/json"
	"fmt"

	"Branches/internal/core/browse"

	"github.com/spf13/cobra"
)

func newDIDDocCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "did-doc <handle|did>",
		Short: "Print the DID document of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.service()
			if err != nil {
				return err
			}

			doc, err := svc.DIDDocument(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("did-doc %q: %s: %w", args[0], browse.Classify(err), err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(doc)
		},
	}
}

func newPDSCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "pds <handle|did>",
		Short: "Print the PDS that serves an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.service()
			if err != nil {
				return err
			}

			ident, err := svc.ServingHost(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("pds %q: %s: %w", args[0], browse.Classify(err), err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "DID:     %s\n", ident.DID)
			if ident.Handle != "" {
				fmt.Fprintf(out, "Handle:  %s\n", ident.Handle)
			}
			fmt.Fprintf(out, "PDS:     %s\n", ident.PDSURL)
			fmt.Fprintf(out, "Method:  %s\n", ident.Method)
			return nil
		},
	}
}
