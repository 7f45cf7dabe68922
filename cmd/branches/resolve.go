package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	browseapi "Branches/internal/api/handlers/browse"
	"Branches/internal/core/browse"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// resolveRow holds the result of one pass.
type resolveRow struct {
	uri     string
	outcome *browse.Outcome
	err     error
}

func newResolveCmd(c *cli) *cobra.Command {
	var (
		format      string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "resolve <at://...> [at://...] ...",
		Short: "Resolve one or more at:// addresses and read what they point at",
		Long: `Resolve runs one independent pass per address: the authority is resolved
to its PDS and the repository, collection or record is read from there.

Several addresses are resolved concurrently and shown as a table:

  branches resolve at://bsky.app at://did:plc:z72i7hdynmk6r22z27h6tvur/app.bsky.actor.profile/self`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "json" {
				return fmt.Errorf("unknown format %q: want text or json", format)
			}

			svc, err := c.service()
			if err != nil {
				return err
			}

			rows := resolveAll(cmd.Context(), svc, args, concurrency)

			if format == "json" {
				return printResolveJSON(cmd.OutOrStdout(), rows)
			}
			return printResolveText(cmd.OutOrStdout(), rows)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "Maximum passes in flight")

	return cmd
}

// resolveAll runs one pass per address and returns rows in input order.
// A failed pass is recorded in its row; it never stops the others.
func resolveAll(ctx context.Context, svc browse.Service, uris []string, concurrency int) []resolveRow {
	rows := make([]resolveRow, len(uris))
	var g errgroup.Group
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}

	for i, uri := range uris {
		g.Go(func() error {
			outcome, err := svc.BrowseRaw(ctx, uri)
			rows[i] = resolveRow{uri: uri, outcome: outcome, err: err}
			return nil
		})
	}
	_ = g.Wait()

	return rows
}

type jsonRow struct {
	URI     string                     `json:"uri"`
	Outcome *browseapi.ResolveResponse `json:"outcome,omitempty"`
	Error   string                     `json:"error,omitempty"`
	Message string                     `json:"message,omitempty"`
}

func printResolveJSON(out io.Writer, rows []resolveRow) error {
	results := make([]jsonRow, len(rows))
	for i, r := range rows {
		results[i] = jsonRow{URI: r.uri}
		if r.err != nil {
			results[i].Error = string(browse.Classify(r.err))
			results[i].Message = r.err.Error()
			continue
		}
		resp := browseapi.NewResolveResponse(r.outcome)
		results[i].Outcome = &resp
	}

	// Single result: unwrap from array for convenience.
	var v any = results
	if len(results) == 1 {
		v = results[0]
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printResolveText(out io.Writer, rows []resolveRow) error {
	if len(rows) == 1 {
		r := rows[0]
		if r.err != nil {
			return fmt.Errorf("resolve %q: %s: %w", r.uri, browse.Classify(r.err), r.err)
		}
		return printOutcome(out, r.outcome)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "URI\tKIND\tDID\tPDS\tSUMMARY\tERROR")
	for _, r := range rows {
		if r.err != nil {
			fmt.Fprintf(w, "%s\t\t\t\t\t%s\n", r.uri, browse.Classify(r.err))
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
			r.uri, r.outcome.Kind, r.outcome.Identity.DID, r.outcome.Identity.PDSURL, summarize(r.outcome))
	}
	return w.Flush()
}

// summarize describes an outcome in a few words
func summarize(o *browse.Outcome) string {
	switch o.Kind {
	case browse.OutcomeRepo:
		return fmt.Sprintf("%d collections", len(o.Repo.Collections))
	case browse.OutcomeRecords:
		if o.Records.Cursor != "" {
			return fmt.Sprintf("%d records (more)", len(o.Records.Records))
		}
		return fmt.Sprintf("%d records", len(o.Records.Records))
	case browse.OutcomeRecord:
		return o.Record.CID
	default:
		return ""
	}
}

func printOutcome(out io.Writer, o *browse.Outcome) error {
	fmt.Fprintf(out, "URI:     %s\n", o.Address)
	fmt.Fprintf(out, "DID:     %s\n", o.Identity.DID)
	if o.Identity.Handle != "" {
		fmt.Fprintf(out, "Handle:  %s\n", o.Identity.Handle)
	}
	fmt.Fprintf(out, "PDS:     %s\n", o.Identity.PDSURL)

	switch o.Kind {
	case browse.OutcomeRepo:
		fmt.Fprintf(out, "Handle valid: %t\n", o.Repo.HandleIsCorrect)
		fmt.Fprintln(out, "Collections:")
		for _, col := range o.Repo.Collections {
			fmt.Fprintf(out, "  %s\n", col)
		}
	case browse.OutcomeRecords:
		fmt.Fprintf(out, "Records: %d\n", len(o.Records.Records))
		for _, rec := range o.Records.Records {
			fmt.Fprintf(out, "  %s\n", rec.URI)
		}
		if o.Records.Cursor != "" {
			fmt.Fprintf(out, "Cursor:  %s\n", o.Records.Cursor)
		}
	case browse.OutcomeRecord:
		if o.Record.CID != "" {
			fmt.Fprintf(out, "CID:     %s\n", o.Record.CID)
		}
		fmt.Fprintln(out, "Value:")
		return writeIndented(out, o.Record.Value)
	}
	return nil
}

func writeIndented(out io.Writer, raw json.RawMessage) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		_, werr := fmt.Fprintf(out, "%s\n", raw)
		return werr
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
