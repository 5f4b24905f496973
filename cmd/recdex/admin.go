package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	domidx "github.com/kailas-cloud/recdex/internal/domain/index"
	"github.com/kailas-cloud/recdex/internal/domain/search/request"
	"github.com/kailas-cloud/recdex/internal/repository/searchterm"
)

func newSearchCmd(env *string) *cobra.Command {
	var (
		types []string
		terms []string
		rows  int
		start int
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Run a search and print the result page as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reqTerms, err := parseTerms(terms)
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), *env)
			if err != nil {
				return err
			}
			defer a.close()
			ctx := a.context(cmd.Context())

			req := request.New(types, strconv.Itoa(rows), strconv.Itoa(start), reqTerms)
			page, err := a.search.Search(ctx, req)
			if err != nil {
				return err
			}

			out := struct {
				Start   int             `json:"start"`
				Total   int64           `json:"total"`
				Records json.RawMessage `json:"records"`
			}{Start: page.Start(), Total: page.Total()}
			records, err := json.Marshal(page.Records())
			if err != nil {
				return fmt.Errorf("encode records: %w", err)
			}
			out.Records = records

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out) //nolint:wrapcheck // terminal output
		},
	}
	cmd.Flags().StringSliceVar(&types, "type", nil, "record type to search (repeatable)")
	cmd.Flags().StringArrayVar(&terms, "term", nil, "search term as name=value (repeatable)")
	cmd.Flags().IntVar(&rows, "rows", request.DefaultRows, "page size")
	cmd.Flags().IntVar(&start, "start", 1, "1-based position of the first result")
	return cmd
}

func parseTerms(raw []string) ([]request.Term, error) {
	out := make([]request.Term, 0, len(raw))
	for _, t := range raw {
		name, value, ok := strings.Cut(t, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --term %q: want name=value", t)
		}
		out = append(out, request.NewTerm(name, value))
	}
	return out, nil
}

func newDeleteCmd(env *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete TYPE ID",
		Short: "Delete the document of one record and commit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *env)
			if err != nil {
				return err
			}
			defer a.close()
			ctx := a.context(cmd.Context())

			id := domidx.NewIdentity(args[0], args[1])
			if err := a.index.Delete(ctx, id); err != nil {
				return err
			}
			a.logger.Info("Record deleted", zap.String("id", id.CompositeID()))
			return nil
		},
	}
}

func newCommitCmd(env *string) *cobra.Command {
	return &cobra.Command{
		Use:   "commit",
		Short: "Make pending index writes visible",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), *env)
			if err != nil {
				return err
			}
			defer a.close()
			ctx := a.context(cmd.Context())
			return a.index.Commit(ctx)
		},
	}
}

func newTermsCmd(env *string) *cobra.Command {
	terms := &cobra.Command{
		Use:   "terms",
		Short: "Manage the search term catalog",
	}
	terms.AddCommand(&cobra.Command{
		Use:   "import FILE",
		Short: "Load a YAML term catalog into Redis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := searchterm.LoadFile(args[0])
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), *env)
			if err != nil {
				return err
			}
			defer a.close()
			ctx := a.context(cmd.Context())

			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			n, err := searchterm.NewRedis(store, a.cfg.Terms.Redis.KeyPrefix).Import(ctx, f)
			if err != nil {
				return err
			}
			a.logger.Info("Term catalog imported", zap.String("file", args[0]), zap.Int("entries", n))
			return nil
		},
	})
	return terms
}
