package main

import (
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/recdex/internal/config"
	"github.com/kailas-cloud/recdex/internal/version"
)

func newRootCmd() *cobra.Command {
	var env string

	root := &cobra.Command{
		Use:          "recdex",
		Short:        "Record indexing and search over Solr",
		Version:      version.String(),
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&env, "env", config.GetEnv(), "configuration environment (local, dev, prod)")

	root.AddCommand(
		newServeCmd(&env),
		newSearchCmd(&env),
		newDeleteCmd(&env),
		newCommitCmd(&env),
		newTermsCmd(&env),
	)
	return root
}
