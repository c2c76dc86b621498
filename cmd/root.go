// Package cmd holds the rishstay command line: the API server plus a few
// operational helpers.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/dcode-github/rishstay/config"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "rishstay",
		Short:        "RishStay property rental API",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}

	root.AddCommand(
		ServeCmd(),
		IndexesCmd(),
		SeedCmd(),
		BrowseCmd(),
	)
	return root
}

func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openDatabase connects with the environment's settings. The caller closes
// the returned client.
func openDatabase(ctx context.Context) (*config.Config, *mongo.Client, *mongo.Database, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	client, err := config.ConnectDB(ctx, cfg.MongoURI)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, client, client.Database(cfg.DBName), nil
}
