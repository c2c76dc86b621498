package cmd

import (
	"log"

	"github.com/dcode-github/rishstay/config"
	"github.com/dcode-github/rishstay/store/mongostore"
	"github.com/spf13/cobra"
)

func IndexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create the MongoDB indexes and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, db, err := openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer config.CloseDBConnection(client)

			if err := mongostore.New(db).EnsureIndexes(cmd.Context()); err != nil {
				return err
			}
			log.Println("Indexes are up to date")
			return nil
		},
	}
}
