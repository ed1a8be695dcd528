package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/ukumbi/arenapay/config"
	"github.com/ukumbi/arenapay/database"
)

// migrateCommands creates the schema for the payment store, tournaments and
// the change-feed trigger.
func migrateCommands(_ *appInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "apply arenapay schema",
		Run: func(cmd *cobra.Command, args []string) {
			cnf, err := config.Fetch()
			if err != nil {
				log.Printf("Error fetching config: %v", err)
				return
			}

			db, err := database.ConnectDB(cnf.DataSource.Dns)
			if err != nil {
				log.Printf("Error connecting to database: %v", err)
				return
			}

			if err := database.Migrate(db); err != nil {
				log.Printf("Error migrating: %v", err)
				return
			}
			fmt.Println("Schema applied!")
		},
	}

	return cmd
}
