/*
Copyright 2025 Centavo Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"database/sql"
	"log"

	"github.com/spf13/cobra"

	"github.com/centavohq/centavo/config"
	"github.com/centavohq/centavo/database"
)

// migrateCommands applies the schema. Every statement is idempotent, so the
// command is safe to run repeatedly.
func migrateCommands(_ *appInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "create or update the centavo schema",
		Run: func(cmd *cobra.Command, args []string) {
			cnf, err := config.Fetch()
			if err != nil {
				log.Printf("Error fetching config: %v", err)
				return
			}

			db, err := sql.Open("postgres", cnf.DataSource.Dns)
			if err != nil {
				log.Printf("Error connecting to database: %v", err)
				return
			}
			defer db.Close()

			if err := database.Migrate(db); err != nil {
				log.Printf("Error applying schema: %v", err)
				return
			}

			log.Println("Schema is up to date ✅")
		},
	}

	return cmd
}
