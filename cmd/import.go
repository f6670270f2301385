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
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// importCommands runs a backfill synchronously from the terminal, bypassing
// the queue. Useful for one-off historical loads and for dry-running a file
// against a staging database.
func importCommands(app *appInstance) *cobra.Command {
	var filePath string
	var clients bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "import a historical expense or client file",
		Run: func(cmd *cobra.Command, args []string) {
			file, err := os.Open(filePath)
			if err != nil {
				log.Fatalf("Error opening file: %v", err)
			}
			defer file.Close()

			ctx := context.Background()

			if clients {
				summary, err := app.centavo.ImportClients(ctx, file)
				if err != nil {
					log.Fatalf("Client import failed: %v", err)
				}
				printJSON(summary)
				return
			}

			run, err := app.centavo.ImportExpenses(ctx, filepath.Base(filePath), file)
			if err != nil {
				log.Fatalf("Import failed: %v", err)
			}
			printJSON(run)
		},
	}

	cmd.Flags().StringVar(&filePath, "file", "", "path to the delimited file to import")
	cmd.Flags().BoolVar(&clients, "clients", false, "treat the file as a client list instead of expenses")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func printJSON(v interface{}) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(out))
}
