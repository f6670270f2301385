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
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/centavohq/centavo"
	"github.com/centavohq/centavo/config"
	"github.com/centavohq/centavo/database"
	"github.com/centavohq/centavo/internal/notification"
)

// CLI encapsulates the root cobra command.
type CLI struct {
	cmd *cobra.Command
}

// appInstance holds the initialized service and its configuration for the
// lifetime of one command execution.
type appInstance struct {
	centavo *centavo.Centavo
	cnf     *config.Configuration
}

func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads the configuration and builds the service before any
// subcommand executes.
func preRun(app *appInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig("centavo.json")
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		service, err := setupService(cnf)
		if err != nil {
			notification.NotifyError(err)
			log.Fatal(err)
		}

		app.centavo = service
		app.cnf = cnf

		return nil
	}
}

func setupService(cfg *config.Configuration) (*centavo.Centavo, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("error getting datasource: %v", err)
	}

	service, err := centavo.NewCentavo(db)
	if err != nil {
		return nil, fmt.Errorf("error creating centavo: %v", err)
	}
	return service, nil
}

// NewCLI wires the root command and its subcommands.
func NewCLI() *CLI {
	var configFile string
	app := &appInstance{}

	var rootCmd = &cobra.Command{
		Use:   "centavo",
		Short: "Historical expense import and reconciliation",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./centavo.json", "Configuration file for centavo")

	rootCmd.PersistentPreRunE = preRun(app)

	rootCmd.AddCommand(serverCommands(app))
	rootCmd.AddCommand(workerCommands(app))
	rootCmd.AddCommand(importCommands(app))
	rootCmd.AddCommand(migrateCommands(app))

	return &CLI{cmd: rootCmd}
}

func (w CLI) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
