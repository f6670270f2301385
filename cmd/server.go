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
	"log"
	"net/http"

	"github.com/caddyserver/certmagic"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/centavohq/centavo/api"
	"github.com/centavohq/centavo/config"
)

// serveTLS starts an HTTPS server with certificates managed by CertMagic.
// Without a configured domain it falls back to localhost.
func serveTLS(r *gin.Engine, conf config.ServerConfig) error {
	certmagic.DefaultACME.Agreed = true
	certmagic.DefaultACME.Email = conf.Email
	cfg := certmagic.NewDefault()
	cfg.Storage = &certmagic.FileStorage{Path: "path/to/certmagic/storage"}

	domains := []string{conf.Domain}
	if conf.Domain == "" {
		log.Println("No domain specified, defaulting to localhost")
		domains = []string{"localhost"}
	}

	if err := cfg.ManageSync(context.Background(), domains); err != nil {
		return err
	}

	server := &http.Server{
		Addr:      ":" + conf.Port,
		Handler:   r,
		TLSConfig: cfg.TLSConfig(),
	}

	log.Printf("Starting HTTPS server on %s\n", conf.Port)
	if err := server.ListenAndServeTLS("", ""); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start HTTPS server: %v", err)
	}

	return nil
}

func serverCommands(app *appInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "start the import API server",
		Run: func(cmd *cobra.Command, args []string) {
			router := api.NewAPI(app.centavo).Router()
			cfg := app.cnf.Server

			if cfg.SSL {
				if err := serveTLS(router, cfg); err != nil {
					log.Fatalf("Error setting up TLS: %v", err)
				}
				return
			}

			log.Printf("Starting server on http://localhost:%s", cfg.Port)
			if err := router.Run(":" + cfg.Port); err != nil {
				log.Fatal(err)
			}
		},
	}

	return cmd
}
