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
	"log"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/centavohq/centavo"
	redis_db "github.com/centavohq/centavo/internal/redis-db"
)

// processImportRun handles an import task from the queue. Errors bubble back
// to asynq so the run is retried; a retry with the same task id never runs
// concurrently with itself.
func (app *appInstance) processImportRun(ctx context.Context, t *asynq.Task) error {
	ctx, span := otel.Tracer("import.worker").Start(ctx, "Process Import From Redis Queue")
	defer span.End()

	var payload centavo.ImportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logrus.Error(err)
		return err
	}

	if err := app.centavo.ProcessImport(ctx, payload.ImportID, payload.FileName, payload.CSV); err != nil {
		logrus.Errorf("import run %s failed: %v", payload.ImportID, err)
		return err
	}

	log.Println(" [*] Import Run Processed", payload.ImportID)
	return nil
}

func workerCommands(app *appInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workers",
		Short: "start the import workers",
		Run: func(cmd *cobra.Command, args []string) {
			redisOption, err := redis_db.ParseRedisURL(app.cnf.Redis.Dns, app.cnf.Redis.SkipTLSVerify)
			if err != nil {
				log.Fatalf("Error parsing Redis URL: %v", err)
			}

			queueOptions := asynq.RedisClientOpt{
				Addr:      redisOption.Addr,
				Password:  redisOption.Password,
				DB:        redisOption.DB,
				TLSConfig: redisOption.TLSConfig,
			}

			// Concurrency stays at 1 unless overridden: an import run assumes
			// it is the only writer to the expense table while it holds the
			// run lock.
			srv := asynq.NewServer(queueOptions, asynq.Config{
				Concurrency: app.cnf.Queue.WorkerConcurrency,
				Queues: map[string]int{
					app.cnf.Queue.ImportQueue: 1,
				},
			})

			mux := asynq.NewServeMux()
			mux.HandleFunc(app.cnf.Queue.ImportQueue, app.processImportRun)

			recovery := centavo.NewImportRunRecoveryProcessor(app.centavo)
			recovery.Start(context.Background())
			defer recovery.Stop()

			if err := srv.Run(mux); err != nil {
				log.Fatalf("could not run worker server: %v", err)
			}
		},
	}

	return cmd
}
