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

package centavo

import (
	"context"
	"encoding/json"
	"log"

	"github.com/hibiken/asynq"

	"github.com/centavohq/centavo/config"
	redis_db "github.com/centavohq/centavo/internal/redis-db"
)

// Queue wraps the asynq client used to hand import runs to the worker
// process.
type Queue struct {
	Client    *asynq.Client
	Inspector *asynq.Inspector
}

// ImportPayload is the task body for a queued import run. The raw file bytes
// travel with the task so the worker needs no shared filesystem.
type ImportPayload struct {
	ImportID string `json:"import_id"`
	FileName string `json:"file_name"`
	CSV      []byte `json:"csv"`
}

// NewQueue initializes a new Queue instance with the provided configuration.
func NewQueue(conf *config.Configuration) *Queue {
	redisOption, err := redis_db.ParseRedisURL(conf.Redis.Dns, conf.Redis.SkipTLSVerify)
	if err != nil {
		log.Fatalf("Error parsing Redis URL: %v", err)
	}

	queueOptions := asynq.RedisClientOpt{Addr: redisOption.Addr, Password: redisOption.Password, DB: redisOption.DB, TLSConfig: redisOption.TLSConfig}
	client := asynq.NewClient(queueOptions)
	inspector := asynq.NewInspector(queueOptions)
	return &Queue{
		Client:    client,
		Inspector: inspector,
	}
}

// EnqueueImport places a recorded run onto the import queue. The task id is
// the run id, so re-enqueueing the same run is a no-op rather than a double
// import.
func (q *Queue) EnqueueImport(_ context.Context, importID, fileName string, csvData []byte) error {
	cfg, err := config.Fetch()
	if err != nil {
		return err
	}

	payload, err := json.Marshal(ImportPayload{ImportID: importID, FileName: fileName, CSV: csvData})
	if err != nil {
		return err
	}

	taskOptions := []asynq.Option{
		asynq.TaskID(importID),
		asynq.Queue(cfg.Queue.ImportQueue),
	}
	task := asynq.NewTask(cfg.Queue.ImportQueue, payload, taskOptions...)
	info, err := q.Client.Enqueue(task)
	if err != nil {
		log.Println(err, info)
		return err
	}
	log.Printf(" [*] Successfully enqueued import run: %s", importID)
	return nil
}
