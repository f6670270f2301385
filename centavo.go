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

	"github.com/redis/go-redis/v9"

	"github.com/centavohq/centavo/config"
	"github.com/centavohq/centavo/database"
	"github.com/centavohq/centavo/internal/cloudstorage"
	"github.com/centavohq/centavo/internal/gdrive"
	redis_db "github.com/centavohq/centavo/internal/redis-db"
)

// Status constants representing the various states an import run can be in.
const (
	StatusQueued     = "queued"
	StatusStarted    = "started"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// DocumentFetcher maps a cloud share URL to the raw bytes of the shared file.
type DocumentFetcher interface {
	FetchShared(ctx context.Context, shareURL string) ([]byte, error)
}

// BlobUploader persists a document under a path prefix and returns the stored
// object's URL.
type BlobUploader interface {
	Upload(ctx context.Context, data []byte, fileName, contentType, pathPrefix string) (string, error)
}

// Centavo represents the main struct for the Centavo application.
type Centavo struct {
	queue      *Queue
	redis      redis.UniversalClient
	datasource database.IDataSource
	fetcher    DocumentFetcher
	uploader   BlobUploader
}

// NewCentavo initializes the service with the provided datasource. Redis, the
// import queue, the document fetcher and the blob uploader are built from the
// loaded configuration.
func NewCentavo(db database.IDataSource) (*Centavo, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}

	redisClient, err := redis_db.NewRedisClient([]string{configuration.Redis.Dns})
	if err != nil {
		return nil, err
	}

	uploader, err := cloudstorage.NewS3Uploader(configuration)
	if err != nil {
		return nil, err
	}

	return &Centavo{
		datasource: db,
		queue:      NewQueue(configuration),
		redis:      redisClient.Client(),
		fetcher:    gdrive.NewFetcher(),
		uploader:   uploader,
	}, nil
}

// NewService builds a Centavo from an explicit datasource only, without
// touching redis, the queue or blob storage. Used by tests and by embedders
// that wire collaborators themselves.
func NewService(db database.IDataSource) *Centavo {
	return &Centavo{datasource: db}
}

// WithFetcher and WithUploader let callers (and tests) swap the attachment
// collaborators without touching configuration.
func (s *Centavo) WithFetcher(f DocumentFetcher) *Centavo {
	s.fetcher = f
	return s
}

func (s *Centavo) WithUploader(u BlobUploader) *Centavo {
	s.uploader = u
	return s
}
