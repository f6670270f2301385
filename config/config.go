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

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"

	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT = "5400"

	// DefaultImportQueue is the asynq queue import runs are dispatched to.
	DefaultImportQueue = "import_runs"
)

var ConfigStore atomic.Value

type ServerConfig struct {
	SSL       bool   `json:"ssl" envconfig:"CENTAVO_SERVER_SSL"`
	Secure    bool   `json:"secure" envconfig:"CENTAVO_SERVER_SECURE"`
	SecretKey string `json:"secret_key" envconfig:"CENTAVO_SERVER_SECRET_KEY"`
	Domain    string `json:"domain" envconfig:"CENTAVO_SERVER_SSL_DOMAIN"`
	Email     string `json:"ssl_email" envconfig:"CENTAVO_SERVER_SSL_EMAIL"`
	Port      string `json:"port" envconfig:"CENTAVO_SERVER_PORT"`
}

type DataSourceConfig struct {
	Dns string `json:"dns" envconfig:"CENTAVO_DATA_SOURCE_DNS"`
}

type RedisConfig struct {
	Dns           string `json:"dns" envconfig:"CENTAVO_REDIS_DNS"`
	SkipTLSVerify bool   `json:"skip_tls_verify" envconfig:"CENTAVO_REDIS_SKIP_TLS_VERIFY"`
}

type QueueConfig struct {
	ImportQueue       string `json:"import_queue" envconfig:"CENTAVO_QUEUE_IMPORT"`
	WorkerConcurrency int    `json:"worker_concurrency" envconfig:"CENTAVO_QUEUE_WORKER_CONCURRENCY"`
}

// ReconciliationConfig tunes the backfill reconciliation engine.
//
// Aliases maps a matching-normalized name fragment (as it appears in imported
// rows) to the canonical client company name it must resolve to. It exists for
// decorated or abbreviated company names that no generic heuristic can recover.
type ReconciliationConfig struct {
	Aliases             map[string]string `json:"aliases"`
	DuplicateWindowDays int               `json:"duplicate_window_days" envconfig:"CENTAVO_RECONCILIATION_DUPLICATE_WINDOW_DAYS"`
}

type RateLimitConfig struct {
	RequestsPerSecond  *float64 `json:"requests_per_second" envconfig:"CENTAVO_RATE_LIMIT_RPS"`
	Burst              *int     `json:"burst" envconfig:"CENTAVO_RATE_LIMIT_BURST"`
	CleanupIntervalSec *int     `json:"cleanup_interval_sec" envconfig:"CENTAVO_RATE_LIMIT_CLEANUP_INTERVAL_SEC"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url"`
}

type Notification struct {
	Slack   SlackWebhook `json:"slack"`
	Webhook struct {
		Url     string            `json:"url"`
		Headers map[string]string `json:"headers"`
	} `json:"webhook"`
}

type Configuration struct {
	ProjectName        string               `json:"project_name" envconfig:"CENTAVO_PROJECT_NAME"`
	AwsAccessKeyId     string               `json:"aws_access_key_id" envconfig:"CENTAVO_AWS_ACCESS_KEY_ID"`
	AwsSecretAccessKey string               `json:"aws_secret_access_key" envconfig:"CENTAVO_AWS_SECRET_ACCESS_KEY"`
	S3Endpoint         string               `json:"s3_endpoint" envconfig:"CENTAVO_S3_ENDPOINT"`
	S3BucketName       string               `json:"s3_bucket_name" envconfig:"CENTAVO_S3_BUCKET_NAME"`
	S3Region           string               `json:"s3_region" envconfig:"CENTAVO_S3_REGION"`
	Server             ServerConfig         `json:"server"`
	DataSource         DataSourceConfig     `json:"data_source"`
	Redis              RedisConfig          `json:"redis"`
	Queue              QueueConfig          `json:"queue"`
	Reconciliation     ReconciliationConfig `json:"reconciliation"`
	Notification       Notification         `json:"notification"`
	RateLimit          RateLimitConfig      `json:"rate_limit"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}
	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("centavo", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called centavo.json with your config")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "Centavo Server"
	}

	if cnf.DataSource.Dns == "" {
		log.Println("Error: Data source DNS is empty. It's a required field.")
		return errors.New("data source DNS is required")
	}

	if cnf.Redis.Dns == "" {
		log.Println("Error: Redis DNS is empty. It's a required field.")
		return errors.New("redis DNS is required")
	}

	// Trim white spaces from fields
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)

	// Set default value for Port if it's empty
	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	if cnf.Queue.ImportQueue == "" {
		cnf.Queue.ImportQueue = DefaultImportQueue
	}
	// Import runs are strictly sequential; anything above one worker would let
	// two runs interleave and break intra-batch duplicate detection.
	if cnf.Queue.WorkerConcurrency <= 0 {
		cnf.Queue.WorkerConcurrency = 1
	}

	if cnf.Reconciliation.DuplicateWindowDays <= 0 {
		cnf.Reconciliation.DuplicateWindowDays = 3
	}

	// Rate limiting is disabled by default (when both RPS and Burst are nil)
	if cnf.RateLimit.RequestsPerSecond != nil && cnf.RateLimit.Burst == nil {
		defaultBurst := 2 * int(*cnf.RateLimit.RequestsPerSecond)
		cnf.RateLimit.Burst = &defaultBurst
		log.Printf("Warning: Rate limit burst not specified. Setting default value: %d", defaultBurst)
	}
	if cnf.RateLimit.RequestsPerSecond == nil && cnf.RateLimit.Burst != nil {
		defaultRPS := float64(*cnf.RateLimit.Burst) / 2
		cnf.RateLimit.RequestsPerSecond = &defaultRPS
		log.Printf("Warning: Rate limit RPS not specified. Setting default value: %.2f", defaultRPS)
	}
	if cnf.RateLimit.CleanupIntervalSec == nil {
		defaultCleanup := 10800 // 3 hours in seconds
		cnf.RateLimit.CleanupIntervalSec = &defaultCleanup
	}

	return nil
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
