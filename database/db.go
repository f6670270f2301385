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
package database

import (
	"database/sql"
	"log"
	"sync"

	_ "github.com/lib/pq"

	"github.com/centavohq/centavo/config"
)

// Declare a package-level variable to hold the singleton instance.
// Ensure the instance is not accessible outside the package.
var instance *Datasource
var once sync.Once

type Datasource struct {
	Conn *sql.DB
}

func NewDataSource(configuration *config.Configuration) (IDataSource, error) {
	con, err := GetDBConnection(configuration)
	if err != nil {
		return nil, err
	}
	return con, nil
}

// GetDBConnection provides a global access point to the instance and initializes it if it's not already.
func GetDBConnection(configuration *config.Configuration) (*Datasource, error) {
	var err error
	once.Do(func() {
		con, errConn := ConnectDB(configuration.DataSource.Dns)
		if errConn != nil {
			err = errConn
			return
		}
		instance = &Datasource{Conn: con}
	})
	if err != nil {
		return nil, err
	}
	return instance, nil
}

func ConnectDB(dns string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dns)
	if err != nil {
		return nil, err
	}
	err = db.Ping()
	if err != nil {
		log.Printf("database connection error ❌: %v", err)
		return nil, err
	}
	err = Migrate(db)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates every table the importer depends on. Safe to run on every
// boot; all statements are IF NOT EXISTS.
func Migrate(db *sql.DB) error {
	err := createClientTable(db)
	if err != nil {
		return err
	}
	err = createProjectTable(db)
	if err != nil {
		return err
	}
	err = createExpenseRecordTable(db)
	if err != nil {
		return err
	}
	err = createImportRunTable(db)
	if err != nil {
		return err
	}
	return nil
}

func createClientTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS clients (
			id SERIAL PRIMARY KEY,
			client_id TEXT NOT NULL UNIQUE,
			company_name TEXT NOT NULL,
			legal_name TEXT,
			tax_id TEXT,
			billing_email TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func createProjectTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS projects (
			id SERIAL PRIMARY KEY,
			project_id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			client_id TEXT REFERENCES clients(client_id),
			client_name TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func createExpenseRecordTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS expense_records (
			id SERIAL PRIMARY KEY,
			expense_id TEXT NOT NULL UNIQUE,
			company_original TEXT NOT NULL,
			company_normalized TEXT NOT NULL,
			business_line TEXT,
			category TEXT,
			team TEXT,
			concept TEXT,
			month TEXT,
			subtotal NUMERIC(20, 2) NOT NULL DEFAULT 0,
			tax NUMERIC(20, 2) NOT NULL DEFAULT 0,
			total NUMERIC(20, 2) NOT NULL DEFAULT 0,
			type TEXT NOT NULL,
			status TEXT NOT NULL,
			payment_date TIMESTAMP,
			client_id TEXT,
			project_ids TEXT[] NOT NULL DEFAULT '{}',
			invoice_url TEXT,
			invoice_file_name TEXT,
			receipt_url TEXT,
			receipt_file_name TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func createImportRunTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS import_runs (
			id SERIAL PRIMARY KEY,
			import_id TEXT NOT NULL UNIQUE,
			file_name TEXT NOT NULL,
			status TEXT NOT NULL,
			total_rows INTEGER NOT NULL DEFAULT 0,
			succeeded INTEGER NOT NULL DEFAULT 0,
			errored INTEGER NOT NULL DEFAULT 0,
			summary JSONB,
			started_at TIMESTAMP NOT NULL DEFAULT NOW(),
			completed_at TIMESTAMP
		)
	`)
	return err
}
