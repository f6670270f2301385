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
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/centavohq/centavo/internal/apierror"
	"github.com/centavohq/centavo/model"
)

func (d Datasource) CreateClient(client model.Client) (model.Client, error) {
	client.ClientID = model.GenerateUUIDWithSuffix("clt")
	client.CreatedAt = time.Now()

	_, err := d.Conn.Exec(`
		INSERT INTO clients (client_id, company_name, legal_name, tax_id, billing_email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, client.ClientID, client.CompanyName, client.LegalName, client.TaxID, client.BillingEmail, client.CreatedAt)

	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return model.Client{}, apierror.NewAPIError(apierror.ErrConflict, "Client with this ID already exists", err)
			default:
				return model.Client{}, apierror.NewAPIError(apierror.ErrInternalServer, "Database error occurred", err)
			}
		}
		return model.Client{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create client", err)
	}

	return client, nil
}

// GetAllClients returns every client in insertion order. The resolver depends
// on this ordering for deterministic tie-breaks.
func (d Datasource) GetAllClients(ctx context.Context) ([]model.Client, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT id, client_id, company_name, legal_name, tax_id, billing_email, created_at
		FROM clients
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve clients", err)
	}
	defer rows.Close()

	clients := []model.Client{}

	for rows.Next() {
		client := model.Client{}
		err = rows.Scan(&client.ID, &client.ClientID, &client.CompanyName, &client.LegalName, &client.TaxID, &client.BillingEmail, &client.CreatedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan client data", err)
		}
		clients = append(clients, client)
	}

	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over clients", err)
	}

	return clients, nil
}

func (d Datasource) GetClientByTaxID(ctx context.Context, taxID string) (*model.Client, error) {
	client := model.Client{}

	row := d.Conn.QueryRowContext(ctx, `
		SELECT id, client_id, company_name, legal_name, tax_id, billing_email, created_at
		FROM clients
		WHERE tax_id = $1
	`, taxID)

	err := row.Scan(&client.ID, &client.ClientID, &client.CompanyName, &client.LegalName, &client.TaxID, &client.BillingEmail, &client.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "Client not found", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve client", err)
	}

	return &client, nil
}
