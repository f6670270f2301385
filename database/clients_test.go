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
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/centavohq/centavo/internal/apierror"
	"github.com/centavohq/centavo/model"
)

func TestCreateClient_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	client := model.Client{
		CompanyName:  "Invomex",
		LegalName:    "Invomex SA de CV",
		TaxID:        "INV010101ABC",
		BillingEmail: "facturas@invomex.mx",
	}

	mock.ExpectExec("INSERT INTO clients").
		WithArgs(sqlmock.AnyArg(), client.CompanyName, client.LegalName, client.TaxID, client.BillingEmail, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	created, err := ds.CreateClient(client)
	assert.NoError(t, err)
	assert.Contains(t, created.ClientID, "clt_")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllClients_InsertionOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "client_id", "company_name", "legal_name", "tax_id", "billing_email", "created_at"}).
		AddRow(1, "clt_1", "Invomex", "Invomex SA de CV", "INV010101ABC", "", now).
		AddRow(2, "clt_2", "Grupo Radial", "Grupo Radial SC", "GRA020202XYZ", "", now)

	mock.ExpectQuery("SELECT id, client_id, company_name").WillReturnRows(rows)

	clients, err := ds.GetAllClients(context.Background())
	assert.NoError(t, err)
	assert.Len(t, clients, 2)
	assert.Equal(t, "Invomex", clients[0].CompanyName)
	assert.Equal(t, "Grupo Radial", clients[1].CompanyName)
}

func TestGetClientByTaxID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT id, client_id, company_name").
		WithArgs("MISSING").
		WillReturnError(sql.ErrNoRows)

	client, err := ds.GetClientByTaxID(context.Background(), "MISSING")
	assert.Nil(t, client)
	assert.Error(t, err)

	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrNotFound, apiErr.Code)
}

func TestCreateProject_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	project := model.Project{
		Name:       "Campaña Q1",
		ClientID:   "clt_1",
		ClientName: "Invomex",
	}

	mock.ExpectExec("INSERT INTO projects").
		WithArgs(sqlmock.AnyArg(), project.Name, sqlmock.AnyArg(), project.ClientName, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	created, err := ds.CreateProject(project)
	assert.NoError(t, err)
	assert.Contains(t, created.ProjectID, "prj_")
}
