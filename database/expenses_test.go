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
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/centavohq/centavo/internal/apierror"
	"github.com/centavohq/centavo/model"
)

func TestCreateExpenseRecord_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}
	ctx := context.TODO()

	paymentDate := time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)
	record := &model.ExpenseRecord{
		ExpenseID:         "exp_123",
		CompanyOriginal:   "INVOMEX ",
		CompanyNormalized: "INVOMEX",
		BusinessLine:      "Medios",
		Category:          "Pauta",
		Concept:           "Pauta marzo",
		Month:             "Marzo",
		Subtotal:          decimal.NewFromInt(1000),
		Tax:               decimal.NewFromInt(160),
		Total:             decimal.NewFromInt(1160),
		Type:              model.ExpenseTypeVariable,
		Status:            model.ExpenseStatusPending,
		PaymentDate:       &paymentDate,
		ClientID:          "clt_1",
		ProjectIDs:        []string{"prj_1"},
	}

	mock.ExpectExec("INSERT INTO expense_records").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = ds.CreateExpenseRecord(ctx, record)
	assert.NoError(t, err)
	assert.False(t, record.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateExpenseRecord_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}
	ctx := context.TODO()

	record := &model.ExpenseRecord{
		ExpenseID: "exp_missing",
		Subtotal:  decimal.Zero,
		Tax:       decimal.Zero,
		Total:     decimal.Zero,
		Type:      model.ExpenseTypeVariable,
		Status:    model.ExpenseStatusPending,
	}

	mock.ExpectExec("UPDATE expense_records").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = ds.UpdateExpenseRecord(ctx, record)
	assert.Error(t, err)

	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrNotFound, apiErr.Code)
}

func TestGetAllExpenseRecords_ScansArraysAndNulls(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}
	ctx := context.TODO()
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "expense_id", "company_original", "company_normalized", "business_line",
		"category", "team", "concept", "month", "subtotal", "tax", "total", "type",
		"status", "payment_date", "client_id", "project_ids", "invoice_url",
		"invoice_file_name", "receipt_url", "receipt_file_name", "created_at", "updated_at",
	}).AddRow(
		1, "exp_1", "Invomex", "INVOMEX", "Medios", "Pauta", "", "Pauta enero", "Enero",
		"1000", "160", "1160", model.ExpenseTypeVariable, model.ExpenseStatusPaid,
		nil, "clt_1", "{prj_1,prj_2}", "", "", "", "", now, now,
	)

	mock.ExpectQuery("SELECT id, expense_id, company_original").WillReturnRows(rows)

	records, err := ds.GetAllExpenseRecords(ctx)
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Nil(t, records[0].PaymentDate)
	assert.Equal(t, []string{"prj_1", "prj_2"}, records[0].ProjectIDs)
	assert.True(t, records[0].Total.Equal(decimal.NewFromInt(1160)))
}

func TestUpdateExpenseAttachments(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}
	ctx := context.TODO()

	mock.ExpectExec("UPDATE expense_records").
		WithArgs("exp_1", "https://storage/egresos/exp_1/factura_exp_1.pdf", "factura_exp_1.pdf", "", "").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = ds.UpdateExpenseAttachments(ctx, "exp_1", "https://storage/egresos/exp_1/factura_exp_1.pdf", "factura_exp_1.pdf", "", "")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
