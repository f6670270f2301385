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
	"go.opentelemetry.io/otel"

	"github.com/centavohq/centavo/internal/apierror"
	"github.com/centavohq/centavo/model"
)

// CreateExpenseRecord persists a new expense record. The caller is expected to
// have assigned ExpenseID already; timestamps are set here.
func (d Datasource) CreateExpenseRecord(ctx context.Context, record *model.ExpenseRecord) error {
	ctx, span := otel.Tracer("expense.database").Start(ctx, "Saving expense record to db")
	defer span.End()

	record.CreatedAt = time.Now()
	record.UpdatedAt = record.CreatedAt

	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO expense_records (
			expense_id, company_original, company_normalized, business_line, category,
			team, concept, month, subtotal, tax, total, type, status, payment_date,
			client_id, project_ids, invoice_url, invoice_file_name, receipt_url,
			receipt_file_name, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	`, record.ExpenseID, record.CompanyOriginal, record.CompanyNormalized, record.BusinessLine,
		record.Category, record.Team, record.Concept, record.Month, record.Subtotal,
		record.Tax, record.Total, record.Type, record.Status, record.PaymentDate,
		nullString(record.ClientID), pq.Array(record.ProjectIDs), record.InvoiceURL,
		record.InvoiceFileName, record.ReceiptURL, record.ReceiptFileName,
		record.CreatedAt, record.UpdatedAt)

	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return apierror.NewAPIError(apierror.ErrConflict, "Expense record with this ID already exists", err)
			default:
				return apierror.NewAPIError(apierror.ErrInternalServer, "Database error occurred", err)
			}
		}
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create expense record", err)
	}

	return nil
}

// UpdateExpenseRecord overwrites every mutable field of an existing record.
// Merge decisions (which fields to keep from the stored row) happen in the
// importer before this is called.
func (d Datasource) UpdateExpenseRecord(ctx context.Context, record *model.ExpenseRecord) error {
	ctx, span := otel.Tracer("expense.database").Start(ctx, "Updating expense record")
	defer span.End()

	record.UpdatedAt = time.Now()

	result, err := d.Conn.ExecContext(ctx, `
		UPDATE expense_records
		SET company_original = $2, company_normalized = $3, business_line = $4,
			category = $5, team = $6, concept = $7, month = $8, subtotal = $9,
			tax = $10, total = $11, type = $12, status = $13, payment_date = $14,
			client_id = $15, project_ids = $16, invoice_url = $17,
			invoice_file_name = $18, receipt_url = $19, receipt_file_name = $20,
			updated_at = $21
		WHERE expense_id = $1
	`, record.ExpenseID, record.CompanyOriginal, record.CompanyNormalized,
		record.BusinessLine, record.Category, record.Team, record.Concept, record.Month,
		record.Subtotal, record.Tax, record.Total, record.Type, record.Status,
		record.PaymentDate, nullString(record.ClientID), pq.Array(record.ProjectIDs),
		record.InvoiceURL, record.InvoiceFileName, record.ReceiptURL,
		record.ReceiptFileName, record.UpdatedAt)

	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update expense record", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to read update result", err)
	}
	if affected == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, "Expense record not found", nil)
	}

	return nil
}

// UpdateExpenseAttachments stores attachment URLs after the blobs have been
// uploaded, leaving every other column untouched.
func (d Datasource) UpdateExpenseAttachments(ctx context.Context, expenseID string, invoiceURL, invoiceFileName, receiptURL, receiptFileName string) error {
	ctx, span := otel.Tracer("expense.database").Start(ctx, "Updating expense attachments")
	defer span.End()

	_, err := d.Conn.ExecContext(ctx, `
		UPDATE expense_records
		SET invoice_url = $2, invoice_file_name = $3, receipt_url = $4,
			receipt_file_name = $5, updated_at = NOW()
		WHERE expense_id = $1
	`, expenseID, invoiceURL, invoiceFileName, receiptURL, receiptFileName)

	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update expense attachments", err)
	}

	return nil
}

// GetAllExpenseRecords loads the full expense table in insertion order. The
// importer builds its duplicate index from this snapshot once per run.
func (d Datasource) GetAllExpenseRecords(ctx context.Context) ([]*model.ExpenseRecord, error) {
	ctx, span := otel.Tracer("expense.database").Start(ctx, "Fetching all expense records")
	defer span.End()

	rows, err := d.Conn.QueryContext(ctx, `
		SELECT id, expense_id, company_original, company_normalized, business_line,
			category, team, concept, month, subtotal, tax, total, type, status,
			payment_date, COALESCE(client_id, ''), project_ids, COALESCE(invoice_url, ''),
			COALESCE(invoice_file_name, ''), COALESCE(receipt_url, ''),
			COALESCE(receipt_file_name, ''), created_at, updated_at
		FROM expense_records
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve expense records", err)
	}
	defer rows.Close()

	records := []*model.ExpenseRecord{}

	for rows.Next() {
		record, err := scanExpenseRecord(rows)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan expense record", err)
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over expense records", err)
	}

	return records, nil
}

func (d Datasource) GetExpenseRecord(ctx context.Context, expenseID string) (*model.ExpenseRecord, error) {
	ctx, span := otel.Tracer("expense.database").Start(ctx, "Fetching expense record")
	defer span.End()

	row := d.Conn.QueryRowContext(ctx, `
		SELECT id, expense_id, company_original, company_normalized, business_line,
			category, team, concept, month, subtotal, tax, total, type, status,
			payment_date, COALESCE(client_id, ''), project_ids, COALESCE(invoice_url, ''),
			COALESCE(invoice_file_name, ''), COALESCE(receipt_url, ''),
			COALESCE(receipt_file_name, ''), created_at, updated_at
		FROM expense_records
		WHERE expense_id = $1
	`, expenseID)

	record, err := scanExpenseRecord(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "Expense record not found", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve expense record", err)
	}

	return record, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanExpenseRecord(row rowScanner) (*model.ExpenseRecord, error) {
	record := model.ExpenseRecord{}
	var paymentDate sql.NullTime
	var projectIDs pq.StringArray

	err := row.Scan(&record.ID, &record.ExpenseID, &record.CompanyOriginal,
		&record.CompanyNormalized, &record.BusinessLine, &record.Category,
		&record.Team, &record.Concept, &record.Month, &record.Subtotal,
		&record.Tax, &record.Total, &record.Type, &record.Status, &paymentDate,
		&record.ClientID, &projectIDs, &record.InvoiceURL, &record.InvoiceFileName,
		&record.ReceiptURL, &record.ReceiptFileName, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if paymentDate.Valid {
		record.PaymentDate = &paymentDate.Time
	}
	record.ProjectIDs = projectIDs

	return &record, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
