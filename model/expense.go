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
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense type and status enumerations. Unrecognized input values fall back to
// ExpenseTypeVariable / ExpenseStatusPending during normalization.
const (
	ExpenseTypeVariable = "Variable"
	ExpenseTypeFixed    = "Fijo"

	ExpenseStatusPaid     = "Pagado"
	ExpenseStatusPending  = "Pendiente"
	ExpenseStatusCanceled = "Cancelado"
)

// ExpenseRecord is the canonical persisted expense. Created or updated by the
// backfill engine, never deleted by it.
type ExpenseRecord struct {
	ID                int64           `json:"-"`
	ExpenseID         string          `json:"expense_id"`
	CompanyOriginal   string          `json:"company_original"`
	CompanyNormalized string          `json:"company_normalized"`
	BusinessLine      string          `json:"business_line"`
	Category          string          `json:"category"`
	Team              string          `json:"team"`
	Concept           string          `json:"concept"`
	Month             string          `json:"month"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	Tax               decimal.Decimal `json:"tax"`
	Total             decimal.Decimal `json:"total"`
	Type              string          `json:"type"`
	Status            string          `json:"status"`
	PaymentDate       *time.Time      `json:"payment_date,omitempty"`
	ClientID          string          `json:"client_id,omitempty"`
	ProjectIDs        []string        `json:"project_ids,omitempty"`
	InvoiceURL        string          `json:"invoice_url,omitempty"`
	InvoiceFileName   string          `json:"invoice_file_name,omitempty"`
	ReceiptURL        string          `json:"receipt_url,omitempty"`
	ReceiptFileName   string          `json:"receipt_file_name,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// RawRow is one parsed line of an expense backfill CSV. All fields are free
// text exactly as found in the file; it only lives for the duration of a run.
type RawRow struct {
	BusinessLine string
	Category     string
	Company      string
	Team         string
	Concept      string
	Subtotal     string
	Tax          string
	Total        string
	Type         string
	Month        string
	Status       string
	InvoiceLink  string
	ReceiptLink  string
	PaymentDate  string
}

// RawClientRow is one parsed line of a client backfill CSV.
type RawClientRow struct {
	CompanyName  string
	LegalName    string
	TaxID        string
	BillingEmail string
}
