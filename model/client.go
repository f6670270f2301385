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

import "time"

// Client is the canonical customer record free-text company names are
// resolved against. Read-only for the reconciliation engine.
type Client struct {
	ID           int64     `json:"-"`
	ClientID     string    `json:"client_id"`
	CompanyName  string    `json:"company_name"`
	LegalName    string    `json:"legal_name"`
	TaxID        string    `json:"tax_id"`
	BillingEmail string    `json:"billing_email"`
	CreatedAt    time.Time `json:"created_at"`
}

// Project belongs to at most one client. ClientName carries the free-text
// company name for projects recorded before their client existed; the linker
// matches on it when ClientID is empty.
type Project struct {
	ID         int64     `json:"-"`
	ProjectID  string    `json:"project_id"`
	Name       string    `json:"name"`
	ClientID   string    `json:"client_id,omitempty"`
	ClientName string    `json:"client_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// MatchResult is the per-row outcome of entity resolution and project linkage.
type MatchResult struct {
	ClientID   string   `json:"client_id,omitempty"`
	ProjectIDs []string `json:"project_ids,omitempty"`
}
