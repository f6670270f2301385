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
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/centavohq/centavo/model"
)

// CreateClientRequest is the POST /clients body.
type CreateClientRequest struct {
	CompanyName  string `json:"company_name"`
	LegalName    string `json:"legal_name"`
	TaxID        string `json:"tax_id"`
	BillingEmail string `json:"billing_email"`
}

func (r CreateClientRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CompanyName, validation.Required),
		validation.Field(&r.BillingEmail, is.Email),
	)
}

func (r CreateClientRequest) ToClient() model.Client {
	return model.Client{
		CompanyName:  strings.TrimSpace(r.CompanyName),
		LegalName:    strings.TrimSpace(r.LegalName),
		TaxID:        strings.ToUpper(strings.TrimSpace(r.TaxID)),
		BillingEmail: strings.TrimSpace(r.BillingEmail),
	}
}

// CreateProjectRequest is the POST /projects body. A project may reference a
// client by id, carry only free-text client name, or neither.
type CreateProjectRequest struct {
	Name       string `json:"name"`
	ClientID   string `json:"client_id"`
	ClientName string `json:"client_name"`
}

func (r CreateProjectRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
	)
}

func (r CreateProjectRequest) ToProject() model.Project {
	return model.Project{
		Name:       strings.TrimSpace(r.Name),
		ClientID:   strings.TrimSpace(r.ClientID),
		ClientName: strings.TrimSpace(r.ClientName),
	}
}
