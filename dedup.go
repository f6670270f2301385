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
	"math"
	"strings"
	"time"

	"github.com/centavohq/centavo/model"
)

// identityDelimiter joins identity key segments. The unit separator cannot
// appear in normal field text.
const identityDelimiter = "\x1f"

// IdentityKey builds the exact-match duplicate key for an expense. A missing
// payment date contributes an empty segment.
func IdentityKey(companyNormalized, concept, month string, paymentDate *time.Time) string {
	dateSegment := ""
	if paymentDate != nil {
		dateSegment = paymentDate.Format("2006-01-02")
	}
	return strings.Join([]string{companyNormalized, concept, month, dateSegment}, identityDelimiter)
}

// DuplicateDetector indexes an expense snapshot for duplicate lookups. The
// index is built once per run and extended as the run creates records, so
// later rows see records created earlier in the same batch.
type DuplicateDetector struct {
	records    []*model.ExpenseRecord
	byIdentity map[string]*model.ExpenseRecord
	windowDays int
}

// NewDuplicateDetector builds the identity index over the existing records.
// windowDays is the strict upper bound on the day difference tolerated by the
// fuzzy fallback.
func NewDuplicateDetector(records []*model.ExpenseRecord, windowDays int) *DuplicateDetector {
	d := &DuplicateDetector{
		records:    records,
		byIdentity: make(map[string]*model.ExpenseRecord, len(records)),
		windowDays: windowDays,
	}
	for _, record := range records {
		key := IdentityKey(record.CompanyNormalized, record.Concept, record.Month, record.PaymentDate)
		if _, exists := d.byIdentity[key]; !exists {
			d.byIdentity[key] = record
		}
	}
	return d
}

// Find returns the existing record the incoming row duplicates, or nil. Exact
// identity wins; the fuzzy fallback only fires when both the incoming row and
// the candidate carry a payment date within the configured window. It recovers
// same-expense rows whose date was mistyped.
func (d *DuplicateDetector) Find(companyNormalized, concept, month string, paymentDate *time.Time) *model.ExpenseRecord {
	if record, ok := d.byIdentity[IdentityKey(companyNormalized, concept, month, paymentDate)]; ok {
		return record
	}

	if paymentDate == nil {
		return nil
	}

	for _, record := range d.records {
		if record.PaymentDate == nil {
			continue
		}
		if record.CompanyNormalized != companyNormalized || record.Concept != concept || record.Month != month {
			continue
		}
		days := math.Abs(record.PaymentDate.Sub(*paymentDate).Hours() / 24)
		if days < float64(d.windowDays) {
			return record
		}
	}

	return nil
}

// Add appends a freshly created record to the index so the rest of the run
// can detect it as a duplicate.
func (d *DuplicateDetector) Add(record *model.ExpenseRecord) {
	d.records = append(d.records, record)
	key := IdentityKey(record.CompanyNormalized, record.Concept, record.Month, record.PaymentDate)
	if _, exists := d.byIdentity[key]; !exists {
		d.byIdentity[key] = record
	}
}
