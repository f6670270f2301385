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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/centavohq/centavo/model"
)

func date(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func existingRecord(id string, paymentDate *time.Time) *model.ExpenseRecord {
	return &model.ExpenseRecord{
		ExpenseID:         id,
		CompanyNormalized: "INVOMEX",
		Concept:           "Pauta marzo",
		Month:             "Marzo 2023",
		PaymentDate:       paymentDate,
	}
}

func TestExactIdentityMatch(t *testing.T) {
	d := NewDuplicateDetector([]*model.ExpenseRecord{existingRecord("exp_1", date(2023, 3, 15))}, 3)

	found := d.Find("INVOMEX", "Pauta marzo", "Marzo 2023", date(2023, 3, 15))
	assert.NotNil(t, found)
	assert.Equal(t, "exp_1", found.ExpenseID)
}

func TestExactIdentityMatchWithoutDates(t *testing.T) {
	d := NewDuplicateDetector([]*model.ExpenseRecord{existingRecord("exp_1", nil)}, 3)

	found := d.Find("INVOMEX", "Pauta marzo", "Marzo 2023", nil)
	assert.NotNil(t, found)
	assert.Equal(t, "exp_1", found.ExpenseID)
}

func TestFuzzyDateWindow(t *testing.T) {
	d := NewDuplicateDetector([]*model.ExpenseRecord{existingRecord("exp_1", date(2023, 3, 15))}, 3)

	// Two days off: inside the window.
	assert.NotNil(t, d.Find("INVOMEX", "Pauta marzo", "Marzo 2023", date(2023, 3, 17)))
	// Exactly three days off: outside, the bound is strict.
	assert.Nil(t, d.Find("INVOMEX", "Pauta marzo", "Marzo 2023", date(2023, 3, 18)))
}

func TestFuzzyRequiresBothDates(t *testing.T) {
	d := NewDuplicateDetector([]*model.ExpenseRecord{existingRecord("exp_1", nil)}, 3)

	assert.Nil(t, d.Find("INVOMEX", "Pauta marzo", "Marzo 2023", date(2023, 3, 15)))
}

func TestFuzzyRequiresIdenticalTriple(t *testing.T) {
	d := NewDuplicateDetector([]*model.ExpenseRecord{existingRecord("exp_1", date(2023, 3, 15))}, 3)

	assert.Nil(t, d.Find("INVOMEX", "Otro concepto", "Marzo 2023", date(2023, 3, 16)))
	assert.Nil(t, d.Find("OTRA EMPRESA", "Pauta marzo", "Marzo 2023", date(2023, 3, 16)))
	assert.Nil(t, d.Find("INVOMEX", "Pauta marzo", "Abril 2023", date(2023, 3, 16)))
}

func TestAddMakesRecordVisible(t *testing.T) {
	d := NewDuplicateDetector(nil, 3)

	assert.Nil(t, d.Find("INVOMEX", "Pauta marzo", "Marzo 2023", date(2023, 3, 15)))

	d.Add(existingRecord("exp_new", date(2023, 3, 15)))

	found := d.Find("INVOMEX", "Pauta marzo", "Marzo 2023", date(2023, 3, 15))
	assert.NotNil(t, found)
	assert.Equal(t, "exp_new", found.ExpenseID)

	// And through the fuzzy path too.
	assert.NotNil(t, d.Find("INVOMEX", "Pauta marzo", "Marzo 2023", date(2023, 3, 16)))
}

func TestConfigurableWindow(t *testing.T) {
	d := NewDuplicateDetector([]*model.ExpenseRecord{existingRecord("exp_1", date(2023, 3, 15))}, 5)

	assert.NotNil(t, d.Find("INVOMEX", "Pauta marzo", "Marzo 2023", date(2023, 3, 19)))
	assert.Nil(t, d.Find("INVOMEX", "Pauta marzo", "Marzo 2023", date(2023, 3, 20)))
}

func TestIdentityKeyUsesDateSegment(t *testing.T) {
	withDate := IdentityKey("INVOMEX", "c", "m", date(2023, 3, 15))
	withoutDate := IdentityKey("INVOMEX", "c", "m", nil)
	assert.NotEqual(t, withDate, withoutDate)
	assert.Contains(t, withDate, "2023-03-15")
}
