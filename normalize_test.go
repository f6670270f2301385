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
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/centavohq/centavo/model"
)

func TestNormalizeAmount(t *testing.T) {
	assert.True(t, NormalizeAmount("$1,234.56").Equal(decimal.NewFromFloat(1234.56)))
	assert.True(t, NormalizeAmount("  1000 ").Equal(decimal.NewFromInt(1000)))
	assert.True(t, NormalizeAmount("-").IsZero())
	assert.True(t, NormalizeAmount("").IsZero())
	assert.True(t, NormalizeAmount("n/a").IsZero())
}

func TestDeriveAmounts(t *testing.T) {
	cases := []struct {
		name                             string
		subtotal, tax, total             int64
		wantSubtotal, wantTax, wantTotal int64
	}{
		{"derive total", 1000, 160, 0, 1000, 160, 1160},
		{"derive subtotal", 0, 160, 1160, 1000, 160, 1160},
		{"derive tax", 1000, 0, 1160, 1000, 160, 1160},
		{"all present untouched", 1000, 160, 1160, 1000, 160, 1160},
		{"two zeros left alone", 1000, 0, 0, 1000, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			subtotal, tax, total := DeriveAmounts(
				decimal.NewFromInt(tc.subtotal), decimal.NewFromInt(tc.tax), decimal.NewFromInt(tc.total))
			assert.True(t, subtotal.Equal(decimal.NewFromInt(tc.wantSubtotal)))
			assert.True(t, tax.Equal(decimal.NewFromInt(tc.wantTax)))
			assert.True(t, total.Equal(decimal.NewFromInt(tc.wantTotal)))
		})
	}
}

func TestNormalizeMonth(t *testing.T) {
	assert.Equal(t, "Diciembre 2025", NormalizeMonth("Diciembre25"))
	assert.Equal(t, "Diciembre 2025", NormalizeMonth("Diciembre 2025"))
	assert.Equal(t, "Marzo 2023", NormalizeMonth("pago de marzo 2023"))
	assert.Equal(t, "Enero 1998", NormalizeMonth("Enero 98"))

	// A 4-digit year wins even glued to the month name.
	assert.Equal(t, "Diciembre 1925", NormalizeMonth("Diciembre1925"))

	currentYear := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("Agosto %d", currentYear), NormalizeMonth("Agosto"))

	// Year but no recognizable month keeps the trimmed text with the year
	// appended.
	assert.Equal(t, "Q1 2024 2024", NormalizeMonth(" Q1 2024 "))
	// Neither month nor year passes through.
	assert.Equal(t, "pendiente", NormalizeMonth(" pendiente "))
}

func TestNormalizeDate(t *testing.T) {
	iso := NormalizeDate("2024-01-15")
	slash := NormalizeDate("15/01/2024")
	dash := NormalizeDate("15-01-2024")
	reversed := NormalizeDate("2024/01/15")
	abbrev := NormalizeDate("15-ene-2024")

	for _, parsed := range []*time.Time{iso, slash, dash, reversed, abbrev} {
		assert.NotNil(t, parsed)
		assert.Equal(t, 2024, parsed.Year())
		assert.Equal(t, time.January, parsed.Month())
		assert.Equal(t, 15, parsed.Day())
	}

	assert.Nil(t, NormalizeDate("not a date"))
	assert.Nil(t, NormalizeDate(""))
	assert.Nil(t, NormalizeDate("-"))
}

func TestCoerceEnumerations(t *testing.T) {
	assert.Equal(t, model.ExpenseTypeFixed, CoerceType("fijo"))
	assert.Equal(t, model.ExpenseTypeVariable, CoerceType("whatever"))
	assert.Equal(t, model.ExpenseTypeVariable, CoerceType(""))

	assert.Equal(t, model.ExpenseStatusPaid, CoerceStatus("PAGADO"))
	assert.Equal(t, model.ExpenseStatusCanceled, CoerceStatus("Cancelado"))
	assert.Equal(t, model.ExpenseStatusPending, CoerceStatus("???"))
}

func TestMatchKey(t *testing.T) {
	assert.Equal(t, "grupo radial", MatchKey("  GRUPO   Radial* "))
	assert.Equal(t, MatchKey("Invomex"), MatchKey("INVOMEX"))
}
