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
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/centavohq/centavo/model"
)

// spanishMonths in calendar order. The importer's source files are exported
// from a Spanish-language bookkeeping system.
var spanishMonths = []string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

var spanishMonthAbbrev = map[string]time.Month{
	"ene": time.January, "feb": time.February, "mar": time.March,
	"abr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "ago": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dic": time.December,
}

var (
	fourDigitYear    = regexp.MustCompile(`(\d{4})`)
	trailingTwoDigit = regexp.MustCompile(`(\d{2})\s*$`)
	multiSpace       = regexp.MustCompile(`\s+`)
	decorativeChars  = strings.NewReplacer("*", "", "#", "", "\"", "", "“", "", "”", "", "•", "")
)

// NormalizeAmount strips currency symbols, thousands separators and whitespace
// and parses the remainder. Empty input, a bare dash, or unparsable text all
// normalize to zero rather than failing the row.
func NormalizeAmount(text string) decimal.Decimal {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" || cleaned == "-" {
		return decimal.Zero
	}
	cleaned = strings.NewReplacer("$", "", ",", "", " ", "", "MXN", "", "mxn", "").Replace(cleaned)
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		logrus.Debugf("unparsable amount %q, defaulting to 0", text)
		return decimal.Zero
	}
	return amount
}

// DeriveAmounts fills in a single missing amount when the other two are
// positive, in fixed priority: total first, then subtotal, then tax. The
// returned triple always satisfies total = subtotal + tax when at least two
// inputs were present.
func DeriveAmounts(subtotal, tax, total decimal.Decimal) (decimal.Decimal, decimal.Decimal, decimal.Decimal) {
	switch {
	case total.IsZero() && subtotal.IsPositive() && tax.IsPositive():
		total = subtotal.Add(tax)
	case subtotal.IsZero() && total.IsPositive() && tax.IsPositive():
		subtotal = total.Sub(tax)
	case tax.IsZero() && total.IsPositive() && subtotal.IsPositive():
		tax = total.Sub(subtotal)
	}
	return subtotal, tax, total
}

// NormalizeMonth scans for a Spanish month name anywhere in the input and
// pairs it with a year: a 4-digit token wins, else a trailing 2-digit token
// (below 50 means 20xx, otherwise 19xx), else the current year. Input with a
// year but no recognizable month keeps its trimmed text with the year
// appended; input with neither passes through trimmed.
func NormalizeMonth(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return trimmed
	}
	lower := strings.ToLower(trimmed)

	year := 0
	if m := fourDigitYear.FindStringSubmatch(lower); m != nil {
		year, _ = strconv.Atoi(m[1])
	} else if m := trailingTwoDigit.FindStringSubmatch(lower); m != nil {
		two, _ := strconv.Atoi(m[1])
		if two < 50 {
			year = 2000 + two
		} else {
			year = 1900 + two
		}
	}

	for _, month := range spanishMonths {
		if strings.Contains(lower, month) {
			if year == 0 {
				year = time.Now().Year()
			}
			return fmt.Sprintf("%s %d", titleCase(month), year)
		}
	}

	if year != 0 {
		return fmt.Sprintf("%s %d", trimmed, year)
	}
	return trimmed
}

// NormalizeDate parses the date formats seen in historical exports. A nil
// result means no known pattern matched; the caller records the row without a
// payment date.
func NormalizeDate(text string) *time.Time {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || trimmed == "-" {
		return nil
	}

	layouts := []string{"2006-01-02", "02/01/2006", "02-01-2006", "2006/01/02"}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return &parsed
		}
	}

	// DD-MMM-YYYY with a Spanish 3-letter month abbreviation, e.g. 15-ene-2024.
	parts := strings.Split(trimmed, "-")
	if len(parts) == 3 {
		day, dayErr := strconv.Atoi(parts[0])
		month, monthOk := spanishMonthAbbrev[strings.ToLower(parts[1])]
		year, yearErr := strconv.Atoi(parts[2])
		if dayErr == nil && monthOk && yearErr == nil && day >= 1 && day <= 31 && year >= 1000 {
			parsed := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
			return &parsed
		}
	}

	logrus.Warnf("unrecognized date format %q, leaving payment date empty", text)
	return nil
}

// CoerceType maps free-text expense types onto the known set, defaulting to
// Variable when the value is unknown.
func CoerceType(text string) string {
	cleaned := strings.TrimSpace(text)
	switch strings.ToLower(cleaned) {
	case strings.ToLower(model.ExpenseTypeVariable):
		return model.ExpenseTypeVariable
	case strings.ToLower(model.ExpenseTypeFixed):
		return model.ExpenseTypeFixed
	}
	if cleaned != "" && cleaned != "-" {
		logrus.Warnf("unknown expense type %q, defaulting to %s", text, model.ExpenseTypeVariable)
	}
	return model.ExpenseTypeVariable
}

// CoerceStatus maps free-text statuses onto the known set, defaulting to
// Pendiente when the value is unknown.
func CoerceStatus(text string) string {
	cleaned := strings.TrimSpace(text)
	switch strings.ToLower(cleaned) {
	case strings.ToLower(model.ExpenseStatusPaid):
		return model.ExpenseStatusPaid
	case strings.ToLower(model.ExpenseStatusPending):
		return model.ExpenseStatusPending
	case strings.ToLower(model.ExpenseStatusCanceled):
		return model.ExpenseStatusCanceled
	}
	if cleaned != "" && cleaned != "-" {
		logrus.Warnf("unknown expense status %q, defaulting to %s", text, model.ExpenseStatusPending)
	}
	return model.ExpenseStatusPending
}

// NormalizeCompany strips decorative symbols and collapses whitespace while
// keeping the original casing. This is the stored form.
func NormalizeCompany(text string) string {
	cleaned := decorativeChars.Replace(text)
	cleaned = multiSpace.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// MatchKey produces the matching-normalized form of a company name: stripped,
// case-folded and whitespace-collapsed. Used only for comparison, never
// stored.
func MatchKey(text string) string {
	return strings.ToLower(NormalizeCompany(text))
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
