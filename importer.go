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
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"github.com/centavohq/centavo/config"
	"github.com/centavohq/centavo/internal/lock"
	"github.com/centavohq/centavo/internal/notification"
	"github.com/centavohq/centavo/model"
)

// requiredExpenseColumns is the header set an expense export must carry. The
// names match the bookkeeping system's Spanish export format.
var requiredExpenseColumns = []string{
	"Línea de negocio", "Categoría", "Empresa", "Equipo", "Concepto",
	"Subtotal", "IVA", "Total", "Tipo", "Mes", "Status",
	"Factura", "Comprobante", "Fecha pago",
}

// requiredClientColumns is the header set for the client bulk upload.
var requiredClientColumns = []string{"Empresa", "Razón social", "RFC", "Email"}

// SchemaError rejects a whole file before any row is processed.
type SchemaError struct {
	MissingColumns []string
}

func (e SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.MissingColumns, ", "))
}

// attachmentTask describes one pending document operation for a processed row.
type attachmentTask struct {
	record      *model.ExpenseRecord
	invoiceLink string
	receiptLink string
}

// rowOutcome is the tagged result of processing one row.
type rowOutcome struct {
	updated bool
	record  *model.ExpenseRecord
	message string
	pending *attachmentTask
}

// batchProcessor owns the reference-data snapshot for the lifetime of one run.
// Rows are processed strictly sequentially; the snapshot is mutated only by
// appending records created earlier in the same run.
type batchProcessor struct {
	service    *Centavo
	resolver   *Resolver
	projects   []model.Project
	detector   *DuplicateDetector
	summary    model.ImportSummary
	unresolved map[string]bool
	unlinked   map[string]bool
}

// QueueImport validates the file's schema synchronously, records the run and
// hands the payload to the worker queue. The schema check runs before anything
// is persisted so a malformed file is rejected with the missing column list.
func (s *Centavo) QueueImport(ctx context.Context, fileName string, csvData []byte) (*model.ImportRun, error) {
	ctx, span := otel.Tracer("import").Start(ctx, "Queueing import run")
	defer span.End()

	if _, _, err := parseDelimitedFile(strings.NewReader(string(csvData)), requiredExpenseColumns); err != nil {
		return nil, err
	}

	run := &model.ImportRun{
		ImportID:  model.GenerateUUIDWithSuffix("imp"),
		FileName:  fileName,
		Status:    StatusQueued,
		StartedAt: time.Now(),
	}
	if err := s.datasource.RecordImportRun(ctx, run); err != nil {
		return nil, err
	}

	if err := s.queue.EnqueueImport(ctx, run.ImportID, fileName, csvData); err != nil {
		_ = s.datasource.UpdateImportRunStatus(ctx, run.ImportID, StatusFailed)
		return nil, err
	}

	return run, nil
}

// ImportExpenses runs a full import synchronously: record the run, process
// every row, persist the summary. This is the path the worker and the CLI
// share.
func (s *Centavo) ImportExpenses(ctx context.Context, fileName string, reader io.Reader) (*model.ImportRun, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	run := &model.ImportRun{
		ImportID:  model.GenerateUUIDWithSuffix("imp"),
		FileName:  fileName,
		Status:    StatusStarted,
		StartedAt: time.Now(),
	}
	if err := s.datasource.RecordImportRun(ctx, run); err != nil {
		return nil, err
	}

	if err := s.ProcessImport(ctx, run.ImportID, fileName, data); err != nil {
		return nil, err
	}

	return s.datasource.GetImportRun(ctx, run.ImportID)
}

// ProcessImport executes one recorded run end to end. A redis lock guarantees
// a single run at a time across workers; the batch-local snapshot depends on
// no concurrent writer touching the expense table.
func (s *Centavo) ProcessImport(ctx context.Context, importID, fileName string, csvData []byte) error {
	ctx, span := otel.Tracer("import").Start(ctx, "Processing import run")
	defer span.End()

	cfg, err := config.Fetch()
	if err != nil {
		return err
	}

	locker := lock.NewLocker(s.redis, "import-run-lock", importID)
	if err := locker.WaitLock(ctx, 30*time.Minute, 2*time.Minute); err != nil {
		return err
	}
	defer func() {
		if err := locker.Unlock(context.Background()); err != nil {
			logrus.Warnf("failed to release import lock: %v", err)
		}
	}()

	if err := s.datasource.UpdateImportRunStatus(ctx, importID, StatusInProgress); err != nil {
		return err
	}

	summary, err := s.runBatch(ctx, cfg, csvData)
	if err != nil {
		notification.NotifyError(fmt.Errorf("import run %s (%s) failed: %w", importID, fileName, err))
		if completeErr := s.datasource.CompleteImportRun(ctx, importID, StatusFailed, &model.ImportSummary{}); completeErr != nil {
			logrus.Errorf("failed to mark import run %s failed: %v", importID, completeErr)
		}
		return err
	}

	return s.datasource.CompleteImportRun(ctx, importID, StatusCompleted, summary)
}

// runBatch drives the state machine: load reference data, validate schema,
// process rows sequentially, aggregate the summary. A row failure never aborts
// its siblings; only reference-data or schema failures abort the run.
func (s *Centavo) runBatch(ctx context.Context, cfg *config.Configuration, csvData []byte) (*model.ImportSummary, error) {
	columnMap, rows, err := parseDelimitedFile(strings.NewReader(string(csvData)), requiredExpenseColumns)
	if err != nil {
		return nil, err
	}

	processor, err := s.newBatchProcessor(ctx, cfg)
	if err != nil {
		return nil, err
	}

	for i, record := range rows {
		rowNumber := i + 2 // 1-based, after the header row
		raw := rawRowFromRecord(record, columnMap)
		outcome := processor.processRow(ctx, raw)

		if outcome.pending != nil {
			s.processAttachments(ctx, outcome.pending)
		}

		result := model.RowResult{
			RowNumber: rowNumber,
			Success:   outcome.message == "",
			Message:   outcome.message,
			WasUpdate: outcome.updated,
		}
		if outcome.record != nil {
			result.RecordID = outcome.record.ExpenseID
			if outcome.record.ClientID != "" || len(outcome.record.ProjectIDs) > 0 {
				result.Match = &model.MatchResult{
					ClientID:   outcome.record.ClientID,
					ProjectIDs: outcome.record.ProjectIDs,
				}
			}
		}
		if result.Success {
			result.Message = "ok"
		}
		processor.summary.Rows = append(processor.summary.Rows, result)
	}

	return processor.aggregate(), nil
}

func (s *Centavo) newBatchProcessor(ctx context.Context, cfg *config.Configuration) (*batchProcessor, error) {
	clients, err := s.datasource.GetAllClients(ctx)
	if err != nil {
		return nil, err
	}
	projects, err := s.datasource.GetAllProjects(ctx)
	if err != nil {
		return nil, err
	}
	existing, err := s.datasource.GetAllExpenseRecords(ctx)
	if err != nil {
		return nil, err
	}

	return &batchProcessor{
		service:    s,
		resolver:   NewResolver(clients, cfg.Reconciliation.Aliases),
		projects:   projects,
		detector:   NewDuplicateDetector(existing, cfg.Reconciliation.DuplicateWindowDays),
		unresolved: map[string]bool{},
		unlinked:   map[string]bool{},
	}, nil
}

// processRow takes one raw row through normalize → resolve → link → dedup →
// merge/upsert. Every failure is captured in the outcome; nothing escapes to
// abort the batch.
func (p *batchProcessor) processRow(ctx context.Context, raw model.RawRow) rowOutcome {
	if err := validateRawRow(raw); err != nil {
		return rowOutcome{message: err.Error()}
	}

	company := NormalizeCompany(raw.Company)
	subtotal, tax, total := DeriveAmounts(
		NormalizeAmount(raw.Subtotal), NormalizeAmount(raw.Tax), NormalizeAmount(raw.Total))

	incoming := &model.ExpenseRecord{
		CompanyOriginal:   strings.TrimSpace(raw.Company),
		CompanyNormalized: company,
		BusinessLine:      cleanField(raw.BusinessLine),
		Category:          cleanField(raw.Category),
		Team:              cleanField(raw.Team),
		Concept:           cleanField(raw.Concept),
		Month:             NormalizeMonth(raw.Month),
		Subtotal:          subtotal,
		Tax:               tax,
		Total:             total,
		Type:              CoerceType(raw.Type),
		Status:            CoerceStatus(raw.Status),
		PaymentDate:       NormalizeDate(raw.PaymentDate),
	}

	if client := p.resolver.Resolve(company); client != nil {
		incoming.ClientID = client.ClientID
		p.summary.ResolvedToClient++
	} else {
		p.unresolved[company] = true
	}

	incoming.ProjectIDs = LinkProjects(p.projects, incoming.ClientID, company)
	if len(incoming.ProjectIDs) > 0 {
		p.summary.ResolvedToProject++
	} else if incoming.ClientID == "" {
		p.unlinked[company] = true
	}

	existing := p.detector.Find(company, incoming.Concept, incoming.Month, incoming.PaymentDate)
	if existing != nil {
		return p.update(ctx, existing, incoming, raw)
	}
	return p.create(ctx, incoming, raw)
}

func (p *batchProcessor) create(ctx context.Context, incoming *model.ExpenseRecord, raw model.RawRow) rowOutcome {
	incoming.ExpenseID = model.GenerateUUIDWithSuffix("exp")
	if err := p.service.datasource.CreateExpenseRecord(ctx, incoming); err != nil {
		return rowOutcome{message: fmt.Sprintf("failed to persist record: %v", err)}
	}
	p.detector.Add(incoming)

	return rowOutcome{
		record:  incoming,
		pending: &attachmentTask{
			record:      incoming,
			invoiceLink: cleanField(raw.InvoiceLink),
			receiptLink: cleanField(raw.ReceiptLink),
		},
	}
}

// update applies the field-level merge policy: attachments are kept when the
// existing record already has them, client and project links prefer the fresh
// resolution, everything else is overwritten by the incoming row.
func (p *batchProcessor) update(ctx context.Context, existing, incoming *model.ExpenseRecord, raw model.RawRow) rowOutcome {
	merged := *incoming
	merged.ExpenseID = existing.ExpenseID
	merged.CreatedAt = existing.CreatedAt

	merged.InvoiceURL = existing.InvoiceURL
	merged.InvoiceFileName = existing.InvoiceFileName
	merged.ReceiptURL = existing.ReceiptURL
	merged.ReceiptFileName = existing.ReceiptFileName

	if merged.ClientID == "" {
		merged.ClientID = existing.ClientID
	}
	if len(merged.ProjectIDs) == 0 {
		merged.ProjectIDs = existing.ProjectIDs
	}

	if err := p.service.datasource.UpdateExpenseRecord(ctx, &merged); err != nil {
		return rowOutcome{message: fmt.Sprintf("failed to update record: %v", err)}
	}

	// Keep the in-memory snapshot consistent with what was persisted.
	*existing = merged

	task := &attachmentTask{record: existing}
	if existing.InvoiceURL == "" {
		task.invoiceLink = cleanField(raw.InvoiceLink)
	}
	if existing.ReceiptURL == "" {
		task.receiptLink = cleanField(raw.ReceiptLink)
	}

	return rowOutcome{updated: true, record: existing, pending: task}
}

func (p *batchProcessor) aggregate() *model.ImportSummary {
	summary := p.summary
	summary.TotalRows = len(summary.Rows)
	for _, row := range summary.Rows {
		if row.Success {
			summary.Succeeded++
			if row.WasUpdate {
				summary.Updated++
			} else {
				summary.Created++
			}
		} else {
			summary.Errored++
		}
	}
	summary.UnresolvedCompanies = sortedKeys(p.unresolved)
	summary.UnlinkedCompanies = sortedKeys(p.unlinked)
	return &summary
}

// ImportClients bulk-loads the client reference table from a delimited file.
// Rows whose tax id already exists are skipped, not updated; the historical
// client list is append-only.
func (s *Centavo) ImportClients(ctx context.Context, reader io.Reader) (*model.ClientImportSummary, error) {
	ctx, span := otel.Tracer("import").Start(ctx, "Importing clients")
	defer span.End()

	columnMap, rows, err := parseDelimitedFile(reader, requiredClientColumns)
	if err != nil {
		return nil, err
	}

	summary := &model.ClientImportSummary{}
	for i, record := range rows {
		rowNumber := i + 2
		field := func(name string) string {
			index, ok := columnMap[name]
			if !ok || index >= len(record) {
				return ""
			}
			return record[index]
		}
		raw := model.RawClientRow{
			CompanyName:  cleanField(field("Empresa")),
			LegalName:    cleanField(field("Razón social")),
			TaxID:        strings.ToUpper(cleanField(field("RFC"))),
			BillingEmail: cleanField(field("Email")),
		}

		result := model.RowResult{RowNumber: rowNumber, Success: true, Message: "created"}
		switch {
		case raw.CompanyName == "":
			result.Success = false
			result.Message = "company name is blank"
		case raw.TaxID != "" && s.clientExists(ctx, raw.TaxID):
			result.Message = "skipped, tax id already registered"
			summary.Skipped++
		default:
			created, err := s.datasource.CreateClient(model.Client{
				CompanyName:  raw.CompanyName,
				LegalName:    raw.LegalName,
				TaxID:        raw.TaxID,
				BillingEmail: raw.BillingEmail,
			})
			if err != nil {
				result.Success = false
				result.Message = err.Error()
			} else {
				result.RecordID = created.ClientID
				summary.Created++
			}
		}

		if !result.Success {
			summary.Errored++
		}
		summary.TotalRows++
		summary.Rows = append(summary.Rows, result)
	}

	return summary, nil
}

func (s *Centavo) clientExists(ctx context.Context, taxID string) bool {
	client, err := s.datasource.GetClientByTaxID(ctx, taxID)
	return err == nil && client != nil
}

// parseDelimitedFile reads the header row, checks it against the required
// column set and returns the column map plus all data rows. Any missing column
// fails the whole file with a SchemaError before a single row is touched.
func parseDelimitedFile(reader io.Reader, required []string) (map[string]int, [][]string, error) {
	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true

	headers, err := csvReader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header row: %w", err)
	}

	columnMap := make(map[string]int, len(headers))
	for i, header := range headers {
		columnMap[strings.TrimSpace(strings.TrimPrefix(header, "\uFEFF"))] = i
	}

	missing := []string{}
	for _, column := range required {
		if _, ok := columnMap[column]; !ok {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return nil, nil, SchemaError{MissingColumns: missing}
	}

	rows := [][]string{}
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read data row: %w", err)
		}
		rows = append(rows, record)
	}

	return columnMap, rows, nil
}

func rawRowFromRecord(record []string, columnMap map[string]int) model.RawRow {
	field := func(name string) string {
		index, ok := columnMap[name]
		if !ok || index >= len(record) {
			return ""
		}
		return record[index]
	}
	return model.RawRow{
		BusinessLine: field("Línea de negocio"),
		Category:     field("Categoría"),
		Company:      field("Empresa"),
		Team:         field("Equipo"),
		Concept:      field("Concepto"),
		Subtotal:     field("Subtotal"),
		Tax:          field("IVA"),
		Total:        field("Total"),
		Type:         field("Tipo"),
		Month:        field("Mes"),
		Status:       field("Status"),
		InvoiceLink:  field("Factura"),
		ReceiptLink:  field("Comprobante"),
		PaymentDate:  field("Fecha pago"),
	}
}

func validateRawRow(raw model.RawRow) error {
	return validation.ValidateStruct(&raw,
		validation.Field(&raw.Company, validation.Required.Error("company is blank")),
		validation.Field(&raw.Concept, validation.Required.Error("concept is blank")),
	)
}

// cleanField trims a raw cell and treats a bare dash as empty, the way the
// bookkeeping export marks missing values.
func cleanField(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "-" {
		return ""
	}
	return trimmed
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
