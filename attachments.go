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
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
)

var extensionByContentType = map[string]string{
	"application/pdf": "pdf",
	"image/jpeg":      "jpg",
	"image/png":       "png",
}

// processAttachments resolves the row's invoice and receipt share links into
// stored blobs. Each side is independently fault-isolated: a fetch or upload
// failure is logged and the record's already-persisted identity fields stay
// untouched.
func (s *Centavo) processAttachments(ctx context.Context, task *attachmentTask) {
	if task.invoiceLink == "" && task.receiptLink == "" {
		return
	}
	ctx, span := otel.Tracer("import").Start(ctx, "Processing attachments")
	defer span.End()

	record := task.record
	invoiceURL, invoiceFileName := record.InvoiceURL, record.InvoiceFileName
	receiptURL, receiptFileName := record.ReceiptURL, record.ReceiptFileName
	changed := false

	if task.invoiceLink != "" {
		url, fileName, err := s.storeAttachment(ctx, task.invoiceLink, "factura", record.ExpenseID)
		if err != nil {
			logrus.Warnf("invoice attachment for %s failed: %v", record.ExpenseID, err)
		} else {
			invoiceURL, invoiceFileName = url, fileName
			changed = true
		}
	}

	if task.receiptLink != "" {
		url, fileName, err := s.storeAttachment(ctx, task.receiptLink, "comprobante", record.ExpenseID)
		if err != nil {
			logrus.Warnf("receipt attachment for %s failed: %v", record.ExpenseID, err)
		} else {
			receiptURL, receiptFileName = url, fileName
			changed = true
		}
	}

	if !changed {
		return
	}

	err := s.datasource.UpdateExpenseAttachments(ctx, record.ExpenseID,
		invoiceURL, invoiceFileName, receiptURL, receiptFileName)
	if err != nil {
		logrus.Warnf("failed to save attachment references for %s: %v", record.ExpenseID, err)
		return
	}

	record.InvoiceURL, record.InvoiceFileName = invoiceURL, invoiceFileName
	record.ReceiptURL, record.ReceiptFileName = receiptURL, receiptFileName
}

// storeAttachment fetches a shared document and uploads it under the record's
// path prefix. File names follow the factura_<id> / comprobante_<id>
// convention from the source system.
func (s *Centavo) storeAttachment(ctx context.Context, shareURL, label, expenseID string) (string, string, error) {
	data, err := s.fetcher.FetchShared(ctx, shareURL)
	if err != nil {
		return "", "", fmt.Errorf("fetch failed: %w", err)
	}

	contentType := http.DetectContentType(data)
	extension, ok := extensionByContentType[contentType]
	if !ok {
		contentType = "application/pdf"
		extension = "pdf"
	}

	fileName := fmt.Sprintf("%s_%s.%s", label, expenseID, extension)
	url, err := s.uploader.Upload(ctx, data, fileName, contentType, "expenses/"+expenseID)
	if err != nil {
		return "", "", fmt.Errorf("upload failed: %w", err)
	}

	return url, fileName, nil
}
