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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/centavohq/centavo/database/mocks"
	"github.com/centavohq/centavo/model"
)

// pdfBytes carries a real PDF magic header so content sniffing picks the right
// extension.
var pdfBytes = []byte("%PDF-1.4 test document")

type stubFetcher struct {
	data []byte
	err  error
}

func (f stubFetcher) FetchShared(_ context.Context, _ string) ([]byte, error) {
	return f.data, f.err
}

type stubUploader struct {
	url       string
	err       error
	fileNames []string
	prefixes  []string
}

func (u *stubUploader) Upload(_ context.Context, _ []byte, fileName, _, pathPrefix string) (string, error) {
	u.fileNames = append(u.fileNames, fileName)
	u.prefixes = append(u.prefixes, pathPrefix)
	if u.err != nil {
		return "", u.err
	}
	return u.url + "/" + fileName, nil
}

func TestProcessAttachmentsStoresBothDocuments(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	uploader := &stubUploader{url: "https://storage"}
	s := &Centavo{datasource: mockDS, fetcher: stubFetcher{data: pdfBytes}, uploader: uploader}

	record := &model.ExpenseRecord{ExpenseID: "exp_1"}
	mockDS.On("UpdateExpenseAttachments", mock.Anything, "exp_1",
		"https://storage/factura_exp_1.pdf", "factura_exp_1.pdf",
		"https://storage/comprobante_exp_1.pdf", "comprobante_exp_1.pdf").Return(nil)

	s.processAttachments(context.Background(), &attachmentTask{
		record:      record,
		invoiceLink: "https://drive.google.com/file/d/abc123/view",
		receiptLink: "https://drive.google.com/open?id=def456",
	})

	assert.Equal(t, []string{"factura_exp_1.pdf", "comprobante_exp_1.pdf"}, uploader.fileNames)
	assert.Equal(t, []string{"expenses/exp_1", "expenses/exp_1"}, uploader.prefixes)
	assert.Equal(t, "https://storage/factura_exp_1.pdf", record.InvoiceURL)
	assert.Equal(t, "comprobante_exp_1.pdf", record.ReceiptFileName)
	mockDS.AssertExpectations(t)
}

func TestProcessAttachmentsFetchFailureIsSoft(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	s := &Centavo{datasource: mockDS, fetcher: stubFetcher{err: errors.New("drive unavailable")}}

	record := &model.ExpenseRecord{ExpenseID: "exp_1"}
	s.processAttachments(context.Background(), &attachmentTask{
		record:      record,
		invoiceLink: "https://drive.google.com/file/d/abc123/view",
	})

	// Nothing stored, nothing persisted, no panic: the row's identity fields
	// are already saved and stay that way.
	assert.Empty(t, record.InvoiceURL)
	mockDS.AssertNotCalled(t, "UpdateExpenseAttachments",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessAttachmentsOneSideFailing(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	uploader := &stubUploader{err: errors.New("bucket unreachable")}
	s := &Centavo{datasource: mockDS, fetcher: stubFetcher{data: pdfBytes}, uploader: uploader}

	record := &model.ExpenseRecord{
		ExpenseID:       "exp_1",
		ReceiptURL:      "https://storage/expenses/exp_1/comprobante_exp_1.pdf",
		ReceiptFileName: "comprobante_exp_1.pdf",
	}
	s.processAttachments(context.Background(), &attachmentTask{
		record:      record,
		invoiceLink: "https://drive.google.com/file/d/abc123/view",
	})

	// Upload failed, so the existing receipt reference stays and nothing is
	// rewritten.
	assert.Equal(t, "https://storage/expenses/exp_1/comprobante_exp_1.pdf", record.ReceiptURL)
	assert.Empty(t, record.InvoiceURL)
	mockDS.AssertNotCalled(t, "UpdateExpenseAttachments",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessAttachmentsNoLinksIsNoop(t *testing.T) {
	s := &Centavo{}
	s.processAttachments(context.Background(), &attachmentTask{record: &model.ExpenseRecord{ExpenseID: "exp_1"}})
}
