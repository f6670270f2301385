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

package gdrive

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
)

func TestExtractFileID(t *testing.T) {
	cases := map[string]string{
		"https://drive.google.com/file/d/1AbC-dEf_123/view?usp=sharing": "1AbC-dEf_123",
		"https://drive.google.com/open?id=1AbC-dEf_123":                 "1AbC-dEf_123",
		"https://docs.google.com/document/d/1AbC-dEf_123/edit":          "1AbC-dEf_123",
		"https://docs.google.com/spreadsheets/d/1AbC-dEf_123/edit#gid=0": "1AbC-dEf_123",
	}
	for url, want := range cases {
		assert.Equal(t, want, ExtractFileID(url), url)
	}

	assert.Equal(t, "", ExtractFileID("https://example.com/some/file.pdf"))
	assert.Equal(t, "", ExtractFileID("not a url"))
}

func newMockedFetcher() *Fetcher {
	client := &http.Client{Timeout: 10 * time.Second}
	httpmock.ActivateNonDefault(client)
	return &Fetcher{HTTPClient: client, Endpoint: downloadEndpoint}
}

func TestFetchSharedDirectDownload(t *testing.T) {
	f := newMockedFetcher()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", downloadEndpoint+"abc123",
		func(*http.Request) (*http.Response, error) {
			resp := httpmock.NewBytesResponse(200, []byte("%PDF-1.4 data"))
			resp.Header.Set("Content-Type", "application/pdf")
			return resp, nil
		})

	data, err := f.FetchShared(context.Background(), "https://drive.google.com/file/d/abc123/view")
	assert.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 data"), data)
}

func TestFetchSharedConfirmTokenRetry(t *testing.T) {
	f := newMockedFetcher()
	defer httpmock.DeactivateAndReset()

	interstitial := `<html><body><a href="/uc?export=download&confirm=tok_42&id=abc123">Download anyway</a></body></html>`
	httpmock.RegisterResponder("GET", downloadEndpoint+"abc123",
		func(*http.Request) (*http.Response, error) {
			resp := httpmock.NewStringResponse(200, interstitial)
			resp.Header.Set("Content-Type", "text/html; charset=utf-8")
			return resp, nil
		})
	httpmock.RegisterResponder("GET", downloadEndpoint+"abc123&confirm=tok_42",
		func(*http.Request) (*http.Response, error) {
			resp := httpmock.NewBytesResponse(200, []byte("%PDF-1.4 big file"))
			resp.Header.Set("Content-Type", "application/pdf")
			return resp, nil
		})

	data, err := f.FetchShared(context.Background(), "https://drive.google.com/file/d/abc123/view")
	assert.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 big file"), data)
}

func TestFetchSharedPrivateFile(t *testing.T) {
	f := newMockedFetcher()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", downloadEndpoint+"abc123",
		func(*http.Request) (*http.Response, error) {
			resp := httpmock.NewStringResponse(200, "<html>Sign in required</html>")
			resp.Header.Set("Content-Type", "text/html; charset=utf-8")
			return resp, nil
		})

	_, err := f.FetchShared(context.Background(), "https://drive.google.com/file/d/abc123/view")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not publicly downloadable")
}

func TestFetchSharedUnrecognizableLink(t *testing.T) {
	f := NewFetcher()
	_, err := f.FetchShared(context.Background(), "https://example.com/invoice.pdf")
	assert.Error(t, err)
}
