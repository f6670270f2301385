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

// Package gdrive fetches publicly shared Google Drive documents from the
// share links found in historical expense exports.
package gdrive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
)

const downloadEndpoint = "https://drive.google.com/uc?export=download&id="

// Share-link shapes seen in the wild. The file id is always the first path or
// query segment after the marker.
var idPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/file/d/([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`[?&]id=([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`/document/d/([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`),
}

var confirmToken = regexp.MustCompile(`confirm=([0-9A-Za-z_-]+)`)

// ExtractFileID pulls the file id out of a Drive share URL. An empty result
// means the link is not a recognizable Drive link.
func ExtractFileID(shareURL string) string {
	for _, pattern := range idPatterns {
		if m := pattern.FindStringSubmatch(shareURL); m != nil {
			return m[1]
		}
	}
	return ""
}

// Fetcher downloads shared files over the public download endpoint.
type Fetcher struct {
	HTTPClient *http.Client
	Endpoint   string
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		HTTPClient: &http.Client{Timeout: 2 * time.Minute},
		Endpoint:   downloadEndpoint,
	}
}

// FetchShared maps a share URL to the raw file bytes. Large files answer the
// first request with an HTML virus-scan interstitial carrying a confirm
// token; in that case the download is retried once with the token attached.
func (f *Fetcher) FetchShared(ctx context.Context, shareURL string) ([]byte, error) {
	fileID := ExtractFileID(shareURL)
	if fileID == "" {
		return nil, fmt.Errorf("not a recognizable share link: %s", shareURL)
	}

	var data []byte
	operation := func() error {
		body, contentType, err := f.get(ctx, f.Endpoint+fileID)
		if err != nil {
			return err
		}

		if strings.Contains(contentType, "text/html") {
			token := confirmToken.FindStringSubmatch(string(body))
			if token == nil {
				return backoff.Permanent(fmt.Errorf("file %s is not publicly downloadable", fileID))
			}
			body, contentType, err = f.get(ctx, f.Endpoint+fileID+"&confirm="+token[1])
			if err != nil {
				return err
			}
			if strings.Contains(contentType, "text/html") {
				return backoff.Permanent(fmt.Errorf("file %s still served an interstitial after confirm", fileID))
			}
		}

		data = body
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 30 * time.Second
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}

	return data, nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}

	return body, resp.Header.Get("Content-Type"), nil
}
