package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/roach88/keynav/internal/key"
)

// KeyPlaceholder is replaced by the path-escaped key identity in RecordsURL.
const KeyPlaceholder = "{key}"

// maxBodyBytes bounds a single response body.
const maxBodyBytes = 64 << 20

// HTTPSource fetches payloads from the remote data service over HTTP GET.
type HTTPSource struct {
	DatasetURL string
	RecordsURL string
	Client     *http.Client
	Validator  Validator // optional
}

// NewHTTPSource creates an HTTPSource with a client bounded by timeout.
func NewHTTPSource(datasetURL, recordsURL string, timeout time.Duration, v Validator) *HTTPSource {
	return &HTTPSource{
		DatasetURL: datasetURL,
		RecordsURL: recordsURL,
		Client:     &http.Client{Timeout: timeout},
		Validator:  v,
	}
}

// Dataset implements Source.
func (s *HTTPSource) Dataset(ctx context.Context) ([]key.Lead, error) {
	body, err := s.get(ctx, s.DatasetURL)
	if err != nil {
		return nil, err
	}
	if s.Validator != nil {
		if err := s.Validator.ValidateDataset(body); err != nil {
			return nil, err
		}
	}
	return DecodeDataset(body)
}

// Records implements Source.
func (s *HTTPSource) Records(ctx context.Context, identity string) ([]int, error) {
	u := strings.ReplaceAll(s.RecordsURL, KeyPlaceholder, url.PathEscape(identity))
	body, err := s.get(ctx, u)
	if err != nil {
		return nil, err
	}
	if s.Validator != nil {
		if err := s.Validator.ValidateRecords(body); err != nil {
			return nil, err
		}
	}
	return DecodeRecords(body)
}

func (s *HTTPSource) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{URL: u, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
