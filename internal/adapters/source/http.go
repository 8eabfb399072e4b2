package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.trai.ch/parcel/internal/core/domain"
	"go.trai.ch/parcel/internal/core/ports"
	"go.trai.ch/zerr"
)

// HTTPSource fetches package contents from a registry over HTTP. The
// registry serves zip blobs at /v1/package-contents/<scope>/<name>/<version>.
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSource creates an HTTPSource for the registry at baseURL.
func NewHTTPSource(baseURL string) *HTTPSource {
	return &HTTPSource{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  http.DefaultClient,
	}
}

// Download fetches the raw contents of one package version.
func (s *HTTPSource) Download(ctx context.Context, id domain.PackageID) (ports.PackageContents, error) {
	url := fmt.Sprintf("%s/v1/package-contents/%s/%s/%s", s.baseURL, id.Scope, id.Name, id.Version)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to build registry request"), "url", url)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "registry request failed"), "url", url)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, zerr.With(zerr.With(
			zerr.New("registry returned an unexpected status"),
			"url", url),
			"status", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read registry response"), "url", url)
	}

	return NewZipContents(data), nil
}
