package openapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"

	"github.com/getkin/kin-openapi/openapi3"
)

// maxDocumentSize caps remote payloads so a misbehaving endpoint cannot
// exhaust memory.
const maxDocumentSize = 16 << 20

// Load parses a raw OpenAPI document. JSON and YAML payloads are both
// accepted. References inside the document are resolved; external references
// are refused so loading never touches the network.
func Load(ctx context.Context, data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: false,
	}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	return &Document{spec: spec}, nil
}

// LoadFile reads a document from the operating system filesystem.
func LoadFile(ctx context.Context, path string) (*Document, error) {
	if path == "" {
		return nil, errors.New("openapi: file path is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("openapi: read %s: %w", path, err)
	}
	return Load(ctx, data)
}

// LoadFS reads a document from an abstract filesystem, typically an embed.FS
// or a test fixture tree.
func LoadFS(ctx context.Context, fsys fs.FS, name string) (*Document, error) {
	if fsys == nil {
		return nil, errors.New("openapi: filesystem is not configured")
	}
	if name == "" {
		return nil, errors.New("openapi: fs path is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("openapi: read %s: %w", name, err)
	}
	return Load(ctx, data)
}

// LoadURL fetches a document over HTTP. Loading is offline-first: callers
// must supply the client, there is no default. Timeouts and proxies are the
// client's concern.
func LoadURL(ctx context.Context, client *http.Client, rawURL string) (*Document, error) {
	if client == nil {
		return nil, errors.New("openapi: http support disabled, no client supplied")
	}
	if rawURL == "" {
		return nil, errors.New("openapi: document url is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("openapi: build request for %s: %w", rawURL, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openapi: fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openapi: fetch %s: unexpected status %d", rawURL, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("openapi: read response from %s: %w", rawURL, err)
	}
	if len(data) > maxDocumentSize {
		return nil, fmt.Errorf("openapi: document at %s exceeds %d bytes", rawURL, maxDocumentSize)
	}
	return Load(ctx, data)
}
