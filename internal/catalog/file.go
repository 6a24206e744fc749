// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/tomtom215/streamcompare/internal/models"
)

// FileProvider reads the catalog from a YAML or JSON document.
// The format is chosen by extension: .json is JSON, anything else YAML.
// The parsed document is reused until the file's modification time changes.
type FileProvider struct {
	path string

	mu      sync.Mutex
	modTime time.Time
	doc     *Document
}

// NewFileProvider creates a provider for the document at path.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

// Name implements Provider.
func (p *FileProvider) Name() string {
	return SourceFile
}

// FetchServices implements Provider.
func (p *FileProvider) FetchServices(ctx context.Context) ([]models.Service, error) {
	doc, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Services, nil
}

// FetchChannels implements Provider.
func (p *FileProvider) FetchChannels(ctx context.Context) ([]models.Channel, error) {
	doc, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Channels, nil
}

// FetchServiceChannelMappings implements Provider.
func (p *FileProvider) FetchServiceChannelMappings(ctx context.Context) ([]models.ServiceChannel, error) {
	doc, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Mappings, nil
}

func (p *FileProvider) load(ctx context.Context) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(p.path)
	if err != nil {
		return nil, fmt.Errorf("stat catalog file: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.doc != nil && info.ModTime().Equal(p.modTime) {
		return p.doc, nil
	}

	doc, err := ReadDocumentFile(p.path)
	if err != nil {
		return nil, err
	}

	p.doc = doc
	p.modTime = info.ModTime()
	return doc, nil
}

// ReadDocumentFile reads and parses the catalog document at path.
func ReadDocumentFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	doc, err := DecodeDocument(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("parse catalog file %s: %w", path, err)
	}
	return doc, nil
}

// DecodeDocument parses data as JSON when ext is ".json" and as YAML otherwise.
func DecodeDocument(data []byte, ext string) (*Document, error) {
	var doc Document
	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return &doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
