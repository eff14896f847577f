package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse decodes a document from JSON or YAML. The source string only feeds
// error messages.
func Parse(data []byte, source string) (Document, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Document{}, fmt.Errorf("config: file %s is empty", source)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	doc = Document{}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	return Document{}, fmt.Errorf("config: parse %s: invalid JSON or YAML", source)
}

// Load reads and parses a document from disk.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFS reads and parses a document from a filesystem, typically an
// embed.FS.
func LoadFS(fsys fs.FS, path string) (Document, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return Document{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadDirFS walks a filesystem and parses every document file, keyed by the
// path without its extension. Non-document extensions are skipped.
func LoadDirFS(fsys fs.FS) (map[string]Document, error) {
	docs := make(map[string]Document)
	if fsys == nil {
		return docs, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDocumentFile(path) {
			return nil
		}

		doc, err := LoadFS(fsys, path)
		if err != nil {
			return err
		}

		key := strings.TrimSuffix(path, filepath.Ext(path))
		if _, exists := docs[key]; exists {
			return fmt.Errorf("config: duplicate document %q", key)
		}
		docs[key] = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// Keys returns the document keys of a LoadDirFS result in sorted order.
func Keys(docs map[string]Document) []string {
	keys := make([]string, 0, len(docs))
	for key := range docs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func isDocumentFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
