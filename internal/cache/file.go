package cache

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xeipuuv/gojsonschema"
)

const entrySchema = `{
	"type": "object",
	"required": ["payload", "timestamp"],
	"properties": {
		"timestamp": {"type": "string", "format": "date-time"}
	}
}`

var entrySchemaLoader = gojsonschema.NewStringLoader(entrySchema)

// FileStore keeps one JSON file per entry at <dir>/<namespace>/<key>.json.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "cache: create dir %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(namespace, key string) (string, error) {
	if namespace == "" || key == "" || strings.ContainsAny(namespace+key, `/\.`) {
		return "", eris.Errorf("cache: invalid namespace or key %q/%q", namespace, key)
	}
	return filepath.Join(s.dir, namespace, key+".json"), nil
}

// Get implements Store.
func (s *FileStore) Get(_ context.Context, namespace, key string) (*Entry, error) {
	p, err := s.path(namespace, key)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "cache: read %s", p)
	}

	res, err := gojsonschema.Validate(entrySchemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, eris.Wrapf(err, "cache: parse %s", p)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, eris.Errorf("cache: invalid entry %s: %s", p, strings.Join(msgs, "; "))
	}

	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, eris.Wrapf(err, "cache: decode %s", p)
	}
	return &e, nil
}

// Put implements Store. The file is written to a temp name and renamed so a
// reader never sees a partial entry.
func (s *FileStore) Put(_ context.Context, namespace, key string, e Entry) error {
	p, err := s.path(namespace, key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return eris.Wrap(err, "cache: create namespace dir")
	}
	raw, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return eris.Wrap(err, "cache: encode entry")
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), key+".*.tmp")
	if err != nil {
		return eris.Wrap(err, "cache: create temp file")
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close() //nolint:errcheck
		return eris.Wrap(err, "cache: write entry")
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "cache: close temp file")
	}
	return eris.Wrap(os.Rename(tmp.Name(), p), "cache: rename entry")
}

// Clear implements Store.
func (s *FileStore) Clear(_ context.Context, namespace string) (int, error) {
	namespaces := []string{namespace}
	if namespace == "" {
		namespaces = Namespaces()
	}

	removed := 0
	for _, ns := range namespaces {
		files, err := filepath.Glob(filepath.Join(s.dir, ns, "*.json"))
		if err != nil {
			return removed, eris.Wrap(err, "cache: list entries")
		}
		for _, f := range files {
			if err := os.Remove(f); err != nil && !errors.Is(err, os.ErrNotExist) {
				return removed, eris.Wrapf(err, "cache: remove %s", f)
			}
			removed++
		}
	}
	return removed, nil
}

// Close implements Store.
func (s *FileStore) Close() error { return nil }
