package pipeline

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-cli/internal/model"
)

var (
	// ErrResultNotFound is returned by Load for an unknown ID.
	ErrResultNotFound = errors.New("pipeline: result not found")
	// ErrInvalidResultID is returned for IDs that are not uuids.
	ErrInvalidResultID = errors.New("pipeline: invalid result id")
)

// ResultStore keeps results as <dir>/<id>.json.
type ResultStore struct {
	dir string
}

// NewResultStore creates the directory if needed.
func NewResultStore(dir string) (*ResultStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "pipeline: create results dir %s", dir)
	}
	return &ResultStore{dir: dir}, nil
}

// IDs are uuids; anything else could escape the results directory.
func (s *ResultStore) path(id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", ErrInvalidResultID
	}
	return filepath.Join(s.dir, id+".json"), nil
}

// Save writes r, replacing any earlier result with the same ID.
func (s *ResultStore) Save(r *model.Result) error {
	path, err := s.path(r.ID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return eris.Wrap(err, "pipeline: encode result")
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return eris.Wrap(err, "pipeline: write result")
	}
	if err := os.Rename(tmp, path); err != nil {
		return eris.Wrap(err, "pipeline: rename result")
	}
	return nil
}

// Load reads the result with the given ID.
func (s *ResultStore) Load(id string) (*model.Result, error) {
	path, err := s.path(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrResultNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: read result")
	}
	var r model.Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, eris.Wrapf(err, "pipeline: decode result %s", id)
	}
	return &r, nil
}
