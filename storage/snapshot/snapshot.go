// Package snapshot persists the full Database document as a single JSON
// file. The on-disk format is byte-compatible with the export/import format.
package snapshot

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/chamadasimples/chamada/core/attendance"
)

type File struct {
	path string
}

var _ attendance.Saver = (*File)(nil)

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Path() string { return f.path }

// Load reads the persisted Database; a missing file yields a fresh empty one
// (first run).
func (f *File) Load() (*attendance.Database, error) {
	data, err := ioutil.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return attendance.NewDatabase(), nil
		}
		return nil, errors.Wrapf(err, "reading snapshot %s", f.path)
	}

	db := new(attendance.Database)
	if err := json.Unmarshal(data, db); err != nil {
		return nil, errors.Wrapf(err, "parsing snapshot %s", f.path)
	}
	return db, nil
}

// Save writes the Database atomically: marshal, write to a temp file next to
// the target, rename over it.
func (f *File) Save(db attendance.Database) error {
	data, err := json.MarshalIndent(&db, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshalling snapshot")
	}

	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return errors.Wrapf(err, "creating snapshot dir %s", dir)
		}
	}
	tmp := f.path + ".tmp"
	if err := ioutil.WriteFile(tmp, data, 0600); err != nil {
		return errors.Wrapf(err, "writing snapshot %s", tmp)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return errors.Wrapf(err, "replacing snapshot %s", f.path)
	}
	return nil
}
