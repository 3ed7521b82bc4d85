// Package dataset reads and writes the canonical pinout collection file.
package dataset

import (
	"os"
	"path/filepath"

	"github.com/webspiderteam/pinoutbot/pkg/constants"
	"github.com/webspiderteam/pinoutbot/pkg/errors"
	"github.com/webspiderteam/pinoutbot/pkg/records"
)

// Load reads the collection at path. A missing file is an empty collection.
func Load(path string) (records.Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return records.Collection{}, nil
		}
		return nil, errors.WrapIO("read", path, err)
	}
	return records.ParseCollection(data, path)
}

// Save replaces the collection at path in full. The new content is written
// to a temporary file in the same directory and renamed over path, so a
// failed write leaves the previous file untouched.
func Save(path string, c records.Collection) error {
	data, err := c.MarshalIndent()
	if err != nil {
		return errors.WrapResource("encode", "collection", path, err)
	}
	return writeAtomic(path, data)
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.WrapIO("create", dir, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	if err := tmp.Chmod(constants.FilePermissions); err != nil {
		cleanup()
		return errors.WrapIO("write", tmpPath, err)
	}
	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return errors.WrapIO("write", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return errors.WrapIO("write", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("write", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("rename", path, err)
	}
	return nil
}
