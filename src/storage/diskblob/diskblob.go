// Package diskblob stores raw enrollment images on the local filesystem,
// one file per identity under a configured root directory.
package diskblob

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store writes enrollment images as <root>/<userID>.jpg. Re-enrollment
// overwrites the previous image.
type Store struct {
	root string
}

func New(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Store{root: root}, nil
}

func (s *Store) path(userID primitive.ObjectID) string {
	return filepath.Join(s.root, userID.Hex()+".jpg")
}

func (s *Store) Put(userID primitive.ObjectID, data []byte) (string, error) {
	path := s.path(userID)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (s *Store) Remove(userID primitive.ObjectID) error {
	err := os.Remove(s.path(userID))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
