// Package service contains the long lived helpers handlers rely on: storing
// uploaded documents and periodic cleanup
package service

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

const prefixCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var (
	// ErrUnavailable means the deployment can't write files, for example on a
	// read-only filesystem
	ErrUnavailable = errors.New("file upload is not available")
	ErrInvalidName = errors.New("invalid file name")
)

type Uploader struct {
	Dir     string
	enabled bool
}

// SavedFile describes a file after it was written to disk. Size and MIME are
// measured on the stored bytes
type SavedFile struct {
	Name string
	Path string
	Size int64
	MIME string
}

// NewUploader creates dir when uploads are enabled. A disabled uploader
// refuses every write
func NewUploader(dir string, enabled bool) (*Uploader, error) {
	u := &Uploader{Dir: dir, enabled: enabled}
	if !enabled {
		return u, nil
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve upload directory, %w", err)
	}

	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create upload directory, %w", err)
	}

	u.Dir = abs
	return u, nil
}

func (u *Uploader) Enabled() bool {
	return u != nil && u.enabled
}

// Save writes src into the upload directory under name, prefixed with a
// random ID. name must already be sanitized. Existing files are never
// overwritten
func (u *Uploader) Save(src io.Reader, name string) (*SavedFile, error) {
	if !u.Enabled() {
		return nil, ErrUnavailable
	}

	prefix, err := gonanoid.Generate(prefixCharset, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to generate file prefix, %w", err)
	}

	stored := prefix + "_" + name

	p, err := u.path(stored)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return nil, fmt.Errorf("failed to create file, %w", err)
	}

	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		os.Remove(p)
		return nil, fmt.Errorf("failed to write file, %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(p)
		return nil, fmt.Errorf("failed to write file, %w", err)
	}

	info, err := os.Stat(p)
	if err != nil {
		os.Remove(p)
		return nil, fmt.Errorf("failed to stat file, %w", err)
	}

	mime, err := mimetype.DetectFile(p)
	if err != nil {
		os.Remove(p)
		return nil, fmt.Errorf("failed to detect file type, %w", err)
	}

	zap.L().Debug("Stored upload", zap.String("name", stored), zap.Int64("size", info.Size()), zap.String("mime", mime.String()))

	return &SavedFile{
		Name: stored,
		Path: p,
		Size: info.Size(),
		MIME: mime.String(),
	}, nil
}

// Remove deletes a stored file. Used to roll back a save whose database
// record couldn't be written
func (u *Uploader) Remove(name string) error {
	p, err := u.path(name)
	if err != nil {
		return err
	}

	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove file, %w", err)
	}

	return nil
}

// path joins name onto the upload directory and makes sure the result
// stays inside it
func (u *Uploader) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", ErrInvalidName
	}

	p := filepath.Join(u.Dir, name)

	rel, err := filepath.Rel(u.Dir, p)
	if err != nil || rel != name || strings.HasPrefix(rel, "..") {
		return "", ErrInvalidName
	}

	return p, nil
}
