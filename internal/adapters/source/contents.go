// Package source provides package registries and the zip-backed package
// contents they serve.
package source

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

// ZipContents is a fetched package blob in zip form.
type ZipContents struct {
	data []byte
}

// NewZipContents wraps a raw zip blob.
func NewZipContents(data []byte) *ZipContents {
	return &ZipContents{data: data}
}

// Checksum returns the xxhash64 hex digest of the raw blob.
func (z *ZipContents) Checksum() string {
	return fmt.Sprintf("%016x", xxhash.Sum64(z.data))
}

// UnpackInto writes the archive tree under dir. Entries that would escape dir
// are rejected.
func (z *ZipContents) UnpackInto(dir string) error {
	reader, err := zip.NewReader(bytes.NewReader(z.data), int64(len(z.data)))
	if err != nil {
		return zerr.Wrap(err, "failed to open package archive")
	}

	for _, file := range reader.File {
		rel := filepath.Clean(filepath.FromSlash(file.Name))
		if filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return zerr.With(zerr.New("archive entry escapes the package directory"), "entry", file.Name)
		}

		target := filepath.Join(dir, rel)
		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", target)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", filepath.Dir(target))
		}
		if err := writeEntry(file, target); err != nil {
			return err
		}
	}

	return nil
}

func writeEntry(file *zip.File, target string) error {
	in, err := file.Open()
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open archive entry"), "entry", file.Name)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create file"), "path", target)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return zerr.With(zerr.Wrap(err, "failed to write file"), "path", target)
	}

	if err := out.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write file"), "path", target)
	}
	return nil
}
