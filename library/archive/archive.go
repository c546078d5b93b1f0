// Package archive bundles files into downloadable archives.
package archive

import (
	"archive/zip"
	"bytes"

	"github.com/Laisky/errors/v2"
)

// File is one named entry to bundle.
type File struct {
	Name    string
	Content []byte
}

// Bundler packs files into a single archive. Callers must treat a nil
// Bundler as "feature unavailable" rather than a hard dependency.
type Bundler interface {
	Bundle(files []File) ([]byte, error)
}

// ZipBundler implements Bundler with a zip container.
type ZipBundler struct{}

func NewZipBundler() *ZipBundler {
	return &ZipBundler{}
}

func (b *ZipBundler) Bundle(files []File) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, f := range files {
		w, err := zw.Create(f.Name)
		if err != nil {
			return nil, errors.Wrapf(err, "create entry %q", f.Name)
		}
		if _, err = w.Write(f.Content); err != nil {
			return nil, errors.Wrapf(err, "write entry %q", f.Name)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(err, "close archive")
	}

	return buf.Bytes(), nil
}
