// Package upload turns local files into ports.Upload values with a sniffed
// content type.
package upload

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/jobportal/portal/internal/core/ports"
)

// File is an opened upload. Close releases the descriptor.
type File struct {
	ports.Upload
	f *os.File
}

func (f *File) Close() error {
	if f.f == nil {
		return nil
	}
	return f.f.Close()
}

// Open stats path, sniffs its MIME type from content and rewinds it.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat upload: %w", err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("open upload: %s is a directory", path)
	}

	mt, err := mimetype.DetectReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("detect upload type: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rewind upload: %w", err)
	}

	return &File{
		Upload: ports.Upload{
			FileName:    filepath.Base(path),
			ContentType: baseType(mt),
			Size:        info.Size(),
			Content:     f,
		},
		f: f,
	}, nil
}

// FromBytes builds an Upload from an in-memory body, as received by the
// shell server's multipart handlers.
func FromBytes(name string, body []byte) ports.Upload {
	return ports.Upload{
		FileName:    filepath.Base(name),
		ContentType: baseType(mimetype.Detect(body)),
		Size:        int64(len(body)),
		Content:     bytes.NewReader(body),
	}
}

// baseType drops parameters such as "; charset=utf-8".
func baseType(mt *mimetype.MIME) string {
	s, _, _ := strings.Cut(mt.String(), ";")
	return s
}
