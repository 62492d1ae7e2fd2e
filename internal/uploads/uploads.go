// Package uploads stores a multipart CSV upload as a temp file the import
// pipeline can read, after checking its name, size and content.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"jobboard/internal/domain"
)

// FormField is the multipart field carrying the file.
const FormField = "file"

// Saved describes a stored upload. Path is owned by the caller, who must
// remove it when done.
type Saved struct {
	Path     string
	Name     string
	Original string
	Size     int64
	MIME     string
}

// Save validates fh and writes it under dir with a random name.
func Save(fh *multipart.FileHeader, dir string, maxBytes int64) (Saved, error) {
	if fh == nil {
		return Saved{}, domain.ValidationError{Field: FormField, Msg: "file is required"}
	}
	if !strings.EqualFold(filepath.Ext(fh.Filename), ".csv") {
		return Saved{}, domain.ValidationError{Field: FormField, Msg: "only .csv files are accepted"}
	}
	if fh.Size == 0 {
		return Saved{}, domain.ValidationError{Field: FormField, Msg: "file is empty"}
	}
	if maxBytes > 0 && fh.Size > maxBytes {
		return Saved{}, domain.ValidationError{Field: FormField, Msg: fmt.Sprintf("file exceeds %d bytes", maxBytes)}
	}

	src, err := fh.Open()
	if err != nil {
		return Saved{}, domain.TransientIOError{Op: "open upload", Err: err}
	}
	defer src.Close()

	mt, err := mimetype.DetectReader(src)
	if err != nil {
		return Saved{}, domain.TransientIOError{Op: "sniff upload", Err: err}
	}
	if !isText(mt) {
		return Saved{}, domain.ValidationError{Field: FormField, Msg: fmt.Sprintf("content is %s, expected csv text", mt.String())}
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return Saved{}, domain.TransientIOError{Op: "rewind upload", Err: err}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Saved{}, domain.TransientIOError{Op: "create upload dir", Err: err}
	}
	name := uuid.NewString() + ".csv"
	dst := filepath.Join(dir, name)
	n, err := writeFile(dst, src, maxBytes)
	if err != nil {
		_ = os.Remove(dst)
		return Saved{}, err
	}

	return Saved{
		Path:     dst,
		Name:     name,
		Original: filepath.Base(fh.Filename),
		Size:     n,
		MIME:     mt.String(),
	}, nil
}

var errTooLarge = errors.New("upload larger than limit")

func writeFile(dst string, src io.Reader, maxBytes int64) (int64, error) {
	f, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return 0, domain.TransientIOError{Op: "create temp file", Err: err}
	}
	r := src
	if maxBytes > 0 {
		r = io.LimitReader(src, maxBytes+1)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, domain.TransientIOError{Op: "write temp file", Err: err}
	}
	if maxBytes > 0 && n > maxBytes {
		return n, domain.ValidationError{Field: FormField, Msg: fmt.Sprintf("file exceeds %d bytes", maxBytes), Err: errTooLarge}
	}
	return n, nil
}

func isText(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}
