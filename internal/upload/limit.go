package upload

import (
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
)

// ErrFileTooLarge is matched by every SizeLimitError
var ErrFileTooLarge = errors.New("file too large")

// SizeLimitError is returned once a stream crosses its byte ceiling
type SizeLimitError struct {
	Limit int64
}

func (e *SizeLimitError) Error() string {
	return fmt.Sprintf("file too large: exceeds %s limit", humanize.IBytes(uint64(e.Limit)))
}

func (e *SizeLimitError) Is(target error) bool {
	return target == ErrFileTooLarge
}

// limitReader fails with a SizeLimitError as soon as more than limit bytes have been read.
// Unlike io.LimitReader it never reports a truncated stream as a clean EOF.
type limitReader struct {
	r     io.Reader
	limit int64
	read  int64
}

// NewLimitReader wraps r so that reading more than limit bytes fails.
// A stream of exactly limit bytes reads to EOF normally.
func NewLimitReader(r io.Reader, limit int64) io.Reader {
	return &limitReader{r: r, limit: limit}
}

func (l *limitReader) Read(p []byte) (int, error) {
	if l.read > l.limit {
		return 0, &SizeLimitError{Limit: l.limit}
	}
	// one byte past the limit is enough to tell "exactly limit" from "more"
	if max := l.limit - l.read + 1; int64(len(p)) > max {
		p = p[:max]
	}
	n, err := l.r.Read(p)
	l.read += int64(n)
	if l.read > l.limit {
		return n - int(l.read-l.limit), &SizeLimitError{Limit: l.limit}
	}
	return n, err
}
