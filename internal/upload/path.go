package upload

import (
	"errors"
	"path"
	"strings"
	"time"
)

// TimestampLayout is the ISO-8601 UTC layout, millisecond resolution, used as the path prefix
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// ErrInvalidFileName is returned for client file names with nothing usable left after sanitizing
var ErrInvalidFileName = errors.New("invalid file name")

// PathAssigner derives storage paths of the form <root>/<timestamp><name>.
// Uniqueness relies on the timestamp changing between calls.
type PathAssigner struct {
	root string
	now  func() time.Time
}

// NewPathAssigner creates an assigner rooted at root using the wall clock
func NewPathAssigner(root string) PathAssigner {
	return PathAssigner{root: CleanRoot(root), now: time.Now}
}

// WithClock returns a copy of a that reads time from now
func (a PathAssigner) WithClock(now func() time.Time) PathAssigner {
	a.now = now
	return a
}

// Assign returns the destination path for a file originally named name
func (a PathAssigner) Assign(name string) (string, error) {
	clean, err := SanitizeFileName(name)
	if err != nil {
		return "", err
	}
	stamp := a.now().UTC().Format(TimestampLayout)
	return rootPrefix(a.root) + stamp + clean, nil
}

// CleanRoot normalises an upload root to the spelling used in stored paths
func CleanRoot(root string) string {
	return path.Clean(root)
}

func rootPrefix(root string) string {
	return strings.TrimSuffix(CleanRoot(root), "/") + "/"
}

// WithinRoot reports whether p has the shape of a stored upload: a clean path
// naming a single entry directly below root. Hidden entries never qualify,
// which keeps in-progress staging files out.
func WithinRoot(root, p string) bool {
	prefix := rootPrefix(root)
	if !strings.HasPrefix(p, prefix) || path.Clean(p) != p {
		return false
	}
	name := p[len(prefix):]
	return name != "" && !strings.Contains(name, "/") && !strings.HasPrefix(name, ".")
}

// SanitizeFileName drops any directory components a client put in name.
// Empty names and the dot entries are rejected.
func SanitizeFileName(name string) (string, error) {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if strings.TrimSpace(name) == "" || name == "." || name == ".." {
		return "", ErrInvalidFileName
	}
	return name, nil
}
