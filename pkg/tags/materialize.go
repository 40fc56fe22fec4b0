package tags

import (
	"fmt"
	"os"
	"sync"

	apierrors "github.com/matzehuels/apiviz/pkg/errors"
)

// tempPattern names the materialized file; os.CreateTemp replaces the *.
const tempPattern = "apiviz.tags.txt-*.tmp"

// materializer copies a resource into a temp file at most once.
type materializer struct {
	content []byte
	dir     string

	once sync.Once
	path string
	err  error
}

var shared = &materializer{content: bundled}

// Path returns the location of a temp file holding the bundled tag list.
//
// The file is written on the first call and reused for the rest of the
// process; it is never deleted. Concurrent first calls block until the one
// write finishes. A failure is remembered and returned by every later call
// with code RESOURCE.
func Path() (string, error) {
	return shared.materialize()
}

// MustPath is like [Path] but panics if the file cannot be written.
func MustPath() string {
	path, err := Path()
	if err != nil {
		panic(err)
	}
	return path
}

func (m *materializer) materialize() (string, error) {
	m.once.Do(func() {
		m.path, m.err = m.write()
	})
	return m.path, m.err
}

func (m *materializer) write() (string, error) {
	if m.content == nil {
		return "", apierrors.New(apierrors.ErrCodeResource, "resource %s not bundled", ResourceName)
	}

	// CreateTemp opens with O_EXCL, so a leftover file from an earlier process
	// is never reused.
	f, err := os.CreateTemp(m.dir, tempPattern)
	if err != nil {
		return "", apierrors.Wrap(apierrors.ErrCodeResource, err, "create temp file for %s", ResourceName)
	}

	_, err = f.Write(m.content)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(f.Name())
		return "", apierrors.Wrap(apierrors.ErrCodeResource, fmt.Errorf("write %s: %w", f.Name(), err), "materialize %s", ResourceName)
	}
	return f.Name(), nil
}
