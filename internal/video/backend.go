package video

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Backend names.
const (
	BackendFFmpeg = "ffmpeg"
	BackendOpenCV = "opencv"
)

// ErrUnknownBackend is returned by Lookup for unregistered backend names.
var ErrUnknownBackend = errors.New("unknown video backend")

// Options are passed to backend factories.
type Options struct {
	ProbeTimeout time.Duration
}

var backends = map[string]func(Options) Opener{}

// Register makes a backend available under name. It is called from init
// functions, so the set of backends depends on build tags.
func Register(name string, factory func(Options) Opener) {
	backends[name] = factory
}

// Backends returns the registered backend names, sorted.
func Backends() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Lookup builds the opener registered under name.
func Lookup(name string, opts Options) (Opener, error) {
	factory, ok := backends[name]
	if !ok {
		hint := ""
		if name == BackendOpenCV {
			hint = " (build with -tags with_cv)"
		}
		return nil, fmt.Errorf("%w %q%s; available: %s", ErrUnknownBackend, name, hint, strings.Join(Backends(), ", "))
	}
	return factory(opts), nil
}
