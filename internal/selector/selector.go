// Package selector picks the clipboard backend a process uses.
//
// A Selector walks an ordered candidate list, keeps the entries tagged for
// the running platform (or the "*" wildcard), and returns the first backend
// whose factory succeeds. Construction failures of any kind, panics from
// native code included, are logged at debug level and skipped. The list
// always ends in the dummy backend, so Select never fails.
package selector

import (
	"fmt"
	"log/slog"

	"go.klb.dev/pasteboard/internal/clip"
)

// Wildcard is the platform tag that matches every platform.
const Wildcard = "*"

// Candidate names a backend to try on a platform.
type Candidate struct {
	Platform string
	Name     string
}

func (c Candidate) String() string { return c.Platform + ":" + c.Name }

// Factory builds a backend. It returns an error wrapping
// clip.ErrBackendUnavailable when the backend cannot run here.
type Factory func() (clip.Backend, error)

// Registry maps backend names to factories.
type Registry map[string]Factory

// Attempt records one factory call made during selection.
type Attempt struct {
	Candidate Candidate
	// Err is nil for the candidate that was bound.
	Err error
}

// Selector holds one selection problem: which backends exist, in what
// order to try them, and which platform is running.
type Selector struct {
	registry   Registry
	candidates []Candidate
	platform   string
}

// New returns a Selector. A dummy wildcard candidate is appended to
// candidates unless one is already present, and the registry is given a
// dummy factory when it lacks one.
func New(reg Registry, candidates []Candidate, platform string) *Selector {
	r := make(Registry, len(reg)+1)
	for name, f := range reg {
		r[name] = f
	}
	if _, ok := r[NameDummy]; !ok {
		r[NameDummy] = func() (clip.Backend, error) { return clip.Dummy{}, nil }
	}

	cands := make([]Candidate, 0, len(candidates)+1)
	hasDummy := false
	for _, c := range candidates {
		if c.Name == NameDummy && c.Platform == Wildcard {
			hasDummy = true
		}
		cands = append(cands, c)
	}
	if !hasDummy {
		cands = append(cands, Candidate{Platform: Wildcard, Name: NameDummy})
	}

	return &Selector{registry: r, candidates: cands, platform: platform}
}

// Platform returns the platform tag candidates are filtered on.
func (s *Selector) Platform() string { return s.platform }

// Eligible returns the candidates that apply to the platform, in order.
func (s *Selector) Eligible() []Candidate {
	var out []Candidate
	for _, c := range s.candidates {
		if c.Platform == s.platform || c.Platform == Wildcard {
			out = append(out, c)
		}
	}
	return out
}

// Select returns the first eligible backend that constructs successfully.
func (s *Selector) Select() clip.Backend {
	b, _ := s.Trace()
	return b
}

// Trace is Select that also reports every factory call it made, in order.
// The last attempt is the bound candidate unless the registry could not
// build anything, in which case clip.Dummy is returned.
func (s *Selector) Trace() (clip.Backend, []Attempt) {
	var attempts []Attempt
	for _, c := range s.Eligible() {
		b, err := s.build(c)
		attempts = append(attempts, Attempt{Candidate: c, Err: err})
		if err != nil {
			slog.Debug("clipboard backend skipped", "candidate", c.String(), "err", err)
			continue
		}
		slog.Debug("clipboard backend selected", "candidate", c.String(), "backend", b.Name())
		return b, attempts
	}
	slog.Debug("no clipboard backend could be built, using dummy", "platform", s.platform)
	return clip.Dummy{}, attempts
}

func (s *Selector) build(c Candidate) (b clip.Backend, err error) {
	f, ok := s.registry[c.Name]
	if !ok || f == nil {
		return nil, fmt.Errorf("%w: %q is not registered", clip.ErrBackendUnavailable, c.Name)
	}
	defer func() {
		if r := recover(); r != nil {
			b, err = nil, fmt.Errorf("%w: %s panicked: %v", clip.ErrBackendUnavailable, c.Name, r)
		}
	}()
	b, err = f()
	if err == nil && b == nil {
		err = fmt.Errorf("%w: %s returned no backend", clip.ErrBackendUnavailable, c.Name)
	}
	return b, err
}
