package selector

import (
	"slices"

	"go.klb.dev/pasteboard/internal/clip"
	"go.klb.dev/pasteboard/internal/daemon"
	"go.klb.dev/pasteboard/internal/platform"
)

// Backend names.
const (
	NameDaemon      = "daemon"
	NameWlClipboard = "wl-clipboard"
	NameXclip       = "xclip"
	NameTermux      = "termux"
	NameNative      = "native"
	NameAtotto      = "atotto"
	NameOSC52       = "osc52"
	NameMemory      = "memory"
	NameBolt        = "bolt"
	NameDummy       = "dummy"
)

// Names lists every backend DefaultRegistry knows, in default priority order.
var Names = []string{
	NameDaemon, NameWlClipboard, NameXclip, NameTermux, NameNative,
	NameAtotto, NameOSC52, NameMemory, NameBolt, NameDummy,
}

// Options tunes Build.
type Options struct {
	// Platform overrides platform.Detect.
	Platform string
	// Backends, when set, replaces the default candidate list. Every entry
	// applies to all platforms.
	Backends []string
	// Exclude removes backends from the candidate list.
	Exclude []string
	// Fallback is tried right before dummy, e.g. "memory" for the daemon.
	Fallback string

	// DaemonAddr is the host:port of a remote daemon. Empty = local IPC.
	DaemonAddr string
	// Token authenticates to a remote daemon.
	Token string
	// Source names this host in the daemon's logs.
	Source string
	// Store is the bolt database path. Empty = clip.DefaultStorePath().
	Store string
}

var platformCandidates = map[string][]string{
	platform.Linux:   {NameWlClipboard, NameXclip, NameNative, NameAtotto},
	platform.MacOSX:  {NameNative, NameAtotto},
	platform.Windows: {NameNative, NameAtotto},
	platform.Android: {NameTermux, NameNative},
	platform.IOS:     {NameNative},
}

// DefaultCandidates returns the priority list for a platform tag: a running
// daemon first, then the platform's own backends, then OSC 52 over SSH,
// then dummy. Entries for other platforms are included so the list reads
// the same everywhere; Select filters them out.
func DefaultCandidates(plat string) []Candidate {
	out := []Candidate{{Platform: Wildcard, Name: NameDaemon}}
	for _, name := range platformCandidates[plat] {
		out = append(out, Candidate{Platform: plat, Name: name})
	}
	return append(out,
		Candidate{Platform: Wildcard, Name: NameOSC52},
		Candidate{Platform: Wildcard, Name: NameDummy},
	)
}

// Candidates applies opts to the default list for plat.
func Candidates(plat string, opts Options) []Candidate {
	var cands []Candidate
	if len(opts.Backends) > 0 {
		for _, name := range opts.Backends {
			cands = append(cands, Candidate{Platform: Wildcard, Name: name})
		}
	} else {
		cands = DefaultCandidates(plat)
	}

	cands = slices.DeleteFunc(cands, func(c Candidate) bool {
		return c.Name != NameDummy && slices.Contains(opts.Exclude, c.Name)
	})

	if opts.Fallback != "" && !slices.ContainsFunc(cands, func(c Candidate) bool { return c.Name == opts.Fallback }) {
		at := slices.IndexFunc(cands, func(c Candidate) bool { return c.Name == NameDummy })
		if at < 0 {
			at = len(cands)
		}
		cands = slices.Insert(cands, at, Candidate{Platform: Wildcard, Name: opts.Fallback})
	}
	return cands
}

// DefaultRegistry returns factories for every backend in Names.
func DefaultRegistry(opts Options) Registry {
	return Registry{
		NameDaemon: func() (clip.Backend, error) {
			return daemon.Dial(daemon.ClientConfig{Addr: opts.DaemonAddr, Token: opts.Token, Source: opts.Source})
		},
		NameWlClipboard: clip.NewWlClipboard,
		NameXclip:       clip.NewXclip,
		NameTermux:      clip.NewTermux,
		NameNative:      clip.NewNative,
		NameAtotto:      clip.NewAtotto,
		NameOSC52:       clip.NewOSC52,
		NameMemory:      func() (clip.Backend, error) { return clip.NewMemory(), nil },
		NameBolt:        func() (clip.Backend, error) { return clip.OpenBolt(opts.Store) },
		NameDummy:       func() (clip.Backend, error) { return clip.Dummy{}, nil },
	}
}

// Build returns the Selector described by opts.
func Build(opts Options) *Selector {
	plat := opts.Platform
	if plat == "" {
		plat = platform.Detect()
	}
	return New(DefaultRegistry(opts), Candidates(plat, opts), plat)
}
