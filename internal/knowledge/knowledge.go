// Package knowledge loads the clinic knowledge sources embedded into the
// full consultation prompt: the main clinic document, the result-video
// document, and any additional plain-text notes found under the data
// directory.
package knowledge

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
)

const (
	// MainFile is the primary clinic knowledge document.
	MainFile = "asmed_bilgi.md"
	// YouTubeFile lists result videos and galleries.
	YouTubeFile = "asmed_youtube_ve_gorseller.md"
)

// Bundle holds the loaded knowledge sources. Bundles are immutable once
// published.
type Bundle struct {
	Knowledge string
	YouTube   string
	Extra     string
}

// Loader lazily reads the knowledge sources from a directory and caches the
// result for the lifetime of the process. Loads are idempotent; concurrent
// first loads may both read the directory and one result wins, which is
// harmless since the sources do not change at runtime.
type Loader struct {
	dir    string
	bundle atomic.Pointer[Bundle]
}

// NewLoader creates a Loader over the given data directory.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Load returns the cached bundle, reading the sources on first use. Every
// source is optional: an unreadable file degrades to an empty string so the
// consultation keeps working on a partial corpus.
func (l *Loader) Load() *Bundle {
	if b := l.bundle.Load(); b != nil {
		return b
	}

	b := &Bundle{
		Knowledge: l.readSource(MainFile),
		YouTube:   l.readSource(YouTubeFile),
		Extra:     l.loadExtra(),
	}
	l.bundle.Store(b)
	slog.Info("Loader.Load: knowledge sources loaded",
		"dir", l.dir,
		"knowledgeBytes", len(b.Knowledge),
		"youtubeBytes", len(b.YouTube),
		"extraBytes", len(b.Extra))
	return b
}

// readSource reads one named source file, degrading to empty on any failure.
func (l *Loader) readSource(name string) string {
	data, err := os.ReadFile(filepath.Join(l.dir, name))
	if err != nil {
		slog.Warn("Loader.readSource: source unreadable, continuing without it", "file", name, "error", err)
		return ""
	}
	return string(data)
}

// loadExtra walks the data directory and concatenates every .txt file in
// lexical path order, each prefixed with a header naming its relative path.
// An unreadable file or directory is skipped.
func (l *Loader) loadExtra() string {
	var paths []string
	err := filepath.WalkDir(l.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fs.SkipDir
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".txt") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		slog.Warn("Loader.loadExtra: walk failed, continuing without extra notes", "dir", l.dir, "error", err)
		return ""
	}
	sort.Strings(paths)

	var b strings.Builder
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("Loader.loadExtra: note unreadable, skipping", "file", path, "error", err)
			continue
		}
		rel, relErr := filepath.Rel(l.dir, path)
		if relErr != nil {
			rel = filepath.Base(path)
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("--- ")
		b.WriteString(rel)
		b.WriteString(" ---\n")
		b.Write(data)
	}
	return b.String()
}
