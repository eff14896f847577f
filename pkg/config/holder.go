package config

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-formflow/pkg/model"
)

// Holder provides thread-safe access to a form document with hot reload.
// A document that fails to parse or compile on reload is discarded and the
// last good definition stays in place.
type Holder struct {
	mu       sync.RWMutex
	doc      Document
	def      *model.Definition
	path     string
	logger   zerolog.Logger
	watcher  *fsnotify.Watcher
	onChange []func(Document)
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewHolder loads the document at path and compiles it. The initial load
// must succeed; hot reload only ever replaces a good definition with a
// newer good one.
func NewHolder(path string, logger zerolog.Logger) (*Holder, error) {
	doc, err := Load(path)
	if err != nil {
		return nil, err
	}
	def, err := doc.Definition()
	if err != nil {
		return nil, fmt.Errorf("config: compile %s: %w", path, err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: absolute path: %w", err)
	}

	return &Holder{
		doc:    doc,
		def:    def,
		path:   absPath,
		logger: logger,
		stopCh: make(chan struct{}),
	}, nil
}

// Document returns the current document.
func (h *Holder) Document() Document {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.doc
}

// Definition returns the current compiled definition.
func (h *Holder) Definition() *model.Definition {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.def
}

// Reload re-reads the document from disk. Parse or compile failures keep
// the old document and report the error.
func (h *Holder) Reload() error {
	h.logger.Info().Str("path", h.path).Msg("reloading form document")

	doc, err := Load(h.path)
	if err != nil {
		h.logger.Error().Err(err).Msg("document reload failed, keeping old document")
		return err
	}
	def, err := doc.Definition()
	if err != nil {
		h.logger.Error().Err(err).Msg("document no longer compiles, keeping old document")
		return fmt.Errorf("config: compile %s: %w", h.path, err)
	}

	h.mu.Lock()
	old := h.doc
	h.doc = doc
	h.def = def
	listeners := append(([]func(Document))(nil), h.onChange...)
	h.mu.Unlock()

	h.logChanges(old, doc)
	for _, fn := range listeners {
		fn(doc)
	}

	h.logger.Info().Msg("form document reloaded")
	return nil
}

// OnChange registers a callback invoked after each successful reload.
func (h *Holder) OnChange(fn func(Document)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onChange = append(h.onChange, fn)
}

// Watch starts watching the document file for changes; writes trigger an
// automatic reload. The directory is watched rather than the file so
// editors that save atomically still trigger events.
func (h *Holder) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: create watcher: %w", err)
	}
	h.watcher = watcher

	dir := filepath.Dir(h.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("config: watch directory: %w", err)
	}

	go h.watchLoop()

	h.logger.Info().Str("path", h.path).Msg("watching form document for changes")
	return nil
}

// Stop stops the file watcher. Safe to call more than once.
func (h *Holder) Stop() {
	h.stopOnce.Do(func() {
		close(h.stopCh)
		if h.watcher != nil {
			h.watcher.Close()
		}
	})
}

func (h *Holder) watchLoop() {
	filename := filepath.Base(h.path)

	for {
		select {
		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			// Atomic saves surface as create, plain saves as write.
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				h.logger.Debug().
					Str("event", event.Op.String()).
					Str("file", event.Name).
					Msg("form document changed")

				if err := h.Reload(); err != nil {
					h.logger.Error().Err(err).Msg("file watch reload failed")
				}
			}

		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.logger.Error().Err(err).Msg("file watcher error")

		case <-h.stopCh:
			return
		}
	}
}

func (h *Holder) logChanges(old, next Document) {
	if old.Title != next.Title {
		h.logger.Info().
			Str("old", old.Title).
			Str("new", next.Title).
			Msg("form title changed")
	}
	if len(old.Fields) != len(next.Fields) {
		h.logger.Info().
			Int("old", len(old.Fields)).
			Int("new", len(next.Fields)).
			Msg("field count changed")
	}
	if old.Theme != next.Theme || old.Variant != next.Variant {
		h.logger.Info().
			Str("old", old.Theme+"/"+old.Variant).
			Str("new", next.Theme+"/"+next.Variant).
			Msg("theme changed")
	}
}
