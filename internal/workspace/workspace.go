// Package workspace persists the builder's working copy between sessions. The
// store itself never touches disk; hosts load a Document, dispatch it as a
// SelectTheme command and save the resulting state back.
package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/alexisbeaulieu97/storefront/internal/builder"
	"github.com/alexisbeaulieu97/storefront/internal/domain/page"
	"github.com/alexisbeaulieu97/storefront/internal/style"
	sferrors "github.com/alexisbeaulieu97/storefront/pkg/errors"
)

// Version is the document format written by Save.
const Version = "1.0"

// ErrNoWorkspace reports a missing workspace file.
var ErrNoWorkspace = errors.New("workspace not initialised")

// Document is the persisted form of a builder session. Theme.Pages holds the
// working pages, not the catalog templates.
type Document struct {
	Version   string          `json:"version"`
	Theme     page.Theme      `json:"theme"`
	Settings  *style.Settings `json:"settings,omitempty"`
	Page      string          `json:"page,omitempty"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// FromState captures the working copy of state. It fails when no theme is
// selected.
func FromState(state builder.State) (Document, error) {
	theme, ok := state.Snapshot()
	if !ok {
		return Document{}, sferrors.NewValidationError("theme", "no theme selected", nil)
	}

	doc := Document{Version: Version, Theme: theme}
	if state.Settings != nil {
		settings := *state.Settings
		doc.Settings = &settings
	}
	if p, ok := state.SelectedPage(); ok {
		doc.Page = p.Name
	}
	return doc, nil
}

// Command returns the SelectTheme command that restores the document.
func (d Document) Command() builder.SelectTheme {
	return builder.SelectTheme{Theme: d.Theme.Clone(), Settings: d.Settings, Page: d.Page}
}

// Validate checks the format version and the theme.
func (d Document) Validate() error {
	if d.Version == "" {
		return sferrors.NewValidationError("version", "version is required", nil)
	}
	v, err := semver.NewVersion(d.Version)
	if err != nil {
		return sferrors.NewValidationError("version", fmt.Sprintf("invalid version %q", d.Version), err)
	}
	if v.Major() != semver.MustParse(Version).Major() {
		return sferrors.NewValidationError("version", fmt.Sprintf("unsupported workspace version %s", d.Version), nil)
	}
	if err := d.Theme.Validate(); err != nil {
		return err
	}
	if d.Settings != nil {
		if err := d.Settings.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Workspace reads and writes one workspace file.
type Workspace struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

// New returns a workspace stored at path.
func New(path string) *Workspace {
	return &Workspace{path: path, now: time.Now}
}

// Path returns the workspace file location.
func (w *Workspace) Path() string { return w.path }

// Exists reports whether the workspace file is present.
func (w *Workspace) Exists() bool {
	_, err := os.Stat(w.path)
	return err == nil
}

// Load reads and validates the workspace.
func (w *Workspace) Load() (Document, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	data, err := os.ReadFile(w.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Document{}, fmt.Errorf("%w: %s", ErrNoWorkspace, w.path)
		}
		return Document{}, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, sferrors.NewParseError(w.path, 0, err)
	}
	if err := doc.Validate(); err != nil {
		return Document{}, fmt.Errorf("%s: %w", w.path, err)
	}
	return doc, nil
}

// Encode renders doc the way Save writes it.
func Encode(doc Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal workspace: %w", err)
	}
	return append(data, '\n'), nil
}

// Save writes doc atomically and returns it with UpdatedAt set.
func (w *Workspace) Save(doc Document) (Document, error) {
	if doc.Version == "" {
		doc.Version = Version
	}
	if err := doc.Validate(); err != nil {
		return Document{}, err
	}
	doc.UpdatedAt = w.now().UTC()

	data, err := Encode(doc)
	if err != nil {
		return Document{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return Document{}, fmt.Errorf("failed to create workspace directory: %w", err)
	}

	tmpPath := w.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return Document{}, fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := os.Rename(tmpPath, w.path); err != nil {
		_ = os.Remove(tmpPath)
		return Document{}, fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return doc, nil
}

// SaveState is FromState followed by Save.
func (w *Workspace) SaveState(state builder.State) (Document, error) {
	doc, err := FromState(state)
	if err != nil {
		return Document{}, err
	}
	return w.Save(doc)
}
