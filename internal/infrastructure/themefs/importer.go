package themefs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	logginginfra "github.com/alexisbeaulieu97/storefront/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/storefront/internal/ports"
	"github.com/alexisbeaulieu97/storefront/internal/validation"
	sferrors "github.com/alexisbeaulieu97/storefront/pkg/errors"
)

// ImportOptions describes a theme repository to clone into the themes
// directory.
type ImportOptions struct {
	URL string `validate:"required"`
	// Name is the destination directory; it defaults to the repository name.
	Name   string `validate:"omitempty,section_id"`
	Branch string
	Depth  int `validate:"gte=0"`
}

// Importer clones theme repositories into a themes directory.
type Importer struct {
	root   string
	logger ports.Logger
}

// NewImporter returns an importer writing below root.
func NewImporter(root string, logger ports.Logger) *Importer {
	if logger == nil {
		logger = logginginfra.NewNoOpLogger()
	}
	return &Importer{root: root, logger: logger.With("component", "importer")}
}

// RepositoryName derives a directory name from a clone URL.
func RepositoryName(url string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(url), "/")
	if i := strings.LastIndexAny(trimmed, ":/"); i >= 0 {
		trimmed = trimmed[i+1:]
	}
	return strings.TrimSuffix(trimmed, ".git")
}

// Import clones opts.URL into <root>/<name> and returns the decoded manifest.
// The destination must not exist or be empty; a clone without a theme
// manifest is removed again.
func (i *Importer) Import(ctx context.Context, opts ImportOptions) (ThemeBundle, error) {
	if opts.Name == "" {
		opts.Name = RepositoryName(opts.URL)
	}
	if err := validation.Instance().Struct(opts); err != nil {
		return ThemeBundle{}, validation.Convert(err, "import")
	}

	dest := filepath.Join(i.root, opts.Name)
	if err := ensureEmpty(dest); err != nil {
		return ThemeBundle{}, err
	}

	cloneOpts := &git.CloneOptions{URL: opts.URL, Depth: opts.Depth}
	if opts.Branch != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(opts.Branch)
		cloneOpts.SingleBranch = true
	}

	i.logger.Info(ctx, "cloning theme", "url", opts.URL, "destination", dest, "branch", opts.Branch)
	if _, err := git.PlainCloneContext(ctx, dest, false, cloneOpts); err != nil {
		_ = os.RemoveAll(dest)
		return ThemeBundle{}, fmt.Errorf("clone %s: %w", opts.URL, err)
	}

	bundle, err := LoadManifest(os.DirFS(i.root), path.Join(opts.Name, ManifestName))
	if err != nil {
		_ = os.RemoveAll(dest)
		return ThemeBundle{}, fmt.Errorf("imported repository is not a theme: %w", err)
	}

	i.logger.Info(ctx, "theme imported", "theme", bundle.Theme.ID, "destination", dest)
	return bundle, nil
}

func ensureEmpty(dest string) error {
	entries, err := os.ReadDir(dest)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("inspect %s: %w", dest, err)
	}
	if len(entries) > 0 {
		return sferrors.NewValidationError("name", fmt.Sprintf("destination %s already exists and is not empty", dest), nil)
	}
	return nil
}
