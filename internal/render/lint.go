package render

import (
	"context"
	"errors"
	"sync"

	"github.com/alexisbeaulieu97/storefront/internal/domain/page"
	"github.com/alexisbeaulieu97/storefront/internal/domain/schema"
	"github.com/alexisbeaulieu97/storefront/internal/sections"
	sferrors "github.com/alexisbeaulieu97/storefront/pkg/errors"
)

// Resolver resolves section types synchronously. *sections.Resolver satisfies it.
type Resolver interface {
	Resolve(ctx context.Context, sectionType, prefix string) (*sections.SectionType, error)
}

// Issue is one lint finding.
type Issue struct {
	Page      string
	SectionID string
	Type      string
	Field     string
	Message   string
}

// Linter checks persisted section data against the JSON Schema of each
// section type. Compiled schemas are cached per (prefix, type).
type Linter struct {
	resolver Resolver

	mu       sync.Mutex
	compiled map[string]*schema.Compiled
}

// NewLinter creates a linter resolving types through r.
func NewLinter(r Resolver) *Linter {
	return &Linter{resolver: r, compiled: make(map[string]*schema.Compiled)}
}

// Lint checks every page of theme. Structural problems are reported as one
// theme-level issue and stop the walk.
func (l *Linter) Lint(ctx context.Context, theme page.Theme) []Issue {
	if err := theme.Validate(); err != nil {
		return []Issue{{Message: err.Error()}}
	}

	var issues []Issue
	for _, p := range theme.Pages {
		for _, section := range p.Body {
			if err := ctx.Err(); err != nil {
				return append(issues, Issue{Message: err.Error()})
			}
			issue, ok := l.lintSection(ctx, theme.ComponentPathPrefix, p, section)
			if ok {
				issues = append(issues, issue)
			}
		}
	}
	return issues
}

func (l *Linter) lintSection(ctx context.Context, prefix string, p page.Page, section page.Section) (Issue, bool) {
	issue := Issue{Page: p.Name, SectionID: section.ID, Type: section.Type}
	if !p.Allows(section.Type) {
		issue.Message = "section type is not allowed on this page"
		return issue, true
	}

	compiled, err := l.compile(ctx, prefix, section.Type)
	if err != nil {
		issue.Message = err.Error()
		return issue, true
	}
	if err := compiled.Validate(section.Data); err != nil {
		var ve *sferrors.ValidationError
		if errors.As(err, &ve) {
			issue.Field = ve.Field
			issue.Message = ve.Message
		} else {
			issue.Message = err.Error()
		}
		return issue, true
	}
	return issue, false
}

func (l *Linter) compile(ctx context.Context, prefix, sectionType string) (*schema.Compiled, error) {
	key := prefix + "/" + sectionType
	l.mu.Lock()
	compiled, ok := l.compiled[key]
	l.mu.Unlock()
	if ok {
		return compiled, nil
	}

	impl, err := l.resolver.Resolve(ctx, sectionType, prefix)
	if err != nil {
		return nil, err
	}
	compiled, err = schema.Compile(sectionType, impl.Schema)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.compiled[key] = compiled
	l.mu.Unlock()
	return compiled, nil
}
