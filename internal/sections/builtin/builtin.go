// Package builtin ships the section library of the bundled "minimal" theme.
package builtin

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/storefront/internal/domain/page"
	"github.com/alexisbeaulieu97/storefront/internal/domain/schema"
	"github.com/alexisbeaulieu97/storefront/internal/sections"
	"github.com/alexisbeaulieu97/storefront/internal/style"
)

// Prefix is the component path prefix of the minimal theme.
const Prefix = "minimal-theme/sections"

// ThemeID identifies the bundled theme.
const ThemeID = "minimal"

// Types returns fresh instances of every built-in section type.
func Types() []*sections.SectionType {
	return []*sections.SectionType{
		AnnouncementBar(),
		Hero(),
		ProductGrid(),
		Newsletter(),
		Footer(),
	}
}

// Register adds every built-in section type to catalog under Prefix.
func Register(catalog *sections.Catalog) error {
	for _, t := range Types() {
		if err := catalog.Register(Prefix, t); err != nil {
			return err
		}
	}
	return nil
}

// NewCatalog returns a catalog holding the built-in library.
func NewCatalog() *sections.Catalog {
	catalog := sections.NewCatalog()
	if err := Register(catalog); err != nil {
		panic(fmt.Sprintf("register built-in sections: %v", err))
	}
	return catalog
}

// MinimalTheme returns the bundled catalog theme with fresh section ids.
func MinimalTheme() page.Theme {
	return page.Theme{
		ID:                  ThemeID,
		Name:                "Minimal",
		Img:                 "themes/minimal/preview.png",
		ComponentPathPrefix: Prefix,
		Pages: []page.Page{
			{
				Name:                "home",
				AllowedSectionTypes: []string{"AnnouncementBar", "Hero", "ProductGrid", "Newsletter", "Footer"},
				Body: []page.Section{
					page.NewSection("AnnouncementBar", "Announcement", map[string]any{"message": "Free shipping on orders over $50"}),
					page.NewSection("Hero", "Hero", map[string]any{"title": "New season", "subtitle": "Fresh arrivals every week", "buttonLabel": "Shop now"}),
					page.NewSection("ProductGrid", "Featured", map[string]any{"heading": "Featured products"}),
					page.NewSection("Footer", "Footer", map[string]any{
						"columns": []any{
							map[string]any{"title": "Shop", "links": []any{
								map[string]any{"label": "All products", "href": "/products"},
								map[string]any{"label": "Sale", "href": "/sale"},
							}},
							map[string]any{"title": "Help", "links": []any{
								map[string]any{"label": "FAQ", "href": "/faq"},
							}},
						},
					}),
				},
			},
			{
				Name:                "product",
				AllowedSectionTypes: []string{"AnnouncementBar", "ProductGrid", "Newsletter", "Footer"},
				Body: []page.Section{
					page.NewSection("ProductGrid", "Related", map[string]any{"heading": "You may also like", "columns": 3}),
					page.NewSection("Newsletter", "Newsletter", nil),
					page.NewSection("Footer", "Footer", nil),
				},
			},
		},
	}
}

// MinimalSettings returns the theme settings bundled with MinimalTheme. Only
// the leaves the theme cares about are set; the rest cascade from defaults.
func MinimalSettings() style.Settings {
	var s style.Settings
	s.Colors.Main = "#2d2d2d"
	s.Colors.Buttons.Primary.Background = "#2d2d2d"
	s.Colors.Buttons.Primary.Hover = "#000000"
	s.Fonts.Headings = "Helvetica Neue"
	return s
}

var swatches = []string{"#ffffff", "#f5f5f5", "#111111", "#2d2d2d", "#1f6feb", "#cf222e", "#2da44e"}

func label(text string) schema.Common { return schema.Common{Label: text} }

func grouped(text, group string, order int) schema.Common {
	return schema.Common{Label: text, Group: group, Order: order}
}

func ptr(v float64) *float64 { return &v }

func text(data map[string]any, key string) string {
	s, _ := data[key].(string)
	return s
}

func number(data map[string]any, key string) float64 {
	n, _ := schema.ToFloat(data[key])
	return n
}

func flag(data map[string]any, key string) bool {
	b, _ := data[key].(bool)
	return b
}

func items(data map[string]any, key string) []map[string]any {
	list, _ := schema.AsList(data[key])
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func block(ctx sections.RenderContext, background, foreground string) lipgloss.Style {
	s := lipgloss.NewStyle().
		Background(lipgloss.Color(background)).
		Foreground(lipgloss.Color(foreground)).
		Padding(0, 1)
	if ctx.Width > 2 {
		s = s.Width(ctx.Width)
	}
	return s
}

func button(colors style.ButtonColors, caption string) string {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(colors.Background)).
		Foreground(lipgloss.Color(colors.Text)).
		Padding(0, 2).
		Render(caption)
}

func heading(value string) string {
	return lipgloss.NewStyle().Bold(true).Render(strings.ToUpper(value))
}
