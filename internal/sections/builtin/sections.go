package builtin

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/storefront/internal/domain/schema"
	"github.com/alexisbeaulieu97/storefront/internal/sections"
)

func meta(name, description string) sections.Metadata {
	return sections.Metadata{Name: name, Version: "1.0.0", APIVersion: "^1.0", Description: description}
}

// AnnouncementBar is a one-line banner above the page.
func AnnouncementBar() *sections.SectionType {
	return &sections.SectionType{
		Metadata: meta("AnnouncementBar", "Single line of promotional text"),
		Schema: schema.Schema{
			"message":         &schema.TextField{Common: label("Message"), DefaultValue: "Announce something here", MaxLength: 120},
			"backgroundColor": &schema.ColorField{Common: grouped("Background", "Colours", 1), Swatches: swatches},
			"textColor":       &schema.ColorField{Common: grouped("Text", "Colours", 2), Swatches: swatches},
			"dismissible":     &schema.BooleanField{Common: label("Dismissible")},
		},
		Renderer: sections.RenderFunc(func(ctx sections.RenderContext) (string, error) {
			line := text(ctx.Data, "message")
			if flag(ctx.Data, "dismissible") {
				line += "  ✕"
			}
			return block(ctx, ctx.Style.Colors.Background.Primary, ctx.Style.Colors.Text.Primary).
				Align(lipgloss.Center).
				Render(line), nil
		}),
	}
}

// Hero is the large banner with a call to action.
func Hero() *sections.SectionType {
	return &sections.SectionType{
		Metadata: meta("Hero", "Headline, supporting text and a call to action"),
		Schema: schema.Schema{
			"title":       &schema.TextField{Common: label("Title"), DefaultValue: "Welcome", MaxLength: 80},
			"subtitle":    &schema.TextareaField{Common: label("Subtitle"), Rows: 3},
			"buttonLabel": &schema.TextField{Common: grouped("Button label", "Button", 1), DefaultValue: "Shop now"},
			"buttonLink":  &schema.TextField{Common: grouped("Button link", "Button", 2), DefaultValue: "/products"},
			"buttonStyle": &schema.SelectField{
				Common:       grouped("Button style", "Button", 3),
				DefaultValue: "primary",
				Options: []schema.Option{
					{Value: "primary", Label: "Primary"},
					{Value: "secondary", Label: "Secondary"},
					{Value: "tertiary", Label: "Tertiary"},
				},
			},
			"alignment": &schema.SelectField{
				Common:       label("Alignment"),
				DefaultValue: "center",
				Options:      []schema.Option{{Value: "left", Label: "Left"}, {Value: "center", Label: "Center"}},
			},
			"height":          &schema.SliderField{Common: label("Height"), DefaultValue: 5, Min: 3, Max: 12, Step: 1},
			"backgroundColor": &schema.ColorField{Common: grouped("Background", "Colours", 1), Swatches: swatches},
		},
		Renderer: sections.RenderFunc(func(ctx sections.RenderContext) (string, error) {
			colors := ctx.Style.Colors.Buttons.Primary
			switch text(ctx.Data, "buttonStyle") {
			case "secondary":
				colors = ctx.Style.Colors.Buttons.Secondary
			case "tertiary":
				colors = ctx.Style.Colors.Buttons.Tertiary
			}

			lines := []string{heading(text(ctx.Data, "title"))}
			if sub := text(ctx.Data, "subtitle"); sub != "" {
				lines = append(lines, sub)
			}
			if caption := text(ctx.Data, "buttonLabel"); caption != "" {
				lines = append(lines, "", button(colors, caption))
			}

			align := lipgloss.Center
			if text(ctx.Data, "alignment") == "left" {
				align = lipgloss.Left
			}
			return block(ctx, ctx.Style.Colors.Background.Primary, ctx.Style.Colors.Text.Primary).
				Height(int(number(ctx.Data, "height"))).
				Align(align).
				Render(lipgloss.JoinVertical(align, lines...)), nil
		}),
	}
}

// ProductGrid lists featured products in columns.
func ProductGrid() *sections.SectionType {
	product := &schema.ObjectField{
		Common: label("Product"),
		Fields: schema.Schema{
			"title": &schema.TextField{Common: label("Title"), DefaultValue: "Product"},
			"price": &schema.NumberField{Common: label("Price"), Min: ptr(0)},
			"href":  &schema.TextField{Common: label("Link")},
		},
	}
	return &sections.SectionType{
		Metadata: meta("ProductGrid", "Grid of product cards"),
		Schema: schema.Schema{
			"heading":   &schema.TextField{Common: label("Heading"), DefaultValue: "Products"},
			"columns":   &schema.NumberField{Common: label("Columns"), DefaultValue: 4, Min: ptr(1), Max: ptr(6), Integer: true},
			"showPrice": &schema.BooleanField{Common: label("Show price"), DefaultValue: true},
			"products": &schema.ArrayField{
				Common: label("Products"),
				Item:   product,
				DefaultValue: []any{
					map[string]any{"title": "Classic tee", "price": 25, "href": "/products/tee"},
					map[string]any{"title": "Canvas tote", "price": 18, "href": "/products/tote"},
				},
				MaxItems: 24,
			},
		},
		Renderer: sections.RenderFunc(func(ctx sections.RenderContext) (string, error) {
			columns := int(number(ctx.Data, "columns"))
			if columns < 1 {
				columns = 1
			}
			cellWidth := 0
			if ctx.Width > 0 {
				cellWidth = ctx.Width/columns - 2
			}
			card := lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(ctx.Style.Colors.Main)).
				Padding(0, 1)
			if cellWidth > 4 {
				card = card.Width(cellWidth)
			}

			var rows []string
			var row []string
			for _, p := range items(ctx.Data, "products") {
				body := text(p, "title")
				if flag(ctx.Data, "showPrice") {
					body += fmt.Sprintf("\n$%.2f", number(p, "price"))
				}
				row = append(row, card.Render(body))
				if len(row) == columns {
					rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
					row = nil
				}
			}
			if len(row) > 0 {
				rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			}

			out := append([]string{heading(text(ctx.Data, "heading"))}, rows...)
			return block(ctx, ctx.Style.Colors.Background.Primary, ctx.Style.Colors.Text.Primary).
				Render(lipgloss.JoinVertical(lipgloss.Left, out...)), nil
		}),
	}
}

// Newsletter is an email sign-up strip.
func Newsletter() *sections.SectionType {
	return &sections.SectionType{
		Metadata: meta("Newsletter", "Email sign-up form"),
		Schema: schema.Schema{
			"title":       &schema.TextField{Common: label("Title"), DefaultValue: "Join our newsletter"},
			"description": &schema.TextareaField{Common: label("Description"), DefaultValue: "News and offers, once a month.", Rows: 2},
			"placeholder": &schema.TextField{Common: label("Input placeholder"), DefaultValue: "you@example.com"},
			"buttonLabel": &schema.TextField{Common: label("Button label"), DefaultValue: "Subscribe"},
		},
		Renderer: sections.RenderFunc(func(ctx sections.RenderContext) (string, error) {
			input := lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color(ctx.Style.Colors.Text.Secondary)).
				Foreground(lipgloss.Color(ctx.Style.Colors.Text.Secondary)).
				Render(text(ctx.Data, "placeholder"))
			form := lipgloss.JoinHorizontal(lipgloss.Center, input, " ", button(ctx.Style.Colors.Buttons.Primary, text(ctx.Data, "buttonLabel")))
			return block(ctx, ctx.Style.Colors.Background.Secondary, ctx.Style.Colors.Text.Primary).
				Render(lipgloss.JoinVertical(lipgloss.Left, heading(text(ctx.Data, "title")), text(ctx.Data, "description"), form)), nil
		}),
	}
}

// Footer renders columns of link groups.
func Footer() *sections.SectionType {
	link := &schema.ObjectField{
		Common: label("Link"),
		Fields: schema.Schema{
			"label": &schema.TextField{Common: label("Label"), DefaultValue: "Link"},
			"href":  &schema.TextField{Common: label("URL"), DefaultValue: "/"},
		},
	}
	linkGroup := &schema.ObjectField{
		Common: label("Column"),
		Fields: schema.Schema{
			"title": &schema.TextField{Common: label("Title"), DefaultValue: "Column"},
			"links": &schema.ArrayField{Common: label("Links"), Item: link, MaxItems: 12},
		},
	}
	return &sections.SectionType{
		Metadata: meta("Footer", "Link columns and copyright line"),
		Schema: schema.Schema{
			"copyright":       &schema.TextField{Common: label("Copyright"), DefaultValue: "© Your store"},
			"showSocial":      &schema.BooleanField{Common: label("Show social links"), DefaultValue: true},
			"backgroundColor": &schema.ColorField{Common: grouped("Background", "Colours", 1), Swatches: swatches},
			"textColor":       &schema.ColorField{Common: grouped("Text", "Colours", 2), Swatches: swatches},
			"columns":         &schema.ArrayField{Common: label("Columns"), Item: linkGroup, MaxItems: 4},
		},
		FieldOrder: []string{"columns", "copyright", "showSocial"},
		Renderer: sections.RenderFunc(func(ctx sections.RenderContext) (string, error) {
			var cols []string
			for _, column := range items(ctx.Data, "columns") {
				lines := []string{heading(text(column, "title"))}
				for _, l := range items(column, "links") {
					lines = append(lines, text(l, "label"))
				}
				cols = append(cols, lipgloss.NewStyle().MarginRight(4).Render(strings.Join(lines, "\n")))
			}

			parts := []string{}
			if len(cols) > 0 {
				parts = append(parts, lipgloss.JoinHorizontal(lipgloss.Top, cols...), "")
			}
			bottom := text(ctx.Data, "copyright")
			if flag(ctx.Data, "showSocial") {
				bottom += "   ◎ ◉ ◈"
			}
			parts = append(parts, bottom)
			return block(ctx, ctx.Style.Colors.Background.Primary, ctx.Style.Colors.Text.Primary).
				Render(lipgloss.JoinVertical(lipgloss.Left, parts...)), nil
		}),
	}
}
