package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dshills/postforge/internal/persist"
	"github.com/dshills/postforge/internal/post"
	"github.com/dshills/postforge/internal/post/style"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#4F46E5", Dark: "#A5B4FC"})
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})
	mutedStyle = lipgloss.NewStyle().Faint(true)
	errorStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"})
	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#4ADE80"})

	statusStyles = map[persist.SaveStatus]lipgloss.Style{
		persist.StatusUnsaved: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}),
		persist.StatusSaving: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"}),
		persist.StatusSaved: okStyle,
	}
)

// renderStatus renders the autosave indicator. Idle renders empty.
func renderStatus(s persist.SaveStatus) string {
	label := s.Label()
	if label == "" {
		return ""
	}
	st, ok := statusStyles[s]
	if !ok {
		return label
	}
	return st.Render(label)
}

func renderError(err error) string {
	return errorStyle.Render("error: ") + err.Error()
}

// swatch renders a colour sample when value is a plain hex colour.
func swatch(value string) string {
	if !strings.HasPrefix(value, "#") {
		return ""
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(value)).Render("  ") + " "
}

func field(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render(fmt.Sprintf("%-12s", label)), value)
}

// printState prints the post and the CSS it maps to.
func printState(w io.Writer, s post.State) {
	fmt.Fprintln(w, titleStyle.Render("Post"))
	field(w, "text", fmt.Sprintf("%q", s.PostText))
	field(w, "username", s.Username)
	field(w, "font", fmt.Sprintf("%s %dpx", optionLabel(post.Fonts, s.Style.FontFamily), s.Style.FontSize))
	field(w, "color", swatch(s.Style.TextColor)+s.Style.TextColor)
	field(w, "align", string(s.Style.TextAlign))
	field(w, "aspect", optionLabel(post.AspectRatios, s.Style.AspectRatio))
	field(w, "padding", fmt.Sprintf("%dpx", s.Style.Padding))
	field(w, "background", swatch(s.Style.Background)+optionLabel(post.Backgrounds, s.Style.Background)+
		mutedStyle.Render(" ("+post.BackgroundKind(s)+")"))

	var images []string
	for _, slot := range []post.ImageSlot{post.SlotProfile, post.SlotBackground, post.SlotContent, post.SlotTextFill} {
		if s.Image(slot) != "" {
			images = append(images, string(slot))
		}
	}
	if len(images) > 0 {
		field(w, "images", strings.Join(images, ", "))
	}
	if s.Filters != post.DefaultFilters() {
		field(w, "filters", style.Filter(s.Filters))
	}

	var effects []string
	for _, k := range post.EffectKinds {
		if e, ok := s.Style.Effect(k); ok && e.IsEnabled() {
			effects = append(effects, string(k))
		}
	}
	if len(effects) > 0 {
		field(w, "effects", strings.Join(effects, ", "))
	}

	canvas, text := style.Classes(s)
	fmt.Fprintln(w, titleStyle.Render("CSS"))
	field(w, "container", style.Inline(style.Container(s)))
	if bg := style.Background(s); len(bg) > 0 {
		field(w, "image layer", style.Inline(bg))
	}
	field(w, "text", style.Inline(style.Text(s)))
	field(w, "classes", strings.Join(append(canvas, text...), " "))
}

func optionLabel(options []post.Option, value string) string {
	if o, ok := post.LookupOption(options, value); ok && o.Label != value {
		return o.Label + mutedStyle.Render(" "+value)
	}
	return value
}
