package post

import (
	"fmt"
	"strings"
)

// Producer computes the next state from the current one.
// It is an alias so producers can be handed straight to the history.
type Producer = func(State) State

// SetText replaces the post text.
func SetText(text string) Producer {
	return func(s State) State {
		s.PostText = text
		return s
	}
}

// SetUsername replaces the displayed handle.
func SetUsername(name string) Producer {
	return func(s State) State {
		s.Username = name
		return s
	}
}

// SetTextColor sets the text colour.
func SetTextColor(color string) Producer {
	return func(s State) State {
		s.Style.TextColor = color
		return s
	}
}

// SetFont sets the font family class.
func SetFont(font string) Producer {
	return func(s State) State {
		s.Style.FontFamily = font
		return s
	}
}

// SetFontSize sets the font size in pixels.
func SetFontSize(px int) Producer {
	return func(s State) State {
		s.Style.FontSize = px
		return s
	}
}

// SetPadding sets the canvas padding in pixels.
func SetPadding(px int) Producer {
	return func(s State) State {
		s.Style.Padding = px
		return s
	}
}

// SetAspectRatio sets the canvas aspect ratio class.
func SetAspectRatio(ratio string) Producer {
	return func(s State) State {
		s.Style.AspectRatio = ratio
		return s
	}
}

// SetAlign sets the text alignment.
func SetAlign(align TextAlign) Producer {
	return func(s State) State {
		s.Style.TextAlign = align
		return s
	}
}

// SetBackground sets a solid or gradient background.
// Any background image is removed and the image filters are reset.
func SetBackground(background string) Producer {
	return func(s State) State {
		s.Style.Background = background
		s.BackgroundImage = ""
		s.Filters = DefaultFilters()
		return s
	}
}

// SetGradient updates the gradient builder and uses it as the background.
func SetGradient(g Gradient) Producer {
	return func(s State) State {
		s.Gradient = g
		s.Style.Background = g.CSS()
		s.BackgroundImage = ""
		return s
	}
}

// ResetBackground restores the default background, gradient and filters.
func ResetBackground() Producer {
	return func(s State) State {
		s.BackgroundImage = ""
		s.Filters = DefaultFilters()
		s.Style.Background = Backgrounds[0].Value
		s.Gradient = DefaultGradient()
		return s
	}
}

// FilterName identifies one image filter.
type FilterName string

// Filter names.
const (
	FilterGrayscale  FilterName = "grayscale"
	FilterSepia      FilterName = "sepia"
	FilterInvert     FilterName = "invert"
	FilterBrightness FilterName = "brightness"
	FilterContrast   FilterName = "contrast"
)

// Get returns the value of a filter.
func (f Filters) Get(name FilterName) (int, error) {
	switch name {
	case FilterGrayscale:
		return f.Grayscale, nil
	case FilterSepia:
		return f.Sepia, nil
	case FilterInvert:
		return f.Invert, nil
	case FilterBrightness:
		return f.Brightness, nil
	case FilterContrast:
		return f.Contrast, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFilter, name)
}

// With returns a copy of f with one filter changed.
func (f Filters) With(name FilterName, value int) (Filters, error) {
	switch name {
	case FilterGrayscale:
		f.Grayscale = value
	case FilterSepia:
		f.Sepia = value
	case FilterInvert:
		f.Invert = value
	case FilterBrightness:
		f.Brightness = value
	case FilterContrast:
		f.Contrast = value
	default:
		return f, fmt.Errorf("%w: %q", ErrUnknownFilter, name)
	}
	return f, nil
}

// SetFilter sets one filter percentage. Unknown names leave the state unchanged.
func SetFilter(name FilterName, value int) Producer {
	return func(s State) State {
		if f, err := s.Filters.With(name, value); err == nil {
			s.Filters = f
		}
		return s
	}
}

// ToggleFilter flips grayscale, sepia or invert between 0 and 100.
// Other filters are not toggles and are left unchanged.
func ToggleFilter(name FilterName) Producer {
	return func(s State) State {
		switch name {
		case FilterGrayscale, FilterSepia, FilterInvert:
		default:
			return s
		}
		cur, _ := s.Filters.Get(name)
		next := filterToggleOnPercent
		if cur > 0 {
			next = 0
		}
		s.Filters, _ = s.Filters.With(name, next)
		return s
	}
}

// ImageSlot identifies one of the four image fields.
type ImageSlot string

// Image slots.
const (
	SlotProfile    ImageSlot = "profile"
	SlotBackground ImageSlot = "background"
	SlotContent    ImageSlot = "content"
	SlotTextFill   ImageSlot = "textFill"
)

// ParseImageSlot parses an image slot name.
func ParseImageSlot(name string) (ImageSlot, error) {
	switch ImageSlot(name) {
	case SlotProfile, SlotBackground, SlotContent, SlotTextFill:
		return ImageSlot(name), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownImageSlot, name)
}

// Image returns the data URL held by a slot.
func (s State) Image(slot ImageSlot) string {
	switch slot {
	case SlotProfile:
		return s.ProfilePic
	case SlotBackground:
		return s.BackgroundImage
	case SlotContent:
		return s.ContentImage
	case SlotTextFill:
		return s.TextFillImage
	}
	return ""
}

func (s State) withImage(slot ImageSlot, dataURL string) State {
	switch slot {
	case SlotProfile:
		s.ProfilePic = dataURL
	case SlotBackground:
		s.BackgroundImage = dataURL
	case SlotContent:
		s.ContentImage = dataURL
	case SlotTextFill:
		s.TextFillImage = dataURL
	}
	return s
}

// SetImage stores an uploaded image.
// A new background image resets the filters; a text-fill image makes the
// text colour transparent so the image shows through the glyphs.
func SetImage(slot ImageSlot, dataURL string) Producer {
	return func(s State) State {
		s = s.withImage(slot, dataURL)
		switch slot {
		case SlotBackground:
			s.Filters = DefaultFilters()
		case SlotTextFill:
			if dataURL != "" {
				s.Style.TextColor = TransparentText
			}
		}
		return s
	}
}

// ClearImage removes an image.
// Clearing the background image falls back to a dark solid background;
// clearing the text fill restores white text.
func ClearImage(slot ImageSlot) Producer {
	return func(s State) State {
		s = s.withImage(slot, "")
		switch slot {
		case SlotBackground:
			s.Filters = DefaultFilters()
			s.Style.Background = ClearedBackground
		case SlotTextFill:
			s.Style.TextColor = DefaultTextColor
		}
		return s
	}
}

// SetContentImageOptions replaces the content image layout.
func SetContentImageOptions(opts ContentImageOptions) Producer {
	return func(s State) State {
		s.ImageLayout = opts
		return s
	}
}

// SetEffect replaces the effect record of e's kind.
func SetEffect(e Effect) Producer {
	return func(s State) State {
		s.Style = s.Style.WithEffect(e)
		return s
	}
}

// ToggleEffect switches one effect on or off, keeping its settings.
func ToggleEffect(kind EffectKind, on bool) Producer {
	return func(s State) State {
		e, ok := s.Style.Effect(kind)
		if !ok {
			return s
		}
		s.Style = s.Style.WithEffect(e.withEnabled(on))
		return s
	}
}

// ApplyTemplate replaces the style options with a template's and drops
// the background, content and text-fill images.
func ApplyTemplate(t Template) Producer {
	return func(s State) State {
		s.Style = t.Style
		s.BackgroundImage = ""
		s.ContentImage = ""
		s.TextFillImage = ""
		s.Filters = DefaultFilters()
		return s
	}
}

// ApplyStyle overlays a preset's style on the state, keeping text and username.
func ApplyStyle(st StyleState) Producer {
	return func(s State) State {
		return State{
			PostText:        s.PostText,
			Username:        s.Username,
			ProfilePic:      st.ProfilePic,
			BackgroundImage: st.BackgroundImage,
			ContentImage:    st.ContentImage,
			TextFillImage:   st.TextFillImage,
			Style:           st.Style,
			Filters:         st.Filters,
			Gradient:        st.Gradient,
			ImageLayout:     st.ImageLayout,
		}
	}
}

// BackgroundKind classifies a background value for the editor tabs.
func BackgroundKind(s State) string {
	switch {
	case s.BackgroundImage != "":
		return "image"
	case strings.HasPrefix(s.Style.Background, "linear-gradient"):
		return "gradient"
	case strings.HasPrefix(s.Style.Background, "#"):
		return "solid"
	default:
		return "presets"
	}
}
