package post

import "strconv"

// TextAlign is the horizontal alignment of the post text.
type TextAlign string

// Text alignments.
const (
	AlignLeft    TextAlign = "left"
	AlignCenter  TextAlign = "center"
	AlignRight   TextAlign = "right"
	AlignJustify TextAlign = "justify"
)

// Valid reports whether a is a known alignment.
func (a TextAlign) Valid() bool {
	switch a {
	case AlignLeft, AlignCenter, AlignRight, AlignJustify:
		return true
	}
	return false
}

// ImagePosition places the content image relative to the text.
type ImagePosition string

// Content image positions.
const (
	PositionAbove ImagePosition = "above"
	PositionBelow ImagePosition = "below"
)

// Valid reports whether p is a known position.
func (p ImagePosition) Valid() bool {
	return p == PositionAbove || p == PositionBelow
}

// ObjectFit controls how the content image fills its box.
type ObjectFit string

// Object fit modes.
const (
	FitContain ObjectFit = "contain"
	FitCover   ObjectFit = "cover"
)

// Valid reports whether f is a known fit mode.
func (f ObjectFit) Valid() bool {
	return f == FitContain || f == FitCover
}

// Rounding is the corner radius of the content image.
type Rounding string

// Corner roundings.
const (
	RoundNone Rounding = "none"
	RoundLG   Rounding = "lg"
	Round2XL  Rounding = "2xl"
	RoundFull Rounding = "full"
)

// Valid reports whether r is a known rounding.
func (r Rounding) Valid() bool {
	switch r {
	case RoundNone, RoundLG, Round2XL, RoundFull:
		return true
	}
	return false
}

// StyleOptions holds the typography, layout and text effect settings.
type StyleOptions struct {
	Background  string    `json:"background" yaml:"background" validate:"required"`
	TextColor   string    `json:"textColor" yaml:"textColor" validate:"required"`
	FontFamily  string    `json:"fontFamily" yaml:"fontFamily" validate:"required"`
	FontSize    int       `json:"fontSize" yaml:"fontSize" validate:"min=1,max=512"`
	Padding     int       `json:"padding" yaml:"padding" validate:"min=0,max=1024"`
	AspectRatio string    `json:"aspectRatio" yaml:"aspectRatio" validate:"required"`
	TextAlign   TextAlign `json:"textAlign" yaml:"textAlign" validate:"oneof=left center right justify"`

	Shadow    Shadow    `json:"textShadow" yaml:"textShadow"`
	Outline   Outline   `json:"textOutline" yaml:"textOutline"`
	Glow      Glow      `json:"glow" yaml:"glow"`
	Neon      Neon      `json:"neon" yaml:"neon"`
	Animation Animation `json:"animation" yaml:"animation"`
	Advanced  Advanced  `json:"advancedEffect" yaml:"advancedEffect"`
}

// Filters are CSS filter percentages applied to the background image.
type Filters struct {
	Grayscale  int `json:"grayscale" yaml:"grayscale" validate:"min=0,max=100"`
	Sepia      int `json:"sepia" yaml:"sepia" validate:"min=0,max=100"`
	Invert     int `json:"invert" yaml:"invert" validate:"min=0,max=100"`
	Brightness int `json:"brightness" yaml:"brightness" validate:"min=0,max=200"`
	Contrast   int `json:"contrast" yaml:"contrast" validate:"min=0,max=200"`
}

// Gradient is the two-stop linear gradient builder state.
type Gradient struct {
	Start string `json:"start" yaml:"start" validate:"required"`
	End   string `json:"end" yaml:"end" validate:"required"`
	Angle int    `json:"angle" yaml:"angle" validate:"min=0,max=360"`
}

// CSS renders the gradient as a CSS background value.
func (g Gradient) CSS() string {
	return "linear-gradient(" + strconv.Itoa(g.Angle) + "deg, " + g.Start + ", " + g.End + ")"
}

// ContentImageOptions controls the layout of the content image.
type ContentImageOptions struct {
	Position  ImagePosition `json:"position" yaml:"position" validate:"oneof=above below"`
	ObjectFit ObjectFit     `json:"objectFit" yaml:"objectFit" validate:"oneof=contain cover"`
	Rounded   Rounding      `json:"rounded" yaml:"rounded" validate:"oneof=none lg 2xl full"`
}

// State is the complete editable state of a post at one instant.
// Image fields hold data URLs; the empty string means no image.
type State struct {
	PostText string `json:"postText" yaml:"postText" validate:"max=65536"`
	Username string `json:"username" yaml:"username" validate:"max=256"`

	ProfilePic      string `json:"profilePic" yaml:"profilePic" validate:"dataurl"`
	BackgroundImage string `json:"backgroundImage" yaml:"backgroundImage" validate:"dataurl"`
	ContentImage    string `json:"contentImage" yaml:"contentImage" validate:"dataurl"`
	TextFillImage   string `json:"textFillImage" yaml:"textFillImage" validate:"dataurl"`

	Style       StyleOptions        `json:"styleOptions" yaml:"styleOptions"`
	Filters     Filters             `json:"filters" yaml:"filters"`
	Gradient    Gradient            `json:"gradientOptions" yaml:"gradientOptions"`
	ImageLayout ContentImageOptions `json:"contentImageOptions" yaml:"contentImageOptions"`
}

// StyleState is a State without its content fields. Presets store it.
type StyleState struct {
	ProfilePic      string `json:"profilePic" yaml:"profilePic,omitempty" validate:"dataurl"`
	BackgroundImage string `json:"backgroundImage" yaml:"backgroundImage,omitempty" validate:"dataurl"`
	ContentImage    string `json:"contentImage" yaml:"contentImage,omitempty" validate:"dataurl"`
	TextFillImage   string `json:"textFillImage" yaml:"textFillImage,omitempty" validate:"dataurl"`

	Style       StyleOptions        `json:"styleOptions" yaml:"styleOptions"`
	Filters     Filters             `json:"filters" yaml:"filters"`
	Gradient    Gradient            `json:"gradientOptions" yaml:"gradientOptions"`
	ImageLayout ContentImageOptions `json:"contentImageOptions" yaml:"contentImageOptions"`
}

// StyleOnly drops the post text and username.
func (s State) StyleOnly() StyleState {
	return StyleState{
		ProfilePic:      s.ProfilePic,
		BackgroundImage: s.BackgroundImage,
		ContentImage:    s.ContentImage,
		TextFillImage:   s.TextFillImage,
		Style:           s.Style,
		Filters:         s.Filters,
		Gradient:        s.Gradient,
		ImageLayout:     s.ImageLayout,
	}
}
