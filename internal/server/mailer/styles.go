package mailer

import (
	"strconv"
	"strings"
)

// PaperType selects the background colour of a text letter.
type PaperType int

const (
	PaperDefault PaperType = iota
	PaperParchment
	PaperRose
	PaperLavender
	PaperMint
	PaperSky
)

// Style selects the font family of a text letter.
type Style int

const (
	StyleDefault Style = iota
	StyleRomantic
	StyleClassic
	StyleModern
	StyleVintage
	StyleHandwritten
)

var paperNames = map[PaperType]string{
	PaperParchment: "parchment",
	PaperRose:      "rose",
	PaperLavender:  "lavender",
	PaperMint:      "mint",
	PaperSky:       "sky",
}

var paperColors = map[PaperType]string{
	PaperParchment: "#f8f1e0",
	PaperRose:      "#ffe4e9",
	PaperLavender:  "#ede7f6",
	PaperMint:      "#e6f4ea",
	PaperSky:       "#e3f2fd",
}

var styleNames = map[Style]string{
	StyleRomantic:    "romantic",
	StyleClassic:     "classic",
	StyleModern:      "modern",
	StyleVintage:     "vintage",
	StyleHandwritten: "handwritten",
}

var styleFonts = map[Style]string{
	StyleRomantic:    "'Dancing Script', cursive",
	StyleClassic:     "Georgia, serif",
	StyleModern:      "'Helvetica Neue', Helvetica, sans-serif",
	StyleVintage:     "'Courier New', monospace",
	StyleHandwritten: "'Caveat', cursive",
}

// ParsePaperType accepts the numeric form ("1".."5") or the name.
// Anything else maps to PaperDefault.
func ParsePaperType(s string) PaperType {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		p := PaperType(n)
		if _, ok := paperNames[p]; ok {
			return p
		}
		return PaperDefault
	}
	for p, name := range paperNames {
		if name == s {
			return p
		}
	}
	return PaperDefault
}

// ParseStyle accepts the numeric form ("1".."5") or the name.
// Anything else maps to StyleDefault.
func ParseStyle(s string) Style {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		st := Style(n)
		if _, ok := styleNames[st]; ok {
			return st
		}
		return StyleDefault
	}
	for st, name := range styleNames {
		if name == s {
			return st
		}
	}
	return StyleDefault
}

func (p PaperType) String() string {
	if name, ok := paperNames[p]; ok {
		return name
	}
	return "default"
}

// Color is the CSS background colour for the paper.
func (p PaperType) Color() string {
	if c, ok := paperColors[p]; ok {
		return c
	}
	return "#ffffff"
}

func (s Style) String() string {
	if name, ok := styleNames[s]; ok {
		return name
	}
	return "default"
}

// Font is the CSS font-family for the style.
func (s Style) Font() string {
	if f, ok := styleFonts[s]; ok {
		return f
	}
	return "Arial, sans-serif"
}
