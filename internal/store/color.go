package store

import (
	"fmt"
	"strconv"
	"strings"
)

// Color identifies the display color of a saved database. The numbers are
// kept stable because they are written to the store file.
type Color int

const (
	Blue    Color = 1
	Yellow  Color = 2
	Green   Color = 3
	Magenta Color = 5
	Cyan    Color = 6
	Red     Color = 7
)

// DefaultColor is used for new databases and unknown color ids.
const DefaultColor = Green

// ColorOption is a named palette entry.
type ColorOption struct {
	Name  string
	Color Color
}

// Palette lists the selectable colors in menu order.
var Palette = []ColorOption{
	{"Green", Green},
	{"Blue", Blue},
	{"Red", Red},
	{"Yellow", Yellow},
	{"Cyan", Cyan},
	{"Magenta", Magenta},
}

// Valid reports whether c is in the palette.
func (c Color) Valid() bool {
	for _, o := range Palette {
		if o.Color == c {
			return true
		}
	}
	return false
}

// OrDefault returns c, or DefaultColor when c is not a palette color.
func (c Color) OrDefault() Color {
	if c.Valid() {
		return c
	}
	return DefaultColor
}

func (c Color) String() string {
	for _, o := range Palette {
		if o.Color == c {
			return o.Name
		}
	}
	return "Default"
}

// ParseColor accepts a palette name, in any case, or its number.
func ParseColor(s string) (Color, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if c := Color(n); c.Valid() {
			return c, nil
		}
	}
	for _, o := range Palette {
		if strings.EqualFold(o.Name, s) {
			return o.Color, nil
		}
	}
	return 0, fmt.Errorf("unknown color %q", s)
}
