package variety

import "fmt"

type Color string

const (
	ColorRed   Color = "Red"
	ColorWhite Color = "White"
	ColorBlack Color = "Black"
	ColorRose  Color = "Rosé"
)

// Colors lists the accepted values in form order.
var Colors = []Color{ColorRed, ColorWhite, ColorBlack, ColorRose}

// Validate реализует проверку допустимого цвета.
func (c Color) Validate() error {
	switch c {
	case ColorRed, ColorWhite, ColorBlack, ColorRose:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidColor, string(c))
}

// String возвращает строковое представление цвета.
func (c Color) String() string {
	return string(c)
}

// ParseColor accepts a colour name case-insensitively; "Rose" is accepted for "Rosé".
func ParseColor(s string) (Color, error) {
	for _, c := range Colors {
		if equalFold(string(c), s) {
			return c, nil
		}
	}
	if equalFold(s, "rose") {
		return ColorRose, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidColor, s)
}

// Badge returns the badge style used when rendering a colour.
func (c Color) Badge() string {
	switch c {
	case ColorRed:
		return "red"
	case ColorWhite:
		return "yellow"
	default:
		return "purple"
	}
}
