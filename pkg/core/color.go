package core

import "fmt"

// Color is an RGBA colour passed through to the renderer.
type Color struct {
	R, G, B, A uint8
}

// Palette used by the reference scenario.
var (
	ColorRed       = Color{230, 41, 55, 255}
	ColorBlue      = Color{0, 121, 241, 255}
	ColorDarkGreen = Color{0, 117, 44, 255}
	ColorOrange    = Color{255, 161, 0, 255}
	ColorPurple    = Color{200, 122, 255, 255}
	ColorGreen     = Color{0, 228, 48, 255}
	ColorGray      = Color{130, 130, 130, 255}
	ColorWhite     = Color{255, 255, 255, 255}
)

// Hex formats the colour as #rrggbbaa.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// MarshalText encodes the colour as a hex string.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}
