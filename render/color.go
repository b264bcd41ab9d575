package render

// Color identifies one of the fixed beam colors. ColorBlank means "no beam":
// blanked points still occupy buffer slots (travel and dwell) and map to zero
// RGB so the galvo keeps tracing with the laser off.
type Color int

const (
	ColorBlank Color = iota
	ColorRed
	ColorGreen
	ColorBlue
	ColorYellow
	ColorMagenta
	ColorCyan
	ColorWhite
)

// RGB expands a color identifier into the device RGB triple. Identifiers
// outside the defined set fall back to white, never an error.
func (c Color) RGB() (r, g, b uint8) {
	switch c {
	case ColorBlank:
		return 0, 0, 0
	case ColorRed:
		return 255, 0, 0
	case ColorGreen:
		return 0, 255, 0
	case ColorBlue:
		return 0, 0, 255
	case ColorYellow:
		return 255, 255, 0
	case ColorMagenta:
		return 255, 0, 255
	case ColorCyan:
		return 0, 255, 255
	case ColorWhite:
		return 255, 255, 255
	default:
		return 255, 255, 255
	}
}
