package clip

// Well-known format identifiers.
const (
	FormatText = "text/plain"
	FormatPNG  = "image/png"
)

// textFormats are the identifiers that text-only backends accept as plain
// text. The X11 targets are what xclip and pygame report for a text
// selection.
var textFormats = map[string]struct{}{
	FormatText:                 {},
	"text/plain;charset=utf-8": {},
	"UTF8_STRING":              {},
	"STRING":                   {},
	"TEXT":                     {},
	"COMPOUND_TEXT":            {},
}

// IsText reports whether format names plain text.
func IsText(format string) bool {
	_, ok := textFormats[format]
	return ok
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
