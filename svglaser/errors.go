package svglaser

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedSize is returned when the physical size of the
	// document can't be derived from its viewBox, width and height.
	ErrUnsupportedSize = errors.New("cannot determine SVG size: viewBox missing or units not set")

	// ErrNonUniformScale is returned when the horizontal and vertical
	// scales of the document differ by more than 1%.
	ErrNonUniformScale = errors.New("different scales in X and Y are not supported")
)

// TextError is returned when a text element has a stroke
// color selecting a vector action. Text outlines are only available
// once converted to paths.
type TextError struct {
	// Recoverable is true when text conversion was not attempted:
	// reading again with Config.TextToPaths may succeed.
	Recoverable bool
	ID          string // of the text element
}

func (e *TextError) Error() string {
	msg := "text with a cut or engrave stroke color found"
	if e.ID != "" {
		msg = fmt.Sprintf("%s (id %q)", msg, e.ID)
	}
	if e.Recoverable {
		return msg
	}
	return msg + " after conversion to paths"
}

// Hint returns how to fix the document manually.
func (e *TextError) Hint() string {
	return `in Inkscape, select the text then "Path" - "Object to Path"`
}

// IsRecoverableText returns true if err is (or wraps) a TextError
// which may be solved by converting the text to paths.
func IsRecoverableText(err error) bool {
	var te *TextError
	return errors.As(err, &te) && te.Recoverable
}
