package arraylit

import "fmt"

// Reason identifies why a literal failed to parse.
type Reason int

const (
	MissingOpeningBracket Reason = iota
	UnexpectedEndOfData
	MissingClosingQuote
	InvalidDelimiter
	DataLeftInBuffer
)

// String returns the reason name as used in error messages.
func (r Reason) String() string {
	switch r {
	case MissingOpeningBracket:
		return "missing opening bracket"
	case UnexpectedEndOfData:
		return "unexpected end of data"
	case MissingClosingQuote:
		return "missing closing quote"
	case InvalidDelimiter:
		return "invalid delimiter"
	case DataLeftInBuffer:
		return "data left in buffer"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// ParseError reports a malformed array literal. Callers usually treat every
// ParseError the same way; Reason is there for diagnostics.
type ParseError struct {
	Reason Reason
	Offset int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("arraylit: %s at offset %d", e.Reason, e.Offset)
}

func errAt(reason Reason, offset int) error {
	return &ParseError{Reason: reason, Offset: offset}
}
