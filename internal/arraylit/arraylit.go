// Package arraylit parses PostgreSQL's textual array-literal encoding,
// e.g. {1,2,{3,4}}, into nested []any values.
package arraylit

import "strings"

// LeafCast converts one dequoted element token into its decoded value.
// Casts are applied to every non-NULL element; the parser resolves the
// unquoted NULL sentinel itself, before the cast is consulted.
type LeafCast func(token string) any

// Identity returns the token unchanged.
func Identity(token string) any { return token }

// DefaultDelim is the element delimiter for almost every PostgreSQL type.
// The box/point family uses ';' instead.
const DefaultDelim byte = ','

// Parse decodes input as an array literal. Elements are leaf values produced
// by cast, nil for an unquoted NULL, or nested []any slices. The parser
// reproduces the server's literal grammar only; it does not require sibling
// sub-arrays to have equal length.
//
// A scanner is created per call, so Parse is safe for concurrent use.
func Parse(input string, cast LeafCast, delim byte) ([]any, error) {
	s := &scanner{input: input}
	s.skipSpace()
	if s.eof() {
		// an empty or all-whitespace literal reads as truncated data,
		// not as a missing bracket
		return nil, errAt(UnexpectedEndOfData, s.pos)
	}
	if s.peek() != '{' {
		return nil, errAt(MissingOpeningBracket, s.pos)
	}
	arr, err := s.parseArray(cast, delim)
	if err != nil {
		return nil, err
	}
	s.skipSpace()
	if !s.eof() {
		return nil, errAt(DataLeftInBuffer, s.pos)
	}
	return arr, nil
}

// scanner is a single left-to-right cursor over the input. It never backs up.
type scanner struct {
	input string
	pos   int
}

func (s *scanner) eof() bool  { return s.pos >= len(s.input) }
func (s *scanner) peek() byte { return s.input[s.pos] }
func (s *scanner) advance()   { s.pos++ }

func (s *scanner) skipSpace() {
	for !s.eof() {
		switch s.peek() {
		case ' ', '\t', '\r', '\n':
			s.advance()
		default:
			return
		}
	}
}

// parseArray consumes one {...} group, s positioned on the opening brace.
func (s *scanner) parseArray(cast LeafCast, delim byte) ([]any, error) {
	s.advance() // consume '{'
	arr := []any{}

	s.skipSpace()
	if !s.eof() && s.peek() == '}' {
		s.advance()
		return arr, nil
	}

	for {
		s.skipSpace()
		if s.eof() {
			return nil, errAt(UnexpectedEndOfData, s.pos)
		}

		elem, err := s.parseElement(cast, delim)
		if err != nil {
			return nil, err
		}
		arr = append(arr, elem)

		s.skipSpace()
		if s.eof() {
			return nil, errAt(UnexpectedEndOfData, s.pos)
		}
		switch s.peek() {
		case delim:
			s.advance()
		case '}':
			s.advance()
			return arr, nil
		default:
			return nil, errAt(InvalidDelimiter, s.pos)
		}
	}
}

func (s *scanner) parseElement(cast LeafCast, delim byte) (any, error) {
	switch s.peek() {
	case '{':
		return s.parseArray(cast, delim)
	case '"':
		tok, err := s.parseQuoted()
		if err != nil {
			return nil, err
		}
		// a quoted "NULL" is the string, never the sentinel
		return cast(tok), nil
	default:
		tok := s.parseBare(delim)
		if tok == "NULL" {
			return nil, nil
		}
		return cast(tok), nil
	}
}

// parseQuoted consumes a double-quoted token, resolving \" and \\ escapes.
func (s *scanner) parseQuoted() (string, error) {
	start := s.pos
	s.advance() // consume '"'
	var sb strings.Builder
	for !s.eof() {
		ch := s.peek()
		switch ch {
		case '\\':
			s.advance()
			if s.eof() {
				return "", errAt(MissingClosingQuote, start)
			}
			sb.WriteByte(s.peek())
			s.advance()
		case '"':
			s.advance()
			return sb.String(), nil
		default:
			sb.WriteByte(ch)
			s.advance()
		}
	}
	return "", errAt(MissingClosingQuote, start)
}

// parseBare consumes an unquoted token: everything up to the next unescaped
// delimiter, closing brace, or whitespace.
func (s *scanner) parseBare(delim byte) string {
	var sb strings.Builder
	for !s.eof() {
		ch := s.peek()
		switch ch {
		case delim, '}', ' ', '\t', '\r', '\n':
			return sb.String()
		case '\\':
			s.advance()
			if s.eof() {
				return sb.String()
			}
			sb.WriteByte(s.peek())
			s.advance()
		default:
			sb.WriteByte(ch)
			s.advance()
		}
	}
	return sb.String()
}
