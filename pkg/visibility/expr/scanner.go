package expr

import (
	"fmt"
	"strings"
)

type tokKind int

const (
	tokEOF tokKind = iota
	tokIdent
	tokString
	tokNumber
	tokBool
	tokNull
	tokEq
	tokNeq
	tokAnd
	tokOr
	tokNot
	tokLParen
	tokRParen
)

type token struct {
	kind tokKind
	text string
}

// scanner tokenizes a rule expression with one token of lookahead. A scan
// failure is sticky: every later call reports the same error.
type scanner struct {
	input      string
	pos        int
	pending    token
	hasPending bool
	err        error
}

func (s *scanner) peek() (token, error) {
	if !s.hasPending {
		tok, err := s.scan()
		if err != nil {
			return token{}, err
		}
		s.pending = tok
		s.hasPending = true
	}
	return s.pending, nil
}

func (s *scanner) next() (token, error) {
	if s.hasPending {
		s.hasPending = false
		return s.pending, nil
	}
	return s.scan()
}

// skip drops the token returned by the last peek.
func (s *scanner) skip() {
	s.hasPending = false
}

func (s *scanner) accept(kind tokKind) bool {
	tok, err := s.peek()
	if err != nil {
		return false
	}
	if tok.kind != kind {
		return false
	}
	s.hasPending = false
	return true
}

func (s *scanner) scan() (token, error) {
	if s.err != nil {
		return token{}, s.err
	}
	in := s.input
	for s.pos < len(in) && isSpace(in[s.pos]) {
		s.pos++
	}
	if s.pos >= len(in) {
		return token{kind: tokEOF}, nil
	}

	switch ch := in[s.pos]; ch {
	case '(':
		s.pos++
		return token{kind: tokLParen, text: "("}, nil
	case ')':
		s.pos++
		return token{kind: tokRParen, text: ")"}, nil
	case '!':
		s.pos++
		if s.pos < len(in) && in[s.pos] == '=' {
			s.pos++
			return token{kind: tokNeq, text: "!="}, nil
		}
		return token{kind: tokNot, text: "!"}, nil
	case '=':
		s.pos++
		if s.pos >= len(in) || in[s.pos] != '=' {
			return token{}, s.fail("unexpected '='; use '=='")
		}
		s.pos++
		return token{kind: tokEq, text: "=="}, nil
	case '&':
		s.pos++
		if s.pos >= len(in) || in[s.pos] != '&' {
			return token{}, s.fail("unexpected '&'; use '&&'")
		}
		s.pos++
		return token{kind: tokAnd, text: "&&"}, nil
	case '|':
		s.pos++
		if s.pos >= len(in) || in[s.pos] != '|' {
			return token{}, s.fail("unexpected '|'; use '||'")
		}
		s.pos++
		return token{kind: tokOr, text: "||"}, nil
	case '"', '\'':
		return s.scanString(ch)
	}

	start := s.pos
	for s.pos < len(in) && !isDelimiter(in[s.pos]) {
		s.pos++
	}
	word := in[start:s.pos]
	switch strings.ToLower(word) {
	case "true", "false":
		return token{kind: tokBool, text: strings.ToLower(word)}, nil
	case "null", "nil":
		return token{kind: tokNull, text: "null"}, nil
	}
	if c := word[0]; (c >= '0' && c <= '9') || c == '-' || c == '+' {
		return token{kind: tokNumber, text: word}, nil
	}
	return token{kind: tokIdent, text: word}, nil
}

func (s *scanner) scanString(quote byte) (token, error) {
	in := s.input
	s.pos++
	var out strings.Builder
	for s.pos < len(in) {
		c := in[s.pos]
		s.pos++
		switch c {
		case '\\':
			if s.pos >= len(in) {
				return token{}, s.fail("unterminated string literal")
			}
			out.WriteByte(in[s.pos])
			s.pos++
		case quote:
			return token{kind: tokString, text: out.String()}, nil
		default:
			out.WriteByte(c)
		}
	}
	return token{}, s.fail("unterminated string literal")
}

func (s *scanner) fail(msg string) error {
	s.err = fmt.Errorf("visibility/expr: %s", msg)
	return s.err
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDelimiter(c byte) bool {
	return isSpace(c) || c == '(' || c == ')' || c == '!' || c == '=' || c == '&' || c == '|'
}
