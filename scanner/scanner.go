// Package scanner converts Lox source code into a sequence of lexical tokens.
package scanner

import (
	"strconv"

	"github.com/loxlang/golox/loxerror"
	"github.com/loxlang/golox/token"
)

const eof = -1

// Scan tokenises src and returns the complete sequence of tokens, always
// terminated by a synthetic EOF token. If any lexical errors are encountered,
// scanning continues past them (so that as many errors as possible are
// reported in one pass) and a non-nil error (a loxerror.Errors) is returned
// alongside whatever tokens were produced.
func Scan(src string) ([]token.Token, error) {
	s := &scanner{src: []byte(src), line: 1}
	s.advance()

	var tokens []token.Token
	for {
		tok, ok := s.next()
		if ok {
			tokens = append(tokens, tok)
		}
		if tok.Type == token.EOF {
			break
		}
	}
	return tokens, s.errs.Err()
}

type scanner struct {
	src  []byte
	errs loxerror.Errors

	ch         rune
	line       int
	offset     int // byte offset of ch within src
	readOffset int // byte offset of the next rune to read
}

// next scans and returns the next token. ok is false for a token that
// should be dropped rather than appended to the output (used when a lexical
// error means there's nothing meaningful to emit).
func (s *scanner) next() (token.Token, bool) {
	s.skipWhitespace()

	line := s.line
	switch {
	case s.ch == eof:
		return token.Token{Type: token.EOF, Lexeme: "", Line: line}, true

	case s.ch == '/' && s.peek() == '/':
		s.skipLineComment()
		return s.next()
	case s.ch == '/' && s.peek() == '*':
		s.skipBlockComment()
		return s.next()

	case s.ch == '"':
		return s.scanString()
	case isDigit(s.ch):
		return s.scanNumber()
	case isAlpha(s.ch):
		return s.scanIdentifier()

	default:
		return s.scanSymbol()
	}
}

func (s *scanner) scanSymbol() (token.Token, bool) {
	line := s.line
	ch := s.ch
	s.advance()

	mk := func(t token.Type, lexeme string) (token.Token, bool) {
		return token.Token{Type: t, Lexeme: lexeme, Line: line}, true
	}

	switch ch {
	case '(':
		return mk(token.LeftParen, "(")
	case ')':
		return mk(token.RightParen, ")")
	case '{':
		return mk(token.LeftBrace, "{")
	case '}':
		return mk(token.RightBrace, "}")
	case ',':
		return mk(token.Comma, ",")
	case '.':
		return mk(token.Dot, ".")
	case '-':
		return mk(token.Minus, "-")
	case '+':
		return mk(token.Plus, "+")
	case ';':
		return mk(token.Semicolon, ";")
	case '*':
		return mk(token.Asterisk, "*")
	case '/':
		return mk(token.Slash, "/")
	case '!':
		if s.match('=') {
			return mk(token.BangEqual, "!=")
		}
		return mk(token.Bang, "!")
	case '=':
		if s.match('=') {
			return mk(token.EqualEqual, "==")
		}
		return mk(token.Equal, "=")
	case '<':
		if s.match('=') {
			return mk(token.LessEqual, "<=")
		}
		return mk(token.Less, "<")
	case '>':
		if s.match('=') {
			return mk(token.GreaterEqual, ">=")
		}
		return mk(token.Greater, ">")
	default:
		s.errs.Add(line, "Unexpected character '%c'.", ch)
		return token.Token{}, false
	}
}

func (s *scanner) scanString() (token.Token, bool) {
	line := s.line
	start := s.offset
	s.advance() // opening quote
	for s.ch != '"' && s.ch != eof {
		// Newlines are permitted inside string literals; advance bumps the
		// line counter itself when it crosses one.
		s.advance()
	}
	if s.ch == eof {
		s.errs.Add(line, "Unterminated string.")
		return token.Token{}, false
	}
	s.advance() // closing quote

	lexeme := string(s.src[start:s.offset])
	value := string(s.src[start+1 : s.offset-1])
	return token.Token{Type: token.String, Lexeme: lexeme, Literal: value, Line: line}, true
}

func (s *scanner) scanNumber() (token.Token, bool) {
	line := s.line
	start := s.offset
	for isDigit(s.ch) {
		s.advance()
	}
	if s.ch == '.' && isDigit(s.peek()) {
		s.advance()
		for isDigit(s.ch) {
			s.advance()
		}
	}
	lexeme := string(s.src[start:s.offset])
	value, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		// Unreachable for any lexeme this scanner can produce, but fail safe
		// rather than panic if it ever is.
		s.errs.Add(line, "Invalid number.")
		return token.Token{}, false
	}
	return token.Token{Type: token.Number, Lexeme: lexeme, Literal: value, Line: line}, true
}

func (s *scanner) scanIdentifier() (token.Token, bool) {
	line := s.line
	start := s.offset
	for isAlphaNumeric(s.ch) {
		s.advance()
	}
	lexeme := string(s.src[start:s.offset])
	return token.Token{Type: token.IdentType(lexeme), Lexeme: lexeme, Line: line}, true
}

func (s *scanner) skipWhitespace() {
	for s.ch == ' ' || s.ch == '\r' || s.ch == '\t' || s.ch == '\n' {
		s.advance()
	}
}

func (s *scanner) skipLineComment() {
	for s.ch != '\n' && s.ch != eof {
		s.advance()
	}
}

// skipBlockComment consumes a /* ... */ comment. Block comments do not nest:
// the first literal "*/" closes the comment regardless of how many "/*"
// sequences appear inside it.
func (s *scanner) skipBlockComment() {
	s.advance() // '/'
	s.advance() // '*'
	for {
		if s.ch == eof {
			s.errs.Add(s.line, "Unterminated comment.")
			return
		}
		if s.ch == '*' && s.peek() == '/' {
			s.advance()
			s.advance()
			return
		}
		s.advance()
	}
}

func (s *scanner) match(want rune) bool {
	if s.peek() != want {
		return false
	}
	s.advance()
	return true
}

// advance reads the next byte into s.ch. Lox source is restricted to ASCII
// outside of string contents, which are passed through as raw bytes, so
// byte-at-a-time advancement (rather than rune decoding) is sufficient.
func (s *scanner) advance() {
	if s.ch == '\n' {
		s.line++
	}
	if s.readOffset >= len(s.src) {
		s.ch = eof
		s.offset = s.readOffset
		return
	}
	s.ch = rune(s.src[s.readOffset])
	s.offset = s.readOffset
	s.readOffset++
}

func (s *scanner) peek() rune {
	if s.readOffset >= len(s.src) {
		return eof
	}
	return rune(s.src[s.readOffset])
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

func isAlphaNumeric(r rune) bool {
	return isAlpha(r) || isDigit(r)
}
