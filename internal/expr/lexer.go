package expr

import (
	"fmt"
	"strconv"
	"strings"
	"text/scanner"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokOp
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokComma
	tokDot
)

type token struct {
	kind tokenKind
	text string
}

// tokenize turns an expression string into a flat token list using
// text/scanner for identifiers/numbers/double-quoted strings (single-
// quoted strings are read verbatim up to the closing quote), combining the runes it
// hands back one at a time into the two-character operators (==, !=,
// <=, >=) by peeking ahead.
func tokenize(src string) ([]token, error) {
	var s scanner.Scanner
	s.Init(strings.NewReader(src))
	s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats | scanner.ScanStrings
	s.Error = func(*scanner.Scanner, string) {}

	var toks []token
	for {
		r := s.Scan()
		switch r {
		case scanner.EOF:
			toks = append(toks, token{kind: tokEOF})
			return toks, nil
		case scanner.Ident:
			toks = append(toks, token{kind: tokIdent, text: s.TokenText()})
		case scanner.Int, scanner.Float:
			toks = append(toks, token{kind: tokNumber, text: s.TokenText()})
		case scanner.String:
			unquoted, err := strconv.Unquote(s.TokenText())
			if err != nil {
				return nil, fmt.Errorf("bad string literal %s: %w", s.TokenText(), err)
			}
			toks = append(toks, token{kind: tokString, text: unquoted})
		case '(':
			toks = append(toks, token{kind: tokLParen})
		case ')':
			toks = append(toks, token{kind: tokRParen})
		case '[':
			toks = append(toks, token{kind: tokLBracket})
		case ']':
			toks = append(toks, token{kind: tokRBracket})
		case ',':
			toks = append(toks, token{kind: tokComma})
		case '.':
			toks = append(toks, token{kind: tokDot})
		case '=':
			if s.Peek() == '=' {
				s.Scan()
				toks = append(toks, token{kind: tokOp, text: "=="})
			} else {
				return nil, fmt.Errorf("unexpected '=' (did you mean '=='?)")
			}
		case '!':
			if s.Peek() == '=' {
				s.Scan()
				toks = append(toks, token{kind: tokOp, text: "!="})
			} else {
				return nil, fmt.Errorf("unexpected '!'")
			}
		case '<':
			if s.Peek() == '=' {
				s.Scan()
				toks = append(toks, token{kind: tokOp, text: "<="})
			} else {
				toks = append(toks, token{kind: tokOp, text: "<"})
			}
		case '>':
			if s.Peek() == '=' {
				s.Scan()
				toks = append(toks, token{kind: tokOp, text: ">="})
			} else {
				toks = append(toks, token{kind: tokOp, text: ">"})
			}
		case '\'':
			var b strings.Builder
			for {
				c := s.Next()
				if c == scanner.EOF || c == '\n' {
					return nil, fmt.Errorf("unterminated string literal")
				}
				if c == '\'' {
					break
				}
				b.WriteRune(c)
			}
			toks = append(toks, token{kind: tokString, text: b.String()})
		default:
			return nil, fmt.Errorf("unexpected character %q", string(r))
		}
	}
}
