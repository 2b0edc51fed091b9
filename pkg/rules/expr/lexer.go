package expr

import (
	"fmt"
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokenIdent tokenKind = iota
	tokenString
	tokenNumber
	tokenBool
	tokenNull
	tokenEq
	tokenNeq
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isDelimiter(ch byte) bool {
	return isSpace(ch) || strings.IndexByte("()!=&|\"'", ch) >= 0
}

func lex(src string) ([]token, error) {
	var tokens []token
	for i := 0; i < len(src); {
		ch := src[i]
		if isSpace(ch) {
			i++
			continue
		}

		start := i
		switch ch {
		case '(':
			tokens = append(tokens, token{kind: tokenLParen, text: "(", pos: start})
			i++
		case ')':
			tokens = append(tokens, token{kind: tokenRParen, text: ")", pos: start})
			i++
		case '!':
			if i+1 < len(src) && src[i+1] == '=' {
				tokens = append(tokens, token{kind: tokenNeq, text: "!=", pos: start})
				i += 2
				continue
			}
			tokens = append(tokens, token{kind: tokenNot, text: "!", pos: start})
			i++
		case '=', '&', '|':
			if i+1 >= len(src) || src[i+1] != ch {
				return nil, fmt.Errorf("%w: unexpected %q at %d, use %q", ErrSyntax, ch, start, string([]byte{ch, ch}))
			}
			kind := map[byte]tokenKind{'=': tokenEq, '&': tokenAnd, '|': tokenOr}[ch]
			tokens = append(tokens, token{kind: kind, text: src[i : i+2], pos: start})
			i += 2
		case '"', '\'':
			end := i + 1
			for end < len(src) && src[end] != ch {
				if src[end] == '\\' {
					end++
				}
				end++
			}
			if end >= len(src) {
				return nil, fmt.Errorf("%w: unterminated string at %d", ErrSyntax, start)
			}
			raw := src[i : end+1]
			value := strings.ReplaceAll(raw[1:len(raw)-1], `\'`, "'")
			if ch == '"' {
				unquoted, err := strconv.Unquote(raw)
				if err != nil {
					return nil, fmt.Errorf("%w: bad string literal at %d: %v", ErrSyntax, start, err)
				}
				value = unquoted
			}
			tokens = append(tokens, token{kind: tokenString, text: value, pos: start})
			i = end + 1
		default:
			for i < len(src) && !isDelimiter(src[i]) {
				i++
			}
			word := src[start:i]
			tokens = append(tokens, classifyWord(word, start))
		}
	}
	return tokens, nil
}

func classifyWord(word string, pos int) token {
	switch strings.ToLower(word) {
	case "true", "false":
		return token{kind: tokenBool, text: strings.ToLower(word), pos: pos}
	case "null", "nil":
		return token{kind: tokenNull, text: "null", pos: pos}
	}
	if _, err := strconv.ParseFloat(word, 64); err == nil {
		return token{kind: tokenNumber, text: word, pos: pos}
	}
	return token{kind: tokenIdent, text: word, pos: pos}
}
