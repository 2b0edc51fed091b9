// Package expr compiles the boolean expressions used by predicate rules.
//
// Supported syntax:
//   - truthiness: `acceptedTerms`, `!phone`
//   - comparisons against literals: `jobType == "other"`, `acceptedTerms != false`
//   - comparisons between fields: `email != FullName`
//   - composition: `a && (b || !c)`
//
// Identifiers resolve to form values by exact name. An absent value compares
// equal to null and is not truthy.
package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-callbackform/pkg/model"
)

// ErrSyntax wraps every compile failure.
var ErrSyntax = errors.New("expr: syntax error")

// Program is a compiled expression. It is immutable and safe to share.
type Program struct {
	source string
	root   node
	fields []string
}

// Compile parses src into a Program.
func Compile(src string) (*Program, error) {
	trimmed := strings.TrimSpace(src)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrSyntax)
	}
	tokens, err := lex(trimmed)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens, seen: make(map[string]struct{})}
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok, ok := p.peek(); ok {
		return nil, fmt.Errorf("%w: unexpected %q at %d", ErrSyntax, tok.text, tok.pos)
	}
	return &Program{source: trimmed, root: root, fields: p.fields}, nil
}

// MustCompile is Compile for expressions known at build time.
func MustCompile(src string) *Program {
	p, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return p
}

// Eval runs the program against values.
func (p *Program) Eval(values model.Values) (bool, error) {
	if p == nil || p.root == nil {
		return false, errors.New("expr: program is nil")
	}
	return p.root.eval(values)
}

// Fields lists the identifiers the program reads, in first-use order.
func (p *Program) Fields() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.fields...)
}

// String returns the normalised source text.
func (p *Program) String() string {
	if p == nil {
		return ""
	}
	return p.source
}

type node interface {
	eval(values model.Values) (bool, error)
}

type orNode struct{ left, right node }

func (n orNode) eval(values model.Values) (bool, error) {
	ok, err := n.left.eval(values)
	if err != nil || ok {
		return ok, err
	}
	return n.right.eval(values)
}

type andNode struct{ left, right node }

func (n andNode) eval(values model.Values) (bool, error) {
	ok, err := n.left.eval(values)
	if err != nil || !ok {
		return false, err
	}
	return n.right.eval(values)
}

type notNode struct{ inner node }

func (n notNode) eval(values model.Values) (bool, error) {
	ok, err := n.inner.eval(values)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

type truthyNode struct{ name string }

func (n truthyNode) eval(values model.Values) (bool, error) {
	return truthy(values[n.name]), nil
}

// operand is either a literal or a field reference.
type operand struct {
	kind  tokenKind
	text  string
	field bool
}

func (o operand) resolve(values model.Values) any {
	if o.field {
		return values[o.text]
	}
	switch o.kind {
	case tokenBool:
		return o.text == "true"
	case tokenNull:
		return nil
	case tokenNumber:
		f, _ := strconv.ParseFloat(o.text, 64)
		return f
	default:
		return o.text
	}
}

type compareNode struct {
	name    string
	negate  bool
	operand operand
}

func (n compareNode) eval(values model.Values) (bool, error) {
	eq := equal(values[n.name], n.operand.resolve(values))
	if n.negate {
		return !eq, nil
	}
	return eq, nil
}

func equal(left, right any) bool {
	if left == nil || right == nil {
		return left == nil && right == nil
	}
	switch want := right.(type) {
	case bool:
		got, ok := asBool(left)
		return ok && got == want
	case float64:
		got, ok := asNumber(left)
		return ok && got == want
	case string:
		return asString(left) == want
	}
	return false
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	default:
		return true
	}
}

func asBool(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return b, err == nil
	}
	return false, false
}

func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}

func asString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

type parser struct {
	tokens []token
	pos    int
	fields []string
	seen   map[string]struct{}
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) accept(kind tokenKind) bool {
	tok, ok := p.peek()
	if !ok || tok.kind != kind {
		return false
	}
	p.pos++
	return true
}

func (p *parser) reference(name string) {
	if _, ok := p.seen[name]; ok {
		return
	}
	p.seen[name] = struct{}{}
	p.fields = append(p.fields, name)
}

func (p *parser) parseOr() (node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.accept(tokenOr) {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = orNode{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.accept(tokenAnd) {
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = andNode{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (node, error) {
	if p.accept(tokenNot) {
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return notNode{inner: inner}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	if p.accept(tokenLParen) {
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if !p.accept(tokenRParen) {
			return nil, fmt.Errorf("%w: missing closing ')'", ErrSyntax)
		}
		return inner, nil
	}

	tok, ok := p.peek()
	if !ok {
		return nil, fmt.Errorf("%w: unexpected end of expression", ErrSyntax)
	}
	if tok.kind != tokenIdent {
		return nil, fmt.Errorf("%w: expected field name, got %q at %d", ErrSyntax, tok.text, tok.pos)
	}
	p.pos++
	p.reference(tok.text)

	negate := false
	switch {
	case p.accept(tokenEq):
	case p.accept(tokenNeq):
		negate = true
	default:
		return truthyNode{name: tok.text}, nil
	}

	rhs, ok := p.peek()
	if !ok {
		return nil, fmt.Errorf("%w: missing operand after %q", ErrSyntax, tok.text)
	}
	switch rhs.kind {
	case tokenString, tokenNumber, tokenBool, tokenNull:
		p.pos++
		return compareNode{name: tok.text, negate: negate, operand: operand{kind: rhs.kind, text: rhs.text}}, nil
	case tokenIdent:
		p.pos++
		p.reference(rhs.text)
		return compareNode{name: tok.text, negate: negate, operand: operand{kind: rhs.kind, text: rhs.text, field: true}}, nil
	default:
		return nil, fmt.Errorf("%w: expected operand, got %q at %d", ErrSyntax, rhs.text, rhs.pos)
	}
}
