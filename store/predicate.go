package store

import (
	"path/filepath"
	"strconv"
	"strings"

	golemerrors "github.com/golemdb/golemdb-sql-go/errors"
)

// This file implements the backing store's own predicate grammar (spec
// §6.1) — identifiers, quoted string literals, unsigned integer literals,
// comparison operators `= < <= > >=`, glob `~`, logical `&& ||`, and
// parentheses — so Mock.QueryEntities evaluates the exact fragment strings
// the translate package emits, not a stand-in comparison. This is a
// distinct grammar from the SQL WHERE clause the sql package parses: no
// keywords, no named parameters, always fully resolved literals.

type predExpr interface {
	eval(e Entity) (bool, error)
}

type predAnd struct{ left, right predExpr }

func (p predAnd) eval(e Entity) (bool, error) {
	l, err := p.left.eval(e)
	if err != nil || !l {
		return false, err
	}
	return p.right.eval(e)
}

type predOr struct{ left, right predExpr }

func (p predOr) eval(e Entity) (bool, error) {
	l, err := p.left.eval(e)
	if err != nil {
		return false, err
	}
	if l {
		return true, nil
	}
	return p.right.eval(e)
}

type predOp int

const (
	opEq predOp = iota
	opLt
	opLe
	opGt
	opGe
	opGlob
)

type predCompareString struct {
	field string
	op    predOp
	value string
}

func (p predCompareString) eval(e Entity) (bool, error) {
	actual, ok := e.StringAnnotations[p.field]
	if !ok {
		return false, nil
	}
	switch p.op {
	case opEq:
		return actual == p.value, nil
	case opLt:
		return actual < p.value, nil
	case opLe:
		return actual <= p.value, nil
	case opGt:
		return actual > p.value, nil
	case opGe:
		return actual >= p.value, nil
	case opGlob:
		matched, err := filepath.Match(p.value, actual)
		if err != nil {
			return false, golemerrors.InternalError("malformed glob pattern %q", p.value)
		}
		return matched, nil
	default:
		return false, golemerrors.InternalError("unsupported string predicate operator")
	}
}

type predCompareNumeric struct {
	field string
	op    predOp
	value uint64
}

func (p predCompareNumeric) eval(e Entity) (bool, error) {
	actual, ok := e.NumericAnnotations[p.field]
	if !ok {
		return false, nil
	}
	switch p.op {
	case opEq:
		return actual == p.value, nil
	case opLt:
		return actual < p.value, nil
	case opLe:
		return actual <= p.value, nil
	case opGt:
		return actual > p.value, nil
	case opGe:
		return actual >= p.value, nil
	default:
		return false, golemerrors.InternalError("unsupported numeric predicate operator")
	}
}

// --- tokenizer -------------------------------------------------------------

type predTokenType int

const (
	ptIdent predTokenType = iota
	ptString
	ptNumber
	ptEq
	ptLt
	ptLe
	ptGt
	ptGe
	ptGlob
	ptAnd
	ptOr
	ptLParen
	ptRParen
	ptEOF
)

type predToken struct {
	typ predTokenType
	val string
}

type predLexer struct {
	s   string
	pos int
}

func (l *predLexer) skipSpace() {
	for l.pos < len(l.s) && (l.s[l.pos] == ' ' || l.s[l.pos] == '\t' || l.s[l.pos] == '\n') {
		l.pos++
	}
}

func (l *predLexer) next() (predToken, error) {
	l.skipSpace()
	if l.pos >= len(l.s) {
		return predToken{typ: ptEOF}, nil
	}
	c := l.s[l.pos]
	switch {
	case c == '(':
		l.pos++
		return predToken{typ: ptLParen}, nil
	case c == ')':
		l.pos++
		return predToken{typ: ptRParen}, nil
	case c == '=':
		l.pos++
		return predToken{typ: ptEq}, nil
	case c == '~':
		l.pos++
		return predToken{typ: ptGlob}, nil
	case c == '<':
		l.pos++
		if l.pos < len(l.s) && l.s[l.pos] == '=' {
			l.pos++
			return predToken{typ: ptLe}, nil
		}
		return predToken{typ: ptLt}, nil
	case c == '>':
		l.pos++
		if l.pos < len(l.s) && l.s[l.pos] == '=' {
			l.pos++
			return predToken{typ: ptGe}, nil
		}
		return predToken{typ: ptGt}, nil
	case c == '&' && l.pos+1 < len(l.s) && l.s[l.pos+1] == '&':
		l.pos += 2
		return predToken{typ: ptAnd}, nil
	case c == '|' && l.pos+1 < len(l.s) && l.s[l.pos+1] == '|':
		l.pos += 2
		return predToken{typ: ptOr}, nil
	case c == '"':
		return l.readString()
	case c >= '0' && c <= '9':
		return l.readNumber()
	case isPredIdentStart(c):
		return l.readIdent()
	default:
		return predToken{}, golemerrors.InternalError("unexpected character %q in predicate", c)
	}
}

func (l *predLexer) readString() (predToken, error) {
	l.pos++ // opening quote
	var b strings.Builder
	for l.pos < len(l.s) {
		c := l.s[l.pos]
		if c == '"' {
			l.pos++
			return predToken{typ: ptString, val: b.String()}, nil
		}
		if c == '\\' && l.pos+1 < len(l.s) && l.s[l.pos+1] == '"' {
			b.WriteByte('"')
			l.pos += 2
			continue
		}
		b.WriteByte(c)
		l.pos++
	}
	return predToken{}, golemerrors.InternalError("unterminated string literal in predicate")
}

func (l *predLexer) readNumber() (predToken, error) {
	start := l.pos
	for l.pos < len(l.s) && l.s[l.pos] >= '0' && l.s[l.pos] <= '9' {
		l.pos++
	}
	return predToken{typ: ptNumber, val: l.s[start:l.pos]}, nil
}

func (l *predLexer) readIdent() (predToken, error) {
	start := l.pos
	for l.pos < len(l.s) && isPredIdentPart(l.s[l.pos]) {
		l.pos++
	}
	return predToken{typ: ptIdent, val: l.s[start:l.pos]}, nil
}

func isPredIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c == '$'
}

func isPredIdentPart(c byte) bool {
	return isPredIdentStart(c) || (c >= '0' && c <= '9')
}

// --- parser ------------------------------------------------------------

type predParser struct {
	lex  *predLexer
	tok  predToken
	peek bool
}

func parsePredicate(s string) (predExpr, error) {
	p := &predParser{lex: &predLexer{s: s}}
	if err := p.advance(); err != nil {
		return nil, err
	}
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.tok.typ != ptEOF {
		return nil, golemerrors.InternalError("unexpected trailing input in predicate")
	}
	return expr, nil
}

func (p *predParser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *predParser) parseOr() (predExpr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.tok.typ == ptOr {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = predOr{left, right}
	}
	return left, nil
}

func (p *predParser) parseAnd() (predExpr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.tok.typ == ptAnd {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		left = predAnd{left, right}
	}
	return left, nil
}

func (p *predParser) parsePrimary() (predExpr, error) {
	if p.tok.typ == ptLParen {
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.tok.typ != ptRParen {
			return nil, golemerrors.InternalError("expected ')' in predicate")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return inner, nil
	}

	if p.tok.typ != ptIdent {
		return nil, golemerrors.InternalError("expected identifier in predicate")
	}
	field := p.tok.val
	if err := p.advance(); err != nil {
		return nil, err
	}

	var op predOp
	switch p.tok.typ {
	case ptEq:
		op = opEq
	case ptLt:
		op = opLt
	case ptLe:
		op = opLe
	case ptGt:
		op = opGt
	case ptGe:
		op = opGe
	case ptGlob:
		op = opGlob
	default:
		return nil, golemerrors.InternalError("expected comparison operator in predicate")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	switch p.tok.typ {
	case ptString:
		val := p.tok.val
		if err := p.advance(); err != nil {
			return nil, err
		}
		return predCompareString{field: field, op: op, value: val}, nil
	case ptNumber:
		n, err := strconv.ParseUint(p.tok.val, 10, 64)
		if err != nil {
			return nil, golemerrors.InternalError("malformed numeric literal %q in predicate", p.tok.val)
		}
		if op == opGlob {
			return nil, golemerrors.InternalError("glob operator requires a string literal")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return predCompareNumeric{field: field, op: op, value: n}, nil
	default:
		return nil, golemerrors.InternalError("expected a literal value in predicate")
	}
}
