// Package expr implements a small rule-expression evaluator for visibility
// decisions that outgrow structural conditions.
//
// Supported forms:
//   - truthiness: `newsletter`
//   - comparison: `country == "other"`, `stars != 3`, `agreed == true`
//   - presence: `attachment != null`
//   - composition: `a && b`, `a || !b`, parentheses
//
// Identifiers read from Context.Values; the `extras.` prefix reads from
// Context.Extras.
package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formflow/pkg/visibility"
)

// Evaluator parses and evaluates rule expressions. The zero value is ready
// to use; expressions are parsed on every call, which keeps the evaluator
// stateless and safe for concurrent use.
type Evaluator struct{}

// New returns a rule-expression Evaluator.
func New() *Evaluator { return &Evaluator{} }

// Eval reports whether the rule holds for the supplied context. An empty
// rule always holds.
func (e *Evaluator) Eval(field, rule string, ctx visibility.Context) (bool, error) {
	_ = field
	trimmed := strings.TrimSpace(rule)
	if trimmed == "" {
		return true, nil
	}

	p := &parser{scan: scanner{input: trimmed}}
	node, err := p.parse()
	if err != nil {
		return false, err
	}
	return node(ctx)
}

// node evaluates one parsed expression fragment against a context.
type node func(visibility.Context) (bool, error)

type parser struct {
	scan scanner
}

func (p *parser) parse() (node, error) {
	n, err := p.orExpr()
	if err != nil {
		return nil, err
	}
	tok, err := p.scan.peek()
	if err != nil {
		return nil, err
	}
	if tok.kind != tokEOF {
		return nil, fmt.Errorf("visibility/expr: unexpected token %q", tok.text)
	}
	return n, nil
}

func (p *parser) orExpr() (node, error) {
	left, err := p.andExpr()
	if err != nil {
		return nil, err
	}
	for p.scan.accept(tokOr) {
		right, err := p.andExpr()
		if err != nil {
			return nil, err
		}
		l, r := left, right
		left = func(ctx visibility.Context) (bool, error) {
			ok, err := l(ctx)
			if err != nil || ok {
				return ok, err
			}
			return r(ctx)
		}
	}
	return left, nil
}

func (p *parser) andExpr() (node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.scan.accept(tokAnd) {
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		l, r := left, right
		left = func(ctx visibility.Context) (bool, error) {
			ok, err := l(ctx)
			if err != nil || !ok {
				return false, err
			}
			return r(ctx)
		}
	}
	return left, nil
}

func (p *parser) unary() (node, error) {
	if p.scan.accept(tokNot) {
		inner, err := p.unary()
		if err != nil {
			return nil, err
		}
		return func(ctx visibility.Context) (bool, error) {
			ok, err := inner(ctx)
			return !ok, err
		}, nil
	}
	return p.primary()
}

func (p *parser) primary() (node, error) {
	if p.scan.accept(tokLParen) {
		inner, err := p.orExpr()
		if err != nil {
			return nil, err
		}
		if !p.scan.accept(tokRParen) {
			return nil, errors.New("visibility/expr: missing closing ')'")
		}
		return inner, nil
	}

	tok, err := p.scan.next()
	if err != nil {
		return nil, err
	}
	if tok.kind != tokIdent {
		if tok.kind == tokEOF {
			return nil, errors.New("visibility/expr: empty expression")
		}
		return nil, fmt.Errorf("visibility/expr: expected identifier, got %q", tok.text)
	}
	key := tok.text

	op, err := p.scan.peek()
	if err != nil {
		return nil, err
	}
	if op.kind != tokEq && op.kind != tokNeq {
		return func(ctx visibility.Context) (bool, error) {
			value, ok := lookup(ctx, key)
			return ok && truthy(value), nil
		}, nil
	}
	p.scan.skip()
	negate := op.kind == tokNeq

	lit, err := p.scan.next()
	if err != nil {
		return nil, err
	}
	cmp, err := comparison(key, lit)
	if err != nil {
		return nil, err
	}
	if !negate {
		return cmp, nil
	}
	return func(ctx visibility.Context) (bool, error) {
		ok, err := cmp(ctx)
		return !ok, err
	}, nil
}

func comparison(key string, lit token) (node, error) {
	switch lit.kind {
	case tokNull:
		return func(ctx visibility.Context) (bool, error) {
			value, ok := lookup(ctx, key)
			return !ok || value == nil, nil
		}, nil
	case tokBool:
		want := lit.text == "true"
		return func(ctx visibility.Context) (bool, error) {
			value, _ := lookup(ctx, key)
			got, ok := toBool(value)
			return ok && got == want, nil
		}, nil
	case tokNumber:
		want, err := strconv.ParseFloat(lit.text, 64)
		if err != nil {
			return nil, fmt.Errorf("visibility/expr: invalid number literal %q", lit.text)
		}
		return func(ctx visibility.Context) (bool, error) {
			value, _ := lookup(ctx, key)
			got, ok := toNumber(value)
			return ok && got == want, nil
		}, nil
	case tokString, tokIdent:
		// Bare identifiers on the right-hand side compare as strings.
		want := lit.text
		return func(ctx visibility.Context) (bool, error) {
			value, _ := lookup(ctx, key)
			return toString(value) == want, nil
		}, nil
	default:
		return nil, fmt.Errorf("visibility/expr: expected literal, got %q", lit.text)
	}
}

func lookup(ctx visibility.Context, key string) (any, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false
	}
	if rest, ok := strings.CutPrefix(key, "extras."); ok {
		value, found := ctx.Extras[rest]
		return value, found
	}
	value, found := ctx.Values[key]
	return value, found
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	case float32:
		return v != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}

func toBool(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return strings.TrimSpace(v) != "", true
		}
		return parsed, true
	case int:
		return v != 0, true
	case int64:
		return v != 0, true
	case float64:
		return v != 0, true
	case nil:
		return false, false
	default:
		return truthy(value), true
	}
}

func toNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}
