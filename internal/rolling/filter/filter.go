// Package filter provides AIP-160 filter expression parsing over ledger
// entries, translated to in-memory predicates.
package filter

import (
	"fmt"
	"strings"

	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"

	apperrors "github.com/anoikis-dev/rollwatch/internal/platform/errors"
	"github.com/anoikis-dev/rollwatch/internal/rolling/session"
)

// Predicate decides whether a ledger entry matches a parsed filter.
type Predicate func(session.LedgerEntry) bool

// LedgerDeclarations returns the field declarations for ledger filtering.
func LedgerDeclarations() (*filtering.Declarations, error) {
	return filtering.NewDeclarations(
		filtering.DeclareStandardFunctions(),
		filtering.DeclareIdent("seq", filtering.TypeInt),
		filtering.DeclareIdent("kind", filtering.TypeString),
		filtering.DeclareIdent("state", filtering.TypeString),
		filtering.DeclareIdent("transition", filtering.TypeString),
		filtering.DeclareIdent("event", filtering.TypeString),
		filtering.DeclareIdent("batch_mass", filtering.TypeFloat),
		filtering.DeclareIdent("total_mass", filtering.TypeFloat),
		filtering.DeclareIdent("processed", filtering.TypeInt),
		filtering.DeclareIdent("skipped", filtering.TypeInt),
	)
}

// fieldAccessors maps filter field names to ledger entry values.
var fieldAccessors = map[string]func(session.LedgerEntry) any{
	"seq":        func(e session.LedgerEntry) any { return int64(e.Seq) },
	"kind":       func(e session.LedgerEntry) any { return e.Kind.String() },
	"state":      func(e session.LedgerEntry) any { return e.State.String() },
	"transition": func(e session.LedgerEntry) any { return e.Transition.String() },
	"event":      func(e session.LedgerEntry) any { return e.EventName },
	"batch_mass": func(e session.LedgerEntry) any { return e.BatchMass },
	"total_mass": func(e session.LedgerEntry) any { return e.TotalMass },
	"processed":  func(e session.LedgerEntry) any { return int64(e.Processed) },
	"skipped":    func(e session.LedgerEntry) any { return int64(e.Skipped) },
}

// ParseLedgerFilter parses an AIP-160 filter expression into a predicate.
// An empty filter string matches every entry.
func ParseLedgerFilter(filterStr string) (Predicate, error) {
	if strings.TrimSpace(filterStr) == "" {
		return func(session.LedgerEntry) bool { return true }, nil
	}

	decls, err := LedgerDeclarations()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeFilterInvalid, "create declarations", err)
	}

	parsed, err := filtering.ParseFilterString(filterStr, decls)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeFilterInvalid, "parse filter", err)
	}

	predicate, err := translateExpr(parsed.CheckedExpr.Expr)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeFilterInvalid, "translate filter", err)
	}
	return predicate, nil
}

// Apply returns the entries matching the predicate, in ledger order.
func Apply(entries []session.LedgerEntry, predicate Predicate) []session.LedgerEntry {
	if predicate == nil {
		return entries
	}
	var matched []session.LedgerEntry
	for _, entry := range entries {
		if predicate(entry) {
			matched = append(matched, entry)
		}
	}
	return matched
}

func translateExpr(e *expr.Expr) (Predicate, error) {
	if e == nil {
		return nil, fmt.Errorf("nil expression")
	}

	switch kind := e.ExprKind.(type) {
	case *expr.Expr_CallExpr:
		return translateCall(kind.CallExpr)
	default:
		return nil, fmt.Errorf("unsupported expression type: %T", kind)
	}
}

func translateCall(call *expr.Expr_Call) (Predicate, error) {
	switch call.Function {
	case "_&&_", "AND":
		return translateLogical(call.Args, true)
	case "_||_", "OR":
		return translateLogical(call.Args, false)
	case "NOT":
		return translateNot(call.Args)
	case "_==_", "=":
		return translateComparison(call.Args, "=")
	case "_!=_", "!=":
		return translateComparison(call.Args, "!=")
	case "_<_", "<":
		return translateComparison(call.Args, "<")
	case "_<=_", "<=":
		return translateComparison(call.Args, "<=")
	case "_>_", ">":
		return translateComparison(call.Args, ">")
	case "_>=_", ">=":
		return translateComparison(call.Args, ">=")
	default:
		return nil, fmt.Errorf("unsupported function: %s", call.Function)
	}
}

func translateLogical(args []*expr.Expr, and bool) (Predicate, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("logical operator requires 2 arguments")
	}

	left, err := translateExpr(args[0])
	if err != nil {
		return nil, err
	}
	right, err := translateExpr(args[1])
	if err != nil {
		return nil, err
	}

	if and {
		return func(e session.LedgerEntry) bool { return left(e) && right(e) }, nil
	}
	return func(e session.LedgerEntry) bool { return left(e) || right(e) }, nil
}

func translateNot(args []*expr.Expr) (Predicate, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("NOT requires 1 argument")
	}
	inner, err := translateExpr(args[0])
	if err != nil {
		return nil, err
	}
	return func(e session.LedgerEntry) bool { return !inner(e) }, nil
}

func translateComparison(args []*expr.Expr, op string) (Predicate, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("comparison requires 2 arguments")
	}

	field, err := extractFieldName(args[0])
	if err != nil {
		return nil, err
	}
	accessor, ok := fieldAccessors[field]
	if !ok {
		return nil, fmt.Errorf("unknown field: %s", field)
	}

	value, err := extractValue(args[1])
	if err != nil {
		return nil, err
	}

	return func(e session.LedgerEntry) bool {
		return compare(accessor(e), value, op)
	}, nil
}

// compare evaluates actual op expected. Numeric values coerce to float64 so
// integer and float fields compare against either literal form.
func compare(actual, expected any, op string) bool {
	if a, aok := toFloat(actual); aok {
		b, bok := toFloat(expected)
		if !bok {
			return false
		}
		switch op {
		case "=":
			return a == b
		case "!=":
			return a != b
		case "<":
			return a < b
		case "<=":
			return a <= b
		case ">":
			return a > b
		case ">=":
			return a >= b
		}
		return false
	}

	a, aok := actual.(string)
	b, bok := expected.(string)
	if !aok || !bok {
		return false
	}
	switch op {
	case "=":
		return a == b
	case "!=":
		return a != b
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	}
	return false
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

func extractFieldName(e *expr.Expr) (string, error) {
	if e == nil {
		return "", fmt.Errorf("nil expression")
	}

	switch kind := e.ExprKind.(type) {
	case *expr.Expr_IdentExpr:
		return kind.IdentExpr.Name, nil
	default:
		return "", fmt.Errorf("expected identifier, got %T", kind)
	}
}

func extractValue(e *expr.Expr) (any, error) {
	if e == nil {
		return nil, fmt.Errorf("nil expression")
	}

	switch kind := e.ExprKind.(type) {
	case *expr.Expr_ConstExpr:
		return extractConstValue(kind.ConstExpr)
	default:
		return nil, fmt.Errorf("expected constant, got %T", kind)
	}
}

func extractConstValue(c *expr.Constant) (any, error) {
	if c == nil {
		return nil, fmt.Errorf("nil constant")
	}

	switch kind := c.ConstantKind.(type) {
	case *expr.Constant_StringValue:
		return kind.StringValue, nil
	case *expr.Constant_Int64Value:
		return kind.Int64Value, nil
	case *expr.Constant_Uint64Value:
		return kind.Uint64Value, nil
	case *expr.Constant_DoubleValue:
		return kind.DoubleValue, nil
	case *expr.Constant_BoolValue:
		return kind.BoolValue, nil
	default:
		return nil, fmt.Errorf("unsupported constant type: %T", kind)
	}
}
