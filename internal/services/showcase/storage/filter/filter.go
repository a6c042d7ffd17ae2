// Package filter compiles AIP-160 filter expressions into SQL WHERE
// fragments for archived run queries.
package filter

import (
	"fmt"
	"strings"
	"time"

	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// RunDeclarations declares the queryable fields of archive list filters.
func RunDeclarations() (*filtering.Declarations, error) {
	return filtering.NewDeclarations(
		filtering.DeclareStandardFunctions(),
		filtering.DeclareIdent("run_id", filtering.TypeString),
		filtering.DeclareIdent("outcome", filtering.TypeString),
		filtering.DeclareIdent("locale", filtering.TypeString),
		filtering.DeclareIdent("seed", filtering.TypeInt),
		filtering.DeclareIdent("turns", filtering.TypeInt),
		filtering.DeclareIdent("frame_count", filtering.TypeInt),
		filtering.DeclareIdent("created_at", filtering.TypeTimestamp),
	)
}

// SQLCondition is one WHERE fragment with its positional parameters.
type SQLCondition struct {
	Clause string
	Params []any
}

// columns maps filter field names to archive table columns. created_at
// diverges because the column stores Unix milliseconds.
var columns = map[string]string{
	"run_id":      "run_id",
	"outcome":     "outcome",
	"locale":      "locale",
	"seed":        "seed",
	"turns":       "turns",
	"frame_count": "frame_count",
	"created_at":  "created_at_ms",
}

// joinOps and compareOps map CEL function names, in both operator and
// keyword spellings, to their SQL form.
var joinOps = map[string]string{
	"_&&_": "AND", "AND": "AND",
	"_||_": "OR", "OR": "OR",
}

var compareOps = map[string]string{
	"_==_": "=", "=": "=",
	"_!=_": "!=", "!=": "!=",
	"_<_": "<", "<": "<",
	"_<=_": "<=", "<=": "<=",
	"_>_": ">", ">": ">",
	"_>=_": ">=", ">=": ">=",
}

// ParseRunFilter compiles an AIP-160 expression to a SQL condition. A
// blank filter compiles to the empty condition.
func ParseRunFilter(filterStr string) (SQLCondition, error) {
	if strings.TrimSpace(filterStr) == "" {
		return SQLCondition{}, nil
	}

	decls, err := RunDeclarations()
	if err != nil {
		return SQLCondition{}, fmt.Errorf("declare filter fields: %w", err)
	}
	parsed, err := filtering.ParseFilterString(filterStr, decls)
	if err != nil {
		return SQLCondition{}, fmt.Errorf("parse filter expression: %w", err)
	}
	return compile(parsed.CheckedExpr.GetExpr())
}

// compile walks the checked CEL tree. Only call expressions are legal at
// condition level; bare identifiers and literals are rejected.
func compile(e *expr.Expr) (SQLCondition, error) {
	switch kind := e.GetExprKind().(type) {
	case *expr.Expr_CallExpr:
		return compileCall(kind.CallExpr)
	case nil:
		return SQLCondition{}, nil
	default:
		return SQLCondition{}, fmt.Errorf("filter must be a comparison or boolean expression, got %T", kind)
	}
}

func compileCall(call *expr.Expr_Call) (SQLCondition, error) {
	if op, ok := joinOps[call.Function]; ok {
		return compileJoin(call.Args, op)
	}
	if op, ok := compareOps[call.Function]; ok {
		return compileCompare(call.Args, op)
	}
	return SQLCondition{}, fmt.Errorf("function %s is not allowed in filters", call.Function)
}

func compileJoin(args []*expr.Expr, op string) (SQLCondition, error) {
	if len(args) != 2 {
		return SQLCondition{}, fmt.Errorf("%s takes exactly 2 operands", op)
	}
	left, err := compile(args[0])
	if err != nil {
		return SQLCondition{}, err
	}
	right, err := compile(args[1])
	if err != nil {
		return SQLCondition{}, err
	}
	return SQLCondition{
		Clause: "(" + left.Clause + " " + op + " " + right.Clause + ")",
		Params: append(left.Params, right.Params...),
	}, nil
}

func compileCompare(args []*expr.Expr, op string) (SQLCondition, error) {
	if len(args) != 2 {
		return SQLCondition{}, fmt.Errorf("comparison takes exactly 2 operands")
	}
	name, err := identName(args[0])
	if err != nil {
		return SQLCondition{}, err
	}
	column, ok := columns[name]
	if !ok {
		return SQLCondition{}, fmt.Errorf("unknown field: %s", name)
	}
	value, err := literal(args[1])
	if err != nil {
		return SQLCondition{}, err
	}
	return SQLCondition{Clause: column + " " + op + " ?", Params: []any{value}}, nil
}

func identName(e *expr.Expr) (string, error) {
	ident, ok := e.GetExprKind().(*expr.Expr_IdentExpr)
	if !ok {
		return "", fmt.Errorf("left side of a comparison must be a field name")
	}
	return ident.IdentExpr.GetName(), nil
}

func literal(e *expr.Expr) (any, error) {
	switch kind := e.GetExprKind().(type) {
	case *expr.Expr_ConstExpr:
		return constLiteral(kind.ConstExpr)
	case *expr.Expr_CallExpr:
		// timestamp("...") is the one function allowed in value position
		if kind.CallExpr.Function != "timestamp" || len(kind.CallExpr.Args) != 1 {
			return nil, fmt.Errorf("function %s not allowed in value position", kind.CallExpr.Function)
		}
		return timeLiteral(kind.CallExpr.Args[0])
	default:
		return nil, fmt.Errorf("value must be a constant or timestamp(), got %T", kind)
	}
}

func constLiteral(c *expr.Constant) (any, error) {
	switch kind := c.GetConstantKind().(type) {
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
		return nil, fmt.Errorf("constant type %T is not allowed in filters", kind)
	}
}

// timeLiteral converts a timestamp("...") argument to Unix milliseconds,
// matching the created_at_ms column encoding.
func timeLiteral(e *expr.Expr) (int64, error) {
	constExpr, ok := e.GetExprKind().(*expr.Expr_ConstExpr)
	if !ok {
		return 0, fmt.Errorf("timestamp argument must be a constant string")
	}
	strVal, ok := constExpr.ConstExpr.GetConstantKind().(*expr.Constant_StringValue)
	if !ok {
		return 0, fmt.Errorf("timestamp argument must be a string")
	}
	for _, layout := range []string{time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, strVal.StringValue); err == nil {
			return t.UTC().UnixMilli(), nil
		}
	}
	return 0, fmt.Errorf("invalid timestamp format: %s", strVal.StringValue)
}
