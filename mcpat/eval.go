package mcpat

import (
	"errors"
	"fmt"
	"go/ast"
	"go/constant"
	"go/parser"
	"go/token"
	"math"
	"strconv"
	"strings"
)

var errDivisionByZero = errors.New("division by zero")

// evaluate computes a constant arithmetic expression. Division and modulo
// of integers round toward negative infinity. The boolean names True and
// False evaluate to themselves.
func evaluate(expr string) (constant.Value, error) {
	e, err := parser.ParseExpr(strings.TrimSpace(expr))
	if err != nil {
		return nil, fmt.Errorf("cannot evaluate %q: %w", expr, err)
	}

	v, err := evalNode(e)
	if errors.Is(err, errDivisionByZero) {
		return nil, fmt.Errorf("%q: %w", expr, err)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot evaluate %q: %w", expr, err)
	}

	return v, nil
}

func evalNode(n ast.Expr) (constant.Value, error) {
	switch n := n.(type) {
	case *ast.BasicLit:
		if n.Kind != token.INT && n.Kind != token.FLOAT {
			return nil, fmt.Errorf("%s is not a number", n.Value)
		}
		return constant.MakeFromLiteral(n.Value, n.Kind, 0), nil
	case *ast.Ident:
		switch n.Name {
		case "True":
			return constant.MakeBool(true), nil
		case "False":
			return constant.MakeBool(false), nil
		}
		return nil, fmt.Errorf("undefined name %s", n.Name)
	case *ast.ParenExpr:
		return evalNode(n.X)
	case *ast.UnaryExpr:
		x, err := evalNode(n.X)
		if err != nil {
			return nil, err
		}
		if n.Op != token.ADD && n.Op != token.SUB {
			return nil, fmt.Errorf("unsupported operator %s", n.Op)
		}
		return constant.UnaryOp(n.Op, numeric(x), 0), nil
	case *ast.BinaryExpr:
		x, err := evalNode(n.X)
		if err != nil {
			return nil, err
		}
		y, err := evalNode(n.Y)
		if err != nil {
			return nil, err
		}
		return binaryOp(numeric(x), n.Op, numeric(y))
	default:
		return nil, fmt.Errorf("unsupported expression %T", n)
	}
}

// numeric turns booleans into the integers 0 and 1.
func numeric(v constant.Value) constant.Value {
	if v.Kind() != constant.Bool {
		return v
	}

	if constant.BoolVal(v) {
		return constant.MakeInt64(1)
	}

	return constant.MakeInt64(0)
}

func binaryOp(x constant.Value, op token.Token, y constant.Value) (
	constant.Value, error,
) {
	switch op {
	case token.ADD, token.SUB, token.MUL:
		return constant.BinaryOp(x, op, y), nil
	case token.QUO, token.REM:
	default:
		return nil, fmt.Errorf("unsupported operator %s", op)
	}

	if constant.Sign(y) == 0 {
		return nil, errDivisionByZero
	}

	bothInt := x.Kind() == constant.Int && y.Kind() == constant.Int

	if op == token.QUO {
		if !bothInt {
			return constant.ToFloat(constant.BinaryOp(x, token.QUO, y)), nil
		}

		q := constant.BinaryOp(x, token.QUO_ASSIGN, y)
		r := constant.BinaryOp(x, token.REM, y)
		if constant.Sign(r) != 0 && constant.Sign(r) != constant.Sign(y) {
			q = constant.BinaryOp(q, token.SUB, constant.MakeInt64(1))
		}
		return q, nil
	}

	if !bothInt {
		return nil, fmt.Errorf("modulo of non-integers")
	}

	r := constant.BinaryOp(x, token.REM, y)
	if constant.Sign(r) != 0 && constant.Sign(r) != constant.Sign(y) {
		r = constant.BinaryOp(r, token.ADD, y)
	}

	return r, nil
}

// formatValue renders a value the way configuration values are written:
// integers plainly, floats with 12 significant digits and always with a
// fraction or an exponent.
func formatValue(v constant.Value) string {
	switch v.Kind() {
	case constant.Bool:
		if constant.BoolVal(v) {
			return "True"
		}
		return "False"
	case constant.Int:
		return v.ExactString()
	case constant.Float:
		f, _ := constant.Float64Val(v)
		return formatFloat(f)
	default:
		return v.String()
	}
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', 12, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}

	return s
}

// truncate converts a value to an integer, dropping any fraction.
func truncate(v constant.Value) (string, error) {
	switch v.Kind() {
	case constant.Int:
		return v.ExactString(), nil
	case constant.Float:
		f, _ := constant.Float64Val(v)
		t := math.Trunc(f)
		if t == 0 {
			t = 0
		}
		return strconv.FormatFloat(t, 'f', 0, 64), nil
	case constant.Bool:
		if constant.BoolVal(v) {
			return "1", nil
		}
		return "0", nil
	default:
		return "", fmt.Errorf("%s is not a number", v)
	}
}
