// Copyright © 2026 Glean Analytics - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package builtin

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/glean-analytics/glean/pkg/tool"
)

// CalculatorTool evaluates arithmetic expressions. The planner uses it for
// the small numeric follow-ups (percent changes, ratios) that are not worth
// a round trip to the query backend.
type CalculatorTool struct{}

// NewCalculatorTool creates the calculator tool.
func NewCalculatorTool() *CalculatorTool {
	return &CalculatorTool{}
}

func (t *CalculatorTool) Name() string {
	return "calculator"
}

func (t *CalculatorTool) Description() string {
	return "Evaluates an arithmetic expression. Supports + - * / % ^, parentheses and unary minus, e.g. '(120.5 - 98) / 98 * 100'."
}

func (t *CalculatorTool) InputSchema() *tool.JSONSchema {
	return tool.NewObjectSchema(
		"Parameters for expression evaluation",
		map[string]*tool.JSONSchema{
			"expression": tool.NewStringSchema("Arithmetic expression to evaluate (required)"),
		},
		[]string{"expression"},
	)
}

func (t *CalculatorTool) Execute(ctx context.Context, params map[string]interface{}) (*tool.Result, error) {
	expr, _ := params["expression"].(string)
	if strings.TrimSpace(expr) == "" {
		return tool.Fail("INVALID_PARAMS", "expression is required",
			"Provide an arithmetic expression, e.g. '2 * (3 + 4)'"), nil
	}

	value, err := evaluate(expr)
	if err != nil {
		return tool.Fail("EVAL_ERROR", err.Error(),
			"Check the expression for balanced parentheses and valid operators"), nil
	}

	return &tool.Result{
		Success: true,
		Data: map[string]interface{}{
			"expression": expr,
			"result":     value,
		},
	}, nil
}

// evaluate parses and evaluates via the shunting-yard algorithm. Operators
// carry (precedence, right-associativity); ^ and unary minus bind tightest
// and associate right, so `2 * -3` is 2*(-3) and `-3 ^ 2` is -(3^2).
func evaluate(expr string) (float64, error) {
	tokens, err := tokenize(expr)
	if err != nil {
		return 0, err
	}
	rpn, err := toRPN(tokens)
	if err != nil {
		return 0, err
	}
	return evalRPN(rpn)
}

type tokKind int

const (
	tokNumber tokKind = iota
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind  tokKind
	num   float64
	op    byte
	unary bool
}

func tokenize(expr string) ([]token, error) {
	var out []token
	i := 0
	for i < len(expr) {
		c := expr[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c >= '0' && c <= '9' || c == '.':
			j := i
			for j < len(expr) && (expr[j] >= '0' && expr[j] <= '9' || expr[j] == '.') {
				j++
			}
			n, err := strconv.ParseFloat(expr[i:j], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid number %q", expr[i:j])
			}
			out = append(out, token{kind: tokNumber, num: n})
			i = j
		case c == '(':
			out = append(out, token{kind: tokLParen})
			i++
		case c == ')':
			out = append(out, token{kind: tokRParen})
			i++
		case strings.IndexByte("+-*/%^", c) >= 0:
			// A minus at expression start or after '(' or an operator
			// is unary.
			unary := c == '-' && (len(out) == 0 || out[len(out)-1].kind == tokOp || out[len(out)-1].kind == tokLParen)
			out = append(out, token{kind: tokOp, op: c, unary: unary})
			i++
		case unicode.IsLetter(rune(c)):
			return nil, fmt.Errorf("unexpected identifier at position %d", i)
		default:
			return nil, fmt.Errorf("unexpected character %q", c)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty expression")
	}
	return out, nil
}

func precedence(t token) (prec int, rightAssoc bool) {
	if t.unary {
		return 3, true
	}
	switch t.op {
	case '+', '-':
		return 1, false
	case '*', '/', '%':
		return 2, false
	case '^':
		return 3, true
	}
	return 0, false
}

func toRPN(tokens []token) ([]token, error) {
	var out, stack []token
	for _, t := range tokens {
		switch t.kind {
		case tokNumber:
			out = append(out, t)
		case tokOp:
			p, right := precedence(t)
			for len(stack) > 0 && stack[len(stack)-1].kind == tokOp {
				tp, _ := precedence(stack[len(stack)-1])
				if tp > p || (tp == p && !right) {
					out = append(out, stack[len(stack)-1])
					stack = stack[:len(stack)-1]
					continue
				}
				break
			}
			stack = append(stack, t)
		case tokLParen:
			stack = append(stack, t)
		case tokRParen:
			matched := false
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if top.kind == tokLParen {
					matched = true
					break
				}
				out = append(out, top)
			}
			if !matched {
				return nil, fmt.Errorf("unbalanced parentheses")
			}
		}
	}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.kind == tokLParen {
			return nil, fmt.Errorf("unbalanced parentheses")
		}
		out = append(out, top)
	}
	return out, nil
}

func evalRPN(rpn []token) (float64, error) {
	var stack []float64
	for _, t := range rpn {
		if t.kind == tokNumber {
			stack = append(stack, t.num)
			continue
		}
		if t.unary {
			if len(stack) < 1 {
				return 0, fmt.Errorf("malformed expression")
			}
			stack[len(stack)-1] = -stack[len(stack)-1]
			continue
		}
		if len(stack) < 2 {
			return 0, fmt.Errorf("malformed expression")
		}
		b := stack[len(stack)-1]
		a := stack[len(stack)-2]
		stack = stack[:len(stack)-2]

		var v float64
		switch t.op {
		case '+':
			v = a + b
		case '-':
			v = a - b
		case '*':
			v = a * b
		case '/':
			if b == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			v = a / b
		case '%':
			if b == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			v = math.Mod(a, b)
		case '^':
			v = math.Pow(a, b)
		}
		stack = append(stack, v)
	}
	if len(stack) != 1 {
		return 0, fmt.Errorf("malformed expression")
	}
	return stack[0], nil
}
