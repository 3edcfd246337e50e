package asm

import (
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// eval evaluates an integer expression. Labels and equates are visible as
// variables, so `table+8`, `N*4` and `0x100` are all valid.
func (asm *Assembler) eval(expr string) (value int64, err error) {
	expr = strings.TrimSpace(expr)
	if len(expr) == 0 {
		err = ErrParseExpression{Expr: expr, Err: ErrOperandInvalid}
		return
	}

	thread := starlark.Thread{Name: "asm"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, v := range asm.Equate {
		pred[key] = starlark.MakeInt64(v)
	}
	for key, v := range asm.Labels {
		pred[key] = starlark.MakeInt64(int64(v))
	}

	prog := "rc = " + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = ErrParseExpression{Expr: expr, Err: err}
		return
	}

	stInt, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression{Expr: expr, Err: ErrExpressionNotInt}
		return
	}

	value, ok = stInt.Int64()
	if !ok {
		err = ErrParseExpression{Expr: expr, Err: ErrValueOutOfRange}
	}
	return
}

// evalRange evaluates expr and checks min <= value <= max.
func (asm *Assembler) evalRange(expr string, min, max int64) (int64, error) {
	v, err := asm.eval(expr)
	if err != nil {
		return 0, err
	}
	if v < min || v > max {
		return 0, ErrRange{Value: v, Min: min, Max: max}
	}
	return v, nil
}

// evalScaled evaluates a byte offset that must be a multiple of scale and
// returns offset/scale, which must fit a 4-bit field (or 8 bits for wide).
func (asm *Assembler) evalScaled(expr string, scale, maxField int64) (int64, error) {
	v, err := asm.evalRange(expr, 0, maxField*scale)
	if err != nil {
		return 0, err
	}
	if v%scale != 0 {
		return 0, ErrValueMisaligned
	}
	return v / scale, nil
}
