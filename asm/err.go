package asm

import (
	"errors"

	"github.com/sarchlab/sm213/translate"
)

var f = translate.From

var (
	ErrOpcodeInvalid     = errors.New(f("opcode invalid"))
	ErrOperandCount      = errors.New(f("wrong number of operands"))
	ErrOperandInvalid    = errors.New(f("operand invalid"))
	ErrRegisterInvalid   = errors.New(f("register invalid"))
	ErrLabelDuplicate    = errors.New(f("label duplicated"))
	ErrEquateSyntax      = errors.New(f(".equ syntax"))
	ErrEquateDuplicate   = errors.New(f(".equ duplicated"))
	ErrBranchRange       = errors.New(f("branch target out of range"))
	ErrAddressNegative   = errors.New(f(".pos address negative"))
	ErrOverlap           = errors.New(f("code overlaps earlier output"))
	ErrDirectiveInvalid  = errors.New(f("directive invalid"))
	ErrExpressionNotInt  = errors.New(f("expression is not an integer"))
	ErrValueOutOfRange   = errors.New(f("value out of range"))
	ErrValueMisaligned   = errors.New(f("value misaligned"))
	ErrIndexScaleInvalid = errors.New(f("index scale must be 4"))
)

// ErrSyntax locates an assembly error in the source.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrParseExpression reports an expression Starlark could not evaluate.
type ErrParseExpression struct {
	Expr string
	Err  error
}

func (err ErrParseExpression) Error() string {
	return f("'%v' is not a valid expression: %v", err.Expr, err.Err)
}

func (err ErrParseExpression) Unwrap() error {
	return err.Err
}

// ErrRange reports a value that does not fit its operand field.
type ErrRange struct {
	Value    int64
	Min, Max int64
}

func (err ErrRange) Error() string {
	return f("value %v not in [%v, %v]", err.Value, err.Min, err.Max)
}

func (err ErrRange) Is(target error) bool {
	return target == ErrValueOutOfRange
}
