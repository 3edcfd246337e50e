package emu

import (
	"errors"

	"github.com/sarchlab/sm213/translate"
)

var f = translate.From

var (
	// ErrInvalidAddress matches any *InvalidAddressError.
	ErrInvalidAddress = errors.New(f("invalid address"))
	// ErrInvalidRegister matches any *InvalidRegisterError.
	ErrInvalidRegister = errors.New(f("invalid register"))
	// ErrInvalidInstruction matches any *InvalidInstructionError.
	ErrInvalidInstruction = errors.New(f("invalid instruction"))
	// ErrMaxInstructions is returned when the instruction limit is reached.
	ErrMaxInstructions = errors.New(f("max instructions reached"))
)

// InvalidAddressError reports a memory access outside [0, capacity).
type InvalidAddressError struct {
	Address  int
	Length   int
	Capacity int
}

func (e *InvalidAddressError) Error() string {
	return f("invalid address 0x%x length %v (capacity 0x%x)", e.Address, e.Length, e.Capacity)
}

func (e *InvalidAddressError) Is(err error) bool {
	return err == ErrInvalidAddress
}

// InvalidRegisterError reports a register index outside 0-7.
type InvalidRegisterError struct {
	Index uint8
}

func (e *InvalidRegisterError) Error() string {
	return f("invalid register r%v", e.Index)
}

func (e *InvalidRegisterError) Is(err error) bool {
	return err == ErrInvalidRegister
}

// InvalidInstructionError reports an undefined opcode or ALU function.
type InvalidInstructionError struct {
	PC       uint32 // Address of the faulting instruction
	Opcode   uint8
	Function uint8 // op0, the ALU function for opcode 0x6
}

func (e *InvalidInstructionError) Error() string {
	return f("invalid instruction %x%x at pc 0x%x", e.Opcode, e.Function, e.PC)
}

func (e *InvalidInstructionError) Is(err error) bool {
	return err == ErrInvalidInstruction
}
