package ir

import (
	"fmt"

	"lemonc/internal/types"
)

// ValueKind distinguishes an immediate from a register reference (spec.md
// §3 "Value: either an immediate... or a register reference carrying
// TypeId").
type ValueKind uint8

const (
	ValueInvalid ValueKind = iota
	ValueImmediate
	ValueRegister
)

// ImmKind enumerates the immediate literal kinds a Value may carry.
type ImmKind uint8

const (
	ImmInt ImmKind = iota
	ImmFloat
	ImmBool
	ImmChar
	ImmString
)

// Value is the operand every instruction and terminator reads: either a
// constant folded straight from source, or a prior instruction's
// destination register. Kept as a flat tagged struct, the same style as
// the instruction variants in instr.go, rather than an interface — cheap to
// copy, easy to compare in tests.
type Value struct {
	Kind ValueKind
	Type types.TypeID

	// ValueImmediate
	ImmKind   ImmKind
	IntImm    int64
	FloatImm  float64
	BoolImm   bool
	CharImm   byte
	StringImm string

	// ValueRegister
	Reg Reg
}

// RegValue builds a register-valued operand.
func RegValue(r Reg, t types.TypeID) Value {
	return Value{Kind: ValueRegister, Type: t, Reg: r}
}

// IntValue builds an integer immediate.
func IntValue(v int64, t types.TypeID) Value {
	return Value{Kind: ValueImmediate, ImmKind: ImmInt, IntImm: v, Type: t}
}

// FloatValue builds a float immediate.
func FloatValue(v float64, t types.TypeID) Value {
	return Value{Kind: ValueImmediate, ImmKind: ImmFloat, FloatImm: v, Type: t}
}

// BoolValue builds a bool immediate.
func BoolValue(v bool, t types.TypeID) Value {
	return Value{Kind: ValueImmediate, ImmKind: ImmBool, BoolImm: v, Type: t}
}

// CharValue builds a char immediate.
func CharValue(v byte, t types.TypeID) Value {
	return Value{Kind: ValueImmediate, ImmKind: ImmChar, CharImm: v, Type: t}
}

// StringValue builds a string immediate.
func StringValue(v string, t types.TypeID) Value {
	return Value{Kind: ValueImmediate, ImmKind: ImmString, StringImm: v, Type: t}
}

// Format renders v for the disassembler, annotated with its TypeId's
// display string (spec.md §4.7 "instructions with operand lists and
// resulting types annotated").
func (v Value) Format(display func(types.TypeID) string) string {
	ty := display(v.Type)
	switch v.Kind {
	case ValueRegister:
		return fmt.Sprintf("%s %s", ty, v.Reg)
	case ValueImmediate:
		switch v.ImmKind {
		case ImmInt:
			return fmt.Sprintf("%s %d", ty, v.IntImm)
		case ImmFloat:
			return fmt.Sprintf("%s %g", ty, v.FloatImm)
		case ImmBool:
			return fmt.Sprintf("%s %t", ty, v.BoolImm)
		case ImmChar:
			return fmt.Sprintf("%s %q", ty, v.CharImm)
		case ImmString:
			return fmt.Sprintf("%s %q", ty, v.StringImm)
		}
	}
	return ty + " <invalid>"
}
