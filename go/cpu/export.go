package cpu

import (
	"fmt"
	"strings"
)

type ExportType uint8

const (
	ExportFunction ExportType = iota
	ExportVariable
)

func (t ExportType) String() string {
	if t == ExportVariable {
		return "variable"
	}
	return "function"
}

type ExportFlags uint32

const (
	ExportImplemented ExportFlags = 1 << iota
	ExportHighFrequency
	ExportLog
)

func (f ExportFlags) String() string {
	var out []string
	if f&ExportImplemented != 0 {
		out = append(out, "implemented")
	}
	if f&ExportHighFrequency != 0 {
		out = append(out, "hot")
	}
	if f&ExportLog != 0 {
		out = append(out, "log")
	}
	return strings.Join(out, "|")
}

// Export describes one guest-visible symbol of a module.
//
// A function export with a nil Fn is a stub: the ordinal is known to exist
// but has no implementation. Fn is any Go func whose parameters can be
// decoded from argument registers by a Caller.
type Export struct {
	Ordinal uint32
	Name    string
	Type    ExportType
	Flags   ExportFlags

	Fn interface{}
	// guest address of the backing storage for variable exports
	VariablePtr uint32
}

func (e *Export) IsStub() bool {
	if e.Type == ExportVariable {
		return e.VariablePtr == 0
	}
	return e.Fn == nil
}

func (e *Export) String() string {
	desc := fmt.Sprintf("%#05x %s", e.Ordinal, e.Name)
	if e.Type == ExportVariable {
		desc += fmt.Sprintf(" [var @%#08x]", e.VariablePtr)
	}
	if e.IsStub() {
		desc += " (stub)"
	}
	return desc
}

// Func declares an implemented function export.
func Func(ordinal uint32, name string, fn interface{}) *Export {
	return &Export{Ordinal: ordinal, Name: name, Type: ExportFunction, Flags: ExportImplemented, Fn: fn}
}

// Stub declares a function export without an implementation.
func Stub(ordinal uint32, name string) *Export {
	return &Export{Ordinal: ordinal, Name: name, Type: ExportFunction}
}

// Var declares a variable export backed by guest memory at ptr.
func Var(ordinal uint32, name string, ptr uint32) *Export {
	return &Export{Ordinal: ordinal, Name: name, Type: ExportVariable, Flags: ExportImplemented, VariablePtr: ptr}
}
