package cpu

import (
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/mgutz/ansi"

	"github.com/lunixbochs/xecorn/go/models"
)

var (
	stringType = reflect.TypeOf("")
	bufType    = reflect.TypeOf(Buf{})
)

// Tracer prints export calls as `module!Name(args) = ret`.
type Tracer struct {
	W       io.Writer
	Mem     models.Memory
	Color   bool
	Strsize int

	mu sync.Mutex
}

func hex(a uint64) string {
	return fmt.Sprintf("0x%x", a)
}

func (t *Tracer) paint(s, style string) string {
	if !t.Color {
		return s
	}
	return ansi.Color(s, style)
}

func (t *Tracer) traceArg(typ reflect.Type, val uint64) string {
	switch {
	case typ == stringType:
		if val == 0 || t.Mem == nil {
			return "NULL"
		}
		s, err := t.Mem.ReadStrAt(uint32(val))
		if err != nil {
			return hex(val)
		}
		return models.Repr([]byte(s), t.Strsize)
	case typ == bufType:
		return hex(uint64(uint32(val)))
	}
	switch typ.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32:
		return fmt.Sprintf("%d", int32(val))
	case reflect.Bool:
		return fmt.Sprintf("%v", uint32(val) != 0)
	}
	return hex(uint64(uint32(val)))
}

func (t *Tracer) format(module string, e *Export, args []uint64) string {
	name := t.paint(e.Name, "cyan")
	in, _ := Params(e.Fn)
	out := make([]string, 0, len(in))
	for i, typ := range in {
		if i >= len(args) {
			break
		}
		out = append(out, t.traceArg(typ, args[i]))
	}
	return fmt.Sprintf("%s!%s(%s)", module, name, strings.Join(out, ", "))
}

func (t *Tracer) Call(module string, e *Export, args []uint64, ret uint64, err error) {
	line := t.format(module, e, args)
	if err != nil {
		line += " = " + t.paint(err.Error(), "red")
	} else {
		line += " = " + hex(uint64(uint32(ret)))
	}
	t.write(line)
}

func (t *Tracer) Unresolved(module string, ordinal uint32, e *Export) {
	name := fmt.Sprintf("ordinal_%#x", ordinal)
	if e != nil && e.Name != "" {
		name = e.Name
	}
	t.write(fmt.Sprintf("%s!%s(...) = %s", module, t.paint(name, "yellow"), t.paint("unimplemented", "yellow")))
}

func (t *Tracer) write(line string) {
	if t.W == nil {
		return
	}
	t.mu.Lock()
	fmt.Fprintln(t.W, line)
	t.mu.Unlock()
}
