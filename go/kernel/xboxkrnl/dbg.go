package xboxkrnl

import (
	"fmt"
	"strings"

	"github.com/lunixbochs/xecorn/go/cpu"
	"github.com/lunixbochs/xecorn/go/kernel"
	"github.com/lunixbochs/xecorn/go/log"
	"github.com/lunixbochs/xecorn/go/models"
)

// guestPrintf expands a guest printf format with register arguments.
// Supports the conversions DbgPrint callers use: d i u x X p c s %.
func guestPrintf(mem models.Memory, format string, args []uint32) string {
	var out strings.Builder
	next := func() uint32 {
		if len(args) == 0 {
			return 0
		}
		v := args[0]
		args = args[1:]
		return v
	}
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i+1 >= len(format) {
			out.WriteByte(c)
			continue
		}
		// skip flags, width and length modifiers
		j := i + 1
		for j < len(format) && strings.IndexByte("-+ #0123456789.lh", format[j]) >= 0 {
			j++
		}
		if j >= len(format) {
			out.WriteString(format[i:])
			break
		}
		directive := "%" + strings.TrimRight(format[i+1:j], "lh")
		switch verb := format[j]; verb {
		case 'd', 'i':
			fmt.Fprintf(&out, directive+"d", int32(next()))
		case 'u':
			fmt.Fprintf(&out, directive+"d", next())
		case 'x', 'X':
			fmt.Fprintf(&out, directive+string(verb), next())
		case 'p':
			fmt.Fprintf(&out, "%08X", next())
		case 'c':
			out.WriteByte(byte(next()))
		case 's':
			if s, err := mem.ReadStrAt(next()); err == nil {
				out.WriteString(s)
			} else {
				out.WriteString("(null)")
			}
		case '%':
			out.WriteByte('%')
		default:
			out.WriteString(format[i : j+1])
		}
		i = j
	}
	return out.String()
}

func registerDbgExports(r *cpu.ExportResolver, k *kernel.KernelState) {
	register(r,
		cpu.Func(0x0003, "DbgPrint", func(format string, a1, a2, a3, a4, a5, a6, a7 uint32) uint32 {
			msg := guestPrintf(k.Mem, format, []uint32{a1, a2, a3, a4, a5, a6, a7})
			log.L.Info("DbgPrint", "msg", strings.TrimRight(msg, "\r\n"))
			return kernel.X_STATUS_SUCCESS
		}),
		cpu.Func(0x0001, "DbgBreakPoint", func() {
			log.L.Warn("DbgBreakPoint")
		}),
	)
}
