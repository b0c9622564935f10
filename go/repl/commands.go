package repl

import (
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"

	"github.com/lunixbochs/xecorn/go/cpu"
	"github.com/lunixbochs/xecorn/go/kernel"
)

var dumper = spew.ConfigState{
	Indent:                  "  ",
	MaxDepth:                2,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// accepts an ordinal or an export name
func (c *Context) export(module, key string) (*cpu.Export, error) {
	var e *cpu.Export
	if ord, err := strconv.ParseUint(key, 0, 32); err == nil {
		e = c.R.Resolver.Resolve(module, uint32(ord))
	} else {
		e = c.R.Resolver.ResolveName(module, key)
	}
	if e == nil {
		return nil, errors.Errorf("%s!%s is not registered", module, key)
	}
	return e, nil
}

var HelpCmd = cmd(&Command{
	Name: "help",
	Desc: "List commands.",
	Run: func(c *Context) error {
		for _, cmd := range Sorted() {
			c.Printf("  %-8s %-28s %s\n", cmd.Name, cmd.Args, cmd.Desc)
		}
		return nil
	},
})

var ModulesCmd = cmd(&Command{
	Name: "modules",
	Desc: "List kernel modules.",
	Run: func(c *Context) error {
		for _, m := range c.R.Kernel.Modules() {
			t := c.R.Resolver.Table(m.Name)
			c.Printf("  %-14s %-18s %s %d/%d exports\n", m.Name, m.Path, m.State(), t.Len(), t.Capacity())
		}
		return nil
	},
})

var ExportsCmd = cmd(&Command{
	Name: "exports",
	Args: "<module>",
	Desc: "List a module's export table.",
	Run: func(c *Context, module string) error {
		exports := c.R.Resolver.Exports(module)
		if exports == nil {
			return errors.Errorf("unknown module %s", module)
		}
		for _, e := range exports {
			c.Printf("  %s\n", e)
		}
		return nil
	},
})

var ResolveCmd = cmd(&Command{
	Name: "resolve",
	Args: "<module> <ordinal|name>",
	Desc: "Show one export.",
	Run: func(c *Context, module, key string) error {
		e, err := c.export(module, key)
		if err != nil {
			return err
		}
		c.Printf("%s!%s type=%s flags=%s\n", module, e, e.Type, e.Flags)
		if e.Fn != nil {
			in, _ := cpu.Params(e.Fn)
			c.Printf("  params: %v\n", in)
		}
		return nil
	},
})

var HandlesCmd = cmd(&Command{
	Name: "handles",
	Desc: "List open kernel objects.",
	Run: func(c *Context) error {
		for _, obj := range c.R.Kernel.Objects() {
			c.Printf("  %s %-10s refs=%d\n", obj.Handle(), obj.Type(), obj.Base().RefCount())
		}
		c.Printf("%d objects\n", c.R.Kernel.ObjectCount())
		return nil
	},
})

var ObjectCmd = cmd(&Command{
	Name: "object",
	Args: "<handle>",
	Desc: "Dump a kernel object.",
	Run: func(c *Context, handle uint32) error {
		obj := c.R.Kernel.GetObject(kernel.Handle(handle))
		if obj == nil {
			return kernel.ErrInvalidHandle
		}
		dumper.Fdump(c, obj)
		return nil
	},
})

var EventCmd = cmd(&Command{
	Name: "event",
	Args: "<manual> <signaled>",
	Desc: "Create an event object.",
	Run: func(c *Context, manual, signaled bool) error {
		ev := kernel.NewEvent(c.R.Kernel, manual, signaled)
		c.Printf("%s\n", c.R.Kernel.InsertObject(ev))
		return nil
	},
})

var CloseCmd = cmd(&Command{
	Name: "close",
	Args: "<handle>",
	Desc: "Close a handle.",
	Run: func(c *Context, handle uint32) error {
		return c.R.Kernel.CloseHandle(kernel.Handle(handle))
	},
})

var CallCmd = cmd(&Command{
	Name: "call",
	Args: "<module> <ordinal|name> [args...]",
	Desc: "Call an export with integer arguments.",
	Run: func(c *Context, module, key string, words ...string) error {
		e, err := c.export(module, key)
		if err != nil {
			return err
		}
		args := make([]uint64, len(words))
		for i, w := range words {
			if args[i], err = strconv.ParseUint(w, 0, 32); err != nil {
				return errors.Wrapf(err, "argument %d", i)
			}
		}
		ret := c.R.Dispatcher.Call(c.R.Context(), module, e.Ordinal, args)
		c.Printf("= %s\n", pretty(ret))
		return nil
	},
})

var ThunkCmd = cmd(&Command{
	Name: "thunk",
	Args: "<module> <ordinal|name>",
	Desc: "Bind an import and disassemble its thunk.",
	Run: func(c *Context, module, key string) error {
		e, err := c.export(module, key)
		if err != nil {
			return err
		}
		addr, err := c.R.Dispatcher.Bind(module, e.Ordinal)
		if err != nil {
			return err
		}
		if e.Type == cpu.ExportVariable {
			c.Printf("variable at %#08x\n", addr)
			return nil
		}
		listing, err := c.dis.Listing(c.R.Mem, addr, cpu.THUNK_SIZE)
		if err != nil {
			return err
		}
		c.Printf("%s\n", listing)
		return nil
	},
})

var MapsCmd = cmd(&Command{
	Name: "maps",
	Desc: "List guest memory regions.",
	Run: func(c *Context) error {
		for _, r := range c.R.Mem.Regions() {
			c.Printf("  %s\n", r)
		}
		return nil
	},
})
