package repl

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"strconv"

	"github.com/lunixbochs/argjoy"
	"github.com/lunixbochs/fvbommel-util/sortorder"
	"github.com/mattn/go-shellwords"
	"github.com/pkg/errors"

	xecorn "github.com/lunixbochs/xecorn/go"
	"github.com/lunixbochs/xecorn/go/cpu/asm"
)

type Context struct {
	io.Writer
	R *xecorn.Runtime

	dis asm.Disassembler
}

func NewContext(r *xecorn.Runtime, w io.Writer) *Context {
	return &Context{Writer: w, R: r}
}

func (c *Context) Printf(format string, a ...interface{}) (n int, err error) {
	return fmt.Fprintf(c, format, a...)
}

// Command.Run is a func taking *Context, then any number of string or
// integer parameters, optionally followed by a variadic ...string that
// receives the remaining words.
type Command struct {
	Name string
	Args string
	Desc string
	Run  interface{}
}

var Commands = make(map[string]*Command)

var (
	contextType = reflect.TypeOf((*Context)(nil))
	stringsType = reflect.TypeOf([]string(nil))
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

func cmd(c *Command) *Command {
	fn := reflect.TypeOf(c.Run)
	if fn == nil || fn.Kind() != reflect.Func || fn.NumIn() == 0 || fn.In(0) != contextType {
		panic(fmt.Sprintf("Command.Run must be a func(*Context, ...): got (%T) %#v\n", c.Run, c.Run))
	}
	Commands[c.Name] = c
	return c
}

func Sorted() []*Command {
	names := make([]string, 0, len(Commands))
	for name := range Commands {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return sortorder.NaturalLess(names[i], names[j]) })
	out := make([]*Command, len(names))
	for i, name := range names {
		out[i] = Commands[name]
	}
	return out
}

// parses one command word into an integer or string parameter
func parseArg(arg interface{}, vals []interface{}) error {
	s, ok := vals[0].(string)
	if !ok {
		return argjoy.NoMatch
	}
	switch v := arg.(type) {
	case *string:
		*v = s
	case *uint32:
		n, err := strconv.ParseUint(s, 0, 32)
		if err != nil {
			return err
		}
		*v = uint32(n)
	case *uint64:
		n, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return err
		}
		*v = n
	case *bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		*v = b
	default:
		return argjoy.NoMatch
	}
	return nil
}

var aj argjoy.Argjoy

func init() { aj.Register(parseArg) }

func (cmd *Command) call(c *Context, words []string) error {
	fn := reflect.ValueOf(cmd.Run)
	typ := fn.Type()
	var fixed []reflect.Type
	for i := 1; i < typ.NumIn(); i++ {
		fixed = append(fixed, typ.In(i))
	}
	variadic := typ.IsVariadic() && fixed[len(fixed)-1] == stringsType
	if variadic {
		fixed = fixed[:len(fixed)-1]
	}
	if len(words) < len(fixed) || (!variadic && len(words) > len(fixed)) {
		return errors.Errorf("usage: %s %s", cmd.Name, cmd.Args)
	}
	in, err := aj.Convert(fixed, false, words[:len(fixed)])
	if err != nil {
		return errors.Wrapf(err, "usage: %s %s", cmd.Name, cmd.Args)
	}
	in = append([]reflect.Value{reflect.ValueOf(c)}, in...)
	for _, w := range words[len(fixed):] {
		in = append(in, reflect.ValueOf(w))
	}
	out := fn.Call(in)
	if len(out) > 0 && out[0].Type() == errorType && !out[0].IsNil() {
		return out[0].Interface().(error)
	}
	return nil
}

// Run executes one line. Command errors are printed rather than returned so
// a bad line never ends the session.
func Run(c *Context, line string) {
	words, err := shellwords.Parse(line)
	if err != nil {
		c.Printf("parse error: %v\n", err)
		return
	}
	if len(words) == 0 {
		return
	}
	name, words := words[0], words[1:]
	cmd, ok := Commands[name]
	if !ok {
		c.Printf("command not found.\n")
		return
	}
	if err := cmd.call(c, words); err != nil {
		c.Printf("error: %v\n", err)
	}
}

func pretty(n uint64) string {
	if n < 10 {
		return fmt.Sprintf("%d", n)
	} else if n > 0x10000 {
		return fmt.Sprintf("%#x", n)
	}
	return fmt.Sprintf("%#x(%d)", n, n)
}
