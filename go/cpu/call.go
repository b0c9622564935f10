package cpu

import (
	"context"
	"reflect"

	"github.com/lunixbochs/argjoy"
	"github.com/pkg/errors"

	"github.com/lunixbochs/xecorn/go/models"
)

var (
	ErrStub = errors.New("export is not implemented")

	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	uint64Type  = reflect.TypeOf(uint64(0))
)

// Caller invokes export implementations with arguments taken from guest
// registers.
type Caller struct {
	Mem    models.Memory
	Argjoy argjoy.Argjoy
}

func NewCaller(mem models.Memory) *Caller {
	c := &Caller{Mem: mem}
	c.Argjoy.Register(c.codec)
	c.Argjoy.Register(argjoy.IntToInt)
	return c
}

// Params lists the guest-visible parameter types of fn, skipping a leading
// context.Context.
func Params(fn interface{}) (in []reflect.Type, wantsCtx bool) {
	typ := reflect.TypeOf(fn)
	if typ == nil || typ.Kind() != reflect.Func {
		return nil, false
	}
	start := 0
	if typ.NumIn() > 0 && typ.In(0) == contextType {
		start, wantsCtx = 1, true
	}
	for i := start; i < typ.NumIn(); i++ {
		in = append(in, typ.In(i))
	}
	return in, wantsCtx
}

// Call runs e.Fn with args converted to its parameter types. The first
// result, if it is an integer, is returned as the guest return value.
func (c *Caller) Call(ctx context.Context, e *Export, args []uint64) (ret uint64, err error) {
	if e == nil || e.Fn == nil {
		return 0, ErrStub
	}
	fn := reflect.ValueOf(e.Fn)
	if fn.Kind() != reflect.Func {
		return 0, errors.Errorf("%s: Fn is %T, not a func", e.Name, e.Fn)
	}
	in, wantsCtx := Params(e.Fn)
	if len(in) > len(args) {
		return 0, errors.Errorf("%s wants %d arguments, got %d", e.Name, len(in), len(args))
	}
	converted, err := c.Argjoy.Convert(in, false, args[:len(in)])
	if err != nil {
		return 0, errors.Wrapf(err, "converting arguments for %s", e.Name)
	}
	if wantsCtx {
		if ctx == nil {
			ctx = context.Background()
		}
		converted = append([]reflect.Value{reflect.ValueOf(ctx)}, converted...)
	}
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("%s panicked: %v", e.Name, r)
		}
	}()
	out := fn.Call(converted)
	if len(out) > 0 && out[0].Type().ConvertibleTo(uint64Type) {
		return out[0].Convert(uint64Type).Uint(), nil
	}
	return 0, nil
}
