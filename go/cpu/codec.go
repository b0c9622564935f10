package cpu

import (
	"reflect"

	"github.com/lunixbochs/argjoy"
)

// converts one argument register into the parameter type pointed to by arg
func (c *Caller) codec(arg interface{}, vals []interface{}) error {
	reg, ok := vals[0].(uint64)
	if !ok {
		return argjoy.NoMatch
	}
	addr := uint32(reg)
	switch v := arg.(type) {
	case *Ptr:
		*v = Ptr(addr)
	case *Dword:
		*v = Dword(addr)
	case *Buf:
		*v = NewBuf(c.Mem, addr)
	case *string:
		if addr == 0 {
			*v = ""
			return nil
		}
		s, err := c.Mem.ReadStrAt(addr)
		if err != nil {
			return err
		}
		*v = s
	default:
		rv := reflect.ValueOf(arg)
		if rv.Kind() != reflect.Ptr {
			return argjoy.NoMatch
		}
		e := rv.Elem()
		switch e.Kind() {
		case reflect.Uint64, reflect.Uintptr:
			e.SetUint(reg)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
			e.SetUint(uint64(addr))
		case reflect.Int64:
			e.SetInt(int64(reg))
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32:
			e.SetInt(int64(int32(addr)))
		case reflect.Bool:
			e.SetBool(addr != 0)
		default:
			return argjoy.NoMatch
		}
	}
	return nil
}
