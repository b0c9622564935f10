package xboxkrnl

import (
	"context"
	"time"

	"github.com/lunixbochs/xecorn/go/cpu"
	"github.com/lunixbochs/xecorn/go/kernel"
)

type largeInteger struct {
	Value int64
}

// readTimeout decodes an optional PLARGE_INTEGER timeout. A null pointer
// means wait forever.
func readTimeout(b cpu.Buf) (*time.Duration, error) {
	if b.IsNull() {
		return nil, nil
	}
	var li largeInteger
	if err := b.Unpack(&li); err != nil {
		return nil, err
	}
	return kernel.GuestTimeout(li.Value), nil
}

func waitOn(ctx context.Context, obj kernel.Object, timeout cpu.Buf) uint32 {
	if obj == nil {
		return kernel.X_STATUS_INVALID_HANDLE
	}
	w, ok := obj.(kernel.Waiter)
	if !ok {
		return kernel.X_STATUS_OBJECT_TYPE_MISMATCH
	}
	d, err := readTimeout(timeout)
	if err != nil {
		return kernel.StatusFromError(err)
	}
	return w.Wait(ctx, d)
}
