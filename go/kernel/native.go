package kernel

import (
	"context"

	"github.com/pkg/errors"
)

// dispatcher header types written by guest code
const (
	DISPATCH_NOTIFICATION_EVENT    = 0
	DISPATCH_SYNCHRONIZATION_EVENT = 1
	DISPATCH_MUTANT                = 2
	DISPATCH_SEMAPHORE             = 5
	DISPATCH_THREAD                = 6
)

// marks a header that has been bound to a kernel object ("XEN\0")
const NATIVE_SIGNATURE = 0x58454E00

// DispatchHeader is the common prefix of guest KEVENT, KSEMAPHORE, KMUTANT
// and KTHREAD structures.
type DispatchHeader struct {
	Type          uint8
	Absolute      uint8
	Size          uint8
	Inserted      uint8
	SignalState   int32
	WaitListFlink uint32
	WaitListBlink uint32
}

// KSEMAPHORE is a dispatcher header followed by the limit.
type nativeSemaphore struct {
	Header DispatchHeader
	Limit  int32
}

// ObjectForNative returns the kernel object bound to the guest dispatcher
// structure at ptr, creating and inserting one on first use. The header is
// stamped with NATIVE_SIGNATURE and the object's handle.
func (k *KernelState) ObjectForNative(ptr uint32) (Object, error) {
	if ptr == 0 {
		return nil, errors.New("null dispatcher header")
	}
	k.natMu.Lock()
	defer k.natMu.Unlock()

	k.mu.Lock()
	obj := k.natives[ptr]
	k.mu.Unlock()
	if obj != nil {
		return obj, nil
	}

	var hdr DispatchHeader
	if err := k.Mem.StrucAt(ptr).Unpack(&hdr); err != nil {
		return nil, errors.Wrapf(err, "reading dispatcher header at %#x", ptr)
	}
	if hdr.WaitListBlink == NATIVE_SIGNATURE {
		if obj = k.GetObject(Handle(hdr.WaitListFlink)); obj != nil {
			return obj, nil
		}
	}

	switch hdr.Type {
	case DISPATCH_NOTIFICATION_EVENT, DISPATCH_SYNCHRONIZATION_EVENT:
		obj = NewEvent(k, hdr.Type == DISPATCH_NOTIFICATION_EVENT, hdr.SignalState != 0)
	case DISPATCH_SEMAPHORE:
		var sem nativeSemaphore
		if err := k.Mem.StrucAt(ptr).Unpack(&sem); err != nil {
			return nil, errors.Wrapf(err, "reading semaphore at %#x", ptr)
		}
		s, err := NewSemaphore(k, sem.Header.SignalState, sem.Limit)
		if err != nil {
			return nil, err
		}
		obj = s
	case DISPATCH_MUTANT:
		obj = NewMutant(context.Background(), k, false)
	default:
		return nil, errors.Wrapf(ErrTypeMismatch, "dispatcher type %d at %#x", hdr.Type, ptr)
	}

	h := k.insert(obj, ptr)
	if h == 0 {
		return nil, ErrShutdown
	}

	hdr.WaitListFlink = uint32(h)
	hdr.WaitListBlink = NATIVE_SIGNATURE
	if err := k.Mem.StrucAt(ptr).Pack(&hdr); err != nil {
		return nil, errors.Wrapf(err, "writing dispatcher header at %#x", ptr)
	}
	return obj, nil
}

// NativeObject returns the object already bound to the header at ptr.
func (k *KernelState) NativeObject(ptr uint32) Object {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.natives[ptr]
}
