package kernel

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Handle identifies a kernel object to guest code.
type Handle uint32

const (
	// issued handles start above this value
	HANDLE_BASE Handle = 0x1000

	X_INVALID_HANDLE_VALUE Handle = 0xFFFFFFFF
	X_CURRENT_THREAD       Handle = 0xFFFFFFFE
)

func (h Handle) String() string {
	return fmt.Sprintf("%#x", uint32(h))
}

type ObjectType uint8

const (
	TypeUndefined ObjectType = iota
	TypeEvent
	TypeSemaphore
	TypeMutant
	TypeThread
	TypeFile
	TypeNotifyListener
	TypeEnumerator
)

var typeNames = [...]string{"undefined", "event", "semaphore", "mutant", "thread", "file", "notify", "enumerator"}

func (t ObjectType) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("type(%d)", t)
}

// Object is the part of every kernel object the handle table relies on.
// Concrete objects embed ObjectBase and add capabilities (Waiter, Signaler,
// ReadWriter) as they need them.
type Object interface {
	Handle() Handle
	Type() ObjectType
	// Retain and Release count references held by guest and host code.
	// The object is destroyed when the count drops to zero.
	Retain()
	Release()
	Base() *ObjectBase
}

type ObjectBase struct {
	kernel *KernelState
	typ    ObjectType
	handle atomic.Uint32
	refs   atomic.Int32
	native atomic.Uint32

	destroyOnce sync.Once
	onDestroy   func()
}

// Init must be called by the constructor of every concrete object. The
// object starts with one reference, owned by its creator.
// onDestroy releases variant state and may be nil.
func (o *ObjectBase) Init(k *KernelState, typ ObjectType, onDestroy func()) {
	o.kernel = k
	o.typ = typ
	o.onDestroy = onDestroy
	o.refs.Store(1)
}

func (o *ObjectBase) Base() *ObjectBase       { return o }
func (o *ObjectBase) Kernel() *KernelState    { return o.kernel }
func (o *ObjectBase) Type() ObjectType        { return o.typ }
func (o *ObjectBase) Handle() Handle          { return Handle(o.handle.Load()) }
func (o *ObjectBase) NativePtr() uint32       { return o.native.Load() }
func (o *ObjectBase) RefCount() int32         { return o.refs.Load() }
func (o *ObjectBase) Retain()                 { o.refs.Add(1) }
func (o *ObjectBase) setHandle(h Handle) bool { return o.handle.CompareAndSwap(0, uint32(h)) }

func (o *ObjectBase) Release() {
	if o.refs.Add(-1) == 0 {
		o.Destroy()
	}
}

// Destroy removes the object from the handle table and tears down variant
// state. It runs at most once no matter how often it is called.
func (o *ObjectBase) Destroy() {
	o.destroyOnce.Do(func() {
		if o.kernel != nil {
			o.kernel.removeBase(o)
		}
		if o.onDestroy != nil {
			o.onDestroy()
		}
	})
}

func (o *ObjectBase) String() string {
	return fmt.Sprintf("%s(%s)", o.typ, o.Handle())
}
