package kernel

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/lunixbochs/xecorn/go/cpu"
	"github.com/lunixbochs/xecorn/go/log"
	"github.com/lunixbochs/xecorn/go/models"
)

// KernelState owns the handle table and the modules of one runtime.
// It must be shut down before the memory and processor it was built on are
// released.
type KernelState struct {
	Mem       models.Memory
	Processor models.Processor
	Resolver  *cpu.ExportResolver
	Config    *models.Config

	mu         sync.Mutex
	lastHandle uint32
	objects    map[Handle]Object
	// guest dispatcher header address -> object bound to it
	natives map[uint32]Object
	natMu   sync.Mutex

	modMu   sync.Mutex
	modules map[string]*Module

	threadID     atomic.Uint32
	shutdownOnce sync.Once
	closed       bool
}

func NewKernelState(mem models.Memory, proc models.Processor, resolver *cpu.ExportResolver, config *models.Config) *KernelState {
	return &KernelState{
		Mem:       mem,
		Processor: proc,
		Resolver:  resolver,
		Config:    config.Init(),
		objects:   make(map[Handle]Object),
		natives:   make(map[uint32]Object),
		modules:   make(map[string]*Module),
	}
}

// InsertObject assigns obj the next free handle and adds it to the table.
// Handles are never reused. Inserting an object that is already in the table
// returns the handle it has; an object that was removed goes back in under
// its original handle. After Shutdown the object is destroyed and 0 is
// returned.
func (k *KernelState) InsertObject(obj Object) Handle {
	return k.insert(obj, 0)
}

// insert binds native (if nonzero) under the same lock that publishes obj.
func (k *KernelState) insert(obj Object, native uint32) Handle {
	base := obj.Base()
	k.mu.Lock()
	if k.closed {
		k.mu.Unlock()
		log.L.Warn("insert after shutdown", "type", obj.Type())
		base.Destroy()
		return 0
	}
	h := base.Handle()
	if h != 0 && k.objects[h] == obj {
		k.mu.Unlock()
		return h
	}
	if h == 0 {
		k.lastHandle++
		h = HANDLE_BASE + Handle(k.lastHandle)
		base.setHandle(h)
	}
	k.objects[h] = obj
	if native != 0 {
		base.native.Store(native)
		k.natives[native] = obj
	}
	k.mu.Unlock()

	log.L.Trace("insert object", "handle", h, "type", obj.Type())
	return h
}

// GetObject returns nil for unknown or stale handles.
func (k *KernelState) GetObject(h Handle) Object {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.objects[h]
}

// RemoveObject drops obj's table entry. Removing an object that is no
// longer in the table is a no-op.
func (k *KernelState) RemoveObject(obj Object) {
	k.removeBase(obj.Base())
}

func (k *KernelState) removeBase(base *ObjectBase) {
	h := base.Handle()
	k.mu.Lock()
	obj, ok := k.objects[h]
	if ok && obj.Base() == base {
		delete(k.objects, h)
	} else {
		ok = false
	}
	if ptr := base.native.Load(); ptr != 0 && k.natives[ptr] != nil && k.natives[ptr].Base() == base {
		delete(k.natives, ptr)
	}
	k.mu.Unlock()
	if ok {
		log.L.Trace("remove object", "handle", h, "type", base.Type())
	}
}

// CloseHandle removes h from the table and drops the table's reference.
func (k *KernelState) CloseHandle(h Handle) error {
	k.mu.Lock()
	obj, ok := k.objects[h]
	if ok {
		delete(k.objects, h)
	}
	k.mu.Unlock()
	if !ok {
		return ErrInvalidHandle
	}
	log.L.Trace("close handle", "handle", h, "type", obj.Type())
	obj.Release()
	return nil
}

func (k *KernelState) ObjectCount() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.objects)
}

// Objects returns a snapshot of the table in handle order.
func (k *KernelState) Objects() []Object {
	k.mu.Lock()
	out := make([]Object, 0, len(k.objects))
	for _, obj := range k.objects {
		out = append(out, obj)
	}
	k.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Handle() < out[j].Handle() })
	return out
}

// GetObjectAs looks up h and checks the object's concrete type.
func GetObjectAs[T Object](k *KernelState, h Handle) (T, error) {
	var zero T
	obj := k.GetObject(h)
	if obj == nil {
		return zero, ErrInvalidHandle
	}
	typed, ok := obj.(T)
	if !ok {
		return zero, ErrTypeMismatch
	}
	return typed, nil
}

func (k *KernelState) nextThreadID() uint32 {
	return k.threadID.Add(1)
}

// Shutdown destroys every object still in the table. The table is
// snapshotted and cleared under the lock, and objects are destroyed after
// it is released, so destructors may call back into the table. Objects
// inserted afterwards are destroyed immediately.
func (k *KernelState) Shutdown() {
	k.shutdownOnce.Do(func() {
		k.mu.Lock()
		live := make([]Object, 0, len(k.objects))
		for _, obj := range k.objects {
			live = append(live, obj)
		}
		k.objects = make(map[Handle]Object)
		k.natives = make(map[uint32]Object)
		k.closed = true
		k.mu.Unlock()

		sort.Slice(live, func(i, j int) bool { return live[i].Handle() < live[j].Handle() })
		for _, obj := range live {
			obj.Base().Destroy()
		}
		log.L.Debug("kernel shutdown", "destroyed", len(live))
	})
}
