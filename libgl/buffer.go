package libgl

import (
	"encoding/binary"
	"fmt"
	"log"
	"reflect"
	"unsafe"

	"github.com/go-gl/gl/v4.5-core/gl"
)

// Pointer returns the address of the first element of a slice or of the
// value a pointer points to.
func Pointer(data any) unsafe.Pointer {
	if data == nil {
		return unsafe.Pointer(nil)
	}
	v := reflect.ValueOf(data)
	switch v.Type().Kind() {
	case reflect.Ptr:
		return unsafe.Pointer(v.Elem().UnsafeAddr())
	case reflect.Slice:
		if v.Len() == 0 {
			return unsafe.Pointer(nil)
		}
		return unsafe.Pointer(v.Index(0).UnsafeAddr())
	}
	panic(fmt.Errorf("unsupported type %s; must be a slice or pointer to a value", v.Type()))
}

// Buffer is a buffer object created with direct state access. It is never
// bound by libgl; vertex arrays reference it by name.
type Buffer struct {
	glId      uint32
	size      int
	usage     uint32
	immutable bool
}

func NewBuffer() *Buffer {
	var id uint32
	gl.CreateBuffers(1, &id)
	return &Buffer{glId: id}
}

func (b *Buffer) Id() uint32 {
	return b.glId
}

func (b *Buffer) Size() int {
	return b.size
}

func (b *Buffer) SetDebugLabel(label string) {
	setObjectLabel(gl.BUFFER, b.glId, label)
}

// Allocate creates immutable storage holding data. flags are the
// glBufferStorage flags.
func (b *Buffer) Allocate(data any, flags uint32) {
	if b.immutable {
		log.Panicf("buffer %d is immutable", b.glId)
	}
	size := binary.Size(data)
	if size <= 0 {
		log.Panicf("%T does not have a fixed, non-zero size", data)
	}
	gl.NamedBufferStorage(b.glId, size, Pointer(data), flags)
	b.size = size
	b.immutable = true
}

// AllocateMutable (re)creates mutable storage of size bytes. Streamed data
// like UI geometry is written with Write afterwards.
func (b *Buffer) AllocateMutable(size int, usage uint32) {
	if b.immutable {
		log.Panicf("buffer %d is immutable", b.glId)
	}
	gl.NamedBufferData(b.glId, size, nil, usage)
	b.size = size
	b.usage = usage
}

// Grow reallocates mutable storage to at least size bytes, discarding the
// contents. It reports whether storage was reallocated.
func (b *Buffer) Grow(size int) bool {
	if size <= b.size {
		return false
	}
	newSize := b.size * 2
	if newSize < size {
		newSize = size
	}
	b.AllocateMutable(newSize, b.usage)
	return true
}

func (b *Buffer) Write(offset int, data any) {
	size := binary.Size(data)
	if size == -1 {
		log.Panicf("%T does not have a fixed size", data)
	}
	if size == 0 {
		return
	}
	gl.NamedBufferSubData(b.glId, offset, size, Pointer(data))
}

// WriteRange writes size bytes starting at ptr, used for memory owned by C
// libraries.
func (b *Buffer) WriteRange(offset int, size int, ptr unsafe.Pointer) {
	gl.NamedBufferSubData(b.glId, offset, size, ptr)
}

func (b *Buffer) Delete() {
	gl.DeleteBuffers(1, &b.glId)
	b.glId = 0
}
