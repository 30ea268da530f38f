package libgl

import (
	"retained-gl/render"

	"github.com/go-gl/gl/v4.5-core/gl"
)

// VertexArray is a vertex array object together with the draw parameters
// needed to use it as render.Geometry.
type VertexArray struct {
	glId          uint32
	primitive     render.Primitive
	count         int
	elementType   render.ElementType
	instanceCount int
}

func NewVertexArray(primitive render.Primitive) *VertexArray {
	var id uint32
	gl.CreateVertexArrays(1, &id)
	return &VertexArray{
		glId:      id,
		primitive: primitive,
	}
}

func (vao *VertexArray) SetDebugLabel(label string) {
	setObjectLabel(gl.VERTEX_ARRAY, vao.glId, label)
}

// Layout describes a float attribute read from buffer slot bufferIndex.
// dataType is the GL component type, e.g. gl.FLOAT or gl.UNSIGNED_BYTE.
func (vao *VertexArray) Layout(bufferIndex, attributeIndex, size int, dataType uint32, normalized bool, offset int) {
	gl.EnableVertexArrayAttrib(vao.glId, uint32(attributeIndex))
	gl.VertexArrayAttribFormat(vao.glId, uint32(attributeIndex), int32(size), dataType, normalized, uint32(offset))
	gl.VertexArrayAttribBinding(vao.glId, uint32(attributeIndex), uint32(bufferIndex))
}

func (vao *VertexArray) BindBuffer(bufferIndex int, vbo *Buffer, offset, stride int) {
	gl.VertexArrayVertexBuffer(vao.glId, uint32(bufferIndex), vbo.Id(), offset, int32(stride))
}

// BindElementBuffer makes the geometry indexed.
func (vao *VertexArray) BindElementBuffer(ebo *Buffer, elementType render.ElementType) {
	gl.VertexArrayElementBuffer(vao.glId, ebo.Id())
	vao.elementType = elementType
}

// AttribDivisor advances the attributes of bufferIndex once per divisor
// instances instead of once per vertex.
func (vao *VertexArray) AttribDivisor(bufferIndex, divisor int) {
	gl.VertexArrayBindingDivisor(vao.glId, uint32(bufferIndex), uint32(divisor))
}

// SetCount sets the number of vertices, or indices for indexed geometry.
func (vao *VertexArray) SetCount(count int) {
	vao.count = count
}

func (vao *VertexArray) SetInstanceCount(count int) {
	vao.instanceCount = count
}

func (vao *VertexArray) VertexArray() render.Handle      { return render.Handle(vao.glId) }
func (vao *VertexArray) Primitive() render.Primitive     { return vao.primitive }
func (vao *VertexArray) Count() int                      { return vao.count }
func (vao *VertexArray) ElementType() render.ElementType { return vao.elementType }
func (vao *VertexArray) InstanceCount() int              { return vao.instanceCount }

// Range returns geometry drawing count elements of vao starting at offset.
func (vao *VertexArray) Range(offset, count int) *VertexRange {
	return &VertexRange{vao: vao, offset: offset, count: count}
}

func (vao *VertexArray) Delete() {
	gl.DeleteVertexArrays(1, &vao.glId)
	vao.glId = 0
}

// VertexRange is a sub-range of a VertexArray. Consecutive ranges of the same
// vertex array share the vertex array binding in a batch.
type VertexRange struct {
	vao    *VertexArray
	offset int
	count  int
}

func (r *VertexRange) VertexArray() render.Handle      { return r.vao.VertexArray() }
func (r *VertexRange) Primitive() render.Primitive     { return r.vao.primitive }
func (r *VertexRange) Count() int                      { return r.count }
func (r *VertexRange) ElementType() render.ElementType { return r.vao.elementType }
func (r *VertexRange) InstanceCount() int              { return r.vao.instanceCount }
func (r *VertexRange) Offset() int                     { return r.offset }
