package render

// Handle is the name of a context object. The zero handle is the default
// object (back-buffer framebuffer, no program, no vertex array).
type Handle uint32

// Location is a uniform location inside a linked program.
type Location int32

// Context is the subset of a bind-then-call graphics API the engine drives.
// All methods operate on the context current for the calling thread.
//
// Only the State tracker and the draw loop call into a Context. Code outside
// this package must not change program, framebuffer or fixed-function state
// behind the tracker's back, or the cached registers go stale.
type Context interface {
	Enable(cap Capability)
	Disable(cap Capability)

	DepthFunc(fn CompareFunc)
	DepthMask(write bool)
	DepthRange(near, far float64)

	StencilFuncSeparate(face Face, fn CompareFunc, ref int32, mask uint32)
	StencilMaskSeparate(face Face, mask uint32)
	StencilOpSeparate(face Face, fail, zfail, zpass StencilOp)

	BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha BlendFactor)
	BlendEquationSeparate(rgb, alpha BlendEquation)
	BlendColor(r, g, b, a float32)

	Scissor(x, y, width, height int32)
	Viewport(x, y, width, height int32)

	BindFramebuffer(target FramebufferTarget, framebuffer Handle)
	DrawBuffers(buffers []DrawBuffer)
	UseProgram(program Handle)
	BindVertexArray(vertexArray Handle)
	ActiveTexture(unit int)
	BindTexture(target TextureTarget, texture Handle)

	Uniform1fv(loc Location, v []float32)
	Uniform2fv(loc Location, v []float32)
	Uniform3fv(loc Location, v []float32)
	Uniform4fv(loc Location, v []float32)
	Uniform1iv(loc Location, v []int32)
	Uniform2iv(loc Location, v []int32)
	Uniform3iv(loc Location, v []int32)
	Uniform4iv(loc Location, v []int32)
	Uniform1uiv(loc Location, v []uint32)
	Uniform2uiv(loc Location, v []uint32)
	Uniform3uiv(loc Location, v []uint32)
	Uniform4uiv(loc Location, v []uint32)
	UniformMatrix2fv(loc Location, v []float32)
	UniformMatrix3fv(loc Location, v []float32)
	UniformMatrix4fv(loc Location, v []float32)

	DrawArrays(mode Primitive, first, count int32)
	DrawArraysInstanced(mode Primitive, first, count, instances int32)
	DrawElements(mode Primitive, count int32, typ ElementType, offset int)
	DrawElementsInstanced(mode Primitive, count int32, typ ElementType, offset int, instances int32)

	ClearColor(r, g, b, a float32)
	ClearDepth(depth float64)
	ClearStencil(stencil int32)
	Clear(bits BufferBits)
	BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1 int32, bits BufferBits, filter Filter)

	// CompileShader returns the compiler log when ok is false.
	CompileShader(kind ShaderKind, source string) (shader Handle, infoLog string, ok bool)
	// LinkProgram returns the linker log when ok is false.
	LinkProgram(vertex, fragment Handle) (program Handle, infoLog string, ok bool)
	DeleteShader(shader Handle)
	DeleteProgram(program Handle)
	// UniformLocation reports false when the program has no active uniform
	// with that name.
	UniformLocation(program Handle, name string) (Location, bool)

	// DrawingBufferSize is the size of the default framebuffer in pixels.
	DrawingBufferSize() (width, height int)
}

// Geometry is a drawable vertex source, usually a vertex array with an
// optional index buffer.
type Geometry interface {
	VertexArray() Handle
	Primitive() Primitive
	// Count is the number of indices for indexed geometry, vertices otherwise.
	Count() int
	// ElementType is ElementNone when the geometry has no index buffer.
	ElementType() ElementType
	// InstanceCount greater than zero selects instanced draw calls.
	InstanceCount() int
}

// GeometryRange is implemented by geometry that draws a sub-range of its
// vertex array. The offset is in elements and is added to the command offset.
type GeometryRange interface {
	Offset() int
}

type Texture interface {
	Handle() Handle
	Target() TextureTarget
}

// Framebuffer is an offscreen surface usable as a draw target or a blit
// source.
type Framebuffer interface {
	Handle() Handle
	DrawBuffers() []DrawBuffer
	Width() int
	Height() int
}
