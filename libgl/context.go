package libgl

import (
	"strings"

	"retained-gl/libio"
	"retained-gl/render"

	"github.com/go-gl/gl/v4.5-core/gl"
)

// Context implements render.Context on the OpenGL 4.5 core context current
// on the calling thread. gl.Init must have been called.
type Context struct {
	env   *Environment
	cache *libio.ProgramCache
	// sources of live shaders, needed for the program cache key
	sources map[render.Handle]string
	// bound in place of vertex array 0, which core profiles cannot draw with
	emptyVertexArray uint32

	cacheDir    string
	debugOutput bool
	bufferSize  func() (int, int)
}

type Option func(c *Context)

// WithProgramCache stores linked program binaries in dir and reuses them on
// later runs.
func WithProgramCache(dir string) Option {
	return func(c *Context) {
		c.cacheDir = dir
	}
}

// WithDebugOutput forwards driver debug messages to the render logger.
func WithDebugOutput() Option {
	return func(c *Context) {
		c.debugOutput = true
	}
}

// WithBufferSize reports the size of the default framebuffer, usually the
// framebuffer size of the window. Without it the initial viewport is used.
func WithBufferSize(fn func() (width, height int)) Option {
	return func(c *Context) {
		c.bufferSize = fn
	}
}

func NewContext(opts ...Option) *Context {
	c := &Context{
		env:     GetEnvironment(),
		sources: map[render.Handle]string{},
	}
	for _, opt := range opts {
		opt(c)
	}
	gl.CreateVertexArrays(1, &c.emptyVertexArray)

	if c.bufferSize == nil {
		var viewport [4]int32
		gl.GetIntegerv(gl.VIEWPORT, &viewport[0])
		w, h := int(viewport[2]), int(viewport[3])
		c.bufferSize = func() (int, int) { return w, h }
	}
	if c.debugOutput {
		enableDebugOutput()
	}
	if c.cacheDir != "" {
		if c.env.ProgramBinaryFormats > 0 {
			c.cache = libio.NewProgramCache(c.cacheDir, c.env.Driver())
		} else {
			render.Logger().Warn("driver does not support program binaries, program cache disabled")
		}
	}

	render.Logger().Info("gl context", "vendor", c.env.Vendor, "renderer", c.env.Renderer,
		"version", c.env.Version, "programCache", c.cache != nil)
	return c
}

func (c *Context) Environment() *Environment {
	return c.env
}

func (c *Context) Enable(cap render.Capability) {
	gl.Enable(capabilities[cap])
}

func (c *Context) Disable(cap render.Capability) {
	gl.Disable(capabilities[cap])
}

func (c *Context) DepthFunc(fn render.CompareFunc) {
	gl.DepthFunc(compareFuncs[fn])
}

func (c *Context) DepthMask(write bool) {
	gl.DepthMask(write)
}

func (c *Context) DepthRange(near, far float64) {
	gl.DepthRange(near, far)
}

func (c *Context) StencilFuncSeparate(face render.Face, fn render.CompareFunc, ref int32, mask uint32) {
	gl.StencilFuncSeparate(faces[face], compareFuncs[fn], ref, mask)
}

func (c *Context) StencilMaskSeparate(face render.Face, mask uint32) {
	gl.StencilMaskSeparate(faces[face], mask)
}

func (c *Context) StencilOpSeparate(face render.Face, fail, zfail, zpass render.StencilOp) {
	gl.StencilOpSeparate(faces[face], stencilOps[fail], stencilOps[zfail], stencilOps[zpass])
}

func (c *Context) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha render.BlendFactor) {
	gl.BlendFuncSeparate(blendFactors[srcRGB], blendFactors[dstRGB], blendFactors[srcAlpha], blendFactors[dstAlpha])
}

func (c *Context) BlendEquationSeparate(rgb, alpha render.BlendEquation) {
	gl.BlendEquationSeparate(blendEquations[rgb], blendEquations[alpha])
}

func (c *Context) BlendColor(r, g, b, a float32) {
	gl.BlendColor(r, g, b, a)
}

func (c *Context) Scissor(x, y, width, height int32) {
	gl.Scissor(x, y, width, height)
}

func (c *Context) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func (c *Context) BindFramebuffer(target render.FramebufferTarget, framebuffer render.Handle) {
	gl.BindFramebuffer(framebufferTargets[target], uint32(framebuffer))
}

func (c *Context) DrawBuffers(buffers []render.DrawBuffer) {
	bufs := drawBufferList(buffers)
	if len(bufs) == 1 {
		// the default framebuffer only accepts glDrawBuffer
		gl.DrawBuffer(bufs[0])
		return
	}
	gl.DrawBuffers(int32(len(bufs)), &bufs[0])
}

func (c *Context) UseProgram(program render.Handle) {
	gl.UseProgram(uint32(program))
}

func (c *Context) BindVertexArray(vertexArray render.Handle) {
	if vertexArray == 0 {
		gl.BindVertexArray(c.emptyVertexArray)
		return
	}
	gl.BindVertexArray(uint32(vertexArray))
}

func (c *Context) ActiveTexture(unit int) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
}

func (c *Context) BindTexture(target render.TextureTarget, texture render.Handle) {
	gl.BindTexture(textureTargets[target], uint32(texture))
}

func (c *Context) Uniform1fv(loc render.Location, v []float32) {
	if len(v) > 0 {
		gl.Uniform1fv(int32(loc), int32(len(v)), &v[0])
	}
}

func (c *Context) Uniform2fv(loc render.Location, v []float32) {
	if len(v) > 0 {
		gl.Uniform2fv(int32(loc), int32(len(v)/2), &v[0])
	}
}

func (c *Context) Uniform3fv(loc render.Location, v []float32) {
	if len(v) > 0 {
		gl.Uniform3fv(int32(loc), int32(len(v)/3), &v[0])
	}
}

func (c *Context) Uniform4fv(loc render.Location, v []float32) {
	if len(v) > 0 {
		gl.Uniform4fv(int32(loc), int32(len(v)/4), &v[0])
	}
}

func (c *Context) Uniform1iv(loc render.Location, v []int32) {
	if len(v) > 0 {
		gl.Uniform1iv(int32(loc), int32(len(v)), &v[0])
	}
}

func (c *Context) Uniform2iv(loc render.Location, v []int32) {
	if len(v) > 0 {
		gl.Uniform2iv(int32(loc), int32(len(v)/2), &v[0])
	}
}

func (c *Context) Uniform3iv(loc render.Location, v []int32) {
	if len(v) > 0 {
		gl.Uniform3iv(int32(loc), int32(len(v)/3), &v[0])
	}
}

func (c *Context) Uniform4iv(loc render.Location, v []int32) {
	if len(v) > 0 {
		gl.Uniform4iv(int32(loc), int32(len(v)/4), &v[0])
	}
}

func (c *Context) Uniform1uiv(loc render.Location, v []uint32) {
	if len(v) > 0 {
		gl.Uniform1uiv(int32(loc), int32(len(v)), &v[0])
	}
}

func (c *Context) Uniform2uiv(loc render.Location, v []uint32) {
	if len(v) > 0 {
		gl.Uniform2uiv(int32(loc), int32(len(v)/2), &v[0])
	}
}

func (c *Context) Uniform3uiv(loc render.Location, v []uint32) {
	if len(v) > 0 {
		gl.Uniform3uiv(int32(loc), int32(len(v)/3), &v[0])
	}
}

func (c *Context) Uniform4uiv(loc render.Location, v []uint32) {
	if len(v) > 0 {
		gl.Uniform4uiv(int32(loc), int32(len(v)/4), &v[0])
	}
}

func (c *Context) UniformMatrix2fv(loc render.Location, v []float32) {
	if len(v) > 0 {
		gl.UniformMatrix2fv(int32(loc), int32(len(v)/4), false, &v[0])
	}
}

func (c *Context) UniformMatrix3fv(loc render.Location, v []float32) {
	if len(v) > 0 {
		gl.UniformMatrix3fv(int32(loc), int32(len(v)/9), false, &v[0])
	}
}

func (c *Context) UniformMatrix4fv(loc render.Location, v []float32) {
	if len(v) > 0 {
		gl.UniformMatrix4fv(int32(loc), int32(len(v)/16), false, &v[0])
	}
}

func (c *Context) DrawArrays(mode render.Primitive, first, count int32) {
	gl.DrawArrays(primitives[mode], first, count)
}

func (c *Context) DrawArraysInstanced(mode render.Primitive, first, count, instances int32) {
	gl.DrawArraysInstanced(primitives[mode], first, count, instances)
}

func (c *Context) DrawElements(mode render.Primitive, count int32, typ render.ElementType, offset int) {
	gl.DrawElements(primitives[mode], count, elementTypes[typ], gl.PtrOffset(offset))
}

func (c *Context) DrawElementsInstanced(mode render.Primitive, count int32, typ render.ElementType, offset int, instances int32) {
	gl.DrawElementsInstanced(primitives[mode], count, elementTypes[typ], gl.PtrOffset(offset), instances)
}

func (c *Context) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (c *Context) ClearDepth(depth float64) {
	gl.ClearDepth(depth)
}

func (c *Context) ClearStencil(stencil int32) {
	gl.ClearStencil(stencil)
}

func (c *Context) Clear(bits render.BufferBits) {
	gl.Clear(bufferBits(bits))
}

func (c *Context) BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1 int32, bits render.BufferBits, filter render.Filter) {
	gl.BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1, bufferBits(bits), filters[filter])
}

func (c *Context) CompileShader(kind render.ShaderKind, source string) (render.Handle, string, bool) {
	id := gl.CreateShader(shaderKinds[kind])
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(id, 1, csources, nil)
	free()
	gl.CompileShader(id)

	var status int32
	gl.GetShaderiv(id, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		return render.Handle(id), readShaderInfoLog(id), false
	}
	c.sources[render.Handle(id)] = source
	return render.Handle(id), "", true
}

func (c *Context) LinkProgram(vertex, fragment render.Handle) (render.Handle, string, bool) {
	var key string
	if c.cache != nil {
		key = c.cache.Key(c.sources[vertex], c.sources[fragment])
		if id, ok := c.loadProgram(key); ok {
			return render.Handle(id), "", true
		}
	}

	id := gl.CreateProgram()
	if c.cache != nil {
		gl.ProgramParameteri(id, gl.PROGRAM_BINARY_RETRIEVABLE_HINT, gl.TRUE)
	}
	gl.AttachShader(id, uint32(vertex))
	gl.AttachShader(id, uint32(fragment))
	gl.LinkProgram(id)
	gl.DetachShader(id, uint32(vertex))
	gl.DetachShader(id, uint32(fragment))

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		return render.Handle(id), readProgramInfoLog(id), false
	}
	if c.cache != nil {
		c.storeProgram(key, id)
	}
	return render.Handle(id), "", true
}

func (c *Context) loadProgram(key string) (uint32, bool) {
	bin, ok, err := c.cache.Get(key)
	if err != nil {
		render.Logger().Warn("could not read program cache", "key", key, "err", err)
		return 0, false
	}
	if !ok {
		return 0, false
	}

	id := gl.CreateProgram()
	gl.ProgramBinary(id, bin.Format, gl.Ptr(bin.Data), int32(len(bin.Data)))
	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		// rejected after a driver update, fall back to linking
		gl.DeleteProgram(id)
		render.Logger().Debug("cached program rejected by driver", "key", key)
		return 0, false
	}
	render.Logger().Debug("loaded cached program", "key", key, "size", len(bin.Data))
	return id, true
}

func (c *Context) storeProgram(key string, id uint32) {
	var length int32
	gl.GetProgramiv(id, gl.PROGRAM_BINARY_LENGTH, &length)
	if length == 0 {
		return
	}
	buf := make([]byte, length)
	var format uint32
	gl.GetProgramBinary(id, length, &length, &format, gl.Ptr(buf))
	err := c.cache.Put(key, libio.ProgramBinary{Format: format, Data: buf[:length]})
	if err != nil {
		render.Logger().Warn("could not write program cache", "key", key, "err", err)
	}
}

func (c *Context) DeleteShader(shader render.Handle) {
	delete(c.sources, shader)
	gl.DeleteShader(uint32(shader))
}

func (c *Context) DeleteProgram(program render.Handle) {
	gl.DeleteProgram(uint32(program))
}

func (c *Context) UniformLocation(program render.Handle, name string) (render.Location, bool) {
	loc := gl.GetUniformLocation(uint32(program), gl.Str(name+"\x00"))
	return render.Location(loc), loc >= 0
}

func (c *Context) DrawingBufferSize() (int, int) {
	return c.bufferSize()
}

func readShaderInfoLog(id uint32) string {
	var length int32
	gl.GetShaderiv(id, gl.INFO_LOG_LENGTH, &length)
	if length == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(length+1))
	gl.GetShaderInfoLog(id, length, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func readProgramInfoLog(id uint32) string {
	var length int32
	gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &length)
	if length == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(length+1))
	gl.GetProgramInfoLog(id, length, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}
