package render_test

import (
	"retained-gl/render"
)

type call struct {
	name string
	args []any
}

// recordingContext implements render.Context by recording every call.
// Shaders compile unless their source is listed in failCompile, programs link
// unless failLink is set and only names in uniforms have a location.
type recordingContext struct {
	calls []call

	nextHandle  render.Handle
	failCompile map[string]string
	failLink    string
	uniforms    map[string]render.Location

	width, height int
}

func newRecordingContext(uniforms ...string) *recordingContext {
	ctx := &recordingContext{
		failCompile: map[string]string{},
		uniforms:    map[string]render.Location{},
		width:       640,
		height:      480,
	}
	for i, u := range uniforms {
		ctx.uniforms[u] = render.Location(i)
	}
	return ctx
}

func (c *recordingContext) record(name string, args ...any) {
	c.calls = append(c.calls, call{name: name, args: args})
}

func (c *recordingContext) reset() {
	c.calls = nil
}

func (c *recordingContext) count(name string) int {
	n := 0
	for _, cl := range c.calls {
		if cl.name == name {
			n++
		}
	}
	return n
}

func (c *recordingContext) find(name string) []call {
	var found []call
	for _, cl := range c.calls {
		if cl.name == name {
			found = append(found, cl)
		}
	}
	return found
}

func (c *recordingContext) names() []string {
	names := make([]string, len(c.calls))
	for i, cl := range c.calls {
		names[i] = cl.name
	}
	return names
}

func (c *recordingContext) Enable(cap render.Capability)  { c.record("Enable", cap) }
func (c *recordingContext) Disable(cap render.Capability) { c.record("Disable", cap) }

func (c *recordingContext) DepthFunc(fn render.CompareFunc) { c.record("DepthFunc", fn) }
func (c *recordingContext) DepthMask(write bool)            { c.record("DepthMask", write) }
func (c *recordingContext) DepthRange(near, far float64)    { c.record("DepthRange", near, far) }

func (c *recordingContext) StencilFuncSeparate(face render.Face, fn render.CompareFunc, ref int32, mask uint32) {
	c.record("StencilFuncSeparate", face, fn, ref, mask)
}

func (c *recordingContext) StencilMaskSeparate(face render.Face, mask uint32) {
	c.record("StencilMaskSeparate", face, mask)
}

func (c *recordingContext) StencilOpSeparate(face render.Face, fail, zfail, zpass render.StencilOp) {
	c.record("StencilOpSeparate", face, fail, zfail, zpass)
}

func (c *recordingContext) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha render.BlendFactor) {
	c.record("BlendFuncSeparate", srcRGB, dstRGB, srcAlpha, dstAlpha)
}

func (c *recordingContext) BlendEquationSeparate(rgb, alpha render.BlendEquation) {
	c.record("BlendEquationSeparate", rgb, alpha)
}

func (c *recordingContext) BlendColor(r, g, b, a float32) { c.record("BlendColor", r, g, b, a) }

func (c *recordingContext) Scissor(x, y, width, height int32) {
	c.record("Scissor", x, y, width, height)
}

func (c *recordingContext) Viewport(x, y, width, height int32) {
	c.record("Viewport", x, y, width, height)
}

func (c *recordingContext) BindFramebuffer(target render.FramebufferTarget, fb render.Handle) {
	c.record("BindFramebuffer", target, fb)
}

func (c *recordingContext) DrawBuffers(buffers []render.DrawBuffer) {
	c.record("DrawBuffers", append([]render.DrawBuffer(nil), buffers...))
}

func (c *recordingContext) UseProgram(program render.Handle)  { c.record("UseProgram", program) }
func (c *recordingContext) BindVertexArray(vao render.Handle) { c.record("BindVertexArray", vao) }
func (c *recordingContext) ActiveTexture(unit int)            { c.record("ActiveTexture", unit) }
func (c *recordingContext) BindTexture(target render.TextureTarget, tex render.Handle) {
	c.record("BindTexture", target, tex)
}

func (c *recordingContext) Uniform1fv(loc render.Location, v []float32) {
	c.uniform("Uniform1fv", loc, v)
}
func (c *recordingContext) Uniform2fv(loc render.Location, v []float32) {
	c.uniform("Uniform2fv", loc, v)
}
func (c *recordingContext) Uniform3fv(loc render.Location, v []float32) {
	c.uniform("Uniform3fv", loc, v)
}
func (c *recordingContext) Uniform4fv(loc render.Location, v []float32) {
	c.uniform("Uniform4fv", loc, v)
}
func (c *recordingContext) Uniform1iv(loc render.Location, v []int32) {
	c.uniform("Uniform1iv", loc, v)
}
func (c *recordingContext) Uniform2iv(loc render.Location, v []int32) {
	c.uniform("Uniform2iv", loc, v)
}
func (c *recordingContext) Uniform3iv(loc render.Location, v []int32) {
	c.uniform("Uniform3iv", loc, v)
}
func (c *recordingContext) Uniform4iv(loc render.Location, v []int32) {
	c.uniform("Uniform4iv", loc, v)
}
func (c *recordingContext) Uniform1uiv(loc render.Location, v []uint32) {
	c.uniform("Uniform1uiv", loc, v)
}
func (c *recordingContext) Uniform2uiv(loc render.Location, v []uint32) {
	c.uniform("Uniform2uiv", loc, v)
}
func (c *recordingContext) Uniform3uiv(loc render.Location, v []uint32) {
	c.uniform("Uniform3uiv", loc, v)
}
func (c *recordingContext) Uniform4uiv(loc render.Location, v []uint32) {
	c.uniform("Uniform4uiv", loc, v)
}

func (c *recordingContext) UniformMatrix2fv(loc render.Location, v []float32) {
	c.uniform("UniformMatrix2fv", loc, v)
}

func (c *recordingContext) UniformMatrix3fv(loc render.Location, v []float32) {
	c.uniform("UniformMatrix3fv", loc, v)
}

func (c *recordingContext) UniformMatrix4fv(loc render.Location, v []float32) {
	c.uniform("UniformMatrix4fv", loc, v)
}

func (c *recordingContext) uniform(name string, loc render.Location, v any) {
	c.record(name, loc, v)
}

func (c *recordingContext) DrawArrays(mode render.Primitive, first, count int32) {
	c.record("DrawArrays", mode, first, count)
}

func (c *recordingContext) DrawArraysInstanced(mode render.Primitive, first, count, instances int32) {
	c.record("DrawArraysInstanced", mode, first, count, instances)
}

func (c *recordingContext) DrawElements(mode render.Primitive, count int32, typ render.ElementType, offset int) {
	c.record("DrawElements", mode, count, typ, offset)
}

func (c *recordingContext) DrawElementsInstanced(mode render.Primitive, count int32, typ render.ElementType, offset int, instances int32) {
	c.record("DrawElementsInstanced", mode, count, typ, offset, instances)
}

func (c *recordingContext) ClearColor(r, g, b, a float32) { c.record("ClearColor", r, g, b, a) }
func (c *recordingContext) ClearDepth(depth float64)      { c.record("ClearDepth", depth) }
func (c *recordingContext) ClearStencil(stencil int32)    { c.record("ClearStencil", stencil) }
func (c *recordingContext) Clear(bits render.BufferBits)  { c.record("Clear", bits) }

func (c *recordingContext) BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1 int32, bits render.BufferBits, filter render.Filter) {
	c.record("BlitFramebuffer", srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1, bits, filter)
}

func (c *recordingContext) CompileShader(kind render.ShaderKind, source string) (render.Handle, string, bool) {
	c.nextHandle++
	c.record("CompileShader", kind, c.nextHandle)
	if log, ok := c.failCompile[source]; ok {
		return c.nextHandle, log, false
	}
	return c.nextHandle, "", true
}

func (c *recordingContext) LinkProgram(vertex, fragment render.Handle) (render.Handle, string, bool) {
	c.nextHandle++
	c.record("LinkProgram", vertex, fragment, c.nextHandle)
	if c.failLink != "" {
		return c.nextHandle, c.failLink, false
	}
	return c.nextHandle, "", true
}

func (c *recordingContext) DeleteShader(shader render.Handle)   { c.record("DeleteShader", shader) }
func (c *recordingContext) DeleteProgram(program render.Handle) { c.record("DeleteProgram", program) }

func (c *recordingContext) UniformLocation(program render.Handle, name string) (render.Location, bool) {
	loc, ok := c.uniforms[name]
	return loc, ok
}

func (c *recordingContext) DrawingBufferSize() (int, int) {
	return c.width, c.height
}

type geometry struct {
	vao       render.Handle
	primitive render.Primitive
	count     int
	elements  render.ElementType
	instances int
}

func (g *geometry) VertexArray() render.Handle      { return g.vao }
func (g *geometry) Primitive() render.Primitive     { return g.primitive }
func (g *geometry) Count() int                      { return g.count }
func (g *geometry) ElementType() render.ElementType { return g.elements }
func (g *geometry) InstanceCount() int              { return g.instances }

type geometryRange struct {
	geometry
	offset int
}

func (g *geometryRange) Offset() int { return g.offset }

type texture struct {
	handle render.Handle
}

func (t *texture) Handle() render.Handle        { return t.handle }
func (t *texture) Target() render.TextureTarget { return render.Texture2D }

type framebuffer struct {
	handle        render.Handle
	drawBuffers   []render.DrawBuffer
	width, height int
}

func (f *framebuffer) Handle() render.Handle            { return f.handle }
func (f *framebuffer) DrawBuffers() []render.DrawBuffer { return f.drawBuffers }
func (f *framebuffer) Width() int                       { return f.width }
func (f *framebuffer) Height() int                      { return f.height }
