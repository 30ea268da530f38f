package libgl

import (
	"retained-gl/render"

	"github.com/go-gl/gl/v4.5-core/gl"
)

var capabilities = [...]uint32{
	render.DepthTest:   gl.DEPTH_TEST,
	render.StencilTest: gl.STENCIL_TEST,
	render.Blend:       gl.BLEND,
	render.ScissorTest: gl.SCISSOR_TEST,
}

var compareFuncs = [...]uint32{
	render.CompareNever:        gl.NEVER,
	render.CompareLess:         gl.LESS,
	render.CompareEqual:        gl.EQUAL,
	render.CompareLessEqual:    gl.LEQUAL,
	render.CompareGreater:      gl.GREATER,
	render.CompareNotEqual:     gl.NOTEQUAL,
	render.CompareGreaterEqual: gl.GEQUAL,
	render.CompareAlways:       gl.ALWAYS,
}

var stencilOps = [...]uint32{
	render.StencilKeep:          gl.KEEP,
	render.StencilZero:          gl.ZERO,
	render.StencilReplace:       gl.REPLACE,
	render.StencilIncrement:     gl.INCR,
	render.StencilIncrementWrap: gl.INCR_WRAP,
	render.StencilDecrement:     gl.DECR,
	render.StencilDecrementWrap: gl.DECR_WRAP,
	render.StencilInvert:        gl.INVERT,
}

var blendFactors = [...]uint32{
	render.BlendZero:                  gl.ZERO,
	render.BlendOne:                   gl.ONE,
	render.BlendSrcColor:              gl.SRC_COLOR,
	render.BlendOneMinusSrcColor:      gl.ONE_MINUS_SRC_COLOR,
	render.BlendDstColor:              gl.DST_COLOR,
	render.BlendOneMinusDstColor:      gl.ONE_MINUS_DST_COLOR,
	render.BlendSrcAlpha:              gl.SRC_ALPHA,
	render.BlendOneMinusSrcAlpha:      gl.ONE_MINUS_SRC_ALPHA,
	render.BlendDstAlpha:              gl.DST_ALPHA,
	render.BlendOneMinusDstAlpha:      gl.ONE_MINUS_DST_ALPHA,
	render.BlendConstantColor:         gl.CONSTANT_COLOR,
	render.BlendOneMinusConstantColor: gl.ONE_MINUS_CONSTANT_COLOR,
	render.BlendConstantAlpha:         gl.CONSTANT_ALPHA,
	render.BlendOneMinusConstantAlpha: gl.ONE_MINUS_CONSTANT_ALPHA,
	render.BlendSrcAlphaSaturate:      gl.SRC_ALPHA_SATURATE,
}

var blendEquations = [...]uint32{
	render.BlendAdd:             gl.FUNC_ADD,
	render.BlendSubtract:        gl.FUNC_SUBTRACT,
	render.BlendReverseSubtract: gl.FUNC_REVERSE_SUBTRACT,
	render.BlendMin:             gl.MIN,
	render.BlendMax:             gl.MAX,
}

var primitives = [...]uint32{
	render.PrimitiveInfer: gl.TRIANGLES,
	render.Points:         gl.POINTS,
	render.Lines:          gl.LINES,
	render.LineLoop:       gl.LINE_LOOP,
	render.LineStrip:      gl.LINE_STRIP,
	render.Triangles:      gl.TRIANGLES,
	render.TriangleStrip:  gl.TRIANGLE_STRIP,
	render.TriangleFan:    gl.TRIANGLE_FAN,
}

var elementTypes = [...]uint32{
	render.ElementUint8:  gl.UNSIGNED_BYTE,
	render.ElementUint16: gl.UNSIGNED_SHORT,
	render.ElementUint32: gl.UNSIGNED_INT,
}

var faces = [...]uint32{
	render.FaceFront: gl.FRONT,
	render.FaceBack:  gl.BACK,
}

var shaderKinds = [...]uint32{
	render.VertexShader:   gl.VERTEX_SHADER,
	render.FragmentShader: gl.FRAGMENT_SHADER,
}

var textureTargets = [...]uint32{
	render.Texture2D:      gl.TEXTURE_2D,
	render.Texture2DArray: gl.TEXTURE_2D_ARRAY,
	render.Texture3D:      gl.TEXTURE_3D,
	render.TextureCubeMap: gl.TEXTURE_CUBE_MAP,
}

var framebufferTargets = [...]uint32{
	render.DrawFramebuffer: gl.DRAW_FRAMEBUFFER,
	render.ReadFramebuffer: gl.READ_FRAMEBUFFER,
}

var filters = [...]uint32{
	render.FilterNearest: gl.NEAREST,
	render.FilterLinear:  gl.LINEAR,
}

func bufferBits(bits render.BufferBits) uint32 {
	var mask uint32
	if bits&render.ColorBits != 0 {
		mask |= gl.COLOR_BUFFER_BIT
	}
	if bits&render.DepthBits != 0 {
		mask |= gl.DEPTH_BUFFER_BIT
	}
	if bits&render.StencilBits != 0 {
		mask |= gl.STENCIL_BUFFER_BIT
	}
	return mask
}

func drawBuffer(b render.DrawBuffer) uint32 {
	switch b {
	case render.DrawBufferBack:
		return gl.BACK
	case render.DrawBufferNone:
		return gl.NONE
	}
	return gl.COLOR_ATTACHMENT0 + uint32(b)
}

// drawBufferList maps buffers to GL names. An empty list draws to no buffer.
func drawBufferList(buffers []render.DrawBuffer) []uint32 {
	if len(buffers) == 0 {
		return []uint32{gl.NONE}
	}
	bufs := make([]uint32, len(buffers))
	for i, b := range buffers {
		bufs[i] = drawBuffer(b)
	}
	return bufs
}
