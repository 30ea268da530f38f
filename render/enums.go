package render

// Enums in this package are backend neutral. The zero value of most of them
// means "not specified" and is replaced with a default during compilation.
// Context implementations map them to the native constants.

type Capability uint32

const (
	DepthTest Capability = iota + 1
	StencilTest
	Blend
	ScissorTest
)

type CompareFunc uint32

const (
	CompareNever CompareFunc = iota + 1
	CompareLess
	CompareEqual
	CompareLessEqual
	CompareGreater
	CompareNotEqual
	CompareGreaterEqual
	CompareAlways
)

type StencilOp uint32

const (
	StencilKeep StencilOp = iota + 1
	StencilZero
	StencilReplace
	StencilIncrement
	StencilIncrementWrap
	StencilDecrement
	StencilDecrementWrap
	StencilInvert
)

type BlendFactor uint32

const (
	BlendZero BlendFactor = iota + 1
	BlendOne
	BlendSrcColor
	BlendOneMinusSrcColor
	BlendDstColor
	BlendOneMinusDstColor
	BlendSrcAlpha
	BlendOneMinusSrcAlpha
	BlendDstAlpha
	BlendOneMinusDstAlpha
	BlendConstantColor
	BlendOneMinusConstantColor
	BlendConstantAlpha
	BlendOneMinusConstantAlpha
	BlendSrcAlphaSaturate
)

type BlendEquation uint32

const (
	BlendAdd BlendEquation = iota + 1
	BlendSubtract
	BlendReverseSubtract
	BlendMin
	BlendMax
)

// Primitive is the topology used for a draw call. PrimitiveInfer lets the
// geometry decide.
type Primitive uint32

const (
	PrimitiveInfer Primitive = iota
	Points
	Lines
	LineLoop
	LineStrip
	Triangles
	TriangleStrip
	TriangleFan
)

// ElementType is the index type of a geometry. ElementNone marks a
// non-indexed geometry.
type ElementType uint32

const (
	ElementNone ElementType = iota
	ElementUint8
	ElementUint16
	ElementUint32
)

// Size returns the size of one index in bytes.
func (t ElementType) Size() int {
	switch t {
	case ElementUint8:
		return 1
	case ElementUint16:
		return 2
	case ElementUint32:
		return 4
	}
	return 0
}

type Face uint32

const (
	FaceFront Face = iota + 1
	FaceBack
)

type ShaderKind uint32

const (
	VertexShader ShaderKind = iota + 1
	FragmentShader
)

func (k ShaderKind) String() string {
	switch k {
	case VertexShader:
		return "vertex"
	case FragmentShader:
		return "fragment"
	}
	return "unknown"
}

type TextureTarget uint32

const (
	Texture2D TextureTarget = iota + 1
	Texture2DArray
	Texture3D
	TextureCubeMap
)

type FramebufferTarget uint32

const (
	DrawFramebuffer FramebufferTarget = iota + 1
	ReadFramebuffer
)

// BufferBits selects the channels of a surface for clear and blit.
type BufferBits uint32

const (
	ColorBits BufferBits = 1 << iota
	DepthBits
	StencilBits
)

const AllBits = ColorBits | DepthBits | StencilBits

type Filter uint32

const (
	FilterNearest Filter = iota
	FilterLinear
)

// DrawBuffer names an output slot of a draw target. Non-negative values are
// color attachment indices.
type DrawBuffer int

const (
	DrawBufferBack DrawBuffer = -1
	DrawBufferNone DrawBuffer = -2
)

func ColorAttachment(index int) DrawBuffer {
	return DrawBuffer(index)
}
