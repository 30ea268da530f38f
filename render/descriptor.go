package render

// Descriptors are compiled, immutable fixed-function configurations. They are
// plain comparable values so that two descriptors built by separate compile
// calls compare equal when every field matches. A nil descriptor means the
// test is disabled.

type DepthDescriptor struct {
	Func       CompareFunc
	Mask       bool
	RangeStart float64
	RangeEnd   float64
}

func (d *DepthDescriptor) Equal(o *DepthDescriptor) bool {
	if d == nil || o == nil {
		return d == o
	}
	return *d == *o
}

type StencilDescriptor struct {
	FrontFunc, BackFunc         CompareFunc
	FrontRef, BackRef           int32
	FrontFuncMask, BackFuncMask uint32
	FrontMask, BackMask         uint32
	FrontOpFail, BackOpFail     StencilOp
	FrontOpZFail, BackOpZFail   StencilOp
	FrontOpZPass, BackOpZPass   StencilOp
}

func (d *StencilDescriptor) Equal(o *StencilDescriptor) bool {
	if d == nil || o == nil {
		return d == o
	}
	return *d == *o
}

type BlendDescriptor struct {
	SrcRGB, SrcAlpha           BlendFactor
	DstRGB, DstAlpha           BlendFactor
	EquationRGB, EquationAlpha BlendEquation
	// Color is only applied when HasColor is set.
	HasColor bool
	Color    [4]float32
}

func (d *BlendDescriptor) Equal(o *BlendDescriptor) bool {
	if d == nil || o == nil {
		return d == o
	}
	if d.SrcRGB != o.SrcRGB || d.SrcAlpha != o.SrcAlpha ||
		d.DstRGB != o.DstRGB || d.DstAlpha != o.DstAlpha ||
		d.EquationRGB != o.EquationRGB || d.EquationAlpha != o.EquationAlpha {
		return false
	}
	if d.HasColor != o.HasColor {
		return false
	}
	return !d.HasColor || d.Color == o.Color
}

// Rect is an integer rectangle with its origin in the lower left corner.
type Rect struct {
	X, Y, Width, Height int
}

func (r *Rect) Equal(o *Rect) bool {
	if r == nil || o == nil {
		return r == o
	}
	return *r == *o
}

type Viewport = Rect
