package render

// CommandSpec is the declarative description compiled by Compile.
type CommandSpec[P any] struct {
	Vert string
	Frag string
	// Uniforms are keyed by their GLSL identifier. Every identifier must be
	// an active uniform of the linked program.
	Uniforms map[string]Uniform[P]

	// Geometry is used by Execute, and by Draw when no geometry is passed.
	Geometry Access[P, Geometry]
	// Target is used by Execute. Unset means the currently bound target.
	Target Access[P, *Target]
	// Scissor is resolved per draw. Unset disables the scissor test, a nil
	// rect from a set accessor does as well.
	Scissor Access[P, *Rect]

	// Count and Offset select the vertex range to draw without geometry. With
	// geometry, a positive Count caps the geometry count and Offset is added
	// to its start. Both are in vertices or indices.
	Count  int
	Offset int
	// Primitive overrides the geometry's topology.
	Primitive Primitive

	Depth   *DepthSpec
	Stencil *StencilSpec
	Blend   *BlendSpec
}

// DepthSpec defaults to CompareLess, depth writes enabled and range [0, 1].
type DepthSpec struct {
	Func  CompareFunc
	Mask  *bool
	Range *[2]float64
}

// Sided holds a front and a back face value.
type Sided[T any] struct {
	Front, Back T
}

// Both uses v for front and back faces.
func Both[T any](v T) Sided[T] {
	return Sided[T]{Front: v, Back: v}
}

func Separate[T any](front, back T) Sided[T] {
	return Sided[T]{Front: front, Back: back}
}

// StencilSpec describes the stencil test. Unset functions default to
// CompareAlways, unset masks to 0xFF, an unset reference to 1 and unset
// operations to StencilKeep.
type StencilSpec struct {
	Func     Sided[CompareFunc]
	Ref      *Sided[int32]
	FuncMask *Sided[uint32]
	Mask     *Sided[uint32]
	Fail     Sided[StencilOp]
	ZFail    Sided[StencilOp]
	ZPass    Sided[StencilOp]
}

// Channels holds an RGB and an alpha value.
type Channels[T any] struct {
	RGB, Alpha T
}

// Same uses v for RGB and alpha.
func Same[T any](v T) Channels[T] {
	return Channels[T]{RGB: v, Alpha: v}
}

func SplitChannels[T any](rgb, alpha T) Channels[T] {
	return Channels[T]{RGB: rgb, Alpha: alpha}
}

// BlendSpec requires Src and Dst. The equation defaults to BlendAdd.
type BlendSpec struct {
	Src      Channels[BlendFactor]
	Dst      Channels[BlendFactor]
	Equation Channels[BlendEquation]
	Color    *[4]float32
}

func parseDepth(depth *DepthSpec) *DepthDescriptor {
	if depth == nil {
		return nil
	}
	d := &DepthDescriptor{
		Func:       depth.Func,
		Mask:       true,
		RangeStart: 0,
		RangeEnd:   1,
	}
	if d.Func == 0 {
		d.Func = CompareLess
	}
	if depth.Mask != nil {
		d.Mask = *depth.Mask
	}
	if depth.Range != nil {
		d.RangeStart = depth.Range[0]
		d.RangeEnd = depth.Range[1]
	}
	return d
}

func parseStencil(stencil *StencilSpec) *StencilDescriptor {
	if stencil == nil {
		return nil
	}
	ref := Both[int32](1)
	if stencil.Ref != nil {
		ref = *stencil.Ref
	}
	funcMask := Both[uint32](0xFF)
	if stencil.FuncMask != nil {
		funcMask = *stencil.FuncMask
	}
	mask := Both[uint32](0xFF)
	if stencil.Mask != nil {
		mask = *stencil.Mask
	}
	return &StencilDescriptor{
		FrontFunc:     orCompare(stencil.Func.Front, CompareAlways),
		BackFunc:      orCompare(stencil.Func.Back, CompareAlways),
		FrontRef:      ref.Front,
		BackRef:       ref.Back,
		FrontFuncMask: funcMask.Front,
		BackFuncMask:  funcMask.Back,
		FrontMask:     mask.Front,
		BackMask:      mask.Back,
		FrontOpFail:   orKeep(stencil.Fail.Front),
		BackOpFail:    orKeep(stencil.Fail.Back),
		FrontOpZFail:  orKeep(stencil.ZFail.Front),
		BackOpZFail:   orKeep(stencil.ZFail.Back),
		FrontOpZPass:  orKeep(stencil.ZPass.Front),
		BackOpZPass:   orKeep(stencil.ZPass.Back),
	}
}

func parseBlend(blend *BlendSpec) (*BlendDescriptor, error) {
	if blend == nil {
		return nil, nil
	}
	switch {
	case blend.Src.RGB == 0:
		return nil, &MissingFieldError{Field: "blend.src.rgb"}
	case blend.Src.Alpha == 0:
		return nil, &MissingFieldError{Field: "blend.src.alpha"}
	case blend.Dst.RGB == 0:
		return nil, &MissingFieldError{Field: "blend.dst.rgb"}
	case blend.Dst.Alpha == 0:
		return nil, &MissingFieldError{Field: "blend.dst.alpha"}
	}
	d := &BlendDescriptor{
		SrcRGB:        blend.Src.RGB,
		SrcAlpha:      blend.Src.Alpha,
		DstRGB:        blend.Dst.RGB,
		DstAlpha:      blend.Dst.Alpha,
		EquationRGB:   blend.Equation.RGB,
		EquationAlpha: blend.Equation.Alpha,
	}
	if d.EquationRGB == 0 {
		d.EquationRGB = BlendAdd
	}
	if d.EquationAlpha == 0 {
		d.EquationAlpha = BlendAdd
	}
	if blend.Color != nil {
		d.HasColor = true
		d.Color = *blend.Color
	}
	return d, nil
}

func orCompare(fn, fallback CompareFunc) CompareFunc {
	if fn == 0 {
		return fallback
	}
	return fn
}

func orKeep(op StencilOp) StencilOp {
	if op == 0 {
		return StencilKeep
	}
	return op
}
