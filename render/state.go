package render

import (
	"golang.org/x/exp/slices"
)

// State mirrors the binding registers of one Context. Every setter compares
// against the cached value and only calls into the context on a change.
//
// State also guards the target and command scopes: at most one target and
// one command may be bound at a time. Unbinding only forgets the identity,
// the context keeps its registers until the next bind decides whether a call
// is needed.
type State struct {
	ctx Context

	target  any
	command any

	program           Handle
	drawFramebuffer   Handle
	readFramebuffer   Handle
	drawBuffers       []DrawBuffer
	viewport          *Viewport
	scissor           *Rect
	depthTest         *DepthDescriptor
	stencilTest       *StencilDescriptor
	blend             *BlendDescriptor
	clearColorRGBA    [4]float32
	clearDepthValue   float64
	clearStencilValue int32
}

// NewState assumes ctx is in its initial configuration: no program, default
// framebuffer drawing to the back buffer, all tests disabled.
func NewState(ctx Context) *State {
	return &State{
		ctx:             ctx,
		drawBuffers:     []DrawBuffer{DrawBufferBack},
		clearDepthValue: 1,
	}
}

func (s *State) Context() Context {
	return s.ctx
}

func (s *State) SetDepthTest(depth *DepthDescriptor) {
	if s.depthTest.Equal(depth) {
		return
	}
	if depth == nil {
		s.ctx.Disable(DepthTest)
	} else {
		s.ctx.Enable(DepthTest)
		s.ctx.DepthFunc(depth.Func)
		s.ctx.DepthMask(depth.Mask)
		s.ctx.DepthRange(depth.RangeStart, depth.RangeEnd)
		c := *depth
		depth = &c
	}
	s.depthTest = depth
}

func (s *State) SetStencilTest(stencil *StencilDescriptor) {
	if s.stencilTest.Equal(stencil) {
		return
	}
	if stencil == nil {
		s.ctx.Disable(StencilTest)
	} else {
		// Front and back are always written together. Applying only the
		// changed half would leave the other half configured for a previous
		// function.
		s.ctx.Enable(StencilTest)
		s.ctx.StencilFuncSeparate(FaceFront, stencil.FrontFunc, stencil.FrontRef, stencil.FrontFuncMask)
		s.ctx.StencilFuncSeparate(FaceBack, stencil.BackFunc, stencil.BackRef, stencil.BackFuncMask)
		s.ctx.StencilMaskSeparate(FaceFront, stencil.FrontMask)
		s.ctx.StencilMaskSeparate(FaceBack, stencil.BackMask)
		s.ctx.StencilOpSeparate(FaceFront, stencil.FrontOpFail, stencil.FrontOpZFail, stencil.FrontOpZPass)
		s.ctx.StencilOpSeparate(FaceBack, stencil.BackOpFail, stencil.BackOpZFail, stencil.BackOpZPass)
		c := *stencil
		stencil = &c
	}
	s.stencilTest = stencil
}

func (s *State) SetBlend(blend *BlendDescriptor) {
	if s.blend.Equal(blend) {
		return
	}
	if blend == nil {
		s.ctx.Disable(Blend)
	} else {
		s.ctx.Enable(Blend)
		s.ctx.BlendFuncSeparate(blend.SrcRGB, blend.DstRGB, blend.SrcAlpha, blend.DstAlpha)
		s.ctx.BlendEquationSeparate(blend.EquationRGB, blend.EquationAlpha)
		if blend.HasColor {
			c := blend.Color
			s.ctx.BlendColor(c[0], c[1], c[2], c[3])
		}
		c := *blend
		blend = &c
	}
	s.blend = blend
}

// SetScissor enables the scissor test with rect, or disables it for nil.
func (s *State) SetScissor(rect *Rect) {
	if s.scissor.Equal(rect) {
		return
	}
	if rect == nil {
		s.ctx.Disable(ScissorTest)
	} else {
		if s.scissor == nil {
			s.ctx.Enable(ScissorTest)
		}
		s.ctx.Scissor(int32(rect.X), int32(rect.Y), int32(rect.Width), int32(rect.Height))
		r := *rect
		rect = &r
	}
	s.scissor = rect
}

func (s *State) SetViewport(vp Viewport) {
	if s.viewport.Equal(&vp) {
		return
	}
	s.ctx.Viewport(int32(vp.X), int32(vp.Y), int32(vp.Width), int32(vp.Height))
	s.viewport = &vp
}

func (s *State) ClearColor(r, g, b, a float32) {
	if s.clearColorRGBA == [4]float32{r, g, b, a} {
		return
	}
	s.ctx.ClearColor(r, g, b, a)
	s.clearColorRGBA = [4]float32{r, g, b, a}
}

func (s *State) ClearDepth(depth float64) {
	if s.clearDepthValue == depth {
		return
	}
	s.ctx.ClearDepth(depth)
	s.clearDepthValue = depth
}

func (s *State) ClearStencil(stencil int32) {
	if s.clearStencilValue == stencil {
		return
	}
	s.ctx.ClearStencil(stencil)
	s.clearStencilValue = stencil
}

// BindReadFramebuffer is used as the source of blits. It is not guarded by a
// scope.
func (s *State) BindReadFramebuffer(framebuffer Handle) {
	if s.readFramebuffer == framebuffer {
		return
	}
	s.ctx.BindFramebuffer(ReadFramebuffer, framebuffer)
	s.readFramebuffer = framebuffer
}

// ForgetFramebuffer must be called before framebuffer is deleted. The
// context falls back to framebuffer 0 for deleted bindings and a new
// framebuffer may reuse the name, so the cached bindings are reset.
func (s *State) ForgetFramebuffer(framebuffer Handle) {
	if framebuffer == 0 {
		return
	}
	if s.drawFramebuffer == framebuffer {
		s.drawFramebuffer = 0
		// unknown for the default framebuffer, forces the next DrawBuffers
		s.drawBuffers = nil
	}
	if s.readFramebuffer == framebuffer {
		s.readFramebuffer = 0
	}
}

// BindTarget records target as the active target and binds its framebuffer
// and draw buffers if they differ from the current ones. Nested target
// scopes are not supported:
//
//	// fails with ErrTargetAlreadyBound
//	fbTarget.With(func(fbrt *render.Target) error {
//		return dev.Target(func(rt *render.Target) error { ... })
//	})
func (s *State) BindTarget(target any, framebuffer Handle, drawBuffers []DrawBuffer) error {
	if s.target != nil {
		return &BindingError{Op: "bind target", Expected: nil, Actual: s.target, Err: ErrTargetAlreadyBound}
	}
	if s.drawFramebuffer != framebuffer {
		s.ctx.BindFramebuffer(DrawFramebuffer, framebuffer)
		s.drawFramebuffer = framebuffer
	}
	if !slices.Equal(s.drawBuffers, drawBuffers) {
		s.ctx.DrawBuffers(drawBuffers)
		s.drawBuffers = slices.Clone(drawBuffers)
	}
	s.target = target
	return nil
}

func (s *State) UnbindTarget() error {
	if s.target == nil {
		return &BindingError{Op: "unbind target", Err: ErrNoTargetBound}
	}
	s.target = nil
	return nil
}

// BindCommand records command as the active command and switches to its
// program if needed. Like targets, commands do not nest.
func (s *State) BindCommand(command any, program Handle) error {
	if s.command != nil {
		return &BindingError{Op: "bind command", Expected: nil, Actual: s.command, Err: ErrCommandAlreadyBound}
	}
	if s.program != program {
		s.ctx.UseProgram(program)
		s.program = program
	}
	s.command = command
	return nil
}

func (s *State) UnbindCommand() error {
	if s.command == nil {
		return &BindingError{Op: "unbind command", Err: ErrNoCommandBound}
	}
	s.command = nil
	return nil
}

func (s *State) AssertTargetBound(target any, op string) error {
	if s.target != target {
		return &BindingError{Op: op, Expected: target, Actual: s.target, Err: ErrTargetNotBound}
	}
	return nil
}

func (s *State) AssertCommandBound(command any, op string) error {
	if s.command != command {
		return &BindingError{Op: op, Expected: command, Actual: s.command, Err: ErrCommandNotBound}
	}
	return nil
}

func (s *State) AssertTargetUnbound() error {
	if s.target != nil {
		return &BindingError{Op: "bind target", Actual: s.target, Err: ErrTargetAlreadyBound}
	}
	return nil
}

func (s *State) AssertCommandUnbound() error {
	if s.command != nil {
		return &BindingError{Op: "bind command", Actual: s.command, Err: ErrCommandAlreadyBound}
	}
	return nil
}

// ActiveTarget returns the identity of the bound target, or nil.
func (s *State) ActiveTarget() any {
	return s.target
}
