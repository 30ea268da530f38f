package render_test

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/exp/slices"

	"retained-gl/render"
)

const (
	vertSource = "#version 450\nvoid main() {}"
	fragSource = "#version 450\nout vec4 color; void main() { color = vec4(1); }"
)

type props struct {
	tex   render.Texture
	scale float32
	geo   render.Geometry
	rt    *render.Target
}

func newDevice(uniforms ...string) (*render.Device, *recordingContext) {
	ctx := newRecordingContext(uniforms...)
	return render.NewDevice(ctx), ctx
}

func compile(t *testing.T, dev *render.Device, spec render.CommandSpec[props]) *render.Command[props] {
	t.Helper()
	if spec.Vert == "" {
		spec.Vert = vertSource
	}
	if spec.Frag == "" {
		spec.Frag = fragSource
	}
	cmd, err := render.Compile(dev, spec)
	if err != nil {
		t.Fatalf("Compile should succeed but was %v", err)
	}
	return cmd
}

func TestCompileMissingSources(t *testing.T) {
	dev, _ := newDevice()
	_, err := render.Compile(dev, render.CommandSpec[props]{Frag: fragSource})
	var missing *render.MissingFieldError
	if !errors.As(err, &missing) || missing.Field != "vert" {
		t.Errorf("Missing vertex source should report field vert but was %v", err)
	}
	_, err = render.Compile(dev, render.CommandSpec[props]{Vert: vertSource})
	if !errors.As(err, &missing) || missing.Field != "frag" {
		t.Errorf("Missing fragment source should report field frag but was %v", err)
	}
}

func TestCompileShaderError(t *testing.T) {
	dev, ctx := newDevice()
	ctx.failCompile[fragSource] = "0:1: syntax error"

	_, err := render.Compile(dev, render.CommandSpec[props]{Vert: vertSource, Frag: fragSource})
	var compileErr *render.ShaderCompilationError
	if !errors.As(err, &compileErr) {
		t.Fatalf("Error should be a ShaderCompilationError but was %v", err)
	}
	if compileErr.Stage != "fragment" {
		t.Errorf("Stage should be fragment but was %s", compileErr.Stage)
	}
	if compileErr.Log != "0:1: syntax error" {
		t.Errorf("Log should carry the compiler output but was %q", compileErr.Log)
	}
	if n := ctx.count("DeleteShader"); n != 2 {
		t.Errorf("Both shaders should be deleted but DeleteShader was called %d times", n)
	}
	if n := ctx.count("LinkProgram"); n != 0 {
		t.Errorf("LinkProgram should not be called but was called %d times", n)
	}
}

func TestCompileLinkError(t *testing.T) {
	dev, ctx := newDevice()
	ctx.failLink = "error: unresolved varying"

	_, err := render.Compile(dev, render.CommandSpec[props]{Vert: vertSource, Frag: fragSource})
	var compileErr *render.ShaderCompilationError
	if !errors.As(err, &compileErr) || compileErr.Stage != "link" {
		t.Fatalf("Error should be a link ShaderCompilationError but was %v", err)
	}
	if n := ctx.count("DeleteProgram"); n != 1 {
		t.Errorf("DeleteProgram calls should be 1 but was %d", n)
	}
}

func TestCompileUnknownUniform(t *testing.T) {
	dev, ctx := newDevice("u_scale")
	_, err := render.Compile(dev, render.CommandSpec[props]{
		Vert: vertSource,
		Frag: fragSource,
		Uniforms: map[string]render.Uniform[props]{
			"u_scale":  render.Float(render.Constant[props, float32](1)),
			"u_unused": render.Float(render.Constant[props, float32](2)),
		},
	})
	var unknown *render.UnknownUniformError
	if !errors.As(err, &unknown) {
		t.Fatalf("Error should be an UnknownUniformError but was %v", err)
	}
	if unknown.Identifier != "u_unused" {
		t.Errorf("Identifier should be u_unused but was %s", unknown.Identifier)
	}
	if n := ctx.count("DeleteProgram"); n != 1 {
		t.Errorf("The linked program should be deleted but DeleteProgram was called %d times", n)
	}
}

func TestCompileRejectsIncompleteBlend(t *testing.T) {
	dev, ctx := newDevice()
	_, err := render.Compile(dev, render.CommandSpec[props]{
		Vert:  vertSource,
		Frag:  fragSource,
		Blend: &render.BlendSpec{Src: render.Same(render.BlendOne)},
	})
	var missing *render.MissingFieldError
	if !errors.As(err, &missing) || missing.Field != "blend.dst.rgb" {
		t.Errorf("Missing blend destination should report blend.dst.rgb but was %v", err)
	}
	if n := ctx.count("CompileShader"); n != 0 {
		t.Errorf("Nothing should be compiled for an invalid spec but CompileShader was called %d times", n)
	}
}

func TestDepthDefaults(t *testing.T) {
	dev, _ := newDevice()
	cmd := compile(t, dev, render.CommandSpec[props]{
		Depth: &render.DepthSpec{Func: render.CompareLess},
	})

	want := render.DepthDescriptor{Func: render.CompareLess, Mask: true, RangeStart: 0, RangeEnd: 1}
	if got := cmd.Depth(); got == nil || *got != want {
		t.Errorf("Depth should be %+v but was %+v", want, got)
	}
}

func TestDescriptorsCannotBeModified(t *testing.T) {
	dev, _ := newDevice()
	cmd := compile(t, dev, render.CommandSpec[props]{
		Depth: &render.DepthSpec{Func: render.CompareLess},
		Blend: &render.BlendSpec{
			Src: render.Same(render.BlendOne),
			Dst: render.Same(render.BlendOne),
		},
	})

	cmd.Depth().Func = render.CompareAlways
	cmd.Blend().SrcRGB = render.BlendZero
	if got := cmd.Depth().Func; got != render.CompareLess {
		t.Errorf("Depth function should stay less but was %v", got)
	}
	if got := cmd.Blend().SrcRGB; got != render.BlendOne {
		t.Errorf("Blend source should stay one but was %v", got)
	}
	if cmd.Stencil() != nil {
		t.Errorf("Stencil should be nil without a stencil spec")
	}
}

func TestStencilAndBlendDefaults(t *testing.T) {
	dev, _ := newDevice()
	cmd := compile(t, dev, render.CommandSpec[props]{
		Stencil: &render.StencilSpec{
			Func:  render.Separate(render.CompareEqual, render.CompareNotEqual),
			ZPass: render.Both(render.StencilReplace),
		},
		Blend: &render.BlendSpec{
			Src: render.Same(render.BlendSrcAlpha),
			Dst: render.Same(render.BlendOneMinusSrcAlpha),
		},
	})

	stencil := cmd.Stencil()
	if stencil.FrontFunc != render.CompareEqual || stencil.BackFunc != render.CompareNotEqual {
		t.Errorf("Stencil functions should be equal/not-equal but was %v/%v", stencil.FrontFunc, stencil.BackFunc)
	}
	if stencil.FrontRef != 1 || stencil.BackRef != 1 {
		t.Errorf("Stencil reference should default to 1 but was %d/%d", stencil.FrontRef, stencil.BackRef)
	}
	if stencil.FrontFuncMask != 0xFF || stencil.BackMask != 0xFF {
		t.Errorf("Stencil masks should default to 0xFF but was %x/%x", stencil.FrontFuncMask, stencil.BackMask)
	}
	if stencil.FrontOpFail != render.StencilKeep || stencil.BackOpZPass != render.StencilReplace {
		t.Errorf("Stencil ops should be keep/replace but was %v/%v", stencil.FrontOpFail, stencil.BackOpZPass)
	}

	blend := cmd.Blend()
	if blend.EquationRGB != render.BlendAdd || blend.EquationAlpha != render.BlendAdd {
		t.Errorf("Blend equation should default to add but was %v/%v", blend.EquationRGB, blend.EquationAlpha)
	}
	if blend.HasColor {
		t.Errorf("Blend color should be unset")
	}
}

func TestDrawOutsideTargetScope(t *testing.T) {
	dev, ctx := newDevice()
	cmd := compile(t, dev, render.CommandSpec[props]{})
	ctx.reset()

	err := cmd.Draw(dev.Backbuffer(), &geometry{vao: 1, count: 3}, props{})
	if !errors.Is(err, render.ErrTargetNotBound) {
		t.Errorf("Error should be ErrTargetNotBound but was %v", err)
	}
	if len(ctx.calls) != 0 {
		t.Errorf("No context call should be made but was %v", ctx.names())
	}
}

func TestDrawTextureUnitsResetPerDraw(t *testing.T) {
	dev, ctx := newDevice("u_albedo", "u_normal")
	cmd := compile(t, dev, render.CommandSpec[props]{
		Uniforms: map[string]render.Uniform[props]{
			"u_albedo": render.TextureSampler(render.Func(func(p props, _ int) render.Texture {
				return p.tex
			})),
		},
	})
	ctx.reset()

	quad := &geometry{vao: 4, count: 6}
	err := dev.Target(func(rt *render.Target) error {
		if err := cmd.Draw(rt, quad, props{tex: &texture{handle: 7}}); err != nil {
			return err
		}
		return cmd.Draw(rt, quad, props{tex: &texture{handle: 9}})
	})
	if err != nil {
		t.Fatal(err)
	}

	units := ctx.find("ActiveTexture")
	if len(units) != 2 {
		t.Fatalf("ActiveTexture calls should be 2 but was %d", len(units))
	}
	for i, c := range units {
		if c.args[0] != 0 {
			t.Errorf("Texture unit of draw %d should be 0 but was %v", i, c.args[0])
		}
	}
	binds := ctx.find("BindTexture")
	for i, want := range []render.Handle{7, 9} {
		if binds[i].args[1] != want {
			t.Errorf("Texture bound in draw %d should be %d but was %v", i, want, binds[i].args[1])
		}
	}
	for i, c := range ctx.find("Uniform1iv") {
		if v := c.args[1].([]int32); len(v) != 1 || v[0] != 0 {
			t.Errorf("Sampler uniform of draw %d should be 0 but was %v", i, v)
		}
	}
}

func TestDrawWithoutTextureFails(t *testing.T) {
	dev, ctx := newDevice("u_albedo")
	cmd := compile(t, dev, render.CommandSpec[props]{
		Uniforms: map[string]render.Uniform[props]{
			"u_albedo": render.TextureSampler(render.Func(func(p props, _ int) render.Texture {
				return p.tex
			})),
		},
	})
	ctx.reset()

	err := dev.Target(func(rt *render.Target) error {
		return cmd.Draw(rt, &geometry{vao: 1, count: 3}, props{})
	})
	if !errors.Is(err, render.ErrNoTexture) {
		t.Fatalf("Error should be ErrNoTexture but was %v", err)
	}
	var bindErr *render.BindingError
	if !errors.As(err, &bindErr) || bindErr.Expected != "texture for u_albedo" {
		t.Errorf("Error should name u_albedo but was %v", err)
	}
	for _, name := range []string{"ActiveTexture", "BindTexture", "Uniform1iv", "DrawArrays"} {
		if n := ctx.count(name); n != 0 {
			t.Errorf("%s calls should be 0 but was %d", name, n)
		}
	}
}

func TestDrawAssignsSequentialTextureUnits(t *testing.T) {
	dev, ctx := newDevice("u_a", "u_b")
	albedo, normal := &texture{handle: 3}, &texture{handle: 4}
	cmd := compile(t, dev, render.CommandSpec[props]{
		Uniforms: map[string]render.Uniform[props]{
			"u_a": render.TextureSampler(render.Constant[props, render.Texture](albedo)),
			"u_b": render.TextureSampler(render.Constant[props, render.Texture](normal)),
		},
	})
	ctx.reset()

	err := dev.Target(func(rt *render.Target) error {
		return cmd.Draw(rt, &geometry{vao: 1, count: 3}, props{})
	})
	if err != nil {
		t.Fatal(err)
	}

	units := ctx.find("ActiveTexture")
	if len(units) != 2 || units[0].args[0] != 0 || units[1].args[0] != 1 {
		t.Errorf("Texture units should be 0 and 1 but was %v", units)
	}
}

func TestBatchDrawIndicesAndCoalescing(t *testing.T) {
	dev, ctx := newDevice("u_scale")
	var indices []int
	cmd := compile(t, dev, render.CommandSpec[props]{
		Uniforms: map[string]render.Uniform[props]{
			"u_scale": render.Float(render.Func(func(p props, i int) float32 {
				indices = append(indices, i)
				return p.scale
			})),
		},
	})
	ctx.reset()

	quad := &geometry{vao: 1, count: 6}
	cube := &geometry{vao: 2, count: 36}
	err := dev.Target(func(rt *render.Target) error {
		return cmd.Batch(rt, func(draw func(render.Geometry, props) error) error {
			for _, g := range []render.Geometry{quad, quad, quad, cube, cube, quad} {
				if err := draw(g, props{scale: 2}); err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		t.Fatal(err)
	}

	if !slices.Equal(indices, []int{0, 1, 2, 3, 4, 5}) {
		t.Errorf("Draw indices should be [0 1 2 3 4 5] but was %v", indices)
	}
	binds := ctx.find("BindVertexArray")
	if len(binds) != 3 {
		t.Fatalf("BindVertexArray calls should be 3 but was %d", len(binds))
	}
	for i, want := range []render.Handle{1, 2, 1} {
		if binds[i].args[0] != want {
			t.Errorf("Vertex array bind %d should be %d but was %v", i, want, binds[i].args[0])
		}
	}
	if n := ctx.count("UseProgram"); n != 1 {
		t.Errorf("UseProgram calls should be 1 but was %d", n)
	}
	if n := ctx.count("DrawArrays"); n != 6 {
		t.Errorf("DrawArrays calls should be 6 but was %d", n)
	}
}

func TestBatchBindsFixedFunctionStateOnce(t *testing.T) {
	dev, ctx := newDevice()
	cmd := compile(t, dev, render.CommandSpec[props]{
		Depth: &render.DepthSpec{},
		Blend: &render.BlendSpec{Src: render.Same(render.BlendOne), Dst: render.Same(render.BlendOne)},
	})
	ctx.reset()

	err := dev.Target(func(rt *render.Target) error {
		return cmd.Batch(rt, func(draw func(render.Geometry, props) error) error {
			for i := 0; i < 4; i++ {
				if err := draw(&geometry{vao: 1, count: 3}, props{}); err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		t.Fatal(err)
	}
	if n := ctx.count("DepthFunc"); n != 1 {
		t.Errorf("DepthFunc calls should be 1 but was %d", n)
	}
	if n := ctx.count("BlendFuncSeparate"); n != 1 {
		t.Errorf("BlendFuncSeparate calls should be 1 but was %d", n)
	}

	// a second batch with the same command changes nothing
	ctx.reset()
	err = dev.Target(func(rt *render.Target) error {
		return cmd.Draw(rt, &geometry{vao: 1, count: 3}, props{})
	})
	if err != nil {
		t.Fatal(err)
	}
	if n := ctx.count("Enable") + ctx.count("UseProgram"); n != 0 {
		t.Errorf("Rebinding the same command should make no state calls but was %v", ctx.names())
	}
}

func TestAccessorErrorPropagates(t *testing.T) {
	dev, ctx := newDevice("u_model")
	errBroken := errors.New("model matrix unavailable")
	cmd := compile(t, dev, render.CommandSpec[props]{
		Uniforms: map[string]render.Uniform[props]{
			"u_model": render.Mat4(render.Computed(func(p props, i int) (mgl32.Mat4, error) {
				return mgl32.Ident4(), errBroken
			})),
		},
	})
	ctx.reset()

	err := dev.Target(func(rt *render.Target) error {
		return cmd.Draw(rt, &geometry{vao: 1, count: 3}, props{})
	})
	if err != errBroken {
		t.Errorf("Error should be the accessor error but was %v", err)
	}
	if n := ctx.count("DrawArrays"); n != 0 {
		t.Errorf("Nothing should be drawn but DrawArrays was called %d times", n)
	}

	// the scopes are closed again
	err = dev.Target(func(rt *render.Target) error { return nil })
	if err != nil {
		t.Errorf("Entering the target after a failed draw should succeed but was %v", err)
	}
}

func TestDrawCallSelection(t *testing.T) {
	dev, ctx := newDevice()
	cmd := compile(t, dev, render.CommandSpec[props]{Offset: 2, Count: 100})

	geos := []render.Geometry{
		&geometry{vao: 1, count: 30, primitive: render.Lines},
		&geometry{vao: 2, count: 30, elements: render.ElementUint16},
		&geometry{vao: 3, count: 30, instances: 8},
		&geometryRange{geometry: geometry{vao: 4, count: 30, elements: render.ElementUint32, instances: 2}, offset: 10},
	}
	ctx.reset()
	err := dev.Target(func(rt *render.Target) error {
		for _, g := range geos {
			if err := cmd.Draw(rt, g, props{}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	arrays := ctx.find("DrawArrays")
	if len(arrays) != 1 || arrays[0].args[0] != render.Lines || arrays[0].args[1] != int32(2) || arrays[0].args[2] != int32(30) {
		t.Errorf("DrawArrays should be (Lines, 2, 30) but was %v", arrays)
	}
	elements := ctx.find("DrawElements")
	if len(elements) != 1 || elements[0].args[0] != render.Triangles || elements[0].args[3] != 4 {
		t.Errorf("DrawElements should be (Triangles, 30, Uint16, 4) but was %v", elements)
	}
	instanced := ctx.find("DrawArraysInstanced")
	if len(instanced) != 1 || instanced[0].args[3] != int32(8) {
		t.Errorf("DrawArraysInstanced should draw 8 instances but was %v", instanced)
	}
	elementsInstanced := ctx.find("DrawElementsInstanced")
	if len(elementsInstanced) != 1 || elementsInstanced[0].args[3] != 48 || elementsInstanced[0].args[4] != int32(2) {
		t.Errorf("DrawElementsInstanced should be at byte offset 48 with 2 instances but was %v", elementsInstanced)
	}
}

func TestDrawWithoutGeometry(t *testing.T) {
	dev, ctx := newDevice()
	fullscreen := compile(t, dev, render.CommandSpec[props]{Count: 3, Primitive: render.TriangleStrip})
	empty := compile(t, dev, render.CommandSpec[props]{})
	ctx.reset()

	err := dev.Target(func(rt *render.Target) error {
		if err := fullscreen.Draw(rt, nil, props{}); err != nil {
			return err
		}
		return empty.Draw(rt, nil, props{})
	})
	if !errors.Is(err, render.ErrNoGeometry) {
		t.Errorf("Drawing nothing should fail with ErrNoGeometry but was %v", err)
	}
	draws := ctx.find("DrawArrays")
	if len(draws) != 1 || draws[0].args[0] != render.TriangleStrip || draws[0].args[2] != int32(3) {
		t.Errorf("DrawArrays should be (TriangleStrip, 0, 3) but was %v", draws)
	}
}

func TestExecuteEntersResolvedTarget(t *testing.T) {
	dev, ctx := newDevice()
	offscreen := dev.NewTarget(&framebuffer{handle: 5, drawBuffers: []render.DrawBuffer{render.ColorAttachment(0)}, width: 64, height: 32})
	var seen []int
	cmd := compile(t, dev, render.CommandSpec[props]{
		Geometry: render.Func(func(p props, i int) render.Geometry {
			seen = append(seen, i)
			return p.geo
		}),
		Target: render.Func(func(p props, _ int) *render.Target { return p.rt }),
	})
	ctx.reset()

	quad := &geometry{vao: 1, count: 6}
	err := cmd.Execute(
		props{geo: quad, rt: offscreen},
		props{geo: quad, rt: offscreen},
		props{geo: quad, rt: dev.Backbuffer()},
	)
	if err != nil {
		t.Fatal(err)
	}

	if !slices.Equal(seen, []int{0, 1, 2}) {
		t.Errorf("Geometry accessor indices should be [0 1 2] but was %v", seen)
	}
	fbs := ctx.find("BindFramebuffer")
	if len(fbs) != 2 || fbs[0].args[1] != render.Handle(5) || fbs[1].args[1] != render.Handle(0) {
		t.Errorf("Framebuffer binds should be 5 then 0 but was %v", fbs)
	}
	vps := ctx.find("Viewport")
	if len(vps) != 2 || vps[0].args[2] != int32(64) || vps[1].args[2] != int32(640) {
		t.Errorf("Viewports should be 64 wide then 640 wide but was %v", vps)
	}
	if n := ctx.count("DrawArrays"); n != 3 {
		t.Errorf("DrawArrays calls should be 3 but was %d", n)
	}
}

func TestExecuteWithoutTarget(t *testing.T) {
	dev, ctx := newDevice()
	cmd := compile(t, dev, render.CommandSpec[props]{Count: 3})
	ctx.reset()

	if err := cmd.Execute(); !errors.Is(err, render.ErrTargetNotBound) {
		t.Errorf("Execute without any target should fail with ErrTargetNotBound but was %v", err)
	}

	err := dev.Target(func(rt *render.Target) error {
		return cmd.Execute(props{}, props{})
	})
	if err != nil {
		t.Errorf("Execute inside a target scope should succeed but was %v", err)
	}
	if n := ctx.count("DrawArrays"); n != 2 {
		t.Errorf("DrawArrays calls should be 2 but was %d", n)
	}
}

func TestScissorAccessor(t *testing.T) {
	dev, ctx := newDevice()
	clipped := compile(t, dev, render.CommandSpec[props]{
		Count: 3,
		Scissor: render.Func(func(p props, i int) *render.Rect {
			return &render.Rect{X: i * 10, Width: 10, Height: 10}
		}),
	})
	plain := compile(t, dev, render.CommandSpec[props]{Count: 3})
	ctx.reset()

	err := dev.Target(func(rt *render.Target) error {
		if err := clipped.Batch(rt, func(draw func(render.Geometry, props) error) error {
			if err := draw(nil, props{}); err != nil {
				return err
			}
			return draw(nil, props{})
		}); err != nil {
			return err
		}
		return plain.Draw(rt, nil, props{})
	})
	if err != nil {
		t.Fatal(err)
	}
	if n := ctx.count("Scissor"); n != 2 {
		t.Errorf("Scissor calls should be 2 but was %d", n)
	}
	disables := ctx.find("Disable")
	if len(disables) != 1 || disables[0].args[0] != render.ScissorTest {
		t.Errorf("Leaving the clipped command should disable the scissor test once but was %v", disables)
	}
}

func TestNestedScopesFail(t *testing.T) {
	dev, _ := newDevice()
	offscreen := dev.NewTarget(&framebuffer{handle: 2, drawBuffers: []render.DrawBuffer{render.ColorAttachment(0)}, width: 8, height: 8})
	cmd := compile(t, dev, render.CommandSpec[props]{Count: 3})

	err := dev.Target(func(rt *render.Target) error {
		return offscreen.With(func(*render.Target) error { return nil })
	})
	if !errors.Is(err, render.ErrTargetAlreadyBound) {
		t.Errorf("Nested target scopes should fail with ErrTargetAlreadyBound but was %v", err)
	}

	err = dev.Target(func(rt *render.Target) error {
		return cmd.Batch(rt, func(draw func(render.Geometry, props) error) error {
			return cmd.Draw(rt, nil, props{})
		})
	})
	if !errors.Is(err, render.ErrCommandAlreadyBound) {
		t.Errorf("Drawing inside a batch of the same command should fail with ErrCommandAlreadyBound but was %v", err)
	}

	err = dev.Target(func(rt *render.Target) error {
		return cmd.Draw(offscreen, nil, props{})
	})
	if !errors.Is(err, render.ErrTargetNotBound) {
		t.Errorf("Drawing into another target should fail with ErrTargetNotBound but was %v", err)
	}
}
