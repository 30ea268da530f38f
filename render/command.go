package render

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type uniformBinding[P any] struct {
	identifier string
	location   Location
	def        Uniform[P]
}

// Command is a compiled draw pass: a linked program, its uniform bindings and
// the fixed-function state applied while it is bound. A Command never
// changes after Compile; only the values resolved per draw vary.
type Command[P any] struct {
	state   *State
	program Handle
	label   string

	uniforms  []uniformBinding[P]
	geometry  Access[P, Geometry]
	target    Access[P, *Target]
	scissor   Access[P, *Rect]
	count     int
	offset    int
	primitive Primitive

	depth   *DepthDescriptor
	stencil *StencilDescriptor
	blend   *BlendDescriptor
}

// Compile builds and links the program of spec, resolves the location of
// every uniform and normalizes the fixed-function state.
func Compile[P any](dev *Device, spec CommandSpec[P]) (*Command[P], error) {
	if spec.Vert == "" {
		return nil, &MissingFieldError{Field: "vert"}
	}
	if spec.Frag == "" {
		return nil, &MissingFieldError{Field: "frag"}
	}
	if spec.Count < 0 || spec.Offset < 0 {
		return nil, fmt.Errorf("count and offset must not be negative, got %d and %d", spec.Count, spec.Offset)
	}
	blend, err := parseBlend(spec.Blend)
	if err != nil {
		return nil, err
	}

	ctx := dev.state.Context()
	program, err := linkProgram(ctx, spec.Vert, spec.Frag)
	if err != nil {
		return nil, err
	}

	identifiers := maps.Keys(spec.Uniforms)
	slices.Sort(identifiers)
	uniforms := make([]uniformBinding[P], 0, len(identifiers))
	for _, id := range identifiers {
		loc, ok := ctx.UniformLocation(program, id)
		if !ok {
			ctx.DeleteProgram(program)
			return nil, &UnknownUniformError{Identifier: id}
		}
		uniforms = append(uniforms, uniformBinding[P]{identifier: id, location: loc, def: spec.Uniforms[id]})
	}

	cmd := &Command[P]{
		state:     dev.state,
		program:   program,
		uniforms:  uniforms,
		geometry:  spec.Geometry,
		target:    spec.Target,
		scissor:   spec.Scissor,
		count:     spec.Count,
		offset:    spec.Offset,
		primitive: spec.Primitive,
		depth:     parseDepth(spec.Depth),
		stencil:   parseStencil(spec.Stencil),
		blend:     blend,
	}
	Logger().Debug("compiled command", "program", program, "uniforms", len(uniforms),
		"depth", cmd.depth != nil, "stencil", cmd.stencil != nil, "blend", cmd.blend != nil)
	return cmd, nil
}

func linkProgram(ctx Context, vert, frag string) (Handle, error) {
	vs, log, ok := ctx.CompileShader(VertexShader, vert)
	if !ok {
		ctx.DeleteShader(vs)
		return 0, &ShaderCompilationError{Stage: VertexShader.String(), Log: log}
	}
	fs, log, ok := ctx.CompileShader(FragmentShader, frag)
	if !ok {
		ctx.DeleteShader(vs)
		ctx.DeleteShader(fs)
		return 0, &ShaderCompilationError{Stage: FragmentShader.String(), Log: log}
	}

	program, log, ok := ctx.LinkProgram(vs, fs)
	// The program keeps the attached shaders alive.
	ctx.DeleteShader(vs)
	ctx.DeleteShader(fs)
	if !ok {
		ctx.DeleteProgram(program)
		return 0, &ShaderCompilationError{Stage: "link", Log: log}
	}
	return program, nil
}

func (cmd *Command[P]) String() string {
	if cmd == nil {
		return "<nil command>"
	}
	if cmd.label != "" {
		return fmt.Sprintf("command(%s)", cmd.label)
	}
	return fmt.Sprintf("command(program %d)", cmd.program)
}

// SetDebugLabel names the command in binding errors.
func (cmd *Command[P]) SetDebugLabel(label string) {
	cmd.label = label
}

func (cmd *Command[P]) Program() Handle {
	return cmd.program
}

// Depth returns a copy of the depth state, nil if depth testing is off.
func (cmd *Command[P]) Depth() *DepthDescriptor {
	return clone(cmd.depth)
}

func (cmd *Command[P]) Stencil() *StencilDescriptor {
	return clone(cmd.stencil)
}

func (cmd *Command[P]) Blend() *BlendDescriptor {
	return clone(cmd.blend)
}

func clone[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Uniforms returns the uniform identifiers in the order they are applied.
func (cmd *Command[P]) Uniforms() []string {
	ids := make([]string, len(cmd.uniforms))
	for i, u := range cmd.uniforms {
		ids[i] = u.identifier
	}
	return ids
}

// Delete releases the program. The command must not be used afterwards.
func (cmd *Command[P]) Delete() {
	cmd.state.Context().DeleteProgram(cmd.program)
}

// Draw draws geo once with props into rt, which must be the bound target.
// A nil geo falls back to the geometry of the command.
func (cmd *Command[P]) Draw(rt *Target, geo Geometry, props P) error {
	if err := cmd.state.AssertTargetBound(rt, "draw"); err != nil {
		return err
	}
	return cmd.bind(func() error {
		return cmd.drawOne(geo, props, 0, &vertexArrayBinding{})
	})
}

// Batch binds the command once and calls fn with a draw function. Each call
// of draw resolves the accessors with the next draw index, starting at 0.
// The vertex array is only rebound when the geometry changes between two
// consecutive draws.
func (cmd *Command[P]) Batch(rt *Target, fn func(draw func(geo Geometry, props P) error) error) error {
	if err := cmd.state.AssertTargetBound(rt, "batch"); err != nil {
		return err
	}
	return cmd.bind(func() error {
		index := 0
		vao := &vertexArrayBinding{coalesce: true}
		return fn(func(geo Geometry, props P) error {
			if err := cmd.state.AssertTargetBound(rt, "batch-draw"); err != nil {
				return err
			}
			if err := cmd.state.AssertCommandBound(cmd, "batch-draw"); err != nil {
				return err
			}
			i := index
			index++
			return cmd.drawOne(geo, props, i, vao)
		})
	})
}

// Execute draws the geometry of the command once per props value, using the
// position as draw index. Each draw goes to the target resolved from the
// command, which is entered if no target is bound, or to the bound target
// if the command has none. Without props a single draw with the zero props
// is made.
func (cmd *Command[P]) Execute(props ...P) error {
	if len(props) == 0 {
		var zero P
		props = []P{zero}
	}
	return cmd.bind(func() error {
		vao := &vertexArrayBinding{coalesce: true}
		for i, p := range props {
			if err := cmd.executeOne(p, i, vao); err != nil {
				return err
			}
		}
		return nil
	})
}

func (cmd *Command[P]) executeOne(props P, index int, vao *vertexArrayBinding) error {
	active, _ := cmd.state.ActiveTarget().(*Target)
	rt := active
	if cmd.target.IsSet() {
		resolved, err := cmd.target.Resolve(props, index)
		if err != nil {
			return err
		}
		if resolved != nil {
			rt = resolved
		}
	}
	if rt == nil {
		return &BindingError{Op: "execute", Err: ErrTargetNotBound}
	}
	if rt == active {
		return cmd.drawOne(nil, props, index, vao)
	}
	return rt.With(func(rt *Target) error {
		return cmd.drawOne(nil, props, index, vao)
	})
}

func (cmd *Command[P]) bind(fn func() error) (err error) {
	if err := cmd.state.BindCommand(cmd, cmd.program); err != nil {
		return err
	}
	defer func() {
		if cmd.scissor.IsSet() {
			// a clip rect must not leak into clears and blits
			cmd.state.SetScissor(nil)
		}
		if uerr := cmd.state.UnbindCommand(); err == nil {
			err = uerr
		}
	}()
	cmd.state.SetDepthTest(cmd.depth)
	cmd.state.SetStencilTest(cmd.stencil)
	cmd.state.SetBlend(cmd.blend)
	if !cmd.scissor.IsSet() {
		cmd.state.SetScissor(nil)
	}
	return fn()
}

type vertexArrayBinding struct {
	handle   Handle
	bound    bool
	coalesce bool
}

func (b *vertexArrayBinding) bind(ctx Context, handle Handle) {
	if b.coalesce && b.bound && b.handle == handle {
		return
	}
	ctx.BindVertexArray(handle)
	b.handle = handle
	b.bound = true
}

func (cmd *Command[P]) drawOne(geo Geometry, props P, index int, vao *vertexArrayBinding) error {
	ctx := cmd.state.Context()

	units := 0
	for _, u := range cmd.uniforms {
		if err := u.def.apply(ctx, u.identifier, u.location, props, index, &units); err != nil {
			return err
		}
	}

	if geo == nil && cmd.geometry.IsSet() {
		resolved, err := cmd.geometry.Resolve(props, index)
		if err != nil {
			return err
		}
		geo = resolved
	}

	if cmd.scissor.IsSet() {
		rect, err := cmd.scissor.Resolve(props, index)
		if err != nil {
			return err
		}
		cmd.state.SetScissor(rect)
	}

	if geo == nil {
		if cmd.count == 0 {
			return &BindingError{Op: "draw", Expected: "geometry or vertex count", Err: ErrNoGeometry}
		}
		prim := cmd.primitive
		if prim == PrimitiveInfer {
			prim = Triangles
		}
		// vertex array 0 stands for "no attributes"
		vao.bind(ctx, 0)
		ctx.DrawArrays(prim, int32(cmd.offset), int32(cmd.count))
		return nil
	}

	vao.bind(ctx, geo.VertexArray())

	prim := cmd.primitive
	if prim == PrimitiveInfer {
		prim = geo.Primitive()
	}
	if prim == PrimitiveInfer {
		prim = Triangles
	}
	count := geo.Count()
	if cmd.count > 0 && cmd.count < count {
		count = cmd.count
	}
	offset := cmd.offset
	if r, ok := geo.(GeometryRange); ok {
		offset += r.Offset()
	}
	instances := geo.InstanceCount()

	if typ := geo.ElementType(); typ != ElementNone {
		byteOffset := offset * typ.Size()
		if instances > 0 {
			ctx.DrawElementsInstanced(prim, int32(count), typ, byteOffset, int32(instances))
		} else {
			ctx.DrawElements(prim, int32(count), typ, byteOffset)
		}
		return nil
	}
	if instances > 0 {
		ctx.DrawArraysInstanced(prim, int32(offset), int32(count), int32(instances))
	} else {
		ctx.DrawArrays(prim, int32(offset), int32(count))
	}
	return nil
}
