package main

import (
	_ "embed"

	"retained-gl/libgl"
	"retained-gl/libutil"
	"retained-gl/render"

	"github.com/chewxy/math32"
	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

//go:embed shaders/scene.vert
var sceneVertSrc string

//go:embed shaders/scene.frag
var sceneFragSrc string

const sceneRings = 3

type instance struct {
	Offset mgl32.Vec3
	Color  mgl32.Vec3
}

type sceneProps struct {
	viewProj mgl32.Mat4
	size     float32
}

// Scene is a set of textured quads orbiting the origin, drawn with one
// instanced draw call.
type Scene struct {
	cmd       *render.Command[sceneProps]
	vao       *libgl.VertexArray
	vertices  *libgl.Buffer
	indices   *libgl.Buffer
	perInst   *libgl.Buffer
	instances []instance

	Size  float32
	Speed float32
}

func NewScene(dev *render.Device, tex render.Texture, count int) (*Scene, error) {
	cmd, err := render.Compile(dev, render.CommandSpec[sceneProps]{
		Vert: sceneVertSrc,
		Frag: sceneFragSrc,
		Uniforms: map[string]render.Uniform[sceneProps]{
			"u_view_proj": render.Mat4(render.Func(func(p sceneProps, _ int) mgl32.Mat4 { return p.viewProj })),
			"u_size":      render.Float(render.Func(func(p sceneProps, _ int) float32 { return p.size })),
			"u_texture":   render.TextureSampler(render.Constant[sceneProps](tex)),
		},
		Depth: &render.DepthSpec{Func: render.CompareLess},
	})
	if err != nil {
		return nil, err
	}
	cmd.SetDebugLabel("scene")

	s := &Scene{
		cmd:      cmd,
		vao:      libgl.NewVertexArray(render.Triangles),
		vertices: libgl.NewBuffer(),
		indices:  libgl.NewBuffer(),
		perInst:  libgl.NewBuffer(),
		Size:     0.3,
		Speed:    0.5,
	}
	s.vao.SetDebugLabel("scene")

	// x, y, z, u, v
	s.vertices.Allocate([]float32{
		-1, -1, 0, 0, 0,
		1, -1, 0, 1, 0,
		1, 1, 0, 1, 1,
		-1, 1, 0, 0, 1,
	}, 0)
	s.indices.Allocate([]uint16{0, 1, 2, 2, 3, 0}, 0)
	s.perInst.AllocateMutable(0, gl.DYNAMIC_DRAW)

	s.vao.Layout(0, 0, 3, gl.FLOAT, false, 0)
	s.vao.Layout(0, 1, 2, gl.FLOAT, false, 3*4)
	s.vao.BindBuffer(0, s.vertices, 0, 5*4)
	s.vao.Layout(1, 2, 3, gl.FLOAT, false, 0)
	s.vao.Layout(1, 3, 3, gl.FLOAT, false, 3*4)
	s.vao.BindBuffer(1, s.perInst, 0, 6*4)
	s.vao.AttribDivisor(1, 1)
	s.vao.BindElementBuffer(s.indices, render.ElementUint16)
	s.vao.SetCount(6)

	s.SetInstanceCount(count)
	return s, nil
}

func (s *Scene) InstanceCount() int {
	return len(s.instances)
}

func (s *Scene) SetInstanceCount(count int) {
	s.instances = make([]instance, count)
	s.perInst.Grow(count * 6 * 4)
	s.vao.SetInstanceCount(count)
}

// Update moves the quads to their positions at time t.
func (s *Scene) Update(t float32) {
	layoutInstances(s.instances, t*s.Speed)
	s.perInst.Write(0, s.instances)
}

func (s *Scene) Draw(rt *render.Target, viewProj mgl32.Mat4) error {
	return s.cmd.Draw(rt, s.vao, sceneProps{viewProj: viewProj, size: s.Size})
}

func (s *Scene) Delete() {
	s.cmd.Delete()
	s.vao.Delete()
	s.vertices.Delete()
	s.indices.Delete()
	s.perInst.Delete()
}

// layoutInstances spreads the instances over concentric rings. Outer rings
// turn slower and every quad gets its own hue.
func layoutInstances(dst []instance, t float32) {
	n := float32(len(dst))
	for i := range dst {
		ring := i % sceneRings
		radius := 2 + float32(ring)*1.5
		angle := 2*math32.Pi*float32(i)/n + t/(1+float32(ring))
		pos := libutil.Orbit(angle, radius)
		pos[1] = 0.5 * math32.Sin(3*angle+float32(ring))
		dst[i] = instance{
			Offset: pos,
			Color:  libutil.Hsl2rgb(mgl32.Vec3{float32(i) / n, 0.7, 0.55}),
		}
	}
}
