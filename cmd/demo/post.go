package main

import (
	_ "embed"

	"retained-gl/render"
)

//go:embed shaders/post.vert
var postVertSrc string

//go:embed shaders/post.frag
var postFragSrc string

type postProps struct {
	scene    render.Texture
	exposure float32
	vignette float32
}

// NewPostPass compiles the tone mapping pass. It draws a single triangle
// without geometry and always targets the back buffer, so it can be executed
// outside of any target scope.
func NewPostPass(dev *render.Device) (*render.Command[postProps], error) {
	cmd, err := render.Compile(dev, render.CommandSpec[postProps]{
		Vert: postVertSrc,
		Frag: postFragSrc,
		Uniforms: map[string]render.Uniform[postProps]{
			"u_scene":    render.TextureSampler(render.Func(func(p postProps, _ int) render.Texture { return p.scene })),
			"u_exposure": render.Float(render.Func(func(p postProps, _ int) float32 { return p.exposure })),
			"u_vignette": render.Float(render.Func(func(p postProps, _ int) float32 { return p.vignette })),
		},
		Target: render.Constant[postProps](dev.Backbuffer()),
		Count:  3,
	})
	if err != nil {
		return nil, err
	}
	cmd.SetDebugLabel("post")
	return cmd, nil
}
