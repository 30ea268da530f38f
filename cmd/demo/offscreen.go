package main

import (
	"retained-gl/libgl"
	"retained-gl/render"

	"github.com/go-gl/gl/v4.5-core/gl"
)

// offscreen is the HDR framebuffer the scene is drawn into. It follows the
// window size scaled by the render scale.
type offscreen struct {
	dev    *render.Device
	scale  float64
	fb     *libgl.Framebuffer
	target *render.Target
}

func newOffscreen(dev *render.Device, scale float64) *offscreen {
	return &offscreen{dev: dev, scale: scale}
}

// Resize recreates the framebuffer when the scaled size changed.
func (o *offscreen) Resize(width, height int) error {
	w := max(1, int(float64(width)*o.scale))
	h := max(1, int(float64(height)*o.scale))
	if o.fb != nil && o.fb.Width() == w && o.fb.Height() == h {
		return nil
	}
	o.Delete()

	fb, err := libgl.NewFramebuffer(w, h, []uint32{gl.RGBA16F}, gl.DEPTH24_STENCIL8)
	if err != nil {
		return err
	}
	fb.SetDebugLabel("scene")
	o.fb = fb
	o.target = o.dev.NewTarget(fb)
	o.target.SetDebugLabel("scene")
	render.Logger().Debug("offscreen resized", "width", w, "height", h)
	return nil
}

func (o *offscreen) Target() *render.Target {
	return o.target
}

func (o *offscreen) Framebuffer() *libgl.Framebuffer {
	return o.fb
}

func (o *offscreen) Color() render.Texture {
	return o.fb.Color(0)
}

func (o *offscreen) Delete() {
	if o.fb != nil {
		o.dev.State().ForgetFramebuffer(o.fb.Handle())
		o.fb.Delete()
		o.fb = nil
		o.target = nil
	}
}
