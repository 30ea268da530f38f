package render

import (
	"fmt"
)

// Target is a drawable surface: the back buffer or an offscreen framebuffer.
// Drawing, clearing and blitting are only allowed inside With.
type Target struct {
	dev         *Device
	framebuffer Handle
	drawBuffers []DrawBuffer
	// zero means the size of the drawing buffer
	width, height int
	label         string
}

func (t *Target) String() string {
	if t == nil {
		return "<nil target>"
	}
	if t.label != "" {
		return fmt.Sprintf("target(%s)", t.label)
	}
	return fmt.Sprintf("target(framebuffer %d)", t.framebuffer)
}

// SetDebugLabel names the target in binding errors.
func (t *Target) SetDebugLabel(label string) {
	t.label = label
}

func (t *Target) Framebuffer() Handle {
	return t.framebuffer
}

func (t *Target) Viewport() Viewport {
	if t.width == 0 || t.height == 0 {
		w, h := t.dev.BufferSize()
		return Viewport{Width: w, Height: h}
	}
	return Viewport{Width: t.width, Height: t.height}
}

// With binds the target, sets its viewport and runs fn. The target stays
// bound in the context afterwards; only the scope is closed.
func (t *Target) With(fn func(rt *Target) error) (err error) {
	state := t.dev.state
	if err := state.BindTarget(t, t.framebuffer, t.drawBuffers); err != nil {
		return err
	}
	defer func() {
		if uerr := state.UnbindTarget(); err == nil {
			err = uerr
		}
	}()
	state.SetViewport(t.Viewport())
	return fn(t)
}

// ClearOptions carries the values written to the clear registers. A nil
// field keeps the current register value.
type ClearOptions struct {
	Color   *[4]float32
	Depth   *float64
	Stencil *int32
}

// Clear clears the requested buffers. Register values are only written for
// channels that are both requested in bits and given in opts.
func (t *Target) Clear(bits BufferBits, opts ClearOptions) error {
	state := t.dev.state
	if err := state.AssertTargetBound(t, "clear"); err != nil {
		return err
	}
	if bits&ColorBits != 0 && opts.Color != nil {
		c := opts.Color
		state.ClearColor(c[0], c[1], c[2], c[3])
	}
	if bits&DepthBits != 0 && opts.Depth != nil {
		state.ClearDepth(*opts.Depth)
	}
	if bits&StencilBits != 0 && opts.Stencil != nil {
		state.ClearStencil(*opts.Stencil)
	}
	state.Context().Clear(bits)
	return nil
}

// BlitOptions select the destination rectangle. A zero Width or Height
// means the width or height of the target viewport.
type BlitOptions struct {
	X, Y          int
	Width, Height int
	Filter        Filter
}

// Blit copies bits from the whole of src into the destination rectangle of
// this target. The filter only applies to color blits between rectangles of
// different size, otherwise nearest is used.
func (t *Target) Blit(src Framebuffer, bits BufferBits, opts BlitOptions) error {
	state := t.dev.state
	if err := state.AssertTargetBound(t, "blit"); err != nil {
		return err
	}

	vp := t.Viewport()
	width, height := opts.Width, opts.Height
	if width == 0 {
		width = vp.Width
	}
	if height == 0 {
		height = vp.Height
	}

	filter := FilterNearest
	if opts.Filter == FilterLinear && bits == ColorBits &&
		(width != src.Width() || height != src.Height()) {
		filter = FilterLinear
	}

	state.BindReadFramebuffer(src.Handle())
	state.Context().BlitFramebuffer(
		0, 0, int32(src.Width()), int32(src.Height()),
		int32(opts.X), int32(opts.Y), int32(opts.X+width), int32(opts.Y+height),
		bits, filter,
	)
	return nil
}
