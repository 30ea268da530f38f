package libgl

import (
	"fmt"

	"retained-gl/render"

	"github.com/go-gl/gl/v4.5-core/gl"
)

// Framebuffer is an offscreen surface with color textures and an optional
// depth-stencil renderbuffer. It implements render.Framebuffer.
type Framebuffer struct {
	glId          uint32
	colors        []*Texture
	depthStencil  uint32
	width, height int
	drawBuffers   []render.DrawBuffer
}

// NewFramebuffer creates one color texture per entry of colorFormats and a
// depth renderbuffer if depthFormat is not zero. All color attachments are
// draw buffers in attachment order.
func NewFramebuffer(width, height int, colorFormats []uint32, depthFormat uint32) (*Framebuffer, error) {
	var id uint32
	gl.CreateFramebuffers(1, &id)
	fb := &Framebuffer{
		glId:   id,
		width:  width,
		height: height,
	}

	attachments := make([]uint32, len(colorFormats))
	for i, format := range colorFormats {
		tex := NewTexture2D(width, height, format, 1)
		gl.NamedFramebufferTexture(id, gl.COLOR_ATTACHMENT0+uint32(i), tex.glId, 0)
		fb.colors = append(fb.colors, tex)
		fb.drawBuffers = append(fb.drawBuffers, render.ColorAttachment(i))
		attachments[i] = gl.COLOR_ATTACHMENT0 + uint32(i)
	}
	if depthFormat != 0 {
		gl.CreateRenderbuffers(1, &fb.depthStencil)
		gl.NamedRenderbufferStorage(fb.depthStencil, depthFormat, int32(width), int32(height))
		attachment := uint32(gl.DEPTH_ATTACHMENT)
		if depthFormat == gl.DEPTH24_STENCIL8 || depthFormat == gl.DEPTH32F_STENCIL8 {
			attachment = gl.DEPTH_STENCIL_ATTACHMENT
		}
		gl.NamedFramebufferRenderbuffer(id, attachment, gl.RENDERBUFFER, fb.depthStencil)
	}

	// Draw buffers are framebuffer state. The state tracker compares lists
	// across framebuffers, so each framebuffer must already hold its own.
	if len(attachments) > 0 {
		gl.NamedFramebufferDrawBuffers(id, int32(len(attachments)), &attachments[0])
	} else {
		gl.NamedFramebufferDrawBuffer(id, gl.NONE)
		fb.drawBuffers = []render.DrawBuffer{render.DrawBufferNone}
	}

	if err := fb.Check(gl.DRAW_FRAMEBUFFER); err != nil {
		fb.Delete()
		return nil, err
	}
	return fb, nil
}

func (fb *Framebuffer) Handle() render.Handle {
	return render.Handle(fb.glId)
}

func (fb *Framebuffer) DrawBuffers() []render.DrawBuffer {
	return fb.drawBuffers
}

func (fb *Framebuffer) Width() int {
	return fb.width
}

func (fb *Framebuffer) Height() int {
	return fb.height
}

// Color returns the texture of color attachment i.
func (fb *Framebuffer) Color(i int) *Texture {
	return fb.colors[i]
}

func (fb *Framebuffer) SetDebugLabel(label string) {
	setObjectLabel(gl.FRAMEBUFFER, fb.glId, label)
	for i, tex := range fb.colors {
		tex.SetDebugLabel(fmt.Sprintf("%s color %d", label, i))
	}
	if fb.depthStencil != 0 {
		setObjectLabel(gl.RENDERBUFFER, fb.depthStencil, label+" depth")
	}
}

// target must be GL_DRAW_FRAMEBUFFER, GL_READ_FRAMEBUFFER or GL_FRAMEBUFFER
func (fb *Framebuffer) Check(target uint32) error {
	status := gl.CheckNamedFramebufferStatus(fb.glId, target)
	switch status {
	case gl.FRAMEBUFFER_COMPLETE:
		return nil
	case gl.FRAMEBUFFER_INCOMPLETE_ATTACHMENT:
		return fmt.Errorf("an attachment is framebuffer incomplete (GL_FRAMEBUFFER_INCOMPLETE_ATTACHMENT)")
	case gl.FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT:
		return fmt.Errorf("the framebuffer has no attachments (GL_FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT)")
	case gl.FRAMEBUFFER_INCOMPLETE_DRAW_BUFFER:
		return fmt.Errorf("the object type of a draw attachment is none (GL_FRAMEBUFFER_INCOMPLETE_DRAW_BUFFER)")
	case gl.FRAMEBUFFER_UNSUPPORTED:
		return fmt.Errorf("the combination of internal formats of the attachments is not supported (GL_FRAMEBUFFER_UNSUPPORTED)")
	case gl.FRAMEBUFFER_INCOMPLETE_MULTISAMPLE:
		return fmt.Errorf("the attachments have different sampling (GL_FRAMEBUFFER_INCOMPLETE_MULTISAMPLE)")
	}
	return fmt.Errorf("unknown framebuffer status: %X", status)
}

func (fb *Framebuffer) Delete() {
	for _, tex := range fb.colors {
		tex.Delete()
	}
	if fb.depthStencil != 0 {
		gl.DeleteRenderbuffers(1, &fb.depthStencil)
	}
	gl.DeleteFramebuffers(1, &fb.glId)
	fb.glId = 0
}
