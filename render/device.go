package render

// Device owns the State of one Context and the target drawing to its back
// buffer. Independent devices never share state, so several contexts can be
// driven from one process.
type Device struct {
	state      *State
	backbuffer *Target

	explicitWidth  int
	explicitHeight int
	pixelRatio     float64
}

type Option func(d *Device)

// WithViewport fixes the drawing buffer size in logical pixels instead of
// querying the context.
func WithViewport(width, height int) Option {
	return func(d *Device) {
		d.explicitWidth = width
		d.explicitHeight = height
	}
}

// WithPixelRatio scales an explicit viewport to physical pixels.
func WithPixelRatio(ratio float64) Option {
	return func(d *Device) {
		d.pixelRatio = ratio
	}
}

func NewDevice(ctx Context, opts ...Option) *Device {
	d := &Device{
		state:      NewState(ctx),
		pixelRatio: 1,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.pixelRatio <= 0 {
		d.pixelRatio = 1
	}
	d.backbuffer = &Target{
		dev:         d,
		drawBuffers: []DrawBuffer{DrawBufferBack},
		label:       "backbuffer",
	}

	w, h := d.BufferSize()
	Logger().Info("device created", "width", w, "height", h, "pixelRatio", d.pixelRatio)
	return d
}

func (d *Device) State() *State {
	return d.state
}

func (d *Device) Context() Context {
	return d.state.Context()
}

func (d *Device) Backbuffer() *Target {
	return d.backbuffer
}

// Target runs fn inside the back buffer target scope.
func (d *Device) Target(fn func(rt *Target) error) error {
	return d.backbuffer.With(fn)
}

// BufferSize is the size of the back buffer in physical pixels.
func (d *Device) BufferSize() (width, height int) {
	if d.explicitWidth > 0 && d.explicitHeight > 0 {
		return int(float64(d.explicitWidth) * d.pixelRatio), int(float64(d.explicitHeight) * d.pixelRatio)
	}
	return d.state.Context().DrawingBufferSize()
}

// NewTarget creates a target drawing into fb through its draw buffers.
func (d *Device) NewTarget(fb Framebuffer) *Target {
	t := &Target{
		dev:         d,
		framebuffer: fb.Handle(),
		drawBuffers: append([]DrawBuffer(nil), fb.DrawBuffers()...),
		width:       fb.Width(),
		height:      fb.Height(),
	}
	Logger().Debug("target created", "framebuffer", t.framebuffer, "drawBuffers", len(t.drawBuffers),
		"width", t.width, "height", t.height)
	return t
}
