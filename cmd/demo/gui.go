package main

import (
	_ "embed"
	"fmt"
	"unsafe"

	"retained-gl/libgl"
	"retained-gl/render"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/inkyblackness/imgui-go/v4"
)

//go:embed shaders/gui.vert
var guiVertSrc string

//go:embed shaders/gui.frag
var guiFragSrc string

const fontTextureID imgui.TextureID = 1

type guiProps struct {
	proj    mgl32.Mat4
	texture render.Texture
	clip    render.Rect
}

// Gui renders imgui draw lists with a blended command. Every imgui draw
// command becomes one draw of a batch with its own texture and scissor.
type Gui struct {
	IO        imgui.IO
	context   *imgui.Context
	win       *glfw.Window
	cmd       *render.Command[guiProps]
	vao       *libgl.VertexArray
	vbo       *libgl.Buffer
	ebo       *libgl.Buffer
	font      *libgl.Texture
	textures  map[imgui.TextureID]render.Texture
	frameTime float32
}

func NewGui(dev *render.Device, win *glfw.Window) (*Gui, error) {
	cmd, err := render.Compile(dev, render.CommandSpec[guiProps]{
		Vert: guiVertSrc,
		Frag: guiFragSrc,
		Uniforms: map[string]render.Uniform[guiProps]{
			"u_proj_mat": render.Mat4(render.Func(func(p guiProps, _ int) mgl32.Mat4 { return p.proj })),
			"u_texture":  render.TextureSampler(render.Func(func(p guiProps, _ int) render.Texture { return p.texture })),
		},
		Scissor: render.Func(func(p guiProps, _ int) *render.Rect { return &p.clip }),
		Blend: &render.BlendSpec{
			Src:      render.SplitChannels(render.BlendSrcAlpha, render.BlendOne),
			Dst:      render.Same(render.BlendOneMinusSrcAlpha),
			Equation: render.Same(render.BlendAdd),
		},
	})
	if err != nil {
		return nil, err
	}
	cmd.SetDebugLabel("imgui")

	gui := &Gui{
		context:   imgui.CreateContext(nil),
		win:       win,
		cmd:       cmd,
		vao:       libgl.NewVertexArray(render.Triangles),
		vbo:       libgl.NewBuffer(),
		ebo:       libgl.NewBuffer(),
		textures:  map[imgui.TextureID]render.Texture{},
		frameTime: float32(glfw.GetTime()),
	}
	gui.IO = imgui.CurrentIO()
	imgui.StyleColorsDark()
	gui.vao.SetDebugLabel("imgui")

	vertexSize, posOffset, uvOffset, colOffset := imgui.VertexBufferLayout()
	gui.vao.Layout(0, 0, 2, gl.FLOAT, false, posOffset)
	gui.vao.Layout(0, 1, 2, gl.FLOAT, false, uvOffset)
	gui.vao.Layout(0, 2, 4, gl.UNSIGNED_BYTE, true, colOffset)
	gui.vbo.AllocateMutable(0, gl.STREAM_DRAW)
	gui.ebo.AllocateMutable(0, gl.STREAM_DRAW)
	gui.vao.BindBuffer(0, gui.vbo, 0, vertexSize)
	elementType, err := guiElementType(imgui.IndexBufferLayout())
	if err != nil {
		return nil, err
	}
	gui.vao.BindElementBuffer(gui.ebo, elementType)

	image := gui.IO.Fonts().TextureDataRGBA32()
	gui.font = libgl.NewTexture2D(image.Width, image.Height, gl.RGBA8, 1)
	gui.font.SetDebugLabel("imgui font")
	pixels := unsafe.Slice((*byte)(image.Pixels), image.Width*image.Height*4)
	gui.font.Upload(0, 0, image.Width, image.Height, gl.RGBA, gl.UNSIGNED_BYTE, pixels)
	gui.IO.Fonts().SetTextureID(fontTextureID)
	gui.textures[fontTextureID] = gui.font

	gui.installCallbacks()
	return gui, nil
}

func guiElementType(size int) (render.ElementType, error) {
	switch size {
	case 1:
		return render.ElementUint8, nil
	case 2:
		return render.ElementUint16, nil
	case 4:
		return render.ElementUint32, nil
	}
	return render.ElementNone, fmt.Errorf("unsupported imgui index size %d", size)
}

func (gui *Gui) installCallbacks() {
	io := gui.IO
	gui.win.SetCursorPosCallback(func(w *glfw.Window, mx, my float64) {
		io.SetMousePosition(imgui.Vec2{X: float32(mx), Y: float32(my)})
	})
	gui.win.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		io.SetMouseButtonDown(int(button), action == glfw.Press)
	})
	gui.win.SetScrollCallback(func(w *glfw.Window, x, y float64) {
		io.AddMouseWheelDelta(float32(x), float32(y))
	})
	gui.win.SetCharCallback(func(w *glfw.Window, char rune) {
		io.AddInputCharacters(string(char))
	})
	gui.win.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		switch action {
		case glfw.Press:
			io.KeyPress(int(key))
		case glfw.Release:
			io.KeyRelease(int(key))
		}

		// Modifiers are not reliable across systems
		io.KeyCtrl(int(glfw.KeyLeftControl), int(glfw.KeyRightControl))
		io.KeyShift(int(glfw.KeyLeftShift), int(glfw.KeyRightShift))
		io.KeyAlt(int(glfw.KeyLeftAlt), int(glfw.KeyRightAlt))
		io.KeySuper(int(glfw.KeyLeftSuper), int(glfw.KeyRightSuper))
	})

	keys := map[int]glfw.Key{
		imgui.KeyTab:        glfw.KeyTab,
		imgui.KeyLeftArrow:  glfw.KeyLeft,
		imgui.KeyRightArrow: glfw.KeyRight,
		imgui.KeyUpArrow:    glfw.KeyUp,
		imgui.KeyDownArrow:  glfw.KeyDown,
		imgui.KeyPageUp:     glfw.KeyPageUp,
		imgui.KeyPageDown:   glfw.KeyPageDown,
		imgui.KeyHome:       glfw.KeyHome,
		imgui.KeyEnd:        glfw.KeyEnd,
		imgui.KeyInsert:     glfw.KeyInsert,
		imgui.KeyDelete:     glfw.KeyDelete,
		imgui.KeyBackspace:  glfw.KeyBackspace,
		imgui.KeySpace:      glfw.KeySpace,
		imgui.KeyEnter:      glfw.KeyEnter,
		imgui.KeyEscape:     glfw.KeyEscape,
		imgui.KeyA:          glfw.KeyA,
		imgui.KeyC:          glfw.KeyC,
		imgui.KeyV:          glfw.KeyV,
		imgui.KeyX:          glfw.KeyX,
		imgui.KeyY:          glfw.KeyY,
		imgui.KeyZ:          glfw.KeyZ,
	}
	for imKey, glfwKey := range keys {
		io.KeyMap(imKey, int(glfwKey))
	}
}

// WantsInput reports whether imgui consumes the mouse or keyboard this frame.
func (gui *Gui) WantsInput() bool {
	return gui.IO.WantCaptureMouse() || gui.IO.WantCaptureKeyboard()
}

// NewFrame starts recording widgets for this frame.
func (gui *Gui) NewFrame() {
	dispWidth, dispHeight := gui.win.GetSize()
	gui.IO.SetDisplaySize(imgui.Vec2{X: float32(dispWidth), Y: float32(dispHeight)})

	time := float32(glfw.GetTime())
	gui.IO.SetDeltaTime(max(time-gui.frameTime, 1e-6))
	gui.frameTime = time

	imgui.NewFrame()
}

// Draw renders the recorded widgets into rt, which must be bound.
func (gui *Gui) Draw(rt *render.Target) error {
	libgl.PushDebugGroup("Draw ImGui")
	defer libgl.PopDebugGroup()

	imgui.Render()
	dispWidth, dispHeight := gui.win.GetSize()
	fbWidth, fbHeight := gui.win.GetFramebufferSize()
	if dispWidth <= 0 || dispHeight <= 0 {
		return nil
	}
	drawData := imgui.RenderedDrawData()
	drawData.ScaleClipRects(imgui.Vec2{
		X: float32(fbWidth) / float32(dispWidth),
		Y: float32(fbHeight) / float32(dispHeight),
	})
	proj := mgl32.Ortho2D(0, float32(dispWidth), float32(dispHeight), 0)

	return gui.cmd.Batch(rt, func(draw func(render.Geometry, guiProps) error) error {
		for _, list := range drawData.CommandLists() {
			vertices, vertexBytes := list.VertexBuffer()
			if gui.vbo.Grow(vertexBytes) {
				vertexSize, _, _, _ := imgui.VertexBufferLayout()
				gui.vao.BindBuffer(0, gui.vbo, 0, vertexSize)
			}
			gui.vbo.WriteRange(0, vertexBytes, vertices)

			indices, indexBytes := list.IndexBuffer()
			gui.ebo.Grow(indexBytes)
			gui.ebo.WriteRange(0, indexBytes, indices)

			for _, cmd := range list.Commands() {
				if cmd.HasUserCallback() {
					cmd.CallUserCallback(list)
					continue
				}
				tex, ok := gui.textures[cmd.TextureID()]
				if !ok {
					return fmt.Errorf("unknown imgui texture %d", cmd.TextureID())
				}
				props := guiProps{
					proj:    proj,
					texture: tex,
					clip:    clipRect(cmd.ClipRect(), fbHeight),
				}
				geo := gui.vao.Range(cmd.IndexOffset(), cmd.ElementCount())
				if err := draw(geo, props); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// clipRect converts an imgui clip rectangle (x0, y0, x1, y1 from the top left)
// to a scissor rectangle with its origin in the lower left corner.
func clipRect(clip imgui.Vec4, fbHeight int) render.Rect {
	x, y := int(clip.X), fbHeight-int(clip.W)
	w, h := int(clip.Z-clip.X), int(clip.W-clip.Y)
	if y < 0 {
		h += y
		y = 0
	}
	return render.Rect{X: x, Y: y, Width: max(w, 0), Height: max(h, 0)}
}

func (gui *Gui) Delete() {
	gui.cmd.Delete()
	gui.vao.Delete()
	gui.vbo.Delete()
	gui.ebo.Delete()
	gui.font.Delete()
	gui.context.Destroy()
}
