package main

import (
	"image"
	"image/color"
	"log"
	"log/slog"
	"os"
	"runtime"

	"retained-gl/libgl"
	"retained-gl/render"

	"github.com/disintegration/imaging"
	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	im "github.com/inkyblackness/imgui-go/v4"
)

func main() {
	cfg, err := ParseArguments(os.Args[1:])
	check(err)

	var level slog.Level
	check(level.UnmarshalText([]byte(cfg.LogLevel)))
	render.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	runtime.LockOSThread()
	check(glfw.Init())
	defer glfw.Terminate()

	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 5)
	glfw.WindowHint(glfw.OpenGLDebugContext, glfw.True)
	if Arguments.EnableCompatibilityProfile {
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCompatProfile)
	} else {
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	}
	win, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	check(err)
	win.MakeContextCurrent()
	if cfg.Window.Vsync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	check(gl.Init())

	opts := []libgl.Option{libgl.WithBufferSize(win.GetFramebufferSize)}
	if cfg.ProgramCache != "" {
		opts = append(opts, libgl.WithProgramCache(cfg.ProgramCache))
	}
	if cfg.DebugOutput {
		opts = append(opts, libgl.WithDebugOutput())
	}
	dev := render.NewDevice(libgl.NewContext(opts...))

	img, err := loadImage(cfg.Texture)
	check(err)
	tex := libgl.NewTextureFromImage(img, 1024)
	tex.SetDebugLabel("quad")
	defer tex.Delete()

	scene, err := NewScene(dev, tex, cfg.Instances)
	check(err)
	defer scene.Delete()

	post, err := NewPostPass(dev)
	check(err)
	defer post.Delete()

	gui, err := NewGui(dev, win)
	check(err)
	defer gui.Delete()

	offscreen := newOffscreen(dev, cfg.RenderScale)
	defer offscreen.Delete()

	input := NewInput(win)
	cam := &Camera{
		Position:       mgl32.Vec3{0, 2, 8},
		Orientation:    mgl32.Vec3{10, 0, 0},
		VerticalFov:    70,
		ClippingPlanes: mgl32.Vec2{0.1, 100},
	}

	exposure, vignette := float32(1), float32(0.8)
	showPreview := true
	instances := int32(cfg.Instances)
	depth := 1.0

	for !win.ShouldClose() {
		glfw.PollEvents()
		input.Update(win)

		if input.IsKeyTap(glfw.KeyEscape) {
			win.SetShouldClose(true)
		}
		if !gui.WantsInput() {
			cam.Fly(input.Movement().Mul(5 * input.TimeDelta()))
			if input.IsMouseDown(glfw.MouseButtonRight) {
				cam.Look(input.CursorDelta(), 0.15)
			}
		}

		fbWidth, fbHeight := win.GetFramebufferSize()
		if fbWidth == 0 || fbHeight == 0 {
			// minimized
			win.SwapBuffers()
			continue
		}
		gui.NewFrame()
		check(offscreen.Resize(fbWidth, fbHeight))
		cam.Aspect = float32(fbWidth) / float32(fbHeight)

		im.Begin("Scene")
		im.Text(dev.Backbuffer().String())
		if im.SliderInt("Instances", &instances, 0, 1024) {
			scene.SetInstanceCount(int(instances))
		}
		im.SliderFloat("Size", &scene.Size, 0.05, 1)
		im.SliderFloat("Speed", &scene.Speed, -2, 2)
		im.SliderFloat("Exposure", &exposure, 0.1, 4)
		im.SliderFloat("Vignette", &vignette, 0, 2)
		im.Checkbox("Preview", &showPreview)
		im.End()

		scene.Update(input.Time())

		err := offscreen.Target().With(func(rt *render.Target) error {
			err := rt.Clear(render.AllBits, render.ClearOptions{Color: &cfg.ClearColor, Depth: &depth})
			if err != nil {
				return err
			}
			return scene.Draw(rt, cam.ViewProjection())
		})
		check(err)

		check(post.Execute(postProps{
			scene:    offscreen.Color(),
			exposure: exposure,
			vignette: vignette,
		}))

		err = dev.Target(func(rt *render.Target) error {
			if showPreview {
				err := rt.Blit(offscreen.Framebuffer(), render.ColorBits, render.BlitOptions{
					X:      16,
					Y:      16,
					Width:  fbWidth / 4,
					Height: fbHeight / 4,
					Filter: render.FilterLinear,
				})
				if err != nil {
					return err
				}
			}
			return gui.Draw(rt)
		})
		check(err)

		win.SwapBuffers()
	}
}

// loadImage opens path or, if it is empty, generates a checker pattern.
func loadImage(path string) (image.Image, error) {
	if path != "" {
		return imaging.Open(path)
	}
	const size, cell = 256, 32
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			if (x/cell+y/cell)%2 == 0 {
				c = color.NRGBA{R: 96, G: 96, B: 96, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img, nil
}

func check(err error) {
	if err != nil {
		log.Panic(err)
	}
}
