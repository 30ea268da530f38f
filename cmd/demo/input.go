package main

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// Input samples the keyboard, mouse and clock once per frame so that taps
// can be told apart from held keys.
type Input struct {
	curr, prev inputFrame
}

type inputFrame struct {
	time    float32
	cursor  mgl32.Vec2
	keys    []bool
	buttons []bool
}

func newInputFrame() inputFrame {
	return inputFrame{
		keys:    make([]bool, glfw.KeyLast+1),
		buttons: make([]bool, glfw.MouseButtonLast+1),
	}
}

func NewInput(win *glfw.Window) *Input {
	in := &Input{curr: newInputFrame(), prev: newInputFrame()}
	in.Update(win)
	in.prev.cursor = in.curr.cursor
	// keep the first time delta non-zero
	in.prev.time = in.curr.time - 1./60.
	copy(in.prev.keys, in.curr.keys)
	copy(in.prev.buttons, in.curr.buttons)
	return in
}

func (in *Input) Update(win *glfw.Window) {
	// the previous frame's slices are reused for the new frame
	keys, buttons := in.prev.keys, in.prev.buttons
	in.prev = in.curr

	for key := glfw.KeySpace; key <= glfw.KeyLast; key++ {
		keys[key] = win.GetKey(key) != glfw.Release
	}
	for button := glfw.MouseButton1; button <= glfw.MouseButtonLast; button++ {
		buttons[button] = win.GetMouseButton(button) != glfw.Release
	}

	x, y := win.GetCursorPos()
	in.curr = inputFrame{
		time:    float32(glfw.GetTime()),
		cursor:  mgl32.Vec2{float32(x), float32(y)},
		keys:    keys,
		buttons: buttons,
	}
}

func (in *Input) Time() float32 {
	return in.curr.time
}

func (in *Input) TimeDelta() float32 {
	return in.curr.time - in.prev.time
}

func (in *Input) CursorDelta() mgl32.Vec2 {
	return in.curr.cursor.Sub(in.prev.cursor)
}

func (in *Input) IsKeyDown(key glfw.Key) bool {
	return in.curr.keys[key]
}

func (in *Input) IsKeyTap(key glfw.Key) bool {
	return in.curr.keys[key] && !in.prev.keys[key]
}

func (in *Input) IsMouseDown(button glfw.MouseButton) bool {
	return in.curr.buttons[button]
}

// Movement returns a camera-space direction from WASD, space and shift.
func (in *Input) Movement() mgl32.Vec3 {
	var v mgl32.Vec3
	axis := func(i int, neg, pos glfw.Key) {
		if in.IsKeyDown(neg) {
			v[i]--
		}
		if in.IsKeyDown(pos) {
			v[i]++
		}
	}
	axis(0, glfw.KeyA, glfw.KeyD)
	axis(1, glfw.KeyLeftShift, glfw.KeySpace)
	axis(2, glfw.KeyW, glfw.KeyS)
	return v
}
