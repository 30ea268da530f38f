package main

import (
	"retained-gl/libutil"

	"github.com/go-gl/mathgl/mgl32"
)

type Camera struct {
	Position mgl32.Vec3
	// pitch, yaw, roll in degrees
	Orientation mgl32.Vec3
	// in degrees
	VerticalFov    float32
	Aspect         float32
	ClippingPlanes mgl32.Vec2
}

func (cam *Camera) Quaternion() mgl32.Quat {
	o := cam.Orientation.Mul(libutil.Deg2Rad)
	return mgl32.AnglesToQuat(o[0], o[1], o[2], mgl32.XYZ)
}

func (cam *Camera) ViewMatrix() mgl32.Mat4 {
	t := mgl32.Translate3D(-cam.Position[0], -cam.Position[1], -cam.Position[2])
	return cam.Quaternion().Mat4().Mul4(t)
}

func (cam *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(cam.VerticalFov*libutil.Deg2Rad, cam.Aspect, cam.ClippingPlanes[0], cam.ClippingPlanes[1])
}

func (cam *Camera) ViewProjection() mgl32.Mat4 {
	return cam.ProjectionMatrix().Mul4(cam.ViewMatrix())
}

// Fly moves the camera along its own axes.
func (cam *Camera) Fly(v mgl32.Vec3) {
	cam.Position = cam.Position.Add(cam.Quaternion().Conjugate().Rotate(v))
}

// Look turns the camera by a cursor delta in pixels.
func (cam *Camera) Look(delta mgl32.Vec2, sensitivity float32) {
	cam.Orientation[0] += delta.Y() * sensitivity
	cam.Orientation[1] += delta.X() * sensitivity
	cam.Orientation[0] = mgl32.Clamp(cam.Orientation[0], -89, 89)
	cam.Orientation[1] = libutil.Wrap(cam.Orientation[1], 360)
}
