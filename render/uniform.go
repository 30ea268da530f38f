package render

import (
	"log"

	"github.com/go-gl/mathgl/mgl32"
)

type UniformKind int

const (
	UniformFloat UniformKind = iota + 1
	UniformVec2
	UniformVec3
	UniformVec4
	UniformInt
	UniformIVec2
	UniformIVec3
	UniformIVec4
	UniformUint
	UniformUVec2
	UniformUVec3
	UniformUVec4
	UniformFloatArray
	UniformIntArray
	UniformUintArray
	UniformMat2
	UniformMat3
	UniformMat4
	UniformMat4Array
	UniformTexture
)

func (k UniformKind) String() string {
	switch k {
	case UniformFloat:
		return "float"
	case UniformVec2:
		return "vec2"
	case UniformVec3:
		return "vec3"
	case UniformVec4:
		return "vec4"
	case UniformInt:
		return "int"
	case UniformIVec2:
		return "ivec2"
	case UniformIVec3:
		return "ivec3"
	case UniformIVec4:
		return "ivec4"
	case UniformUint:
		return "uint"
	case UniformUVec2:
		return "uvec2"
	case UniformUVec3:
		return "uvec3"
	case UniformUVec4:
		return "uvec4"
	case UniformFloatArray:
		return "float[]"
	case UniformIntArray:
		return "int[]"
	case UniformUintArray:
		return "uint[]"
	case UniformMat2:
		return "mat2"
	case UniformMat3:
		return "mat3"
	case UniformMat4:
		return "mat4"
	case UniformMat4Array:
		return "mat4[]"
	case UniformTexture:
		return "sampler"
	}
	return "unknown"
}

// Uniform is the definition of one uniform binding of a command. Create
// uniforms with the constructors in this file.
type Uniform[P any] interface {
	Kind() UniformKind
	// apply resolves the value of uniform id for one draw and writes it to
	// loc. Texture uniforms take the next free texture unit from units.
	apply(ctx Context, id string, loc Location, props P, index int, units *int) error
}

type uniform[P, R any] struct {
	kind  UniformKind
	value Access[P, R]
	set   func(ctx Context, loc Location, v R)
}

func (u *uniform[P, R]) Kind() UniformKind {
	return u.kind
}

func (u *uniform[P, R]) apply(ctx Context, id string, loc Location, props P, index int, units *int) error {
	v, err := u.value.Resolve(props, index)
	if err != nil {
		return err
	}
	u.set(ctx, loc, v)
	return nil
}

func newUniform[P, R any](kind UniformKind, value Access[P, R], set func(ctx Context, loc Location, v R)) Uniform[P] {
	if !value.IsSet() {
		log.Panicf("%v uniform without a value", kind)
	}
	return &uniform[P, R]{kind: kind, value: value, set: set}
}

func Float[P any](value Access[P, float32]) Uniform[P] {
	return newUniform(UniformFloat, value, func(ctx Context, loc Location, v float32) {
		ctx.Uniform1fv(loc, []float32{v})
	})
}

func Vec2[P any](value Access[P, mgl32.Vec2]) Uniform[P] {
	return newUniform(UniformVec2, value, func(ctx Context, loc Location, v mgl32.Vec2) {
		ctx.Uniform2fv(loc, v[:])
	})
}

func Vec3[P any](value Access[P, mgl32.Vec3]) Uniform[P] {
	return newUniform(UniformVec3, value, func(ctx Context, loc Location, v mgl32.Vec3) {
		ctx.Uniform3fv(loc, v[:])
	})
}

func Vec4[P any](value Access[P, mgl32.Vec4]) Uniform[P] {
	return newUniform(UniformVec4, value, func(ctx Context, loc Location, v mgl32.Vec4) {
		ctx.Uniform4fv(loc, v[:])
	})
}

func Int[P any](value Access[P, int32]) Uniform[P] {
	return newUniform(UniformInt, value, func(ctx Context, loc Location, v int32) {
		ctx.Uniform1iv(loc, []int32{v})
	})
}

func IVec2[P any](value Access[P, [2]int32]) Uniform[P] {
	return newUniform(UniformIVec2, value, func(ctx Context, loc Location, v [2]int32) {
		ctx.Uniform2iv(loc, v[:])
	})
}

func IVec3[P any](value Access[P, [3]int32]) Uniform[P] {
	return newUniform(UniformIVec3, value, func(ctx Context, loc Location, v [3]int32) {
		ctx.Uniform3iv(loc, v[:])
	})
}

func IVec4[P any](value Access[P, [4]int32]) Uniform[P] {
	return newUniform(UniformIVec4, value, func(ctx Context, loc Location, v [4]int32) {
		ctx.Uniform4iv(loc, v[:])
	})
}

func Uint[P any](value Access[P, uint32]) Uniform[P] {
	return newUniform(UniformUint, value, func(ctx Context, loc Location, v uint32) {
		ctx.Uniform1uiv(loc, []uint32{v})
	})
}

func UVec2[P any](value Access[P, [2]uint32]) Uniform[P] {
	return newUniform(UniformUVec2, value, func(ctx Context, loc Location, v [2]uint32) {
		ctx.Uniform2uiv(loc, v[:])
	})
}

func UVec3[P any](value Access[P, [3]uint32]) Uniform[P] {
	return newUniform(UniformUVec3, value, func(ctx Context, loc Location, v [3]uint32) {
		ctx.Uniform3uiv(loc, v[:])
	})
}

func UVec4[P any](value Access[P, [4]uint32]) Uniform[P] {
	return newUniform(UniformUVec4, value, func(ctx Context, loc Location, v [4]uint32) {
		ctx.Uniform4uiv(loc, v[:])
	})
}

// FloatArray binds a float, vec2, vec3 or vec4 array, selected by
// components. The length of the value must be a multiple of components.
func FloatArray[P any](components int, value Access[P, []float32]) Uniform[P] {
	var set func(Context, Location, []float32)
	switch components {
	case 1:
		set = Context.Uniform1fv
	case 2:
		set = Context.Uniform2fv
	case 3:
		set = Context.Uniform3fv
	case 4:
		set = Context.Uniform4fv
	default:
		log.Panicf("invalid component count %d for float array uniform", components)
	}
	return newUniform(UniformFloatArray, value, set)
}

func IntArray[P any](components int, value Access[P, []int32]) Uniform[P] {
	var set func(Context, Location, []int32)
	switch components {
	case 1:
		set = Context.Uniform1iv
	case 2:
		set = Context.Uniform2iv
	case 3:
		set = Context.Uniform3iv
	case 4:
		set = Context.Uniform4iv
	default:
		log.Panicf("invalid component count %d for int array uniform", components)
	}
	return newUniform(UniformIntArray, value, set)
}

func UintArray[P any](components int, value Access[P, []uint32]) Uniform[P] {
	var set func(Context, Location, []uint32)
	switch components {
	case 1:
		set = Context.Uniform1uiv
	case 2:
		set = Context.Uniform2uiv
	case 3:
		set = Context.Uniform3uiv
	case 4:
		set = Context.Uniform4uiv
	default:
		log.Panicf("invalid component count %d for uint array uniform", components)
	}
	return newUniform(UniformUintArray, value, set)
}

func Mat2[P any](value Access[P, mgl32.Mat2]) Uniform[P] {
	return newUniform(UniformMat2, value, func(ctx Context, loc Location, v mgl32.Mat2) {
		ctx.UniformMatrix2fv(loc, v[:])
	})
}

func Mat3[P any](value Access[P, mgl32.Mat3]) Uniform[P] {
	return newUniform(UniformMat3, value, func(ctx Context, loc Location, v mgl32.Mat3) {
		ctx.UniformMatrix3fv(loc, v[:])
	})
}

func Mat4[P any](value Access[P, mgl32.Mat4]) Uniform[P] {
	return newUniform(UniformMat4, value, func(ctx Context, loc Location, v mgl32.Mat4) {
		ctx.UniformMatrix4fv(loc, v[:])
	})
}

func Mat4Array[P any](value Access[P, []mgl32.Mat4]) Uniform[P] {
	return newUniform(UniformMat4Array, value, func(ctx Context, loc Location, v []mgl32.Mat4) {
		flat := make([]float32, 0, len(v)*16)
		for _, m := range v {
			flat = append(flat, m[:]...)
		}
		ctx.UniformMatrix4fv(loc, flat)
	})
}

type textureUniform[P any] struct {
	value Access[P, Texture]
}

// TextureSampler binds a sampler uniform. Texture units are handed out in uniform
// order starting at 0 for every draw.
func TextureSampler[P any](value Access[P, Texture]) Uniform[P] {
	if !value.IsSet() {
		log.Panicf("%v uniform without a value", UniformTexture)
	}
	return &textureUniform[P]{value: value}
}

func (u *textureUniform[P]) Kind() UniformKind {
	return UniformTexture
}

func (u *textureUniform[P]) apply(ctx Context, id string, loc Location, props P, index int, units *int) error {
	tex, err := u.value.Resolve(props, index)
	if err != nil {
		return err
	}
	if tex == nil {
		return &BindingError{Op: "draw", Expected: "texture for " + id, Err: ErrNoTexture}
	}
	unit := *units
	*units++

	ctx.ActiveTexture(unit)
	ctx.BindTexture(tex.Target(), tex.Handle())
	ctx.Uniform1iv(loc, []int32{int32(unit)})
	return nil
}
