package libutil

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	Rad2Deg = float32(180 / math32.Pi)
	Deg2Rad = float32(math32.Pi / 180)
)

// Hsl2rgb converts a hue, saturation, lightness triple in [0, 1] to RGB.
func Hsl2rgb(hsl mgl32.Vec3) mgl32.Vec3 {
	var q, p, r, g, b float32

	h, s, l := hsl[0], hsl[1], hsl[2]

	if s == 0 {
		r, g, b = l, l, l // achromatic
	} else {
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p = 2*l - q
		r = hue2rgb(p, q, h+1./3.)
		g = hue2rgb(p, q, h)
		b = hue2rgb(p, q, h-1./3.)
	}
	return mgl32.Vec3{r, g, b}
}

func hue2rgb(p, q, h float32) float32 {
	if h < 0 {
		h += 1
	} else if h > 1 {
		h -= 1
	}

	if 6*h < 1 {
		return p + ((q - p) * 6 * h)
	}
	if 2*h < 1 {
		return q
	}
	if 3*h < 2 {
		return p + ((q - p) * 6 * ((2. / 3.) - h))
	}

	return p
}

// Orbit returns the point at angle radians on a circle of radius in the xz
// plane.
func Orbit(angle, radius float32) mgl32.Vec3 {
	sin, cos := math32.Sincos(angle)
	return mgl32.Vec3{cos * radius, 0, sin * radius}
}

// Wrap maps v into [0, max).
func Wrap(v, max float32) float32 {
	v = math32.Mod(v, max)
	if v < 0 {
		v += max
	}
	return v
}
