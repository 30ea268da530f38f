package libgl

import (
	"image"
	"math/bits"

	"retained-gl/render"

	"github.com/disintegration/imaging"
	"github.com/go-gl/gl/v4.5-core/gl"
	"golang.org/x/image/draw"
)

// Texture is an immutable-storage texture. It implements render.Texture.
type Texture struct {
	glId          uint32
	target        render.TextureTarget
	width, height int
}

// NewTexture2D allocates levels mip levels of width by height texels.
func NewTexture2D(width, height int, internalFormat uint32, levels int) *Texture {
	var id uint32
	gl.CreateTextures(gl.TEXTURE_2D, 1, &id)
	gl.TextureStorage2D(id, int32(levels), internalFormat, int32(width), int32(height))
	tex := &Texture{
		glId:   id,
		target: render.Texture2D,
		width:  width,
		height: height,
	}
	tex.SetFilter(gl.LINEAR, gl.LINEAR)
	tex.SetWrap(gl.CLAMP_TO_EDGE)
	return tex
}

// NewTextureFromImage uploads img as an sRGB texture with a full mip chain.
// Images larger than maxSize on either side are scaled down first.
func NewTextureFromImage(img image.Image, maxSize int) *Texture {
	// image rows start at the top, texture rows at the bottom
	pixels := imaging.FlipV(img)

	b := pixels.Bounds()
	if maxSize > 0 && (b.Dx() > maxSize || b.Dy() > maxSize) {
		w, h := fitSize(b.Dx(), b.Dy(), maxSize)
		scaled := image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), pixels, b, draw.Src, nil)
		pixels = scaled
		b = scaled.Bounds()
	}

	levels := bits.Len(uint(max(b.Dx(), b.Dy())))
	tex := NewTexture2D(b.Dx(), b.Dy(), gl.SRGB8_ALPHA8, levels)
	tex.Upload(0, 0, b.Dx(), b.Dy(), gl.RGBA, gl.UNSIGNED_BYTE, pixels.Pix)
	gl.GenerateTextureMipmap(tex.glId)
	tex.SetFilter(gl.LINEAR_MIPMAP_LINEAR, gl.LINEAR)
	return tex
}

func fitSize(width, height, maxSize int) (int, int) {
	if width >= height {
		return maxSize, max(1, height*maxSize/width)
	}
	return max(1, width*maxSize/height), maxSize
}

func (tex *Texture) Handle() render.Handle {
	return render.Handle(tex.glId)
}

func (tex *Texture) Target() render.TextureTarget {
	return tex.target
}

func (tex *Texture) Width() int {
	return tex.width
}

func (tex *Texture) Height() int {
	return tex.height
}

func (tex *Texture) SetDebugLabel(label string) {
	setObjectLabel(gl.TEXTURE, tex.glId, label)
}

// Upload writes a region of level 0. format and dataType describe data, e.g.
// gl.RGBA and gl.UNSIGNED_BYTE.
func (tex *Texture) Upload(x, y, width, height int, format, dataType uint32, data any) {
	gl.TextureSubImage2D(tex.glId, 0, int32(x), int32(y), int32(width), int32(height), format, dataType, Pointer(data))
}

func (tex *Texture) SetFilter(min, mag int32) {
	gl.TextureParameteri(tex.glId, gl.TEXTURE_MIN_FILTER, min)
	gl.TextureParameteri(tex.glId, gl.TEXTURE_MAG_FILTER, mag)
}

func (tex *Texture) SetWrap(mode int32) {
	gl.TextureParameteri(tex.glId, gl.TEXTURE_WRAP_S, mode)
	gl.TextureParameteri(tex.glId, gl.TEXTURE_WRAP_T, mode)
}

func (tex *Texture) Delete() {
	gl.DeleteTextures(1, &tex.glId)
	tex.glId = 0
}
