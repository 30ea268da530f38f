package libgl

import (
	"strings"

	"github.com/go-gl/gl/v4.5-core/gl"
)

const (
	VendorIntel   = "intel"
	VendorNvidia  = "nvidia"
	VendorAmd     = "ati"
	VendorUnknown = "unknown"
)

// Environment describes the driver of the current context.
type Environment struct {
	Vendor   string
	Renderer string
	Version  string
	// ProgramBinaryFormats is zero when the driver cannot export program
	// binaries, which disables the program cache.
	ProgramBinaryFormats int32
}

func GetEnvironment() *Environment {
	vendor := strings.ToLower(gl.GoStr(gl.GetString(gl.VENDOR)))
	switch {
	case strings.Contains(vendor, "intel"):
		vendor = VendorIntel
	case strings.Contains(vendor, "nvidia"):
		vendor = VendorNvidia
	case strings.Contains(vendor, "ati "), strings.Contains(vendor, "amd"):
		vendor = VendorAmd
	default:
		vendor = VendorUnknown
	}

	env := &Environment{
		Vendor:   vendor,
		Renderer: gl.GoStr(gl.GetString(gl.RENDERER)),
		Version:  gl.GoStr(gl.GetString(gl.VERSION)),
	}
	gl.GetIntegerv(gl.NUM_PROGRAM_BINARY_FORMATS, &env.ProgramBinaryFormats)
	return env
}

// Driver identifies the exact driver build. Program binaries are only valid
// for the driver that produced them.
func (env *Environment) Driver() string {
	return env.Vendor + "/" + env.Renderer + "/" + env.Version
}
