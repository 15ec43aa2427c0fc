package img2chars

import (
	"github.com/disintegration/gift"

	"github.com/charpaint/img2chars/imageutil"
)

// resampling maps a Scaling value onto its gift kernel.
func (s Scaling) resampling() gift.Resampling {
	switch s {
	case ScalingNearest:
		return gift.NearestNeighborResampling
	case ScalingBilinear:
		return gift.LinearResampling
	case ScalingBicubic:
		return gift.CubicResampling
	case ScalingLanczos:
		return gift.LanczosResampling
	default:
		return gift.LanczosResampling
	}
}

// resampleWidth resizes src to the given width, leaving the height
// untouched. This is a pure width reduction; vertical condensation happens
// later in the row loop, not here.
func resampleWidth(src PixelSource, width int, scaling Scaling) *imageutil.RGBAImage {
	img := toRGBA(src)
	if width == img.Width() && scaling == ScalingNearest {
		return img
	}

	g := gift.New(gift.Resize(width, img.Height(), scaling.resampling()))
	dst := imageutil.NewRGBAImage(width, img.Height())
	g.Draw(dst.RGBA, img.RGBA)
	return dst
}

// toRGBA materializes an arbitrary pixel source as an RGBA image so the
// resampling filter can operate on it. Sources that already are RGBA
// images pass through without copying.
func toRGBA(src PixelSource) *imageutil.RGBAImage {
	if img, ok := src.(*imageutil.RGBAImage); ok {
		return img
	}

	img := imageutil.NewRGBAImage(src.Width(), src.Height())
	for y := 0; y < src.Height(); y++ {
		for x := 0; x < src.Width(); x++ {
			img.SetRGB(x, y, src.GetRGB(x, y))
		}
	}
	return img
}
