package iso

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// annotate draws a single legend line onto the image with the fixed
// 7x13 bitmap face, in a color readable on the current background.
func annotate(img *image.RGBA, f Frame) {
	legend := fmt.Sprintf("%s  [%g .. %g]", f.Label, f.MinValue, f.MaxValue)
	if f.Label == "" {
		legend = fmt.Sprintf("[%g .. %g]", f.MinValue, f.MaxValue)
	}

	ink := RGB(32, 32, 32)
	if f.DarkMode {
		ink = RGB(224, 224, 224)
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(ink),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(8, img.Bounds().Dy()-8),
	}
	d.DrawString(legend)
}

// SnapshotPNG renders the framebuffer to a PNG with the frame's metric
// label and display range printed in the bottom-left corner.
func SnapshotPNG(path string, fb *Framebuffer, f Frame) error {
	img := fb.ToImage()
	annotate(img, f)

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}
