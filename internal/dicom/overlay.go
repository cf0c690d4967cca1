package dicom

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// drawLabel burns text into a grayscale frame, centered, scaled up to fill
// most of the frame width. Text pixels are set to maxValue on a black
// outline so the label reads on any background.
func drawLabel(pixels []uint16, width, height int, text string, maxValue uint16) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid dimensions: %dx%d", width, height)
	}
	if len(pixels) != width*height {
		return fmt.Errorf("pixel slice length %d does not match dimensions %dx%d", len(pixels), width, height)
	}
	if text == "" {
		return nil
	}

	face := basicfont.Face7x13
	baseWidth := font.MeasureString(face, text).Ceil()
	baseHeight := face.Metrics().Height.Ceil()

	textImg := image.NewAlpha(image.Rect(0, 0, baseWidth, baseHeight))
	drawer := &font.Drawer{
		Dst:  textImg,
		Src:  image.NewUniform(color.Alpha{A: 255}),
		Face: face,
		Dot:  fixed.Point26_6{Y: face.Metrics().Ascent},
	}
	drawer.DrawString(text)

	scale := (width * 9 / 10) / baseWidth
	if scale < 1 {
		scale = 1
	}
	scaledWidth, scaledHeight := baseWidth*scale, baseHeight*scale
	scaled := image.NewAlpha(image.Rect(0, 0, scaledWidth, scaledHeight))
	draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), textImg, textImg.Bounds(), draw.Src, nil)

	x0 := (width - scaledWidth) / 2
	y0 := (height - scaledHeight) / 2
	outline := max(1, scale/2)

	set := func(x, y int, v uint16) {
		if x >= 0 && x < width && y >= 0 && y < height {
			pixels[y*width+x] = v
		}
	}

	for sy := 0; sy < scaledHeight; sy++ {
		for sx := 0; sx < scaledWidth; sx++ {
			if scaled.AlphaAt(sx, sy).A == 0 {
				continue
			}
			for dy := -outline; dy <= outline; dy++ {
				for dx := -outline; dx <= outline; dx++ {
					set(x0+sx+dx, y0+sy+dy, 0)
				}
			}
		}
	}
	for sy := 0; sy < scaledHeight; sy++ {
		for sx := 0; sx < scaledWidth; sx++ {
			if scaled.AlphaAt(sx, sy).A > 0 {
				set(x0+sx, y0+sy, maxValue)
			}
		}
	}
	return nil
}
