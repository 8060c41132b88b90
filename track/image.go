package track

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/segment"
)

// LoadImage reads a track bitmap and thresholds it into a wall mask. Pixels
// darker than threshold are walls unless wallsLight is set.
func LoadImage(name, path string, threshold uint8, wallsLight bool) (*Track, error) {
	img, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening track image: %w", err)
	}
	return FromImage(name, img, threshold, wallsLight), nil
}

// FromImage thresholds an in-memory image into a track of the same size.
func FromImage(name string, img image.Image, threshold uint8, wallsLight bool) *Track {
	gray := segment.Threshold(img, threshold)
	b := gray.Bounds()

	t := New(name, b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			light := gray.GrayAt(b.Min.X+x, b.Min.Y+y).Y > 0
			t.walls[y*t.Width+x] = light == wallsLight
		}
	}
	return t
}
