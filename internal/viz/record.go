package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"
	"os"

	"github.com/san-kum/cellsim/internal/grid"
)

var recordPalette = color.Palette{
	color.RGBA{0x0a, 0x0a, 0x0a, 0xff},
	color.RGBA{0x00, 0xff, 0x00, 0xff},
	color.RGBA{0xff, 0x00, 0xff, 0xff},
}

const (
	paletteDead = iota
	paletteAlive
	paletteSelfish
)

// Recorder collects generations as GIF frames.
type Recorder struct {
	scale  int
	delay  int
	frames []*image.Paletted
}

// NewRecorder draws each cell as a scale x scale block; delay is per frame
// in hundredths of a second.
func NewRecorder(scale, delay int) *Recorder {
	if scale < 1 {
		scale = 1
	}
	if delay < 1 {
		delay = 2
	}
	return &Recorder{scale: scale, delay: delay}
}

func (r *Recorder) Capture(g *grid.Grid) {
	img := image.NewPaletted(image.Rect(0, 0, g.Cols()*r.scale, g.Rows()*r.scale), recordPalette)
	g.Each(func(row, col int) {
		idx := uint8(paletteAlive)
		if g.Selfish(row, col) {
			idx = paletteSelfish
		}
		for py := 0; py < r.scale; py++ {
			for px := 0; px < r.scale; px++ {
				img.SetColorIndex(col*r.scale+px, row*r.scale+py, idx)
			}
		}
	})
	r.frames = append(r.frames, img)
}

func (r *Recorder) Len() int { return len(r.frames) }

func (r *Recorder) Reset() { r.frames = nil }

func (r *Recorder) Encode(w io.Writer) error {
	if len(r.frames) == 0 {
		return fmt.Errorf("no frames recorded")
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, r.delay)
	}
	return gif.EncodeAll(w, &anim)
}

func (r *Recorder) Save(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()
	if err := r.Encode(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
