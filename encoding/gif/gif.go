// Package gif renders replays of games as animated GIFs, one frame per position.
package gif

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"math"
	"strings"

	"github.com/golang/freetype/truetype"
	"github.com/gorgonia/boardgame/board"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"
)

var regular *truetype.Font

const (
	dpi             = 144.0
	fontsize        = 12.0
	lineheight      = 1.2
	dummyLongString = `Ply 1000, A to move`

	// delays in 100ths of a second
	moveDelay  = 50
	finalDelay = 300
)

func init() {
	var err error
	if regular, err = truetype.Parse(gomono.TTF); err != nil {
		panic(err)
	}
}

var globPalette = color.Palette{
	color.Gray{0},
	color.Gray{253},
}

// Frame is a position to be drawn. Every board.Board is a Frame.
type Frame interface {
	NextPlayer() board.Player
	Outcome() (board.Outcome, bool)
	String() string
}

// Encoder accumulates frames and writes them as a single looping GIF on Flush.
type Encoder struct {
	H, W  int
	Title string
	font.Drawer

	out *gif.GIF
	w   io.Writer

	maxH, maxW  int // maxHeight and maxWidth
	padH, padW  int // padding so nothing starts at the top left
	initialized bool
}

// NewEncoder creates an encoder writing to w. Frames are at most h by wd pixels.
func NewEncoder(w io.Writer, h, wd int, title string) *Encoder {
	return &Encoder{
		H:     -1,
		W:     -1,
		Title: title,
		maxH:  h,
		maxW:  wd,
		padH:  10,
		padW:  10,

		Drawer: font.Drawer{
			Src: image.Black,
		},
		out: &gif.GIF{LoopCount: 0},
		w:   w,
	}
}

// Len returns the number of frames encoded so far.
func (enc *Encoder) Len() int { return len(enc.out.Image) }

func (enc *Encoder) init(repr string) {
	enc.Face = truetype.NewFace(regular, &truetype.Options{
		Size:    fontsize,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})

	// size the frame by the first board, which is as large as any later one
	splits := strings.Split(strings.TrimRight(repr, "\n"), "\n")
	maxW := font.MeasureString(enc.Face, dummyLongString).Ceil()
	for _, line := range append(splits, enc.Title) {
		maxW = max(maxW, font.MeasureString(enc.Face, line).Ceil())
	}
	dy := lineHeight()
	w := maxW + 2*enc.padW
	h := (len(splits)+3)*dy + 2*enc.padH // title, ply and result lines

	w = min(w, enc.maxW)
	h = min(h, enc.maxH)
	if w == enc.maxW {
		enc.padW = 0
	}
	if h == enc.maxH {
		enc.padH = 0
	}
	enc.H, enc.W = h, w
	enc.initialized = true
}

func lineHeight() int { return int(math.Ceil(fontsize * lineheight * dpi / 72)) }

// Encode adds a frame for f, the position after ply plies.
func (enc *Encoder) Encode(f Frame, ply int) error {
	repr := f.String()
	if !enc.initialized {
		enc.init(repr)
	}

	im := image.NewPaletted(image.Rect(0, 0, enc.W, enc.H), globPalette)
	draw.Draw(im, im.Bounds(), image.White, image.Point{}, draw.Src)
	enc.Dst = im

	dy := lineHeight()
	y := enc.padH + dy
	line := func(s string) {
		enc.Dot = fixed.P(enc.padW, y)
		enc.DrawString(s)
		y += dy
	}

	for _, s := range strings.Split(strings.TrimRight(repr, "\n"), "\n") {
		line(s)
	}
	line(enc.Title)

	delay := moveDelay
	if o, done := f.Outcome(); done {
		delay = finalDelay
		line(fmt.Sprintf("Ply %d, game over", ply))
		if winner, ok := o.Winner(); ok {
			line(fmt.Sprintf("Winner: %v", winner))
		} else {
			line("Draw")
		}
	} else {
		line(fmt.Sprintf("Ply %d, %v to move", ply, f.NextPlayer()))
	}

	enc.out.Image = append(enc.out.Image, im)
	enc.out.Delay = append(enc.out.Delay, delay)
	return nil
}

// Flush writes the GIF.
func (enc *Encoder) Flush() error {
	if len(enc.out.Image) == 0 {
		return errors.New("No frames to encode")
	}
	return errors.Wrap(gif.EncodeAll(enc.w, enc.out), "Unable to encode GIF")
}
