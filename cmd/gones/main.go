// Command gones is a desktop frontend for the console package: an
// Ebitengine window blitting each completed frame, keyboard input
// mapped to controller 1, and an audio player draining the APU's
// ring buffer.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/halstead/gones/console"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
)

const (
	screenWidth  = 256
	screenHeight = 240
	sampleRate   = 44100
)

var (
	romFile = flag.String("rom", "", "path to an iNES ROM file")
	scale   = flag.Int("scale", 3, "integer window scale factor")
)

func main() {
	flag.Parse()
	if *romFile == "" {
		fmt.Fprintln(os.Stderr, "usage: gones -rom path/to/game.nes")
		os.Exit(2)
	}

	data, err := os.ReadFile(*romFile)
	if err != nil {
		log.Fatalf("gones: reading ROM: %v", err)
	}

	c, err := console.New(data, sampleRate)
	if err != nil {
		log.Fatalf("gones: loading ROM: %v", err)
	}

	audioCtx := audio.NewContext(sampleRate)
	player, err := audio.NewPlayer(audioCtx, &audioStream{console: c})
	if err != nil {
		log.Fatalf("gones: creating audio player: %v", err)
	}
	player.Play()

	game := &game{console: c}

	s := *scale
	ebiten.SetWindowSize(screenWidth*s, screenHeight*s)
	ebiten.SetWindowTitle("gones")
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}

type game struct {
	console *console.Console
	frame   [screenWidth * screenHeight * 4]byte
	img     *ebiten.Image
}

func (g *game) Update() error {
	g.console.SetJoypad1(pollButtons())
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.img == nil {
		g.img = ebiten.NewImage(screenWidth, screenHeight)
	}

	var rgb [screenWidth * screenHeight * 3]byte
	g.console.NextFrame(rgb[:])
	for i := 0; i < screenWidth*screenHeight; i++ {
		g.frame[i*4] = rgb[i*3]
		g.frame[i*4+1] = rgb[i*3+1]
		g.frame[i*4+2] = rgb[i*3+2]
		g.frame[i*4+3] = 0xFF
	}
	g.img.WritePixels(g.frame[:])
	screen.DrawImage(g.img, imageDrawOptions())
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func imageDrawOptions() *ebiten.DrawImageOptions {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(*scale), float64(*scale))
	return op
}

func pollButtons() uint8 {
	var mask uint8
	press := func(key ebiten.Key, bit uint8) {
		if ebiten.IsKeyPressed(key) {
			mask |= bit
		}
	}
	press(ebiten.KeyZ, console.ButtonA)
	press(ebiten.KeyX, console.ButtonB)
	press(ebiten.KeyShiftRight, console.ButtonSelect)
	press(ebiten.KeyEnter, console.ButtonStart)
	press(ebiten.KeyUp, console.ButtonUp)
	press(ebiten.KeyDown, console.ButtonDown)
	press(ebiten.KeyLeft, console.ButtonLeft)
	press(ebiten.KeyRight, console.ButtonRight)
	return mask
}

// audioStream adapts the console's float32 sample ring buffer to the
// io.Reader interface ebiten/audio expects: signed 16-bit stereo PCM.
type audioStream struct {
	console *console.Console
}

func (s *audioStream) Read(p []byte) (int, error) {
	frames := len(p) / 4
	samples := make([]float32, frames)
	n := s.console.FillAudio(samples)
	for i := 0; i < n; i++ {
		v := int16(samples[i] * 32767)
		p[i*4] = byte(v)
		p[i*4+1] = byte(v >> 8)
		p[i*4+2] = byte(v)
		p[i*4+3] = byte(v >> 8)
	}
	for i := n; i < frames; i++ {
		p[i*4], p[i*4+1], p[i*4+2], p[i*4+3] = 0, 0, 0, 0
	}
	return frames * 4, nil
}
