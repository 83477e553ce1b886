// Command gbcore is a thin reference host: it loads a ROM, runs the core
// on its own goroutine at the real hardware rate, and blits completed
// frames through an Ebiten window.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/mkaminski/gbcore/internal/corelog"
	"github.com/mkaminski/gbcore/internal/gameboy"
	"github.com/mkaminski/gbcore/internal/joypad"
	"github.com/mkaminski/gbcore/internal/ppu"
	"github.com/mkaminski/gbcore/pkg/host"
)

// dotsPerSecond is the DMG system clock: 4194304 Hz.
const dotsPerSecond = 4194304

func main() {
	romFile := flag.String("rom", "", "the ROM file to load")
	scale := flag.Int("scale", 4, "window scale factor")
	verbose := flag.Bool("v", false, "log soft-fault bus access at debug level")
	flag.Parse()

	rom, err := os.ReadFile(*romFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "gbcore:", err)
		os.Exit(1)
	}

	log := corelog.New()
	if !*verbose {
		log = corelog.NewNull()
	}

	gb, err := gameboy.New(rom, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "gbcore:", err)
		os.Exit(1)
	}

	hs := host.New()
	go runCore(gb, hs)

	hdr := gb.CartridgeHeader()
	ebiten.SetWindowTitle("gbcore - " + hdr.Title)
	ebiten.SetWindowSize(ppu.ScreenWidth**scale, ppu.ScreenHeight**scale)

	app := &app{gb: gb, hs: hs}
	if err := ebiten.RunGame(app); err != nil {
		fmt.Fprintln(os.Stderr, "gbcore:", err)
		os.Exit(1)
	}
}

// runCore drives the core at its native rate and publishes each completed
// frame to hs, decoupling emulation pacing from Ebiten's render callback.
func runCore(gb *gameboy.GameBoy, hs *host.Handshake) {
	ticker := time.NewTicker(time.Second / dotsPerSecond)
	defer ticker.Stop()

	for range ticker.C {
		gb.Tick()
		if gb.FrameReady() {
			hs.Publish(gb.Framebuffer())
		}
	}
}

var keymap = map[ebiten.Key]joypad.Button{
	ebiten.KeyZ:          joypad.ButtonA,
	ebiten.KeyX:          joypad.ButtonB,
	ebiten.KeyBackspace:  joypad.ButtonSelect,
	ebiten.KeyEnter:      joypad.ButtonStart,
	ebiten.KeyArrowRight: joypad.ButtonRight,
	ebiten.KeyArrowLeft:  joypad.ButtonLeft,
	ebiten.KeyArrowUp:    joypad.ButtonUp,
	ebiten.KeyArrowDown:  joypad.ButtonDown,
}

// app implements ebiten.Game, pulling frames out of a Handshake rather
// than rendering the core synchronously inside Update.
type app struct {
	gb  *gameboy.GameBoy
	hs  *host.Handshake
	tex *ebiten.Image
}

func (a *app) Update() error {
	for key, btn := range keymap {
		a.gb.SetButton(btn, ebiten.IsKeyPressed(key))
	}
	return nil
}

func (a *app) Draw(screen *ebiten.Image) {
	if a.tex == nil {
		a.tex = ebiten.NewImage(ppu.ScreenWidth, ppu.ScreenHeight)
	}

	if frame, ok := a.hs.TryTake(); ok {
		a.blit(frame)
	}

	screen.DrawImage(a.tex, nil)
}

func (a *app) blit(frame host.FrameBuffer) {
	pix := make([]byte, ppu.ScreenWidth*ppu.ScreenHeight*4)
	i := 0
	for y := 0; y < ppu.ScreenHeight; y++ {
		for x := 0; x < ppu.ScreenWidth; x++ {
			c := frame[y][x]
			pix[i+0] = uint8(c >> 16) // R
			pix[i+1] = uint8(c >> 8)  // G
			pix[i+2] = uint8(c)       // B
			pix[i+3] = uint8(c >> 24) // A
			i += 4
		}
	}
	a.tex.WritePixels(pix)
}

func (a *app) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ppu.ScreenWidth, ppu.ScreenHeight
}
