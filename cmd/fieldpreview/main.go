// Curl-noise force field preview tool - interactive visualization with sliders.
//
// Usage: go run ./cmd/fieldpreview
package main

import (
	"fmt"
	"image/color"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/drift/config"
	"github.com/pthm-cable/drift/noise"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
	gridSize     = 256
)

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Force Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	var seed int64 = 12345
	gen := noise.NewGenerator(gridSize, gridSize, seed, cfg, nil)

	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	animating := true
	dt := float32(1.0 / 30.0)

	for !rl.WindowShouldClose() {
		if animating {
			gen.Generate(dt)
			updateTexture(texture, gen.Force(), gridSize)
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: float32(gridSize), Height: float32(gridSize)},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		// Force magnitude stats
		var maxMag float32
		force := gen.Force()
		for i := 0; i < gridSize*gridSize; i++ {
			fx := force[2*i]
			fy := force[2*i+1]
			mag := fx*fx + fy*fy
			if mag > maxMag {
				maxMag = mag
			}
		}
		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Max |force|^2: %.4f", maxMag), 15, statsY, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Force Field Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		changed := false

		rl.DrawText("Global multiplier", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newMult := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "1.0",
			float32(cfg.Noise.Multiplier), 0, 1,
		)
		rl.DrawText(fmt.Sprintf("%.2f", cfg.Noise.Multiplier), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if float64(newMult) != cfg.Noise.Multiplier {
			cfg.Noise.Multiplier = float64(newMult)
			changed = true
		}
		panelY += 35

		for i := range cfg.Noise.Channels {
			ch := &cfg.Noise.Channels[i]

			rl.DrawText(fmt.Sprintf("Channel %d scale", i), int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			newScale := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				"0.5", "50",
				float32(ch.Scale), 0.5, 50,
			)
			rl.DrawText(fmt.Sprintf("%.1f", ch.Scale), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			if float64(newScale) != ch.Scale {
				ch.Scale = float64(newScale)
				changed = true
			}
			panelY += 30

			rl.DrawText(fmt.Sprintf("Channel %d multiplier", i), int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			newChMult := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				"0", "1.0",
				float32(ch.Multiplier), 0, 1,
			)
			rl.DrawText(fmt.Sprintf("%.2f", ch.Multiplier), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			if float64(newChMult) != ch.Multiplier {
				ch.Multiplier = float64(newChMult)
				changed = true
			}
			panelY += 35
		}

		if changed {
			gen.ApplySettings(cfg)
		}

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(animating, "Stop", "Animate")) {
			animating = !animating
		}

		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			seed = int64(rl.GetRandomValue(0, 99999))
			gen = noise.NewGenerator(gridSize, gridSize, seed, cfg, nil)
		}
		panelY += 45

		rl.DrawText(fmt.Sprintf("Seed: %d", seed), int32(panelX), int32(panelY), 14, rl.Gray)

		rl.EndDrawing()
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

// updateTexture maps the force field to RG channels centered at mid-gray.
func updateTexture(texture rl.Texture2D, force []float32, size int) {
	pixels := make([]color.RGBA, size*size)
	for i := range pixels {
		fx := force[2*i]
		fy := force[2*i+1]
		pixels[i] = color.RGBA{
			R: signedByte(fx * 4),
			G: signedByte(fy * 4),
			B: 40,
			A: 255,
		}
	}
	rl.UpdateTexture(texture, pixels)
}

func signedByte(v float32) uint8 {
	b := 127 + v*127
	if b < 0 {
		return 0
	}
	if b > 255 {
		return 255
	}
	return uint8(b)
}
