// Package render 把游戏快照绘制成PNG图片。
package render

import (
	"errors"
	"image"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/hoshinonyaruko/grid-snake/memimg"
	"github.com/hoshinonyaruko/grid-snake/structs"
)

const gameOverText = "Game Over!"

// Image draws snap with blockSize pixels per cell. Cached tiles named
// "head", "body" and "food" replace the plain coloured squares.
func Image(snap structs.Snapshot, blockSize int) image.Image {
	return draw(snap, blockSize).Image()
}

// SavePNG 渲染并保存为图片
func SavePNG(snap structs.Snapshot, blockSize int, fileName string) error {
	if blockSize < 1 {
		return errors.New("block size must be positive")
	}
	if err := os.MkdirAll(filepath.Dir(fileName), os.ModePerm); err != nil {
		return err
	}
	return draw(snap, blockSize).SavePNG(fileName)
}

func draw(snap structs.Snapshot, blockSize int) *gg.Context {
	if blockSize < 1 {
		blockSize = 1
	}
	width := snap.Width * blockSize
	height := snap.Height * blockSize

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	renderGrid(dc, width, height, blockSize)

	// 食物
	if food, found := memimg.GetTile("food"); found {
		dc.DrawImage(food, snap.Food.X*blockSize, snap.Food.Y*blockSize)
	} else {
		dc.SetRGB(0.85, 0.1, 0.1)
		fillCell(dc, snap.Food, blockSize)
	}

	// 蛇身，从蛇尾画到蛇头，蛇头在最上层
	for i := len(snap.Body) - 1; i >= 0; i-- {
		pos := snap.Body[i]
		name := "body"
		if i == 0 {
			name = "head"
		}
		tile, found := memimg.GetTile(name)
		if !found && i == 0 {
			tile, found = memimg.GetTile("body")
		}
		if found {
			dc.DrawImage(tile, pos.X*blockSize, pos.Y*blockSize)
			continue
		}
		if i == 0 {
			dc.SetRGB(0.05, 0.5, 0.05)
		} else {
			dc.SetRGB(0.2, 0.75, 0.2)
		}
		fillCell(dc, pos, blockSize)
	}

	if snap.Status == structs.Terminated {
		renderGameOver(dc, width, height)
	}
	return dc
}

func fillCell(dc *gg.Context, pos structs.Position, blockSize int) {
	dc.DrawRectangle(float64(pos.X*blockSize), float64(pos.Y*blockSize), float64(blockSize), float64(blockSize))
	dc.Fill()
}

func renderGrid(dc *gg.Context, width, height, blockSize int) {
	dc.SetRGB(0.9, 0.9, 0.9)
	dc.SetLineWidth(1)
	for x := 0; x <= width; x += blockSize {
		dc.DrawLine(float64(x), 0, float64(x), float64(height))
		dc.Stroke()
	}
	for y := 0; y <= height; y += blockSize {
		dc.DrawLine(0, float64(y), float64(width), float64(y))
		dc.Stroke()
	}
}

func renderGameOver(dc *gg.Context, width, height int) {
	dc.SetRGBA(0, 0, 0, 0.55)
	dc.DrawRectangle(0, 0, float64(width), float64(height))
	dc.Fill()

	dc.SetRGB(1, 0.2, 0.2)
	dc.DrawStringAnchored(gameOverText, float64(width)/2, float64(height)/2, 0.5, 0.5)
}
