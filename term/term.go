// Package term runs a game in a terminal with tcell.
package term

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/hoshinonyaruko/grid-snake/snake"
	"github.com/hoshinonyaruko/grid-snake/structs"
)

const (
	bodyRune = '█'
	headRune = '@'
	foodRune = '●'

	gameOverText = "Game Over!"
	hintText     = "arrows/wasd to steer, q to quit"
)

var (
	borderStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	bodyStyle   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	foodStyle   = tcell.StyleDefault.Foreground(tcell.ColorRed)
	textStyle   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
)

// KeyDirection translates a key press into a direction.
// Arrow keys, wasd and vim-style hjkl are recognised.
func KeyDirection(ev *tcell.EventKey) (structs.Direction, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return structs.Up, true
	case tcell.KeyDown:
		return structs.Down, true
	case tcell.KeyLeft:
		return structs.Left, true
	case tcell.KeyRight:
		return structs.Right, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w', 'W', 'k':
			return structs.Up, true
		case 's', 'S', 'j':
			return structs.Down, true
		case 'a', 'A', 'h':
			return structs.Left, true
		case 'd', 'D', 'l':
			return structs.Right, true
		}
	}
	return 0, false
}

func isQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}

// cellOrigin maps a grid cell to its screen column and row. Cells are two columns wide.
func cellOrigin(p structs.Position) (int, int) {
	return 1 + 2*p.X, 1 + p.Y
}

// Draw renders snap on screen and shows it.
func Draw(screen tcell.Screen, snap structs.Snapshot) {
	screen.Clear()

	right, bottom := 2*snap.Width+1, snap.Height+1
	for x := 0; x <= right; x++ {
		screen.SetContent(x, 0, tcell.RuneHLine, nil, borderStyle)
		screen.SetContent(x, bottom, tcell.RuneHLine, nil, borderStyle)
	}
	for y := 0; y <= bottom; y++ {
		screen.SetContent(0, y, tcell.RuneVLine, nil, borderStyle)
		screen.SetContent(right, y, tcell.RuneVLine, nil, borderStyle)
	}
	screen.SetContent(0, 0, tcell.RuneULCorner, nil, borderStyle)
	screen.SetContent(right, 0, tcell.RuneURCorner, nil, borderStyle)
	screen.SetContent(0, bottom, tcell.RuneLLCorner, nil, borderStyle)
	screen.SetContent(right, bottom, tcell.RuneLRCorner, nil, borderStyle)

	x, y := cellOrigin(snap.Food)
	screen.SetContent(x, y, foodRune, nil, foodStyle)

	for i, p := range snap.Body {
		x, y := cellOrigin(p)
		r := bodyRune
		if i == 0 {
			r = headRune
		}
		screen.SetContent(x, y, r, nil, bodyStyle)
		screen.SetContent(x+1, y, bodyRune, nil, bodyStyle)
	}

	if snap.Status == structs.Terminated {
		drawText(screen, (right+1-len(gameOverText))/2, bottom/2, gameOverText, textStyle)
	}
	drawText(screen, 0, bottom+1, hintText, tcell.StyleDefault)
	screen.Show()
}

func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	if x < 0 {
		x = 0
	}
	for i, r := range text {
		screen.SetContent(x+i, y, r, nil, style)
	}
}

// Summary describes a finished game; it is empty while the game is still running.
func Summary(snap structs.Snapshot) string {
	if snap.Status != structs.Terminated {
		return ""
	}
	return fmt.Sprintf("game over after %d ticks, length %d", snap.Ticks, snap.Len())
}

// Run plays session on screen until the player quits or ctx is done.
// After the game ends the final frame stays up until a quit key.
// The event loop it starts has stopped reading from screen when Run returns.
func Run(ctx context.Context, screen tcell.Screen, session *snake.Session, interval time.Duration) error {
	ctx, cancel := context.WithCancel(ctx)
	polling := make(chan struct{})
	defer func() {
		cancel()
		// 唤醒 PollEvent，让事件循环看到 ctx 已结束
		screen.PostEvent(tcell.NewEventInterrupt(nil))
		<-polling
	}()

	go func() {
		defer close(polling)
		for {
			ev := screen.PollEvent()
			if ctx.Err() != nil {
				return
			}
			switch ev := ev.(type) {
			case nil:
				// screen finalized
				cancel()
				return
			case *tcell.EventKey:
				if isQuit(ev) {
					cancel()
					return
				}
				if d, ok := KeyDirection(ev); ok {
					session.SetDirection(d)
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		}
	}()

	Draw(screen, session.Snapshot())
	err := session.Run(ctx, interval, func(snap structs.Snapshot) {
		Draw(screen, snap)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		return err
	}

	<-ctx.Done()
	return nil
}
