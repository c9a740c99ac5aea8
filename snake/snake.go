// 关于蛇的更新
package snake

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/hoshinonyaruko/grid-snake/structs"
)

// ErrInvalidConfiguration is returned by New for grids that cannot hold a snake and a food cell.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// GameState 是一局单人贪食蛇的全部状态。
// It is not safe for concurrent use; see Session.
type GameState struct {
	width, height int

	body       *body
	direction  structs.Direction
	pending    structs.Direction
	hasPending bool

	food   structs.Position
	status structs.Status
	ticks  int

	rng *rand.Rand
}

// Option configures a GameState at construction.
type Option func(*GameState)

// WithRand sets the random source used for food placement.
func WithRand(rng *rand.Rand) Option {
	return func(g *GameState) {
		g.rng = rng
	}
}

// WithDirection sets the initial direction instead of Right.
func WithDirection(d structs.Direction) Option {
	return func(g *GameState) {
		g.direction = d
	}
}

// New creates a game on a width x height grid with a one-cell snake in the middle.
func New(width, height int, opts ...Option) (*GameState, error) {
	if width < 1 || height < 1 || width*height < 2 {
		return nil, fmt.Errorf("%w: grid %dx%d must have at least 2 cells", ErrInvalidConfiguration, width, height)
	}

	g := &GameState{
		width:     width,
		height:    height,
		body:      newBody(structs.Position{X: width / 2, Y: height / 2}),
		direction: structs.Right,
		status:    structs.Running,
	}
	for _, opt := range opts {
		opt(g)
	}
	if !g.direction.Valid() {
		return nil, fmt.Errorf("%w: initial direction %v", ErrInvalidConfiguration, g.direction)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	g.food = g.spawnFood()
	return g, nil
}

// SetDirection 记录下一次tick生效的方向。
// 与当前方向相反的请求、非法方向以及游戏结束后的请求都会被忽略。
func (g *GameState) SetDirection(d structs.Direction) {
	if g.status == structs.Terminated || !d.Valid() {
		return
	}
	if d == g.direction.Opposite() {
		return
	}
	g.pending = d
	g.hasPending = true
}

// Tick advances the game by one cell. It does nothing once the game is terminated.
func (g *GameState) Tick() {
	if g.status == structs.Terminated {
		return
	}

	if g.hasPending {
		g.direction = g.pending
		g.hasPending = false
	}
	g.ticks++

	next := g.body.Head().Step(g.direction)

	// 撞墙
	if !next.Inside(g.width, g.height) {
		g.status = structs.Terminated
		return
	}

	// 咬到自己，检查包括即将离开的蛇尾
	if _, hit := g.body.occupied()[next]; hit {
		g.status = structs.Terminated
		return
	}

	g.body.PushFront(next)

	if next != g.food {
		g.body.PopBack()
		return
	}

	// 吃到食物，蛇尾保留
	if g.body.Len() == g.width*g.height {
		// 地图已被占满，没有位置放置新的食物
		g.status = structs.Terminated
		return
	}
	g.food = g.spawnFood()
}

// Snapshot returns a copy of the state for renderers.
func (g *GameState) Snapshot() structs.Snapshot {
	return structs.Snapshot{
		Width:     g.width,
		Height:    g.height,
		Body:      g.body.Cells(),
		Food:      g.food,
		Status:    g.status,
		Direction: g.direction,
		Ticks:     g.ticks,
	}
}

// Status reports whether the game is still running.
func (g *GameState) Status() structs.Status {
	return g.status
}

// spawnFood 随机选择一个不在蛇身上的格子。
// The caller guarantees at least one free cell.
func (g *GameState) spawnFood() structs.Position {
	occupied := g.body.occupied()
	for {
		candidate := structs.Position{
			X: g.rng.Intn(g.width),
			Y: g.rng.Intn(g.height),
		}
		if _, taken := occupied[candidate]; !taken {
			return candidate
		}
	}
}
