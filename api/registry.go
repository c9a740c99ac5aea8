package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hoshinonyaruko/grid-snake/snake"
	"github.com/hoshinonyaruko/grid-snake/structs"
)

// ErrGameNotFound is returned for an unknown group id.
var ErrGameNotFound = errors.New("game not found")

// ErrGridTooLarge is returned by Start for grids above Options.MaxWidth or MaxHeight.
var ErrGridTooLarge = errors.New("grid too large")

// DefaultMaxGrid bounds width and height when Options leaves them unset.
const DefaultMaxGrid = 200

// Options configures a Registry.
type Options struct {
	TickInterval  time.Duration
	BlockSize     int
	DefaultWidth  int
	DefaultHeight int
	MaxWidth      int // 0 means DefaultMaxGrid
	MaxHeight     int // 0 means DefaultMaxGrid
	StaticDir     string // 渲染图片的保存目录
	SelfPath      string // 对外访问地址，用于拼接图片URL
}

// Registry 保存所有正在进行的游戏，以群ID为key。
type Registry struct {
	opts Options

	mu    sync.Mutex
	games map[string]*game
}

// game is one running session plus its websocket viewers.
type game struct {
	session *snake.Session
	cancel  context.CancelFunc
	done    chan struct{}

	viewersMu sync.Mutex
	viewers   []*websocket.Conn
	closed    bool
}

func NewRegistry(opts Options) *Registry {
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = DefaultMaxGrid
	}
	if opts.MaxHeight <= 0 {
		opts.MaxHeight = DefaultMaxGrid
	}
	return &Registry{
		opts:  opts,
		games: make(map[string]*game),
	}
}

// Start creates a new game for groupID, replacing and stopping any previous one.
func (r *Registry) Start(groupID string, width, height int) (*snake.Session, error) {
	// 渲染时按格子分配整张图片，限制地图大小
	if width > r.opts.MaxWidth || height > r.opts.MaxHeight {
		return nil, fmt.Errorf("%w: %dx%d exceeds %dx%d", ErrGridTooLarge, width, height, r.opts.MaxWidth, r.opts.MaxHeight)
	}
	state, err := snake.New(width, height)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	g := &game{
		session: snake.NewSession(state),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	r.mu.Lock()
	old := r.games[groupID]
	r.games[groupID] = g
	r.mu.Unlock()

	if old != nil {
		old.stop()
	}

	go g.run(ctx, groupID, r.opts.TickInterval)
	log.Printf("game %s started on %dx%d grid", groupID, width, height)
	return g.session, nil
}

func (r *Registry) get(groupID string) (*game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[groupID]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g, nil
}

// Session returns the session of a game.
func (r *Registry) Session(groupID string) (*snake.Session, error) {
	g, err := r.get(groupID)
	if err != nil {
		return nil, err
	}
	return g.session, nil
}

// Delete stops and removes a game.
func (r *Registry) Delete(groupID string) error {
	r.mu.Lock()
	g, ok := r.games[groupID]
	delete(r.games, groupID)
	r.mu.Unlock()

	if !ok {
		return ErrGameNotFound
	}
	g.stop()
	return nil
}

// Close stops every game.
func (r *Registry) Close() {
	r.mu.Lock()
	games := r.games
	r.games = make(map[string]*game)
	r.mu.Unlock()

	for _, g := range games {
		g.stop()
	}
}

func (g *game) run(ctx context.Context, groupID string, interval time.Duration) {
	defer close(g.done)
	defer g.closeViewers()

	err := g.session.Run(ctx, interval, g.broadcast)
	switch {
	case err == nil:
		snap := g.session.Snapshot()
		log.Printf("game %s over after %d ticks, length %d", groupID, snap.Ticks, snap.Len())
	case errors.Is(err, context.Canceled):
		log.Printf("game %s stopped", groupID)
	default:
		log.Printf("game %s: %v", groupID, err)
	}
}

func (g *game) stop() {
	g.cancel()
	<-g.done
}

// broadcast 把快照推送给所有观看者，发送失败的连接会被移除。
func (g *game) broadcast(snap structs.Snapshot) {
	g.viewersMu.Lock()
	defer g.viewersMu.Unlock()

	alive := g.viewers[:0]
	for _, conn := range g.viewers {
		if err := conn.WriteJSON(snap); err != nil {
			conn.Close()
			continue
		}
		alive = append(alive, conn)
	}
	g.viewers = alive
}

// addViewer sends the current snapshot and subscribes conn to future ticks.
// A viewer joining a finished game gets the final snapshot and is closed.
func (g *game) addViewer(conn *websocket.Conn) error {
	g.viewersMu.Lock()
	defer g.viewersMu.Unlock()

	if err := conn.WriteJSON(g.session.Snapshot()); err != nil {
		return err
	}
	if g.closed {
		return conn.Close()
	}
	g.viewers = append(g.viewers, conn)
	return nil
}

func (g *game) removeViewer(conn *websocket.Conn) {
	g.viewersMu.Lock()
	defer g.viewersMu.Unlock()

	for i, viewer := range g.viewers {
		if viewer == conn {
			g.viewers = append(g.viewers[:i], g.viewers[i+1:]...)
			break
		}
	}
}

func (g *game) closeViewers() {
	g.viewersMu.Lock()
	defer g.viewersMu.Unlock()

	for _, conn := range g.viewers {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game ended"))
		conn.Close()
	}
	g.viewers = nil
	g.closed = true
}
