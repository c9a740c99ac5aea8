package snake

import (
	"errors"
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"github.com/hoshinonyaruko/grid-snake/structs"
)

type pos = structs.Position

// newTestState builds a running game with an explicit body, head first.
func newTestState(width, height int, dir structs.Direction, food pos, cells ...pos) *GameState {
	return &GameState{
		width:     width,
		height:    height,
		body:      newBody(cells...),
		direction: dir,
		food:      food,
		status:    structs.Running,
		rng:       rand.New(rand.NewSource(1)),
	}
}

// dumpState draws the board for failure messages: H head, o body, * food.
func dumpState(snap structs.Snapshot) string {
	grid := make([][]byte, snap.Height)
	for y := range grid {
		grid[y] = []byte(strings.Repeat(".", snap.Width))
	}
	if snap.Food.Inside(snap.Width, snap.Height) {
		grid[snap.Food.Y][snap.Food.X] = '*'
	}
	for i, p := range snap.Body {
		if !p.Inside(snap.Width, snap.Height) {
			continue
		}
		if i == 0 {
			grid[p.Y][p.X] = 'H'
		} else {
			grid[p.Y][p.X] = 'o'
		}
	}
	var sb strings.Builder
	for _, row := range grid {
		sb.Write(row)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func assertFoodFree(t *testing.T, snap structs.Snapshot) {
	t.Helper()
	if !snap.Food.Inside(snap.Width, snap.Height) {
		t.Fatalf("food %v outside %dx%d grid", snap.Food, snap.Width, snap.Height)
	}
	for _, p := range snap.Body {
		if p == snap.Food {
			t.Fatalf("food %v placed on snake\n%s", snap.Food, dumpState(snap))
		}
	}
}

func TestNew_ValidDimensions(t *testing.T) {
	sizes := []struct{ w, h int }{
		{1, 2}, {2, 1}, {2, 2}, {3, 3}, {7, 4}, {4, 7}, {20, 20}, {1, 50},
	}
	for _, size := range sizes {
		g, err := New(size.w, size.h, WithRand(rand.New(rand.NewSource(int64(size.w*100+size.h)))))
		if err != nil {
			t.Fatalf("New(%d, %d) err=%v", size.w, size.h, err)
		}
		snap := g.Snapshot()
		want := pos{X: size.w / 2, Y: size.h / 2}
		if snap.Len() != 1 || snap.Head() != want {
			t.Fatalf("New(%d, %d) body=%v want [%v]", size.w, size.h, snap.Body, want)
		}
		if snap.Status != structs.Running {
			t.Fatalf("New(%d, %d) status=%v want running", size.w, size.h, snap.Status)
		}
		if snap.Direction != structs.Right {
			t.Fatalf("New(%d, %d) direction=%v want right", size.w, size.h, snap.Direction)
		}
		assertFoodFree(t, snap)
	}
}

func TestNew_InvalidDimensions(t *testing.T) {
	sizes := []struct{ w, h int }{
		{0, 5}, {5, 0}, {-1, 3}, {3, -1}, {1, 1}, {0, 0},
	}
	for _, size := range sizes {
		g, err := New(size.w, size.h)
		if !errors.Is(err, ErrInvalidConfiguration) {
			t.Fatalf("New(%d, %d) err=%v want ErrInvalidConfiguration", size.w, size.h, err)
		}
		if g != nil {
			t.Fatalf("New(%d, %d) returned a game on error", size.w, size.h)
		}
	}
}

func TestNew_WithDirection(t *testing.T) {
	g, err := New(5, 5, WithDirection(structs.Up))
	if err != nil {
		t.Fatal(err)
	}
	if d := g.Snapshot().Direction; d != structs.Up {
		t.Fatalf("direction=%v want up", d)
	}

	if _, err := New(5, 5, WithDirection(structs.Direction(0))); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("err=%v want ErrInvalidConfiguration", err)
	}
}

func TestTick_NoFoodShiftsBody(t *testing.T) {
	g := newTestState(5, 5, structs.Right, pos{X: 4, Y: 4}, pos{X: 2, Y: 2}, pos{X: 1, Y: 2}, pos{X: 0, Y: 2})
	g.Tick()

	snap := g.Snapshot()
	want := []pos{{X: 3, Y: 2}, {X: 2, Y: 2}, {X: 1, Y: 2}}
	if !reflect.DeepEqual(snap.Body, want) {
		t.Fatalf("body=%v want=%v\n%s", snap.Body, want, dumpState(snap))
	}
	if snap.Food != (pos{X: 4, Y: 4}) {
		t.Fatalf("food moved to %v without being eaten", snap.Food)
	}
	if snap.Status != structs.Running || snap.Ticks != 1 {
		t.Fatalf("status=%v ticks=%d", snap.Status, snap.Ticks)
	}
}

func TestTick_EachDirection(t *testing.T) {
	tests := []struct {
		dir  structs.Direction
		want pos
	}{
		{structs.Up, pos{X: 2, Y: 1}},
		{structs.Down, pos{X: 2, Y: 3}},
		{structs.Left, pos{X: 1, Y: 2}},
		{structs.Right, pos{X: 3, Y: 2}},
	}
	for _, tt := range tests {
		g := newTestState(5, 5, tt.dir, pos{X: 0, Y: 0}, pos{X: 2, Y: 2})
		g.Tick()
		if head := g.Snapshot().Head(); head != tt.want {
			t.Fatalf("%v: head=%v want=%v", tt.dir, head, tt.want)
		}
	}
}

func TestTick_EatGrows(t *testing.T) {
	g := newTestState(5, 5, structs.Right, pos{X: 2, Y: 1}, pos{X: 1, Y: 1})
	g.Tick()

	snap := g.Snapshot()
	want := []pos{{X: 2, Y: 1}, {X: 1, Y: 1}}
	if !reflect.DeepEqual(snap.Body, want) {
		t.Fatalf("body=%v want=%v\n%s", snap.Body, want, dumpState(snap))
	}
	assertFoodFree(t, snap)

	// keep eating along a row; length grows by exactly one each time
	for i := 0; i < 20 && g.Status() == structs.Running; i++ {
		before := g.Snapshot()
		g.food = before.Head().Step(g.direction)
		if !g.food.Inside(g.width, g.height) {
			break
		}
		g.Tick()
		after := g.Snapshot()
		if after.Len() != before.Len()+1 {
			t.Fatalf("len=%d want %d\n%s", after.Len(), before.Len()+1, dumpState(after))
		}
		assertFoodFree(t, after)
	}
}

func TestTick_ReverseIgnored(t *testing.T) {
	g := newTestState(5, 5, structs.Right, pos{X: 0, Y: 0}, pos{X: 2, Y: 1}, pos{X: 1, Y: 1})
	g.SetDirection(structs.Left)
	g.Tick()

	snap := g.Snapshot()
	if snap.Status != structs.Running {
		t.Fatalf("reversal killed the snake\n%s", dumpState(snap))
	}
	if snap.Head() != (pos{X: 3, Y: 1}) || snap.Direction != structs.Right {
		t.Fatalf("head=%v direction=%v want (3,1) right", snap.Head(), snap.Direction)
	}
}

func TestSetDirection_LastValidWins(t *testing.T) {
	g := newTestState(5, 5, structs.Right, pos{X: 0, Y: 0}, pos{X: 2, Y: 2})
	g.SetDirection(structs.Up)
	g.SetDirection(structs.Down)
	g.SetDirection(structs.Left) // opposite of committed Right
	g.SetDirection(structs.Direction(42))
	g.Tick()

	snap := g.Snapshot()
	if snap.Direction != structs.Down || snap.Head() != (pos{X: 2, Y: 3}) {
		t.Fatalf("direction=%v head=%v want down (2,3)", snap.Direction, snap.Head())
	}

	// pending is consumed by the tick
	g.Tick()
	if head := g.Snapshot().Head(); head != (pos{X: 2, Y: 4}) {
		t.Fatalf("head=%v want (2,4)", head)
	}
}

func TestSetDirection_UnknownDropped(t *testing.T) {
	g := newTestState(5, 5, structs.Right, pos{X: 0, Y: 0}, pos{X: 2, Y: 2})
	g.SetDirection(structs.Up)
	g.SetDirection(structs.Direction(0))
	g.SetDirection(structs.Direction(-3))
	g.Tick()
	if head := g.Snapshot().Head(); head != (pos{X: 2, Y: 1}) {
		t.Fatalf("head=%v want (2,1)", head)
	}
}

func TestTick_BoundaryTerminates(t *testing.T) {
	g := newTestState(3, 3, structs.Right, pos{X: 0, Y: 0}, pos{X: 2, Y: 1})
	g.Tick()

	snap := g.Snapshot()
	if snap.Status != structs.Terminated {
		t.Fatalf("status=%v want terminated\n%s", snap.Status, dumpState(snap))
	}
	if !reflect.DeepEqual(snap.Body, []pos{{X: 2, Y: 1}}) {
		t.Fatalf("body changed on wall hit: %v", snap.Body)
	}
}

func TestTick_WallsOnEverySide(t *testing.T) {
	tests := []struct {
		dir  structs.Direction
		head pos
	}{
		{structs.Up, pos{X: 1, Y: 0}},
		{structs.Down, pos{X: 1, Y: 2}},
		{structs.Left, pos{X: 0, Y: 1}},
		{structs.Right, pos{X: 2, Y: 1}},
	}
	for _, tt := range tests {
		g := newTestState(3, 3, tt.dir, pos{X: 1, Y: 1}, tt.head)
		g.Tick()
		if g.Status() != structs.Terminated {
			t.Fatalf("%v from %v: still running", tt.dir, tt.head)
		}
	}
}

func TestTick_NewGameRunsIntoWall(t *testing.T) {
	g, err := New(3, 3, WithRand(rand.New(rand.NewSource(7))))
	if err != nil {
		t.Fatal(err)
	}
	// (1,1) -> (2,1) -> out of [0,3)
	g.Tick()
	if g.Status() != structs.Running {
		t.Fatalf("terminated after first tick\n%s", dumpState(g.Snapshot()))
	}
	g.Tick()
	if g.Status() != structs.Terminated {
		t.Fatalf("still running at x=3\n%s", dumpState(g.Snapshot()))
	}
}

func TestTick_SelfCollision(t *testing.T) {
	tests := []struct {
		name  string
		dir   structs.Direction
		turn  structs.Direction
		cells []pos
	}{
		{
			// head turns into the cell the tail is about to leave
			name:  "tail cell",
			dir:   structs.Down,
			turn:  structs.Left,
			cells: []pos{{X: 2, Y: 2}, {X: 2, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 2}},
		},
		{
			name:  "mid body",
			dir:   structs.Up,
			turn:  structs.Right,
			cells: []pos{{X: 1, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 1}, {X: 2, Y: 0}},
		},
	}
	for _, tt := range tests {
		g := newTestState(4, 4, tt.dir, pos{X: 3, Y: 3}, tt.cells...)
		g.SetDirection(tt.turn)
		before := g.Snapshot()
		g.Tick()

		snap := g.Snapshot()
		if snap.Status != structs.Terminated {
			t.Fatalf("%s: still running\n%s", tt.name, dumpState(snap))
		}
		if !reflect.DeepEqual(snap.Body, before.Body) {
			t.Fatalf("%s: body changed on collision: %v", tt.name, snap.Body)
		}
	}
}

func TestTick_NoopAfterTerminated(t *testing.T) {
	g := newTestState(3, 3, structs.Right, pos{X: 0, Y: 0}, pos{X: 2, Y: 1})
	g.Tick()
	terminated := g.Snapshot()

	g.SetDirection(structs.Up)
	for i := 0; i < 5; i++ {
		g.Tick()
	}
	if after := g.Snapshot(); !reflect.DeepEqual(after, terminated) {
		t.Fatalf("snapshot changed after termination:\n got %+v\nwant %+v", after, terminated)
	}
}

func TestTick_FillingBoardTerminates(t *testing.T) {
	g := newTestState(2, 1, structs.Left, pos{X: 0, Y: 0}, pos{X: 1, Y: 0})
	g.Tick()

	snap := g.Snapshot()
	if snap.Status != structs.Terminated {
		t.Fatalf("status=%v want terminated on full board", snap.Status)
	}
	if !reflect.DeepEqual(snap.Body, []pos{{X: 0, Y: 0}, {X: 1, Y: 0}}) {
		t.Fatalf("body=%v", snap.Body)
	}
}

func TestSpawnFood_SingleFreeCell(t *testing.T) {
	free := pos{X: 1, Y: 2}
	var cells []pos
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if p := (pos{X: x, Y: y}); p != free {
				cells = append(cells, p)
			}
		}
	}

	for seed := int64(0); seed < 20; seed++ {
		g := newTestState(3, 3, structs.Right, free, cells...)
		g.rng = rand.New(rand.NewSource(seed))
		for i := 0; i < 50; i++ {
			if got := g.spawnFood(); got != free {
				t.Fatalf("seed %d: spawnFood=%v want %v", seed, got, free)
			}
		}
	}
}

func TestSpawnFood_SeededIsDeterministic(t *testing.T) {
	a, _ := New(10, 10, WithRand(rand.New(rand.NewSource(42))))
	b, _ := New(10, 10, WithRand(rand.New(rand.NewSource(42))))
	if a.Snapshot().Food != b.Snapshot().Food {
		t.Fatalf("same seed placed food at %v and %v", a.Snapshot().Food, b.Snapshot().Food)
	}
}

func TestSnapshot_IsCopy(t *testing.T) {
	g := newTestState(5, 5, structs.Right, pos{X: 4, Y: 4}, pos{X: 2, Y: 2}, pos{X: 1, Y: 2})
	snap := g.Snapshot()
	snap.Body[0] = pos{X: 0, Y: 0}

	if head := g.Snapshot().Head(); head != (pos{X: 2, Y: 2}) {
		t.Fatalf("mutating a snapshot changed the game: head=%v", head)
	}
}
