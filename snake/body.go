package snake

import "github.com/hoshinonyaruko/grid-snake/structs"

const initialBodyCapacity = 16

// body 是蛇身的环形缓冲区，下标0为蛇头。
type body struct {
	cells []structs.Position
	head  int // cells中蛇头所在的下标
	n     int
}

func newBody(cells ...structs.Position) *body {
	size := initialBodyCapacity
	for size < len(cells) {
		size *= 2
	}
	b := &body{cells: make([]structs.Position, size)}
	copy(b.cells, cells)
	b.n = len(cells)
	return b
}

func (b *body) Len() int {
	return b.n
}

// At returns the i-th cell counted from the head.
func (b *body) At(i int) structs.Position {
	return b.cells[(b.head+i)%len(b.cells)]
}

func (b *body) Head() structs.Position {
	return b.At(0)
}

func (b *body) Tail() structs.Position {
	return b.At(b.n - 1)
}

// PushFront 在蛇头前插入新格子，缓冲区满时扩容。
func (b *body) PushFront(p structs.Position) {
	if b.n == len(b.cells) {
		b.grow()
	}
	b.head = (b.head - 1 + len(b.cells)) % len(b.cells)
	b.cells[b.head] = p
	b.n++
}

// PopBack 移除并返回蛇尾。
func (b *body) PopBack() structs.Position {
	tail := b.Tail()
	b.n--
	return tail
}

func (b *body) grow() {
	cells := make([]structs.Position, len(b.cells)*2)
	for i := 0; i < b.n; i++ {
		cells[i] = b.At(i)
	}
	b.cells = cells
	b.head = 0
}

// Cells returns a head-first copy of the body.
func (b *body) Cells() []structs.Position {
	out := make([]structs.Position, b.n)
	for i := range out {
		out[i] = b.At(i)
	}
	return out
}

// occupied 根据有序蛇身重新计算占用的格子集合。
func (b *body) occupied() map[structs.Position]struct{} {
	set := make(map[structs.Position]struct{}, b.n)
	for i := 0; i < b.n; i++ {
		set[b.At(i)] = struct{}{}
	}
	return set
}
