package structs

import (
	"errors"
	"fmt"
	"strings"
)

// Position 描述网格上的一个格子坐标。
type Position struct {
	X int `json:"x"` // X坐标
	Y int `json:"y"` // Y坐标
}

// Step returns the neighbouring cell one step in direction d.
func (p Position) Step(d Direction) Position {
	switch d {
	case Up:
		p.Y--
	case Down:
		p.Y++
	case Left:
		p.X--
	case Right:
		p.X++
	}
	return p
}

// Inside reports whether p lies in [0,width) x [0,height).
func (p Position) Inside(width, height int) bool {
	return p.X >= 0 && p.X < width && p.Y >= 0 && p.Y < height
}

// Direction 蛇的移动方向。零值不是合法方向。
type Direction int

const (
	Up Direction = iota + 1
	Down
	Left
	Right
)

var ErrInvalidDirection = errors.New("invalid direction")

var directionNames = map[Direction]string{
	Up:    "up",
	Down:  "down",
	Left:  "left",
	Right: "right",
}

func (d Direction) Valid() bool {
	_, ok := directionNames[d]
	return ok
}

// Opposite returns the reverse of d, or d itself when d is not a direction.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	}
	return d
}

func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

func (d Direction) MarshalText() ([]byte, error) {
	name, ok := directionNames[d]
	if !ok {
		return nil, ErrInvalidDirection
	}
	return []byte(name), nil
}

func (d *Direction) UnmarshalText(b []byte) error {
	parsed, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDirection 解析 "up", "down", "left", "right"（不区分大小写）。
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return 0, fmt.Errorf("%w '%s'", ErrInvalidDirection, s)
}

// Status 游戏状态，只能从 Running 变为 Terminated。
type Status int

const (
	Running Status = iota
	Terminated
)

func (s Status) String() string {
	if s == Terminated {
		return "terminated"
	}
	return "running"
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "running":
		*s = Running
	case "terminated":
		*s = Terminated
	default:
		return fmt.Errorf("invalid status '%s'", b)
	}
	return nil
}

// Snapshot 是渲染器读取的只读游戏快照。
type Snapshot struct {
	Width     int        `json:"width"`     // 地图宽度
	Height    int        `json:"height"`    // 地图高度
	Body      []Position `json:"body"`      // 蛇身，蛇头在前
	Food      Position   `json:"food"`      // 食物位置
	Status    Status     `json:"status"`    // 游戏状态
	Direction Direction  `json:"direction"` // 当前已生效的方向
	Ticks     int        `json:"ticks"`     // 已处理的tick数
}

// Head returns the first body cell. Body is never empty for a snapshot taken from a game.
func (s Snapshot) Head() Position {
	return s.Body[0]
}

func (s Snapshot) Len() int {
	return len(s.Body)
}
