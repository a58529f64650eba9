package gcode

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// MoveType represents the type of CNC toolpath movement.
type MoveType int

const (
	MoveRapid   MoveType = iota // G0: rapid positioning (no cutting)
	MoveFeed                    // G1: linear feed (cutting move in XY plane)
	MovePlunge                  // G1 with Z decreasing: plunging into material
	MoveRetract                 // G0/G1 with Z increasing: retracting from material
	MoveArc                     // G2/G3: circular feed in the XY plane
)

// GCodeMove represents a single parsed movement from GCode.
type GCodeMove struct {
	Type     MoveType
	FromX    float64
	FromY    float64
	FromZ    float64
	ToX      float64
	ToY      float64
	ToZ      float64
	FeedRate float64

	// Arc moves only. The center is absolute, decoded from I/J.
	CenterX   float64
	CenterY   float64
	Clockwise bool
}

var wordRe = regexp.MustCompile(`([XYZFIJ])(-?\d+\.?\d*)`)

// motionWords maps the motion words a controller may emit, with or without
// the leading zero, to their canonical form.
var motionWords = map[string]string{
	"G0": "G0", "G00": "G0",
	"G1": "G1", "G01": "G1",
	"G2": "G2", "G02": "G2",
	"G3": "G3", "G03": "G3",
}

// stripComment removes a trailing ";" comment and one parenthesised comment.
func stripComment(line string) string {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	if open := strings.IndexByte(line, '('); open >= 0 {
		if closing := strings.IndexByte(line, ')'); closing > open {
			line = line[:open] + line[closing+1:]
		}
	}
	return strings.TrimSpace(line)
}

// machine is the modal state carried from one block to the next.
type machine struct {
	x, y, z, feed float64
}

// step applies one motion block and returns the resulting move.
func (m *machine) step(cmd string, words [][]string) GCodeMove {
	next := *m
	var offI, offJ float64
	for _, w := range words {
		val, err := strconv.ParseFloat(w[2], 64)
		if err != nil {
			continue
		}
		switch w[1] {
		case "X":
			next.x = val
		case "Y":
			next.y = val
		case "Z":
			next.z = val
		case "F":
			next.feed = val
		case "I":
			offI = val
		case "J":
			offJ = val
		}
	}

	move := GCodeMove{
		FromX: m.x, FromY: m.y, FromZ: m.z,
		ToX: next.x, ToY: next.y, ToZ: next.z,
		FeedRate: next.feed,
	}
	if cmd == "G2" || cmd == "G3" {
		move.Type = MoveArc
		move.CenterX = m.x + offI
		move.CenterY = m.y + offJ
		move.Clockwise = cmd == "G2"
	} else {
		move.Type = classifyMove(cmd == "G0", m.z, next.z, m.x, m.y, next.x, next.y)
	}
	*m = next
	return move
}

// ParseGCode turns a program into moves in absolute coordinates, starting
// from the origin. Blocks without a G0..G3 motion word are ignored.
func ParseGCode(code string) []GCodeMove {
	var (
		moves []GCodeMove
		state machine
	)
	for _, raw := range strings.Split(code, "\n") {
		block := strings.ToUpper(stripComment(raw))
		if block == "" {
			continue
		}
		word, _, _ := strings.Cut(block, " ")
		cmd, ok := motionWords[word]
		if !ok {
			continue
		}
		moves = append(moves, state.step(cmd, wordRe.FindAllStringSubmatch(block, -1)))
	}
	return moves
}

// classifyMove determines the MoveType based on movement characteristics.
func classifyMove(isRapid bool, fromZ, toZ, fromX, fromY, toX, toY float64) MoveType {
	zDelta := toZ - fromZ
	hasXY := fromX != toX || fromY != toY

	switch {
	case isRapid:
		if zDelta > 0 {
			return MoveRetract
		}
		return MoveRapid
	case zDelta < -0.001 && !hasXY:
		return MovePlunge
	case zDelta > 0.001 && !hasXY:
		return MoveRetract
	default:
		return MoveFeed
	}
}

// Length returns the distance travelled by the move. Arcs whose start and
// end coincide are full circles.
func (m GCodeMove) Length() float64 {
	if m.Type != MoveArc {
		return math.Sqrt((m.ToX-m.FromX)*(m.ToX-m.FromX) +
			(m.ToY-m.FromY)*(m.ToY-m.FromY) +
			(m.ToZ-m.FromZ)*(m.ToZ-m.FromZ))
	}

	r := math.Hypot(m.FromX-m.CenterX, m.FromY-m.CenterY)
	a0 := math.Atan2(m.FromY-m.CenterY, m.FromX-m.CenterX)
	a1 := math.Atan2(m.ToY-m.CenterY, m.ToX-m.CenterX)
	sweep := a1 - a0
	if m.Clockwise {
		sweep = a0 - a1
	}
	for sweep <= 1e-9 {
		sweep += 2 * math.Pi
	}
	return r * sweep
}

// Stats summarises a parsed program.
type Stats struct {
	Moves       int
	Plunges     int
	Retracts    int
	Arcs        int
	CutLength   float64 // mm travelled while feeding, including arcs and plunges
	RapidLength float64 // mm travelled at rapid
	CutMinutes  float64 // feed time from the programmed feed rates
}

// Summarize totals move counts, lengths and feed time for moves.
func Summarize(moves []GCodeMove) Stats {
	s := Stats{Moves: len(moves)}
	for _, m := range moves {
		l := m.Length()
		switch m.Type {
		case MoveRapid:
			s.RapidLength += l
			continue
		case MoveRetract:
			s.Retracts++
			if m.FromZ < 0 && m.ToZ <= 0 {
				// Tab lift at feed rate.
				break
			}
			s.RapidLength += l
			continue
		case MovePlunge:
			s.Plunges++
		case MoveArc:
			s.Arcs++
		}
		s.CutLength += l
		if m.FeedRate > 0 {
			s.CutMinutes += l / m.FeedRate
		}
	}
	return s
}
