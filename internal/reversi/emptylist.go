package reversi

// EmptyList is a doubly-linked walk over the squares that are currently
// empty, presorted into a fixed strategic order (corners, then edges,
// then inner squares, then centre) so that the endgame solver visits
// promising squares first without needing to re-sort on every node. A
// head sentinel keeps the walk branchless; removing/restoring a square is
// O(1), and a running XOR "parity" of the quadrant ids of the empty
// squares is maintained for the endgame's parity-based move ordering.
type EmptyList struct {
	nodes  [65]emptyNode // index 64 is the head sentinel
	Parity uint8
}

type emptyNode struct {
	sq       Square
	quadrant uint8
	prev     int
	next     int
}

const headIdx = 64

// quadrantOf returns the quadrant id (1,2,4,8) of a square: the board is
// split into four 4x4 quarters.
func quadrantOf(sq Square) uint8 {
	f, r := sq.File(), sq.Rank()
	switch {
	case f < 4 && r < 4:
		return 1
	case f >= 4 && r < 4:
		return 2
	case f < 4 && r >= 4:
		return 4
	default:
		return 8
	}
}

// presortedOrder lists all 64 squares in the fixed strategic order:
// corners first, then edge (non-corner border) squares, then remaining
// interior squares, with the 4 true centre squares last.
var presortedOrder = buildPresortedOrder()

func buildPresortedOrder() [64]Square {
	isCorner := func(sq Square) bool {
		return sq == A1 || sq == H1 || sq == A8 || sq == H8
	}
	isCentre := func(sq Square) bool {
		f, r := sq.File(), sq.Rank()
		return (f == 3 || f == 4) && (r == 3 || r == 4)
	}
	isEdge := func(sq Square) bool {
		f, r := sq.File(), sq.Rank()
		return f == 0 || f == 7 || r == 0 || r == 7
	}

	var out [64]Square
	idx := 0
	add := func(pred func(Square) bool) {
		for sq := Square(0); sq < 64; sq++ {
			if pred(sq) {
				out[idx] = sq
				idx++
			}
		}
	}
	add(isCorner)
	add(func(sq Square) bool { return isEdge(sq) && !isCorner(sq) })
	add(func(sq Square) bool { return !isEdge(sq) && !isCentre(sq) })
	add(isCentre)
	return out
}

// NewEmptyList builds a list over the currently-empty squares of the
// given board, in presorted order.
func NewEmptyList(empty uint64) *EmptyList {
	el := &EmptyList{}
	el.nodes[headIdx] = emptyNode{prev: headIdx, next: headIdx}
	prev := headIdx
	for _, sq := range presortedOrder {
		if empty&sq.Bitboard() == 0 {
			continue
		}
		i := int(sq)
		el.nodes[i] = emptyNode{sq: sq, quadrant: quadrantOf(sq), prev: prev, next: headIdx}
		el.nodes[prev].next = i
		el.nodes[headIdx].prev = i
		el.Parity ^= el.nodes[i].quadrant
		prev = i
	}
	return el
}

// Remove unlinks sq from the list (O(1)) and updates parity. The node
// storage is retained so Restore can relink it later.
func (el *EmptyList) Remove(sq Square) {
	i := int(sq)
	n := el.nodes[i]
	el.nodes[n.prev].next = n.next
	el.nodes[n.next].prev = n.prev
	el.Parity ^= n.quadrant
}

// Restore relinks sq back between its former neighbours, undoing Remove.
func (el *EmptyList) Restore(sq Square) {
	i := int(sq)
	n := el.nodes[i]
	el.nodes[n.prev].next = i
	el.nodes[n.next].prev = i
	el.Parity ^= n.quadrant
}

// Front returns the first square in the walk and true, or (None, false)
// if the list is empty.
func (el *EmptyList) Front() (Square, bool) {
	i := el.nodes[headIdx].next
	if i == headIdx {
		return None, false
	}
	return el.nodes[i].sq, true
}

// NextAfter returns the square following sq in the walk.
func (el *EmptyList) NextAfter(sq Square) (Square, bool) {
	i := el.nodes[int(sq)].next
	if i == headIdx {
		return None, false
	}
	return el.nodes[i].sq, true
}

// QuadrantOf exposes a square's quadrant id for move-ordering heuristics.
func (el *EmptyList) QuadrantOf(sq Square) uint8 {
	return el.nodes[int(sq)].quadrant
}
