package cube

// Phase detection for the layer-by-layer method, with the U face solved
// first and the D face last.

// Phase is the furthest completed stage of a layer-by-layer solve.
// Phases are ordered, so they compare with < and >.
type Phase int

const (
	PhaseScrambled Phase = iota
	PhaseUpCross
	PhaseUpLayer
	PhaseMiddleLayer
	PhaseDownCross
	PhaseCornersPositioned
	PhaseCornersOriented
	PhaseSolved
)

func (p Phase) String() string {
	switch p {
	case PhaseScrambled:
		return "scrambled"
	case PhaseUpCross:
		return "up_cross"
	case PhaseUpLayer:
		return "up_layer"
	case PhaseMiddleLayer:
		return "middle_layer"
	case PhaseDownCross:
		return "down_cross"
	case PhaseCornersPositioned:
		return "corners_positioned"
	case PhaseCornersOriented:
		return "corners_oriented"
	case PhaseSolved:
		return "solved"
	default:
		return "unknown"
	}
}

// ParsePhase returns the phase whose String is key.
func ParsePhase(key string) (Phase, bool) {
	for p := PhaseScrambled; p <= PhaseSolved; p++ {
		if p.String() == key {
			return p, true
		}
	}
	return 0, false
}

// DisplayName returns a human-readable name for the phase.
func (p Phase) DisplayName() string {
	switch p {
	case PhaseScrambled:
		return "Scrambled"
	case PhaseUpCross:
		return "Up Cross"
	case PhaseUpLayer:
		return "Up Layer"
	case PhaseMiddleLayer:
		return "Middle Layer"
	case PhaseDownCross:
		return "Down Cross"
	case PhaseCornersPositioned:
		return "Down Corners Positioned"
	case PhaseCornersOriented:
		return "Down Corners Oriented"
	case PhaseSolved:
		return "Solved"
	default:
		return "Unknown"
	}
}

var sides = [4]Face{F, R, B, L}

// IsUpCrossComplete reports whether the four U edges are in place: U
// stickers on top and matching side stickers below.
func (c *Cube) IsUpCrossComplete() bool {
	for _, pos := range []int{1, 3, 5, 7} {
		if c.Facelets[U][pos] != U.Sticker() {
			return false
		}
	}
	for _, f := range sides {
		if c.Facelets[f][1] != c.Facelets[f][4] {
			return false
		}
	}
	return true
}

// IsUpLayerComplete reports whether the whole U layer is solved.
func (c *Cube) IsUpLayerComplete() bool {
	if !c.IsUpCrossComplete() {
		return false
	}
	for _, s := range c.Facelets[U] {
		if s != U.Sticker() {
			return false
		}
	}
	for _, f := range sides {
		center := c.Facelets[f][4]
		if c.Facelets[f][0] != center || c.Facelets[f][2] != center {
			return false
		}
	}
	return true
}

// IsMiddleLayerComplete reports whether the middle layer edges are solved.
func (c *Cube) IsMiddleLayerComplete() bool {
	if !c.IsUpLayerComplete() {
		return false
	}
	for _, f := range sides {
		center := c.Facelets[f][4]
		if c.Facelets[f][3] != center || c.Facelets[f][5] != center {
			return false
		}
	}
	return true
}

// IsDownCrossComplete reports whether D stickers show on all four D edges.
// The edges may still be permuted.
func (c *Cube) IsDownCrossComplete() bool {
	if !c.IsMiddleLayerComplete() {
		return false
	}
	for _, pos := range []int{1, 3, 5, 7} {
		if c.Facelets[D][pos] != D.Sticker() {
			return false
		}
	}
	return true
}

// downCorners lists the facelets of each D corner with the stickers it
// carries when solved.
var downCorners = [4]struct {
	at   [3][2]int
	want [3]Sticker
}{
	{[3][2]int{{int(F), 8}, {int(R), 6}, {int(D), 2}}, [3]Sticker{'F', 'R', 'D'}},
	{[3][2]int{{int(R), 8}, {int(B), 6}, {int(D), 8}}, [3]Sticker{'R', 'B', 'D'}},
	{[3][2]int{{int(B), 8}, {int(L), 6}, {int(D), 6}}, [3]Sticker{'B', 'L', 'D'}},
	{[3][2]int{{int(L), 8}, {int(F), 6}, {int(D), 0}}, [3]Sticker{'L', 'F', 'D'}},
}

// AreDownCornersPositioned reports whether every D corner sits in its slot,
// ignoring twist.
func (c *Cube) AreDownCornersPositioned() bool {
	if !c.IsDownCrossComplete() {
		return false
	}
	for _, corner := range downCorners {
		var got [3]Sticker
		for i, p := range corner.at {
			got[i] = c.Facelets[p[0]][p[1]]
		}
		if !sameStickers(got[:], corner.want[:]) {
			return false
		}
	}
	return true
}

// AreDownCornersOriented reports whether the D face and the bottom corners
// of every side are solved.
func (c *Cube) AreDownCornersOriented() bool {
	if !c.AreDownCornersPositioned() {
		return false
	}
	for _, s := range c.Facelets[D] {
		if s != D.Sticker() {
			return false
		}
	}
	for _, f := range sides {
		center := c.Facelets[f][4]
		if c.Facelets[f][6] != center || c.Facelets[f][8] != center {
			return false
		}
	}
	return true
}

// sameStickers reports whether a and b hold the same stickers in any order.
func sameStickers(a, b []Sticker) bool {
	if len(a) != len(b) {
		return false
	}
	count := make(map[Sticker]int, len(a))
	for _, s := range a {
		count[s]++
	}
	for _, s := range b {
		count[s]--
	}
	for _, v := range count {
		if v != 0 {
			return false
		}
	}
	return true
}

// DetectPhase returns the furthest phase the cube has completed.
func (c *Cube) DetectPhase() Phase {
	switch {
	case c.IsSolved():
		return PhaseSolved
	case c.AreDownCornersOriented():
		return PhaseCornersOriented
	case c.AreDownCornersPositioned():
		return PhaseCornersPositioned
	case c.IsDownCrossComplete():
		return PhaseDownCross
	case c.IsMiddleLayerComplete():
		return PhaseMiddleLayer
	case c.IsUpLayerComplete():
		return PhaseUpLayer
	case c.IsUpCrossComplete():
		return PhaseUpCross
	}
	return PhaseScrambled
}

// Progress records which phases are complete.
type Progress struct {
	UpCross           bool `json:"up_cross"`
	UpLayer           bool `json:"up_layer"`
	MiddleLayer       bool `json:"middle_layer"`
	DownCross         bool `json:"down_cross"`
	CornersPositioned bool `json:"corners_positioned"`
	CornersOriented   bool `json:"corners_oriented"`
	Solved            bool `json:"solved"`
}

// GetProgress evaluates every phase.
func (c *Cube) GetProgress() Progress {
	return Progress{
		UpCross:           c.IsUpCrossComplete(),
		UpLayer:           c.IsUpLayerComplete(),
		MiddleLayer:       c.IsMiddleLayerComplete(),
		DownCross:         c.IsDownCrossComplete(),
		CornersPositioned: c.AreDownCornersPositioned(),
		CornersOriented:   c.AreDownCornersOriented(),
		Solved:            c.IsSolved(),
	}
}
