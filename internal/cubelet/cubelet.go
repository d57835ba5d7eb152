// Package cubelet models a single piece of the cube: its pose on the
// lattice, its sticker labels, and the eased rotation that animates it
// from one lattice pose to the next.
package cubelet

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/SeamusWaldron/cubr/internal/vecmath"
)

// DefaultTurnAcceleration is the easing exponent applied to turn animations.
const DefaultTurnAcceleration = 2.0 / 3.0

// DefaultLength is the rendered edge length of a cubelet.
const DefaultLength = 1.95

// Face is one visible sticker: its label and the point one unit outside
// the cubelet center along the sticker normal.
type Face struct {
	Label    Label
	Position vecmath.Vec
}

// Cubelet is one of the 26 visible pieces.
//
// The live pose moves every animation frame; the permanent pose only
// changes when a turn finishes and is the pose move predicates read.
type Cubelet struct {
	live      Pose
	permanent Pose
	home      Pose
	labels    [6]Label
	length    float64
	accel     float64
	anim      animation
}

// animation holds the state captured when a rotation starts.
type animation struct {
	active    bool
	total     int
	remaining int

	axis     vecmath.Vec
	angle    float64
	along    vecmath.Vec
	hand     vecmath.Vec
	perpHand vecmath.Vec

	up        vecmath.Vec
	upPerp    vecmath.Vec
	right     vecmath.Vec
	rightPerp vecmath.Vec
}

// New creates a cubelet at home pose p with the given labels.
func New(p Pose, labels [6]Label, length float64) *Cubelet {
	c := &Cubelet{
		home:   p,
		labels: labels,
		length: length,
		accel:  DefaultTurnAcceleration,
	}
	c.live = p
	c.Snap()
	return c
}

// SetTurnAcceleration sets the easing exponent for later rotations.
func (c *Cubelet) SetTurnAcceleration(k float64) {
	c.accel = k
}

// Live returns the current (possibly mid-animation) pose.
func (c *Cubelet) Live() Pose { return c.live }

// Permanent returns the last snapped pose.
func (c *Cubelet) Permanent() Pose { return c.permanent }

// Home returns the pose the cubelet was created with.
func (c *Cubelet) Home() Pose { return c.home }

// Labels returns the sticker labels in direction order F, B, U, D, R, L.
func (c *Cubelet) Labels() [6]Label { return c.labels }

// SetLabel replaces the sticker on side d.
func (c *Cubelet) SetLabel(d Dir, l Label) {
	c.labels[d] = l
}

// Animating reports whether a rotation is in progress.
func (c *Cubelet) Animating() bool { return c.anim.active }

// Rotate starts turning the cubelet by angle radians about axis over the
// given number of frames. The first frame is applied immediately; with
// zero frames the turn completes within this call.
func (c *Cubelet) Rotate(axis vecmath.Vec, angle float64, frames int) {
	pos := c.live.Pos
	along := vecmath.Proj(pos, axis)
	hand := r3.Sub(pos, along)
	up := vecmath.Unit(c.live.Up)
	right := vecmath.Unit(c.live.Right)

	c.anim = animation{
		active:    true,
		total:     frames,
		remaining: frames,
		axis:      axis,
		angle:     angle,
		along:     along,
		hand:      hand,
		perpHand:  vecmath.SetMag(r3.Norm(hand), r3.Cross(axis, hand)),
		up:        up,
		upPerp:    vecmath.Unit(r3.Cross(axis, up)),
		right:     right,
		rightPerp: vecmath.Unit(r3.Cross(axis, right)),
	}
	c.Tick()
}

// Tick advances the animation by one frame and reports whether the
// rotation finished on this frame.
func (c *Cubelet) Tick() bool {
	if !c.anim.active {
		return false
	}

	portion := 0.0
	if c.anim.total > 0 {
		portion = float64(c.anim.remaining) / float64(c.anim.total)
	}
	c.live = c.anim.at(ease(portion, c.accel))

	c.anim.remaining--
	if c.anim.remaining <= -1 {
		c.Stop()
		return true
	}
	return false
}

// Stop jumps to the end of the current rotation and snaps.
func (c *Cubelet) Stop() {
	if c.anim.active {
		c.live = c.anim.at(0)
		c.anim.active = false
	}
	c.Snap()
}

// Snap rounds the live pose onto the lattice and makes it permanent.
func (c *Cubelet) Snap() {
	c.live = Pose{
		Pos:   vecmath.Round(c.live.Pos),
		Up:    vecmath.Round(c.live.Up),
		Right: vecmath.Round(c.live.Right),
	}
	c.permanent = c.live
}

// IsHome reports whether the permanent pose matches the home pose.
func (c *Cubelet) IsHome() bool {
	p, h := c.permanent, c.home
	bothCentered := vecmath.IsZero(p.Pos) && vecmath.IsZero(h.Pos)
	if !bothCentered && !vecmath.Parallel(p.Pos, h.Pos) {
		return false
	}
	return vecmath.Parallel(p.Up, h.Up) && vecmath.Parallel(p.Right, h.Right)
}

// ReturnHome abandons any animation and restores the home pose.
func (c *Cubelet) ReturnHome() {
	c.anim = animation{}
	c.live = c.home
	c.Snap()
}

// Faces lists the visible stickers at the permanent pose.
func (c *Cubelet) Faces() []Face {
	normals := normals(c.permanent)
	faces := make([]Face, 0, 3)
	for i, l := range c.labels {
		if !l.Visible() {
			continue
		}
		faces = append(faces, Face{Label: l, Position: r3.Add(c.permanent.Pos, normals[i])})
	}
	return faces
}

// DirFacing returns the side of the cubelet whose permanent normal points
// along n, and false when no side does.
func (c *Cubelet) DirFacing(n vecmath.Vec) (Dir, bool) {
	normals := normals(c.permanent)
	for _, d := range Dirs {
		if vecmath.Parallel(normals[d], n) {
			return d, true
		}
	}
	return 0, false
}

// Clone returns an idle copy sharing no state with c.
func (c *Cubelet) Clone() *Cubelet {
	return &Cubelet{
		live:      c.permanent,
		permanent: c.permanent,
		home:      c.home,
		labels:    c.labels,
		length:    c.length,
		accel:     c.accel,
	}
}

// Description names the piece by its sticker colors, e.g.
// "green, white, and red corner piece".
func (c *Cubelet) Description() string {
	var names []string
	for _, l := range c.labels {
		if l.Visible() {
			names = append(names, l.String())
		}
	}

	switch len(names) {
	case 0:
		return "inner piece"
	case 1:
		return names[0] + " center piece"
	case 2:
		return names[0] + " and " + names[1] + " edge piece"
	case 3:
		return strings.Join(names[:2], ", ") + ", and " + names[2] + " corner piece"
	default:
		return "unknown piece"
	}
}

// at returns the pose reached when portion p' of the turn remains.
func (a *animation) at(p float64) Pose {
	theta := a.angle * (1 - p)
	cos, sin := math.Cos(theta), math.Sin(theta)

	return Pose{
		Pos:   r3.Add(a.along, r3.Add(r3.Scale(cos, a.hand), r3.Scale(sin, a.perpHand))),
		Up:    turn(a.up, a.upPerp, cos, sin),
		Right: turn(a.right, a.rightPerp, cos, sin),
	}
}

// turn rotates v within the plane spanned by v and perp. A zero perp
// means v lies on the axis and stays put.
func turn(v, perp vecmath.Vec, cos, sin float64) vecmath.Vec {
	if vecmath.IsZero(perp) {
		return v
	}
	return r3.Add(r3.Scale(cos, v), r3.Scale(sin, perp))
}

// ease maps a linear portion onto the accelerated curve used for turns.
func ease(p, k float64) float64 {
	if p > 0.5 {
		return 0.5 + 0.5*math.Pow(2*(p-0.5), k)
	}
	return 0.5 - 0.5*math.Pow(2*(0.5-p), k)
}

// normals returns the outward unit normals of pose p in direction order.
func normals(p Pose) [6]vecmath.Vec {
	up := vecmath.Unit(p.Up)
	right := vecmath.Unit(p.Right)
	front := vecmath.Unit(r3.Cross(right, up))
	return [6]vecmath.Vec{
		front,
		r3.Scale(-1, front),
		up,
		r3.Scale(-1, up),
		right,
		r3.Scale(-1, right),
	}
}
