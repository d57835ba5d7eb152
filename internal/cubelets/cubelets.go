// Package cubelets owns the 26 cubelets of a 3x3 cube and applies face
// turns to them, either animated or immediately on a detached snapshot.
package cubelets

import (
	"fmt"

	"github.com/SeamusWaldron/cubr/internal/cubelet"
	"github.com/SeamusWaldron/cubr/internal/turns"
	"github.com/SeamusWaldron/cubr/internal/vecmath"
	"github.com/SeamusWaldron/cubr/pkg/types"
)

// snapshotFrames is the nominal frame count used when a snapshot applies
// a move; the rotation is stopped right away so only the end pose matters.
const snapshotFrames = 5

// latticeCoords are the cubelet center coordinates along each axis.
var latticeCoords = []float64{-turns.LayerCoord, 0, turns.LayerCoord}

// Collection is the live set of cubelets driven by the move engine.
type Collection struct {
	cubes []*cubelet.Cubelet
}

// New builds a solved 3x3 cube. accel is the turn easing exponent.
func New(accel float64) *Collection {
	col := &Collection{}
	for _, x := range latticeCoords {
		for _, y := range latticeCoords {
			for _, z := range latticeCoords {
				if x == 0 && y == 0 && z == 0 {
					continue
				}
				pos := vecmath.Vec{X: x, Y: y, Z: z}
				c := cubelet.New(cubelet.Pose{Pos: pos, Up: cubelet.HomeUp, Right: cubelet.HomeRight},
					homeLabels(pos), cubelet.DefaultLength)
				c.SetTurnAcceleration(accel)
				col.cubes = append(col.cubes, c)
			}
		}
	}
	return col
}

// homeLabels colors each side that lies on the outside of the cube.
func homeLabels(p vecmath.Vec) [6]cubelet.Label {
	labels := [6]cubelet.Label{
		cubelet.LabelInterior, cubelet.LabelInterior, cubelet.LabelInterior,
		cubelet.LabelInterior, cubelet.LabelInterior, cubelet.LabelInterior,
	}
	edge := float64(turns.LayerCoord)
	if p.Z == edge {
		labels[cubelet.DirFront] = cubelet.LabelF
	}
	if p.Z == -edge {
		labels[cubelet.DirBack] = cubelet.LabelB
	}
	if p.Y == edge {
		labels[cubelet.DirUp] = cubelet.LabelU
	}
	if p.Y == -edge {
		labels[cubelet.DirDown] = cubelet.LabelD
	}
	if p.X == edge {
		labels[cubelet.DirRight] = cubelet.LabelR
	}
	if p.X == -edge {
		labels[cubelet.DirLeft] = cubelet.LabelL
	}
	return labels
}

// Len returns the number of cubelets.
func (c *Collection) Len() int { return len(c.cubes) }

// At returns cubelet i.
func (c *Collection) At(i int) *cubelet.Cubelet { return c.cubes[i] }

// ApplyMove starts m on every cubelet in its layer. It returns false and
// changes nothing when any of those cubelets is still animating.
func (c *Collection) ApplyMove(m turns.Move, frames int) bool {
	var targets []*cubelet.Cubelet
	for _, cube := range c.cubes {
		if !m.AppliesTo(cube.Permanent().Pos) {
			continue
		}
		if cube.Animating() {
			return false
		}
		targets = append(targets, cube)
	}

	for _, cube := range targets {
		cube.Rotate(m.Axis, m.Angle, frames)
	}
	return true
}

// Tick advances every animating cubelet one frame and returns how many
// finished.
func (c *Collection) Tick() int {
	finished := 0
	for _, cube := range c.cubes {
		if cube.Tick() {
			finished++
		}
	}
	return finished
}

// Busy reports whether any cubelet is animating.
func (c *Collection) Busy() bool {
	for _, cube := range c.cubes {
		if cube.Animating() {
			return true
		}
	}
	return false
}

// IsSolved reports whether every cubelet is at its home pose.
func (c *Collection) IsSolved() bool {
	return allHome(c.cubes)
}

// ReturnHome stops all animation and puts every cubelet back home.
func (c *Collection) ReturnHome() {
	for _, cube := range c.cubes {
		cube.ReturnHome()
	}
}

// ExportFaces lists every visible sticker at the permanent poses.
func (c *Collection) ExportFaces() []cubelet.Face {
	var faces []cubelet.Face
	for _, cube := range c.cubes {
		faces = append(faces, cube.Faces()...)
	}
	return faces
}

// FaceString derives the 54-letter face string from the permanent poses.
// Stickers with unknown labels render as X.
func (c *Collection) FaceString() string {
	return faceString(c.cubes)
}

// SetFaceString returns every cubelet home and relabels the stickers
// from s. X marks stickers whose color is unknown.
func (c *Collection) SetFaceString(s string) error {
	if err := types.ValidateFaceString(s, true); err != nil {
		return fmt.Errorf("failed to set face string: %w", err)
	}
	c.ReturnHome()
	assignFaceString(c.cubes, s)
	return nil
}

// Meshes returns render buffers for every cubelet at its live pose.
func (c *Collection) Meshes() []cubelet.Mesh {
	meshes := make([]cubelet.Mesh, len(c.cubes))
	for i, cube := range c.cubes {
		meshes[i] = cube.Mesh()
	}
	return meshes
}

// Descriptions names each cubelet by its stickers.
func (c *Collection) Descriptions() []string {
	out := make([]string, len(c.cubes))
	for i, cube := range c.cubes {
		out[i] = cube.Description()
	}
	return out
}

// Snapshot returns a detached copy of the permanent poses.
func (c *Collection) Snapshot(registry *turns.Registry) *State {
	return &State{cubes: cloneAll(c.cubes), registry: registry}
}

func allHome(cubes []*cubelet.Cubelet) bool {
	for _, cube := range cubes {
		if !cube.IsHome() {
			return false
		}
	}
	return true
}

func cloneAll(cubes []*cubelet.Cubelet) []*cubelet.Cubelet {
	out := make([]*cubelet.Cubelet, len(cubes))
	for i, cube := range cubes {
		out[i] = cube.Clone()
	}
	return out
}

// applyImmediate turns the layer of m to its final pose at once.
func applyImmediate(cubes []*cubelet.Cubelet, m turns.Move) {
	for _, cube := range cubes {
		if m.AppliesTo(cube.Permanent().Pos) {
			cube.Rotate(m.Axis, m.Angle, snapshotFrames)
			cube.Stop()
		}
	}
}
