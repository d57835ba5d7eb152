package cubelet

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/SeamusWaldron/cubr/internal/vecmath"
)

// Mesh is the render buffer set for one cubelet: one quad per side in
// direction order, textured from a palette strip of eight rows.
type Mesh struct {
	Vertices  [72]float32 // 24 vertices, xyz
	Normals   [72]float32 // 24 normals, xyz
	TexCoords [48]float32 // 24 coordinates, uv
	Indices   [36]uint16  // two triangles per side
}

// paletteRowHeight is the texture height of one palette row.
const paletteRowHeight = 0.125

// Mesh builds the render buffers from the live pose.
func (c *Cubelet) Mesh() Mesh {
	var m Mesh

	n := normals(c.live)
	r := c.length * 0.5
	f := r3.Scale(r, n[DirFront])
	b := r3.Scale(r, n[DirBack])
	u := r3.Scale(r, n[DirUp])
	d := r3.Scale(r, n[DirDown])
	rt := r3.Scale(r, n[DirRight])
	l := r3.Scale(r, n[DirLeft])

	at := func(vs ...vecmath.Vec) vecmath.Vec {
		p := c.live.Pos
		for _, v := range vs {
			p = r3.Add(p, v)
		}
		return p
	}
	ful, fur := at(f, u, l), at(f, u, rt)
	fdl, fdr := at(f, d, l), at(f, d, rt)
	bul, bur := at(b, u, l), at(b, u, rt)
	bdl, bdr := at(b, d, l), at(b, d, rt)

	quads := [6][4]vecmath.Vec{
		{ful, fur, fdr, fdl}, // front
		{bul, bur, bdr, bdl}, // back
		{ful, bul, bur, fur}, // top
		{fdl, bdl, bdr, fdr}, // bottom
		{fur, fdr, bdr, bur}, // right
		{ful, fdl, bdl, bul}, // left
	}

	for side, quad := range quads {
		row := float32(c.labels[side].paletteIndex())
		top := 1 - paletteRowHeight*row
		bottom := 1 - paletteRowHeight*(row+1)
		uv := [4][2]float32{{0, top}, {1, top}, {1, bottom}, {0, bottom}}

		for k, v := range quad {
			vi := side*4 + k
			m.Vertices[vi*3] = float32(v.X)
			m.Vertices[vi*3+1] = float32(v.Y)
			m.Vertices[vi*3+2] = float32(v.Z)

			m.Normals[vi*3] = float32(n[side].X)
			m.Normals[vi*3+1] = float32(n[side].Y)
			m.Normals[vi*3+2] = float32(n[side].Z)

			m.TexCoords[vi*2] = uv[k][0]
			m.TexCoords[vi*2+1] = uv[k][1]
		}

		base := uint16(side * 4)
		copy(m.Indices[side*6:], []uint16{base, base + 1, base + 2, base, base + 2, base + 3})
	}

	return m
}
