package holo

import "math"

// NewSphere builds a UV sphere with outward counter-clockwise faces and
// texture coordinates matching an equirectangular image.
func NewSphere(radius float64, widthSegments, heightSegments int) *Mesh {
	if widthSegments < 3 {
		widthSegments = 3
	}
	if heightSegments < 2 {
		heightSegments = 2
	}
	grid := make([][]Vertex, heightSegments+1)
	for iy := 0; iy <= heightSegments; iy++ {
		v := float64(iy) / float64(heightSegments)
		row := make([]Vertex, widthSegments+1)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float64(ix) / float64(widthSegments)
			phi := u * 2 * math.Pi
			theta := v * math.Pi
			n := Vector{
				-math.Cos(phi) * math.Sin(theta),
				math.Cos(theta),
				math.Sin(phi) * math.Sin(theta),
			}
			row[ix] = Vertex{
				Position: n.MulScalar(radius),
				Normal:   n,
				Texture:  Vector{u, 1 - v, 0},
				Color:    White,
			}
		}
		grid[iy] = row
	}

	var triangles []*Triangle
	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := grid[iy][ix+1]
			b := grid[iy][ix]
			c := grid[iy+1][ix]
			d := grid[iy+1][ix+1]
			if iy != 0 {
				triangles = append(triangles, &Triangle{a, b, d})
			}
			if iy != heightSegments-1 {
				triangles = append(triangles, &Triangle{b, c, d})
			}
		}
	}
	return NewTriangleMesh(triangles)
}
