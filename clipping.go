package holo

// clipPlanes are the six frustum planes in homogeneous clip space; a point
// p is inside a plane when p.Dot(plane) >= 0.
var clipPlanes = []VectorW{
	{1, 0, 0, 1},
	{-1, 0, 0, 1},
	{0, 1, 0, 1},
	{0, -1, 0, 1},
	{0, 0, 1, 1},
	{0, 0, -1, 1},
}

// ClipTriangle clips t to the view frustum and fans the remaining polygon
// back into triangles.
func ClipTriangle(t *Triangle) []*Triangle {
	polygon := []Vertex{t.V1, t.V2, t.V3}
	for _, plane := range clipPlanes {
		polygon = clipPolygon(polygon, plane)
		if len(polygon) < 3 {
			return nil
		}
	}
	result := make([]*Triangle, 0, len(polygon)-2)
	for i := 1; i < len(polygon)-1; i++ {
		result = append(result, &Triangle{polygon[0], polygon[i], polygon[i+1]})
	}
	return result
}

func clipPolygon(points []Vertex, plane VectorW) []Vertex {
	var result []Vertex
	if len(points) == 0 {
		return result
	}
	s := points[len(points)-1]
	for _, e := range points {
		ds := s.Output.Dot(plane)
		de := e.Output.Dot(plane)
		if de >= 0 {
			if ds < 0 {
				result = append(result, lerpVertex(s, e, ds/(ds-de)))
			}
			result = append(result, e)
		} else if ds >= 0 {
			result = append(result, lerpVertex(s, e, ds/(ds-de)))
		}
		s = e
	}
	return result
}
