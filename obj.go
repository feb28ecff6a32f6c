package holo

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// LoadOBJ reads a Wavefront OBJ file. Each "o" or "g" statement starts a
// named child; faces before the first one go to a child named after the file.
func LoadOBJ(path string) (*Model, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return LoadOBJFromReader(name, file)
}

func LoadOBJFromBytes(name string, b []byte) (*Model, error) {
	return LoadOBJFromReader(name, bytes.NewReader(b))
}

func LoadOBJFromReader(name string, r io.Reader) (*Model, error) {
	vs := make([]Vector, 1, 1024)
	vts := make([]Vector, 1, 1024)
	vns := make([]Vector, 1, 1024)

	model := NewModel(name)
	current := name
	var triangles []*Triangle
	flush := func() {
		if len(triangles) > 0 {
			model.Children = append(model.Children, NewObjectFromMesh(current, NewTriangleMesh(triangles)))
		}
		triangles = nil
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if len(line) < 2 || line[0] == '#' {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "o", "g":
			flush()
			if len(fields) > 1 {
				current = strings.Join(fields[1:], " ")
			}
		case "v", "vn":
			if len(fields) < 4 {
				return nil, fmt.Errorf("holo: obj line %d: %q needs 3 components", lineNo, fields[0])
			}
			v := Vector{pf(fields[1]), pf(fields[2]), pf(fields[3])}
			if fields[0] == "v" {
				vs = append(vs, v)
			} else {
				vns = append(vns, v)
			}
		case "vt":
			if len(fields) < 3 {
				return nil, fmt.Errorf("holo: obj line %d: vt needs 2 components", lineNo)
			}
			vts = append(vts, Vector{pf(fields[1]), pf(fields[2]), 0})
		case "f":
			fvs, fvts, fvns := parseFace(fields[1:], len(vs), len(vts), len(vns))
			for _, i := range fvs {
				if i <= 0 || i >= len(vs) {
					return nil, fmt.Errorf("holo: obj line %d: vertex index out of range", lineNo)
				}
			}
			for i := 1; i < len(fvs)-1; i++ {
				t := &Triangle{}
				i1, i2, i3 := 0, i, i+1

				t.V1.Position = vs[fvs[i1]]
				t.V2.Position = vs[fvs[i2]]
				t.V3.Position = vs[fvs[i3]]

				if validIndex(fvns, len(vns), i1, i2, i3) {
					t.V1.Normal = vns[fvns[i1]]
					t.V2.Normal = vns[fvns[i2]]
					t.V3.Normal = vns[fvns[i3]]
				}
				if validIndex(fvts, len(vts), i1, i2, i3) {
					t.V1.Texture = vts[fvts[i1]]
					t.V2.Texture = vts[fvts[i2]]
					t.V3.Texture = vts[fvts[i3]]
				}
				t.SetColor(White)
				t.FixNormals()
				triangles = append(triangles, t)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()
	return model, nil
}

func validIndex(indices []int, length int, is ...int) bool {
	for _, i := range is {
		if indices[i] <= 0 || indices[i] >= length {
			return false
		}
	}
	return true
}

// Helper for fast float parsing
func pf(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

// Helper to handle negative indices in OBJ
func fixIndex(value string, length int) int {
	if value == "" {
		return 0
	}
	parsed, _ := strconv.Atoi(value)
	if parsed < 0 {
		return parsed + length
	}
	return parsed
}

// parseFace handles the v, v/vt, v//vn and v/vt/vn forms.
func parseFace(args []string, nv, nvt, nvn int) ([]int, []int, []int) {
	n := len(args)
	vi := make([]int, n)
	vt := make([]int, n)
	vn := make([]int, n)

	for i, s := range args {
		parts := strings.Split(s, "/")
		vi[i] = fixIndex(parts[0], nv)
		if len(parts) > 1 {
			vt[i] = fixIndex(parts[1], nvt)
		}
		if len(parts) > 2 {
			vn[i] = fixIndex(parts[2], nvn)
		}
	}
	return vi, vt, vn
}
