package main

import (
	"fmt"
	"log"
	"os"

	"github.com/netisu/holo"
)

// Prints the named meshes of a model and checks them against the mesh
// bindings of the reference scene.
func main() {
	path := "kylo_rens_helmet-transformed.glb"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	fmt.Println("--- STARTING DEBUG ---")
	model, err := holo.LoadModel(path)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("--- MODEL %s ---\n", model.Name)
	total := 0
	for _, c := range model.Children {
		box := c.Mesh.BoundingBox()
		total += len(c.Mesh.Triangles)
		fmt.Printf("%-16s triangles %-7d center %+v size %+v\n",
			c.Name, len(c.Mesh.Triangles), box.Center(), box.Size())
	}
	box := model.BoundingBox()
	fmt.Printf("Triangles: %d\n", total)
	fmt.Printf("Bounding Box Min: %+v\n", box.Min)
	fmt.Printf("Bounding Box Max: %+v\n", box.Max)

	merged := model.Merged()
	tight := merged.BoundingBox()
	fmt.Printf("Merged: %d triangles, tight box %+v .. %+v\n", len(merged.Triangles), tight.Min, tight.Max)

	bindings := make(map[string]holo.Shader)
	for _, m := range holo.DefaultConfig().Meshes {
		bindings[m.Name] = holo.NewBasicShader(holo.White)
	}
	if err := model.AssignMaterials(bindings); err != nil {
		fmt.Printf("Mesh bindings do NOT match: %v\n", err)
	} else {
		fmt.Printf("Mesh bindings match!\n")
	}
}
