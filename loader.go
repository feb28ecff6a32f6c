package holo

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// LoadFunc produces a model, typically by reading a file.
type LoadFunc func() (*Model, error)

// LoadResult is what an asynchronous load delivers.
type LoadResult struct {
	Model *Model
	Err   error
}

// LoadAsync runs fn on its own goroutine. The channel receives exactly one
// result and is then closed.
func LoadAsync(fn LoadFunc) <-chan LoadResult {
	ch := make(chan LoadResult, 1)
	go func() {
		defer close(ch)
		m, err := fn()
		ch <- LoadResult{Model: m, Err: err}
	}()
	return ch
}

// LoadModel reads an OBJ, glTF or GLB file by extension.
func LoadModel(path string) (*Model, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return LoadOBJ(path)
	case ".gltf", ".glb":
		return LoadGLTF(path)
	}
	return nil, fmt.Errorf("holo: unsupported model format %q", filepath.Ext(path))
}

type pendingLoad struct {
	name   string
	result <-chan LoadResult
	attach func(*Model) error
}

// Load starts fn in the background. When it finishes, a later tick runs
// attach and adds the model to the scene; the frame loop never waits for
// it. A failed load is logged and the scene carries on without the model.
// An attach error is logged and the model is still added.
func (d *Driver) Load(name string, fn LoadFunc, attach func(*Model) error) {
	d.loads = append(d.loads, &pendingLoad{name: name, result: LoadAsync(fn), attach: attach})
}

// Pending counts loads that have not been attached yet.
func (d *Driver) Pending() int {
	return len(d.loads)
}

func (d *Driver) pollLoads() {
	if len(d.loads) == 0 {
		return
	}
	remaining := d.loads[:0]
	for _, l := range d.loads {
		select {
		case res := <-l.result:
			d.finishLoad(l, res)
		default:
			remaining = append(remaining, l)
		}
	}
	d.loads = remaining
}

func (d *Driver) finishLoad(l *pendingLoad, res LoadResult) {
	if res.Err != nil {
		d.Logger.Warnf("load %s: %v", l.name, res.Err)
		return
	}
	if res.Model == nil {
		d.Logger.Warnf("load %s: no model", l.name)
		return
	}
	if l.attach != nil {
		if err := l.attach(res.Model); err != nil {
			d.Logger.Warnf("attach %s: %v", l.name, err)
		}
	}
	if d.Scene != nil {
		d.Scene.AddModel(res.Model)
	}
	d.Logger.Infof("loaded %s (%d meshes)", l.name, len(res.Model.Children))
}

// WaitLoads blocks until every pending load has finished and been attached,
// or ctx is done.
func (d *Driver) WaitLoads(ctx context.Context) error {
	for len(d.loads) > 0 {
		l := d.loads[0]
		select {
		case <-ctx.Done():
			return ctx.Err()
		case res := <-l.result:
			d.loads = d.loads[1:]
			d.finishLoad(l, res)
		}
	}
	return nil
}
