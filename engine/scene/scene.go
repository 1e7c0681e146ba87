package scene

import (
	"sync"

	"github.com/spaghettifunk/anima/engine/renderer/components"
	"github.com/spaghettifunk/anima/engine/renderer/metadata"
)

// CameraRig bundles the camera(s) used to render a frame: a single Camera
// for mono rendering, or a Left/Right pair for stereo. Left is also used as
// the mono camera when the rig is not stereo.
type CameraRig struct {
	Left  *components.Camera
	Right *components.Camera
	Node  *Node // the node this rig tracks, if attached to the graph
}

// NewMonoCameraRig wraps a single camera for non-stereo rendering.
func NewMonoCameraRig(cam *components.Camera) *CameraRig {
	return &CameraRig{Left: cam, Right: cam}
}

// NewStereoCameraRig wraps a left/right eye pair.
func NewStereoCameraRig(left, right *components.Camera) *CameraRig {
	return &CameraRig{Left: left, Right: right}
}

// IsStereo reports whether the rig has distinct left/right cameras.
func (r *CameraRig) IsStereo() bool { return r.Left != r.Right }

// Scene owns the root of the scene graph, the set of lights, the active
// camera rig, and the host-language bridge hooks the render pipeline calls
// synchronously from validate (shader regeneration) and from shadow-map
// setup (depth shader generation).
//
// Mutation of the graph's parent/child links and attached components is
// guarded by a single process-wide-per-scene lock; the render thread reads
// Transform world matrices during cull without holding it, treating them as
// a per-frame snapshot (see package doc for the concurrency rationale).
type Scene struct {
	mu sync.Mutex

	Root   *Node
	Lights *metadata.LightList

	MainCameraRig *CameraRig

	// GenerateShader is invoked synchronously from validate when a
	// RenderPass is dirty and needs a shader (re)built for the current
	// light signature.
	GenerateShader func(pass *metadata.RenderPass, lightSignature string) (*metadata.Shader, error)

	// MakeDepthShaders is invoked once, synchronously, the first time a
	// frame needs shadow maps and no depth shaders exist yet.
	MakeDepthShaders func() error

	depthShadersReady bool
}

// NewScene creates an empty scene with a root node named "scene-root".
func NewScene() *Scene {
	return &Scene{
		Root:   NewNode("scene-root"),
		Lights: metadata.NewLightList(),
	}
}

// Lock acquires the scene graph ownership lock. Callers that mutate
// parent/child links or attached components must hold it; the render
// thread does not hold it across a frame, only (if ever) for the brief
// structural operations it performs between frames.
func (s *Scene) Lock() { s.mu.Lock() }

// Unlock releases the scene graph ownership lock.
func (s *Scene) Unlock() { s.mu.Unlock() }

// EnsureDepthShaders invokes MakeDepthShaders on the first call and returns
// its error. Once a call has succeeded (or no hook is set) later calls do
// nothing; after a failed call the hook is invoked again on the next one.
func (s *Scene) EnsureDepthShaders() error {
	if s.depthShadersReady {
		return nil
	}
	if s.MakeDepthShaders != nil {
		if err := s.MakeDepthShaders(); err != nil {
			return err
		}
	}
	s.depthShadersReady = true
	return nil
}
