package scene

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/anima/engine/renderer/components"
)

func TestNewMonoCameraRigIsNotStereo(t *testing.T) {
	rig := NewMonoCameraRig(&components.Camera{})
	if rig.IsStereo() {
		t.Fatal("IsStereo() = true for a mono rig")
	}
}

func TestNewStereoCameraRigIsStereo(t *testing.T) {
	rig := NewStereoCameraRig(&components.Camera{}, &components.Camera{})
	if !rig.IsStereo() {
		t.Fatal("IsStereo() = false for a stereo rig")
	}
}

func TestNewSceneHasRootAndLights(t *testing.T) {
	s := NewScene()
	if s.Root == nil {
		t.Fatal("NewScene() Root is nil")
	}
	if s.Lights == nil {
		t.Fatal("NewScene() Lights is nil")
	}
}

func TestEnsureDepthShadersRunsExactlyOnce(t *testing.T) {
	s := NewScene()
	calls := 0
	s.MakeDepthShaders = func() error {
		calls++
		return nil
	}

	if err := s.EnsureDepthShaders(); err != nil {
		t.Fatalf("EnsureDepthShaders() error: %v", err)
	}
	if err := s.EnsureDepthShaders(); err != nil {
		t.Fatalf("EnsureDepthShaders() second call error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("MakeDepthShaders called %d times, want 1", calls)
	}
}

func TestEnsureDepthShadersPropagatesErrorAndRetries(t *testing.T) {
	s := NewScene()
	calls := 0
	wantErr := errors.New("no depth pipeline")
	s.MakeDepthShaders = func() error {
		calls++
		return wantErr
	}

	if err := s.EnsureDepthShaders(); !errors.Is(err, wantErr) {
		t.Fatalf("EnsureDepthShaders() error = %v, want %v", err, wantErr)
	}
	if err := s.EnsureDepthShaders(); !errors.Is(err, wantErr) {
		t.Fatalf("EnsureDepthShaders() second error = %v, want %v", err, wantErr)
	}
	if calls != 2 {
		t.Fatalf("MakeDepthShaders called %d times, want 2 since a failure must not latch depthShadersReady", calls)
	}
}

func TestEnsureDepthShadersWithNoHookIsANoop(t *testing.T) {
	s := NewScene()
	if err := s.EnsureDepthShaders(); err != nil {
		t.Fatalf("EnsureDepthShaders() error = %v, want nil when no MakeDepthShaders hook is set", err)
	}
}
