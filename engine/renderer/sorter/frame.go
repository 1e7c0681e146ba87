package sorter

import (
	"github.com/spaghettifunk/anima/engine/renderer/metadata"
	"github.com/spaghettifunk/anima/engine/resources"
	"github.com/spaghettifunk/anima/engine/scene"
)

// FrameDriver drives one target's per-frame render, including its
// post-effect ping-pong chain, reusing one PostEffectSorter across every
// target it is asked to render.
type FrameDriver struct {
	PostEffects *PostEffectSorter
}

// NewFrameDriver returns a FrameDriver with its own post-effect sorter.
func NewFrameDriver() *FrameDriver {
	return &FrameDriver{PostEffects: NewPostEffectSorter()}
}

// RenderRenderTarget runs target's full per-frame sequence: begin, cull,
// then either a direct render or, if target has post-effects, the
// ping-pong chain between postA and postB, then end. It sets no default
// pipeline state before rendering.
func (d *FrameDriver) RenderRenderTarget(scn *scene.Scene, target *RenderTarget, gpu Renderer, postA, postB *resources.Texture) error {
	gpu.Stats().Reset()

	target.BeginRendering(scn)
	target.CullFromCamera(scn)

	if len(target.PostEffects) == 0 || postA == nil {
		if err := gpu.BindFramebuffer(target.DestinationTexture); err != nil {
			return err
		}
		gpu.SetViewport(Viewport{Width: target.Width, Height: target.Height})
		if err := gpu.Clear(true, true, true); err != nil {
			return err
		}
		if err := target.Render(gpu); err != nil {
			return err
		}
		target.EndRendering()
		return nil
	}

	if err := d.renderPostEffectChain(scn, target, gpu, postA, postB); err != nil {
		return err
	}
	target.EndRendering()
	return nil
}

// renderPostEffectChain implements the ping-pong sequence from spec 4.9
// step 5: the scene renders into postA, then each intermediate pass
// alternates postA/postB as source and destination, and the final pass
// writes to the target's own destination framebuffer.
func (d *FrameDriver) renderPostEffectChain(scn *scene.Scene, target *RenderTarget, gpu Renderer, postA, postB *resources.Texture) error {
	savedViewport := gpu.SetViewport(Viewport{Width: target.Width, Height: target.Height})

	if err := gpu.BindFramebuffer(postA); err != nil {
		return err
	}
	gpu.SetViewport(Viewport{Width: target.Width, Height: target.Height})
	if err := gpu.Clear(true, true, true); err != nil {
		return err
	}
	if err := target.Render(gpu); err != nil {
		return err
	}

	passCount := len(target.PostEffects)
	current := postA
	for i := 0; i < passCount-1; i++ {
		var dest *resources.Texture
		if i%2 == 0 {
			dest = postB
		} else {
			dest = postA
		}
		if err := gpu.BindFramebuffer(dest); err != nil {
			return err
		}
		gpu.SetViewport(Viewport{Width: target.Width, Height: target.Height})
		if err := gpu.Clear(true, true, true); err != nil {
			return err
		}
		if err := d.renderPostEffectData(target.State, current, target.PostEffects[i], gpu); err != nil {
			return err
		}
		current = dest
	}

	if err := gpu.BindFramebuffer(target.DestinationTexture); err != nil {
		return err
	}
	gpu.SetViewport(savedViewport)
	if err := gpu.Clear(true, true, true); err != nil {
		return err
	}
	if err := d.renderPostEffectData(target.State, current, target.PostEffects[passCount-1], gpu); err != nil {
		return err
	}
	return nil
}

// renderPostEffectData runs the post-effect sorter for a single pass,
// reading inputTexture and writing whatever framebuffer is currently bound.
func (d *FrameDriver) renderPostEffectData(state *RenderState, inputTexture *resources.Texture, pass *metadata.RenderPass, gpu Renderer) error {
	d.PostEffects.Prepare(pass, inputTexture)
	if err := d.PostEffects.Validate(state, gpu); err != nil {
		return err
	}
	return d.PostEffects.Submit(state, gpu)
}
