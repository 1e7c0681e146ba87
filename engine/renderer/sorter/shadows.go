package sorter

import (
	"github.com/spaghettifunk/anima/engine/renderer/metadata"
	"github.com/spaghettifunk/anima/engine/scene"
)

// RenderShadowMaps walks scn's light list and, for every enabled light
// carrying a RenderTarget shadow map, assigns it a contiguous zero-based
// layer index and renders the scene into it from the light's camera using
// the target's own sorter. Lights without a shadow map get shadow_map_index
// -1.
func RenderShadowMaps(scn *scene.Scene, gpu Renderer) error {
	layer := 0
	var err error
	scn.Lights.ForEach(func(l *metadata.Light) {
		if err != nil || !l.Enabled || l.ShadowTarget == nil {
			l.ShadowMapIndex = -1
			return
		}
		target, ok := l.ShadowTarget.(*RenderTarget)
		if !ok {
			l.ShadowMapIndex = -1
			return
		}
		target.SetEnabled(true)
		target.SetLayerIndex(layer)
		l.ShadowMapIndex = int32(layer)
		layer++

		target.BeginRendering(scn)
		target.CullFromCamera(scn)
		if renderErr := target.Render(gpu); renderErr != nil {
			err = renderErr
			return
		}
		target.EndRendering()
	})
	return err
}
