package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/spaghettifunk/anima/engine/core"
	"github.com/spaghettifunk/anima/engine/math"
	"github.com/spaghettifunk/anima/engine/platform"
	"github.com/spaghettifunk/anima/engine/renderer/components"
	"github.com/spaghettifunk/anima/engine/renderer/sorter"
	"github.com/spaghettifunk/anima/engine/renderer/vulkan"
	"github.com/spaghettifunk/anima/engine/scene"
	"github.com/spaghettifunk/anima/engine/systems"
)

type ApplicationConfig struct {
	// Window starting position x axis, if applicable.
	StartPosX uint32
	// Window starting position y axis, if applicable.
	StartPosY uint32
	// Window starting width, if applicable.
	StartWidth uint32
	// Window starting height, if applicable.
	StartHeight uint32
	// The application name used in windowing, if applicable.
	Name string
	// The minimum severity the engine's logger emits.
	LogLevel core.Level
}

type applicationState struct {
	GameInstance  *Game
	IsRunning     bool
	IsSuspended   bool
	PlatformState *platform.Platform
	Width         uint32
	Height        uint32
	Clock         *core.Clock
	LastTime      float64

	// CoreScene/CoreTarget/CoreGPU/CoreFrames drive the retained-mode
	// cull/validate/sort/submit pipeline once per frame, independent of
	// GameInstance.SystemManager's legacy render-view path.
	CoreScene  *scene.Scene
	CoreTarget *sorter.RenderTarget
	CoreGPU    sorter.Renderer
	CoreFrames *sorter.FrameDriver
}

var newApplication sync.Once

var (
	initialize bool = false
	appState   *applicationState
)

func ApplicationCreate(gameInstance *Game) error {
	if initialize {
		return fmt.Errorf("application already initialized")
	}

	newApplication.Do(func() {
		appState = &applicationState{
			GameInstance: gameInstance,
			Clock:        core.NewClock(),
			IsRunning:    true,
			IsSuspended:  false,
			Width:        0,
			Height:       0,
			LastTime:     0,
		}
	})

	// initialize input
	if err := core.InputInitialize(); err != nil {
		return err
	}

	// initialize events
	if !core.EventInitialize() {
		return fmt.Errorf("failed to initialize the event system")
	}

	// register some events
	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, 0, applicationOnEvent)
	core.EventRegister(core.EVENT_CODE_KEY_PRESSED, 0, applicationOnKey)
	core.EventRegister(core.EVENT_CODE_KEY_RELEASED, 0, applicationOnKey)
	core.EventRegister(core.EVENT_CODE_RESIZED, 0, applicationOnResized)

	p, err := platform.New()
	if err != nil {
		return err
	}

	if err := p.Startup(appState.GameInstance.ApplicationConfig.Name,
		appState.GameInstance.ApplicationConfig.StartPosX,
		appState.GameInstance.ApplicationConfig.StartPosY,
		appState.GameInstance.ApplicationConfig.StartWidth,
		appState.GameInstance.ApplicationConfig.StartHeight); err != nil {
		return err
	}
	appState.PlatformState = p
	appState.Width = appState.GameInstance.ApplicationConfig.StartWidth
	appState.Height = appState.GameInstance.ApplicationConfig.StartHeight

	core.SetLevel(appState.GameInstance.ApplicationConfig.LogLevel)

	// initialize renderer (legacy render-view path: camera/geometry/
	// material/shader/texture systems, used by game code that still builds
	// RenderPacket/RenderViewPacket frames directly)
	sm, err := systems.NewSystemManager(appState.GameInstance.ApplicationConfig.Name, appState.Width, appState.Height, p)
	if err != nil {
		return err
	}
	appState.GameInstance.SystemManager = sm

	if err := appState.setupCoreRenderPath(); err != nil {
		return err
	}

	if appState.GameInstance.FnBoot != nil {
		if err := appState.GameInstance.FnBoot(); err != nil {
			return err
		}
	}

	if err := appState.GameInstance.FnInitialize(); err != nil {
		return err
	}

	if err := appState.GameInstance.FnOnResize(appState.Width, appState.Height); err != nil {
		return err
	}

	initialize = true

	return nil
}

// setupCoreRenderPath builds the scene graph, camera rig, and
// cull/validate/sort/submit RenderTarget that drive the retained-mode
// renderer core each frame. It owns its own VulkanRenderer rather than
// sharing SystemManager.RendererSystem's, since that system does not yet
// expose its backend for reuse (see coreadapter.go's CreateTransformBlock
// doc comment for the matching gap on the buffer side).
func (a *applicationState) setupCoreRenderPath() error {
	backend := vulkan.New(a.PlatformState)
	a.CoreGPU = vulkan.NewCoreRenderer(backend)
	a.CoreFrames = sorter.NewFrameDriver()

	a.CoreScene = scene.NewScene()

	camera := components.NewCamera()
	camera.SetPosition(math.NewVec3(0, 0, 0))
	rig := scene.NewMonoCameraRig(camera)

	aspect := float32(1.0)
	if a.Height != 0 {
		aspect = float32(a.Width) / float32(a.Height)
	}
	proj := math.NewMat4Perspective(math.DegToRad(45.0), aspect, 0.1, 1000.0)

	target := sorter.NewRenderTarget("main", rig, sorter.NewMainSceneSorter(), sorter.MaxMatricesPerBlock)
	target.ProjLeft = proj
	target.ProjRight = proj
	target.Width = int32(a.Width)
	target.Height = int32(a.Height)
	a.CoreTarget = target

	return nil
}

const targetFrameSeconds = 1.0 / 60.0

func ApplicationRun() error {
	appState.Clock.Start()
	appState.Clock.Update()

	appState.LastTime = appState.Clock.Elapsed()

	for appState.IsRunning {
		appState.PlatformState.PumpMessages()

		if appState.IsSuspended {
			continue
		}

		appState.Clock.Update()
		currentTime := appState.Clock.Elapsed()
		deltaTime := (currentTime - appState.LastTime) / float64(time.Second)
		frameStart := currentTime

		if err := appState.GameInstance.FnUpdate(deltaTime); err != nil {
			core.LogError("game update failed: %s", err.Error())
			appState.IsRunning = false
			break
		}

		if err := appState.GameInstance.FnRender(deltaTime); err != nil {
			core.LogError("game render failed: %s", err.Error())
			appState.IsRunning = false
			break
		}

		if appState.CoreTarget != nil {
			if err := appState.CoreFrames.RenderRenderTarget(appState.CoreScene, appState.CoreTarget, appState.CoreGPU, nil, nil); err != nil {
				core.LogError("core render failed: %s", err.Error())
				appState.IsRunning = false
				break
			}
		}

		appState.Clock.Update()
		frameElapsedSeconds := (appState.Clock.Elapsed() - frameStart) / float64(time.Second)
		remainingSeconds := targetFrameSeconds - frameElapsedSeconds
		if remainingSeconds > 0 {
			time.Sleep(time.Duration(remainingSeconds * float64(time.Second)))
		}

		if err := core.InputUpdate(deltaTime); err != nil {
			core.LogError("input update failed: %s", err.Error())
		}

		appState.LastTime = currentTime
	}

	if appState.GameInstance.FnShutdown != nil {
		if err := appState.GameInstance.FnShutdown(); err != nil {
			return err
		}
	}

	return nil
}

// ApplicationGetFramebufferSize returns the width and height (in this order)
// of the application Framebuffer
func ApplicationGetFramebufferSize() (uint32, uint32) {
	return 0, 0
}

func applicationOnEvent(code core.SystemEventCode, sender interface{}, listener_inst interface{}, context core.EventContext) bool {
	switch code {
	case core.EVENT_CODE_APPLICATION_QUIT:
		{
			core.LogInfo("EVENT_CODE_APPLICATION_QUIT recieved, shutting down.\n")
			appState.IsRunning = false
			return true
		}
	}
	return false
}

func applicationOnKey(code core.SystemEventCode, sender interface{}, listener_inst interface{}, context core.EventContext) bool {
	if code == core.EVENT_CODE_KEY_PRESSED {
		key_code := context.Data.U16[0]
		if key_code == uint16(core.KEY_ESCAPE) {
			// NOTE: Technically firing an event to itself, but there may be other listeners.
			data := core.EventContext{}
			core.EventFire(core.EVENT_CODE_APPLICATION_QUIT, 0, data)
			// Block anything else from processing this.
			return true
		} else if key_code == uint16(core.KEY_A) {
			// Example on checking for a key
			core.LogDebug("Explicit - A key pressed!")
		} else {
			core.LogDebug("'%c' key pressed in window.", key_code)
		}
	} else if code == core.EVENT_CODE_KEY_RELEASED {
		key_code := context.Data.U16[0]
		if key_code == uint16(core.KEY_B) {
			// Example on checking for a key
			core.LogDebug("Explicit - B key released!")
		} else {
			core.LogDebug("'%c' key released in window.", key_code)
		}
	}
	return false
}

func applicationOnResized(code core.SystemEventCode, sender interface{}, listener_inst interface{}, context core.EventContext) bool {
	if code == core.EVENT_CODE_RESIZED {
		width := context.Data.U16[0]
		height := context.Data.U16[1]

		// Check if different. If so, trigger a resize event.
		if width != uint16(appState.Width) || height != uint16(appState.Height) {
			appState.Width = uint32(width)
			appState.Height = uint32(height)

			core.LogDebug("Window resize: %d, %d", width, height)

			// Handle minimization
			if width == 0 || height == 0 {
				core.LogInfo("Window minimized, suspending application.")
				appState.IsSuspended = true
				return true
			} else {
				if appState.IsSuspended {
					core.LogInfo("Window restored, resuming application.")
					appState.IsSuspended = false
				}
				appState.GameInstance.FnOnResize(uint32(width), uint32(height))

				// renderer_on_resized(width, height)
			}
		}
	}
	// Event purposely not handled to allow other listeners to get this.
	return false
}
