// Package ebiten provides Dear ImGui backend integration for the Ebiten game engine.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/seele/ecs/debugui"
)

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend implementation.
// Call BeginFrame before updating the world and EndFrame after it, so the
// debug UI's deferred render functions run inside the ImGui frame.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend

	debugger *debugui.Debugger
}

// NewImguiBackend creates the backend and its window. The debugger's input
// state is refreshed at the start of every frame.
func NewImguiBackend(title string, width, height int, debugger *debugui.Debugger) *ImguiBackend {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")

	return &ImguiBackend{
		EbitenBackend: backend,
		debugger:      debugger,
	}
}

// BeginFrame starts an ImGui frame and refreshes the debugger's input state.
func (b *ImguiBackend) BeginFrame() {
	b.EbitenBackend.BeginFrame()
	if b.debugger != nil {
		b.debugger.RefreshInput()
	}
}
