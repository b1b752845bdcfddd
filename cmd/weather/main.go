package main

import (
	"flag"
	"image/color"
	"math/rand"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"

	"github.com/plus3/seele/ecs"
	"github.com/plus3/seele/ecs/debugui"
	debugui_ebiten "github.com/plus3/seele/ecs/debugui/ebiten"
	"github.com/plus3/seele/looper"
	"github.com/plus3/seele/looper/ebitenhost"
)

const (
	screenWidth  = 800
	screenHeight = 600
	creatureSize = 8
)

var stateColors = map[string]color.RGBA{
	"normal": {R: 0x4c, G: 0xaf, B: 0x50, A: 0xff},
	"frozen": {R: 0x42, G: 0xa5, B: 0xf5, A: 0xff},
	"hot":    {R: 0xef, G: 0x53, B: 0x50, A: 0xff},
}

// Game wires the world, the fixed-step loop and the debug overlay into
// Ebiten's update and draw callbacks.
type Game struct {
	weather *Weather
	host    *ebitenhost.Host
	loop    *looper.Looper

	debugger *debugui.Debugger
	imgui    *debugui_ebiten.ImguiBackend
}

func (g *Game) Update() error {
	if g.imgui != nil {
		g.imgui.BeginFrame()
		defer g.imgui.EndFrame()
	}
	return g.host.Update()
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 0x20, G: 0x20, B: 0x28, A: 0xff})

	for _, row := range g.weather.Visible {
		p, ok := ecs.Lookup[*Vec2](row, g.weather.Components.Position)
		if !ok {
			continue
		}
		vector.DrawFilledRect(screen, float32(p.X), float32(p.Y), creatureSize, creatureSize, stateColors[g.weather.State(row)], false)
	}

	if g.imgui != nil {
		g.imgui.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.imgui != nil {
		g.imgui.Layout(outsideWidth, outsideHeight)
	}
	return g.host.Layout(outsideWidth, outsideHeight)
}

func main() {
	creatures := flag.Int("creatures", 1000, "Number of creatures to spawn.")
	seed := flag.Int64("seed", 1, "Random seed.")
	loopConfig := flag.String("looper", "", "YAML file with looper options.")
	debug := flag.Bool("debug", true, "Show the ECS debug windows.")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	opts := looper.DefaultOptions()
	if *loopConfig != "" {
		f, err := os.Open(*loopConfig)
		if err != nil {
			logger.Fatal("failed to open looper options", zap.Error(err))
		}
		opts, err = looper.LoadOptions(f)
		f.Close()
		if err != nil {
			logger.Fatal("invalid looper options", zap.Error(err))
		}
	}

	world := ecs.NewWorld(ecs.WithLogger(ecs.NewZapLogger(logger)), ecs.WithDevelopment(true))
	area := Area{Left: 0, Right: screenWidth - 50, Top: 0, Bottom: screenHeight - 50}
	weather := NewWeather(world, area, rand.New(rand.NewSource(*seed)))

	game := &Game{weather: weather, host: ebitenhost.New()}
	game.loop = looper.New(game.host.Scheduler(), opts)

	if *debug {
		game.debugger = debugui.New(world)
		game.debugger.SetComponentName(weather.Components.Freeze, "Freeze")
		game.debugger.SetComponentName(weather.Components.Hot, "Hot")
		game.debugger.SetComponentName(weather.Components.Position, "Position")
		game.debugger.SetComponentName(weather.Components.Direction, "Direction")
		game.debugger.SetComponentName(weather.Components.HP, "HP")
		game.debugger.SetComponentName(weather.Components.Name, "Name")
		windows := debugui.SpawnDebugUI(game.debugger)
		windows.FPS = game.loop.FPS
		game.imgui = debugui_ebiten.NewImguiBackend("Seele Weather", screenWidth, screenHeight, game.debugger)
	} else {
		ebiten.SetWindowSize(screenWidth, screenHeight)
		ebiten.SetWindowTitle("Seele Weather")
	}

	world.Init()
	weather.Spawn(*creatures)

	game.loop.SetUpdate(world.Update)
	game.loop.SetRender(func(float64) {
		if game.debugger != nil {
			game.debugger.Render()
		}
	})
	game.loop.SetAfterUpdate(func(fps float64, panic bool) {
		if panic {
			discarded := game.loop.ResetFrameDelta()
			logger.Warn("simulation fell behind", zap.Float64("discarded_ms", discarded), zap.Float64("fps", fps))
		}
	})
	game.host.OnUpdate = func() error {
		if ebiten.IsKeyPressed(ebiten.KeyEscape) {
			return ebiten.Termination
		}
		return nil
	}

	game.loop.Start()
	if err := ebiten.RunGame(game); err != nil {
		logger.Fatal("game exited", zap.Error(err))
	}
}
