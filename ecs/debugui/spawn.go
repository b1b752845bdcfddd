package debugui

// Windows holds the state of the built-in debug windows.
type Windows struct {
	Entities   EntityBrowserComponent
	Inspector  ComponentInspectorComponent
	Archetypes ArchetypeViewerComponent
	Stats      PerformanceStatsComponent
	Queries    QueryDebuggerComponent
	Timer      *FrameTimer

	// FPS, if set, is shown by the stats window. Pass a looper's FPS method.
	FPS func() float64
}

// SpawnDebugUI spawns one entity rendering every built-in window. Clicking an
// archetype filters the entity browser; selecting an entity opens it in the
// inspector.
func SpawnDebugUI(d *Debugger) *Windows {
	w := &Windows{
		Entities:   NewEntityBrowserComponent(100),
		Inspector:  NewComponentInspectorComponent(),
		Archetypes: NewArchetypeViewerComponent(),
		Stats:      NewPerformanceStatsComponent(120),
		Queries:    NewQueryDebuggerComponent(),
		Timer:      NewFrameTimer(),
	}

	d.Spawn(func() {
		if clicked := w.Archetypes.Render(d); clicked != nil {
			w.Entities.FilterArchetype(clicked)
		}
		w.Entities.Render(d)
		w.Inspector.Render(d, w.Entities.GetSelectedEntity())
		w.Stats.Render(d, w.Timer.GetDeltaTime(), w.FPS)
		w.Queries.Render(d)
	})

	return w
}
