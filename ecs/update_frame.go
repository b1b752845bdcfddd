package ecs

// UpdateFrame is passed to every system callback during World.Update.
type UpdateFrame struct {
	DeltaTime float64
	Commands  *Commands
	World     *World
}

func newUpdateFrame(dt float64, world *World) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Commands:  world.commands,
		World:     world,
	}
}
