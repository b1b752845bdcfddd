package ecs

// CommandKind tags a deferred structural change.
type CommandKind uint8

const (
	CommandAddComponent CommandKind = iota
	CommandRemoveComponent
	CommandCreateEntity
	CommandRemoveEntity
	CommandDefer
)

// Command is one queued structural change.
type Command struct {
	Kind      CommandKind
	Entity    EntityID
	Component ComponentID
	Value     []any
	Template  Template
	Setters   []func(row *Row)
	Fn        func()
}

// Commands is an ordered buffer of structural changes applied after every
// system has run for the tick. Systems use it instead of mutating archetypes
// they may be iterating.
type Commands struct {
	queue []Command
}

func newCommands() *Commands {
	return &Commands{}
}

// AddComponent queues adding component c to entity. An optional value
// replaces the component's default.
func (c *Commands) AddComponent(entity EntityID, component ComponentID, value ...any) {
	c.queue = append(c.queue, Command{
		Kind:      CommandAddComponent,
		Entity:    entity,
		Component: component,
		Value:     value,
	})
}

// RemoveComponent queues removing component c from entity.
func (c *Commands) RemoveComponent(entity EntityID, component ComponentID) {
	c.queue = append(c.queue, Command{
		Kind:      CommandRemoveComponent,
		Entity:    entity,
		Component: component,
	})
}

// CreateEntity queues creating an entity from template. Setters run on the new
// row once it exists.
func (c *Commands) CreateEntity(template Template, setters ...func(row *Row)) {
	c.queue = append(c.queue, Command{
		Kind:     CommandCreateEntity,
		Template: template,
		Setters:  setters,
	})
}

// RemoveEntity queues removing entity.
func (c *Commands) RemoveEntity(entity EntityID) {
	c.queue = append(c.queue, Command{
		Kind:   CommandRemoveEntity,
		Entity: entity,
	})
}

// Defer queues an arbitrary function.
func (c *Commands) Defer(fn func()) {
	c.queue = append(c.queue, Command{
		Kind: CommandDefer,
		Fn:   fn,
	})
}

// Pending returns the queued commands in order.
func (c *Commands) Pending() []Command {
	return c.queue
}

// Len returns the number of queued commands.
func (c *Commands) Len() int {
	return len(c.queue)
}

// Flush applies every queued command to world in order, including commands
// queued while flushing, and resets the buffer.
func (c *Commands) Flush(world *World) {
	for i := 0; i < len(c.queue); i++ {
		cmd := c.queue[i]

		switch cmd.Kind {
		case CommandAddComponent:
			world.AddComponent(cmd.Entity, cmd.Component, cmd.Value...)
		case CommandRemoveComponent:
			world.RemoveComponent(cmd.Entity, cmd.Component)
		case CommandCreateEntity:
			world.CreateEntity(cmd.Template, cmd.Setters...)
		case CommandRemoveEntity:
			world.RemoveEntity(cmd.Entity)
		case CommandDefer:
			cmd.Fn()
		}
	}

	clear(c.queue)
	c.queue = c.queue[:0]
}
