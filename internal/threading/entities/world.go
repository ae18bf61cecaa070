package entities

// EntityID is a unique identifier for entities. It indexes every component
// array of the World that owns it.
type EntityID int

// Vec2 is a 2D position or velocity
type Vec2 struct {
	X, Y float64
}

// World stores entity components as parallel arrays indexed by EntityID.
//
// Spawn and Despawn must only be called between scheduler cycles. During a
// cycle each entity's components are written solely by the slice that owns it.
type World struct {
	Width, Height float64

	Positions  []Vec2
	Velocities []Vec2
	Lifetimes  []int // remaining frames, <= 0 never expires

	alive   []bool
	expired []bool
	free    []EntityID

	ids   []EntityID
	dirty bool
}

// NewWorld creates an empty world with the given bounds
func NewWorld(width, height float64) *World {
	return &World{Width: width, Height: height}
}

// Spawn adds an entity, reusing a freed id when one is available
func (w *World) Spawn(pos, vel Vec2, lifetime int) EntityID {
	var id EntityID
	if n := len(w.free); n > 0 {
		id = w.free[n-1]
		w.free = w.free[:n-1]
	} else {
		id = EntityID(len(w.alive))
		w.Positions = append(w.Positions, Vec2{})
		w.Velocities = append(w.Velocities, Vec2{})
		w.Lifetimes = append(w.Lifetimes, 0)
		w.alive = append(w.alive, false)
		w.expired = append(w.expired, false)
	}

	w.Positions[id] = pos
	w.Velocities[id] = vel
	w.Lifetimes[id] = lifetime
	w.alive[id] = true
	w.expired[id] = false
	w.dirty = true
	return id
}

// Despawn removes an entity; unknown or dead ids are ignored
func (w *World) Despawn(id EntityID) {
	if !w.Alive(id) {
		return
	}
	w.alive[id] = false
	w.expired[id] = false
	w.free = append(w.free, id)
	w.dirty = true
}

// Alive reports whether id refers to a live entity
func (w *World) Alive(id EntityID) bool {
	return id >= 0 && int(id) < len(w.alive) && w.alive[id]
}

// Count returns the number of live entities
func (w *World) Count() int {
	return len(w.alive) - len(w.free)
}

// Items returns live entity ids in ascending order. The slice is rebuilt only
// after Spawn/Despawn and must not be modified by callers.
func (w *World) Items() []EntityID {
	if w.dirty || w.ids == nil {
		w.ids = w.ids[:0]
		for i, alive := range w.alive {
			if alive {
				w.ids = append(w.ids, EntityID(i))
			}
		}
		w.dirty = false
	}
	return w.ids
}

// markExpired flags an entity for removal after the current cycle
func (w *World) markExpired(id EntityID) {
	w.expired[id] = true
}

// sweepExpired despawns every entity flagged during the last cycle
func (w *World) sweepExpired() int {
	removed := 0
	for _, id := range w.Items() {
		if w.expired[id] {
			w.Despawn(id)
			removed++
		}
	}
	return removed
}
