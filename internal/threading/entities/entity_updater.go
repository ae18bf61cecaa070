package entities

import (
	"errors"

	"entityjobs/internal/threading/core"
)

// EntityUpdater moves every live entity once per cycle on a scheduler
type EntityUpdater struct {
	world     *World
	scheduler core.Scheduler
}

// NewEntityUpdater creates a movement system for world. The scheduler is
// threaded or inline depending on opts and platform support.
func NewEntityUpdater(world *World, opts core.Options) (*EntityUpdater, error) {
	scheduler, err := core.New(world, core.ItemSource[EntityID](world), integrate, opts)
	if err != nil {
		return nil, err
	}
	return &EntityUpdater{world: world, scheduler: scheduler}, nil
}

// World returns the world being updated
func (eu *EntityUpdater) World() *World {
	return eu.world
}

// Dispatch starts one movement cycle. Unless the scheduler force-syncs,
// workers may still be running when it returns; call Finish before touching
// the world again.
func (eu *EntityUpdater) Dispatch() error {
	return eu.scheduler.Run()
}

// Finish waits for the cycle started by Dispatch and removes entities whose
// lifetime ran out. It returns the number removed.
func (eu *EntityUpdater) Finish() (int, error) {
	err := eu.scheduler.ForceSync()
	return eu.world.sweepExpired(), err
}

// Update runs a full cycle: Dispatch followed by Finish. Entities of a
// slice whose callback failed may be partially advanced.
func (eu *EntityUpdater) Update() (int, error) {
	runErr := eu.Dispatch()
	removed, syncErr := eu.Finish()
	return removed, errors.Join(runErr, syncErr)
}

// Stop shuts down the entity updater
func (eu *EntityUpdater) Stop() error {
	return eu.scheduler.Teardown()
}

// integrate advances the entities in one slice, bouncing them off the
// world bounds and counting down their lifetimes
func integrate(job *core.JobDescriptor[*World, EntityID]) {
	w := job.World
	for _, id := range job.Slice() {
		pos := w.Positions[id]
		vel := w.Velocities[id]

		pos.X += vel.X
		pos.Y += vel.Y

		if pos.X < 0 {
			pos.X, vel.X = -pos.X, -vel.X
		} else if pos.X > w.Width {
			pos.X, vel.X = 2*w.Width-pos.X, -vel.X
		}
		if pos.Y < 0 {
			pos.Y, vel.Y = -pos.Y, -vel.Y
		} else if pos.Y > w.Height {
			pos.Y, vel.Y = 2*w.Height-pos.Y, -vel.Y
		}

		w.Positions[id] = pos
		w.Velocities[id] = vel

		if w.Lifetimes[id] > 0 {
			w.Lifetimes[id]--
			if w.Lifetimes[id] == 0 {
				w.markExpired(id)
			}
		}
	}
}
