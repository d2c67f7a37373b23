package game

import (
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"
)

// Step advances the world by one fixed tick. Queued commands are applied
// first, then every phase runs in a fixed order. A panic inside the tick is
// recovered here and returned so the caller can keep ticking.
func Step(w *World, cmds []Command) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tick %d: %v", w.Tick, r)
			w.log.Error("tick panic",
				zap.Uint64("tick", w.Tick),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
			w.pending = w.pending[:0]
		}
	}()

	w.Tick++
	w.ClearPrompts()
	w.applyAll(cmds)
	w.Clock += w.Tuning.TickMs()

	movePlayers(w)
	fireWeapons(w)
	updateBosses(w)
	updateMobs(w)
	updateDrones(w)
	updateTraps(w)
	resolveProjectiles(w)
	resolveContacts(w)
	w.sweep()
	separate(w)
	updateProgression(w)
	maintainPopulation(w)
	return nil
}
