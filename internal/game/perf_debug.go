package game

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	perfLowFpsThreshold = 50.0
	perfLowFpsDuration  = 3 * time.Second
	perfLogInterval     = 3 * time.Second
)

func (gl *GameLoop) maybeLogPerfDrop() {
	if !gl.game.perfDebugEnabled {
		return
	}

	fps := ebiten.ActualFPS()
	if fps >= perfLowFpsThreshold {
		gl.game.perfLowFpsSince = time.Time{}
		gl.game.perfLastPerfLog = time.Time{}
		return
	}

	now := time.Now()
	if gl.game.perfLowFpsSince.IsZero() {
		gl.game.perfLowFpsSince = now
		return
	}

	if now.Sub(gl.game.perfLowFpsSince) < perfLowFpsDuration {
		return
	}

	if !gl.game.perfLastPerfLog.IsZero() && now.Sub(gl.game.perfLastPerfLog) < perfLogInterval {
		return
	}

	gl.game.perfLastPerfLog = now
	gl.logPerfSnapshot(fps)
}

func (gl *GameLoop) logPerfSnapshot(fps float64) {
	stats := gl.game.threading.GetDetailedPerformanceStats()

	gl.game.logger.Warn("low fps",
		"fps", fps,
		"tps", ebiten.ActualTPS(),
		"entities", gl.game.world.Count(),
		"last_frame_ms", getPerfFloat(stats, "last_frame_time_ms"),
		"last_cycle_ms", getPerfFloat(stats, "last_cycle_time_ms"),
		"avg_cycle_ms", getPerfFloat(stats, "avg_cycle_time_ms"),
		"peak_cycle_ms", getPerfFloat(stats, "peak_cycle_time_ms"),
		"active_workers", getPerfInt(stats, "active_workers"),
		"job_size", getPerfInt(stats, "job_size"),
		"goroutines", getPerfInt(stats, "goroutines"),
		"memory_alloc_mb", getPerfUint(stats, "memory_alloc_mb"),
		"gc_cycles", getPerfUint(stats, "gc_cycles"))
}

func getPerfFloat(stats map[string]interface{}, key string) float64 {
	switch v := stats[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	}
	return 0
}

func getPerfInt(stats map[string]interface{}, key string) int64 {
	switch v := stats[key].(type) {
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	}
	return 0
}

func getPerfUint(stats map[string]interface{}, key string) uint64 {
	switch v := stats[key].(type) {
	case uint64:
		return v
	case uint32:
		return uint64(v)
	}
	return 0
}
