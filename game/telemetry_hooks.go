package game

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/pthm-cable/ekosystem/components"
	"github.com/pthm-cable/ekosystem/telemetry"
)

// sampleStats builds turn statistics from the live population without
// consuming the collector's counters.
func (g *Game) sampleStats() telemetry.TurnStats {
	return telemetry.NewCollector().Flush(g.turn, g.populationSample())
}

// populationSample walks the world's live creatures.
func (g *Game) populationSample() telemetry.PopulationSample {
	var sample telemetry.PopulationSample
	query := g.entityFilter.Query()
	for query.Next() {
		org, health := query.Get()
		sample.Add(org.Species, health.Value)
	}
	return sample
}

// flushTelemetry closes out the turn's statistics, fires bookmarks and
// writes the CSV outputs.
func (g *Game) flushTelemetry() {
	stats := g.collector.Flush(g.turn, g.populationSample())
	g.lastStats = stats
	g.logTurn(stats)

	if err := g.output.WriteTurn(stats); err != nil {
		g.logger.Warn("failed to write turn stats", "turn", g.turn, "error", err)
	}
	if err := g.output.WritePerf(g.perf.Stats(), g.turn); err != nil {
		g.logger.Warn("failed to write perf stats", "turn", g.turn, "error", err)
	}

	for _, b := range g.bookmarks.Check(stats) {
		b.LogBookmark(g.logger)
		if err := g.output.WriteBookmark(b); err != nil {
			g.logger.Warn("failed to write bookmark", "type", b.Type, "error", err)
		}
		if g.snapshotDir != "" {
			snap := g.Snapshot()
			snap.Bookmark = &b
			g.saveSnapshot(snap)
		}
	}
}

// finish ends the run with the given winner label.
func (g *Game) finish(species string) {
	g.done = true
	g.result = Result{
		Species:   species,
		Turns:     g.turn,
		Survivors: len(g.roster),
	}
	g.logResult(g.result)

	all := g.lifetime.All()
	ids := make([]uint32, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		g.hallOfFame.Consider(id, all[id], g.turn)
	}
	if err := g.output.WriteHallOfFame(g.hallOfFame); err != nil {
		g.logger.Warn("failed to write hall of fame", "error", err)
	}

	if g.snapshotDir != "" {
		snap := g.Snapshot()
		rec := g.result.Record()
		snap.Result = &rec
		g.saveSnapshot(snap)
	}
}

func (g *Game) saveSnapshot(snap *telemetry.Snapshot) {
	path, err := telemetry.SaveSnapshot(snap, g.snapshotDir)
	if err != nil {
		g.logger.Warn("failed to save snapshot", "turn", snap.Turn, "error", err)
		return
	}
	g.logger.Info("snapshot saved", "path", path)
}

// Snapshot captures the board and the live roster for renderers.
func (g *Game) Snapshot() *telemetry.Snapshot {
	snap := &telemetry.Snapshot{
		Version:   telemetry.SnapshotVersion,
		Seed:      g.seed,
		Turn:      g.turn,
		BoardSize: g.grid.Size(),
		Board:     g.grid.Rows(),
		Entities:  make([]telemetry.EntityState, 0, len(g.roster)),
	}

	for _, e := range g.roster {
		pos := g.posMap.Get(e)
		org := g.orgMap.Get(e)
		stats := g.statsMap.Get(e)

		state := telemetry.EntityState{
			ID:       org.ID,
			Species:  org.Species.String(),
			Symbol:   string(org.Symbol),
			X:        pos.X,
			Y:        pos.Y,
			Health:   g.healthMap.Get(e).Value,
			Strength: stats.Strength,
			Speed:    stats.Speed,
			Lifetime: g.lifetime.Get(org.ID).ToJSON(),
		}
		state.Bonuses = bonusStates(g.bonusMap.Get(e))
		for _, eff := range g.effectsMap.Get(e).Active {
			state.Effects = append(state.Effects, telemetry.EffectState{
				DamagePerTurn: eff.DamagePerTurn,
				Remaining:     eff.Remaining,
			})
		}
		snap.Entities = append(snap.Entities, state)
	}
	return snap
}

// bonusStates lists active bonuses sorted by kind so snapshots are stable.
func bonusStates(b *components.Bonuses) []telemetry.BonusState {
	var out []telemetry.BonusState
	for kind, bonus := range b.Active {
		out = append(out, telemetry.BonusState{
			Kind:      string(kind),
			Magnitude: bonus.Magnitude,
			Remaining: bonus.Remaining,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

// Close flushes and closes the run's CSV outputs.
func (g *Game) Close() error {
	return g.output.Close()
}

// Persist hands the result to every sink. Failures are joined and returned;
// they never change the result itself.
func Persist(ctx context.Context, result Result, sinks ...telemetry.ResultSink) error {
	rec := result.Record()
	var errs []error
	for _, sink := range sinks {
		if sink == nil {
			continue
		}
		if err := sink.Append(ctx, rec); err != nil {
			errs = append(errs, fmt.Errorf("persist %s: %w", rec, err))
		}
	}
	return errors.Join(errs...)
}
