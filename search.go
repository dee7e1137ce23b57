/*
 * search.go, part of godock.
 *
 * Copyright 2023 Raul Mera <rmera{at}usachDOTcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package dock

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

//Default knobs of Search.
const (
	DefaultTasks    = 32
	DefaultCapacity = 20
)

//SearchOptions configures a multi-task search. The zero value gets
//sensible defaults.
type SearchOptions struct {
	Tasks    int   //number of independently seeded Monte Carlo tasks
	Seed     int64 //task i runs with Seed+i
	Capacity int   //poses kept, per task and in the merged set
	Logger   *zap.Logger
}

//Search runs many independently seeded Monte Carlo tasks over a worker
//pool and merges their poses into one clustered, energy-sorted set.
//The evaluator and the box are shared read-only; each task owns its
//buffers and its result set, which are merged only after all tasks have
//finished. The outcome is deterministic for fixed options.
func Search(ev Evaluator, b *Box, opt SearchOptions) (*ResultSet, error) {
	if opt.Tasks <= 0 {
		opt.Tasks = DefaultTasks
	}
	if opt.Capacity <= 0 {
		opt.Capacity = DefaultCapacity
	}
	log := opt.Logger
	if log == nil {
		log = zap.NewNop()
	}
	pool, err := ants.NewPool(runtime.NumCPU())
	if err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}
	defer pool.Release()
	start := time.Now()
	log.Info("search started",
		zap.Int("tasks", opt.Tasks),
		zap.Int64("seed", opt.Seed),
		zap.Int("torsions", ev.NumActiveTorsions()),
		zap.Int("heavy_atoms", ev.NumHeavyAtoms()),
	)
	sets := make([]*ResultSet, opt.Tasks)
	var wg sync.WaitGroup
	for i := 0; i < opt.Tasks; i++ {
		i := i
		sets[i] = NewResultSet(opt.Capacity)
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			MonteCarlo(sets[i], ev, b, opt.Seed+int64(i))
			if best := sets[i].Best(); best != nil {
				log.Debug("task finished",
					zap.Int("task", i),
					zap.Float64("best_energy", best.E),
					zap.Int("poses", sets[i].Len()),
				)
			}
		})
		if err != nil {
			wg.Done()
			return nil, fmt.Errorf("Search: %w", err)
		}
	}
	wg.Wait()
	//merge after join: a single writer touches the global set
	requiredSquareError := rmsdPerAtom * float64(ev.NumHeavyAtoms())
	merged := NewResultSet(opt.Capacity)
	for _, s := range sets {
		for _, r := range s.Results() {
			merged.Insert(r, requiredSquareError)
		}
	}
	best := 0.0
	if r := merged.Best(); r != nil {
		best = r.E
	}
	log.Info("search finished",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("poses", merged.Len()),
		zap.Float64("best_energy", best),
	)
	return merged, nil
}
