/*
Copyright 2011-2017 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package msufsort

import (
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
)

// induce implements C5/C6: with every B* suffix fully sorted (and any
// tandem-repeat group already completed into the ISA), this moves them into
// their final back-bucket slots and runs the two induced-sort passes that
// place every remaining type-B and type-A suffix.
func (e *engine) induce(layout *bucketLayout) error {
	frontier := e.placeBStarFinal(layout)

	frontier, err := e.induceRightToLeft(layout, frontier)
	if err != nil {
		return err
	}
	return e.induceLeftToRight(layout, frontier)
}

// placeBStarFinal copies each bucket's already-sorted B* suffixes out of
// their compact stage-1 slots and into the tail of that bucket's final
// range, decrementing backBucketOffset as it goes so the very next induced
// suffix lands immediately to their left. It returns the positions just
// written, seeding round 0 of the right-to-left pass.
func (e *engine) placeBStarFinal(layout *bucketLayout) []int32 {
	bStar := make([]int32, layout.bStarTotal)
	copy(bStar, e.sa[:layout.bStarTotal])

	frontier := make([]int32, 0, layout.bStarTotal)
	for _, b := range layout.bStarWork {
		c1 := byte(b.leadWord >> 8)
		c2 := byte(b.leadWord)
		key := backBucketKey(c1, c2)
		for i := b.end - 1; i >= b.begin; i-- {
			layout.backBucketOffset[key]--
			dest := layout.backBucketOffset[key]
			e.sa[dest] = bStar[i]
			frontier = append(frontier, dest)
		}
	}
	return frontier
}

// inducedEntry is one pending write produced by a round of induction: the
// destination position and the (possibly flagged) suffix index to store
// there.
type inducedEntry struct {
	dest  int32
	value int32
}

// induceRightToLeft runs C5: repeated rounds over the growing frontier of
// already-placed positions, at each round reading the one preceding suffix
// of every frontier entry whose flag marks it as type B, bucketing those
// candidates by their own two-byte key, reserving disjoint destination
// ranges from layout.backBucketOffset, and scattering the writes — all
// within the round — before the newly written positions seed the next
// round.
func (e *engine) induceRightToLeft(layout *bucketLayout, frontier []int32) ([]int32, error) {
	sa := e.sa
	var typeAFrontier []int32

	for len(frontier) > 0 {
		// Two candidates that induce into the same two-byte bucket must be
		// placed in the same relative order as the already-placed positions
		// that produced them, so every round processes the frontier in
		// strictly decreasing final-array-position order.
		slices.SortFunc(frontier, func(a, b int32) int { return int(b - a) })

		cands := make([]int32, 0, len(frontier))
		for _, pos := range frontier {
			v := sa[pos]
			if indexOf(v) == 0 {
				continue
			}
			if v&precedingIsTypeA != 0 {
				typeAFrontier = append(typeAFrontier, pos)
				continue
			}
			cands = append(cands, indexOf(v)-1)
		}
		if len(cands) == 0 {
			break
		}

		entries, err := e.reserveAndScatterRTL(layout, cands)
		if err != nil {
			return nil, err
		}

		frontier = frontier[:0]
		for _, ent := range entries {
			sa[ent.dest] = ent.value
			frontier = append(frontier, ent.dest)
		}
	}

	return typeAFrontier, nil
}

// reserveAndScatterRTL implements the cache/reserve/scatter fan-out for one
// right-to-left round. Candidates are split across goroutines; each builds
// a local 65536-bucket histogram (cache), then a single reservation pass
// converts those local counts into disjoint destination ranges by walking
// layout.backBucketOffset down once per bucket touched this round, and
// finally every goroutine scatters its own entries into the slice it was
// handed — no goroutine ever writes another's slot.
func (e *engine) reserveAndScatterRTL(layout *bucketLayout, cands []int32) ([]inducedEntry, error) {
	t := e.t
	numThreads := e.numThreads
	if numThreads > len(cands) {
		numThreads = len(cands)
	}
	if numThreads < 1 {
		numThreads = 1
	}

	spanLens := ComputeJobsPerTask(make([]uint, numThreads), uint(len(cands)), uint(numThreads))
	localCounts := make([][0x10000]int32, numThreads)
	perThread := make([][]int32, numThreads)

	lo := 0
	for th := 0; th < numThreads; th++ {
		hi := lo + int(spanLens[th])
		perThread[th] = cands[lo:hi]
		lo = hi
	}

	g := new(errgroup.Group)
	for th := 0; th < numThreads; th++ {
		thread := th
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = wrapWorkerPanic("induce-rtl-cache", r)
				}
			}()
			for _, idx := range perThread[thread] {
				key := backBucketKey(t[idx], t[idx+1])
				localCounts[thread][key]++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Thread 0 holds the highest-position (earliest-processed) chunk of
	// candidates, so it must claim the sub-range of each bucket closest to
	// the current cursor; later threads claim progressively lower
	// sub-ranges. dest[th][key] holds the exclusive upper bound of thread
	// th's reserved sub-range for that key.
	dest := make([][0x10000]int32, numThreads)
	touched := make(map[uint32]bool)
	for th := 0; th < numThreads; th++ {
		for key, c := range localCounts[th] {
			if c > 0 {
				touched[uint32(key)] = true
			}
		}
	}
	for key := range touched {
		end := layout.backBucketOffset[key]
		for th := 0; th < numThreads; th++ {
			c := localCounts[th][key]
			if c == 0 {
				continue
			}
			dest[th][key] = end
			end -= c
		}
		layout.backBucketOffset[key] = end
	}

	results := make([][]inducedEntry, numThreads)
	g2 := new(errgroup.Group)
	for th := 0; th < numThreads; th++ {
		thread := th
		g2.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = wrapWorkerPanic("induce-rtl-scatter", r)
				}
			}()
			cursor := dest[thread]
			out := make([]inducedEntry, 0, len(perThread[thread]))
			for _, idx := range perThread[thread] {
				key := backBucketKey(t[idx], t[idx+1])
				flag := int32(0)
				if idx == 0 || t[idx-1] > t[idx] {
					flag = precedingIsTypeA
				}
				cursor[key]--
				out = append(out, inducedEntry{dest: cursor[key], value: idx | flag})
			}
			results[thread] = out
			return nil
		})
	}
	if err := g2.Wait(); err != nil {
		return nil, err
	}

	var all []inducedEntry
	for th := range results {
		all = append(all, results[th]...)
	}
	return all, nil
}

// induceLeftToRight runs C6: the mirror pass, seeded with every position the
// right-to-left pass found to have a type-A predecessor, advancing a single
// per-leading-byte cursor (layout.frontBucketOffset) forward instead of a
// two-byte cursor backward.
func (e *engine) induceLeftToRight(layout *bucketLayout, frontier []int32) error {
	sa := e.sa

	for len(frontier) > 0 {
		slices.SortFunc(frontier, func(a, b int32) int { return int(a - b) })

		cands := make([]int32, 0, len(frontier))
		for _, pos := range frontier {
			v := indexOf(sa[pos])
			if v == 0 {
				continue
			}
			cands = append(cands, v-1)
		}
		if len(cands) == 0 {
			break
		}

		entries, next, err := e.reserveAndScatterLTR(layout, cands)
		if err != nil {
			return err
		}
		for _, ent := range entries {
			sa[ent.dest] = ent.value
		}
		frontier = next
	}
	return nil
}

// reserveAndScatterLTR mirrors reserveAndScatterRTL for the forward pass:
// the histogram is single-byte (256 buckets) rather than two-byte, and the
// reservation walks layout.frontBucketOffset upward instead of the back
// table downward.
func (e *engine) reserveAndScatterLTR(layout *bucketLayout, cands []int32) ([]inducedEntry, []int32, error) {
	t := e.t
	numThreads := e.numThreads
	if numThreads > len(cands) {
		numThreads = len(cands)
	}
	if numThreads < 1 {
		numThreads = 1
	}

	spanLens := ComputeJobsPerTask(make([]uint, numThreads), uint(len(cands)), uint(numThreads))
	localCounts := make([][0x100]int32, numThreads)
	perThread := make([][]int32, numThreads)

	lo := 0
	for th := 0; th < numThreads; th++ {
		hi := lo + int(spanLens[th])
		perThread[th] = cands[lo:hi]
		lo = hi
	}

	g := new(errgroup.Group)
	for th := 0; th < numThreads; th++ {
		thread := th
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = wrapWorkerPanic("induce-ltr-cache", r)
				}
			}()
			for _, idx := range perThread[thread] {
				localCounts[thread][t[idx]]++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	dest := make([][0x100]int32, numThreads)
	for c1 := 0; c1 < 0x100; c1++ {
		for th := 0; th < numThreads; th++ {
			c := localCounts[th][c1]
			if c == 0 {
				continue
			}
			dest[th][c1] = layout.frontBucketOffset[c1]
			layout.frontBucketOffset[c1] += c
		}
	}

	results := make([][]inducedEntry, numThreads)
	nexts := make([][]int32, numThreads)
	g2 := new(errgroup.Group)
	for th := 0; th < numThreads; th++ {
		thread := th
		g2.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = wrapWorkerPanic("induce-ltr-scatter", r)
				}
			}()
			cursor := dest[thread]
			out := make([]inducedEntry, 0, len(perThread[thread]))
			var next []int32
			for _, idx := range perThread[thread] {
				c1 := t[idx]
				flag := int32(0)
				if idx == 0 || t[idx-1] >= t[idx] {
					flag = precedingIsTypeA
				}
				d := cursor[c1]
				cursor[c1]++
				out = append(out, inducedEntry{dest: d, value: idx | flag})
				next = append(next, d)
			}
			results[thread] = out
			nexts[thread] = next
			return nil
		})
	}
	if err := g2.Wait(); err != nil {
		return nil, nil, err
	}

	var all []inducedEntry
	var nextFrontier []int32
	for th := range results {
		all = append(all, results[th]...)
		nextFrontier = append(nextFrontier, nexts[th]...)
	}
	return all, nextFrontier, nil
}
