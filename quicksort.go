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
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

const (
	// minMatchLengthForTandemRepeats is 2 (the B* leading word already
	// matched) plus two window widths, per §4.3.
	minMatchLengthForTandemRepeats = 2 + 2*windowSize

	insertionSortThreshold = 16
)

// sortWorkspace is the per-goroutine scratch the quicksort driver hands to
// each worker: its own tandem-repeat stack (§4.4), so workers never contend
// with one another.
type sortWorkspace struct {
	tandemStack []tandemRecord
}

// sortBStarBuckets implements the C3 driver: buckets are claimed from the
// ascending-by-size work list via an atomically decremented counter so a
// late-claimed large bucket is picked up before the small ones that
// surround it (§9 "Bucket scheduling"), never by the goroutine that happens
// to reach it last.
func (e *engine) sortBStarBuckets(layout *bucketLayout) ([]tandemRecord, error) {
	work := layout.bStarWork
	counter := int64(len(work))
	workspaces := make([]sortWorkspace, e.numThreads)

	g := new(errgroup.Group)
	for t := 0; t < e.numThreads; t++ {
		thread := t
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = wrapWorkerPanic("quicksort", r)
				}
			}()
			ws := &workspaces[thread]
			for {
				idx := atomic.AddInt64(&counter, -1)
				if idx < 0 {
					return nil
				}
				b := work[idx]
				e.quicksort(e.sa[b.begin:b.end], 2, 0, [2]uint32{}, &ws.tandemStack)
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var allRecords []tandemRecord
	for i := range workspaces {
		allRecords = append(allRecords, workspaces[i].tandemStack...)
	}
	return allRecords, nil
}

// quicksort is the recursive multikey 3-pivot quicksort of §4.3. Unlike the
// grounding implementation, recursion is expressed as ordinary Go call
// recursion rather than an explicit work stack: depth is bounded in
// practice by the same three-way median split and 16-element insertion-sort
// cutoff the original relies on to keep recursion shallow.
func (e *engine) quicksort(sa []int32, matchLen int32, startingPattern uint32, endingPattern [2]uint32, stack *[]tandemRecord) {
	n := int32(len(sa))
	if n < 2 {
		return
	}

	if matchLen >= minMatchLengthForTandemRepeats {
		if matchLen == minMatchLengthForTandemRepeats {
			startingPattern = e.tw.load(e.t, indexOf(sa[0]))
		}
		if hasPotentialTandemRepeat(startingPattern, endingPattern) {
			if rec, count, ok := partitionTandemRepeats(sa, matchLen); ok {
				*stack = append(*stack, rec)
				sa = sa[count:]
				n = int32(len(sa))
				if n == 0 {
					return
				}
			}
		}
	}

	if n < insertionSortThreshold {
		e.insertionSort(sa, matchLen, startingPattern, endingPattern, stack)
		return
	}

	key := func(v int32) uint32 { return e.tw.load(e.t, indexOf(v)+matchLen) }

	sixth := n / 6
	c1, c2, c3, c4, c5 := sixth, 2*sixth, 3*sixth, 4*sixth, 5*sixth
	vals := [5]uint32{key(sa[c1]), key(sa[c2]), key(sa[c3]), key(sa[c4]), key(sa[c5])}
	sortFive(&vals)
	pivot1, pivot2, pivot3 := vals[0], vals[2], vals[4]

	lt2, gt2 := partitionThreeWay(sa, key, pivot2)
	lt1, gt1 := partitionThreeWay(sa[:lt2], key, pivot1)
	lt3, gt3 := partitionThreeWay(sa[gt2:], key, pivot3)
	lt3 += gt2
	gt3 += gt2

	nextMatch := matchLen + windowSize
	e.quicksort(sa[0:lt1], matchLen, startingPattern, endingPattern, stack)
	e.quicksort(sa[lt1:gt1], nextMatch, startingPattern, [2]uint32{endingPattern[1], pivot1}, stack)
	e.quicksort(sa[gt1:lt2], matchLen, startingPattern, endingPattern, stack)
	e.quicksort(sa[lt2:gt2], nextMatch, startingPattern, [2]uint32{endingPattern[1], pivot2}, stack)
	e.quicksort(sa[gt2:lt3], matchLen, startingPattern, endingPattern, stack)
	e.quicksort(sa[lt3:gt3], nextMatch, startingPattern, [2]uint32{endingPattern[1], pivot3}, stack)
	e.quicksort(sa[gt3:n], matchLen, startingPattern, endingPattern, stack)
}

// partitionThreeWay is a Dutch-national-flag partition of sa by key against
// pivot, returning the boundaries of the three resulting runs: sa[:lt] <
// pivot, sa[lt:gt] == pivot, sa[gt:] > pivot. Composing two of these (one on
// the low side of a median pivot, one on the high side) produces the same
// seven-way split as the single-sweep partition in §4.3's grounding
// implementation, with substantially simpler control flow.
func partitionThreeWay(sa []int32, key func(int32) uint32, pivot uint32) (lt, gt int32) {
	n := int32(len(sa))
	lo, mid, hi := int32(0), int32(0), n-1
	for mid <= hi {
		v := key(sa[mid])
		switch {
		case v < pivot:
			sa[lo], sa[mid] = sa[mid], sa[lo]
			lo++
			mid++
		case v > pivot:
			sa[mid], sa[hi] = sa[hi], sa[mid]
			hi--
		default:
			mid++
		}
	}
	return lo, mid
}

// sortFive sorts five window values with the same nine-comparator network
// msufsort.cpp uses to find three pivots from five samples; this module
// only needs the sorted values (not the positions), so it operates on the
// plain array instead of also shuffling the sampled SA slots.
func sortFive(v *[5]uint32) {
	cswap := func(i, j int) {
		if v[i] > v[j] {
			v[i], v[j] = v[j], v[i]
		}
	}
	cswap(0, 1)
	cswap(3, 4)
	cswap(0, 2)
	cswap(1, 2)
	cswap(0, 3)
	cswap(2, 3)
	cswap(1, 4)
	cswap(1, 2)
	cswap(3, 4)
}

// insertionSort implements the base case of §4.3: sorts on a 4-byte window
// at matchLen, then splits the sorted result into equal-key runs and
// recurses each with matchLen advanced by one window.
func (e *engine) insertionSort(sa []int32, matchLen int32, startingPattern uint32, endingPattern [2]uint32, stack *[]tandemRecord) {
	n := int32(len(sa))
	if n < 2 {
		return
	}

	key := func(v int32) uint32 { return e.tw.load(e.t, indexOf(v)+matchLen) }

	if n == 2 {
		k0, k1 := key(sa[0]), key(sa[1])
		if k0 != k1 {
			if k0 > k1 {
				sa[0], sa[1] = sa[1], sa[0]
			}
			return
		}
	}

	values := make([]uint32, n)
	values[0] = key(sa[0])
	for i := int32(1); i < n; i++ {
		cur := sa[i]
		v := key(cur)
		j := i
		for j > 0 && values[j-1] > v {
			values[j] = values[j-1]
			sa[j] = sa[j-1]
			j--
		}
		values[j] = v
		sa[j] = cur
	}

	nextMatch := matchLen + windowSize
	i := n - 1
	for i >= 0 {
		end := i
		v := values[i]
		i--
		for i >= 0 && values[i] == v {
			i--
		}
		run := sa[i+1 : end+1]
		e.quicksort(run, nextMatch, startingPattern, [2]uint32{endingPattern[1], v}, stack)
	}
}
