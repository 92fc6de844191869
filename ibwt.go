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

import "golang.org/x/sync/errgroup"

// ReverseBWT reconstructs the original bytes from l (the output of
// ForwardBWT) and its sentinel index, writing the result back into l in
// place, using up to numThreads goroutines.
//
// Reconstruction has two phases: build the LF-mapping (which row holds the
// character immediately preceding a given row's — a single n-cycle over
// row indices), then reconstruct the text by cooperatively chasing that
// cycle across partitions, each covering an arc of unknown length and
// banking its output in bounded rounds until every arc has been walked to
// completion.
func ReverseBWT(l []byte, sentinelIndex int32, numThreads int) error {
	n := int32(len(l))
	if n == 0 {
		return nil
	}
	if n == 1 {
		return nil
	}
	if sentinelIndex < 0 || sentinelIndex >= n {
		return ErrInvalidSentinel
	}

	threads := clampThreads(numThreads, int(n))

	lf, err := buildLFMapping(l, threads)
	if err != nil {
		return err
	}

	// The byte stored at sentinelIndex is input[n-1], whose suffix is the
	// smallest of all suffixes starting with that byte, so it takes the first
	// rank of its symbol group; the same-symbol rows before it move up by one.
	c := l[sentinelIndex]
	k := int32(0)
	for i := int32(0); i < sentinelIndex; i++ {
		if l[i] == c {
			lf[i]++
			k++
		}
	}
	lf[sentinelIndex] -= k

	orig, err := decodeByPartitionChaining(l, lf, sentinelIndex, threads)
	if err != nil {
		return err
	}
	copy(l, orig)
	return nil
}

// buildLFMapping computes, for every row i of the (implicit) sorted
// rotation table, the row whose position is one less (mod n): the row j
// such that L[j] is the character that made row i's rotation what it is.
// Rows are grouped by symbol in the order they appear in l (the F column is
// l sorted), so the rank of l[i] among equal symbols seen so far gives its
// offset within that group — computed here with the same cache/reserve/
// scatter fan-out used throughout the engine's other counting passes.
func buildLFMapping(l []byte, numThreads int) ([]int32, error) {
	n := int32(len(l))
	spanLens := ComputeJobsPerTask(make([]uint, numThreads), uint(n), uint(numThreads))
	localCounts := make([][0x100]int32, numThreads)

	lo := int32(0)
	spans := make([][2]int32, numThreads)
	for th := 0; th < numThreads; th++ {
		hi := lo + int32(spanLens[th])
		spans[th] = [2]int32{lo, hi}
		lo = hi
	}

	g := new(errgroup.Group)
	for th := 0; th < numThreads; th++ {
		thread := th
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = wrapWorkerPanic("ibwt-cache", r)
				}
			}()
			for i := spans[thread][0]; i < spans[thread][1]; i++ {
				localCounts[thread][l[i]]++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var byteTotals [0x100]int32
	for th := 0; th < numThreads; th++ {
		for b := 0; b < 0x100; b++ {
			byteTotals[b] += localCounts[th][b]
		}
	}
	var base [0x100]int32
	sum := int32(0)
	for b := 0; b < 0x100; b++ {
		base[b] = sum
		sum += byteTotals[b]
	}

	threadStart := make([][0x100]int32, numThreads)
	for b := 0; b < 0x100; b++ {
		cursor := base[b]
		for th := 0; th < numThreads; th++ {
			threadStart[th][b] = cursor
			cursor += localCounts[th][b]
		}
	}

	next := make([]int32, n)
	g2 := new(errgroup.Group)
	for th := 0; th < numThreads; th++ {
		thread := th
		g2.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = wrapWorkerPanic("ibwt-scatter", r)
				}
			}()
			cursor := threadStart[thread]
			for i := spans[thread][0]; i < spans[thread][1]; i++ {
				b := l[i]
				next[cursor[b]] = i
				cursor[b]++
			}
			return nil
		})
	}
	if err := g2.Wait(); err != nil {
		return nil, err
	}

	// next currently maps F-column rank -> L-column row; invert it so that
	// lf[i] gives, for L-row i, the row whose position precedes i's.
	lf := make([]int32, n)
	for rank, row := range next {
		lf[row] = int32(rank)
	}
	return lf, nil
}
