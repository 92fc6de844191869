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

// maxPartitionsPerThread bounds how finely the LF-permutation cycle is
// sliced for cooperative chain-following: more partitions than this per
// thread only adds reconciliation overhead without adding parallelism.
const maxPartitionsPerThread = 256

// ibwtPartitionState is one partition's progress along the LF-permutation
// cycle: a single n-length cycle over row indices that, walked from
// sentinelIndex, reconstructs the original text one byte per hop. row is
// where the chain currently stands; startRow is the identity the next
// segment this partition banks will be stitched from.
type ibwtPartitionState struct {
	row      int32
	startRow int32
	buf      []byte
	done     bool
}

// ibwtSegment is one bounded run of decoded bytes, tagged with the chain
// identities it bridges. The final pass stitches segments together by
// matching a segment's endRow to the next segment's startRow, regardless of
// which partition or round produced either one.
type ibwtSegment struct {
	data     []byte
	startRow int32
	endRow   int32
}

// decodeByPartitionChaining reconstructs the original bytes from l and its
// LF-permutation by splitting the single n-cycle that LF induces into up to
// numThreads*maxPartitionsPerThread arcs and following each arc
// concurrently. Every partition starts at a distinct, arbitrarily chosen
// row and walks forward (via succ, the inverse of lf) until it either fills
// its round's reserved capacity or lands on a row another partition claims
// as its start — at which point it retires. A retired partition's unused
// capacity is banked on a free list so partitions still mid-arc can keep
// going without growing memory use past roughly one buffer's worth per
// partition. Because arc lengths aren't known ahead of time, a partition
// may need several rounds, banking one segment per round, before it
// retires; the segments are stitched into the final byte stream afterward.
func decodeByPartitionChaining(l []byte, lf []int32, sentinelIndex int32, numThreads int) ([]byte, error) {
	n := int32(len(l))

	succ := make([]int32, n)
	for row, rank := range lf {
		succ[rank] = int32(row)
	}

	partitionCount := int32(numThreads) * maxPartitionsPerThread
	if partitionCount > n {
		partitionCount = n
	}
	if partitionCount < 1 {
		partitionCount = 1
	}

	budget := (2*n - 1) / partitionCount
	if budget < 1 {
		budget = 1
	}

	// Partition 0 always starts at sentinelIndex, so its arc's end is the
	// row whose byte (l[sentinelIndex]) must be appended last, never
	// mid-stream; the rest start at arbitrary, evenly spaced rows, nudged
	// forward on collision.
	isStart := make([]bool, n)
	states := make([]*ibwtPartitionState, partitionCount)
	for p := int32(0); p < partitionCount; p++ {
		row := sentinelIndex
		if p > 0 {
			row = (p * n) / partitionCount
			for isStart[row] {
				row = (row + 1) % n
			}
		}
		isStart[row] = true
		states[p] = &ibwtPartitionState{row: row, startRow: row, buf: make([]byte, 0, budget)}
	}

	var segments []ibwtSegment
	var freeList [][]byte
	active := make([]*ibwtPartitionState, len(states))
	copy(active, states)

	for len(active) > 0 {
		g := new(errgroup.Group)
		threads := clampThreads(numThreads, len(active))
		spanLens := ComputeJobsPerTask(make([]uint, threads), uint(len(active)), uint(threads))
		lo := 0
		for th := 0; th < threads; th++ {
			hi := lo + int(spanLens[th])
			lo0, hi0 := lo, hi
			g.Go(func() (err error) {
				defer func() {
					if r := recover(); r != nil {
						err = wrapWorkerPanic("ibwt-chase", r)
					}
				}()
				for _, st := range active[lo0:hi0] {
					st.buf = st.buf[:0]
					for len(st.buf) < cap(st.buf) {
						if st.row != sentinelIndex {
							st.buf = append(st.buf, l[st.row])
						}
						next := succ[st.row]
						if isStart[next] {
							st.row = next
							st.done = true
							break
						}
						st.row = next
					}
				}
				return nil
			})
			lo = hi
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		stillActive := active[:0]
		for _, st := range active {
			if len(st.buf) > 0 || st.done {
				segments = append(segments, ibwtSegment{
					data:     append([]byte(nil), st.buf...),
					startRow: st.startRow,
					endRow:   st.row,
				})
				st.startRow = st.row
			}
			if st.done {
				if cap(st.buf) > len(st.buf) {
					leftover := st.buf[len(st.buf):cap(st.buf)]
					freeList = append(freeList, leftover[:0:cap(leftover)])
				}
				continue
			}
			if len(freeList) > 0 {
				st.buf = freeList[len(freeList)-1][:0]
				freeList = freeList[:len(freeList)-1]
			} else {
				st.buf = make([]byte, 0, budget)
			}
			stillActive = append(stillActive, st)
		}
		active = stillActive
	}

	byStart := make(map[int32][]ibwtSegment, len(segments))
	for _, s := range segments {
		byStart[s.startRow] = append(byStart[s.startRow], s)
	}

	out := make([]byte, 0, n)
	cur := sentinelIndex
	for int32(len(out)) < n-1 {
		list := byStart[cur]
		seg := list[0]
		byStart[cur] = list[1:]
		out = append(out, seg.data...)
		cur = seg.endRow
	}
	out = append(out, l[sentinelIndex])
	return out, nil
}
