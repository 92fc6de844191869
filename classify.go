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

// getSuffixType classifies the suffix starting at pos by looking only at
// the input bytes from pos onward: a run of equal bytes is followed out
// until it either ends the string or meets a strictly smaller/larger byte.
func getSuffixType(t []byte, pos int32) suffixType {
	n := int32(len(t))
	if pos+1 >= n {
		return typeA
	}

	if t[pos] >= t[pos+1] {
		p := pos + 1
		for p < n && t[p] == t[pos] {
			p++
		}
		if p == n || t[pos] > t[p] {
			return typeA
		}
		return typeB
	}

	p := pos + 2
	for p < n && t[p] == t[pos+1] {
		p++
	}
	if p == n || t[pos+1] > t[p] {
		return typeBStar
	}
	return typeB
}

// nextType applies the incremental two-state transition (§4.1) walking one
// position to the left: prev is the already-computed type of position i+1.
func nextType(prev suffixType, a, b byte) suffixType {
	if a == b {
		if prev == typeBStar {
			return typeB
		}
		return prev
	}
	if a > b {
		return typeA
	}
	if prev == typeA {
		return typeBStar
	}
	return typeB
}

// headWord returns the big-endian 16-bit word T[i]T[i+1], treating a read
// past the end of input as the zero byte (smaller than every real byte).
func headWord(t []byte, i int32) uint32 {
	n := int32(len(t))
	var b1 byte
	if i+1 < n {
		b1 = t[i+1]
	}
	return uint32(t[i])<<8 | uint32(b1)
}

// classifyCounts holds one goroutine's local tallies for sweep 1 of C1,
// keyed by the 16-bit leading word of each suffix.
type classifyCounts struct {
	bCount     [0x10000]int32
	aCount     [0x10000]int32
	bStarCount [0x10000]int32
}

// classifyResult is the reduced output of sweep 1, plus the untouched
// per-goroutine B* counts that §4.1/§4.2 need to compute each goroutine's
// scatter offsets in sweep 2.
type classifyResult struct {
	bCount        [0x10000]int32
	aCount        [0x10000]int32
	bStarByThread []classifyCounts
}

// countSuffixSpan runs sweep 1 (§4.1) over the half-open span [lo,hi),
// walking right to left and bootstrapping its state from the input alone so
// it needs no result from a neighboring span.
func countSuffixSpan(t []byte, lo, hi int32, c *classifyCounts) {
	if lo >= hi {
		return
	}

	cur := hi - 1
	st := getSuffixType(t, cur)

	for {
		w := headWord(t, cur)
		switch st {
		case typeA:
			c.aCount[w]++
		case typeB:
			c.bCount[w]++
		case typeBStar:
			c.bStarCount[w]++
		}

		if cur == lo {
			break
		}
		cur--
		st = nextType(st, t[cur], t[cur+1])
	}
}

// scatterBStarSpan runs sweep 2 (§4.1) over [lo,hi): for every B* suffix
// encountered, writes its (flagged) position into sa at the next free slot
// of its 16-bit bucket, per the per-goroutine cursor table bStarOffset.
func scatterBStarSpan(t []byte, sa []int32, lo, hi int32, bStarOffset *[0x10000]int32) {
	if lo >= hi {
		return
	}

	cur := hi - 1
	st := getSuffixType(t, cur)

	for {
		if st == typeBStar {
			w := headWord(t, cur)
			flag := int32(0)
			if cur == 0 || t[cur-1] > t[cur] {
				flag = precedingIsTypeA
			}
			slot := bStarOffset[w]
			bStarOffset[w]++
			sa[slot] = cur | flag
		}

		if cur == lo {
			break
		}
		cur--
		st = nextType(st, t[cur], t[cur+1])
	}
}

// classify runs C1 in parallel: sweep 1 (count) reduced into global bCount/
// aCount, keeping every goroutine's raw bStarCount around for C2's offset
// computation. Spans are split with ComputeJobsPerTask, matching the rest
// of the engine's job-splitting idiom.
func (e *engine) classify() (*classifyResult, error) {
	n := e.n
	numThreads := e.numThreads
	if int32(numThreads) > n && n > 0 {
		numThreads = int(n)
	}
	if numThreads < 1 {
		numThreads = 1
	}

	spanLens := ComputeJobsPerTask(make([]uint, numThreads), uint(n), uint(numThreads))
	result := &classifyResult{bStarByThread: make([]classifyCounts, numThreads)}

	g := new(errgroup.Group)
	lo := int32(0)
	for t := 0; t < numThreads; t++ {
		lo0 := lo
		hi0 := lo + int32(spanLens[t])
		thread := t
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = wrapWorkerPanic("classify", r)
				}
			}()
			countSuffixSpan(e.t, lo0, hi0, &result.bStarByThread[thread])
			return nil
		})
		lo = hi0
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for t := range result.bStarByThread {
		local := &result.bStarByThread[t]
		for w := 0; w < 0x10000; w++ {
			result.bCount[w] += local.bCount[w]
			result.aCount[w] += local.aCount[w]
		}
	}

	return result, nil
}
