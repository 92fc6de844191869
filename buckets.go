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

import "golang.org/x/exp/slices"

// backBucketKey computes the index into backBucketOffset for the 2-byte
// bucket (c1,c2). It deliberately swaps byte order relative to a plain
// big-endian word: the right-to-left/left-to-right inducers (§4.5/§4.6)
// always look this table up as backBucketOffset[precedingSymbol, currentBucket],
// and storing it byte-swapped is what makes that lookup and the planner's
// construction loop address the same cursor without either side needing to
// know about the other's loop order.
func backBucketKey(c1, c2 byte) uint32 {
	return uint32(c2)<<8 | uint32(c1)
}

// bStarBucket is one non-empty 2-byte B* partition awaiting quicksort.
type bStarBucket struct {
	begin, end int32
	leadWord   uint32
}

func (b bStarBucket) size() int32 { return b.end - b.begin }

// bucketLayout is the output of C2: global bucket cursors plus the B* work
// list, ready to hand to the quicksort driver.
type bucketLayout struct {
	frontBucketOffset [0x100]int32
	backBucketOffset  [0x10000]int32
	aCountTotal       [0x100]int32
	bCountTotal       [0x100]int32
	bStarOffsetByThr  [][0x10000]int32
	bStarWork         []bStarBucket
	bStarTotal        int32
}

// planBuckets implements C2: folds the raw B*-by-thread counts into the
// global bCount table, computes front/back bucket cursors for stage 2, and
// produces the ascending-by-size B* work list (§9 "Bucket scheduling").
func planBuckets(n int32, cr *classifyResult) *bucketLayout {
	bCount := cr.bCount // copy; planBuckets owns augmenting it with B* counts
	layout := &bucketLayout{
		bStarOffsetByThr: make([][0x10000]int32, len(cr.bStarByThread)),
	}

	totalBStarCount := make([]int32, 0x10000)
	for _, thr := range cr.bStarByThread {
		for w := 0; w < 0x10000; w++ {
			bCount[w] += thr.bStarCount[w]
			totalBStarCount[w] += thr.bStarCount[w]
		}
	}

	total := int32(1) // slot 0 is the sentinel
	bStarTotal := int32(0)

	for c1 := 0; c1 < 0x100; c1++ {
		layout.frontBucketOffset[c1] = total
		for c2 := 0; c2 < 0x100; c2++ {
			w := uint32(c1)<<8 | uint32(c2)
			partitionStart := bStarTotal

			for t := range layout.bStarOffsetByThr {
				layout.bStarOffsetByThr[t][w] = bStarTotal
				bStarTotal += cr.bStarByThread[t].bStarCount[w]
			}

			total += bCount[w] + cr.aCount[w]
			layout.backBucketOffset[backBucketKey(byte(c1), byte(c2))] = total
			layout.bCountTotal[c1] += bCount[w]
			layout.aCountTotal[c1] += cr.aCount[w]

			if totalBStarCount[w] > 0 {
				layout.bStarWork = append(layout.bStarWork, bStarBucket{partitionStart, bStarTotal, w})
			}
		}
	}

	layout.bStarTotal = bStarTotal

	slices.SortFunc(layout.bStarWork, func(a, b bStarBucket) int {
		return int(a.size() - b.size())
	})

	return layout
}
