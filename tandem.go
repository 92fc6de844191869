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
	"encoding/binary"

	"golang.org/x/exp/slices"
)

// tandemRecord is one deferred tandem-repeat group (§4.4): a partition
// already reordered into [repeats | terminators], recorded for induction
// once every B* bucket has finished stage-1 sorting.
type tandemRecord struct {
	sa             []int32
	numTerminators int32
	period         int32
}

// hasPotentialTandemRepeat reports whether startingPattern reoccurs, at any
// byte offset, within the 8 bytes spanned by the last two window values seen
// on the path to this partition — a cheap necessary condition checked before
// paying for the O(size) scan in partitionTandemRepeats. A repeat whose
// period doesn't line up on a 4-byte boundary would still overlap one of
// endingPattern's sub-word windows, so every offset is checked, not just the
// two word-aligned ones.
func hasPotentialTandemRepeat(startingPattern uint32, endingPattern [2]uint32) bool {
	var buf [windowSize + 4]byte
	binary.BigEndian.PutUint32(buf[0:4], endingPattern[0])
	binary.BigEndian.PutUint32(buf[4:8], endingPattern[1])

	var want [4]byte
	binary.BigEndian.PutUint32(want[:], startingPattern)

	for offset := 0; offset <= windowSize; offset++ {
		if [4]byte(buf[offset:offset+4]) == want {
			return true
		}
	}
	return false
}

// indexOf masks the suffix position out of a (possibly flagged) SA slot.
func indexOf(v int32) int32 { return v & saIndexMask }

// partitionTandemRepeats implements the "detect" and "separate" halves of
// §4.4. On success it reorders sa in place into [repeats | terminators],
// returns a tandemRecord describing it, and returns the repeat count the
// caller should skip (the repeats are not sorted further; only the
// terminator tail is handed back to the quicksort).
func partitionTandemRepeats(sa []int32, matchLen int32) (rec tandemRecord, repeatCount int32, found bool) {
	n := int32(len(sa))

	slices.SortFunc(sa, func(a, b int32) int { return int(indexOf(a) - indexOf(b)) })

	half := matchLen >> 1
	period := int32(0)
	prev := indexOf(sa[0])
	for i := int32(1); i < n && period == 0; i++ {
		cur := indexOf(sa[i])
		if prev+half >= cur {
			period = cur - prev
		}
		prev = cur
	}
	if period == 0 {
		return tandemRecord{}, 0, false
	}

	termEnd := n - 1
	prev = indexOf(sa[n-1])
	for i := n - 2; i >= 0; i-- {
		cur := indexOf(sa[i])
		if prev-cur == period {
			sa[termEnd], sa[i] = sa[i], sa[termEnd]
			termEnd--
		}
		prev = cur
	}

	numTerminators := termEnd + 1
	slices.Reverse(sa)

	rec = tandemRecord{sa: sa, numTerminators: numTerminators, period: period}
	return rec, n - numTerminators, true
}

// suffixByteAt returns the byte at i, or -1 (the implicit sentinel, smaller
// than every real byte) once i runs off the end of the input.
func suffixByteAt(t []byte, i int32) int {
	if i < 0 || i >= int32(len(t)) {
		return -1
	}
	return int(t[i])
}

// suffixLess compares the suffixes starting at a and b lexicographically
// under the sentinel convention.
func suffixLess(t []byte, a, b int32) bool {
	for {
		ba, bb := suffixByteAt(t, a), suffixByteAt(t, b)
		if ba != bb {
			return ba < bb
		}
		if ba == -1 {
			return false
		}
		a++
		b++
	}
}

// repeatInductionFlag computes the preceding-suffix type-A flag for a
// suffix newly placed at index by tandem-repeat induction.
func repeatInductionFlag(t []byte, index int32) int32 {
	if index == 0 || t[index-1] > t[index] {
		return precedingIsTypeA
	}
	return 0
}

// completeTandemRepeat implements the "induce" half of §4.4, run once every
// B* bucket has been fully sorted. It marks every repeat position in the
// ISA, binary-searches the now-sorted terminators for the type-A/type-B
// split point, then runs the two cascading induction sweeps.
func completeTandemRepeat(t []byte, isa isaView, rec tandemRecord) {
	sa := rec.sa
	n := int32(len(sa))
	numTerminators := rec.numTerminators
	period := rec.period
	terminatorsBegin := n - numTerminators

	for cur := terminatorsBegin - 1; cur >= 0; cur-- {
		isa.markTandemRepeat(indexOf(sa[cur]), period)
	}

	terminators := sa[terminatorsBegin:]
	numTerm := int32(len(terminators))
	a, b := int32(0), numTerm-1
	numTypeA := int32(0)
	for a <= b {
		m := (a + b) >> 1
		idx := indexOf(terminators[m])
		if !suffixLess(t, idx, idx+period) {
			numTypeA = m
			b = m - 1
		} else {
			numTypeA = m + 1
			a = m + 1
		}
	}
	if numTypeA > numTerm {
		numTypeA = numTerm
	}
	numTypeB := numTerm - numTypeA

	for i := int32(0); i < numTypeA; i++ {
		sa[i] = terminators[i]
	}

	// type A repeats: induced ascending, appended just past the terminators
	// that produced them.
	cur, end, next := int32(0), numTypeA, numTypeA
	for cur != end {
		for cur != end {
			idx := indexOf(sa[cur])
			cur++
			if idx >= period {
				cand := idx - period
				if isa.isTandemRepeatOfPeriod(cand, period) {
					sa[next] = cand | repeatInductionFlag(t, cand)
					next++
				}
			}
		}
		end = next
	}

	// type B repeats: induced descending from the tail.
	cur2, end2, next2 := n-1, n-1-numTypeB, n-1-numTypeB
	for cur2 != end2 {
		for cur2 != end2 {
			idx := indexOf(sa[cur2])
			cur2--
			if idx >= period {
				cand := idx - period
				if isa.isTandemRepeatOfPeriod(cand, period) {
					sa[next2] = cand | repeatInductionFlag(t, cand)
					next2--
				}
			}
		}
		end2 = next2
	}
}
