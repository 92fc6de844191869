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

import "math"

// Suffix-index bit layout (§3 of the design). A suffix index is a signed
// 32-bit value: the low 31 bits hold the suffix position, the top bit is a
// flag whose meaning depends on the array it lives in (SA vs ISA).
const (
	// saIndexMask isolates the 31-bit suffix position out of an SA slot.
	saIndexMask int32 = math.MaxInt32

	// precedingIsTypeA is set on an SA slot iff the suffix immediately
	// preceding the stored one is of type A. The same bit pattern, stored
	// bare (index 0 with the flag set), is reused as the "unsorted B"
	// sentinel that marks SA slots not yet filled by the induce passes.
	precedingIsTypeA int32 = math.MinInt32

	// unsortedBSentinel marks an A/B slot in SA that the induce passes have
	// not yet written. It is bit-identical to precedingIsTypeA on index 0;
	// the two meanings never collide because index 0's real preceding-type
	// flag is only ever consulted after C5/C6 have run to completion.
	unsortedBSentinel = precedingIsTypeA
)

// ISA flags (§3). isTandemRepeatLength shares 0x80000000 with
// precedingIsTypeA but is scoped to the isaView type below, so a call site
// can never read one meaning through the other's type.
const (
	isaIndexMask         int32 = math.MaxInt32
	isTandemRepeatLength int32 = math.MinInt32
)

// suffixType classifies a suffix relative to its successor.
type suffixType uint8

const (
	typeA suffixType = iota
	typeB
	typeBStar
)

// isaView overlays the inverse-suffix-array region used to pass
// tandem-repeat metadata between the quicksort and the induce passes onto
// the second half of the suffix array buffer (§9, "Overlaying ISA on SA").
// Only B* suffixes are ever marked, and no two B* positions are adjacent, so
// entries are addressed by index>>1 without two marked suffixes sharing a
// slot. The engine passes its 2(N+1) buffer, so the view covers slots N+1
// onward. It must not be used once stage 2 begins.
type isaView struct {
	sa []int32
}

func newISAView(sa []int32) isaView {
	return isaView{sa: sa[(len(sa)+1)/2:]}
}

func (v isaView) markTandemRepeat(suffixIndex int32, period int32) {
	v.sa[suffixIndex>>1] = period | isTandemRepeatLength
}

func (v isaView) tandemRepeatPeriod(suffixIndex int32) (period int32, ok bool) {
	x := v.sa[suffixIndex>>1]
	if x >= 0 {
		return 0, false
	}
	p := x & isaIndexMask
	return p, true
}

// isTandemRepeatOfPeriod reports whether suffixIndex was marked by
// markTandemRepeat with exactly the given period.
func (v isaView) isTandemRepeatOfPeriod(suffixIndex int32, period int32) bool {
	p, ok := v.tandemRepeatPeriod(suffixIndex)
	return ok && p == period
}
