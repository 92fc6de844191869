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

import "testing"

// TestBinarySearchPredicateMonotonic confirms that, for a run of already
// sorted terminator suffixes, !suffixLess(t, idx, idx+period) is monotonic
// (false*, then true*) across the run — the property completeTandemRepeat's
// binary search over numTypeA relies on.
func TestBinarySearchPredicateMonotonic(t *testing.T) {
	text := []byte("abcabcabcabcabcxyzxyzxyzxyz")
	period := int32(3)

	sa := make([]int32, 0, len(text))
	for i := range text {
		sa = append(sa, int32(i))
	}
	sortByLex := func(a, b int32) bool { return suffixLess(text, a, b) }
	// simple insertion sort; the set is small
	for i := 1; i < len(sa); i++ {
		for j := i; j > 0 && sortByLex(sa[j], sa[j-1]); j-- {
			sa[j], sa[j-1] = sa[j-1], sa[j]
		}
	}

	seenTrue := false
	for _, idx := range sa {
		if idx+period >= int32(len(text)) {
			continue
		}
		pred := !suffixLess(text, idx, idx+period)
		if pred {
			seenTrue = true
		} else if seenTrue {
			t.Fatalf("predicate not monotonic: false seen after true at idx=%d", idx)
		}
	}
}

func TestHasPotentialTandemRepeat(t *testing.T) {
	if !hasPotentialTandemRepeat(5, [2]uint32{5, 9}) {
		t.Error("expected match against endingPattern[0]")
	}
	if !hasPotentialTandemRepeat(5, [2]uint32{9, 5}) {
		t.Error("expected match against endingPattern[1]")
	}
	if hasPotentialTandemRepeat(5, [2]uint32{1, 2}) {
		t.Error("expected no match")
	}
}

func TestPartitionTandemRepeatsDetectsPeriod(t *testing.T) {
	text := []byte("abcabcabcabcabcabcabc")
	sa := make([]int32, len(text))
	for i := range sa {
		sa[i] = int32(i)
	}

	rec, repeatCount, found := partitionTandemRepeats(sa, 8)
	if !found {
		t.Fatal("expected a tandem repeat to be detected")
	}
	if rec.period <= 0 {
		t.Errorf("period = %d, want positive", rec.period)
	}
	if repeatCount <= 0 || repeatCount >= int32(len(text)) {
		t.Errorf("repeatCount = %d out of expected range", repeatCount)
	}
}

func TestPartitionTandemRepeatsNoRepeat(t *testing.T) {
	text := []byte("abcdefghijklmnop")
	sa := make([]int32, len(text))
	for i := range sa {
		sa[i] = int32(i)
	}
	_, _, found := partitionTandemRepeats(sa, 4)
	if found {
		t.Error("expected no tandem repeat in a strictly increasing alphabet")
	}
}
