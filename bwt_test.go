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
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestForwardBWTBanana(t *testing.T) {
	bwt, sentinel, err := ForwardBWT([]byte("banana"), 1)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]byte("nnbaaa"), bwt); diff != "" {
		t.Errorf("bwt mismatch (-want +got):\n%s", diff)
	}
	if sentinel != 3 {
		t.Errorf("sentinelIndex = %d, want 3", sentinel)
	}
}

func TestBWTRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"x",
		"banana",
		"mississippi",
		"aaaaaaaa",
		"abababab",
		"the quick brown fox jumps over the lazy dog",
	}
	for _, in := range inputs {
		for _, threads := range []int{1, 4} {
			orig := []byte(in)
			bwt, sentinel, err := ForwardBWT(orig, threads)
			if err != nil {
				t.Fatalf("%q threads=%d: forward: %v", in, threads, err)
			}
			if len(orig) < 2 {
				continue
			}
			out := make([]byte, len(bwt))
			copy(out, bwt)
			if err := ReverseBWT(out, sentinel, threads); err != nil {
				t.Fatalf("%q threads=%d: inverse: %v", in, threads, err)
			}
			if diff := cmp.Diff(orig, out); diff != "" {
				t.Errorf("%q threads=%d round-trip mismatch (-want +got):\n%s", in, threads, diff)
			}
		}
	}
}

func TestBWTRoundTripRandom(t *testing.T) {
	src := rand.New(rand.NewSource(7))
	for trial := 0; trial < 30; trial++ {
		n := 2 + src.Intn(500)
		orig := make([]byte, n)
		for i := range orig {
			orig[i] = byte('a' + src.Intn(6))
		}
		threads := 1 + src.Intn(5)

		bwt, sentinel, err := ForwardBWT(orig, threads)
		if err != nil {
			t.Fatalf("trial=%d: forward: %v", trial, err)
		}
		out := make([]byte, len(bwt))
		copy(out, bwt)
		if err := ReverseBWT(out, sentinel, threads); err != nil {
			t.Fatalf("trial=%d: inverse: %v", trial, err)
		}
		if diff := cmp.Diff(orig, out); diff != "" {
			t.Fatalf("trial=%d n=%d threads=%d round-trip mismatch (-want +got):\n%s", trial, n, threads, diff)
		}
	}
}

func TestReverseBWTRejectsInvalidSentinel(t *testing.T) {
	l := []byte("nnbaaa")
	if err := ReverseBWT(l, -1, 1); err == nil {
		t.Error("expected error for negative sentinel index")
	}
	if err := ReverseBWT(l, int32(len(l)), 1); err == nil {
		t.Error("expected error for out-of-range sentinel index")
	}
}
