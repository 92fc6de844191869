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
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func referenceSuffixArray(t []byte) []int32 {
	n := len(t)
	sa := make([]int32, n+1)
	for i := range sa {
		sa[i] = int32(i)
	}
	sort.Slice(sa, func(i, j int) bool {
		return suffixLess(t, sa[i], sa[j])
	})
	return sa
}

func checkSuffixArray(tt *testing.T, input []byte, sa []int32, numThreads int) {
	tt.Helper()
	n := len(input)
	if len(sa) != n+1 {
		tt.Fatalf("len(sa)=%d, want %d", len(sa), n+1)
	}

	seen := make([]bool, n+1)
	for _, v := range sa {
		if v < 0 || int(v) > n {
			tt.Fatalf("sa entry %d out of range [0,%d]", v, n)
		}
		if seen[v] {
			tt.Fatalf("sa entry %d appears more than once", v)
		}
		seen[v] = true
	}

	for i := 1; i < len(sa); i++ {
		if !suffixLess(input, sa[i-1], sa[i]) {
			tt.Fatalf("sa not sorted at rank %d: suffix %d should precede suffix %d (threads=%d)", i, sa[i-1], sa[i], numThreads)
		}
	}
}

var scenarios = []struct {
	name string
	in   string
	want []int32
}{
	{"banana", "banana", []int32{6, 5, 3, 1, 0, 4, 2}},
	{"mississippi", "mississippi", []int32{11, 10, 7, 4, 1, 0, 9, 8, 6, 3, 5, 2}},
	{"allsame", "aaaaaaaa", []int32{8, 7, 6, 5, 4, 3, 2, 1, 0}},
	{"alternating", "abababab", []int32{8, 6, 4, 2, 0, 7, 5, 3, 1}},
}

func TestMakeSuffixArrayScenarios(t *testing.T) {
	for _, sc := range scenarios {
		t.Run(sc.name, func(t *testing.T) {
			sa, err := MakeSuffixArray([]byte(sc.in), 1)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(sc.want, sa); diff != "" {
				t.Errorf("suffix array mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMakeSuffixArrayThreadCountInvariant(t *testing.T) {
	for _, sc := range scenarios {
		for _, threads := range []int{1, 2, 4, 8} {
			sa, err := MakeSuffixArray([]byte(sc.in), threads)
			if err != nil {
				t.Fatalf("%s threads=%d: %v", sc.name, threads, err)
			}
			if diff := cmp.Diff(sc.want, sa); diff != "" {
				t.Errorf("%s threads=%d mismatch (-want +got):\n%s", sc.name, threads, diff)
			}
		}
	}
}

func TestMakeSuffixArrayBoundaries(t *testing.T) {
	sa, err := MakeSuffixArray(nil, 4)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int32{0}, sa); diff != "" {
		t.Errorf("empty input mismatch (-want +got):\n%s", diff)
	}

	sa, err = MakeSuffixArray([]byte("x"), 4)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int32{1, 0}, sa); diff != "" {
		t.Errorf("single byte mismatch (-want +got):\n%s", diff)
	}
}

func TestMakeSuffixArrayAgainstReference(t *testing.T) {
	src := rand.New(rand.NewSource(42))
	alphabets := []int{2, 4, 26}

	for _, alphaSize := range alphabets {
		for trial := 0; trial < 20; trial++ {
			n := src.Intn(300)
			buf := make([]byte, n)
			for i := range buf {
				buf[i] = byte('a' + src.Intn(alphaSize))
			}

			for _, threads := range []int{1, 3} {
				sa, err := MakeSuffixArray(buf, threads)
				if err != nil {
					t.Fatalf("alpha=%d trial=%d threads=%d: %v", alphaSize, trial, threads, err)
				}
				want := referenceSuffixArray(buf)
				if diff := cmp.Diff(want, sa); diff != "" {
					t.Fatalf("alpha=%d trial=%d threads=%d n=%d mismatch (-want +got):\n%s", alphaSize, trial, threads, n, diff)
				}
				checkSuffixArray(t, buf, sa, threads)
			}
		}
	}
}

func TestMakeSuffixArrayTandemRepeats(t *testing.T) {
	inputs := []string{
		"abcabcabcabcabcabcabc",
		"xyzxyzxyzxyzxyzxyzxyzxyzxyz",
		"aababababababababab",
		"mnmnmnmnmnmnmnmnmnmnmnmnmnmnmnmnmn",
	}
	for _, in := range inputs {
		buf := []byte(in)
		for _, threads := range []int{1, 4} {
			sa, err := MakeSuffixArray(buf, threads)
			if err != nil {
				t.Fatalf("%q threads=%d: %v", in, threads, err)
			}
			want := referenceSuffixArray(buf)
			if diff := cmp.Diff(want, sa); diff != "" {
				t.Fatalf("%q threads=%d mismatch (-want +got):\n%s", in, threads, diff)
			}
		}
	}
}
