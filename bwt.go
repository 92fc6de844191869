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

// ForwardBWT computes the Burrows-Wheeler Transform of input using up to
// numThreads goroutines. It runs C1-C4 exactly as MakeSuffixArray does, then
// induces with C7 instead of C5/C6: the same right-to-left/left-to-right
// control structure, but each SA slot is collapsed into the BWT byte the
// moment it is read, instead of being left holding the suffix index and
// requiring a second O(n) pass to derive the transform afterward. It
// returns the transformed bytes (same length as input) and the sentinel
// index: the row of the conceptual, never-materialized terminator symbol,
// which the caller must keep alongside the transformed bytes to invert the
// transform.
//
// Given the suffix array SA of length n+1 (with the sentinel row SA[0]==n
// dropped), BWT[i] is input[SA[i]-1], wrapping to input[n-1] at the row
// where SA[i]==0 — that row is the sentinel index.
func ForwardBWT(input []byte, numThreads int) ([]byte, int32, error) {
	n := len(input)
	if n == 0 {
		return nil, 0, nil
	}
	if n == 1 {
		return []byte{input[0]}, 0, nil
	}

	e, err := newEngine(input, numThreads)
	if err != nil {
		return nil, 0, err
	}
	return e.runAsBWT()
}
