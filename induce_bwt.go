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

// induceAsBWT runs C7: identical control structure to induce (§4.5/§4.6),
// down to reusing its bucket reservation helpers unchanged, but every SA
// slot is retired into the BWT byte T[j-1] the moment its occupant j has
// been read and its predecessor's destination computed, instead of being
// left holding the suffix index. The one slot that can never be retired
// this way is the one holding index 0 (T[j-1] would read before the start
// of the input) — its array position is returned as the sentinel position,
// exactly the row forward BWT's wraparound rule assigns input[n-1] to.
func (e *engine) induceAsBWT(layout *bucketLayout) (int32, error) {
	frontier := e.placeBStarFinal(layout)

	typeAFrontier, sentinelRTL, err := e.induceRightToLeftBWT(layout, frontier)
	if err != nil {
		return 0, err
	}

	sentinelLTR, err := e.induceLeftToRightBWT(layout, typeAFrontier)
	if err != nil {
		return 0, err
	}

	if sentinelRTL >= 0 {
		return sentinelRTL, nil
	}
	return sentinelLTR, nil
}

// induceRightToLeftBWT mirrors induceRightToLeft: same rounds, same
// destination reservation via reserveAndScatterRTL. The difference is
// entirely local to this loop — a consumed frontier slot is stamped with
// its BWT byte in place, rather than left holding the suffix index.
func (e *engine) induceRightToLeftBWT(layout *bucketLayout, frontier []int32) ([]int32, int32, error) {
	t := e.t
	sa := e.sa
	var typeAFrontier []int32
	sentinelIndex := int32(-1)

	for len(frontier) > 0 {
		slices.SortFunc(frontier, func(a, b int32) int { return int(b - a) })

		cands := make([]int32, 0, len(frontier))
		for _, pos := range frontier {
			v := sa[pos]
			idx := indexOf(v)
			if idx == 0 {
				sentinelIndex = pos
				continue
			}
			if v&precedingIsTypeA != 0 {
				typeAFrontier = append(typeAFrontier, pos)
				continue
			}
			sa[pos] = int32(t[idx-1])
			cands = append(cands, idx-1)
		}
		if len(cands) == 0 {
			break
		}

		entries, err := e.reserveAndScatterRTL(layout, cands)
		if err != nil {
			return nil, 0, err
		}

		frontier = frontier[:0]
		for _, ent := range entries {
			sa[ent.dest] = ent.value
			frontier = append(frontier, ent.dest)
		}
	}

	return typeAFrontier, sentinelIndex, nil
}

// induceLeftToRightBWT mirrors induceLeftToRight, retiring every consumed
// slot into its BWT byte just like induceRightToLeftBWT does.
func (e *engine) induceLeftToRightBWT(layout *bucketLayout, frontier []int32) (int32, error) {
	t := e.t
	sa := e.sa
	sentinelIndex := int32(-1)

	for len(frontier) > 0 {
		slices.SortFunc(frontier, func(a, b int32) int { return int(a - b) })

		cands := make([]int32, 0, len(frontier))
		for _, pos := range frontier {
			idx := indexOf(sa[pos])
			if idx == 0 {
				sentinelIndex = pos
				continue
			}
			sa[pos] = int32(t[idx-1])
			cands = append(cands, idx-1)
		}
		if len(cands) == 0 {
			break
		}

		entries, next, err := e.reserveAndScatterLTR(layout, cands)
		if err != nil {
			return 0, err
		}
		for _, ent := range entries {
			sa[ent.dest] = ent.value
		}
		frontier = next
	}

	return sentinelIndex, nil
}
