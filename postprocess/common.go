package postprocess

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// ArgMax returns the index and value of the highest score.  When several
// scores share the maximum the lowest index wins.
func ArgMax(scores []float32) (int, float32) {

	if len(scores) == 0 {
		return -1, 0
	}

	wide := make([]float64, len(scores))

	for i, s := range scores {
		wide[i] = float64(s)
	}

	idx := floats.MaxIdx(wide)

	return idx, scores[idx]
}

// NMS implements a greedy Non-Maximum Suppression (NMS) algorithm.  Results
// with a Probability not above scoreThreshold are dropped, the remainder are
// visited from highest to lowest Probability and any box whose IoU with an
// already kept box is above nmsThreshold is suppressed.  The indices of the
// kept results are returned in descending Probability order.
func NMS(results []DetectResult, scoreThreshold, nmsThreshold float32) []int {

	// indexArray keeps an index into results sorted by Probability
	indexArray := make([]int, 0, len(results))

	for i, r := range results {
		if r.Probability > scoreThreshold {
			indexArray = append(indexArray, i)
		}
	}

	sort.SliceStable(indexArray, func(a, b int) bool {
		return results[indexArray[a]].Probability > results[indexArray[b]].Probability
	})

	keep := make([]int, 0, len(indexArray))

	for _, n := range indexArray {

		suppressed := false

		for _, m := range keep {
			if results[n].Box.IoU(results[m].Box) > nmsThreshold {
				suppressed = true
				break
			}
		}

		if !suppressed {
			keep = append(keep, n)
		}
	}

	return keep
}
