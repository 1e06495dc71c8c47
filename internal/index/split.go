package index

import (
	"math"
	"math/rand"
)

// Split assigns items to the train and test splits. The slice is shuffled
// with the provided rng and the first round(ratio*n) items become the train
// split. Every item lands in exactly one split.
func Split[T any](items []T, ratio float64, rng *rand.Rand) (train, test []T) {
	shuffled := append([]T(nil), items...)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	cut := int(math.Round(ratio * float64(len(shuffled))))
	if cut > len(shuffled) {
		cut = len(shuffled)
	}

	return shuffled[:cut], shuffled[cut:]
}
