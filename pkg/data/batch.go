package data

import "math/rand"

// Batch is a mini-batch of samples.
type Batch struct {
	X [][]float64
	Y []float64
}

// Batches shuffles the sample order with rnd and emits mini-batches of at most
// size rows over the returned channel. The channel is closed after the last
// (possibly short) batch. Close done to stop early.
func Batches(X [][]float64, Y []float64, size int, rnd *rand.Rand) (<-chan Batch, chan<- struct{}) {
	out := make(chan Batch)
	done := make(chan struct{})
	if size <= 0 {
		size = len(X)
	}
	order := rnd.Perm(len(X))

	go func() {
		defer close(out)
		for start := 0; start < len(order); start += size {
			end := min(start+size, len(order))
			b := Batch{X: make([][]float64, 0, end-start), Y: make([]float64, 0, end-start)}
			for _, i := range order[start:end] {
				b.X = append(b.X, X[i])
				b.Y = append(b.Y, Y[i])
			}
			select {
			case <-done:
				return
			case out <- b:
			}
		}
	}()
	return out, done
}
