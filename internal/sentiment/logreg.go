package sentiment

import "math"

type trainOptions struct {
	Epochs       int
	LearningRate float64
	// C is the inverse regularisation strength.
	C float64
}

// fitLogistic minimises mean log loss plus an l2 penalty of 1/(2Cn)·|w|²
// with full-batch gradient descent. The bias is not penalised.
func fitLogistic(x []sparseVector, y []float64, dim int, opts trainOptions) ([]float64, float64) {
	w := make([]float64, dim)
	var b float64
	n := float64(len(x))
	lambda := 1 / (opts.C * n)
	grad := make([]float64, dim)
	for epoch := 0; epoch < opts.Epochs; epoch++ {
		for i := range grad {
			grad[i] = 0
		}
		var gradB float64
		for i, row := range x {
			diff := sigmoid(dot(w, row)+b) - y[i]
			for j, idx := range row.Index {
				grad[idx] += diff * row.Value[j]
			}
			gradB += diff
		}
		for j := range w {
			w[j] -= opts.LearningRate * (grad[j]/n + lambda*w[j])
		}
		b -= opts.LearningRate * gradB / n
	}
	return w, b
}

func dot(w []float64, row sparseVector) float64 {
	var sum float64
	for j, idx := range row.Index {
		sum += w[idx] * row.Value[j]
	}
	return sum
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
