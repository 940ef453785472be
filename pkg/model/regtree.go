package model

import "sort"

// regressionTree is the weak learner of GradientBoosting. Splits minimise the
// squared error of the gradients; leaves hold a Newton step sum(g)/sum(h).
type regressionTree struct {
	maxDepth int
	minLeaf  int
	root     *regNode
}

type regNode struct {
	isLeaf    bool
	feature   int
	threshold float64
	left      *regNode
	right     *regNode
	value     float64
}

type regPair struct {
	v float64
	g float64
}

func (t *regressionTree) fit(X [][]float64, grad, hess []float64, idx []int, importances []float64) {
	t.root = t.build(X, grad, hess, idx, 0, importances)
}

func (t *regressionTree) build(X [][]float64, grad, hess []float64, idx []int, depth int, importances []float64) *regNode {
	sumG, sumH := 0.0, 0.0
	for _, i := range idx {
		sumG += grad[i]
		sumH += hess[i]
	}
	leaf := &regNode{isLeaf: true, value: newtonStep(sumG, sumH)}
	if depth >= t.maxDepth || len(idx) < 2*t.minLeaf {
		return leaf
	}

	n := len(idx)
	bestGain, bestFeature, bestThr := 0.0, -1, 0.0
	parentScore := sumG * sumG / float64(n)
	vals := make([]regPair, n)
	for f := 0; f < len(X[idx[0]]); f++ {
		for k, i := range idx {
			vals[k] = regPair{X[i][f], grad[i]}
		}
		sort.Slice(vals, func(a, b int) bool { return vals[a].v < vals[b].v })
		left := 0.0
		for s := 1; s < n; s++ {
			left += vals[s-1].g
			if vals[s].v == vals[s-1].v || s < t.minLeaf || n-s < t.minLeaf {
				continue
			}
			right := sumG - left
			gain := left*left/float64(s) + right*right/float64(n-s) - parentScore
			if gain > bestGain {
				bestGain, bestFeature, bestThr = gain, f, (vals[s-1].v+vals[s].v)/2
			}
		}
	}
	if bestFeature < 0 {
		return leaf
	}

	var li, ri []int
	for _, i := range idx {
		if X[i][bestFeature] <= bestThr {
			li = append(li, i)
		} else {
			ri = append(ri, i)
		}
	}
	importances[bestFeature] += bestGain
	return &regNode{
		feature:   bestFeature,
		threshold: bestThr,
		left:      t.build(X, grad, hess, li, depth+1, importances),
		right:     t.build(X, grad, hess, ri, depth+1, importances),
	}
}

func (t *regressionTree) predict(x []float64) float64 {
	node := t.root
	for !node.isLeaf {
		if x[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.value
}

func newtonStep(g, h float64) float64 {
	if h < 1e-12 {
		return 0
	}
	return g / h
}
