package model

import (
	"math"
	"math/rand"
	"sort"
	"sync"
)

// ---------------------------
// Types & options
// ---------------------------

// DecisionTreeClassifier is a CART-style binary classifier. Leaves store the
// fraction of positive samples that reached them.
type DecisionTreeClassifier struct {
	MaxDepth            int     // maximum depth (root depth = 0). 0 => no limit
	MinSamplesSplit     int     // minimum samples to attempt a split
	MinSamplesLeaf      int     // minimum samples required in each leaf
	Criterion           string  // "gini" (default) or "entropy"
	MaxFeatures         int     // 0 => all features, >0 => features sampled per split
	MinImpurityDecrease float64 // minimal impurity decrease to accept a split
	RandomSplits        bool    // draw one uniform threshold per feature (extremely randomized trees)
	RandomState         int64

	root        *dtNode
	nFeatures   int
	importances []float64
}

type dtNode struct {
	isLeaf    bool
	feature   int
	threshold float64 // x <= threshold => left
	left      *dtNode
	right     *dtNode

	n     int
	proba float64
}

// Option functional config
type Option func(*DecisionTreeClassifier)

func WithMaxDepth(d int) Option { return func(t *DecisionTreeClassifier) { t.MaxDepth = d } }
func WithMinSamplesSplit(n int) Option {
	return func(t *DecisionTreeClassifier) { t.MinSamplesSplit = n }
}
func WithMinSamplesLeaf(n int) Option {
	return func(t *DecisionTreeClassifier) { t.MinSamplesLeaf = n }
}
func WithCriterion(c string) Option { return func(t *DecisionTreeClassifier) { t.Criterion = c } }
func WithMaxFeatures(k int) Option  { return func(t *DecisionTreeClassifier) { t.MaxFeatures = k } }
func WithMinImpurityDecrease(v float64) Option {
	return func(t *DecisionTreeClassifier) { t.MinImpurityDecrease = v }
}
func WithRandomSplits(b bool) Option { return func(t *DecisionTreeClassifier) { t.RandomSplits = b } }
func WithRandomState(seed int64) Option {
	return func(t *DecisionTreeClassifier) { t.RandomState = seed }
}

// NewDecisionTreeClassifier returns a classifier with sensible defaults.
func NewDecisionTreeClassifier(opts ...Option) *DecisionTreeClassifier {
	d := &DecisionTreeClassifier{
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Criterion:       "gini",
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// ---------------------------
// Public API
// ---------------------------

// Fit trains the tree on every row of X.
func (t *DecisionTreeClassifier) Fit(X [][]float64, y []int) error {
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	return t.FitIndices(X, y, idx)
}

// FitIndices trains the tree on the rows listed in idx. Indices may repeat,
// which is how bootstrap samples are passed without copying X.
func (t *DecisionTreeClassifier) FitIndices(X [][]float64, y []int, idx []int) error {
	p, err := checkXY(X, y)
	if err != nil {
		return err
	}
	if len(idx) == 0 {
		return ErrEmpty
	}
	t.nFeatures = p
	t.importances = make([]float64, p)

	rnd := rand.New(rand.NewSource(t.RandomState))
	t.root = t.buildNode(X, y, append([]int(nil), idx...), 0, rnd)

	total := 0.0
	for _, v := range t.importances {
		total += v
	}
	if total > 0 {
		for j := range t.importances {
			t.importances[j] /= total
		}
	}
	return nil
}

// PredictProba returns P(y=1) for each row of X.
func (t *DecisionTreeClassifier) PredictProba(X [][]float64) ([]float64, error) {
	if t.root == nil {
		return nil, ErrNotFitted
	}
	if err := checkWidth(X, t.nFeatures); err != nil {
		return nil, err
	}
	out := make([]float64, len(X))
	for i := range X {
		out[i] = t.predictOne(X[i])
	}
	return out, nil
}

// FeatureImportances returns the normalised weighted impurity decrease per feature.
func (t *DecisionTreeClassifier) FeatureImportances() []float64 {
	return append([]float64(nil), t.importances...)
}

// Depth returns the depth of the fitted tree.
func (t *DecisionTreeClassifier) Depth() int { return nodeDepth(t.root) }

func nodeDepth(n *dtNode) int {
	if n == nil || n.isLeaf {
		return 0
	}
	return 1 + max(nodeDepth(n.left), nodeDepth(n.right))
}

// ---------------------------
// Internal builders & helpers
// ---------------------------

type splitResult struct {
	gain      float64
	feature   int
	threshold float64
}

type pair struct {
	v float64
	y int
}

func (t *DecisionTreeClassifier) impurity(pos, n int) float64 {
	if n == 0 {
		return 0
	}
	p := float64(pos) / float64(n)
	if t.Criterion == "entropy" {
		return entropy(p)
	}
	return 2 * p * (1 - p)
}

func (t *DecisionTreeClassifier) leaf(node *dtNode, pos int) *dtNode {
	node.isLeaf = true
	node.proba = float64(pos) / float64(node.n)
	return node
}

func (t *DecisionTreeClassifier) buildNode(X [][]float64, y []int, idx []int, depth int, rnd *rand.Rand) *dtNode {
	node := &dtNode{n: len(idx)}
	pos := 0
	for _, i := range idx {
		pos += y[i]
	}

	minLeaf := max(t.MinSamplesLeaf, 1)
	if pos == 0 || pos == len(idx) || len(idx) < t.MinSamplesSplit || len(idx) < 2*minLeaf {
		return t.leaf(node, pos)
	}
	if t.MaxDepth > 0 && depth >= t.MaxDepth {
		return t.leaf(node, pos)
	}

	// determine features to try
	p := t.nFeatures
	featIndices := make([]int, p)
	for j := range featIndices {
		featIndices[j] = j
	}
	if t.MaxFeatures > 0 && t.MaxFeatures < p {
		for i := 0; i < t.MaxFeatures; i++ {
			j := i + rnd.Intn(p-i)
			featIndices[i], featIndices[j] = featIndices[j], featIndices[i]
		}
		featIndices = featIndices[:t.MaxFeatures]
	}
	// random thresholds are drawn up front so the parallel search stays reproducible
	draws := make([]float64, len(featIndices))
	if t.RandomSplits {
		for k := range draws {
			draws[k] = rnd.Float64()
		}
	}

	parent := t.impurity(pos, len(idx))
	results := make([]splitResult, len(featIndices))
	var wg sync.WaitGroup
	for k, f := range featIndices {
		wg.Add(1)
		go func(k, f int) {
			defer wg.Done()
			if t.RandomSplits {
				results[k] = t.randomSplitForFeature(X, y, idx, f, parent, draws[k], minLeaf)
			} else {
				results[k] = t.bestSplitForFeature(X, y, idx, f, parent, minLeaf)
			}
		}(k, f)
	}
	wg.Wait()

	best := splitResult{feature: -1}
	for _, r := range results {
		if r.feature >= 0 && r.gain > best.gain {
			best = r
		}
	}
	if best.feature < 0 || best.gain <= t.MinImpurityDecrease {
		return t.leaf(node, pos)
	}

	leftIdx := make([]int, 0, len(idx))
	rightIdx := make([]int, 0, len(idx))
	for _, i := range idx {
		if X[i][best.feature] <= best.threshold {
			leftIdx = append(leftIdx, i)
		} else {
			rightIdx = append(rightIdx, i)
		}
	}

	t.importances[best.feature] += float64(len(idx)) * best.gain
	node.feature = best.feature
	node.threshold = best.threshold
	node.left = t.buildNode(X, y, leftIdx, depth+1, rnd)
	node.right = t.buildNode(X, y, rightIdx, depth+1, rnd)
	return node
}

// bestSplitForFeature scans every midpoint between distinct sorted values.
func (t *DecisionTreeClassifier) bestSplitForFeature(X [][]float64, y []int, idx []int, f int, parent float64, minLeaf int) splitResult {
	result := splitResult{feature: -1}
	vals := make([]pair, len(idx))
	total := 0
	for k, i := range idx {
		vals[k] = pair{X[i][f], y[i]}
		total += y[i]
	}
	sort.Slice(vals, func(a, b int) bool { return vals[a].v < vals[b].v })

	n := len(vals)
	leftPos := 0
	for s := 1; s < n; s++ {
		leftPos += vals[s-1].y
		if vals[s].v == vals[s-1].v {
			continue
		}
		if s < minLeaf || n-s < minLeaf {
			continue
		}
		weighted := (float64(s)*t.impurity(leftPos, s) + float64(n-s)*t.impurity(total-leftPos, n-s)) / float64(n)
		gain := parent - weighted
		if gain > result.gain || result.feature < 0 {
			result = splitResult{gain: gain, feature: f, threshold: (vals[s-1].v + vals[s].v) / 2}
		}
	}
	return result
}

// randomSplitForFeature evaluates a single threshold drawn uniformly between
// the feature's minimum and maximum at this node.
func (t *DecisionTreeClassifier) randomSplitForFeature(X [][]float64, y []int, idx []int, f int, parent, u float64, minLeaf int) splitResult {
	result := splitResult{feature: -1}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, i := range idx {
		v := X[i][f]
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if !(hi > lo) {
		return result
	}
	thr := lo + u*(hi-lo)
	if thr >= hi {
		thr = lo
	}

	leftN, leftPos, total := 0, 0, 0
	for _, i := range idx {
		total += y[i]
		if X[i][f] <= thr {
			leftN++
			leftPos += y[i]
		}
	}
	n := len(idx)
	if leftN < minLeaf || n-leftN < minLeaf {
		return result
	}
	weighted := (float64(leftN)*t.impurity(leftPos, leftN) + float64(n-leftN)*t.impurity(total-leftPos, n-leftN)) / float64(n)
	return splitResult{gain: parent - weighted, feature: f, threshold: thr}
}

func (t *DecisionTreeClassifier) predictOne(x []float64) float64 {
	node := t.root
	for !node.isLeaf {
		if x[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.proba
}

func entropy(p float64) float64 {
	if p <= 0 || p >= 1 {
		return 0
	}
	return -p*math.Log2(p) - (1-p)*math.Log2(1-p)
}
