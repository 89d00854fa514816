// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package estimator

import "fmt"

// leafMarker marks a node without children in ChildrenLeft/ChildrenRight.
const leafMarker = -1

// Tree is a binary decision tree in flat array form. Node i is a leaf when
// ChildrenLeft[i] == -1. Internal nodes send x to the left child when
// x[Feature[i]] <= Threshold[i].
//
// Value holds one output vector per node: class counts or fractions for
// classification trees, a single value for regression trees.
type Tree struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

// NodeCount returns the number of nodes in the tree.
func (t *Tree) NodeCount() int {
	return len(t.ChildrenLeft)
}

// Validate checks array shapes and that every reference stays in range.
func (t *Tree) Validate(numFeatures, numOutputs int) error {
	n := len(t.ChildrenLeft)
	if n == 0 {
		return fmt.Errorf("%w: empty tree", ErrMalformedModel)
	}
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return fmt.Errorf("%w: tree arrays have inconsistent lengths", ErrMalformedModel)
	}

	for i := 0; i < n; i++ {
		if len(t.Value[i]) != numOutputs {
			return fmt.Errorf("%w: node %d has %d outputs, want %d", ErrMalformedModel, i, len(t.Value[i]), numOutputs)
		}
		left, right := t.ChildrenLeft[i], t.ChildrenRight[i]
		if left == leafMarker {
			continue
		}
		if left <= i || left >= n || right <= i || right >= n {
			return fmt.Errorf("%w: node %d has invalid children (%d, %d)", ErrMalformedModel, i, left, right)
		}
		if f := t.Feature[i]; f < 0 || (numFeatures > 0 && f >= numFeatures) {
			return fmt.Errorf("%w: node %d splits on feature %d", ErrMalformedModel, i, f)
		}
	}
	return nil
}

// leaf walks the tree and returns the output vector of the reached leaf.
// The walk ends in at most NodeCount steps and checks every array access, so
// a tree that skipped Validate yields ErrMalformedModel instead of a panic.
func (t *Tree) leaf(x []float64) ([]float64, error) {
	n := len(t.ChildrenLeft)
	node := 0
	for steps := 0; steps <= n; steps++ {
		if node < 0 || node >= n {
			return nil, fmt.Errorf("%w: node reference %d out of range", ErrMalformedModel, node)
		}
		if node >= len(t.ChildrenRight) || node >= len(t.Feature) ||
			node >= len(t.Threshold) || node >= len(t.Value) {
			return nil, fmt.Errorf("%w: node %d missing from tree arrays", ErrMalformedModel, node)
		}
		if t.ChildrenLeft[node] == leafMarker {
			return t.Value[node], nil
		}
		f := t.Feature[node]
		if f < 0 || f >= len(x) {
			return nil, fmt.Errorf("%w: feature %d out of range", ErrDimensionMismatch, f)
		}
		if x[f] <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return nil, fmt.Errorf("%w: tree walk did not terminate", ErrMalformedModel)
}

// scalar returns the first output of the reached leaf.
func (t *Tree) scalar(x []float64) (float64, error) {
	v, err := t.leaf(x)
	if err != nil {
		return 0, err
	}
	if len(v) == 0 {
		return 0, fmt.Errorf("%w: leaf has no value", ErrMalformedModel)
	}
	return v[0], nil
}
