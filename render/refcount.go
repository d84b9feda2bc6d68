// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

// refCounter counts the holders of a shared resource. A new resource starts
// with one reference, owned by whoever created it.
type refCounter struct {
	n int32
}

func newRefCounter() refCounter { return refCounter{n: 1} }

func (r *refCounter) grab() { r.n++ }

// drop releases one reference and reports whether it was the last one.
// Dropping a dead resource is ignored.
func (r *refCounter) drop() bool {
	if r.n <= 0 {
		return false
	}
	r.n--
	return r.n == 0
}

func (r *refCounter) count() int { return int(r.n) }
