// {{{ Copyright (c) Paul R. Tagliamonte <paul@k3xec.com>, 2020
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE. }}}

package matudp

// trieFanout is the number of edges at each trie level, one per
// possible byte value of the key.
const trieFanout = 256

// trie is a byte-indexed 256-ary trie over group names, grounded on
// the original fixed-fanout Trie: O(len(name)) find/insert, no
// rebalancing, no delete. A trie never prunes nodes once inserted;
// a retired status discards the whole trie rather than pruning it
// (§3 Lifecycle), so there is no trie_remove analog here.
type trie struct {
	value *GroupInfo
	edges [trieFanout]*trie
	// parent and indexInParent back-link a node to its owner. insert
	// records them; nothing in this package reads them (iterate
	// recurses over edges instead).
	parent        *trie
	indexInParent int
}

// newTrie returns an empty trie root.
func newTrie() *trie {
	return &trie{}
}

// find walks name byte by byte and returns the node it reaches, or
// nil if any edge along the way is missing.
func (t *trie) find(name string) *trie {
	node := t
	for i := 0; i < len(name); i++ {
		next := node.edges[name[i]]
		if next == nil {
			return nil
		}
		node = next
	}
	return node
}

// lookup is find followed by a value read; it returns (nil, false)
// if the path doesn't exist or exists but carries no value.
func (t *trie) lookup(name string) (*GroupInfo, bool) {
	node := t.find(name)
	if node == nil || node.value == nil {
		return nil, false
	}
	return node.value, true
}

// insert walks name, creating edges as needed, and sets the value at
// the terminal node. It overwrites any value already there.
func (t *trie) insert(name string, value *GroupInfo) {
	node := t
	for i := 0; i < len(name); i++ {
		b := name[i]
		next := node.edges[b]
		if next == nil {
			next = &trie{parent: node, indexInParent: int(b)}
			node.edges[b] = next
		}
		node = next
	}
	node.value = value
}

// count returns the number of non-nil-valued nodes reachable from t.
func (t *trie) count() int {
	n := 0
	if t.value != nil {
		n++
	}
	for _, e := range t.edges {
		if e != nil {
			n += e.count()
		}
	}
	return n
}

// iterate calls fn on every non-nil value reachable from t, in
// ascending byte order at each level (i.e. stable but not
// insertion-ordered; callers needing arrival order should track it
// separately, as GroupInfo.signalOrder does for signals).
func (t *trie) iterate(fn func(*GroupInfo)) {
	if t.value != nil {
		fn(t.value)
	}
	for _, e := range t.edges {
		if e != nil {
			e.iterate(fn)
		}
	}
}

// flush calls fn on every non-nil value reachable from t. Unlike the
// original trie_flush, it does not free the node graph itself — Go's
// garbage collector reclaims it once the owning trie is dropped.
func (t *trie) flush(fn func(*GroupInfo)) {
	t.iterate(fn)
}

// vim: foldmethod=marker
