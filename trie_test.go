// {{{ Copyright (c) Paul R. Tagliamonte <paul@k3xec.com>, 2022
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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrieFindInsertLookup(t *testing.T) {
	tr := newTrie()

	a := &GroupInfo{Name: "alpha"}
	b := &GroupInfo{Name: "beta"}

	_, ok := tr.lookup("alpha")
	assert.False(t, ok)

	tr.insert("alpha", a)
	tr.insert("beta", b)

	got, ok := tr.lookup("alpha")
	assert.True(t, ok)
	assert.Same(t, a, got)

	got, ok = tr.lookup("beta")
	assert.True(t, ok)
	assert.Same(t, b, got)

	assert.Equal(t, 2, tr.count())
}

func TestTrieInsertOverwrites(t *testing.T) {
	tr := newTrie()
	a := &GroupInfo{Name: "g"}
	b := &GroupInfo{Name: "g"}

	tr.insert("g", a)
	tr.insert("g", b)

	got, ok := tr.lookup("g")
	assert.True(t, ok)
	assert.Same(t, b, got)
	assert.Equal(t, 1, tr.count())
}

func TestTrieIterateVisitsEveryValue(t *testing.T) {
	tr := newTrie()
	names := []string{"a", "ab", "abc", "b", "ba"}
	for _, n := range names {
		tr.insert(n, &GroupInfo{Name: n})
	}

	seen := map[string]bool{}
	tr.iterate(func(g *GroupInfo) {
		seen[g.Name] = true
	})

	assert.Len(t, seen, len(names))
	for _, n := range names {
		assert.True(t, seen[n], n)
	}
}

// vim: foldmethod=marker
