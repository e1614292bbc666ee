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
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrialSlotLifecycle(t *testing.T) {
	s := NewDataLoggerStatus()
	s.Lock()
	defer s.Unlock()

	assert.True(t, s.PendingNextTrial())

	now := time.Now()
	require.NoError(t, s.AdvanceToNextTrial(1, false, now))
	assert.False(t, s.PendingNextTrial())
	// Nothing had landed in slot 0 yet, so the first NextTrial must not
	// burn a ring slot — it just marks trial 1 pending for slot 0.
	assert.Equal(t, 0, s.CurrentTrial())
	assert.Equal(t, uint32(1), s.Slot(0).TrialID)

	s.touchUtilized(0, 0.0, now)
	assert.True(t, s.Slot(0).Utilized())

	require.NoError(t, s.AdvanceToNextTrial(2, false, now))
	assert.Equal(t, 1, s.CurrentTrial())
	assert.True(t, s.Slot(0).Completed())

	idx := s.GetNextCompleteTrialToWrite()
	assert.Equal(t, 0, idx)
	assert.Equal(t, -1, s.GetNextCompleteTrialToWrite())

	s.MarkTrialWritten(idx)
	assert.False(t, s.Slot(idx).Utilized())
}

func TestManualSplitIsNoOpOnEmptySlot(t *testing.T) {
	s := NewDataLoggerStatus()
	s.Lock()
	defer s.Unlock()

	require.NoError(t, s.ManualSplitCurrentTrial(time.Now()))
	require.NoError(t, s.ManualSplitCurrentTrial(time.Now()))
	assert.Equal(t, 0, s.CurrentTrial())
}

func TestAdvanceToNextTrialNoFreeSlot(t *testing.T) {
	s := NewDataLoggerStatus()
	s.Lock()
	defer s.Unlock()

	now := time.Now()
	for i := 0; i < numTrialSlots; i++ {
		require.NoError(t, s.AdvanceToNextTrial(uint32(i+1), false, now))
		s.touchUtilized(s.CurrentTrial(), 0, now)
	}
	// Slots 0 and 1 are now COMPLETE and still unwritten, slot 2 is the
	// current UTILIZED slot; advancing once more wraps onto slot 0,
	// which isn't EMPTY, hitting the full-ring case.
	err := s.AdvanceToNextTrial(99, false, now)
	assert.ErrorIs(t, err, ErrNoFreeSlot)
}

func TestSetMetaChanged(t *testing.T) {
	s := NewDataLoggerStatus()
	s.Lock()
	defer s.Unlock()

	assert.True(t, s.SetMetaChanged("subject", "alpha"))
	s.applyMeta("subject", "alpha")
	assert.False(t, s.SetMetaChanged("subject", "alpha"))
	assert.True(t, s.SetMetaChanged("subject", "beta"))
}

// vim: foldmethod=marker
