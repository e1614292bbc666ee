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

// Package export holds Writer implementations: concrete containers a
// finalized TrialExport can be handed off to.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/ayuillarionov/matudp"
)

// FileWriter is the simplest matudp.Writer: one JSON file per trial
// under Root, named by trial id and wallclock so repeated trial ids
// (after a split or a status retirement) never collide.
type FileWriter struct {
	Root string
	Log  *zap.Logger
}

// NewFileWriter returns a FileWriter rooted at root, creating it if
// necessary.
func NewFileWriter(root string, log *zap.Logger) (*FileWriter, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("export: creating dataroot %q: %w", root, err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &FileWriter{Root: root, Log: log}, nil
}

// WriteTrial implements matudp.Writer by marshaling the export to JSON
// and writing it under Root.
func (w *FileWriter) WriteTrial(trial matudp.TrialExport) error {
	name := fmt.Sprintf("trial-%06d.%02d-%d.json", trial.TrialID, trial.TrialPortion, time.Now().UnixNano())
	path := filepath.Join(w.Root, name)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: creating %q: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	if err := enc.Encode(trial); err != nil {
		return fmt.Errorf("export: encoding %q: %w", path, err)
	}

	w.Log.Info("TRIAL_WRITTEN", zap.String("path", path), zap.Uint32("trialID", trial.TrialID), zap.Int("groups", len(trial.Groups)))
	return nil
}

// vim: foldmethod=marker
