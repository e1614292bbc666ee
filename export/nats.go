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

package export

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/ayuillarionov/matudp"
)

// DefaultTrialsSubject is the NATS subject finalized trials are
// published to when the caller doesn't override it.
const DefaultTrialsSubject = "trial-logger.trials"

// NATSWriter is a matudp.Writer that publishes each finalized trial as
// a JSON message, letting a downstream consumer subscribe instead of
// polling a dataroot directory. It demonstrates the §4.I contract's
// "the exact container is not specified" clause with a second,
// independent container alongside FileWriter.
type NATSWriter struct {
	conn    *nats.Conn
	subject string
	log     *zap.Logger
}

// NewNATSWriter connects to url and returns a Writer publishing to
// subject (DefaultTrialsSubject if empty).
func NewNATSWriter(url, subject string, log *zap.Logger) (*NATSWriter, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("export: connecting to nats at %q: %w", url, err)
	}
	if subject == "" {
		subject = DefaultTrialsSubject
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &NATSWriter{conn: conn, subject: subject, log: log}, nil
}

// WriteTrial implements matudp.Writer by publishing trial as JSON on
// the configured subject.
func (w *NATSWriter) WriteTrial(trial matudp.TrialExport) error {
	payload, err := json.Marshal(trial)
	if err != nil {
		return fmt.Errorf("export: marshaling trial %d: %w", trial.TrialID, err)
	}
	if err := w.conn.Publish(w.subject, payload); err != nil {
		return fmt.Errorf("export: publishing trial %d: %w", trial.TrialID, err)
	}
	w.log.Debug("TRIAL_PUBLISHED", zap.String("subject", w.subject), zap.Uint32("trialID", trial.TrialID))
	return nil
}

// Close drains and closes the underlying NATS connection.
func (w *NATSWriter) Close() error {
	return w.conn.Drain()
}

// vim: foldmethod=marker
