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

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ayuillarionov/matudp"
	"github.com/ayuillarionov/matudp/export"
	"github.com/ayuillarionov/matudp/udpnet"
)

// exitConfig and exitIO are the §6 exit codes for configuration/bind
// failures and unrecoverable I/O, respectively.
const (
	exitConfig = 1
	exitIO     = 2
)

type options struct {
	recv      string
	dataroot  string
	verbose   bool
	natsURL   string
	splitAge  time.Duration
	flushAge  time.Duration
}

func main() {
	opts := &options{}

	root := &cobra.Command{
		Use:   "trial-logger",
		Short: "UDP trial-logger: ingest framed signal samples, group by trial, write finalized trials",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	flags := root.Flags()
	flags.StringVar(&opts.recv, "recv", ":29001", "bind address: IFACE:HOST:PORT, HOST:PORT, or PORT")
	flags.StringVar(&opts.dataroot, "dataroot", "", "writer output root (file sink disabled if empty)")
	flags.BoolVar(&opts.verbose, "verbose", false, "verbose diagnostics")
	flags.StringVar(&opts.natsURL, "nats", "", "NATS server URL (nats sink disabled if empty)")
	flags.DurationVar(&opts.splitAge, "split-age", 5*time.Minute, "force-split a trial open longer than this")
	flags.DurationVar(&opts.flushAge, "flush-age", 30*time.Minute, "drop a non-current trial older than this")

	if err := root.Execute(); err != nil {
		os.Exit(exitFor(err))
	}
}

// exitError carries the §6 exit code alongside the underlying error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func exitFor(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	// Errors that did not come from run are cobra's own flag and
	// argument parsing failures.
	return exitConfig
}

func run(ctx context.Context, opts *options) error {
	log, err := newLogger(opts.verbose)
	if err != nil {
		return &exitError{exitConfig, err}
	}
	defer log.Sync()

	addr, err := udpnet.ParseNetworkAddress(opts.recv)
	if err != nil {
		return &exitError{exitConfig, fmt.Errorf("--recv: %w", err)}
	}

	var writers export.Multi
	if opts.dataroot != "" {
		fw, err := export.NewFileWriter(opts.dataroot, log.Named("export.file"))
		if err != nil {
			return &exitError{exitConfig, err}
		}
		writers = append(writers, fw)
	}
	if opts.natsURL != "" {
		nw, err := export.NewNATSWriter(opts.natsURL, "", log.Named("export.nats"))
		if err != nil {
			return &exitError{exitConfig, err}
		}
		defer nw.Close()
		writers = append(writers, nw)
	}
	if len(writers) == 0 {
		return &exitError{exitConfig, fmt.Errorf("neither --dataroot nor --nats was set: no writer configured")}
	}

	coordinator := matudp.NewCoordinator()

	receiver := &udpnet.Receiver{
		Addr: addr,
		Sink: coordinatorSink{coordinator},
		Log:  log.Named("udpnet.receiver"),
	}
	drainer := &matudp.Drainer{
		Coordinator: coordinator,
		Writer:      writers,
		Log:         log.Named("writer"),
	}
	housekeeper := &udpnet.Housekeeper{
		Coordinator: coordinator,
		Log:         log.Named("udpnet.housekeeper"),
		Interval:    time.Second,
		SplitAge:    opts.splitAge,
		FlushAge:    opts.flushAge,
	}

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error { return receiver.Run(gctx) })
	group.Go(func() error { return drainer.Run(gctx) })
	group.Go(func() error { return housekeeper.Run(gctx) })

	if err := group.Wait(); err != nil {
		if errors.Is(err, udpnet.ErrSocketBind) {
			return &exitError{exitConfig, err}
		}
		return &exitError{exitIO, err}
	}
	return nil
}

// coordinatorSink adapts matudp.Coordinator to udpnet.PacketSink.
type coordinatorSink struct {
	co *matudp.Coordinator
}

func (s coordinatorSink) Deliver(pkt *matudp.ParsedPacket, now time.Time) error {
	return s.co.Deliver(pkt, now)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// vim: foldmethod=marker
