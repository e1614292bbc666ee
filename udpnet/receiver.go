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

package udpnet

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/ipv4"

	"github.com/ayuillarionov/matudp"
)

// ErrSocketBind is returned when the receive socket cannot be opened
// on the configured address — a fatal, startup-only error (§7).
var ErrSocketBind = fmt.Errorf("udpnet: could not bind receive socket")

// Receiver is the §4.H network thread: a single goroutine running a
// blocking-receive / validate / parse / deliver loop, cancellable via
// context at one point per iteration (after ReadFrom returns),
// grounded on rtltcp.Server's context-scoped serveConn loop.
//
// When Addr.Iface names an interface, the receiver rejects datagrams
// that arrived on any other interface (§4.A "optional interface
// filter"), using golang.org/x/net/ipv4 control messages to read each
// datagram's arrival interface index — net.ListenUDP's plain
// net.UDPConn exposes no such thing, since ordinary sockets bound to
// the wildcard address receive on every local interface.
type Receiver struct {
	Addr NetworkAddress
	Sink PacketSink
	Log  *zap.Logger
}

// maxDatagramSize is the largest UDP payload the receiver will read
// in one call, matching the envelope's 16-bit length field's range.
const maxDatagramSize = 65535

// Run opens the receive socket and loops reading, validating, and
// delivering datagrams until ctx is canceled. On cancellation it
// closes the socket and returns nil. Parse and checksum errors are
// logged and the datagram dropped — never returned (§4.H: "errors
// from parse are logged ... never propagated up").
func (r *Receiver) Run(ctx context.Context) error {
	udpAddr, err := net.ResolveUDPAddr("udp4", r.Addr.BindAddr())
	if err != nil {
		return fmt.Errorf("%w: %s", ErrSocketBind, err)
	}

	conn, err := net.ListenUDP("udp4", udpAddr)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrSocketBind, err)
	}

	wantIfIndex := -1
	if r.Addr.Iface != "" {
		iface, err := net.InterfaceByName(r.Addr.Iface)
		if err != nil {
			conn.Close()
			return fmt.Errorf("%w: interface %q: %s", ErrSocketBind, r.Addr.Iface, err)
		}
		wantIfIndex = iface.Index
	}

	pconn := ipv4.NewPacketConn(conn)
	if wantIfIndex >= 0 {
		if err := pconn.SetControlMessage(ipv4.FlagInterface, true); err != nil {
			conn.Close()
			return fmt.Errorf("%w: %s", ErrSocketBind, err)
		}
	}

	go func() {
		<-ctx.Done()
		conn.Close()
	}()
	defer conn.Close()

	buf := make([]byte, maxDatagramSize)
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}

	for {
		n, cm, _, err := pconn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.Warn("NETWORK_ERROR_RECV", zap.Error(err))
			continue
		}

		if wantIfIndex >= 0 && (cm == nil || cm.IfIndex != wantIfIndex) {
			log.Debug("NETWORK_INTERFACE_FILTERED", zap.Int("arrivedOn", ifIndexOf(cm)), zap.Int("wantIface", wantIfIndex))
			continue
		}

		env, err := matudp.DecodeEnvelope(buf, n)
		if err != nil {
			log.Warn("NETWORK_ERROR_RECV", zap.Error(err), zap.Int("bytesRead", n))
			continue
		}

		pkt, err := matudp.ParsePacket(env.Payload)
		if err != nil {
			log.Warn("PARSE_ERROR", zap.Error(err))
			continue
		}

		now := time.Now()
		if err := r.Sink.Deliver(pkt, now); err != nil {
			log.Warn("NETWORK_DELIVER_ERROR", zap.Error(err), zap.String("group", pkt.Header.Name))
			continue
		}
	}
}

// ifIndexOf returns cm's interface index, or -1 if cm is nil (no
// control message was delivered with the datagram).
func ifIndexOf(cm *ipv4.ControlMessage) int {
	if cm == nil {
		return -1
	}
	return cm.IfIndex
}

// vim: foldmethod=marker
