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
	"fmt"
	"strconv"
	"strings"
)

// ErrAddressMalformed is returned by ParseNetworkAddress when the
// --recv flag's value matches none of the three accepted forms.
var ErrAddressMalformed = fmt.Errorf("udpnet: address is not IFACE:HOST:PORT, HOST:PORT, or PORT")

// NetworkAddress is a parsed --recv target: an optional interface to
// filter arrivals by, a host to bind (empty means wildcard), and a
// port.
type NetworkAddress struct {
	Iface string
	Host  string
	Port  uint16
}

// ParseNetworkAddress implements the three-form grammar of
// network.c's parseNetworkAddress: two colons select
// IFACE:HOST:PORT, one colon selects HOST:PORT, and zero colons is a
// bare PORT binding the wildcard address. An empty host binds
// "0.0.0.0". A missing or zero port is a configuration error.
func ParseNetworkAddress(s string) (NetworkAddress, error) {
	parts := strings.Split(s, ":")

	var addr NetworkAddress
	switch len(parts) {
	case 1:
		addr.Host = ""
	case 2:
		addr.Host = parts[0]
		parts = parts[1:]
	case 3:
		addr.Iface = parts[0]
		addr.Host = parts[1]
		parts = parts[2:]
	default:
		return NetworkAddress{}, ErrAddressMalformed
	}

	port, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil || port == 0 {
		return NetworkAddress{}, ErrAddressMalformed
	}
	addr.Port = uint16(port)

	if addr.Host == "" {
		addr.Host = "0.0.0.0"
	}

	return addr, nil
}

// BindAddr returns the "host:port" string suitable for net.ListenUDP.
func (a NetworkAddress) BindAddr() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

// vim: foldmethod=marker
