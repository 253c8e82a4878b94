// Copyright 2025 The someip-go Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package someipdump extracts SOME/IP traffic from packet captures.
package someipdump

import (
	"errors"
	"io"
	"net/netip"
	"os"
	"time"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"
	"github.com/gopacket/gopacket/pcapgo"

	"github.com/someipproto/someip/pkg/log"
	"github.com/someipproto/someip/pkg/private/serrors"
	"github.com/someipproto/someip/pkg/someip"
)

// Record is one SOME/IP message found in a capture, together with the
// capture timestamp and the UDP flow it was carried on. Message views alias
// the packet buffer and stay valid only until the visitor returns.
type Record struct {
	Timestamp   time.Time
	Source      netip.AddrPort
	Destination netip.AddrPort
	Message     *someip.SOMEIP
}

// Visitor is called for every SOME/IP message in a capture. Returning an
// error aborts the walk.
type Visitor func(Record) error

// WalkFile opens a pcap file and walks all SOME/IP messages in it.
func WalkFile(file string, visit Visitor) error {
	f, err := os.Open(file)
	if err != nil {
		return serrors.Wrap("opening capture", err, "file", file)
	}
	defer f.Close()
	if err := Walk(f, visit); err != nil {
		return serrors.Wrap("reading capture", err, "file", file)
	}
	return nil
}

// Walk reads a pcap stream and calls visit for every SOME/IP message found
// in a UDP payload. Packets without a UDP layer are skipped, as are UDP
// payloads whose message stream is malformed; a malformed stream only
// discards the remainder of that datagram.
func Walk(r io.Reader, visit Visitor) error {
	pr, err := pcapgo.NewReader(r)
	if err != nil {
		return serrors.Wrap("reading pcap header", err)
	}
	opts := gopacket.DecodeOptions{Lazy: true, NoCopy: true}
	for {
		data, ci, err := pr.ReadPacketData()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return serrors.Wrap("reading packet", err)
		}
		pkt := gopacket.NewPacket(data, pr.LinkType(), opts)
		udp, ok := pkt.TransportLayer().(*layers.UDP)
		if !ok {
			continue
		}
		src, dst := flowAddrs(pkt, udp)
		for msg, err := range someip.Messages(udp.Payload) {
			if err != nil {
				log.Debug("Malformed message stream", "src", src, "dst", dst, "err", err)
				break
			}
			rec := Record{
				Timestamp:   ci.Timestamp,
				Source:      src,
				Destination: dst,
				Message:     msg,
			}
			if err := visit(rec); err != nil {
				return err
			}
		}
	}
}

func flowAddrs(pkt gopacket.Packet, udp *layers.UDP) (netip.AddrPort, netip.AddrPort) {
	var srcIP, dstIP netip.Addr
	switch ip := pkt.NetworkLayer().(type) {
	case *layers.IPv4:
		srcIP, _ = netip.AddrFromSlice(ip.SrcIP)
		dstIP, _ = netip.AddrFromSlice(ip.DstIP)
	case *layers.IPv6:
		srcIP, _ = netip.AddrFromSlice(ip.SrcIP)
		dstIP, _ = netip.AddrFromSlice(ip.DstIP)
	}
	return netip.AddrPortFrom(srcIP.Unmap(), uint16(udp.SrcPort)),
		netip.AddrPortFrom(dstIP.Unmap(), uint16(udp.DstPort))
}
