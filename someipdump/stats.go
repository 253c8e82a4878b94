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

package someipdump

import (
	"fmt"
	"sort"

	"github.com/someipproto/someip/pkg/someip"
)

// MethodStats aggregates the messages observed for one message ID.
type MethodStats struct {
	ServiceID    uint16            `json:"service_id"`
	MethodID     uint16            `json:"method_id"`
	Count        uint64            `json:"count"`
	PayloadBytes uint64            `json:"payload_bytes"`
	Types        map[string]uint64 `json:"types"`
}

// MessageID returns the combined message ID of the aggregated messages.
func (s *MethodStats) MessageID() uint32 {
	return uint32(s.ServiceID)<<16 | uint32(s.MethodID)
}

// Stats aggregates a capture by message ID.
type Stats struct {
	Messages uint64                  `json:"messages"`
	SDCount  uint64                  `json:"sd_messages"`
	EventCnt uint64                  `json:"events"`
	ByMethod map[uint32]*MethodStats `json:"-"`
}

// NewStats returns an empty aggregation.
func NewStats() *Stats {
	return &Stats{ByMethod: make(map[uint32]*MethodStats)}
}

// Add records one message.
func (s *Stats) Add(msg *someip.SOMEIP) {
	s.Messages++
	if msg.IsServiceDiscovery() {
		s.SDCount++
	}
	if msg.IsEvent() {
		s.EventCnt++
	}
	id := msg.MessageID()
	m := s.ByMethod[id]
	if m == nil {
		m = &MethodStats{
			ServiceID: msg.ServiceID,
			MethodID:  msg.MethodID,
			Types:     make(map[string]uint64),
		}
		s.ByMethod[id] = m
	}
	m.Count++
	m.PayloadBytes += uint64(len(msg.Payload))
	m.Types[msg.MessageType.String()]++
}

// Sorted returns the per-method aggregates ordered by message ID.
func (s *Stats) Sorted() []*MethodStats {
	out := make([]*MethodStats, 0, len(s.ByMethod))
	for _, m := range s.ByMethod {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].MessageID() < out[j].MessageID()
	})
	return out
}

// CollectStats walks a pcap file and aggregates all SOME/IP messages in it.
func CollectStats(file string) (*Stats, error) {
	stats := NewStats()
	err := WalkFile(file, func(rec Record) error {
		stats.Add(rec.Message)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *MethodStats) String() string {
	return fmt.Sprintf("%#08x: %d messages, %d payload bytes",
		s.MessageID(), s.Count, s.PayloadBytes)
}
