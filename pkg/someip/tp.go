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

package someip

import (
	"encoding/binary"
	"fmt"
)

// TPHeaderLen is the length of the TP header that follows the fixed header
// on messages with the TP flag set.
const TPHeaderLen = 4

// TPHeader describes one segment of a large SOME/IP message transported over
// UDP (SOME/IP-TP). Reassembly is up to the caller; this library only frames
// the segments.
type TPHeader struct {
	// Offset of this segment's payload relative to the start of the
	// reassembled payload. The wire field carries the upper 28 bits of the
	// offset, so it is always a multiple of 16.
	Offset uint32
	// MoreSegments reports whether further segments follow.
	MoreSegments bool
}

func (t TPHeader) String() string {
	return fmt.Sprintf("Offset=%d, MoreSegments=%t", t.Offset, t.MoreSegments)
}

// decodeTPHeader decodes the 4-byte TP header. The lower 4 bits of the last
// byte are flags; only bit 0 (more segments) is defined.
func decodeTPHeader(data []byte) TPHeader {
	v := binary.BigEndian.Uint32(data[:TPHeaderLen])
	return TPHeader{
		Offset:       v &^ 0xF,
		MoreSegments: v&0x1 != 0,
	}
}
