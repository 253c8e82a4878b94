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
	"iter"

	"github.com/gopacket/gopacket"
)

// Messages returns a lazy iterator over the SOME/IP messages framed
// back-to-back in buf, e.g. a UDP payload carrying several messages. Each
// step decodes one message; calling Messages again on the same buffer
// restarts from the beginning.
//
// On a decode failure the iterator yields the error once and then ends:
// SOME/IP framing has no resynchronization marker, so once a length field is
// untrustworthy no later offset can be assumed to start a message.
func Messages(buf []byte) iter.Seq2[*SOMEIP, error] {
	return func(yield func(*SOMEIP, error) bool) {
		rest := buf
		for len(rest) > 0 {
			msg := &SOMEIP{}
			if err := msg.DecodeFromBytes(rest, gopacket.NilDecodeFeedback); err != nil {
				yield(nil, err)
				return
			}
			rest = rest[len(msg.Contents)+len(msg.Payload):]
			if !yield(msg, nil) {
				return
			}
		}
	}
}
