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

package fuzz

import (
	"github.com/gopacket/gopacket"

	"github.com/someipproto/someip/pkg/someip"
	"github.com/someipproto/someip/pkg/someip/sd"
)

// Fuzz fuzzes a SOME/IP message stream.
func Fuzz(data []byte) int {
	ok := 0
	for msg, err := range someip.Messages(data) {
		if err != nil {
			return ok
		}
		_ = msg.String()
		ok = 1
	}
	return ok
}

// FuzzHeader is the fuzzing target for a single message header.
func FuzzHeader(data []byte) int {
	var l someip.SOMEIP
	var feedback fuzzFeedback
	if err := l.DecodeFromBytes(data, &feedback); err != nil {
		return 0
	}
	if len(l.Contents)+len(l.Payload) > len(data) {
		panic("decoded views exceed input")
	}
	return 1
}

// FuzzSD is the fuzzing target for a service discovery payload.
func FuzzSD(data []byte) int {
	payload, err := sd.ParsePayload(data)
	if err != nil {
		return 0
	}
	options, err := payload.AllOptions()
	if err != nil {
		return 0
	}
	for entry := range payload.Entries() {
		if _, _, err := entry.OptionRuns(options); err != nil {
			return 0
		}
	}
	return 1
}

type fuzzFeedback struct {
	Truncated bool
}

func (f *fuzzFeedback) SetTruncated() {
	f.Truncated = true
}

var _ gopacket.DecodeFeedback = (*fuzzFeedback)(nil)
