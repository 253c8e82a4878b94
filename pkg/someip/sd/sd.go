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

// Package sd decodes SOME/IP service discovery payloads: the flags byte and
// the entries and options arrays. It operates on the payload slice of a
// message already classified as service discovery by package someip.
//
// Entries and options are exposed as lazy sequences so that a caller that
// only needs the flags, or an entry count, pays no option decode cost.
// Resolving an entry's option index ranges against the options is an
// explicit, separate step; see Entry.OptionRuns.
package sd

import (
	"encoding/binary"
	"errors"
	"fmt"
	"iter"

	"github.com/someipproto/someip/pkg/private/serrors"
)

// prefixLen is the SD payload prefix preceding the entries array: flags(1),
// reserved(3), entries array byte length(4).
const prefixLen = 8

// Decode errors. The returned errors wrap these sentinels and carry the
// offending raw values and offsets as context; match with errors.Is.
var (
	// ErrNotEnoughData indicates a declared array or option length exceeding
	// the bytes actually present.
	ErrNotEnoughData = errors.New("not enough data")
	// ErrInvalidEntriesLength indicates an entries array byte length that is
	// not a multiple of the fixed 16-byte entry size.
	ErrInvalidEntriesLength = errors.New("invalid entries array length")
	// ErrInvalidOptionLength indicates an option length field that is zero
	// or inconsistent with the option's fixed wire size.
	ErrInvalidOptionLength = errors.New("invalid option length")
	// ErrOptionIndexOutOfRange indicates an entry option run reaching beyond
	// the options array.
	ErrOptionIndexOutOfRange = errors.New("option index out of range")
)

// Flags is the flags byte at the start of an SD payload. Bits without a name
// are reserved; they are preserved, not rejected.
type Flags uint8

const (
	// FlagReboot indicates that the sender's session ids have not wrapped
	// around since startup.
	FlagReboot Flags = 0x80
	// FlagUnicast indicates that receiving unicast is supported. It is a
	// leftover from historical protocol versions and kept for compatibility.
	FlagUnicast Flags = 0x40
	// FlagExplicitInitialDataControl indicates support for explicit initial
	// data control.
	FlagExplicitInitialDataControl Flags = 0x20
)

// Reboot reports whether the reboot flag is set.
func (f Flags) Reboot() bool { return f&FlagReboot != 0 }

// Unicast reports whether the unicast flag is set.
func (f Flags) Unicast() bool { return f&FlagUnicast != 0 }

// ExplicitInitialDataControl reports whether the explicit initial data
// control flag is set.
func (f Flags) ExplicitInitialDataControl() bool {
	return f&FlagExplicitInitialDataControl != 0
}

func (f Flags) String() string {
	return fmt.Sprintf("Reboot=%t, Unicast=%t", f.Reboot(), f.Unicast())
}

// Payload is a decoded view of an SD payload. It holds non-owning views into
// the source buffer; it must not outlive the buffer it was parsed from.
type Payload struct {
	// Flags is the flags byte of the SD payload.
	Flags Flags

	entries []byte
	options []byte
}

// ParsePayload decodes the SD payload framing: flags, the entries array view
// and the options array view. The entries and options themselves are decoded
// lazily on traversal.
//
// Trailing bytes after the options array are ignored.
func ParsePayload(data []byte) (Payload, error) {
	if len(data) < prefixLen {
		return Payload{}, serrors.Join(ErrNotEnoughData, nil,
			"min", prefixLen, "actual", len(data))
	}
	entriesLen := binary.BigEndian.Uint32(data[4:8])
	if entriesLen%EntryLen != 0 {
		return Payload{}, serrors.Join(ErrInvalidEntriesLength, nil, "length", entriesLen)
	}
	rest := data[prefixLen:]
	if uint64(len(rest)) < uint64(entriesLen) {
		return Payload{}, serrors.Join(ErrNotEnoughData, nil,
			"entries_length", entriesLen, "actual", len(rest))
	}
	entries := rest[:entriesLen]
	rest = rest[entriesLen:]
	if len(rest) < 4 {
		return Payload{}, serrors.Join(ErrNotEnoughData, nil,
			"min", 4, "actual", len(rest), "at", "options array length")
	}
	optionsLen := binary.BigEndian.Uint32(rest[:4])
	rest = rest[4:]
	if uint64(len(rest)) < uint64(optionsLen) {
		return Payload{}, serrors.Join(ErrNotEnoughData, nil,
			"options_length", optionsLen, "actual", len(rest))
	}
	return Payload{
		Flags:   Flags(data[0]),
		entries: entries,
		options: rest[:optionsLen],
	}, nil
}

// NumEntries returns the number of entries without decoding them.
func (p Payload) NumEntries() int {
	return len(p.entries) / EntryLen
}

// Entries returns a lazy iterator over the entries array. Entry decoding
// cannot fail: unknown entry types are retained as raw records.
func (p Payload) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for rest := p.entries; len(rest) >= EntryLen; rest = rest[EntryLen:] {
			if !yield(decodeEntry(rest[:EntryLen])) {
				return
			}
		}
	}
}

// Options returns a lazy iterator over the options array. On a malformed
// option the iterator yields the error once and ends, as the following
// option boundary can no longer be located.
func (p Payload) Options() iter.Seq2[Option, error] {
	return func(yield func(Option, error) bool) {
		offset := 0
		for offset < len(p.options) {
			opt, n, err := decodeOption(p.options[offset:])
			if err != nil {
				yield(nil, serrors.Wrap("decoding option", err, "offset", offset))
				return
			}
			offset += n
			if !yield(opt, nil) {
				return
			}
		}
	}
}

// AllOptions materializes the options array, as required for resolving entry
// option runs.
func (p Payload) AllOptions() ([]Option, error) {
	var options []Option
	for opt, err := range p.Options() {
		if err != nil {
			return nil, err
		}
		options = append(options, opt)
	}
	return options, nil
}
