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

package sd

import (
	"encoding/binary"
	"fmt"

	"github.com/someipproto/someip/pkg/private/serrors"
)

// EntryLen is the fixed size of an SD entry record in bytes.
const EntryLen = 16

// initialDataRequestedFlag marks a subscribe entry requesting initial data
// from the server.
const initialDataRequestedFlag = 0x80

// EntryType classifies an SD entry. The value retains the raw wire byte so
// that vendor or future entry types survive decoding unmodified.
type EntryType uint8

const (
	EntryTypeFindService  EntryType = 0x00
	EntryTypeOfferService EntryType = 0x01
	EntryTypeSubscribe    EntryType = 0x06
	EntryTypeSubscribeAck EntryType = 0x07
)

// IsService reports whether entries of this type carry a minor version,
// i.e. find and offer entries.
func (t EntryType) IsService() bool {
	return t == EntryTypeFindService || t == EntryTypeOfferService
}

// IsEventgroup reports whether entries of this type carry a counter and
// eventgroup id, i.e. subscribe and subscribe-ack entries.
func (t EntryType) IsEventgroup() bool {
	return t == EntryTypeSubscribe || t == EntryTypeSubscribeAck
}

// Known reports whether the type is one of the defined entry types.
func (t EntryType) Known() bool {
	return t.IsService() || t.IsEventgroup()
}

func (t EntryType) String() string {
	switch t {
	case EntryTypeFindService:
		return "FindService"
	case EntryTypeOfferService:
		return "OfferService"
	case EntryTypeSubscribe:
		return "Subscribe"
	case EntryTypeSubscribeAck:
		return "SubscribeAck"
	}
	return fmt.Sprintf("Unknown(%#02x)", uint8(t))
}

// Entry is one fixed-size SD record. For service entries (find/offer) the
// MinorVersion field is set; for eventgroup entries (subscribe/ack) the
// InitialDataRequested, Counter and EventgroupID fields are set. For unknown
// entry types only Type and Raw are meaningful; the record is carried
// through for forward compatibility, never rejected.
type Entry struct {
	Type EntryType
	// Index1 and Index2 are the starting offsets of the entry's two option
	// runs in the options array; NumOpt1 and NumOpt2 are the run lengths.
	// The ranges are validated only on explicit resolution, see OptionRuns.
	Index1  uint8
	Index2  uint8
	NumOpt1 uint8
	NumOpt2 uint8

	ServiceID    uint16
	InstanceID   uint16
	MajorVersion uint8
	// TTL is the entry lifetime in seconds (24 bits on the wire). A TTL of
	// zero revokes the entry (stop offer / stop subscribe).
	TTL uint32

	// MinorVersion of the service, for service entries.
	MinorVersion uint32

	// InitialDataRequested reports whether the server shall send initial
	// data, for eventgroup entries.
	InitialDataRequested bool
	// Counter distinguishes identical subscribes of the same subscriber
	// (4 bits on the wire), for eventgroup entries.
	Counter uint8
	// EventgroupID identifies the eventgroup, for eventgroup entries.
	EventgroupID uint16

	// Raw is a non-owning view of the 16-byte wire record.
	Raw []byte
}

// decodeEntry decodes one 16-byte entry record. data must hold EntryLen
// bytes; the array framing is validated by ParsePayload.
func decodeEntry(data []byte) Entry {
	e := Entry{
		Type: EntryType(data[0]),
		Raw:  data[:EntryLen],
	}
	if !e.Type.Known() {
		return e
	}
	e.Index1 = data[1]
	e.Index2 = data[2]
	e.NumOpt1 = data[3] >> 4
	e.NumOpt2 = data[3] & 0x0F
	e.ServiceID = binary.BigEndian.Uint16(data[4:6])
	e.InstanceID = binary.BigEndian.Uint16(data[6:8])
	e.MajorVersion = data[8]
	e.TTL = uint32(data[9])<<16 | uint32(data[10])<<8 | uint32(data[11])
	if e.Type.IsService() {
		e.MinorVersion = binary.BigEndian.Uint32(data[12:16])
		return e
	}
	// Eventgroup trailing word: reserved(1), flags+counter(1), id(2).
	e.InitialDataRequested = data[13]&initialDataRequestedFlag != 0
	e.Counter = data[13] & 0x0F
	e.EventgroupID = binary.BigEndian.Uint16(data[14:16])
	return e
}

// OptionRuns resolves the entry's two option index ranges against a fully
// materialized options sequence (see Payload.AllOptions) and returns the two
// option runs. A run with a zero option count resolves to an empty slice
// regardless of its index.
func (e *Entry) OptionRuns(options []Option) (first, second []Option, err error) {
	if first, err = optionRun(options, e.Index1, e.NumOpt1); err != nil {
		return nil, nil, serrors.Wrap("first option run", err)
	}
	if second, err = optionRun(options, e.Index2, e.NumOpt2); err != nil {
		return nil, nil, serrors.Wrap("second option run", err)
	}
	return first, second, nil
}

func optionRun(options []Option, index, count uint8) ([]Option, error) {
	if count == 0 {
		return nil, nil
	}
	end := int(index) + int(count)
	if end > len(options) {
		return nil, serrors.Join(ErrOptionIndexOutOfRange, nil,
			"index", index, "count", count, "options", len(options))
	}
	return options[index:end], nil
}

func (e Entry) String() string {
	switch {
	case e.Type.IsService():
		return fmt.Sprintf("%s Service=%#04x Instance=%#04x Version=%d.%d TTL=%d",
			e.Type, e.ServiceID, e.InstanceID, e.MajorVersion, e.MinorVersion, e.TTL)
	case e.Type.IsEventgroup():
		return fmt.Sprintf("%s Service=%#04x Instance=%#04x Eventgroup=%#04x TTL=%d",
			e.Type, e.ServiceID, e.InstanceID, e.EventgroupID, e.TTL)
	}
	return fmt.Sprintf("%s Raw=%x", e.Type, e.Raw)
}
