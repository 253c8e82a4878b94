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

// Package someip decodes the SOME/IP wire protocol: header framing and
// message classification, without interpreting application payload bytes.
//
// The decoder is strictly read-only over a caller-supplied buffer. All views
// (header contents, payload) reference sub-ranges of the input buffer and
// must not outlive it; no payload bytes are ever copied.
package someip

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gopacket/gopacket"

	"github.com/someipproto/someip/pkg/private/serrors"
)

const (
	// HeaderLen is the length of the fixed SOME/IP header in bytes.
	HeaderLen = 16

	// LenOffsetToPayload is the number of bytes the length field counts in
	// addition to the payload: ClientID, SessionID, ProtocolVersion,
	// InterfaceVersion, MessageType and ReturnCode.
	LenOffsetToPayload = 8

	// SDServiceID and SDMethodID form the message id reserved for SOME/IP
	// service discovery messages.
	SDServiceID = 0xFFFF
	SDMethodID  = 0x8100

	// EventFlag is the high bit of the method id, marking event and
	// notification ids.
	EventFlag = 0x8000
)

// Decode errors. The returned errors wrap these sentinels and carry the
// offending raw values as context; match with errors.Is.
var (
	// ErrNotEnoughData indicates that the buffer is shorter than the fixed
	// header, or shorter than the total message size announced by the length
	// field.
	ErrNotEnoughData = errors.New("not enough data")
	// ErrInvalidLength indicates a length field that cannot cover the second
	// half of the SOME/IP header (or the TP header for TP messages).
	ErrInvalidLength = errors.New("invalid length field")
	// ErrInvalidMessageType indicates an unknown message type value.
	ErrInvalidMessageType = errors.New("invalid message type")
)

// BaseLayer is a convenience struct which implements the LayerData and
// LayerPayload functions of the gopacket.Layer interface.
type BaseLayer struct {
	// Contents is the set of bytes that make up this layer. They are a
	// non-owning view into the decoded buffer.
	Contents []byte
	// Payload is the set of bytes contained by (but not part of) this layer.
	Payload []byte
}

// LayerContents returns the bytes of the packet layer.
func (b *BaseLayer) LayerContents() []byte { return b.Contents }

// LayerPayload returns the bytes contained within the packet layer.
func (b *BaseLayer) LayerPayload() []byte { return b.Payload }

// SOMEIP is the SOME/IP header. It decodes one framed message out of a byte
// slice; the payload is exposed as a view, never interpreted.
type SOMEIP struct {
	BaseLayer
	// ServiceID is the upper half of the message id.
	ServiceID uint16
	// MethodID is the lower half of the message id; the high bit marks
	// events and notifications.
	MethodID uint16
	// Length counts all bytes following the length field itself, i.e. the
	// total on-wire message size is 8+Length.
	Length uint32
	// ClientID and SessionID form the request id.
	ClientID  uint16
	SessionID uint16
	// ProtocolVersion is carried through raw; it is not validated so that
	// future protocol revisions can still be framed.
	ProtocolVersion uint8
	// InterfaceVersion is the major version of the service interface.
	InterfaceVersion uint8
	// MessageType retains the raw byte, including the TP flag.
	MessageType MessageType
	// ReturnCode retains the raw byte; unknown and reserved values are
	// tolerated.
	ReturnCode ReturnCode
	// TP is the segmentation header following the fixed header on messages
	// with the TP flag set, nil otherwise.
	TP *TPHeader
}

// LayerType returns LayerTypeSOMEIP.
func (s *SOMEIP) LayerType() gopacket.LayerType {
	return LayerTypeSOMEIP
}

// CanDecode returns the set of layer types that this DecodingLayer can decode.
func (s *SOMEIP) CanDecode() gopacket.LayerClass {
	return LayerClassSOMEIP
}

// NextLayerType returns the layer type contained by this DecodingLayer.
func (s *SOMEIP) NextLayerType() gopacket.LayerType {
	return gopacket.LayerTypePayload
}

// DecodeFromBytes decodes one SOME/IP message from the start of data. It
// implements the gopacket.DecodingLayer interface. On success, Contents spans
// the header (and TP header, if any) and Payload the Length-8 payload bytes;
// trailing bytes of data beyond the framed message are left untouched.
func (s *SOMEIP) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data) < HeaderLen {
		df.SetTruncated()
		return serrors.Join(ErrNotEnoughData, nil, "min", HeaderLen, "actual", len(data))
	}
	s.ServiceID = binary.BigEndian.Uint16(data[0:2])
	s.MethodID = binary.BigEndian.Uint16(data[2:4])
	s.Length = binary.BigEndian.Uint32(data[4:8])
	s.ClientID = binary.BigEndian.Uint16(data[8:10])
	s.SessionID = binary.BigEndian.Uint16(data[10:12])
	s.ProtocolVersion = data[12]
	s.InterfaceVersion = data[13]
	s.MessageType = MessageType(data[14])
	s.ReturnCode = ReturnCode(data[15])
	s.TP = nil

	if s.Length < LenOffsetToPayload {
		return serrors.Join(ErrInvalidLength, nil, "length", s.Length)
	}
	// The length field may announce close to 4 GiB of payload; compare in
	// uint64 so the addition cannot overflow.
	total := LenOffsetToPayload + uint64(s.Length)
	if uint64(len(data)) < total {
		df.SetTruncated()
		return serrors.Join(ErrNotEnoughData, nil, "expected", total, "actual", len(data))
	}
	if !s.MessageType.valid() {
		return serrors.Join(ErrInvalidMessageType, nil,
			"type", fmt.Sprintf("%#02x", uint8(s.MessageType)))
	}
	if s.MessageType.IsTP() {
		if s.Length < LenOffsetToPayload+TPHeaderLen {
			return serrors.Join(ErrInvalidLength, nil, "length", s.Length, "tp", true)
		}
		tp := decodeTPHeader(data[HeaderLen : HeaderLen+TPHeaderLen])
		s.TP = &tp
		s.BaseLayer = BaseLayer{
			Contents: data[:HeaderLen+TPHeaderLen],
			Payload:  data[HeaderLen+TPHeaderLen : total],
		}
		return nil
	}
	s.BaseLayer = BaseLayer{
		Contents: data[:HeaderLen],
		Payload:  data[HeaderLen:total],
	}
	return nil
}

// MessageID combines service id and method id into the 32-bit message id.
func (s *SOMEIP) MessageID() uint32 {
	return uint32(s.ServiceID)<<16 | uint32(s.MethodID)
}

// RequestID combines client id and session id into the 32-bit request id.
func (s *SOMEIP) RequestID() uint32 {
	return uint32(s.ClientID)<<16 | uint32(s.SessionID)
}

// IsEvent reports whether the event bit in the method id is set.
func (s *SOMEIP) IsEvent() bool {
	return s.MethodID&EventFlag != 0
}

// IsServiceDiscovery reports whether the message carries the message id
// reserved for SOME/IP service discovery.
func (s *SOMEIP) IsServiceDiscovery() bool {
	return s.ServiceID == SDServiceID && s.MethodID == SDMethodID
}

func (s *SOMEIP) String() string {
	return fmt.Sprintf("MessageID=%#08x, Type=%s, ReturnCode=%s, Length=%d",
		s.MessageID(), s.MessageType, s.ReturnCode, s.Length)
}

func decodeSOMEIP(data []byte, pb gopacket.PacketBuilder) error {
	s := &SOMEIP{}
	err := s.DecodeFromBytes(data, pb)
	pb.AddLayer(s)
	if err != nil {
		return err
	}
	return pb.NextDecoder(gopacket.LayerTypePayload)
}
