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

package someip_test

import (
	"encoding/binary"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gopacket/gopacket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/someipproto/someip/pkg/private/xtest"
	"github.com/someipproto/someip/pkg/someip"
)

// rawRequest is a minimal request message with an empty payload:
// service 0x0001, method 0x0002, client 0x0003, session 0x0004.
var rawRequest = xtest.MustParseHexString(`
	0001 0002 0000 0008
	0003 0004 0101 0000`)

func TestDecodeFromBytes(t *testing.T) {
	testCases := map[string]struct {
		raw       []byte
		want      someip.SOMEIP
		assertErr assert.ErrorAssertionFunc
		truncated bool
	}{
		"minimal request": {
			raw: rawRequest,
			want: someip.SOMEIP{
				ServiceID:        0x0001,
				MethodID:         0x0002,
				Length:           8,
				ClientID:         0x0003,
				SessionID:        0x0004,
				ProtocolVersion:  1,
				InterfaceVersion: 1,
				MessageType:      someip.MessageTypeRequest,
				ReturnCode:       someip.ReturnCodeOk,
			},
			assertErr: assert.NoError,
		},
		"notification with payload": {
			raw: []byte{
				0x12, 0x34, 0x81, 0x02,
				0x00, 0x00, 0x00, 0x0C,
				0x00, 0x00, 0x00, 0x07,
				0x01, 0x03, 0x02, 0x00,
				0xDE, 0xAD, 0xBE, 0xEF,
			},
			want: someip.SOMEIP{
				ServiceID:        0x1234,
				MethodID:         0x8102,
				Length:           12,
				SessionID:        0x0007,
				ProtocolVersion:  1,
				InterfaceVersion: 3,
				MessageType:      someip.MessageTypeNotification,
				ReturnCode:       someip.ReturnCodeOk,
			},
			assertErr: assert.NoError,
		},
		"error response with unknown return code": {
			raw: []byte{
				0x0B, 0xAD, 0x00, 0x01,
				0x00, 0x00, 0x00, 0x08,
				0x00, 0x01, 0x00, 0x01,
				0x01, 0x01, 0x81, 0x42,
			},
			want: someip.SOMEIP{
				ServiceID:        0x0BAD,
				MethodID:         0x0001,
				Length:           8,
				ClientID:         0x0001,
				SessionID:        0x0001,
				ProtocolVersion:  1,
				InterfaceVersion: 1,
				MessageType:      someip.MessageTypeError,
				ReturnCode:       someip.ReturnCode(0x42),
			},
			assertErr: assert.NoError,
		},
		"length below minimum": {
			raw: func() []byte {
				raw := append([]byte{}, rawRequest...)
				binary.BigEndian.PutUint32(raw[4:8], 7)
				return raw
			}(),
			assertErr: func(t assert.TestingT, err error, _ ...interface{}) bool {
				return assert.ErrorIs(t, err, someip.ErrInvalidLength)
			},
		},
		"length exceeds buffer": {
			raw: func() []byte {
				raw := append([]byte{}, rawRequest...)
				binary.BigEndian.PutUint32(raw[4:8], 9)
				return raw
			}(),
			assertErr: func(t assert.TestingT, err error, _ ...interface{}) bool {
				return assert.ErrorIs(t, err, someip.ErrNotEnoughData)
			},
			truncated: true,
		},
		"length near maximum does not overflow": {
			raw: func() []byte {
				raw := append([]byte{}, rawRequest...)
				binary.BigEndian.PutUint32(raw[4:8], 0xFFFFFFFF)
				return raw
			}(),
			assertErr: func(t assert.TestingT, err error, _ ...interface{}) bool {
				return assert.ErrorIs(t, err, someip.ErrNotEnoughData)
			},
			truncated: true,
		},
		"unknown message type": {
			raw: func() []byte {
				raw := append([]byte{}, rawRequest...)
				raw[14] = 0x03
				return raw
			}(),
			assertErr: func(t assert.TestingT, err error, _ ...interface{}) bool {
				return assert.ErrorIs(t, err, someip.ErrInvalidMessageType)
			},
		},
		"tp flag alone is not valid": {
			raw: func() []byte {
				raw := append([]byte{}, rawRequest...)
				raw[14] = 0x23
				return raw
			}(),
			assertErr: func(t assert.TestingT, err error, _ ...interface{}) bool {
				return assert.ErrorIs(t, err, someip.ErrInvalidMessageType)
			},
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var got someip.SOMEIP
			feedback := &decodeFeedback{}
			err := got.DecodeFromBytes(tc.raw, feedback)
			tc.assertErr(t, err)
			assert.Equal(t, tc.truncated, feedback.truncated)
			if err != nil {
				return
			}
			want := tc.want
			want.BaseLayer = someip.BaseLayer{
				Contents: tc.raw[:someip.HeaderLen],
				Payload:  tc.raw[someip.HeaderLen:],
			}
			assert.Empty(t, cmp.Diff(want, got))
		})
	}
}

func TestDecodeShortBuffers(t *testing.T) {
	t.Parallel()
	for i := range someip.HeaderLen {
		var s someip.SOMEIP
		feedback := &decodeFeedback{}
		err := s.DecodeFromBytes(rawRequest[:i], feedback)
		assert.ErrorIs(t, err, someip.ErrNotEnoughData, "length %d", i)
		assert.True(t, feedback.truncated, "length %d", i)
	}
}

func TestDecodeTP(t *testing.T) {
	t.Parallel()
	raw := []byte{
		0x12, 0x34, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x10,
		0x00, 0x01, 0x00, 0x02,
		0x01, 0x01, 0x20, 0x00,
		0x00, 0x00, 0x00, 0x31, // offset 48, more segments
		0xAA, 0xBB, 0xCC, 0xDD,
	}
	var s someip.SOMEIP
	require.NoError(t, s.DecodeFromBytes(raw, gopacket.NilDecodeFeedback))
	assert.Equal(t, someip.MessageType(0x20), s.MessageType)
	assert.Equal(t, someip.MessageTypeRequest, s.MessageType.Base())
	require.NotNil(t, s.TP)
	assert.Equal(t, uint32(48), s.TP.Offset)
	assert.True(t, s.TP.MoreSegments)
	assert.Equal(t, raw[:20], s.Contents)
	assert.Equal(t, raw[20:], s.Payload)

	// A TP message must have room for the TP header.
	short := append([]byte{}, raw[:16]...)
	binary.BigEndian.PutUint32(short[4:8], 8)
	assert.ErrorIs(t, s.DecodeFromBytes(short, gopacket.NilDecodeFeedback),
		someip.ErrInvalidLength)
}

func TestMessageIDs(t *testing.T) {
	t.Parallel()
	var s someip.SOMEIP
	require.NoError(t, s.DecodeFromBytes(rawRequest, gopacket.NilDecodeFeedback))
	assert.Equal(t, uint32(0x00010002), s.MessageID())
	assert.Equal(t, uint32(0x00030004), s.RequestID())
	assert.False(t, s.IsEvent())
	assert.False(t, s.IsServiceDiscovery())
}

func TestIsServiceDiscovery(t *testing.T) {
	t.Parallel()
	rnd := rand.New(rand.NewSource(0x5d))
	for range 1000 {
		s := someip.SOMEIP{
			ServiceID: uint16(rnd.Uint32()),
			MethodID:  uint16(rnd.Uint32()),
		}
		want := s.ServiceID == 0xFFFF && s.MethodID == 0x8100
		assert.Equal(t, want, s.IsServiceDiscovery())
	}
}

func TestPacketDecode(t *testing.T) {
	t.Parallel()
	pkt := gopacket.NewPacket(rawRequest, someip.LayerTypeSOMEIP, gopacket.Default)
	pe := pkt.ErrorLayer()
	if pe != nil {
		require.NoError(t, pe.Error())
	}
	l := pkt.Layer(someip.LayerTypeSOMEIP)
	require.NotNil(t, l)
	s := l.(*someip.SOMEIP)
	assert.Equal(t, uint16(0x0001), s.ServiceID)
	assert.Equal(t, someip.MessageTypeRequest, s.MessageType)
}

type decodeFeedback struct {
	truncated bool
}

func (f *decodeFeedback) SetTruncated() {
	f.truncated = true
}
