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

package sd_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/someipproto/someip/pkg/someip/sd"
)

func TestDecodeEntry(t *testing.T) {
	testCases := map[string]struct {
		raw  []byte
		want sd.Entry
	}{
		"offer service": {
			raw: []byte{
				0x01, 0x02, 0x00, 0x10,
				0x12, 0x34, 0x00, 0x01,
				0x02, 0x00, 0x00, 0x03,
				0x00, 0x00, 0x00, 0x07,
			},
			want: sd.Entry{
				Type:         sd.EntryTypeOfferService,
				Index1:       2,
				NumOpt1:      1,
				ServiceID:    0x1234,
				InstanceID:   0x0001,
				MajorVersion: 2,
				TTL:          3,
				MinorVersion: 7,
			},
		},
		"find service with max ttl": {
			raw: []byte{
				0x00, 0x00, 0x00, 0x00,
				0xFF, 0xFE, 0xFF, 0xFF,
				0x01, 0xFF, 0xFF, 0xFF,
				0xFF, 0xFF, 0xFF, 0xFF,
			},
			want: sd.Entry{
				Type:         sd.EntryTypeFindService,
				ServiceID:    0xFFFE,
				InstanceID:   0xFFFF,
				MajorVersion: 1,
				TTL:          0xFFFFFF,
				MinorVersion: 0xFFFFFFFF,
			},
		},
		"subscribe eventgroup": {
			raw: []byte{
				0x06, 0x00, 0x01, 0x21,
				0x12, 0x34, 0x00, 0x01,
				0x01, 0x00, 0x00, 0x05,
				0x00, 0x83, 0x43, 0x21,
			},
			want: sd.Entry{
				Type:                 sd.EntryTypeSubscribe,
				Index2:               1,
				NumOpt1:              2,
				NumOpt2:              1,
				ServiceID:            0x1234,
				InstanceID:           0x0001,
				MajorVersion:         1,
				TTL:                  5,
				InitialDataRequested: true,
				Counter:              3,
				EventgroupID:         0x4321,
			},
		},
		"subscribe ack stop": {
			raw: []byte{
				0x07, 0x00, 0x00, 0x00,
				0x12, 0x34, 0x00, 0x01,
				0x01, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x43, 0x21,
			},
			want: sd.Entry{
				Type:         sd.EntryTypeSubscribeAck,
				ServiceID:    0x1234,
				InstanceID:   0x0001,
				MajorVersion: 1,
				EventgroupID: 0x4321,
			},
		},
		"unknown type retained raw": {
			raw: []byte{
				0x55, 0x01, 0x02, 0x34,
				0x12, 0x34, 0x00, 0x01,
				0x01, 0x00, 0x00, 0x05,
				0x00, 0x00, 0x00, 0x07,
			},
			want: sd.Entry{
				Type: sd.EntryType(0x55),
			},
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			raw := sdPayload(0, tc.raw, nil)
			payload, err := sd.ParsePayload(raw)
			require.NoError(t, err)
			var got []sd.Entry
			for entry := range payload.Entries() {
				got = append(got, entry)
			}
			require.Len(t, got, 1)
			assert.Empty(t, cmp.Diff(tc.want, got[0],
				cmpopts.IgnoreFields(sd.Entry{}, "Raw")))
			assert.Equal(t, raw[8:8+sd.EntryLen], got[0].Raw)
			assert.False(t, sd.EntryType(0x55).Known())
		})
	}
}

func TestOptionRuns(t *testing.T) {
	t.Parallel()
	options := []sd.Option{
		&sd.EndpointOption{Type: sd.OptionTypeIPv4Endpoint, Port: 1},
		&sd.EndpointOption{Type: sd.OptionTypeIPv4Endpoint, Port: 2},
		&sd.EndpointOption{Type: sd.OptionTypeIPv4Multicast, Port: 3},
	}

	testCases := map[string]struct {
		entry      sd.Entry
		wantFirst  []sd.Option
		wantSecond []sd.Option
		assertErr  assert.ErrorAssertionFunc
	}{
		"no options referenced": {
			// Indices without counts resolve to empty runs.
			entry:     sd.Entry{Index1: 2, Index2: 7},
			assertErr: assert.NoError,
		},
		"both runs": {
			entry:      sd.Entry{Index1: 0, NumOpt1: 2, Index2: 2, NumOpt2: 1},
			wantFirst:  options[0:2],
			wantSecond: options[2:3],
			assertErr:  assert.NoError,
		},
		"overlapping runs": {
			entry:      sd.Entry{Index1: 1, NumOpt1: 2, Index2: 1, NumOpt2: 2},
			wantFirst:  options[1:3],
			wantSecond: options[1:3],
			assertErr:  assert.NoError,
		},
		"first run out of range": {
			entry: sd.Entry{Index1: 2, NumOpt1: 2},
			assertErr: func(t assert.TestingT, err error, _ ...interface{}) bool {
				return assert.ErrorIs(t, err, sd.ErrOptionIndexOutOfRange)
			},
		},
		"second run out of range": {
			entry: sd.Entry{Index2: 3, NumOpt2: 1},
			assertErr: func(t assert.TestingT, err error, _ ...interface{}) bool {
				return assert.ErrorIs(t, err, sd.ErrOptionIndexOutOfRange)
			},
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			first, second, err := tc.entry.OptionRuns(options)
			tc.assertErr(t, err)
			assert.Equal(t, tc.wantFirst, first)
			assert.Equal(t, tc.wantSecond, second)
		})
	}
}
