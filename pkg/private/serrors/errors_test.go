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

package serrors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/someipproto/someip/pkg/private/serrors"
)

func TestNew(t *testing.T) {
	t.Parallel()
	err := serrors.New("decode failed", "offset", 12, "length", 7)
	assert.Equal(t, "decode failed {length=7; offset=12}", err.Error())
	assert.True(t, errors.Is(err, err))

	plain := serrors.New("decode failed")
	assert.Equal(t, "decode failed", plain.Error())
	assert.False(t, errors.Is(err, plain), "distinct errors must not match")
}

func TestWrap(t *testing.T) {
	t.Parallel()
	cause := serrors.New("inner")
	err := serrors.Wrap("outer", cause, "key", "value")
	assert.Equal(t, "outer {key=value}: inner", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestJoin(t *testing.T) {
	t.Parallel()
	sentinel := errors.New("not enough data")
	cause := errors.New("read failed")

	testCases := map[string]struct {
		err       error
		cause     error
		ctx       []interface{}
		wantNil   bool
		wantMsg   string
		wantMatch []error
	}{
		"nil err and cause": {
			err:     nil,
			cause:   nil,
			wantNil: true,
		},
		"sentinel only": {
			err:       sentinel,
			ctx:       []interface{}{"min", 16, "actual", 3},
			wantMsg:   "not enough data {actual=3; min=16}",
			wantMatch: []error{sentinel},
		},
		"sentinel with cause": {
			err:       sentinel,
			cause:     cause,
			wantMsg:   "not enough data: read failed",
			wantMatch: []error{sentinel, cause},
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			err := serrors.Join(tc.err, tc.cause, tc.ctx...)
			if tc.wantNil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tc.wantMsg, err.Error())
			for _, target := range tc.wantMatch {
				assert.ErrorIs(t, err, target)
			}
		})
	}
}

func TestWrapPreservesIs(t *testing.T) {
	t.Parallel()
	sentinel := errors.New("invalid length")
	err := serrors.Wrap("decoding entry", serrors.Join(sentinel, nil, "length", 3),
		"index", 0)
	assert.ErrorIs(t, err, sentinel)
}

func TestStack(t *testing.T) {
	t.Parallel()
	err := serrors.New("with stack")
	var st interface{ StackTrace() serrors.StackTrace }
	require.ErrorAs(t, err, &st)
	require.NotEmpty(t, st.StackTrace())
	frame, ferr := st.StackTrace()[0].MarshalText()
	require.NoError(t, ferr)
	assert.Contains(t, string(frame), "TestStack")
}

func TestList(t *testing.T) {
	t.Parallel()
	assert.NoError(t, serrors.List{}.ToError())
	errs := serrors.List{errors.New("a"), errors.New("b")}
	assert.Equal(t, "[ a; b ]", errs.ToError().Error())
}
