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

package log_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/someipproto/someip/pkg/log"
	"github.com/someipproto/someip/pkg/log/testlog"
)

func TestSetupRejectsUnknownLevel(t *testing.T) {
	t.Parallel()
	assert.Error(t, log.Setup(log.Config{Level: "chatty"}))
	assert.Error(t, log.Setup(log.Config{StacktraceLevel: "chatty"}))
}

func TestTestLogger(t *testing.T) {
	t.Parallel()
	logger := testlog.NewLogger(t)
	logger.Info("decoded message", "service", 0x1234)
	logger.New("component", "walker").Debug("with context")
	assert.True(t, logger.Enabled(log.DebugLevel))
}

func TestDiscard(t *testing.T) {
	t.Parallel()
	logger := log.Discard()
	logger.Error("dropped", "err", "nothing")
	assert.False(t, logger.Enabled(log.ErrorLevel))
}
