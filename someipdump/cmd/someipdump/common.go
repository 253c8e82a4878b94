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

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/someipproto/someip/pkg/log"
	"github.com/someipproto/someip/pkg/private/serrors"
)

// getPrintf returns a printf function for the "human" formatting flag and an
// empty one for machine readable format flags.
func getPrintf(output string, writer io.Writer) (func(format string, ctx ...interface{}), error) {
	switch output {
	case "human":
		return func(format string, ctx ...interface{}) {
			fmt.Fprintf(writer, format, ctx...)
		}, nil
	case "json":
		return func(format string, ctx ...interface{}) {}, nil
	default:
		return nil, serrors.New("format not supported", "format", output)
	}
}

func setupLog(level string) error {
	return log.Setup(log.Config{Level: level, Console: true})
}

func addFormatFlags(cmd *cobra.Command, format *string, logLevel *string) {
	cmd.Flags().StringVar(format, "format", "human",
		"Specify the output format (human|json)")
	cmd.Flags().StringVar(logLevel, "log.level", "error",
		"Console logging level verbosity (debug|info|error)")
}
