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
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/someipproto/someip/pkg/private/serrors"
	"github.com/someipproto/someip/someipdump"
)

type messageInfo struct {
	Timestamp   time.Time `json:"timestamp"`
	Source      string    `json:"source"`
	Destination string    `json:"destination"`
	MessageID   uint32    `json:"message_id"`
	ServiceID   uint16    `json:"service_id"`
	MethodID    uint16    `json:"method_id"`
	Type        string    `json:"type"`
	ReturnCode  string    `json:"return_code"`
	PayloadLen  int       `json:"payload_length"`
	SD          bool      `json:"service_discovery,omitempty"`
}

func newMessages(pather CommandPather) *cobra.Command {
	var flags struct {
		format   string
		logLevel string
		sdOnly   bool
	}

	var cmd = &cobra.Command{
		Use:   "messages <capture>",
		Short: "Print all SOME/IP messages in a capture",
		Example: fmt.Sprintf(`  %[1]s messages traffic.pcap
  %[1]s messages traffic.pcap --sd --format json`, pather.CommandPath()),
		Long: `'messages' walks all UDP payloads in a pcap file and prints every
SOME/IP message found, one line per message.

Service discovery messages are marked; use the flag to restrict the output
to them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setupLog(flags.logLevel); err != nil {
				return serrors.Wrap("setting up logging", err)
			}
			printf, err := getPrintf(flags.format, cmd.OutOrStdout())
			if err != nil {
				return serrors.Wrap("get formatting", err)
			}
			cmd.SilenceUsage = true

			var messages []messageInfo
			err = someipdump.WalkFile(args[0], func(rec someipdump.Record) error {
				msg := rec.Message
				if flags.sdOnly && !msg.IsServiceDiscovery() {
					return nil
				}
				if flags.format == "human" {
					printf("%s %s > %s %s\n",
						rec.Timestamp.Format("15:04:05.000000"),
						rec.Source, rec.Destination, msg)
					return nil
				}
				messages = append(messages, messageInfo{
					Timestamp:   rec.Timestamp,
					Source:      rec.Source.String(),
					Destination: rec.Destination.String(),
					MessageID:   msg.MessageID(),
					ServiceID:   msg.ServiceID,
					MethodID:    msg.MethodID,
					Type:        msg.MessageType.String(),
					ReturnCode:  msg.ReturnCode.String(),
					PayloadLen:  len(msg.Payload),
					SD:          msg.IsServiceDiscovery(),
				})
				return nil
			})
			if err != nil {
				return err
			}
			if flags.format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(messages)
			}
			return nil
		},
	}
	addFormatFlags(cmd, &flags.format, &flags.logLevel)
	cmd.Flags().BoolVar(&flags.sdOnly, "sd", false,
		"Only print service discovery messages")

	return cmd
}
