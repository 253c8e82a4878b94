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
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/someipproto/someip/pkg/private/serrors"
	"github.com/someipproto/someip/someipdump"
)

func newStats(pather CommandPather) *cobra.Command {
	var flags struct {
		format   string
		logLevel string
	}

	var cmd = &cobra.Command{
		Use:   "stats <capture>",
		Short: "Count SOME/IP messages by message ID",
		Example: fmt.Sprintf(`  %[1]s stats traffic.pcap
  %[1]s stats traffic.pcap --format json`, pather.CommandPath()),
		Long: `'stats' walks a pcap file and aggregates all SOME/IP messages by
message ID, counting messages and payload bytes per service and method.`,
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

			stats, err := someipdump.CollectStats(args[0])
			if err != nil {
				return err
			}

			if flags.format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					*someipdump.Stats
					Methods []*someipdump.MethodStats `json:"methods"`
				}{Stats: stats, Methods: stats.Sorted()})
			}

			printf("%d messages (%d service discovery, %d events)\n\n",
				stats.Messages, stats.SDCount, stats.EventCnt)
			var rows [][]string
			for _, m := range stats.Sorted() {
				rows = append(rows, []string{
					fmt.Sprintf("%#08x", m.MessageID()),
					fmt.Sprintf("%#04x", m.ServiceID),
					fmt.Sprintf("%#04x", m.MethodID),
					formatTypes(m.Types),
					strconv.FormatUint(m.Count, 10),
					strconv.FormatUint(m.PayloadBytes, 10),
				})
			}
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetAutoWrapText(false)
			table.SetBorder(false)
			table.SetHeaderLine(false)
			table.SetCenterSeparator("")
			table.SetColumnSeparator("")
			table.SetRowSeparator("")
			table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			table.SetHeader([]string{"MESSAGE ID", "SERVICE", "METHOD", "TYPES", "COUNT", "BYTES"})
			table.AppendBulk(rows)
			table.Render()
			return nil
		},
	}
	addFormatFlags(cmd, &flags.format, &flags.logLevel)

	return cmd
}

func formatTypes(types map[string]uint64) string {
	names := make([]string, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}
