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
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/someipproto/someip/pkg/private/serrors"
	"github.com/someipproto/someip/someipdump"
)

func newServices(pather CommandPather) *cobra.Command {
	var flags struct {
		format   string
		logLevel string
	}

	var cmd = &cobra.Command{
		Use:   "services <capture>",
		Short: "List services offered via service discovery",
		Example: fmt.Sprintf(`  %[1]s services traffic.pcap
  %[1]s services traffic.pcap --format json`, pather.CommandPath()),
		Long: `'services' walks the service discovery traffic in a pcap file and
lists every service instance seen in OfferService entries, with the unicast
endpoints announced for it.`,
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

			services, err := someipdump.CollectServices(args[0])
			if err != nil {
				return err
			}

			if flags.format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(services)
			}

			printf("%d services offered\n\n", len(services))
			var rows [][]string
			for _, svc := range services {
				rows = append(rows, []string{
					fmt.Sprintf("%#04x", svc.ServiceID),
					fmt.Sprintf("%#04x", svc.InstanceID),
					fmt.Sprintf("%d.%d", svc.MajorVersion, svc.MinorVersion),
					strconv.FormatUint(uint64(svc.TTL), 10),
					strconv.FormatUint(svc.Offers, 10),
					strings.Join(svc.Endpoints, " "),
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
			table.SetHeader([]string{"SERVICE", "INSTANCE", "VERSION", "TTL", "OFFERS", "ENDPOINTS"})
			table.AppendBulk(rows)
			table.Render()
			return nil
		},
	}
	addFormatFlags(cmd, &flags.format, &flags.logLevel)

	return cmd
}
