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

package someipdump

import (
	"fmt"
	"sort"

	"github.com/someipproto/someip/pkg/log"
	"github.com/someipproto/someip/pkg/someip/sd"
)

// Service is one service instance seen in OfferService entries, with the
// endpoints announced for it.
type Service struct {
	ServiceID    uint16   `json:"service_id"`
	InstanceID   uint16   `json:"instance_id"`
	MajorVersion uint8    `json:"major_version"`
	MinorVersion uint32   `json:"minor_version"`
	TTL          uint32   `json:"ttl"`
	Offers       uint64   `json:"offers"`
	StopOffers   uint64   `json:"stop_offers"`
	Endpoints    []string `json:"endpoints"`
}

type serviceKey struct {
	service  uint16
	instance uint16
}

// CollectServices walks a pcap file and returns the services offered in
// service discovery traffic, ordered by service and instance ID. The TTL and
// versions reflect the last offer seen.
func CollectServices(file string) ([]*Service, error) {
	found := make(map[serviceKey]*Service)
	err := WalkFile(file, func(rec Record) error {
		if !rec.Message.IsServiceDiscovery() {
			return nil
		}
		payload, err := sd.ParsePayload(rec.Message.Payload)
		if err != nil {
			log.Debug("Malformed SD payload", "src", rec.Source, "err", err)
			return nil
		}
		options, err := payload.AllOptions()
		if err != nil {
			log.Debug("Malformed SD options", "src", rec.Source, "err", err)
			options = nil
		}
		for entry := range payload.Entries() {
			if entry.Type != sd.EntryTypeOfferService {
				continue
			}
			key := serviceKey{service: entry.ServiceID, instance: entry.InstanceID}
			svc := found[key]
			if svc == nil {
				svc = &Service{ServiceID: entry.ServiceID, InstanceID: entry.InstanceID}
				found[key] = svc
			}
			svc.MajorVersion = entry.MajorVersion
			svc.MinorVersion = entry.MinorVersion
			svc.TTL = entry.TTL
			if entry.TTL == 0 {
				svc.StopOffers++
			} else {
				svc.Offers++
			}
			first, second, err := entry.OptionRuns(options)
			if err != nil {
				log.Debug("Unresolvable option run", "src", rec.Source, "err", err)
				continue
			}
			for _, opt := range first {
				svc.addEndpoint(opt)
			}
			for _, opt := range second {
				svc.addEndpoint(opt)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	services := make([]*Service, 0, len(found))
	for _, svc := range found {
		services = append(services, svc)
	}
	sort.Slice(services, func(i, j int) bool {
		if services[i].ServiceID != services[j].ServiceID {
			return services[i].ServiceID < services[j].ServiceID
		}
		return services[i].InstanceID < services[j].InstanceID
	})
	return services, nil
}

func (s *Service) addEndpoint(opt sd.Option) {
	ep, ok := opt.(*sd.EndpointOption)
	if !ok || ep.Multicast() {
		return
	}
	addr := fmt.Sprintf("%s/%s", ep.AddrPort(), ep.Protocol)
	for _, known := range s.Endpoints {
		if known == addr {
			return
		}
	}
	s.Endpoints = append(s.Endpoints, addr)
}
