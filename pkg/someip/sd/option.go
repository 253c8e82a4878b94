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

package sd

import (
	"fmt"
	"net/netip"
	"strings"

	"github.com/someipproto/someip/pkg/private/serrors"
)

// discardableFlag in the reserved byte marks an option the receiver may
// ignore if it does not support the option type.
const discardableFlag = 0x80

// OptionType classifies an SD option. The value retains the raw wire byte.
type OptionType uint8

const (
	OptionTypeConfiguration OptionType = 0x01
	OptionTypeLoadBalancing OptionType = 0x02
	OptionTypeIPv4Endpoint  OptionType = 0x04
	OptionTypeIPv6Endpoint  OptionType = 0x06
	OptionTypeIPv4Multicast OptionType = 0x14
	OptionTypeIPv6Multicast OptionType = 0x16
	OptionTypeIPv4SD        OptionType = 0x24
	OptionTypeIPv6SD        OptionType = 0x26
)

func (t OptionType) String() string {
	switch t {
	case OptionTypeConfiguration:
		return "Configuration"
	case OptionTypeLoadBalancing:
		return "LoadBalancing"
	case OptionTypeIPv4Endpoint:
		return "IPv4Endpoint"
	case OptionTypeIPv6Endpoint:
		return "IPv6Endpoint"
	case OptionTypeIPv4Multicast:
		return "IPv4Multicast"
	case OptionTypeIPv6Multicast:
		return "IPv6Multicast"
	case OptionTypeIPv4SD:
		return "IPv4SDEndpoint"
	case OptionTypeIPv6SD:
		return "IPv6SDEndpoint"
	}
	return fmt.Sprintf("Unknown(%#02x)", uint8(t))
}

// TransportProtocol is the IANA protocol number carried in endpoint options.
type TransportProtocol uint8

const (
	TransportProtocolTCP TransportProtocol = 0x06
	TransportProtocolUDP TransportProtocol = 0x11
)

func (p TransportProtocol) String() string {
	switch p {
	case TransportProtocolTCP:
		return "TCP"
	case TransportProtocolUDP:
		return "UDP"
	}
	return fmt.Sprintf("%#02x", uint8(p))
}

// Option is one decoded SD option record. The concrete types are
// *EndpointOption, *ConfigurationOption, *LoadBalancingOption and
// *RawOption; the latter carries every unknown option type through
// unmodified.
type Option interface {
	// OptionType returns the option's wire type byte.
	OptionType() OptionType
}

// EndpointOption is an address option: unicast endpoint, multicast address,
// or SD endpoint, over IPv4 or IPv6 depending on Type.
type EndpointOption struct {
	Type OptionType
	// Discardable reports whether the receiver may ignore the option.
	Discardable bool
	Address     netip.Addr
	Protocol    TransportProtocol
	Port        uint16
}

func (o *EndpointOption) OptionType() OptionType { return o.Type }

// AddrPort returns the option's address and port combined.
func (o *EndpointOption) AddrPort() netip.AddrPort {
	return netip.AddrPortFrom(o.Address, o.Port)
}

// Multicast reports whether the option carries a multicast address
// announcement rather than a unicast endpoint.
func (o *EndpointOption) Multicast() bool {
	return o.Type == OptionTypeIPv4Multicast || o.Type == OptionTypeIPv6Multicast
}

func (o *EndpointOption) String() string {
	return fmt.Sprintf("%s %s/%s:%d", o.Type, o.Address, o.Protocol, o.Port)
}

// ConfigurationItem is one key/optional-value pair of a configuration
// option. A bare "key" item has HasValue false; "key=" has HasValue true and
// an empty Value.
type ConfigurationItem struct {
	Key      string
	Value    string
	HasValue bool
}

func (i ConfigurationItem) String() string {
	if !i.HasValue {
		return i.Key
	}
	return i.Key + "=" + i.Value
}

// ConfigurationOption carries arbitrary configuration strings in the DNS TXT
// record layout: a sequence of length-prefixed "key=value" items, terminated
// by a zero length.
type ConfigurationOption struct {
	Discardable bool
	Items       []ConfigurationItem
}

func (o *ConfigurationOption) OptionType() OptionType { return OptionTypeConfiguration }

func (o *ConfigurationOption) String() string {
	items := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, item.String())
	}
	return fmt.Sprintf("Configuration [%s]", strings.Join(items, ", "))
}

// LoadBalancingOption carries the priority and weight used to select among
// instances of the same service.
type LoadBalancingOption struct {
	Discardable bool
	Priority    uint16
	Weight      uint16
}

func (o *LoadBalancingOption) OptionType() OptionType { return OptionTypeLoadBalancing }

func (o *LoadBalancingOption) String() string {
	return fmt.Sprintf("LoadBalancing Priority=%d Weight=%d", o.Priority, o.Weight)
}

// RawOption retains an option of unknown type: the raw type byte and a
// non-owning view of the body. Unknown options are never rejected so that
// the option indices referenced by entries keep matching.
type RawOption struct {
	Type        OptionType
	Discardable bool
	// Body is the option body following the reserved byte (Length-1 bytes).
	Body []byte
}

func (o *RawOption) OptionType() OptionType { return o.Type }

func (o *RawOption) String() string {
	return fmt.Sprintf("%s Body=%x", o.Type, o.Body)
}

// Fixed wire lengths (value of the length field) of the fixed-size options.
const (
	loadBalancingLen = 5
	ipv4OptionLen    = 9
	ipv6OptionLen    = 21
)

// decodeOption decodes one option record from the start of data and returns
// it together with the number of bytes consumed. The wire layout is
// length(2) | type(1) | reserved(1) | body(length-1), with the length field
// counting all bytes after the type byte.
func decodeOption(data []byte) (Option, int, error) {
	if len(data) < 4 {
		return nil, 0, serrors.Join(ErrNotEnoughData, nil, "min", 4, "actual", len(data))
	}
	length := int(data[0])<<8 | int(data[1])
	typ := OptionType(data[2])
	discardable := data[3]&discardableFlag != 0
	if length < 1 {
		return nil, 0, serrors.Join(ErrInvalidOptionLength, nil, "length", length, "type", typ)
	}
	consumed := 3 + length
	if len(data) < consumed {
		return nil, 0, serrors.Join(ErrNotEnoughData, nil,
			"expected", consumed, "actual", len(data), "type", typ)
	}
	body := data[4:consumed]

	expectLen := func(expected int) error {
		if length != expected {
			return serrors.Join(ErrInvalidOptionLength, nil,
				"expected", expected, "actual", length, "type", typ)
		}
		return nil
	}

	switch typ {
	case OptionTypeConfiguration:
		items, err := parseConfigurationItems(body)
		if err != nil {
			return nil, 0, err
		}
		return &ConfigurationOption{Discardable: discardable, Items: items}, consumed, nil
	case OptionTypeLoadBalancing:
		if err := expectLen(loadBalancingLen); err != nil {
			return nil, 0, err
		}
		return &LoadBalancingOption{
			Discardable: discardable,
			Priority:    uint16(body[0])<<8 | uint16(body[1]),
			Weight:      uint16(body[2])<<8 | uint16(body[3]),
		}, consumed, nil
	case OptionTypeIPv4Endpoint, OptionTypeIPv4Multicast, OptionTypeIPv4SD:
		if err := expectLen(ipv4OptionLen); err != nil {
			return nil, 0, err
		}
		return &EndpointOption{
			Type:        typ,
			Discardable: discardable,
			Address:     netip.AddrFrom4([4]byte(body[0:4])),
			Protocol:    TransportProtocol(body[5]),
			Port:        uint16(body[6])<<8 | uint16(body[7]),
		}, consumed, nil
	case OptionTypeIPv6Endpoint, OptionTypeIPv6Multicast, OptionTypeIPv6SD:
		if err := expectLen(ipv6OptionLen); err != nil {
			return nil, 0, err
		}
		return &EndpointOption{
			Type:        typ,
			Discardable: discardable,
			Address:     netip.AddrFrom16([16]byte(body[0:16])),
			Protocol:    TransportProtocol(body[17]),
			Port:        uint16(body[18])<<8 | uint16(body[19]),
		}, consumed, nil
	}
	return &RawOption{Type: typ, Discardable: discardable, Body: body}, consumed, nil
}

// parseConfigurationItems parses the DNS TXT style item sequence of a
// configuration option body: each item is a 1-byte length followed by that
// many characters, a zero length ends the sequence.
func parseConfigurationItems(body []byte) ([]ConfigurationItem, error) {
	var items []ConfigurationItem
	for len(body) > 0 {
		n := int(body[0])
		if n == 0 {
			break
		}
		if 1+n > len(body) {
			return nil, serrors.Join(ErrInvalidOptionLength, nil,
				"item_length", n, "remaining", len(body)-1, "at", "configuration item")
		}
		item := string(body[1 : 1+n])
		key, value, hasValue := strings.Cut(item, "=")
		items = append(items, ConfigurationItem{Key: key, Value: value, HasValue: hasValue})
		body = body[1+n:]
	}
	return items, nil
}
