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

package someip

import (
	"github.com/gopacket/gopacket"
)

var (
	// LayerTypeSOMEIP is the layer type of a SOME/IP message; it allows
	// driving the decoder through gopacket.NewPacket and
	// gopacket.DecodingLayerParser.
	LayerTypeSOMEIP = gopacket.RegisterLayerType(
		1800,
		gopacket.LayerTypeMetadata{
			Name:    "SOMEIP",
			Decoder: gopacket.DecodeFunc(decodeSOMEIP),
		},
	)
	LayerClassSOMEIP gopacket.LayerClass = LayerTypeSOMEIP
)
