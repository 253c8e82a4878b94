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

import "fmt"

// ReturnCode is the result classification carried in a SOME/IP header. The
// value retains the raw wire byte; values outside the defined range are
// classified as reserved or unknown rather than rejected, so decoding never
// fails on a return code.
type ReturnCode uint8

// Defined return codes.
const (
	ReturnCodeOk                    ReturnCode = 0x00
	ReturnCodeNotOk                 ReturnCode = 0x01
	ReturnCodeUnknownService        ReturnCode = 0x02
	ReturnCodeUnknownMethod         ReturnCode = 0x03
	ReturnCodeNotReady              ReturnCode = 0x04
	ReturnCodeNotReachable          ReturnCode = 0x05
	ReturnCodeTimeout               ReturnCode = 0x06
	ReturnCodeWrongProtocolVersion  ReturnCode = 0x07
	ReturnCodeWrongInterfaceVersion ReturnCode = 0x08
	ReturnCodeMalformedMessage      ReturnCode = 0x09
	ReturnCodeWrongMessageType      ReturnCode = 0x0A
)

// IsDefined reports whether the code is one of the named protocol codes.
func (c ReturnCode) IsDefined() bool {
	return c <= ReturnCodeWrongMessageType
}

// IsReserved reports whether the code lies in the range 0x0B-0x1F reserved
// for future generic SOME/IP errors.
func (c ReturnCode) IsReserved() bool {
	return c > ReturnCodeWrongMessageType && c <= 0x1F
}

// IsUnknown reports whether the code lies beyond the reserved range
// (0x20-0xFF); such codes are typically interface specific.
func (c ReturnCode) IsUnknown() bool {
	return c >= 0x20
}

func (c ReturnCode) String() string {
	switch c {
	case ReturnCodeOk:
		return "Ok"
	case ReturnCodeNotOk:
		return "NotOk"
	case ReturnCodeUnknownService:
		return "UnknownService"
	case ReturnCodeUnknownMethod:
		return "UnknownMethod"
	case ReturnCodeNotReady:
		return "NotReady"
	case ReturnCodeNotReachable:
		return "NotReachable"
	case ReturnCodeTimeout:
		return "Timeout"
	case ReturnCodeWrongProtocolVersion:
		return "WrongProtocolVersion"
	case ReturnCodeWrongInterfaceVersion:
		return "WrongInterfaceVersion"
	case ReturnCodeMalformedMessage:
		return "MalformedMessage"
	case ReturnCodeWrongMessageType:
		return "WrongMessageType"
	}
	if c.IsReserved() {
		return fmt.Sprintf("Reserved(%#02x)", uint8(c))
	}
	return fmt.Sprintf("Unknown(%#02x)", uint8(c))
}
