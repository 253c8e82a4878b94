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

// MessageType classifies a SOME/IP message. The value retains the raw wire
// byte, including the TP flag; Base strips the flag off again.
type MessageType uint8

// Message type values without the TP flag.
const (
	MessageTypeRequest         MessageType = 0x00
	MessageTypeRequestNoReturn MessageType = 0x01
	MessageTypeNotification    MessageType = 0x02
	MessageTypeResponse        MessageType = 0x80
	MessageTypeError           MessageType = 0x81
)

// TPFlag marks a message as one segment of a larger logical message
// (SOME/IP-TP).
const TPFlag MessageType = 0x20

// Base returns the message type with the TP flag stripped.
func (t MessageType) Base() MessageType {
	return t &^ TPFlag
}

// IsTP reports whether the TP flag is set.
func (t MessageType) IsTP() bool {
	return t&TPFlag != 0
}

// valid reports whether the base type is one of the five defined message
// types; together with the optional TP flag these are the ten legal wire
// values.
func (t MessageType) valid() bool {
	switch t.Base() {
	case MessageTypeRequest, MessageTypeRequestNoReturn, MessageTypeNotification,
		MessageTypeResponse, MessageTypeError:
		return true
	}
	return false
}

func (t MessageType) String() string {
	var name string
	switch t.Base() {
	case MessageTypeRequest:
		name = "Request"
	case MessageTypeRequestNoReturn:
		name = "RequestNoReturn"
	case MessageTypeNotification:
		name = "Notification"
	case MessageTypeResponse:
		name = "Response"
	case MessageTypeError:
		name = "Error"
	default:
		return fmt.Sprintf("Unknown(%#02x)", uint8(t))
	}
	if t.IsTP() {
		return name + "+TP"
	}
	return name
}
