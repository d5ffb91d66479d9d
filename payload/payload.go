/*
	Copyright 2023 Google Inc.
	Licensed under the Apache License, Version 2.0 (the "License");
	you may not use this file except in compliance with the License.
	You may obtain a copy of the License at
		https://www.apache.org/licenses/LICENSE-2.0
	Unless required by applicable law or agreed to in writing, software
	distributed under the License is distributed on an "AS IS" BASIS,
	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
	See the License for the specific language governing permissions and
	limitations under the License.
*/

// Package payload attaches typed payloads of structured data to exported
// chart elements.
//
// Some exported elements, such as bars, carry further structured data that
// does not follow the chart's own structure: a bar's tooltip table, or its
// data label.  Such data is added as a payload child of the element,
// tagged with its payload type.  Elements able to host payloads implement
// Payloader.
package payload

import "github.com/ilhamster/barviz/util"

const (
	// TypeKey, if present in a Datum's properties, marks that Datum as a
	// payload of the string-valued type.
	TypeKey = "payload_type"

	// Tooltip is the payload type of a bar's tooltip table.
	Tooltip = "tooltip"
	// Label is the payload type of a bar's data label.
	Label = "label"
)

// Payloader is implemented by types able to accept payloads.
type Payloader interface {
	// Payload adds a child to the receiver and returns it.
	Payload() util.DataBuilder
}

// New creates and returns a payload of the specified type under the provided
// parent.
func New(parent Payloader, payloadType string) util.DataBuilder {
	return parent.Payload().With(
		util.StringProperty(TypeKey, payloadType),
	)
}
