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

package format

import (
	"testing"

	"github.com/ilhamster/barviz/magnitude"
	"github.com/ilhamster/barviz/util"
)

func TestNumber(t *testing.T) {
	for _, test := range []struct {
		description  string
		formatString string
		opts         []Option
		v            float64
		want         string
		wantValid    bool
	}{{
		description: "general",
		v:           1234.25,
		want:        "1234.25",
		wantValid:   true,
	}, {
		description:  "grouping without decimals",
		formatString: "#,0",
		v:            1234567,
		want:         "1,234,567",
		wantValid:    true,
	}, {
		description:  "fixed decimals",
		formatString: "#,0.00",
		v:            -1234.5,
		want:         "-1,234.50",
		wantValid:    true,
	}, {
		description:  "optional decimals",
		formatString: "0.0#",
		v:            3.1,
		want:         "3.1",
		wantValid:    true,
	}, {
		description:  "percent",
		formatString: PercentFormat,
		v:            0.25,
		want:         "25.00%",
		wantValid:    true,
	}, {
		description:  "currency prefix",
		formatString: "$#,0.00",
		v:            12,
		want:         "$12.00",
		wantValid:    true,
	}, {
		description:  "quoted suffix",
		formatString: "0.0' kg'",
		v:            2.24,
		want:         "2.2 kg",
		wantValid:    true,
	}, {
		description:  "first section only",
		formatString: "#,0;(#,0)",
		v:            -3000,
		want:         "-3,000",
		wantValid:    true,
	}, {
		description:  "display units",
		formatString: "#,0.0",
		opts:         []Option{WithDisplayUnits(magnitude.Auto, 2.5e6)},
		v:            1.24e6,
		want:         "1.2M",
		wantValid:    true,
	}, {
		description: "general with display units",
		opts:        []Option{WithDisplayUnits(1e3, 0)},
		v:           1234,
		want:        "1.23K",
		wantValid:   true,
	}, {
		description:  "precision override",
		formatString: "0",
		opts:         []Option{WithPrecision(3)},
		v:            1.5,
		want:         "1.500",
		wantValid:    true,
	}, {
		description:  "unparseable falls back to raw",
		formatString: "not a format",
		v:            1234.5,
		want:         "1234.5",
		wantValid:    false,
	}, {
		description:  "unterminated quote falls back to raw",
		formatString: "0 'kg",
		v:            7,
		want:         "7",
		wantValid:    false,
	}} {
		t.Run(test.description, func(t *testing.T) {
			f := New(test.formatString, test.opts...)
			if got := f.Valid(); got != test.wantValid {
				t.Errorf("Valid() = %t, want %t", got, test.wantValid)
			}
			if got := f.Number(test.v); got != test.want {
				t.Errorf("Number(%v) = %q, want %q", test.v, got, test.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	f := New("#,0")
	for _, test := range []struct {
		description string
		v           util.V
		want        string
	}{{
		description: "null",
		v:           util.Null,
		want:        "",
	}, {
		description: "string",
		v:           util.StringValue("North"),
		want:        "North",
	}, {
		description: "integer",
		v:           util.IntegerValue(12000),
		want:        "12,000",
	}, {
		description: "zero",
		v:           util.IntegerValue(0),
		want:        "0",
	}} {
		t.Run(test.description, func(t *testing.T) {
			if got := f.Format(test.v); got != test.want {
				t.Errorf("Format(%v) = %q, want %q", test.v, got, test.want)
			}
		})
	}
}

func TestPercent(t *testing.T) {
	if got, want := Percent(-0.125), "-12.50%"; got != want {
		t.Errorf("Percent() = %q, want %q", got, want)
	}
}
