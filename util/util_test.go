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

package util

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func TestStringTable(t *testing.T) {
	for _, test := range []struct {
		description string
		additions   []string
		wantTable   []string
	}{{
		description: "unique additions",
		additions:   []string{"ant", "bee", "caterpillar", "doodlebug"},
		wantTable:   []string{"ant", "bee", "caterpillar", "doodlebug"},
	}, {
		description: "duplicate additions",
		additions:   []string{"ant", "bee", "ant", "ant", "bee"},
		wantTable:   []string{"ant", "bee"},
	}} {
		t.Run(test.description, func(t *testing.T) {
			st := newStringTable()
			for _, str := range test.additions {
				st.stringIndex(str)
			}
			gotTable := st.snapshot()
			if diff := cmp.Diff(test.wantTable, gotTable); diff != "" {
				t.Errorf("Got string table %v, diff (-want +got):\n%s", gotTable, diff)
			}
		})
	}
}

func TestValueSemantics(t *testing.T) {
	ts := time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)
	for _, test := range []struct {
		description string
		v           V
		wantBlank   bool
		wantNumber  float64
		wantNumeric bool
		wantString  string
	}{{
		description: "null is blank",
		v:           Null,
		wantBlank:   true,
		wantString:  "",
	}, {
		description: "empty string is blank",
		v:           StringValue(""),
		wantBlank:   true,
		wantString:  "",
	}, {
		description: "integer zero is not blank",
		v:           IntegerValue(0),
		wantNumber:  0,
		wantNumeric: true,
		wantString:  "0",
	}, {
		description: "double zero is not blank",
		v:           DoubleValue(0),
		wantNumber:  0,
		wantNumeric: true,
		wantString:  "0",
	}, {
		description: "false is not blank",
		v:           BoolValue(false),
		wantString:  "false",
	}, {
		description: "double",
		v:           DoubleValue(2.5),
		wantNumber:  2.5,
		wantNumeric: true,
		wantString:  "2.5",
	}, {
		description: "date timestamp",
		v:           TimestampValue(ts),
		wantNumber:  float64(ts.UnixMilli()),
		wantNumeric: true,
		wantString:  "2021-03-04",
	}} {
		t.Run(test.description, func(t *testing.T) {
			if got := test.v.IsBlank(); got != test.wantBlank {
				t.Errorf("IsBlank() = %t, want %t", got, test.wantBlank)
			}
			gotNum, gotNumeric := test.v.Number()
			if gotNumeric != test.wantNumeric || (gotNumeric && gotNum != test.wantNumber) {
				t.Errorf("Number() = %v, %t, want %v, %t", gotNum, gotNumeric, test.wantNumber, test.wantNumeric)
			}
			if got := test.v.String(); got != test.wantString {
				t.Errorf("String() = %q, want %q", got, test.wantString)
			}
		})
	}
}

func TestValueKeys(t *testing.T) {
	if StringValue("1").Equal(IntegerValue(1)) {
		t.Errorf("string '1' and integer 1 should not be equal")
	}
	if !DoubleValue(1.5).Equal(DoubleValue(1.5)) {
		t.Errorf("equal doubles should be equal")
	}
	if Null.Equal(StringValue("")) {
		t.Errorf("null and empty string should not be equal")
	}
}

func TestDecodeValues(t *testing.T) {
	for _, test := range []struct {
		description string
		yaml        string
		want        []V
	}{{
		description: "scalars",
		yaml:        `[~, "", 0, 1.5, true, abc, 2021-03-04]`,
		want: []V{
			Null,
			StringValue(""),
			IntegerValue(0),
			DoubleValue(1.5),
			BoolValue(true),
			StringValue("abc"),
			TimestampValue(time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)),
		},
	}, {
		description: "JSON is YAML",
		yaml:        `[null, "x", 3, -2.25]`,
		want: []V{
			Null,
			StringValue("x"),
			IntegerValue(3),
			DoubleValue(-2.25),
		},
	}} {
		t.Run(test.description, func(t *testing.T) {
			got := []V{}
			if err := yaml.Unmarshal([]byte(test.yaml), &got); err != nil {
				t.Fatalf("Unmarshal() yielded unexpected error %s", err)
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Got %v, diff (-want +got):\n%s", got, diff)
			}
		})
	}
}

func TestJSONValues(t *testing.T) {
	in := `[null, "x", 3, -2.25, false]`
	got := []V{}
	if err := json.Unmarshal([]byte(in), &got); err != nil {
		t.Fatalf("Unmarshal() yielded unexpected error %s", err)
	}
	want := []V{Null, StringValue("x"), IntegerValue(3), DoubleValue(-2.25), BoolValue(false)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Got %v, diff (-want +got):\n%s", got, diff)
	}
	out, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("Marshal() yielded unexpected error %s", err)
	}
	if diff := cmp.Diff(`[null,"x",3,-2.25,false]`, string(out)); diff != "" {
		t.Errorf("Got %s, diff (-want +got):\n%s", out, diff)
	}
}

func TestDatumBuilder(t *testing.T) {
	for _, test := range []struct {
		description string
		updates     []PropertyUpdate
		wantMap     map[int64]V
		wantErr     bool
	}{{
		description: "override scalars, append to strings",
		updates: []PropertyUpdate{
			StringProperty("string", "hello"),
			DoubleProperty("double", 1.1),
			StringsPropertyExtended("strings", "a", "b", "c"),
			StringProperty("string", "goodbye"),
			DoubleProperty("double", 2.2),
			StringsPropertyExtended("strings", "d", "e", "f"),
		},
		wantMap: map[int64]V{
			0: StringIndexValue(7),
			2: DoubleValue(2.2),
			3: StringIndicesValue(4, 5, 6, 8, 9, 10),
		},
	}, {
		description: "null values set nothing",
		updates: []PropertyUpdate{
			ValueProperty("category", Null),
			ValueProperty("value", IntegerValue(3)),
			ValueProperty("name", StringValue("a")),
		},
		wantMap: map[int64]V{
			0: IntegerValue(3),
			1: StringIndexValue(2),
		},
	}, {
		description: "extending a non-strings property errors",
		updates: []PropertyUpdate{
			IntegerProperty("x", 1),
			StringsPropertyExtended("x", "a"),
		},
		wantErr: true,
	}} {
		t.Run(test.description, func(t *testing.T) {
			errs := &errors{}
			db := newDatumBuilder(errs, newStringTable())
			db.With(test.updates...)
			if gotErr := errs.toError() != nil; gotErr != test.wantErr {
				t.Fatalf("got error %v, wanted error: %t", errs.toError(), test.wantErr)
			}
			if test.wantErr {
				return
			}
			if diff := cmp.Diff(test.wantMap, db.valsByKey); diff != "" {
				t.Errorf("Got map %v, diff (-want +got):\n%s", db.valsByKey, diff)
			}
		})
	}
}

func TestConditionalUpdates(t *testing.T) {
	drb := NewDataResponseBuilder()
	drb.DataSeries("s").With(
		If(true, StringProperty("a", "yes")),
		If(false, StringProperty("b", "no")),
		IfElse(false, StringProperty("c", "no"), StringProperty("c", "yes")),
		Chain(DoubleProperty("d", 1), IntegerProperty("e", 2), EmptyUpdate),
	)
	data, err := drb.Data()
	if err != nil {
		t.Fatalf("Data() yielded unexpected error %s", err)
	}
	want := `Data:
  Series s
    Root:
      Prop 'a': 'yes'
      Prop 'c': 'yes'
      Prop 'd': 1.000000
      Prop 'e': 2`
	if diff := cmp.Diff(want, data.PrettyPrint()); diff != "" {
		t.Errorf("Got %s, diff (-want +got):\n%s", data.PrettyPrint(), diff)
	}
}

func TestDuplicateSeries(t *testing.T) {
	drb := NewDataResponseBuilder()
	drb.DataSeries("chart")
	drb.DataSeries("chart")
	if _, err := drb.Data(); err == nil {
		t.Errorf("expected duplicate series to error")
	}
}

func TestErrorsHaltBuilding(t *testing.T) {
	drb := NewDataResponseBuilder()
	db := drb.DataSeries("s")
	db.With(ErrorProperty(fmt.Errorf("oops")), StringProperty("a", "b"))
	if _, err := drb.Data(); err == nil || err.Error() != "oops" {
		t.Errorf("Data() = %v, want error 'oops'", err)
	}
}

func TestDatumWireRoundTrip(t *testing.T) {
	ts := time.Date(2021, 3, 4, 5, 6, 7, 8, time.UTC)
	drb := NewDataResponseBuilder()
	root := drb.DataSeries("s")
	root.With(
		StringProperty("name", "bars"),
		DoubleProperty("x", 1.5),
		BoolProperty("selected", true),
		ValueProperty("when", TimestampValue(ts)),
	)
	root.Child().With(ValueProperty("ints", IntegersValue(1, 2, 3)))
	data, err := drb.Data()
	if err != nil {
		t.Fatalf("Data() yielded unexpected error %s", err)
	}
	wire, err := json.Marshal(data.DataSeries[0].Root)
	if err != nil {
		t.Fatalf("Marshal() yielded unexpected error %s", err)
	}
	got := &Datum{}
	if err := json.Unmarshal(wire, got); err != nil {
		t.Fatalf("Unmarshal() yielded unexpected error %s", err)
	}
	if diff := cmp.Diff(data.DataSeries[0].Root.PrettyPrint("", data.StringTable), got.PrettyPrint("", data.StringTable)); diff != "" {
		t.Errorf("Got %s, diff (-want +got):\n%s", wire, diff)
	}
}
