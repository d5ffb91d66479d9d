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

// Package tooltip exports bar tooltips for the host's tooltip service.
//
// A bar's tooltip rows are attached to the bar as a payload holding a
// two-column table:
//
//	tooltip payload
//	  properties
//	    * tooltip_html: the rows rendered as an HTML table
//	  children
//	    * header: one column definition per column (label, value)
//	    * repeated rows, each with a label cell and a value cell
package tooltip

import (
	"fmt"

	"github.com/google/safehtml"
	"github.com/google/safehtml/template"
	"github.com/ilhamster/barviz/category"
	"github.com/ilhamster/barviz/payload"
	"github.com/ilhamster/barviz/points"
	"github.com/ilhamster/barviz/util"
)

const (
	cellKey = "tooltip_cell"
	htmlKey = "tooltip_html"
)

var (
	labelColumn = category.New(util.StringValue("label"))
	valueColumn = category.New(util.StringValue("value"))
)

const tooltipTemplate = `<table class="barviz-tooltip">{{range .}}<tr><td>{{.Label}}</td><td>{{.Value}}</td></tr>{{end}}</table>`

var tmpl = template.Must(template.New("tooltip").Parse(tooltipTemplate))

// HTML renders tts as an HTML table.  Labels and values are escaped.
func HTML(tts []points.Tooltip) (safehtml.HTML, error) {
	ret, err := tmpl.ExecuteToHTML(tts)
	if err != nil {
		return safehtml.HTML{}, fmt.Errorf("failed to render tooltip: %w", err)
	}
	return ret, nil
}

func cell(col *category.Category, text string) util.PropertyUpdate {
	return util.Chain(
		col.Tag(),
		util.StringProperty(cellKey, text),
	)
}

// Table writes tts into db as a label/value table.
func Table(db util.DataBuilder, tts []points.Tooltip) {
	header := db.Child()
	header.Child().With(labelColumn.Define())
	header.Child().With(valueColumn.Define())
	for _, tt := range tts {
		row := db.Child()
		row.Child().With(cell(labelColumn, tt.Label))
		row.Child().With(cell(valueColumn, tt.Value))
	}
}

// Attach adds a tooltip payload holding tts to parent.  Nothing is added if
// tts is empty.
func Attach(parent payload.Payloader, tts []points.Tooltip) {
	if len(tts) == 0 {
		return
	}
	html, err := HTML(tts)
	db := payload.New(parent, payload.Tooltip).With(
		util.IfElse(err == nil,
			util.StringProperty(htmlKey, html.String()),
			util.ErrorProperty(err)),
	)
	Table(db, tts)
}
