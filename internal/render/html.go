// Package render projects task records into HTML fragments. Functions here
// are pure: no DOM, no state, just markup strings. Every task field value
// passes through Escape before it reaches markup — task names, code, and
// output are arbitrary user-submitted text and must never be emitted raw.
package render

import (
	"strings"

	"tasklab/internal/task"
)

// NoNamePlaceholder is shown for tasks without a display name.
const NoNamePlaceholder = "<i>no name</i>"

var entityReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// Escape converts '&', '<', and '>' into their HTML entities and leaves
// every other character unchanged. It is a one-way transform applied exactly
// once per render: escaping an already-escaped string double-escapes it.
func Escape(s string) string {
	return entityReplacer.Replace(s)
}

// EscapeValue formats a decoded field value and escapes it.
func EscapeValue(value any) string {
	return Escape(task.FormatValue(value))
}

// List renders one clickable row per task. The row's href and data attribute
// carry the task id, which is the click identity the shells dispatch on.
// An empty snapshot renders an empty container.
func List(tasks []task.Record) string {
	var b strings.Builder
	for _, rec := range tasks {
		writeRow(&b, rec)
	}
	return b.String()
}

func writeRow(b *strings.Builder, rec task.Record) {
	id := Escape(rec.ID())

	name := NoNamePlaceholder
	if rec.Name() != "" {
		name = Escape(rec.Name())
	}

	b.WriteString(`<a href="/tasks/` + id + `" data-task-id="` + id + `"`)
	b.WriteString(` class="list-group-item list-group-item-action">`)
	b.WriteString(`<div class="d-flex w-100 justify-content-between">`)
	b.WriteString(`<h5 class="mb-1">` + name + `</h5>`)
	b.WriteString(`<small>` + Escape(rec.State()) + `</small>`)
	b.WriteString(`</div><p class="mb-1">` + id + `</p></a>`)
}

// preformattedFields render inside <pre> blocks so whitespace in scripts and
// execution output survives.
var preformattedFields = map[string]bool{
	task.FieldCode:   true,
	task.FieldStdout: true,
	task.FieldStderr: true,
}

// Detail renders a table enumerating every field the record has, in server
// order. The view is schema-agnostic: fields the client has never heard of
// render as plain escaped rows without any code change.
func Detail(rec task.Record) string {
	var b strings.Builder
	b.WriteString(`<table class="table table-bordered table-striped table-hover"><tbody>`)
	for _, field := range rec.Fields() {
		value := EscapeValue(field.Value)
		b.WriteString(`<tr><th scope="row">` + Escape(field.Key) + `</th><td>`)
		if preformattedFields[field.Key] {
			b.WriteString(`<pre>` + value + `</pre>`)
		} else {
			b.WriteString(value)
		}
		b.WriteString(`</td></tr>`)
	}
	b.WriteString(`</tbody></table>`)
	return b.String()
}
