package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"tasklab/internal/task"
)

func TestEscape(t *testing.T) {
	require.Equal(t, "&lt;a&gt;&amp;b", Escape("<a>&b"))
}

func TestEscapeIsNotIdempotent(t *testing.T) {
	once := Escape("<a>&b")
	twice := Escape(once)
	require.Equal(t, "&amp;lt;a&amp;gt;&amp;amp;b", twice)
	require.NotEqual(t, once, twice)
}

func TestEscapeLeavesOtherCharacters(t *testing.T) {
	s := "print(\"hi\")\n\ttab 'quotes' ünïcode"
	require.Equal(t, s, Escape(s))
}

func TestListEmpty(t *testing.T) {
	require.Empty(t, List(nil))
	require.Empty(t, List([]task.Record{}))
}

func TestListRowWithoutNameShowsPlaceholder(t *testing.T) {
	rec := task.NewRecord(
		task.Field{Key: "id", Value: json.Number("1")},
		task.Field{Key: "name", Value: ""},
		task.Field{Key: "state", Value: "queued"},
	)

	html := List([]task.Record{rec})
	require.Contains(t, html, NoNamePlaceholder)
	require.Contains(t, html, "<small>queued</small>")
	require.Contains(t, html, `data-task-id="1"`)
	require.Contains(t, html, `href="/tasks/1"`)
}

func TestListEscapesTaskFields(t *testing.T) {
	rec := task.NewRecord(
		task.Field{Key: "id", Value: json.Number("2")},
		task.Field{Key: "name", Value: `<script>alert(1)</script>`},
		task.Field{Key: "state", Value: "a&b"},
	)

	html := List([]task.Record{rec})
	require.NotContains(t, html, "<script>")
	require.Contains(t, html, "&lt;script&gt;alert(1)&lt;/script&gt;")
	require.Contains(t, html, "a&amp;b")
}

func TestListOneRowPerTask(t *testing.T) {
	recs := []task.Record{
		task.NewRecord(task.Field{Key: "id", Value: json.Number("1")}),
		task.NewRecord(task.Field{Key: "id", Value: json.Number("2")}),
	}
	html := List(recs)
	require.Equal(t, 2, strings.Count(html, "<a href="))
}

func TestDetailEnumeratesEveryField(t *testing.T) {
	var rec task.Record
	require.NoError(t, json.Unmarshal(
		[]byte(`{"id":7,"name":"t","state":"done","stdout":"hi\n","runtime_ms":12}`), &rec))

	html := Detail(rec)
	require.Contains(t, html, `<th scope="row">id</th><td>7</td>`)
	require.Contains(t, html, `<th scope="row">state</th><td>done</td>`)
	require.Contains(t, html, `<th scope="row">stdout</th><td><pre>hi
</pre></td>`)
	require.Contains(t, html, `<th scope="row">runtime_ms</th><td>12</td>`,
		"unknown server fields render generically")
}

func TestDetailPreformatsCodeAndOutput(t *testing.T) {
	rec := task.NewRecord(
		task.Field{Key: "code", Value: "print(1 < 2)"},
		task.Field{Key: "stderr", Value: "boom & bust"},
		task.Field{Key: "lang", Value: "python"},
	)

	html := Detail(rec)
	require.Contains(t, html, `<pre>print(1 &lt; 2)</pre>`)
	require.Contains(t, html, `<pre>boom &amp; bust</pre>`)
	require.Contains(t, html, `<td>python</td>`, "lang renders inline, not preformatted")
}

func TestDetailKeepsServerFieldOrder(t *testing.T) {
	var rec task.Record
	require.NoError(t, json.Unmarshal([]byte(`{"zeta":1,"alpha":2}`), &rec))

	html := Detail(rec)
	require.Less(t, strings.Index(html, "zeta"), strings.Index(html, "alpha"))
}
