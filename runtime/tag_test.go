package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Drolfothesgnir/gohaa/script"
)

func dict(kv ...script.Value) *script.Dict {
	d := script.NewDict()
	for i := 0; i < len(kv); i += 2 {
		d.SetString(kv[i].(string), kv[i+1])
	}
	return d
}

func TestPrepareForTag(t *testing.T) {
	type tc struct {
		name      string
		tag       string
		id        script.Value
		classes   script.Value
		sets      []*script.Dict
		wantName  string
		wantAttrs []Attr
	}

	tests := []tc{
		{
			name:      "id_and_class",
			tag:       "z",
			id:        "a",
			classes:   "b",
			wantName:  "z",
			wantAttrs: []Attr{{Key: "class", Value: "b"}, {Key: "id", Value: "a"}},
		},
		{
			name:      "tag_name_override",
			tag:       "a",
			sets:      []*script.Dict{dict("_tag_name", "b")},
			wantName:  "b",
			wantAttrs: []Attr{},
		},
		{
			name:      "empty_id_and_class",
			tag:       "b",
			sets:      []*script.Dict{dict("id", "", "class", script.NewList())},
			wantName:  "b",
			wantAttrs: []Attr{},
		},
		{
			name:      "class_string",
			tag:       "a",
			sets:      []*script.Dict{dict("class", "a b")},
			wantName:  "a",
			wantAttrs: []Attr{{Key: "class", Value: "a b"}},
		},
		{
			name:      "class_list_replaces",
			tag:       "a",
			classes:   script.NewList("z"),
			sets:      []*script.Dict{dict("class", script.NewList("a", "b"))},
			wantName:  "a",
			wantAttrs: []Attr{{Key: "class", Value: "a b"}},
		},
		{
			name:      "append_class",
			tag:       "z",
			id:        "a",
			classes:   script.NewList("b", "c"),
			sets:      []*script.Dict{dict("_append_class", "d"), dict("_tag_name", "x")},
			wantName:  "x",
			wantAttrs: []Attr{{Key: "class", Value: "b c d"}, {Key: "id", Value: "a"}},
		},
		{
			name:      "remove_class",
			tag:       "p",
			classes:   script.NewList("b", "c"),
			sets:      []*script.Dict{dict("_remove_class", script.NewList("b"))},
			wantName:  "p",
			wantAttrs: []Attr{{Key: "class", Value: "c"}},
		},
		{
			name:      "none_id_and_false_value",
			tag:       "z",
			id:        "a",
			sets:      []*script.Dict{dict("id", nil), dict("huh", false)},
			wantName:  "z",
			wantAttrs: []Attr{},
		},
		{
			name:     "default_name_and_bool",
			sets:     []*script.Dict{dict("checked", true, "value", int64(3)), dict("value", "x")},
			wantName: "div",
			wantAttrs: []Attr{
				{Key: "checked", Value: "checked"},
				{Key: "value", Value: "x"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, attrs, err := PrepareForTag(tt.tag, tt.id, tt.classes, tt.sets)
			require.NoError(t, err)
			require.Equal(t, tt.wantName, name)
			require.Equal(t, tt.wantAttrs, attrs)
		})
	}
}

func TestOpenCloseTag(t *testing.T) {
	require.Equal(t,
		`<a href="?a=1&amp;b=2" title="&quot;hi&quot;">`,
		OpenTag("a", []Attr{{Key: "href", Value: "?a=1&b=2"}, {Key: "title", Value: `"hi"`}}, false),
	)
	require.Equal(t, `<br />`, OpenTag("br", nil, true))
	require.Equal(t, `</a>`, CloseTag("a"))
}
