package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEscape(t *testing.T) {
	require.Equal(t,
		`&lt;a href=&quot;#&quot;&gt;&apos;oh&amp;nbsp;wow&apos;&lt;/a&gt;`,
		Escape(`<a href="#">'oh&nbsp;wow'</a>`),
	)
}

func TestEntityDecode(t *testing.T) {
	type tc struct {
		name string
		in   string
		want string
	}

	tests := []tc{
		{
			name: "escaped_markup",
			in:   `&lt;a href=&quot;#&quot;&gt;&apos;oh&amp;nbsp;wow&apos;&lt;/a&gt;`,
			want: `<a href="#">'oh&nbsp;wow'</a>`,
		},
		{
			name: "named_and_numeric",
			in:   "&Aacute;&#0000193;&#193;&#x000c1;&#xc1;Á",
			want: "ÁÁÁÁÁÁ",
		},
		{
			name: "no_entities",
			in:   "plain text",
			want: "plain text",
		},
		{
			name: "unterminated",
			in:   "fish & chips &amp",
			want: "fish & chips &amp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, EntityDecode(tt.in))
		})
	}
}

func TestEncode(t *testing.T) {
	b, err := Encode("zażółć", "iso-8859-2")
	require.NoError(t, err)
	require.Equal(t, []byte{'z', 'a', 0xbf, 0xf3, 0xb3, 0xe6}, b)

	s, err := Decode(b, "iso-8859-2")
	require.NoError(t, err)
	require.Equal(t, "zażółć", s)

	b, err = Encode("zażółć", "utf8")
	require.NoError(t, err)
	require.Equal(t, []byte("zażółć"), b)

	_, err = Encode("abc", "no-such-charset")
	require.Error(t, err)
}
