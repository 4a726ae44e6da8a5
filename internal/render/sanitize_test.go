package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRichText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "drops scripts handlers and comments",
			in:   `<p onclick="x()">Hi <a href="javascript:alert(1)">there</a></p><script>alert(1)</script><!-- c -->`,
			want: `<p>Hi <a href="#">there</a></p>`,
		},
		{
			name: "keeps formatting and safe links",
			in:   `<h3>Title</h3><p><strong>bold</strong> <a href="/courses" title="c">x</a> <a href="mailto:hi@still.example">mail</a></p>`,
			want: `<h3>Title</h3><p><strong>bold</strong> <a href="/courses" title="c">x</a> <a href="mailto:hi@still.example">mail</a></p>`,
		},
		{
			name: "drops nested style and iframe",
			in:   `<div><style>body{}</style><iframe src="https://evil.example"></iframe><em>ok</em></div>`,
			want: `<div><em>ok</em></div>`,
		},
		{
			name: "plain text",
			in:   "just words",
			want: "just words",
		},
		{
			name: "empty",
			in:   "   ",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renderNodes(t, RichText(tt.in)))
		})
	}
}

func TestSafeURL(t *testing.T) {
	tests := map[string]string{
		"":                        "",
		"/about":                  "/about",
		"#top":                    "#top",
		"https://still.example/x": "https://still.example/x",
		"tel:+441234":             "tel:+441234",
		"javascript:alert(1)":     "#",
		" JavaScript:alert(1)":    "#",
		"data:text/html;base64,x": "#",
		"vbscript:msgbox":         "#",
	}
	for in, want := range tests {
		assert.Equal(t, want, safeURL(in), in)
	}
}
