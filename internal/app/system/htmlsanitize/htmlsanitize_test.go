package htmlsanitize

import (
	"strings"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		keep   []string
		reject []string
	}{
		{"empty", "", nil, nil},
		{"formatting kept", "<p>Join the <strong>hike</strong> <u>this</u> <mark>Saturday</mark></p>",
			[]string{"<p>", "<strong>hike</strong>", "<u>this</u>", "<mark>Saturday</mark>"}, nil},
		{"lists kept", "<ul><li>Water</li><li>Snacks</li></ul>", []string{"<ul>", "<li>Water</li>"}, nil},
		{"script dropped", "<p>Hi</p><script>steal()</script>", []string{"<p>Hi</p>"}, []string{"script", "steal"}},
		{"handler dropped", `<p onclick="steal()">Hi</p>`, []string{"<p>Hi</p>"}, []string{"onclick"}},
		{"javascript href dropped", `<a href="javascript:steal()">map</a>`, []string{"map"}, []string{"javascript:"}},
		{"iframe dropped", `<iframe src="https://evil.example"></iframe>ok`, []string{"ok"}, []string{"iframe", "evil.example"}},
		{"style dropped", `<style>body{display:none}</style>ok`, []string{"ok"}, []string{"display:none"}},
		{"external link opens new tab", `<a href="https://club.example/map">map</a>`,
			[]string{`href="https://club.example/map"`, `target="_blank"`, "nofollow"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.in)
			for _, s := range tt.keep {
				if !strings.Contains(got, s) {
					t.Errorf("Sanitize() = %q, missing %q", got, s)
				}
			}
			for _, s := range tt.reject {
				if strings.Contains(got, s) {
					t.Errorf("Sanitize() = %q, should not contain %q", got, s)
				}
			}
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	once := Sanitize("<p>Meet at <em>Gate 2</em></p><script>x()</script>")
	if twice := Sanitize(once); twice != once {
		t.Errorf("second pass changed %q to %q", once, twice)
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"See you at the hike!", "See you at the hike!"},
		{"<b>Great</b> event", "Great event"},
		{"Nice<script>alert(1)</script>", "Nice"},
		{"  padded  ", "padded"},
		{"Tom & Jerry", "Tom &amp; Jerry"},
	}
	for _, tt := range tests {
		if got := PlainText(tt.in); got != tt.want {
			t.Errorf("PlainText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
