package security

import "testing"

// TestCommentSanitizer_StripsHTML はHTMLタグが除去されることを検証する。
func TestCommentSanitizer_StripsHTML(t *testing.T) {
	s := NewCommentSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"プレーンテキスト", "great article!", "great article!"},
		{"scriptタグ", `<script>alert("xss")</script>hello`, "hello"},
		{"aタグ", `check <a href="https://evil.example">this</a>`, "check this"},
		{"imgタグ", `<img src=x onerror=alert(1)>comment`, "comment"},
		{"空文字列", "", ""},
		{"前後空白", "  spaced  ", "spaced"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Sanitize(tt.input)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestCommentSanitizer_Idempotent は同一入力に対して常に同一出力を返すことを検証する。
func TestCommentSanitizer_Idempotent(t *testing.T) {
	s := NewCommentSanitizer()

	input := `<b>bold</b> and plain`
	first := s.Sanitize(input)
	second := s.Sanitize(first)

	if first != second {
		t.Errorf("sanitize is not idempotent: first=%q second=%q", first, second)
	}
}
