package security

import "testing"

func TestSanitize_PlainTextPassesThrough(t *testing.T) {
	s := NewContentSanitizer()

	got := s.Sanitize("great article, thanks")
	if got != "great article, thanks" {
		t.Errorf("Sanitize = %q, want unchanged text", got)
	}
}

func TestSanitize_StripsAllTags(t *testing.T) {
	s := NewContentSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"アンカータグ", `<a href="https://example.com">link</a>`, "link"},
		{"強調タグ", "<strong>bold</strong> text", "bold text"},
		{"画像タグ", `before<img src="https://example.com/x.png">after`, "beforeafter"},
		{"ネストしたタグ", "<div><p>nested</p></div>", "nested"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitize_RemovesScriptWithContent(t *testing.T) {
	s := NewContentSanitizer()

	got := s.Sanitize(`hello<script>alert("xss")</script>`)
	if got != "hello" {
		t.Errorf("Sanitize = %q, want %q", got, "hello")
	}
}

func TestSanitize_RemovesEventAttributes(t *testing.T) {
	s := NewContentSanitizer()

	got := s.Sanitize(`<img src=x onerror="alert(1)">text`)
	if got != "text" {
		t.Errorf("Sanitize = %q, want %q", got, "text")
	}
}

func TestSanitize_EmptyInput_ReturnsEmpty(t *testing.T) {
	s := NewContentSanitizer()

	if got := s.Sanitize(""); got != "" {
		t.Errorf("Sanitize(\"\") = %q, want empty", got)
	}
}

func TestSanitize_WhitespaceOnly_ReturnsEmpty(t *testing.T) {
	s := NewContentSanitizer()

	if got := s.Sanitize("   \n\t  "); got != "" {
		t.Errorf("Sanitize(whitespace) = %q, want empty", got)
	}
}

// タグを含まない入力は実体参照にエスケープせず、入力のまま保存される
func TestSanitize_PreservesPlainTextSpecialChars(t *testing.T) {
	s := NewContentSanitizer()

	tests := []struct {
		name  string
		input string
	}{
		{"不等号", "a < b && b > c"},
		{"アンパサンド", "Davis & Sacramento"},
		{"引用符", `she said "hello"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Sanitize(tt.input); got != tt.input {
				t.Errorf("Sanitize(%q) = %q, want unchanged text", tt.input, got)
			}
		})
	}
}
