package security

import "testing"

// TestNoteSanitizer_StripsHTML は全HTMLタグが除去されることを検証する。
func TestNoteSanitizer_StripsHTML(t *testing.T) {
	s := NewNoteSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"プレーンテキストはそのまま", "今日は散歩した", "今日は散歩した"},
		{"scriptタグ除去", `<script>alert("x")</script>気分が良い`, "気分が良い"},
		{"装飾タグ除去", "<strong>最高</strong>の一日", "最高の一日"},
		{"イベント属性付きタグ除去", `<img src=x onerror="alert(1)">メモ`, "メモ"},
		{"前後の空白トリム", "  ひとこと  ", "ひとこと"},
		{"空文字列", "", ""},
		{"絵文字は保持", "🥳 パーティーだった", "🥳 パーティーだった"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestNoteSanitizer_Idempotent はサニタイズが冪等であることを検証する。
func TestNoteSanitizer_Idempotent(t *testing.T) {
	s := NewNoteSanitizer()

	input := `<p>少し<em>疲れた</em></p>`
	once := s.Sanitize(input)
	twice := s.Sanitize(once)
	if once != twice {
		t.Errorf("not idempotent: %q -> %q", once, twice)
	}
}
