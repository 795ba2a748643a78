// Package security はアプリケーションのセキュリティ機能を提供する。
//
// NoteSanitizerService は気分記録の自由記述ノートをサニタイズし、
// クライアントでそのまま描画されてもXSSにならないプレーンテキストへ変換する。
// bluemondayのStrictPolicyにより全HTMLタグ・属性を除去する。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// NoteSanitizerService はノート文字列のサニタイズ機能のインターフェースを定義する。
// 気分記録の保存前（作成・マージ更新）に使用される。
type NoteSanitizerService interface {
	// Sanitize はノート文字列から全HTMLタグを除去したプレーンテキストを返す。
	// 前後の空白はトリムする。空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(note string) string
}

// noteSanitizer はNoteSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type noteSanitizer struct {
	policy *bluemonday.Policy
}

// NewNoteSanitizer はNoteSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicy（全タグ除去）を使用する。ノートは装飾なしの自由記述であり、
// HTMLを許可する理由がないため許可リストは空にする。
func NewNoteSanitizer() *noteSanitizer {
	return &noteSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize はノート文字列から全HTMLタグを除去したプレーンテキストを返す。
func (s *noteSanitizer) Sanitize(note string) string {
	return strings.TrimSpace(s.policy.Sanitize(note))
}

// compile-time interface check
var _ NoteSanitizerService = (*noteSanitizer)(nil)
