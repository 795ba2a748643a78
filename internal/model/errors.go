// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, entry, goal, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeEmailTaken         = "EMAIL_TAKEN"
	ErrCodeWeakPassword       = "WEAK_PASSWORD"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeEntryNotFound      = "ENTRY_NOT_FOUND"
	ErrCodeGoalNotFound       = "GOAL_NOT_FOUND"
	ErrCodeInvalidEmail       = "INVALID_EMAIL"
	ErrCodeMoodRequired       = "MOOD_REQUIRED"
	ErrCodeTitleRequired      = "TITLE_REQUIRED"
	ErrCodeInvalidTargetCount = "INVALID_TARGET_COUNT"
	ErrCodeInvalidDate        = "INVALID_DATE"
)

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewInvalidCredentialsError は認証情報不一致エラーを生成する。
// メールアドレスの存在有無を区別しないメッセージを返す。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "メールアドレスまたはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewEmailTakenError はメールアドレス重複エラーを生成する。
func NewEmailTakenError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailTaken,
		Message:  "このメールアドレスは既に登録されています。",
		Category: "auth",
		Action:   "別のメールアドレスを使用するか、ログインしてください。",
	}
}

// NewWeakPasswordError はパスワード要件未達エラーを生成する。
func NewWeakPasswordError(minLength int) *APIError {
	return &APIError{
		Code:     ErrCodeWeakPassword,
		Message:  fmt.Sprintf("パスワードは%d文字以上で指定してください。", minLength),
		Category: "validation",
		Action:   "より長いパスワードを設定してください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewEntryNotFoundError は気分記録未検出エラーを生成する。
func NewEntryNotFoundError(entryID string) *APIError {
	return &APIError{
		Code:     ErrCodeEntryNotFound,
		Message:  fmt.Sprintf("指定された気分記録が見つかりません: %s", entryID),
		Category: "entry",
		Action:   "記録IDを確認してください。",
	}
}

// NewGoalNotFoundError は目標未検出エラーを生成する。
func NewGoalNotFoundError(goalID string) *APIError {
	return &APIError{
		Code:     ErrCodeGoalNotFound,
		Message:  fmt.Sprintf("指定された目標が見つかりません: %s", goalID),
		Category: "goal",
		Action:   "目標IDを確認してください。",
	}
}

// NewInvalidEmailError はメールアドレス形式不正エラーを生成する。
func NewInvalidEmailError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidEmail,
		Message:  "メールアドレスの形式が正しくありません。",
		Category: "validation",
		Action:   "正しいメールアドレスを入力してください。",
	}
}

// NewMoodRequiredError は気分未選択エラーを生成する。
func NewMoodRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeMoodRequired,
		Message:  "気分が選択されていません。",
		Category: "validation",
		Action:   "気分の絵文字を選択してください。",
	}
}

// NewTitleRequiredError は目標タイトル未入力エラーを生成する。
func NewTitleRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeTitleRequired,
		Message:  "目標のタイトルが入力されていません。",
		Category: "validation",
		Action:   "タイトルを入力してください。",
	}
}

// NewInvalidTargetCountError は無効な目標日数エラーを生成する。
// targetCountが0以下の目標は作成時点で拒否する。
func NewInvalidTargetCountError(targetCount int) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidTargetCount,
		Message:  fmt.Sprintf("無効な目標日数です: %d", targetCount),
		Category: "validation",
		Action:   "目標日数には1以上の整数を指定してください。",
	}
}

// NewInvalidDateError は無効な日付エラーを生成する。
func NewInvalidDateError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidDate,
		Message:  fmt.Sprintf("無効な日付です: %s", reason),
		Category: "validation",
		Action:   "日付はRFC 3339形式または YYYY-MM-DD 形式で指定してください。",
	}
}
