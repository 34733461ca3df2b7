// internal/model/error.go
package model

import "errors"

// アプリケーション固有のエラー
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrInternalServer = errors.New("internal server error")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("resource conflict") // 重複エラー用
	// ErrStoreUnavailable はリモートストアへの書き込みが一時的に失敗したことを示します。
	// この種のエラーはオフラインキューへ退避され、対話的な呼び出し元には伝播しません。
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrIdentityTimeout はドレイン時のアイデンティティ解決がタイムアウトしたことを示します。
	ErrIdentityTimeout = errors.New("identity resolution timed out")
)

// ErrorDetail はAPIエラーレスポンスに含める詳細情報
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// APIErrorResponse はAPIエラーレスポンスの構造体
type APIErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// AppError はアプリケーション層のエラー情報を保持するカスタムエラー型。
// Err には上記のセンチネルエラーをラップし、HTTPステータスへのマッピングに使う。
type AppError struct {
	Detail ErrorDetail
	Err    error
}

func NewAppError(code, message, field string, err error) *AppError {
	return &AppError{
		Detail: ErrorDetail{
			Code:    code,
			Message: message,
			Field:   field,
		},
		Err: err,
	}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Detail.Message + ": " + e.Err.Error()
	}
	return e.Detail.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}
