// internal/model/outcome.go
package model

import "time"

// OutcomeRecord は1問の解答結果を表す不変のレコードです。
// エンジンへの入力の最小単位で、作成後に書き換えられることはありません。
type OutcomeRecord struct {
	Subject    string          `json:"subject"`
	Topic      string          `json:"topic"`
	Difficulty DifficultyLevel `json:"difficulty"`
	Score      float64         `json:"score"` // 0.0〜1.0 (部分正解は呼び出し側が数値化する)
	AnsweredAt time.Time       `json:"answered_at"`
}

// 解答結果送信リクエストDTO
type SubmitOutcomeRequest struct {
	Subject    string   `json:"subject" validate:"required,min=1,max=100"`
	Topic      string   `json:"topic" validate:"required,min=1,max=100"`
	Difficulty string   `json:"difficulty" validate:"required,oneof=easy medium hard extreme"`
	Score      *float64 `json:"score" validate:"required,gte=0,lte=1"`
}
