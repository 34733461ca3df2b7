// internal/model/history.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// QuestionHistory は解答済みの問題1件の追記専用レコードです。
// エンジンは内容の検証はせず、構造化された結果だけを消費する。
type QuestionHistory struct {
	EntryID       uuid.UUID       `gorm:"type:uuid;primaryKey" json:"entry_id"`
	OwnerID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	Subject       string          `gorm:"not null;index" json:"subject"`
	Topic         string          `gorm:"not null;index" json:"topic"`
	Difficulty    DifficultyLevel `gorm:"not null" json:"difficulty"`
	QuestionText  string          `json:"question_text"`
	CorrectAnswer string          `json:"correct_answer"`
	UserAnswer    string          `json:"user_answer"`
	Score         float64         `gorm:"not null" json:"score"`
	AnsweredAt    time.Time       `gorm:"not null;index" json:"answered_at"`
}

func (QuestionHistory) TableName() string {
	return "question_history"
}

// BestScore は (利用者, 科目, トピック) ごとの自己ベスト。upsert のconflict keyはこの三つ組。
type BestScore struct {
	ScoreID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	OwnerID    uuid.UUID `gorm:"type:uuid;not null;index:idx_owner_subject_topic_score,unique" json:"-"`
	Subject    string    `gorm:"not null;index:idx_owner_subject_topic_score,unique" json:"subject"`
	Topic      string    `gorm:"not null;index:idx_owner_subject_topic_score,unique" json:"topic"`
	Score      float64   `gorm:"not null" json:"score"`
	AchievedAt time.Time `gorm:"not null" json:"achieved_at"`
}

func (BestScore) TableName() string {
	return "best_scores"
}

// 履歴保存リクエストDTO
type SaveHistoryRequest struct {
	Subject       string   `json:"subject" validate:"required,min=1,max=100"`
	Topic         string   `json:"topic" validate:"required,min=1,max=100"`
	Difficulty    string   `json:"difficulty" validate:"required,oneof=easy medium hard extreme"`
	QuestionText  string   `json:"question_text" validate:"required"`
	CorrectAnswer string   `json:"correct_answer"`
	UserAnswer    string   `json:"user_answer"`
	Score         *float64 `json:"score" validate:"required,gte=0,lte=1"`
}

// 履歴取得のフィルタ。ゼロ値のフィールドは条件に含めない。
type HistoryFilter struct {
	Subject string
	Topic   string
	Limit   int
}

// ベストスコア保存リクエストDTO
type SaveScoreRequest struct {
	Subject string   `json:"subject" validate:"required,min=1,max=100"`
	Topic   string   `json:"topic" validate:"required,min=1,max=100"`
	Score   *float64 `json:"score" validate:"required,gte=0"`
}

// SubjectStats は科目単位の集計
type SubjectStats struct {
	Subject           string          `json:"subject"`
	Topics            int             `json:"topics"`
	TotalQuestions    int             `json:"total_questions"`
	MeanAccuracy      float64         `json:"mean_accuracy"`
	HardestDifficulty DifficultyLevel `json:"hardest_difficulty"`
}

// ProgressStats は進捗統計のレスポンスDTO
type ProgressStats struct {
	Subjects       []SubjectStats `json:"subjects"`
	TotalQuestions int            `json:"total_questions"`
}
