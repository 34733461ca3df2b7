// internal/model/mastery.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MasteryState は (利用者, 科目, トピック) ごとの習熟度の集約です。
// 直近の成績のローリング履歴と、難易度推薦に必要な帳簿を保持します。
type MasteryState struct {
	StateID uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index:idx_owner_subject_topic,unique" json:"-"`
	Subject string    `gorm:"not null;index:idx_owner_subject_topic,unique" json:"subject"`
	Topic   string    `gorm:"not null;index:idx_owner_subject_topic,unique" json:"topic"`

	CurrentDifficulty     DifficultyLevel `gorm:"not null" json:"current_difficulty"`
	RecommendedDifficulty DifficultyLevel `gorm:"not null" json:"recommended_difficulty"`

	// 直近10件の解答結果。古いものからFIFOで追い出す。
	RollingHistory datatypes.JSONSlice[OutcomeRecord] `json:"rolling_history"`
	// RollingHistory 全体の平均スコア。履歴が空の場合は0.5（中立の事前値）。
	// 常に履歴から再計算され、独立に更新されることはない。
	RollingAccuracy float64 `gorm:"not null" json:"rolling_accuracy"`

	QuestionsAtCurrentDifficulty int `gorm:"not null" json:"questions_at_current_difficulty"`
	TotalQuestions               int `gorm:"not null" json:"total_questions"` // 生涯累計。リセットされない

	// ストリーク稼ぎ検知で false になった後は自動では復帰しない（sticky）。
	StreakEligible               bool `gorm:"not null" json:"streak_eligible"`
	DifficultyChangesThisSession int  `gorm:"not null" json:"difficulty_changes_this_session"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	// 一度も永続化されていない状態でのみ true。永続化後は現れない。
	IsNew bool `gorm:"-" json:"is_new,omitempty"`
}

func (MasteryState) TableName() string {
	return "mastery_states"
}

// NewMasteryState は初回読み取り時に生成されるデフォルト状態を返します。
func NewMasteryState(ownerID uuid.UUID, subject, topic string) *MasteryState {
	return &MasteryState{
		StateID:               uuid.New(),
		OwnerID:               ownerID,
		Subject:               subject,
		Topic:                 topic,
		CurrentDifficulty:     DifficultyMedium,
		RecommendedDifficulty: DifficultyMedium,
		RollingHistory:        datatypes.JSONSlice[OutcomeRecord]{},
		RollingAccuracy:       NeutralAccuracy,
		StreakEligible:        true,
		IsNew:                 true,
	}
}

// NeutralAccuracy は履歴が空のときの事前値
const NeutralAccuracy = 0.5

// ApplyOutcome は解答結果を1件取り込み、履歴・精度・カウンタを更新します。
// window を超えた分は古い方から追い出されます。永続化はしません。
func (m *MasteryState) ApplyOutcome(rec OutcomeRecord, window int) {
	m.RollingHistory = append(m.RollingHistory, rec)
	if len(m.RollingHistory) > window {
		m.RollingHistory = m.RollingHistory[len(m.RollingHistory)-window:]
	}
	m.RollingAccuracy = meanScore(m.RollingHistory)
	m.TotalQuestions++

	if rec.Difficulty != m.CurrentDifficulty {
		m.CurrentDifficulty = rec.Difficulty
		m.QuestionsAtCurrentDifficulty = 1
		m.DifficultyChangesThisSession++
	} else {
		m.QuestionsAtCurrentDifficulty++
	}
}

// RecentAccuracy は履歴の末尾 n 件の平均スコアを返します。
// n 件に満たない場合は存在する分だけで計算し、空なら中立値を返します。
func (m *MasteryState) RecentAccuracy(n int) float64 {
	history := []OutcomeRecord(m.RollingHistory)
	if len(history) > n {
		history = history[len(history)-n:]
	}
	return meanScore(history)
}

func meanScore(records []OutcomeRecord) float64 {
	if len(records) == 0 {
		return NeutralAccuracy
	}
	var sum float64
	for _, r := range records {
		sum += r.Score
	}
	return sum / float64(len(records))
}

// セッション開始リクエストDTO。difficulty はこれから挑戦する難易度。
type StartSessionRequest struct {
	Subject    string `json:"subject" validate:"required,min=1,max=100"`
	Topic      string `json:"topic" validate:"required,min=1,max=100"`
	Difficulty string `json:"difficulty" validate:"required,oneof=easy medium hard extreme"`
}

// UpdateMasteryResponse は解答結果取り込みのレスポンスDTO
type UpdateMasteryResponse struct {
	Mastery        *MasteryState   `json:"mastery"`
	Recommendation *Recommendation `json:"recommendation,omitempty"`
}

// RecommendedDifficultyResponse は推奨難易度取得のレスポンスDTO
type RecommendedDifficultyResponse struct {
	Subject               string          `json:"subject"`
	Topic                 string          `json:"topic"`
	RecommendedDifficulty DifficultyLevel `json:"recommended_difficulty"`
}
