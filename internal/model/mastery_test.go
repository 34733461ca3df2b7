// internal/model/mastery_test.go
package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func outcomeAt(difficulty DifficultyLevel, score float64) OutcomeRecord {
	return OutcomeRecord{
		Subject:    "math",
		Topic:      "fractions",
		Difficulty: difficulty,
		Score:      score,
		AnsweredAt: time.Now(),
	}
}

func TestNewMasteryState(t *testing.T) {
	state := NewMasteryState(uuid.New(), "math", "fractions")

	assert.Equal(t, DifficultyMedium, state.CurrentDifficulty)
	assert.Equal(t, DifficultyMedium, state.RecommendedDifficulty)
	assert.Equal(t, NeutralAccuracy, state.RollingAccuracy)
	assert.True(t, state.StreakEligible)
	assert.True(t, state.IsNew)
	assert.Empty(t, state.RollingHistory)
}

func TestMasteryState_ApplyOutcome(t *testing.T) {
	t.Run("正常系: 履歴はウィンドウ幅を超えない", func(t *testing.T) {
		state := NewMasteryState(uuid.New(), "math", "fractions")

		for i := 0; i < 13; i++ {
			state.ApplyOutcome(outcomeAt(DifficultyMedium, 1.0), 10)
		}

		assert.Len(t, state.RollingHistory, 10)
		assert.Equal(t, 13, state.TotalQuestions)
		assert.Equal(t, 13, state.QuestionsAtCurrentDifficulty)
	})

	t.Run("正常系: 精度は履歴全体の平均", func(t *testing.T) {
		state := NewMasteryState(uuid.New(), "math", "fractions")

		state.ApplyOutcome(outcomeAt(DifficultyMedium, 1.0), 10)
		state.ApplyOutcome(outcomeAt(DifficultyMedium, 0.0), 10)

		assert.InDelta(t, 0.5, state.RollingAccuracy, 1e-9)
	})

	t.Run("正常系: 古い結果はFIFOで精度計算から外れる", func(t *testing.T) {
		state := NewMasteryState(uuid.New(), "math", "fractions")

		// 0.0 が10件、その後 1.0 が10件で完全に入れ替わる
		for i := 0; i < 10; i++ {
			state.ApplyOutcome(outcomeAt(DifficultyMedium, 0.0), 10)
		}
		for i := 0; i < 10; i++ {
			state.ApplyOutcome(outcomeAt(DifficultyMedium, 1.0), 10)
		}

		assert.InDelta(t, 1.0, state.RollingAccuracy, 1e-9)
	})

	t.Run("正常系: 難易度変更でカウンタがリセットされる", func(t *testing.T) {
		state := NewMasteryState(uuid.New(), "math", "fractions")

		state.ApplyOutcome(outcomeAt(DifficultyMedium, 1.0), 10)
		state.ApplyOutcome(outcomeAt(DifficultyMedium, 1.0), 10)
		assert.Equal(t, 2, state.QuestionsAtCurrentDifficulty)
		assert.Equal(t, 0, state.DifficultyChangesThisSession)

		state.ApplyOutcome(outcomeAt(DifficultyHard, 1.0), 10)
		assert.Equal(t, DifficultyHard, state.CurrentDifficulty)
		assert.Equal(t, 1, state.QuestionsAtCurrentDifficulty)
		assert.Equal(t, 1, state.DifficultyChangesThisSession)
	})
}

func TestMasteryState_RecentAccuracy(t *testing.T) {
	t.Run("正常系: 末尾n件だけで計算する", func(t *testing.T) {
		state := NewMasteryState(uuid.New(), "math", "fractions")

		for i := 0; i < 5; i++ {
			state.ApplyOutcome(outcomeAt(DifficultyMedium, 0.0), 10)
		}
		for i := 0; i < 5; i++ {
			state.ApplyOutcome(outcomeAt(DifficultyMedium, 1.0), 10)
		}

		assert.InDelta(t, 1.0, state.RecentAccuracy(5), 1e-9)
		assert.InDelta(t, 0.5, state.RollingAccuracy, 1e-9)
	})

	t.Run("正常系: 履歴が空なら中立値", func(t *testing.T) {
		state := NewMasteryState(uuid.New(), "math", "fractions")
		assert.Equal(t, NeutralAccuracy, state.RecentAccuracy(5))
	})

	t.Run("正常系: n件に満たない場合は存在する分で計算", func(t *testing.T) {
		state := NewMasteryState(uuid.New(), "math", "fractions")
		state.ApplyOutcome(outcomeAt(DifficultyMedium, 1.0), 10)

		assert.InDelta(t, 1.0, state.RecentAccuracy(5), 1e-9)
	})
}
