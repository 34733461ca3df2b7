// internal/service/history_service_test.go
package service

import (
	"context"
	"testing"

	"go_5_study_keep/internal/config"
	"go_5_study_keep/internal/model"
	"go_5_study_keep/internal/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newHistoryService(t *testing.T, dbName string, ownerID uuid.UUID, historyRepo *mocks.HistoryRepository, scoreRepo *mocks.ScoreRepository, masteryRepo *mocks.MasteryRepository) HistoryService {
	t.Helper()
	provider := guestProvider(t, dbName, ownerID, new(mocks.QueueRepository))
	return NewHistoryService(provider, historyRepo, scoreRepo, masteryRepo, newTestLogger())
}

func Test_historyService_SaveBestScore(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("正常系: 既存より高いスコアは上書きされる", func(t *testing.T) {
		scoreRepo := new(mocks.ScoreRepository)
		existing := &model.BestScore{
			ScoreID: uuid.New(),
			OwnerID: ownerID,
			Subject: "math",
			Topic:   "fractions",
			Score:   0.7,
		}
		scoreRepo.On("Find", ctx, mock.AnythingOfType("*gorm.DB"), ownerID, "math", "fractions").
			Return(existing, nil).Once()
		scoreRepo.On("Upsert", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.BestScore")).
			Run(func(args mock.Arguments) {
				saved := args.Get(2).(*model.BestScore)
				assert.InDelta(t, 0.9, saved.Score, 1e-9)
				assert.Equal(t, existing.ScoreID, saved.ScoreID)
			}).Return(nil).Once()

		svc := newHistoryService(t, "history_score_higher", ownerID, new(mocks.HistoryRepository), scoreRepo, new(mocks.MasteryRepository))

		saved, err := svc.SaveBestScore(ctx, &model.SaveScoreRequest{
			Subject: "math",
			Topic:   "fractions",
			Score:   score(0.9),
		})
		require.NoError(t, err)
		assert.InDelta(t, 0.9, saved.Score, 1e-9)
		scoreRepo.AssertExpectations(t)
	})

	t.Run("正常系: 既存より低いスコアは書き込まれない", func(t *testing.T) {
		scoreRepo := new(mocks.ScoreRepository)
		existing := &model.BestScore{
			ScoreID: uuid.New(),
			OwnerID: ownerID,
			Subject: "math",
			Topic:   "fractions",
			Score:   0.95,
		}
		scoreRepo.On("Find", ctx, mock.AnythingOfType("*gorm.DB"), ownerID, "math", "fractions").
			Return(existing, nil).Once()

		svc := newHistoryService(t, "history_score_lower", ownerID, new(mocks.HistoryRepository), scoreRepo, new(mocks.MasteryRepository))

		saved, err := svc.SaveBestScore(ctx, &model.SaveScoreRequest{
			Subject: "math",
			Topic:   "fractions",
			Score:   score(0.5),
		})
		require.NoError(t, err)
		assert.InDelta(t, 0.95, saved.Score, 1e-9)
		scoreRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("正常系: 初回のスコアはそのまま保存される", func(t *testing.T) {
		scoreRepo := new(mocks.ScoreRepository)
		scoreRepo.On("Find", ctx, mock.AnythingOfType("*gorm.DB"), ownerID, "math", "decimals").
			Return(nil, model.ErrNotFound).Once()
		scoreRepo.On("Upsert", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.BestScore")).
			Return(nil).Once()

		svc := newHistoryService(t, "history_score_first", ownerID, new(mocks.HistoryRepository), scoreRepo, new(mocks.MasteryRepository))

		saved, err := svc.SaveBestScore(ctx, &model.SaveScoreRequest{
			Subject: "math",
			Topic:   "decimals",
			Score:   score(0.6),
		})
		require.NoError(t, err)
		assert.InDelta(t, 0.6, saved.Score, 1e-9)
	})
}

func Test_historyService_GetQuestionHistory(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	config.Cfg.App.HistoryLimit = 50

	t.Run("正常系: limit未指定はデフォルト上限になる", func(t *testing.T) {
		historyRepo := new(mocks.HistoryRepository)
		historyRepo.On("FindByFilter", ctx, mock.AnythingOfType("*gorm.DB"), ownerID,
			model.HistoryFilter{Subject: "math", Limit: 50}).
			Return([]*model.QuestionHistory{}, nil).Once()

		svc := newHistoryService(t, "history_limit", ownerID, historyRepo, new(mocks.ScoreRepository), new(mocks.MasteryRepository))

		_, err := svc.GetQuestionHistory(ctx, model.HistoryFilter{Subject: "math"})
		require.NoError(t, err)
		historyRepo.AssertExpectations(t)
	})

	t.Run("正常系: 上限を超えるlimitは丸められる", func(t *testing.T) {
		historyRepo := new(mocks.HistoryRepository)
		historyRepo.On("FindByFilter", ctx, mock.AnythingOfType("*gorm.DB"), ownerID,
			model.HistoryFilter{Limit: 50}).
			Return([]*model.QuestionHistory{}, nil).Once()

		svc := newHistoryService(t, "history_limit_cap", ownerID, historyRepo, new(mocks.ScoreRepository), new(mocks.MasteryRepository))

		_, err := svc.GetQuestionHistory(ctx, model.HistoryFilter{Limit: 500})
		require.NoError(t, err)
	})
}

func Test_historyService_GetProgressStats(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("正常系: 科目単位に集計される", func(t *testing.T) {
		masteryRepo := new(mocks.MasteryRepository)

		mathA := model.NewMasteryState(ownerID, "math", "fractions")
		mathA.TotalQuestions = 10
		mathA.RollingAccuracy = 0.8
		mathA.CurrentDifficulty = model.DifficultyHard
		mathB := model.NewMasteryState(ownerID, "math", "decimals")
		mathB.TotalQuestions = 4
		mathB.RollingAccuracy = 0.6
		science := model.NewMasteryState(ownerID, "science", "atoms")
		science.TotalQuestions = 2
		science.RollingAccuracy = 0.5

		masteryRepo.On("FindAllByOwner", ctx, mock.AnythingOfType("*gorm.DB"), ownerID).
			Return([]*model.MasteryState{mathA, mathB, science}, nil).Once()

		svc := newHistoryService(t, "history_progress", ownerID, new(mocks.HistoryRepository), new(mocks.ScoreRepository), masteryRepo)

		stats, err := svc.GetProgressStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 16, stats.TotalQuestions)
		require.Len(t, stats.Subjects, 2)

		math := stats.Subjects[0]
		assert.Equal(t, "math", math.Subject)
		assert.Equal(t, 2, math.Topics)
		assert.Equal(t, 14, math.TotalQuestions)
		assert.InDelta(t, 0.7, math.MeanAccuracy, 1e-9)
		assert.Equal(t, model.DifficultyHard, math.HardestDifficulty)
	})

	t.Run("正常系: 状態が無ければ空の統計", func(t *testing.T) {
		masteryRepo := new(mocks.MasteryRepository)
		masteryRepo.On("FindAllByOwner", ctx, mock.AnythingOfType("*gorm.DB"), ownerID).
			Return([]*model.MasteryState{}, nil).Once()

		svc := newHistoryService(t, "history_progress_empty", ownerID, new(mocks.HistoryRepository), new(mocks.ScoreRepository), masteryRepo)

		stats, err := svc.GetProgressStats(ctx)
		require.NoError(t, err)
		assert.Zero(t, stats.TotalQuestions)
		assert.Empty(t, stats.Subjects)
	})
}
