// internal/service/history_service.go
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go_5_study_keep/internal/config"
	"go_5_study_keep/internal/model"
	"go_5_study_keep/internal/repository"
	"go_5_study_keep/internal/store"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HistoryService interface {
	SaveQuestionToHistory(ctx context.Context, req *model.SaveHistoryRequest) (*model.QuestionHistory, error)
	GetQuestionHistory(ctx context.Context, filter model.HistoryFilter) ([]*model.QuestionHistory, error)
	SaveBestScore(ctx context.Context, req *model.SaveScoreRequest) (*model.BestScore, error)
	GetAllScores(ctx context.Context) ([]*model.BestScore, error)
	GetProgressStats(ctx context.Context) (*model.ProgressStats, error)
}

type historyService struct {
	provider    *store.Provider
	historyRepo repository.HistoryRepository
	scoreRepo   repository.ScoreRepository
	masteryRepo repository.MasteryRepository
	logger      *slog.Logger
}

func NewHistoryService(provider *store.Provider, historyRepo repository.HistoryRepository, scoreRepo repository.ScoreRepository, masteryRepo repository.MasteryRepository, logger *slog.Logger) HistoryService {
	return &historyService{
		provider:    provider,
		historyRepo: historyRepo,
		scoreRepo:   scoreRepo,
		masteryRepo: masteryRepo,
		logger:      logger,
	}
}

// SaveQuestionToHistory は解答済みの問題を履歴に追記します。内容の検証はしない。
func (s *historyService) SaveQuestionToHistory(ctx context.Context, req *model.SaveHistoryRequest) (*model.QuestionHistory, error) {
	sess, err := s.provider.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	difficulty, err := model.ParseDifficulty(req.Difficulty)
	if err != nil {
		return nil, model.NewAppError("INVALID_DIFFICULTY", "難易度の指定が不正です", "difficulty", model.ErrInvalidInput)
	}

	entry := &model.QuestionHistory{
		EntryID:       uuid.New(),
		OwnerID:       sess.OwnerID,
		Subject:       req.Subject,
		Topic:         req.Topic,
		Difficulty:    difficulty,
		QuestionText:  req.QuestionText,
		CorrectAnswer: req.CorrectAnswer,
		UserAnswer:    req.UserAnswer,
		Score:         *req.Score,
		AnsweredAt:    time.Now(),
	}

	item, err := store.NewQueueItem(model.QuestionHistory{}.TableName(), model.OperationInsert, entry)
	if err != nil {
		return nil, model.NewAppError("SERIALIZE_ERROR", "履歴のシリアライズに失敗しました", "", model.ErrInternalServer)
	}

	err = s.provider.ApplyWrite(ctx, sess,
		func(db *gorm.DB) error {
			return s.historyRepo.Insert(ctx, db, entry)
		},
		item,
	)
	if err != nil {
		s.logger.Error("Error saving question history", slog.Any("error", err))
		return nil, model.NewAppError("DB_ERROR", "履歴の保存に失敗しました", "", model.ErrInternalServer)
	}

	return entry, nil
}

func (s *historyService) GetQuestionHistory(ctx context.Context, filter model.HistoryFilter) ([]*model.QuestionHistory, error) {
	sess, err := s.provider.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	db, err := s.provider.ReadDB(sess)
	if err != nil {
		return nil, err
	}

	if filter.Limit <= 0 || filter.Limit > config.Cfg.App.HistoryLimit {
		filter.Limit = config.Cfg.App.HistoryLimit
	}

	entries, err := s.historyRepo.FindByFilter(ctx, db, sess.OwnerID, filter)
	if err != nil {
		s.logger.Error("Error finding question history", slog.Any("error", err))
		return nil, model.NewAppError("DB_ERROR", "履歴の取得に失敗しました", "", model.ErrInternalServer)
	}
	return entries, nil
}

// SaveBestScore は自己ベストを保存します。既存より低いスコアは書き込まず、
// 既存のベストをそのまま返す(max を残すセマンティクス)。
func (s *historyService) SaveBestScore(ctx context.Context, req *model.SaveScoreRequest) (*model.BestScore, error) {
	sess, err := s.provider.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	existing, err := s.findExistingScore(ctx, sess, req.Subject, req.Topic)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Score >= *req.Score {
		return existing, nil
	}

	score := &model.BestScore{
		ScoreID:    uuid.New(),
		OwnerID:    sess.OwnerID,
		Subject:    req.Subject,
		Topic:      req.Topic,
		Score:      *req.Score,
		AchievedAt: time.Now(),
	}
	if existing != nil {
		score.ScoreID = existing.ScoreID
	}

	item, err := store.NewQueueItem(model.BestScore{}.TableName(), model.OperationUpsert, score)
	if err != nil {
		return nil, model.NewAppError("SERIALIZE_ERROR", "スコアのシリアライズに失敗しました", "", model.ErrInternalServer)
	}

	err = s.provider.ApplyWrite(ctx, sess,
		func(db *gorm.DB) error {
			return s.scoreRepo.Upsert(ctx, db, score)
		},
		item,
	)
	if err != nil {
		s.logger.Error("Error saving best score", slog.Any("error", err))
		return nil, model.NewAppError("DB_ERROR", "スコアの保存に失敗しました", "", model.ErrInternalServer)
	}

	return score, nil
}

// findExistingScore はベストスコアの既存行を探します。
// リモートが落ちている場合は「既存なし」として扱い、書き込み側のキュー退避に任せる。
func (s *historyService) findExistingScore(ctx context.Context, sess *store.Session, subject, topic string) (*model.BestScore, error) {
	db, err := s.provider.ReadDB(sess)
	if err != nil {
		if errors.Is(err, model.ErrStoreUnavailable) {
			return nil, nil
		}
		return nil, err
	}

	existing, err := s.scoreRepo.Find(ctx, db, sess.OwnerID, subject, topic)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, nil
		}
		s.logger.Error("Error finding best score", slog.Any("error", err))
		return nil, model.NewAppError("DB_ERROR", "スコアの取得に失敗しました", "", model.ErrInternalServer)
	}
	return existing, nil
}

func (s *historyService) GetAllScores(ctx context.Context) ([]*model.BestScore, error) {
	sess, err := s.provider.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	db, err := s.provider.ReadDB(sess)
	if err != nil {
		return nil, err
	}

	scores, err := s.scoreRepo.FindAllByOwner(ctx, db, sess.OwnerID)
	if err != nil {
		s.logger.Error("Error listing best scores", slog.Any("error", err))
		return nil, model.NewAppError("DB_ERROR", "スコアの一覧取得に失敗しました", "", model.ErrInternalServer)
	}
	return scores, nil
}

// GetProgressStats は習熟状態から科目単位の進捗統計を組み立てます。
func (s *historyService) GetProgressStats(ctx context.Context) (*model.ProgressStats, error) {
	sess, err := s.provider.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	db, err := s.provider.ReadDB(sess)
	if err != nil {
		return nil, err
	}

	states, err := s.masteryRepo.FindAllByOwner(ctx, db, sess.OwnerID)
	if err != nil {
		s.logger.Error("Error listing mastery states for stats", slog.Any("error", err))
		return nil, model.NewAppError("DB_ERROR", "進捗統計の取得に失敗しました", "", model.ErrInternalServer)
	}

	type bucket struct {
		topics    int
		questions int
		accSum    float64
		hardest   model.DifficultyLevel
	}
	buckets := make(map[string]*bucket)
	var order []string
	total := 0

	for _, st := range states {
		b, ok := buckets[st.Subject]
		if !ok {
			b = &bucket{hardest: model.DifficultyEasy}
			buckets[st.Subject] = b
			order = append(order, st.Subject)
		}
		b.topics++
		b.questions += st.TotalQuestions
		b.accSum += st.RollingAccuracy
		if st.CurrentDifficulty > b.hardest {
			b.hardest = st.CurrentDifficulty
		}
		total += st.TotalQuestions
	}

	stats := &model.ProgressStats{
		Subjects:       make([]model.SubjectStats, 0, len(order)),
		TotalQuestions: total,
	}
	for _, subject := range order {
		b := buckets[subject]
		stats.Subjects = append(stats.Subjects, model.SubjectStats{
			Subject:           subject,
			Topics:            b.topics,
			TotalQuestions:    b.questions,
			MeanAccuracy:      b.accSum / float64(b.topics),
			HardestDifficulty: b.hardest,
		})
	}

	return stats, nil
}
