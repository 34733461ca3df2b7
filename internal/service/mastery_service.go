// internal/service/mastery_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"go_5_study_keep/internal/config"
	"go_5_study_keep/internal/model"
	"go_5_study_keep/internal/repository"
	"go_5_study_keep/internal/store"

	"gorm.io/gorm"
)

type MasteryService interface {
	UpdateMastery(ctx context.Context, req *model.SubmitOutcomeRequest) (*model.UpdateMasteryResponse, error)
	GetRecommendedDifficulty(ctx context.Context, subject, topic string) (*model.RecommendedDifficultyResponse, error)
	StartSession(ctx context.Context, req *model.StartSessionRequest) (*model.UpdateMasteryResponse, error)
	ListMasteryStates(ctx context.Context) ([]*model.MasteryState, error)
}

type masteryService struct {
	provider    *store.Provider
	masteryRepo repository.MasteryRepository
	logger      *slog.Logger
}

func NewMasteryService(provider *store.Provider, masteryRepo repository.MasteryRepository, logger *slog.Logger) MasteryService {
	return &masteryService{
		provider:    provider,
		masteryRepo: masteryRepo,
		logger:      logger,
	}
}

// UpdateMastery は解答結果を1件取り込み、状態を更新して永続化し、
// 必要であれば高々1件の難易度推薦を返します。
func (s *masteryService) UpdateMastery(ctx context.Context, req *model.SubmitOutcomeRequest) (*model.UpdateMasteryResponse, error) {
	sess, err := s.provider.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	difficulty, err := model.ParseDifficulty(req.Difficulty)
	if err != nil {
		return nil, model.NewAppError("INVALID_DIFFICULTY", "難易度の指定が不正です", "difficulty", model.ErrInvalidInput)
	}

	state, err := s.loadOrCreate(ctx, sess, req.Subject, req.Topic)
	if err != nil {
		return nil, err
	}

	rec := model.OutcomeRecord{
		Subject:    req.Subject,
		Topic:      req.Topic,
		Difficulty: difficulty,
		Score:      *req.Score,
		AnsweredAt: time.Now(),
	}
	state.ApplyOutcome(rec, config.RollingWindowSize)

	recommendation := evaluateRecommendation(state)

	if err := s.persist(ctx, sess, state); err != nil {
		return nil, err
	}
	state.IsNew = false

	return &model.UpdateMasteryResponse{
		Mastery:        state,
		Recommendation: recommendation,
	}, nil
}

// GetRecommendedDifficulty は保存済みの推奨難易度を返します。
// 状態がまだ無いトピックでは medium を返す(永続化はしない)。
func (s *masteryService) GetRecommendedDifficulty(ctx context.Context, subject, topic string) (*model.RecommendedDifficultyResponse, error) {
	sess, err := s.provider.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	db, err := s.provider.ReadDB(sess)
	if err != nil {
		return nil, err
	}

	recommended := model.DifficultyMedium
	state, err := s.masteryRepo.Find(ctx, db, sess.OwnerID, subject, topic)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			s.logger.Error("Error finding mastery state", slog.Any("error", err))
			return nil, model.NewAppError("DB_ERROR", "習熟状態の取得に失敗しました", "", model.ErrInternalServer)
		}
	} else {
		recommended = state.RecommendedDifficulty
	}

	return &model.RecommendedDifficultyResponse{
		Subject:               subject,
		Topic:                 topic,
		RecommendedDifficulty: recommended,
	}, nil
}

// StartSession はセッション境界を宣言します。
// difficultyChangesThisSession をリセットし、保存済みの推奨難易度と
// これから挑戦する難易度が食い違うときだけ session_start 推薦を返します。
func (s *masteryService) StartSession(ctx context.Context, req *model.StartSessionRequest) (*model.UpdateMasteryResponse, error) {
	sess, err := s.provider.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	planned, err := model.ParseDifficulty(req.Difficulty)
	if err != nil {
		return nil, model.NewAppError("INVALID_DIFFICULTY", "難易度の指定が不正です", "difficulty", model.ErrInvalidInput)
	}

	state, err := s.loadOrCreate(ctx, sess, req.Subject, req.Topic)
	if err != nil {
		return nil, err
	}

	state.DifficultyChangesThisSession = 0

	var recommendation *model.Recommendation
	if state.RecommendedDifficulty != planned {
		recommendation = &model.Recommendation{
			Kind:    model.RecommendationSessionStart,
			Message: fmt.Sprintf("前回までの成績から %s がおすすめです", state.RecommendedDifficulty.String()),
			Target:  state.RecommendedDifficulty,
		}
	}

	if err := s.persist(ctx, sess, state); err != nil {
		return nil, err
	}
	state.IsNew = false

	return &model.UpdateMasteryResponse{
		Mastery:        state,
		Recommendation: recommendation,
	}, nil
}

func (s *masteryService) ListMasteryStates(ctx context.Context) ([]*model.MasteryState, error) {
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
		s.logger.Error("Error listing mastery states", slog.Any("error", err))
		return nil, model.NewAppError("DB_ERROR", "習熟状態の一覧取得に失敗しました", "", model.ErrInternalServer)
	}
	return states, nil
}

// loadOrCreate は状態を読み、無ければデフォルト状態を生成して返します(遅延生成)。
func (s *masteryService) loadOrCreate(ctx context.Context, sess *store.Session, subject, topic string) (*model.MasteryState, error) {
	db, err := s.provider.ReadDB(sess)
	if err != nil {
		return nil, err
	}

	state, err := s.masteryRepo.Find(ctx, db, sess.OwnerID, subject, topic)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.NewMasteryState(sess.OwnerID, subject, topic), nil
		}
		s.logger.Error("Error finding mastery state", slog.Any("error", err))
		return nil, model.NewAppError("DB_ERROR", "習熟状態の取得に失敗しました", "", model.ErrInternalServer)
	}
	return state, nil
}

func (s *masteryService) persist(ctx context.Context, sess *store.Session, state *model.MasteryState) error {
	item, err := store.NewQueueItem(model.MasteryState{}.TableName(), model.OperationUpsert, state)
	if err != nil {
		return model.NewAppError("SERIALIZE_ERROR", "状態のシリアライズに失敗しました", "", model.ErrInternalServer)
	}

	err = s.provider.ApplyWrite(ctx, sess,
		func(db *gorm.DB) error {
			return s.masteryRepo.Upsert(ctx, db, state)
		},
		item,
	)
	if err != nil {
		s.logger.Error("Error persisting mastery state", slog.Any("error", err))
		return model.NewAppError("DB_ERROR", "習熟状態の保存に失敗しました", "", model.ErrInternalServer)
	}
	return nil
}

// evaluateRecommendation は更新後の状態に対して推薦ポリシーを評価します。
// 昇格・降格 → ストリーク稼ぎ → 振動の順に評価し、後段の条件が成立すると
// 前段の推薦を上書きする(返るのは常に高々1件)。
// 状態の RecommendedDifficulty と StreakEligible はここで書き換わる。
func evaluateRecommendation(state *model.MasteryState) *model.Recommendation {
	var recommendation *model.Recommendation

	recent := state.RecentAccuracy(config.RecentWindowSize)
	pct := int(math.Round(recent * 100))

	// 昇格・降格の判定。閾値は両端とも境界値を含む。
	// 直近窓が満たない間は成績が安定しないため昇降格は判定しない。
	hasRecentWindow := len(state.RollingHistory) >= config.RecentWindowSize

	if hasRecentWindow && recent >= config.BumpUpThreshold && state.CurrentDifficulty != model.DifficultyExtreme {
		target := state.CurrentDifficulty.Next()
		state.RecommendedDifficulty = target
		recommendation = &model.Recommendation{
			Kind:    model.RecommendationBumpUp,
			Message: fmt.Sprintf("直近の正答率が%d%%です。%s に挑戦してみましょう", pct, target.String()),
			Target:  target,
		}
	} else if hasRecentWindow && recent <= config.BumpDownThreshold && state.CurrentDifficulty != model.DifficultyEasy {
		target := state.CurrentDifficulty.Prev()
		state.RecommendedDifficulty = target
		recommendation = &model.Recommendation{
			Kind:    model.RecommendationBumpDown,
			Message: fmt.Sprintf("直近の正答率が%d%%です。いったん %s に戻しましょう", pct, target.String()),
			Target:  target,
		}
	}

	// ストリーク稼ぎの検知。easy に留まり続けて高精度の場合に資格を落とす。
	// 一度 false になった streakEligible は自動では復帰しない。
	if state.CurrentDifficulty == model.DifficultyEasy &&
		state.QuestionsAtCurrentDifficulty >= config.StreakMinQuestions &&
		state.RollingAccuracy >= config.StreakAccuracyThreshold {
		state.StreakEligible = false
		recommendation = &model.Recommendation{
			Kind:    model.RecommendationStreakWarning,
			Message: "easy での高正答率が続いています。ストリークの対象外になりました。より高い難易度に挑戦してください",
		}
	}

	// 振動の検知。最後に評価されるので、成立すれば他の推薦を上書きする。
	if state.DifficultyChangesThisSession >= config.OscillationThreshold {
		recommendation = &model.Recommendation{
			Kind:    model.RecommendationOscillationWarning,
			Message: "このセッションで難易度の変更が頻発しています。しばらく難易度を固定することをおすすめします",
		}
	}

	return recommendation
}
