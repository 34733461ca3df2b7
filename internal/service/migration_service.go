// internal/service/migration_service.go
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

	"gorm.io/gorm"
)

type MigrationService interface {
	// MigrateGuestData はローカルのゲストデータをリモートへ一度だけ移し替えます。
	// 移行済みマーカーがあれば何もしない(冪等)。
	MigrateGuestData(ctx context.Context) (*model.MigrationResult, error)
}

type migrationService struct {
	provider    *store.Provider
	masteryRepo repository.MasteryRepository
	historyRepo repository.HistoryRepository
	scoreRepo   repository.ScoreRepository
	markerRepo  repository.MarkerRepository
	logger      *slog.Logger
}

func NewMigrationService(provider *store.Provider, masteryRepo repository.MasteryRepository, historyRepo repository.HistoryRepository, scoreRepo repository.ScoreRepository, markerRepo repository.MarkerRepository, logger *slog.Logger) MigrationService {
	return &migrationService{
		provider:    provider,
		masteryRepo: masteryRepo,
		historyRepo: historyRepo,
		scoreRepo:   scoreRepo,
		markerRepo:  markerRepo,
		logger:      logger,
	}
}

func (s *migrationService) MigrateGuestData(ctx context.Context) (*model.MigrationResult, error) {
	sess, err := s.provider.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	if sess.Scope != store.ScopeRemote {
		return nil, model.NewAppError("GUEST_MIGRATION_FORBIDDEN", "移行には認証済みのアイデンティティが必要です", "", model.ErrForbidden)
	}

	remote := s.provider.Remote()
	if remote == nil {
		return nil, model.NewAppError("STORE_UNAVAILABLE", "リモートストアに接続できません", "", model.ErrStoreUnavailable)
	}

	// 冪等性マーカーの確認。2回目以降の呼び出しは no-op になる。
	marker, err := s.markerRepo.Find(ctx, remote, sess.OwnerID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		s.logger.Error("Error checking migration marker", slog.Any("error", err))
		return nil, model.NewAppError("DB_ERROR", "移行状態の確認に失敗しました", "", model.ErrInternalServer)
	}
	if marker != nil {
		return &model.MigrationResult{AlreadyMigrated: true}, nil
	}

	local := s.provider.Local()
	states, err := s.masteryRepo.FindAll(ctx, local)
	if err != nil {
		return nil, s.readError("習熟状態", err)
	}
	entries, err := s.historyRepo.FindAll(ctx, local)
	if err != nil {
		return nil, s.readError("履歴", err)
	}
	scores, err := s.scoreRepo.FindAll(ctx, local)
	if err != nil {
		return nil, s.readError("スコア", err)
	}

	result := &model.MigrationResult{
		MasteryStates:  len(states),
		HistoryEntries: len(entries),
		BestScores:     len(scores),
	}

	// 所有者を認証済みIDに付け替え、バッチ単位でリモートへ書き込む。
	// バッチの途中で失敗した場合、それまでにコミットした分はリモートに残る。
	// マーカーは未設定のままなので再実行でき、重複は conflict key が吸収する。
	batchSize := config.Cfg.Sync.MigrationBatchSize

	for _, chunk := range chunkSlice(states, batchSize) {
		err := remote.Transaction(func(tx *gorm.DB) error {
			for _, st := range chunk {
				st.OwnerID = sess.OwnerID
				if err := s.masteryRepo.Upsert(ctx, tx, st); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return result, s.writeError("習熟状態", err)
		}
		result.Committed += len(chunk)
	}

	for _, chunk := range chunkSlice(entries, batchSize) {
		err := remote.Transaction(func(tx *gorm.DB) error {
			for _, e := range chunk {
				e.OwnerID = sess.OwnerID
				if err := s.historyRepo.Insert(ctx, tx, e); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return result, s.writeError("履歴", err)
		}
		result.Committed += len(chunk)
	}

	for _, chunk := range chunkSlice(scores, batchSize) {
		err := remote.Transaction(func(tx *gorm.DB) error {
			for _, sc := range chunk {
				sc.OwnerID = sess.OwnerID
				if err := s.scoreRepo.Upsert(ctx, tx, sc); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return result, s.writeError("スコア", err)
		}
		result.Committed += len(chunk)
	}

	if err := s.markerRepo.Create(ctx, remote, &model.MigrationMarker{
		OwnerID:    sess.OwnerID,
		MigratedAt: time.Now(),
	}); err != nil {
		s.logger.Error("Error creating migration marker", slog.Any("error", err))
		return result, model.NewAppError("DB_ERROR", "移行マーカーの作成に失敗しました", "", model.ErrInternalServer)
	}

	// ローカルの掃除は最後。マーカー設定後にここでクラッシュしても、
	// 残ったローカルデータは次回の移行呼び出しで no-op になるだけで二重計上はされない。
	if err := s.clearLocal(ctx, local); err != nil {
		s.logger.Warn("Migration committed but local cleanup failed", slog.Any("error", err))
	}

	s.logger.Info("Guest data migration completed",
		slog.Int("mastery_states", result.MasteryStates),
		slog.Int("history_entries", result.HistoryEntries),
		slog.Int("best_scores", result.BestScores),
	)
	return result, nil
}

func (s *migrationService) clearLocal(ctx context.Context, local *gorm.DB) error {
	return local.Transaction(func(tx *gorm.DB) error {
		if err := s.masteryRepo.DeleteAll(ctx, tx); err != nil {
			return err
		}
		if err := s.historyRepo.DeleteAll(ctx, tx); err != nil {
			return err
		}
		return s.scoreRepo.DeleteAll(ctx, tx)
	})
}

func (s *migrationService) readError(target string, err error) error {
	s.logger.Error("Error reading local data for migration", slog.String("target", target), slog.Any("error", err))
	return model.NewAppError("DB_ERROR", "ローカルデータの読み取りに失敗しました", "", model.ErrInternalServer)
}

func (s *migrationService) writeError(target string, err error) error {
	s.logger.Error("Error writing migrated data", slog.String("target", target), slog.Any("error", err))
	return model.NewAppError("MIGRATION_INCOMPLETE", "移行の途中で書き込みに失敗しました", "", model.ErrStoreUnavailable)
}

func chunkSlice[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = 1
	}
	var chunks [][]T
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}
