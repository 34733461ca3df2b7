// internal/service/sync_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go_5_study_keep/internal/config"
	"go_5_study_keep/internal/model"
	"go_5_study_keep/internal/repository"
	"go_5_study_keep/internal/store"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConnectivityProbe はリモートストアへの到達性を確認します。
type ConnectivityProbe interface {
	Ping(ctx context.Context) error
}

type gormProbe struct {
	db *gorm.DB
}

func NewGormProbe(db *gorm.DB) ConnectivityProbe {
	return &gormProbe{db: db}
}

func (p *gormProbe) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

type SyncService interface {
	// Drain はオフラインキューの1回の完全な再生を試みます。
	// 前提条件を満たさない場合はキューに触れず、型付きの理由を返す。
	Drain(ctx context.Context) (*model.DrainResult, error)
	Status(ctx context.Context) (*model.SyncStatus, error)
}

type syncService struct {
	provider    *store.Provider
	probe       ConnectivityProbe
	queueRepo   repository.QueueRepository
	masteryRepo repository.MasteryRepository
	historyRepo repository.HistoryRepository
	scoreRepo   repository.ScoreRepository
	resolver    store.IdentityResolver
	logger      *slog.Logger

	// 多重ドレインの防止フラグ。プロセス内で1本だけ走る。
	draining atomic.Bool

	mu             sync.Mutex
	lastSyncAt     *time.Time
	lastSyncResult *model.DrainOutcome
}

func NewSyncService(provider *store.Provider, probe ConnectivityProbe, queueRepo repository.QueueRepository, masteryRepo repository.MasteryRepository, historyRepo repository.HistoryRepository, scoreRepo repository.ScoreRepository, resolver store.IdentityResolver, logger *slog.Logger) SyncService {
	return &syncService{
		provider:    provider,
		probe:       probe,
		queueRepo:   queueRepo,
		masteryRepo: masteryRepo,
		historyRepo: historyRepo,
		scoreRepo:   scoreRepo,
		resolver:    resolver,
		logger:      logger,
	}
}

func (s *syncService) Drain(ctx context.Context) (*model.DrainResult, error) {
	if !s.draining.CompareAndSwap(false, true) {
		return &model.DrainResult{Reason: model.DrainAlreadyRunning}, nil
	}
	defer s.draining.Store(false)

	remote := s.provider.Remote()
	if remote == nil {
		return &model.DrainResult{Reason: model.DrainOffline}, nil
	}
	if err := s.probe.Ping(ctx); err != nil {
		s.logger.Info("Drain skipped: remote store unreachable", slog.Any("error", err))
		return &model.DrainResult{Reason: model.DrainOffline}, nil
	}

	identity, err := s.resolveIdentity(ctx)
	if err != nil {
		if errors.Is(err, model.ErrIdentityTimeout) {
			return &model.DrainResult{Reason: model.DrainIdentityTimeout}, nil
		}
		return &model.DrainResult{Reason: model.DrainNoIdentity}, nil
	}
	if identity.IsGuest {
		// ゲストのままではリモートへ流せない
		return &model.DrainResult{Reason: model.DrainNoIdentity}, nil
	}

	// ドレイン開始時点のスナップショットだけを処理する。
	// 処理中に積まれた項目は次回のドレインに回る。
	items, err := s.queueRepo.ListPending(ctx, s.provider.Local())
	if err != nil {
		s.logger.Error("Error listing pending queue items", slog.Any("error", err))
		return nil, model.NewAppError("DB_ERROR", "キューの読み取りに失敗しました", "", model.ErrInternalServer)
	}
	if len(items) == 0 {
		return &model.DrainResult{Reason: model.DrainNothingPending}, nil
	}

	outcome := &model.DrainOutcome{}
	for _, item := range items {
		if err := s.applyItem(ctx, remote, identity, item); err != nil {
			s.handleFailure(ctx, item, err, outcome)
			continue
		}
		if err := s.queueRepo.Delete(ctx, s.provider.Local(), item.ItemID); err != nil {
			s.logger.Error("Error deleting drained queue item",
				slog.String("item_id", item.ItemID.String()), slog.Any("error", err))
			continue
		}
		outcome.Succeeded++
	}

	now := time.Now()
	s.mu.Lock()
	s.lastSyncAt = &now
	s.lastSyncResult = outcome
	s.mu.Unlock()

	s.logger.Info("Drain completed",
		slog.Int("succeeded", outcome.Succeeded),
		slog.Int("failed", outcome.Failed),
		slog.Int("retried", outcome.Retried),
	)
	return &model.DrainResult{Reason: model.DrainCompleted, Outcome: outcome}, nil
}

// handleFailure は失敗した項目のリトライ帳簿を進めます。
// リトライ上限に達した項目は破棄される。破棄はログと failed カウント以外には現れない。
func (s *syncService) handleFailure(ctx context.Context, item *model.QueueItem, cause error, outcome *model.DrainOutcome) {
	s.logger.Warn("Queue item replay failed",
		slog.String("item_id", item.ItemID.String()),
		slog.String("collection", item.TargetCollection),
		slog.Int("retry_count", item.RetryCount),
		slog.Any("error", cause),
	)

	if item.RetryCount+1 >= config.Cfg.Sync.MaxRetries {
		if err := s.queueRepo.Delete(ctx, s.provider.Local(), item.ItemID); err != nil {
			s.logger.Error("Error dropping exhausted queue item", slog.Any("error", err))
			return
		}
		s.logger.Error("Queue item dropped after retry limit",
			slog.String("item_id", item.ItemID.String()),
			slog.String("collection", item.TargetCollection),
		)
		outcome.Failed++
		return
	}

	if err := s.queueRepo.IncrementRetry(ctx, s.provider.Local(), item.ItemID); err != nil {
		s.logger.Error("Error incrementing retry count", slog.Any("error", err))
		return
	}
	outcome.Retried++
}

// applyItem はキュー項目1件をリモートストアへ再生します。
// 所有者はキュー時点のゲストIDではなく、ドレイン時点のアイデンティティに付け替える。
func (s *syncService) applyItem(ctx context.Context, remote *gorm.DB, identity *model.Identity, item *model.QueueItem) error {
	switch item.TargetCollection {
	case model.MasteryState{}.TableName():
		var state model.MasteryState
		if err := json.Unmarshal(item.Payload, &state); err != nil {
			return fmt.Errorf("unmarshal mastery payload: %w", err)
		}
		state.OwnerID = identity.ID
		// 主キーはシリアライズ対象外なので再生時に振り直す。
		// 重複は (owner, subject, topic) の conflict key が吸収する。
		if state.StateID == uuid.Nil {
			state.StateID = uuid.New()
		}
		return s.masteryRepo.Upsert(ctx, remote, &state)
	case model.QuestionHistory{}.TableName():
		var entry model.QuestionHistory
		if err := json.Unmarshal(item.Payload, &entry); err != nil {
			return fmt.Errorf("unmarshal history payload: %w", err)
		}
		entry.OwnerID = identity.ID
		if entry.EntryID == uuid.Nil {
			entry.EntryID = uuid.New()
		}
		return s.historyRepo.Insert(ctx, remote, &entry)
	case model.BestScore{}.TableName():
		var score model.BestScore
		if err := json.Unmarshal(item.Payload, &score); err != nil {
			return fmt.Errorf("unmarshal score payload: %w", err)
		}
		score.OwnerID = identity.ID
		if score.ScoreID == uuid.Nil {
			score.ScoreID = uuid.New()
		}
		return s.scoreRepo.Upsert(ctx, remote, &score)
	default:
		return fmt.Errorf("unknown target collection: %s", item.TargetCollection)
	}
}

// resolveIdentity は設定された上限時間までアイデンティティの解決を待ちます。
func (s *syncService) resolveIdentity(ctx context.Context) (*model.Identity, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, config.Cfg.Sync.IdentityTimeout)
	defer cancel()

	type resolved struct {
		identity *model.Identity
		err      error
	}
	ch := make(chan resolved, 1)
	go func() {
		identity, err := s.resolver.Resolve(ctx)
		ch <- resolved{identity, err}
	}()

	select {
	case r := <-ch:
		return r.identity, r.err
	case <-timeoutCtx.Done():
		return nil, model.ErrIdentityTimeout
	}
}

func (s *syncService) Status(ctx context.Context) (*model.SyncStatus, error) {
	pending, err := s.queueRepo.CountPending(ctx, s.provider.Local())
	if err != nil {
		s.logger.Error("Error counting pending queue items", slog.Any("error", err))
		return nil, model.NewAppError("DB_ERROR", "同期状態の取得に失敗しました", "", model.ErrInternalServer)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return &model.SyncStatus{
		LastSyncTimestamp: s.lastSyncAt,
		PendingCount:      pending,
		LastSyncResult:    s.lastSyncResult,
	}, nil
}
