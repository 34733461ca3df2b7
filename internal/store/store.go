// internal/store/store.go
package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"go_5_study_keep/internal/model"
	"go_5_study_keep/internal/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Scope はどちらのバックエンドに向いているかを表します。
type Scope string

const (
	ScopeLocal  Scope = "local"
	ScopeRemote Scope = "remote"
)

// Session は1回の呼び出しで使うストアの解決結果です。
// ゲストならローカルDB、認証済みならリモートDBが選ばれる。
// 呼び出し側はどちらが選ばれたかを意識せずに DB を使える。
type Session struct {
	Scope   Scope
	DB      *gorm.DB
	OwnerID uuid.UUID
}

// IdentityResolver はリクエストコンテキストからアイデンティティを引き出します。
type IdentityResolver interface {
	Resolve(ctx context.Context) (*model.Identity, error)
}

// ContextResolver は認証ミドルウェアがコンテキストに積んだ Identity を読むだけの実装。
type ContextResolver struct{}

func (ContextResolver) Resolve(ctx context.Context) (*model.Identity, error) {
	identity, ok := ctx.Value(model.IdentityKey).(*model.Identity)
	if !ok || identity == nil {
		return nil, model.NewAppError("UNAUTHORIZED", "アイデンティティが解決できません", "", model.ErrForbidden)
	}
	return identity, nil
}

// Provider はローカル・リモート2系統のDBを束ね、呼び出しごとにスコープを解決します。
// remote は nil のことがある(起動時に接続できなかった、または未設定)。
// その場合でもゲストスコープの操作とキュー退避は動き続ける。
type Provider struct {
	local     *gorm.DB
	remote    *gorm.DB
	resolver  IdentityResolver
	queueRepo repository.QueueRepository
	logger    *slog.Logger
}

func NewProvider(local, remote *gorm.DB, resolver IdentityResolver, queueRepo repository.QueueRepository, logger *slog.Logger) *Provider {
	return &Provider{
		local:     local,
		remote:    remote,
		resolver:  resolver,
		queueRepo: queueRepo,
		logger:    logger,
	}
}

// Local はオフラインキューなどローカル固有の処理のための直接アクセス。
func (p *Provider) Local() *gorm.DB {
	return p.local
}

// Remote は nil のことがある。ドレインや移行の前に必ず確認すること。
func (p *Provider) Remote() *gorm.DB {
	return p.remote
}

// Resolve は現在のアイデンティティに応じたセッションを返します。
// 認証済みなのにリモートが無い場合もセッション自体は返す(DB=nil)。
// 読み取りはエラーに、書き込みはキュー退避になる。
func (p *Provider) Resolve(ctx context.Context) (*Session, error) {
	identity, err := p.resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	if identity.IsGuest {
		return &Session{Scope: ScopeLocal, DB: p.local, OwnerID: identity.ID}, nil
	}
	return &Session{Scope: ScopeRemote, DB: p.remote, OwnerID: identity.ID}, nil
}

// ReadDB は読み取り用のDBを返します。リモートスコープでリモートが落ちている場合、
// 読み取りはフォールバックせずエラーにする(古いローカルデータを正として返さないため)。
func (p *Provider) ReadDB(sess *Session) (*gorm.DB, error) {
	if sess.DB == nil {
		return nil, model.NewAppError("STORE_UNAVAILABLE", "リモートストアに接続できません", "", model.ErrStoreUnavailable)
	}
	return sess.DB, nil
}

// ApplyWrite は書き込みを実行します。リモートスコープで書き込みが一時的に
// 失敗した場合(またはリモート接続が無い場合)、fallback に渡された内容を
// オフラインキューへ退避し、呼び出し元には成功として返す。
// ローカルスコープの書き込み失敗はそのままエラーになる。
func (p *Provider) ApplyWrite(ctx context.Context, sess *Session, direct func(db *gorm.DB) error, fallback *model.QueueItem) error {
	if sess.Scope == ScopeLocal {
		return direct(sess.DB)
	}

	if sess.DB != nil {
		err := direct(sess.DB)
		if err == nil {
			return nil
		}
		if !isTransient(err) {
			return err
		}
		p.logger.Warn("Remote write failed, falling back to offline queue",
			slog.String("collection", fallback.TargetCollection),
			slog.Any("error", err),
		)
	} else {
		p.logger.Warn("Remote store not connected, queueing write",
			slog.String("collection", fallback.TargetCollection),
		)
	}

	return p.enqueue(ctx, fallback)
}

func (p *Provider) enqueue(ctx context.Context, item *model.QueueItem) error {
	if item.ItemID == uuid.Nil {
		item.ItemID = uuid.New()
	}
	if item.EnqueuedAt.IsZero() {
		item.EnqueuedAt = time.Now()
	}
	if err := p.queueRepo.Enqueue(ctx, p.local, item); err != nil {
		p.logger.Error("Failed to enqueue offline operation", slog.Any("error", err))
		return model.NewAppError("QUEUE_WRITE_FAILED", "オフラインキューへの退避に失敗しました", "", model.ErrInternalServer)
	}
	return nil
}

// NewQueueItem は書き込み内容をキュー項目へシリアライズします。
func NewQueueItem(collection string, op model.OperationKind, payload any) (*model.QueueItem, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &model.QueueItem{
		ItemID:           uuid.New(),
		TargetCollection: collection,
		OperationKind:    op,
		Payload:          datatypes.JSON(raw),
		EnqueuedAt:       time.Now(),
	}, nil
}

// isTransient は「キュー退避に値する失敗かどうか」を判定します。
// バリデーション起因のエラー(AppError)は再試行しても成功しないので退避しない。
func isTransient(err error) bool {
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		return errors.Is(appErr.Err, model.ErrStoreUnavailable)
	}
	if errors.Is(err, model.ErrStoreUnavailable) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	// gormのレコード未検出などの論理エラーは除き、ドライバ起因の失敗は退避対象とみなす
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return false
	}
	return true
}
