// internal/store/store_test.go
package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"go_5_study_keep/internal/model"
	"go_5_study_keep/internal/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixedResolver struct {
	identity *model.Identity
}

func (r fixedResolver) Resolve(ctx context.Context) (*model.Identity, error) {
	return r.identity, nil
}

func testDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func Test_Provider_Resolve(t *testing.T) {
	local := testDB(t, "store_resolve_local")
	remote := testDB(t, "store_resolve_remote")

	t.Run("正常系: ゲストはローカルスコープ", func(t *testing.T) {
		guest := &model.Identity{ID: uuid.New(), IsGuest: true}
		p := NewProvider(local, remote, fixedResolver{guest}, new(mocks.QueueRepository), discardLogger())

		sess, err := p.Resolve(context.Background())
		require.NoError(t, err)
		assert.Equal(t, ScopeLocal, sess.Scope)
		assert.Same(t, local, sess.DB)
		assert.Equal(t, guest.ID, sess.OwnerID)
	})

	t.Run("正常系: 認証済みはリモートスコープ", func(t *testing.T) {
		authed := &model.Identity{ID: uuid.New(), IsGuest: false}
		p := NewProvider(local, remote, fixedResolver{authed}, new(mocks.QueueRepository), discardLogger())

		sess, err := p.Resolve(context.Background())
		require.NoError(t, err)
		assert.Equal(t, ScopeRemote, sess.Scope)
		assert.Same(t, remote, sess.DB)
	})
}

func Test_Provider_ApplyWrite(t *testing.T) {
	ctx := context.Background()
	local := testDB(t, "store_apply_local")

	newQueueItem := func(t *testing.T) *model.QueueItem {
		t.Helper()
		item, err := NewQueueItem("mastery_states", model.OperationUpsert, map[string]string{"k": "v"})
		require.NoError(t, err)
		return item
	}

	t.Run("正常系: ローカルスコープは直接書き込む", func(t *testing.T) {
		queueRepo := new(mocks.QueueRepository)
		p := NewProvider(local, nil, fixedResolver{}, queueRepo, discardLogger())
		sess := &Session{Scope: ScopeLocal, DB: local, OwnerID: uuid.New()}

		called := false
		err := p.ApplyWrite(ctx, sess, func(db *gorm.DB) error {
			called = true
			return nil
		}, newQueueItem(t))

		require.NoError(t, err)
		assert.True(t, called)
		queueRepo.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("正常系: リモート未接続の書き込みはキューへ退避される", func(t *testing.T) {
		queueRepo := new(mocks.QueueRepository)
		queueRepo.On("Enqueue", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.QueueItem")).
			Return(nil).Once()
		p := NewProvider(local, nil, fixedResolver{}, queueRepo, discardLogger())
		sess := &Session{Scope: ScopeRemote, DB: nil, OwnerID: uuid.New()}

		err := p.ApplyWrite(ctx, sess, func(db *gorm.DB) error {
			t.Fatal("direct write should not run without a remote connection")
			return nil
		}, newQueueItem(t))

		require.NoError(t, err)
		queueRepo.AssertExpectations(t)
	})

	t.Run("正常系: リモートの一時失敗はキューへ退避される", func(t *testing.T) {
		remote := testDB(t, "store_apply_remote")
		queueRepo := new(mocks.QueueRepository)
		queueRepo.On("Enqueue", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.QueueItem")).
			Return(nil).Once()
		p := NewProvider(local, remote, fixedResolver{}, queueRepo, discardLogger())
		sess := &Session{Scope: ScopeRemote, DB: remote, OwnerID: uuid.New()}

		err := p.ApplyWrite(ctx, sess, func(db *gorm.DB) error {
			return errors.New("connection refused")
		}, newQueueItem(t))

		require.NoError(t, err)
		queueRepo.AssertExpectations(t)
	})

	t.Run("異常系: 論理エラーは退避せず呼び出し元へ返す", func(t *testing.T) {
		remote := testDB(t, "store_apply_remote2")
		queueRepo := new(mocks.QueueRepository)
		p := NewProvider(local, remote, fixedResolver{}, queueRepo, discardLogger())
		sess := &Session{Scope: ScopeRemote, DB: remote, OwnerID: uuid.New()}

		err := p.ApplyWrite(ctx, sess, func(db *gorm.DB) error {
			return gorm.ErrDuplicatedKey
		}, newQueueItem(t))

		require.Error(t, err)
		queueRepo.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything)
	})
}

func Test_Provider_ReadDB(t *testing.T) {
	local := testDB(t, "store_read_local")
	p := NewProvider(local, nil, fixedResolver{}, new(mocks.QueueRepository), discardLogger())

	t.Run("正常系: 接続があればそのまま返す", func(t *testing.T) {
		db, err := p.ReadDB(&Session{Scope: ScopeLocal, DB: local})
		require.NoError(t, err)
		assert.Same(t, local, db)
	})

	t.Run("異常系: リモート未接続の読み取りはエラー", func(t *testing.T) {
		_, err := p.ReadDB(&Session{Scope: ScopeRemote, DB: nil})
		require.Error(t, err)
		assert.True(t, errors.Is(err, model.ErrStoreUnavailable))
	})
}
