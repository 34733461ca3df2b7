// internal/handlers/sync_handler_test.go
package handlers_test

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"go_5_study_keep/internal/handlers"
	"go_5_study_keep/internal/middleware"
	"go_5_study_keep/internal/model"
	"go_5_study_keep/internal/service/mocks"
)

func newSyncRouter(t *testing.T) (*chi.Mux, *mocks.MockSyncService, *mocks.MockMigrationService) {
	t.Helper()
	mockSync := mocks.NewMockSyncService(t)
	mockMigration := mocks.NewMockMigrationService(t)
	syncHandler := handlers.NewSyncHandler(mockSync, nil)
	migrationHandler := handlers.NewMigrationHandler(mockMigration, nil)

	router := chi.NewRouter()
	router.Use(middleware.DevIdentityMiddleware)
	router.Post("/api/v1/sync/drain", syncHandler.Drain)
	router.Get("/api/v1/sync/status", syncHandler.Status)
	router.Post("/api/v1/migration", migrationHandler.Migrate)
	return router, mockSync, mockMigration
}

func TestSyncHandler_Drain(t *testing.T) {
	t.Run("正常系: ドレイン結果が返る", func(t *testing.T) {
		router, mockSync, _ := newSyncRouter(t)

		mockSync.On("Drain", mock.Anything).
			Return(&model.DrainResult{
				Reason:  model.DrainCompleted,
				Outcome: &model.DrainOutcome{Succeeded: 3, Retried: 1},
			}, nil).Once()

		rec := doJSONRequest(t, router, http.MethodPost, "/api/v1/sync/drain", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"reason":"completed"`)
		assert.Contains(t, rec.Body.String(), `"succeeded":3`)
	})

	t.Run("正常系: 前提条件を満たさない場合も200で理由が返る", func(t *testing.T) {
		router, mockSync, _ := newSyncRouter(t)

		mockSync.On("Drain", mock.Anything).
			Return(&model.DrainResult{Reason: model.DrainOffline}, nil).Once()

		rec := doJSONRequest(t, router, http.MethodPost, "/api/v1/sync/drain", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"reason":"offline"`)
	})
}

func TestSyncHandler_Status(t *testing.T) {
	t.Run("正常系: 同期状態が返る", func(t *testing.T) {
		router, mockSync, _ := newSyncRouter(t)

		mockSync.On("Status", mock.Anything).
			Return(&model.SyncStatus{PendingCount: 5}, nil).Once()

		rec := doJSONRequest(t, router, http.MethodGet, "/api/v1/sync/status", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"pending_count":5`)
	})
}

func TestMigrationHandler_Migrate(t *testing.T) {
	t.Run("正常系: 移行結果が返る", func(t *testing.T) {
		router, _, mockMigration := newSyncRouter(t)

		mockMigration.On("MigrateGuestData", mock.Anything).
			Return(&model.MigrationResult{MasteryStates: 2, Committed: 2}, nil).Once()

		rec := doJSONRequest(t, router, http.MethodPost, "/api/v1/migration", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"committed":2`)
	})

	t.Run("異常系: ゲストからの移行要求は403", func(t *testing.T) {
		router, _, mockMigration := newSyncRouter(t)

		appErr := model.NewAppError("GUEST_MIGRATION_FORBIDDEN", "移行には認証済みのアイデンティティが必要です", "", model.ErrForbidden)
		mockMigration.On("MigrateGuestData", mock.Anything).
			Return(nil, appErr).Once()

		rec := doJSONRequest(t, router, http.MethodPost, "/api/v1/migration", nil)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "GUEST_MIGRATION_FORBIDDEN")
	})
}
