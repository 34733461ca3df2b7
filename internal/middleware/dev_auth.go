// internal/middleware/dev_auth.go
package middleware

import (
	"context"
	"net/http"

	"go_5_study_keep/internal/model"
	"go_5_study_keep/internal/webutil"

	"github.com/google/uuid"
)

// DevIdentityMiddleware は開発・テスト用ミドルウェアです。
// X-Identity-ID ヘッダーのUUIDを認証済みアイデンティティとしてコンテキストに設定します。
// JWT検証は行いません。
func DevIdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := GetLogger(r.Context())

		idStr := r.Header.Get("X-Identity-ID")
		if idStr == "" {
			appErr := model.NewAppError("UNAUTHORIZED", "[DEV] X-Identity-IDヘッダーが必要です", "", model.ErrForbidden)
			webutil.HandleError(w, logger, appErr)
			return
		}

		id, err := uuid.Parse(idStr)
		if err != nil {
			appErr := model.NewAppError("UNAUTHORIZED", "[DEV] X-Identity-IDの形式が不正です", "", model.ErrForbidden)
			webutil.HandleError(w, logger, appErr)
			return
		}

		isGuest := r.Header.Get("X-Identity-Guest") == "true"

		identity := &model.Identity{ID: id, IsGuest: isGuest}
		ctx := context.WithValue(r.Context(), model.IdentityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
