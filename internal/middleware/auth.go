package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go_5_study_keep/internal/config"
	"go_5_study_keep/internal/model"
	"go_5_study_keep/internal/webutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// IdentityMiddleware はリクエストごとにアイデンティティ信号を解決するミドルウェアです。
//
// - Authorization: Bearer {JWT} があれば検証し、認証済みアイデンティティとして扱う
// - 無ければ X-Device-ID ヘッダーのUUIDをゲストアイデンティティとして扱う
//
// どちらも無いリクエストは拒否される。どちらのスコープになったかは
// 後段の Store 層がコンテキストから解決する。
func IdentityMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := GetLogger(r.Context())

			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				identity, err := identityFromToken(authHeader, cfg)
				if err != nil {
					logger.Warn("JWT auth failed", "error", err)
					webutil.HandleError(w, logger, err)
					return
				}
				ctx := context.WithValue(r.Context(), model.IdentityKey, identity)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			deviceIDStr := r.Header.Get("X-Device-ID")
			if deviceIDStr == "" {
				logger.Warn("Identity resolution failed: no Authorization or X-Device-ID header")
				appErr := model.NewAppError("UNAUTHORIZED", "AuthorizationヘッダーまたはX-Device-IDヘッダーが必要です", "", model.ErrForbidden)
				webutil.HandleError(w, logger, appErr)
				return
			}

			deviceID, err := uuid.Parse(deviceIDStr)
			if err != nil {
				logger.Warn("Identity resolution failed: invalid X-Device-ID format", "device_id", deviceIDStr)
				appErr := model.NewAppError("INVALID_DEVICE_ID", "X-Device-IDの形式が不正です", "", model.ErrForbidden)
				webutil.HandleError(w, logger, appErr)
				return
			}

			identity := &model.Identity{ID: deviceID, IsGuest: true}
			ctx := context.WithValue(r.Context(), model.IdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// identityFromToken は Bearer トークンを検証し、認証済みアイデンティティを返します。
func identityFromToken(authHeader string, cfg *config.Config) (*model.Identity, error) {
	headerParts := strings.Split(authHeader, " ")
	if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
		return nil, model.NewAppError("UNAUTHORIZED", "Authorizationヘッダーの形式が正しくありません", "", model.ErrForbidden)
	}
	tokenString := headerParts[1]

	// jwt.Parse は署名と有効期限(exp)の両方を検証してくれる
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, model.NewAppError("UNEXPECTED_SIGNING_METHOD", "予期しない署名アルゴリズムです", "", errors.New("unexpected signing method"))
		}
		return []byte(cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, model.NewAppError("INVALID_TOKEN", "トークンが無効です", "", model.ErrForbidden)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, model.NewAppError("INVALID_TOKEN", "トークンが無効です", "", model.ErrForbidden)
	}

	subject, err := claims.GetSubject()
	if err != nil {
		return nil, model.NewAppError("INVALID_TOKEN", "トークンにユーザー情報が含まれていません", "", model.ErrForbidden)
	}

	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, model.NewAppError("INVALID_TOKEN", "トークンのユーザー情報が不正です", "", model.ErrForbidden)
	}

	return &model.Identity{ID: userID, IsGuest: false}, nil
}

// GetIdentityFromContext はコンテキストからアイデンティティを取り出します。
func GetIdentityFromContext(ctx context.Context) (*model.Identity, error) {
	identity, ok := ctx.Value(model.IdentityKey).(*model.Identity)
	if !ok || identity == nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "コンテキストからアイデンティティを取得できませんでした", "", model.ErrInternalServer)
	}
	return identity, nil
}
