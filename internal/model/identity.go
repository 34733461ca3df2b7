// internal/model/identity.go
package model

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Identity は認証レイヤから渡されるアイデンティティ信号です。
// エンジンが関知するのは「誰か」と「ゲストかどうか」だけで、認証フロー自体は扱わない。
type Identity struct {
	ID      uuid.UUID `json:"id"`
	IsGuest bool      `json:"is_guest"`
}

type ContextKey string

const (
	IdentityKey ContextKey = "identity"
)

// JWTCustomClaims はJWTに含めるカスタムクレーム（ペイロード）
type JWTCustomClaims struct {
	jwt.RegisteredClaims // 標準クレーム (iss, sub, exp など) を埋め込む
}
