// internal/model/migration.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// MigrationMarker はゲストデータ移行の冪等性キー。
// リモートストア側に (identity ごとに1行) 置かれ、再実行を no-op にする。
type MigrationMarker struct {
	OwnerID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"owner_id"`
	MigratedAt time.Time `gorm:"not null" json:"migrated_at"`
}

func (MigrationMarker) TableName() string {
	return "migration_markers"
}

// MigrationResult は移行実行のレスポンスDTO。
// 失敗時の Committed は「失敗までにコミットできた件数」以上の細かい帳簿は持たない。
type MigrationResult struct {
	AlreadyMigrated bool `json:"already_migrated"`
	MasteryStates   int  `json:"mastery_states"`
	HistoryEntries  int  `json:"history_entries"`
	BestScores      int  `json:"best_scores"`
	Committed       int  `json:"committed"`
}
