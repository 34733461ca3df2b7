// internal/model/queue.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type OperationKind string

const (
	OperationInsert OperationKind = "INSERT"
	OperationUpdate OperationKind = "UPDATE"
	OperationDelete OperationKind = "DELETE"
	OperationUpsert OperationKind = "UPSERT"
)

// QueueItem はリモート書き込みに失敗したときローカルに退避される書き込みログの1件です。
// 成功で削除、失敗で retry_count を加算し、上限に達したものは破棄される。
type QueueItem struct {
	ItemID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"item_id"`
	TargetCollection string         `gorm:"not null" json:"target_collection"`
	OperationKind    OperationKind  `gorm:"not null" json:"operation_kind"`
	Payload          datatypes.JSON `json:"payload"`
	EnqueuedAt       time.Time      `gorm:"not null;index" json:"enqueued_at"`
	RetryCount       int            `gorm:"not null;default:0" json:"retry_count"`
}

func (QueueItem) TableName() string {
	return "offline_queue"
}

// DrainOutcome は1回のドレイン試行の結果内訳
type DrainOutcome struct {
	Succeeded int `json:"succeeded"`
	// Failed はリトライ上限に達して破棄された件数。
	// 破棄はログとこのカウント以外には現れない（意図的なデータ損失）。
	Failed  int `json:"failed"`
	Retried int `json:"retried"`
}

type DrainReason string

const (
	DrainCompleted       DrainReason = "completed"
	DrainOffline         DrainReason = "offline"
	DrainNoIdentity      DrainReason = "no_identity"
	DrainIdentityTimeout DrainReason = "identity_timeout"
	DrainAlreadyRunning  DrainReason = "already_running"
	DrainNothingPending  DrainReason = "nothing_pending"
)

// DrainResult はドレイン呼び出しのレスポンスDTO。
// 前提条件を満たさなかった場合、Reason に型付きの理由が入りキューは変更されない。
type DrainResult struct {
	Reason  DrainReason   `json:"reason"`
	Outcome *DrainOutcome `json:"outcome,omitempty"`
}

// SyncStatus はUI向けの読み取り専用の射影。正となるデータではない。
type SyncStatus struct {
	LastSyncTimestamp *time.Time    `json:"last_sync_timestamp,omitempty"`
	PendingCount      int64         `json:"pending_count"`
	LastSyncResult    *DrainOutcome `json:"last_sync_result,omitempty"`
}
