// internal/config/constants.go
package config

import "time"

// アプリケーション情報
const (
	AppName    = "StudyKeep"
	AppVersion = "1.0.0"
)

// デフォルト設定値
const (
	DefaultServerPort         = ":8080"
	DefaultLocalDBPath        = "study_keep_local.db"
	DefaultHistoryLimit       = 50
	DefaultQueueMaxRetries    = 3
	DefaultMigrationBatchSize = 50
	DefaultIdentityTimeout    = 10 * time.Second
)

// 難易度推薦ポリシーの定数。
// ウィンドウ幅や閾値は仕様上固定で、設定ファイルでは変更できない。
const (
	// RollingWindowSize は表示・ストリーク判定に使う履歴の幅
	RollingWindowSize = 10
	// RecentWindowSize は昇降格判定に使う、より反応の速い直近ウィンドウの幅
	RecentWindowSize = 5
	// BumpUpThreshold 以上で一段難しいレベルを推薦する（境界値を含む）
	BumpUpThreshold = 0.80
	// BumpDownThreshold 以下で一段易しいレベルを推薦する（境界値を含む）
	BumpDownThreshold = 0.40
	// ストリーク稼ぎ判定: easy で StreakMinQuestions 問以上かつ
	// 10問ウィンドウの精度が StreakAccuracyThreshold 以上
	StreakAccuracyThreshold = 0.85
	StreakMinQuestions      = 15
	// OscillationThreshold 回以上セッション内で難易度が変わったら警告する
	OscillationThreshold = 3
)
