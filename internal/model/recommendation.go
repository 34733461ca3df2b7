// internal/model/recommendation.go
package model

type RecommendationKind string

const (
	RecommendationBumpUp             RecommendationKind = "bump_up"
	RecommendationBumpDown           RecommendationKind = "bump_down"
	RecommendationStreakWarning      RecommendationKind = "streak_warning"
	RecommendationOscillationWarning RecommendationKind = "oscillation_warning"
	RecommendationSessionStart       RecommendationKind = "session_start"
)

// Recommendation は1回の更新につき高々1件返される難易度の助言です。
// エンジンは助言するだけで、currentDifficulty を勝手に変更することはありません。
type Recommendation struct {
	Kind    RecommendationKind `json:"kind"`
	Message string             `json:"message"`
	// Target は bump_up / bump_down / session_start のときの推奨難易度
	Target DifficultyLevel `json:"target,omitempty"`
}
