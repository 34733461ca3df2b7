// internal/handlers/mastery_handler_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go_5_study_keep/internal/handlers"
	"go_5_study_keep/internal/middleware"
	"go_5_study_keep/internal/model"
	"go_5_study_keep/internal/service/mocks"
)

func newMasteryRouter(t *testing.T) (*chi.Mux, *mocks.MockMasteryService) {
	t.Helper()
	mockService := mocks.NewMockMasteryService(t)
	handler := handlers.NewMasteryHandler(mockService, nil)

	router := chi.NewRouter()
	router.Use(middleware.DevIdentityMiddleware)
	router.Post("/api/v1/mastery/outcomes", handler.SubmitOutcome)
	router.Get("/api/v1/mastery/recommendation", handler.GetRecommendation)
	router.Post("/api/v1/mastery/session", handler.StartSession)
	return router, mockService
}

func doJSONRequest(t *testing.T, router *chi.Mux, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Identity-ID", uuid.NewString())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestMasteryHandler_SubmitOutcome(t *testing.T) {
	score := 0.9

	t.Run("正常系: 解答結果が受理される", func(t *testing.T) {
		router, mockService := newMasteryRouter(t)

		state := model.NewMasteryState(uuid.New(), "math", "fractions")
		state.TotalQuestions = 1
		mockService.On("UpdateMastery", mock.Anything, mock.AnythingOfType("*model.SubmitOutcomeRequest")).
			Return(&model.UpdateMasteryResponse{Mastery: state}, nil).Once()

		rec := doJSONRequest(t, router, http.MethodPost, "/api/v1/mastery/outcomes", model.SubmitOutcomeRequest{
			Subject:    "math",
			Topic:      "fractions",
			Difficulty: "medium",
			Score:      &score,
		})

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp model.UpdateMasteryResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Mastery.TotalQuestions)
	})

	t.Run("異常系: 必須フィールドが欠けるとバリデーションエラー", func(t *testing.T) {
		router, mockService := newMasteryRouter(t)

		rec := doJSONRequest(t, router, http.MethodPost, "/api/v1/mastery/outcomes", model.SubmitOutcomeRequest{
			Subject:    "math",
			Difficulty: "medium",
			Score:      &score,
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var errResp model.APIErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
		assert.Equal(t, "VALIDATION_ERROR", errResp.Error.Code)
		mockService.AssertNotCalled(t, "UpdateMastery", mock.Anything, mock.Anything)
	})

	t.Run("異常系: スコアが範囲外", func(t *testing.T) {
		router, mockService := newMasteryRouter(t)

		badScore := 1.5
		rec := doJSONRequest(t, router, http.MethodPost, "/api/v1/mastery/outcomes", model.SubmitOutcomeRequest{
			Subject:    "math",
			Topic:      "fractions",
			Difficulty: "medium",
			Score:      &badScore,
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "UpdateMastery", mock.Anything, mock.Anything)
	})

	t.Run("異常系: アイデンティティ無しは拒否される", func(t *testing.T) {
		router, _ := newMasteryRouter(t)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/mastery/outcomes", bytes.NewBufferString(`{}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestMasteryHandler_GetRecommendation(t *testing.T) {
	t.Run("正常系: 推奨難易度が返る", func(t *testing.T) {
		router, mockService := newMasteryRouter(t)

		mockService.On("GetRecommendedDifficulty", mock.Anything, "math", "fractions").
			Return(&model.RecommendedDifficultyResponse{
				Subject:               "math",
				Topic:                 "fractions",
				RecommendedDifficulty: model.DifficultyHard,
			}, nil).Once()

		rec := doJSONRequest(t, router, http.MethodGet, "/api/v1/mastery/recommendation?subject=math&topic=fractions", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"recommended_difficulty":"hard"`)
	})

	t.Run("異常系: クエリパラメータ欠落", func(t *testing.T) {
		router, mockService := newMasteryRouter(t)

		rec := doJSONRequest(t, router, http.MethodGet, "/api/v1/mastery/recommendation?subject=math", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "GetRecommendedDifficulty", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestMasteryHandler_StartSession(t *testing.T) {
	t.Run("正常系: セッション開始で推薦が返る", func(t *testing.T) {
		router, mockService := newMasteryRouter(t)

		state := model.NewMasteryState(uuid.New(), "math", "fractions")
		state.RecommendedDifficulty = model.DifficultyHard
		mockService.On("StartSession", mock.Anything, mock.AnythingOfType("*model.StartSessionRequest")).
			Return(&model.UpdateMasteryResponse{
				Mastery: state,
				Recommendation: &model.Recommendation{
					Kind:   model.RecommendationSessionStart,
					Target: model.DifficultyHard,
				},
			}, nil).Once()

		rec := doJSONRequest(t, router, http.MethodPost, "/api/v1/mastery/session", model.StartSessionRequest{
			Subject:    "math",
			Topic:      "fractions",
			Difficulty: "medium",
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"kind":"session_start"`)
	})
}
