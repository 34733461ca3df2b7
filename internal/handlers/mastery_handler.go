// internal/handlers/mastery_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"go_5_study_keep/internal/model"
	"go_5_study_keep/internal/service"
	"go_5_study_keep/internal/webutil"

	"github.com/go-playground/validator/v10"
)

type MasteryHandler struct {
	service service.MasteryService
	logger  *slog.Logger
}

func NewMasteryHandler(s service.MasteryService, logger *slog.Logger) *MasteryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &MasteryHandler{
		service: s,
		logger:  logger,
	}
}

// SubmitOutcome は解答結果を1件取り込むハンドラ
func (h *MasteryHandler) SubmitOutcome(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "SubmitOutcome"))

	var req model.SubmitOutcomeRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.validate(logger, w, req); err != nil {
		return
	}

	resp, err := h.service.UpdateMastery(r.Context(), &req)
	if err != nil {
		logger.Error("Error updating mastery in service", slog.Any("error", err), slog.Any("request", req))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Outcome recorded",
		slog.String("subject", req.Subject),
		slog.String("topic", req.Topic),
		slog.Bool("has_recommendation", resp.Recommendation != nil),
	)
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

// GetRecommendation は保存済みの推奨難易度を返すハンドラ
func (h *MasteryHandler) GetRecommendation(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetRecommendation"))

	subject := r.URL.Query().Get("subject")
	topic := r.URL.Query().Get("topic")
	if subject == "" || topic == "" {
		appErr := model.NewAppError("VALIDATION_ERROR", "subject と topic のクエリパラメータは必須です。", "subject,topic", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	resp, err := h.service.GetRecommendedDifficulty(r.Context(), subject, topic)
	if err != nil {
		logger.Error("Error getting recommended difficulty", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

// StartSession はセッション境界を宣言するハンドラ
func (h *MasteryHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "StartSession"))

	var req model.StartSessionRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.validate(logger, w, req); err != nil {
		return
	}

	resp, err := h.service.StartSession(r.Context(), &req)
	if err != nil {
		logger.Error("Error starting session in service", slog.Any("error", err), slog.Any("request", req))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Session started", slog.String("subject", req.Subject), slog.String("topic", req.Topic))
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

// ListMastery は利用者の習熟状態の一覧を返すハンドラ
func (h *MasteryHandler) ListMastery(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ListMastery"))

	states, err := h.service.ListMasteryStates(r.Context())
	if err != nil {
		logger.Error("Error listing mastery states", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, states, logger)
}

// validate は構造体バリデーションを実行し、失敗時は最初のエラーを日本語で返します。
func (h *MasteryHandler) validate(logger *slog.Logger, w http.ResponseWriter, req interface{}) error {
	err := webutil.Validator.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		logger.Warn("Validation failed", slog.Any("errors", validationErrors.Error()))

		firstErr := validationErrors[0]
		translatedMsg := firstErr.Translate(webutil.Trans)

		appErr := model.NewAppError(
			"VALIDATION_ERROR",
			translatedMsg,
			firstErr.Field(),
			model.ErrInvalidInput,
		)
		webutil.HandleError(w, logger, appErr)
	} else {
		logger.Error("Unexpected error during validation", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
	}
	return err
}
