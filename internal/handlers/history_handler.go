// internal/handlers/history_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"go_5_study_keep/internal/model"
	"go_5_study_keep/internal/service"
	"go_5_study_keep/internal/webutil"

	"github.com/go-playground/validator/v10"
)

type HistoryHandler struct {
	service service.HistoryService
	logger  *slog.Logger
}

func NewHistoryHandler(s service.HistoryService, logger *slog.Logger) *HistoryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryHandler{
		service: s,
		logger:  logger,
	}
}

// SaveHistory は解答済みの問題を履歴へ追記するハンドラ
func (h *HistoryHandler) SaveHistory(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "SaveHistory"))

	var req model.SaveHistoryRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.validate(logger, w, req); err != nil {
		return
	}

	entry, err := h.service.SaveQuestionToHistory(r.Context(), &req)
	if err != nil {
		logger.Error("Error saving question history", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("History entry saved", slog.String("entry_id", entry.EntryID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, entry, logger)
}

// GetHistory は履歴を新しい順に返すハンドラ。subject / topic / limit で絞り込める。
func (h *HistoryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetHistory"))

	filter := model.HistoryFilter{
		Subject: r.URL.Query().Get("subject"),
		Topic:   r.URL.Query().Get("topic"),
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			appErr := model.NewAppError("VALIDATION_ERROR", "limit は0以上の整数で指定してください。", "limit", model.ErrInvalidInput)
			webutil.HandleError(w, logger, appErr)
			return
		}
		filter.Limit = limit
	}

	entries, err := h.service.GetQuestionHistory(r.Context(), filter)
	if err != nil {
		logger.Error("Error getting question history", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, entries, logger)
}

// SaveScore は自己ベストスコアを保存するハンドラ。既存より低いスコアは上書きしない。
func (h *HistoryHandler) SaveScore(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "SaveScore"))

	var req model.SaveScoreRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.validate(logger, w, req); err != nil {
		return
	}

	score, err := h.service.SaveBestScore(r.Context(), &req)
	if err != nil {
		logger.Error("Error saving best score", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, score, logger)
}

// GetScores は利用者の全ベストスコアを返すハンドラ
func (h *HistoryHandler) GetScores(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetScores"))

	scores, err := h.service.GetAllScores(r.Context())
	if err != nil {
		logger.Error("Error listing best scores", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, scores, logger)
}

// GetProgress は科目単位の進捗統計を返すハンドラ
func (h *HistoryHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetProgress"))

	stats, err := h.service.GetProgressStats(r.Context())
	if err != nil {
		logger.Error("Error getting progress stats", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, stats, logger)
}

func (h *HistoryHandler) validate(logger *slog.Logger, w http.ResponseWriter, req interface{}) error {
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
