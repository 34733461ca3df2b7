// internal/handlers/sync_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"go_5_study_keep/internal/service"
	"go_5_study_keep/internal/webutil"
)

type SyncHandler struct {
	service service.SyncService
	logger  *slog.Logger
}

func NewSyncHandler(s service.SyncService, logger *slog.Logger) *SyncHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SyncHandler{
		service: s,
		logger:  logger,
	}
}

// Drain はオフラインキューの再生を明示的に要求するハンドラ。
// 前提条件を満たさない場合も200で返り、reason で区別する。
func (h *SyncHandler) Drain(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "Drain"))

	result, err := h.service.Drain(r.Context())
	if err != nil {
		logger.Error("Error draining offline queue", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Drain requested", slog.String("reason", string(result.Reason)))
	webutil.RespondWithJSON(w, http.StatusOK, result, logger)
}

// Status は同期状態の射影を返すハンドラ
func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "Status"))

	status, err := h.service.Status(r.Context())
	if err != nil {
		logger.Error("Error getting sync status", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, status, logger)
}
