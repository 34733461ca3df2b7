// internal/handlers/migration_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"go_5_study_keep/internal/service"
	"go_5_study_keep/internal/webutil"
)

type MigrationHandler struct {
	service service.MigrationService
	logger  *slog.Logger
}

func NewMigrationHandler(s service.MigrationService, logger *slog.Logger) *MigrationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &MigrationHandler{
		service: s,
		logger:  logger,
	}
}

// Migrate はゲストデータの一括移行を実行するハンドラ。2回目以降は no-op になる。
func (h *MigrationHandler) Migrate(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "Migrate"))

	result, err := h.service.MigrateGuestData(r.Context())
	if err != nil {
		logger.Error("Error migrating guest data", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Migration finished",
		slog.Bool("already_migrated", result.AlreadyMigrated),
		slog.Int("committed", result.Committed),
	)
	webutil.RespondWithJSON(w, http.StatusOK, result, logger)
}
