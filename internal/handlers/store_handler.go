package handlers

import (
	"log/slog"
	"net/http"

	"go_task_quest/internal/middleware"
	"go_task_quest/internal/model"
	"go_task_quest/internal/service"
	"go_task_quest/internal/webutil"
)

type StoreHandler struct {
	service service.StoreService
	logger  *slog.Logger
}

func NewStoreHandler(s service.StoreService, logger *slog.Logger) *StoreHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StoreHandler{service: s, logger: logger}
}

// ListItems はカタログを返す。ログイン中なら所持品と装備も付ける
func (h *StoreHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ListItems"))

	var userID *uint
	if id, err := middleware.GetUserIDFromContext(r.Context()); err == nil {
		userID = &id
	}

	resp, err := h.service.ListItems(r.Context(), userID)
	if err != nil {
		logger.Error("Failed to list store items", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

func (h *StoreHandler) BuyItem(w http.ResponseWriter, r *http.Request) {
	userID, logger, ok := requireUserID(w, r, h.logger.With(slog.String("handler", "BuyItem")))
	if !ok {
		return
	}

	var req model.BuyItemRequest
	if !bindJSON(w, r, logger, &req) {
		return
	}

	if err := h.service.BuyItem(r.Context(), userID, req.ItemID); err != nil {
		logger.Warn("Purchase failed", slog.Any("error", err), slog.Uint64("item_id", uint64(req.ItemID)))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Item purchased", slog.Uint64("item_id", uint64(req.ItemID)))
	webutil.RespondWithJSON(w, http.StatusOK, model.SuccessResponse{Success: true}, logger)
}

func (h *StoreHandler) EquipItem(w http.ResponseWriter, r *http.Request) {
	userID, logger, ok := requireUserID(w, r, h.logger.With(slog.String("handler", "EquipItem")))
	if !ok {
		return
	}

	var req model.EquipItemRequest
	if !bindJSON(w, r, logger, &req) {
		return
	}

	if err := h.service.EquipItem(r.Context(), userID, req.ItemID); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, model.SuccessResponse{Success: true}, logger)
}

// UnequipItem は種類を指定して装備を外す。種類の検証はサービス側
func (h *StoreHandler) UnequipItem(w http.ResponseWriter, r *http.Request) {
	userID, logger, ok := requireUserID(w, r, h.logger.With(slog.String("handler", "UnequipItem")))
	if !ok {
		return
	}

	var req model.UnequipItemRequest
	if !bindJSON(w, r, logger, &req) {
		return
	}

	if err := h.service.UnequipItem(r.Context(), userID, req.Type); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, model.SuccessResponse{Success: true}, logger)
}
