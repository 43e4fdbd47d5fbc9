package http

import (
	"encoding/json"
	"net/http"

	"github.com/DRSN-tech/roomscan-backend/internal/usecase"
	"github.com/DRSN-tech/roomscan-backend/pkg/e"
	"github.com/DRSN-tech/roomscan-backend/pkg/logger"
)

type MatchHandler struct {
	matchUsecase   usecase.MatchUC
	catalogUsecase usecase.CatalogUC
	logger         logger.Logger
}

func NewMatchHandler(matchUsecase usecase.MatchUC, catalogUsecase usecase.CatalogUC, logger logger.Logger) *MatchHandler {
	return &MatchHandler{matchUsecase: matchUsecase, catalogUsecase: catalogUsecase, logger: logger}
}

// matchItem
//
//	@Summary		Подбор товаров по категории
//	@Description	Ранжирует товары категории по текстовому запросу, добавляя бюджетную альтернативу
//	@Tags			matches
//	@Accept			json
//	@Produce		json
//	@Param			request	body		MatchRequest	true	"Категория, запрос и число результатов"
//	@Success		200		{object}	MatchResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse	"Каталог недоступен"
//	@Router			/matches [post]
func (h *MatchHandler) matchItem(w http.ResponseWriter, r *http.Request) {
	const maxBodySize = 64 << 10

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var req MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, e.Wrap(err.Error(), e.ErrStatusBadRequest))
		return
	}

	res, err := h.matchUsecase.MatchItem(r.Context(), &usecase.MatchItemReq{
		Category: req.Category,
		Query:    req.Query,
		Limit:    req.Limit,
	})
	if err != nil {
		h.logger.Warnf("match item: %s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toMatchResponse(res))
}

// categoryStats
//
//	@Summary	Число товаров в наличии по категориям
//	@Tags		matches
//	@Produce	json
//	@Success	200	{object}	CategoryStatsResponse
//	@Router		/categories [get]
func (h *MatchHandler) categoryStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.catalogUsecase.CategoryStats(r.Context())
	if err != nil {
		h.logger.Errorf(err, "category stats failed")
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, &CategoryStatsResponse{Categories: stats})
}
