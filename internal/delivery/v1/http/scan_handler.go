package http

import (
	"net/http"

	"github.com/DRSN-tech/roomscan-backend/internal/usecase"
	"github.com/DRSN-tech/roomscan-backend/pkg/e"
	"github.com/DRSN-tech/roomscan-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

const scanImageField = "image"

type ScanHandler struct {
	scanUsecase  usecase.ScanUC
	maxImageSize int64
	logger       logger.Logger
}

func NewScanHandler(scanUsecase usecase.ScanUC, maxImageSize int64, logger logger.Logger) *ScanHandler {
	return &ScanHandler{scanUsecase: scanUsecase, maxImageSize: maxImageSize, logger: logger}
}

// createScan
//
//	@Summary		Загрузка фотографии комнаты
//	@Description	Распознаёт мебель на фотографии и подбирает похожие товары для каждого предмета
//	@Tags			scans
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			X-User-ID	header		string			false	"UUID пользователя"
//	@Param			image		formData	file			true	"Фотография комнаты (jpeg, png, webp)"
//	@Success		201			{object}	ScanResponse	"Скан обработан"
//	@Failure		400			{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		413			{object}	ErrorResponse	"Файл слишком большой"
//	@Failure		415			{object}	ErrorResponse	"Неподдерживаемый формат"
//	@Failure		429			{object}	ErrorResponse	"Слишком много запросов"
//	@Router			/scans [post]
func (h *ScanHandler) createScan(w http.ResponseWriter, r *http.Request) {
	const (
		maxMemory    = 32 << 20
		formOverhead = 1 << 20
	)

	userID, err := userIDFromHeader(r)
	if err != nil {
		h.logger.Warnf("%d %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxImageSize+formOverhead)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		h.logger.Warnf("%s: %s", err.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	files := r.MultipartForm.File[scanImageField]
	if len(files) == 0 {
		WriteError(w, e.ErrNoImages)
		return
	}

	fh := files[0]
	data, mimeType, err := readFile(fh, h.maxImageSize)
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	image := usecase.NewScanImage(data, mimeType, int64(len(data)), fh.Filename)
	scan, err := h.scanUsecase.CreateScan(r.Context(), usecase.NewCreateScanReq(userID, *image))
	if err != nil {
		h.logger.Errorf(err, "create scan failed")
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toScanResponse(scan))
}

// getScan
//
//	@Summary		Получение скана
//	@Tags			scans
//	@Produce		json
//	@Param			X-User-ID	header		string	false	"UUID пользователя"
//	@Param			id			path		string	true	"ID скана"
//	@Success		200			{object}	ScanResponse
//	@Failure		403			{object}	ErrorResponse	"Скан принадлежит другому пользователю"
//	@Failure		404			{object}	ErrorResponse	"Скан не найден"
//	@Router			/scans/{id} [get]
func (h *ScanHandler) getScan(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromHeader(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	scan, err := h.scanUsecase.GetScan(r.Context(), &usecase.GetScanReq{
		ScanID: chi.URLParam(r, "id"),
		UserID: userID,
	})
	if err != nil {
		h.logger.Warnf("get scan: %s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toScanResponse(scan))
}

// listScans
//
//	@Summary		Список сканов пользователя
//	@Tags			scans
//	@Produce		json
//	@Param			X-User-ID	header		string	false	"UUID пользователя"
//	@Param			skip		query		int		false	"Смещение"
//	@Param			limit		query		int		false	"Размер страницы (по умолчанию 20, максимум 100)"
//	@Success		200			{object}	ScanListResponse
//	@Failure		400			{object}	ErrorResponse
//	@Router			/scans [get]
func (h *ScanHandler) listScans(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromHeader(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	skip, err := queryInt(r, "skip", 0)
	if err != nil {
		WriteError(w, err)
		return
	}

	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		WriteError(w, err)
		return
	}

	res, err := h.scanUsecase.ListScans(r.Context(), &usecase.ListScansReq{
		UserID: userID,
		Skip:   skip,
		Limit:  limit,
	})
	if err != nil {
		h.logger.Warnf("list scans: %s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toScanListResponse(res))
}

// deleteScan
//
//	@Summary		Удаление скана
//	@Tags			scans
//	@Param			X-User-ID	header	string	false	"UUID пользователя"
//	@Param			id			path	string	true	"ID скана"
//	@Success		204
//	@Failure		403	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/scans/{id} [delete]
func (h *ScanHandler) deleteScan(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromHeader(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	err = h.scanUsecase.DeleteScan(r.Context(), &usecase.DeleteScanReq{
		ScanID: chi.URLParam(r, "id"),
		UserID: userID,
	})
	if err != nil {
		h.logger.Warnf("delete scan: %s", err.Error())
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
