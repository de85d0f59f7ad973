package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/chatdigest/link-digest-service/internal/archive"
	"github.com/chatdigest/link-digest-service/internal/middleware"
	"github.com/chatdigest/link-digest-service/internal/model"
	"github.com/chatdigest/link-digest-service/internal/service"
	"github.com/chatdigest/link-digest-service/pkg/logger"
)

// memoryLimit bounds how much of the multipart body is buffered in memory
// before spilling to temp files.
const memoryLimit = 32 << 20

// DigestHandler handles the digest endpoint.
type DigestHandler struct {
	digestService  *service.DigestService
	logger         *logger.Logger
	maxUploadBytes int64
	maxArchives    int
	requestBudget  time.Duration
}

// NewDigestHandler creates a new digest handler.
func NewDigestHandler(
	svc *service.DigestService,
	log *logger.Logger,
	maxUploadBytes int64,
	maxArchives int,
	requestBudget time.Duration,
) *DigestHandler {
	return &DigestHandler{
		digestService:  svc,
		logger:         log,
		maxUploadBytes: maxUploadBytes,
		maxArchives:    maxArchives,
		requestBudget:  requestBudget,
	}
}

// Create handles POST /api/v1/digest
func (h *DigestHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestBudget)
	defer cancel()

	log := h.logger.WithRequest(middleware.GetCorrelationID(r.Context()))

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(memoryLimit); err != nil {
		writeError(w, http.StatusBadRequest, "could not read the upload", err.Error(), nil)
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if err := middleware.ValidateUploadCount(len(headers), h.maxArchives); err != nil {
		writeError(w, http.StatusBadRequest, "please attach exported chat archives", err.Error(), nil)
		return
	}

	startDate := r.FormValue("startDate")
	endDate := r.FormValue("endDate")
	if err := middleware.ValidateDateParam(startDate); err != nil {
		writeError(w, http.StatusBadRequest, "invalid start date", err.Error(), nil)
		return
	}
	if err := middleware.ValidateDateParam(endDate); err != nil {
		writeError(w, http.StatusBadRequest, "invalid end date", err.Error(), nil)
		return
	}
	dateRange, err := model.ParseDateRange(startDate, endDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date range", err.Error(), nil)
		return
	}

	uploads := make([]archive.Upload, 0, len(headers))
	for _, fh := range headers {
		if err := middleware.ValidateUploadName(fh.Filename); err != nil {
			writeError(w, http.StatusBadRequest, "unsupported upload "+fh.Filename, err.Error(), nil)
			return
		}
		f, err := fh.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "could not read uploaded file "+fh.Filename, err.Error(), nil)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, "could not read uploaded file "+fh.Filename, err.Error(), nil)
			return
		}
		uploads = append(uploads, archive.Upload{Name: fh.Filename, Data: data})
	}

	summary, stats, err := h.digestService.Process(ctx, uploads, dateRange)
	if err != nil {
		h.writeProcessError(w, log, err, stats)
		return
	}

	writeJSON(w, http.StatusOK, model.DigestResponse{Summary: summary})
}

func (h *DigestHandler) writeProcessError(w http.ResponseWriter, log *logger.Logger, err error, stats model.Stats) {
	var noLinks *service.NoLinksError
	var corrupt *archive.CorruptError

	switch {
	case errors.Is(err, service.ErrNoFiles):
		writeError(w, http.StatusBadRequest, "no archives were provided", err.Error(), nil)

	case errors.As(err, &noLinks):
		message := "no links were found in the uploaded chats"
		if noLinks.FilterActive {
			message = "no links were found in the selected date range"
		}
		writeError(w, http.StatusNotFound, message, err.Error(), noLinks.Stats)

	case errors.As(err, &corrupt):
		log.Error("archive unreadable", zap.String("archive", corrupt.Name), zap.Error(err))
		writeError(w, http.StatusInternalServerError,
			"could not read archive "+corrupt.Name, err.Error(), nil)

	default:
		log.Error("digest request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError,
			"something went wrong while building the digest", err.Error(), stats)
	}
}
