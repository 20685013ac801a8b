package overlap

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"workvouch/internal/extract"
	"workvouch/internal/shared/auth"
	"workvouch/internal/shared/metrics"
	"workvouch/internal/shared/server/middleware"
	"workvouch/internal/shared/server/respond"
	"workvouch/internal/shared/telemetry"
	"workvouch/internal/shared/util"
)

const defaultMaxResumeBytes = 5 << 20

// Handler exposes résumé intake and peer suggestion endpoints.
type Handler struct {
	Svc            *Service
	MaxResumeBytes int64
}

// NewHandler constructs a Handler. maxResumeBytes <= 0 uses 5 MiB.
func NewHandler(svc *Service, maxResumeBytes int64) *Handler {
	if maxResumeBytes <= 0 {
		maxResumeBytes = defaultMaxResumeBytes
	}
	return &Handler{Svc: svc, MaxResumeBytes: maxResumeBytes}
}

// RegisterRoutes attaches employee routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	emp := rg.Group("/employees/:id", requireSelfOrAdmin())
	emp.PUT("/resume", h.putResume)
	emp.POST("/resume/upload", h.uploadResume)
	emp.GET("/peer-suggestions", h.listSuggestions)
}

// requireSelfOrAdmin lets callers act only on their own employee id.
func requireSelfOrAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		c.Set("employeeId", id)
		if middleware.RoleFromContext(c) == auth.RoleAdmin || (id != "" && middleware.UserIDFromContext(c) == id) {
			c.Next()
			return
		}
		respond.Error(c, http.StatusForbidden, "forbidden", "cannot act on another employee", nil)
	}
}

func (h *Handler) putResume(c *gin.Context) {
	var resume ParsedResume
	if err := c.ShouldBindJSON(&resume); err != nil {
		metrics.IncResumeIntake("json", "invalid")
		respond.ValidationError(c, err)
		return
	}
	h.submit(c, "json", resume)
}

func (h *Handler) uploadResume(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxResumeBytes+(1<<20))
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			metrics.IncResumeIntake("upload", "too_large")
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "résumé exceeds size limit", gin.H{"maxBytes": h.MaxResumeBytes})
			return
		}
		metrics.IncResumeIntake("upload", "invalid")
		respond.Error(c, http.StatusBadRequest, "validation_error", "multipart field \"file\" is required", nil)
		return
	}
	if fh.Size > h.MaxResumeBytes {
		metrics.IncResumeIntake("upload", "too_large")
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "résumé exceeds size limit", gin.H{"maxBytes": h.MaxResumeBytes})
		return
	}
	fileName, err := util.SanitizeFileName(fh.Filename)
	if err != nil {
		metrics.IncResumeIntake("upload", "invalid")
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file name", nil)
		return
	}

	f, err := fh.Open()
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read upload", nil)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, h.MaxResumeBytes+1))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read upload", nil)
		return
	}

	text, err := extract.ExtractTextFromBytes(c.Request.Context(), data, fh.Header.Get("Content-Type"), fileName)
	if err != nil {
		telemetry.Warn("overlap.extract_failed", map[string]any{
			"employee_id": c.Param("id"),
			"file_name":   fileName,
			"size_bytes":  len(data),
			"error":       err,
		})
		switch {
		case errors.Is(err, extract.ErrUnsupported):
			metrics.IncResumeIntake("upload", "unsupported")
			respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_media_type", "only PDF and DOCX résumés are supported", nil)
		default:
			metrics.IncResumeIntake("upload", "unreadable")
			respond.Error(c, http.StatusUnprocessableEntity, "unreadable_document", "could not read text from résumé", nil)
		}
		return
	}

	entries := ParseJobHistory(text)
	if len(entries) == 0 {
		metrics.IncResumeIntake("upload", "no_history")
		respond.Error(c, http.StatusUnprocessableEntity, "no_job_history", ErrNoJobHistory.Error(), nil)
		return
	}
	h.submit(c, "upload", ParsedResume{JobHistory: entries})
}

func (h *Handler) submit(c *gin.Context, source string, resume ParsedResume) {
	suggestions, err := h.Svc.SubmitResume(c.Request.Context(), c.Param("id"), resume)
	if err != nil {
		metrics.IncResumeIntake(source, "error")
		writeError(c, err, "failed to store résumé")
		return
	}
	metrics.IncResumeIntake(source, "accepted")
	respond.OK(c, gin.H{
		"jobHistory":  resume.JobHistory,
		"suggestions": suggestions,
	})
}

func (h *Handler) listSuggestions(c *gin.Context) {
	suggestions, err := h.Svc.Suggestions(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to list suggestions")
		return
	}
	respond.OK(c, gin.H{"items": suggestions})
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid input", nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respond.Error(c, http.StatusRequestTimeout, "timeout", "request canceled", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
