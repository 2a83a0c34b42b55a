// Package api exposes the screening service over HTTP.
package api

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/ZanzyTHEbar/neuroweave/internal/errors"
	"github.com/ZanzyTHEbar/neuroweave/internal/screening"
	"github.com/ZanzyTHEbar/neuroweave/internal/security"
	"github.com/ZanzyTHEbar/neuroweave/internal/types"
	"github.com/ZanzyTHEbar/neuroweave/internal/video"
)

// multipart framing and form fields on top of the video itself
const formOverhead = 1 << 20

// Config configures a Handler.
type Config struct {
	UploadDir      string
	MaxUploadBytes int64
}

// Handler serves the /screening routes.
type Handler struct {
	service   *screening.Service
	uploadDir string
	maxUpload int64
}

// NewHandler creates a screening handler.
func NewHandler(service *screening.Service, cfg Config) *Handler {
	return &Handler{
		service:   service,
		uploadDir: cfg.UploadDir,
		maxUpload: cfg.MaxUploadBytes,
	}
}

// Predict godoc
// @Summary      Questionnaire screening
// @Description  Scores a questionnaire with the tabular model and explains the score per feature.
// @Tags         screening
// @Accept       json
// @Produce      json
// @Param        request  body      types.QuestionnaireRequest  true  "Questionnaire"
// @Success      200      {object}  screening.PredictionResult
// @Failure      400      {object}  types.ErrorResponse
// @Failure      502      {object}  errors.AppError
// @Router       /screening/predict [post]
func (h *Handler) Predict(c *gin.Context) {
	var req types.QuestionnaireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindFailed(c, err, "invalid questionnaire")
		return
	}

	result, err := h.service.Predict(c.Request.Context(), req.Questionnaire())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// AnalyzeVideo godoc
// @Summary      Video screening
// @Description  Samples every 10th frame of the clip and averages the per-frame risk.
// @Tags         screening
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Video clip"
// @Success      200   {object}  screening.VideoResult
// @Failure      400   {object}  types.ErrorResponse
// @Failure      413   {object}  types.ErrorResponse
// @Failure      422   {object}  types.ErrorResponse
// @Failure      429   {object}  errors.AppError
// @Router       /screening/video [post]
func (h *Handler) AnalyzeVideo(c *gin.Context) {
	h.limitBody(c)

	path, cleanup, ok := h.saveUpload(c)
	if !ok {
		return
	}
	defer cleanup()

	result, err := h.service.AnalyzeVideo(c.Request.Context(), path)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Multimodal godoc
// @Summary      Multimodal screening
// @Description  Fuses questionnaire and video risk, builds a therapy plan and stores the session.
// @Tags         screening
// @Accept       multipart/form-data
// @Produce      json
// @Param        file                 formData  file  true  "Video clip"
// @Param        A1                   formData  int   true  "Answer 1 (0 or 1)"
// @Param        A2                   formData  int   true  "Answer 2 (0 or 1)"
// @Param        A3                   formData  int   true  "Answer 3 (0 or 1)"
// @Param        A4                   formData  int   true  "Answer 4 (0 or 1)"
// @Param        A5                   formData  int   true  "Answer 5 (0 or 1)"
// @Param        A6                   formData  int   true  "Answer 6 (0 or 1)"
// @Param        A7                   formData  int   true  "Answer 7 (0 or 1)"
// @Param        A8                   formData  int   true  "Answer 8 (0 or 1)"
// @Param        A9                   formData  int   true  "Answer 9 (0 or 1)"
// @Param        A10                  formData  int   true  "Answer 10 (0 or 1)"
// @Param        Age_Mons             formData  int   true  "Age in months"
// @Param        Qchat_10_Score       formData  int   true  "Q-CHAT-10 score (0-10)"
// @Param        Jaundice             formData  int   true  "Born with jaundice (0 or 1)"
// @Param        Family_mem_with_ASD  formData  int   true  "Family member with ASD (0 or 1)"
// @Success      200  {object}  screening.MultimodalResult
// @Failure      400  {object}  types.ErrorResponse
// @Failure      413  {object}  types.ErrorResponse
// @Failure      422  {object}  types.ErrorResponse
// @Failure      429  {object}  errors.AppError
// @Failure      502  {object}  errors.AppError
// @Router       /screening/multimodal [post]
func (h *Handler) Multimodal(c *gin.Context) {
	h.limitBody(c)

	var req types.QuestionnaireRequest
	if err := c.ShouldBind(&req); err != nil {
		h.bindFailed(c, err, "invalid questionnaire")
		return
	}

	path, cleanup, ok := h.saveUpload(c)
	if !ok {
		return
	}
	defer cleanup()

	result, err := h.service.Multimodal(c.Request.Context(), req.Questionnaire(), path)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Gamified godoc
// @Summary      Gamified screening
// @Description  Fuses a game engagement score (0-1 or 0-100) with fast-sampled video risk and stores the session.
// @Tags         screening
// @Accept       multipart/form-data
// @Produce      json
// @Param        file              formData  file    true  "Video clip"
// @Param        engagement_score  formData  number  true  "Engagement score"
// @Success      200  {object}  screening.GamifiedResult
// @Failure      400  {object}  types.ErrorResponse
// @Failure      413  {object}  types.ErrorResponse
// @Failure      429  {object}  errors.AppError
// @Router       /screening/gamified [post]
func (h *Handler) Gamified(c *gin.Context) {
	h.limitBody(c)

	var req types.GamifiedRequest
	if err := c.ShouldBind(&req); err != nil {
		h.bindFailed(c, err, "engagement_score is required")
		return
	}

	path, cleanup, ok := h.saveUpload(c)
	if !ok {
		return
	}
	defer cleanup()

	result, err := h.service.Gamified(c.Request.Context(), *req.EngagementScore, path)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// History godoc
// @Summary      Screening history
// @Description  Lists every stored session in insertion order.
// @Tags         screening
// @Produce      json
// @Security     ClinicianToken
// @Success      200  {array}   screening.HistoryEntry
// @Failure      401  {object}  types.ErrorResponse
// @Router       /screening/history [get]
func (h *Handler) History(c *gin.Context) {
	entries, err := h.service.History(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if claims, ok := security.GetClinicianClaims(c); ok {
		slog.Info("Screening history read", "clinician", claims.Subject, "sessions", len(entries))
	}
	c.JSON(http.StatusOK, entries)
}

func (h *Handler) limitBody(c *gin.Context) {
	if h.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+formOverhead)
	}
}

// saveUpload stores the "file" part. On failure it has already responded.
func (h *Handler) saveUpload(c *gin.Context) (string, func(), bool) {
	header, err := c.FormFile("file")
	if err != nil {
		if isTooLarge(err) {
			respondError(c, err)
		} else {
			badRequest(c, "video file is required")
		}
		return "", nil, false
	}

	src, err := header.Open()
	if err != nil {
		respondError(c, fmt.Errorf("open upload: %w", err))
		return "", nil, false
	}
	defer src.Close()

	path, cleanup, err := video.SaveUpload(h.uploadDir, src, h.maxUpload, header.Filename)
	if err != nil {
		respondError(c, err)
		return "", nil, false
	}
	return path, cleanup, true
}

// bindFailed reports missing required fields per field; other binding errors
// such as malformed JSON get a plain 400.
func (h *Handler) bindFailed(c *gin.Context, err error, msg string) {
	if isTooLarge(err) {
		respondError(c, err)
		return
	}

	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fmt.Sprintf("%s: failed on the '%s' rule", msg, fe.Tag())
		}
		appErr := errors.NewValidationErrorWithMap(fields)
		errors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}
	badRequest(c, msg+": "+err.Error())
}

func isTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	return stderrors.As(err, &maxBytesErr) || stderrors.Is(err, video.ErrUploadTooLarge)
}
