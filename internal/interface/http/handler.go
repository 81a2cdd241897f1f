package http

import (
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/agromitra/advisory-engine/internal/domain/advisory"
	"github.com/agromitra/advisory-engine/internal/domain/fertilizer"
	"github.com/agromitra/advisory-engine/internal/domain/weather"
	apperrors "github.com/agromitra/advisory-engine/pkg/errors"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	advisorySvc *advisory.Service
	weatherSvc  *weather.Service
	logger      *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(advisorySvc *advisory.Service, weatherSvc *weather.Service, logger *slog.Logger) *Handler {
	return &Handler{
		advisorySvc: advisorySvc,
		weatherSvc:  weatherSvc,
		logger:      logger.With("component", "http.handler"),
	}
}

// CreateAdvisory accepts a multipart advisory request: coordinates plus an
// optional soil photo and free-form farm context.
func (h *Handler) CreateAdvisory(c *gin.Context) {
	coords, err := parseCoordinates(c.PostForm("latitude"), c.PostForm("longitude"))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", err.Error(), err))
		return
	}

	req := advisory.Request{
		Coordinates:  coords,
		Language:     c.PostForm("language"),
		FarmSize:     c.PostForm("farmSize"),
		SoilType:     c.PostForm("soilType"),
		PreviousCrop: c.PostForm("previousCrop"),
		Experience:   c.PostForm("experience"),
	}

	if file, header, err := c.Request.FormFile("soilImage"); err == nil {
		defer file.Close()
		image, mimeType, readErr := readImage(file, header)
		if readErr != nil {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", readErr.Error(), readErr))
			return
		}
		req.Image = image
		req.MimeType = mimeType
	}

	outcome, err := h.advisorySvc.Advise(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		code := "advisory_failed"
		if apperrors.IsCode(err, apperrors.CodeInvalidInput) {
			status = http.StatusBadRequest
			code = "invalid_request"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	if outcome.Fallback != nil {
		// Degraded result: the body carries success=false so clients can
		// tell it apart from a full advisory.
		c.JSON(http.StatusOK, outcome.Fallback)
		return
	}
	c.JSON(http.StatusOK, outcome.Record)
}

// GetAdvisory returns a previously assembled advisory by ID.
func (h *Handler) GetAdvisory(c *gin.Context) {
	record, err := h.advisorySvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, advisoryLookupError(err))
		return
	}
	c.JSON(http.StatusOK, record)
}

type questionRequest struct {
	Question string `json:"question"`
}

// AskFollowUp answers a follow-up question against a stored advisory.
func (h *Handler) AskFollowUp(c *gin.Context) {
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "question cannot be empty", nil))
		return
	}

	answer, err := h.advisorySvc.AskFollowUp(c.Request.Context(), c.Param("id"), req.Question)
	if err != nil {
		abortWithError(c, advisoryLookupError(err))
		return
	}
	c.JSON(http.StatusOK, answer)
}

type fertilizerRequest struct {
	Crop   string            `json:"crop"`
	Inputs fertilizer.Inputs `json:"inputs"`
}

// FertilizerPlan computes fertilizer doses from a soil test report.
func (h *Handler) FertilizerPlan(c *gin.Context) {
	var req fertilizerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	result, err := fertilizer.Recommend(req.Crop, req.Inputs)
	if err != nil {
		status := http.StatusInternalServerError
		code := "fertilizer_plan_failed"
		if apperrors.IsCode(err, apperrors.CodeInvalidInput) {
			status = http.StatusBadRequest
			code = "invalid_request"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, result)
}

// Weather returns the current snapshot, its analysis and the multi-day
// outlook with alerts for a location.
func (h *Handler) Weather(c *gin.Context) {
	coords, err := parseCoordinates(c.Query("lat"), c.Query("lon"))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", err.Error(), err))
		return
	}

	snapshot, err := h.weatherSvc.CurrentWeather(c.Request.Context(), coords)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadGateway, "weather_failed", errMessage(err), err))
		return
	}
	forecast, err := h.weatherSvc.ForecastWithAlerts(c.Request.Context(), coords)
	if err != nil {
		h.logger.Warn("forecast unavailable", "error", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"current":  snapshot,
		"analysis": weather.Analyze(snapshot),
		"forecast": forecast,
	})
}

func advisoryLookupError(err error) *HTTPError {
	switch {
	case apperrors.IsCode(err, apperrors.CodeContextNotFound):
		return NewHTTPError(http.StatusNotFound, "advisory_not_found", "advisory not found or expired", err)
	case apperrors.IsCode(err, apperrors.CodeInvalidInput):
		return NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err)
	default:
		return NewHTTPError(http.StatusInternalServerError, "advisory_failed", errMessage(err), err)
	}
}

func parseCoordinates(latRaw, lonRaw string) (weather.Coordinates, error) {
	lat, latErr := strconv.ParseFloat(strings.TrimSpace(latRaw), 64)
	lon, lonErr := strconv.ParseFloat(strings.TrimSpace(lonRaw), 64)
	if latErr != nil || lonErr != nil {
		return weather.Coordinates{}, apperrors.Wrap(apperrors.CodeInvalidInput, "latitude and longitude must be numbers", nil)
	}
	coords := weather.Coordinates{Latitude: lat, Longitude: lon}
	if !coords.Valid() {
		return weather.Coordinates{}, apperrors.Wrap(apperrors.CodeInvalidInput, "latitude and longitude out of range", nil)
	}
	return coords, nil
}

func readImage(file multipart.File, header *multipart.FileHeader) ([]byte, string, error) {
	if header.Size > advisory.MaxImageBytes {
		return nil, "", apperrors.Wrap(apperrors.CodeInvalidInput, "image exceeds the 5 MB limit", nil)
	}
	data, err := io.ReadAll(io.LimitReader(file, advisory.MaxImageBytes+1))
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.CodeInvalidInput, "failed to read image", err)
	}
	if len(data) > advisory.MaxImageBytes {
		return nil, "", apperrors.Wrap(apperrors.CodeInvalidInput, "image exceeds the 5 MB limit", nil)
	}
	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	return data, mimeType, nil
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
