package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/agromitra/advisory-engine/internal/domain/advisory"
	"github.com/agromitra/advisory-engine/internal/domain/agronomy"
	"github.com/agromitra/advisory-engine/internal/domain/followup"
	"github.com/agromitra/advisory-engine/internal/domain/weather"
	"github.com/agromitra/advisory-engine/internal/infra/advisorystore"
	"github.com/agromitra/advisory-engine/internal/infra/config"
	"github.com/agromitra/advisory-engine/pkg/randx"
)

func newServerUnderTest(t *testing.T, corsOrigins ...string) *http.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rng := randx.New(5)

	weatherSvc := weather.NewService(nil, rng, logger)
	agronomySvc := agronomy.NewService(nil, rng, logger)
	followupSvc := followup.NewService(nil, logger)
	store := advisorystore.NewMemoryStore(time.Minute, 100)
	advisorySvc := advisory.NewService(advisory.Config{}, weatherSvc, agronomySvc, followupSvc, store, nil, rng, logger)

	cfg := &config.Config{}
	cfg.HTTP.Address = ":0"
	cfg.HTTP.ReadTimeout = 5 * time.Second
	cfg.HTTP.WriteTimeout = 5 * time.Second
	cfg.HTTP.CORSOrigins = corsOrigins

	return NewRouter(cfg, NewHandler(advisorySvc, weatherSvc, logger), logger)
}

func multipartBody(t *testing.T, fields map[string]string, imageName, imageMime string, image []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if imageName != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="soilImage"; filename="`+imageName+`"`)
		header.Set("Content-Type", imageMime)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func postMultipart(t *testing.T, server *http.Server, path string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, fields, "", "", nil)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func postJSON(server *http.Server, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeErrorBody(t *testing.T, data []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(data, &body))
	return body
}

func TestRouter_Healthz(t *testing.T) {
	server := newServerUnderTest(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_CreateAdvisory(t *testing.T) {
	server := newServerUnderTest(t)

	rec := postMultipart(t, server, "/api/v1/advisories", map[string]string{
		"latitude":  "28.6",
		"longitude": "77.2",
		"farmSize":  "2 acres",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var record advisory.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	require.NotEmpty(t, record.ID)
	require.True(t, record.Success)
	require.Len(t, record.Recommendations, 3)
	require.Equal(t, advisory.OriginSynthesized, record.Origin)
	require.True(t, record.Weather.Synthetic)
	require.NotEmpty(t, record.SuggestedQuestions)

	// The success flag is an explicit key in the response body.
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.JSONEq(t, "true", string(raw["success"]))
}

func TestRouter_CreateAdvisoryWithImage(t *testing.T) {
	server := newServerUnderTest(t)

	body, contentType := multipartBody(t, map[string]string{
		"latitude":  "28.6",
		"longitude": "77.2",
	}, "soil.jpg", "image/jpeg", []byte("fake-jpeg-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/advisories", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	// No classifier configured, so the photo is accepted and the soil
	// profile is synthesized.
	require.Equal(t, http.StatusOK, rec.Code)
	var record advisory.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	require.Equal(t, agronomy.OriginSynthetic, record.Soil.Origin)
}

func TestRouter_CreateAdvisoryRejectsBadImageType(t *testing.T) {
	server := newServerUnderTest(t)

	body, contentType := multipartBody(t, map[string]string{
		"latitude":  "28.6",
		"longitude": "77.2",
	}, "soil.gif", "image/gif", []byte("gif-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/advisories", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
}

func TestRouter_CreateAdvisoryMissingCoordinates(t *testing.T) {
	server := newServerUnderTest(t)

	rec := postMultipart(t, server, "/api/v1/advisories", map[string]string{"latitude": "28.6"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
}

func TestRouter_GetAdvisoryNotFound(t *testing.T) {
	server := newServerUnderTest(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/advisories/missing", nil)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "advisory_not_found", errBody["error"]["code"])
}

func TestRouter_AskFollowUpFlow(t *testing.T) {
	server := newServerUnderTest(t)

	rec := postMultipart(t, server, "/api/v1/advisories", map[string]string{
		"latitude":  "28.6",
		"longitude": "77.2",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var record advisory.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))

	qrec := postJSON(server, "/api/v1/advisories/"+record.ID+"/questions", `{"question":"How often should I irrigate?"}`)
	require.Equal(t, http.StatusOK, qrec.Code)

	var answer followup.Answer
	require.NoError(t, json.Unmarshal(qrec.Body.Bytes(), &answer))
	require.Equal(t, "irrigation", answer.Intent)
	require.NotEmpty(t, answer.Text)
}

func TestRouter_AskFollowUpEmptyQuestion(t *testing.T) {
	server := newServerUnderTest(t)

	rec := postJSON(server, "/api/v1/advisories/some-id/questions", `{"question":"  "}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_FertilizerPlan(t *testing.T) {
	server := newServerUnderTest(t)

	rec := postJSON(server, "/api/v1/fertilizer-plan",
		`{"crop":"wheat","inputs":{"N":200,"P":15,"K":100,"pH":7.0,"EC":1.0}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var result map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	var plan map[string]int
	require.NoError(t, json.Unmarshal(result["fertilizer_plan"], &plan))
	require.Equal(t, 98, plan["DAP_kg/ha"])
}

func TestRouter_FertilizerPlanUnsupportedCrop(t *testing.T) {
	server := newServerUnderTest(t)

	rec := postJSON(server, "/api/v1/fertilizer-plan",
		`{"crop":"banana","inputs":{"N":200,"P":15,"K":100,"pH":7.0,"EC":1.0}}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
}

func TestRouter_Weather(t *testing.T) {
	server := newServerUnderTest(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather?lat=28.6&lon=77.2", nil)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Current  weather.Snapshot `json:"current"`
		Analysis weather.Analysis `json:"analysis"`
		Forecast weather.Forecast `json:"forecast"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.Current.Synthetic)
	require.NotEmpty(t, body.Analysis.OverallConditions)
	require.Len(t, body.Forecast.Days, 5)
	require.NotEmpty(t, body.Forecast.Alerts)
}

func TestRouter_CORSDefaultAllowsAnyOrigin(t *testing.T) {
	server := newServerUnderTest(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://app.example.org")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_CORSConfiguredOrigins(t *testing.T) {
	server := newServerUnderTest(t, "https://app.example.org", "https://staging.example.org")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://staging.example.org")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	require.Equal(t, "https://staging.example.org", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example.org")
	rec = httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	require.Equal(t, "https://app.example.org", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_CORSPreflight(t *testing.T) {
	server := newServerUnderTest(t, "https://app.example.org")

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/advisories", nil)
	req.Header.Set("Origin", "https://app.example.org")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "https://app.example.org", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_WeatherInvalidCoordinates(t *testing.T) {
	server := newServerUnderTest(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather?lat=abc&lon=77.2", nil)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
