package restapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/andreyxaxa/Image-Set-Mapper/config"
	"github.com/andreyxaxa/Image-Set-Mapper/internal/controller/restapi"
	"github.com/andreyxaxa/Image-Set-Mapper/internal/entity"
	"github.com/andreyxaxa/Image-Set-Mapper/internal/usecase/imageset"
	"github.com/andreyxaxa/Image-Set-Mapper/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopImageSet struct{}

func (nopImageSet) Transform(context.Context, *entity.SourceRecord, string, time.Time) (*entity.Content, error) {
	return nil, errors.New("not used")
}

func (nopImageSet) Publish(context.Context, *entity.SourceRecord, string, time.Time) (*entity.Content, error) {
	return nil, errors.New("not used")
}

func (nopImageSet) HandleEvent(context.Context, *entity.Message) imageset.Outcome {
	return imageset.Outcome{}
}

func newApp(checks ...restapi.Check) *fiber.App {
	cfg := &config.Config{}
	cfg.HTTP.HealthTimeout = time.Second

	app := fiber.New()
	restapi.NewRouter(app, cfg, nopImageSet{}, checks, logger.Nop())

	return app
}

func get(t *testing.T, app *fiber.App, path string) (*http.Response, []byte) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, b
}

func healthy(context.Context) error { return nil }

func broken(context.Context) error { return errors.New("dial tcp: connection refused") }

func TestGoodToGo(t *testing.T) {
	resp, body := get(t, newApp(restapi.Check{Name: "kafka-producer", Ping: healthy}), "/__gtg")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))

	resp, _ = get(t, newApp(restapi.Check{Name: "kafka-producer", Ping: broken}), "/__gtg")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	app := newApp(
		restapi.Check{Name: "kafka-producer", Ping: healthy},
		restapi.Check{Name: "kafka-consumer", Ping: broken},
	)

	resp, body := get(t, app, "/__health")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var got struct {
		OK     bool `json:"ok"`
		Checks []struct {
			Name   string `json:"name"`
			OK     bool   `json:"ok"`
			Output string `json:"output"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(body, &got))

	assert.False(t, got.OK)
	require.Len(t, got.Checks, 2)
	assert.True(t, got.Checks[0].OK)
	assert.False(t, got.Checks[1].OK)
	assert.Contains(t, got.Checks[1].Output, "connection refused")
}

func TestMetrics(t *testing.T) {
	resp, body := get(t, newApp(), "/metrics")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestSwaggerDisabledByDefault(t *testing.T) {
	resp, _ := get(t, newApp(), "/swagger/index.html")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
