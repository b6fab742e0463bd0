package httpserver_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andreyxaxa/Image-Set-Mapper/pkg/httpserver"
	"github.com/andreyxaxa/Image-Set-Mapper/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, resp *http.Response) string {
	t.Helper()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(b, &body))

	return body.Error
}

func TestServer_PanicBecomesJSONError(t *testing.T) {
	s := httpserver.New(logger.Nop(), httpserver.AppName("test"))
	s.App.Get("/boom", func(*fiber.Ctx) error {
		panic("nil record")
	})

	resp, err := s.App.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.NotEmpty(t, decodeError(t, resp))
}

func TestServer_FiberErrorKeepsCode(t *testing.T) {
	s := httpserver.New(logger.Nop())

	resp, err := s.App.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Cannot GET /missing", decodeError(t, resp))
}
