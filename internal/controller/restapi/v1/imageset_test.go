package v1_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	v1 "github.com/andreyxaxa/Image-Set-Mapper/internal/controller/restapi/v1"
	"github.com/andreyxaxa/Image-Set-Mapper/internal/controller/restapi/v1/response"
	"github.com/andreyxaxa/Image-Set-Mapper/internal/entity"
	"github.com/andreyxaxa/Image-Set-Mapper/internal/usecase/imageset"
	"github.com/andreyxaxa/Image-Set-Mapper/pkg/logger"
	"github.com/andreyxaxa/Image-Set-Mapper/pkg/types/errs"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recordJSON = `{"uuid":"d7625378-d4cd-11e2-bce1-002128161462","type":"Image","value":"U2FtcGxlIEltYWdlIEJvZHk="}`

type fakeImageSet struct {
	err error

	record *entity.SourceRecord
	txID   string
	calls  []string
}

func (f *fakeImageSet) content() *entity.Content {
	return &entity.Content{
		UUID:             "d7625378-d4cd-11e2-2287-97bbf262bf2b",
		MediaType:        "image/jpeg",
		PublishReference: f.txID,
		LastModified:     time.Date(2014, time.September, 30, 14, 45, 0, 0, time.UTC),
	}
}

func (f *fakeImageSet) Transform(_ context.Context, record *entity.SourceRecord, txID string, _ time.Time) (*entity.Content, error) {
	f.calls = append(f.calls, "transform")
	f.record, f.txID = record, txID
	if f.err != nil {
		return nil, f.err
	}

	return f.content(), nil
}

func (f *fakeImageSet) Publish(_ context.Context, record *entity.SourceRecord, txID string, _ time.Time) (*entity.Content, error) {
	f.calls = append(f.calls, "publish")
	f.record, f.txID = record, txID
	if f.err != nil {
		return nil, f.err
	}

	return f.content(), nil
}

func (f *fakeImageSet) HandleEvent(context.Context, *entity.Message) imageset.Outcome {
	return imageset.Outcome{}
}

func newApp(is *fakeImageSet) *fiber.App {
	app := fiber.New()
	v1.NewImageSetRoutes(app.Group("/v1"), is, logger.Nop())

	return app
}

func do(t *testing.T, app *fiber.App, path, body, txID string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if txID != "" {
		req.Header.Set(entity.TransactionIDHeader, txID)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	return resp
}

func TestMap_ReturnsContent(t *testing.T) {
	is := &fakeImageSet{}
	resp := do(t, newApp(is), "/v1/map", recordJSON, "tid_test")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"transform"}, is.calls)
	assert.Equal(t, "d7625378-d4cd-11e2-bce1-002128161462", is.record.UUID)
	assert.Equal(t, []byte("Sample Image Body"), is.record.Value)
	assert.Equal(t, "tid_test", resp.Header.Get(entity.TransactionIDHeader))

	var got map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "d7625378-d4cd-11e2-2287-97bbf262bf2b", got["uuid"])
	assert.Equal(t, "tid_test", got["publishReference"])
	assert.Contains(t, got, "copyright")
	assert.Nil(t, got["copyright"])
}

func TestMap_GeneratesTransactionID(t *testing.T) {
	is := &fakeImageSet{}
	resp := do(t, newApp(is), "/v1/map", recordJSON, "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(is.txID, "tid_"))
	assert.Equal(t, is.txID, resp.Header.Get(entity.TransactionIDHeader))
}

func TestIngest_Publishes(t *testing.T) {
	is := &fakeImageSet{}
	resp := do(t, newApp(is), "/v1/ingest", recordJSON, "tid_test")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, []string{"publish"}, is.calls)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"invalid uuid", errs.ErrInvalidIdentifierFormat, http.StatusUnprocessableEntity, "Invalid uuid"},
		{"not an image", errs.ErrUnsupportedContentType, http.StatusUnprocessableEntity, "Unsupported type - not an image set."},
		{"no image bytes", errs.ErrNotPublishable, http.StatusUnprocessableEntity, "Content cannot be mapped."},
		{"transformation", errs.ErrTransformation, http.StatusUnprocessableEntity, "Content cannot be mapped."},
		{"serialization", errs.ErrEnvelopeSerialization, http.StatusInternalServerError, "Unable to write JSON for message"},
		{"sink", errors.New("broker down"), http.StatusServiceUnavailable, "Unable to publish message"},
	}

	for _, tt := range tests {
		for _, path := range []string{"/v1/map", "/v1/ingest"} {
			t.Run(tt.name+" "+path, func(t *testing.T) {
				is := &fakeImageSet{err: fmt.Errorf("UseCase - Transform: %w", tt.err)}
				resp := do(t, newApp(is), path, recordJSON, "tid_test")
				defer resp.Body.Close()

				assert.Equal(t, tt.code, resp.StatusCode)

				var body response.Error
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, tt.msg, body.Error)
			})
		}
	}
}

func TestMalformedBody(t *testing.T) {
	is := &fakeImageSet{}
	resp := do(t, newApp(is), "/v1/map", `{"uuid":`, "tid_test")
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(b))
	assert.Empty(t, is.calls)
}
