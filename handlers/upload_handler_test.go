package handlers

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payper-storefront/models"
)

func newUploadEvent(t *testing.T, fieldName, filename string, payload []byte) (*core.RequestEvent, *httptest.ResponseRecorder) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(fieldName, filename)
	require.NoError(t, err)
	_, err = fw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/upload/avatar", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	evt := &core.RequestEvent{}
	evt.Request = req
	evt.Response = rec
	evt.Auth = newAuthRecord("buyer1", models.RoleBuyer)
	return evt, rec
}

// A body past the limit is cut off by the reader before the form is
// parsed; the client still gets the size message, not a parse error.
func TestUploadAvatar_OversizeBody(t *testing.T) {
	handler := NewUploadHandler(nil, 16)

	evt, _ := newUploadEvent(t, "file", "avatar.png", bytes.Repeat([]byte("a"), 8*1024))

	err := handler.UploadAvatar(evt)

	require.Error(t, err)
	var apiErr *router.ApiError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Contains(t, apiErr.Message, "exceeds")
}

func TestUploadAvatar_RejectsNonImage(t *testing.T) {
	handler := NewUploadHandler(nil, 5*1024*1024)

	evt, _ := newUploadEvent(t, "file", "notes.txt", []byte("plain text"))

	err := handler.UploadAvatar(evt)

	require.Error(t, err)
	var apiErr *router.ApiError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Contains(t, apiErr.Message, "image")
}

func TestUploadAvatar_RequiresFile(t *testing.T) {
	handler := NewUploadHandler(nil, 5*1024*1024)

	evt, _ := newUploadEvent(t, "other", "x.png", []byte("x"))

	err := handler.UploadAvatar(evt)

	require.Error(t, err)
	var apiErr *router.ApiError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Contains(t, apiErr.Message, "required")
}
