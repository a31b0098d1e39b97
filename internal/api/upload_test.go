package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recreate-labs/recreate/internal/models"
)

func multipartImage(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}

	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func (e *testEnv) upload(t *testing.T, filename, contentType string, data []byte) (*http.Response, map[string]json.RawMessage) {
	t.Helper()

	buf, formType := multipartImage(t, "image", filename, contentType, data)
	resp, err := e.server.Client().Post(e.server.URL+"/api/upload", formType, buf)
	require.NoError(t, err)
	return resp, decodeBody(t, resp)
}

func TestUpload(t *testing.T) {
	env := newTestEnv(t, &fakeProvider{})

	resp, body := env.upload(t, "bottles.jpg", "image/jpeg", []byte("fake jpeg bytes"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, jsonBool(t, body["success"]))

	imageURL := jsonString(t, body["imageUrl"])
	assert.Contains(t, imageURL, "/uploads/")
	assert.True(t, strings.HasSuffix(imageURL, ".jpg"), imageURL)

	// the file landed on disk under the generated name
	name := imageURL[strings.LastIndex(imageURL, "/")+1:]
	data, err := os.ReadFile(filepath.Join(env.media.UploadsDir(), name))
	require.NoError(t, err)
	assert.Equal(t, "fake jpeg bytes", string(data))

	var batch []models.RecyclingIdea
	require.NoError(t, json.Unmarshal(body["recyclingIdeas"], &batch))
	require.Len(t, batch, 4)
}

func TestUploadedIdeasAreCompletable(t *testing.T) {
	env := newTestEnv(t, &fakeProvider{})
	token := env.login(t)

	_, body := env.upload(t, "cans.png", "image/png", []byte("fake png"))
	var batch []models.RecyclingIdea
	require.NoError(t, json.Unmarshal(body["recyclingIdeas"], &batch))

	resp, body := env.postJSON(t, "/api/complete-project",
		models.CompleteProjectRequest{IdeaID: batch[0].ID}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, jsonBool(t, body["success"]))
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	env := newTestEnv(t, &fakeProvider{})

	resp, body := env.upload(t, "animation.gif", "image/gif", []byte("GIF89a"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Only image files are allowed (jpeg, jpg, png, webp)", jsonString(t, body["message"]))

	// rejected before any provider traffic
	assert.Equal(t, int32(0), env.provider.calls())
}

func TestUploadRejectsMismatchedContentType(t *testing.T) {
	env := newTestEnv(t, &fakeProvider{})

	resp, _ := env.upload(t, "script.jpg", "text/html", []byte("<html>"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, int32(0), env.provider.calls())
}

func TestUploadRejectsOversizedImage(t *testing.T) {
	env := newTestEnv(t, &fakeProvider{})

	big := bytes.Repeat([]byte{0xAB}, maxUploadBytes+1)
	resp, body := env.upload(t, "huge.jpg", "image/jpeg", big)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, jsonString(t, body["message"]), "5MB")
	assert.Equal(t, int32(0), env.provider.calls())
}

func TestUploadRequiresFile(t *testing.T) {
	env := newTestEnv(t, &fakeProvider{})

	buf, formType := multipartImage(t, "not-image", "x.jpg", "image/jpeg", []byte("data"))
	resp, err := env.server.Client().Post(env.server.URL+"/api/upload", formType, buf)
	require.NoError(t, err)
	body := decodeBody(t, resp)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No image uploaded", jsonString(t, body["message"]))
}
