package photos

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/mrocha88/fitapp/internal/storage/memory"
	"github.com/mrocha88/fitapp/internal/userctx"
)

func setupHandler() *Handler {
	service := NewService(memory.New(), nil, 10, "image/jpeg,image/png,image/heic", "", 900)
	return NewHandler(service)
}

func multipartBody(t *testing.T, filename, contentType, note string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("failed to create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("failed to write part: %v", err)
	}

	if note != "" {
		if err := writer.WriteField("note", note); err != nil {
			t.Fatalf("failed to write note field: %v", err)
		}
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	return &buf, writer.FormDataContentType()
}

func uploadPhoto(t *testing.T, handler *Handler, userID, contentType string, data []byte) PhotoDTO {
	t.Helper()

	body, formContentType := multipartBody(t, "progress.jpg", contentType, "week 1", data)
	req := httptest.NewRequest(http.MethodPost, "/v1/photos", body)
	req.Header.Set("Content-Type", formContentType)
	req = req.WithContext(userctx.WithUserID(req.Context(), userID))

	rec := httptest.NewRecorder()
	handler.HandleUpload(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var dto PhotoDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return dto
}

func TestUploadAndDownloadPhoto(t *testing.T) {
	handler := setupHandler()
	data := []byte("fake jpeg bytes")

	dto := uploadPhoto(t, handler, "userA", "image/jpeg", data)
	if dto.ContentType != "image/jpeg" {
		t.Fatalf("expected image/jpeg, got %q", dto.ContentType)
	}
	if dto.SizeBytes != int64(len(data)) {
		t.Fatalf("expected %d bytes, got %d", len(data), dto.SizeBytes)
	}
	if dto.Note != "week 1" {
		t.Fatalf("expected note to round-trip, got %q", dto.Note)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/photos/"+dto.ID.String()+"/download", nil)
	req.SetPathValue("id", dto.ID.String())
	req = req.WithContext(userctx.WithUserID(req.Context(), "userA"))

	rec := httptest.NewRecorder()
	handler.HandleDownload(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !bytes.Equal(rec.Body.Bytes(), data) {
		t.Fatalf("downloaded bytes differ from upload")
	}
	if got := rec.Header().Get("Content-Type"); got != "image/jpeg" {
		t.Fatalf("expected image/jpeg, got %q", got)
	}
}

func TestUploadRejectsUnsupportedMime(t *testing.T) {
	handler := setupHandler()

	body, formContentType := multipartBody(t, "notes.txt", "text/plain", "", []byte("hello"))
	req := httptest.NewRequest(http.MethodPost, "/v1/photos", body)
	req.Header.Set("Content-Type", formContentType)

	rec := httptest.NewRecorder()
	handler.HandleUpload(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error.Code != "unsupported_mime" {
		t.Fatalf("expected unsupported_mime, got %q", resp.Error.Code)
	}
}

func TestUploadRequiresFile(t *testing.T) {
	handler := setupHandler()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("note", "no file here"); err != nil {
		t.Fatalf("failed to write field: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/photos", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	handler.HandleUpload(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestListPhotosIsOwnerScoped(t *testing.T) {
	handler := setupHandler()

	uploadPhoto(t, handler, "userA", "image/png", []byte("a1"))
	uploadPhoto(t, handler, "userA", "image/png", []byte("a2"))
	uploadPhoto(t, handler, "userB", "image/png", []byte("b1"))

	req := httptest.NewRequest(http.MethodGet, "/v1/photos", nil)
	req = req.WithContext(userctx.WithUserID(req.Context(), "userA"))

	rec := httptest.NewRecorder()
	handler.HandleList(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp PhotosResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Photos) != 2 {
		t.Fatalf("expected 2 photos, got %d", len(resp.Photos))
	}
}

func TestDeletePhoto(t *testing.T) {
	handler := setupHandler()

	dto := uploadPhoto(t, handler, "userA", "image/jpeg", []byte("bytes"))

	req := httptest.NewRequest(http.MethodDelete, "/v1/photos/"+dto.ID.String(), nil)
	req.SetPathValue("id", dto.ID.String())
	req = req.WithContext(userctx.WithUserID(req.Context(), "userA"))

	rec := httptest.NewRecorder()
	handler.HandleDelete(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}

	// Second delete reports not found.
	rec = httptest.NewRecorder()
	handler.HandleDelete(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestForeignPhotoIsInvisible(t *testing.T) {
	handler := setupHandler()

	dto := uploadPhoto(t, handler, "userA", "image/jpeg", []byte("private"))

	req := httptest.NewRequest(http.MethodGet, "/v1/photos/"+dto.ID.String()+"/download", nil)
	req.SetPathValue("id", dto.ID.String())
	req = req.WithContext(userctx.WithUserID(req.Context(), "userB"))

	rec := httptest.NewRecorder()
	handler.HandleDownload(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign photo, got %d", rec.Code)
	}
}
