package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sj-empleados/empleados-backend-go/internal/handler/http/response"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/pagination"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/validator"
)

const (
	defaultPageLimit = 25
	maxPageLimit     = 200

	// documentField carries the uploaded file; dataField carries the JSON payload of a multipart request.
	documentField = "document"
	dataField     = "data"

	maxUploadBytes = 11 << 20
)

var errInvalidBool = errors.New("must be true or false")

// decodeJSON reports a 400 and returns false when the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.Debug("Failed to decode request body", "error", err)
		response.BadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

// decodeOptionalJSON is decodeJSON for endpoints whose body may be empty.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	slog.Debug("Failed to decode request body", "error", err)
	response.BadRequest(w, "Invalid request body", nil)
	return false
}

// pathID reads a UUID route parameter. Anything else cannot match a row, so it is
// reported through notFound before reaching the database.
func pathID(w http.ResponseWriter, r *http.Request, name string, notFound error) (string, bool) {
	id := chi.URLParam(r, name)
	if !validator.IsValidUUID(id) {
		response.HandleError(w, notFound)
		return "", false
	}
	return id, true
}

// upload is the optional document of a multipart request.
type upload struct {
	File   multipart.File
	Header *multipart.FileHeader
}

func (u upload) Close() {
	if u.File != nil {
		_ = u.File.Close()
	}
}

// decodeWithDocument accepts either a JSON body or a multipart form with a JSON "data"
// field and an optional "document" file.
func decodeWithDocument(w http.ResponseWriter, r *http.Request, dst interface{}) (upload, bool) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return upload{}, decodeJSON(w, r, dst)
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.TooLarge(w, "Document must not exceed 10MB")
			return upload{}, false
		}
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return upload{}, false
	}

	if data := r.FormValue(dataField); data != "" {
		if err := json.Unmarshal([]byte(data), dst); err != nil {
			response.BadRequest(w, "Invalid request format", map[string]string{dataField: err.Error()})
			return upload{}, false
		}
	}

	file, header, err := r.FormFile(documentField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return upload{}, true
		}
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return upload{}, false
	}
	return upload{File: file, Header: header}, true
}

// parsePagination reads page and limit; invalid values fall back to the defaults.
func parsePagination(r *http.Request, defaultLimit, maxLimit int) pagination.Params {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return pagination.New(page, limit, defaultLimit, maxLimit)
}

func parseOptionalBool(r *http.Request, key string) (*bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%s %w", key, errInvalidBool)
	}
	return &v, nil
}

func writeFile(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	if filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
