package validators

import (
	"mime/multipart"
	"net/http"
	"strings"

	pkgerrors "github.com/agrilinkmw/agrilink-backend/pkg/errors"
)

const maxMultipartMemory = 10 << 20 // 10 MiB held in memory before spilling to disk

// ParseForm accepts urlencoded or multipart bodies so browser form posts work
// either way. Multipart is required when a file field is present.
func ParseForm(r *http.Request) error {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
		}
		return nil
	}
	if err := r.ParseForm(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form body")
	}
	return nil
}

// FormValue returns the trimmed field value.
func FormValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}

// RequiredFormValue returns the trimmed field value or a validation error.
func RequiredFormValue(r *http.Request, key string) (string, error) {
	value := FormValue(r, key)
	if value == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "form field is required").WithDetails(map[string]any{"field": key})
	}
	return value, nil
}

// OptionalFormFile returns the uploaded file for the field, or nil when absent.
func OptionalFormFile(r *http.Request, key string) (multipart.File, *multipart.FileHeader, error) {
	if r.MultipartForm == nil {
		return nil, nil, nil
	}
	file, header, err := r.FormFile(key)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil, nil
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid file upload").WithDetails(map[string]any{"field": key})
	}
	return file, header, nil
}
