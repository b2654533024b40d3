package controllers

import (
	"errors"
	"io"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/agrilinkmw/agrilink-backend/api/responses"
	"github.com/agrilinkmw/agrilink-backend/api/validators"
	pkgerrors "github.com/agrilinkmw/agrilink-backend/pkg/errors"
	"github.com/agrilinkmw/agrilink-backend/pkg/logger"
	"github.com/agrilinkmw/agrilink-backend/pkg/storage"
)

type uploadedMedia struct {
	FileName string `json:"file_name"`
	URL      string `json:"url"`
}

// UploadMedia stores a single form file under the field name "image" and
// returns the generated filename plus the path it is served from.
func UploadMedia(store storage.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media storage unavailable"))
			return
		}

		if err := validators.ParseForm(r); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		file, header, err := validators.OptionalFormFile(r, "image")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if file == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "image file is required"))
			return
		}
		defer file.Close()

		name, err := store.Save(r.Context(), header.Filename, file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, uploadedMedia{
			FileName: name,
			URL:      "/api/v1/media/" + name,
		})
	}
}

// RemoveMedia deletes an uploaded file. Admin moderation surface for
// offending or orphaned images; removing a file that is already gone
// succeeds.
func RemoveMedia(store storage.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media storage unavailable"))
			return
		}

		name := chi.URLParam(r, "fileName")
		if name == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "file name is required"))
			return
		}

		if err := store.Remove(r.Context(), name); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"file_name": name})
	}
}

// ServeMedia streams a previously uploaded file back to the client.
func ServeMedia(store storage.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media storage unavailable"))
			return
		}

		name := chi.URLParam(r, "fileName")
		if name == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "file name is required"))
			return
		}

		reader, err := store.Open(r.Context(), name)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				err = pkgerrors.New(pkgerrors.CodeNotFound, "file not found")
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer reader.Close()

		if _, err := io.Copy(w, reader); err != nil && logg != nil {
			logg.Warn(r.Context(), "media stream interrupted")
		}
	}
}
