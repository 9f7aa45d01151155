package api

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"
)

const defaultPoolFilename = "players.csv"

// PoolHandler handles pool uploads.
type PoolHandler struct {
	deps     SessionDependencies
	maxBytes int64
}

// NewPoolHandler creates a new pool handler accepting up to maxBytes.
func NewPoolHandler(deps SessionDependencies, maxBytes int64) *PoolHandler {
	return &PoolHandler{deps: deps, maxBytes: maxBytes}
}

// HandleUpload handles POST /api/sessions/{id}/pool. The pool arrives
// either as the "file" part of a multipart form or as the raw request
// body, with the name taken from the "filename" query parameter.
func (h *PoolHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	const op = "api.upload_pool"
	sess, ok := lookup(h.deps, w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	filename, data, err := h.read(r)
	if err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if len(data) == 0 {
		writeFailure(w, NewKind(op, ErrEmptyUpload))
		return
	}

	summary, err := sess.LoadPool(r.Context(), filename, data)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *PoolHandler) read(r *http.Request) (string, []byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return "", nil, err
		}
		return filenameOr(r.URL.Query().Get("filename")), data, nil
	}

	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		return "", nil, err
	}
	f, hdr, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil, errors.New(`missing multipart part "file"`)
	}
	if err != nil {
		return "", nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, err
	}
	return filenameOr(hdr.Filename), data, nil
}

func filenameOr(name string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	return defaultPoolFilename
}
