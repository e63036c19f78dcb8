package handler

import (
	"errors"
	"net/http"
	"strconv"

	"mediflow/internal/usecase"
	"mediflow/pkg/response"

	"github.com/gorilla/mux"
)

// respondError maps the failures every record-backed endpoint can hit.
// Handlers check their own sentinels first and fall back to this.
func respondError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, usecase.ErrStorageUnavailable):
		response.Error(w, http.StatusServiceUnavailable, err.Error(), nil)
	case errors.Is(err, usecase.ErrConcurrentUpdate):
		response.Error(w, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, usecase.ErrNotAPatient):
		response.Forbidden(w, err.Error())
	case errors.Is(err, usecase.ErrIdentityNotInContext):
		response.Unauthorized(w, "Invalid token")
	default:
		response.InternalServerError(w, message)
	}
}

func patientIDFromPath(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid patient id")
	}
	return id, nil
}

const maxPageSize = 100

func queryInt(r *http.Request, name string) int {
	v, _ := strconv.Atoi(r.URL.Query().Get(name))
	return v
}

func pageMeta(page, limit int, total int64) *response.Meta {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}

	return &response.Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
