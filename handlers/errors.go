package handlers

import (
	"errors"
	"io"
	"net/http"

	"erp-project/backend/auth"
	"erp-project/backend/logging"
	"erp-project/backend/services"
	"erp-project/backend/store"
	"erp-project/backend/utils"
)

// writeError maps service errors onto the response envelope.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation *services.ValidationError
		conflict   *services.ConflictError
		notFound   *services.NotFoundError
		authErr    *auth.AuthError
	)
	switch {
	case errors.As(err, &validation):
		utils.RespondError(w, http.StatusBadRequest, validation.Message)
	case errors.As(err, &conflict):
		utils.RespondError(w, http.StatusBadRequest, conflict.Message)
	case errors.As(err, &notFound):
		utils.RespondError(w, http.StatusNotFound, notFound.Error())
	case errors.Is(err, store.ErrNotFound):
		utils.RespondError(w, http.StatusNotFound, "Not found")
	case errors.As(err, &authErr):
		utils.RespondError(w, authErr.Status(), authErr.Message)
	default:
		logging.Logger.Errorf("Event ID: REQUEST_FAILED, Description: %s %s: %v", r.Method, r.URL.Path, err)
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
	}
}

// readBody reads the whole request body, honouring the body size limit.
func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &services.ValidationError{Message: "Request body too large", Err: err}
		}
		return nil, &services.ValidationError{Message: "Invalid request payload", Err: err}
	}
	return body, nil
}
