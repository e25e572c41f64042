package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/server/api"
	"github.com/dmitrijs2005/accounts/internal/server/models"
	"github.com/go-chi/chi/v5/middleware"
)

const maxBodyBytes = 1 << 16

type errorBody struct {
	Error *api.Error `json:"error"`
}

var errorRateLimited = &api.Error{Code: "RATE_LIMITED", Message: "too many requests"}

func httpStatus(err error) int {
	switch {
	case errors.Is(err, common.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrValidation), common.IsTokenError(err):
		return http.StatusBadRequest
	case common.IsConflict(err):
		return http.StatusConflict
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrUnavailable):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := httpStatus(err)
	if code == http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "error", err, "request_id", middleware.GetReqID(r.Context()))
	}
	writeJSON(w, code, errorBody{Error: api.NewError(err)})
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body", common.ErrValidation)
	}
	return nil
}

func (s *HTTPServer) register(w http.ResponseWriter, r *http.Request) {
	var in api.RegisterRequest
	if err := decode(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.accounts.Register(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.RegisterResponse{ActivationToken: res.ActivationToken})
}

func (s *HTTPServer) activate(w http.ResponseWriter, r *http.Request) {
	var in api.ActivateRequest
	if err := decode(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	acc, err := s.accounts.Activate(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, api.AccountResponse{Account: api.NewAccount(acc)})
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	var in api.LoginRequest
	if err := decode(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.accounts.Login(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.NewSessionResponse(res))
}

func (s *HTTPServer) refresh(w http.ResponseWriter, r *http.Request) {
	var in api.RefreshRequest
	if err := decode(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.accounts.Refresh(r.Context(), in.RefreshToken)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.NewSessionResponse(res))
}

func (s *HTTPServer) current(w http.ResponseWriter, r *http.Request) {
	p, err := s.accounts.Current(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.NewCurrentResponse(p))
}

func (s *HTTPServer) logout(w http.ResponseWriter, r *http.Request) {
	msg, err := s.accounts.Logout(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.LogoutResponse{Message: msg})
}

func queryInt(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", common.ErrValidation, name)
	}
	return n, nil
}

func (s *HTTPServer) list(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	list, err := s.accounts.List(r.Context(), models.Page{Limit: limit, Offset: offset})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.ListResponse{Accounts: api.NewAccounts(list)})
}

func (s *HTTPServer) avatarUpload(w http.ResponseWriter, r *http.Request) {
	var in api.AvatarUploadRequest
	if err := decode(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	put, err := s.avatars.RequestUpload(r.Context(), in.ContentType)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.NewPresignedResponse(put))
}

func (s *HTTPServer) avatarURL(w http.ResponseWriter, r *http.Request) {
	get, err := s.avatars.DownloadURL(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.NewPresignedResponse(get))
}
