// Package router wires the HTTP endpoints to the domain service and maps
// domain errors to HTTP statuses in a single terminal error writer.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	validator "github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/patric-chuzhbe/shortlinks/internal/auth"
	"github.com/patric-chuzhbe/shortlinks/internal/authenticator"
	"github.com/patric-chuzhbe/shortlinks/internal/db/storage"
	"github.com/patric-chuzhbe/shortlinks/internal/gzippedhttp"
	"github.com/patric-chuzhbe/shortlinks/internal/logger"
	"github.com/patric-chuzhbe/shortlinks/internal/models"
	"github.com/patric-chuzhbe/shortlinks/internal/service"
	"github.com/patric-chuzhbe/shortlinks/internal/user"
)

type shortener interface {
	CreateShortLink(ctx context.Context, fullURL, userID, slug string) (string, error)
	RegisterUser(ctx context.Context, name, email, password string) (*user.User, string, error)
	LoginUser(ctx context.Context, email, password string) (*user.User, string, error)
	ResolveShortURL(ctx context.Context, shortKey string) (string, error)
	GetUserUrls(ctx context.Context, userID string, shortURLFormatter models.URLFormatter) (models.UserUrls, error)
}

// Router holds the handler dependencies.
type Router struct {
	service      shortener
	auth         authenticator.Authenticator
	shortURLBase string
	validate     *validator.Validate
}

// New builds the chi router with logging, gzip, CORS, and identity
// attachment applied to every request. The authentication gate protects
// only the user-scoped routes.
func New(
	theService shortener,
	theAuth authenticator.Authenticator,
	shortURLBase string,
	corsOrigin string,
) *chi.Mux {
	theRouter := &Router{
		service:      theService,
		auth:         theAuth,
		shortURLBase: shortURLBase,
		validate:     validator.New(),
	}

	router := chi.NewRouter()
	router.Use(
		logger.WithLoggingHTTPMiddleware,
		gzippedhttp.UngzipRequest,
		cors.Handler(cors.Options{
			AllowedOrigins:   []string{corsOrigin},
			AllowedMethods:   []string{http.MethodGet, http.MethodPost},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
		}),
		theAuth.AttachUser,
	)

	router.With(gzippedhttp.GzipResponse).Post(`/api/create`, theRouter.PostApicreate)
	router.Post(`/api/auth/register`, theRouter.PostApiauthregister)
	router.Post(`/api/auth/login`, theRouter.PostApiauthlogin)
	router.With(theAuth.RequireUser, gzippedhttp.GzipResponse).Get(`/api/user/urls`, theRouter.GetApiuserurls)
	router.Get(`/{short}`, theRouter.GetRedirecttofullurl)

	return router
}

// PostApicreate creates a short link. Callers with an attached identity own
// the created link and may request a custom slug; anonymous callers get a
// generated key and any slug in the body is ignored.
func (r *Router) PostApicreate(response http.ResponseWriter, request *http.Request) {
	shortenRequest := models.ShortenRequest{}
	if !r.decodeAndValidate(response, request, &shortenRequest) {
		return
	}

	userID, authenticated := auth.UserIDFromContext(request.Context())

	slug := ""
	if authenticated {
		slug = shortenRequest.Slug
	}

	shortKey, err := r.service.CreateShortLink(request.Context(), shortenRequest.URL, userID, slug)
	if err != nil {
		r.writeError(response, err)

		return
	}

	writeJSON(
		response,
		http.StatusOK,
		models.ShortenResponse{Result: r.formatShortURL(shortKey)},
	)
}

// PostApiauthregister registers a new user, sets the auth cookie,
// and returns the token together with the user's public fields.
func (r *Router) PostApiauthregister(response http.ResponseWriter, request *http.Request) {
	registerRequest := models.RegisterRequest{}
	if !r.decodeAndValidate(response, request, &registerRequest) {
		return
	}

	usr, token, err := r.service.RegisterUser(
		request.Context(),
		registerRequest.Name,
		registerRequest.Email,
		registerRequest.Password,
	)
	if err != nil {
		r.writeError(response, err)

		return
	}

	r.auth.SetAuthCookie(response, token)
	writeJSON(response, http.StatusCreated, models.AuthResponse{Token: token, User: usr})
}

// PostApiauthlogin authenticates a user, sets the auth cookie,
// and returns the token together with the user's public fields.
func (r *Router) PostApiauthlogin(response http.ResponseWriter, request *http.Request) {
	loginRequest := models.LoginRequest{}
	if !r.decodeAndValidate(response, request, &loginRequest) {
		return
	}

	usr, token, err := r.service.LoginUser(request.Context(), loginRequest.Email, loginRequest.Password)
	if err != nil {
		r.writeError(response, err)

		return
	}

	r.auth.SetAuthCookie(response, token)
	writeJSON(response, http.StatusOK, models.AuthResponse{Token: token, User: usr})
}

// GetApiuserurls returns all short links owned by the authenticated caller.
func (r *Router) GetApiuserurls(response http.ResponseWriter, request *http.Request) {
	userID, ok := auth.UserIDFromContext(request.Context())
	if !ok {
		r.writeError(response, service.ErrInvalidCredentials)

		return
	}

	urls, err := r.service.GetUserUrls(request.Context(), userID, r.formatShortURL)
	if err != nil {
		r.writeError(response, err)

		return
	}

	writeJSON(response, http.StatusOK, models.UserUrlsResponse{Urls: urls})
}

// GetRedirecttofullurl looks up the short key, increments its click counter,
// and redirects to the destination URL.
func (r *Router) GetRedirecttofullurl(response http.ResponseWriter, request *http.Request) {
	shortKey := chi.URLParam(request, "short")

	fullURL, err := r.service.ResolveShortURL(request.Context(), shortKey)
	if err != nil {
		r.writeError(response, err)

		return
	}

	http.Redirect(response, request, fullURL, http.StatusFound)
}

func (r *Router) formatShortURL(shortKey string) string {
	return r.shortURLBase + "/" + shortKey
}

func (r *Router) decodeAndValidate(
	response http.ResponseWriter,
	request *http.Request,
	target interface{},
) bool {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		writeJSON(
			response,
			http.StatusBadRequest,
			models.ErrorResponse{Success: false, Message: "invalid request body"},
		)

		return false
	}

	if err := r.validate.Struct(target); err != nil {
		writeJSON(
			response,
			http.StatusBadRequest,
			models.ErrorResponse{Success: false, Message: err.Error()},
		)

		return false
	}

	return true
}

// writeError is the terminal error-translation point: every handler funnels
// its errors here, and only the listed kinds reach the client verbatim.
func (r *Router) writeError(response http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrSlugTaken),
		errors.Is(err, storage.ErrShortKeyExists),
		errors.Is(err, storage.ErrEmailExists):
		writeJSON(
			response,
			http.StatusConflict,
			models.ErrorResponse{Success: false, Message: err.Error()},
		)

	case errors.Is(err, service.ErrInvalidCredentials):
		writeJSON(
			response,
			http.StatusUnauthorized,
			models.ErrorResponse{Success: false, Message: err.Error()},
		)

	case errors.Is(err, service.ErrShortURLNotFound):
		writeJSON(
			response,
			http.StatusNotFound,
			models.ErrorResponse{Success: false, Message: err.Error()},
		)

	default:
		logger.Log.Errorln("Unclassified error reached the HTTP boundary: ", zap.Error(err))
		writeJSON(
			response,
			http.StatusInternalServerError,
			models.ErrorResponse{Success: false, Message: "Internal Server Error"},
		)
	}
}

func writeJSON(response http.ResponseWriter, statusCode int, payload interface{}) {
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(statusCode)
	if err := json.NewEncoder(response).Encode(payload); err != nil {
		logger.Log.Debugln("Error encoding the response body: ", zap.Error(err))
	}
}
