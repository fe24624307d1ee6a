// Package httpapi wires the aggregator's HTTP surface: the resolve
// endpoint addons call to fan a playback request out through the
// Stream Pipeline, plus admin endpoints over the Anime Identity
// Database's refresh state.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/example/streamweave/internal/aidb"
	"github.com/example/streamweave/internal/pipeline"
	"github.com/example/streamweave/internal/platform/api"
	"github.com/example/streamweave/internal/platform/auth"
	"github.com/example/streamweave/internal/platform/httpserver"
	"github.com/example/streamweave/internal/platform/signing"
	"github.com/example/streamweave/internal/streamcontext"
)

var errInvalidSignature = errors.New("httpapi: invalid or expired userData signature")

// Handler holds the collaborators the HTTP surface needs: the AIDB for
// admin endpoints, the Stream Context's dependencies for constructing
// a per-request Context, the Pipeline itself, and a Signer for
// decoding the caller's UserData out of the request path.
type Handler struct {
	AIDB           *aidb.AIDB
	ContextDeps    streamcontext.Deps
	Pipeline       *pipeline.Pipeline
	Signer         *signing.Signer
	Log            *zap.Logger
	AdminTokenAuth bool
}

// Mount attaches the resolve and admin routes to r. SetupRouter must
// already have been called on r.
func (h *Handler) Mount(r chi.Router) {
	r.Get("/stream/{type}/{id}", h.resolve)
	r.Get("/stream/{type}/{id}/{userData}", h.resolve)

	r.Route("/admin/aidb", func(admin chi.Router) {
		if h.AdminTokenAuth {
			admin.Use(auth.RequireUser(auth.JWTVerifier{Secret: h.Signer.Secret}))
		}
		admin.Get("/status", h.aidbStatus)
		admin.Post("/refresh/{source}", h.aidbRefresh)
	})
}

// resolve handles GET /stream/{type}/{id}[/{userData}]: decodes the
// optional signed UserData segment, builds the Stream Context, runs
// the Pipeline, and returns the ranked stream list.
func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) {
	requestID := httpserver.RequestIDFromContext(r.Context())
	rawType := chi.URLParam(r, "type")
	rawID := chi.URLParam(r, "id")

	reqType, ok := parseRequestType(rawType)
	if !ok {
		api.BadRequest(w, "INVALID_TYPE", "type must be \"movie\" or \"series\"", requestID, nil)
		return
	}

	userData := pipeline.UserData{RegexAllowed: auth.AllowRegexFromContext(r.Context())}
	if token := chi.URLParam(r, "userData"); token != "" {
		decoded, err := h.decodeUserData(token)
		if err != nil {
			api.BadRequest(w, "INVALID_USER_DATA", "userData token is invalid or expired", requestID, nil)
			return
		}
		decoded.RegexAllowed = userData.RegexAllowed
		userData = decoded
	}

	sctx, err := streamcontext.New(rawType, rawID, h.ContextDeps)
	if err != nil {
		api.BadRequest(w, "INVALID_ID", "id could not be parsed", requestID, map[string]any{"id": rawID})
		return
	}
	sctx.StartAllFetches(r.Context(), userData.SeadexEnabled())

	req := pipeline.Request{Type: reqType, ID: rawID, UserData: userData}
	streams, err := h.Pipeline.Run(r.Context(), req, sctx)
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		h.Log.Error("pipeline run failed", zap.Error(err), zap.String("request_id", requestID))
		api.Internal(w, requestID)
		return
	}

	api.WriteJSON(w, http.StatusOK, streamResponse{Streams: streams})
}

type streamResponse struct {
	Streams []pipeline.ParsedStream `json:"streams"`
}

func parseRequestType(raw string) (pipeline.RequestType, bool) {
	switch pipeline.RequestType(raw) {
	case pipeline.RequestMovie:
		return pipeline.RequestMovie, true
	case pipeline.RequestSeries:
		return pipeline.RequestSeries, true
	default:
		return "", false
	}
}

// decodeUserData verifies and unmarshals a signed UserData token,
// encoded via internal/platform/signing the way the caller's profile
// rides in the request path instead of a server-side session.
func (h *Handler) decodeUserData(token string) (pipeline.UserData, error) {
	payloadB64, exp, sig, err := signing.DecodeToken(token)
	if err != nil {
		return pipeline.UserData{}, err
	}
	if !h.Signer.Verify(payloadB64, exp, sig) {
		return pipeline.UserData{}, errInvalidSignature
	}
	raw, err := signing.DecodePayload(payloadB64)
	if err != nil {
		return pipeline.UserData{}, err
	}
	var u pipeline.UserData
	if err := json.Unmarshal(raw, &u); err != nil {
		return pipeline.UserData{}, err
	}
	return u, nil
}

func (h *Handler) aidbStatus(w http.ResponseWriter, r *http.Request) {
	status := h.AIDB.Status()
	out := make(map[string]sourceStatusView, len(status))
	for name, s := range status {
		out[string(name)] = sourceStatusView{
			LastAttempt: s.LastAttempt,
			LastSuccess: s.LastSuccess,
			LastError:   s.LastError,
			ETag:        s.ETag,
		}
	}
	api.WriteJSON(w, http.StatusOK, out)
}

type sourceStatusView struct {
	LastAttempt time.Time `json:"lastAttempt"`
	LastSuccess time.Time `json:"lastSuccess"`
	LastError   string    `json:"lastError,omitempty"`
	ETag        string    `json:"etag,omitempty"`
}

func (h *Handler) aidbRefresh(w http.ResponseWriter, r *http.Request) {
	requestID := httpserver.RequestIDFromContext(r.Context())
	source := aidb.SourceName(chi.URLParam(r, "source"))

	if err := h.AIDB.ForceRefresh(r.Context(), source); err != nil {
		api.BadRequest(w, "REFRESH_FAILED", err.Error(), requestID, map[string]any{"source": string(source)})
		return
	}
	api.WriteJSON(w, http.StatusAccepted, map[string]string{"source": string(source), "status": "refreshed"})
}
