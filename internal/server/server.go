package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/makehaven/yearreview/internal/report"
	"github.com/makehaven/yearreview/internal/util"
	apperrors "github.com/makehaven/yearreview/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// CacheAdmin is the operational slice of the cache the API exposes: tag
// invalidation after content changes, and liveness for the health check.
type CacheAdmin interface {
	InvalidateTag(ctx context.Context, tag string) (int64, error)
	IsConnected(ctx context.Context) bool
}

// Server exposes the engine's entry points as a thin JSON API.
// Rendering, theming, and access control live elsewhere.
type Server struct {
	reports *report.Service
	cache   CacheAdmin
	logger  *zap.Logger
	http    *http.Server
}

func New(reports *report.Service, cache CacheAdmin, host string, port int, logger *zap.Logger) *Server {
	s := &Server{
		reports: reports,
		cache:   cache,
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/members/{memberID}/year-review", s.handleMemberReport)
		r.Get("/community/{year}", s.handleCommunityReport)
		r.Post("/prewarm/{year}", s.handlePrewarm)
		r.Post("/cache/invalidate/{tag}", s.handleInvalidateTag)
	})

	s.http = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	return s
}

func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	cacheState := "up"
	if !s.cache.IsConnected(r.Context()) {
		cacheState = "down"
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"cache":  cacheState,
	})
}

func (s *Server) handleMemberReport(w http.ResponseWriter, r *http.Request) {
	memberID, err := strconv.ParseInt(chi.URLParam(r, "memberID"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid member id")
		return
	}

	year := util.ToShopTime(time.Now()).Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		year, err = strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
	}

	rep, err := s.reports.BuildMemberReport(r.Context(), memberID, year)
	if err != nil {
		if verr := (*apperrors.ValidationError)(nil); errors.As(err, &verr) {
			s.writeError(w, http.StatusBadRequest, verr.Message)
			return
		}
		s.logger.Error("Member report failed",
			zap.Int64("member_id", memberID), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "report build failed")
		return
	}
	s.writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleCommunityReport(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid year")
		return
	}

	rep, err := s.reports.BuildCommunityReport(r.Context(), year)
	if err != nil {
		if verr := (*apperrors.ValidationError)(nil); errors.As(err, &verr) {
			s.writeError(w, http.StatusBadRequest, verr.Message)
			return
		}
		s.logger.Error("Community report failed", zap.Int("year", year), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "report build failed")
		return
	}
	s.writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handlePrewarm(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid year")
		return
	}

	processed, err := s.reports.Prewarm(r.Context(), year)
	if err != nil {
		if verr := (*apperrors.ValidationError)(nil); errors.As(err, &verr) {
			s.writeError(w, http.StatusBadRequest, verr.Message)
			return
		}
		s.logger.Error("Prewarm failed", zap.Int("year", year), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "prewarm failed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"processed": processed})
}

func (s *Server) handleInvalidateTag(w http.ResponseWriter, r *http.Request) {
	tag := chi.URLParam(r, "tag")
	if tag == "" {
		s.writeError(w, http.StatusBadRequest, "missing tag")
		return
	}

	removed, err := s.cache.InvalidateTag(r.Context(), tag)
	if err != nil {
		s.logger.Error("Tag invalidation failed", zap.String("tag", tag), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "invalidation failed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int64{"removed": removed})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("Response encoding failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
