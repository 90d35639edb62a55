package httpx

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"net/netip"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Adnan2-a11y/LearnCraft/internal/domain"
	"github.com/Adnan2-a11y/LearnCraft/internal/ratelimit"
	"github.com/Adnan2-a11y/LearnCraft/internal/service/auth"
	"github.com/Adnan2-a11y/LearnCraft/internal/service/course"
	"github.com/Adnan2-a11y/LearnCraft/internal/service/event"
)

const healthCheckTimeout = 2 * time.Second

// RateLimits configures per-route request budgets. Zero disables a limit.
type RateLimits struct {
	Register int
	Login    int
	Write    int
	Window   time.Duration
}

// Options carries the router dependencies.
type Options struct {
	Logger      *slog.Logger
	Auth        auth.Service
	Courses     course.Service
	Events      event.Service
	Limiter     ratelimit.Limiter
	Limits      RateLimits
	Cookie      CookieConfig
	CORSOrigins []string
	// TrustedProxies lists peers whose forwarding headers name the client.
	TrustedProxies []netip.Prefix
	DBHealth       func(context.Context) error
	Registerer     prometheus.Registerer
	Gatherer       prometheus.Gatherer
}

// Router wires HTTP endpoints to services.
type Router struct {
	mux      chi.Router
	logger   *slog.Logger
	auth     auth.Service
	courses  course.Service
	events   event.Service
	limiter  ratelimit.Limiter
	limits   RateLimits
	cookie   CookieConfig
	ips      ipResolver
	dbHealth func(context.Context) error
	metrics  *metrics
}

// NewRouter assembles routes with dependencies.
func NewRouter(opts Options) *Router {
	r := &Router{
		mux:      chi.NewRouter(),
		logger:   opts.Logger,
		auth:     opts.Auth,
		courses:  opts.Courses,
		events:   opts.Events,
		limiter:  opts.Limiter,
		limits:   opts.Limits,
		cookie:   opts.Cookie,
		ips:      ipResolver{trusted: opts.TrustedProxies},
		dbHealth: opts.DBHealth,
		metrics:  newMetrics(opts.Registerer),
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.limiter == nil {
		r.limiter = ratelimit.NewMemory()
	}
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.register(opts.CORSOrigins, gatherer)
	return r
}

// ServeHTTP delegates to underlying mux.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Close releases background resources.
func (r *Router) Close() {
	if err := r.limiter.Close(); err != nil {
		r.logger.Warn("close rate limiter", "error", err)
	}
}

func (r *Router) register(origins []string, gatherer prometheus.Gatherer) {
	r.mux.Use(middleware.RequestID)
	r.mux.Use(r.audit)
	r.mux.Use(middleware.Recoverer)
	r.mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.mux.NotFound(func(w http.ResponseWriter, _ *http.Request) { r.notFound(w) })
	r.mux.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) { r.methodNotAllowed(w) })

	registerPolicy := ratelimit.Policy{Name: "auth_register", Limit: r.limits.Register, Window: r.limits.Window}
	loginPolicy := ratelimit.Policy{Name: "auth_login", Limit: r.limits.Login, Window: r.limits.Window}
	writePolicy := ratelimit.Policy{Name: "teacher_write", Limit: r.limits.Write, Window: r.limits.Window}
	r.mux.Get("/healthz", r.handleHealthz)
	r.mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.mux.Route("/auth", func(ar chi.Router) {
		ar.With(r.withRateLimit(registerPolicy, r.rateLimitKeyIP)).Post("/register", r.handleRegister)
		ar.With(r.withRateLimit(loginPolicy, r.rateLimitKeyIP)).Post("/login", r.handleLogin)
		ar.Post("/logout", r.handleLogout)
		ar.With(r.requireAuth).Get("/me", r.handleMe)
	})

	r.mux.Group(func(ag chi.Router) {
		ag.Use(r.requireAuth)
		ag.Get("/courses", r.handleListCourses)
		ag.Get("/courses/{id}", r.handleGetCourse)
		ag.Get("/events", r.handleListEvents)
		ag.Get("/events/{id}", r.handleGetEvent)

		ag.Group(func(tg chi.Router) {
			tg.Use(r.requireRole(domain.RoleTeacher))
			tg.Use(r.withRateLimit(writePolicy, r.rateLimitKeyUser))
			tg.Post("/courses", r.handleCreateCourse)
			tg.Post("/course/add", r.handleCreateCourse)
			tg.Put("/courses/{id}", r.handleUpdateCourse)
			tg.Delete("/courses/{id}", r.handleDeleteCourse)
			tg.Post("/events", r.handleCreateEvent)
			tg.Put("/events/{id}", r.handleUpdateEvent)
			tg.Delete("/events/{id}", r.handleDeleteEvent)
		})
	})
}

func (r *Router) handleHealthz(w http.ResponseWriter, req *http.Request) {
	status := map[string]string{"api": "ok", "database": "ok"}
	if r.dbHealth != nil {
		ctx, cancel := context.WithTimeout(req.Context(), healthCheckTimeout)
		defer cancel()
		if err := r.dbHealth(ctx); err != nil {
			r.logger.Error("database health check failed", "error", err)
			status["database"] = "unavailable"
			writeJSON(w, http.StatusServiceUnavailable, envelope{Success: false, Message: "database unavailable", Data: status})
			return
		}
	}
	writeSuccess(w, http.StatusOK, "healthy", status)
}

func (r *Router) audit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w}
		start := time.Now()
		next.ServeHTTP(recorder, req)

		status := recorder.status
		if status == 0 {
			status = http.StatusOK
		}
		ctx := recorder.ctx
		if ctx == nil {
			ctx = req.Context()
		}
		duration := time.Since(start)
		route := req.URL.Path
		if rctx := chi.RouteContext(req.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		r.metrics.recordRequest(req.Method, route, status, duration)

		actor := "anonymous"
		fields := []any{
			"method", req.Method,
			"path", req.URL.Path,
			"route", route,
			"status", status,
			"bytes", recorder.bytes,
			"duration_ms", duration.Milliseconds(),
		}
		if ip := r.ips.clientIP(req); ip != "" {
			fields = append(fields, "ip", ip)
		}
		if reqID := middleware.GetReqID(req.Context()); reqID != "" {
			fields = append(fields, "request_id", reqID)
		}
		if principal, ok := principalFromContext(ctx); ok {
			actor = string(principal.Role)
			fields = append(fields, "user_id", principal.ID)
		}
		fields = append(fields, "actor", actor)

		switch {
		case status >= http.StatusInternalServerError:
			r.logger.Error("http_request", fields...)
		case status >= http.StatusBadRequest:
			r.logger.Warn("http_request", fields...)
		default:
			r.logger.Info("http_request", fields...)
		}
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
	ctx    context.Context
}

func (sr *statusRecorder) WriteHeader(code int) {
	if sr.status == 0 {
		sr.status = code
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += n
	return n, err
}

func (sr *statusRecorder) SetContext(ctx context.Context) {
	sr.ctx = ctx
}

func (sr *statusRecorder) Flush() {
	if f, ok := sr.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (sr *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := sr.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, errors.New("hijacker not supported")
}

func (r *Router) methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func (r *Router) notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "not found")
}
