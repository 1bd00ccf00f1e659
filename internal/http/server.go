package http

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"spendchart/internal/log"
	"spendchart/internal/middleware/ratelimit"
	"spendchart/internal/middleware/security"
	"spendchart/internal/middleware/trace"
	"spendchart/internal/services"
)

// appMetrics counts successful mutations for /metrics.
type appMetrics struct {
	expensesCreated atomic.Int64
	expensesDeleted atomic.Int64
	uptime          time.Time
}

type Server struct {
	http.Server
	svc    *services.ExpenseService
	logger *log.Logger

	rateLimiter      *ratelimit.Limiter
	securityDetector *security.Detector
	traceMiddleware  *trace.Middleware

	appMetrics   *appMetrics
	shutdownOnce sync.Once
}

// ServerConfig carries the HTTP-level knobs. Zero values select defaults.
type ServerConfig struct {
	Addr               string
	RateLimitPerMinute int
	TrustedProxies     []string
	Logger             *log.Logger
}

// NewServer wires routes and middleware around svc, returning a
// ready-to-run http.Server.
func NewServer(cfg ServerConfig, svc *services.ExpenseService) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	rlConfig := ratelimit.DefaultConfig()
	if cfg.RateLimitPerMinute > 0 {
		rlConfig.RequestsPerMinute = cfg.RateLimitPerMinute
	}

	detector := security.NewDetector()
	for _, cidr := range cfg.TrustedProxies {
		if err := detector.AddTrustedProxy(cidr); err != nil {
			logger.Warn("Ignoring invalid trusted proxy", "cidr", cidr, log.FieldError, err)
		}
	}

	s := &Server{
		svc:              svc,
		logger:           logger,
		rateLimiter:      ratelimit.NewLimiter(rlConfig),
		securityDetector: detector,
		traceMiddleware:  trace.NewMiddleware(logger, detector.ExtractClientIP),
		appMetrics:       &appMetrics{uptime: time.Now()},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/expenses", s.handleChartData)
	mux.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	mux.HandleFunc("DELETE /api/expenses", s.handleDeleteExpense)
	mux.HandleFunc("GET /api/expenses/recent", s.handleRecentExpenses)
	mux.HandleFunc("GET /api/expenses/summary", s.handleSummary)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.handleDeleteExpenseByID)
	mux.HandleFunc("/process.php", s.handleProcess)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limited := s.rateLimiter.Middleware(detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
			log.FieldErrorType, log.ErrorTypeRateLimit,
			log.FieldClientIP, detector.ExtractClientIP(r),
			log.FieldPath, r.URL.Path)
		TooManyRequestsError("Rate limit exceeded").Write(w)
	})

	var handler http.Handler = mux
	handler = limited(handler)
	handler = detector.Middleware(handler)
	handler = s.traceMiddleware.Middleware(handler)
	handler = headers.Middleware(handler)

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Shutdown stops the rate limiter janitor and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
