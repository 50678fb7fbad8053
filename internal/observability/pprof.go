package observability

import (
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/riskibarqy/padel-league/internal/config"
	"github.com/riskibarqy/padel-league/internal/platform/logging"
)

// NewPprofServer returns the debug server, or nil when PPROF_ENABLED is off.
// The caller owns ListenAndServe and Shutdown.
func NewPprofServer(cfg config.Config, logger *logging.Logger) *http.Server {
	if logger == nil {
		logger = logging.Default()
	}

	if !cfg.PprofEnabled {
		logger.Debug("pprof disabled")
		return nil
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	addr := cfg.PprofAddr
	if addr == "" {
		addr = ":6060"
	}

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
