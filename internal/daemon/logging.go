package daemon

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// WithAccessLog wraps next with zerolog request logging
func WithAccessLog(next http.Handler, log zerolog.Logger) http.Handler {
	h := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("latency", duration).
			Msg("request")
	})(next)
	h = hlog.UserAgentHandler("user_agent")(h)
	h = hlog.RemoteAddrHandler("ip")(h)
	return hlog.NewHandler(log)(h)
}
