package middleware

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Telemetry instruments every request with OpenTelemetry: a server
// span plus the standard http.server.* metrics (duration, in-flight,
// payload sizes).
func Telemetry(next http.Handler) http.Handler {
	return otelhttp.NewMiddleware("contas-api")(next)
}
