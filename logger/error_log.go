package logger

import (
	"fmt"
	"net/http"
	"runtime"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by the auth, request-id and category middleware. They are
// repeated here because middleware imports this package.
var requestContextKeys = []string{"request_id", "user_id", "user_role", "department_id", "form_type"}

// LogHTTPError logs a failed request with its identity and routing context.
// Server errors also carry a stack trace (outside production) and the
// request headers with credentials redacted.
func LogHTTPError(c *gin.Context, err error, statusCode int, message string) {
	fields := []zap.Field{
		zap.Error(err),
		zap.String("error_type", errorTypeName(err)),
		zap.Int("status_code", statusCode),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("client_ip", c.ClientIP()),
	}
	for _, key := range requestContextKeys {
		if v, ok := c.Get(key); ok {
			fields = append(fields, zap.Any(key, v))
		}
	}

	log := GetLogger().Desugar()
	if statusCode < http.StatusInternalServerError {
		log.Warn(message, fields...)
		return
	}

	fields = append(fields, zap.Any("headers", filterSensitiveHeaders(c.Request.Header)))
	if !isProduction() {
		fields = append(fields, zap.String("stack_trace", stackTrace(3)))
	}
	log.Error(message, fields...)
}

// errorTypeName returns the unqualified Go type of err, e.g. "AppError".
func errorTypeName(err error) string {
	if err == nil {
		return ""
	}
	name := strings.TrimPrefix(fmt.Sprintf("%T", err), "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}

func stackTrace(skip int) string {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var b strings.Builder
	for {
		frame, more := frames.Next()
		if !strings.HasPrefix(frame.Function, "runtime.") {
			b.WriteString(frame.Function)
			b.WriteString("\n\t")
			b.WriteString(frame.File)
			b.WriteString(":")
			b.WriteString(strconv.Itoa(frame.Line))
			b.WriteString("\n")
		}
		if !more {
			break
		}
	}
	return b.String()
}

func filterSensitiveHeaders(headers http.Header) map[string]string {
	filtered := make(map[string]string, len(headers))
	for name, values := range headers {
		lower := strings.ToLower(name)
		if lower == "authorization" || lower == "cookie" ||
			strings.Contains(lower, "token") || strings.Contains(lower, "key") || strings.Contains(lower, "secret") {
			filtered[name] = "[REDACTED]"
			continue
		}
		if len(values) > 0 {
			filtered[name] = values[0]
		}
	}
	return filtered
}
