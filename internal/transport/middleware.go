package transport

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const censored = "$censored"

var censoredFields = []string{"password"}

func newRequestID() string {
	return uuid.New().String()
}

func requestLogger(logger *zap.SugaredLogger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				fields = append(fields, "error", v.Error)
			}
			logger.Infow("request", fields...)
			return nil
		},
	})
}

// bodyDump logs request and response bodies at debug level only.
func bodyDump(logger *zap.SugaredLogger) echo.MiddlewareFunc {
	return middleware.BodyDumpWithConfig(middleware.BodyDumpConfig{
		Skipper: func(echo.Context) bool {
			return !logger.Desugar().Core().Enabled(zap.DebugLevel)
		},
		Handler: func(c echo.Context, reqBody, resBody []byte) {
			logger.Debugw("body",
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
				"request", string(censorBody(reqBody)),
				"response", string(resBody),
			)
		},
	})
}

// censorBody replaces sensitive top level fields of a JSON object. Anything else is returned as is.
func censorBody(body []byte) []byte {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return body
	}

	changed := false
	for _, name := range censoredFields {
		if _, ok := fields[name]; ok {
			fields[name] = json.RawMessage(`"` + censored + `"`)
			changed = true
		}
	}
	if !changed {
		return body
	}

	out, err := json.Marshal(fields)
	if err != nil {
		return body
	}
	return out
}
