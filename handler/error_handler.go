package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/trialkit/pkg/logger"
)

// Classifier maps a domain error to a status and body. It returns false for
// errors it does not recognize.
type Classifier func(err error) (status int, body ErrorBody, ok bool)

// NewErrorHandler writes {error, code} JSON bodies. Errors are tried against
// each classifier in order, then against *HTTPError; anything else becomes a
// generic 500 so internal details never leak. 4xx are logged at warn, 5xx at error.
func NewErrorHandler(log *slog.Logger, classifiers ...Classifier) ErrorHandler[Context] {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(logger.Component("error_handler"))

	return func(ctx Context, err error) {
		r := ctx.Request()
		status, body := classify(err, classifiers)

		level := slog.LevelError
		if status < http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		log.LogAttrs(r.Context(), level, "request error",
			logger.Error(err),
			logger.StatusCode(status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)

		if rerr := JSON(body, WithStatus(status)).Render(ctx.ResponseWriter(), r); rerr != nil {
			log.ErrorContext(r.Context(), "failed to render error", logger.Error(rerr))
		}
	}
}

func classify(err error, classifiers []Classifier) (int, ErrorBody) {
	for _, c := range classifiers {
		if status, body, ok := c(err); ok {
			return status, body
		}
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status, ErrorBody{Error: httpErr.Message, Code: httpErr.Code}
	}

	return http.StatusInternalServerError, ErrorBody{Error: "internal error", Code: "internal_error"}
}
