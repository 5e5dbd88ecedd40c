package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/trialkit/binder"
	"github.com/dmitrymomot/trialkit/handler"
)

type greetReq struct {
	Name string `json:"name"`
}

var errTeapot = errors.New("teapot")

func teapotClassifier(err error) (int, handler.ErrorBody, bool) {
	if errors.Is(err, errTeapot) {
		return http.StatusTeapot, handler.ErrorBody{Error: "short and stout", Code: "teapot"}, true
	}
	return 0, handler.ErrorBody{}, false
}

func greet(ctx handler.Context, req greetReq) handler.Response {
	switch req.Name {
	case "teapot":
		return handler.Error(errTeapot)
	case "secret":
		return handler.Error(errors.New("db password is hunter2"))
	case "nil":
		return nil
	}
	return handler.JSON(map[string]string{"hello": req.Name}, handler.WithHeader("X-Greeting", "1"))
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var m map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func serve(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/greet", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h(w, r)
	return w
}

func TestWrap(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&logs, nil))

	h := handler.Wrap(greet,
		handler.WithBinders[handler.Context, greetReq](binder.JSON()),
		handler.WithErrorHandler[handler.Context, greetReq](handler.NewErrorHandler(log, teapotClassifier)),
	)

	t.Run("success", func(t *testing.T) {
		w := serve(h, `{"name":"acme"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Equal(t, "1", w.Header().Get("X-Greeting"))
		assert.Equal(t, "acme", decodeBody(t, w)["hello"])
	})

	t.Run("binding error is 400", func(t *testing.T) {
		w := serve(h, `{"name":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "invalid_request", body["code"])
		assert.Contains(t, body["error"], "invalid JSON")
	})

	t.Run("classified error", func(t *testing.T) {
		w := serve(h, `{"name":"teapot"}`)
		assert.Equal(t, http.StatusTeapot, w.Code)
		assert.Equal(t, "teapot", decodeBody(t, w)["code"])
	})

	t.Run("unknown error is sanitized", func(t *testing.T) {
		w := serve(h, `{"name":"secret"}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "internal error", body["error"])
		assert.NotContains(t, w.Body.String(), "hunter2")
		assert.Contains(t, logs.String(), "hunter2")
	})

	t.Run("nil response", func(t *testing.T) {
		w := serve(h, `{"name":"nil"}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestWrap_DefaultsAndDecorators(t *testing.T) {
	t.Parallel()

	var order []string
	trace := func(name string) handler.Decorator[handler.Context, greetReq] {
		return func(next handler.HandlerFunc[handler.Context, greetReq]) handler.HandlerFunc[handler.Context, greetReq] {
			return func(ctx handler.Context, req greetReq) handler.Response {
				order = append(order, name)
				return next(ctx, req)
			}
		}
	}

	h := handler.Wrap(greet,
		handler.WithBinders[handler.Context, greetReq](binder.JSON()),
		handler.WithDecorators(trace("outer"), trace("inner")),
	)

	w := serve(h, `{"name":"acme"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"outer", "inner"}, order)

	w = serve(h, `{"name":"secret"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal_error", decodeBody(t, w)["code"])
}

func TestHTTPError(t *testing.T) {
	t.Parallel()

	cause := errors.New("bad input")
	err := handler.BadRequest(cause)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, "bad input", err.Error())
	assert.ErrorIs(t, err, cause)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.NewErrorHandler(nil)(handler.NewContext(w, r), handler.MethodNotAllowed)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "method_not_allowed", decodeBody(t, w)["code"])
}
