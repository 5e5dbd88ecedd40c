// Package handler turns typed request handlers into http.HandlerFunc values.
//
//	type createReq struct {
//		Provider string `path:"provider"`
//		Name     string `json:"name"`
//	}
//
//	h := handler.Wrap(func(ctx handler.Context, req createReq) handler.Response {
//		return handler.JSON(map[string]string{"hello": req.Name})
//	},
//		handler.WithBinders[handler.Context, createReq](binder.JSON(), binder.Path(chi.URLParam)),
//		handler.WithErrorHandler[handler.Context, createReq](handler.NewErrorHandler(log, classify)),
//	)
//
// Binding failures are reported as 400 through the error handler. Handlers
// return handler.Error(err) to let the error handler pick the status.
package handler
