package server

import (
	"context"
	"net/http"

	"packliste/internal/handlers"
	applog "packliste/internal/log"
	"packliste/internal/metrics"
)

func newRouter(m *metrics.Metrics) http.Handler {
	mux := http.NewServeMux()
	applog.Debug(context.Background(), "registering http routes")

	public := map[string]http.Handler{
		"/healthz": http.HandlerFunc(handlers.Health),
		"/metrics": m.Handler(),
		"/login":   http.HandlerFunc(handlers.Login),
		"/signup":  http.HandlerFunc(handlers.Signup),
		"/logout":  http.HandlerFunc(handlers.Logout),
		"/":        http.HandlerFunc(handlers.Home),
	}
	for path, handler := range public {
		mux.Handle(path, handler)
		applog.Debug(context.Background(), "route registered", "path", path)
	}

	protected := map[string]http.HandlerFunc{
		"/app":                      handlers.Dashboard,
		"/app/{$}":                  handlers.Dashboard,
		"/app/api/categories":       handlers.CategoryResource,
		"/app/api/categories/":      handlers.CategoryResource,
		"/app/api/products":         handlers.ProductResource,
		"/app/api/products/":        handlers.ProductResource,
		"/app/api/recipe-lines":     handlers.RecipeLineResource,
		"/app/api/recipe-lines/":    handlers.RecipeLineResource,
		"/app/api/packaging-units":  handlers.PackagingUnitResource,
		"/app/api/packaging-units/": handlers.PackagingUnitResource,
		"/app/api/events":           handlers.EventResource,
		"/app/api/events/":          handlers.EventResource,
		"/app/api/orders":           handlers.OrderResource,
		"/app/api/orders/":          handlers.OrderResource,
		"/app/api/shopping-list":    handlers.ShoppingList,
		"/app/events/":              handlers.EventPrint,
	}
	for path, handler := range protected {
		mux.Handle(path, handlers.RequireAuthentication(handler))
		applog.Debug(context.Background(), "route registered", "path", path, "protected", true)
	}

	return mux
}
