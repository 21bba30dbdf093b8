package router

import "net/http"

type RouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler)
}

func New(
	authController RouteRegistrar,
	organizationController RouteRegistrar,
	accountController RouteRegistrar,
	transactionController RouteRegistrar,
	activityController RouteRegistrar,
	taskController RouteRegistrar,
	authMiddleware func(http.Handler) http.Handler,
) *http.ServeMux {
	mux := http.NewServeMux()
	registerSwaggerRoutes(mux)

	for _, registrar := range []RouteRegistrar{
		authController,
		organizationController,
		accountController,
		transactionController,
		activityController,
		taskController,
	} {
		if registrar != nil {
			registrar.RegisterRoutes(mux, authMiddleware)
		}
	}

	return mux
}
