package calculator

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts all calculator endpoints onto the given router
// under the /calculator prefix.
func RegisterRoutes(r chi.Router, api *API) {
	r.Route("/calculator", func(r chi.Router) {
		r.Post("/evaluate", api.Evaluate)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", api.CreateSession)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", api.GetSession)
				r.Delete("/", api.DeleteSession)

				r.Post("/digit", api.Digit)
				r.Post("/decimal", api.Decimal)
				r.Post("/operator", api.Operator)
				r.Post("/equals", api.Equals)
				r.Post("/clear", api.Clear)
				r.Post("/keys", api.Keys)
			})
		})
	})
}
