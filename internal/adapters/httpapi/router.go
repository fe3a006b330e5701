package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/armywelfare/welfare-api/internal/domain"
)

type RouterOptions struct {
	// AuthMiddleware guards every route outside the public set. It must
	// attach a Principal to the request context.
	AuthMiddleware func(http.Handler) http.Handler
}

// NewRouter constructs the API HTTP router.
func NewRouter(s *Server, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Public.
	r.Get("/schemes", s.listSchemes)
	r.Get("/schemes/{id}", s.getScheme)
	r.Post("/schemes/eligible", s.eligibleSchemes)
	r.Post("/chatbot/eligible-schemes", s.rosterEligible)
	r.Post("/api/chat", s.chatReply)
	r.Post("/auth/register", s.register)
	r.Post("/auth/login", s.login)

	r.Group(func(r chi.Router) {
		if opts.AuthMiddleware != nil {
			r.Use(opts.AuthMiddleware)
		}

		r.Get("/me", s.me)
		r.Put("/me/profile", s.updateMyProfile)
		r.Get("/me/eligible-schemes", s.myEligibleSchemes)
		r.Get("/dashboard", s.getDashboard)

		r.Post("/grievances", s.submitGrievance)
		r.Get("/grievances", s.listGrievances)
		r.Get("/grievances/user/{userId}", s.listUserGrievances)
		r.Get("/grievances/{id}", s.getGrievance)
		r.Patch("/grievances/{id}/status", s.updateGrievanceStatus)

		r.Post("/marketplace", s.postListing)
		r.Get("/marketplace", s.listListings)
		r.Delete("/marketplace/{id}", s.deleteListing)

		r.Post("/emergency", s.addContact)
		r.Get("/emergency", s.listContacts)
		r.Get("/emergency/user/{userId}", s.listUserContacts)
		r.Delete("/emergency/{id}", s.deleteContact)

		r.Group(func(r chi.Router) {
			r.Use(requireRole(domain.RoleAdmin))
			r.Post("/schemes", s.createScheme)
			r.Put("/schemes/{id}", s.updateScheme)
			r.Delete("/schemes/{id}", s.deleteScheme)
			r.Get("/api/chat/probe", s.chatProbe)
		})
	})
	return r
}
