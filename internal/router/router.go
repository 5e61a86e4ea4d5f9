package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/genepreston69/uplift-frame/internal/config"
	"github.com/genepreston69/uplift-frame/internal/handlers"
	"github.com/genepreston69/uplift-frame/internal/middleware"
	"github.com/genepreston69/uplift-frame/internal/websocket"
)

type Deps struct {
	Config       *config.Config
	JWT          *middleware.JWTAuth
	Session      *handlers.SessionHandler
	Submissions  *handlers.SubmissionHandler
	Surveys      *handlers.SurveyHandler
	Intake       *handlers.IntakeHandler
	Resources    *handlers.ResourceHandler
	Links        *handlers.ExternalLinkHandler
	Admin        *handlers.AdminHandler
	Hub          *websocket.Hub
}

func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(d.Config.FrontendURL))
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	loginLimiter := middleware.NewRateLimiter(5, time.Minute)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/session", func(r chi.Router) {
			r.Post("/start", d.Session.Start)
			r.Post("/end", d.Session.End)
			r.Post("/activity", d.Session.Activity)
			r.Get("/", d.Session.Get)
		})

		r.Post("/submissions", d.Submissions.Create)

		r.Route("/survey", func(r chi.Router) {
			r.Get("/questions", d.Surveys.Questions)
			r.Post("/", d.Surveys.Submit)
			r.Post("/bypass", d.Surveys.Bypass)
		})

		r.Post("/intake", d.Intake.Submit)

		r.Get("/resources", d.Resources.List)
		r.Get("/external-links", d.Links.List)
		r.Post("/links/check", d.Links.Check)

		r.Get("/ws", d.Hub.HandleWebSocket)

		r.Route("/admin", func(r chi.Router) {
			r.With(loginLimiter.Middleware).Post("/login", d.Admin.Login)

			r.Group(func(r chi.Router) {
				r.Use(d.JWT.Middleware)

				r.Get("/resources", d.Resources.List)
				r.Post("/resources", d.Admin.CreateResource)
				r.Put("/resources/{id}", d.Admin.UpdateResource)
				r.Delete("/resources/{id}", d.Admin.DeleteResource)

				r.Get("/external-links", d.Links.List)
				r.Post("/external-links", d.Admin.CreateLink)
				r.Put("/external-links/{id}", d.Admin.UpdateLink)
				r.Delete("/external-links/{id}", d.Admin.DeleteLink)

				r.Get("/whitelist", d.Admin.ListWhitelist)
				r.Post("/whitelist", d.Admin.AddWhitelistDomain)
				r.Delete("/whitelist/{domain}", d.Admin.RemoveWhitelistDomain)
				r.Post("/whitelist/reset", d.Admin.ResetWhitelist)

				r.Get("/submissions", d.Admin.ListSubmissions)
				r.Get("/surveys", d.Admin.ListSurveys)
				r.Get("/intakes", d.Admin.ListIntakes)
				r.Get("/sessions", d.Admin.ListSessions)
			})
		})
	})

	return r
}
