package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"creativesuite/internal/http/handlers"
	"creativesuite/internal/middleware"
	"creativesuite/internal/proxy"
)

// Options tunes the router-level middleware.
type Options struct {
	AllowedOrigins  []string
	RateLimitPerMin int
}

func NewRouter(app *handlers.App, gemini *proxy.Handler, opts Options) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.Logger(app.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if opts.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
	}

	r.Get("/v1/healthz", app.Health)

	// Provider boundary. Everything generative funnels through this one
	// endpoint so the credential never leaves the server.
	r.Post("/api/gemini", gemini.ServeHTTP)

	r.Route("/session", func(r chi.Router) {
		r.Post("/unlock", app.Unlock)
		r.Post("/login", app.Login)
		r.Post("/logout", app.Logout)
		r.Get("/resume", app.Resume)
		r.Get("/prefs", app.GetPrefs)
		r.Put("/prefs", app.PutPrefs)
	})

	// Everything below honors maintenance mode; admins pass through.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Maintenance(app.Store, app.Auth))

		r.Get("/me", app.Me)
		r.Put("/me", app.UpdateProfile)

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", app.ListProjects)
			r.Post("/", app.CreateProject)
			r.Get("/{id}", app.GetProject)
			r.Put("/{id}", app.UpdateProject)
			r.Delete("/{id}", app.DeleteProject)
			r.Post("/{id}/items", app.AttachItem)
			r.Post("/{id}/tasks", app.AddTask)
			r.Put("/{id}/tasks/{taskId}", app.UpdateTask)
			r.Delete("/{id}/tasks/{taskId}", app.DeleteTask)
		})

		r.Route("/documents", func(r chi.Router) {
			r.Get("/", app.ListDocuments)
			r.Post("/", app.CreateDocument)
			r.Get("/{id}", app.GetDocument)
			r.Put("/{id}", app.UpdateDocument)
			r.Delete("/{id}", app.DeleteDocument)
			r.Post("/{id}/studio", app.ApplyStudioAction)
			r.Post("/{id}/restore/{version}", app.RestoreVersion)
			r.Post("/{id}/novel", app.WriteNovel)
		})

		r.Route("/chats", func(r chi.Router) {
			r.Get("/", app.ListChats)
			r.Post("/", app.StartChat)
			r.Get("/{id}", app.GetChat)
			r.Post("/{id}/messages", app.SendChat)
		})

		r.Route("/generate", func(r chi.Router) {
			r.Post("/images", app.GenerateImages)
			r.Post("/video", app.GenerateVideo)
			r.Post("/sandbox", app.GenerateSandbox)
			r.Post("/sandbox/export", app.ExportSandbox)
			r.Post("/palette", app.GeneratePalette)
			r.Post("/gradient", app.GenerateGradient)
			r.Post("/assistant", app.RunAssistant)
		})

		r.Route("/quizzes", func(r chi.Router) {
			r.Get("/", app.ListQuizzes)
			r.Post("/", app.GenerateQuiz)
			r.Post("/{id}/score", app.ScoreQuiz)
		})

		r.Route("/gallery", func(r chi.Router) {
			r.Get("/", app.ListGallery)
			r.Post("/{id}/like", app.LikeGalleryItem)
		})

		r.Route("/blog", func(r chi.Router) {
			r.Get("/", app.ListBlogPosts)
			r.Post("/", app.CreateBlogPost)
			r.Get("/{id}", app.GetBlogPost)
			r.Put("/{id}", app.UpdateBlogPost)
			r.Delete("/{id}", app.DeleteBlogPost)
		})

		r.Get("/faqs", app.ListFAQs)
		r.Post("/tickets", app.CreateTicket)
		r.Get("/settings", app.GetSettings)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/users", app.ListUsers)
			r.Put("/users/{id}/status", app.SetUserStatus)
			r.Put("/users/{id}/premium", app.SetUserPremium)
			r.Put("/users/{id}/role", app.SetUserRole)
			r.Get("/activity", app.Activity)
			r.Put("/settings", app.UpdateSettings)
			r.Put("/faqs", app.SetFAQs)
			r.Get("/tickets", app.ListTickets)
			r.Put("/tickets/{id}/close", app.CloseTicket)
		})
	})

	return r
}
