package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/harborlight/foundation-backend/internal/handlers"
	"github.com/harborlight/foundation-backend/internal/metrics"
	"github.com/harborlight/foundation-backend/internal/middleware"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Donation   *handlers.DonationHandler
	Webhook    *handlers.WebhookHandler
	Content    *handlers.ContentHandler
	Newsletter *handlers.NewsletterHandler
	Submission *handlers.SubmissionHandler
	Task       *handlers.TaskHandler
	User       *handlers.UserHandler
	Health     *handlers.HealthHandler
}

// Setup mounts every route. Each back-office endpoint declares its own
// minimum role, so the authorization contract is readable here alone.
func Setup(app *fiber.App, sessions *session.Store, h Handlers) {
	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)

	// Auth — login/register get a stricter limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/logout", middleware.RequireAuth(sessions), h.Auth.Logout)
	auth.Get("/me", middleware.RequireAuth(sessions), h.Auth.Me)
	auth.Post("/change-password", middleware.RequireAuth(sessions), h.Auth.ChangePassword)

	// Public site content
	api.Get("/news", h.Content.ListNews)
	api.Get("/news/:id", h.Content.GetNews)
	api.Get("/events", h.Content.ListEvents)
	api.Get("/testimonials", h.Content.ListTestimonials)
	api.Get("/metrics-impact", h.Content.ListImpactMetrics)
	api.Get("/documents", h.Content.ListDocuments)
	api.Post("/contact", h.Submission.Create)
	api.Post("/newsletter/subscribe", h.Newsletter.Subscribe)
	api.Get("/newsletter/unsubscribe", h.Newsletter.Unsubscribe)

	// Donations — checkout is public, reconciliation is gateway-signed
	api.Post("/create-payment-intent", h.Donation.CreatePaymentIntent)
	api.Post("/webhooks/stripe", h.Webhook.HandleStripe)

	// Staff portal
	staff := api.Group("/staff")
	staff.Get("/tasks", middleware.RequireStaff(sessions), h.Task.List)
	staff.Patch("/tasks/:id/status", middleware.RequireStaff(sessions), h.Task.UpdateStatus)

	// Back office
	admin := api.Group("/admin")

	// Staff-or-higher: content, submissions, donations view
	admin.Get("/news", middleware.RequireAdminOrStaff(sessions), h.Content.ListNews)
	admin.Post("/news", middleware.RequireAdminOrStaff(sessions), h.Content.CreateNews)
	admin.Put("/news/:id", middleware.RequireAdminOrStaff(sessions), h.Content.UpdateNews)
	admin.Delete("/news/:id", middleware.RequireAdminOrStaff(sessions), h.Content.DeleteNews)
	admin.Post("/events", middleware.RequireAdminOrStaff(sessions), h.Content.CreateEvent)
	admin.Put("/events/:id", middleware.RequireAdminOrStaff(sessions), h.Content.UpdateEvent)
	admin.Delete("/events/:id", middleware.RequireAdminOrStaff(sessions), h.Content.DeleteEvent)
	admin.Post("/testimonials", middleware.RequireAdminOrStaff(sessions), h.Content.CreateTestimonial)
	admin.Put("/testimonials/:id", middleware.RequireAdminOrStaff(sessions), h.Content.UpdateTestimonial)
	admin.Patch("/testimonials/:id/approval", middleware.RequireAdminOrStaff(sessions), h.Content.ApproveTestimonial)
	admin.Delete("/testimonials/:id", middleware.RequireAdminOrStaff(sessions), h.Content.DeleteTestimonial)
	admin.Get("/submissions", middleware.RequireAdminOrStaff(sessions), h.Submission.List)
	admin.Patch("/submissions/:id/read", middleware.RequireAdminOrStaff(sessions), h.Submission.MarkRead)
	admin.Get("/newsletter", middleware.RequireAdminOrStaff(sessions), h.Newsletter.List)
	admin.Get("/donations", middleware.RequireAdminOrStaff(sessions), h.Donation.List)
	admin.Get("/donations/summary", middleware.RequireAdminOrStaff(sessions), h.Donation.Summary)

	// Admin-or-higher: impact metrics, documents, tasks, submissions delete, users
	admin.Post("/metrics-impact", middleware.RequireAdmin(sessions), h.Content.CreateImpactMetric)
	admin.Put("/metrics-impact/:id", middleware.RequireAdmin(sessions), h.Content.UpdateImpactMetric)
	admin.Delete("/metrics-impact/:id", middleware.RequireAdmin(sessions), h.Content.DeleteImpactMetric)
	admin.Post("/documents", middleware.RequireAdmin(sessions), h.Content.CreateDocument)
	admin.Put("/documents/:id", middleware.RequireAdmin(sessions), h.Content.UpdateDocument)
	admin.Delete("/documents/:id", middleware.RequireAdmin(sessions), h.Content.DeleteDocument)
	admin.Post("/tasks", middleware.RequireAdmin(sessions), h.Task.Create)
	admin.Delete("/tasks/:id", middleware.RequireAdmin(sessions), h.Task.Delete)
	admin.Delete("/submissions/:id", middleware.RequireAdmin(sessions), h.Submission.Delete)
	admin.Get("/users", middleware.RequireAdmin(sessions), h.User.List)
	admin.Patch("/users/:id", middleware.RequireAdmin(sessions), h.User.Update)
}
