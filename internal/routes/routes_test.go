package routes

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/harborlight/foundation-backend/internal/handlers"
)

func TestSetupRegistersOperationRoutes(t *testing.T) {
	app := fiber.New()
	Setup(app, session.New(), Handlers{
		Auth:       handlers.NewAuthHandler(nil, nil),
		Donation:   handlers.NewDonationHandler(nil),
		Webhook:    handlers.NewWebhookHandler(nil, ""),
		Content:    handlers.NewContentHandler(nil),
		Newsletter: handlers.NewNewsletterHandler(nil),
		Submission: handlers.NewSubmissionHandler(nil),
		Task:       handlers.NewTaskHandler(nil),
		User:       handlers.NewUserHandler(nil),
		Health:     handlers.NewHealthHandler(),
	})

	registered := map[string]bool{}
	for _, r := range app.GetRoutes() {
		registered[r.Method+" "+r.Path] = true
	}

	want := []string{
		"POST /api/auth/login",
		"POST /api/create-payment-intent",
		"POST /api/webhooks/stripe",
		"PUT /api/admin/news/:id",
		"PUT /api/admin/events/:id",
		"PUT /api/admin/testimonials/:id",
		"PATCH /api/admin/testimonials/:id/approval",
		"PUT /api/admin/metrics-impact/:id",
		"PUT /api/admin/documents/:id",
		"PATCH /api/admin/users/:id",
	}
	for _, route := range want {
		if !registered[route] {
			t.Errorf("route %s is not registered", route)
		}
	}
}
