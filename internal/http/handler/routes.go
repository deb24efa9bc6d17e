package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"

	"memberdocs/internal/http/middleware"
	"memberdocs/internal/service"
)

// Services bundles everything the HTTP surface depends on.
type Services struct {
	DB      *sql.DB
	Members service.MemberService
	Docs    service.DocumentService
	Backup  service.BackupService
	Report  service.ReportService
	Auth    service.AuthService
	Metrics *prometheus.Registry
}

// RegisterRoutes attaches all HTTP routes to the provided Fiber app.
// Handlers stay free of business logic; everything meaningful happens in the
// service layer.
func RegisterRoutes(app *fiber.App, s Services) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", HealthCheck(s.DB))
	app.Get("/healthz", LivenessProbe())
	if s.Metrics != nil {
		app.Get("/metrics", Metrics(s.Metrics))
	}

	// Public auth surface: login plus the password recovery flows.
	auth := app.Group("/auth")
	auth.Post("/login", Login(s.Auth))
	auth.Get("/security-question", SecurityQuestion(s.Auth))
	auth.Post("/verify-security", VerifySecurity(s.Auth))
	auth.Post("/emergency-reset", EmergencyReset(s.Auth))

	guard := middleware.RequireAuth(s.Auth)

	auth.Post("/change-password", guard, ChangePassword(s.Auth))
	auth.Post("/set-security", guard, SetSecurity(s.Auth))

	members := app.Group("/members", guard)
	members.Post("/", CreateMember(s.Members))
	members.Get("/", ListMembers(s.Members))

	// The documents/:id route must be registered before :id so "documents"
	// is not swallowed as a member ID.
	members.Delete("/documents/:id", DeleteDocument(s.Docs))

	members.Get("/:id", GetMember(s.Members))
	members.Put("/:id", UpdateMember(s.Members))
	members.Delete("/:id", DeleteMember(s.Members))
	members.Post("/:id/documents", UploadDocument(s.Docs))
	members.Get("/:id/documents", ListMemberDocuments(s.Docs))
	members.Get("/:id/download-all", DownloadMemberBundle(s.Backup))
	members.Get("/:id/pdf", MemberProfilePDF(s.Report))

	backup := app.Group("/backup", guard)
	backup.Get("/database", ExportDatabase(s.Backup))
	backup.Get("/database-file", DownloadStorageFile(s.Backup))
	backup.Get("/files", DownloadFilesArchive(s.Backup))
	backup.Get("/full", DownloadFullBundle(s.Backup))
}
