package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"toonranks/internal/http/middleware"
	"toonranks/internal/ratelimit"
	"toonranks/internal/service"
)

// Deps carries everything the routes need. Google may be nil, which disables
// the redirect flow; limiters may be nil, which disables throttling.
type Deps struct {
	DB       *sql.DB
	Gatherer prometheus.Gatherer

	Auth          service.AuthService
	Google        GoogleCodeFlow
	Series        service.SeriesService
	SeriesDetails service.SeriesDetailService
	ReadingLists  service.ReadingListService
	Issues        service.IssueService
	Forum         service.ForumService
	ForumMedia    service.ForumMediaService
	Sitemaps      service.SitemapService

	SignupLimiter *ratelimit.Limiter
	LoginLimiter  *ratelimit.Limiter
	ResendLimiter *ratelimit.Limiter
}

func limited(l *ratelimit.Limiter) fiber.Handler {
	if l == nil {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return middleware.RateLimit(l)
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())
	if d.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	authed := middleware.RequireAuth(d.Auth)
	optional := middleware.OptionalAuth(d.Auth)
	admin := middleware.RequireAdmin()

	a := app.Group("/auth")
	a.Post("/signup", limited(d.SignupLimiter), Signup(d.Auth))
	a.Post("/login", limited(d.LoginLimiter), Login(d.Auth))
	a.Post("/google-oauth", GoogleSignIn(d.Auth))
	if d.Google != nil {
		a.Get("/google/login", GoogleLogin(d.Google))
		a.Get("/google/callback", GoogleCallback(d.Google, d.Auth))
	}
	a.Get("/verify-email", VerifyEmail(d.Auth))
	a.Post("/resend-verification", limited(d.ResendLimiter), ResendVerification(d.Auth))
	a.Get("/me", authed, Me())

	s := app.Group("/series")
	s.Get("/rankings", Rankings(d.Series))
	s.Get("/search", SearchSeries(d.Series))
	s.Get("/summary/:id", SeriesSummary(d.Series))
	s.Get("/", ListSeries(d.Series))
	s.Post("/", authed, admin, CreateSeries(d.Series))
	s.Put("/:id", authed, admin, UpdateSeries(d.Series))
	s.Delete("/:id", authed, admin, DeleteSeries(d.Series))

	sd := app.Group("/series-details")
	sd.Post("/", authed, admin, UpsertSeriesDetail(d.SeriesDetails))
	sd.Post("/:series_id/vote", authed, VoteSeries(d.SeriesDetails))
	sd.Get("/:series_id", optional, GetSeriesDetail(d.SeriesDetails))

	rl := app.Group("/reading-lists", authed)
	rl.Get("/me", MyReadingLists(d.ReadingLists))
	rl.Post("/", CreateReadingList(d.ReadingLists))
	rl.Post("/:id/items", AddToReadingList(d.ReadingLists))
	rl.Delete("/:id/items/:series_id", RemoveFromReadingList(d.ReadingLists))
	rl.Delete("/:id", DeleteReadingList(d.ReadingLists))

	is := app.Group("/issues")
	is.Post("/report", ReportIssue(d.Issues))
	is.Get("/", ListIssues(d.Issues))
	is.Patch("/:id/status", authed, admin, UpdateIssueStatus(d.Issues))
	is.Delete("/:id", authed, admin, DeleteIssue(d.Issues))

	f := app.Group("/forum")
	f.Get("/threads", optional, ListThreads(d.Forum))
	f.Post("/threads", authed, CreateThread(d.Forum))
	f.Get("/threads/:id", optional, GetThread(d.Forum))
	f.Patch("/threads/:id", authed, UpdateThread(d.Forum))
	f.Delete("/threads/:id", authed, DeleteThread(d.Forum))
	f.Patch("/threads/:id/settings", authed, UpdateThreadSettings(d.Forum))
	f.Patch("/threads/:id/lock", authed, admin, LockThread(d.Forum))
	f.Post("/threads/:id/posts", authed, CreatePost(d.Forum))
	f.Patch("/threads/:id/posts/:post_id", authed, UpdatePost(d.Forum))
	f.Delete("/threads/:id/posts/:post_id", authed, DeletePost(d.Forum))
	f.Delete("/threads/:id/posts/:post_id/mine", authed, DeletePost(d.Forum))
	f.Get("/series-search", ForumSeriesSearch(d.Forum))
	f.Post("/media/upload", authed, UploadForumMedia(d.ForumMedia))

	app.Get("/sitemap.xml", SitemapIndex(d.Sitemaps))
	app.Get("/sitemap-static.xml", StaticSitemap(d.Sitemaps))
	app.Get("/sitemaps/forum-:page.xml", ForumSitemap(d.Sitemaps))
}
