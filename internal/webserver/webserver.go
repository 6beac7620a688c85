package webserver

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/maosdefada/loja/internal/app"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

const (
	appxContextKey  = "loja_appx"
	stateContextKey = "loja_uistate"
)

var server *WebServer

// WebServer drives the storefront pages, the session-scoped UI endpoints
// and the admin API group.
type WebServer struct {
	root     *echo.Echo
	appx     app.AppContext
	sessions *SessionManager
	registry *StateRegistry
}

// Init builds the web server and registers the public routes. Admin API
// routes are registered afterwards by the adminapi package through the
// Api* helpers.
func Init(appx app.AppContext) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	t, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		panic(err)
	}
	e.Renderer = &templateRenderer{templates: t}

	ws := &WebServer{
		root:     e,
		appx:     appx,
		sessions: NewSessionManager(appx.Config().Web.Secret),
		registry: NewStateRegistry(),
	}

	e.Use(middleware.Recover())
	e.Use(ws.contextMiddleware)

	e.StaticFS("/static", echo.MustSubFS(staticFS, "static"))

	ws.registerPageRoutes()
	ws.registerCartRoutes()
	ws.registerCarouselRoutes()
	ws.registerSessionRoutes()

	// idle session UI state is this app's "cart cleared on reload"
	if sched := appx.Scheduler(); sched != nil {
		_, err := sched.AddFunc("@every 15m", func() {
			if n := ws.registry.Sweep(4 * time.Hour); n > 0 {
				zap.L().Info("webserver: swept idle sessions", zap.Int("count", n))
			}
		})
		if err != nil {
			zap.S().Errorf("init session sweeper error %s", err.Error())
		}
	}

	server = ws
	return ws
}

// Root exposes the echo instance, mainly for handler tests.
func (ws *WebServer) Root() *echo.Echo {
	return ws.root
}

// Listen starts serving and blocks.
func Listen() error {
	cfg := server.appx.Config()
	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	zap.S().Infof("web server listening on %s", addr)
	return server.root.Start(addr)
}

// Shutdown stops the echo server.
func Shutdown() {
	if server != nil {
		_ = server.root.Close()
	}
}

// contextMiddleware makes the application context and the caller's session
// UI state reachable from every handler.
func (ws *WebServer) contextMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Set(appxContextKey, ws.appx)
		sid := ws.sessions.SessionID(c)
		c.Set(stateContextKey, ws.registry.Get(sid))
		return next(c)
	}
}

// GetApp returns the application context injected by the middleware.
func GetApp(c echo.Context) app.AppContext {
	return c.Get(appxContextKey).(app.AppContext)
}

// GetUIState returns the caller's session UI state.
func GetUIState(c echo.Context) *UIState {
	return c.Get(stateContextKey).(*UIState)
}

// ApiGET registers an admin-gated API route.
func ApiGET(path string, h echo.HandlerFunc) {
	server.root.GET("/admin/api"+path, h, server.apiGate)
}

func ApiPOST(path string, h echo.HandlerFunc) {
	server.root.POST("/admin/api"+path, h, server.apiGate)
}

func ApiPUT(path string, h echo.HandlerFunc) {
	server.root.PUT("/admin/api"+path, h, server.apiGate)
}

func ApiDELETE(path string, h echo.HandlerFunc) {
	server.root.DELETE("/admin/api"+path, h, server.apiGate)
}

// apiGate rejects admin API calls without the session flag.
func (ws *WebServer) apiGate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !ws.sessions.IsAdmin(c) {
			return c.JSON(http.StatusUnauthorized, map[string]interface{}{
				"code": "NOT_LOGGED_IN",
				"msg":  "Faça login para acessar o painel",
			})
		}
		return next(c)
	}
}

type templateRenderer struct {
	templates *template.Template
}

func (r *templateRenderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
