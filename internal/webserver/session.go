package webserver

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	sessionName = "loja_session"

	sessionIDKey = "sid"

	// adminFlagKey gates the admin panel; anything but the exact
	// adminFlagValue counts as logged out.
	adminFlagKey   = "adminLogado"
	adminFlagValue = "true"
)

// SessionManager wraps the cookie store holding the session id and the
// admin login flag.
type SessionManager struct {
	store *sessions.CookieStore
	node  *snowflake.Node
}

func NewSessionManager(secret string) *SessionManager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   0, // session cookie, no expiry of its own
	}
	node, err := snowflake.NewNode(3)
	if err != nil {
		panic(err)
	}
	return &SessionManager{store: store, node: node}
}

func (m *SessionManager) session(c echo.Context) *sessions.Session {
	s, _ := m.store.Get(c.Request(), sessionName)
	return s
}

// SessionID returns the caller's session id, minting and saving one on the
// first request.
func (m *SessionManager) SessionID(c echo.Context) string {
	s := m.session(c)
	if sid, ok := s.Values[sessionIDKey].(string); ok && sid != "" {
		return sid
	}
	sid := m.node.Generate().String()
	s.Values[sessionIDKey] = sid
	if err := s.Save(c.Request(), c.Response()); err != nil {
		zap.L().Warn("session: save failed", zap.Error(err))
	}
	return sid
}

// IsAdmin reports whether the session carries the exact logged-in value.
func (m *SessionManager) IsAdmin(c echo.Context) bool {
	s := m.session(c)
	flag, _ := s.Values[adminFlagKey].(string)
	return flag == adminFlagValue
}

func (m *SessionManager) setAdmin(c echo.Context, logged bool) error {
	s := m.session(c)
	if logged {
		s.Values[adminFlagKey] = adminFlagValue
	} else {
		delete(s.Values, adminFlagKey)
	}
	return s.Save(c.Request(), c.Response())
}

func (ws *WebServer) registerSessionRoutes() {
	ws.root.POST("/admin/login", ws.postLogin)
	ws.root.POST("/admin/logout", ws.postLogout)
}

// postLogin compares the submitted password with the configured one. On a
// match the flag is set and the client redirects after a short visual
// confirmation; on a mismatch the client shows a transient error and
// clears the field.
func (ws *WebServer) postLogin(c echo.Context) error {
	var payload struct {
		Senha string `json:"senha" form:"senha"`
	}
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"code": "INVALID_REQUEST", "msg": "Não foi possível ler o formulário",
		})
	}

	if payload.Senha != GetApp(c).Config().Shop.AdminPassword {
		zap.L().Warn("login: wrong password", zap.String("ip", c.RealIP()))
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"code": "WRONG_PASSWORD",
			"msg":  "Senha incorreta! Tente novamente.",
		})
	}

	if err := ws.sessions.setAdmin(c, true); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"code": "SESSION_ERROR", "msg": "Erro ao iniciar a sessão",
		})
	}
	zap.L().Info("login: admin logged in", zap.String("ip", c.RealIP()))
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code":     "OK",
		"redirect": "/admin",
		"delayMs":  1000,
	})
}

// postLogout clears the flag. The confirmation dialog lives on the client.
func (ws *WebServer) postLogout(c echo.Context) error {
	if err := ws.sessions.setAdmin(c, false); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"code": "SESSION_ERROR", "msg": "Erro ao encerrar a sessão",
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code":     "OK",
		"redirect": "/admin/login",
	})
}
