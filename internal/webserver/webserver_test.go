package webserver

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/maosdefada/loja/config"
	"github.com/maosdefada/loja/internal/app"
	"github.com/maosdefada/loja/internal/catalog"
	"github.com/maosdefada/loja/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		System: config.SystemConfig{Appid: "LojaTest", Location: "America/Sao_Paulo"},
		Web:    config.WebConfig{Host: "127.0.0.1", Port: 0, Secret: "test-secret"},
		Shop: config.ShopConfig{
			Name:          "Mãos de Fada",
			WhatsappPhone: "5586995630268",
			AdminPassword: "maosdefada2026",
		},
	}
}

// testClient keeps cookies between requests and never follows redirects,
// so the session gates can be asserted directly.
type testClient struct {
	t    *testing.T
	base string
	http *http.Client
}

func newTestClient(t *testing.T, store catalog.Store) (*testClient, func()) {
	application := app.NewApplication(testConfig())
	application.OverrideCatalog(store)
	ws := Init(application)

	srv := httptest.NewServer(ws.root)
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &testClient{
		t:    t,
		base: srv.URL,
		http: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
	return client, srv.Close
}

func (c *testClient) get(path string) *http.Response {
	resp, err := c.http.Get(c.base + path)
	require.NoError(c.t, err)
	return resp
}

func (c *testClient) postJSON(path string, body interface{}) (*http.Response, map[string]interface{}) {
	raw, err := jsoniter.Marshal(body)
	require.NoError(c.t, err)
	resp, err := c.http.Post(c.base+path, "application/json", bytes.NewReader(raw))
	require.NoError(c.t, err)
	var out map[string]interface{}
	_ = jsoniter.NewDecoder(resp.Body).Decode(&out)
	resp.Body.Close()
	return resp, out
}

func (c *testClient) login(password string) (*http.Response, map[string]interface{}) {
	return c.postJSON("/admin/login", map[string]string{"senha": password})
}

func seedProduct(t *testing.T, store catalog.Store, name string, price float64, images ...string) *domain.Product {
	p := &domain.Product{
		Name:     name,
		Price:    price,
		Category: "amigurumis",
		Images:   domain.ImageList(images),
	}
	require.NoError(t, store.Add(context.Background(), p))
	return p
}

func TestAdminGateRedirects(t *testing.T) {
	client, stop := newTestClient(t, catalog.NewMemoryStore())
	defer stop()

	resp := client.get("/admin")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin/login", resp.Header.Get("Location"))

	resp = client.get("/admin/login")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLoginWrongPassword(t *testing.T) {
	client, stop := newTestClient(t, catalog.NewMemoryStore())
	defer stop()

	resp, body := client.login("senha-errada")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "WRONG_PASSWORD", body["code"])

	// still locked out
	resp = client.get("/admin")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestLoginAndLogout(t *testing.T) {
	client, stop := newTestClient(t, catalog.NewMemoryStore())
	defer stop()

	resp, body := client.login("maosdefada2026")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", body["code"])
	assert.Equal(t, "/admin", body["redirect"])

	resp = client.get("/admin")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// logged-in sessions skip the login page
	resp = client.get("/admin/login")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin", resp.Header.Get("Location"))

	resp, body = client.postJSON("/admin/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/admin/login", body["redirect"])

	resp = client.get("/admin")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestApiGateRequiresLogin(t *testing.T) {
	client, stop := newTestClient(t, catalog.NewMemoryStore())
	defer stop()

	ApiGET("/ping", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"code": "OK"})
	})

	resp := client.get("/admin/api/ping")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = client.login("maosdefada2026")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = client.get("/admin/api/ping")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStorefrontRenders(t *testing.T) {
	store := catalog.NewMemoryStore()
	seedProduct(t, store, "Touca de Lã", 45.5, "data:image/jpeg;base64,AAA")
	client, stop := newTestClient(t, store)
	defer stop()

	resp := client.get("/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCartFlow(t *testing.T) {
	store := catalog.NewMemoryStore()
	p := seedProduct(t, store, "Touca de Lã", 10, "data:image/jpeg;base64,AAA")
	client, stop := newTestClient(t, store)
	defer stop()

	resp, body := client.postJSON("/cart/add", map[string]interface{}{
		"docId": p.DocID, "quantidade": 2,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2, body["count"])
	assert.Equal(t, "20.00", body["total"])

	resp, body = client.postJSON("/cart/change", map[string]interface{}{
		"index": 0, "delta": 1,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 3, body["count"])

	// removal demands explicit confirmation
	resp, body = client.postJSON("/cart/remove", map[string]interface{}{"index": 0})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "CONFIRM_REQUIRED", body["code"])

	resp, body = client.postJSON("/cart/remove", map[string]interface{}{
		"index": 0, "confirmado": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 0, body["count"])
}

func TestCartAddUnknownProduct(t *testing.T) {
	client, stop := newTestClient(t, catalog.NewMemoryStore())
	defer stop()

	resp, body := client.postJSON("/cart/add", map[string]interface{}{"docId": "nope"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestCheckout(t *testing.T) {
	store := catalog.NewMemoryStore()
	p := seedProduct(t, store, "Tapete Redondo", 120, "data:image/jpeg;base64,AAA")
	client, stop := newTestClient(t, store)
	defer stop()

	// empty cart is blocked
	resp, body := client.postJSON("/checkout", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "EMPTY_CART", body["code"])

	_, _ = client.postJSON("/cart/add", map[string]interface{}{
		"docId": p.DocID, "quantidade": 1,
	})

	resp, body = client.postJSON("/checkout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	link, _ := body["link"].(string)
	assert.Contains(t, link, "https://wa.me/5586995630268?text=")
	assert.Equal(t, "120.00", body["total"])
}

func TestCarouselEndpoints(t *testing.T) {
	store := catalog.NewMemoryStore()
	p := seedProduct(t, store, "Bolsa de Crochê", 80,
		"data:a", "data:b", "data:c")
	client, stop := newTestClient(t, store)
	defer stop()

	// prime the session controller by rendering the storefront
	resp := client.get("/")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// drag left past the threshold advances a slide
	resp, body := client.postJSON("/carousel/1/release", map[string]interface{}{"dx": -80.0})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["index"])
	assert.Equal(t, "-100%", body["offset"])

	// short drag snaps back
	resp, body = client.postJSON("/carousel/1/release", map[string]interface{}{"dx": 20.0})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["index"])

	// dot tap jumps straight to a slide
	resp, body = client.postJSON("/carousel/1/jump", map[string]interface{}{"index": 2})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2, body["index"])

	// unknown product id
	resp, _ = client.postJSON("/carousel/999/release", map[string]interface{}{"dx": -80.0})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_ = p
}

func TestStaticAssetsServeUIBehaviors(t *testing.T) {
	client, stop := newTestClient(t, catalog.NewMemoryStore())
	defer stop()

	resp := client.get("/static/admin.js")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	adminJS := string(raw)
	// the save button stays disabled for the whole attempt and is always
	// re-enabled, so a double-click cannot create two products
	assert.Contains(t, adminJS, "btnSalvar.disabled = true")
	assert.Contains(t, adminJS, "btnSalvar.disabled = false")
	assert.Contains(t, adminJS, "} finally {")
	// logout asks for confirmation and follows the JSON redirect instead
	// of landing on the raw response body
	assert.Contains(t, adminJS, `confirm("Deseja sair do painel?")`)
	assert.Contains(t, adminJS, `fetch("/admin/logout"`)

	resp = client.get("/static/login.js")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	// the wrong-password message auto-hides after a short delay
	assert.Contains(t, string(raw), `setTimeout(() => erro.classList.add("oculto"), 3000)`)
}

type brokenStore struct{ catalog.Store }

func (brokenStore) List(context.Context) ([]domain.Product, error) {
	return nil, errors.New("permission denied")
}

func TestCarouselStoreErrorIsNot404(t *testing.T) {
	client, stop := newTestClient(t, brokenStore{})
	defer stop()

	resp, body := client.postJSON("/carousel/1/release", map[string]interface{}{"dx": -80.0})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "STORE_ERROR", body["code"])

	resp, body = client.postJSON("/carousel/1/jump", map[string]interface{}{"index": 1})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "STORE_ERROR", body["code"])
}

func TestSessionIsolation(t *testing.T) {
	store := catalog.NewMemoryStore()
	p := seedProduct(t, store, "Touca de Lã", 10, "data:a")
	clientA, stop := newTestClient(t, store)
	defer stop()

	_, body := clientA.postJSON("/cart/add", map[string]interface{}{
		"docId": p.DocID, "quantidade": 1,
	})
	assert.EqualValues(t, 1, body["count"])

	// a fresh cookie jar is a fresh session with an empty cart
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	clientB := &testClient{t: t, base: clientA.base, http: &http.Client{Jar: jar}}
	_, body = clientB.postJSON("/cart/add", map[string]interface{}{
		"docId": p.DocID, "quantidade": 1,
	})
	assert.EqualValues(t, 1, body["count"])
}
