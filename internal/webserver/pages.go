package webserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/maosdefada/loja/internal/cart"
	"github.com/maosdefada/loja/internal/catalog"
)

func (ws *WebServer) registerPageRoutes() {
	ws.root.GET("/", ws.getStorefront)
	ws.root.GET("/admin", ws.getAdmin)
	ws.root.GET("/admin/login", ws.getLogin)
}

// productView is a rendered catalog card: formatted price plus the carousel
// state for this session.
type productView struct {
	DocID       string
	ID          int64
	Name        string
	Price       string
	Category    string
	Description string
	Featured    bool
	Images      []string
	SlideIndex  int
	Offset      string
	HasCarousel bool
}

func (ws *WebServer) getStorefront(c echo.Context) error {
	appx := GetApp(c)
	st := GetUIState(c)

	products, loadErr := catalog.LoadProducts(c.Request().Context(), appx.Catalog())
	catalog.SortForDisplay(products)

	st.Lock()
	views := make([]productView, 0, len(products))
	for _, p := range products {
		ctrl := st.Carousel(p.ID, len(p.Images))
		views = append(views, productView{
			DocID:       p.DocID,
			ID:          p.ID,
			Name:        p.Name,
			Price:       cart.FormatPrice(p.Price),
			Category:    p.Category,
			Description: p.Description,
			Featured:    p.Featured,
			Images:      p.Images,
			SlideIndex:  ctrl.Index(),
			Offset:      ctrl.Offset(),
			HasCarousel: len(p.Images) > 1,
		})
	}
	count := st.Cart().Count()
	total := st.Cart().Total().StringFixed(2)
	st.Unlock()

	return c.Render(http.StatusOK, "storefront.html", map[string]interface{}{
		"ShopName":   appx.Config().Shop.Name,
		"Products":   views,
		"Categories": catalog.Categories(products),
		"CartCount":  count,
		"CartTotal":  total,
		"LoadError":  loadErr != nil,
	})
}

func (ws *WebServer) getAdmin(c echo.Context) error {
	// session gate: anything but the exact flag bounces to the login page
	if !ws.sessions.IsAdmin(c) {
		return c.Redirect(http.StatusFound, "/admin/login")
	}

	appx := GetApp(c)
	products, loadErr := catalog.LoadProducts(c.Request().Context(), appx.Catalog())

	st := GetUIState(c)
	st.Lock()
	staged := st.Staging().Images()
	st.Unlock()

	return c.Render(http.StatusOK, "admin.html", map[string]interface{}{
		"ShopName":  appx.Config().Shop.Name,
		"Products":  products,
		"Total":     len(products),
		"Staged":    staged,
		"LoadError": loadErr != nil,
	})
}

func (ws *WebServer) getLogin(c echo.Context) error {
	// already flagged in: straight to the panel
	if ws.sessions.IsAdmin(c) {
		return c.Redirect(http.StatusFound, "/admin")
	}
	return c.Render(http.StatusOK, "login.html", map[string]interface{}{
		"ShopName": GetApp(c).Config().Shop.Name,
	})
}
