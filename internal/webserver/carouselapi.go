package webserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/maosdefada/loja/internal/catalog"
	"github.com/spf13/cast"
)

func (ws *WebServer) registerCarouselRoutes() {
	ws.root.POST("/carousel/:id/release", ws.postCarouselRelease)
	ws.root.POST("/carousel/:id/jump", ws.postCarouselJump)
}

// carouselState answers with whatever the indicator re-render needs.
func carouselState(index int, offset string) map[string]interface{} {
	return map[string]interface{}{
		"index":  index,
		"offset": offset,
	}
}

// lookupSlides resolves the product's slide count so a stale controller is
// rebuilt when the image list changed. Returns ErrNotFound for an unknown
// product id; any other error is a store failure.
func (ws *WebServer) lookupSlides(c echo.Context, productID int64) (int, error) {
	products, err := catalog.LoadProducts(c.Request().Context(), GetApp(c).Catalog())
	if err != nil {
		return 0, err
	}
	for _, p := range products {
		if p.ID == productID {
			return len(p.Images), nil
		}
	}
	return 0, catalog.ErrNotFound
}

func carouselLookupError(c echo.Context, err error) error {
	if errors.Is(err, catalog.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]interface{}{
			"code": "NOT_FOUND", "msg": "Produto não encontrado",
		})
	}
	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"code": "STORE_ERROR", "msg": "Erro ao carregar o produto",
	})
}

// postCarouselRelease resolves a finished drag: displacement past the
// threshold advances one slide in the drag direction (wrapping), anything
// less snaps back.
func (ws *WebServer) postCarouselRelease(c echo.Context) error {
	productID := cast.ToInt64(c.Param("id"))
	var payload struct {
		Dx float64 `json:"dx" form:"dx"`
	}
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"code": "INVALID_REQUEST", "msg": "Não foi possível ler o gesto",
		})
	}

	slides, err := ws.lookupSlides(c, productID)
	if err != nil {
		return carouselLookupError(c, err)
	}

	st := GetUIState(c)
	st.Lock()
	defer st.Unlock()
	ctrl := st.Carousel(productID, slides)
	ctrl.Release(payload.Dx)
	return c.JSON(http.StatusOK, carouselState(ctrl.Index(), ctrl.Offset()))
}

// postCarouselJump goes straight to a tapped indicator dot.
func (ws *WebServer) postCarouselJump(c echo.Context) error {
	productID := cast.ToInt64(c.Param("id"))
	var payload struct {
		Index int `json:"index" form:"index"`
	}
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"code": "INVALID_REQUEST", "msg": "Não foi possível ler o gesto",
		})
	}

	slides, err := ws.lookupSlides(c, productID)
	if err != nil {
		return carouselLookupError(c, err)
	}

	st := GetUIState(c)
	st.Lock()
	defer st.Unlock()
	ctrl := st.Carousel(productID, slides)
	ctrl.Jump(payload.Index)
	return c.JSON(http.StatusOK, carouselState(ctrl.Index(), ctrl.Offset()))
}
