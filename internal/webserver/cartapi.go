package webserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/maosdefada/loja/internal/cart"
	"github.com/maosdefada/loja/internal/catalog"
	"github.com/maosdefada/loja/internal/whatsapp"
	"go.uber.org/zap"
)

const (
	minQuantity = 1
	maxQuantity = 99
)

// clampQuantity keeps the stepper inside [1,99]; out-of-range requests are
// clamped silently, never wrapped.
func clampQuantity(qty int) int {
	if qty < minQuantity {
		return minQuantity
	}
	if qty > maxQuantity {
		return maxQuantity
	}
	return qty
}

func (ws *WebServer) registerCartRoutes() {
	ws.root.GET("/cart", ws.getCart)
	ws.root.POST("/cart/add", ws.postCartAdd)
	ws.root.POST("/cart/change", ws.postCartChange)
	ws.root.POST("/cart/remove", ws.postCartRemove)
	ws.root.POST("/cart/remove-by-name", ws.postCartRemoveByName)
	ws.root.POST("/checkout", ws.postCheckout)
}

// cartPayload is the re-render data every cart mutation returns: the panel
// lines, the badge count and the running total.
func cartPayload(ct *cart.Cart) map[string]interface{} {
	return map[string]interface{}{
		"itens": ct.Lines(),
		"count": ct.Count(),
		"total": ct.Total().StringFixed(2),
	}
}

func (ws *WebServer) getCart(c echo.Context) error {
	st := GetUIState(c)
	st.Lock()
	defer st.Unlock()
	return c.JSON(http.StatusOK, cartPayload(st.Cart()))
}

func (ws *WebServer) postCartAdd(c echo.Context) error {
	var payload struct {
		DocID      string `json:"docId" form:"docId"`
		Quantidade int    `json:"quantidade" form:"quantidade"`
	}
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"code": "INVALID_REQUEST", "msg": "Não foi possível ler o pedido",
		})
	}

	p, err := GetApp(c).Catalog().Get(c.Request().Context(), payload.DocID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"code": "NOT_FOUND", "msg": "Produto não encontrado",
			})
		}
		zap.L().Error("cart: product lookup failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"code": "STORE_ERROR", "msg": "Erro ao carregar o produto",
		})
	}

	qty := clampQuantity(payload.Quantidade)
	st := GetUIState(c)
	st.Lock()
	defer st.Unlock()
	st.Cart().AddWithQuantity(p.Name, p.Price, p.FirstImage(), qty)
	return c.JSON(http.StatusOK, cartPayload(st.Cart()))
}

func (ws *WebServer) postCartChange(c echo.Context) error {
	var payload struct {
		Index int `json:"index" form:"index"`
		Delta int `json:"delta" form:"delta"`
	}
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"code": "INVALID_REQUEST", "msg": "Não foi possível ler o pedido",
		})
	}

	st := GetUIState(c)
	st.Lock()
	defer st.Unlock()
	st.Cart().ChangeQuantity(payload.Index, payload.Delta)
	return c.JSON(http.StatusOK, cartPayload(st.Cart()))
}

// postCartRemove deletes one line. The caller must have confirmed with the
// user first and says so explicitly.
func (ws *WebServer) postCartRemove(c echo.Context) error {
	var payload struct {
		Index     int  `json:"index" form:"index"`
		Confirmed bool `json:"confirmado" form:"confirmado"`
	}
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"code": "INVALID_REQUEST", "msg": "Não foi possível ler o pedido",
		})
	}
	if !payload.Confirmed {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"code": "CONFIRM_REQUIRED", "msg": "Confirme a remoção do produto",
		})
	}

	st := GetUIState(c)
	st.Lock()
	defer st.Unlock()
	st.Cart().RemoveLine(payload.Index)
	return c.JSON(http.StatusOK, cartPayload(st.Cart()))
}

func (ws *WebServer) postCartRemoveByName(c echo.Context) error {
	var payload struct {
		Nome  string `json:"nome" form:"nome"`
		Todos bool   `json:"todos" form:"todos"`
	}
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"code": "INVALID_REQUEST", "msg": "Não foi possível ler o pedido",
		})
	}

	st := GetUIState(c)
	st.Lock()
	defer st.Unlock()
	if payload.Todos {
		st.Cart().RemoveAllByName(payload.Nome)
	} else {
		st.Cart().RemoveByName(payload.Nome)
	}
	return c.JSON(http.StatusOK, cartPayload(st.Cart()))
}

// postCheckout builds the order summary and hands the caller the WhatsApp
// link. An empty cart is blocked with a warning and no hand-off happens.
func (ws *WebServer) postCheckout(c echo.Context) error {
	st := GetUIState(c)
	st.Lock()
	msg, err := st.Cart().OrderMessage()
	total := st.Cart().Total().StringFixed(2)
	st.Unlock()

	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"code": "EMPTY_CART", "msg": "Carrinho vazio!",
		})
	}

	phone := GetApp(c).Config().Shop.WhatsappPhone
	link := whatsapp.ChatLink(phone, msg)

	// best effort: also push the order to the shop's paired device
	if svc := whatsapp.Get(); svc != nil {
		go func(text string) {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := svc.NotifyOrder(ctx, text); err != nil {
				zap.L().Warn("checkout: order notify failed", zap.Error(err))
			}
		}(msg)
	}

	zap.L().Info("checkout: order handed off", zap.String("total", total))
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code":  "OK",
		"link":  link,
		"total": total,
	})
}
