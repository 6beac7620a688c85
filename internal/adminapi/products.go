package adminapi

import (
	"math"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/maosdefada/loja/internal/catalog"
	"github.com/maosdefada/loja/internal/domain"
	"github.com/maosdefada/loja/internal/imaging"
	"github.com/maosdefada/loja/internal/webserver"
	"github.com/spf13/cast"
)

type productPayload struct {
	DocID         string  `json:"docId" form:"docId"`
	Nome          string  `json:"nome" form:"nome"`
	Preco         float64 `json:"preco" form:"preco"`
	Categoria     string  `json:"categoria" form:"categoria"`
	NovaCategoria string  `json:"novaCategoria" form:"novaCategoria"`
	Destaque      bool    `json:"destaque" form:"destaque"`
	Descricao     string  `json:"descricao" form:"descricao"`
}

func registerProductRoutes() {
	webserver.ApiGET("/products", listProducts)
	webserver.ApiGET("/products/:id", getProduct)
	webserver.ApiGET("/products/:id/edit", editProduct)
	webserver.ApiPOST("/products", saveProduct)
	webserver.ApiPOST("/products/cancel-edit", cancelEdit)
	webserver.ApiPOST("/products/:id/featured", toggleFeatured)
	webserver.ApiDELETE("/products/:id", deleteProduct)
}

func listProducts(c echo.Context) error {
	products, err := catalog.LoadProducts(c.Request().Context(), webserver.GetApp(c).Catalog())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "STORE_ERROR", "Erro ao carregar produtos", err.Error())
	}
	return ok(c, map[string]interface{}{
		"produtos": products,
		"total":    len(products),
	})
}

func getProduct(c echo.Context) error {
	p, err := webserver.GetApp(c).Catalog().Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == catalog.ErrNotFound {
			return fail(c, http.StatusNotFound, "NOT_FOUND", "Produto não encontrado", nil)
		}
		return fail(c, http.StatusInternalServerError, "STORE_ERROR", "Erro ao carregar produto", err.Error())
	}
	return ok(c, p)
}

// editProduct loads a product into the session so the admin form can be
// pre-filled, with its stored images moved into the staging area.
func editProduct(c echo.Context) error {
	p, err := webserver.GetApp(c).Catalog().Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == catalog.ErrNotFound {
			return fail(c, http.StatusNotFound, "NOT_FOUND", "Produto não encontrado", nil)
		}
		return fail(c, http.StatusInternalServerError, "STORE_ERROR", "Erro ao carregar produto", err.Error())
	}

	staged := make([]imaging.Image, 0, len(p.Images))
	for i, data := range p.Images {
		staged = append(staged, imaging.Image{Name: "Imagem " + cast.ToString(i+1), Data: data})
	}

	st := webserver.GetUIState(c)
	st.Lock()
	st.Staging().Replace(staged)
	st.Unlock()

	return ok(c, p)
}

// cancelEdit discards any staged images left over from an abandoned form.
func cancelEdit(c echo.Context) error {
	st := webserver.GetUIState(c)
	st.Lock()
	st.Staging().Clear()
	st.Unlock()
	return ok(c, nil)
}

// saveProduct handles both create (no docId) and edit (docId present)
// from the single admin form.
func saveProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Dados do formulário inválidos", err.Error())
	}

	payload.Nome = strings.TrimSpace(payload.Nome)
	if payload.Nome == "" {
		return fail(c, http.StatusBadRequest, "VALIDATION", "Por favor, preencha o nome do produto!", nil)
	}
	if payload.Preco <= 0 || math.IsNaN(payload.Preco) || math.IsInf(payload.Preco, 0) {
		return fail(c, http.StatusBadRequest, "VALIDATION", "Por favor, digite um preço válido!", nil)
	}

	category := strings.TrimSpace(payload.Categoria)
	if category == "nova" {
		nova := strings.TrimSpace(payload.NovaCategoria)
		if nova == "" {
			return fail(c, http.StatusBadRequest, "VALIDATION", "Por favor, digite o nome da nova categoria!", nil)
		}
		category = catalog.Slugify(nova)
	}
	if category == "" {
		return fail(c, http.StatusBadRequest, "VALIDATION", "Por favor, selecione uma categoria!", nil)
	}

	st := webserver.GetUIState(c)
	st.Lock()
	imagens := st.Staging().Data()
	st.Unlock()

	store := webserver.GetApp(c).Catalog()

	if payload.DocID == "" {
		if len(imagens) == 0 {
			return fail(c, http.StatusBadRequest, "VALIDATION", "Por favor, selecione pelo menos uma imagem!", nil)
		}
		p := &domain.Product{
			Name:        payload.Nome,
			Price:       payload.Preco,
			Category:    category,
			Images:      domain.ImageList(imagens),
			Featured:    payload.Destaque,
			Description: strings.TrimSpace(payload.Descricao),
		}
		if err := store.Add(c.Request().Context(), p); err != nil {
			return fail(c, http.StatusInternalServerError, "STORE_ERROR", "Erro ao salvar produto", err.Error())
		}
		st.Lock()
		st.Staging().Clear()
		st.Unlock()
		return ok(c, p)
	}

	// Editing with an empty staging area keeps the images already stored.
	if len(imagens) == 0 {
		cur, err := store.Get(c.Request().Context(), payload.DocID)
		if err != nil {
			if err == catalog.ErrNotFound {
				return fail(c, http.StatusNotFound, "NOT_FOUND", "Produto não encontrado", nil)
			}
			return fail(c, http.StatusInternalServerError, "STORE_ERROR", "Erro ao salvar produto", err.Error())
		}
		imagens = cur.Images
	}

	fields := map[string]interface{}{
		"nome":      payload.Nome,
		"preco":     payload.Preco,
		"categoria": category,
		"imagens":   domain.ImageList(imagens),
		"destaque":  payload.Destaque,
		"descricao": strings.TrimSpace(payload.Descricao),
	}
	if err := store.Update(c.Request().Context(), payload.DocID, fields); err != nil {
		if err == catalog.ErrNotFound {
			return fail(c, http.StatusNotFound, "NOT_FOUND", "Produto não encontrado", nil)
		}
		return fail(c, http.StatusInternalServerError, "STORE_ERROR", "Erro ao salvar produto", err.Error())
	}

	st.Lock()
	st.Staging().Clear()
	st.Unlock()

	p, err := store.Get(c.Request().Context(), payload.DocID)
	if err != nil {
		return ok(c, map[string]interface{}{"docId": payload.DocID})
	}
	return ok(c, p)
}

func toggleFeatured(c echo.Context) error {
	var payload struct {
		Destaque bool `json:"destaque" form:"destaque"`
	}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Dados inválidos", err.Error())
	}
	err := webserver.GetApp(c).Catalog().Update(c.Request().Context(), c.Param("id"), map[string]interface{}{
		"destaque": payload.Destaque,
	})
	if err != nil {
		if err == catalog.ErrNotFound {
			return fail(c, http.StatusNotFound, "NOT_FOUND", "Produto não encontrado", nil)
		}
		return fail(c, http.StatusInternalServerError, "STORE_ERROR", "Erro ao atualizar destaque", err.Error())
	}
	return ok(c, map[string]interface{}{"docId": c.Param("id"), "destaque": payload.Destaque})
}

func deleteProduct(c echo.Context) error {
	var payload struct {
		Confirmado bool `json:"confirmado" form:"confirmado"`
	}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Dados inválidos", err.Error())
	}
	if !payload.Confirmado {
		return fail(c, http.StatusBadRequest, "CONFIRM_REQUIRED", "Tem certeza que deseja excluir este produto?", nil)
	}

	docID := c.Param("id")
	store := webserver.GetApp(c).Catalog()
	p, err := store.Get(c.Request().Context(), docID)
	if err != nil {
		if err == catalog.ErrNotFound {
			return fail(c, http.StatusNotFound, "NOT_FOUND", "Produto não encontrado", nil)
		}
		return fail(c, http.StatusInternalServerError, "STORE_ERROR", "Erro ao excluir produto", err.Error())
	}
	if err := store.Delete(c.Request().Context(), docID); err != nil {
		return fail(c, http.StatusInternalServerError, "STORE_ERROR", "Erro ao excluir produto", err.Error())
	}
	return ok(c, map[string]interface{}{"docId": docID, "nome": p.Name})
}
