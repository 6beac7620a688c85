package adminapi

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/maosdefada/loja/internal/imaging"
	"github.com/maosdefada/loja/internal/webserver"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

func registerImageRoutes() {
	webserver.ApiGET("/images", listImages)
	webserver.ApiPOST("/images", uploadImages)
	webserver.ApiDELETE("/images/:index", removeImage)
	webserver.ApiDELETE("/images", clearImages)
}

func listImages(c echo.Context) error {
	st := webserver.GetUIState(c)
	st.Lock()
	images := st.Staging().Images()
	st.Unlock()
	return ok(c, map[string]interface{}{"imagens": images, "total": len(images)})
}

// uploadImages processes a multipart upload of one or more files and
// appends the resized results to the session staging area. Files that
// fail validation are skipped and reported as warnings, matching the
// one-alert-per-bad-file behaviour of the admin form.
func uploadImages(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Envio de imagens inválido", err.Error())
	}
	files := form.File["imagens"]
	if len(files) == 0 {
		return fail(c, http.StatusBadRequest, "VALIDATION", "Nenhuma imagem enviada", nil)
	}

	var accepted []imaging.Image
	var warnings []string
	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			warnings = append(warnings, fh.Filename+": falha ao ler o arquivo")
			continue
		}
		data, err := io.ReadAll(io.LimitReader(src, imaging.MaxFileSize+1))
		src.Close()
		if err != nil {
			warnings = append(warnings, fh.Filename+": falha ao ler o arquivo")
			continue
		}
		img, err := imaging.Ingest(fh.Filename, data)
		if err != nil {
			zap.L().Warn("image rejected", zap.String("name", fh.Filename), zap.Error(err))
			warnings = append(warnings, err.Error())
			continue
		}
		accepted = append(accepted, img)
	}

	st := webserver.GetUIState(c)
	st.Lock()
	for _, img := range accepted {
		st.Staging().Add(img)
	}
	images := st.Staging().Images()
	st.Unlock()

	return ok(c, map[string]interface{}{
		"imagens": images,
		"total":   len(images),
		"avisos":  warnings,
		"aceitas": len(accepted),
	})
}

func removeImage(c echo.Context) error {
	idx := cast.ToInt(c.Param("index"))
	st := webserver.GetUIState(c)
	st.Lock()
	emptied := st.Staging().Remove(idx)
	images := st.Staging().Images()
	st.Unlock()
	return ok(c, map[string]interface{}{"imagens": images, "total": len(images), "vazio": emptied})
}

func clearImages(c echo.Context) error {
	st := webserver.GetUIState(c)
	st.Lock()
	st.Staging().Clear()
	st.Unlock()
	return ok(c, map[string]interface{}{"imagens": []imaging.Image{}, "total": 0})
}
