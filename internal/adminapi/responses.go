package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type restResult struct {
	Code   string      `json:"code"`
	Msg    string      `json:"msg,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Detail interface{} `json:"detail,omitempty"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, restResult{Code: "OK", Data: data})
}

func fail(c echo.Context, status int, code, msg string, detail interface{}) error {
	return c.JSON(status, restResult{Code: code, Msg: msg, Detail: detail})
}
