package xhttp

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/johnasbury91/reachh/errcode"
)

type ErrorBody struct {
	Error string `json:"error"`
}

func OkJson(c *gin.Context, v interface{}) {
	c.JSON(http.StatusOK, v)
}

func Error(c *gin.Context, err error) {
	var e *errcode.Err
	if errors.As(err, &e) {
		c.JSON(errcode.HTTPStatus(e.Code), ErrorBody{Error: e.Msg})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorBody{Error: "internal server error"})
}
