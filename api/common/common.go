package common

import (
	"log"
	"net/http"

	"github.com/anoixa/photo-album/utils"
	"github.com/gin-gonic/gin"
)

// ContextRequestIDKey 请求 ID 在 gin.Context 中的键
const ContextRequestIDKey = "request_id"

type Response struct {
	Status string      `json:"status"`
	Msg    string      `json:"msg"`
	Data   interface{} `json:"data,omitempty"`
}

func Respond(c *gin.Context, httpStatus int, status string, message string, data interface{}) {
	c.JSON(httpStatus, Response{
		Status: status,
		Msg:    message,
		Data:   data,
	})
}

// RespondSuccess sends a success response with data.
func RespondSuccess(c *gin.Context, data interface{}) {
	Respond(c, http.StatusOK, "success", "", data)
}

// RespondSuccessMessage sends a success response with message and data.
func RespondSuccessMessage(c *gin.Context, message string, data interface{}) {
	Respond(c, http.StatusOK, "success", message, data)
}

// RespondError sends an error response with message.
func RespondError(c *gin.Context, httpStatus int, message string) {
	Respond(c, httpStatus, "error", message, nil)
}

// RespondErrorAbort sends an error response and stops the handler chain.
func RespondErrorAbort(c *gin.Context, httpStatus int, message string) {
	c.AbortWithStatusJSON(httpStatus, Response{
		Status: "error",
		Msg:    message,
	})
}

// RespondInternalError 记录存储错误并返回通用 500
func RespondInternalError(c *gin.Context, op string, err error) {
	if utils.IsClientDisconnect(err) {
		utils.LogIfDevf("[API] %s aborted by client: %v", op, err)
		c.Abort()
		return
	}
	log.Printf("[API] %s failed (request_id=%s): %v", op, c.GetString(ContextRequestIDKey), err)
	RespondError(c, http.StatusInternalServerError, "Internal server error")
}
