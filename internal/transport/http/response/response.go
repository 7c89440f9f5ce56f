package response

import "github.com/gin-gonic/gin"

type ErrorBody struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// Error builds the error body; an empty msg falls back to the status text.
func Error(code int, customMsg string) ErrorBody {
	msg := customMsg
	if msg == "" {
		msg = CodeMsgMap[code]
	}
	return ErrorBody{Code: code, Msg: msg}
}

// Abort stops the chain and writes an error body with code as the HTTP status.
func Abort(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, Error(code, msg))
}
