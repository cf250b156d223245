package response

import "github.com/gin-gonic/gin"

// RespondJSON writes the standard envelope. The HTTP status code is echoed
// inside the body so clients behind status-flattening proxies still see it.
func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}
