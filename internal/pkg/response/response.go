package response

import "github.com/gin-gonic/gin"

// production suppresses diagnostic detail in error payloads. Set once at
// startup from the app environment.
var production bool

func SetProductionMode(on bool) {
	production = on
}

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// ErrorWithDetails behaves like Error but carries diagnostic detail outside
// production.
func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	if production {
		Error(c, statusCode, code, message)
		return
	}
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
