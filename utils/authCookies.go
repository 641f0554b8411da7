package utils

import (
	"time"

	"github.com/gin-gonic/gin"
)

func SetAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	setCookie(c, "accessToken", accessToken, AccessTokenExpiry)
	setCookie(c, "refreshToken", refreshToken, RefreshTokenExpiry)
}

func setCookie(c *gin.Context, name, value string, expiry time.Duration) {
	c.SetCookie(name, value, int(expiry.Seconds()), "/", "", cookieSecure(), true)
}

func ClearAuthCookies(c *gin.Context) {
	clearCookie(c, "accessToken")
	clearCookie(c, "refreshToken")
}

func clearCookie(c *gin.Context, name string) {
	c.SetCookie(name, "", -1, "/", "", cookieSecure(), true)
}

func cookieSecure() bool {
	// Plain HTTP in local dev
	return gin.Mode() != gin.DebugMode
}
