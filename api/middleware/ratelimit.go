package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/voidovo/imgtoss-sub000/api/common"
)

// SimpleRateLimiter 全局限流器。
// 本服务只面向本机单用户，无需按客户端区分。
type SimpleRateLimiter struct {
	limiter *rate.Limiter
}

// NewSimpleRateLimiter 创建限流器
// rps: 每秒请求数
// burst: 突发请求数
func NewSimpleRateLimiter(rps float64, burst int) *SimpleRateLimiter {
	return &SimpleRateLimiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Middleware 返回 Gin 中间件
func (rl *SimpleRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiter.Allow() {
			common.RespondErrorAbort(c, http.StatusTooManyRequests, "Too many requests")
			return
		}
		c.Next()
	}
}
