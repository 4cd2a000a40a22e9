package middleware

import (
	"bytes"
	"net/http"
	"time"
	"yatube/logs"
	"yatube/services"

	"github.com/gin-gonic/gin"
)

// bodyRecorder копирует тело ответа, продолжая писать его клиенту
type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// CacheKey - метод и URI запроса вместе с query
func CacheKey(r *http.Request) string {
	return r.Method + " " + r.URL.RequestURI()
}

// CachePage отдает сохраненную страницу, пока не прошел ttl. Кешируются
// только GET/HEAD с ответом 200; остальные запросы идут мимо кеша.
func CachePage(cache services.PageCache, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		if method != http.MethodGet && method != http.MethodHead {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := CacheKey(c.Request)
		page, ok, err := cache.Get(ctx, key)
		switch {
		case err != nil:
			RecordCacheLookup("error")
			logs.Warn("Page cache lookup failed", map[string]interface{}{"key": key, "error": err})
		case ok:
			RecordCacheLookup("hit")
			c.Data(page.Status, page.ContentType, page.Body)
			c.Abort()
			return
		default:
			RecordCacheLookup("miss")
		}

		recorder := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = recorder
		c.Next()

		if recorder.Status() != http.StatusOK {
			return
		}
		page = &services.CachedPage{
			Status:      http.StatusOK,
			ContentType: recorder.Header().Get("Content-Type"),
			Body:        recorder.body.Bytes(),
		}
		if err := cache.Set(ctx, key, page, ttl); err != nil {
			logs.Warn("Page cache store failed", map[string]interface{}{"key": key, "error": err})
		}
	}
}
