package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"yatube/api/middleware"
	"yatube/logs"
	"yatube/services"

	"github.com/gin-gonic/gin"
)

var (
	postService   = services.NewPostService()
	groupService  = services.NewGroupService()
	followService = services.NewFollowService()
	userService   = services.NewUserService()
)

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

func postURL(postID int64) string {
	return "/posts/" + strconv.FormatInt(postID, 10) + "/"
}

// postID разбирает :post_id; не число - 404, как и для несуществующего поста
func postID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("post_id"), 10, 64)
	if err != nil || id <= 0 {
		NotFound(c)
		return 0, false
	}
	return id, true
}

// NotFound - страница 404
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"template": "core/404.html", "error": "Page not found", "path": c.Request.URL.Path})
}

// failed отвечает 404 на ErrNotFound и 500 на остальное
func failed(c *gin.Context, err error) {
	if errors.Is(err, services.ErrNotFound) {
		NotFound(c)
		return
	}
	fields := map[string]interface{}{"route": c.FullPath(), "error": err}
	if user, ok := middleware.CurrentUser(c); ok {
		fields["userID"] = user.ID
	}
	logs.Error("Request failed", fields)
	c.JSON(http.StatusInternalServerError, gin.H{"template": "core/500.html", "error": "Internal server error"})
}
