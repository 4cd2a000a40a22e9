package handlers

import (
	"errors"
	"net/http"
	"time"
	"yatube/api/middleware"
	"yatube/services"

	"github.com/gin-gonic/gin"
)

func isNotAuthor(err error) bool {
	return errors.Is(err, services.ErrNotAuthor)
}

// FollowIndex - посты авторов, на которых подписан текущий пользователь
func FollowIndex(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	page, err := postService.FollowFeed(c.Request.Context(), user.ID, c.Query("page"))
	if err != nil {
		failed(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"template": "posts/follow.html",
		"title":    "Избранные авторы",
		"page_obj": page,
	})
}

// ProfileFollow - подписка на автора; на себя подписаться нельзя, это не ошибка
func ProfileFollow(c *gin.Context) {
	ctx := c.Request.Context()
	user, _ := middleware.CurrentUser(c)
	author, err := userService.GetByUsername(ctx, c.Param("username"))
	if err != nil {
		failed(c, err)
		return
	}

	start := time.Now()
	err = followService.Follow(ctx, user.ID, author.ID)
	if errors.Is(err, services.ErrSelfFollow) {
		err = nil
	}
	middleware.RecordWriteOperation("follow", time.Since(start), err)
	if err != nil {
		failed(c, err)
		return
	}
	c.Redirect(http.StatusFound, profileURL(author.Username))
}

// ProfileUnfollow - отписка от автора
func ProfileUnfollow(c *gin.Context) {
	ctx := c.Request.Context()
	user, _ := middleware.CurrentUser(c)
	author, err := userService.GetByUsername(ctx, c.Param("username"))
	if err != nil {
		failed(c, err)
		return
	}

	start := time.Now()
	err = followService.Unfollow(ctx, user.ID, author.ID)
	middleware.RecordWriteOperation("unfollow", time.Since(start), err)
	if err != nil {
		failed(c, err)
		return
	}
	c.Redirect(http.StatusFound, profileURL(author.Username))
}
