package handlers

import (
	"net/http"
	"strconv"
	"time"
	"yatube/api/forms"
	"yatube/api/middleware"
	"yatube/models"

	"github.com/gin-gonic/gin"
)

const (
	indexTitle  = "Последние обновления на сайте"
	createTitle = "Новая запись"
	editTitle   = "Редактировать запись"
)

// Index - лента всех постов
func Index(c *gin.Context) {
	page, err := postService.GlobalFeed(c.Request.Context(), c.Query("page"))
	if err != nil {
		failed(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"template": "posts/index.html",
		"title":    indexTitle,
		"text":     indexTitle,
		"page_obj": page,
	})
}

// GroupPosts - лента группы по slug
func GroupPosts(c *gin.Context) {
	group, page, err := postService.GroupFeed(c.Request.Context(), c.Param("slug"), c.Query("page"))
	if err != nil {
		failed(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"template": "posts/group_list.html",
		"title":    group.Title,
		"group":    group,
		"page_obj": page,
	})
}

// Profile - посты автора и его счетчики. Страница кешируется,
// поэтому в ней нет ничего, что зависит от смотрящего.
func Profile(c *gin.Context) {
	ctx := c.Request.Context()
	author, page, err := postService.ProfileFeed(ctx, c.Param("username"), c.Query("page"))
	if err != nil {
		failed(c, err)
		return
	}
	followers, following, err := followService.Counts(ctx, author.ID)
	if err != nil {
		failed(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"template":        "posts/profile.html",
		"title":           "Профайл пользователя " + author.FullName(),
		"author":          author,
		"page_obj":        page,
		"posts_count":     page.Count,
		"followers_count": followers,
		"following_count": following,
	})
}

func postTitle(text string) string {
	runes := []rune(text)
	if len(runes) > 15 {
		runes = runes[:15]
	}
	return "Пост " + string(runes)
}

func renderPostDetail(c *gin.Context, status int, post *models.Post, form *forms.CommentForm) {
	comments, err := postService.Comments(c.Request.Context(), post.ID)
	if err != nil {
		failed(c, err)
		return
	}
	c.JSON(status, gin.H{
		"template": "posts/post_detail.html",
		"title":    postTitle(post.Text),
		"post":     post,
		"comments": comments,
		"form":     form,
	})
}

// PostDetail - пост, его комментарии и пустая форма комментария
func PostDetail(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	post, err := postService.GetPost(c.Request.Context(), id)
	if err != nil {
		failed(c, err)
		return
	}
	renderPostDetail(c, http.StatusOK, post, &forms.CommentForm{})
}

func renderPostForm(c *gin.Context, status int, form *forms.PostForm, edit bool) {
	groups, err := groupService.List(c.Request.Context())
	if err != nil {
		failed(c, err)
		return
	}
	page := gin.H{
		"template": "posts/create_post.html",
		"title":    createTitle,
		"header":   "Добавить запись",
		"groups":   groups,
		"form":     form,
	}
	if edit {
		page["title"] = editTitle
		page["header"] = editTitle
		page["post_edit"] = true
	}
	c.JSON(status, page)
}

// CreatePost - GET отдает форму, POST публикует пост и ведет в профиль автора
func CreatePost(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	if c.Request.Method != http.MethodPost {
		renderPostForm(c, http.StatusOK, &forms.PostForm{}, false)
		return
	}

	ctx := c.Request.Context()
	form := forms.BindPostForm(c)
	input, err := form.Validate(ctx, groupService)
	if err != nil {
		if _, invalid := forms.AsErrors(err); invalid {
			renderPostForm(c, http.StatusBadRequest, form, false)
			return
		}
		failed(c, err)
		return
	}

	start := time.Now()
	_, err = postService.CreatePost(ctx, user.ID, input)
	middleware.RecordWriteOperation("create_post", time.Since(start), err)
	if err != nil {
		failed(c, err)
		return
	}
	c.Redirect(http.StatusFound, profileURL(user.Username))
}

// PostEdit - правка поста; не автора возвращает на страницу поста
func PostEdit(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	user, _ := middleware.CurrentUser(c)
	post, err := postService.GetPost(ctx, id)
	if err != nil {
		failed(c, err)
		return
	}
	if !post.IsAuthoredBy(user.ID) {
		c.Redirect(http.StatusFound, postURL(post.ID))
		return
	}

	if c.Request.Method != http.MethodPost {
		form := &forms.PostForm{Text: post.Text}
		if post.GroupID != nil {
			form.Group = strconv.FormatInt(*post.GroupID, 10)
		}
		renderPostForm(c, http.StatusOK, form, true)
		return
	}

	form := forms.BindPostForm(c)
	input, err := form.Validate(ctx, groupService)
	if err != nil {
		if _, invalid := forms.AsErrors(err); invalid {
			renderPostForm(c, http.StatusBadRequest, form, true)
			return
		}
		failed(c, err)
		return
	}

	start := time.Now()
	_, err = postService.UpdatePost(ctx, id, user.ID, input)
	middleware.RecordWriteOperation("edit_post", time.Since(start), err)
	if err != nil && !isNotAuthor(err) {
		failed(c, err)
		return
	}
	c.Redirect(http.StatusFound, postURL(id))
}

// AddComment - комментарий к посту от текущего пользователя
func AddComment(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	user, _ := middleware.CurrentUser(c)
	post, err := postService.GetPost(ctx, id)
	if err != nil {
		failed(c, err)
		return
	}

	form := forms.BindCommentForm(c)
	if err := form.Validate(); err != nil {
		renderPostDetail(c, http.StatusBadRequest, post, form)
		return
	}

	start := time.Now()
	_, err = postService.AddComment(ctx, post.ID, user.ID, form.Text)
	middleware.RecordWriteOperation("add_comment", time.Since(start), err)
	if err != nil {
		failed(c, err)
		return
	}
	c.Redirect(http.StatusFound, postURL(post.ID))
}

// DeletePost удаляет пост автора вместе с комментариями
func DeletePost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	user, _ := middleware.CurrentUser(c)

	start := time.Now()
	err := postService.DeletePost(c.Request.Context(), user.ID, id)
	middleware.RecordWriteOperation("delete_post", time.Since(start), err)
	if isNotAuthor(err) {
		c.Redirect(http.StatusFound, postURL(id))
		return
	}
	if err != nil {
		failed(c, err)
		return
	}
	c.Redirect(http.StatusFound, profileURL(user.Username))
}
