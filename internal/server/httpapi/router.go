package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	Secret []byte
	// UploadCounter backs the upload URL rate limit; nil disables it.
	UploadCounter Counter
	// UploadLimit is the number of upload URLs per user per minute.
	UploadLimit int
}

func NewRouter(h *Handler, opts RouterOptions) *gin.Engine {
	registerValidators()

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(h.logger))

	r.GET("/health", h.Health)

	api := r.Group("/api")
	api.POST("/users", h.Register)
	api.POST("/users/login", h.Login)

	authed := api.Group("", AuthMiddleware(opts.Secret))
	authed.GET("/diaries", h.ListDiaries)
	authed.POST("/diaries", h.CreateDiary)

	diary := authed.Group("/diaries/:id", h.requireAccess(h.diaries.VerifyAccess))
	diary.GET("", h.GetDiary)
	diary.PATCH("", h.RenameDiary)
	diary.DELETE("", h.DeleteDiary)
	diary.GET("/entries", h.ListEntries)
	diary.POST("/entries", h.CreateEntry)

	entry := authed.Group("/entries/:id", h.requireAccess(h.entries.VerifyAccess))
	entry.GET("", h.GetEntry)
	entry.DELETE("", h.DeleteEntry)
	entry.PUT("/editor-state", h.SaveEditorState)
	entry.POST("/images", RateLimit(opts.UploadCounter, opts.UploadLimit, time.Minute, h.logger), h.RequestUpload)
	entry.GET("/posts", h.ListPosts)
	entry.POST("/posts", h.CreatePost)

	post := authed.Group("/posts/:id", h.requireAccess(h.posts.VerifyAccess))
	post.GET("", h.GetPost)
	post.PATCH("", h.UpdatePost)
	post.DELETE("", h.DeletePost)

	return r
}
