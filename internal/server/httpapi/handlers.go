package httpapi

import (
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophdiary/internal/common"
	"github.com/dmitrijs2005/gophdiary/internal/logging"
	"github.com/dmitrijs2005/gophdiary/internal/server/models"
	"github.com/dmitrijs2005/gophdiary/internal/server/services"
	"github.com/gin-gonic/gin"
)

// maxDocumentSize bounds editor state bodies.
const maxDocumentSize = 4 << 20

type Handler struct {
	users   UserService
	diaries DiaryService
	entries EntryService
	posts   PostService
	images  ImageService
	logger  logging.Logger
}

func NewHandler(us UserService, ds DiaryService, es EntryService, ps PostService, is ImageService, l logging.Logger) *Handler {
	return &Handler{users: us, diaries: ds, entries: es, posts: ps, images: is, logger: l.With("module", "http")}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	u, err := h.users.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": u.ID, "username": u.UserName})
}

func (h *Handler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	token, err := h.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "Bearer"})
}

func (h *Handler) ListDiaries(c *gin.Context) {
	list, err := h.diaries.List(c.Request.Context(), c.GetString(common.UserIDContextKey))
	if err != nil {
		h.writeError(c, err)
		return
	}

	out := make([]diaryResponse, 0, len(list))
	for _, d := range list {
		out = append(out, toDiaryResponse(d))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) CreateDiary(c *gin.Context) {
	var req diaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	d, err := h.diaries.Create(c.Request.Context(), c.GetString(common.UserIDContextKey), req.Name)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toDiaryResponse(d))
}

func (h *Handler) GetDiary(c *gin.Context) {
	d, err := h.diaries.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDiaryResponse(d))
}

func (h *Handler) RenameDiary(c *gin.Context) {
	var req diaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.diaries.Rename(c.Request.Context(), c.Param("id"), req.Name); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) DeleteDiary(c *gin.Context) {
	if err := h.diaries.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListEntries(c *gin.Context) {
	list, err := h.entries.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	out := make([]entryResponse, 0, len(list))
	for _, e := range list {
		out = append(out, toEntryResponse(e))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) CreateEntry(c *gin.Context) {
	var req entryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	day, err := time.Parse(dayLayout, req.Day)
	if err != nil {
		badRequest(c, err)
		return
	}

	e, err := h.entries.Create(c.Request.Context(), c.Param("id"), day)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toEntryResponse(e))
}

func (h *Handler) GetEntry(c *gin.Context) {
	e, st, err := h.entries.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := toEntryResponse(e)
	resp.EditorState = st.Data
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) SaveEditorState(c *gin.Context) {
	data, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxDocumentSize))
	if err != nil {
		h.writeError(c, common.ErrFileTooLarge)
		return
	}

	if err := h.entries.SaveEditorState(c.Request.Context(), c.Param("id"), data); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) DeleteEntry(c *gin.Context) {
	if err := h.entries.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) RequestUpload(c *gin.Context) {
	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if (req.Lon == nil) != (req.Lat == nil) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "lon and lat must be given together"})
		return
	}

	in := services.UploadRequest{
		UserID:   c.GetString(common.UserIDContextKey),
		EntryID:  c.Param("id"),
		Name:     req.Name,
		Mimetype: req.Mimetype,
		Size:     req.Size,
	}
	if req.Lon != nil {
		in.Geo = &models.GeoData{Lon: *req.Lon, Lat: *req.Lat}
	}

	up, err := h.images.RequestUpload(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"key": up.Key, "upload_url": up.URL})
}

func (h *Handler) ListPosts(c *gin.Context) {
	views, err := h.posts.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	out := make([]postResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toPostViewResponse(v))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) CreatePost(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p, err := h.posts.Create(c.Request.Context(), &models.Post{
		EntryID:     c.Param("id"),
		Title:       req.Title,
		Description: req.Description,
		Order:       req.Order,
		ImageKeys:   req.ImageKeys,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPostResponse(p))
}

func (h *Handler) GetPost(c *gin.Context) {
	v, err := h.posts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPostViewResponse(v))
}

func (h *Handler) UpdatePost(c *gin.Context) {
	var req postUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	err := h.posts.Update(c.Request.Context(), &models.Post{
		ID:          c.Param("id"),
		Title:       req.Title,
		Description: req.Description,
		Order:       req.Order,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) DeletePost(c *gin.Context) {
	if err := h.posts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
