package httpapi

import (
	"encoding/json"
	"time"

	"github.com/dmitrijs2005/gophdiary/internal/server/models"
	"github.com/dmitrijs2005/gophdiary/internal/server/services"
)

const dayLayout = "2006-01-02"

type credentialsRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64,nospaces"`
	// bcrypt ignores everything past 72 bytes.
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type diaryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=200"`
}

type entryRequest struct {
	Day string `json:"day" binding:"required,datetime=2006-01-02"`
}

type uploadRequest struct {
	Name     string   `json:"name" binding:"required,max=255"`
	Mimetype string   `json:"mimetype" binding:"required,max=100"`
	Size     int64    `json:"size" binding:"required,gt=0"`
	Lon      *float64 `json:"lon" binding:"omitempty,longitude"`
	Lat      *float64 `json:"lat" binding:"omitempty,latitude"`
}

type postRequest struct {
	Title       string   `json:"title" binding:"required,max=200"`
	Description string   `json:"description" binding:"max=5000"`
	Order       int      `json:"order" binding:"gte=0"`
	ImageKeys   []string `json:"image_keys" binding:"required,min=1,max=20,nodupes,dive,required"`
}

type postUpdateRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"max=5000"`
	Order       int    `json:"order" binding:"gte=0"`
}

type diaryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toDiaryResponse(d *models.Diary) diaryResponse {
	return diaryResponse{ID: d.ID, Name: d.Name, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}
}

type entryResponse struct {
	ID          string          `json:"id"`
	DiaryID     string          `json:"diary_id"`
	Day         string          `json:"day"`
	UpdatedAt   time.Time       `json:"updated_at"`
	EditorState json.RawMessage `json:"editor_state,omitempty"`
}

func toEntryResponse(e *models.Entry) entryResponse {
	return entryResponse{ID: e.ID, DiaryID: e.DiaryID, Day: e.Day.Format(dayLayout), UpdatedAt: e.UpdatedAt}
}

type imageResponse struct {
	Key string `json:"key"`
	URL string `json:"url,omitempty"`
}

type postResponse struct {
	ID          string          `json:"id"`
	EntryID     string          `json:"entry_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Order       int             `json:"order"`
	Images      []imageResponse `json:"images"`
}

func toPostResponse(p *models.Post) postResponse {
	r := postResponse{
		ID: p.ID, EntryID: p.EntryID, Title: p.Title, Description: p.Description, Order: p.Order,
		Images: make([]imageResponse, 0, len(p.ImageKeys)),
	}
	for _, k := range p.ImageKeys {
		r.Images = append(r.Images, imageResponse{Key: k})
	}
	return r
}

func toPostViewResponse(v *services.PostView) postResponse {
	r := toPostResponse(v.Post)
	r.Images = r.Images[:0]
	for _, img := range v.Images {
		r.Images = append(r.Images, imageResponse{Key: img.Key, URL: img.URL})
	}
	return r
}
