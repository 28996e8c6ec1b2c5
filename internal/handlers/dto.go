package handlers

import (
	"time"

	"github.com/clipstream/backend/internal/models"
)

type userDTO struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	AvatarURL string    `json:"avatar"`
	CoverURL  string    `json:"coverImage,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newUserDTO(u models.User) userDTO {
	return userDTO{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
		CoverURL:  u.CoverURL,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type videoDTO struct {
	ID           string              `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	VideoURL     string              `json:"videoFile"`
	ThumbnailURL string              `json:"thumbnail"`
	Duration     float64             `json:"duration"`
	Views        int64               `json:"views"`
	LikeCount    int64               `json:"likeCount"`
	Published    bool                `json:"isPublished"`
	OwnerID      string              `json:"ownerId"`
	Owner        *models.UserProfile `json:"owner,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

func newVideoDTO(v models.Video) videoDTO {
	return videoDTO{
		ID:           v.ID,
		Title:        v.Title,
		Description:  v.Description,
		VideoURL:     v.VideoURL,
		ThumbnailURL: v.ThumbnailURL,
		Duration:     v.Duration,
		Views:        v.Views,
		LikeCount:    v.LikeCount,
		Published:    v.Published,
		OwnerID:      v.OwnerID,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

func newVideoWithOwnerDTO(v models.VideoWithOwner) videoDTO {
	dto := newVideoDTO(v.Video)
	owner := v.Owner
	dto.Owner = &owner
	return dto
}

func newVideoWithOwnerDTOs(videos []models.VideoWithOwner) []videoDTO {
	out := make([]videoDTO, 0, len(videos))
	for _, v := range videos {
		out = append(out, newVideoWithOwnerDTO(v))
	}
	return out
}

type commentDTO struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	VideoID   string    `json:"videoId"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newCommentDTO(c models.Comment) commentDTO {
	return commentDTO{
		ID:        c.ID,
		Content:   c.Content,
		VideoID:   c.VideoID,
		OwnerID:   c.OwnerID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type tweetDTO struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newTweetDTO(t models.Tweet) tweetDTO {
	return tweetDTO{
		ID:        t.ID,
		Content:   t.Content,
		OwnerID:   t.OwnerID,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

type playlistDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"ownerId"`
	VideoIDs    []string  `json:"videos"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newPlaylistDTO(p models.Playlist) playlistDTO {
	ids := p.VideoIDs
	if ids == nil {
		ids = []string{}
	}
	return playlistDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		OwnerID:     p.OwnerID,
		VideoIDs:    ids,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// pageMeta mirrors the pagination block returned by listing endpoints.
type pageMeta struct {
	Page         int   `json:"page"`
	TotalPages   int   `json:"totalPages"`
	TotalResults int64 `json:"totalResults"`
}

func newPageMeta(page, limit int, total int64) pageMeta {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return pageMeta{Page: page, TotalPages: pages, TotalResults: total}
}
