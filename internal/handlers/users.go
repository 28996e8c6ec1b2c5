package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clipstream/backend/internal/auth"
	"github.com/clipstream/backend/internal/logging"
	"github.com/clipstream/backend/internal/models"
	"github.com/clipstream/backend/internal/storage"
)

// UserStore captures the account persistence the user endpoints need.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByID(ctx context.Context, id string) (models.User, error)
	Update(ctx context.Context, user models.User) error
	ChannelProfile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error)
	WatchHistory(ctx context.Context, userID string) ([]models.WatchEntry, error)
}

// CredentialService drives the session lifecycle behind the auth endpoints.
type CredentialService interface {
	Login(ctx context.Context, identifier, password string) (auth.LoginResult, error)
	Refresh(ctx context.Context, presented string) (models.TokenPair, error)
	Logout(ctx context.Context, userID string) error
	ChangePassword(ctx context.Context, userID, oldPlain, newPlain, confirmPlain string) error
}

// UserHandler serves registration, session, and profile endpoints.
type UserHandler struct {
	Users     UserStore
	Sessions  CredentialService
	Storage   BlobStorage
	Cookies   CookiePolicy
	UploadDir string
}

// Register creates an account from a multipart form carrying the profile
// fields plus an avatar image and an optional cover image. Uploaded blobs
// are rolled back when the account row cannot be written.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, span := logging.StartSpan(r.Context(), "user.register")
	defer span.End()

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, "malformed multipart form")
		return
	}

	form := r.MultipartForm.Value
	username := strings.ToLower(strings.TrimSpace(firstValue(form, "username")))
	email := strings.ToLower(strings.TrimSpace(firstValue(form, "email")))
	fullName := strings.TrimSpace(firstValue(form, "fullName"))
	password := firstValue(form, "password")

	var missing []string
	for field, value := range map[string]string{
		"username": username,
		"email":    email,
		"fullName": fullName,
		"password": password,
	} {
		if value == "" {
			missing = append(missing, field+" is required")
		}
	}
	if !strings.Contains(email, "@") && email != "" {
		missing = append(missing, "email is not a valid address")
	}
	if len(missing) > 0 {
		respondFailure(ctx, w, http.StatusBadRequest, "invalid registration request", missing...)
		return
	}

	avatarPath, err := saveUploadedFile(r, "avatar", h.UploadDir)
	if err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, "avatar image is required")
		return
	}

	comp := storage.NewCompensator(h.Storage)

	avatar, err := h.Storage.Upload(ctx, avatarPath, objectKey("avatars", avatarPath))
	if err != nil {
		respondError(ctx, w, err, "could not store avatar image")
		return
	}
	comp.Record(avatar)

	var cover storage.Object
	if coverPath, err := saveUploadedFile(r, "coverImage", h.UploadDir); err == nil {
		cover, err = h.Storage.Upload(ctx, coverPath, objectKey("covers", coverPath))
		if err != nil {
			rollbackUploads(ctx, comp)
			respondError(ctx, w, err, "could not store cover image")
			return
		}
		comp.Record(cover)
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		rollbackUploads(ctx, comp)
		respondError(ctx, w, err, "could not register user")
		return
	}

	now := time.Now().UTC()
	user := models.User{
		ID:        uuid.NewString(),
		Username:  username,
		Email:     email,
		FullName:  fullName,
		Password:  hashed,
		AvatarURL: avatar.URL,
		CoverURL:  cover.URL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.Users.Create(ctx, user); err != nil {
		rollbackUploads(ctx, comp)
		respondError(ctx, w, err, "could not register user")
		return
	}

	respondData(ctx, w, http.StatusCreated, newUserDTO(user), "user registered")
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates by username or email and plants the session cookies.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, "malformed login request")
		return
	}

	identifier := strings.ToLower(strings.TrimSpace(req.Username))
	if identifier == "" {
		identifier = strings.ToLower(strings.TrimSpace(req.Email))
	}
	if identifier == "" || req.Password == "" {
		respondFailure(ctx, w, http.StatusBadRequest, "username or email and password are required")
		return
	}

	result, err := h.Sessions.Login(ctx, identifier, req.Password)
	if err != nil {
		respondError(ctx, w, err, "could not log in")
		return
	}

	h.Cookies.set(w, result.Tokens)
	respondData(ctx, w, http.StatusOK, map[string]any{
		"user":   newUserDTO(result.User),
		"tokens": result.Tokens,
	}, "logged in")
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh rotates the session using the refresh cookie, or a token in the
// body for cookie-less clients. The old refresh token is dead afterwards.
func (h *UserHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := ""
	if cookie, err := r.Cookie(refreshCookieName); err == nil {
		token = cookie.Value
	}
	if token == "" {
		var req refreshRequest
		if err := decodeJSONBody(r, &req); err == nil {
			token = req.RefreshToken
		}
	}
	if token == "" {
		respondFailure(ctx, w, http.StatusUnauthorized, "refresh token is required")
		return
	}

	pair, err := h.Sessions.Refresh(ctx, token)
	if err != nil {
		h.Cookies.clear(w)
		respondError(ctx, w, err, "could not refresh session")
		return
	}

	h.Cookies.set(w, pair)
	respondData(ctx, w, http.StatusOK, pair, "session refreshed")
}

// Logout revokes the stored refresh token and clears the session cookies.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, _ := PrincipalFromContext(ctx)

	if err := h.Sessions.Logout(ctx, principal.ID); err != nil {
		respondError(ctx, w, err, "could not log out")
		return
	}

	h.Cookies.clear(w)
	respondData(ctx, w, http.StatusOK, nil, "logged out")
}

type changePasswordRequest struct {
	OldPassword     string `json:"oldPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, _ := PrincipalFromContext(ctx)

	var req changePasswordRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, "malformed change password request")
		return
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		respondFailure(ctx, w, http.StatusBadRequest, "old and new passwords are required")
		return
	}

	err := h.Sessions.ChangePassword(ctx, principal.ID, req.OldPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		respondError(ctx, w, err, "could not change password")
		return
	}

	respondData(ctx, w, http.StatusOK, nil, "password changed")
}

// Me returns the authenticated account.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, _ := PrincipalFromContext(ctx)

	user, err := h.Users.FindByID(ctx, principal.ID)
	if err != nil {
		respondError(ctx, w, err, "could not load account")
		return
	}

	respondData(ctx, w, http.StatusOK, newUserDTO(user), "current user")
}

type updateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// UpdateAccount changes the mutable profile fields. Empty fields keep their
// current values.
func (h *UserHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, _ := PrincipalFromContext(ctx)

	var req updateAccountRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, "malformed account update request")
		return
	}
	if req.FullName == "" && req.Email == "" {
		respondFailure(ctx, w, http.StatusBadRequest, "at least one of fullName or email is required")
		return
	}

	user, err := h.Users.FindByID(ctx, principal.ID)
	if err != nil {
		respondError(ctx, w, err, "could not load account")
		return
	}

	if req.FullName != "" {
		user.FullName = strings.TrimSpace(req.FullName)
	}
	if req.Email != "" {
		email := strings.ToLower(strings.TrimSpace(req.Email))
		if !strings.Contains(email, "@") {
			respondFailure(ctx, w, http.StatusBadRequest, "email is not a valid address")
			return
		}
		user.Email = email
	}
	user.UpdatedAt = time.Now().UTC()

	if err := h.Users.Update(ctx, user); err != nil {
		respondError(ctx, w, err, "could not update account")
		return
	}

	respondData(ctx, w, http.StatusOK, newUserDTO(user), "account updated")
}

// UpdateAvatar replaces the account's avatar image.
func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "avatar", "avatars", func(u *models.User, url string) { u.AvatarURL = url })
}

// UpdateCover replaces the account's cover image.
func (h *UserHandler) UpdateCover(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "coverImage", "covers", func(u *models.User, url string) { u.CoverURL = url })
}

func (h *UserHandler) updateImage(w http.ResponseWriter, r *http.Request, field, prefix string, apply func(*models.User, string)) {
	ctx := r.Context()
	principal, _ := PrincipalFromContext(ctx)

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, "malformed multipart form")
		return
	}

	path, err := saveUploadedFile(r, field, h.UploadDir)
	if err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, field+" file is required")
		return
	}

	object, err := h.Storage.Upload(ctx, path, objectKey(prefix, path))
	if err != nil {
		respondError(ctx, w, err, "could not store "+field)
		return
	}

	user, err := h.Users.FindByID(ctx, principal.ID)
	if err != nil {
		respondError(ctx, w, err, "could not load account")
		return
	}

	apply(&user, object.URL)
	user.UpdatedAt = time.Now().UTC()

	if err := h.Users.Update(ctx, user); err != nil {
		respondError(ctx, w, err, "could not update account")
		return
	}

	respondData(ctx, w, http.StatusOK, newUserDTO(user), field+" updated")
}

// ChannelProfile returns the public channel page for a username, including
// subscription aggregates relative to the viewer.
func (h *UserHandler) ChannelProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, _ := PrincipalFromContext(ctx)

	username, err := requirePathID(r, "username")
	if err != nil {
		respondFailure(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := h.Users.ChannelProfile(ctx, strings.ToLower(username), principal.ID)
	if err != nil {
		respondError(ctx, w, err, "could not load channel profile")
		return
	}

	respondData(ctx, w, http.StatusOK, profile, "channel profile")
}

type watchEntryDTO struct {
	Video     videoDTO  `json:"video"`
	WatchedAt time.Time `json:"watchedAt"`
}

// WatchHistory returns the viewer's watch history, most recent first.
func (h *UserHandler) WatchHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, _ := PrincipalFromContext(ctx)

	entries, err := h.Users.WatchHistory(ctx, principal.ID)
	if err != nil {
		respondError(ctx, w, err, "could not load watch history")
		return
	}

	history := make([]watchEntryDTO, 0, len(entries))
	for _, entry := range entries {
		history = append(history, watchEntryDTO{
			Video:     newVideoWithOwnerDTO(entry.Video),
			WatchedAt: entry.WatchedAt,
		})
	}

	respondData(ctx, w, http.StatusOK, history, "watch history")
}

func firstValue(form map[string][]string, key string) string {
	if values := form[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

func rollbackUploads(ctx context.Context, comp *storage.Compensator) {
	if err := comp.Rollback(ctx); err != nil {
		logging.FromContext(ctx).Error("roll back uploaded objects", "error", err)
	}
}
