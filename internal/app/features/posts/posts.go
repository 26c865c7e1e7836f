package posts

import (
	"context"
	"errors"
	"net/http"
	"strings"

	poststore "github.com/dalemusser/strataclub/internal/app/store/posts"
	"github.com/dalemusser/strataclub/internal/app/store/storeutil"
	"github.com/dalemusser/strataclub/internal/app/system/authz"
	"github.com/dalemusser/strataclub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/strataclub/internal/app/system/jsonutil"
	"github.com/dalemusser/strataclub/internal/app/system/timeouts"
	"github.com/dalemusser/strataclub/internal/app/system/uploads"
	"github.com/dalemusser/strataclub/internal/app/system/urlparam"
	"github.com/dalemusser/strataclub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// images holds the stored paths of the three post image slots.
type images [3]*string

func (im images) saved() []string {
	var out []string
	for _, p := range im {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out
}

// saveImages stores the files in fields (one per slot). On error the files
// already stored are removed.
func (h *Handler) saveImages(ctx context.Context, r *http.Request, fields [3]string) (images, error) {
	var im images
	for i, field := range fields {
		s, err := h.uploads.SaveOptional(ctx, r, field, imagePrefix)
		if err != nil {
			h.removeAll(ctx, im.saved())
			return images{}, err
		}
		if s != nil {
			path := s.Path
			im[i] = &path
		}
	}
	return im, nil
}

func (h *Handler) removeAll(ctx context.Context, paths []string) {
	for _, p := range paths {
		h.uploads.Remove(ctx, p)
	}
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Create handles POST /api/createpost (multipart).
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(uploads.MaxMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		jsonutil.BadRequest(w, "Invalid form data.")
		return
	}

	studentID := strings.TrimSpace(r.FormValue("student_id"))
	if studentID == "" {
		jsonutil.BadRequest(w, "student_id is required.")
		return
	}
	if !authz.CanActFor(r, studentID) {
		jsonutil.Forbidden(w, "You can only post as yourself.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	im, err := h.saveImages(ctx, r, [3]string{"poster1", "poster2", "poster3"})
	if err != nil {
		h.logger.Error("create post: store images failed", zap.String("student_id", studentID), zap.Error(err))
		jsonutil.InternalError(w, "Failed to store post images.")
		return
	}

	created, err := h.posts.Create(ctx, models.Post{
		Title:        htmlsanitize.PlainText(r.FormValue("title")),
		Description:  htmlsanitize.Sanitize(r.FormValue("description")),
		StudentID:    studentID,
		EventPoster1: deref(im[0]),
		EventPoster2: deref(im[1]),
		EventPoster3: deref(im[2]),
	})
	if err != nil {
		h.removeAll(ctx, im.saved())
		h.logger.Error("create post failed", zap.String("student_id", studentID), zap.Error(err))
		jsonutil.InternalError(w, "Failed to create post.")
		return
	}

	h.logger.Info("post created", zap.String("post_id", created.ID.Hex()), zap.String("student_id", studentID))
	jsonutil.Created(w, map[string]any{"message": "Post created successfully", "id": created.ID})
}

// List handles GET /api/posts?page=&perPage=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage, ok := urlparam.Paging(r)
	if !ok {
		jsonutil.BadRequest(w, "Page and perPage must be positive integers.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	posts, total, err := h.posts.Feed(ctx, page, perPage)
	if err != nil {
		h.logger.Error("post feed failed", zap.Int64("page", page), zap.Error(err))
		jsonutil.InternalError(w, "Internal server error")
		return
	}
	jsonutil.OK(w, map[string]any{
		"posts":      posts,
		"page":       page,
		"total":      total,
		"perPage":    perPage,
		"totalPages": storeutil.TotalPages(total, perPage),
	})
}

// Detail handles GET /api/post/detail/{id}.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := urlparam.ObjectID(r, "id")
	if !ok {
		jsonutil.NotFound(w, "Post not found.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if p, ok := h.load(ctx, w, id); ok {
		jsonutil.OK(w, p)
	}
}

func (h *Handler) load(ctx context.Context, w http.ResponseWriter, id primitive.ObjectID) (*models.Post, bool) {
	p, err := h.posts.GetByID(ctx, id)
	if errors.Is(err, storeutil.ErrNotFound) {
		jsonutil.NotFound(w, "Post not found.")
		return nil, false
	}
	if err != nil {
		h.logger.Error("get post failed", zap.String("post_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to load post.")
		return nil, false
	}
	return p, true
}

// canModify reports whether the caller wrote p or is an admin.
func canModify(r *http.Request, p *models.Post) bool {
	return authz.CanActFor(r, p.StudentID)
}

// Update handles PUT /api/editpost/{id} (multipart). Blank text keeps the
// stored value; an image slot changes only when a file is uploaded for it.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlparam.ObjectID(r, "id")
	if !ok {
		jsonutil.NotFound(w, "Post not found.")
		return
	}
	if err := r.ParseMultipartForm(uploads.MaxMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		jsonutil.BadRequest(w, "Invalid form data.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	existing, ok := h.load(ctx, w, id)
	if !ok {
		return
	}
	if !canModify(r, existing) {
		jsonutil.Forbidden(w, "You can only edit your own posts.")
		return
	}

	var in poststore.UpdateInput
	if v := htmlsanitize.PlainText(r.FormValue("title")); v != "" {
		in.Title = &v
	}
	if v := htmlsanitize.Sanitize(strings.TrimSpace(r.FormValue("description"))); v != "" {
		in.Description = &v
	}

	im, err := h.saveImages(ctx, r, [3]string{"eventPoster1", "eventPoster2", "eventPoster3"})
	if err != nil {
		h.logger.Error("update post: store images failed", zap.String("post_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to store post images.")
		return
	}
	in.EventPoster1, in.EventPoster2, in.EventPoster3 = im[0], im[1], im[2]

	before, err := h.posts.Update(ctx, id, in)
	if errors.Is(err, storeutil.ErrNotFound) {
		h.removeAll(ctx, im.saved())
		jsonutil.NotFound(w, "Post not found.")
		return
	}
	if err != nil {
		h.removeAll(ctx, im.saved())
		h.logger.Error("update post failed", zap.String("post_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to update post.")
		return
	}
	old := [3]string{before.EventPoster1, before.EventPoster2, before.EventPoster3}
	for i, p := range im {
		if p != nil && old[i] != *p {
			h.uploads.Remove(ctx, old[i])
		}
	}

	h.logger.Info("post updated", zap.String("post_id", id.Hex()))
	jsonutil.Message(w, http.StatusOK, "Post updated successfully")
}

// Delete handles DELETE /api/posts/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlparam.ObjectID(r, "id")
	if !ok {
		jsonutil.NotFound(w, "Post not found.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	existing, ok := h.load(ctx, w, id)
	if !ok {
		return
	}
	if !canModify(r, existing) {
		jsonutil.Forbidden(w, "You can only delete your own posts.")
		return
	}

	deleted, err := h.posts.Delete(ctx, id)
	if errors.Is(err, storeutil.ErrNotFound) {
		jsonutil.NotFound(w, "Post not found.")
		return
	}
	if err != nil {
		h.logger.Error("delete post failed", zap.String("post_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to delete post.")
		return
	}
	h.removeAll(ctx, []string{deleted.EventPoster1, deleted.EventPoster2, deleted.EventPoster3})

	h.logger.Info("post deleted", zap.String("post_id", id.Hex()))
	jsonutil.Message(w, http.StatusOK, "Post deleted successfully.")
}
