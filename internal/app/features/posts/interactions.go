package posts

import (
	"context"
	"errors"
	"net/http"

	poststore "github.com/dalemusser/strataclub/internal/app/store/posts"
	"github.com/dalemusser/strataclub/internal/app/store/storeutil"
	"github.com/dalemusser/strataclub/internal/app/system/authz"
	"github.com/dalemusser/strataclub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/strataclub/internal/app/system/jsonutil"
	"github.com/dalemusser/strataclub/internal/app/system/timeouts"
	"github.com/dalemusser/strataclub/internal/app/system/urlparam"
	"go.uber.org/zap"
)

// ToggleLike handles POST /api/posts/{postId}/like/{studentId}.
func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	postID, ok := urlparam.ObjectID(r, "postId")
	if !ok {
		jsonutil.NotFound(w, "Post not found.")
		return
	}
	studentID := urlparam.String(r, "studentId")
	if studentID == "" {
		jsonutil.BadRequest(w, "studentId is required.")
		return
	}
	if !authz.CanActFor(r, studentID) {
		jsonutil.Forbidden(w, "You can only like as yourself.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	liked, count, err := h.posts.ToggleLike(ctx, postID, studentID)
	if errors.Is(err, storeutil.ErrNotFound) {
		jsonutil.NotFound(w, "Post not found.")
		return
	}
	if err != nil {
		h.logger.Error("toggle like failed", zap.String("post_id", postID.Hex()), zap.String("student_id", studentID), zap.Error(err))
		jsonutil.InternalError(w, "Failed to update like.")
		return
	}

	msg := "Like removed."
	if liked {
		msg = "Post liked."
	}
	jsonutil.OK(w, map[string]any{"message": msg, "likesCount": count})
}

type commentInput struct {
	StudentID string `json:"studentId"`
	Comment   string `json:"comment"`
}

// AddComment handles POST /api/posts/{postId}/comment.
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	postID, ok := urlparam.ObjectID(r, "postId")
	if !ok {
		jsonutil.NotFound(w, "Post not found.")
		return
	}

	var in commentInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Invalid request body.")
		return
	}
	text := htmlsanitize.PlainText(in.Comment)
	if in.StudentID == "" || text == "" {
		jsonutil.BadRequest(w, "studentId and comment are required.")
		return
	}
	if !authz.CanActFor(r, in.StudentID) {
		jsonutil.Forbidden(w, "You can only comment as yourself.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	commentID, err := h.posts.AddComment(ctx, postID, in.StudentID, text)
	if errors.Is(err, storeutil.ErrNotFound) {
		jsonutil.NotFound(w, "Post not found.")
		return
	}
	if err != nil {
		h.logger.Error("add comment failed", zap.String("post_id", postID.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to add comment.")
		return
	}
	jsonutil.OK(w, map[string]any{"message": "Comment added.", "commentId": commentID})
}

// EditComment handles PUT /api/posts/{postId}/comments/{commentId}.
func (h *Handler) EditComment(w http.ResponseWriter, r *http.Request) {
	postID, ok := urlparam.ObjectID(r, "postId")
	if !ok {
		jsonutil.NotFound(w, "Post not found.")
		return
	}
	commentID, ok := urlparam.ObjectID(r, "commentId")
	if !ok {
		jsonutil.NotFound(w, "Comment not found.")
		return
	}

	var in commentInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Invalid request body.")
		return
	}
	text := htmlsanitize.PlainText(in.Comment)
	if text == "" {
		jsonutil.BadRequest(w, "comment is required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err := h.posts.EditComment(ctx, postID, commentID, text)
	if h.commentErr(w, err, "edit comment", postID.Hex()) {
		return
	}
	jsonutil.Message(w, http.StatusOK, "Comment updated.")
}

// DeleteComment handles DELETE /api/posts/{postId}/comments/{commentId}.
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	postID, ok := urlparam.ObjectID(r, "postId")
	if !ok {
		jsonutil.NotFound(w, "Post not found.")
		return
	}
	commentID, ok := urlparam.ObjectID(r, "commentId")
	if !ok {
		jsonutil.NotFound(w, "Comment not found.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err := h.posts.DeleteComment(ctx, postID, commentID)
	if h.commentErr(w, err, "delete comment", postID.Hex()) {
		return
	}
	jsonutil.Message(w, http.StatusOK, "Comment deleted.")
}

// commentErr writes the response for a failed comment mutation and reports
// whether it did.
func (h *Handler) commentErr(w http.ResponseWriter, err error, op, postID string) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, poststore.ErrCommentNotFound):
		jsonutil.NotFound(w, "Comment not found.")
	case errors.Is(err, storeutil.ErrNotFound):
		jsonutil.NotFound(w, "Post not found.")
	default:
		h.logger.Error(op+" failed", zap.String("post_id", postID), zap.Error(err))
		jsonutil.InternalError(w, "Failed to update comment.")
	}
	return true
}

// TotalComments handles GET /api/posts/comments/count.
func (h *Handler) TotalComments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	n, err := h.posts.TotalComments(ctx)
	if err != nil {
		h.logger.Error("count comments failed", zap.Error(err))
		jsonutil.InternalError(w, "Internal server error")
		return
	}
	jsonutil.OK(w, map[string]int64{"totalCommentsCount": n})
}
