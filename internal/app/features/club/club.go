package club

import (
	"context"
	"errors"
	"net/http"

	clubstore "github.com/dalemusser/strataclub/internal/app/store/clubs"
	"github.com/dalemusser/strataclub/internal/app/store/storeutil"
	"github.com/dalemusser/strataclub/internal/app/system/cache"
	"github.com/dalemusser/strataclub/internal/app/system/jsonutil"
	"github.com/dalemusser/strataclub/internal/app/system/timeouts"
	"github.com/dalemusser/strataclub/internal/app/system/uploads"
	"github.com/dalemusser/strataclub/internal/app/system/urlparam"
	"github.com/dalemusser/strataclub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// homeContent is the club profile with public poster URLs.
type homeContent struct {
	models.Club
	EventPosterURL1 string `json:"eventPosterUrl1"`
	EventPosterURL2 string `json:"eventPosterUrl2"`
	EventPosterURL3 string `json:"eventPosterUrl3"`
}

var createUploads = []upload{
	{"poster1", "eventPoster1"},
	{"poster2", "eventPoster2"},
	{"poster3", "eventPoster3"},
	{"webIcon", "webIcon"},
	{"backgroundImage", "backgroundImage"},
	{"logoImage", "logoImage"},
	{"aboutImage", "aboutImage"},
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Create handles POST /api/createclub (multipart, admin).
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(uploads.MaxMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		jsonutil.BadRequest(w, "Invalid form data.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var in clubstore.UpdateInput
	readText(r, &in, "clubName", "description", "philosophy", "logomeaning", "fpsPaymentNumber")
	saved, err := h.saveImages(ctx, r, &in, createUploads)
	if err != nil {
		h.logger.Error("create club: store images failed", zap.Error(err))
		jsonutil.InternalError(w, "Failed to store club images.")
		return
	}

	created, err := h.clubs.Create(ctx, models.Club{
		ClubName:         str(in.ClubName),
		Description:      str(in.Description),
		Philosophy:       str(in.Philosophy),
		LogoMeaning:      str(in.LogoMeaning),
		FPSPaymentNumber: str(in.FPSPaymentNumber),
		EventPoster1:     str(in.EventPoster1),
		EventPoster2:     str(in.EventPoster2),
		EventPoster3:     str(in.EventPoster3),
		WebIcon:          str(in.WebIcon),
		BackgroundImage:  str(in.BackgroundImage),
		LogoImage:        str(in.LogoImage),
		AboutImage:       str(in.AboutImage),
	})
	if err != nil {
		h.removeAll(ctx, saved)
		h.logger.Error("create club failed", zap.Error(err))
		jsonutil.InternalError(w, "Failed to create club.")
		return
	}

	h.logger.Info("club created", zap.String("club_id", created.ID.Hex()), zap.Int("images", len(saved)))
	jsonutil.Created(w, map[string]any{"message": "Club created successfully", "id": created.ID})
}

// HomeContent handles GET /api/homecontent/{id}.
func (h *Handler) HomeContent(w http.ResponseWriter, r *http.Request) {
	id, ok := urlparam.ObjectID(r, "id")
	if !ok {
		jsonutil.NotFound(w, "Club not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	key := cache.HomeContentKey(id.Hex())
	var out homeContent
	if h.cache.GetJSON(ctx, key, &out) {
		jsonutil.OK(w, out)
		return
	}

	c, ok := h.load(ctx, w, id)
	if !ok {
		return
	}
	out = homeContent{
		Club:            *c,
		EventPosterURL1: h.uploads.URL(c.EventPoster1),
		EventPosterURL2: h.uploads.URL(c.EventPoster2),
		EventPosterURL3: h.uploads.URL(c.EventPoster3),
	}
	h.cache.SetJSON(ctx, key, out)
	jsonutil.OK(w, out)
}

// Detail handles GET /api/club/detail/{id}.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := urlparam.ObjectID(r, "id")
	if !ok {
		jsonutil.NotFound(w, "Club not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if c, ok := h.load(ctx, w, id); ok {
		jsonutil.OK(w, c)
	}
}

func (h *Handler) load(ctx context.Context, w http.ResponseWriter, id primitive.ObjectID) (*models.Club, bool) {
	c, err := h.clubs.GetByID(ctx, id)
	if errors.Is(err, storeutil.ErrNotFound) {
		jsonutil.NotFound(w, "Club not found")
		return nil, false
	}
	if err != nil {
		h.logger.Error("get club failed", zap.String("club_id", id.Hex()), zap.Error(err))
		jsonutil.InternalError(w, "Failed to load club.")
		return nil, false
	}
	return c, true
}

// EditHome handles PUT /api/editclubhome/{id} (multipart, admin).
func (h *Handler) EditHome(w http.ResponseWriter, r *http.Request) {
	h.edit(w, r, "home", []string{"description"}, []upload{
		{"eventPoster1", "eventPoster1"},
		{"eventPoster2", "eventPoster2"},
		{"eventPoster3", "eventPoster3"},
	})
}

// EditAbout handles PUT /api/editaboutus/{id} (multipart, admin).
func (h *Handler) EditAbout(w http.ResponseWriter, r *http.Request) {
	h.edit(w, r, "about", []string{"philosophy", "logomeaning"}, []upload{
		{"aboutImage", "aboutImage"},
		{"logoImage", "logoImage"},
	})
}

// EditIcon handles PUT /api/editicon/{id} (multipart, admin).
func (h *Handler) EditIcon(w http.ResponseWriter, r *http.Request) {
	h.edit(w, r, "icon", []string{"fpsPaymentNumber"}, []upload{
		{"webIcon", "webIcon"},
		{"backgroundImage", "backgroundImage"},
	})
}

// edit applies one of the section edits. Blank text keeps the stored
// value; images are replaced only when a file is uploaded, and the files
// they replace are removed after the write succeeds.
func (h *Handler) edit(w http.ResponseWriter, r *http.Request, section string, text []string, files []upload) {
	id, ok := urlparam.ObjectID(r, "id")
	if !ok {
		jsonutil.NotFound(w, "Club not found")
		return
	}
	if err := r.ParseMultipartForm(uploads.MaxMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		jsonutil.BadRequest(w, "Invalid form data.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var in clubstore.UpdateInput
	readText(r, &in, text...)
	saved, err := h.saveImages(ctx, r, &in, files)
	if err != nil {
		h.logger.Error("edit club: store images failed", zap.String("club_id", id.Hex()), zap.String("section", section), zap.Error(err))
		jsonutil.InternalError(w, "Failed to store club images.")
		return
	}

	before, err := h.clubs.Update(ctx, id, in)
	if errors.Is(err, storeutil.ErrNotFound) {
		h.removeAll(ctx, saved)
		jsonutil.NotFound(w, "Club not found")
		return
	}
	if err != nil {
		h.removeAll(ctx, saved)
		h.logger.Error("edit club failed", zap.String("club_id", id.Hex()), zap.String("section", section), zap.Error(err))
		jsonutil.InternalError(w, "Failed to update club.")
		return
	}
	for attr, path := range saved {
		if old := image(before, attr); old != path {
			h.uploads.Remove(ctx, old)
		}
	}
	h.cache.Delete(ctx, cache.HomeContentKey(id.Hex()))

	h.logger.Info("club updated", zap.String("club_id", id.Hex()), zap.String("section", section), zap.Int("images", len(saved)))
	jsonutil.Message(w, http.StatusOK, "Club updated successfully")
}
