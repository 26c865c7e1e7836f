package club

import (
	"context"
	"net/http"
	"strings"

	clubstore "github.com/dalemusser/strataclub/internal/app/store/clubs"
	"github.com/dalemusser/strataclub/internal/domain/models"
)

// slot returns the UpdateInput pointer for a club attribute, or nil for
// names the profile does not have.
func slot(in *clubstore.UpdateInput, name string) **string {
	switch name {
	case "clubName":
		return &in.ClubName
	case "description":
		return &in.Description
	case "philosophy":
		return &in.Philosophy
	case "logomeaning":
		return &in.LogoMeaning
	case "fpsPaymentNumber":
		return &in.FPSPaymentNumber
	case "eventPoster1":
		return &in.EventPoster1
	case "eventPoster2":
		return &in.EventPoster2
	case "eventPoster3":
		return &in.EventPoster3
	case "webIcon":
		return &in.WebIcon
	case "backgroundImage":
		return &in.BackgroundImage
	case "logoImage":
		return &in.LogoImage
	case "aboutImage":
		return &in.AboutImage
	}
	return nil
}

// image returns the stored path of the named image attribute.
func image(c *models.Club, name string) string {
	switch name {
	case "eventPoster1":
		return c.EventPoster1
	case "eventPoster2":
		return c.EventPoster2
	case "eventPoster3":
		return c.EventPoster3
	case "webIcon":
		return c.WebIcon
	case "backgroundImage":
		return c.BackgroundImage
	case "logoImage":
		return c.LogoImage
	case "aboutImage":
		return c.AboutImage
	}
	return ""
}

// readText copies the non-blank form values of names into in. Blank values
// leave the stored text unchanged.
func readText(r *http.Request, in *clubstore.UpdateInput, names ...string) {
	for _, name := range names {
		v := strings.TrimSpace(r.FormValue(name))
		if v == "" {
			continue
		}
		if p := slot(in, name); p != nil {
			*p = &v
		}
	}
}

// upload pairs a multipart field with the club attribute it fills.
type upload struct {
	field, attr string
}

// saveImages stores each uploaded file and records its path in in. It
// returns the new paths keyed by attribute; on error the files already
// stored are removed.
func (h *Handler) saveImages(ctx context.Context, r *http.Request, in *clubstore.UpdateInput, files []upload) (map[string]string, error) {
	saved := make(map[string]string, len(files))
	for _, f := range files {
		s, err := h.uploads.SaveOptional(ctx, r, f.field, imagePrefix)
		if err != nil {
			h.removeAll(ctx, saved)
			return nil, err
		}
		if s == nil {
			continue
		}
		path := s.Path
		*slot(in, f.attr) = &path
		saved[f.attr] = path
	}
	return saved, nil
}

func (h *Handler) removeAll(ctx context.Context, paths map[string]string) {
	for _, p := range paths {
		h.uploads.Remove(ctx, p)
	}
}
