package events

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/strataclub/internal/app/system/formutil"
	"github.com/dalemusser/strataclub/internal/domain/models"
)

var errBadSections = errors.New("invalid sections format")

// sectionInput tolerates maxRegistration sent as a string.
type sectionInput struct {
	Name            string          `json:"name"`
	MaxRegistration formutil.Number `json:"maxRegistration"`
}

// applyForm merges the submitted form over e. Blank fields keep e's values;
// sections are parsed only when supplied for a multi-section event.
func applyForm(r *http.Request, e models.Event) (models.Event, error) {
	e.EventName = formutil.Or(r.FormValue("eventName"), e.EventName)
	e.EventDescription = formutil.Or(r.FormValue("eventDescription"), e.EventDescription)
	e.EventDateFrom = formutil.Or(r.FormValue("eventDateFrom"), e.EventDateFrom)
	e.EventDateTo = formutil.Or(r.FormValue("eventDateTo"), e.EventDateTo)
	e.EventTimeStart = formutil.Or(r.FormValue("eventTimeStart"), e.EventTimeStart)
	e.EventTimeEnd = formutil.Or(r.FormValue("eventTimeEnd"), e.EventTimeEnd)
	e.EventType = formutil.Or(r.FormValue("eventType"), e.EventType)
	e.EventVenue = formutil.Or(r.FormValue("eventVenue"), e.EventVenue)
	e.MultipleSection = formutil.Or(r.FormValue("multipleSection"), e.MultipleSection)
	e.SectionNumber = formutil.Or(r.FormValue("sectionNumber"), e.SectionNumber)

	if v := r.FormValue("eventPrice"); strings.TrimSpace(v) != "" {
		e.EventPrice = formutil.Float(v)
	}
	if v := r.FormValue("totalmaxRegistration"); strings.TrimSpace(v) != "" {
		e.TotalMaxRegistration = formutil.Int(v)
	}
	if v := r.FormValue("canRegister"); strings.TrimSpace(v) != "" {
		e.CanRegister = formutil.Bool(v)
	}

	if e.MultipleSection != models.MultipleSectionYes {
		e.Sections = nil
		return e, nil
	}
	if raw := strings.TrimSpace(r.FormValue("sections")); raw != "" {
		var in []sectionInput
		if err := json.Unmarshal([]byte(raw), &in); err != nil {
			return e, errBadSections
		}
		e.Sections = make([]models.Section, 0, len(in))
		for _, s := range in {
			e.Sections = append(e.Sections, models.Section{
				Name:            strings.TrimSpace(s.Name),
				MaxRegistration: s.MaxRegistration.Int(),
			})
		}
	}
	return e, nil
}
