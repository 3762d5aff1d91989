package service

import (
	"net/url"
	"strings"
	"time"

	"github.com/clubsync/club-events/internal/model"
)

// EventInput is the payload for creating or editing an event.  All
// timestamps are instants; the service normalizes them to UTC before
// validation so interval comparisons are location-independent.
type EventInput struct {
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Poster            string    `json:"poster"`
	Location          string    `json:"location"`
	Category          string    `json:"category"`
	RegistrationStart time.Time `json:"registration_start"`
	RegistrationEnd   time.Time `json:"registration_end"`
	EventStart        time.Time `json:"event_start"`
	EventEnd          time.Time `json:"event_end"`
	SeatsAvailable    int       `json:"seats_available"`
}

// validate checks field rules and the temporal ordering invariant the rest
// of the engine relies on: the registration window must fully precede the
// event window, registrationStart < registrationEnd <= eventStart < eventEnd.
func (in *EventInput) validate() *ValidationError {
	var problems []string

	name := strings.TrimSpace(in.Name)
	if len(name) < 3 || len(name) > 100 {
		problems = append(problems, "name must be between 3 and 100 characters")
	}
	if strings.TrimSpace(in.Description) == "" || len(in.Description) > 1000 {
		problems = append(problems, "description is required and must be at most 1000 characters")
	}
	if !validPosterURL(in.Poster) {
		problems = append(problems, "poster must be a valid http(s) URL")
	}
	loc := strings.TrimSpace(in.Location)
	if len(loc) < 3 || len(loc) > 200 {
		problems = append(problems, "location must be between 3 and 200 characters")
	}
	if in.SeatsAvailable < 1 || in.SeatsAvailable > 10000 {
		problems = append(problems, "seats_available must be between 1 and 10000")
	}
	if !validCategory(in.Category) {
		problems = append(problems, "category must be one of "+strings.Join(model.EventCategories, ", "))
	}

	switch {
	case in.RegistrationStart.IsZero() || in.RegistrationEnd.IsZero() ||
		in.EventStart.IsZero() || in.EventEnd.IsZero():
		problems = append(problems, "all four timestamps are required")
	case !in.RegistrationStart.Before(in.RegistrationEnd):
		problems = append(problems, "registration_start must be before registration_end")
	case in.RegistrationEnd.After(in.EventStart):
		problems = append(problems, "registration_end must not be after event_start")
	case !in.EventStart.Before(in.EventEnd):
		problems = append(problems, "event_start must be before event_end")
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// normalize trims text fields and converts every timestamp to UTC.
func (in *EventInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Poster = strings.TrimSpace(in.Poster)
	in.Location = strings.TrimSpace(in.Location)
	in.Category = strings.ToLower(strings.TrimSpace(in.Category))
	in.RegistrationStart = in.RegistrationStart.UTC()
	in.RegistrationEnd = in.RegistrationEnd.UTC()
	in.EventStart = in.EventStart.UTC()
	in.EventEnd = in.EventEnd.UTC()
}

func validPosterURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func validCategory(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range model.EventCategories {
		if s == c {
			return true
		}
	}
	return false
}
