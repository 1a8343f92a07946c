package views

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/foodshare/foodshare/internal/geo"
	"github.com/foodshare/foodshare/internal/models"
)

// Funcs is the default helper set available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"formatDate":           formatDate,
		"donationStatusColour": donationStatusColour,
		"requestStatusColour":  requestStatusColour,
		"label":                label,
		"distance":             geo.Distance,
		"hasRole":              hasRole,
		"imageURL":             func(key string) string { return key },
		"dateValue":            func(t time.Time) string { return inputValue(t, "2006-01-02") },
		"datetimeValue":        func(t time.Time) string { return inputValue(t, "2006-01-02T15:04") },
	}
}

var titleCaser = cases.Title(language.English)

// label turns an enum value such as BEST_BEFORE into "Best Before".
func label(v any) string {
	s := strings.ReplaceAll(fmt.Sprint(v), "_", " ")
	return titleCaser.String(strings.ToLower(s))
}

// formatDate accepts time.Time or *time.Time; nil and zero times print nothing.
func formatDate(v any, layout string) string {
	var t time.Time
	switch tv := v.(type) {
	case time.Time:
		t = tv
	case *time.Time:
		if tv == nil {
			return ""
		}
		t = *tv
	default:
		return ""
	}
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(layout)
}

func inputValue(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(layout)
}

func donationStatusColour(s models.DonationStatus) string {
	switch s {
	case models.DonationAvailable:
		return "text-bg-info"
	case models.DonationClaimed:
		return "text-bg-warning"
	case models.DonationCompleted:
		return "text-bg-success"
	default:
		return ""
	}
}

func requestStatusColour(s models.RequestStatus) string {
	switch s {
	case models.RequestPending:
		return "text-bg-info"
	case models.RequestAccepted:
		return "text-bg-warning"
	case models.RequestRejected:
		return "text-bg-danger"
	case models.RequestCompleted:
		return "text-bg-success"
	default:
		return ""
	}
}

func hasRole(u *models.SessionUser, roles ...string) bool {
	if u == nil {
		return false
	}
	for _, r := range roles {
		if string(u.Role) == r {
			return true
		}
	}
	return false
}
