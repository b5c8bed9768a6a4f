package service

import (
	"slices"
	"strings"
	"time"

	"docflow/internal/domain"
)

const msPerDay = float64(24 * time.Hour / time.Millisecond)

const (
	imminentWindowDays = 2.0
	soonWindowDays     = 7.0
)

// deadlineLayouts son los formatos de fecha que aparecen en la API y en los
// formularios. Los que no traen zona se interpretan en la ubicacion indicada.
var deadlineLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

var completedStatuses = map[string]struct{}{
	"completed":  {},
	"completado": {},
	"finalizado": {},
}

// IsCompletedStatus indica si el estado cuenta como terminado.
func IsCompletedStatus(status string) bool {
	_, ok := completedStatuses[strings.ToLower(strings.TrimSpace(status))]
	return ok
}

// Classify asigna un nivel de urgencia a partir del plazo y el estado.
// El estado terminado tiene prioridad sobre cualquier fecha.
func Classify(deadline time.Time, status string, now time.Time) domain.Urgency {
	if IsCompletedStatus(status) {
		return domain.Urgency{Tier: domain.TierCompleted, Tag: domain.TagCompleted}
	}
	return classifyDays(float64(deadline.UnixMilli()-now.UnixMilli())/msPerDay, deadline.UnixMilli() < now.UnixMilli())
}

// ClassifyRaw clasifica un plazo en texto. Un plazo ilegible no falla: todas
// las comparaciones resultan falsas y cae en TierLater, marcado Unparseable.
func ClassifyRaw(deadline, status string, now time.Time, loc *time.Location) domain.Urgency {
	if IsCompletedStatus(status) {
		return domain.Urgency{Tier: domain.TierCompleted, Tag: domain.TagCompleted}
	}
	parsed, ok := ParseDeadline(deadline, loc)
	if !ok {
		return domain.Urgency{Tier: domain.TierLater, Tag: domain.TagLater, Unparseable: true}
	}
	return Classify(parsed, status, now)
}

func classifyDays(days float64, overdue bool) domain.Urgency {
	switch {
	case overdue:
		return domain.Urgency{Tier: domain.TierOverdue, Tag: domain.TagOverdue}
	case days <= imminentWindowDays:
		return domain.Urgency{Tier: domain.TierImminent, Tag: domain.TagImminent}
	case days <= soonWindowDays:
		return domain.Urgency{Tier: domain.TierSoon, Tag: domain.TagSoon}
	default:
		return domain.Urgency{Tier: domain.TierLater, Tag: domain.TagLater}
	}
}

// ParseDeadline interpreta un plazo en cualquiera de los formatos conocidos.
func ParseDeadline(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range deadlineLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SortByUrgency ordena por nivel ascendente sin clave secundaria; los
// elementos con el mismo nivel conservan su orden de entrada.
func SortByUrgency[T any](items []T, tierOf func(T) domain.Tier) {
	slices.SortStableFunc(items, func(a, b T) int {
		return int(tierOf(a)) - int(tierOf(b))
	})
}

// RankDocuments clasifica y ordena documentos por fechaPlazo y estado.
func RankDocuments(docs []domain.Document, now time.Time, loc *time.Location) []domain.RankedDocument {
	ranked := make([]domain.RankedDocument, 0, len(docs))
	for _, d := range docs {
		ranked = append(ranked, domain.RankedDocument{
			Document: d,
			Urgency:  ClassifyRaw(d.Deadline, d.Status, now, loc),
		})
	}
	SortByUrgency(ranked, func(r domain.RankedDocument) domain.Tier { return r.Urgency.Tier })
	return ranked
}

// RankAssignments clasifica y ordena asignaciones por fechaEntrega y estado.
func RankAssignments(items []domain.Assignment, now time.Time, loc *time.Location) []domain.RankedAssignment {
	ranked := make([]domain.RankedAssignment, 0, len(items))
	for _, a := range items {
		ranked = append(ranked, domain.RankedAssignment{
			Assignment: a,
			Urgency:    ClassifyRaw(a.DueAt, a.Status, now, loc),
		})
	}
	SortByUrgency(ranked, func(r domain.RankedAssignment) domain.Tier { return r.Urgency.Tier })
	return ranked
}
