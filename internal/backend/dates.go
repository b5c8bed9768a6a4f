package backend

import (
	"fmt"
	"strings"
	"time"

	"docflow/internal/domain"
)

// APIDateLayout es el formato de fecha que acepta la API: ISO-8601 en UTC
// sin zona ni fracciones de segundo.
const APIDateLayout = "2006-01-02T15:04:05"

var apiInputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatAPIDate convierte t a UTC y lo formatea con APIDateLayout.
func FormatAPIDate(t time.Time) string {
	return t.UTC().Format(APIDateLayout)
}

// NormalizeAPIDate reescribe una fecha de formulario con APIDateLayout.
// Una cadena vacia sigue vacia.
func NormalizeAPIDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	t, ok := parseAPITime(value)
	if !ok {
		return "", fmt.Errorf("%w: date %q", ErrInvalidInput, value)
	}
	return FormatAPIDate(t), nil
}

func parseAPITime(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range apiInputLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func normalizeDocumentInput(in domain.DocumentInput) (domain.DocumentInput, error) {
	var err error
	for _, field := range []*string{&in.ReceivedAt, &in.DeliveredAt, &in.Deadline} {
		if *field, err = NormalizeAPIDate(*field); err != nil {
			return in, err
		}
	}
	return in, nil
}

func normalizeProcessInput(in domain.ProcessInput) (domain.ProcessInput, error) {
	var err error
	for _, field := range []*string{&in.StartedAt, &in.UpdatedAt, &in.NotifiedAt} {
		if *field, err = NormalizeAPIDate(*field); err != nil {
			return in, err
		}
	}
	return in, nil
}
