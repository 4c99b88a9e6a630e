package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/vendedores-api/internal/domain"
)

// Timestamp fecha-hora recibida en un request. Acepta RFC3339 o una hora sin zona, que se
// interpreta en la zona contable (la misma que define el día civil de los reportes).
type Timestamp string

var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// In resuelve la fecha; vacía devuelve el tiempo cero (el caso de uso toma la hora actual).
func (t Timestamp) In(loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(string(t))
	if s == "" {
		return time.Time{}, nil
	}
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts, nil
	}
	for _, layout := range localLayouts {
		if ts, err := time.ParseInLocation(layout, s, loc); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("fecha %q: %w", s, domain.ErrInvalidInput)
}
