package dto

import (
	"bytes"
	"fmt"
	"time"
)

// DateLayout formato de fecha de calendario de la API (columnas DATE).
const DateLayout = "2006-01-02"

// Date fecha de calendario en JSON. Acepta "2006-01-02" y, por compatibilidad, RFC 3339;
// siempre serializa como "2006-01-02".
type Date struct {
	time.Time
}

// NewDate trunca t a su fecha de calendario en UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("fecha %s: se espera texto YYYY-MM-DD", b)
	}
	s := string(b[1 : len(b)-1])
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("fecha %q: use YYYY-MM-DD", s)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}
