package validate

import (
	"strconv"
	"strings"
)

type ErrField struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

type Errs []ErrField

func (e Errs) Error() string { // error interface
	var b strings.Builder
	for i, ef := range e {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(ef.Field + ": " + ef.Msg)
	}
	return b.String()
}

// Helpers

func Required(field, value string) *ErrField {
	if strings.TrimSpace(value) == "" {
		return &ErrField{Field: field, Msg: "requerido"}
	}
	return nil
}

func MinLen(field, value string, min int) *ErrField {
	if len(value) < min {
		return &ErrField{Field: field, Msg: "debe tener al menos " + strconv.Itoa(min) + " caracteres"}
	}
	return nil
}

func Alnum(field, value string) *ErrField {
	for _, r := range value {
		ok := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !ok {
			return &ErrField{Field: field, Msg: "debe ser alfanumérico"}
		}
	}
	return nil
}

func Email(field, value string) *ErrField {
	at := strings.Index(value, "@")
	if at < 1 || at == len(value)-1 || !strings.Contains(value[at:], ".") {
		return &ErrField{Field: field, Msg: "correo electrónico inválido"}
	}
	return nil
}

// ISBN accepts the usual 10 or 13 character forms, hyphens ignored, with an
// optional trailing X on the 10-digit form.
func ISBN(field, value string) *ErrField {
	s := strings.ReplaceAll(value, "-", "")
	if len(s) != 10 && len(s) != 13 {
		return &ErrField{Field: field, Msg: "ISBN inválido"}
	}
	for i, r := range s {
		if r >= '0' && r <= '9' {
			continue
		}
		if len(s) == 10 && i == 9 && (r == 'X' || r == 'x') {
			continue
		}
		return &ErrField{Field: field, Msg: "ISBN inválido"}
	}
	return nil
}
