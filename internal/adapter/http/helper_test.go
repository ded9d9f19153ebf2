package http

import "strings"

func containsFieldMsg(fe []FieldError, field, substr string) bool {
	for _, e := range fe {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
