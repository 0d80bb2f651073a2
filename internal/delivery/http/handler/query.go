package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"emergency-referral/pkg/response"
	"emergency-referral/pkg/validator"
)

func queryInt(q url.Values, key string, fallback int) int {
	v, err := strconv.Atoi(q.Get(key))
	if err != nil {
		return fallback
	}
	return v
}

func queryBool(q url.Values, key string) *bool {
	b, err := strconv.ParseBool(q.Get(key))
	if err != nil {
		return nil
	}
	return &b
}

// queryList accepts both repeated keys and comma separated values.
func queryList(q url.Values, key string) []string {
	var out []string
	for _, raw := range q[key] {
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

// bindJSON decodes and validates a required request body, writing the
// error response itself when either step fails.
func bindJSON(w http.ResponseWriter, r *http.Request, v *validator.CustomValidator, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}
	if err := v.Validate(req); err != nil {
		response.ValidationError(w, v.FormatValidationErrors(err))
		return false
	}
	return true
}
