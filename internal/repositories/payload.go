package repositories

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"marketplace-api/internal/auth"
)

// ValidateCreatePayload checks that data carries exactly the resource's
// create keys and returns a copy with the override key resolved from the
// identity when it was omitted.
func ValidateCreatePayload(res *Resource, data Payload, identity *auth.Identity) (Payload, error) {
	resolved := make(Payload, len(data)+1)
	for k, v := range data {
		resolved[k] = v
	}

	if res.OverrideKey != "" && identity != nil {
		if _, present := data[res.OverrideKey]; !present {
			if v := res.OverrideValue(*identity); v != "" {
				resolved[res.OverrideKey] = v
			}
		}
	}

	expected := make(map[string]bool, len(res.CreateKeys))
	for _, k := range res.CreateKeys {
		expected[k] = true
	}

	var missing, unexpected []string
	for _, k := range res.CreateKeys {
		if _, ok := resolved[k]; !ok {
			missing = append(missing, k)
		}
	}
	for k := range resolved {
		if !expected[k] {
			unexpected = append(unexpected, k)
		}
	}

	if len(missing) > 0 || len(unexpected) > 0 {
		return nil, PayloadError("create", res.Name, keyMismatch(missing, unexpected))
	}

	for k, v := range resolved {
		if _, isColumn := res.Column(k); isColumn && !isScalar(v) {
			return nil, PayloadError("create", res.Name, fmt.Sprintf("field %s must be a scalar value", k))
		}
	}

	return resolved, nil
}

// ValidateUpdatePayload checks that data is non-empty and touches only updatable columns
func ValidateUpdatePayload(res *Resource, data Payload) error {
	if len(data) == 0 {
		return PayloadError("update", res.Name, "update payload is empty")
	}

	var unexpected []string
	for k, v := range data {
		c, ok := res.Column(k)
		if !ok || !c.Updatable {
			unexpected = append(unexpected, k)
			continue
		}
		if !isScalar(v) {
			return PayloadError("update", res.Name, fmt.Sprintf("field %s must be a scalar value", k))
		}
	}

	if len(unexpected) > 0 {
		return PayloadError("update", res.Name, keyMismatch(nil, unexpected))
	}
	return nil
}

func keyMismatch(missing, unexpected []string) string {
	sort.Strings(missing)
	sort.Strings(unexpected)

	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "missing keys: "+strings.Join(missing, ", "))
	}
	if len(unexpected) > 0 {
		parts = append(parts, "unexpected keys: "+strings.Join(unexpected, ", "))
	}
	return "invalid payload: " + strings.Join(parts, "; ")
}

func isScalar(v any) bool {
	switch v.(type) {
	case nil, string, bool, float64, float32, int, int32, int64, json.Number:
		return true
	default:
		return false
	}
}
