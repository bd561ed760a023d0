package reconcile

import "time"

// Firestore payloads come back as map[string]any with string, int64,
// float64 and time.Time values. These readers tolerate missing keys and the
// numeric widening the SDK performs.

func payloadString(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func payloadInt64(m map[string]any, key string) int64 {
	switch v := m[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func payloadTime(m map[string]any, key string) time.Time {
	if v, ok := m[key].(time.Time); ok {
		return v
	}
	if v, ok := m[key].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func payloadTimePtr(m map[string]any, key string) *time.Time {
	t := payloadTime(m, key)
	if t.IsZero() {
		return nil
	}
	return &t
}
