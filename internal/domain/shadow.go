package domain

// ShadowState mirrors the device shadow's state document. Reported is
// device-asserted, Desired is app-asserted.
type ShadowState struct {
	Reported map[string]interface{} `json:"reported,omitempty"`
	Desired  map[string]interface{} `json:"desired,omitempty"`
}

// ShadowDocument is the envelope the shadow service speaks.
type ShadowDocument struct {
	State ShadowState `json:"state"`
}

// OwnerID extracts reported.owner_id. A legacy migration left some shadows
// with the owner encoded as a one-element array; those report needsFix so the
// caller can write the corrected value back.
func (s ShadowState) OwnerID() (owner string, needsFix bool) {
	raw, ok := s.Reported["owner_id"]
	if !ok {
		return "", false
	}
	switch v := raw.(type) {
	case string:
		return v, false
	case []interface{}:
		if len(v) == 0 {
			return "", false
		}
		if first, ok := v[0].(string); ok {
			return first, true
		}
	case []string:
		if len(v) > 0 {
			return v[0], true
		}
	}
	return "", false
}
