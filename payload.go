package verbiage

import "encoding/json"

// DecodeTerms decodes a generate response body.
//
// Invalid JSON is an error. A body that is null, an array, a scalar or an
// empty object decodes to a nil mapping. Locale entries that are not objects
// are dropped as if absent.
func DecodeTerms(data []byte) (TermsByLocale, error) {
	obj, err := decodeObject(data)
	if err != nil || len(obj) == 0 {
		return nil, err
	}

	terms := make(TermsByLocale, len(obj))
	for locale, raw := range obj {
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err != nil || m == nil {
			continue
		}
		terms[locale] = TermMap(m)
	}
	return terms, nil
}

// DecodeTimestamps decodes a last-update response body. Shape rules match
// DecodeTerms; a non-object body yields zero timestamps.
func DecodeTimestamps(data []byte) (UpdateTimestamps, error) {
	obj, err := decodeObject(data)
	if err != nil || len(obj) == 0 {
		return UpdateTimestamps{}, err
	}

	return UpdateTimestamps{
		Verbiages: rawTimestamp(obj["verbiages"]),
		Terms:     rawTimestamp(obj["terms"]),
	}, nil
}

// decodeObject returns the members of a JSON object, or nil when data is
// valid JSON of another shape.
func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	if _, ok := v.(map[string]any); !ok {
		return nil, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}
