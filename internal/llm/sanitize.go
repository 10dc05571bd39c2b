package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	reCurrency = regexp.MustCompile(`^[A-Z]{3}$`)
	reNumeric  = regexp.MustCompile(`^-?[\d,]+(\.\d+)?$`)
	optMoney   = []string{"subtotal", "taxRate", "taxAmount", "deliveryCharge", "total"}
)

// SanitizeOptionalFields removes or normalizes optional fields inside the
// response's data object that don't meet the schema, so the overall document
// can still validate. We only touch OPTIONALS; required shape problems are
// left for validation to reject.
func SanitizeOptionalFields(doc []byte) ([]byte, []string, error) {
	var m map[string]any
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, nil, err
	}

	var dropped []string

	data, ok := m["data"].(map[string]any)
	if !ok {
		b, err := json.Marshal(m)
		return b, nil, err
	}

	// currency: normalize casing; drop codes that still don't look ISO-ish
	if v, ok := data["currency"].(string); ok {
		s := strings.ToUpper(strings.TrimSpace(v))
		if reCurrency.MatchString(s) {
			data["currency"] = s
		} else {
			delete(data, "currency")
			dropped = append(dropped, "currency")
		}
	}

	for _, k := range optMoney {
		if v, ok := data[k]; ok {
			switch t := v.(type) {
			case nil:
				delete(data, k)
				dropped = append(dropped, k)
			case float64:
				// already fine
			case string:
				s := strings.TrimSpace(t)
				if s == "" || strings.EqualFold(s, "null") {
					delete(data, k)
					dropped = append(dropped, k)
					continue
				}
				if !reNumeric.MatchString(s) {
					if f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64); err == nil {
						data[k] = fmt.Sprintf("%.2f", f)
					} else {
						delete(data, k)
						dropped = append(dropped, k)
					}
				}
			default:
				// unknown type -> drop
				delete(data, k)
				dropped = append(dropped, k)
			}
		}
	}

	// confidence outside 0..1 gets clamped rather than failing validation
	if c, ok := m["confidence"].(float64); ok {
		switch {
		case c < 0:
			m["confidence"] = 0.0
		case c > 1:
			m["confidence"] = 1.0
		}
	}

	b, err := json.Marshal(m)
	if err != nil {
		return nil, nil, err
	}
	return b, dropped, nil
}
