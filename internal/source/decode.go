package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	domain "github.com/basketwatch/basketwatch/pkg/types"
)

// flexPrice accepts a JSON number or a numeric string. Some platform
// feeds quote prices ("45.00"), some don't.
type flexPrice float64

func (p *flexPrice) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*p = 0
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
		// Strip a leading currency marker, e.g. "₹45" or "Rs. 45".
		s = strings.TrimPrefix(s, "₹")
		s = strings.TrimPrefix(s, "Rs.")
		s = strings.TrimPrefix(s, "Rs")
		s = strings.TrimSpace(s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("price %q is not numeric: %w", string(data), err)
	}
	*p = flexPrice(v)
	return nil
}

// wireProduct is the lenient over-the-wire shape of one listing.
type wireProduct struct {
	Name         string          `json:"name"`
	Price        flexPrice       `json:"price"`
	Description  string          `json:"description"`
	DeliveryTime string          `json:"deliveryTime"`
	Link         string          `json:"link"`
	Image        string          `json:"image"`
	Platform     domain.Platform `json:"platform"`
}

// wireEnvelope covers both the {"products": [...]} shape and the full
// snapshot envelope, which carries the same key plus run metadata.
type wireEnvelope struct {
	Products []wireProduct `json:"products"`
}

// DecodeProducts parses a platform payload into raw records. Three
// shapes are accepted: a bare JSON array, a {"products": [...]} object,
// and a full comparison-snapshot envelope. Records without a platform
// tag are stamped with the source's.
func DecodeProducts(data []byte, platform domain.Platform) ([]domain.RawProduct, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty payload")
	}

	var wire []wireProduct
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &wire); err != nil {
			return nil, fmt.Errorf("parsing product array: %w", err)
		}
	case '{':
		var env wireEnvelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("parsing product envelope: %w", err)
		}
		if env.Products == nil {
			return nil, fmt.Errorf(`payload object has no "products" key`)
		}
		wire = env.Products
	default:
		return nil, fmt.Errorf("payload is neither a JSON array nor an object")
	}

	records := make([]domain.RawProduct, 0, len(wire))
	for _, w := range wire {
		p := w.Platform
		if !p.Valid() {
			p = platform
		}
		records = append(records, domain.RawProduct{
			Name:         w.Name,
			Price:        float64(w.Price),
			Description:  w.Description,
			DeliveryTime: w.DeliveryTime,
			Link:         w.Link,
			Image:        w.Image,
			Platform:     p,
		})
	}
	return records, nil
}
