package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// Tables on the record platform.
const (
	TableProducts   = "products_c"
	TableOrders     = "orders_c"
	TableCategories = "categories_c"
)

// PlaceholderImage is substituted when a product record carries no images.
const PlaceholderImage = "/api/placeholder/300/400"

// ProductRecord is the raw shape of a products_c row as returned by the
// record API. Field types are tolerant: decoding a record never fails on
// a malformed sub-field, it degrades to the field's zero value instead.
type ProductRecord struct {
	ID          int         `json:"Id"`
	Name        string      `json:"name_c"`
	Description string      `json:"description_c"`
	Price       Money       `json:"price_c"`
	Stock       Money       `json:"stock_c"`
	Featured    bool        `json:"featured_c"`
	Sizes       StringList  `json:"sizes_c"`
	Colors      StringList  `json:"colors_c"`
	Subcategory string      `json:"subcategory_c"`
	Images      ImageList   `json:"images_c"`
	Category    CategoryRef `json:"category_c"`
}

// OrderRecord is the raw shape of an orders_c row. The items, shipping
// address and tracking fields are stored as JSON-encoded text on the
// platform; their types accept either the encoded string or an already
// decoded object.
type OrderRecord struct {
	ID          int        `json:"Id"`
	OrderNumber string     `json:"order_number_c"`
	OrderDate   string     `json:"order_date_c"`
	Status      string     `json:"status_c"`
	Total       Money      `json:"total_c"`
	Items       ItemList   `json:"items_c"`
	Address     AddressMap `json:"shipping_address_c"`
	Tracking    Tracking   `json:"tracking_c"`
}

// CategoryRecord is the raw shape of a categories_c row.
type CategoryRecord struct {
	Name string `json:"Name"`
}

var errEmptyComposite = errors.New("empty composite field")

// decodeComposite decodes a field that may arrive either as inline JSON
// or as a JSON string containing encoded JSON. This is the single place
// where the "never let malformed persisted JSON crash a read" policy is
// applied; callers substitute a typed default when it returns an error.
func decodeComposite(b []byte, v any) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return errEmptyComposite
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			return errEmptyComposite
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, v)
}

func warnBadComposite(field string, err error) {
	if errors.Is(err, errEmptyComposite) {
		return
	}
	util.GetLogger().Warn("Malformed composite field, using default",
		zap.String("field", field),
		zap.Error(err))
}

// StringList is a multi-picklist value: either a JSON array of strings
// or a single comma-joined string. An already-split array is taken as
// is; a joined string is split and trimmed. Decoding never fails.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	var arr []string
	if err := json.Unmarshal(b, &arr); err == nil {
		*l = arr
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if strings.TrimSpace(s) == "" {
			*l = nil
			return nil
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			out = append(out, strings.TrimSpace(p))
		}
		*l = out
		return nil
	}

	*l = nil
	return nil
}

// Money is a decimal amount that may arrive as a JSON number or a
// numeric string. Anything else decodes to zero.
type Money float64

func (m *Money) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*m = Money(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		var parsed float64
		if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &parsed); err == nil {
			*m = Money(parsed)
			return nil
		}
	}

	*m = 0
	return nil
}

// CategoryRef is a lookup reference resolved to its display name. The
// platform returns either the reference object or, unresolved, nothing
// useful; a bare string is also accepted.
type CategoryRef struct {
	Name string `json:"Name"`
}

func (c *CategoryRef) UnmarshalJSON(b []byte) error {
	var obj struct {
		Name string `json:"Name"`
	}
	if err := json.Unmarshal(b, &obj); err == nil {
		c.Name = obj.Name
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		c.Name = s
		return nil
	}

	c.Name = ""
	return nil
}

// ImageList is a list of image URLs. The platform stores images as an
// array of objects carrying url (or Url); bare string arrays are also
// accepted. Entries with no usable URL fall back to the placeholder.
type ImageList []string

func (l *ImageList) UnmarshalJSON(b []byte) error {
	var refs []struct {
		URL    string `json:"url"`
		URLAlt string `json:"Url"`
	}
	if err := json.Unmarshal(b, &refs); err == nil {
		out := make([]string, 0, len(refs))
		for _, r := range refs {
			switch {
			case r.URL != "":
				out = append(out, r.URL)
			case r.URLAlt != "":
				out = append(out, r.URLAlt)
			default:
				out = append(out, PlaceholderImage)
			}
		}
		*l = out
		return nil
	}

	var urls []string
	if err := json.Unmarshal(b, &urls); err == nil {
		*l = urls
		return nil
	}

	*l = nil
	return nil
}

// ItemList is the items_c composite field: order line items stored as
// JSON text. Malformed content decodes to an empty list.
type ItemList []OrderItem

func (l *ItemList) UnmarshalJSON(b []byte) error {
	var items []OrderItem
	if err := decodeComposite(b, &items); err != nil {
		warnBadComposite("items_c", err)
		*l = nil
		return nil
	}
	*l = items
	return nil
}

// AddressMap is the shipping_address_c composite field: an opaque
// key-value object stored as JSON text.
type AddressMap map[string]string

func (m *AddressMap) UnmarshalJSON(b []byte) error {
	var addr map[string]string
	if err := decodeComposite(b, &addr); err != nil {
		warnBadComposite("shipping_address_c", err)
		*m = nil
		return nil
	}
	*m = addr
	return nil
}

// trackingAlias avoids recursing into Tracking.UnmarshalJSON.
type trackingAlias Tracking

// UnmarshalJSON accepts tracking either inline or as JSON-encoded text,
// degrading to an empty Tracking on malformed content.
func (t *Tracking) UnmarshalJSON(b []byte) error {
	var ta trackingAlias
	if err := decodeComposite(b, &ta); err != nil {
		warnBadComposite("tracking_c", err)
		*t = Tracking{}
		return nil
	}
	*t = Tracking(ta)
	return nil
}
