package store

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Catalog field names as they appear in the source data.
const (
	FieldReference   = "produit"
	FieldName        = "designation"
	FieldDescription = "descriptif"
	FieldBrand       = "Marque"
	FieldFamily      = "Famille"
	FieldSubFamily   = "SousFamille"
	FieldPrice       = "Prix_Vente"
	FieldCostPrice   = "prix_achat"
	FieldLink        = "Lien_Externe"
	FieldPhoto       = "Perso_Lien_Photo"
	FieldImageURL    = "image_url"
)

// ListFields are the fields kept by slim product listings.
var ListFields = []string{
	FieldReference, FieldName, FieldDescription, FieldBrand, "Couleur",
	"Taille", FieldPrice, FieldCostPrice, "Rayon", FieldFamily, FieldSubFamily,
	FieldPhoto, FieldImageURL, FieldLink, "Motif", "Matiere", "Dimension",
}

// Record is one catalog product. Unknown fields are passed through untouched.
// Records inside a Snapshot must not be modified.
type Record map[string]any

// Value returns the raw field value.
func (r Record) Value(field string) any {
	return r[field]
}

// Text returns the field rendered as a string, or "" when absent.
func (r Record) Text(field string) string {
	return stringify(r[field])
}

// First returns the first present, non-empty value among fields.
func (r Record) First(fields ...string) any {
	for _, f := range fields {
		if v := r[f]; present(v) {
			return v
		}
	}
	return nil
}

// FirstText is First rendered as a string.
func (r Record) FirstText(fields ...string) string {
	return stringify(r.First(fields...))
}

// Reference is the product reference code.
func (r Record) Reference() string { return r.Text(FieldReference) }

// Name is the display name, falling back to the long description.
func (r Record) Name() string { return r.FirstText(FieldName, FieldDescription) }

// Brand is the brand as stored in the catalog.
func (r Record) Brand() string { return r.Text(FieldBrand) }

// Price is the sale price, falling back to the purchase price. Nil when neither is set.
func (r Record) Price() any { return r.First(FieldPrice, FieldCostPrice) }

// Link is the external product link.
func (r Record) Link() string { return r.Text(FieldLink) }

// Photo is the product photo, falling back to the image URL.
func (r Record) Photo() string { return r.FirstText(FieldPhoto, FieldImageURL) }

// Slim returns a copy restricted to ListFields.
func (r Record) Slim() Record {
	out := make(Record, len(ListFields))
	for _, f := range ListFields {
		if v, ok := r[f]; ok {
			out[f] = v
		}
	}
	return out
}

// with returns a shallow copy with one field replaced.
func (r Record) with(field string, value any) Record {
	out := make(Record, len(r)+1)
	for k, v := range r {
		out[k] = v
	}
	out[field] = value
	return out
}

// present mirrors the truthiness the catalog data relies on: nil, empty
// strings, zero numbers and false are treated as missing.
func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case json.Number:
		return t != "" && t != "0"
	case bool:
		return t
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// Snapshot is an immutable view of the whole catalog.
type Snapshot struct {
	Records  []Record
	LoadedAt time.Time
	Source   string

	// byRef maps a folded reference to the index of its first occurrence.
	byRef map[string]int
}

// NewSnapshot indexes records by reference. The first occurrence of a
// duplicated reference wins.
func NewSnapshot(records []Record, source string, loadedAt time.Time) *Snapshot {
	s := &Snapshot{
		Records:  records,
		LoadedAt: loadedAt,
		Source:   source,
		byRef:    make(map[string]int, len(records)),
	}
	for i, r := range records {
		key := foldRef(r.Reference())
		if key == "" {
			continue
		}
		if _, dup := s.byRef[key]; !dup {
			s.byRef[key] = i
		}
	}
	return s
}

// Len returns the number of records.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Records)
}

// FindByReference returns the first record whose reference matches, ignoring case.
func (s *Snapshot) FindByReference(ref string) (Record, bool) {
	if s == nil {
		return nil, false
	}
	i, ok := s.byRef[foldRef(ref)]
	if !ok {
		return nil, false
	}
	return s.Records[i], true
}

// FilterByBrand returns records whose brand equals brand, ignoring case.
func (s *Snapshot) FilterByBrand(brand string) []Record {
	if s == nil {
		return nil
	}
	want := strings.ToLower(strings.TrimSpace(brand))
	var out []Record
	for _, r := range s.Records {
		if strings.ToLower(strings.TrimSpace(r.Brand())) == want {
			out = append(out, r)
		}
	}
	return out
}

func foldRef(ref string) string {
	return strings.ToLower(strings.TrimSpace(ref))
}

// FormatValue renders a catalog value as text the way Text does.
func FormatValue(v any) string {
	return stringify(v)
}
