package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Address is a value object representing a courier delivery address.
// It is immutable - all operations return new Address instances.
// Street, city, state, zip code, and country are required; landmark is optional.
type Address struct {
	street   string
	landmark string
	city     string
	state    string
	zipCode  string
	country  string
}

// AddressOption is a functional option for configuring Address
type AddressOption func(*Address)

// WithLandmark sets the landmark for the address
func WithLandmark(landmark string) AddressOption {
	return func(a *Address) {
		a.landmark = strings.TrimSpace(landmark)
	}
}

// NewAddress creates a new Address with the required fields.
// All of street, city, state, zipCode, and country must be non-empty.
func NewAddress(street, city, state, zipCode, country string, opts ...AddressOption) (Address, error) {
	street = strings.TrimSpace(street)
	city = strings.TrimSpace(city)
	state = strings.TrimSpace(state)
	zipCode = strings.TrimSpace(zipCode)
	country = strings.TrimSpace(country)

	if street == "" {
		return Address{}, errors.New("street cannot be empty")
	}
	if len(street) > 200 {
		return Address{}, errors.New("street cannot exceed 200 characters")
	}
	if city == "" {
		return Address{}, errors.New("city cannot be empty")
	}
	if state == "" {
		return Address{}, errors.New("state cannot be empty")
	}
	if zipCode == "" {
		return Address{}, errors.New("zip code cannot be empty")
	}
	if len(zipCode) > 20 {
		return Address{}, errors.New("zip code cannot exceed 20 characters")
	}
	if country == "" {
		return Address{}, errors.New("country cannot be empty")
	}

	addr := Address{
		street:  street,
		city:    city,
		state:   state,
		zipCode: zipCode,
		country: country,
	}

	for _, opt := range opts {
		opt(&addr)
	}

	return addr, nil
}

// MustNewAddress creates a new Address, panics on error
func MustNewAddress(street, city, state, zipCode, country string, opts ...AddressOption) Address {
	addr, err := NewAddress(street, city, state, zipCode, country, opts...)
	if err != nil {
		panic(err)
	}
	return addr
}

// EmptyAddress returns an empty address (for pickup orders)
func EmptyAddress() Address {
	return Address{}
}

// Street returns the street line
func (a Address) Street() string {
	return a.street
}

// Landmark returns the landmark
func (a Address) Landmark() string {
	return a.landmark
}

// City returns the city
func (a Address) City() string {
	return a.city
}

// State returns the state
func (a Address) State() string {
	return a.state
}

// ZipCode returns the zip code
func (a Address) ZipCode() string {
	return a.zipCode
}

// Country returns the country
func (a Address) Country() string {
	return a.country
}

// IsEmpty returns true if the address has no fields set
func (a Address) IsEmpty() bool {
	return a.street == "" && a.city == "" && a.state == "" && a.zipCode == "" && a.country == ""
}

// Equals returns true if both addresses have identical fields
func (a Address) Equals(other Address) bool {
	return a == other
}

// String returns a single-line representation of the address
func (a Address) String() string {
	parts := make([]string, 0, 6)
	for _, p := range []string{a.street, a.landmark, a.city, a.state, a.zipCode, a.country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

type addressJSON struct {
	Street   string `json:"street"`
	Landmark string `json:"landmark,omitempty"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zip_code"`
	Country  string `json:"country"`
}

// MarshalJSON implements json.Marshaler
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(addressJSON{
		Street:   a.street,
		Landmark: a.landmark,
		City:     a.city,
		State:    a.state,
		ZipCode:  a.zipCode,
		Country:  a.country,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
// Fields are assigned directly; an empty address is valid here because a
// pickup order carries no delivery address. Courier orders are validated
// by the order aggregate, not during deserialization.
func (a *Address) UnmarshalJSON(data []byte) error {
	var v addressJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	a.street = v.Street
	a.landmark = v.Landmark
	a.city = v.City
	a.state = v.State
	a.zipCode = v.ZipCode
	a.country = v.Country
	return nil
}

// Value implements driver.Valuer for database storage (JSONB)
func (a Address) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Scan implements sql.Scanner for database retrieval
func (a *Address) Scan(value any) error {
	if value == nil {
		*a = Address{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Address", value)
	}

	if len(bytes) == 0 {
		*a = Address{}
		return nil
	}

	return a.UnmarshalJSON(bytes)
}
