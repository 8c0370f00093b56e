package domain

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/ougirez/bloodbank/internal/pkg/constants"
)

type BloodGroup string

const (
	BloodGroupAPos  BloodGroup = "A+"
	BloodGroupANeg  BloodGroup = "A-"
	BloodGroupBPos  BloodGroup = "B+"
	BloodGroupBNeg  BloodGroup = "B-"
	BloodGroupOPos  BloodGroup = "O+"
	BloodGroupONeg  BloodGroup = "O-"
	BloodGroupABPos BloodGroup = "AB+"
	BloodGroupABNeg BloodGroup = "AB-"
)

var AllBloodGroups = []BloodGroup{
	BloodGroupAPos, BloodGroupANeg,
	BloodGroupBPos, BloodGroupBNeg,
	BloodGroupOPos, BloodGroupONeg,
	BloodGroupABPos, BloodGroupABNeg,
}

func (g BloodGroup) Valid() bool {
	for _, known := range AllBloodGroups {
		if g == known {
			return true
		}
	}
	return false
}

func (g BloodGroup) String() string {
	return string(g)
}

func ParseBloodGroup(s string) (BloodGroup, error) {
	g := BloodGroup(s)
	if !g.Valid() {
		return "", fmt.Errorf("%q: %w", s, constants.ErrInvalidGroup)
	}
	return g, nil
}

// Stock is the per-group unit count of one blood bank. Absent keys mean zero
// and every present value is >= 0. Add and Allocate never mutate the receiver:
// they return the whole updated map, which is what gets persisted.
type Stock map[BloodGroup]int

func (s Stock) Get(g BloodGroup) int {
	return s[g]
}

func (s Stock) Clone() Stock {
	out := make(Stock, len(s))
	for g, q := range s {
		out[g] = q
	}
	return out
}

// ValidateDelta checks the arguments of a ledger add/allocate.
func ValidateDelta(g BloodGroup, quantity int) error {
	if !g.Valid() {
		return fmt.Errorf("%q: %w", g, constants.ErrInvalidGroup)
	}
	if quantity <= 0 {
		return fmt.Errorf("%d: %w", quantity, constants.ErrInvalidQuantity)
	}
	return nil
}

func (s Stock) Add(g BloodGroup, quantity int) (Stock, error) {
	if err := ValidateDelta(g, quantity); err != nil {
		return nil, err
	}

	current := s.Get(g)
	if quantity > math.MaxInt-current {
		return nil, fmt.Errorf("%s: %d + %d overflows: %w", g, current, quantity, constants.ErrInvalidQuantity)
	}

	out := s.Clone()
	out[g] = current + quantity
	return out, nil
}

func (s Stock) Allocate(g BloodGroup, quantity int) (Stock, error) {
	if err := ValidateDelta(g, quantity); err != nil {
		return nil, err
	}

	current := s.Get(g)
	if current < quantity {
		return nil, fmt.Errorf("not enough %s available (have %d, need %d): %w",
			g, current, quantity, constants.ErrInsufficientStock)
	}

	out := s.Clone()
	out[g] = current - quantity
	return out, nil
}

// Validate checks a stock map supplied from outside (e.g. when a bank is created).
func (s Stock) Validate() error {
	for g, q := range s {
		if !g.Valid() {
			return fmt.Errorf("%q: %w", g, constants.ErrInvalidGroup)
		}
		if q < 0 {
			return fmt.Errorf("%s: %d: %w", g, q, constants.ErrInvalidQuantity)
		}
	}
	return nil
}

// Merge adds every count of other into s, saturating at math.MaxInt.
func (s Stock) Merge(other Stock) {
	for g, q := range other {
		if q > math.MaxInt-s[g] {
			s[g] = math.MaxInt
			continue
		}
		s[g] += q
	}
}

func (s Stock) Groups() []BloodGroup {
	groups := make([]BloodGroup, 0, len(s))
	for g := range s {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i] < groups[j] })
	return groups
}

// Quantity is a unit count read from a request body. Forms send it as a
// string, so "4" decodes the same as 4.
type Quantity int

func (q *Quantity) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := sonic.Unmarshal(raw, &s); err != nil {
			return fmt.Errorf("quantity %s: %w", raw, constants.ErrInvalidQuantity)
		}
		raw = bytes.TrimSpace([]byte(s))
	}

	n, err := strconv.Atoi(string(raw))
	if err != nil {
		return fmt.Errorf("quantity %s: %w", data, constants.ErrInvalidQuantity)
	}
	*q = Quantity(n)
	return nil
}
