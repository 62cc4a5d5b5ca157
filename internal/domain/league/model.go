package league

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

type Type string

const (
	TypeClub     Type = "club"
	TypeNational Type = "national"
	TypeOther    Type = "other"
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// League is a competition a match belongs to. Matches reference leagues by ID.
type League struct {
	ID        string
	Name      string
	Key       string
	Color     string
	Type      Type
	Region    string
	Active    bool
	Order     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeKey lowercases and trims a league key.
func NormalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func (l League) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("league name is required")
	}
	if l.Key == "" || l.Key != NormalizeKey(l.Key) {
		return fmt.Errorf("league key must be non-empty lowercase")
	}
	if !colorPattern.MatchString(l.Color) {
		return fmt.Errorf("league color must be a #RRGGBB hex value")
	}
	switch l.Type {
	case TypeClub, TypeNational, TypeOther:
	default:
		return fmt.Errorf("league type must be one of club, national, other")
	}
	return nil
}
