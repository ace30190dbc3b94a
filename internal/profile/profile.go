// Package profile defines the transfer-market profile model shared by the
// engine, the stores, and the AI annotator.
package profile

import (
	"fmt"
	"strings"
)

// Role discriminates the profile variants. Each role carries its own
// attribute subset on Profile; fields outside a profile's role are ignored.
type Role string

const (
	RolePlayer Role = "player"
	RoleCoach  Role = "coach"
	RoleClub   Role = "club"
)

// ParseRole normalizes a role string to a known Role.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RolePlayer:
		return RolePlayer, nil
	case RoleCoach:
		return RoleCoach, nil
	case RoleClub:
		return RoleClub, nil
	default:
		return "", fmt.Errorf("unknown role: %q", s)
	}
}

// Valid reports whether the role is one of the known variants.
func (r Role) Valid() bool {
	return r == RolePlayer || r == RoleCoach || r == RoleClub
}

// Vacancy is an open slot announced by a club.
type Vacancy struct {
	Position string `json:"position"`
	Note     string `json:"note,omitempty"`
}

// Profile is an immutable snapshot served by a Store. The engine never
// mutates profiles; it derives feature vectors from them per request.
type Profile struct {
	ID              string   `json:"id"`
	Role            Role     `json:"role"`
	Name            string   `json:"name,omitempty"`
	Region          string   `json:"region,omitempty"`
	SeekingTransfer bool     `json:"seeking_transfer,omitempty"`
	Specialties     []string `json:"specialties,omitempty"`

	// Player attributes.
	Position string `json:"position,omitempty"`
	Age      int    `json:"age,omitempty"`

	// Coach attributes.
	Specialization string `json:"specialization,omitempty"`

	// Club attributes.
	Division  string    `json:"division,omitempty"`
	Vacancies []Vacancy `json:"vacancies,omitempty"`
}

// Summary returns the reduced profile view sent to external scorers. It
// carries only the matching-relevant attributes, never the full snapshot.
func (p *Profile) Summary() map[string]any {
	if p == nil {
		return nil
	}

	summary := map[string]any{
		"id":   p.ID,
		"role": string(p.Role),
	}
	if p.Name != "" {
		summary["name"] = p.Name
	}
	if p.Region != "" {
		summary["region"] = p.Region
	}
	if len(p.Specialties) > 0 {
		summary["specialties"] = p.Specialties
	}

	switch p.Role {
	case RolePlayer:
		if p.Position != "" {
			summary["position"] = p.Position
		}
		if p.Age > 0 {
			summary["age"] = p.Age
		}
	case RoleCoach:
		if p.Specialization != "" {
			summary["specialization"] = p.Specialization
		}
		if p.Age > 0 {
			summary["age"] = p.Age
		}
	case RoleClub:
		if p.Division != "" {
			summary["division"] = p.Division
		}
		if len(p.Vacancies) > 0 {
			vacancies := make([]string, 0, len(p.Vacancies))
			for _, v := range p.Vacancies {
				vacancies = append(vacancies, v.Position)
			}
			summary["vacancies"] = vacancies
		}
	}

	return summary
}

type Profiles struct {
	Items []*Profile
}

func (p *Profiles) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Items)
}

func (p *Profiles) FindByID(id string) *Profile {
	if p == nil {
		return nil
	}
	for _, item := range p.Items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

func (p *Profiles) IDs() []string {
	ids := make([]string, 0, p.Len())
	for _, item := range p.Items {
		ids = append(ids, item.ID)
	}
	return ids
}
