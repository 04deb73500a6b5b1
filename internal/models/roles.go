package models

type Role string

const (
	RoleOwner Role = "owner"
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

// IsAdmin reports whether the role carries administrative rights.
// Owner is the site owner and always passes.
func (r Role) IsAdmin() bool {
	return r == RoleOwner || r == RoleAdmin
}

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleUser, RoleGuest:
		return true
	}
	return false
}

type Tier string

const (
	TierS Tier = "S"
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
	TierD Tier = "D"
)

func (t Tier) Valid() bool {
	switch t {
	case TierS, TierA, TierB, TierC, TierD:
		return true
	}
	return false
}
