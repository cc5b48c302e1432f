package domain

import "strconv"

const (
	IdentityUser      = "user"
	IdentitySession   = "session"
	IdentityAnonymous = "anonymous"
)

// Identity is who a request belongs to for spin accounting: a logged-in
// user, a browser session, or nobody at all. UserID and SessionID are
// mutually exclusive; use the constructors.
type Identity struct {
	Kind      string
	UserID    uint
	SessionID string
}

func UserIdentity(id uint) Identity {
	return Identity{Kind: IdentityUser, UserID: id}
}

func SessionIdentity(id string) Identity {
	return Identity{Kind: IdentitySession, SessionID: id}
}

func Anonymous() Identity {
	return Identity{Kind: IdentityAnonymous}
}

func (i Identity) IsAnonymous() bool { return i.Kind == IdentityAnonymous }

// Key returns a stable string for logging and rate-limit buckets.
func (i Identity) Key() string {
	switch i.Kind {
	case IdentityUser:
		return "user:" + strconv.FormatUint(uint64(i.UserID), 10)
	case IdentitySession:
		return "session:" + i.SessionID
	default:
		return "anonymous"
	}
}
