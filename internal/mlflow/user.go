package mlflow

import "os/user"

// DefaultUserID is sent as the run's user_id when the local identity is
// unavailable.
const DefaultUserID = "unknown"

// UserLookup resolves the local user name, reporting false when the platform
// cannot provide one.
type UserLookup func() (string, bool)

// CurrentUser looks up the operating-system user running the process.
func CurrentUser() (string, bool) {
	u, err := user.Current()
	if err != nil || u.Username == "" {
		return "", false
	}
	return u.Username, true
}

func (t *Tracking) userID() string {
	if t.lookupUser == nil {
		return DefaultUserID
	}
	if name, ok := t.lookupUser(); ok {
		return name
	}
	return DefaultUserID
}
