package auth

import "strings"

// ACL decides which Telegram senders may talk to the relay.
// An empty ACL lets everyone through.
type ACL struct {
	usernames map[string]struct{}
	ids       map[int64]struct{}
}

func New(usernames []string, ids []int64) *ACL {
	a := &ACL{
		usernames: make(map[string]struct{}, len(usernames)),
		ids:       make(map[int64]struct{}, len(ids)),
	}
	for _, u := range usernames {
		if u = normalize(u); u != "" {
			a.usernames[u] = struct{}{}
		}
	}
	for _, id := range ids {
		a.ids[id] = struct{}{}
	}
	return a
}

func (a *ACL) Open() bool {
	return len(a.usernames) == 0 && len(a.ids) == 0
}

// Allowed reports whether the sender is on the list. A sender without a
// username only passes when its id is listed.
func (a *ACL) Allowed(id int64, username string) bool {
	if a.Open() {
		return true
	}
	if _, ok := a.ids[id]; ok {
		return true
	}
	u := normalize(username)
	if u == "" {
		return false
	}
	_, ok := a.usernames[u]
	return ok
}

func normalize(username string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(username), "@"))
}
