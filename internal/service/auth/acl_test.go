package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestACL_Allowed(t *testing.T) {
	tests := []struct {
		name      string
		usernames []string
		ids       []int64
		id        int64
		username  string
		want      bool
	}{
		{name: "empty acl allows everyone", id: 1, username: "anyone", want: true},
		{name: "empty acl allows no username", id: 1, want: true},
		{name: "listed username", usernames: []string{"alice"}, id: 1, username: "alice", want: true},
		{name: "case insensitive", usernames: []string{"Alice"}, id: 1, username: "aLiCe", want: true},
		{name: "at prefix stripped", usernames: []string{"@alice"}, id: 1, username: "alice", want: true},
		{name: "unlisted username", usernames: []string{"alice"}, id: 1, username: "mallory", want: false},
		{name: "no username rejected", usernames: []string{"alice"}, id: 1, want: false},
		{name: "no username but listed id", usernames: []string{"alice"}, ids: []int64{7}, id: 7, want: true},
		{name: "listed id only", ids: []int64{7}, id: 7, username: "bob", want: true},
		{name: "unlisted id", ids: []int64{7}, id: 8, username: "bob", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acl := New(tt.usernames, tt.ids)
			assert.Equal(t, tt.want, acl.Allowed(tt.id, tt.username))
		})
	}
}

func TestACL_BlankEntriesIgnored(t *testing.T) {
	acl := New([]string{"", " @ "}, nil)
	assert.True(t, acl.Open())
}
