package auth

import (
	"context"
	"errors"
	"testing"
)

type fakeRepo struct {
	roles map[int64]Role
	err   error
}

func (f fakeRepo) FindRole(_ context.Context, userID int64) (*Role, error) {
	if f.err != nil {
		return nil, f.err
	}
	role, ok := f.roles[userID]
	if !ok {
		return nil, nil
	}
	return &role, nil
}

func TestAuthorize(t *testing.T) {
	svc := New(fakeRepo{roles: map[int64]Role{
		1: RoleAdmin,
		2: RoleUser,
	}})
	ctx := context.Background()

	cases := []struct {
		userID   int64
		required Role
		want     bool
	}{
		{1, "", true},
		{2, "", true},
		{3, "", false},
		{1, RoleAdmin, true},
		{2, RoleAdmin, false},
		{2, RoleUser, true},
	}
	for _, tc := range cases {
		got, err := svc.Authorize(ctx, tc.userID, tc.required)
		if err != nil {
			t.Fatalf("authorize(%d, %q): %v", tc.userID, tc.required, err)
		}
		if got != tc.want {
			t.Fatalf("authorize(%d, %q) = %v, want %v", tc.userID, tc.required, got, tc.want)
		}
	}
}

func TestAuthorize_RepoFailurePropagates(t *testing.T) {
	svc := New(fakeRepo{err: errors.New("db down")})
	if _, err := svc.Authorize(context.Background(), 1, ""); err == nil {
		t.Fatal("expected error")
	}
}
