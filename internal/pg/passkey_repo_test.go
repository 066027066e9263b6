package pg

import (
	"context"
	"fmt"
	"testing"

	gallery "github.com/naszahistoria/gallery"
)

func TestPasskeyRepository_Create(t *testing.T) {
	c, err := NewTestClient("passkey_repo_create_test")
	if err != nil {
		t.Skip("test database unavailable:", err)
	}
	defer DropTestDB(c, "passkey_repo_create_test")

	ctx := context.Background()
	user, err := c.User().Upsert(ctx, "adas")
	if err != nil {
		t.Fatal("failed to upsert user:", err)
	}

	passkey := gallery.Passkey{
		ID:         "credential-id",
		UserID:     user.ID,
		PublicKey:  []byte("public-key"),
		Counter:    0,
		Transports: []string{"internal", "hybrid"},
	}
	if err = c.Passkey().Create(ctx, &passkey); err != nil {
		t.Fatal("failed to create passkey:", err)
	}

	stored, err := c.Passkey().ByID(ctx, "credential-id")
	if err != nil {
		t.Fatal("failed to retrieve passkey:", err)
	}
	if stored.UserID != user.ID {
		t.Errorf("incorrect user ID, want %v got %v", user.ID, stored.UserID)
	}
	if len(stored.Transports) != 2 {
		t.Errorf("incorrect transports, want 2 got %v", len(stored.Transports))
	}

	count, err := c.Passkey().CountByUserID(ctx, user.ID)
	if err != nil {
		t.Fatal("failed to count passkeys:", err)
	}
	if count != 1 {
		t.Errorf("incorrect passkey count, want 1 got %v", count)
	}
}

func TestPasskeyRepository_CreateEnforcesCap(t *testing.T) {
	c, err := NewTestClient("passkey_repo_cap_test")
	if err != nil {
		t.Skip("test database unavailable:", err)
	}
	defer DropTestDB(c, "passkey_repo_cap_test")

	ctx := context.Background()
	user, err := c.User().Upsert(ctx, "adas")
	if err != nil {
		t.Fatal("failed to upsert user:", err)
	}

	for i := 0; i < gallery.MaxPasskeysPerUser; i++ {
		passkey := gallery.Passkey{
			ID:        fmt.Sprintf("credential-%d", i),
			UserID:    user.ID,
			PublicKey: []byte("public-key"),
		}
		if err = c.Passkey().Create(ctx, &passkey); err != nil {
			t.Fatal("failed to create passkey:", err)
		}
	}

	overflow := gallery.Passkey{
		ID:        "credential-overflow",
		UserID:    user.ID,
		PublicKey: []byte("public-key"),
	}
	err = c.Passkey().Create(ctx, &overflow)
	if gallery.ErrorCode(err) != gallery.ECapacityExceeded {
		t.Errorf("incorrect error code, want %s got %v",
			gallery.ECapacityExceeded, gallery.ErrorCode(err))
	}

	count, err := c.Passkey().CountByUserID(ctx, user.ID)
	if err != nil {
		t.Fatal("failed to count passkeys:", err)
	}
	if count != gallery.MaxPasskeysPerUser {
		t.Errorf("registry was altered, want %v passkeys got %v",
			gallery.MaxPasskeysPerUser, count)
	}
}

func TestPasskeyRepository_UpdateCounter(t *testing.T) {
	c, err := NewTestClient("passkey_repo_counter_test")
	if err != nil {
		t.Skip("test database unavailable:", err)
	}
	defer DropTestDB(c, "passkey_repo_counter_test")

	ctx := context.Background()
	user, err := c.User().Upsert(ctx, "adas")
	if err != nil {
		t.Fatal("failed to upsert user:", err)
	}

	passkey := gallery.Passkey{
		ID:        "credential-id",
		UserID:    user.ID,
		PublicKey: []byte("public-key"),
		Counter:   5,
	}
	if err = c.Passkey().Create(ctx, &passkey); err != nil {
		t.Fatal("failed to create passkey:", err)
	}

	tt := []struct {
		name        string
		counter     int64
		code        gallery.ErrCode
		wantCounter int64
	}{
		{
			name:        "Advances counter",
			counter:     6,
			code:        gallery.ErrCode(""),
			wantCounter: 6,
		},
		{
			name:        "Accepts equal counter",
			counter:     6,
			code:        gallery.ErrCode(""),
			wantCounter: 6,
		},
		{
			name:        "Rejects regression",
			counter:     2,
			code:        gallery.ECounterRegression,
			wantCounter: 6,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			err := c.Passkey().UpdateCounter(ctx, "credential-id", tc.counter)
			if tc.code == gallery.ErrCode("") && err != nil {
				t.Fatal("failed to update counter:", err)
			}
			if tc.code != gallery.ErrCode("") && gallery.ErrorCode(err) != tc.code {
				t.Errorf("incorrect error code, want %s got %v", tc.code, gallery.ErrorCode(err))
			}

			stored, err := c.Passkey().ByID(ctx, "credential-id")
			if err != nil {
				t.Fatal("failed to retrieve passkey:", err)
			}
			if stored.Counter != tc.wantCounter {
				t.Errorf("incorrect stored counter, want %v got %v",
					tc.wantCounter, stored.Counter)
			}
		})
	}
}

func TestPasskeyRepository_UpdateCounterUnknownID(t *testing.T) {
	c, err := NewTestClient("passkey_repo_counter_unknown_test")
	if err != nil {
		t.Skip("test database unavailable:", err)
	}
	defer DropTestDB(c, "passkey_repo_counter_unknown_test")

	ctx := context.Background()
	err = c.Passkey().UpdateCounter(ctx, "missing", 1)
	if gallery.ErrorCode(err) != gallery.ECredentialNotFound {
		t.Errorf("incorrect error code, want %s got %v",
			gallery.ECredentialNotFound, gallery.ErrorCode(err))
	}
}
