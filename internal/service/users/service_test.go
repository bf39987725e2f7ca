package users

import (
	"context"
	"errors"
	"testing"

	"github.com/mamadbah2/herdbook/internal/apperr"
	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/service/auth"
	"github.com/mamadbah2/herdbook/internal/testutil"
)

func strPtr(v string) *string { return &v }

func TestCreateValidation(t *testing.T) {
	svc := NewService(testutil.NewStores(t).Users, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		in   CreateInput
		want string
	}{
		{"missing password", CreateInput{Email: "a@b.c", Name: "A", Role: models.RoleWorker}, "Missing fields"},
		{"blank name", CreateInput{Email: "a@b.c", Password: "pw", Name: "  ", Role: models.RoleWorker}, "Missing fields"},
		{"bad role", CreateInput{Email: "a@b.c", Password: "pw", Name: "A", Role: "OWNER"}, "Invalid role"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.in)
			var ve *apperr.ValidationError
			if !errors.As(err, &ve) || ve.Message != tc.want {
				t.Fatalf("expected %q, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateHashesAndRejectsDuplicates(t *testing.T) {
	stores := testutil.NewStores(t)
	svc := NewService(stores.Users, nil)
	ctx := context.Background()

	v, err := svc.Create(ctx, CreateInput{Email: "vet@farm.test", Password: "s3cret", Name: "Vet", Role: models.RoleVeterinarian})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if v.CreatedAt != nil {
		t.Fatalf("create response should not carry createdAt")
	}

	stored, err := stores.Users.Get(ctx, v.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Password == "s3cret" || auth.ComparePassword(stored.Password, "s3cret") != nil {
		t.Fatalf("password was not hashed")
	}

	_, err = svc.Create(ctx, CreateInput{Email: "vet@farm.test", Password: "x", Name: "Other", Role: models.RoleWorker})
	var ce *apperr.ConflictError
	if !errors.As(err, &ce) || ce.Message != "User already exists" {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdatePartial(t *testing.T) {
	stores := testutil.NewStores(t)
	svc := NewService(stores.Users, nil)
	ctx := context.Background()

	a, err := svc.Create(ctx, CreateInput{Email: "a@farm.test", Password: "pw-a", Name: "A", Role: models.RoleWorker})
	if err != nil {
		t.Fatalf("create a: %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{Email: "b@farm.test", Password: "pw-b", Name: "B", Role: models.RoleWorker}); err != nil {
		t.Fatalf("create b: %v", err)
	}

	role := models.RoleManager
	got, err := svc.Update(ctx, a.ID, UpdateInput{Role: &role, Password: strPtr("new-pw")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Role != models.RoleManager || got.Email != "a@farm.test" || got.Name != "A" {
		t.Fatalf("unexpected update result %+v", got)
	}
	stored, _ := stores.Users.Get(ctx, a.ID)
	if auth.ComparePassword(stored.Password, "new-pw") != nil {
		t.Fatalf("password was not re-hashed")
	}

	_, err = svc.Update(ctx, a.ID, UpdateInput{Email: strPtr("b@farm.test")})
	var ce *apperr.ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("expected conflict, got %v", err)
	}

	_, err = svc.Update(ctx, "ghost", UpdateInput{Name: strPtr("Z")})
	var nf *apperr.NotFoundError
	if !errors.As(err, &nf) || nf.Message != "User not found" {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	stores := testutil.NewStores(t)
	svc := NewService(stores.Users, nil)

	v, err := svc.Create(context.Background(), CreateInput{Email: "admin@farm.test", Password: "pw", Name: "Admin", Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	self := auth.WithPrincipal(context.Background(), models.Principal{UserID: v.ID, Role: models.RoleAdmin})
	err = svc.Delete(self, v.ID)
	var ve *apperr.ValidationError
	if !errors.As(err, &ve) || ve.Message != "Cannot delete yourself" {
		t.Fatalf("expected self-delete rejection, got %v", err)
	}

	other := auth.WithPrincipal(context.Background(), models.Principal{UserID: "someone-else", Role: models.RoleAdmin})
	if err := svc.Delete(other, v.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	err = svc.Delete(other, v.ID)
	var nf *apperr.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}

	list, err := svc.List(context.Background())
	if err != nil || len(list) != 0 {
		t.Fatalf("expected empty list, got %v (%v)", list, err)
	}
}
