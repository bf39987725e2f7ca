package herd

import (
	"context"
	"errors"
	"testing"

	"github.com/mamadbah2/herdbook/internal/apperr"
	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/testutil"
)

func validInput(tag string) Input {
	return Input{
		TagNumber:   tag,
		Gender:      models.GenderFemale,
		Breed:       "Friesian",
		DateOfBirth: "2021-04-12",
		Category:    models.CategoryCow,
	}
}

func TestCreateValidatesInOrder(t *testing.T) {
	svc := NewService(testutil.NewStores(t), nil, nil)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(in *Input)
		want   string
	}{
		{name: "tag", mutate: func(in *Input) { in.TagNumber = " " }, want: "Tag number is required"},
		{name: "gender", mutate: func(in *Input) { in.Gender = "OTHER" }, want: "Valid gender (MALE or FEMALE) is required"},
		{name: "breed", mutate: func(in *Input) { in.Breed = "" }, want: "Breed is required"},
		{name: "dob", mutate: func(in *Input) { in.DateOfBirth = "" }, want: "Date of birth is required"},
		{name: "category", mutate: func(in *Input) { in.Category = "" }, want: "Valid category is required"},
		{name: "mother", mutate: func(in *Input) { m := "nope"; in.MotherID = &m }, want: "Invalid mother reference"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput("TAG-1")
			tc.mutate(&in)
			_, err := svc.Create(ctx, in)
			var ve *apperr.ValidationError
			if !errors.As(err, &ve) || ve.Message != tc.want {
				t.Fatalf("expected %q, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateDuplicateTagConflicts(t *testing.T) {
	svc := NewService(testutil.NewStores(t), nil, nil)
	ctx := context.Background()

	if _, err := svc.Create(ctx, validInput("TAG-9")); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.Create(ctx, validInput("TAG-9"))
	var ce *apperr.ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestViewIncludesRelations(t *testing.T) {
	stores := testutil.NewStores(t)
	svc := NewService(stores, nil, nil)
	ctx := context.Background()

	mother, err := svc.Create(ctx, validInput("MOM-1"))
	if err != nil {
		t.Fatalf("create mother: %v", err)
	}
	calfIn := validInput("CALF-1")
	calfIn.Category = models.CategoryCalf
	calfIn.MotherID = &mother.ID
	calf, err := svc.Create(ctx, calfIn)
	if err != nil {
		t.Fatalf("create calf: %v", err)
	}
	if calf.Mother == nil || calf.Mother.TagNumber != "MOM-1" {
		t.Fatalf("expected mother on created calf, got %+v", calf.Mother)
	}

	got, err := svc.Get(ctx, mother.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Count.Offspring != 1 || len(got.Offspring) != 1 || got.Offspring[0].ID != calf.ID {
		t.Fatalf("unexpected offspring %+v", got.Offspring)
	}

	self := mother.ID
	upd := validInput("MOM-1")
	upd.MotherID = &self
	if _, err := svc.Update(ctx, mother.ID, upd); err == nil {
		t.Fatalf("expected self-mother to be rejected")
	}
}

func TestDeleteMissing(t *testing.T) {
	svc := NewService(testutil.NewStores(t), nil, nil)
	err := svc.Delete(context.Background(), "missing")
	var nf *apperr.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected not found, got %v", err)
	}
}
