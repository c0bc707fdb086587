package organizationstore_test

import (
	"testing"

	organizationstore "github.com/Aatka-Saleem/fitness-testing/internal/app/store/organizations"
	"github.com/Aatka-Saleem/fitness-testing/internal/testutil"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := primitive.NewObjectID()
	created, err := store.Create(ctx, "  Acme   Fitness ", creator)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Name != "Acme Fitness" {
		t.Errorf("expected normalized name, got %q", created.Name)
	}
	if created.NameCI != text.Fold("Acme Fitness") {
		t.Errorf("unexpected NameCI %q", created.NameCI)
	}
	if created.CreatedBy == nil || *created.CreatedBy != creator {
		t.Error("expected CreatedBy to be recorded")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestStore_Create_DuplicateName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "Duplicate Test", primitive.NilObjectID); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := store.Create(ctx, "duplicate test", primitive.NilObjectID)
	if err != organizationstore.ErrDuplicateOrganization {
		t.Errorf("expected ErrDuplicateOrganization, got %v", err)
	}
}

func TestStore_RenameAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	b, _ := store.Create(ctx, "Bravo", primitive.NilObjectID)
	if _, err := store.Create(ctx, "Alpha", primitive.NilObjectID); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.Rename(ctx, b.ID, "Aardvark"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}

	orgs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(orgs) != 2 {
		t.Fatalf("expected 2 organizations, got %d", len(orgs))
	}
	if orgs[0].Name != "Aardvark" || orgs[1].Name != "Alpha" {
		t.Errorf("unexpected order: %q, %q", orgs[0].Name, orgs[1].Name)
	}

	exists, err := store.ExistsByNameCI(ctx, text.Fold("AARDVARK"))
	if err != nil || !exists {
		t.Errorf("expected renamed org to exist (err=%v)", err)
	}
}

func TestStore_Rename_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Rename(ctx, primitive.NewObjectID(), "Ghost"); err != organizationstore.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
