package userstore_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	userstore "github.com/Aatka-Saleem/fitness-testing/internal/app/store/users"
	"github.com/Aatka-Saleem/fitness-testing/internal/domain/models"
	"github.com/Aatka-Saleem/fitness-testing/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create_FirstUserIsAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Acme")

	first, err := store.Create(ctx, org.ID, "  Ada   Lovelace ", "ADA@Example.com")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !first.IsAdmin {
		t.Error("first user in organization should be admin")
	}
	if first.Name != "Ada Lovelace" {
		t.Errorf("expected normalized name, got %q", first.Name)
	}
	if first.Email != "ada@example.com" {
		t.Errorf("expected normalized email, got %q", first.Email)
	}
	if first.CreatedAt.IsZero() || first.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}

	second, err := store.Create(ctx, org.ID, "Grace", "grace@example.com")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if second.IsAdmin {
		t.Error("second user in organization should not be admin")
	}

	// A different organization gets its own admin.
	other := fixtures.CreateOrganization(ctx, "Globex")
	otherFirst, err := store.Create(ctx, other.ID, "Hank", "hank@example.com")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !otherFirst.IsAdmin {
		t.Error("first user in second organization should be admin")
	}
}

func TestStore_Create_ConcurrentSignUpsOneAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Acme")

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.Create(ctx, org.ID, fmt.Sprintf("User %d", i), fmt.Sprintf("user%d@example.com", i))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	users, err := store.ListByOrg(ctx, org.ID)
	if err != nil {
		t.Fatalf("ListByOrg failed: %v", err)
	}
	admins := 0
	for _, u := range users {
		if u.IsAdmin {
			admins++
		}
	}
	if len(users) != n || admins != 1 {
		t.Errorf("got %d users with %d admins, want %d users with 1 admin", len(users), admins, n)
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Dup Org")
	if _, err := store.Create(ctx, org.ID, "One", "same@example.com"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, org.ID, "Two", "Same@Example.com"); err != userstore.ErrDuplicateEmail {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}

	other := fixtures.CreateOrganization(ctx, "Other Org")
	if _, err := store.Create(ctx, other.ID, "Three", "same@example.com"); err != nil {
		t.Errorf("same email in another org should succeed, got %v", err)
	}
}

func TestStore_Create_RequiresEmailAndOrg(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, primitive.NewObjectID(), "No Email", "  "); err == nil {
		t.Error("expected error for empty email")
	}
	if _, err := store.Create(ctx, primitive.NilObjectID, "No Org", "x@example.com"); err == nil {
		t.Error("expected error for missing org")
	}
}

func TestStore_GetByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Lookup Org")
	created, _ := store.Create(ctx, org.ID, "Finder", "finder@example.com")

	got, err := store.GetByEmail(ctx, org.ID, " FINDER@example.com ")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("expected %s, got %s", created.ID.Hex(), got.ID.Hex())
	}

	if _, err := store.GetByEmail(ctx, primitive.NewObjectID(), "finder@example.com"); err != userstore.ErrNotFound {
		t.Errorf("expected ErrNotFound in other org, got %v", err)
	}
}

func TestStore_UpdateBodyMetrics(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Metrics Org")
	u, _ := store.Create(ctx, org.ID, "Metric", "metric@example.com")

	if got := u.Metrics(); got != models.DefaultBodyMetrics() {
		t.Errorf("expected default metrics before save, got %+v", got)
	}

	bm := models.BodyMetrics{WeightKg: 62, HeightCm: 165, Age: 41, Gender: "female", FitnessGoal: "Lose Weight", ActivityLevel: "Lightly Active"}
	if err := store.UpdateBodyMetrics(ctx, org.ID, u.ID, bm); err != nil {
		t.Fatalf("UpdateBodyMetrics failed: %v", err)
	}

	got, err := store.GetByID(ctx, org.ID, u.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.BodyMetrics == nil {
		t.Fatal("expected body metrics to be stored")
	}
	if got.BodyMetrics.Gender != models.GenderFemale {
		t.Errorf("expected normalized gender %q, got %q", models.GenderFemale, got.BodyMetrics.Gender)
	}
	if got.FitnessGoal() != "Lose Weight" {
		t.Errorf("expected goal to round-trip, got %q", got.FitnessGoal())
	}

	if err := store.UpdateBodyMetrics(ctx, org.ID, primitive.NewObjectID(), bm); err != userstore.ErrNotFound {
		t.Errorf("expected ErrNotFound for unknown user, got %v", err)
	}
}

func TestFetcher_FetchUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Fetch Org")
	admin, _ := store.Create(ctx, org.ID, "Boss", "boss@example.com")
	member, _ := store.Create(ctx, org.ID, "Worker", "worker@example.com")

	f := userstore.NewFetcher(db)

	su := f.FetchUser(context.Background(), admin.ID.Hex())
	if su == nil {
		t.Fatal("expected session user")
	}
	if su.Role != "admin" || su.OrganizationName != "Fetch Org" {
		t.Errorf("unexpected session user: %+v", su)
	}

	su = f.FetchUser(context.Background(), member.ID.Hex())
	if su == nil || su.Role != "member" {
		t.Errorf("expected member session user, got %+v", su)
	}

	if f.FetchUser(context.Background(), "not-an-id") != nil {
		t.Error("expected nil for malformed id")
	}
	if f.FetchUser(context.Background(), primitive.NewObjectID().Hex()) != nil {
		t.Error("expected nil for unknown id")
	}
}
