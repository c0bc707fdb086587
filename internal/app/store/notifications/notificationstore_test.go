package notificationstore_test

import (
	"testing"
	"time"

	notificationstore "github.com/Aatka-Saleem/fitness-testing/internal/app/store/notifications"
	"github.com/Aatka-Saleem/fitness-testing/internal/domain/models"
	"github.com/Aatka-Saleem/fitness-testing/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_CreateAndMarkRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	orgID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	n, err := store.Create(ctx, models.Notification{OrganizationID: orgID, UserID: userID, Message: "Move!"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if n.Read {
		t.Error("new notification should be unread")
	}
	if n.Timestamp.IsZero() {
		t.Error("expected server timestamp")
	}
	if n.Source != models.NotificationSourceScan {
		t.Errorf("expected default source %q, got %q", models.NotificationSourceScan, n.Source)
	}

	unread, err := store.ListUnread(ctx, orgID, userID)
	if err != nil {
		t.Fatalf("ListUnread failed: %v", err)
	}
	if len(unread) != 1 || unread[0].Message != "Move!" {
		t.Fatalf("unexpected unread list: %+v", unread)
	}

	// Another user cannot dismiss it.
	if err := store.MarkRead(ctx, orgID, primitive.NewObjectID(), n.ID); err != notificationstore.ErrNotFound {
		t.Errorf("expected ErrNotFound for other user, got %v", err)
	}

	if err := store.MarkRead(ctx, orgID, userID, n.ID); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	unread, _ = store.ListUnread(ctx, orgID, userID)
	if len(unread) != 0 {
		t.Errorf("expected no unread notifications after MarkRead, got %d", len(unread))
	}
}

func TestStore_HasUnreadSince(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	orgID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	has, err := store.HasUnreadSince(ctx, orgID, userID, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("HasUnreadSince failed: %v", err)
	}
	if has {
		t.Error("expected false with no notifications")
	}

	n, _ := store.Create(ctx, models.Notification{OrganizationID: orgID, UserID: userID, Message: "hi"})

	has, _ = store.HasUnreadSince(ctx, orgID, userID, time.Now().Add(-time.Hour))
	if !has {
		t.Error("expected true for recent unread notification")
	}
	has, _ = store.HasUnreadSince(ctx, orgID, userID, time.Now().Add(time.Hour))
	if has {
		t.Error("expected false when since is after the notification")
	}

	_ = store.MarkRead(ctx, orgID, userID, n.ID)
	has, _ = store.HasUnreadSince(ctx, orgID, userID, time.Now().Add(-time.Hour))
	if has {
		t.Error("expected false once the notification is read")
	}
}
