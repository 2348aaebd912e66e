package newsletter

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/inkwell-space/core/internal/database"
	"github.com/inkwell-space/core/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq int64

func setupNewsletterTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:newsletter-svc-%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestSubscribeIsIdempotent(t *testing.T) {
	db := setupNewsletterTestDB(t)
	svc := NewService(db)

	if err := svc.Subscribe("Reader@Example.com"); err != nil {
		t.Fatalf("first subscribe: %v", err)
	}
	if err := svc.Subscribe("reader@example.com"); err != nil {
		t.Fatalf("second subscribe: %v", err)
	}

	var count int64
	db.Model(&models.SubscriptionModel{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected a single row per email, got %d", count)
	}
}

func TestResubscribeReactivates(t *testing.T) {
	svc := NewService(setupNewsletterTestDB(t))

	if err := svc.Subscribe("reader@example.com"); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	found, err := svc.Unsubscribe("reader@example.com")
	if err != nil || !found {
		t.Fatalf("unsubscribe: found=%v err=%v", found, err)
	}

	sub, err := svc.GetByEmail("reader@example.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sub.Status != models.SubscriptionUnsubscribed || sub.UnsubscribedAt == nil {
		t.Fatalf("unsubscribe state wrong: %+v", sub)
	}

	if err := svc.Subscribe("reader@example.com"); err != nil {
		t.Fatalf("resubscribe: %v", err)
	}
	sub, _ = svc.GetByEmail("reader@example.com")
	if sub.Status != models.SubscriptionActive || sub.UnsubscribedAt != nil {
		t.Fatalf("resubscribe must reactivate the row: %+v", sub)
	}
}

func TestUnsubscribeUnknownEmail(t *testing.T) {
	svc := NewService(setupNewsletterTestDB(t))

	found, err := svc.Unsubscribe("ghost@example.com")
	if err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	if found {
		t.Fatalf("unknown email must report not found")
	}
}
