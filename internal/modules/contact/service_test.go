package contact

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/inkwell-space/core/internal/database"
	"github.com/inkwell-space/core/internal/models"
	"github.com/inkwell-space/core/internal/pkg/mail"
	"github.com/inkwell-space/core/internal/pkg/pagination"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq int64

func setupContactTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:contact-svc-%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
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

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(setupContactTestDB(t), mail.New(mail.Config{}), "Inkwell", zap.NewNop())
}

func TestCreateStartsAsNew(t *testing.T) {
	svc := newTestService(t)

	msg, err := svc.Create(&CreateContactDTO{
		Name:    "visitor",
		Email:   "visitor@example.com",
		Subject: "Hello there",
		Body:    "I would like to ask about your services.",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if msg.Status != models.ContactStatusNew {
		t.Fatalf("expected status NEW, got %s", msg.Status)
	}
	if msg.ResolvedAt != nil {
		t.Fatalf("resolved_at must be empty on creation")
	}
}

func TestResolveStampsResolvedAt(t *testing.T) {
	svc := newTestService(t)

	msg, err := svc.Create(&CreateContactDTO{
		Name:    "visitor",
		Email:   "visitor@example.com",
		Subject: "Question",
		Body:    "A question long enough for the validator.",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	resolved := models.ContactStatusResolved
	updated, err := svc.Update(msg.ID, &UpdateContactDTO{Status: &resolved})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if updated.Status != models.ContactStatusResolved || updated.ResolvedAt == nil {
		t.Fatalf("resolved message must carry resolved_at: %+v", updated)
	}

	inProgress := models.ContactStatusInProgress
	updated, err = svc.Update(msg.ID, &UpdateContactDTO{Status: &inProgress})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if updated.ResolvedAt != nil {
		t.Fatalf("leaving RESOLVED must clear resolved_at")
	}
}

func TestListFiltersByStatus(t *testing.T) {
	svc := newTestService(t)

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(&CreateContactDTO{
			Name:    "visitor",
			Email:   "visitor@example.com",
			Subject: fmt.Sprintf("Message %d", i),
			Body:    "A body long enough for the validator to accept.",
		}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	newStatus := models.ContactStatusNew
	messages, pag, err := svc.List(pagination.Query{Page: 1, Size: 10}, &newStatus)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(messages) != 3 || pag.Total != 3 {
		t.Fatalf("expected 3 NEW messages, got %d (total %d)", len(messages), pag.Total)
	}

	archived := models.ContactStatusArchived
	messages, _, err = svc.List(pagination.Query{Page: 1, Size: 10}, &archived)
	if err != nil {
		t.Fatalf("list archived: %v", err)
	}
	if len(messages) != 0 {
		t.Fatalf("expected no archived messages, got %d", len(messages))
	}
}
