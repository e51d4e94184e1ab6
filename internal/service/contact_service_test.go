package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestExportActiveRequiresGoal(t *testing.T) {
	sessions := newMemSessionRepo()
	participants := newMemParticipantRepo()
	ctx := context.Background()

	session, err := NewSessionService(sessions).StartSession(ctx, testAdmin, 2)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	registrar := NewRegistrarService(sessions, participants, nil)
	contacts := NewContactService(sessions, participants, "contacts")
	contacts.now = func() time.Time { return time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC) }

	if _, err := registrar.Register(ctx, session.ID, "Ana", "1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := contacts.ExportActive(ctx); !errors.Is(err, ErrGoalNotReached) {
		t.Fatalf("expected ErrGoalNotReached, got %v", err)
	}

	if _, err := registrar.Register(ctx, session.ID, "Ben", "2"); err != nil {
		t.Fatalf("register: %v", err)
	}
	out, err := contacts.ExportActive(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if out.Filename != "contacts-2026-03-04.vcf" {
		t.Fatalf("unexpected filename %q", out.Filename)
	}
	if len(out.Contacts) != 2 || out.Contacts[0].Name != "Ben" || out.Contacts[1].Name != "Ana" {
		t.Fatalf("expected newest first, got %+v", out.Contacts)
	}
}

func TestExportActiveWithoutSession(t *testing.T) {
	contacts := NewContactService(newMemSessionRepo(), newMemParticipantRepo(), "contacts")
	if _, err := contacts.ExportActive(context.Background()); !errors.Is(err, ErrState) {
		t.Fatalf("expected ErrState, got %v", err)
	}
}

func TestExportSession(t *testing.T) {
	sessions := newMemSessionRepo()
	participants := newMemParticipantRepo()
	ctx := context.Background()

	session, _ := NewSessionService(sessions).StartSession(ctx, testAdmin, 50)
	registrar := NewRegistrarService(sessions, participants, nil)
	for i := 0; i < 3; i++ {
		if _, err := registrar.Register(ctx, session.ID, fmt.Sprintf("guest %d", i), fmt.Sprintf("55%d", i)); err != nil {
			t.Fatalf("register: %v", err)
		}
	}

	contacts := NewContactService(sessions, participants, "contacts")
	out, err := contacts.ExportSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("admin export ignores the goal: %v", err)
	}
	if len(out.Contacts) != 3 {
		t.Fatalf("expected 3 contacts, got %d", len(out.Contacts))
	}

	if _, err := contacts.ExportSession(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecentSessionsNewestFirst(t *testing.T) {
	sessions := newMemSessionRepo()
	svc := NewSessionService(sessions)
	ctx := context.Background()
	var ids []string
	for i := 0; i < 3; i++ {
		s, err := svc.StartSession(ctx, testAdmin, 1)
		if err != nil {
			t.Fatalf("start: %v", err)
		}
		ids = append(ids, s.ID)
		if _, err := svc.EndSession(ctx, s.ID); err != nil {
			t.Fatalf("end: %v", err)
		}
	}

	query := NewQueryService(sessions, newMemParticipantRepo())
	got, err := query.RecentSessions(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 || got[0].ID != ids[2] || got[1].ID != ids[1] {
		t.Fatalf("unexpected order %v", got)
	}
}
