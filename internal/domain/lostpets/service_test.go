package lostpets

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"doggo-community/internal/domain/geo"
)

type testRepo struct {
	byID map[string]Report
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Report{}}
}

func (r *testRepo) Create(ctx context.Context, rep Report) error {
	if rep.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[rep.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[rep.ID] = rep
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Report, error) {
	rep, ok := r.byID[id]
	if !ok {
		return Report{}, ErrNotFound
	}
	return rep, nil
}

func (r *testRepo) Replace(ctx context.Context, rep Report) error {
	if _, ok := r.byID[rep.ID]; !ok {
		return ErrNotFound
	}
	r.byID[rep.ID] = rep
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) List(ctx context.Context, f ListFilter) ([]Report, error) {
	out := make([]Report, 0)
	for _, rep := range r.byID {
		if f.OwnerID != "" && rep.OwnerID != f.OwnerID {
			continue
		}
		if f.OnlyOpen && rep.Found {
			continue
		}
		out = append(out, rep)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func validReport() ReportInput {
	return ReportInput{
		PetName:     "Rocky",
		Breed:       "beagle",
		Description: "collar rojo",
		LastSeenAt:  time.Date(2026, 8, 20, 18, 0, 0, 0, time.UTC),
		Location:    geo.Point{Lat: -12.1, Lng: -77.03},
	}
}

func TestService_Create_RequiresCaller(t *testing.T) {
	svc := NewService(newTestRepo(), nil)

	if _, err := svc.Create(context.Background(), "", validReport()); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestService_Create_StartsOpen(t *testing.T) {
	svc := NewService(newTestRepo(), nil)

	rep, err := svc.Create(context.Background(), "owner-1", validReport())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if rep.Found {
		t.Fatalf("new report must start with found=false")
	}
	if rep.OwnerID != "owner-1" {
		t.Fatalf("expected owner-1, got %s", rep.OwnerID)
	}
}

func TestService_SetFound_OwnerOnly_AndIdempotent(t *testing.T) {
	svc := NewService(newTestRepo(), nil)
	ctx := context.Background()

	rep, _ := svc.Create(ctx, "owner-1", validReport())

	if _, err := svc.SetFound(ctx, rep.ID, "other", true); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}

	got, err := svc.SetFound(ctx, rep.ID, "owner-1", true)
	if err != nil {
		t.Fatalf("SetFound returned error: %v", err)
	}
	if !got.Found {
		t.Fatalf("expected found=true")
	}
	firstUpdate := got.UpdatedAt

	// Repetir el mismo valor: no-op, ni siquiera toca UpdatedAt.
	again, err := svc.SetFound(ctx, rep.ID, "owner-1", true)
	if err != nil {
		t.Fatalf("idempotent SetFound returned error: %v", err)
	}
	if again.UpdatedAt != firstUpdate {
		t.Fatalf("no-op SetFound mutated the report")
	}

	// Y se puede volver a abrir.
	reopened, err := svc.SetFound(ctx, rep.ID, "owner-1", false)
	if err != nil {
		t.Fatalf("SetFound(false) returned error: %v", err)
	}
	if reopened.Found {
		t.Fatalf("expected found=false after reopen")
	}
}

func TestService_UpdateDelete_OwnerOnly(t *testing.T) {
	svc := NewService(newTestRepo(), nil)
	ctx := context.Background()

	rep, _ := svc.Create(ctx, "owner-1", validReport())

	in := validReport()
	in.PetName = "Rocco"
	if _, err := svc.Update(ctx, rep.ID, "other", in); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on update, got %v", err)
	}
	if err := svc.Delete(ctx, rep.ID, "other"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on delete, got %v", err)
	}

	updated, err := svc.Update(ctx, rep.ID, "owner-1", in)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.PetName != "Rocco" {
		t.Fatalf("expected updated name, got %s", updated.PetName)
	}

	if err := svc.Delete(ctx, rep.ID, "owner-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := svc.GetByID(ctx, rep.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestService_List_OnlyOpenFilter(t *testing.T) {
	svc := NewService(newTestRepo(), nil)
	ctx := context.Background()

	a, _ := svc.Create(ctx, "owner-1", validReport())
	svc.Create(ctx, "owner-2", validReport())
	svc.SetFound(ctx, a.ID, "owner-1", true)

	open, err := svc.List(ctx, ListFilter{OnlyOpen: true})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(open) != 1 || open[0].ID == a.ID {
		t.Fatalf("expected only the open report, got %#v", open)
	}

	all, _ := svc.List(ctx, ListFilter{})
	if len(all) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(all))
	}
}

func TestService_Watch_DeliversSnapshotsOnChange(t *testing.T) {
	svc := NewService(newTestRepo(), nil)
	defer svc.Close()
	ctx := context.Background()

	sub, err := svc.Watch(ctx, ListFilter{OnlyOpen: true})
	if err != nil {
		t.Fatalf("Watch returned error: %v", err)
	}
	defer sub.Cancel()

	recv := func() []Report {
		t.Helper()
		select {
		case snap := <-sub.Updates():
			return snap
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for snapshot")
			return nil
		}
	}

	if got := recv(); len(got) != 0 {
		t.Fatalf("expected empty initial snapshot, got %d", len(got))
	}

	rep, _ := svc.Create(ctx, "owner-1", validReport())
	if got := recv(); len(got) != 1 {
		t.Fatalf("expected snapshot with 1 report, got %d", len(got))
	}

	// Al marcar encontrado desaparece del set "open" y se re-entrega la lista entera.
	svc.SetFound(ctx, rep.ID, "owner-1", true)
	if got := recv(); len(got) != 0 {
		t.Fatalf("expected empty snapshot after found=true, got %d", len(got))
	}
}
