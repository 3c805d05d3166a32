package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/stayware/lodge-api/internal/billing"
	"github.com/stayware/lodge-api/internal/catalog"
)

type stubRepo struct {
	listCalls int
	masters   []billing.ChargeMaster
}

func (s *stubRepo) List(ctx context.Context) ([]billing.ChargeMaster, error) {
	s.listCalls++
	return s.masters, nil
}

func (s *stubRepo) GetByID(ctx context.Context, id string) (billing.ChargeMaster, error) {
	return billing.ChargeMaster{}, catalog.ErrMasterNotFound
}

func (s *stubRepo) Create(ctx context.Context, in catalog.MasterInput) (billing.ChargeMaster, error) {
	return billing.ChargeMaster{ID: "new", Name: in.Name, DefaultRate: in.DefaultRate, RateType: in.RateType}, nil
}

func (s *stubRepo) Update(ctx context.Context, id string, in catalog.MasterInput) (billing.ChargeMaster, error) {
	return billing.ChargeMaster{ID: id, Name: in.Name, DefaultRate: in.DefaultRate, RateType: in.RateType}, nil
}

func (s *stubRepo) Delete(ctx context.Context, id string) error { return nil }

func newTestService(t *testing.T) (*catalog.Service, *stubRepo, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := &stubRepo{masters: []billing.ChargeMaster{
		{ID: "m1", Name: "Extra Person", DefaultRate: 200, RateType: "per_person"},
		{ID: "m2", Name: "Kitchen", DefaultRate: 500, RateType: "flat"},
	}}
	svc := &catalog.Service{Repo: repo, Cache: catalog.NewCache(rdb, time.Minute), Log: zerolog.Nop()}
	return svc, repo, mr
}

func TestMastersCached(t *testing.T) {
	svc, repo, _ := newTestService(t)
	if _, err := svc.Masters(context.Background()); err != nil {
		t.Fatalf("first call: %v", err)
	}
	masters, err := svc.Masters(context.Background())
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if repo.listCalls != 1 {
		t.Fatalf("expected 1 DB call, got %d", repo.listCalls)
	}
	if len(masters) != 2 || masters[0].Name != "Extra Person" {
		t.Fatalf("unexpected masters: %+v", masters)
	}
}

func TestCreateInvalidatesCache(t *testing.T) {
	svc, repo, _ := newTestService(t)
	if _, err := svc.Masters(context.Background()); err != nil {
		t.Fatalf("warm cache: %v", err)
	}
	if _, err := svc.Create(context.Background(), catalog.MasterInput{Name: "Campfire", DefaultRate: 300, RateType: "flat"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Masters(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if repo.listCalls != 2 {
		t.Fatalf("expected cache invalidation to force a reload, got %d list calls", repo.listCalls)
	}
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Create(context.Background(), catalog.MasterInput{Name: "", DefaultRate: -1, RateType: "hourly"})
	if err == nil {
		t.Fatal("expected validation error")
	}
}
