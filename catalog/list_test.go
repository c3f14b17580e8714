package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/salonhub/admincore/rest"
)

func newServicioList() *List[rest.Servicio] {
	return NewList(func(s rest.Servicio) string { return s.ID })
}

func TestCreateReconcilesServerRecord(t *testing.T) {
	list := newServicioList()
	list.Replace([]rest.Servicio{{ID: "s1", Nombre: "Corte"}})

	confirmed, err := list.Create(context.Background(),
		rest.Servicio{ID: "tmp-1", Nombre: "Barba"},
		func(context.Context) (rest.Servicio, error) {
			return rest.Servicio{ID: "s2", Nombre: "Barba"}, nil
		})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if confirmed.ID != "s2" {
		t.Fatalf("expected server id, got %q", confirmed.ID)
	}

	items := list.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[1].ID != "s2" {
		t.Fatalf("expected optimistic entry reconciled to server record, got %+v", items[1])
	}
}

func TestCreateRollsBackOnFailure(t *testing.T) {
	list := newServicioList()
	list.Replace([]rest.Servicio{{ID: "s1"}})

	var rollbacks int
	list.SetRollbackHook(func() { rollbacks++ })

	_, err := list.Create(context.Background(),
		rest.Servicio{ID: "tmp-1"},
		func(context.Context) (rest.Servicio, error) {
			return rest.Servicio{}, errors.New("boom")
		})
	if err == nil {
		t.Fatal("expected commit error")
	}

	if got := list.Len(); got != 1 {
		t.Fatalf("expected rollback to 1 item, got %d", got)
	}
	if rollbacks != 1 {
		t.Fatalf("expected 1 rollback notification, got %d", rollbacks)
	}
}

func TestUpdateRollsBackToLastKnownGood(t *testing.T) {
	list := newServicioList()
	list.Replace([]rest.Servicio{{ID: "s1", Nombre: "Corte", Precio: 15}})

	_, err := list.Update(context.Background(), "s1",
		rest.Servicio{ID: "s1", Nombre: "Corte", Precio: 20},
		func(context.Context) (rest.Servicio, error) {
			return rest.Servicio{}, errors.New("api down")
		})
	if err == nil {
		t.Fatal("expected commit error")
	}

	items := list.Items()
	if items[0].Precio != 15 {
		t.Fatalf("expected price restored to 15, got %v", items[0].Precio)
	}
}

func TestUpdateAppliesOptimisticallyAndConfirms(t *testing.T) {
	list := newServicioList()
	list.Replace([]rest.Servicio{{ID: "s1", Precio: 15}})

	var seenDuringCommit float64
	confirmed, err := list.Update(context.Background(), "s1",
		rest.Servicio{ID: "s1", Precio: 20},
		func(context.Context) (rest.Servicio, error) {
			// The optimistic value must already be visible to readers.
			seenDuringCommit = list.Items()[0].Precio
			return rest.Servicio{ID: "s1", Precio: 20}, nil
		})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if seenDuringCommit != 20 {
		t.Fatalf("expected optimistic price visible during commit, saw %v", seenDuringCommit)
	}
	if confirmed.Precio != 20 {
		t.Fatalf("unexpected confirmed record: %+v", confirmed)
	}
}

func TestDeleteRollbackRestoresRecord(t *testing.T) {
	list := newServicioList()
	list.Replace([]rest.Servicio{{ID: "s1"}, {ID: "s2"}})

	err := list.Delete(context.Background(), "s1", func(context.Context) error {
		if list.Len() != 1 {
			t.Errorf("expected optimistic removal during commit, len=%d", list.Len())
		}
		return errors.New("forbidden")
	})
	if err == nil {
		t.Fatal("expected commit error")
	}
	if list.Len() != 2 {
		t.Fatalf("expected restored list, got %d items", list.Len())
	}
}

func TestDeleteSuccess(t *testing.T) {
	list := newServicioList()
	list.Replace([]rest.Servicio{{ID: "s1"}, {ID: "s2"}})

	if err := list.Delete(context.Background(), "s2", func(context.Context) error { return nil }); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	items := list.Items()
	if len(items) != 1 || items[0].ID != "s1" {
		t.Fatalf("unexpected items after delete: %+v", items)
	}
}
