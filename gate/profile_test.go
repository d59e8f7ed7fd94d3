package gate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/diewo77/store-admin/gate"
)

func TestStaticProfile_HasPermission(t *testing.T) {
	p := gate.NewStaticProfile("support", "order:*", "customer:view")
	if !p.HasPermission("order:update") {
		t.Error("expected order wildcard to grant update")
	}
	if !p.HasPermission("customer:view") {
		t.Error("expected exact permission")
	}
	if p.HasPermission("customer:delete") {
		t.Error("unexpected customer:delete")
	}
	perms := p.Permissions()
	if len(perms) != 2 || perms[0] != "customer:view" {
		t.Errorf("expected sorted permissions, got %v", perms)
	}
}

func TestStaticResolver_Unknown(t *testing.T) {
	r := gate.NewStaticResolver[string]()
	r.Set("s1", gate.NewStaticProfile("viewer", "*:list"))
	if _, err := r.Resolve(context.Background(), "s2"); !errors.Is(err, gate.ErrNoProfile) {
		t.Fatalf("expected ErrNoProfile, got %v", err)
	}
	p, err := r.Resolve(context.Background(), "s1")
	if err != nil || p.Name() != "viewer" {
		t.Fatalf("unexpected %v %v", p, err)
	}
}
