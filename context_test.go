package goGuard

import (
	"context"
	"testing"
)

func TestSecurityContextRoundtrip(t *testing.T) {
	sc := SecurityContext{Key: "alice@example.com", Roles: []string{RoleUser}, Authenticated: true}
	ctx := WithSecurityContext(context.Background(), sc)

	got := SecurityContextFrom(ctx)
	if !got.Authenticated || got.Key != "alice@example.com" {
		t.Errorf("got %+v", got)
	}
}

func TestSecurityContextFromDefaultsToAnonymous(t *testing.T) {
	if sc := SecurityContextFrom(context.Background()); sc.Authenticated {
		t.Error("empty context produced an authenticated SecurityContext")
	}
	if sc := SecurityContextFrom(nil); sc.Authenticated { //nolint:staticcheck
		t.Error("nil context produced an authenticated SecurityContext")
	}
}

func TestClientIPRoundtrip(t *testing.T) {
	ctx := WithClientIP(context.Background(), "10.0.0.1")
	if ip := ClientIPFromContext(ctx); ip != "10.0.0.1" {
		t.Errorf("ip = %q", ip)
	}
	if ip := ClientIPFromContext(context.Background()); ip != "" {
		t.Errorf("unset ip = %q, want empty", ip)
	}
}

func TestAnonymousHelpers(t *testing.T) {
	a := Anonymous()
	if a.Authenticated || a.Key != "" || len(a.Roles) != 0 {
		t.Errorf("Anonymous() = %+v", a)
	}

	p := Principal{Roles: []string{RoleUser, RoleAdmin}}
	if !p.HasRole(RoleAdmin) || p.HasRole(RoleModerator) {
		t.Error("HasRole gave wrong answers")
	}

	p.FirstName, p.LastName = "Alice", "Smith"
	if p.DisplayName() != "Alice Smith" {
		t.Errorf("DisplayName = %q", p.DisplayName())
	}
}
