package domain

import "testing"

func TestShellFor(t *testing.T) {
	if s := ShellFor(nil); s.Chrome != ChromePublic || s.Authenticated || s.Badge != nil {
		t.Fatalf("nil identity should get the public shell, got %+v", s)
	}

	admin := ShellFor(&Identity{ID: "1", Name: "Ann", Email: "a@x.io", Role: RoleAdmin, ProfilePic: "/p.png"})
	if admin.Chrome != ChromeAdmin || !admin.Authenticated {
		t.Fatalf("unexpected admin shell: %+v", admin)
	}
	if admin.Badge == nil || admin.Badge.ProfilePic != "/p.png" || admin.Badge.Name != "Ann" {
		t.Fatalf("unexpected badge: %+v", admin.Badge)
	}

	employee := ShellFor(&Identity{ID: "2", Role: RoleEmployee})
	if employee.Chrome != ChromeEmployee || employee.Nav[0].Path != "/employee/browse-jobs" {
		t.Fatalf("unexpected employee shell: %+v", employee)
	}

	if s := ShellFor(&Identity{ID: "3", Role: "owner"}); s.Chrome != ChromePublic {
		t.Fatalf("unknown role should get the public shell, got %s", s.Chrome)
	}
}
