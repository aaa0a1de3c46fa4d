package domain

import (
	"errors"
	"testing"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"admin", RoleAdmin, false},
		{" Admin ", RoleAdmin, false},
		{"employee", RoleEmployee, false},
		{"users", RoleEmployee, false},
		{"guest", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseRole(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidRole) {
				t.Fatalf("ParseRole(%q): expected ErrInvalidRole, got %v", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("ParseRole(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestRoleEndpoints(t *testing.T) {
	admin, err := RoleAdmin.Endpoints()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if admin.Login != "/api/admin/login" || admin.UploadProfilePic != "/api/admin/upload-profile-pic" {
		t.Fatalf("unexpected admin endpoints: %+v", admin)
	}

	employee, _ := RoleEmployee.Endpoints()
	if employee.Register != "/api/users/register" || employee.Profile != "/api/users/profile" {
		t.Fatalf("unexpected employee endpoints: %+v", employee)
	}

	if _, err := Role("owner").Endpoints(); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}
