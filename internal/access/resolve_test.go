package access

import (
	"reflect"
	"testing"
)

func TestCapabilitiesTruthTable(t *testing.T) {
	cases := []struct {
		role              Role
		canCreateBooking  bool
		isOwnerOrAdmin    bool
		isResourceManager bool
	}{
		{RoleOwner, true, true, true},
		{RoleManager, true, true, true},
		{RoleSpaceManager, false, false, true},
		{RoleReadOnly, false, false, false},
		{RoleTeacher, false, false, false},
		{RoleUnknown, false, false, false},
	}
	for _, tc := range cases {
		caps := ResolveCapabilities(tc.role, false)
		if caps.CanCreateBooking != tc.canCreateBooking {
			t.Errorf("role %q: CanCreateBooking = %v, want %v", tc.role, caps.CanCreateBooking, tc.canCreateBooking)
		}
		if caps.IsOwnerOrAdmin != tc.isOwnerOrAdmin {
			t.Errorf("role %q: IsOwnerOrAdmin = %v, want %v", tc.role, caps.IsOwnerOrAdmin, tc.isOwnerOrAdmin)
		}
		if caps.IsResourceManager != tc.isResourceManager {
			t.Errorf("role %q: IsResourceManager = %v, want %v", tc.role, caps.IsResourceManager, tc.isResourceManager)
		}
	}
}

func TestAdminFlagDoesNotElevateRoleCapabilities(t *testing.T) {
	caps := ResolveCapabilities(RoleTeacher, true)
	if caps.CanCreateBooking || caps.IsOwnerOrAdmin || caps.IsResourceManager {
		t.Fatalf("admin flag must not grant role capabilities: %+v", caps)
	}
	if !caps.IsSystemAdmin {
		t.Fatalf("expected IsSystemAdmin to mirror the admin flag")
	}
}

func TestParseRoleUnknownValues(t *testing.T) {
	for _, raw := range []string{"", "superuser", "OWNER ", "admin"} {
		if got := ParseRole(raw); got != RoleUnknown {
			t.Errorf("ParseRole(%q) = %q, want RoleUnknown", raw, got)
		}
	}
	if got := ParseRole("space_manager"); got != RoleSpaceManager {
		t.Fatalf("ParseRole(space_manager) = %q", got)
	}
}

func TestRoleLabels(t *testing.T) {
	cases := map[Role]string{
		RoleOwner:        "مالك",
		RoleManager:      "مدير",
		RoleSpaceManager: "مدير قاعات",
		RoleTeacher:      "معلم",
		RoleReadOnly:     "قراءة فقط",
		RoleUnknown:      "مستخدم",
	}
	for role, want := range cases {
		if got := role.Label(); got != want {
			t.Errorf("label for %q = %q, want %q", role, got, want)
		}
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	first := Resolve(RoleSpaceManager, false)
	second := Resolve(RoleSpaceManager, false)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("resolve not stable:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestTeacherNavigationExcludesPrivilegedSections(t *testing.T) {
	res := Resolve(RoleTeacher, false)
	for _, section := range res.Navigation {
		switch section.Title {
		case "إدارة النظام", "التقارير المالية", "إدارة الموارد":
			t.Errorf("teacher navigation must not contain section %q", section.Title)
		}
		for _, item := range section.Items {
			if item.Title == "حجز جديد" {
				t.Errorf("teacher navigation must not contain the booking creation item")
			}
		}
	}
}

func TestOwnerNavigationSectionsInOrder(t *testing.T) {
	res := Resolve(RoleOwner, false)
	want := []string{
		"الإحصائيات",
		"إدارة الحجوزات",
		"إدارة الطلاب",
		"إدارة الموارد",
		"التقارير المالية",
		"إدارة النظام",
	}
	if len(res.Navigation) != len(want) {
		t.Fatalf("expected %d sections, got %d", len(want), len(res.Navigation))
	}
	for i, section := range res.Navigation {
		if section.Title != want[i] {
			t.Errorf("section %d = %q, want %q", i, section.Title, want[i])
		}
	}
	booking := res.Navigation[1]
	if len(booking.Items) != 2 || booking.Items[1].Title != "حجز جديد" {
		t.Fatalf("owner booking section missing creation item: %+v", booking.Items)
	}
}

func TestSpaceManagerSeesResourcesOnly(t *testing.T) {
	res := Resolve(RoleSpaceManager, false)
	titles := make([]string, 0, len(res.Navigation))
	for _, s := range res.Navigation {
		titles = append(titles, s.Title)
	}
	want := []string{"الإحصائيات", "إدارة الحجوزات", "إدارة الطلاب", "إدارة الموارد"}
	if !reflect.DeepEqual(titles, want) {
		t.Fatalf("sections = %v, want %v", titles, want)
	}
}
