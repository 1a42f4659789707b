package access

// Item is a single navigation entry. Path is consumed by the router; this
// package never navigates itself.
type Item struct {
	Title       string
	Path        string
	Icon        string
	Description string
}

// Section groups navigation items under a heading. Sections a user may not
// see are omitted entirely, never rendered disabled.
type Section struct {
	Title string
	Items []Item
}

// sectionSpec pairs a section with the capability predicate that makes it
// visible. A nil predicate means always visible. Keeping visibility as a
// table keeps the capability→section mapping auditable in one place.
type sectionSpec struct {
	visible func(Capabilities) bool
	build   func(Capabilities) Section
}

var navigationSpec = []sectionSpec{
	{
		build: func(Capabilities) Section {
			return Section{
				Title: "الإحصائيات",
				Items: []Item{
					{Title: "لوحة التحكم", Path: "/", Icon: "home", Description: "نظرة عامة على النظام"},
				},
			}
		},
	},
	{
		build: func(caps Capabilities) Section {
			items := []Item{
				{Title: "جميع الحجوزات", Path: "/bookings", Icon: "calendar", Description: "عرض وإدارة الحجوزات"},
			}
			if caps.CanCreateBooking {
				items = append(items, Item{Title: "حجز جديد", Path: "/bookings/new", Icon: "calendar", Description: "إنشاء حجز جديد"})
			}
			return Section{Title: "إدارة الحجوزات", Items: items}
		},
	},
	{
		build: func(Capabilities) Section {
			return Section{
				Title: "إدارة الطلاب",
				Items: []Item{
					{Title: "الطلاب", Path: "/students", Icon: "users", Description: "إدارة بيانات الطلاب"},
					{Title: "تسجيل الطلاب", Path: "/students/new", Icon: "users", Description: "تسجيل الطلاب الجدد"},
				},
			}
		},
	},
	{
		visible: func(caps Capabilities) bool { return caps.IsResourceManager },
		build: func(Capabilities) Section {
			return Section{
				Title: "إدارة الموارد",
				Items: []Item{
					{Title: "القاعات", Path: "/halls", Icon: "building", Description: "إدارة القاعات والمساحات"},
					{Title: "المعلمين", Path: "/teachers", Icon: "graduation", Description: "إدارة بيانات المعلمين"},
					{Title: "المواد الدراسية", Path: "/subjects", Icon: "book", Description: "إدارة المواد الدراسية"},
					{Title: "المراحل التعليمية", Path: "/stages", Icon: "graduation", Description: "إدارة المراحل الدراسية"},
				},
			}
		},
	},
	{
		visible: func(caps Capabilities) bool { return caps.IsOwnerOrAdmin },
		build: func(Capabilities) Section {
			return Section{
				Title: "التقارير المالية",
				Items: []Item{
					{Title: "التقارير", Path: "/reports", Icon: "book", Description: "عرض التقارير المالية"},
					{Title: "تقارير المجموعات", Path: "/reports/classes", Icon: "book", Description: "التقارير المالية للمجموعات"},
				},
			}
		},
	},
	{
		visible: func(caps Capabilities) bool { return caps.IsOwnerOrAdmin },
		build: func(Capabilities) Section {
			return Section{
				Title: "إدارة النظام",
				Items: []Item{
					{Title: "المستخدمين", Path: "/users", Icon: "users", Description: "إدارة المستخدمين والأذونات"},
					{Title: "سجل التدقيق", Path: "/audit", Icon: "shield", Description: "عرض سجل أنشطة المستخدمين"},
					{Title: "صلاحيات المدراء", Path: "/users/privileges", Icon: "settings", Description: "إدارة صلاحيات المدراء"},
					{Title: "الإعدادات", Path: "/settings", Icon: "settings", Description: "إعدادات النظام العامة"},
				},
			}
		},
	},
}

// BuildNavigation composes the menu visible to a capability set. Output
// order follows the spec table and is stable across calls.
func BuildNavigation(caps Capabilities) []Section {
	sections := make([]Section, 0, len(navigationSpec))
	for _, spec := range navigationSpec {
		if spec.visible != nil && !spec.visible(caps) {
			continue
		}
		sections = append(sections, spec.build(caps))
	}
	return sections
}
