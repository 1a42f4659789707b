package audit

import "strings"

// actionLabels maps every known action code to its Arabic phrase. Codes
// outside this table render verbatim so that new codes never break the page.
var actionLabels = map[string]string{
	"user_created":    "إنشاء مستخدم",
	"user_updated":    "تحديث مستخدم",
	"user_deleted":    "حذف مستخدم",
	"booking_created": "إنشاء حجز",
	"booking_updated": "تحديث حجز",
	"booking_deleted": "حذف حجز",
	"teacher_created": "إنشاء معلم",
	"teacher_updated": "تحديث معلم",
	"teacher_deleted": "حذف معلم",
	"hall_created":    "إنشاء قاعة",
	"hall_updated":    "تحديث قاعة",
	"hall_deleted":    "حذف قاعة",
	"subject_created": "إنشاء مادة",
	"subject_updated": "تحديث مادة",
	"subject_deleted": "حذف مادة",
	"stage_created":   "إنشاء مرحلة",
	"stage_updated":   "تحديث مرحلة",
	"stage_deleted":   "حذف مرحلة",
}

// ActionLabel returns the localized phrase for an action code, or the code
// itself when unrecognized.
func ActionLabel(code string) string {
	if label, ok := actionLabels[code]; ok {
		return label
	}
	return code
}

// Classify buckets an action code by its verb substring. Codes that do not
// follow the <noun>_<verb> convention fall into CategoryOther.
func Classify(code string) Category {
	switch {
	case strings.Contains(code, "created"):
		return CategoryCreate
	case strings.Contains(code, "updated"):
		return CategoryUpdate
	case strings.Contains(code, "deleted"):
		return CategoryDelete
	default:
		return CategoryOther
	}
}
