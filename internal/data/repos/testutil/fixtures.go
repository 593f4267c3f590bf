package testutil

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mentorship-backend/internal/domain"
)

func SeedUser(tb testing.TB, db *gorm.DB, email string, role types.Role) *types.User {
	tb.Helper()
	u := &types.User{
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
		Role:      role,
	}
	if err := db.Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedModule(tb testing.TB, db *gorm.DB, title string, position int) *types.Module {
	tb.Helper()
	m := &types.Module{Title: title, Position: position}
	if err := db.Create(m).Error; err != nil {
		tb.Fatalf("seed module: %v", err)
	}
	return m
}

func SeedLesson(tb testing.TB, db *gorm.DB, moduleID uuid.UUID, title string, position int) *types.Lesson {
	tb.Helper()
	l := &types.Lesson{ModuleID: moduleID, Title: title, Position: position, Content: "content"}
	if err := db.Create(l).Error; err != nil {
		tb.Fatalf("seed lesson: %v", err)
	}
	return l
}

func SeedModuleAccess(tb testing.TB, db *gorm.DB, userID, moduleID uuid.UUID, status types.AccessStatus) *types.ModuleAccess {
	tb.Helper()
	a := &types.ModuleAccess{UserID: userID, ModuleID: moduleID, Status: status}
	if err := db.Create(a).Error; err != nil {
		tb.Fatalf("seed module access: %v", err)
	}
	return a
}

func SeedLessonAccess(tb testing.TB, db *gorm.DB, userID, lessonID uuid.UUID, status types.AccessStatus) *types.LessonAccess {
	tb.Helper()
	a := &types.LessonAccess{UserID: userID, LessonID: lessonID, Status: status}
	if err := db.Create(a).Error; err != nil {
		tb.Fatalf("seed lesson access: %v", err)
	}
	return a
}

func SeedSubmission(tb testing.TB, db *gorm.DB, userID, moduleID uuid.UUID, lessonID *uuid.UUID) *types.Submission {
	tb.Helper()
	s := &types.Submission{
		UserID:      userID,
		ModuleID:    moduleID,
		LessonID:    lessonID,
		ArtifactRef: "https://example.test/" + uuid.NewString(),
		Status:      types.SubmissionPending,
	}
	if err := db.Create(s).Error; err != nil {
		tb.Fatalf("seed submission: %v", err)
	}
	return s
}
