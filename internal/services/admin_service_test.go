package services

import (
	"errors"
	"testing"

	"github.com/nutrilog/nutrilog-backend/internal/dto"
	"github.com/nutrilog/nutrilog-backend/internal/models"
)

func TestAdminCreateUserHasDefaultGoals(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db)

	user, err := svc.CreateUser(&dto.AdminCreateUserRequest{
		Username: "bob", Email: "bob@example.com", Password: "password123",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if !user.IsActive {
		t.Error("new users must start active")
	}

	var stored models.User
	if err := db.First(&stored, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if stored.CalorieGoal != models.DefaultCalorieGoal {
		t.Errorf("calorie goal = %d, want default", stored.CalorieGoal)
	}
}

func TestAdminUpdateUserUniqueness(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db)
	admin := createTestUser(t, db)
	a := createTestUser(t, db)
	b := createTestUser(t, db)

	email := a.Email
	if _, err := svc.UpdateUser(admin.ID, b.ID, &dto.AdminUpdateUserRequest{Email: &email}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("error = %v, want ErrEmailTaken on duplicate email", err)
	}

	fresh := "fresh@example.com"
	updated, err := svc.UpdateUser(admin.ID, b.ID, &dto.AdminUpdateUserRequest{Email: &fresh})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if updated.Email != fresh {
		t.Errorf("email = %q, want %q", updated.Email, fresh)
	}
}

func TestAdminCannotSuspendSelf(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db)
	admin := createTestUser(t, db)

	if _, err := svc.ToggleSuspension(admin.ID, admin.ID); !errors.Is(err, ErrSelfAction) {
		t.Fatalf("error = %v, want ErrSelfAction", err)
	}

	inactive := false
	if _, err := svc.UpdateUser(admin.ID, admin.ID, &dto.AdminUpdateUserRequest{IsActive: &inactive}); !errors.Is(err, ErrSelfAction) {
		t.Fatalf("error = %v, want ErrSelfAction on self-deactivation", err)
	}
}

func TestAdminCannotDeleteSelf(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db)
	admin := createTestUser(t, db)

	if err := svc.DeleteUser(admin.ID, admin.ID); !errors.Is(err, ErrSelfAction) {
		t.Fatalf("error = %v, want ErrSelfAction", err)
	}
}

func TestAdminToggleSuspension(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db)
	admin := createTestUser(t, db)
	target := createTestUser(t, db)

	suspended, err := svc.ToggleSuspension(admin.ID, target.ID)
	if err != nil {
		t.Fatalf("ToggleSuspension: %v", err)
	}
	if suspended.IsActive {
		t.Error("first toggle must suspend")
	}

	restored, err := svc.ToggleSuspension(admin.ID, target.ID)
	if err != nil {
		t.Fatalf("ToggleSuspension: %v", err)
	}
	if !restored.IsActive {
		t.Error("second toggle must restore")
	}
}

func TestAdminDeleteUserCascades(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db)
	admin := createTestUser(t, db)
	target := createTestUser(t, db)
	addFood(t, db, target.ID, mustDate(t, "2025-06-01"), 500, 10, 10, 10, "other")

	if err := svc.DeleteUser(admin.ID, target.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	var count int64
	db.Model(&models.FoodEntry{}).Where("user_id = ?", target.ID).Count(&count)
	if count != 0 {
		t.Error("owned entries must be deleted with the user")
	}

	users, err := svc.ListUsers()
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	for _, u := range users {
		if u.ID == target.ID {
			t.Error("deleted user must not appear in the list")
		}
	}
}

func TestAdminDeleteUserFailedCascadeKeepsUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db)
	admin := createTestUser(t, db)
	target := createTestUser(t, db)

	// Break one of the owned tables so its delete fails mid-transaction.
	if err := db.Migrator().DropTable(&models.FoodEntry{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	if err := svc.DeleteUser(admin.ID, target.ID); err == nil {
		t.Fatal("expected an error when a cascade delete fails")
	}
	if err := db.First(&models.User{}, "id = ?", target.ID).Error; err != nil {
		t.Errorf("user lookup error = %v, a failed cascade must leave the user intact", err)
	}
}
