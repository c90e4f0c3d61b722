package authz

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/campushub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserCtx_Anonymous(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)

	role, name, id, ok := UserCtx(r)
	if ok {
		t.Fatal("anonymous request should not be ok")
	}
	if role != "visitor" || name != "" || id != primitive.NilObjectID {
		t.Errorf("got role=%q name=%q id=%v", role, name, id)
	}
}

func TestUserCtx_Valid(t *testing.T) {
	oid := primitive.NewObjectID()
	r := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.AuthUser{
		ID:   oid.Hex(),
		Name: "Robotics Club",
		Role: "Club",
	})

	role, name, id, ok := UserCtx(r)
	if !ok {
		t.Fatal("expected ok")
	}
	if role != "club" {
		t.Errorf("role: got %q, want %q (lowercased)", role, "club")
	}
	if name != "Robotics Club" {
		t.Errorf("name: got %q", name)
	}
	if id != oid {
		t.Errorf("id: got %v, want %v", id, oid)
	}
}

func TestUserCtx_MalformedID(t *testing.T) {
	r := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.AuthUser{
		ID:   "not-an-object-id",
		Role: "student",
	})

	if _, _, _, ok := UserCtx(r); ok {
		t.Error("malformed ID should fail closed")
	}
}

func TestRoleHelpers(t *testing.T) {
	student := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.AuthUser{
		ID: primitive.NewObjectID().Hex(), Role: "student",
	})
	club := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.AuthUser{
		ID: primitive.NewObjectID().Hex(), Role: "club",
	})

	if !IsStudent(student) || IsStudent(club) {
		t.Error("IsStudent misclassified")
	}
	if !IsClub(club) || IsClub(student) {
		t.Error("IsClub misclassified")
	}
	if IsAdmin(student) || IsAdmin(club) {
		t.Error("IsAdmin misclassified")
	}
}

func TestIsOwnerOrAdmin(t *testing.T) {
	owner := primitive.NewObjectID()

	asOwner := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.AuthUser{
		ID: owner.Hex(), Role: "club",
	})
	if !IsOwnerOrAdmin(asOwner, owner) {
		t.Error("owner should pass")
	}

	asOther := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.AuthUser{
		ID: primitive.NewObjectID().Hex(), Role: "club",
	})
	if IsOwnerOrAdmin(asOther, owner) {
		t.Error("non-owner should not pass")
	}

	asAdmin := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.AuthUser{
		ID: primitive.NewObjectID().Hex(), Role: "admin",
	})
	if !IsOwnerOrAdmin(asAdmin, owner) {
		t.Error("admin should pass")
	}

	if IsOwnerOrAdmin(httptest.NewRequest("GET", "/", nil), owner) {
		t.Error("anonymous should not pass")
	}
}
