package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/eligibility"
	"github.com/dalemusser/campushub/internal/app/system/inputval"
	"github.com/dalemusser/campushub/internal/app/system/normalize"
	"github.com/dalemusser/campushub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateEmail is returned when creating an account with an email that already exists.
	ErrDuplicateEmail = errors.New("an account with this email already exists")
	// ErrDuplicateStudentID is returned when a student ID is already registered.
	ErrDuplicateStudentID = errors.New("a student with this student ID already exists")
	// ErrDuplicateClubName is returned when a club name is already taken.
	ErrDuplicateClubName = errors.New("a club with this name already exists")
	// ErrInvalidCredentials is returned by VerifyPassword on a bad email/password pair.
	ErrInvalidCredentials = errors.New("invalid email or password")

	errBadEmail      = errors.New("a valid email address is required")
	errWeakPassword  = errors.New("password must be at least 6 characters")
	errBadCourseType = errors.New(`course type must be one of "btech"|"mtech"|"diploma"|"bca"|"mca"|"mba"|"bvoc"`)
	errBadBranch     = errors.New("unknown branch")
	errBadYear       = errors.New(`year must be one of "FE"|"SE"|"TE"|"BE" (or "1".."4")`)
	errBadClubName   = errors.New("club name is required")
	errBadSocialLink = errors.New("social links must be absolute http(s) URLs")
)

// IsValidation reports whether err is a field validation failure the
// client can correct, as opposed to a conflict or infrastructure error.
func IsValidation(err error) bool {
	switch err {
	case errBadEmail, errWeakPassword, errBadCourseType, errBadBranch, errBadYear, errBadClubName, errBadSocialLink:
		return true
	}
	return false
}

const bcryptCost = 12

var validCourseTypes = map[string]bool{
	"btech": true, "mtech": true, "diploma": true,
	"bca": true, "mca": true, "mba": true, "bvoc": true,
}

var validBranches = map[string]bool{
	"AI&DS": true, "AI&ML": true, "CIVIL": true, "COMPS": true, "CS&E": true,
	"E&CS": true, "E&TC": true, "IOT": true, "IT": true, "MECH": true,
	"M&ME": true, "BCA": true, "MCA": true, "MBA": true, "BVOC": true,
}

var validYears = map[string]bool{"FE": true, "SE": true, "TE": true, "BE": true}

// CreateStudentInput is the validated payload for a student account.
// Account creation is a tagged union over student and club payloads;
// each constructor validates its branch exhaustively before insert.
type CreateStudentInput struct {
	Name      string
	Email     string
	Password  string
	StudentID string

	CourseType string
	Branch     string
	Year       string // FE|SE|TE|BE, numeric 1..4 accepted and canonicalized
	Interests  []string
}

// CreateClubInput is the validated payload for a club account.
type CreateClubInput struct {
	Name        string
	Email       string
	Password    string
	ClubName    string
	Description string
	SocialLinks *models.SocialLinks
}

// CreateStudent inserts a new student account after normalizing and
// validating fields. The student ID and email must both be unused.
func (s *Store) CreateStudent(ctx context.Context, in CreateStudentInput) (models.User, error) {
	email := normalize.Email(in.Email)
	if !inputval.IsValidEmail(email) {
		return models.User{}, errBadEmail
	}
	if len(in.Password) < 6 {
		return models.User{}, errWeakPassword
	}

	courseType := normalize.CourseType(in.CourseType)
	if !validCourseTypes[courseType] {
		return models.User{}, errBadCourseType
	}
	branch := normalize.Branch(in.Branch)
	if !validBranches[branch] {
		return models.User{}, errBadBranch
	}
	year := eligibility.CanonicalYear(in.Year)
	if !validYears[year] {
		return models.User{}, errBadYear
	}

	studentID := normalize.StudentID(in.StudentID)
	if err := s.c.FindOne(ctx, bson.M{"student.student_id": studentID}).Err(); err == nil {
		return models.User{}, ErrDuplicateStudentID
	} else if err != mongo.ErrNoDocuments {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return models.User{}, err
	}

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Name:         normalize.Name(in.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleStudent,
		IsActive:     true,
		Student: &models.StudentProfile{
			StudentID:    studentID,
			CourseType:   courseType,
			Branch:       branch,
			Year:         year,
			RSVPedEvents: []primitive.ObjectID{},
			Interests:    in.Interests,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// CreateClub inserts a new club account. The club name and email must
// both be unused; club names are compared case-insensitively.
func (s *Store) CreateClub(ctx context.Context, in CreateClubInput) (models.User, error) {
	email := normalize.Email(in.Email)
	if !inputval.IsValidEmail(email) {
		return models.User{}, errBadEmail
	}
	if len(in.Password) < 6 {
		return models.User{}, errWeakPassword
	}

	clubName := normalize.Name(in.ClubName)
	if clubName == "" {
		return models.User{}, errBadClubName
	}
	if err := validSocialLinks(in.SocialLinks); err != nil {
		return models.User{}, err
	}
	if err := s.c.FindOne(ctx, bson.M{"club.club_name_ci": text.Fold(clubName)}).Err(); err == nil {
		return models.User{}, ErrDuplicateClubName
	} else if err != mongo.ErrNoDocuments {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return models.User{}, err
	}

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Name:         normalize.Name(in.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleClub,
		IsActive:     true,
		Club: &models.ClubProfile{
			ClubName:      clubName,
			ClubNameCI:    text.Fold(clubName),
			Description:   in.Description,
			SocialLinks:   in.SocialLinks,
			CreatedEvents: []primitive.ObjectID{},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// GetByID loads an account by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetStudentByID loads an account by ObjectID, returning
// mongo.ErrNoDocuments if it does not exist or is not a student.
func (s *Store) GetStudentByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id, "role": models.RoleStudent}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up an account by case-insensitive email.
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// VerifyPassword checks an email/password pair against the stored bcrypt
// hash. It returns ErrInvalidCredentials for both an unknown email and a
// wrong password, so callers cannot distinguish the two.
func (s *Store) VerifyPassword(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.GetByEmail(ctx, email)
	if err == mongo.ErrNoDocuments {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// AddRSVPedEvent records an event in the student's reverse index.
// Set semantics: adding an event already present is a no-op.
func (s *Store) AddRSVPedEvent(ctx context.Context, studentID, eventID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": studentID, "role": models.RoleStudent},
		bson.M{
			"$addToSet": bson.M{"student.rsvped_events": eventID},
			"$set":      bson.M{"updated_at": time.Now().UTC()},
		})
	return err
}

// RemoveRSVPedEvent strips an event from the student's reverse index.
// Idempotent.
func (s *Store) RemoveRSVPedEvent(ctx context.Context, studentID, eventID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": studentID, "role": models.RoleStudent},
		bson.M{
			"$pull": bson.M{"student.rsvped_events": eventID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		})
	return err
}

// AddCreatedEvent records an event in the organizing club's list.
func (s *Store) AddCreatedEvent(ctx context.Context, clubID, eventID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": clubID, "role": models.RoleClub},
		bson.M{
			"$addToSet": bson.M{"club.created_events": eventID},
			"$set":      bson.M{"updated_at": time.Now().UTC()},
		})
	return err
}

// RemoveCreatedEvent strips an event from the organizing club's list.
func (s *Store) RemoveCreatedEvent(ctx context.Context, clubID, eventID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": clubID, "role": models.RoleClub},
		bson.M{
			"$pull": bson.M{"club.created_events": eventID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		})
	return err
}

// ListStudentSummaries returns roster rows for the given account IDs, in
// no particular order. Non-student IDs are skipped.
func (s *Store) ListStudentSummaries(ctx context.Context, ids []primitive.ObjectID) ([]models.StudentSummary, error) {
	if len(ids) == 0 {
		return []models.StudentSummary{}, nil
	}

	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}, "role": models.RoleStudent})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.StudentSummary
	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		if u.Student == nil {
			continue
		}
		out = append(out, models.StudentSummary{
			ID:         u.ID,
			Name:       u.Name,
			Email:      u.Email,
			StudentID:  u.Student.StudentID,
			Branch:     u.Student.Branch,
			Year:       u.Student.Year,
			CourseType: u.Student.CourseType,
		})
	}
	return out, cur.Err()
}

// validSocialLinks checks that every link provided is an absolute
// http(s) URL. A nil or empty set of links is fine.
func validSocialLinks(links *models.SocialLinks) error {
	if links == nil {
		return nil
	}
	for _, u := range []string{links.Website, links.Instagram, links.LinkedIn} {
		if u != "" && !inputval.IsValidHTTPURL(u) {
			return errBadSocialLink
		}
	}
	return nil
}
