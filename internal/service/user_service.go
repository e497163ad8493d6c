package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/apperror"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/models"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/repository"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const (
	MaxSkillLength = 100
	MaxSkills      = 50
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// RegisterInput is the identity handoff payload: the external id plus the
// initial profile.
type RegisterInput struct {
	ID            string
	Username      string
	Fullname      string
	Email         string
	IsPublic      *bool
	Location      string
	Availability  string
	SkillsOffered []string
	SkillsWanted  []string
}

// ProfileUpdate carries optional fields; nil means unchanged.
type ProfileUpdate struct {
	Fullname      *string
	Location      *string
	Availability  *string
	ProfileURL    *string
	IsPublic      *bool
	SkillsOffered *[]string
	SkillsWanted  *[]string
}

// UserService is the user directory consumed by the swap engine and the admin gateway.
type UserService struct {
	userRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// EnsureUser creates the user on first authentication and returns the
// existing record on every later call with the same external id.
func (s *UserService) EnsureUser(ctx context.Context, in RegisterInput) (*models.User, bool, error) {
	start := time.Now()
	in.ID = strings.TrimSpace(in.ID)
	in.Username = strings.TrimSpace(in.Username)

	logger.Log.Debug("Processing identity handoff",
		zap.String("user_id", in.ID),
		zap.String("username", in.Username),
	)

	if in.ID == "" {
		return nil, false, apperror.InvalidArgument("id", "external user id is required")
	}

	existing, err := s.userRepo.GetUserByID(ctx, in.ID)
	if err != nil {
		logger.Log.Error("Failed to look up user", zap.String("user_id", in.ID), zap.Error(err))
		return nil, false, fmt.Errorf("get user: %w", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	if err := validateRegisterInput(in); err != nil {
		logger.Log.Warn("Registration validation failed",
			zap.String("user_id", in.ID),
			zap.Error(err),
		)
		return nil, false, err
	}

	offered, err := normalizeSkills("skills_offered", in.SkillsOffered)
	if err != nil {
		return nil, false, err
	}
	wanted, err := normalizeSkills("skills_wanted", in.SkillsWanted)
	if err != nil {
		return nil, false, err
	}

	taken, err := s.userRepo.GetUserByUsername(ctx, in.Username)
	if err != nil {
		logger.Log.Error("Failed to check username existence", zap.String("username", in.Username), zap.Error(err))
		return nil, false, fmt.Errorf("get user by username: %w", err)
	}
	if taken != nil {
		logger.Log.Warn("Username already exists", zap.String("username", in.Username))
		return nil, false, apperror.Conflict("username already exists")
	}

	isPublic := true
	if in.IsPublic != nil {
		isPublic = *in.IsPublic
	}

	user := &models.User{
		ID:            in.ID,
		Username:      in.Username,
		Fullname:      strings.TrimSpace(in.Fullname),
		Email:         strings.TrimSpace(in.Email),
		Role:          models.RoleUser,
		Location:      strings.TrimSpace(in.Location),
		Availability:  strings.TrimSpace(in.Availability),
		IsPublic:      isPublic,
		SkillsOffered: datatypes.NewJSONSlice(offered),
		SkillsWanted:  datatypes.NewJSONSlice(wanted),
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		// A concurrent handoff for the same id may have won the insert.
		if again, getErr := s.userRepo.GetUserByID(ctx, in.ID); getErr == nil && again != nil {
			return again, false, nil
		}
		logger.Log.Error("Failed to create user in database",
			zap.String("user_id", in.ID),
			zap.Error(err),
		)
		return nil, false, fmt.Errorf("create user: %w", err)
	}

	logger.Log.Info("User registered",
		zap.String("user_id", user.ID),
		zap.String("username", user.Username),
		zap.Duration("total_duration", time.Since(start)),
	)
	return user, true, nil
}

// GetUser returns the user with its rating history.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetUserWithRatings(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, apperror.NotFound("user", id)
	}
	return user, nil
}

func (s *UserService) IsBanned(ctx context.Context, id string) (bool, error) {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return false, apperror.NotFound("user", id)
	}
	return user.IsBanned, nil
}

// AppendRating adds entry to userID's ratings and recomputes the mean atomically.
func (s *UserService) AppendRating(ctx context.Context, userID string, entry models.RatingEntry) (*models.User, error) {
	if entry.Score < MinScore || entry.Score > MaxScore {
		return nil, apperror.InvalidArgument("score", fmt.Sprintf("score must be between %d and %d", MinScore, MaxScore))
	}
	exists, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if exists == nil {
		return nil, apperror.NotFound("user", userID)
	}

	entry.UserID = userID
	if entry.RatedAt.IsZero() {
		entry.RatedAt = time.Now().UTC()
	}
	user, err := s.userRepo.AppendRating(ctx, &entry)
	if err != nil {
		logger.Log.Error("Failed to append rating", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("append rating: %w", err)
	}
	return user, nil
}

// ListPublicUsers returns discoverable users. A non-empty skill keeps only
// users offering or wanting it (case-insensitive).
func (s *UserService) ListPublicUsers(ctx context.Context, skill string) ([]*models.User, error) {
	users, err := s.userRepo.ListPublicUsers(ctx)
	if err != nil {
		logger.Log.Error("Failed to list public users", zap.Error(err))
		return nil, fmt.Errorf("list public users: %w", err)
	}

	skill = strings.TrimSpace(skill)
	if skill == "" {
		return users, nil
	}

	out := make([]*models.User, 0, len(users))
	for _, u := range users {
		if containsFold(u.SkillsOffered, skill) || containsFold(u.SkillsWanted, skill) {
			out = append(out, u)
		}
	}
	return out, nil
}

// UpdateProfile applies a partial profile update. Existing swaps keep the
// skills they were created with.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*models.User, error) {
	updates := map[string]interface{}{}

	if upd.Fullname != nil {
		updates["fullname"] = strings.TrimSpace(*upd.Fullname)
	}
	if upd.Location != nil {
		updates["location"] = strings.TrimSpace(*upd.Location)
	}
	if upd.Availability != nil {
		updates["availability"] = strings.TrimSpace(*upd.Availability)
	}
	if upd.ProfileURL != nil {
		updates["profile_url"] = strings.TrimSpace(*upd.ProfileURL)
	}
	if upd.IsPublic != nil {
		updates["is_public"] = *upd.IsPublic
	}
	if upd.SkillsOffered != nil {
		skills, err := normalizeSkills("skills_offered", *upd.SkillsOffered)
		if err != nil {
			return nil, err
		}
		updates["skills_offered"] = datatypes.NewJSONSlice(skills)
	}
	if upd.SkillsWanted != nil {
		skills, err := normalizeSkills("skills_wanted", *upd.SkillsWanted)
		if err != nil {
			return nil, err
		}
		updates["skills_wanted"] = datatypes.NewJSONSlice(skills)
	}

	found, err := s.userRepo.UpdateFields(ctx, userID, updates)
	if err != nil {
		logger.Log.Error("Failed to update profile", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if !found {
		return nil, apperror.NotFound("user", userID)
	}

	logger.Log.Info("Profile updated",
		zap.String("user_id", userID),
		zap.Int("fields", len(updates)-1),
	)
	return s.GetUser(ctx, userID)
}

func validateRegisterInput(in RegisterInput) error {
	if len(in.Username) < 3 {
		return apperror.InvalidArgument("username", "username must be at least 3 characters")
	}
	if len(in.Username) > 50 {
		return apperror.InvalidArgument("username", "username must be at most 50 characters")
	}
	if email := strings.TrimSpace(in.Email); email != "" {
		if !emailRegex.MatchString(email) {
			return apperror.InvalidArgument("email", "invalid email format")
		}
		if len(email) > 100 {
			return apperror.InvalidArgument("email", "email too long")
		}
	}
	return nil
}

// normalizeSkills trims entries, drops blanks and keeps the first occurrence
// of each skill, preserving insertion order.
func normalizeSkills(field string, in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, raw := range in {
		skill := strings.TrimSpace(raw)
		if skill == "" {
			continue
		}
		if len(skill) > MaxSkillLength {
			return nil, apperror.InvalidArgument(field, fmt.Sprintf("skill %q is longer than %d characters", skill, MaxSkillLength))
		}
		if _, dup := seen[skill]; dup {
			continue
		}
		seen[skill] = struct{}{}
		out = append(out, skill)
	}
	if len(out) > MaxSkills {
		return nil, apperror.InvalidArgument(field, fmt.Sprintf("at most %d skills are allowed", MaxSkills))
	}
	return out, nil
}

func containsFold(list []string, needle string) bool {
	for _, s := range list {
		if strings.EqualFold(s, needle) {
			return true
		}
	}
	return false
}
