package user

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/utils/mailing"
	"foodgram/pkg/jwt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	usernamePattern    = regexp.MustCompile(`^[\w.@+-]+$`)
	forbiddenUsernames = []string{"me"}
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		Me(ctx context.Context, userID string) (domain.UserResponse, error)
		GetSubscriptions(ctx context.Context, userID string) ([]domain.SubscriptionAuthor, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
	}
}

// ValidateUsername rejects usernames outside the allowed character set and
// the reserved names that collide with routing (e.g. "me").
func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return domain.ErrUsernameInvalid
	}
	for _, forbidden := range forbiddenUsernames {
		if strings.EqualFold(username, forbidden) {
			return domain.ErrUsernameForbidden
		}
	}
	return nil
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error) {
	if err := ValidateUsername(req.Username); err != nil {
		return domain.UserResponse{}, err
	}

	taken, err := s.userRepository.EmailExists(ctx, req.Email)
	if err != nil {
		return domain.UserResponse{}, err
	}
	if taken {
		return domain.UserResponse{}, domain.ErrEmailTaken
	}

	taken, err = s.userRepository.UsernameExists(ctx, req.Username)
	if err != nil {
		return domain.UserResponse{}, err
	}
	if taken {
		return domain.UserResponse{}, domain.ErrUsernameTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.UserResponse{}, err
	}

	user := &entities.User{
		ID:        uuid.New(),
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hashed),
		Role:      domain.RoleUser,
	}

	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.UserResponse{}, domain.ErrEmailTaken
		}
		return domain.UserResponse{}, err
	}

	// Welcome mail is best-effort; registration must not fail on SMTP errors.
	go func() {
		body := fmt.Sprintf("<p>Welcome to Foodgram, %s!</p>", user.FirstName)
		if err := mailing.SendMail(user.Email, "Welcome to Foodgram", body); err != nil {
			log.Printf("failed to send welcome mail to %s: %v", user.Email, err)
		}
	}()

	return domain.UserResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrCredentialsWrong
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrCredentialsWrong
	}

	token := s.jwtService.GenerateTokenUser(user.ID.String(), user.Role)
	return domain.LoginResponse{
		Token: token,
		Role:  user.Role,
	}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserResponse{}, domain.ErrUserNotFound
		}
		return domain.UserResponse{}, err
	}

	return domain.UserResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}

func (s *userService) GetSubscriptions(ctx context.Context, userID string) ([]domain.SubscriptionAuthor, error) {
	subscriberUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	authors, err := s.userRepository.GetSubscribedAuthors(ctx, subscriberUUID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.SubscriptionAuthor, 0, len(authors))
	for _, author := range authors {
		recipes, err := s.userRepository.GetAuthorRecipes(ctx, author.ID)
		if err != nil {
			return nil, err
		}

		cards := make([]domain.RecipeShortResponse, 0, len(recipes))
		for _, recipe := range recipes {
			cards = append(cards, domain.RecipeShortResponse{
				ID:          recipe.ID,
				Name:        recipe.Name,
				ImageURL:    recipe.ImageURL,
				CookingTime: recipe.CookingTime,
			})
		}

		result = append(result, domain.SubscriptionAuthor{
			UserResponse: domain.UserResponse{
				ID:           author.ID.String(),
				Email:        author.Email,
				Username:     author.Username,
				FirstName:    author.FirstName,
				LastName:     author.LastName,
				IsSubscribed: true,
			},
			Recipes:      cards,
			RecipesCount: len(cards),
		})
	}

	return result, nil
}
