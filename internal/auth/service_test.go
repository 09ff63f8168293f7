package auth_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"timesheet-management/internal"
	"timesheet-management/internal/auth"
)

func TestAuth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Module Suite")
}

type mockAuthRepository struct {
	usersByEmail map[string]*auth.User
	hashesByID   map[int64]string
	nextID       int64
}

func newMockAuthRepository() *mockAuthRepository {
	return &mockAuthRepository{
		usersByEmail: make(map[string]*auth.User),
		hashesByID:   make(map[int64]string),
		nextID:       1,
	}
}

func (m *mockAuthRepository) GetPasswordForEmail(email string) (string, int64, error) {
	u, exists := m.usersByEmail[email]
	if !exists {
		return "", 0, auth.ErrUserNotFound
	}
	return m.hashesByID[u.ID], u.ID, nil
}

func (m *mockAuthRepository) GetUserByID(userID int64) (*auth.User, error) {
	for _, u := range m.usersByEmail {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

func (m *mockAuthRepository) EmailExists(email string) (bool, error) {
	_, exists := m.usersByEmail[email]
	return exists, nil
}

func (m *mockAuthRepository) CreateUser(params auth.CreateUserParams) (*auth.User, error) {
	u := &auth.User{
		ID:        m.nextID,
		Email:     params.Email,
		FirstName: params.FirstName,
		LastName:  params.LastName,
	}
	m.nextID++
	m.usersByEmail[u.Email] = u
	m.hashesByID[u.ID] = params.PasswordHash
	return u, nil
}

type stubHasher struct{}

func (stubHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (stubHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

var _ = Describe("AuthService", func() {
	var (
		repo    *mockAuthRepository
		tokens  *auth.JWTTokenGenerator
		service *auth.Service
	)

	registerDTO := func(email string) auth.RegisterDTO {
		return auth.RegisterDTO{
			FirstName:   "Jane",
			LastName:    "Doe",
			DateOfBirth: "1992-03-14",
			Gender:      "female",
			Email:       email,
			Password:    "supersecret",
		}
	}

	BeforeEach(func() {
		repo = newMockAuthRepository()
		tokens = auth.NewJWTTokenGenerator("access-secret", "refresh-secret", time.Minute, time.Hour)
		lg := slog.New(slog.NewTextHandler(io.Discard, nil))
		service = auth.NewService(repo, tokens, stubHasher{}, lg)
	})

	Describe("Register", func() {
		It("creates the user with a hashed password and issues tokens", func() {
			session, err := service.Register(registerDTO("jane@mail.com"))
			Expect(err).NotTo(HaveOccurred())
			Expect(session.User.Email).To(Equal("jane@mail.com"))
			Expect(session.Tokens.AccessToken).NotTo(BeEmpty())
			Expect(session.Tokens.RefreshToken).NotTo(BeEmpty())
			Expect(repo.hashesByID[session.User.ID]).To(Equal("hashed:supersecret"))
		})

		It("rejects a duplicate email", func() {
			_, err := service.Register(registerDTO("jane@mail.com"))
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Register(registerDTO("jane@mail.com"))
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(422))
		})

		It("rejects an invalid payload", func() {
			dto := registerDTO("jane@mail.com")
			dto.Password = "short"
			_, err := service.Register(dto)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Authenticate", func() {
		BeforeEach(func() {
			_, err := service.Register(registerDTO("jane@mail.com"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("returns a session for valid credentials", func() {
			session, err := service.Authenticate(auth.LoginDTO{Email: "jane@mail.com", Password: "supersecret"})
			Expect(err).NotTo(HaveOccurred())
			Expect(session.User.Email).To(Equal("jane@mail.com"))
		})

		It("rejects a wrong password", func() {
			_, err := service.Authenticate(auth.LoginDTO{Email: "jane@mail.com", Password: "wrongpass"})
			Expect(err).To(Equal(internal.ErrInvalidCredentials))
		})

		It("rejects an unknown email the same way", func() {
			_, err := service.Authenticate(auth.LoginDTO{Email: "nobody@mail.com", Password: "supersecret"})
			Expect(err).To(Equal(internal.ErrInvalidCredentials))
		})
	})

	Describe("Tokens", func() {
		It("round-trips access token claims", func() {
			session, err := service.Register(registerDTO("jane@mail.com"))
			Expect(err).NotTo(HaveOccurred())

			claims, err := service.ValidateAccessToken(session.Tokens.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.UserID).To(Equal(session.User.ID))
			Expect(claims.Email).To(Equal("jane@mail.com"))
		})

		It("does not accept a refresh token as an access token", func() {
			session, err := service.Register(registerDTO("jane@mail.com"))
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ValidateAccessToken(session.Tokens.RefreshToken)
			Expect(err).To(Equal(internal.ErrInvalidToken))
		})

		It("exchanges a refresh token for a new pair", func() {
			session, err := service.Register(registerDTO("jane@mail.com"))
			Expect(err).NotTo(HaveOccurred())

			pair, err := service.RefreshTokens(session.Tokens.RefreshToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(pair.AccessToken).NotTo(BeEmpty())
		})

		It("rejects garbage tokens", func() {
			_, err := service.ValidateAccessToken("not-a-token")
			Expect(err).To(Equal(internal.ErrInvalidToken))
		})
	})
})
