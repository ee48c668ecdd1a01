package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	apperrors "carshop/internal/errors"
	"carshop/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) EnsureIndexes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUserRepository) Insert(ctx context.Context, user *model.User) (primitive.ObjectID, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) PromoteByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func TestUserService_Register(t *testing.T) {
	tests := []struct {
		name      string
		userName  string
		email     string
		setupMock func(*MockUserRepository)
		wantRole  model.Role
	}{
		{
			name:     "new user gets the default role",
			userName: "Jamie",
			email:    "jamie@example.com",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "jamie@example.com").Return(nil, mongo.ErrNoDocuments)
				m.On("Insert", mock.Anything, mock.AnythingOfType("*model.User")).Return(primitive.NewObjectID(), nil)
			},
			wantRole: model.RoleUser,
		},
		{
			name:     "registering an existing email returns the existing record",
			userName: "Jamie Again",
			email:    "jamie@example.com",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "jamie@example.com").Return(&model.User{
					Email: "jamie@example.com",
					Name:  "Jamie",
					Role:  model.RoleAdmin,
				}, nil)
			},
			wantRole: model.RoleAdmin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			svc := NewUserService(mockRepo, nil)
			user, err := svc.Register(context.Background(), tt.userName, tt.email)

			require.NoError(t, err)
			assert.Equal(t, tt.email, user.Email)
			assert.Equal(t, tt.wantRole, user.Role)
			mockRepo.AssertExpectations(t)
			mockRepo.AssertNotCalled(t, "PromoteByEmail", mock.Anything, mock.Anything)
		})
	}
}

func TestUserService_Register_ConcurrentDuplicateReturnsExisting(t *testing.T) {
	// Two registrations can race past the existence check; the unique email
	// index rejects the second insert and the surviving record is returned.
	existing := &model.User{
		ID:    primitive.NewObjectID(),
		Name:  "Jamie",
		Email: "jamie@example.com",
		Role:  model.RoleUser,
	}
	dupErr := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}

	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByEmail", mock.Anything, "jamie@example.com").Return(nil, mongo.ErrNoDocuments).Once()
	mockRepo.On("Insert", mock.Anything, mock.AnythingOfType("*model.User")).Return(primitive.NilObjectID, dupErr)
	mockRepo.On("FindByEmail", mock.Anything, "jamie@example.com").Return(existing, nil).Once()

	svc := NewUserService(mockRepo, nil)
	user, err := svc.Register(context.Background(), "Jamie Again", "jamie@example.com")

	require.NoError(t, err)
	assert.Equal(t, existing.ID, user.ID)
	assert.Equal(t, "Jamie", user.Name)
	mockRepo.AssertExpectations(t)
}

func TestUserService_ResolveRole(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		setupMock func(*MockUserRepository)
		wantRole  model.Role
		wantErr   error
	}{
		{
			name:  "admin role resolved",
			email: "boss@example.com",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "boss@example.com").Return(&model.User{
					Email: "boss@example.com",
					Role:  model.RoleAdmin,
				}, nil)
			},
			wantRole: model.RoleAdmin,
		},
		{
			name:  "missing record is user-not-found, not a fault",
			email: "ghost@example.com",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, mongo.ErrNoDocuments)
			},
			wantErr: apperrors.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			svc := NewUserService(mockRepo, nil)
			role, err := svc.ResolveRole(context.Background(), tt.email)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantRole, role)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestUserService_IsAdmin(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		setupMock func(*MockUserRepository)
		want      bool
	}{
		{
			name:  "admin",
			email: "boss@example.com",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "boss@example.com").Return(&model.User{Role: model.RoleAdmin}, nil)
			},
			want: true,
		},
		{
			name:  "plain user",
			email: "buyer@example.com",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "buyer@example.com").Return(&model.User{Role: model.RoleUser}, nil)
			},
			want: false,
		},
		{
			name:  "verified identity without account is not an admin",
			email: "ghost@example.com",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, mongo.ErrNoDocuments)
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			svc := NewUserService(mockRepo, nil)
			admin, err := svc.IsAdmin(context.Background(), tt.email)

			require.NoError(t, err)
			assert.Equal(t, tt.want, admin)
		})
	}
}

func TestUserService_MakeAdmin(t *testing.T) {
	t.Run("promotes existing target", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("PromoteByEmail", mock.Anything, "buyer@example.com").Return(&model.User{
			Email: "buyer@example.com",
			Role:  model.RoleAdmin,
		}, nil)

		svc := NewUserService(mockRepo, nil)
		user, err := svc.MakeAdmin(context.Background(), "buyer@example.com")

		require.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, user.Role)
		mockRepo.AssertExpectations(t)
	})

	t.Run("absent target is user-not-found", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("PromoteByEmail", mock.Anything, "ghost@example.com").Return(nil, mongo.ErrNoDocuments)

		svc := NewUserService(mockRepo, nil)
		user, err := svc.MakeAdmin(context.Background(), "ghost@example.com")

		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		assert.Nil(t, user)
	})
}
