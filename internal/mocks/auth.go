package mocks

import (
	"github.com/bytebasket/backend/internal/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockTokenService is a mock implementation of the ITokenService interface
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateToken(userID uuid.UUID, email, role string) (string, error) {
	args := m.Called(userID, email, role)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) ValidateToken(token string) (*types.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TokenClaims), args.Error(1)
}
