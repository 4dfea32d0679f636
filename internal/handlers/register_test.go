package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/movielog/movielog/internal/models"
	"github.com/movielog/movielog/internal/services"
)

func TestRegisterHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	joined := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name         string
		inputBody    interface{}
		mockSetup    func(mockSvc *MockRegisterer)
		expectedCode int
		expectedBody interface{}
	}{
		{
			name: "success",
			inputBody: RegisterRequest{
				Username: "john",
				Email:    "john@example.com",
				Password: "pass123",
			},
			mockSetup: func(mockSvc *MockRegisterer) {
				mockSvc.EXPECT().
					Register(gomock.Any(), "john", "john@example.com", "pass123").
					Return(&models.UserDB{
						UserID:   1,
						Username: "john",
						Email:    "john@example.com",
						JoinedAt: joined,
					}, nil)
			},
			expectedCode: http.StatusCreated,
			expectedBody: &RegisterResponse{
				Username: "john",
				Email:    "john@example.com",
				JoinedAt: joined,
			},
		},
		{
			name:         "invalid JSON",
			inputBody:    "{invalid json}",
			mockSetup:    func(mockSvc *MockRegisterer) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: &ErrorResponse{
				Error: "invalid request body",
			},
		},
		{
			name: "duplicate username or email",
			inputBody: RegisterRequest{
				Username: "john",
				Email:    "john@example.com",
				Password: "pass123",
			},
			mockSetup: func(mockSvc *MockRegisterer) {
				mockSvc.EXPECT().
					Register(gomock.Any(), "john", "john@example.com", "pass123").
					Return(nil, services.ErrUserAlreadyExists)
			},
			expectedCode: http.StatusUnauthorized,
			expectedBody: &ErrorResponse{
				Error: "User with same username or email already existed",
			},
		},
		{
			name: "internal error",
			inputBody: RegisterRequest{
				Username: "john",
				Email:    "john@example.com",
				Password: "pass123",
			},
			mockSetup: func(mockSvc *MockRegisterer) {
				mockSvc.EXPECT().
					Register(gomock.Any(), "john", "john@example.com", "pass123").
					Return(nil, errors.New("database error"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: &ErrorResponse{
				Error: "Internal server error",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockRegisterer(ctrl)
			tt.mockSetup(mockSvc)

			var bodyBytes []byte
			switch v := tt.inputBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, _ = json.Marshal(v)
			}

			req := httptest.NewRequest(http.MethodPost, "/user", bytes.NewReader(bodyBytes))
			w := httptest.NewRecorder()

			handler := NewRegisterHandler(mockSvc)
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)

			var respBody interface{}
			switch tt.expectedCode {
			case http.StatusCreated:
				respBody = &RegisterResponse{}
			default:
				respBody = &ErrorResponse{}
			}
			err := json.Unmarshal(w.Body.Bytes(), respBody)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedBody, respBody)
		})
	}
}
