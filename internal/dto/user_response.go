package dto

import "github.com/SscSPs/invoice_flow_app/internal/core/domain"

type UserResponse struct {
	UserID string `json:"userID"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// SettingsResponse is the owner profile together with its business settings.
type SettingsResponse struct {
	UserResponse
	domain.BusinessSettings
	SenderName string `json:"senderName"`
}

func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID: user.UserID,
		Name:   user.Name,
		Email:  user.Email,
	}
}

func ToSettingsResponse(user *domain.User) SettingsResponse {
	return SettingsResponse{
		UserResponse:     ToUserResponse(user),
		BusinessSettings: user.BusinessSettings,
		SenderName:       user.SenderName(),
	}
}
