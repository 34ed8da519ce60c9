package dto

type UserProfileResponse struct {
	Id       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role,omitempty"`
	Status   string `json:"status,omitempty"`
}
