package model

import "time"

// LoginResponse is returned by POST /login.
type LoginResponse struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// DataResponse is returned by GET /data.  TotalCount always equals
// len(Users).
type DataResponse struct {
	Message    string     `json:"message"`
	Users      []UserView `json:"users"`
	TotalCount int        `json:"totalCount"`
}

// NewDataResponse builds a DataResponse, normalising a nil slice to an
// empty one so clients always receive an array.
func NewDataResponse(message string, users []UserView) DataResponse {
	if users == nil {
		users = []UserView{}
	}
	return DataResponse{Message: message, Users: users, TotalCount: len(users)}
}
