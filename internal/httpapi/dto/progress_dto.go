package dto

type UpdateProgressRequest struct {
	Season  int `json:"season" binding:"required,min=1"`
	Episode int `json:"episode" binding:"required,min=1"`
}
