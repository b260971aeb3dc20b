package models

// ErrorResponse - standard shape for error payloads
type ErrorResponse struct {
	Status  int    `json:"status"`  // HTTP Status Code
	Message string `json:"message"` // error detail
}
