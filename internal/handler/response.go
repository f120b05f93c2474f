package handler

// Response is the envelope every endpoint returns.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func NewSuccessResponse(message string, data any) Response {
	return Response{Success: true, Message: message, Data: data}
}

func NewErrorResponse(message string) Response {
	return Response{Success: false, Message: message}
}
