package models

// Envelope is the response shape shared by the query layer and the HTTP API.
// Data is always present so "not found" serialises as data:null.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Total   *int   `json:"total,omitempty"`
	Message string `json:"message,omitempty"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func SuccessResponse[T any](data T) Envelope[T] {
	return Envelope[T]{
		Success: true,
		Data:    data,
	}
}

func ListResponse[T any](data []T) Envelope[[]T] {
	total := len(data)
	return Envelope[[]T]{
		Success: true,
		Data:    data,
		Total:   &total,
	}
}

func ErrorResponse[T any](data T, message string) Envelope[T] {
	return Envelope[T]{
		Success: false,
		Data:    data,
		Message: message,
	}
}
