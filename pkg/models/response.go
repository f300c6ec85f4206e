package models

// DataResponse wraps read responses in the {data} envelope.
type DataResponse struct {
	Data any `json:"data"`
}

// MutationResponse wraps mutating responses; Success is always present on
// mutating endpoints.
type MutationResponse struct {
	Data    any  `json:"data,omitempty"`
	Success bool `json:"success"`
}

func OK(data any) DataResponse {
	return DataResponse{Data: data}
}

func Mutated(data any) MutationResponse {
	return MutationResponse{Data: data, Success: true}
}
