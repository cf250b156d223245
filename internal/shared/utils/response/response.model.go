// Package response defines the JSON envelope every swiftbus endpoint
// returns, so clients can branch on status without sniffing payload shapes.
package response

// StandardApiResponse is the uniform body for both success and error
// responses. Data carries the payload on success; Errors carries validation
// detail or conflict context (e.g. the contested seat numbers) on failure.
type StandardApiResponse struct {
	Status     string      `json:"status"` // "success" or "error"
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Errors     interface{} `json:"errors,omitempty"`
}
