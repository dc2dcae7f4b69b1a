package api

type UniversityInfo struct {
	Name          string `json:"name" example:"Test University"`
	DocumentCount int    `json:"document_count" example:"42"`
}

type UniversityListResponse struct {
	Universities []UniversityInfo `json:"universities"`
}

type UploadResponse struct {
	Message    string         `json:"message" example:"University 'Test University' uploaded successfully"`
	University UniversityInfo `json:"university"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error" example:"University not found"`
}

// requests---------------------

type AskRequest struct {
	Query          string `json:"query" validate:"required"`
	APIKey         string `json:"api_key" validate:"required"`
	UniversityName string `json:"university_name" validate:"required"`
	CustomPrompt   string `json:"custom_prompt,omitempty"`
}

// AskResponse always carries the user-facing text - modeled provider failures
// come back as a 200 with the explanation in Answer.
type AskResponse struct {
	Answer string `json:"answer"`
}
