package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/akolanti/CareerRAG/internal/api"
)

// AskHandler godoc
// @Summary      Ask a question
// @Description  Runs retrieval-augmented generation over the selected university's records. Provider failures still return 200 with the explanation in the answer field.
// @Tags         Ask
// @Accept       json
// @Produce      json
// @Param        request  body      api.AskRequest  true  "Question, API key, and university"
// @Success      200      {object}  api.AskResponse
// @Failure      400      {object}  api.AskResponse "Missing fields or unknown university - guidance in the answer field"
// @Router       /ask [post]
func AskHandler(w http.ResponseWriter, request *http.Request) {
	if !validateContext(request.Context()) {
		logRH.Warn("Invalid Context by request ", "addr", request.RemoteAddr)
		return
	}

	var requestData api.AskRequest
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			logRH.Error("Couldn't close the Ask handler reader :", "error", err)
		}
	}(request.Body)

	if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil {
		// a malformed body is handled like an empty one - the service
		// answers with field guidance, never a transport error
		logRH.Warn("Bad Ask Request", "error", err)
	}

	answer, status := handlerInstance.ragService.Answer(request.Context(), requestData)
	writeJsonResponse(w, status, api.AskResponse{Answer: answer})
}
